// Package weather fetches the daily forecast from the Open-Meteo API
// and renders it as the French condition text the mood keywords match
// against.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const defaultBaseURL = "https://api.open-meteo.com"

// Forecast is one day of weather, reduced to what the analyzer needs.
type Forecast struct {
	Condition string  // French description, e.g. "Pluvieux (Moderate Rain)"
	WMOCode   int
	MinTemp   float64
	MaxTemp   float64
}

// Summary renders the forecast as analyzer-ready text.
func (f Forecast) Summary() string {
	return fmt.Sprintf("Meteo: %s, Min %.1fC, Max %.1fC.", f.Condition, f.MinTemp, f.MaxTemp)
}

// Client wraps the Open-Meteo forecast API
type Client struct {
	baseURL    string
	latitude   float64
	longitude  float64
	timezone   string
	httpClient *http.Client
}

// NewClient creates a new Open-Meteo client for fixed coordinates.
func NewClient(latitude, longitude float64, timezone string) *Client {
	return &Client{
		baseURL:   defaultBaseURL,
		latitude:  latitude,
		longitude: longitude,
		timezone:  timezone,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// SetBaseURL overrides the API endpoint (for tests).
func (c *Client) SetBaseURL(baseURL string) {
	c.baseURL = baseURL
}

type forecastResponse struct {
	Daily struct {
		WeatherCode []int     `json:"weather_code"`
		TempMax     []float64 `json:"temperature_2m_max"`
		TempMin     []float64 `json:"temperature_2m_min"`
	} `json:"daily"`
}

// DailyForecast fetches today's forecast.
// Includes retry logic with exponential backoff (up to 3 attempts).
func (c *Client) DailyForecast(ctx context.Context) (*Forecast, error) {
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(1<<uint(attempt-1)) * time.Second
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		forecast, err := c.fetchForecast(ctx)
		if err == nil {
			return forecast, nil
		}
		lastErr = err
	}

	return nil, fmt.Errorf("after 3 attempts: %w", lastErr)
}

func (c *Client) fetchForecast(ctx context.Context) (*Forecast, error) {
	params := url.Values{}
	params.Set("latitude", fmt.Sprintf("%.4f", c.latitude))
	params.Set("longitude", fmt.Sprintf("%.4f", c.longitude))
	params.Set("daily", "weather_code,temperature_2m_max,temperature_2m_min")
	params.Set("timezone", c.timezone)
	params.Set("forecast_days", "1")

	httpReq, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/v1/forecast?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("open-meteo returned status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var apiResp forecastResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	daily := apiResp.Daily
	if len(daily.WeatherCode) == 0 || len(daily.TempMax) == 0 || len(daily.TempMin) == 0 {
		return nil, fmt.Errorf("no daily forecast in response")
	}

	code := daily.WeatherCode[0]
	return &Forecast{
		Condition: DescribeWMO(code),
		WMOCode:   code,
		MinTemp:   daily.TempMin[0],
		MaxTemp:   daily.TempMax[0],
	}, nil
}

// wmoDescriptions maps WMO weather codes (open-meteo.com/en/docs) to
// French condition text. The rain/cloud/sun keywords the analyzer
// matches on are embedded in these strings.
var wmoDescriptions = map[int]string{
	0:  "Ensoleillé (Sunny)",
	1:  "Nuageux (Mainly Clear)",
	2:  "Nuageux (Partly Cloudy)",
	3:  "Nuageux (Overcast)",
	45: "Brumeux (Fog)",
	48: "Brumeux (Rime Fog)",
	51: "Bruine (Light Drizzle)",
	53: "Bruine (Moderate Drizzle)",
	55: "Bruine (Dense Drizzle)",
	56: "Bruine gelée (Freezing Drizzle)",
	57: "Bruine gelée (Heavy Freezing Drizzle)",
	61: "Pluvieux (Light Rain)",
	63: "Pluvieux (Moderate Rain)",
	65: "Pluvieux (Heavy Rain)",
	66: "Pluie gelée (Light Freezing Rain)",
	67: "Pluie gelée (Heavy Freezing Rain)",
	71: "Neige (Light Snow)",
	73: "Neige (Moderate Snow)",
	75: "Neige (Heavy Snow)",
	77: "Grêle de neige (Snow Grains)",
	80: "Averses (Light Showers)",
	81: "Averses (Moderate Showers)",
	82: "Averses violentes (Violent Showers)",
	85: "Averses de neige (Light Snow Showers)",
	86: "Averses de neige (Heavy Snow Showers)",
	95: "Orageux (Thunderstorm)",
	96: "Orageux (Thunderstorm with Light Hail)",
	99: "Orageux (Thunderstorm with Heavy Hail)",
}

// DescribeWMO returns the French condition text for a WMO code.
// Unknown codes read as cloudy rather than failing the run.
func DescribeWMO(code int) string {
	if desc, ok := wmoDescriptions[code]; ok {
		return desc
	}
	return "Nuageux (Unknown)"
}
