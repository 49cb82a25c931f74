package weather

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestDailyForecast(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("daily"); !strings.Contains(got, "weather_code") {
			t.Errorf("daily param = %q, want weather_code included", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"daily":{"weather_code":[63],"temperature_2m_max":[14.2],"temperature_2m_min":[8.1]}}`))
	}))
	defer server.Close()

	client := NewClient(44.8404, -0.5805, "Europe/Paris")
	client.SetBaseURL(server.URL)

	forecast, err := client.DailyForecast(context.Background())
	if err != nil {
		t.Fatalf("DailyForecast: %v", err)
	}
	if forecast.WMOCode != 63 {
		t.Errorf("wmo code = %d, want 63", forecast.WMOCode)
	}
	if forecast.Condition != "Pluvieux (Moderate Rain)" {
		t.Errorf("condition = %q, want moderate rain text", forecast.Condition)
	}
	if forecast.MaxTemp != 14.2 {
		t.Errorf("max temp = %v, want 14.2", forecast.MaxTemp)
	}
}

func TestDailyForecastEmptyResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"daily":{}}`))
	}))
	defer server.Close()

	client := NewClient(44.8404, -0.5805, "Europe/Paris")
	client.SetBaseURL(server.URL)

	if _, err := client.DailyForecast(context.Background()); err == nil {
		t.Error("expected an error for empty daily block")
	}
}

func TestDescribeWMO(t *testing.T) {
	tests := []struct {
		name string
		code int
		want string
	}{
		{"clear sky", 0, "Ensoleillé (Sunny)"},
		{"overcast", 3, "Nuageux (Overcast)"},
		{"light rain", 61, "Pluvieux (Light Rain)"},
		{"thunderstorm", 95, "Orageux (Thunderstorm)"},
		{"unknown code", 42, "Nuageux (Unknown)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DescribeWMO(tt.code); got != tt.want {
				t.Errorf("DescribeWMO(%d) = %q, want %q", tt.code, got, tt.want)
			}
		})
	}
}

func TestSummary(t *testing.T) {
	f := Forecast{Condition: "Ensoleillé (Sunny)", MinTemp: 10, MaxTemp: 22.5}
	got := f.Summary()
	if !strings.Contains(got, "Ensoleillé") || !strings.Contains(got, "Max 22.5C") {
		t.Errorf("Summary() = %q", got)
	}
}
