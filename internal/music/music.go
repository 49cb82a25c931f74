// Package music derives averaged audio features from recent Spotify
// listening history. When Spotify is not configured or unreachable the
// neutral feature set is used instead; music is an enrichment, never a
// required input.
package music

import (
	"context"
	"fmt"

	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/jmottin/moodcast-server/internal/mood"
)

const recentTrackLimit = 20

// api is the slice of the Spotify client the source needs. Narrowed
// for testability.
type api interface {
	PlayerRecentlyPlayedOpt(ctx context.Context, opt *spotify.RecentlyPlayedOptions) ([]spotify.RecentlyPlayedItem, error)
	GetAudioFeatures(ctx context.Context, ids ...spotify.ID) ([]*spotify.AudioFeatures, error)
}

// Source produces averaged features over recent listening.
type Source struct {
	api api
}

// NewSource wraps an already-authenticated Spotify client.
func NewSource(client *spotify.Client) *Source {
	return &Source{api: client}
}

// NewFromCredentials builds a source using the client-credentials flow.
func NewFromCredentials(ctx context.Context, clientID, clientSecret string) (*Source, error) {
	config := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     spotifyauth.TokenURL,
	}
	token, err := config.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("authenticating with spotify: %w", err)
	}

	httpClient := spotifyauth.New().Client(ctx, token)
	return NewSource(spotify.New(httpClient)), nil
}

// RecentFeatures averages audio features over the most recent tracks.
// An empty history yields the neutral feature set without error.
func (s *Source) RecentFeatures(ctx context.Context) (mood.MusicFeatures, error) {
	items, err := s.api.PlayerRecentlyPlayedOpt(ctx, &spotify.RecentlyPlayedOptions{Limit: recentTrackLimit})
	if err != nil {
		return mood.NeutralMusic, fmt.Errorf("fetching recently played: %w", err)
	}
	if len(items) == 0 {
		return mood.NeutralMusic, nil
	}

	ids := make([]spotify.ID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.Track.ID)
	}

	features, err := s.api.GetAudioFeatures(ctx, ids...)
	if err != nil {
		return mood.NeutralMusic, fmt.Errorf("fetching audio features: %w", err)
	}

	var valence, energy, tempo, danceability float64
	count := 0
	for _, f := range features {
		if f == nil {
			continue // Track has no audio features
		}
		valence += float64(f.Valence)
		energy += float64(f.Energy)
		tempo += float64(f.Tempo)
		danceability += float64(f.Danceability)
		count++
	}
	if count == 0 {
		return mood.NeutralMusic, nil
	}

	n := float64(count)
	return mood.MusicFeatures{
		Valence:      valence / n,
		Energy:       energy / n,
		Tempo:        int(tempo / n),
		Danceability: danceability / n,
	}, nil
}
