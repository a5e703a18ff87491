package providers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/i474232898/meteobeguda/internal/weather"
)

// DefaultBaseURL is where the La Beguda Alta station publishes its downloads.
const DefaultBaseURL = "http://www.meteobeguda.cat"

// MeteoBegudaSource implements weather.Source for a Davis-style station that
// publishes downld02.txt (two days) and downld08.txt (eight days).
type MeteoBegudaSource struct {
	name    string
	baseURL string
	fetch   *fetcher
}

// NewMeteoBegudaSource creates a source rooted at baseURL. An empty baseURL
// selects DefaultBaseURL.
func NewMeteoBegudaSource(client *http.Client, baseURL string) *MeteoBegudaSource {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &MeteoBegudaSource{
		name:    "meteobeguda",
		baseURL: strings.TrimRight(baseURL, "/"),
		fetch: newFetcher("meteobeguda", HTTPClientConfig{
			Client: client,
			Backoff: BackoffConfig{
				MaxRetries:      3,
				InitialInterval: 500 * time.Millisecond,
				MaxInterval:     5 * time.Second,
			},
		}),
	}
}

func (s *MeteoBegudaSource) Name() string {
	return s.name
}

// URL returns the download address for w.
func (s *MeteoBegudaSource) URL(w weather.Window) (string, error) {
	switch w {
	case weather.WindowTwoDays:
		return s.baseURL + "/downld02.txt", nil
	case weather.WindowEightDays:
		return s.baseURL + "/downld08.txt", nil
	default:
		return "", fmt.Errorf("unsupported window: %d days", int(w))
	}
}

// Fetch downloads the raw text for w.
func (s *MeteoBegudaSource) Fetch(ctx context.Context, w weather.Window) ([]byte, error) {
	u, err := s.URL(w)
	if err != nil {
		return nil, err
	}
	return s.fetch.get(ctx, u)
}
