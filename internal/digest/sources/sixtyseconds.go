package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/sony/gobreaker"

	"github.com/i474232898/sixtyseconds/internal/digest"
)

// DefaultSixtySecondsURL is the public 60s API endpoint.
const DefaultSixtySecondsURL = "https://60s-api.viki.moe/v2/60s"

// SixtySecondsSource implements the digest.Source interface for the 60s API.
type SixtySecondsSource struct {
	name    string
	baseURL string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
}

// NewSixtySecondsSource creates the source. An empty baseURL selects the public endpoint.
func NewSixtySecondsSource(client *http.Client, baseURL string) *SixtySecondsSource {
	if baseURL == "" {
		baseURL = DefaultSixtySecondsURL
	}

	return &SixtySecondsSource{
		name:    "sixtyseconds",
		baseURL: baseURL,
		client:  client,
		circuit: newCircuitBreaker("sixtyseconds"),
	}
}

func (p *SixtySecondsSource) Name() string {
	return p.name
}

func (p *SixtySecondsSource) Fetch(ctx context.Context) (digest.Digest, error) {
	req, err := http.NewRequest(http.MethodGet, p.baseURL, nil)
	if err != nil {
		return digest.Digest{}, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := doRequest(ctx, p.client, p.circuit, req)
	if err != nil {
		return digest.Digest{}, err
	}
	defer resp.Body.Close()

	var payload digest.Envelope
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return digest.Digest{}, fmt.Errorf("decode envelope: %w", err)
	}

	if payload.Code != digest.EnvelopeCodeOK {
		return digest.Digest{}, fmt.Errorf("%w: %d %s", ErrEnvelopeCode, payload.Code, payload.Message)
	}
	// An empty object carries nothing to show, same as a missing one.
	if payload.Data == nil || (payload.Data.Date == "" && len(payload.Data.News) == 0) {
		return digest.Digest{}, ErrEmptyData
	}

	return *payload.Data, nil
}
