// Mixtape service client, modeled on the service's REST contract.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/desertthunder/tapedeck/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

// MixtapeService defines the operations the editor needs from the mixtape
// service backend.
type MixtapeService interface {
	// GetMixtape retrieves a mixtape by its public id.
	GetMixtape(ctx context.Context, publicID string) (*MixtapeResponse, error)

	// CreateMixtape creates a new mixtape. Without an access token the
	// mixtape is created anonymously and remains claimable.
	CreateMixtape(ctx context.Context, req *MixtapeRequest) (*MixtapeResponse, error)

	// UpdateMixtape replaces the editable fields of a mixtape.
	UpdateMixtape(ctx context.Context, publicID string, req *MixtapeRequest) (*MixtapeResponse, error)

	// ClaimMixtape attaches an anonymously created mixtape to the
	// authenticated user's account.
	ClaimMixtape(ctx context.Context, publicID string) (*MixtapeResponse, error)

	// Undo steps the mixtape one version back in its server-side history.
	// The response is a complete snapshot of that point in history.
	Undo(ctx context.Context, publicID string) (*MixtapeResponse, error)

	// Redo steps the mixtape one version forward in its server-side history.
	Redo(ctx context.Context, publicID string) (*MixtapeResponse, error)

	// SpotifyExport exports the mixtape as a Spotify playlist and returns
	// the mixtape with spotify_playlist_url set.
	SpotifyExport(ctx context.Context, publicID string) (*MixtapeResponse, error)

	// ListMixtapes retrieves overviews of the authenticated user's mixtapes.
	ListMixtapes(ctx context.Context) ([]MixtapeOverview, error)
}

// TrackSearchService searches the music catalog for tracks to add.
type TrackSearchService interface {
	SearchTracks(ctx context.Context, query string) ([]TrackDetails, error)
}

// Client implements [MixtapeService] and [TrackSearchService] against the
// mixtape service's HTTP API.
//
// Requests pass through a [rate.Limiter] so bursts of immediate saves stay
// within the service's politeness budget.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	token      *oauth2.Token
}

// ClientOpts contains configuration options for creating a Client.
type ClientOpts struct {
	BaseURL     string
	AccessToken string
	HTTPClient  *http.Client
	RateLimit   float64
}

// NewClient creates a new mixtape service client.
func NewClient(opts ClientOpts) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = "http://localhost:8000/api"
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}

	c := &Client{
		baseURL:    opts.BaseURL,
		httpClient: opts.HTTPClient,
		limiter:    rate.NewLimiter(rate.Limit(opts.RateLimit), 1),
	}

	if opts.AccessToken != "" {
		c.Authenticate(context.Background(), opts.AccessToken)
	}

	return c
}

// Authenticate installs a bearer access token, wrapping the transport in an
// [oauth2] client so every request carries the Authorization header.
func (c *Client) Authenticate(ctx context.Context, accessToken string) {
	c.token = &oauth2.Token{AccessToken: accessToken}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	c.httpClient = oauth2.NewClient(ctx, oauth2.StaticTokenSource(c.token))
}

// IsAuthenticated reports whether the client carries an access token.
func (c *Client) IsAuthenticated() bool {
	return c.token != nil && c.token.AccessToken != ""
}

// doRequest performs an HTTP request against the mixtape API and decodes the
// JSON response into result when non-nil.
func (c *Client) doRequest(ctx context.Context, method, endpoint string, body any, result any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	apiURL := c.baseURL + endpoint

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, apiURL, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return fmt.Errorf("%w: %s %s", shared.ErrNotAuthenticated, method, endpoint)
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", shared.ErrMixtapeNotFound, endpoint)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return fmt.Errorf("%w: status %d on %s %s", shared.ErrAPIRequest, resp.StatusCode, method, endpoint)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// GetMixtape retrieves a mixtape by its public id.
func (c *Client) GetMixtape(ctx context.Context, publicID string) (*MixtapeResponse, error) {
	var mixtape MixtapeResponse
	endpoint := fmt.Sprintf("/mixtape/%s", publicID)
	if err := c.doRequest(ctx, http.MethodGet, endpoint, nil, &mixtape); err != nil {
		return nil, err
	}
	return &mixtape, nil
}

// CreateMixtape creates a new mixtape and returns it with its assigned public id.
func (c *Client) CreateMixtape(ctx context.Context, req *MixtapeRequest) (*MixtapeResponse, error) {
	var mixtape MixtapeResponse
	if err := c.doRequest(ctx, http.MethodPost, "/mixtape", req, &mixtape); err != nil {
		return nil, err
	}
	return &mixtape, nil
}

// UpdateMixtape replaces the editable fields of a mixtape.
func (c *Client) UpdateMixtape(ctx context.Context, publicID string, req *MixtapeRequest) (*MixtapeResponse, error) {
	var mixtape MixtapeResponse
	endpoint := fmt.Sprintf("/mixtape/%s", publicID)
	if err := c.doRequest(ctx, http.MethodPut, endpoint, req, &mixtape); err != nil {
		return nil, err
	}
	return &mixtape, nil
}

// ClaimMixtape attaches an anonymous mixtape to the authenticated user.
func (c *Client) ClaimMixtape(ctx context.Context, publicID string) (*MixtapeResponse, error) {
	if !c.IsAuthenticated() {
		return nil, fmt.Errorf("%w: claim requires an access token", shared.ErrNotAuthenticated)
	}

	var mixtape MixtapeResponse
	endpoint := fmt.Sprintf("/mixtape/%s/claim", publicID)
	if err := c.doRequest(ctx, http.MethodPost, endpoint, struct{}{}, &mixtape); err != nil {
		return nil, err
	}
	return &mixtape, nil
}

// Undo steps the mixtape one version back and returns the full snapshot.
func (c *Client) Undo(ctx context.Context, publicID string) (*MixtapeResponse, error) {
	var mixtape MixtapeResponse
	endpoint := fmt.Sprintf("/mixtape/%s/undo", publicID)
	if err := c.doRequest(ctx, http.MethodPost, endpoint, nil, &mixtape); err != nil {
		return nil, err
	}
	return &mixtape, nil
}

// Redo steps the mixtape one version forward and returns the full snapshot.
func (c *Client) Redo(ctx context.Context, publicID string) (*MixtapeResponse, error) {
	var mixtape MixtapeResponse
	endpoint := fmt.Sprintf("/mixtape/%s/redo", publicID)
	if err := c.doRequest(ctx, http.MethodPost, endpoint, nil, &mixtape); err != nil {
		return nil, err
	}
	return &mixtape, nil
}

// SpotifyExport exports the mixtape as a Spotify playlist.
func (c *Client) SpotifyExport(ctx context.Context, publicID string) (*MixtapeResponse, error) {
	var mixtape MixtapeResponse
	endpoint := fmt.Sprintf("/mixtape/%s/spotify-export", publicID)
	if err := c.doRequest(ctx, http.MethodPost, endpoint, nil, &mixtape); err != nil {
		return nil, err
	}
	return &mixtape, nil
}

// ListMixtapes retrieves overviews of the authenticated user's mixtapes.
func (c *Client) ListMixtapes(ctx context.Context) ([]MixtapeOverview, error) {
	if !c.IsAuthenticated() {
		return nil, fmt.Errorf("%w: listing requires an access token", shared.ErrNotAuthenticated)
	}

	var overviews []MixtapeOverview
	if err := c.doRequest(ctx, http.MethodGet, "/mixtape", nil, &overviews); err != nil {
		return nil, err
	}
	return overviews, nil
}

// SearchTracks searches the music catalog for tracks matching the query.
func (c *Client) SearchTracks(ctx context.Context, query string) ([]TrackDetails, error) {
	if query == "" {
		return nil, fmt.Errorf("%w: empty search query", shared.ErrInvalidInput)
	}

	var results []TrackDetails
	endpoint := fmt.Sprintf("/spotify/search?query=%s", url.QueryEscape(query))
	if err := c.doRequest(ctx, http.MethodGet, endpoint, nil, &results); err != nil {
		return nil, err
	}
	return results, nil
}

var (
	_ MixtapeService     = (*Client)(nil)
	_ TrackSearchService = (*Client)(nil)
)
