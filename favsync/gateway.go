package favsync

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/panpal/panpal/pkg/logger"
)

// Gateway is the remote favorites collaborator. All three operations are
// scoped to the authenticated user carried by the client's credentials.
type Gateway interface {
	ListFavoriteIDs(ctx context.Context) ([]uint, error)
	AddFavorite(ctx context.Context, recipeID uint) error
	RemoveFavorite(ctx context.Context, recipeID uint) error
}

// HTTPGateway talks to the PanPal favorites service over HTTP.
type HTTPGateway struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewHTTPGateway creates a favorites service client. The token is sent
// as a bearer credential on every request.
func NewHTTPGateway(baseURL, token string) *HTTPGateway {
	return &HTTPGateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   10 * time.Second,
		},
	}
}

// ListFavoriteIDs fetches the authoritative favorite set for the user.
func (g *HTTPGateway) ListFavoriteIDs(ctx context.Context) ([]uint, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/api/favorites/ids", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	g.authorize(req)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach favorites service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("favorites service returned status %d", resp.StatusCode)
	}

	var body struct {
		IDs []uint `json:"ids"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode favorites response: %w", err)
	}
	return body.IDs, nil
}

// AddFavorite marks a recipe as favorited. The service treats a repeated
// add as a no-op, so a retried toggle cannot double-apply.
func (g *HTTPGateway) AddFavorite(ctx context.Context, recipeID uint) error {
	return g.mutate(ctx, http.MethodPost, recipeID)
}

// RemoveFavorite unmarks a recipe. Removing an absent favorite succeeds.
func (g *HTTPGateway) RemoveFavorite(ctx context.Context, recipeID uint) error {
	return g.mutate(ctx, http.MethodDelete, recipeID)
}

func (g *HTTPGateway) mutate(ctx context.Context, method string, recipeID uint) error {
	url := fmt.Sprintf("%s/api/favorites/%d", g.baseURL, recipeID)
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	g.authorize(req)

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach favorites service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		logger.Logger.Debug().
			Int("status", resp.StatusCode).
			Str("method", method).
			Uint("recipe_id", recipeID).
			Str("body", string(snippet)).
			Msg("Favorites mutation rejected")
		return fmt.Errorf("favorites service returned status %d", resp.StatusCode)
	}
	return nil
}

func (g *HTTPGateway) authorize(req *http.Request) {
	if g.token != "" {
		req.Header.Set("Authorization", "Bearer "+g.token)
	}
}
