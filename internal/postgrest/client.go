// Package postgrest implements the backend store contract against a
// Supabase-style PostgREST API.
package postgrest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/oauth2"

	"github.com/mbellec/bocage/internal/common"
	"github.com/mbellec/bocage/internal/model"
	"github.com/mbellec/bocage/internal/service"
)

const (
	prospectColumns = "id,external_ref,honorific,name,street,postal_code,city," +
		"department,zone,phone_home,phone_farm,email,estimated_area_ha," +
		"area_source,contract_area_ha,tonnage_area_ha,tonnage_total," +
		"certifications,latitude,longitude,loyalty_years,relevance_score," +
		"account_manager"
	interactionColumns = "id,prospect_id,kind,notes,created_at,created_by"
)

// Config holds the connection settings for a PostgREST backend.
type Config struct {
	// BaseURL is the project root, e.g. https://xyz.supabase.co.
	BaseURL string
	// APIKey is the project's public (anon) key, sent on every request.
	APIKey string
	Limits service.StoreLimits
	Retry  service.RetryOptions
}

// Client implements service.Store over HTTP. Requests carry the project API
// key plus the session bearer token from the token source.
type Client struct {
	httpClient *http.Client
	tokens     oauth2.TokenSource
	baseURL    string
	apiKey     string
	limits     service.StoreLimits
	retry      service.RetryOptions
}

// NewClient creates a new PostgREST client. The token source supplies the
// per-session bearer token; row caps of zero fall back to the defaults.
func NewClient(cfg Config, tokens oauth2.TokenSource) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("postgrest: base URL is required")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("postgrest: API key is required")
	}
	limits := cfg.Limits
	if limits.Prospects <= 0 {
		limits.Prospects = service.DefaultLimits().Prospects
	}
	if limits.Interactions <= 0 {
		limits.Interactions = service.DefaultLimits().Interactions
	}

	retry := cfg.Retry
	if retry.MaxAttempts <= 0 {
		retry.MaxAttempts = 3
	}
	if retry.InitialDelay <= 0 {
		retry.InitialDelay = 500 * time.Millisecond
	}

	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		tokens:  tokens,
		limits:  limits,
		retry:   retry,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

// prospectRow mirrors the prospects table. Nullable columns decode to nil
// pointers directly.
type prospectRow struct {
	Honorific       *string  `json:"honorific"`
	Street          *string  `json:"street"`
	PostalCode      *string  `json:"postal_code"`
	City            *string  `json:"city"`
	Department      *string  `json:"department"`
	Zone            *string  `json:"zone"`
	PhoneHome       *string  `json:"phone_home"`
	PhoneFarm       *string  `json:"phone_farm"`
	Email           *string  `json:"email"`
	EstimatedAreaHa *float64 `json:"estimated_area_ha"`
	AreaSource      *string  `json:"area_source"`
	ContractAreaHa  *float64 `json:"contract_area_ha"`
	TonnageAreaHa   *float64 `json:"tonnage_area_ha"`
	TonnageTotal    *float64 `json:"tonnage_total"`
	Certifications  *string  `json:"certifications"`
	Latitude        *float64 `json:"latitude"`
	Longitude       *float64 `json:"longitude"`
	LoyaltyYears    *int     `json:"loyalty_years"`
	AccountManager  *string  `json:"account_manager"`
	ExternalRef     string   `json:"external_ref"`
	Name            string   `json:"name"`
	ID              int64    `json:"id"`
	RelevanceScore  int      `json:"relevance_score"`
}

type interactionRow struct {
	Notes      *string   `json:"notes"`
	CreatedBy  *string   `json:"created_by"`
	Kind       string    `json:"kind"`
	CreatedAt  time.Time `json:"created_at"`
	ID         int64     `json:"id"`
	ProspectID int64     `json:"prospect_id"`
}

// FetchProspects retrieves all prospects ordered by relevance score
// descending, up to the configured cap.
func (c *Client) FetchProspects(ctx context.Context) ([]model.Prospect, bool, error) {
	q := url.Values{}
	q.Set("select", prospectColumns)
	q.Set("order", "relevance_score.desc")
	q.Set("limit", strconv.Itoa(c.limits.Prospects))

	var rows []prospectRow
	if err := c.get(ctx, "/rest/v1/prospects", q, &rows); err != nil {
		return nil, false, err
	}

	prospects := make([]model.Prospect, 0, len(rows))
	for i := range rows {
		prospects = append(prospects, rows[i].toModel())
	}
	return prospects, len(prospects) >= c.limits.Prospects, nil
}

// FetchInteractions retrieves the most recent interactions under the recency
// key (created_at desc, id desc), up to the configured cap.
func (c *Client) FetchInteractions(ctx context.Context) ([]model.Interaction, bool, error) {
	q := url.Values{}
	q.Set("select", interactionColumns)
	q.Set("order", "created_at.desc,id.desc")
	q.Set("limit", strconv.Itoa(c.limits.Interactions))

	var rows []interactionRow
	if err := c.get(ctx, "/rest/v1/interactions", q, &rows); err != nil {
		return nil, false, err
	}

	interactions := make([]model.Interaction, 0, len(rows))
	for i := range rows {
		it, err := rows[i].toModel()
		if err != nil {
			return nil, false, err
		}
		interactions = append(interactions, it)
	}
	return interactions, len(interactions) >= c.limits.Interactions, nil
}

// InsertInteraction appends one interaction. The Prefer header asks the
// backend to return the stored row so the caller gets the assigned id and
// timestamp without a second round trip.
func (c *Client) InsertInteraction(ctx context.Context, in model.NewInteraction) (*model.Interaction, error) {
	payload := map[string]any{
		"prospect_id": in.ProspectID,
		"kind":        string(in.Kind),
		"notes":       in.Notes,
		"created_by":  in.CreatedBy,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode interaction: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/rest/v1/interactions", url.Values{"select": {interactionColumns}}, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "return=representation")

	// Mutations never retry; a lost response would risk a duplicate row.
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to insert interaction: %w: %v", common.ErrStoreConnection, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return nil, apiError(resp)
	}

	var rows []interactionRow
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("failed to decode insert response: %w", err)
	}
	if len(rows) != 1 {
		return nil, fmt.Errorf("expected one inserted row, got %d", len(rows))
	}

	inserted, err := rows[0].toModel()
	if err != nil {
		return nil, err
	}
	return &inserted, nil
}

// Close implements service.Store. The HTTP client holds no resources that
// need explicit release.
func (c *Client) Close() error { return nil }

// get runs a request with retries. Transient failures (connection loss,
// rate limits, server errors) retry with backoff; anything else fails
// immediately.
func (c *Client) get(ctx context.Context, path string, q url.Values, out any) error {
	return common.WithRetry(ctx, func() error {
		err := c.getOnce(ctx, path, q, out)
		if err == nil {
			return nil
		}
		if common.IsRetryable(err) || errors.Is(err, common.ErrStoreConnection) {
			return err
		}
		return &common.RetryableError{Err: err, Retryable: false}
	}, c.retry)
}

func (c *Client) getOnce(ctx context.Context, path string, q url.Values, out any) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, q, nil)
	if err != nil {
		return err
	}

	slog.Debug("Requesting rows", "path", path, "query", q.Encode())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch %s: %w: %v", path, common.ErrStoreConnection, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return apiError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, q url.Values, body io.Reader) (*http.Request, error) {
	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("apikey", c.apiKey)
	if c.tokens != nil {
		token, err := c.tokens.Token()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve session token: %w", err)
		}
		token.SetAuthHeader(req)
	}
	return req, nil
}

func apiError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var sentinel error
	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		sentinel = common.ErrUnauthenticated
	case resp.StatusCode == http.StatusNotFound:
		sentinel = common.ErrNotFound
	case resp.StatusCode == http.StatusConflict:
		sentinel = common.ErrDuplicateEntry
	case resp.StatusCode == http.StatusTooManyRequests:
		sentinel = common.ErrStoreRateLimit
	case resp.StatusCode >= http.StatusInternalServerError:
		sentinel = common.ErrStoreConnection
	}

	if sentinel != nil {
		return fmt.Errorf("backend API error: %d - %s: %w", resp.StatusCode, string(body), sentinel)
	}
	return fmt.Errorf("backend API error: %d - %s", resp.StatusCode, string(body))
}

func (r *prospectRow) toModel() model.Prospect {
	return model.Prospect{
		ID:              r.ID,
		ExternalRef:     r.ExternalRef,
		Honorific:       r.Honorific,
		Name:            r.Name,
		Street:          r.Street,
		PostalCode:      r.PostalCode,
		City:            r.City,
		Department:      r.Department,
		Zone:            r.Zone,
		PhoneHome:       r.PhoneHome,
		PhoneFarm:       r.PhoneFarm,
		Email:           r.Email,
		EstimatedAreaHa: r.EstimatedAreaHa,
		AreaSource:      r.AreaSource,
		ContractAreaHa:  r.ContractAreaHa,
		TonnageAreaHa:   r.TonnageAreaHa,
		TonnageTotal:    r.TonnageTotal,
		Certifications:  r.Certifications,
		Latitude:        r.Latitude,
		Longitude:       r.Longitude,
		LoyaltyYears:    r.LoyaltyYears,
		RelevanceScore:  r.RelevanceScore,
		AccountManager:  r.AccountManager,
	}
}

func (r *interactionRow) toModel() (model.Interaction, error) {
	kind, err := model.ParseInteractionKind(r.Kind)
	if err != nil {
		return model.Interaction{}, fmt.Errorf("interaction %d: %w", r.ID, err)
	}
	return model.Interaction{
		ID:         r.ID,
		ProspectID: r.ProspectID,
		Kind:       kind,
		Notes:      r.Notes,
		CreatedAt:  r.CreatedAt,
		CreatedBy:  r.CreatedBy,
	}, nil
}
