package postgrest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/oauth2"

	"github.com/mbellec/bocage/internal/common"
)

// session is the on-disk shape of a signed-in account. The embedded token
// carries the refresh token so an expired session can be renewed without
// prompting for the password again.
type session struct {
	Expiry       time.Time `json:"expiry"`
	Email        string    `json:"email"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
}

// AuthClient signs accounts in and out against a GoTrue endpoint and caches
// the resulting session on disk. It implements service.Identity.
type AuthClient struct {
	httpClient  *http.Client
	baseURL     string
	apiKey      string
	sessionPath string
}

// NewAuthClient creates an auth client that persists its session at
// sessionPath.
func NewAuthClient(baseURL, apiKey, sessionPath string) (*AuthClient, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("auth: base URL is required")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("auth: API key is required")
	}
	if sessionPath == "" {
		return nil, fmt.Errorf("auth: session path is required")
	}

	return &AuthClient{
		baseURL:     baseURL,
		apiKey:      apiKey,
		sessionPath: sessionPath,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	User         struct {
		Email string `json:"email"`
	} `json:"user"`
}

// SignIn exchanges credentials for a session using the password grant and
// stores it on disk.
func (a *AuthClient) SignIn(ctx context.Context, email, password string) error {
	resp, err := a.tokenRequest(ctx, "password", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return err
	}

	if err := a.saveSession(resp); err != nil {
		return err
	}

	slog.Info("Signed in", "email", resp.User.Email)
	return nil
}

// SignOut discards the cached session. A missing session file is not an
// error.
func (a *AuthClient) SignOut(ctx context.Context) error {
	if err := os.Remove(a.sessionPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove session: %w", err)
	}
	return nil
}

// CurrentActor returns the signed-in email, refreshing the session first if
// it has expired. Without a usable session it reports
// common.ErrUnauthenticated.
func (a *AuthClient) CurrentActor(ctx context.Context) (string, error) {
	sess, err := a.currentSession(ctx)
	if err != nil {
		return "", err
	}
	return sess.Email, nil
}

// TokenSource returns an oauth2 token source backed by the cached session.
// Each call to Token revalidates expiry so long-running processes pick up
// refreshed sessions.
func (a *AuthClient) TokenSource(ctx context.Context) oauth2.TokenSource {
	return &sessionTokenSource{auth: a, ctx: ctx}
}

type sessionTokenSource struct {
	auth *AuthClient
	ctx  context.Context
}

func (s *sessionTokenSource) Token() (*oauth2.Token, error) {
	sess, err := s.auth.currentSession(s.ctx)
	if err != nil {
		return nil, err
	}
	return &oauth2.Token{
		AccessToken:  sess.AccessToken,
		RefreshToken: sess.RefreshToken,
		TokenType:    "Bearer",
		Expiry:       sess.Expiry,
	}, nil
}

func (a *AuthClient) currentSession(ctx context.Context) (*session, error) {
	data, err := os.ReadFile(a.sessionPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, common.ErrUnauthenticated
		}
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	var sess session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("failed to parse session: %w", err)
	}

	if time.Now().Before(sess.Expiry) {
		return &sess, nil
	}

	if sess.RefreshToken == "" {
		return nil, common.ErrUnauthenticated
	}
	return a.refresh(ctx, sess.RefreshToken, sess.Email)
}

func (a *AuthClient) refresh(ctx context.Context, refreshToken, email string) (*session, error) {
	resp, err := a.tokenRequest(ctx, "refresh_token", map[string]string{
		"refresh_token": refreshToken,
	})
	if err != nil {
		slog.Debug("Session refresh failed", "error", err)
		return nil, common.ErrUnauthenticated
	}
	if resp.User.Email == "" {
		resp.User.Email = email
	}

	if err := a.saveSession(resp); err != nil {
		return nil, err
	}
	return a.loadSaved()
}

func (a *AuthClient) tokenRequest(ctx context.Context, grant string, payload map[string]string) (*tokenResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode credentials: %w", err)
	}

	u := fmt.Sprintf("%s/auth/v1/token?grant_type=%s", a.baseURL, grant)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", a.apiKey)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach auth endpoint: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, apiError(resp)
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return nil, fmt.Errorf("failed to decode token response: %w", err)
	}
	if tr.AccessToken == "" {
		return nil, fmt.Errorf("auth response missing access token")
	}
	return &tr, nil
}

func (a *AuthClient) saveSession(tr *tokenResponse) error {
	sess := session{
		Email:        tr.User.Email,
		AccessToken:  tr.AccessToken,
		RefreshToken: tr.RefreshToken,
		Expiry:       time.Now().Add(time.Duration(tr.ExpiresIn) * time.Second),
	}

	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(a.sessionPath), 0o700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}
	if err := os.WriteFile(a.sessionPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	return nil
}

func (a *AuthClient) loadSaved() (*session, error) {
	data, err := os.ReadFile(a.sessionPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}
	var sess session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("failed to parse session: %w", err)
	}
	return &sess, nil
}
