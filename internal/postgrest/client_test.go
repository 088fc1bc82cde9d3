package postgrest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/oauth2"

	"github.com/mbellec/bocage/internal/common"
	"github.com/mbellec/bocage/internal/model"
	"github.com/mbellec/bocage/internal/service"
)

func staticTokens(token string) oauth2.TokenSource {
	return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
}

func newTestClient(t *testing.T, handler http.Handler, limits service.StoreLimits) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(Config{
		BaseURL: srv.URL,
		APIKey:  "anon-key",
		Limits:  limits,
		Retry:   service.RetryOptions{MaxAttempts: 2, InitialDelay: time.Millisecond, MaxDelay: time.Millisecond},
	}, staticTokens("session-token"))
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	return client
}

func TestFetchProspects(t *testing.T) {
	var gotQuery string
	var gotAPIKey, gotAuth string

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rest/v1/prospects" {
			http.NotFound(w, r)
			return
		}
		gotQuery = r.URL.Query().Get("order")
		gotAPIKey = r.Header.Get("apikey")
		gotAuth = r.Header.Get("Authorization")

		area := 62.5
		_ = json.NewEncoder(w).Encode([]prospectRow{
			{ID: 1, ExternalRef: "T0001", Name: "Durand", RelevanceScore: 75, EstimatedAreaHa: &area},
			{ID: 2, ExternalRef: "T0002", Name: "Morel", RelevanceScore: 40},
		})
	})

	client := newTestClient(t, handler, service.StoreLimits{Prospects: 500, Interactions: 1000})

	prospects, truncated, err := client.FetchProspects(context.Background())
	if err != nil {
		t.Fatalf("FetchProspects() error = %v", err)
	}
	if truncated {
		t.Error("expected no truncation below the cap")
	}
	if len(prospects) != 2 {
		t.Fatalf("expected 2 prospects, got %d", len(prospects))
	}
	if prospects[0].Name != "Durand" || prospects[0].EstimatedAreaHa == nil || *prospects[0].EstimatedAreaHa != 62.5 {
		t.Errorf("unexpected first prospect: %+v", prospects[0])
	}
	if gotQuery != "relevance_score.desc" {
		t.Errorf("order = %q, want relevance_score.desc", gotQuery)
	}
	if gotAPIKey != "anon-key" {
		t.Errorf("apikey header = %q", gotAPIKey)
	}
	if gotAuth != "Bearer session-token" {
		t.Errorf("Authorization header = %q", gotAuth)
	}
}

func TestFetchProspectsTruncated(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]prospectRow{
			{ID: 1, ExternalRef: "T0001", Name: "Durand"},
			{ID: 2, ExternalRef: "T0002", Name: "Morel"},
		})
	})

	client := newTestClient(t, handler, service.StoreLimits{Prospects: 2, Interactions: 1000})

	_, truncated, err := client.FetchProspects(context.Background())
	if err != nil {
		t.Fatalf("FetchProspects() error = %v", err)
	}
	if !truncated {
		t.Error("expected truncation when the row count hits the cap")
	}
}

func TestFetchInteractions(t *testing.T) {
	var gotOrder, gotLimit string

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rest/v1/interactions" {
			http.NotFound(w, r)
			return
		}
		gotOrder = r.URL.Query().Get("order")
		gotLimit = r.URL.Query().Get("limit")

		_ = json.NewEncoder(w).Encode([]interactionRow{
			{ID: 9, ProspectID: 1, Kind: "interested", CreatedAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)},
		})
	})

	client := newTestClient(t, handler, service.StoreLimits{Prospects: 500, Interactions: 1000})

	interactions, truncated, err := client.FetchInteractions(context.Background())
	if err != nil {
		t.Fatalf("FetchInteractions() error = %v", err)
	}
	if truncated {
		t.Error("expected no truncation")
	}
	if len(interactions) != 1 || interactions[0].Kind != model.KindInterested {
		t.Fatalf("unexpected interactions: %+v", interactions)
	}
	if gotOrder != "created_at.desc,id.desc" {
		t.Errorf("order = %q, want created_at.desc,id.desc", gotOrder)
	}
	if gotLimit != "1000" {
		t.Errorf("limit = %q, want 1000", gotLimit)
	}
}

func TestFetchInteractionsRejectsUnknownKind(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]interactionRow{
			{ID: 1, ProspectID: 1, Kind: "ghosted"},
		})
	})

	client := newTestClient(t, handler, service.StoreLimits{})

	if _, _, err := client.FetchInteractions(context.Background()); err == nil {
		t.Error("expected error for unknown interaction kind")
	}
}

func TestInsertInteraction(t *testing.T) {
	notes := "left voicemail"

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/rest/v1/interactions" {
			http.NotFound(w, r)
			return
		}
		if got := r.Header.Get("Prefer"); got != "return=representation" {
			t.Errorf("Prefer header = %q", got)
		}

		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decoding payload: %v", err)
		}
		if payload["kind"] != string(model.KindCalled) {
			t.Errorf("kind = %v", payload["kind"])
		}

		createdBy := "agent@bocage.fr"
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode([]interactionRow{
			{ID: 42, ProspectID: 7, Kind: string(model.KindCalled), Notes: &notes, CreatedBy: &createdBy, CreatedAt: time.Now().UTC()},
		})
	})

	client := newTestClient(t, handler, service.StoreLimits{})

	inserted, err := client.InsertInteraction(context.Background(), model.NewInteraction{
		ProspectID: 7,
		Kind:       model.KindCalled,
		Notes:      &notes,
		CreatedBy:  "agent@bocage.fr",
	})
	if err != nil {
		t.Fatalf("InsertInteraction() error = %v", err)
	}
	if inserted.ID != 42 || inserted.ProspectID != 7 {
		t.Errorf("unexpected inserted row: %+v", inserted)
	}
}

func TestInsertInteractionSurfacesAPIError(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"permission denied"}`, http.StatusForbidden)
	})

	client := newTestClient(t, handler, service.StoreLimits{})

	_, err := client.InsertInteraction(context.Background(), model.NewInteraction{
		ProspectID: 1,
		Kind:       model.KindCalled,
		CreatedBy:  "agent@bocage.fr",
	})
	if err == nil {
		t.Fatal("expected error on 403 response")
	}
	if !errors.Is(err, common.ErrUnauthenticated) {
		t.Errorf("expected unauthenticated error, got %v", err)
	}
}

func TestFetchProspectsRetriesServerErrors(t *testing.T) {
	var calls int
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		if calls == 1 {
			http.Error(w, `{"message":"unavailable"}`, http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	})

	client := newTestClient(t, handler, service.StoreLimits{})

	if _, _, err := client.FetchProspects(context.Background()); err != nil {
		t.Fatalf("FetchProspects() error = %v", err)
	}
	if calls != 2 {
		t.Errorf("expected 2 attempts, got %d", calls)
	}
}

func TestFetchProspectsDoesNotRetryClientErrors(t *testing.T) {
	var calls int
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		http.Error(w, `{"message":"bad request"}`, http.StatusBadRequest)
	})

	client := newTestClient(t, handler, service.StoreLimits{})

	if _, _, err := client.FetchProspects(context.Background()); err == nil {
		t.Fatal("expected error on 400 response")
	}
	if calls != 1 {
		t.Errorf("expected a single attempt, got %d", calls)
	}
}

func TestAuthSignInAndCurrentActor(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/v1/token" {
			http.NotFound(w, r)
			return
		}
		if grant := r.URL.Query().Get("grant_type"); grant != "password" {
			t.Errorf("grant_type = %q", grant)
		}
		_ = json.NewEncoder(w).Encode(tokenResponse{
			AccessToken:  "access-abc",
			RefreshToken: "refresh-abc",
			ExpiresIn:    3600,
			User: struct {
				Email string `json:"email"`
			}{Email: "agent@bocage.fr"},
		})
	})

	srv := httptest.NewServer(handler)
	defer srv.Close()

	sessionPath := filepath.Join(t.TempDir(), "session.json")
	auth, err := NewAuthClient(srv.URL, "anon-key", sessionPath)
	if err != nil {
		t.Fatalf("NewAuthClient() error = %v", err)
	}

	ctx := context.Background()
	if err := auth.SignIn(ctx, "agent@bocage.fr", "secret"); err != nil {
		t.Fatalf("SignIn() error = %v", err)
	}

	actor, err := auth.CurrentActor(ctx)
	if err != nil {
		t.Fatalf("CurrentActor() error = %v", err)
	}
	if actor != "agent@bocage.fr" {
		t.Errorf("actor = %q", actor)
	}

	token, err := auth.TokenSource(ctx).Token()
	if err != nil {
		t.Fatalf("Token() error = %v", err)
	}
	if token.AccessToken != "access-abc" {
		t.Errorf("access token = %q", token.AccessToken)
	}

	if err := auth.SignOut(ctx); err != nil {
		t.Fatalf("SignOut() error = %v", err)
	}
	if _, err := auth.CurrentActor(ctx); err == nil {
		t.Error("expected unauthenticated after sign-out")
	}
}

func TestAuthRefreshesExpiredSession(t *testing.T) {
	var grants []string

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		grant := r.URL.Query().Get("grant_type")
		grants = append(grants, grant)
		_ = json.NewEncoder(w).Encode(tokenResponse{
			AccessToken:  "access-" + grant,
			RefreshToken: "refresh-next",
			ExpiresIn:    3600,
			User: struct {
				Email string `json:"email"`
			}{Email: "agent@bocage.fr"},
		})
	})

	srv := httptest.NewServer(handler)
	defer srv.Close()

	sessionPath := filepath.Join(t.TempDir(), "session.json")
	auth, err := NewAuthClient(srv.URL, "anon-key", sessionPath)
	if err != nil {
		t.Fatalf("NewAuthClient() error = %v", err)
	}

	ctx := context.Background()
	if err := auth.SignIn(ctx, "agent@bocage.fr", "secret"); err != nil {
		t.Fatalf("SignIn() error = %v", err)
	}

	// Backdate the stored expiry so the next access forces a refresh.
	sess, err := auth.loadSaved()
	if err != nil {
		t.Fatalf("loadSaved() error = %v", err)
	}
	sess.Expiry = time.Now().Add(-time.Minute)
	if err := auth.saveSession(&tokenResponse{
		AccessToken:  sess.AccessToken,
		RefreshToken: sess.RefreshToken,
		ExpiresIn:    -60,
		User: struct {
			Email string `json:"email"`
		}{Email: sess.Email},
	}); err != nil {
		t.Fatalf("saveSession() error = %v", err)
	}

	actor, err := auth.CurrentActor(ctx)
	if err != nil {
		t.Fatalf("CurrentActor() error = %v", err)
	}
	if actor != "agent@bocage.fr" {
		t.Errorf("actor = %q", actor)
	}
	if len(grants) != 2 || grants[1] != "refresh_token" {
		t.Errorf("grants = %v, want password then refresh_token", grants)
	}
}
