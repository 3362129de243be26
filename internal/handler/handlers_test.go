package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/swapcycle/exchange-platform/internal/middleware"
	"github.com/swapcycle/exchange-platform/internal/model"
	"github.com/swapcycle/exchange-platform/internal/service"
	"github.com/swapcycle/exchange-platform/internal/store"
	"github.com/swapcycle/exchange-platform/pkg/logger"
)

// asUser seeds the request context the way the JWT middleware would.
func asUser(req *http.Request, userID string) *http.Request {
	ctx := context.WithValue(req.Context(), middleware.UserIDKey, userID)
	ctx = context.WithValue(ctx, middleware.IdentityKey, service.Identity{
		UserID: userID,
		Email:  userID + "@example.com",
	})
	return req.WithContext(ctx)
}

// nopFeed discards change notifications in handler tests.
type nopFeed struct{}

func (nopFeed) ConversationUpdated(*model.Conversation) {}

type testEnv struct {
	router chi.Router
	store  store.Client
}

// newTestEnv wires a router with the middleware-free API surface. Auth is
// stood in for by a fixed user injected per request.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	log := logger.NewNop()
	users := service.NewUserService(st, log)
	catalog := service.NewCatalogService(st, log)
	convs := service.NewConversationService(st, nopFeed{}, log)
	stats := service.NewStatsService(st, log)

	itemHandler := NewItemHandler(catalog, users, log)
	conversationHandler := NewConversationHandler(convs, log)
	statsHandler := NewStatsHandler(stats)
	themeHandler := NewThemeHandler()

	r := chi.NewRouter()
	r.Get("/api/v1/themes/current", themeHandler.Current)
	r.Get("/api/v1/stats", statsHandler.Global)
	r.Route("/api/v1/items", func(r chi.Router) {
		r.Post("/", itemHandler.Create)
		r.Get("/", itemHandler.List)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", itemHandler.Get)
			r.Delete("/", itemHandler.Delete)
			r.Post("/vote", itemHandler.Vote)
		})
	})
	r.Route("/api/v1/conversations", func(r chi.Router) {
		r.Post("/", conversationHandler.Open)
		r.Get("/", conversationHandler.List)
		r.Get("/unread-count", conversationHandler.UnreadCount)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/messages", conversationHandler.Messages)
			r.Post("/messages", conversationHandler.Send)
		})
	})

	return &testEnv{router: r, store: st}
}

// do performs a request as the given user by seeding auth context values
// the way the JWT middleware would.
func (e *testEnv) do(t *testing.T, method, path, userID string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	if userID != "" {
		req = asUser(req, userID)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return v
}

func (e *testEnv) seedUser(t *testing.T, id, name string) {
	t.Helper()

	if err := e.store.SaveUser(&model.User{
		ID:          id,
		DisplayName: name,
		Email:       id + "@example.com",
	}); err != nil {
		t.Fatalf("seed user: %v", err)
	}
}

func TestItemLifecycleOverHTTP(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "alice", "Alice")

	rec := env.do(t, http.MethodPost, "/api/v1/items", "alice", model.CreateItemRequest{
		Title:       "Road bike",
		Description: "Tuned up this spring, new chain.",
		Condition:   model.ConditionGood,
		ThemeID:     "5",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", rec.Code, rec.Body.String())
	}
	item := decode[model.Item](t, rec)

	rec = env.do(t, http.MethodGet, "/api/v1/items?theme=5", "alice", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	listed := decode[model.ListItemsResponse](t, rec)
	if listed.Total != 1 || listed.Items[0].ID != item.ID {
		t.Fatalf("list = %+v", listed)
	}

	rec = env.do(t, http.MethodPost, "/api/v1/items/"+item.ID+"/vote", "alice", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("vote status = %d", rec.Code)
	}
	votes := decode[map[string]int](t, rec)
	if votes["votes"] != 1 {
		t.Errorf("votes = %d, want 1", votes["votes"])
	}

	rec = env.do(t, http.MethodGet, "/api/v1/stats", "", nil)
	stats := decode[model.StatsResponse](t, rec)
	if stats.Participants != 1 || stats.ObjectsAvailable != 1 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestItemCreateRejectsBadBody(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "alice", "Alice")

	rec := env.do(t, http.MethodPost, "/api/v1/items", "alice", model.CreateItemRequest{
		Title: "No description",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestDeleteRequiresOwnership(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "alice", "Alice")
	env.seedUser(t, "bob", "Bob")

	rec := env.do(t, http.MethodPost, "/api/v1/items", "alice", model.CreateItemRequest{
		Title:       "Armchair",
		Description: "Reupholstered.",
		Condition:   model.ConditionExcellent,
	})
	item := decode[model.Item](t, rec)

	rec = env.do(t, http.MethodDelete, "/api/v1/items/"+item.ID, "bob", nil)
	if rec.Code != http.StatusForbidden {
		t.Errorf("delete by non-owner = %d, want 403", rec.Code)
	}

	rec = env.do(t, http.MethodDelete, "/api/v1/items/"+item.ID, "alice", nil)
	if rec.Code != http.StatusNoContent {
		t.Errorf("delete by owner = %d, want 204", rec.Code)
	}
}

func TestConversationFlowOverHTTP(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "alice", "Alice")
	env.seedUser(t, "bob", "Bob")

	rec := env.do(t, http.MethodPost, "/api/v1/conversations", "alice", model.OpenConversationRequest{
		OtherUserID: "bob",
		ItemID:      "item-1",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("open status = %d, body = %s", rec.Code, rec.Body.String())
	}
	conv := decode[model.Conversation](t, rec)

	rec = env.do(t, http.MethodPost, "/api/v1/conversations/"+conv.ID+"/messages", "alice", model.SendMessageRequest{
		Text: "Hello!",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("send status = %d, body = %s", rec.Code, rec.Body.String())
	}

	// An outsider cannot read the thread.
	rec = env.do(t, http.MethodGet, "/api/v1/conversations/"+conv.ID+"/messages", "mallory", nil)
	if rec.Code != http.StatusForbidden {
		t.Errorf("outsider read = %d, want 403", rec.Code)
	}

	rec = env.do(t, http.MethodGet, "/api/v1/conversations/"+conv.ID+"/messages", "bob", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("read status = %d", rec.Code)
	}
	msgs := decode[model.ListMessagesResponse](t, rec)
	if msgs.Total != 1 || msgs.Messages[0].Text != "Hello!" {
		t.Fatalf("messages = %+v", msgs)
	}

	rec = env.do(t, http.MethodGet, "/api/v1/conversations/unread-count", "bob", nil)
	unread := decode[model.UnreadCountResponse](t, rec)
	if unread.Unread != 1 {
		t.Errorf("unread = %d, want 1", unread.Unread)
	}
}

func TestThemeCurrentIsServed(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/themes/current", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var cycle struct {
		Theme struct {
			ID string `json:"id"`
		} `json:"theme"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &cycle); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if cycle.Theme.ID == "" {
		t.Error("current theme has no id")
	}
}
