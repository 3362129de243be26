package service

import (
	"path/filepath"
	"sync"
	"testing"

	"github.com/swapcycle/exchange-platform/internal/model"
	"github.com/swapcycle/exchange-platform/internal/store"
	"github.com/swapcycle/exchange-platform/pkg/logger"
)

func newTestStore(t *testing.T) store.Client {
	t.Helper()

	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

// recordingFeed captures change-feed notifications for assertions.
type recordingFeed struct {
	mu     sync.Mutex
	events []string
}

func (f *recordingFeed) ConversationUpdated(conv *model.Conversation) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, conv.ID)
}

func (f *recordingFeed) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.events)
}

func testLogger() *logger.Logger {
	return logger.NewNop()
}

func seedUser(t *testing.T, st store.Client, id, name string) *model.User {
	t.Helper()

	user := &model.User{
		ID:          id,
		DisplayName: name,
		Email:       id + "@example.com",
		AvatarURL:   model.PlaceholderAvatarURL(name),
	}
	if err := st.SaveUser(user); err != nil {
		t.Fatalf("seed user %s: %v", id, err)
	}
	return user
}
