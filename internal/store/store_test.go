package store

import (
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/swapcycle/exchange-platform/internal/model"
)

func newTestClient(t *testing.T) Client {
	t.Helper()

	c, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func newItem(ownerID, themeID string, createdAt time.Time) *model.Item {
	return &model.Item{
		ID:        uuid.Must(uuid.NewV7()).String(),
		Title:     "Road bike",
		Condition: model.ConditionGood,
		OwnerID:   ownerID,
		CreatedAt: createdAt,
		ThemeID:   themeID,
		Status:    model.ItemStatusAvailable,
	}
}

func TestSaveAndFindItem(t *testing.T) {
	c := newTestClient(t)

	item := newItem("u1", "5", time.Now().UTC())
	if err := c.SaveItem(item); err != nil {
		t.Fatalf("SaveItem: %v", err)
	}

	got, err := c.FindItem(item.ID)
	if err != nil {
		t.Fatalf("FindItem: %v", err)
	}
	if got.Title != "Road bike" || got.Status != model.ItemStatusAvailable || got.Votes != 0 {
		t.Errorf("unexpected item: %+v", got)
	}
}

func TestFindItemNotFound(t *testing.T) {
	c := newTestClient(t)

	_, err := c.FindItem("missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestFindItemsByThemeSortsNewestFirst(t *testing.T) {
	c := newTestClient(t)

	base := time.Now().UTC()
	old := newItem("u1", "5", base.Add(-time.Hour))
	mid := newItem("u1", "5", base.Add(-time.Minute))
	fresh := newItem("u2", "5", base)
	other := newItem("u2", "1", base)

	for _, it := range []*model.Item{old, fresh, mid, other} {
		if err := c.SaveItem(it); err != nil {
			t.Fatalf("SaveItem: %v", err)
		}
	}

	items, err := c.FindItemsByTheme("5")
	if err != nil {
		t.Fatalf("FindItemsByTheme: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	if items[0].ID != fresh.ID || items[1].ID != mid.ID || items[2].ID != old.ID {
		t.Errorf("items not sorted newest first: %v %v %v",
			items[0].CreatedAt, items[1].CreatedAt, items[2].CreatedAt)
	}
}

func TestFindItemsEmptyIsNotAnError(t *testing.T) {
	c := newTestClient(t)

	items, err := c.FindItems()
	if err != nil {
		t.Fatalf("FindItems on empty store: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("expected no items, got %d", len(items))
	}
}

func TestDeleteItem(t *testing.T) {
	c := newTestClient(t)

	item := newItem("u1", model.ThemeNone, time.Now().UTC())
	c.SaveItem(item)

	if err := c.DeleteItem(item.ID); err != nil {
		t.Fatalf("DeleteItem: %v", err)
	}
	if _, err := c.FindItem(item.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestConcurrentVotesAllLand(t *testing.T) {
	c := newTestClient(t)

	item := newItem("u1", "1", time.Now().UTC())
	c.SaveItem(item)

	const n = 25
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			if _, err := c.IncrementItemVotes(item.ID); err != nil {
				t.Errorf("IncrementItemVotes: %v", err)
			}
		}()
	}
	wg.Wait()

	got, err := c.FindItem(item.ID)
	if err != nil {
		t.Fatalf("FindItem: %v", err)
	}
	if got.Votes != n {
		t.Errorf("expected %d votes, got %d", n, got.Votes)
	}
}

func TestFindConversationsByParticipantOrdersByUpdate(t *testing.T) {
	c := newTestClient(t)

	base := time.Now().UTC()
	older := &model.Conversation{
		ID:           model.ConversationID("alice", "bob", "item1"),
		ParticipantA: "alice", ParticipantB: "bob", ItemID: "item1",
		CreatedAt: base.Add(-2 * time.Hour), UpdatedAt: base.Add(-2 * time.Hour),
	}
	newer := &model.Conversation{
		ID:           model.ConversationID("alice", "carol", "item2"),
		ParticipantA: "alice", ParticipantB: "carol", ItemID: "item2",
		CreatedAt: base.Add(-time.Hour), UpdatedAt: base,
	}
	unrelated := &model.Conversation{
		ID:           model.ConversationID("bob", "carol", "item3"),
		ParticipantA: "bob", ParticipantB: "carol", ItemID: "item3",
		CreatedAt: base, UpdatedAt: base,
	}

	for _, conv := range []*model.Conversation{older, newer, unrelated} {
		if err := c.SaveConversation(conv); err != nil {
			t.Fatalf("SaveConversation: %v", err)
		}
	}

	convs, err := c.FindConversationsByParticipant("alice")
	if err != nil {
		t.Fatalf("FindConversationsByParticipant: %v", err)
	}
	if len(convs) != 2 {
		t.Fatalf("expected 2 conversations, got %d", len(convs))
	}
	if convs[0].ID != newer.ID || convs[1].ID != older.ID {
		t.Error("conversations not ordered by update time descending")
	}
}

func TestMessagesOrderAndReadMarking(t *testing.T) {
	c := newTestClient(t)

	convID := model.ConversationID("alice", "bob", "item1")
	base := time.Now().UTC()
	for i, sender := range []string{"alice", "bob", "alice"} {
		msg := &model.Message{
			ID:             uuid.Must(uuid.NewV7()).String(),
			ConversationID: convID,
			SenderID:       sender,
			Text:           "hello",
			Type:           model.MessageTypeText,
			CreatedAt:      base.Add(time.Duration(i) * time.Second),
		}
		if err := c.SaveMessage(msg); err != nil {
			t.Fatalf("SaveMessage: %v", err)
		}
	}

	msgs, err := c.FindMessagesByConversation(convID)
	if err != nil {
		t.Fatalf("FindMessagesByConversation: %v", err)
	}
	if len(msgs) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(msgs))
	}
	for i := 1; i < len(msgs); i++ {
		if msgs[i].CreatedAt.Before(msgs[i-1].CreatedAt) {
			t.Error("messages not in creation order")
		}
	}

	unread, err := c.CountUnreadMessages(convID, "bob")
	if err != nil {
		t.Fatalf("CountUnreadMessages: %v", err)
	}
	if unread != 2 {
		t.Errorf("expected 2 unread for bob, got %d", unread)
	}

	flipped, err := c.MarkMessagesRead(convID, "bob")
	if err != nil {
		t.Fatalf("MarkMessagesRead: %v", err)
	}
	if flipped != 2 {
		t.Errorf("expected 2 flipped, got %d", flipped)
	}

	msgs, _ = c.FindMessagesByConversation(convID)
	for _, msg := range msgs {
		if msg.SenderID == "alice" && !msg.Read {
			t.Error("alice's message still unread after bob marked the thread")
		}
		if msg.SenderID == "bob" && msg.Read {
			t.Error("bob's own message must not be marked read")
		}
	}
}

func settledExchangeFixture(t *testing.T, c Client) (*model.Exchange, *model.Item) {
	t.Helper()

	for _, u := range []string{"alice", "bob"} {
		err := c.SaveUser(&model.User{
			ID:          u,
			DisplayName: u,
			Email:       u + "@example.com",
			JoinedAt:    time.Now().UTC(),
		})
		if err != nil {
			t.Fatalf("SaveUser: %v", err)
		}
	}

	item := newItem("bob", "1", time.Now().UTC())
	if err := c.SaveItem(item); err != nil {
		t.Fatalf("SaveItem: %v", err)
	}

	ex := &model.Exchange{
		ID:          uuid.Must(uuid.NewV7()).String(),
		ProposerID:  "alice",
		RecipientID: "bob",
		ProposedItem: model.ProposedItem{
			Title:     "Camping tent",
			Condition: model.ConditionFair,
		},
		RequestedItemID: item.ID,
		ConversationID:  model.ConversationID("alice", "bob", item.ID),
		Status:          model.ExchangeStatusPending,
		CreatedAt:       time.Now().UTC(),
	}
	if err := c.SaveExchange(ex); err != nil {
		t.Fatalf("SaveExchange: %v", err)
	}
	return ex, item
}

func TestAcceptExchangeAppliesAllMutations(t *testing.T) {
	c := newTestClient(t)
	ex, item := settledExchangeFixture(t, c)

	accepted, err := c.AcceptExchange(ex.ID, time.Now().UTC(), 15)
	if err != nil {
		t.Fatalf("AcceptExchange: %v", err)
	}
	if accepted.Status != model.ExchangeStatusAccepted || accepted.AcceptedAt == nil {
		t.Errorf("exchange not settled: %+v", accepted)
	}

	gotItem, _ := c.FindItem(item.ID)
	if gotItem.Status != model.ItemStatusExchanged {
		t.Errorf("item status = %s, want exchanged", gotItem.Status)
	}
	if gotItem.ExchangeID != ex.ID {
		t.Errorf("item exchange link = %q, want %q", gotItem.ExchangeID, ex.ID)
	}

	for _, id := range []string{"alice", "bob"} {
		user, _ := c.FindUser(id)
		if user.ExchangedItems != 1 {
			t.Errorf("%s exchanged items = %d, want 1", id, user.ExchangedItems)
		}
		if user.CO2SavedKg != 15 {
			t.Errorf("%s co2 saved = %d, want 15", id, user.CO2SavedKg)
		}
	}
}

func TestAcceptExchangeIsTerminal(t *testing.T) {
	c := newTestClient(t)
	ex, _ := settledExchangeFixture(t, c)

	if _, err := c.AcceptExchange(ex.ID, time.Now().UTC(), 15); err != nil {
		t.Fatalf("first accept: %v", err)
	}

	if _, err := c.AcceptExchange(ex.ID, time.Now().UTC(), 15); !errors.Is(err, ErrNotPending) {
		t.Errorf("second accept: expected ErrNotPending, got %v", err)
	}
	if _, err := c.RefuseExchange(ex.ID, "changed my mind"); !errors.Is(err, ErrNotPending) {
		t.Errorf("refuse after accept: expected ErrNotPending, got %v", err)
	}

	// Counters must not have advanced twice.
	user, _ := c.FindUser("alice")
	if user.ExchangedItems != 1 {
		t.Errorf("exchanged items = %d after replayed accept, want 1", user.ExchangedItems)
	}
}

func TestRefuseExchangeKeepsItemAvailable(t *testing.T) {
	c := newTestClient(t)
	ex, item := settledExchangeFixture(t, c)

	refused, err := c.RefuseExchange(ex.ID, "too old")
	if err != nil {
		t.Fatalf("RefuseExchange: %v", err)
	}
	if refused.Status != model.ExchangeStatusRefused || refused.RefuseReason != "too old" {
		t.Errorf("exchange not refused with reason: %+v", refused)
	}

	gotItem, _ := c.FindItem(item.ID)
	if gotItem.Status != model.ItemStatusAvailable {
		t.Errorf("item status = %s after refusal, want available", gotItem.Status)
	}
	if gotItem.ExchangeID != "" {
		t.Errorf("item unexpectedly linked to exchange %q", gotItem.ExchangeID)
	}
}

func TestAcceptExchangeMissingItemRollsBack(t *testing.T) {
	c := newTestClient(t)
	ex, item := settledExchangeFixture(t, c)

	if err := c.DeleteItem(item.ID); err != nil {
		t.Fatalf("DeleteItem: %v", err)
	}

	if _, err := c.AcceptExchange(ex.ID, time.Now().UTC(), 15); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	// The failed settlement must leave the exchange pending and counters flat.
	got, _ := c.FindExchange(ex.ID)
	if got.Status != model.ExchangeStatusPending {
		t.Errorf("exchange status = %s after rollback, want pending", got.Status)
	}
	user, _ := c.FindUser("alice")
	if user.ExchangedItems != 0 {
		t.Errorf("counters advanced despite rollback: %+v", user)
	}
}

func TestCounts(t *testing.T) {
	c := newTestClient(t)

	for i, email := range []string{"a@x.io", "b@x.io", "c@x.io"} {
		c.SaveUser(&model.User{ID: string(rune('a' + i)), Email: email})
	}
	c.SaveItem(newItem("a", "2", time.Now().UTC()))
	c.SaveItem(newItem("b", "2", time.Now().UTC()))
	c.SaveItem(newItem("b", model.ThemeNone, time.Now().UTC()))

	if n, _ := c.CountUsers(); n != 3 {
		t.Errorf("CountUsers = %d, want 3", n)
	}
	if n, _ := c.CountItems(); n != 3 {
		t.Errorf("CountItems = %d, want 3", n)
	}
	if n, _ := c.CountItemsByTheme("2"); n != 2 {
		t.Errorf("CountItemsByTheme = %d, want 2", n)
	}
}
