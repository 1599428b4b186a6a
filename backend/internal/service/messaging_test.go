package service

import (
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wayfarer/backend/internal/graph"
	apperrors "wayfarer/backend/pkg/errors"
)

// fakeDirectory is an in-memory UserDirectory
type fakeDirectory struct {
	users map[string]*graph.User
}

func (d *fakeDirectory) GetUser(_ context.Context, id string) (*graph.User, error) {
	if u, ok := d.users[id]; ok {
		return u, nil
	}
	return nil, apperrors.NotFound("User")
}

// fakeMessages is an in-memory MessageStore
type fakeMessages struct {
	messages []*graph.Message
	nextID   int
	clock    time.Time
}

func (m *fakeMessages) CreateMessage(_ context.Context, senderID, receiverID, content string) (*graph.Message, error) {
	m.nextID++
	m.clock = m.clock.Add(time.Second)
	msg := &graph.Message{
		ID:         fmt.Sprintf("m%d", m.nextID),
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    content,
		Read:       false,
		CreatedAt:  m.clock,
	}
	m.messages = append(m.messages, msg)
	return msg, nil
}

func (m *fakeMessages) MessagesBetween(_ context.Context, userA, userB string) ([]*graph.Message, error) {
	var out []*graph.Message
	for _, msg := range m.messages {
		if (msg.SenderID == userA && msg.ReceiverID == userB) ||
			(msg.SenderID == userB && msg.ReceiverID == userA) {
			out = append(out, msg)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *fakeMessages) MarkMessagesRead(_ context.Context, readerID, otherID string) (int, error) {
	count := 0
	for _, msg := range m.messages {
		if msg.SenderID == otherID && msg.ReceiverID == readerID && !msg.Read {
			msg.Read = true
			count++
		}
	}
	return count, nil
}

func (m *fakeMessages) ConversationHeads(_ context.Context, userID string) ([]*graph.ConversationHead, error) {
	latest := map[string]*graph.Message{}
	for _, msg := range m.messages {
		var counterpart string
		switch userID {
		case msg.SenderID:
			counterpart = msg.ReceiverID
		case msg.ReceiverID:
			counterpart = msg.SenderID
		default:
			continue
		}
		prev, ok := latest[counterpart]
		if !ok || msg.CreatedAt.After(prev.CreatedAt) ||
			(msg.CreatedAt.Equal(prev.CreatedAt) && msg.ID > prev.ID) {
			latest[counterpart] = msg
		}
	}
	var heads []*graph.ConversationHead
	for id, msg := range latest {
		heads = append(heads, &graph.ConversationHead{CounterpartID: id, LastMessage: *msg})
	}
	return heads, nil
}

func mutualPair() *fakeDirectory {
	return &fakeDirectory{users: map[string]*graph.User{
		"alice": {ID: "alice", Name: "Alice", Email: "alice@example.com", Following: []string{"bob"}},
		"bob":   {ID: "bob", Name: "Bob", Email: "bob@example.com", Following: []string{"alice"}},
		"carol": {ID: "carol", Name: "Carol", Email: "carol@example.com", Following: []string{"alice"}},
	}}
}

func newTestMessaging() (*Messaging, *fakeMessages) {
	store := &fakeMessages{clock: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	return NewMessaging(mutualPair(), store), store
}

func TestSend_DeliversUnread(t *testing.T) {
	svc, _ := newTestMessaging()
	ctx := context.Background()

	msg, err := svc.Send(ctx, "alice", "bob", "Hello!")
	require.NoError(t, err)
	assert.Equal(t, "alice", msg.SenderID)
	assert.Equal(t, "bob", msg.ReceiverID)
	assert.False(t, msg.Read, "new messages start unread")

	history, err := svc.MessagesWith(ctx, "bob", "alice")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "Hello!", history[0].Content)
	assert.False(t, history[0].Read)
}

func TestSend_RejectsOneWayFollow(t *testing.T) {
	svc, store := newTestMessaging()
	ctx := context.Background()

	// carol follows alice, alice does not follow carol
	_, err := svc.Send(ctx, "carol", "alice", "Hi Alice")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.KindForbidden))
	assert.Empty(t, store.messages, "rejected sends must not persist")

	// same result in the other direction
	_, err = svc.Send(ctx, "alice", "carol", "Hi Carol")
	assert.True(t, apperrors.Is(err, apperrors.KindForbidden))
}

func TestSend_RejectsMissingFields(t *testing.T) {
	svc, _ := newTestMessaging()
	ctx := context.Background()

	_, err := svc.Send(ctx, "alice", "", "Hello")
	assert.True(t, apperrors.Is(err, apperrors.KindValidation))

	_, err = svc.Send(ctx, "alice", "bob", "   ")
	assert.True(t, apperrors.Is(err, apperrors.KindValidation))
}

func TestSend_UnknownReceiver(t *testing.T) {
	svc, _ := newTestMessaging()

	_, err := svc.Send(context.Background(), "alice", "ghost", "Anyone there?")
	assert.True(t, apperrors.Is(err, apperrors.KindNotFound))
}

func TestMessagesWith_GatedLikeSending(t *testing.T) {
	svc, _ := newTestMessaging()

	_, err := svc.MessagesWith(context.Background(), "carol", "alice")
	assert.True(t, apperrors.Is(err, apperrors.KindForbidden))
}

func TestMessagesWith_OrderedOldestFirst(t *testing.T) {
	svc, _ := newTestMessaging()
	ctx := context.Background()

	_, err := svc.Send(ctx, "alice", "bob", "first")
	require.NoError(t, err)
	_, err = svc.Send(ctx, "bob", "alice", "second")
	require.NoError(t, err)
	_, err = svc.Send(ctx, "alice", "bob", "third")
	require.NoError(t, err)

	history, err := svc.MessagesWith(ctx, "alice", "bob")
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, "first", history[0].Content)
	assert.Equal(t, "second", history[1].Content)
	assert.Equal(t, "third", history[2].Content)
}

func TestMarkRead_CountsAndIdempotent(t *testing.T) {
	svc, _ := newTestMessaging()
	ctx := context.Background()

	_, err := svc.Send(ctx, "alice", "bob", "one")
	require.NoError(t, err)
	_, err = svc.Send(ctx, "alice", "bob", "two")
	require.NoError(t, err)
	_, err = svc.Send(ctx, "bob", "alice", "reply")
	require.NoError(t, err)

	// bob marks alice's messages as read; his own reply stays untouched
	count, err := svc.MarkRead(ctx, "bob", "alice")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	count, err = svc.MarkRead(ctx, "bob", "alice")
	require.NoError(t, err)
	assert.Equal(t, 0, count, "second pass finds nothing unread")

	history, err := svc.MessagesWith(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.True(t, history[0].Read)
	assert.True(t, history[1].Read)
	assert.False(t, history[2].Read, "bob's own reply is alice's to mark")
}

func TestMarkRead_NotGated(t *testing.T) {
	svc, store := newTestMessaging()
	ctx := context.Background()

	_, err := svc.Send(ctx, "alice", "bob", "before unfollow")
	require.NoError(t, err)

	// alice unfollows bob; old messages stay markable
	dir := svc.users.(*fakeDirectory)
	dir.users["alice"].Following = nil

	count, err := svc.MarkRead(ctx, "bob", "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.True(t, store.messages[0].Read)
}

func TestListConversations_GroupsByCounterpart(t *testing.T) {
	svc, _ := newTestMessaging()
	ctx := context.Background()

	_, err := svc.Send(ctx, "alice", "bob", "Hi Bob")
	require.NoError(t, err)
	_, err = svc.Send(ctx, "bob", "alice", "Hi back")
	require.NoError(t, err)

	convs, err := svc.ListConversations(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, convs, 1, "both directions collapse into one conversation")

	conv := convs[0]
	assert.Equal(t, "bob", conv.ID)
	assert.Equal(t, "Bob", conv.User.Name)
	assert.Equal(t, "bob@example.com", conv.User.Email)
	assert.Equal(t, "Hi back", conv.LastMessage)
	assert.Equal(t, 0, conv.UnreadCount)
}

func TestListConversations_SortedByRecency(t *testing.T) {
	dir := mutualPair()
	// make carol and alice mutuals so three-way traffic is possible
	dir.users["alice"].Following = []string{"bob", "carol"}
	store := &fakeMessages{clock: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	svc := NewMessaging(dir, store)
	ctx := context.Background()

	_, err := svc.Send(ctx, "alice", "bob", "older thread")
	require.NoError(t, err)
	_, err = svc.Send(ctx, "alice", "carol", "newer thread")
	require.NoError(t, err)

	convs, err := svc.ListConversations(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, convs, 2)
	assert.Equal(t, "carol", convs[0].ID, "most recent counterpart first")
	assert.Equal(t, "bob", convs[1].ID)
}

func TestListConversations_PlaceholderForDeletedCounterpart(t *testing.T) {
	svc, store := newTestMessaging()
	ctx := context.Background()

	_, err := svc.Send(ctx, "alice", "bob", "Hello")
	require.NoError(t, err)

	// bob's account disappears after the exchange
	delete(svc.users.(*fakeDirectory).users, "bob")

	convs, err := svc.ListConversations(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, convs, 1)
	assert.Equal(t, "Unknown User", convs[0].User.Name)
	assert.Empty(t, convs[0].User.Email)
	assert.Equal(t, "Hello", convs[0].LastMessage)
	assert.Equal(t, store.messages[0].CreatedAt, convs[0].LastMessageTime)
}

func TestListConversations_Empty(t *testing.T) {
	svc, _ := newTestMessaging()

	convs, err := svc.ListConversations(context.Background(), "alice")
	require.NoError(t, err)
	assert.Empty(t, convs)
	assert.NotNil(t, convs, "empty list serializes as [], not null")
}
