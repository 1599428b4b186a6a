package service

import (
	"context"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"wayfarer/backend/internal/graph"
	apperrors "wayfarer/backend/pkg/errors"
	"wayfarer/backend/pkg/logger"
)

// maxCounterpartLookups bounds the concurrent identity fetches when
// hydrating a conversation list
const maxCounterpartLookups = 8

// ErrNotMutual is returned when the gate rejects a message exchange
var ErrNotMutual = apperrors.Forbidden("You can only message users who follow you and you follow back")

// UserDirectory is the identity lookup the messaging core depends on
type UserDirectory interface {
	GetUser(ctx context.Context, id string) (*graph.User, error)
}

// MessageStore is the message persistence the messaging core depends on
type MessageStore interface {
	CreateMessage(ctx context.Context, senderID, receiverID, content string) (*graph.Message, error)
	MessagesBetween(ctx context.Context, userA, userB string) ([]*graph.Message, error)
	MarkMessagesRead(ctx context.Context, readerID, otherID string) (int, error)
	ConversationHeads(ctx context.Context, userID string) ([]*graph.ConversationHead, error)
}

// Messaging implements mutual-follow-gated direct messages
type Messaging struct {
	users    UserDirectory
	messages MessageStore
	logger   *zap.Logger
}

// NewMessaging creates the messaging service
func NewMessaging(users UserDirectory, messages MessageStore) *Messaging {
	return &Messaging{
		users:    users,
		messages: messages,
		logger:   logger.Get(),
	}
}

// gatedPair loads both users and applies the mutual-follow gate.
// Missing users surface as NotFound before the gate is consulted.
func (s *Messaging) gatedPair(ctx context.Context, aID, bID string) (*graph.User, *graph.User, error) {
	a, err := s.users.GetUser(ctx, aID)
	if err != nil {
		return nil, nil, err
	}
	b, err := s.users.GetUser(ctx, bID)
	if err != nil {
		return nil, nil, err
	}
	if !Mutual(a, b) {
		return nil, nil, ErrNotMutual
	}
	return a, b, nil
}

// Send persists a message from sender to receiver. Content and receiver
// are required, both users must exist, and the gate must pass. A sender
// equal to the receiver gets no special case; the gate decides.
func (s *Messaging) Send(ctx context.Context, senderID, receiverID, content string) (*graph.Message, error) {
	if receiverID == "" || strings.TrimSpace(content) == "" {
		return nil, apperrors.Validation("Recipient ID and message content are required")
	}

	if _, _, err := s.gatedPair(ctx, senderID, receiverID); err != nil {
		return nil, err
	}

	msg, err := s.messages.CreateMessage(ctx, senderID, receiverID, content)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("Message sent",
		zap.String("message_id", msg.ID),
		zap.String("sender", senderID),
		zap.String("receiver", receiverID),
	)
	return msg, nil
}

// MessagesWith returns the full history between the requester and the
// counterpart, oldest first. Like the source, reading a pair's history
// is gated the same way as sending.
func (s *Messaging) MessagesWith(ctx context.Context, requesterID, otherID string) ([]*graph.Message, error) {
	if _, _, err := s.gatedPair(ctx, requesterID, otherID); err != nil {
		return nil, err
	}
	return s.messages.MessagesBetween(ctx, requesterID, otherID)
}

// MarkRead flips the read flag on unread messages from otherID to
// readerID and returns the number affected. Intentionally not gated:
// already-exchanged messages stay markable after an unfollow.
func (s *Messaging) MarkRead(ctx context.Context, readerID, otherID string) (int, error) {
	return s.messages.MarkMessagesRead(ctx, readerID, otherID)
}

// ListConversations returns one entry per counterpart the user ever
// exchanged messages with, carrying the latest message of each pair,
// sorted by last-message time descending.
func (s *Messaging) ListConversations(ctx context.Context, userID string) ([]*graph.Conversation, error) {
	heads, err := s.messages.ConversationHeads(ctx, userID)
	if err != nil {
		return nil, err
	}

	conversations := make([]*graph.Conversation, len(heads))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxCounterpartLookups)

	for i, head := range heads {
		i, head := i, head
		g.Go(func() error {
			conversations[i] = s.hydrate(gctx, head)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(conversations, func(i, j int) bool {
		ti, tj := conversations[i].LastMessageTime, conversations[j].LastMessageTime
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return conversations[i].ID < conversations[j].ID
	})

	return conversations, nil
}

// hydrate attaches counterpart display fields to a conversation head.
// A failed lookup substitutes placeholders instead of failing the list.
func (s *Messaging) hydrate(ctx context.Context, head *graph.ConversationHead) *graph.Conversation {
	conv := &graph.Conversation{
		ID: head.CounterpartID,
		User: graph.ConversationUser{
			ID:   head.CounterpartID,
			Name: "Unknown User",
		},
		LastMessage:     head.LastMessage.Content,
		LastMessageTime: head.LastMessage.CreatedAt,
		// TODO: track unread counts per counterpart
		UnreadCount: 0,
	}

	counterpart, err := s.users.GetUser(ctx, head.CounterpartID)
	if err != nil {
		if !apperrors.Is(err, apperrors.KindNotFound) {
			s.logger.Warn("Counterpart lookup failed",
				zap.String("counterpart", head.CounterpartID),
				zap.Error(err),
			)
		}
		return conv
	}

	conv.User.Name = counterpart.Name
	conv.User.Email = counterpart.Email
	conv.User.ProfilePicture = counterpart.ProfilePicture
	return conv
}
