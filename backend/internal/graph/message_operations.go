package graph

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	apperrors "wayfarer/backend/pkg/errors"
)

// ============================================================================
// Message Operations
// ============================================================================
//
// Messages are nodes with SENT/TO edges to their endpoints. Sender and
// receiver ids are duplicated as properties so history and conversation
// queries can return a full message without re-walking the edges.

const messageReturnClause = `
	RETURN m.id as id, m.content as content, m.read as read,
	       m.created_at as created_at,
	       m.sender_id as sender_id, m.receiver_id as receiver_id
`

func messageFromRecord(record *neo4j.Record) *Message {
	return &Message{
		ID:         getStringFromRecord(record, "id"),
		SenderID:   getStringFromRecord(record, "sender_id"),
		ReceiverID: getStringFromRecord(record, "receiver_id"),
		Content:    getStringFromRecord(record, "content"),
		Read:       getBoolFromRecord(record, "read"),
		CreatedAt:  getTimeFromRecord(record, "created_at"),
	}
}

// CreateMessage persists a message from sender to receiver with a
// server-assigned timestamp and read=false. Fails with NotFound when
// either endpoint is missing.
func (r *Repository) CreateMessage(ctx context.Context, senderID, receiverID, content string) (*Message, error) {
	session := r.writeSession(ctx)
	defer session.Close(ctx)

	msgID := uuid.New().String()
	now := time.Now().UTC()

	query := `
		MATCH (s:User {id: $senderID})
		MATCH (t:User {id: $receiverID})
		CREATE (m:Message {
			id: $msgID,
			content: $content,
			read: false,
			created_at: datetime($now),
			sender_id: $senderID,
			receiver_id: $receiverID
		})
		CREATE (s)-[:SENT]->(m)
		CREATE (m)-[:TO]->(t)
	` + messageReturnClause

	result, err := session.Run(ctx, query, map[string]interface{}{
		"senderID":   senderID,
		"receiverID": receiverID,
		"msgID":      msgID,
		"content":    content,
		"now":        now.Format(time.RFC3339Nano),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create message: %w", err)
	}

	if result.Next(ctx) {
		return messageFromRecord(result.Record()), nil
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("failed to create message: %w", err)
	}
	return nil, apperrors.NotFound("User")
}

// MessagesBetween returns the full history between two users in either
// direction, oldest first. Message id breaks timestamp ties so re-runs
// are deterministic.
func (r *Repository) MessagesBetween(ctx context.Context, userA, userB string) ([]*Message, error) {
	session := r.readSession(ctx)
	defer session.Close(ctx)

	query := `
		MATCH (m:Message)
		WHERE (m.sender_id = $userA AND m.receiver_id = $userB)
		   OR (m.sender_id = $userB AND m.receiver_id = $userA)
		WITH m
		ORDER BY m.created_at ASC, m.id ASC
	` + messageReturnClause

	result, err := session.Run(ctx, query, map[string]interface{}{
		"userA": userA,
		"userB": userB,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get messages: %w", err)
	}

	messages := []*Message{}
	for result.Next(ctx) {
		messages = append(messages, messageFromRecord(result.Record()))
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("failed to get messages: %w", err)
	}
	return messages, nil
}

// MarkMessagesRead flips read on unread messages from otherID to
// readerID and returns how many were affected. A second call is a no-op
// returning zero.
func (r *Repository) MarkMessagesRead(ctx context.Context, readerID, otherID string) (int, error) {
	session := r.writeSession(ctx)
	defer session.Close(ctx)

	query := `
		MATCH (m:Message {sender_id: $otherID, receiver_id: $readerID, read: false})
		SET m.read = true
		RETURN count(m) as updated
	`

	result, err := session.Run(ctx, query, map[string]interface{}{
		"readerID": readerID,
		"otherID":  otherID,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to mark messages read: %w", err)
	}

	if result.Next(ctx) {
		return getIntFromRecord(result.Record(), "updated"), nil
	}
	if err := result.Err(); err != nil {
		return 0, fmt.Errorf("failed to mark messages read: %w", err)
	}
	return 0, nil
}

// ConversationHeads groups every message touching a user by counterpart
// and keeps the latest message per group (id as tiebreak). Counterpart
// display fields are hydrated by the caller.
func (r *Repository) ConversationHeads(ctx context.Context, userID string) ([]*ConversationHead, error) {
	session := r.readSession(ctx)
	defer session.Close(ctx)

	query := `
		MATCH (m:Message)
		WHERE m.sender_id = $userID OR m.receiver_id = $userID
		WITH m, CASE WHEN m.sender_id = $userID THEN m.receiver_id ELSE m.sender_id END as counterpart
		ORDER BY m.created_at DESC, m.id DESC
		WITH counterpart, collect(m)[0] as last
		RETURN counterpart,
		       last.id as id, last.content as content, last.read as read,
		       last.created_at as created_at,
		       last.sender_id as sender_id, last.receiver_id as receiver_id
	`

	result, err := session.Run(ctx, query, map[string]interface{}{"userID": userID})
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate conversations: %w", err)
	}

	heads := []*ConversationHead{}
	for result.Next(ctx) {
		record := result.Record()
		heads = append(heads, &ConversationHead{
			CounterpartID: getStringFromRecord(record, "counterpart"),
			LastMessage:   *messageFromRecord(record),
		})
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("failed to aggregate conversations: %w", err)
	}
	return heads, nil
}
