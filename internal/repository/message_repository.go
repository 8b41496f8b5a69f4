// This file implements the conversation store. Messages are append-only;
// "deleting" a conversation only hides its messages from the requesting
// user by inserting rows into message_deletions (the per-viewer
// suppression set). The counterpart keeps seeing the full history.
package repository

import (
	"context"
	"database/sql"
	"time"
)

// DefaultHistoryLimit caps how many messages History returns. It is a
// safety cap, not pagination: older messages beyond the cap are simply
// not served over HTTP.
const DefaultHistoryLimit = 50

// Message mirrors the 'messages' table.
type Message struct {
	ID         uint64    `json:"id"`
	SenderID   uint64    `json:"senderId"`
	ReceiverID uint64    `json:"receiverId"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Conversation is one entry of the conversation list: the counterpart's
// public profile fields plus the most recent visible message.
type Conversation struct {
	CounterpartID uint64  `json:"counterpartId"`
	Name          string  `json:"name"`
	Email         string  `json:"email"`
	Role          string  `json:"role"`
	LastMessage   Message `json:"lastMessage"`
}

type MessageRepo struct{ DB *sql.DB }

func NewMessageRepo(db *sql.DB) *MessageRepo { return &MessageRepo{DB: db} }

const msgCols = "m.id,m.sender_id,m.receiver_id,m.content,m.created_at"

// Append persists a new message with an empty suppression set and returns
// the stored row, including the server-assigned timestamp.
func (r *MessageRepo) Append(ctx context.Context, senderID, receiverID uint64, content string) (Message, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO messages (sender_id, receiver_id, content) VALUES (?,?,?)",
		senderID, receiverID, content)
	if err != nil {
		return Message{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Message{}, err
	}
	var m Message
	err = r.DB.QueryRowContext(ctx,
		"SELECT "+msgCols+" FROM messages m WHERE m.id=?", id).
		Scan(&m.ID, &m.SenderID, &m.ReceiverID, &m.Content, &m.CreatedAt)
	return m, err
}

// History returns the conversation between userID and otherID as userID
// sees it: both directions, minus messages userID has soft-deleted,
// oldest to newest. When more than limit messages exist, only the most
// recent limit are returned (still ascending).
func (r *MessageRepo) History(ctx context.Context, userID, otherID uint64, limit int) ([]Message, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+msgCols+` FROM messages m
		 LEFT JOIN message_deletions d ON d.message_id = m.id AND d.user_id = ?
		 WHERE ((m.sender_id = ? AND m.receiver_id = ?) OR (m.sender_id = ? AND m.receiver_id = ?))
		   AND d.message_id IS NULL
		 ORDER BY m.created_at DESC, m.id DESC
		 LIMIT ?`,
		userID, userID, otherID, otherID, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	msgs, err := collectMessages(rows)
	if err != nil {
		return nil, err
	}
	reverseMessages(msgs)
	return msgs, nil
}

// Conversations lists the distinct counterparts userID has exchanged
// visible messages with, most recent conversation first, each with the
// counterpart's public fields and the latest message.
func (r *MessageRepo) Conversations(ctx context.Context, userID uint64) ([]Conversation, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+msgCols+` FROM messages m
		 LEFT JOIN message_deletions d ON d.message_id = m.id AND d.user_id = ?
		 WHERE (m.sender_id = ? OR m.receiver_id = ?) AND d.message_id IS NULL
		 ORDER BY m.created_at DESC, m.id DESC`,
		userID, userID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	msgs, err := collectMessages(rows)
	if err != nil {
		return nil, err
	}

	latest := LatestPerCounterpart(msgs, userID)
	out := make([]Conversation, 0, len(latest))
	for _, m := range latest {
		conv := Conversation{CounterpartID: Counterpart(m, userID), LastMessage: m}
		// Counterpart rows are never deleted by the core, but tolerate a
		// missing user instead of failing the whole listing.
		var name, email, role string
		err := r.DB.QueryRowContext(ctx,
			"SELECT name,email,role FROM users WHERE id=? LIMIT 1", conv.CounterpartID).
			Scan(&name, &email, &role)
		if err != nil && err != sql.ErrNoRows {
			return nil, err
		}
		conv.Name, conv.Email, conv.Role = name, email, role
		out = append(out, conv)
	}
	return out, nil
}

// SoftDeleteConversation hides every message between userID and otherID
// from userID. INSERT IGNORE makes the operation idempotent: repeating it
// changes nothing, and the suppression set is only ever added to.
func (r *MessageRepo) SoftDeleteConversation(ctx context.Context, userID, otherID uint64) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT IGNORE INTO message_deletions (message_id, user_id)
		 SELECT id, ? FROM messages
		 WHERE (sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)`,
		userID, userID, otherID, otherID, userID)
	return err
}

// Counterpart returns the other party of a message from userID's view.
func Counterpart(m Message, userID uint64) uint64 {
	if m.SenderID == userID {
		return m.ReceiverID
	}
	return m.SenderID
}

// LatestPerCounterpart keeps the first message per counterpart from a
// slice already ordered newest first, preserving that recency order.
func LatestPerCounterpart(msgs []Message, userID uint64) []Message {
	seen := make(map[uint64]bool, len(msgs))
	out := make([]Message, 0, len(msgs))
	for _, m := range msgs {
		cp := Counterpart(m, userID)
		if seen[cp] {
			continue
		}
		seen[cp] = true
		out = append(out, m)
	}
	return out
}

func collectMessages(rows *sql.Rows) ([]Message, error) {
	var out []Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.SenderID, &m.ReceiverID, &m.Content, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func reverseMessages(msgs []Message) {
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
}
