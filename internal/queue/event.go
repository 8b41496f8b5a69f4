// Package queue defines message payloads exchanged over the broker.
package queue

// MessageSentEvent is published after a message has been persisted. It
// carries enough for downstream consumers to log or trigger analytics
// without querying the primary database. Publication is best effort and
// strictly after the store write, so a lost event never loses a message.
type MessageSentEvent struct {
	MessageID  uint64 `json:"message_id"`
	SenderID   uint64 `json:"sender_id"`
	ReceiverID uint64 `json:"receiver_id"`
	Content    string `json:"content"`
	SentAt     string `json:"sent_at"`
}
