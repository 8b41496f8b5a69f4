// Package service holds the messaging orchestration: the one place that
// decides whether a message may be sent, persists it, and fans it out.
package service

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/wastezero/volunteer-hub/internal/match"
	"github.com/wastezero/volunteer-hub/internal/queue"
	"github.com/wastezero/volunteer-hub/internal/realtime"
	"github.com/wastezero/volunteer-hub/internal/repository"
)

// Sentinel errors the handler layer maps onto HTTP statuses. ErrNotMatched
// carries the specific "users are not matched" meaning the client relies
// on to explain why messaging is blocked.
var (
	ErrEmptyContent     = errors.New("receiverId and content are required")
	ErrSenderNotFound   = errors.New("sender not found")
	ErrReceiverNotFound = errors.New("receiver not found")
	ErrNotMatched       = errors.New("users are not matched")
)

// UserDirectory is the slice of the user repository the service needs.
type UserDirectory interface {
	GetByID(ctx context.Context, id uint64) (repository.User, error)
}

// ConversationStore is the slice of the message repository the service
// needs for sending; reads go straight from handler to repository.
type ConversationStore interface {
	Append(ctx context.Context, senderID, receiverID uint64, content string) (repository.Message, error)
}

// Pusher delivers an event to every live connection of one user.
type Pusher interface {
	PushToUser(userID uint64, ev realtime.Event)
}

// MessageService wires the directory, the match rule, the conversation
// store and the realtime hub into the send flow. PublishEvent is optional;
// main wires it to PublishMessageSent, tests leave it nil or stub it.
type MessageService struct {
	Users         UserDirectory
	Opportunities match.OpportunitySource
	Messages      ConversationStore
	Hub           Pusher
	PublishEvent  func(ctx context.Context, ev queue.MessageSentEvent) error
}

func NewMessageService(users UserDirectory, opps match.OpportunitySource, msgs ConversationStore, hub Pusher) *MessageService {
	return &MessageService{Users: users, Opportunities: opps, Messages: msgs, Hub: hub}
}

// newMessagePayload is the newMessage event body pushed to the receiver's
// room.
type newMessagePayload struct {
	SenderID   uint64    `json:"senderId"`
	ReceiverID uint64    `json:"receiverId"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"createdAt"`
}

// SendMessage runs the full send flow: validate input, load both parties,
// gate on the match rule, persist, then push and publish best-effort.
//
// The order is load-bearing: the store write happens before any push, so a
// receiver that is offline (or a push that fails for any reason) never
// loses the message; it stays retrievable via history. The match check is
// advisory gating, not a reservation: an opportunity closing between the
// check and the write is accepted behavior.
func (s *MessageService) SendMessage(ctx context.Context, senderID, receiverID uint64, content string) (repository.Message, error) {
	if receiverID == 0 || strings.TrimSpace(content) == "" {
		return repository.Message{}, ErrEmptyContent
	}

	sender, err := s.Users.GetByID(ctx, senderID)
	if err != nil {
		if err == sql.ErrNoRows {
			return repository.Message{}, ErrSenderNotFound
		}
		return repository.Message{}, err
	}
	receiver, err := s.Users.GetByID(ctx, receiverID)
	if err != nil {
		if err == sql.ErrNoRows {
			return repository.Message{}, ErrReceiverNotFound
		}
		return repository.Message{}, err
	}

	matched, err := match.IsMatched(ctx, s.Opportunities, sender, receiver)
	if err != nil {
		return repository.Message{}, err
	}
	if !matched {
		return repository.Message{}, ErrNotMatched
	}

	msg, err := s.Messages.Append(ctx, sender.ID, receiver.ID, content)
	if err != nil {
		return repository.Message{}, err
	}

	// Fire-and-forget from here on. The push is at-most-once; a receiver
	// with no live connections simply misses the event.
	s.Hub.PushToUser(receiver.ID, realtime.Event{
		Event: "newMessage",
		Data: newMessagePayload{
			SenderID:   msg.SenderID,
			ReceiverID: msg.ReceiverID,
			Content:    msg.Content,
			CreatedAt:  msg.CreatedAt,
		},
	})

	if s.PublishEvent != nil {
		ev := queue.MessageSentEvent{
			MessageID:  msg.ID,
			SenderID:   msg.SenderID,
			ReceiverID: msg.ReceiverID,
			Content:    msg.Content,
			SentAt:     msg.CreatedAt.UTC().Format(time.RFC3339),
		}
		go func() {
			pubCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := s.PublishEvent(pubCtx, ev); err != nil {
				log.Printf("message-service: publish message.sent failed: %v", err)
			}
		}()
	}

	return msg, nil
}
