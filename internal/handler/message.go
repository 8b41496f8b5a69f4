package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/wastezero/volunteer-hub/internal/repository"
	"github.com/wastezero/volunteer-hub/internal/service"
)

// MessageHandler serves the messaging endpoints. Send goes through the
// service so the match gate and realtime push stay in one place; reads
// and deletes go straight to the repository.
type MessageHandler struct {
	Service  *service.MessageService
	Messages *repository.MessageRepo
}

func NewMessageHandler(svc *service.MessageService, msgs *repository.MessageRepo) *MessageHandler {
	return &MessageHandler{Service: svc, Messages: msgs}
}

type sendMessageReq struct {
	ReceiverID uint64 `json:"receiverId"`
	Content    string `json:"content"`
}

// Send handles POST /v1/messages.
func (h *MessageHandler) Send(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var body sendMessageReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	msg, err := h.Service.SendMessage(ctx, uid, body.ReceiverID, body.Content)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyContent):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		case errors.Is(err, service.ErrSenderNotFound):
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": err.Error()})
		case errors.Is(err, service.ErrReceiverNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
		case errors.Is(err, service.ErrNotMatched):
			return c.JSON(http.StatusForbidden, echo.Map{"error": err.Error()})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not send message"})
		}
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"message": "message sent successfully",
		"data":    msg,
	})
}

// Conversations handles GET /v1/messages/conversations: one entry per
// counterpart, newest first, with the latest visible message.
func (h *MessageHandler) Conversations(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	convs, err := h.Messages.Conversations(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch conversations"})
	}
	if convs == nil {
		convs = []repository.Conversation{}
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "count": len(convs), "data": convs})
}

// History handles GET /v1/messages/:userId: the most recent messages
// exchanged with that user, oldest first, minus anything the caller has
// deleted.
func (h *MessageHandler) History(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	otherID, err := strconv.ParseUint(c.Param("userId"), 10, 64)
	if err != nil || otherID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	msgs, err := h.Messages.History(ctx, uid, otherID, repository.DefaultHistoryLimit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch messages"})
	}
	if msgs == nil {
		msgs = []repository.Message{}
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "count": len(msgs), "data": msgs})
}

// DeleteConversation handles DELETE /v1/messages/:userId. The hide is
// one-sided: the other participant keeps their copy.
func (h *MessageHandler) DeleteConversation(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	otherID, err := strconv.ParseUint(c.Param("userId"), 10, 64)
	if err != nil || otherID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Messages.SoftDeleteConversation(ctx, uid, otherID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not delete conversation"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "conversation deleted successfully"})
}
