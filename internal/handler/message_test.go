package handler

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wastezero/volunteer-hub/internal/realtime"
	"github.com/wastezero/volunteer-hub/internal/repository"
	"github.com/wastezero/volunteer-hub/internal/service"
)

type stubDirectory struct{ users map[uint64]repository.User }

func (s *stubDirectory) GetByID(_ context.Context, id uint64) (repository.User, error) {
	u, ok := s.users[id]
	if !ok {
		return repository.User{}, sql.ErrNoRows
	}
	return u, nil
}

type stubOpps struct{ open []repository.Opportunity }

func (s *stubOpps) OpenByNGO(context.Context, uint64) ([]repository.Opportunity, error) {
	return s.open, nil
}

type stubStore struct{}

func (stubStore) Append(_ context.Context, senderID, receiverID uint64, content string) (repository.Message, error) {
	return repository.Message{ID: 1, SenderID: senderID, ReceiverID: receiverID, Content: content, CreatedAt: time.Now().UTC()}, nil
}

type stubHub struct{}

func (stubHub) PushToUser(uint64, realtime.Event) {}

func newSendContext(t *testing.T, uid uint64, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/messages", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", uid)
	return c, rec
}

func sendHandler(matched bool) *MessageHandler {
	users := &stubDirectory{users: map[uint64]repository.User{
		1: {ID: 1, Role: repository.RoleVolunteer, Skills: []string{"Sorting"}, Location: "Delhi"},
		2: {ID: 2, Role: repository.RoleNGO},
	}}
	opps := &stubOpps{}
	if matched {
		opps.open = []repository.Opportunity{{NGOID: 2, Status: repository.StatusOpen, Location: "Delhi", RequiredSkills: []string{"Sorting"}}}
	}
	svc := service.NewMessageService(users, opps, stubStore{}, stubHub{})
	return &MessageHandler{Service: svc}
}

func TestSendReturnsCreated(t *testing.T) {
	h := sendHandler(true)
	c, rec := newSendContext(t, 1, `{"receiverId":2,"content":"hello"}`)

	require.NoError(t, h.Send(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":true`)
	assert.Contains(t, rec.Body.String(), `"content":"hello"`)
}

func TestSendUnmatchedIsForbidden(t *testing.T) {
	h := sendHandler(false)
	c, rec := newSendContext(t, 1, `{"receiverId":2,"content":"hello"}`)

	require.NoError(t, h.Send(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "users are not matched")
}

func TestSendMissingFieldsIsBadRequest(t *testing.T) {
	h := sendHandler(true)
	c, rec := newSendContext(t, 1, `{"receiverId":0,"content":""}`)

	require.NoError(t, h.Send(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSendUnknownReceiverIsNotFound(t *testing.T) {
	h := sendHandler(true)
	c, rec := newSendContext(t, 1, `{"receiverId":99,"content":"hello"}`)

	require.NoError(t, h.Send(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
