package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/worldmic/seat-service/internal/model"
)

type fakeChatStore struct {
	messages []model.ChatMessage
	insErr   error
	listErr  error
}

func (f *fakeChatStore) Insert(ctx context.Context, username, text string) error {
	if f.insErr != nil {
		return f.insErr
	}
	f.messages = append(f.messages, model.ChatMessage{
		ID:        uint64(len(f.messages) + 1),
		Username:  username,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	})
	return nil
}

func (f *fakeChatStore) ListRecent(ctx context.Context, limit int) ([]model.ChatMessage, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	if len(f.messages) > limit {
		return f.messages[len(f.messages)-limit:], nil
	}
	return f.messages, nil
}

func postChat(t *testing.T, h *ChatHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/chat", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	require.NoError(t, h.Post(e.NewContext(req, rec)))
	return rec
}

func TestChatPost(t *testing.T) {
	store := &fakeChatStore{}
	h := NewChatHandler(store)

	rec := postChat(t, h, `{"username":"riley","text":"hello"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, store.messages, 1)
	assert.Equal(t, "riley", store.messages[0].Username)
	assert.Equal(t, "hello", store.messages[0].Text)
}

func TestChatPostDefaultsUsername(t *testing.T) {
	store := &fakeChatStore{}
	h := NewChatHandler(store)

	rec := postChat(t, h, `{"text":"hi"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, store.messages, 1)
	assert.Equal(t, "anon", store.messages[0].Username)
}

func TestChatPostRejectsEmptyText(t *testing.T) {
	store := &fakeChatStore{}
	h := NewChatHandler(store)

	rec := postChat(t, h, `{"username":"riley","text":"   "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, store.messages)
}

func TestChatPostTruncatesLongInput(t *testing.T) {
	store := &fakeChatStore{}
	h := NewChatHandler(store)

	long := strings.Repeat("x", maxTextLen+50)
	rec := postChat(t, h, `{"username":"riley","text":"`+long+`"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, store.messages, 1)
	assert.Len(t, store.messages[0].Text, maxTextLen)
}

func TestChatPostStoreFailure(t *testing.T) {
	store := &fakeChatStore{insErr: errors.New("db down")}
	h := NewChatHandler(store)

	rec := postChat(t, h, `{"username":"riley","text":"hi"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestChatFeedNeverNull(t *testing.T) {
	h := NewChatHandler(&fakeChatStore{})

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/chat/feed", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, h.Feed(e.NewContext(req, rec)))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"messages":[]}`, rec.Body.String())
}
