package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/worldmic/seat-service/internal/model"
	"github.com/worldmic/seat-service/internal/utils"
)

const (
	maxUsernameLen = 40
	maxTextLen     = 200
	feedLimit      = 100
)

// ChatStore is the persistence contract for chat messages.
// *repository.ChatRepo satisfies it.
type ChatStore interface {
	Insert(ctx context.Context, username, text string) error
	ListRecent(ctx context.Context, limit int) ([]model.ChatMessage, error)
}

// ChatHandler serves the viewer chat: a high-volume side channel whose
// write path sits behind the admission limiter (applied as route
// middleware, see the router).
type ChatHandler struct {
	Chat ChatStore
}

// NewChatHandler constructs a ChatHandler.
func NewChatHandler(chat ChatStore) *ChatHandler {
	if chat == nil {
		panic("nil chat repository passed to NewChatHandler")
	}
	return &ChatHandler{Chat: chat}
}

// Post handles POST /v1/chat.  Usernames and texts are truncated at the
// boundary rather than rejected; only an empty message is an error.
func (h *ChatHandler) Post(c echo.Context) error {
	var body struct {
		Username string `json:"username"`
		Text     string `json:"text"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	username := strings.TrimSpace(utils.TruncateRunes(body.Username, maxUsernameLen))
	if username == "" {
		username = "anon"
	}
	text := strings.TrimSpace(utils.TruncateRunes(body.Text, maxTextLen))
	if text == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "empty message"})
	}

	if err := h.Chat.Insert(c.Request().Context(), username, text); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not store message"})
	}
	return c.JSON(http.StatusOK, echo.Map{"ok": true})
}

// Feed handles GET /v1/chat/feed.  It returns the latest messages in
// chronological order.
func (h *ChatHandler) Feed(c echo.Context) error {
	msgs, err := h.Chat.ListRecent(c.Request().Context(), feedLimit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not load feed"})
	}
	if msgs == nil {
		msgs = []model.ChatMessage{}
	}
	return c.JSON(http.StatusOK, echo.Map{"messages": msgs})
}
