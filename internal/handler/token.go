package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/worldmic/seat-service/internal/rtc"
	"github.com/worldmic/seat-service/internal/service"
)

// tokenTTL bounds how long a room token stays valid.  It comfortably
// covers one hold plus spectating before and after.
const tokenTTL = time.Hour

// TokenHandler issues room-join tokens for the media transport.  Every
// caller may subscribe; the publish grant is given only to the current
// seat holder, so paying for the seat is the only way onto the mic.
type TokenHandler struct {
	Seats     *service.SeatService
	APIKey    string
	APISecret string
	Room      string
}

// NewTokenHandler constructs a TokenHandler.
func NewTokenHandler(seats *service.SeatService, apiKey, apiSecret, room string) *TokenHandler {
	if seats == nil {
		panic("nil seat service passed to NewTokenHandler")
	}
	return &TokenHandler{Seats: seats, APIKey: apiKey, APISecret: apiSecret, Room: room}
}

// Issue handles POST /v1/rtc/token.
func (h *TokenHandler) Issue(c echo.Context) error {
	if h.APIKey == "" || h.APISecret == "" {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "media tokens not configured"})
	}

	var body struct {
		Identity  string `json:"identity"`
		Publisher bool   `json:"publisher"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	identity := body.Identity
	if identity == "" {
		identity = fmt.Sprintf("guest-%d", time.Now().UnixNano())
	}

	canPublish := false
	if body.Publisher {
		st, err := h.Seats.Current(c.Request().Context())
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "store unavailable"})
		}
		canPublish = st.HolderID != nil && *st.HolderID == identity
	}

	token, err := rtc.NewRoomToken(h.APIKey, h.APISecret, identity, rtc.Grant{
		Room:         h.Room,
		RoomJoin:     true,
		CanPublish:   canPublish,
		CanSubscribe: true,
	}, tokenTTL)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not sign token"})
	}
	return c.JSON(http.StatusOK, echo.Map{"token": token, "can_publish": canPublish})
}
