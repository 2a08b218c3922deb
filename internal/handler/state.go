package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/worldmic/seat-service/internal/monitoring"
	"github.com/worldmic/seat-service/internal/service"
)

// StateHandler serves the read projection consumed by the presentation
// layer.  The projection is a pure view of seat state; reading it also
// triggers lazy expiry, so viewers never see a lapsed holder.
type StateHandler struct {
	Seats *service.SeatService
}

// NewStateHandler constructs a StateHandler.
func NewStateHandler(seats *service.SeatService) *StateHandler {
	if seats == nil {
		panic("nil seat service passed to NewStateHandler")
	}
	return &StateHandler{Seats: seats}
}

// Get handles GET /v1/state.  It returns the current price, the holder's
// display name (null when vacant) and when the hold expires.
func (h *StateHandler) Get(c echo.Context) error {
	st, err := h.Seats.Current(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "store unavailable"})
	}
	monitoring.SetSeatState(st.PriceCents, st.Held())

	var expires *string
	if st.ExpiresAt != nil {
		v := st.ExpiresAt.UTC().Format(time.RFC3339)
		expires = &v
	}
	return c.JSON(http.StatusOK, echo.Map{
		"price_cents": st.PriceCents,
		"holder_name": st.HolderName,
		"expires_at":  expires,
	})
}
