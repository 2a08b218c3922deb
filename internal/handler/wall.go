package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/worldmic/seat-service/internal/model"
)

const wallLimit = 40

// LedgerReader lists recent ledger entries for display.
// *repository.TransactionRepo satisfies it.
type LedgerReader interface {
	ListRecent(ctx context.Context, limit int) ([]model.Transaction, error)
}

// WallHandler projects recent completed payments for display.  It only
// exposes what viewers may see; payer identities and provider ids stay
// internal.
type WallHandler struct {
	Ledger LedgerReader
}

// NewWallHandler constructs a WallHandler.
func NewWallHandler(ledger LedgerReader) *WallHandler {
	if ledger == nil {
		panic("nil transaction repository passed to NewWallHandler")
	}
	return &WallHandler{Ledger: ledger}
}

type wallEntry struct {
	Kind        string  `json:"kind"`
	AmountCents int64   `json:"amount_cents"`
	Message     *string `json:"message,omitempty"`
	CreatedAt   string  `json:"created_at"`
}

// List handles GET /v1/wall.
func (h *WallHandler) List(c echo.Context) error {
	txs, err := h.Ledger.ListRecent(c.Request().Context(), wallLimit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not load wall"})
	}
	entries := make([]wallEntry, 0, len(txs))
	for _, t := range txs {
		entries = append(entries, wallEntry{
			Kind:        t.Kind,
			AmountCents: t.AmountCents,
			Message:     t.Message,
			CreatedAt:   t.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"entries": entries})
}
