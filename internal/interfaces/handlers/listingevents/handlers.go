package listingevents

import (
	"errors"
	"strconv"

	lesvc "artisan-market/internal/application/listingevents"
	"artisan-market/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *lesvc.Service
}

// GET /api/v1/catalog/events?listing_id=
func (h *Handlers) ListEvents(c *fiber.Ctx) error {
	var listingID *int64
	if s := c.Query("listing_id"); s != "" {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return response.Error(c, "Invalid listing_id", fiber.StatusBadRequest, nil)
		}
		listingID = &id
	}

	events, err := h.Service.List(c.UserContext(), listingID)
	if err != nil {
		if errors.Is(err, lesvc.ErrJournalDisabled) {
			return response.Error(c, err.Error(), fiber.StatusNotFound, nil)
		}
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Listing events fetched successfully", events, fiber.Map{"count": len(events)})
}
