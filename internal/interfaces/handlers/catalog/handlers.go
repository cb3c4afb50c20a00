package catalog

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strconv"
	"time"

	catalogsvc "artisan-market/internal/application/catalog"
	"artisan-market/internal/application/images"
	"artisan-market/internal/domain"
	"artisan-market/internal/pkg/response"
	"artisan-market/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

const defaultWaitTimeout = 30 * time.Second

// Handlers exposes the catalog store over HTTP. Domain errors are returned as-is and
// rendered by middleware.ErrorHandler.
type Handlers struct {
	Store       *catalogsvc.Store
	WaitTimeout time.Duration // bound for POST /draft/image?wait=true
}

type listingView struct {
	domain.Listing
	DisplayPrice       string `json:"displayPrice"`
	DisplayCryptoPrice string `json:"displayCryptoPrice"`
}

func viewOf(l domain.Listing) listingView {
	return listingView{Listing: l, DisplayPrice: l.DisplayPrice(), DisplayCryptoPrice: l.DisplayCryptoPrice()}
}

// GET /api/v1/catalog/listings
func (h *Handlers) ListListings(c *fiber.Ctx) error {
	listings := h.Store.ListAll()
	out := make([]listingView, 0, len(listings))
	for _, l := range listings {
		out = append(out, viewOf(l))
	}
	return response.Success(c, "Listings fetched successfully", out, fiber.Map{
		"count":    len(out),
		"viewMode": h.Store.ViewMode(),
	})
}

// POST /api/v1/catalog/listings: submits the current draft.
func (h *Handlers) AddListing(c *fiber.Ctx) error {
	listing, err := h.Store.AddListing(c.UserContext())
	if err != nil {
		return err
	}
	return response.SuccessCreated(c, "Listing created successfully", viewOf(listing), fiber.Map{
		"count": h.Store.Len(),
	})
}

// GET /api/v1/catalog/listings/:id
func (h *Handlers) GetListing(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return response.Error(c, "Invalid listing id", fiber.StatusBadRequest, nil)
	}
	listing, err := h.Store.Get(id)
	if err != nil {
		return err
	}
	return response.Success(c, "Listing fetched successfully", viewOf(listing), nil)
}

func (h *Handlers) draftMeta() fiber.Map {
	sel := h.Store.Selection()
	var selection interface{}
	if !sel.IsZero() {
		selection = sel
	}
	return fiber.Map{
		"selection": selection,
		"accept":    images.AcceptHint(),
	}
}

// GET /api/v1/catalog/draft
func (h *Handlers) GetDraft(c *fiber.Ctx) error {
	return response.Success(c, "Draft fetched successfully", h.Store.Draft(), h.draftMeta())
}

// PATCH /api/v1/catalog/draft: partial update of the text fields.
func (h *Handlers) UpdateDraft(c *fiber.Ctx) error {
	var patch domain.DraftPatch
	if err := c.BodyParser(&patch); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	draft := h.Store.UpdateDraft(patch)
	return response.Success(c, "Draft updated successfully", draft, h.draftMeta())
}

// DELETE /api/v1/catalog/draft
func (h *Handlers) ResetDraft(c *fiber.Ctx) error {
	h.Store.ResetDraft(c.UserContext())
	return response.Success(c, "Draft reset successfully", h.Store.Draft(), h.draftMeta())
}

// POST /api/v1/catalog/draft/image: multipart field "image". The file is validated
// before its body is read; encoding finishes in the background unless wait=true.
func (h *Handlers) SelectImage(c *fiber.Ctx) error {
	fh, err := c.FormFile("image")
	if err != nil {
		return response.Error(c, "image file is required", fiber.StatusBadRequest, nil)
	}
	raw := images.RawFile{
		Name:      fh.Filename,
		MediaType: fh.Header.Get("Content-Type"),
		Size:      fh.Size,
	}
	if err := images.Validate(raw); err != nil {
		return err
	}

	// The request and its multipart files are recycled once the handler returns, so the
	// background read works on a private copy.
	f, err := fh.Open()
	if err != nil {
		return err
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, domain.MaxImageBytes+1))
	if err != nil {
		return err
	}
	raw.Body = bytes.NewReader(data)

	up, err := h.Store.SelectImage(context.Background(), raw)
	if err != nil {
		return err
	}
	log.Debug().Str("selection", up.Selection().ID).Str("file", raw.Name).Msg("catalog: image selected")

	if !c.QueryBool("wait") {
		return response.Accepted(c, "Image is being processed", up.Selection(), nil)
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.waitTimeout())
	defer cancel()
	if _, err := up.Wait(ctx); err != nil {
		switch {
		case errors.Is(err, catalogsvc.ErrSuperseded):
			return response.Error(c, err.Error(), fiber.StatusConflict, nil)
		case errors.Is(err, context.DeadlineExceeded):
			return response.Error(c, "Image is still being processed", fiber.StatusGatewayTimeout, fiber.Map{
				"selection": up.Selection(),
			})
		}
		return err
	}
	return response.Success(c, "Image attached successfully", h.Store.Draft(), h.draftMeta())
}

// DELETE /api/v1/catalog/draft/image
func (h *Handlers) RemoveImage(c *fiber.Ctx) error {
	h.Store.RemoveImage(c.UserContext())
	return response.Success(c, "Image removed successfully", h.Store.Draft(), h.draftMeta())
}

type viewModeBody struct {
	Mode string `json:"mode" validate:"required,oneof=grid row"`
}

// GET /api/v1/catalog/view-mode
func (h *Handlers) GetViewMode(c *fiber.Ctx) error {
	return response.Success(c, "View mode fetched successfully", fiber.Map{"mode": h.Store.ViewMode()}, nil)
}

// PUT /api/v1/catalog/view-mode: body {"mode": "grid" | "row"}
func (h *Handlers) SetViewMode(c *fiber.Ctx) error {
	var body viewModeBody
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	if err := validation.V().Struct(body); err != nil {
		return response.Error(c, domain.ErrUnknownViewMode.Error(), fiber.StatusBadRequest, fiber.Map{"field": "mode"})
	}
	mode, err := domain.ParseViewMode(body.Mode)
	if err != nil {
		return err
	}
	if err := h.Store.SetViewMode(mode); err != nil {
		return err
	}
	return response.Success(c, "View mode updated successfully", fiber.Map{"mode": mode}, nil)
}

func (h *Handlers) waitTimeout() time.Duration {
	if h.WaitTimeout > 0 {
		return h.WaitTimeout
	}
	return defaultWaitTimeout
}

// Register mounts the catalog routes on r.
func (h *Handlers) Register(r fiber.Router) {
	r.Get("/listings", h.ListListings)
	r.Post("/listings", h.AddListing)
	r.Get("/listings/:id", h.GetListing)
	r.Get("/draft", h.GetDraft)
	r.Patch("/draft", h.UpdateDraft)
	r.Delete("/draft", h.ResetDraft)
	r.Post("/draft/image", h.SelectImage)
	r.Delete("/draft/image", h.RemoveImage)
	r.Get("/view-mode", h.GetViewMode)
	r.Put("/view-mode", h.SetViewMode)
}
