package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"strings"
	"sync"
	"time"

	"artisan-market/internal/application/images"
	"artisan-market/internal/domain"
	"artisan-market/internal/pkg/validation"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog/log"
)

// ErrSuperseded is reported by an Upload whose result arrived after a newer selection,
// a removal or a reset. The draft is not touched in that case.
var ErrSuperseded = errors.New("Image selection was superseded")

// IDScheme decides how listing ids are assigned.
type IDScheme string

const (
	// IDCounter hands out ids from a counter owned by the store, starting after the
	// highest seeded id. Ids never repeat within a session.
	IDCounter IDScheme = "counter"
	// IDCount uses catalog length + 1. Ids can repeat once listings are ever removed.
	IDCount IDScheme = "count"
)

func ParseIDScheme(s string) (IDScheme, error) {
	switch IDScheme(strings.ToLower(strings.TrimSpace(s))) {
	case "", IDCounter:
		return IDCounter, nil
	case IDCount:
		return IDCount, nil
	}
	return "", fmt.Errorf("unknown listing id scheme %q", s)
}

// EncodeFunc reads and encodes an already validated file.
type EncodeFunc func(ctx context.Context, f images.RawFile) (domain.EncodedImage, error)

// Recorder receives journal events. Errors are logged and never fail the operation.
type Recorder interface {
	Record(ctx context.Context, listingID *int64, eventType string, data map[string]interface{}) error
}

// Selection is the file-selection handle. The zero value means no file is selected.
type Selection struct {
	ID       string `json:"id"`
	FileName string `json:"file_name"`

	generation uint64
}

func (s Selection) IsZero() bool {
	return s.ID == ""
}

// Store owns the catalog, the single live draft, the selection handle and the view mode.
// All mutation happens under one lock; only image reads run outside it.
type Store struct {
	mu         sync.Mutex
	listings   []domain.Listing
	draft      domain.Draft
	selection  Selection
	generation uint64
	nextID     int64
	viewMode   domain.ViewMode
	entropy    io.Reader

	scheme        IDScheme
	encode        EncodeFunc
	recorder      Recorder
	encodeTimeout time.Duration
}

type Option func(*Store)

// WithSeed replaces the built-in sample listings.
func WithSeed(seed []domain.Listing) Option {
	return func(s *Store) {
		s.listings = append([]domain.Listing(nil), seed...)
	}
}

func WithIDScheme(scheme IDScheme) Option {
	return func(s *Store) { s.scheme = scheme }
}

// WithPipeline swaps the encoder used for selected images.
func WithPipeline(fn EncodeFunc) Option {
	return func(s *Store) { s.encode = fn }
}

func WithRecorder(r Recorder) Option {
	return func(s *Store) { s.recorder = r }
}

// WithEncodeTimeout bounds each background read; zero means no bound.
func WithEncodeTimeout(d time.Duration) Option {
	return func(s *Store) { s.encodeTimeout = d }
}

// New builds a store seeded with the sample listings unless WithSeed says otherwise.
func New(opts ...Option) *Store {
	s := &Store{
		listings: DefaultSeed(),
		viewMode: domain.ViewGrid,
		scheme:   IDCounter,
		encode:   images.Encode,
		entropy:  ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0),
	}
	for _, opt := range opts {
		opt(s)
	}
	for _, l := range s.listings {
		if l.ID > s.nextID {
			s.nextID = l.ID
		}
	}
	return s
}

// ListAll returns the catalog in insertion order.
func (s *Store) ListAll() []domain.Listing {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Listing(nil), s.listings...)
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.listings)
}

// Get returns the first listing with the given id.
func (s *Store) Get(id int64) (domain.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range s.listings {
		if l.ID == id {
			return l, nil
		}
	}
	return domain.Listing{}, domain.ErrListingNotFound
}

func (s *Store) ViewMode() domain.ViewMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewMode
}

func (s *Store) SetViewMode(m domain.ViewMode) error {
	if m != domain.ViewGrid && m != domain.ViewRow {
		return fmt.Errorf("%w: %q", domain.ErrUnknownViewMode, m)
	}
	s.mu.Lock()
	s.viewMode = m
	s.mu.Unlock()
	return nil
}

// Draft returns a copy of the current draft.
func (s *Store) Draft() domain.Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyDraft(s.draft)
}

// Selection returns the current file-selection handle.
func (s *Store) Selection() Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection
}

func (s *Store) SetName(v string) {
	s.UpdateDraft(domain.DraftPatch{Name: &v})
}

func (s *Store) SetPrice(v string) {
	s.UpdateDraft(domain.DraftPatch{Price: &v})
}

func (s *Store) SetDescription(v string) {
	s.UpdateDraft(domain.DraftPatch{Description: &v})
}

func (s *Store) SetCategory(v string) {
	s.UpdateDraft(domain.DraftPatch{Category: &v})
}

// UpdateDraft applies the non-nil text fields of p. The image is never touched here.
func (s *Store) UpdateDraft(p domain.DraftPatch) domain.Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.Name != nil {
		s.draft.Name = *p.Name
	}
	if p.Price != nil {
		s.draft.Price = *p.Price
	}
	if p.Description != nil {
		s.draft.Description = *p.Description
	}
	if p.Category != nil {
		s.draft.Category = *p.Category
	}
	return copyDraft(s.draft)
}

// ResetDraft empties the draft, clears the selection and supersedes any in-flight read.
func (s *Store) ResetDraft(ctx context.Context) {
	s.mu.Lock()
	s.draft = domain.Draft{}
	s.selection = Selection{}
	s.generation++
	s.mu.Unlock()

	log.Info().Msg("catalog: draft reset")
	s.record(ctx, nil, domain.EventDraftReset, nil)
}

// RemoveImage clears the draft image and the selection handle, so choosing the same
// file again is validated and encoded from scratch. Any in-flight read is superseded.
func (s *Store) RemoveImage(ctx context.Context) {
	s.mu.Lock()
	hadImage := s.draft.Image != nil
	s.draft.Image = nil
	s.selection = Selection{}
	s.generation++
	s.mu.Unlock()

	log.Info().Bool("had_image", hadImage).Msg("catalog: image removed")
	if hadImage {
		s.record(ctx, nil, domain.EventImageRemoved, nil)
	}
}

// SelectImage validates f synchronously and then encodes it in the background. A
// validation failure returns the error and leaves all state as it was. ctx bounds the
// background read and must outlive the call.
func (s *Store) SelectImage(ctx context.Context, f images.RawFile) (*Upload, error) {
	if err := images.Validate(f); err != nil {
		log.Info().Err(err).Str("file", f.Name).Str("media_type", f.MediaType).Int64("size", f.Size).Msg("catalog: image rejected")
		return nil, err
	}

	s.mu.Lock()
	s.generation++
	sel := Selection{
		ID:         ulid.MustNew(ulid.Timestamp(time.Now()), s.entropy).String(),
		FileName:   f.Name,
		generation: s.generation,
	}
	s.selection = sel
	s.mu.Unlock()

	up := &Upload{selection: sel, done: make(chan struct{})}
	go s.runEncode(ctx, f, up)
	return up, nil
}

func (s *Store) runEncode(ctx context.Context, f images.RawFile, up *Upload) {
	defer close(up.done)
	if s.encodeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.encodeTimeout)
		defer cancel()
	}

	enc, err := s.encode(ctx, f)
	if err != nil {
		up.err = err
		log.Warn().Err(err).Str("selection", up.selection.ID).Msg("catalog: image read failed, draft unchanged")
		return
	}

	s.mu.Lock()
	current := up.selection.generation == s.generation
	if current {
		s.draft.Image = &enc
	}
	s.mu.Unlock()

	if !current {
		up.err = ErrSuperseded
		log.Debug().Str("selection", up.selection.ID).Msg("catalog: stale image dropped")
		return
	}
	up.image = enc
	log.Info().Str("selection", up.selection.ID).Str("media_type", enc.MediaType).Int64("size", enc.Size).Msg("catalog: image attached")
	s.record(context.Background(), nil, domain.EventImageAttached, map[string]interface{}{
		"file_name":  enc.FileName,
		"media_type": enc.MediaType,
		"size":       enc.Size,
	})
}

// AddListing turns the current draft into a listing. The draft is checked in a fixed
// order (name, price, description, image); the first failure is reported as a
// *domain.SubmissionError and nothing changes. On success the listing is appended, the
// draft and selection are cleared and the view mode is kept.
func (s *Store) AddListing(ctx context.Context) (domain.Listing, error) {
	s.mu.Lock()
	field, err := validation.FirstInvalidField(s.draft)
	if err != nil {
		s.mu.Unlock()
		return domain.Listing{}, err
	}
	if field != "" {
		s.mu.Unlock()
		log.Info().Str("field", field).Msg("catalog: submission incomplete")
		return domain.Listing{}, &domain.SubmissionError{Field: field}
	}

	price, _ := validation.ParsePositiveDecimal(s.draft.Price)
	listing := domain.Listing{
		ID:             s.assignID(),
		Name:           s.draft.Name,
		PrimaryPrice:   price,
		SecondaryPrice: price * domain.SecondaryPriceFactor,
		Description:    s.draft.Description,
		Category:       s.draft.Category,
		Image:          s.draft.Image.DataURI,
	}
	s.listings = append(s.listings, listing)
	s.draft = domain.Draft{}
	s.selection = Selection{}
	s.mu.Unlock()

	log.Info().Int64("id", listing.ID).Str("name", listing.Name).Float64("price", listing.PrimaryPrice).Msg("catalog: listing added")
	id := listing.ID
	s.record(ctx, &id, domain.EventCreated, map[string]interface{}{
		"name":         listing.Name,
		"price":        listing.PrimaryPrice,
		"crypto_price": listing.SecondaryPrice,
		"category":     listing.Category,
	})
	return listing, nil
}

// assignID must be called with s.mu held.
func (s *Store) assignID() int64 {
	if s.scheme == IDCount {
		return int64(len(s.listings)) + 1
	}
	s.nextID++
	return s.nextID
}

func (s *Store) record(ctx context.Context, listingID *int64, eventType string, data map[string]interface{}) {
	if s.recorder == nil {
		return
	}
	if data == nil {
		data = map[string]interface{}{}
	}
	if err := s.recorder.Record(ctx, listingID, eventType, data); err != nil {
		log.Warn().Err(err).Str("event_type", eventType).Msg("catalog: journal write failed")
	}
}

func copyDraft(d domain.Draft) domain.Draft {
	if d.Image != nil {
		img := *d.Image
		d.Image = &img
	}
	return d
}
