package listingevents

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"artisan-market/internal/domain"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var ErrJournalDisabled = errors.New("Listing event journal is not configured")

// Service stores the session's listing events. It satisfies catalog.Recorder.
type Service struct {
	DB *gorm.DB
}

func (s *Service) Record(ctx context.Context, listingID *int64, eventType string, data map[string]interface{}) error {
	if s == nil || s.DB == nil {
		return ErrJournalDisabled
	}
	if data == nil {
		data = map[string]interface{}{}
	}
	eventDataBytes, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("Failed to encode listing event: %v", err)
	}
	if err := s.DB.WithContext(ctx).Create(&domain.ListingEvent{
		ListingID: listingID,
		EventType: eventType,
		EventData: datatypes.JSON(eventDataBytes),
	}).Error; err != nil {
		return fmt.Errorf("Failed to create listing event: %v", err)
	}
	return nil
}

// List returns events oldest first, optionally limited to one listing.
func (s *Service) List(ctx context.Context, listingID *int64) ([]domain.ListingEvent, error) {
	if s == nil || s.DB == nil {
		return nil, ErrJournalDisabled
	}
	q := s.DB.WithContext(ctx)
	if listingID != nil {
		q = q.Where("listing_id = ?", *listingID)
	}
	var events []domain.ListingEvent
	if err := q.Order(`"createdAt" ASC`).Find(&events).Error; err != nil {
		return nil, fmt.Errorf("Failed to fetch listing events: %v", err)
	}
	return events, nil
}

// Ping reports whether the journal database answers.
func (s *Service) Ping() error {
	if s == nil || s.DB == nil {
		return ErrJournalDisabled
	}
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
