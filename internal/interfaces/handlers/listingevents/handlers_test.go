package listingevents

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	lesvc "artisan-market/internal/application/listingevents"
	"artisan-market/internal/domain"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupLETest(t *testing.T) (*fiber.App, *lesvc.Service) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.ListingEvent{}))
	svc := &lesvc.Service{DB: db}
	h := &Handlers{Service: svc}
	app := fiber.New()
	app.Get("/events", h.ListEvents)
	return app, svc
}

func TestListEvents_Empty(t *testing.T) {
	app, _ := setupLETest(t)
	resp, err := app.Test(httptest.NewRequest("GET", "/events", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var result map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, "success", result["status"])
	assert.Empty(t, result["data"])
}

func TestListEvents_FilterByListing(t *testing.T) {
	app, svc := setupLETest(t)
	ctx := context.Background()
	six, seven := int64(6), int64(7)
	require.NoError(t, svc.Record(ctx, &six, domain.EventCreated, map[string]interface{}{"name": "Test Scarf"}))
	require.NoError(t, svc.Record(ctx, &seven, domain.EventCreated, nil))
	require.NoError(t, svc.Record(ctx, nil, domain.EventDraftReset, nil))

	resp, err := app.Test(httptest.NewRequest("GET", "/events?listing_id=6", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	var result map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	data := result["data"].([]interface{})
	require.Len(t, data, 1)
	assert.Equal(t, domain.EventCreated, data[0].(map[string]interface{})["event_type"])

	resp, err = app.Test(httptest.NewRequest("GET", "/events", nil))
	require.NoError(t, err)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, float64(3), result["metadata"].(map[string]interface{})["count"])
}

func TestListEvents_BadListingID(t *testing.T) {
	app, _ := setupLETest(t)
	resp, err := app.Test(httptest.NewRequest("GET", "/events?listing_id=x", nil))
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestListEvents_JournalDisabled(t *testing.T) {
	h := &Handlers{}
	app := fiber.New()
	app.Get("/events", h.ListEvents)
	resp, err := app.Test(httptest.NewRequest("GET", "/events", nil))
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
}
