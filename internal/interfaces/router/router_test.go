package router

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"artisan-market/internal/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		Env:                "test",
		DatabaseURL:        "file::memory:",
		ListingIDScheme:    "counter",
		ImageEncodeTimeout: 5 * time.Second,
		HealthAdminKey:     "secret",
	}
}

func TestCreateApp_JournalRecordsSubmission(t *testing.T) {
	app, db, rdb, err := CreateApp(testConfig())
	require.NoError(t, err)
	require.NotNil(t, db)
	assert.Nil(t, rdb)

	body, _ := json.Marshal(map[string]string{"name": "Bag", "price": "10", "description": "Jute bag"})
	req := httptest.NewRequest("PATCH", "/api/v1/catalog/draft", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Trace-Id"))

	resp, err = app.Test(httptest.NewRequest("DELETE", "/api/v1/catalog/draft", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/api/v1/catalog/events", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	var result map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	data := result["data"].([]interface{})
	require.Len(t, data, 1)
	assert.Equal(t, "DRAFT_RESET", data[0].(map[string]interface{})["event_type"])
}

func TestCreateApp_NoJournal(t *testing.T) {
	cfg := testConfig()
	cfg.DatabaseURL = ""
	app, db, _, err := CreateApp(cfg)
	require.NoError(t, err)
	assert.Nil(t, db)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/catalog/events", nil))
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/health/json", nil))
	require.NoError(t, err)
	var result map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, "ok", result["status"])
}

func TestCreateApp_WithRedis(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	cfg := testConfig()
	cfg.RedisURL = "redis://" + mr.Addr()
	app, _, rdb, err := CreateApp(cfg)
	require.NoError(t, err)
	require.NotNil(t, rdb)
	defer rdb.Close()

	_, err = app.Test(httptest.NewRequest("GET", "/api/v1/catalog/listings", nil))
	require.NoError(t, err)
	total, err := mr.Get("artisan:health:req_total")
	require.NoError(t, err)
	assert.Equal(t, "1", total)
}

func TestCreateApp_SeedFileAndBadScheme(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`listings:
  - id: 10
    name: Brass Lamp
    price: 40
    cryptoPrice: 0.012
    description: Hand-cast lamp
    image: /lamp.jpg
`), 0o600))

	cfg := testConfig()
	cfg.CatalogSeedFile = path
	app, _, _, err := CreateApp(cfg)
	require.NoError(t, err)
	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/catalog/listings/10", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	cfg = testConfig()
	cfg.ListingIDScheme = "random"
	_, _, _, err = CreateApp(cfg)
	assert.Error(t, err)
}

func TestCreateApp_BadRedisURL(t *testing.T) {
	cfg := testConfig()
	cfg.RedisURL = "not a url"
	_, _, _, err := CreateApp(cfg)
	assert.Error(t, err)
}
