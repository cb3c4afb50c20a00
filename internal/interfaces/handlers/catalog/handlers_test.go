package catalog

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	catalogsvc "artisan-market/internal/application/catalog"
	"artisan-market/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCatalogTest(t *testing.T) (*fiber.App, *catalogsvc.Store) {
	t.Helper()
	store := catalogsvc.New()
	h := &Handlers{Store: store}
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler, BodyLimit: 8 * 1024 * 1024})
	h.Register(app.Group("/api/v1/catalog"))
	return app, store
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 3, 2))
	img.Set(0, 0, color.RGBA{R: 200, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func imageRequest(t *testing.T, target, fileName, contentType string, data []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	hdr := make(textproto.MIMEHeader)
	hdr.Set("Content-Disposition", `form-data; name="image"; filename="`+fileName+`"`)
	hdr.Set("Content-Type", contentType)
	part, err := mw.CreatePart(hdr)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest("POST", target, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func jsonRequest(method, target string, body interface{}) *http.Request {
	b, _ := json.Marshal(body)
	req := httptest.NewRequest(method, target, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decode(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestListListings_Seeded(t *testing.T) {
	app, _ := setupCatalogTest(t)
	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/catalog/listings", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	result := decode(t, resp)
	assert.Equal(t, "success", result["status"])
	data := result["data"].([]interface{})
	require.Len(t, data, 5)
	first := data[0].(map[string]interface{})
	assert.Equal(t, float64(1), first["id"])
	assert.Equal(t, "$250.00", first["displayPrice"])
	assert.Equal(t, "0.0750 ETH", first["displayCryptoPrice"])

	meta := result["metadata"].(map[string]interface{})
	assert.Equal(t, float64(5), meta["count"])
	assert.Equal(t, "grid", meta["viewMode"])
}

func TestGetListing(t *testing.T) {
	app, _ := setupCatalogTest(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/catalog/listings/2", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	data := decode(t, resp)["data"].(map[string]interface{})
	assert.Equal(t, "Handloom Cotton Dress", data["name"])

	resp, err = app.Test(httptest.NewRequest("GET", "/api/v1/catalog/listings/99", nil))
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/api/v1/catalog/listings/abc", nil))
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestAddListing_IncompleteDraft(t *testing.T) {
	app, store := setupCatalogTest(t)
	store.SetName("Test Scarf")

	resp, err := app.Test(httptest.NewRequest("POST", "/api/v1/catalog/listings", nil))
	require.NoError(t, err)
	assert.Equal(t, 422, resp.StatusCode)

	result := decode(t, resp)
	errBody := result["error"].(map[string]interface{})
	assert.Equal(t, "Please fill in all required fields and upload an image", errBody["message"])
	assert.Equal(t, "price", errBody["details"].(map[string]interface{})["field"])
	assert.Equal(t, 5, store.Len())
}

func TestSubmitFlow(t *testing.T) {
	app, store := setupCatalogTest(t)

	resp, err := app.Test(jsonRequest("PATCH", "/api/v1/catalog/draft", map[string]string{
		"name":        "Test Scarf",
		"price":       "50",
		"description": "Handwoven scarf",
	}))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "Test Scarf", store.Draft().Name)

	resp, err = app.Test(imageRequest(t, "/api/v1/catalog/draft/image?wait=true", "scarf.png", "image/png", pngBytes(t)))
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)
	draft := decode(t, resp)["data"].(map[string]interface{})
	img := draft["image"].(map[string]interface{})
	assert.True(t, strings.HasPrefix(img["data_uri"].(string), "data:image/png;base64,"))
	assert.Equal(t, float64(3), img["width"])

	resp, err = app.Test(httptest.NewRequest("POST", "/api/v1/catalog/listings", nil))
	require.NoError(t, err)
	require.Equal(t, 201, resp.StatusCode)
	created := decode(t, resp)["data"].(map[string]interface{})
	assert.Equal(t, float64(6), created["id"])
	assert.InDelta(t, 0.015, created["cryptoPrice"].(float64), 1e-12)
	assert.Equal(t, "", created["category"])

	assert.Equal(t, 6, store.Len())
	assert.True(t, store.Draft().IsEmpty())
	assert.True(t, store.Selection().IsZero())
}

func TestSelectImage_Rejections(t *testing.T) {
	app, store := setupCatalogTest(t)

	resp, err := app.Test(imageRequest(t, "/api/v1/catalog/draft/image", "doc.pdf", "application/pdf", []byte("%PDF")))
	require.NoError(t, err)
	assert.Equal(t, 415, resp.StatusCode)
	errBody := decode(t, resp)["error"].(map[string]interface{})
	assert.Equal(t, "Please upload a valid image (JPEG, PNG, or GIF)", errBody["message"])

	big := make([]byte, 5*1024*1024+1)
	resp, err = app.Test(imageRequest(t, "/api/v1/catalog/draft/image", "big.png", "image/png", big), -1)
	require.NoError(t, err)
	assert.Equal(t, 413, resp.StatusCode)

	assert.True(t, store.Selection().IsZero())
	assert.Nil(t, store.Draft().Image)

	req := httptest.NewRequest("POST", "/api/v1/catalog/draft/image", nil)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestSelectImage_AcceptedWithoutWait(t *testing.T) {
	app, store := setupCatalogTest(t)

	resp, err := app.Test(imageRequest(t, "/api/v1/catalog/draft/image", "a.png", "image/png", pngBytes(t)))
	require.NoError(t, err)
	assert.Equal(t, 202, resp.StatusCode)
	sel := decode(t, resp)["data"].(map[string]interface{})
	assert.NotEmpty(t, sel["id"])
	assert.Equal(t, "a.png", sel["file_name"])
	assert.Equal(t, sel["id"], store.Selection().ID)
}

func TestRemoveImageAndResetDraft(t *testing.T) {
	app, store := setupCatalogTest(t)

	resp, err := app.Test(imageRequest(t, "/api/v1/catalog/draft/image?wait=true", "a.png", "image/png", pngBytes(t)))
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)
	store.SetName("Bag")

	resp, err = app.Test(httptest.NewRequest("DELETE", "/api/v1/catalog/draft/image", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Nil(t, store.Draft().Image)
	assert.Equal(t, "Bag", store.Draft().Name)
	assert.True(t, store.Selection().IsZero())

	resp, err = app.Test(httptest.NewRequest("DELETE", "/api/v1/catalog/draft", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.True(t, store.Draft().IsEmpty())
}

func TestGetDraft_AcceptHint(t *testing.T) {
	app, _ := setupCatalogTest(t)
	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/catalog/draft", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	meta := decode(t, resp)["metadata"].(map[string]interface{})
	assert.Equal(t, "image/jpeg,image/png,image/gif", meta["accept"])
	assert.Nil(t, meta["selection"])
}

func TestViewMode(t *testing.T) {
	app, store := setupCatalogTest(t)

	resp, err := app.Test(jsonRequest("PUT", "/api/v1/catalog/view-mode", map[string]string{"mode": "row"}))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "row", string(store.ViewMode()))

	resp, err = app.Test(jsonRequest("PUT", "/api/v1/catalog/view-mode", map[string]string{"mode": "carousel"}))
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
	assert.Equal(t, "row", string(store.ViewMode()))

	resp, err = app.Test(httptest.NewRequest("GET", "/api/v1/catalog/view-mode", nil))
	require.NoError(t, err)
	data := decode(t, resp)["data"].(map[string]interface{})
	assert.Equal(t, "row", data["mode"])
}
