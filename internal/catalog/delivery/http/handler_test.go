package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpDelivery "github.com/dropkit/storefront/internal/catalog/delivery/http"
	"github.com/dropkit/storefront/internal/catalog/normalize"
	"github.com/dropkit/storefront/internal/catalog/repository"
	"github.com/dropkit/storefront/internal/catalog/soldmark"
	"github.com/dropkit/storefront/internal/catalog/usecase/command"
	"github.com/dropkit/storefront/internal/catalog/usecase/query"
	"github.com/dropkit/storefront/pkg/auth"
)

type testEnv struct {
	repo    *repository.MemoryProductRepository
	marks   *soldmark.MemoryStore
	fetcher *switchableFetcher
	router  *mux.Router
}

type switchableFetcher struct {
	records []normalize.RawProduct
	err     error
}

func (f *switchableFetcher) FetchProducts(context.Context) ([]normalize.RawProduct, error) {
	return f.records, f.err
}

var (
	envOnce sync.Once
	shared  *testEnv
)

// env returns the shared test environment. The handler registers Prometheus
// collectors globally, so it can only be constructed once per test process;
// tests isolate themselves through distinct product and drop ids.
func env(t *testing.T) *testEnv {
	t.Helper()
	envOnce.Do(func() {
		repo := repository.NewMemoryProductRepository()
		marks := soldmark.NewMemoryStore()
		fetcher := &switchableFetcher{}

		importer := command.NewImportProductsHandler(repo)
		handler := httpDelivery.NewCatalogHandler(
			command.NewCreateProductHandler(repo),
			command.NewUpdateProductHandler(repo),
			command.NewDeleteProductHandler(repo),
			command.NewSetBlockedHandler(repo),
			command.NewMarkSoldHandler(repo, marks, nil),
			command.NewSyncCatalogHandler(fetcher, importer),
			query.NewGetProductHandler(repo, marks),
			query.NewListCatalogHandler(repo, marks),
			query.NewListDropsHandler(repo),
			query.NewGetAvailabilityHandler(repo, marks),
			query.NewGetStatsHandler(repo, marks),
			httpDelivery.WhatsAppNumber("+49 170 1234567"),
		)

		router := mux.NewRouter()
		handler.RegisterRoutes(router)
		handler.RegisterHealthCheck(router, nil)

		shared = &testEnv{repo: repo, marks: marks, fetcher: fetcher, router: router}
	})
	return shared
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func (e *testEnv) seed(t *testing.T, id, drop string, level int) {
	t.Helper()
	p := normalize.Normalize(normalize.RawProduct{
		ID:     strPtr(id),
		Name:   strPtr("Product " + id),
		DropID: strPtr(drop),
		Level:  intPtr(level),
	})
	require.NoError(t, e.repo.Create(&p))
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}, token string) (*httptest.ResponseRecorder, httpDelivery.Response) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)

	var resp httpDelivery.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec, resp
}

func adminToken(t *testing.T) string {
	t.Helper()
	token, err := auth.GenerateToken("admin", "admin")
	require.NoError(t, err)
	return token
}

func TestHealthEndpoint(t *testing.T) {
	e := env(t)
	rec, resp := e.do(t, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.Success)
}

func TestListCatalogEndpoint(t *testing.T) {
	e := env(t)
	e.seed(t, "lc-a1", "lc-drop", 1)
	e.seed(t, "lc-b1", "lc-drop", 2)

	rec, resp := e.do(t, http.MethodGet, "/api/catalog?drop=lc-drop", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.Success)

	payload, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	var view query.CatalogView
	require.NoError(t, json.Unmarshal(payload, &view))

	assert.Equal(t, "lc-drop", view.DropID)
	require.Len(t, view.Products, 2)
}

func TestGetProductEndpoint(t *testing.T) {
	e := env(t)
	e.seed(t, "gp-a1", "gp-drop", 1)

	t.Run("found", func(t *testing.T) {
		rec, resp := e.do(t, http.MethodGet, "/api/catalog/products/gp-a1", nil, "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, resp.Success)
	})

	t.Run("not found", func(t *testing.T) {
		rec, resp := e.do(t, http.MethodGet, "/api/catalog/products/gp-ghost", nil, "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.False(t, resp.Success)
	})
}

func TestGetAvailabilityEndpoint(t *testing.T) {
	e := env(t)
	e.seed(t, "av-a1", "av-drop", 1)

	rec, resp := e.do(t, http.MethodGet, "/api/catalog/availability?drop=av-drop", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.Success)

	rec, resp = e.do(t, http.MethodGet, "/api/catalog/availability", nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, resp.Success)
}

func TestPurchaseIntentEndpoint(t *testing.T) {
	e := env(t)
	e.seed(t, "pi-a1", "pi-drop", 1)
	e.seed(t, "pi-b1", "pi-drop", 2)

	t.Run("available product returns link", func(t *testing.T) {
		rec, resp := e.do(t, http.MethodGet, "/api/catalog/products/pi-a1/purchase-intent", nil, "")
		assert.Equal(t, http.StatusOK, rec.Code)
		require.True(t, resp.Success)

		data, ok := resp.Data.(map[string]interface{})
		require.True(t, ok)
		link, _ := data["link"].(string)
		assert.Contains(t, link, "https://wa.me/491701234567")
	})

	t.Run("locked product is refused", func(t *testing.T) {
		rec, resp := e.do(t, http.MethodGet, "/api/catalog/products/pi-b1/purchase-intent", nil, "")
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.False(t, resp.Success)
	})

	t.Run("sold product is refused", func(t *testing.T) {
		require.NoError(t, e.marks.Mark(context.Background(), "pi-a1"))
		rec, _ := e.do(t, http.MethodGet, "/api/catalog/products/pi-a1/purchase-intent", nil, "")
		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestAdminRoutesRequireAuth(t *testing.T) {
	e := env(t)

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/catalog/sync"},
		{http.MethodPost, "/api/catalog/products"},
		{http.MethodPut, "/api/catalog/products/x"},
		{http.MethodDelete, "/api/catalog/products/x"},
		{http.MethodPatch, "/api/catalog/products/x/blocked"},
		{http.MethodPost, "/api/catalog/products/x/sold"},
	}

	for _, p := range paths {
		rec, _ := e.do(t, p.method, p.path, map[string]interface{}{}, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", p.method, p.path)
	}
}

func TestAdminRoutesRejectNonAdminRole(t *testing.T) {
	e := env(t)
	token, err := auth.GenerateToken("visitor", "viewer")
	require.NoError(t, err)

	rec, _ := e.do(t, http.MethodPost, "/api/catalog/products", map[string]interface{}{}, token)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCreateProductEndpoint(t *testing.T) {
	e := env(t)
	token := adminToken(t)

	rec, resp := e.do(t, http.MethodPost, "/api/catalog/products", map[string]interface{}{
		"id":    "cr-a1",
		"name":  "Created Tee",
		"price": 20.0,
	}, token)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, resp.Success)

	stored, err := e.repo.FindByID("cr-a1")
	require.NoError(t, err)
	assert.Equal(t, "Created Tee", stored.Name)
}

func TestCreateProductRejectsNegativePrice(t *testing.T) {
	e := env(t)

	rec, resp := e.do(t, http.MethodPost, "/api/catalog/products", map[string]interface{}{
		"price": -5.0,
	}, adminToken(t))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, resp.Success)
}

func TestMarkSoldEndpoint(t *testing.T) {
	e := env(t)
	e.seed(t, "ms-a1", "ms-drop", 1)

	rec, resp := e.do(t, http.MethodPost, "/api/catalog/products/ms-a1/sold", nil, adminToken(t))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.Success)

	sold, err := e.marks.IsSold(context.Background(), "ms-a1")
	require.NoError(t, err)
	assert.True(t, sold)

	rec, _ = e.do(t, http.MethodPost, "/api/catalog/products/ms-ghost/sold", nil, adminToken(t))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSetBlockedEndpoint(t *testing.T) {
	e := env(t)
	e.seed(t, "bl-a1", "bl-drop", 1)

	rec, _ := e.do(t, http.MethodPatch, "/api/catalog/products/bl-a1/blocked", map[string]interface{}{
		"blocked": true,
	}, adminToken(t))
	assert.Equal(t, http.StatusOK, rec.Code)

	stored, err := e.repo.FindByID("bl-a1")
	require.NoError(t, err)
	assert.True(t, stored.Blocked)
}

func TestSyncCatalogEndpoint(t *testing.T) {
	e := env(t)
	token := adminToken(t)

	t.Run("cms failure surfaces as bad gateway", func(t *testing.T) {
		e.fetcher.err = errors.New("cms down")
		defer func() { e.fetcher.err = nil }()

		rec, resp := e.do(t, http.MethodPost, "/api/catalog/sync", nil, token)
		assert.Equal(t, http.StatusBadGateway, rec.Code)
		assert.Equal(t, "Could not load products from content source", resp.Error)
	})

	t.Run("successful sync reports the import count", func(t *testing.T) {
		e.fetcher.records = []normalize.RawProduct{
			{ID: strPtr("sy-a1")},
			{ID: strPtr("sy-a2")},
		}
		defer func() { e.fetcher.records = nil }()

		rec, resp := e.do(t, http.MethodPost, "/api/catalog/sync", nil, token)
		assert.Equal(t, http.StatusOK, rec.Code)
		require.True(t, resp.Success)

		data, ok := resp.Data.(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, float64(2), data["imported"])
	})
}

func TestLoginEndpoint(t *testing.T) {
	e := env(t)

	t.Run("unconfigured returns service unavailable", func(t *testing.T) {
		rec, _ := e.do(t, http.MethodPost, "/api/auth/login", map[string]interface{}{
			"username": "admin",
			"password": "secret",
		}, "")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	hash, err := auth.HashPassword("secret")
	require.NoError(t, err)
	t.Setenv("ADMIN_USERNAME", "admin")
	t.Setenv("ADMIN_PASSWORD_HASH", hash)

	t.Run("valid credentials issue a token", func(t *testing.T) {
		rec, resp := e.do(t, http.MethodPost, "/api/auth/login", map[string]interface{}{
			"username": "admin",
			"password": "secret",
		}, "")
		require.Equal(t, http.StatusOK, rec.Code)

		data, ok := resp.Data.(map[string]interface{})
		require.True(t, ok)
		token, _ := data["token"].(string)
		require.NotEmpty(t, token)

		claims, err := auth.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, "admin", claims.Role)
	})

	t.Run("wrong password is rejected", func(t *testing.T) {
		rec, _ := e.do(t, http.MethodPost, "/api/auth/login", map[string]interface{}{
			"username": "admin",
			"password": "wrong",
		}, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestDeleteProductEndpoint(t *testing.T) {
	e := env(t)
	e.seed(t, "dl-a1", "dl-drop", 1)

	rec, _ := e.do(t, http.MethodDelete, "/api/catalog/products/dl-a1", nil, adminToken(t))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = e.do(t, http.MethodDelete, "/api/catalog/products/dl-a1", nil, adminToken(t))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
