package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/ridloal/meoris-storefront/internal/cart/api"
	"github.com/ridloal/meoris-storefront/internal/cart/repository"
	"github.com/ridloal/meoris-storefront/internal/cart/service"
	"github.com/ridloal/meoris-storefront/internal/platform/database"
	"github.com/ridloal/meoris-storefront/internal/platform/database/dbtest"
	productrepo "github.com/ridloal/meoris-storefront/internal/product/repository"
	realtime "github.com/ridloal/meoris-storefront/internal/realtime/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type env struct {
	router    *gin.Engine
	productID string
}

func newEnv(t *testing.T) env {
	gin.SetMode(gin.TestMode)
	db := dbtest.Open(t)
	userID := dbtest.SeedUser(t, db, "u1@example.com")
	productID := dbtest.SeedProduct(t, db, dbtest.ProductSeed{Name: "Kemeja", Price: 100000, Sizes: []string{"M", "L"}})
	gdb, err := database.OpenGorm(db, database.DriverSQLite)
	require.NoError(t, err)

	svc := service.NewCartService(repository.NewPostgresCartRepository(db), productrepo.NewGormProductRepository(gdb), realtime.NewHub(8))
	r := gin.New()
	auth := func(c *gin.Context) { c.Set("userID", userID) }
	api.NewCartHandler(svc).RegisterRoutes(r.Group("/api/v1"), auth)
	return env{router: r, productID: productID}
}

func (e env) do(t *testing.T, method, path string, body interface{}) (int, map[string]interface{}) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, httptest.NewRequest(method, path, &buf))
	out := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return w.Code, out
}

func TestCartRoutes(t *testing.T) {
	e := newEnv(t)

	code, body := e.do(t, http.MethodPost, "/api/v1/cart/items", gin.H{"produkId": e.productID, "quantity": 2, "size": "M"})
	require.Equal(t, http.StatusCreated, code, body)
	lineID := body["item"].(map[string]interface{})["id"].(string)

	code, _ = e.do(t, http.MethodPost, "/api/v1/cart/items", gin.H{"produkId": e.productID, "quantity": 1, "size": "M"})
	require.Equal(t, http.StatusCreated, code)

	code, body = e.do(t, http.MethodGet, "/api/v1/cart", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body["items"], 1)
	assert.EqualValues(t, 3, body["count"])
	assert.EqualValues(t, 300000, body["subtotal"])

	code, body = e.do(t, http.MethodPost, "/api/v1/cart/items", gin.H{"produkId": e.productID, "size": "XL"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, body["error"], "XL")

	code, _ = e.do(t, http.MethodPost, "/api/v1/cart/items", gin.H{"produkId": "missing"})
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = e.do(t, http.MethodPatch, "/api/v1/cart/items/"+lineID, gin.H{"quantity": 0})
	assert.Equal(t, http.StatusBadRequest, code)

	code, body = e.do(t, http.MethodPatch, "/api/v1/cart/items/"+lineID, gin.H{"quantity": 5})
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 5, body["item"].(map[string]interface{})["quantity"])

	code, _ = e.do(t, http.MethodPatch, "/api/v1/cart/items/nope", gin.H{"quantity": 5})
	assert.Equal(t, http.StatusNotFound, code)

	code, body = e.do(t, http.MethodDelete, "/api/v1/cart/items/"+lineID, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["removed"])

	code, body = e.do(t, http.MethodDelete, "/api/v1/cart/items/"+lineID, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, false, body["removed"])

	code, body = e.do(t, http.MethodDelete, "/api/v1/cart", nil)
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 0, body["removed"])
}
