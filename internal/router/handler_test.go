package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopfront/pkg/cart"
	"shopfront/pkg/checkout"
	"shopfront/pkg/kv"
	"shopfront/pkg/models"
	"shopfront/pkg/session"
)

func newTestAPI(t *testing.T) (*API, *kv.Memory, *gin.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mem := kv.NewMemory()
	carts := cart.New(mem)
	api := &API{
		Sessions: session.New(mem, nil),
		Carts:    carts,
		Checkout: checkout.NewManager(carts, &checkout.SimulatedPlacer{Delay: time.Millisecond}),
	}

	engine := gin.New()
	engine.Use(SessionID())
	engine.GET("/cart", api.GetCart)
	engine.POST("/checkout", RequireSession(api.Sessions), api.BeginCheckout)
	engine.POST("/checkout/next", RequireSession(api.Sessions), api.CheckoutNext)
	return api, mem, engine
}

func signIn(t *testing.T, mem *kv.Memory, sid string) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, mem.Set(ctx, "session:"+sid+":id", "u-42"))
	require.NoError(t, mem.Set(ctx, "session:"+sid+":email", "jamie@example.com"))
}

func doJSON(engine *gin.Engine, method, path, sid, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(SessionHeader, sid)
	req.Header.Set("Content-Type", "application/json")
	return performRequest(engine, req)
}

func performRequest(engine *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func TestBeginCheckoutEmptyCartIsRejected(t *testing.T) {
	_, mem, engine := newTestAPI(t)
	signIn(t, mem, "visitor-1")

	rec := doJSON(engine, http.MethodPost, "/checkout", "visitor-1", "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "cart is empty")
}

func TestBeginCheckoutRequiresLogin(t *testing.T) {
	api, _, engine := newTestAPI(t)
	api.Carts.AddItem(context.Background(), "visitor-1", models.Product{ID: "p1", Price: 10}, 1)

	rec := doJSON(engine, http.MethodPost, "/checkout", "visitor-1", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCheckoutWalkOverHTTP(t *testing.T) {
	api, mem, engine := newTestAPI(t)
	signIn(t, mem, "visitor-1")
	api.Carts.AddItem(context.Background(), "visitor-1", models.Product{ID: "p1", Name: "Mug", Price: 10}, 2)

	rec := doJSON(engine, http.MethodPost, "/checkout", "visitor-1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data struct {
			Step    string         `json:"step"`
			Pricing models.Pricing `json:"pricing"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "review", resp.Data.Step)
	assert.InDelta(t, 20.0, resp.Data.Pricing.Subtotal, 1e-9)
	assert.InDelta(t, 10.0, resp.Data.Pricing.Shipping, 1e-9)

	rec = doJSON(engine, http.MethodPost, "/checkout/next", "visitor-1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "shipping", resp.Data.Step)

	// Missing shipping fields stay on the shipping step with field errors.
	rec = doJSON(engine, http.MethodPost, "/checkout/next", "visitor-1", `{"shipping":{"name":"Jamie"}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "address")
}

func TestGetCartTotals(t *testing.T) {
	api, _, engine := newTestAPI(t)
	ctx := context.Background()
	api.Carts.AddItem(ctx, "visitor-1", models.Product{ID: "p1", Price: 10}, 2)
	api.Carts.AddItem(ctx, "visitor-1", models.Product{ID: "p2", Price: 5}, 3)

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.Header.Set(SessionHeader, "visitor-1")
	rec := performRequest(engine, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data models.CartView `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.InDelta(t, 35.0, resp.Data.Total, 1e-9)
	assert.Equal(t, 5, resp.Data.ItemCount)
	assert.Len(t, resp.Data.Items, 2)
}
