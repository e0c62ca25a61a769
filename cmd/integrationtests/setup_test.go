package integrationtests

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	auctions "auction-escrow/internal/auctionService"
	"auction-escrow/internal/auth"
	"auction-escrow/internal/payout"
	"auction-escrow/internal/registry"
	"auction-escrow/internal/server"
	"auction-escrow/internal/stream"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// recordingTransferer accumulates outbound transfers per recipient so
// tests can assert on settled amounts.
type recordingTransferer struct {
	mu       sync.Mutex
	payments map[string]decimal.Decimal
}

func newRecordingTransferer() *recordingTransferer {
	return &recordingTransferer{payments: make(map[string]decimal.Decimal)}
}

func (r *recordingTransferer) Transfer(_ context.Context, to string, amount decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.payments[to] = r.payments[to].Add(amount)
	return nil
}

func (r *recordingTransferer) paidTo(name string) decimal.Decimal {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.payments[name]
}

// SetupTestRouter initializes the full HTTP stack over in-memory state.
func SetupTestRouter() (*gin.Engine, *recordingTransferer) {
	gin.SetMode(gin.TestMode)

	transferer := newRecordingTransferer()
	engine := payout.NewEngine(transferer)
	store := registry.NewMemoryRegistry(engine)

	hub := stream.NewHub()
	go hub.Run()

	service := auctions.NewAuctionService(store, hub)
	authSvc := auth.NewService("integration-secret")

	return server.SetupRouter(service, authSvc, hub), transferer
}

// ExecuteRequest executes an HTTP request with an optional bearer token
// and returns the response recorder.
func ExecuteRequest(t *testing.T, router *gin.Engine, method, url, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reqBody []byte
	var err error
	switch v := body.(type) {
	case nil:
	case string:
		reqBody = []byte(v)
	default:
		reqBody, err = json.Marshal(v)
		require.NoError(t, err)
	}

	req := httptest.NewRequest(method, url, bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// ExecuteRequestAndParse executes a request and decodes the JSON envelope.
func ExecuteRequestAndParse(t *testing.T, router *gin.Engine, method, url, token string, body any) (map[string]any, *httptest.ResponseRecorder) {
	t.Helper()

	w := ExecuteRequest(t, router, method, url, token, body)

	var resp map[string]any
	if len(w.Body.Bytes()) > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return resp, w
}

// RegisterAndLogin creates a user and returns a valid bearer token.
func RegisterAndLogin(t *testing.T, router *gin.Engine, username, password string) string {
	t.Helper()

	_, w := ExecuteRequestAndParse(t, router, http.MethodPost, "/auth/register", "", map[string]string{
		"username": username,
		"password": password,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	resp, w := ExecuteRequestAndParse(t, router, http.MethodPost, "/auth/login", "", map[string]string{
		"username": username,
		"password": password,
	})
	require.Equal(t, http.StatusOK, w.Code)

	data := resp["data"].(map[string]any)
	token := data["token"].(string)
	require.NotEmpty(t, token)
	return token
}

// CreateAuctionForTest lists an auction owned by the token holder and
// returns its generated identifier.
func CreateAuctionForTest(t *testing.T, router *gin.Engine, token string, body map[string]any) string {
	t.Helper()

	resp, w := ExecuteRequestAndParse(t, router, http.MethodPost, "/auctions", token, body)
	require.Equal(t, http.StatusCreated, w.Code)

	data := resp["data"].(map[string]any)
	id := data["id"].(string)
	require.NotEmpty(t, id)
	return id
}

func publicListing() map[string]any {
	return map[string]any{
		"owner_contact":    "seller@example.com",
		"duration_seconds": 3600,
		"starting_bid":     "100",
		"bid_increment":    "10",
		"selling_price":    "500",
		"mode":             "public",
		"item":             map[string]any{"name": "brass lamp", "condition": "used"},
	}
}

func privateListing() map[string]any {
	listing := publicListing()
	listing["mode"] = "private"
	return listing
}
