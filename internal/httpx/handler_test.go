package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commercekit/order-lifecycle/internal/order"
	"github.com/commercekit/order-lifecycle/internal/order/domain"
	"github.com/commercekit/order-lifecycle/internal/order/ports"
)

// Minimal always-succeeding collaborators; the orchestration itself is
// covered by the service tests, this file covers the HTTP mapping.

var _ ports.Inventory = (*stubInventory)(nil)

type stubInventory struct{}

func (stubInventory) CheckStock(context.Context, string, int) (bool, error)   { return true, nil }
func (stubInventory) ReserveStock(context.Context, string, int) (bool, error) { return true, nil }
func (stubInventory) ReleaseReservedStock(context.Context, string, int) error { return nil }

var _ ports.Payment = (*stubPayment)(nil)

type stubPayment struct{}

func (stubPayment) ProcessPayment(context.Context, *domain.Order) (bool, error) { return true, nil }
func (stubPayment) NeedsManualApproval(*domain.Order) bool                      { return false }

var _ ports.Notification = (*stubNotifier)(nil)

type stubNotifier struct{}

func (stubNotifier) SendPendingApproval(context.Context, *domain.Order) error  { return nil }
func (stubNotifier) SendPaidConfirmation(context.Context, *domain.Order) error { return nil }

var _ ports.Discount = (*stubDiscount)(nil)

type stubDiscount struct{ amount float64 }

func (d stubDiscount) ValidateCode(context.Context, string) (float64, error) { return d.amount, nil }

func newTestServer(t *testing.T, discountAmount float64) *httptest.Server {
	t.Helper()
	svc := order.NewService(stubInventory{}, stubPayment{}, stubNotifier{}, stubDiscount{amount: discountAmount}, nil)
	srv := httptest.NewServer(NewRouter(NewHandler(svc)))
	t.Cleanup(srv.Close)
	return srv
}

func postOrder(t *testing.T, srv *httptest.Server, req CreateOrderRequest) *http.Response {
	t.Helper()
	body, err := json.Marshal(req)
	require.NoError(t, err)
	resp, err := http.Post(srv.URL+"/orders", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func doRequest(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func TestCreateOrder_Created(t *testing.T) {
	srv := newTestServer(t, 0)

	resp := postOrder(t, srv, CreateOrderRequest{
		ProductName: "keyboard",
		Quantity:    2,
		UnitPrice:   50,
		Priority:    "High",
	})

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	got := decode[OrderResponse](t, resp)
	assert.Equal(t, int64(1), got.ID)
	assert.Equal(t, "Paid", got.State)
	assert.InDelta(t, 120.0, got.TotalPrice, 1e-9)
}

func TestCreateOrder_ValidationErrorIs400(t *testing.T) {
	srv := newTestServer(t, 0)

	resp := postOrder(t, srv, CreateOrderRequest{
		ProductName: "ab",
		Quantity:    1,
		UnitPrice:   10,
	})

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	got := decode[ErrorResponse](t, resp)
	assert.Equal(t, "invalid_request", got.Error)
	assert.Contains(t, got.Message, "too short")
}

func TestCreateOrder_BusinessRuleErrorIs422(t *testing.T) {
	srv := newTestServer(t, 35) // over the 30% cap on a subtotal of 100

	resp := postOrder(t, srv, CreateOrderRequest{
		ProductName:  "keyboard",
		Quantity:     1,
		UnitPrice:    100,
		DiscountCode: "SPRING25",
	})

	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	got := decode[ErrorResponse](t, resp)
	assert.Equal(t, "business_rule", got.Error)
	assert.Equal(t, "Discount too large.", got.Message)
}

func TestGetOrder_NotFound(t *testing.T) {
	srv := newTestServer(t, 0)

	resp, err := http.Get(srv.URL + "/orders/99")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestGetOrder_InvalidID(t *testing.T) {
	srv := newTestServer(t, 0)

	resp, err := http.Get(srv.URL + "/orders/abc")
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestUpdateOrder_Reprices(t *testing.T) {
	srv := newTestServer(t, 0)
	postOrder(t, srv, CreateOrderRequest{ProductName: "keyboard", Quantity: 1, UnitPrice: 100}).Body.Close()

	resp := doRequest(t, http.MethodPatch, srv.URL+"/orders/1", UpdateOrderRequest{Quantity: 3})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	got := decode[UpdateOrderResponse](t, resp)
	assert.True(t, got.Updated)

	getResp, err := http.Get(srv.URL + "/orders/1")
	require.NoError(t, err)
	updated := decode[OrderResponse](t, getResp)
	assert.Equal(t, 3, updated.Quantity)
	assert.InDelta(t, 360.0, updated.TotalPrice, 1e-9)
}

func TestUpdateOrder_InvalidQuantityIs400(t *testing.T) {
	srv := newTestServer(t, 0)
	postOrder(t, srv, CreateOrderRequest{ProductName: "keyboard", Quantity: 1, UnitPrice: 100}).Body.Close()

	resp := doRequest(t, http.MethodPatch, srv.URL+"/orders/1", UpdateOrderRequest{Quantity: 0})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestUpdateOrder_UnknownIDIs404(t *testing.T) {
	srv := newTestServer(t, 0)

	resp := doRequest(t, http.MethodPatch, srv.URL+"/orders/9", UpdateOrderRequest{Quantity: 2})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestCancelOrder_ThenConflictOnRepeat(t *testing.T) {
	srv := newTestServer(t, 0)
	postOrder(t, srv, CreateOrderRequest{ProductName: "keyboard", Quantity: 1, UnitPrice: 100}).Body.Close()

	resp := doRequest(t, http.MethodDelete, srv.URL+"/orders/1", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	got := decode[CancelOrderResponse](t, resp)
	assert.True(t, got.Cancelled)

	// A second cancel hits the terminal-state rule.
	resp = doRequest(t, http.MethodDelete, srv.URL+"/orders/1", nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	errBody := decode[ErrorResponse](t, resp)
	assert.Equal(t, "order_terminal", errBody.Error)
}

func TestAuditLog_ListsCancelledOrders(t *testing.T) {
	srv := newTestServer(t, 0)
	postOrder(t, srv, CreateOrderRequest{ProductName: "keyboard", Quantity: 1, UnitPrice: 100}).Body.Close()
	postOrder(t, srv, CreateOrderRequest{ProductName: "monitor", Quantity: 1, UnitPrice: 200}).Body.Close()

	doRequest(t, http.MethodDelete, srv.URL+"/orders/2", nil).Body.Close()

	resp, err := http.Get(srv.URL + "/audit-log")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	trail := decode[[]OrderResponse](t, resp)
	require.Len(t, trail, 1)
	assert.Equal(t, int64(2), trail[0].ID)
	assert.Equal(t, "Cancelled", trail[0].State)
}
