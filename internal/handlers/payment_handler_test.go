package handlers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hehemohit/payment-reminder/models"
)

func TestCreatePaymentSyncsFinalAmount(t *testing.T) {
	app := newTestApp(t)
	client := app.createClient(t, "Acme", "billing@acme.test")

	payment := app.createPayment(t, client.ID, "500.00", futureDate())
	assert.Equal(t, models.StatusPending, payment.Status)
	assert.Equal(t, "500.00", app.finalAmount(t, client.ID))
}

func TestCreatePaymentUnknownClient(t *testing.T) {
	app := newTestApp(t)

	w := app.do(t, http.MethodPost, "/api/payments", gin.H{
		"client_id": 999, "amount": "10.00", "due_date": futureDate(),
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreatePaymentValidation(t *testing.T) {
	app := newTestApp(t)
	client := app.createClient(t, "Val", "val@example.test")

	w := app.do(t, http.MethodPost, "/api/payments", gin.H{
		"client_id": client.ID, "amount": "0", "due_date": futureDate(),
	})
	assert.Equal(t, http.StatusBadRequest, w.Code, "zero amount")

	w = app.do(t, http.MethodPost, "/api/payments", gin.H{
		"client_id": client.ID, "amount": "10.00", "due_date": "next tuesday",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code, "unparseable date")

	w = app.do(t, http.MethodPost, "/api/payments", gin.H{
		"amount": "10.00", "due_date": futureDate(),
	})
	assert.Equal(t, http.StatusBadRequest, w.Code, "missing client id")
}

func TestUpdatePaymentStatusSyncsFinalAmount(t *testing.T) {
	app := newTestApp(t)
	client := app.createClient(t, "Acme", "billing@acme.test")
	payment := app.createPayment(t, client.ID, "500.00", futureDate())
	require.Equal(t, "500.00", app.finalAmount(t, client.ID))

	w := app.do(t, http.MethodPut, fmt.Sprintf("/api/payments/%d", payment.ID), gin.H{
		"amount": "500.00", "due_date": futureDate(), "status": "paid",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	assert.Equal(t, "0.00", app.finalAmount(t, client.ID))
}

func TestUpdatePaymentRejectsUnknownStatus(t *testing.T) {
	app := newTestApp(t)
	client := app.createClient(t, "Acme", "billing@acme.test")
	payment := app.createPayment(t, client.ID, "500.00", futureDate())

	w := app.do(t, http.MethodPut, fmt.Sprintf("/api/payments/%d", payment.ID), gin.H{
		"amount": "500.00", "due_date": futureDate(), "status": "refunded",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeletePaymentSyncsFinalAmount(t *testing.T) {
	app := newTestApp(t)
	client := app.createClient(t, "Acme", "billing@acme.test")
	payment := app.createPayment(t, client.ID, "500.00", futureDate())
	require.Equal(t, "500.00", app.finalAmount(t, client.ID))

	w := app.do(t, http.MethodDelete, fmt.Sprintf("/api/payments/%d", payment.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "0.00", app.finalAmount(t, client.ID))

	w = app.do(t, http.MethodDelete, fmt.Sprintf("/api/payments/%d", payment.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetPaymentIncludesClientFields(t *testing.T) {
	app := newTestApp(t)
	client := app.createClient(t, "Acme", "billing@acme.test")
	payment := app.createPayment(t, client.ID, "75.00", futureDate())

	w := app.do(t, http.MethodGet, fmt.Sprintf("/api/payments/%d", payment.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	decodeJSON(t, w, &body)
	assert.Equal(t, "Acme", body["client_name"])
	assert.Equal(t, "billing@acme.test", body["client_email"])

	w = app.do(t, http.MethodGet, "/api/payments/999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListPaymentsPagination(t *testing.T) {
	app := newTestApp(t)
	client := app.createClient(t, "Bulk", "bulk@example.test")
	for i := 0; i < 25; i++ {
		app.createPayment(t, client.ID, "10.00", futureDate())
	}

	w := app.do(t, http.MethodGet, "/api/payments?page=2&pageSize=10", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data        []map[string]interface{} `json:"data"`
		TotalRows   int64                    `json:"totalRows"`
		TotalPages  int                      `json:"totalPages"`
		CurrentPage int                      `json:"currentPage"`
	}
	decodeJSON(t, w, &resp)
	assert.Len(t, resp.Data, 10)
	assert.Equal(t, int64(25), resp.TotalRows)
	assert.Equal(t, 3, resp.TotalPages)
	assert.Equal(t, 2, resp.CurrentPage)
}

func TestUpdateOverdueEndpoint(t *testing.T) {
	app := newTestApp(t)
	client := app.createClient(t, "Late", "late@example.test")
	payment := app.createPayment(t, client.ID, "300.00", pastDate())
	require.Equal(t, "300.00", app.finalAmount(t, client.ID))

	w := app.do(t, http.MethodPost, "/api/payments/update-overdue", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body map[string]interface{}
	decodeJSON(t, w, &body)
	assert.EqualValues(t, 1, body["updated"])

	var reloaded models.Payment
	require.NoError(t, app.db.First(&reloaded, payment.ID).Error)
	assert.Equal(t, models.StatusOverdue, reloaded.Status)

	// the sweep resynced: overdue money is not part of the final amount
	assert.Equal(t, "0.00", app.finalAmount(t, client.ID))

	w = app.do(t, http.MethodGet, "/api/payments/overdue/list", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var overdue []map[string]interface{}
	decodeJSON(t, w, &overdue)
	assert.Len(t, overdue, 1)
}

func TestSyncFinalAmountsEndpoint(t *testing.T) {
	app := newTestApp(t)
	a := app.createClient(t, "A", "a@example.test")
	b := app.createClient(t, "B", "b@example.test")
	app.createPayment(t, a.ID, "120.00", futureDate())

	// corrupt the stored figures behind the synchronizer's back
	require.NoError(t, app.db.Model(&models.Client{}).Where("1 = 1").
		Update("final_amount", "999.99").Error)

	w := app.do(t, http.MethodPost, "/api/payments/sync-final-amounts", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	decodeJSON(t, w, &body)
	assert.EqualValues(t, 2, body["clients_synced"])

	assert.Equal(t, "120.00", app.finalAmount(t, a.ID))
	assert.Equal(t, "0.00", app.finalAmount(t, b.ID))
}

func TestExportPayments(t *testing.T) {
	app := newTestApp(t)
	client := app.createClient(t, "Sheet", "sheet@example.test")
	app.createPayment(t, client.ID, "45.00", futureDate())

	w := app.do(t, http.MethodGet, "/api/payments/export", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "payments_")
	assert.NotZero(t, w.Body.Len())
}

func TestHealthz(t *testing.T) {
	app := newTestApp(t)

	w := app.do(t, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
