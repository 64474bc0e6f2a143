package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/hehemohit/payment-reminder/internal/billing"
	"github.com/hehemohit/payment-reminder/internal/handlers"
	"github.com/hehemohit/payment-reminder/internal/routes"
	"github.com/hehemohit/payment-reminder/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type sentMail struct {
	To      string
	Name    string
	Amount  decimal.Decimal
	DueDate time.Time
	Note    string
}

// fakeMailer implements handlers.ReminderSender. Addresses listed in FailFor
// fail to send; everything else succeeds.
type fakeMailer struct {
	Sent    []sentMail
	FailFor map[string]bool
}

func (f *fakeMailer) SendPaymentReminder(_ context.Context, toEmail, toName string, amount decimal.Decimal, dueDate time.Time, note string) (string, error) {
	if f.FailFor[toEmail] {
		return "", fmt.Errorf("smtp: mailbox %s unavailable", toEmail)
	}
	f.Sent = append(f.Sent, sentMail{To: toEmail, Name: toName, Amount: amount, DueDate: dueDate, Note: note})
	return fmt.Sprintf("<test-%d@payment-reminder>", len(f.Sent)), nil
}

type testApp struct {
	router *gin.Engine
	db     *gorm.DB
	mailer *fakeMailer
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.Client{}, &models.Payment{}, &models.EmailLog{}))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sync := billing.NewSynchronizer(db, logger)
	sync.VerifyDelay = 0
	mail := &fakeMailer{FailFor: map[string]bool{}}

	r := gin.New()
	routes.SetupRoutes(r, routes.Handlers{
		Clients:   handlers.NewClientHandler(db, sync, nil),
		Payments:  handlers.NewPaymentHandler(db, sync, nil),
		Email:     handlers.NewEmailHandler(db, mail),
		Dashboard: handlers.NewDashboardHandler(db, nil),
	})

	return &testApp{router: r, db: db, mailer: mail}
}

func (app *testApp) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	app.router.ServeHTTP(w, req)
	return w
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}

func (app *testApp) createClient(t *testing.T, name, email string) models.Client {
	t.Helper()
	w := app.do(t, http.MethodPost, "/api/clients", gin.H{"name": name, "email": email})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var client models.Client
	decodeJSON(t, w, &client)
	return client
}

func (app *testApp) createPayment(t *testing.T, clientID uint, amount, dueDate string) models.Payment {
	t.Helper()
	w := app.do(t, http.MethodPost, "/api/payments", gin.H{
		"client_id": clientID,
		"amount":    amount,
		"due_date":  dueDate,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var payment models.Payment
	decodeJSON(t, w, &payment)
	return payment
}

func (app *testApp) finalAmount(t *testing.T, clientID uint) string {
	t.Helper()
	var client models.Client
	require.NoError(t, app.db.First(&client, clientID).Error)
	return client.FinalAmount.StringFixed(2)
}

func futureDate() string {
	return time.Now().AddDate(0, 0, 14).Format("2006-01-02")
}

func pastDate() string {
	return time.Now().AddDate(0, 0, -7).Format("2006-01-02")
}
