// payment-reminder/internal/handlers/payment_handler.go

package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/hehemohit/payment-reminder/internal/billing"
	"github.com/hehemohit/payment-reminder/models"
)

// PaymentHandler bundles the dependencies of the payment endpoints. Every
// mutating handler runs the synchronizer for the affected client before
// replying, so a successful response implies the client's final amount is
// already up to date.
type PaymentHandler struct {
	DB   *gorm.DB
	Sync *billing.Synchronizer
	RDB  *redis.Client
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(db *gorm.DB, sync *billing.Synchronizer, rdb *redis.Client) *PaymentHandler {
	return &PaymentHandler{DB: db, Sync: sync, RDB: rdb}
}

// --- Request and response structures for PAYMENTS ---

type CreatePaymentRequest struct {
	ClientID    uint            `json:"client_id" binding:"required"`
	Amount      decimal.Decimal `json:"amount"`
	DueDate     string          `json:"due_date" binding:"required"`
	Description string          `json:"description"`
}

type UpdatePaymentRequest struct {
	Amount      decimal.Decimal      `json:"amount"`
	DueDate     string               `json:"due_date" binding:"required"`
	Status      models.PaymentStatus `json:"status"`
	Description string               `json:"description"`
}

type PaymentListItem struct {
	ID            uint                 `json:"id"`
	ClientID      uint                 `json:"client_id"`
	Amount        decimal.Decimal      `json:"amount"`
	DueDate       time.Time            `json:"due_date"`
	Status        models.PaymentStatus `json:"status"`
	Description   string               `json:"description"`
	ClientName    string               `json:"client_name"`
	ClientEmail   string               `json:"client_email"`
	ClientCompany string               `json:"client_company"`
}

func paymentListQuery(db *gorm.DB) *gorm.DB {
	return db.Table("payments").
		Select(`payments.id, payments.client_id, payments.amount, payments.due_date,
			payments.status, payments.description,
			clients.name AS client_name, clients.email AS client_email, clients.company AS client_company`).
		Joins("JOIN clients ON clients.id = payments.client_id").
		Where("payments.deleted_at IS NULL AND clients.deleted_at IS NULL")
}

// ListPaymentsHandler returns payments with their client's contact fields,
// earliest due date first, paginated.
func (h *PaymentHandler) ListPaymentsHandler(c *gin.Context) {
	var totalRows int64
	if err := paymentListQuery(h.DB).Count(&totalRows).Error; err != nil {
		slog.Error("failed to count payments", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch payments"})
		return
	}

	var payments []PaymentListItem
	err := paymentListQuery(h.DB).
		Order("payments.due_date ASC").
		Scopes(Paginate(c)).
		Scan(&payments).Error
	if err != nil {
		slog.Error("failed to list payments", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch payments"})
		return
	}

	page, pageSize := currentPage(c)
	c.JSON(http.StatusOK, PaginatedResponse{
		Data:        payments,
		TotalRows:   totalRows,
		TotalPages:  totalPages(totalRows, pageSize),
		CurrentPage: page,
		PageSize:    pageSize,
	})
}

// GetPaymentHandler returns one payment with its client's contact fields.
func (h *PaymentHandler) GetPaymentHandler(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payment ID"})
		return
	}

	var payment PaymentListItem
	res := paymentListQuery(h.DB).Where("payments.id = ?", id).Scan(&payment)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch payment"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Payment not found"})
		return
	}

	c.JSON(http.StatusOK, payment)
}

// CreatePaymentHandler records a new payment with status pending and
// resynchronizes the owning client's final amount.
func (h *PaymentHandler) CreatePaymentHandler(c *gin.Context) {
	var req CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Client ID, amount, and due date are required"})
		return
	}

	if !req.Amount.IsPositive() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Amount must be greater than zero"})
		return
	}

	dueDate, err := time.Parse("2006-01-02", req.DueDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid due date. Use YYYY-MM-DD."})
		return
	}

	var client models.Client
	if err := h.DB.First(&client, req.ClientID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Client not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch client"})
		return
	}

	payment := models.Payment{
		ClientID:    req.ClientID,
		Amount:      req.Amount,
		DueDate:     dueDate,
		Status:      models.StatusPending,
		Description: req.Description,
	}
	if err := h.DB.Create(&payment).Error; err != nil {
		slog.Error("failed to create payment", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create payment"})
		return
	}

	if !h.resync(c, payment.ClientID) {
		return
	}
	c.JSON(http.StatusCreated, payment)
}

// UpdatePaymentHandler updates a payment's amount, due date, status and
// description, then resynchronizes the owning client.
func (h *PaymentHandler) UpdatePaymentHandler(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payment ID"})
		return
	}

	var req UpdatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Amount and due date are required"})
		return
	}

	if !req.Amount.IsPositive() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Amount must be greater than zero"})
		return
	}

	dueDate, err := time.Parse("2006-01-02", req.DueDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid due date. Use YYYY-MM-DD."})
		return
	}

	status := req.Status
	if status == "" {
		status = models.StatusPending
	}
	if !status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		return
	}

	var payment models.Payment
	if err := h.DB.First(&payment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Payment not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch payment"})
		return
	}

	updates := map[string]interface{}{
		"amount":      req.Amount,
		"due_date":    dueDate,
		"status":      status,
		"description": req.Description,
	}
	if err := h.DB.Model(&payment).Updates(updates).Error; err != nil {
		slog.Error("failed to update payment", "error", err, "payment_id", id)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update payment"})
		return
	}

	if !h.resync(c, payment.ClientID) {
		return
	}
	c.JSON(http.StatusOK, payment)
}

// DeletePaymentHandler removes a payment and resynchronizes the owning
// client.
func (h *PaymentHandler) DeletePaymentHandler(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payment ID"})
		return
	}

	var payment models.Payment
	if err := h.DB.First(&payment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Payment not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch payment"})
		return
	}

	if err := h.DB.Delete(&payment).Error; err != nil {
		slog.Error("failed to delete payment", "error", err, "payment_id", id)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete payment"})
		return
	}

	if !h.resync(c, payment.ClientID) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Payment deleted successfully"})
}

// ListOverduePaymentsHandler returns every overdue payment with client
// contact fields, oldest due date first.
func (h *PaymentHandler) ListOverduePaymentsHandler(c *gin.Context) {
	var payments []PaymentListItem
	err := paymentListQuery(h.DB).
		Where("payments.status = ?", models.StatusOverdue).
		Order("payments.due_date ASC").
		Scan(&payments).Error
	if err != nil {
		slog.Error("failed to list overdue payments", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch overdue payments"})
		return
	}

	c.JSON(http.StatusOK, payments)
}

// UpdateOverdueHandler flips past-due pending payments to overdue and resyncs
// every client's final amount.
func (h *PaymentHandler) UpdateOverdueHandler(c *gin.Context) {
	flipped, synced, err := h.Sync.SweepOverdue(c.Request.Context())
	if err != nil {
		slog.Error("overdue sweep failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update overdue payments"})
		return
	}

	h.invalidateSummary(c)
	c.JSON(http.StatusOK, gin.H{
		"message":        fmt.Sprintf("Updated %d payments to overdue status", flipped),
		"updated":        flipped,
		"clients_synced": synced,
	})
}

// SyncFinalAmountsHandler recomputes every client's final amount.
func (h *PaymentHandler) SyncFinalAmountsHandler(c *gin.Context) {
	synced, err := h.Sync.SyncAll(c.Request.Context())
	if err != nil {
		slog.Error("final amount sync failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to sync final amounts"})
		return
	}

	h.invalidateSummary(c)
	c.JSON(http.StatusOK, gin.H{
		"message":        fmt.Sprintf("Synced final amounts for %d clients", synced),
		"clients_synced": synced,
	})
}

// resync runs the synchronizer for one client and writes the error response
// itself on failure. The payment write has already happened at this point; a
// resync failure is surfaced as a 500 so the caller knows the stored final
// amount may be stale.
func (h *PaymentHandler) resync(c *gin.Context, clientID uint) bool {
	if _, err := h.Sync.RecomputeAndVerify(c.Request.Context(), clientID); err != nil {
		slog.Error("failed to resync client after payment mutation", "error", err, "client_id", clientID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Payment saved but final amount sync failed"})
		return false
	}
	h.invalidateSummary(c)
	return true
}

func (h *PaymentHandler) invalidateSummary(c *gin.Context) {
	invalidateSummaryCache(c.Request.Context(), h.RDB)
}
