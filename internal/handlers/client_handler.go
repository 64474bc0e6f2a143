// payment-reminder/internal/handlers/client_handler.go

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/hehemohit/payment-reminder/internal/billing"
	"github.com/hehemohit/payment-reminder/models"
)

// ClientHandler bundles the dependencies of the client endpoints.
type ClientHandler struct {
	DB   *gorm.DB
	Sync *billing.Synchronizer
	RDB  *redis.Client
}

// NewClientHandler creates a new ClientHandler.
func NewClientHandler(db *gorm.DB, sync *billing.Synchronizer, rdb *redis.Client) *ClientHandler {
	return &ClientHandler{DB: db, Sync: sync, RDB: rdb}
}

// --- Request and response structures for CLIENTS ---

type ClientRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Company string `json:"company"`
	Phone   string `json:"phone"`
}

type ClientListItem struct {
	ID            uint            `json:"id"`
	Name          string          `json:"name"`
	Email         string          `json:"email"`
	Company       string          `json:"company"`
	Phone         string          `json:"phone"`
	FinalAmount   decimal.Decimal `json:"final_amount"`
	TotalPayments int64           `json:"total_payments"`
	PendingAmount decimal.Decimal `json:"pending_amount"`
	OverdueAmount decimal.Decimal `json:"overdue_amount"`
	CreatedAt     time.Time       `json:"created_at"`
}

type OverrideFinalAmountRequest struct {
	FinalAmount decimal.Decimal `json:"final_amount"`
}

// ListClientsHandler returns every client together with its payment summary:
// payment count, live pending sum and live overdue sum. The summary columns
// are computed from the payments table, not from final_amount, so the
// dashboard can show drift between the stored figure and the live sums.
func (h *ClientHandler) ListClientsHandler(c *gin.Context) {
	var clients []ClientListItem

	err := h.DB.Table("clients").
		Select(`clients.id, clients.name, clients.email, clients.company, clients.phone,
			clients.final_amount, clients.created_at,
			COUNT(payments.id) AS total_payments,
			COALESCE(SUM(CASE WHEN payments.status = ? THEN payments.amount ELSE 0 END), 0) AS pending_amount,
			COALESCE(SUM(CASE WHEN payments.status = ? THEN payments.amount ELSE 0 END), 0) AS overdue_amount`,
			models.StatusPending, models.StatusOverdue).
		Joins("LEFT JOIN payments ON payments.client_id = clients.id AND payments.deleted_at IS NULL").
		Where("clients.deleted_at IS NULL").
		Group("clients.id").
		Order("clients.name").
		Scan(&clients).Error
	if err != nil {
		slog.Error("failed to list clients", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch clients"})
		return
	}

	c.JSON(http.StatusOK, clients)
}

// GetClientHandler returns a single client by id.
func (h *ClientHandler) GetClientHandler(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid client ID"})
		return
	}

	var client models.Client
	if err := h.DB.First(&client, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Client not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch client"})
		return
	}

	c.JSON(http.StatusOK, client)
}

// CreateClientHandler creates a client. The final amount starts at zero and
// is owned by the synchronizer from here on.
func (h *ClientHandler) CreateClientHandler(c *gin.Context) {
	var req ClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name and email are required"})
		return
	}

	client := models.Client{
		Name:        req.Name,
		Email:       req.Email,
		Company:     req.Company,
		Phone:       req.Phone,
		FinalAmount: decimal.Zero,
	}

	if err := h.DB.Create(&client).Error; err != nil {
		if isDuplicateKey(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Email already exists"})
			return
		}
		slog.Error("failed to create client", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create client"})
		return
	}

	h.invalidateSummary(c)
	c.JSON(http.StatusCreated, client)
}

// UpdateClientHandler updates the contact fields of a client. final_amount is
// deliberately not part of the request; use the final-amount endpoint.
func (h *ClientHandler) UpdateClientHandler(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid client ID"})
		return
	}

	var req ClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name and email are required"})
		return
	}

	var client models.Client
	if err := h.DB.First(&client, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Client not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch client"})
		return
	}

	updates := map[string]interface{}{
		"name":    req.Name,
		"email":   req.Email,
		"company": req.Company,
		"phone":   req.Phone,
	}
	if err := h.DB.Model(&client).Updates(updates).Error; err != nil {
		if isDuplicateKey(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Email already exists"})
			return
		}
		slog.Error("failed to update client", "error", err, "client_id", id)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update client"})
		return
	}

	c.JSON(http.StatusOK, client)
}

// DeleteClientHandler removes a client and all of its payments in one
// transaction.
func (h *ClientHandler) DeleteClientHandler(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid client ID"})
		return
	}

	deleted := false
	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("client_id = ?", id).Delete(&models.Payment{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Client{}, id)
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected > 0
		return nil
	})
	if err != nil {
		slog.Error("failed to delete client", "error", err, "client_id", id)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete client"})
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "Client not found"})
		return
	}

	h.invalidateSummary(c)
	c.JSON(http.StatusOK, gin.H{"message": "Client deleted successfully"})
}

// GetClientPaymentsHandler returns the payments of one client, newest due
// date first.
func (h *ClientHandler) GetClientPaymentsHandler(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid client ID"})
		return
	}

	var client models.Client
	if err := h.DB.First(&client, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Client not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch client"})
		return
	}

	var payments []models.Payment
	if err := h.DB.Where("client_id = ?", id).Order("due_date DESC").Find(&payments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch payments"})
		return
	}

	c.JSON(http.StatusOK, payments)
}

// OverrideFinalAmountHandler writes a manual final amount for a client. The
// value holds only until the next payment mutation triggers a recompute.
func (h *ClientHandler) OverrideFinalAmountHandler(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid client ID"})
		return
	}

	var req OverrideFinalAmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "final_amount is required"})
		return
	}

	if err := h.Sync.OverrideFinalAmount(c.Request.Context(), uint(id), req.FinalAmount); err != nil {
		switch {
		case errors.Is(err, billing.ErrInvalidArgument):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Final amount must not be negative"})
		case errors.Is(err, billing.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Client not found"})
		default:
			slog.Error("failed to override final amount", "error", err, "client_id", id)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update final amount"})
		}
		return
	}

	h.invalidateSummary(c)
	c.JSON(http.StatusOK, gin.H{"id": id, "final_amount": req.FinalAmount})
}

func (h *ClientHandler) invalidateSummary(c *gin.Context) {
	invalidateSummaryCache(c.Request.Context(), h.RDB)
}

// isDuplicateKey detects a unique-constraint violation across the drivers in
// use (pgx in production, sqlite in tests).
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint")
}
