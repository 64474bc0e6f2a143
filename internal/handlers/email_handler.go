// payment-reminder/internal/handlers/email_handler.go

package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/hehemohit/payment-reminder/internal/billing"
	"github.com/hehemohit/payment-reminder/models"
)

// ReminderSender is the outbound email collaborator. The concrete
// implementation lives in internal/mailer; tests substitute a fake.
type ReminderSender interface {
	SendPaymentReminder(ctx context.Context, toEmail, toName string, amount decimal.Decimal, dueDate time.Time, note string) (string, error)
}

// EmailHandler bundles the dependencies of the reminder endpoints.
type EmailHandler struct {
	DB     *gorm.DB
	Mailer ReminderSender
}

// NewEmailHandler creates a new EmailHandler.
func NewEmailHandler(db *gorm.DB, mailer ReminderSender) *EmailHandler {
	return &EmailHandler{DB: db, Mailer: mailer}
}

// SendReminderHandler sends a reminder for a single payment. Delivery failure
// is a flagged result, not a panic: the response carries success=false and
// the attempt is recorded in the email log either way.
func (h *EmailHandler) SendReminderHandler(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("paymentId"))
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

	messageID, sendErr := h.Mailer.SendPaymentReminder(c.Request.Context(),
		payment.ClientEmail, payment.ClientName, payment.Amount, payment.DueDate, payment.Description)

	h.logAttempt(payment.ClientID, models.EmailTypePaymentReminder, messageID, sendErr)

	if sendErr != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to send email",
			"details": sendErr.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   "Payment reminder sent successfully",
		"messageId": messageID,
	})
}

// SendClientReminderHandler sends a reminder for a client's whole final
// amount, dated to the client's earliest pending due date.
func (h *EmailHandler) SendClientReminderHandler(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("clientId"))
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

	var next models.Payment
	err = h.DB.Where("client_id = ? AND status = ?", id, models.StatusPending).
		Order("due_date ASC").
		First(&next).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Client has no pending payments"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch payments"})
		return
	}

	messageID, sendErr := h.Mailer.SendPaymentReminder(c.Request.Context(),
		client.Email, client.Name, client.FinalAmount, next.DueDate, next.Description)

	h.logAttempt(client.ID, models.EmailTypePaymentReminder, messageID, sendErr)

	if sendErr != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to send email",
			"details": sendErr.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   "Payment reminder sent successfully",
		"messageId": messageID,
	})
}

// SendBulkRemindersHandler sends a reminder for every overdue payment. Best
// effort: one failed recipient does not stop the rest, and the per-recipient
// outcome is reported back.
func (h *EmailHandler) SendBulkRemindersHandler(c *gin.Context) {
	var overdue []PaymentListItem
	err := paymentListQuery(h.DB).
		Where("payments.status = ?", models.StatusOverdue).
		Order("payments.due_date ASC").
		Scan(&overdue).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch overdue payments"})
		return
	}

	results := make([]gin.H, 0, len(overdue))
	for _, payment := range overdue {
		messageID, sendErr := h.Mailer.SendPaymentReminder(c.Request.Context(),
			payment.ClientEmail, payment.ClientName, payment.Amount, payment.DueDate, payment.Description)

		h.logAttempt(payment.ClientID, models.EmailTypeBulkReminder, messageID, sendErr)

		result := gin.H{"client_name": payment.ClientName, "success": sendErr == nil}
		if sendErr != nil {
			result["error"] = sendErr.Error()
		}
		results = append(results, result)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Bulk reminders processed",
		"results": results,
	})
}

// GetEmailLogsHandler returns the reminder history of one client, newest
// first.
func (h *EmailHandler) GetEmailLogsHandler(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("clientId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid client ID"})
		return
	}

	var logs []models.EmailLog
	if err := h.DB.Where("client_id = ?", id).Order("created_at DESC").Find(&logs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch email logs"})
		return
	}

	c.JSON(http.StatusOK, logs)
}

// logAttempt records a delivery attempt. A logging failure must not mask the
// delivery outcome, so it is only logged.
func (h *EmailHandler) logAttempt(clientID uint, emailType, messageID string, sendErr error) {
	status := models.EmailStatusSent
	if sendErr != nil {
		status = models.EmailStatusFailed
		slog.Warn("reminder delivery failed", "client_id", clientID,
			"error", errors.Join(billing.ErrReminderDelivery, sendErr))
	}
	entry := models.EmailLog{
		ClientID:  clientID,
		EmailType: emailType,
		Status:    status,
		MessageID: messageID,
	}
	if err := h.DB.Create(&entry).Error; err != nil {
		slog.Error("failed to log email attempt", "error", err, "client_id", clientID)
	}
}
