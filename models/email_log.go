package models

import "gorm.io/gorm"

// Types of reminder emails recorded in the log.
const (
	EmailTypePaymentReminder = "payment_reminder"
	EmailTypeBulkReminder    = "bulk_reminder"
)

// Delivery outcomes recorded in the log.
const (
	EmailStatusSent   = "sent"
	EmailStatusFailed = "failed"
)

// EmailLog records one attempted reminder delivery for a client.
type EmailLog struct {
	gorm.Model
	ClientID  uint   `json:"client_id" gorm:"not null;index"`
	EmailType string `json:"email_type" gorm:"type:varchar(32)"`
	Status    string `json:"status" gorm:"type:varchar(16)"`
	MessageID string `json:"message_id"`
}
