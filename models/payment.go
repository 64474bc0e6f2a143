// payment-reminder/models/payment.go

package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Payment represents a single expected payment from a client.
type Payment struct {
	gorm.Model
	ClientID    uint            `json:"client_id" gorm:"not null;index"`
	Amount      decimal.Decimal `json:"amount" gorm:"type:decimal(10,2);not null"`
	DueDate     time.Time       `json:"due_date" gorm:"not null"`
	Status      PaymentStatus   `json:"status" gorm:"type:varchar(16);default:'pending'"`
	Description string          `json:"description"`

	Client Client `json:"-" gorm:"foreignKey:ClientID"`
}
