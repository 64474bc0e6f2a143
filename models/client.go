// payment-reminder/models/client.go

package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Client represents a billable client in the database.
//
// FinalAmount is a persisted figure, not a view: the billing synchronizer
// rewrites it to the client's pending-payment sum after every payment
// mutation, and a manual override survives only until the next such mutation.
type Client struct {
	gorm.Model
	Name        string          `json:"name" gorm:"not null"`
	Email       string          `json:"email" gorm:"not null;uniqueIndex"`
	Company     string          `json:"company"`
	Phone       string          `json:"phone"`
	FinalAmount decimal.Decimal `json:"final_amount" gorm:"type:decimal(10,2);default:0"`

	Payments []Payment `json:"-" gorm:"foreignKey:ClientID"`
}
