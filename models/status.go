package models

import "fmt"

// PaymentStatus is the closed set of states a payment moves through. Keep the
// set in sync with every switch over it: the pending-sum computation, the
// overdue sweep and the export colour mapping all match exhaustively and fail
// loudly on an unknown value.
type PaymentStatus string

const (
	StatusPending PaymentStatus = "pending"
	StatusPaid    PaymentStatus = "paid"
	StatusOverdue PaymentStatus = "overdue"
)

// Valid reports whether s is one of the known statuses.
func (s PaymentStatus) Valid() bool {
	switch s {
	case StatusPending, StatusPaid, StatusOverdue:
		return true
	}
	return false
}

// HexColor returns the fill colour used for this status in exported
// spreadsheets.
func (s PaymentStatus) HexColor() (string, error) {
	switch s {
	case StatusPending:
		return "FFF3CD", nil
	case StatusPaid:
		return "D4EDDA", nil
	case StatusOverdue:
		return "F8D7DA", nil
	}
	return "", fmt.Errorf("unknown payment status %q", string(s))
}
