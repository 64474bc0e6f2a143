// payment-reminder/internal/billing/synchronizer.go

package billing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/hehemohit/payment-reminder/models"
)

// DefaultVerifyDelay is the pause between writing a final amount and reading
// it back in RecomputeAndVerify. The store is strongly consistent, so the
// pause buys nothing for correctness; it only tolerates a lagging read
// replica or cache sitting in front of it.
const DefaultVerifyDelay = 100 * time.Millisecond

// Synchronizer keeps each client's persisted final_amount equal to the sum of
// that client's pending payments. The invariant holds at the moments the
// synchronizer runs, not continuously: between runs the stored value may be
// stale, and a manual override survives until the next payment mutation.
//
// Note the intended but surprising consequence: a client whose payments are
// all paid or overdue has a final amount of zero. Overdue money is not part
// of the figure.
type Synchronizer struct {
	db  *gorm.DB
	log *slog.Logger

	// VerifyDelay is the read-back pause used by RecomputeAndVerify.
	// Tests set it to zero.
	VerifyDelay time.Duration
}

// NewSynchronizer builds a Synchronizer on an open database handle.
func NewSynchronizer(db *gorm.DB, log *slog.Logger) *Synchronizer {
	return &Synchronizer{db: db, log: log, VerifyDelay: DefaultVerifyDelay}
}

// PendingSum adds up the amounts of the pending payments in the slice.
// Accumulation is exact decimal arithmetic; there is no float in the path.
// An unknown status is an error so that a new status value cannot silently
// fall in or out of the figure.
func PendingSum(payments []models.Payment) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, p := range payments {
		switch p.Status {
		case models.StatusPending:
			total = total.Add(p.Amount)
		case models.StatusPaid, models.StatusOverdue:
			// contributes zero
		default:
			return decimal.Zero, fmt.Errorf("payment %d has unknown status %q", p.ID, p.Status)
		}
	}
	return total, nil
}

// RecomputeAndStore recalculates the client's pending-payment sum and writes
// it into final_amount, overwriting any previous value including a manual
// override. The read and write run in one transaction, so the stored value
// always corresponds to some consistent snapshot of that client's payments.
func (s *Synchronizer) RecomputeAndStore(ctx context.Context, clientID uint) (decimal.Decimal, error) {
	total := decimal.Zero

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var client models.Client
		if err := tx.First(&client, clientID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: client %d", ErrNotFound, clientID)
			}
			return fmt.Errorf("%w: fetch client %d: %v", ErrStoreUnavailable, clientID, err)
		}

		var payments []models.Payment
		if err := tx.Where("client_id = ?", clientID).Find(&payments).Error; err != nil {
			return fmt.Errorf("%w: fetch payments for client %d: %v", ErrStoreUnavailable, clientID, err)
		}

		sum, err := PendingSum(payments)
		if err != nil {
			return err
		}

		if err := tx.Model(&client).Update("final_amount", sum).Error; err != nil {
			return fmt.Errorf("%w: update final_amount for client %d: %v", ErrStoreUnavailable, clientID, err)
		}

		total = sum
		return nil
	})
	if err != nil {
		return decimal.Zero, err
	}

	return total, nil
}

// RecomputeAndVerify runs RecomputeAndStore and then confirms the stored
// value by reading it back after a short pause. On a mismatch it rewrites
// once and checks again; a second mismatch is logged as an anomaly, not
// returned as an error. The returned value is always the computed sum.
func (s *Synchronizer) RecomputeAndVerify(ctx context.Context, clientID uint) (decimal.Decimal, error) {
	want, err := s.RecomputeAndStore(ctx, clientID)
	if err != nil {
		return decimal.Zero, err
	}

	for attempt := 0; attempt < 2; attempt++ {
		if s.VerifyDelay > 0 {
			time.Sleep(s.VerifyDelay)
		}

		var client models.Client
		if err := s.db.WithContext(ctx).First(&client, clientID).Error; err != nil {
			return want, fmt.Errorf("%w: verify read for client %d: %v", ErrStoreUnavailable, clientID, err)
		}
		if client.FinalAmount.Equal(want) {
			return want, nil
		}

		if attempt == 0 {
			s.log.Warn("final amount read-back mismatch, rewriting",
				"client_id", clientID,
				"want", want.StringFixed(2),
				"got", client.FinalAmount.StringFixed(2))
			if want, err = s.RecomputeAndStore(ctx, clientID); err != nil {
				return decimal.Zero, err
			}
		} else {
			s.log.Error("final amount still mismatched after rewrite",
				"client_id", clientID,
				"want", want.StringFixed(2),
				"got", client.FinalAmount.StringFixed(2))
		}
	}

	return want, nil
}

// SyncAll recomputes the final amount of every client. The sweep is best
// effort: a failure for one client is logged and the sweep moves on. Each
// client is recomputed independently, so the sweep is not a single global
// snapshot. Returns the number of clients successfully updated.
func (s *Synchronizer) SyncAll(ctx context.Context) (int, error) {
	var ids []uint
	if err := s.db.WithContext(ctx).Model(&models.Client{}).Pluck("id", &ids).Error; err != nil {
		return 0, fmt.Errorf("%w: list clients: %v", ErrStoreUnavailable, err)
	}

	synced := 0
	for _, id := range ids {
		if _, err := s.RecomputeAndStore(ctx, id); err != nil {
			// A client deleted while the sweep runs lands here too.
			s.log.Warn("sync skipped client", "client_id", id, "error", err)
			continue
		}
		synced++
	}

	s.log.Info("final amounts synced", "clients", synced, "total", len(ids))
	return synced, nil
}

// OverrideFinalAmount writes value directly into the client's final_amount,
// bypassing recomputation. The override holds only until the next payment
// mutation for that client triggers a recompute.
func (s *Synchronizer) OverrideFinalAmount(ctx context.Context, clientID uint, value decimal.Decimal) error {
	if value.IsNegative() {
		return fmt.Errorf("%w: final amount must not be negative, got %s", ErrInvalidArgument, value.StringFixed(2))
	}

	res := s.db.WithContext(ctx).Model(&models.Client{}).
		Where("id = ?", clientID).
		Update("final_amount", value)
	if res.Error != nil {
		return fmt.Errorf("%w: override final_amount for client %d: %v", ErrStoreUnavailable, clientID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: client %d", ErrNotFound, clientID)
	}

	s.log.Info("final amount overridden", "client_id", clientID, "value", value.StringFixed(2))
	return nil
}
