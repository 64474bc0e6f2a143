package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/hehemohit/payment-reminder/models"
)

// SweepOverdue flips every pending payment whose due date has passed to
// overdue, then resynchronizes all clients. The resync is mandatory: a status
// flip removes the payment from its client's pending sum, and one sweep can
// touch payments of many clients at once.
//
// Returns the number of payments flipped and the number of clients resynced.
func (s *Synchronizer) SweepOverdue(ctx context.Context) (int64, int, error) {
	res := s.db.WithContext(ctx).Model(&models.Payment{}).
		Where("due_date < ? AND status = ?", time.Now(), models.StatusPending).
		Update("status", models.StatusOverdue)
	if res.Error != nil {
		return 0, 0, fmt.Errorf("%w: mark overdue payments: %v", ErrStoreUnavailable, res.Error)
	}

	if res.RowsAffected > 0 {
		s.log.Info("payments marked overdue", "count", res.RowsAffected)
	}

	synced, err := s.SyncAll(ctx)
	if err != nil {
		return res.RowsAffected, 0, err
	}
	return res.RowsAffected, synced, nil
}
