package jobs

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

const (
	reconcileBatchSize = 100
	reconcileTimeout   = 2 * time.Minute
	reconcileLockKey   = "eduplatform:jobs:reconcile"
)

type Reconciler interface {
	ReconcileStale(ctx context.Context, olderThan time.Duration, limit int) (int, error)
}

// ReconcileStalePayments re-polls card payments whose webhook never arrived.
// locker may be nil when a single instance runs the schedule.
func ReconcileStalePayments(r Reconciler, olderThan time.Duration, locker Locker) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), reconcileTimeout)
		defer cancel()

		if locker != nil {
			release, ok, err := locker.TryLock(ctx, reconcileLockKey, reconcileTimeout)
			switch {
			case err != nil:
				// Row locks keep concurrent runs correct; the lock only saves gateway calls.
				log.Printf("🔥 Reconcile lock unavailable, running anyway: %v", err)
			case !ok:
				log.Println("Skipping ReconcileStalePayments: another instance holds the lock")
				return
			default:
				defer release()
			}
		}

		log.Println("Running job: ReconcileStalePayments...")
		updated, err := r.ReconcileStale(ctx, olderThan, reconcileBatchSize)
		if err != nil {
			log.Printf("🔥 Error reconciling stale payments: %v", err)
			return
		}
		if updated > 0 {
			log.Printf("✅ Reconciled %d stale payments.", updated)
		}
	}
}

func ScheduleReconciliation(c *cron.Cron, spec string, r Reconciler, olderThan time.Duration, locker Locker) (cron.EntryID, error) {
	return c.AddFunc(spec, ReconcileStalePayments(r, olderThan, locker))
}
