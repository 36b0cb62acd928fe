package jobs

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Reconciler recounts the denormalized seat counters from the booking tables.
// The transactional guards keep the counters correct in the normal path; this
// job repairs drift after manual data fixes or crashed transactions. The
// server is the only writer of these counters.
type Reconciler struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewReconciler(db *sql.DB, logger *slog.Logger) *Reconciler {
	return &Reconciler{db: db, logger: logger}
}

// Run recounts workshop enrollment and gym occupancy counters in one pass.
func (r *Reconciler) Run(ctx context.Context) error {
	start := time.Now()

	workshops, err := r.reconcile(ctx, `
		UPDATE workshops w
		SET enrolled = sub.n
		FROM (
			SELECT w2.id, COUNT(e.id) AS n
			FROM workshops w2
			LEFT JOIN workshop_enrollments e ON e.workshop_id = w2.id
			GROUP BY w2.id
		) sub
		WHERE sub.id = w.id AND w.enrolled <> sub.n
	`)
	if err != nil {
		return fmt.Errorf("reconcile workshop counters: %w", err)
	}

	slots, err := r.reconcile(ctx, `
		UPDATE gym_slots s
		SET occupied = sub.n
		FROM (
			SELECT s2.id, COUNT(res.id) AS n
			FROM gym_slots s2
			LEFT JOIN gym_reservations res ON res.slot_id = s2.id
			GROUP BY s2.id
		) sub
		WHERE sub.id = s.id AND s.occupied <> sub.n
	`)
	if err != nil {
		return fmt.Errorf("reconcile gym counters: %w", err)
	}

	r.logger.Info("capacity reconciliation finished",
		"workshops_corrected", workshops,
		"gym_slots_corrected", slots,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

func (r *Reconciler) reconcile(ctx context.Context, query string) (int64, error) {
	res, err := r.db.ExecContext(ctx, query)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Schedule registers the job on a new cron scheduler and starts it. An empty
// spec disables the job and returns nil.
func Schedule(spec string, reconciler *Reconciler, logger *slog.Logger) (*cron.Cron, error) {
	if spec == "" {
		return nil, nil
	}
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := reconciler.Run(ctx); err != nil {
			logger.Error("capacity reconciliation failed", "error", err)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("schedule reconciliation %q: %w", spec, err)
	}
	c.Start()
	return c, nil
}
