package realtime

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/lib/pq"
)

// Postgres NOTIFY channels fired by the booking-table triggers. The payload
// only names the table that changed; subscribers refetch rather than patch.
const (
	ChannelCourseEntries       = "course_entries_changed"
	ChannelWorkshopEnrollments = "workshop_enrollments_changed"
	ChannelGymReservations     = "gym_reservations_changed"
)

// Channels returns every channel the listener subscribes to.
func Channels() []string {
	return []string{ChannelCourseEntries, ChannelWorkshopEnrollments, ChannelGymReservations}
}

// Invalidator marks cached schedule state stale so the next read refetches.
type Invalidator interface {
	Invalidate()
}

// Source is the subset of *pq.Listener the adapter needs. Tests substitute a
// fake feeding notifications through a plain channel.
type Source interface {
	NotificationChannel() <-chan *pq.Notification
	Ping() error
	Close() error
}

// Listener coalesces bursts of change notifications into a single
// invalidation after a quiet period, so a batch of writes triggers one
// refetch instead of one per row.
type Listener struct {
	source       Source
	target       Invalidator
	logger       *slog.Logger
	debounce     time.Duration
	pingInterval time.Duration

	done      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
	closeErr  error
}

// Connect opens a dedicated LISTEN connection and subscribes to all booking
// channels. Reconnects are handled by the driver; on reconnect it emits a nil
// notification, which the listener treats as a change.
func Connect(dbURL string, logger *slog.Logger) (*pq.Listener, error) {
	pl := pq.NewListener(dbURL, 2*time.Second, time.Minute, func(ev pq.ListenerEventType, err error) {
		if err != nil {
			logger.Warn("listener connection event", "event", ev, "error", err)
		}
	})
	for _, ch := range Channels() {
		if err := pl.Listen(ch); err != nil {
			pl.Close()
			return nil, fmt.Errorf("listen %s: %w", ch, err)
		}
	}
	return pl, nil
}

// NewListener wires a notification source to an invalidation target.
func NewListener(source Source, target Invalidator, logger *slog.Logger, debounce time.Duration) *Listener {
	return &Listener{
		source:       source,
		target:       target,
		logger:       logger,
		debounce:     debounce,
		pingInterval: 90 * time.Second,
		done:         make(chan struct{}),
	}
}

// Start launches the background loop. Call Close to stop it.
func (l *Listener) Start() {
	l.wg.Add(1)
	go l.run()
}

func (l *Listener) run() {
	defer l.wg.Done()

	var timer *time.Timer
	var pending <-chan time.Time
	ping := time.NewTicker(l.pingInterval)
	defer ping.Stop()
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case n, ok := <-l.source.NotificationChannel():
			if !ok {
				return
			}
			channel := "reconnect"
			if n != nil {
				channel = n.Channel
			}
			l.logger.Debug("change notification", "channel", channel)
			if timer == nil {
				timer = time.NewTimer(l.debounce)
				pending = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(l.debounce)
			}
		case <-pending:
			timer = nil
			pending = nil
			l.logger.Debug("invalidating schedule caches")
			l.target.Invalidate()
		case <-ping.C:
			if err := l.source.Ping(); err != nil {
				l.logger.Warn("listener ping failed", "error", err)
			}
		case <-l.done:
			return
		}
	}
}

// Close stops the loop and closes the underlying connection.
func (l *Listener) Close() error {
	l.closeOnce.Do(func() {
		close(l.done)
		l.wg.Wait()
		l.closeErr = l.source.Close()
	})
	return l.closeErr
}
