package realtime

import (
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type fakeSource struct {
	ch     chan *pq.Notification
	closed bool
	mu     sync.Mutex
}

func newFakeSource() *fakeSource {
	return &fakeSource{ch: make(chan *pq.Notification, 16)}
}

func (f *fakeSource) NotificationChannel() <-chan *pq.Notification { return f.ch }

func (f *fakeSource) Ping() error { return nil }

func (f *fakeSource) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeSource) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

func (f *fakeSource) notify(channel string) {
	f.ch <- &pq.Notification{Channel: channel}
}

type countingInvalidator struct {
	mu    sync.Mutex
	count int
}

func (c *countingInvalidator) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.count++
}

func (c *countingInvalidator) calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count
}

func TestListener_CoalescesBurstIntoOneInvalidation(t *testing.T) {
	source := newFakeSource()
	target := &countingInvalidator{}
	l := NewListener(source, target, testLogger, 20*time.Millisecond)
	l.Start()
	defer l.Close()

	for i := 0; i < 5; i++ {
		source.notify(ChannelWorkshopEnrollments)
	}
	source.notify(ChannelGymReservations)

	require.Eventually(t, func() bool {
		return target.calls() == 1
	}, time.Second, 5*time.Millisecond)

	// Quiet period over; a later notification starts a new window.
	source.notify(ChannelCourseEntries)
	require.Eventually(t, func() bool {
		return target.calls() == 2
	}, time.Second, 5*time.Millisecond)
}

func TestListener_ReconnectMarkerTriggersInvalidation(t *testing.T) {
	source := newFakeSource()
	target := &countingInvalidator{}
	l := NewListener(source, target, testLogger, 10*time.Millisecond)
	l.Start()
	defer l.Close()

	// The driver delivers nil after a reconnect; changes may have been missed.
	source.ch <- nil

	require.Eventually(t, func() bool {
		return target.calls() == 1
	}, time.Second, 5*time.Millisecond)
}

func TestListener_CloseStopsLoopAndClosesSource(t *testing.T) {
	source := newFakeSource()
	target := &countingInvalidator{}
	l := NewListener(source, target, testLogger, 10*time.Millisecond)
	l.Start()

	require.NoError(t, l.Close())
	assert.True(t, source.isClosed())

	// Idempotent.
	require.NoError(t, l.Close())

	source.notify(ChannelCourseEntries)
	time.Sleep(30 * time.Millisecond)
	assert.Zero(t, target.calls())
}

func TestChannelsCoverAllBookingTables(t *testing.T) {
	assert.ElementsMatch(t, []string{
		"course_entries_changed",
		"workshop_enrollments_changed",
		"gym_reservations_changed",
	}, Channels())
}
