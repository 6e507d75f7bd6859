// Package schedule provides fire-once delayed callbacks that can be cancelled.
//
// UI components receive a Scheduler instead of calling time.AfterFunc so that
// tests can drive time with Manual.
package schedule

import (
	"sort"
	"sync"
	"time"
)

// Handle cancels a scheduled callback.
type Handle interface {
	// Cancel prevents the callback from running. It reports whether the
	// callback was still pending.
	Cancel() bool
}

// Scheduler runs fn once after d.
type Scheduler interface {
	Schedule(d time.Duration, fn func()) Handle
}

// Clock schedules callbacks on real timers.
type Clock struct{}

// Schedule implements Scheduler using time.AfterFunc.
func (Clock) Schedule(d time.Duration, fn func()) Handle {
	return timerHandle{time.AfterFunc(d, fn)}
}

type timerHandle struct {
	t *time.Timer
}

func (h timerHandle) Cancel() bool {
	return h.t.Stop()
}

// Manual is a deterministic scheduler. Callbacks only run from Advance.
type Manual struct {
	mu      sync.Mutex
	now     time.Time
	seq     uint64
	pending []*manualTask
}

type manualTask struct {
	owner     *Manual
	due       time.Time
	seq       uint64
	fn        func()
	cancelled bool
	fired     bool
}

// NewManual returns a Manual scheduler whose clock starts at start.
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

// Now returns the manual clock's current time.
func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Schedule implements Scheduler.
func (m *Manual) Schedule(d time.Duration, fn func()) Handle {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	task := &manualTask{owner: m, due: m.now.Add(d), seq: m.seq, fn: fn}
	m.pending = append(m.pending, task)
	return task
}

// Pending returns the number of callbacks that have neither fired nor been cancelled.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}

// Scheduled returns the total number of callbacks ever scheduled.
func (m *Manual) Scheduled() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int(m.seq)
}

// Advance moves the clock forward by d, running every callback that falls due
// in order. Callbacks scheduled while advancing run too if they fall inside d.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now.Add(d)
	for {
		task := m.nextDueLocked(target)
		if task == nil {
			break
		}
		m.now = task.due
		task.fired = true
		m.mu.Unlock()
		task.fn()
		m.mu.Lock()
	}
	m.now = target
	m.mu.Unlock()
}

func (m *Manual) nextDueLocked(target time.Time) *manualTask {
	if len(m.pending) == 0 {
		return nil
	}
	sort.SliceStable(m.pending, func(i, j int) bool {
		if m.pending[i].due.Equal(m.pending[j].due) {
			return m.pending[i].seq < m.pending[j].seq
		}
		return m.pending[i].due.Before(m.pending[j].due)
	})
	next := m.pending[0]
	if next.due.After(target) {
		return nil
	}
	m.pending = m.pending[1:]
	return next
}

func (t *manualTask) Cancel() bool {
	m := t.owner
	m.mu.Lock()
	defer m.mu.Unlock()
	if t.cancelled || t.fired {
		return false
	}
	t.cancelled = true
	for i, p := range m.pending {
		if p == t {
			m.pending = append(m.pending[:i], m.pending[i+1:]...)
			break
		}
	}
	return true
}
