// Package notify owns the single notification slot of a page: showing a
// message, dismissing it automatically or by click, and the fade-out that
// precedes hiding.
//
// The slot moves Hidden -> Visible (Show) -> Fading (Dismiss) -> Hidden (after
// FadeDelay). Show in any phase cancels every timer of the previous cycle and
// restores a clean visible surface.
package notify

import (
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Its-donkey/tms-ui/internal/ui/dom"
	"github.com/Its-donkey/tms-ui/internal/ui/model"
	"github.com/Its-donkey/tms-ui/internal/ui/schedule"
	"github.com/Its-donkey/tms-ui/logging"
)

const (
	// DefaultDuration is how long a notification stays up when the caller does not say.
	DefaultDuration = 5 * time.Second
	// FadeDelay is the length of the fade-out before the surface is hidden.
	FadeDelay = 300 * time.Millisecond

	durationAttr = "data-duration-ms"
	logCategory  = "notify"
)

// Controller drives the notification surface of one document.
type Controller struct {
	doc    dom.Document
	sched  schedule.Scheduler
	logger *logging.Logger

	mu           sync.Mutex
	state        model.NotificationState
	dismissTimer schedule.Handle
	fadeTimer    schedule.Handle
}

// NewController builds a controller with a hidden slot. A nil scheduler uses real timers.
func NewController(doc dom.Document, sched schedule.Scheduler, logger *logging.Logger) *Controller {
	if sched == nil {
		sched = schedule.Clock{}
	}
	return &Controller{
		doc:    doc,
		sched:  sched,
		logger: logger,
		state: model.NotificationState{
			Kind:  model.KindInfo,
			Phase: model.PhaseHidden,
		},
	}
}

// State returns a snapshot of the slot.
func (c *Controller) State() model.NotificationState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// ShowDefault shows an info notification for DefaultDuration.
func (c *Controller) ShowDefault(message string) {
	c.Show(message, model.KindInfo, DefaultDuration)
}

// Show displays message styled for kind. A duration of zero or less keeps the
// notification up until Dismiss is called.
func (c *Controller) Show(message string, kind model.NotificationKind, duration time.Duration) {
	container, text, ok := c.surface()
	if !ok {
		c.logger.Error(logCategory, "notification container not found", nil, map[string]any{"message": message})
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.showLocked(container, text, message, model.ParseNotificationKind(string(kind)), duration)
}

// Resume adopts a surface that was rendered visible before the controller
// existed, such as a server-side flash notice. It reports whether it did.
func (c *Controller) Resume() bool {
	container, text, ok := c.surface()
	if !ok || container.HasClass(hiddenClass) {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Phase != model.PhaseHidden {
		return false
	}
	c.adoptLocked(container, text)
	return true
}

// Dismiss fades the notification out and hides it after FadeDelay. It is a
// no-op when the surface is hidden or a fade is already running.
//
// A surface that is visible while the slot is Hidden, such as a prerendered
// notice that was never resumed, is adopted first and then faded. Adopting
// goes through Show, so its auto-dismiss timer is scheduled and at once
// cancelled; only the fade timer stays pending.
func (c *Controller) Dismiss() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dismissLocked()
}

func (c *Controller) surface() (container, text dom.Element, ok bool) {
	container, okContainer := c.doc.ByID(dom.NotificationID)
	text, okText := c.doc.ByID(dom.NotificationMessageID)
	if !okContainer || !okText {
		return nil, nil, false
	}
	return container, text, true
}

func (c *Controller) showLocked(container, text dom.Element, message string, kind model.NotificationKind, duration time.Duration) {
	c.cancelTimersLocked()

	cycle := uuid.NewString()
	container.SetClassName(ClassFor(kind))
	container.SetAttr(durationAttr, strconv.FormatInt(duration.Milliseconds(), 10))
	text.SetText(message)

	c.state = model.NotificationState{
		Visible: true,
		Message: message,
		Kind:    kind,
		Phase:   model.PhaseVisible,
		Cycle:   cycle,
	}
	if duration > 0 {
		c.dismissTimer = c.sched.Schedule(duration, func() { c.expire(cycle) })
		c.state.DismissPending = true
	}
	c.logger.Debug(logCategory, "notification shown", map[string]any{
		"cycle":       cycle,
		"kind":        string(kind),
		"duration_ms": duration.Milliseconds(),
	})
}

func (c *Controller) adoptLocked(container, text dom.Element) {
	duration := DefaultDuration
	if raw, ok := container.Attr(durationAttr); ok {
		if ms, err := strconv.ParseInt(raw, 10, 64); err == nil {
			duration = time.Duration(ms) * time.Millisecond
		}
	}
	kind := kindFromClass(container.ClassName())
	c.showLocked(container, text, text.Text(), kind, duration)
}

func (c *Controller) dismissLocked() {
	container, text, ok := c.surface()
	if !ok {
		c.logger.Debug(logCategory, "dismiss without notification container", nil)
		return
	}
	if c.state.Phase == model.PhaseHidden && !container.HasClass(hiddenClass) {
		c.adoptLocked(container, text)
	}
	if c.state.Phase != model.PhaseVisible {
		return
	}

	cancel(&c.dismissTimer)
	c.state.DismissPending = false

	container.AddClass(fadeClasses...)
	cycle := c.state.Cycle
	c.state.Phase = model.PhaseFading
	c.fadeTimer = c.sched.Schedule(FadeDelay, func() { c.finishFade(cycle) })
	c.state.FadePending = true
}

// expire runs when the auto-dismiss timer of cycle fires.
func (c *Controller) expire(cycle string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if cycle != c.state.Cycle {
		return
	}
	c.dismissTimer = nil
	c.state.DismissPending = false
	c.dismissLocked()
}

func (c *Controller) finishFade(cycle string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if cycle != c.state.Cycle || c.state.Phase != model.PhaseFading {
		return
	}
	c.fadeTimer = nil
	c.state.FadePending = false
	c.state.Phase = model.PhaseHidden
	c.state.Visible = false

	if container, ok := c.doc.ByID(dom.NotificationID); ok {
		container.AddClass(hiddenClass)
		container.RemoveClass(fadeClasses...)
	}
}

func (c *Controller) cancelTimersLocked() {
	cancel(&c.dismissTimer)
	cancel(&c.fadeTimer)
	c.state.DismissPending = false
	c.state.FadePending = false
}

func cancel(h *schedule.Handle) {
	if *h != nil {
		(*h).Cancel()
		*h = nil
	}
}
