package wasm

import (
	"math"
	"strings"
	"time"

	"github.com/Its-donkey/tms-ui/internal/ui/model"
	"github.com/Its-donkey/tms-ui/internal/ui/notify"
)

// Names of the functions exported on window for page scripts.
const (
	ShowGlobal    = "showNotification"
	DismissGlobal = "dismissNotification"
)

// ShowCall is a decoded showNotification(message, type, durationMs) call.
type ShowCall struct {
	Message  string
	Kind     model.NotificationKind
	Duration time.Duration
}

// DecodeShowCall applies the page API defaults: an omitted type is info and
// an omitted or non-finite duration is notify.DefaultDuration.
func DecodeShowCall(message string, kind *string, durationMS *float64) ShowCall {
	call := ShowCall{
		Message:  message,
		Kind:     model.KindInfo,
		Duration: notify.DefaultDuration,
	}
	if kind != nil {
		call.Kind = model.ParseNotificationKind(strings.TrimSpace(*kind))
	}
	if durationMS != nil && !math.IsNaN(*durationMS) && !math.IsInf(*durationMS, 0) {
		call.Duration = millisToDuration(*durationMS)
	}
	return call
}

// millisToDuration saturates instead of overflowing, which would flip the sign.
func millisToDuration(ms float64) time.Duration {
	ns := ms * float64(time.Millisecond)
	switch {
	case ns >= math.MaxInt64:
		return time.Duration(math.MaxInt64)
	case ns <= math.MinInt64:
		return time.Duration(math.MinInt64)
	}
	return time.Duration(ns)
}
