package notify

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/khoahotran/portfolio-pilot/internal/application/state"
	"github.com/khoahotran/portfolio-pilot/pkg/logger"
)

type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityInfo    Severity = "info"
)

const DefaultTTL = 3 * time.Second

type Notification struct {
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
	// Token identifies one Notify call.
	Token uint64 `json:"token"`
}

// Empty reports whether n is the "nothing shown" value.
func (n Notification) Empty() bool {
	return n.Token == 0
}

// Notifier is what controllers depend on.
type Notifier interface {
	Notify(message string, severity Severity) Notification
}

// Emitter shows at most one notification. A newer one replaces the current one,
// and each expires on its own timer keyed by its token.
type Emitter struct {
	ttl     time.Duration
	log     logger.Logger
	current *state.Value[Notification]

	mu     sync.Mutex
	token  uint64
	timer  *time.Timer
	closed bool
}

func NewEmitter(ttl time.Duration, log logger.Logger) *Emitter {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Emitter{ttl: ttl, log: log, current: state.NewValue(Notification{})}
}

func (e *Emitter) Notify(message string, severity Severity) Notification {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return Notification{}
	}
	e.token++
	n := Notification{Message: message, Severity: severity, Token: e.token}
	if e.timer != nil {
		e.timer.Stop()
	}
	e.timer = time.AfterFunc(e.ttl, func() { e.Dismiss(n.Token) })
	e.mu.Unlock()

	e.log.Debug("Notification shown", zap.String("severity", string(severity)), zap.String("message", message))
	e.current.Update(func(cur Notification) Notification {
		if cur.Token > n.Token {
			return cur
		}
		return n
	})
	return n
}

func (e *Emitter) Success(message string) Notification { return e.Notify(message, SeveritySuccess) }
func (e *Emitter) Error(message string) Notification   { return e.Notify(message, SeverityError) }
func (e *Emitter) Info(message string) Notification    { return e.Notify(message, SeverityInfo) }

// Dismiss clears the notification with the given token. It is a no-op if a newer
// notification has replaced it.
func (e *Emitter) Dismiss(token uint64) bool {
	cleared := e.current.Update(func(cur Notification) Notification {
		if cur.Empty() || cur.Token != token {
			return cur
		}
		return Notification{}
	})
	if !cleared {
		return false
	}

	e.mu.Lock()
	if e.token == token && e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	e.mu.Unlock()
	return true
}

// Current returns the visible notification and whether there is one.
func (e *Emitter) Current() (Notification, bool) {
	n := e.current.Get()
	return n, !n.Empty()
}

// Subscribe receives every change. An empty Notification means the last one was dismissed.
func (e *Emitter) Subscribe(fn func(Notification)) (unsubscribe func()) {
	return e.current.Subscribe(fn)
}

// Close stops the pending timer. Later Notify calls are dropped.
func (e *Emitter) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
}
