package websocket

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dom/plantally/internal/domain"
	"github.com/dom/plantally/internal/trial"
)

// TickFunc reports the seconds left in a session's trial. It is expected to
// enforce expiry, returning domain.ErrSessionExpired once the trial is over.
type TickFunc func(ctx context.Context) (int, error)

type feedSink interface {
	Send(msg *Message)
	Finish()
}

// TimerManager polls a session's trial timer and pushes the countdown to a
// client until the session expires.
type TimerManager struct {
	interval   time.Duration
	tick       TickFunc
	sink       feedSink
	tickerStop chan struct{}
	syncNow    chan struct{}

	mu sync.Mutex
}

func NewTimerManager(interval time.Duration, tick TickFunc, sink feedSink) *TimerManager {
	return &TimerManager{
		interval: interval,
		tick:     tick,
		sink:     sink,
		syncNow:  make(chan struct{}, 1),
	}
}

// Start emits the current countdown and keeps emitting every interval.
func (tm *TimerManager) Start() {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	if tm.tickerStop != nil {
		return
	}
	tm.tickerStop = make(chan struct{})
	go tm.runTicker(tm.tickerStop)
}

// Stop ends the ticker. It does not wait for the goroutine to exit.
func (tm *TimerManager) Stop() {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	if tm.tickerStop != nil {
		close(tm.tickerStop)
		tm.tickerStop = nil
	}
}

// TickNow asks for an immediate tick outside the regular schedule.
func (tm *TimerManager) TickNow() {
	select {
	case tm.syncNow <- struct{}{}:
	default:
	}
}

func (tm *TimerManager) runTicker(stop <-chan struct{}) {
	ticker := time.NewTicker(tm.interval)
	defer ticker.Stop()

	if !tm.emit() {
		return
	}
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
		case <-tm.syncNow:
		}
		if !tm.emit() {
			return
		}
	}
}

// emit sends one tick and reports whether the feed should keep running.
func (tm *TimerManager) emit() bool {
	remaining, err := tm.tick(context.Background())
	if err == nil {
		msg, _ := NewMessage(MessageTypeTimerTick, TimerTickPayload{RemainingSeconds: remaining})
		tm.sink.Send(msg)
		return true
	}

	var msg *Message
	switch {
	case errors.Is(err, domain.ErrSessionExpired):
		msg, _ = NewMessage(MessageTypeSessionExpired, SessionExpiredPayload{})
	case errors.Is(err, trial.ErrTimerInactive):
		msg, _ = NewMessage(MessageTypeError, ErrorPayload{
			Code:    ErrCodeTimerInactive,
			Message: "No demo is running for this session",
		})
	default:
		msg, _ = NewMessage(MessageTypeError, ErrorPayload{
			Code:    ErrCodeSession,
			Message: err.Error(),
		})
	}
	tm.sink.Send(msg)
	tm.sink.Finish()
	return false
}
