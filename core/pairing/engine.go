// Package pairing implements the anonymous pairing and relay engine: the
// waiting queue, the symmetric session table, FIFO matchmaking by mutual
// gender preference, the onboarding gate and message relay.
//
// The engine never talks to the messaging platform. Every operation returns
// the events the transport has to deliver; only Relay calls out, through the
// Deliverer it is given.
package pairing

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aura650/anon-go-bot/core/logger"
)

const (
	// DefaultMoodTTL is how long a declared mood stays valid for searching.
	DefaultMoodTTL = 7200 * time.Second
	// DefaultStoreTimeout caps every ProfileStore call made by the engine.
	DefaultStoreTimeout = 2 * time.Second

	component = "pairing"
)

// Stage is the onboarding step a user is parked at while searching is deferred.
type Stage uint8

const (
	StageNone Stage = iota
	StageAwaitGender
	StageAwaitMood
)

func (s Stage) String() string {
	switch s {
	case StageAwaitGender:
		return "await_gender"
	case StageAwaitMood:
		return "await_mood"
	default:
		return "none"
	}
}

// Status summarises where a user currently is.
type Status string

const (
	StatusIdle       Status = "idle"
	StatusOnboarding Status = "onboarding"
	StatusSearching  Status = "searching"
	StatusChatting   Status = "chatting"
)

// Stats is a point-in-time view of engine occupancy.
type Stats struct {
	Waiting    int
	Pairs      int
	Onboarding int
}

// Options tune the engine. Zero values fall back to defaults.
type Options struct {
	MoodTTL      time.Duration
	StoreTimeout time.Duration
	// Now overrides the clock; used by tests.
	Now func() time.Time
}

// Engine owns the queue, the session table and onboarding stages.
// A single mutex covers all three so that enqueue, the matchmaking scan and
// session teardown are atomic with respect to each other.
type Engine struct {
	store ProfileStore
	opts  Options

	mu       sync.Mutex
	queue    waitingQueue
	sessions *sessionTable
	stages   map[int64]Stage
}

// NewEngine builds an engine backed by store.
func NewEngine(store ProfileStore, opts Options) *Engine {
	if opts.MoodTTL <= 0 {
		opts.MoodTTL = DefaultMoodTTL
	}
	if opts.StoreTimeout <= 0 {
		opts.StoreTimeout = DefaultStoreTimeout
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Engine{
		store:    store,
		opts:     opts,
		sessions: newSessionTable(),
		stages:   make(map[int64]Stage),
	}
}

// Status reports the user's current position in the flow.
func (e *Engine) Status(userID int64) Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	switch {
	case e.sessions.Has(userID):
		return StatusChatting
	case e.queue.Contains(userID):
		return StatusSearching
	case e.stages[userID] != StageNone:
		return StatusOnboarding
	}
	return StatusIdle
}

// Stage returns the onboarding stage of the user.
func (e *Engine) Stage(userID int64) Stage {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stages[userID]
}

// Stats returns current occupancy counters.
func (e *Engine) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Stats{
		Waiting:    e.queue.Len(),
		Pairs:      e.sessions.Pairs(),
		Onboarding: len(e.stages),
	}
}

// Waiting returns the queue in arrival order.
func (e *Engine) Waiting() []int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.queue.Snapshot()
}

// PartnerOf returns the recorded partner of userID.
func (e *Engine) PartnerOf(userID int64) (int64, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sessions.Partner(userID)
}

func (e *Engine) setStage(userID int64, st Stage) {
	if st == StageNone {
		delete(e.stages, userID)
		return
	}
	e.stages[userID] = st
}

func (e *Engine) now() time.Time { return e.opts.Now() }

func (e *Engine) loadProfile(ctx context.Context, userID int64) (*UserProfile, error) {
	ctx, cancel := context.WithTimeout(ctx, e.opts.StoreTimeout)
	defer cancel()
	p, err := e.store.GetProfile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("pairing: load profile %d: %w", userID, err)
	}
	return p, nil
}

func (e *Engine) withStore(ctx context.Context, op string, userID int64, fn func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, e.opts.StoreTimeout)
	defer cancel()
	if err := fn(ctx); err != nil {
		return fmt.Errorf("pairing: %s %d: %w", op, userID, err)
	}
	return nil
}

// attemptMatchLocked runs the matchmaker over the current queue. Caller holds e.mu.
func (e *Engine) attemptMatchLocked(ctx context.Context) ([]Event, error) {
	lookup := memoLookup(func(id int64) (*UserProfile, error) {
		return e.loadProfile(ctx, id)
	})
	events, err := matchQueue(&e.queue, e.sessions, lookup)
	for _, ev := range events {
		logger.Info(ctx, component, "pairing.matched",
			slog.Int64("user_id", ev.User),
			slog.Int64("partner_id", ev.Partner),
			slog.Int("waiting", e.queue.Len()),
		)
	}
	if err != nil {
		logger.Error(ctx, component, "pairing.scan_failed",
			slog.String("err", err.Error()),
			slog.Int("waiting", e.queue.Len()),
		)
	}
	return events, err
}
