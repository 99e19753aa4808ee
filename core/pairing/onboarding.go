package pairing

import (
	"context"
	"log/slog"

	"github.com/aura650/anon-go-bot/core/logger"
)

// Search is the gated entry point behind /search and the menu button.
// It registers the user, then defers queuing until gender is set and the
// mood is fresh, prompting for whichever is missing first.
func (e *Engine) Search(ctx context.Context, userID int64, displayName string) ([]Event, error) {
	if err := e.upsert(ctx, userID, displayName); err != nil {
		return nil, err
	}
	p, err := e.loadProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	// Conflicts answer before the gate, so a paired user with a stale mood is not re-prompted.
	if e.sessions.Has(userID) {
		return []Event{{Kind: EventAlreadyInChat, User: userID}}, nil
	}
	if e.queue.Contains(userID) {
		return []Event{{Kind: EventAlreadySearching, User: userID}}, nil
	}
	if p == nil || p.Gender == GenderUnset {
		e.setStage(userID, StageAwaitGender)
		logger.Debug(ctx, component, "onboarding.prompt", slog.String("stage", StageAwaitGender.String()))
		return []Event{promptGender(userID)}, nil
	}
	return e.moodGateLocked(ctx, userID, p)
}

// moodGateLocked queues the user when the mood is fresh, otherwise parks them at AwaitMood.
func (e *Engine) moodGateLocked(ctx context.Context, userID int64, p *UserProfile) ([]Event, error) {
	if p.MoodFresh(e.now(), e.opts.MoodTTL) {
		return e.startSearchLocked(ctx, userID)
	}
	e.setStage(userID, StageAwaitMood)
	logger.Debug(ctx, component, "onboarding.prompt", slog.String("stage", StageAwaitMood.String()))
	return []Event{promptMood(userID)}, nil
}

// SelectGender persists the gender. A user parked at AwaitGender continues at the mood check.
func (e *Engine) SelectGender(ctx context.Context, userID int64, gender Gender) ([]Event, error) {
	g, err := ParseGender(string(gender))
	if err != nil {
		return nil, err
	}
	if err := e.upsert(ctx, userID, ""); err != nil {
		return nil, err
	}
	if err := e.withStore(ctx, "set gender", userID, func(ctx context.Context) error {
		return e.store.SetGender(ctx, userID, g)
	}); err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	events := []Event{{Kind: EventGenderSaved, User: userID, Gender: g}}
	if e.stages[userID] != StageAwaitGender {
		return events, nil
	}
	e.setStage(userID, StageNone)
	p, err := e.loadProfile(ctx, userID)
	if err != nil {
		return events, err
	}
	if p == nil {
		p = &UserProfile{ID: userID, Gender: g, Preference: PreferAny}
	}
	more, err := e.moodGateLocked(ctx, userID, p)
	return append(events, more...), err
}

// SelectMood persists the mood stamped with the current time. A user parked
// at AwaitMood is queued directly; both prerequisites are known to hold.
func (e *Engine) SelectMood(ctx context.Context, userID int64, mood Mood) ([]Event, error) {
	m, err := ParseMood(string(mood))
	if err != nil {
		return nil, err
	}
	if err := e.upsert(ctx, userID, ""); err != nil {
		return nil, err
	}
	at := e.now()
	if err := e.withStore(ctx, "set mood", userID, func(ctx context.Context) error {
		return e.store.SetMood(ctx, userID, m, at)
	}); err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	events := []Event{{Kind: EventMoodSaved, User: userID, Mood: m}}
	if e.stages[userID] != StageAwaitMood {
		return events, nil
	}
	e.setStage(userID, StageNone)
	more, err := e.startSearchLocked(ctx, userID)
	return append(events, more...), err
}

// SelectPreference persists the partner gender preference. It never starts a search.
func (e *Engine) SelectPreference(ctx context.Context, userID int64, pref Preference) ([]Event, error) {
	p, err := ParsePreference(string(pref))
	if err != nil {
		return nil, err
	}
	if err := e.upsert(ctx, userID, ""); err != nil {
		return nil, err
	}
	if err := e.withStore(ctx, "set preference", userID, func(ctx context.Context) error {
		return e.store.SetGenderPreference(ctx, userID, p)
	}); err != nil {
		return nil, err
	}
	return []Event{{Kind: EventPreferenceSaved, User: userID, Preference: p}}, nil
}

// Register creates the profile on first contact. Repeated calls are no-ops.
func (e *Engine) Register(ctx context.Context, userID int64, displayName string) error {
	return e.upsert(ctx, userID, displayName)
}

func (e *Engine) upsert(ctx context.Context, userID int64, displayName string) error {
	return e.withStore(ctx, "upsert user", userID, func(ctx context.Context) error {
		return e.store.UpsertUser(ctx, userID, displayName)
	})
}
