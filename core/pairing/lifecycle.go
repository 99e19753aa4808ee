package pairing

import (
	"context"
	"log/slog"

	"github.com/aura650/anon-go-bot/core/logger"
)

// StartSearch queues the user and runs matchmaking, skipping the onboarding gate.
// Users already chatting or queued get an informational event instead.
func (e *Engine) StartSearch(ctx context.Context, userID int64) ([]Event, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.startSearchLocked(ctx, userID)
}

func (e *Engine) startSearchLocked(ctx context.Context, userID int64) ([]Event, error) {
	if e.sessions.Has(userID) {
		return []Event{{Kind: EventAlreadyInChat, User: userID}}, nil
	}
	if !e.queue.Enqueue(userID) {
		return []Event{{Kind: EventAlreadySearching, User: userID}}, nil
	}
	e.setStage(userID, StageNone)
	logger.Debug(ctx, component, "pairing.enqueue",
		slog.Int64("user_id", userID),
		slog.Int("waiting", e.queue.Len()),
	)

	events := []Event{searching(userID)}
	matched, err := e.attemptMatchLocked(ctx)
	return append(events, matched...), err
}

// Next ends the current session, if any, and searches again.
func (e *Engine) Next(ctx context.Context, userID int64) ([]Event, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	events := e.teardownLocked(ctx, userID, "next")
	e.setStage(userID, StageNone)
	more, err := e.startSearchLocked(ctx, userID)
	return append(events, more...), err
}

// Stop ends the current session. Without a session it only reports NotInChat
// and leaves queue membership untouched.
func (e *Engine) Stop(ctx context.Context, userID int64) []Event {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.setStage(userID, StageNone)
	events := e.teardownLocked(ctx, userID, "stop")
	if len(events) == 0 {
		return []Event{{Kind: EventNotInChat, User: userID}}
	}
	return append(events, Event{Kind: EventYouStopped, User: userID})
}

// CancelSearch takes the user out of the waiting queue or abandons onboarding.
func (e *Engine) CancelSearch(ctx context.Context, userID int64) []Event {
	e.mu.Lock()
	defer e.mu.Unlock()

	left := e.queue.Leave(userID)
	pending := e.stages[userID] != StageNone
	if !left && !pending {
		return []Event{{Kind: EventNotSearching, User: userID}}
	}
	e.setStage(userID, StageNone)
	logger.Debug(ctx, component, "pairing.cancel",
		slog.Int64("user_id", userID),
		slog.Bool("queued", left),
		slog.Int("waiting", e.queue.Len()),
	)
	return []Event{{Kind: EventSearchCancelled, User: userID}}
}

// teardownLocked removes both sides of the user's session and notifies the partner.
func (e *Engine) teardownLocked(ctx context.Context, userID int64, cause string) []Event {
	partner, ok := e.sessions.Unpair(userID)
	if !ok {
		return nil
	}
	logger.Info(ctx, component, "pairing.teardown",
		slog.Int64("user_id", userID),
		slog.Int64("partner_id", partner),
		slog.String("cause", cause),
	)
	return []Event{partnerLeft(partner, userID)}
}
