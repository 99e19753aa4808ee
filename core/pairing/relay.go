package pairing

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aura650/anon-go-bot/core/logger"
)

var errNoDeliverer = errors.New("pairing: no deliverer")

// Deliverer pushes a relay event to the partner over the transport.
type Deliverer interface {
	Deliver(ctx context.Context, ev Event) error
}

// DelivererFunc adapts a function to Deliverer.
type DelivererFunc func(ctx context.Context, ev Event) error

func (f DelivererFunc) Deliver(ctx context.Context, ev Event) error { return f(ctx, ev) }

// RelayOutcome is the result class of a Relay call.
type RelayOutcome string

const (
	RelayOK             RelayOutcome = "delivered"
	RelayNotInSession   RelayOutcome = "not_in_session"
	RelayPartnerMissing RelayOutcome = "partner_missing"
	RelayDeliveryFailed RelayOutcome = "delivery_failed"
)

// RelayResult describes what happened to one relayed message.
// Events holds whatever the sender still has to be told.
type RelayResult struct {
	Outcome RelayOutcome
	Partner int64
	Events  []Event
	Err     error
}

// Relay forwards content from sender to the sender's partner.
// The session table is read under the lock; delivery runs without it.
func (e *Engine) Relay(ctx context.Context, sender int64, c Content, d Deliverer) RelayResult {
	partner, outcome := e.resolvePartner(sender)
	switch outcome {
	case RelayNotInSession:
		return RelayResult{
			Outcome: outcome,
			Events:  []Event{relayFailed(sender, ReasonNotInSession)},
		}
	case RelayPartnerMissing:
		logger.Warn(ctx, component, "relay.partner_missing",
			slog.Int64("user_id", sender),
			slog.Int64("partner_id", partner),
		)
		return RelayResult{
			Outcome: outcome,
			Partner: partner,
			Events:  []Event{relayFailed(sender, ReasonPartnerMissing)},
		}
	}

	ev := Event{Kind: EventRelayDelivered, User: partner, Partner: sender, Content: c}
	if c.Kind == KindUnsupported || c.Kind == "" {
		ev = Event{Kind: EventUnsupportedContent, User: partner, Partner: sender}
	}

	var err error
	if d == nil {
		err = errNoDeliverer
	} else {
		err = d.Deliver(ctx, ev)
	}
	if err != nil {
		logger.Warn(ctx, component, "relay.fail",
			slog.Int64("user_id", sender),
			slog.Int64("partner_id", partner),
			slog.String("kind", string(c.Kind)),
			slog.String("err", err.Error()),
		)
		return RelayResult{
			Outcome: RelayDeliveryFailed,
			Partner: partner,
			Events:  []Event{relayFailed(sender, ReasonDeliveryFailed)},
			Err:     err,
		}
	}
	logger.Debug(ctx, component, "relay.ok",
		slog.Int64("user_id", sender),
		slog.String("kind", string(c.Kind)),
	)
	return RelayResult{Outcome: RelayOK, Partner: partner}
}

// resolvePartner checks both directions of the session entry. A partner whose
// own entry is absent or points elsewhere counts as missing.
func (e *Engine) resolvePartner(sender int64) (int64, RelayOutcome) {
	e.mu.Lock()
	defer e.mu.Unlock()

	partner, ok := e.sessions.Partner(sender)
	if !ok {
		return 0, RelayNotInSession
	}
	back, ok := e.sessions.Partner(partner)
	if !ok || back != sender {
		return partner, RelayPartnerMissing
	}
	return partner, RelayOK
}
