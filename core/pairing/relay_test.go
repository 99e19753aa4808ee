package pairing_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aura650/anon-go-bot/core/pairing"
)

type recorder struct {
	events []pairing.Event
	err    error
}

func (r *recorder) Deliver(_ context.Context, ev pairing.Event) error {
	if r.err != nil {
		return r.err
	}
	r.events = append(r.events, ev)
	return nil
}

func pairedEngine(t *testing.T) *pairing.Engine {
	t.Helper()
	ctx := context.Background()
	store := newMemStore()
	store.put(1, pairing.GenderMale, pairing.PreferAny, pairing.MoodHappy)
	store.put(2, pairing.GenderFemale, pairing.PreferAny, pairing.MoodHappy)
	eng := newTestEngine(store)
	_, err := eng.Search(ctx, 1, "")
	require.NoError(t, err)
	_, err = eng.Search(ctx, 2, "")
	require.NoError(t, err)
	require.Equal(t, pairing.StatusChatting, eng.Status(1))
	return eng
}

func TestRelayDelivers(t *testing.T) {
	eng := pairedEngine(t)
	rec := &recorder{}
	content := pairing.Content{Kind: pairing.KindPhoto, FileID: "file-1", Caption: "hi"}

	res := eng.Relay(context.Background(), 1, content, rec)
	assert.Equal(t, pairing.RelayOK, res.Outcome)
	assert.Equal(t, int64(2), res.Partner)
	assert.Empty(t, res.Events)
	require.Len(t, rec.events, 1)
	assert.Equal(t, pairing.Event{Kind: pairing.EventRelayDelivered, User: 2, Partner: 1, Content: content}, rec.events[0])
}

func TestRelayUnsupportedSendsPlaceholder(t *testing.T) {
	eng := pairedEngine(t)
	rec := &recorder{}

	res := eng.Relay(context.Background(), 2, pairing.Content{Kind: pairing.KindUnsupported}, rec)
	assert.Equal(t, pairing.RelayOK, res.Outcome)
	require.Len(t, rec.events, 1)
	assert.Equal(t, pairing.EventUnsupportedContent, rec.events[0].Kind)
	assert.Equal(t, int64(1), rec.events[0].User)
}

func TestRelayNotInSession(t *testing.T) {
	eng := newTestEngine(newMemStore())
	rec := &recorder{}

	res := eng.Relay(context.Background(), 3, pairing.Content{Kind: pairing.KindText, Text: "hello"}, rec)
	assert.Equal(t, pairing.RelayNotInSession, res.Outcome)
	assert.Equal(t, []pairing.Event{{Kind: pairing.EventRelayFailed, User: 3, Reason: pairing.ReasonNotInSession}}, res.Events)
	assert.Empty(t, rec.events)
}

func TestRelayPartnerMissing(t *testing.T) {
	eng := pairedEngine(t)
	eng.DropSessionEntry(2)
	rec := &recorder{}

	res := eng.Relay(context.Background(), 1, pairing.Content{Kind: pairing.KindText, Text: "hello"}, rec)
	assert.Equal(t, pairing.RelayPartnerMissing, res.Outcome)
	assert.Equal(t, []pairing.Event{{Kind: pairing.EventRelayFailed, User: 1, Reason: pairing.ReasonPartnerMissing}}, res.Events)
	assert.Empty(t, rec.events)

	p, ok := eng.PartnerOf(1)
	require.True(t, ok, "dangling entry is not repaired")
	assert.Equal(t, int64(2), p)
}

func TestRelayDeliveryFailureKeepsSession(t *testing.T) {
	eng := pairedEngine(t)
	boom := errors.New("forbidden: bot was blocked by the user")

	res := eng.Relay(context.Background(), 1, pairing.Content{Kind: pairing.KindVoice, FileID: "v"}, &recorder{err: boom})
	assert.Equal(t, pairing.RelayDeliveryFailed, res.Outcome)
	assert.ErrorIs(t, res.Err, boom)
	assert.Equal(t, []pairing.Event{{Kind: pairing.EventRelayFailed, User: 1, Reason: pairing.ReasonDeliveryFailed}}, res.Events)
	assert.Equal(t, pairing.StatusChatting, eng.Status(1))
	assert.Equal(t, pairing.StatusChatting, eng.Status(2))
}

func TestRelayNilDelivererFails(t *testing.T) {
	eng := pairedEngine(t)
	res := eng.Relay(context.Background(), 1, pairing.Content{Kind: pairing.KindText, Text: "x"}, nil)
	assert.Equal(t, pairing.RelayDeliveryFailed, res.Outcome)
	assert.Error(t, res.Err)
}

func TestDelivererFunc(t *testing.T) {
	eng := pairedEngine(t)
	var got pairing.Event
	d := pairing.DelivererFunc(func(_ context.Context, ev pairing.Event) error {
		got = ev
		return nil
	})

	res := eng.Relay(context.Background(), 2, pairing.Content{Kind: pairing.KindSticker, FileID: "s"}, d)
	assert.Equal(t, pairing.RelayOK, res.Outcome)
	assert.Equal(t, int64(1), got.User)
	assert.Equal(t, pairing.KindSticker, got.Content.Kind)
}
