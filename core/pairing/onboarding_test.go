package pairing_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aura650/anon-go-bot/core/pairing"
)

func TestOnboardingNewUserWalksThroughGate(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	eng := newTestEngine(store)

	events, err := eng.Search(ctx, 1, "alice")
	require.NoError(t, err)
	assert.Equal(t, []pairing.EventKind{pairing.EventPromptGender}, kinds(events))
	assert.Equal(t, pairing.StageAwaitGender, eng.Stage(1))
	assert.Equal(t, pairing.StatusOnboarding, eng.Status(1))
	assert.Empty(t, eng.Waiting())

	p, err := store.GetProfile(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "alice", p.DisplayName)
	assert.Equal(t, pairing.PreferAny, p.Preference)

	events, err = eng.SelectGender(ctx, 1, pairing.GenderFemale)
	require.NoError(t, err)
	assert.Equal(t, []pairing.EventKind{pairing.EventGenderSaved, pairing.EventPromptMood}, kinds(events))
	assert.Equal(t, pairing.StageAwaitMood, eng.Stage(1))

	events, err = eng.SelectMood(ctx, 1, pairing.MoodFlirty)
	require.NoError(t, err)
	assert.Equal(t, []pairing.EventKind{pairing.EventMoodSaved, pairing.EventSearching}, kinds(events))
	assert.Equal(t, pairing.StageNone, eng.Stage(1))
	assert.Equal(t, []int64{1}, eng.Waiting())

	p, _ = store.GetProfile(ctx, 1)
	assert.Equal(t, testNow.Unix(), p.LastMoodAt)
	assert.Equal(t, pairing.MoodFlirty, p.Mood)
}

func TestOnboardingStaleMoodPrompts(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	store.profiles[1] = pairing.UserProfile{
		ID:         1,
		Gender:     pairing.GenderMale,
		Preference: pairing.PreferAny,
		Mood:       pairing.MoodSad,
		LastMoodAt: testNow.Unix() - 7300,
	}
	eng := newTestEngine(store)

	events, err := eng.Search(ctx, 1, "")
	require.NoError(t, err)
	assert.Equal(t, []pairing.EventKind{pairing.EventPromptMood}, kinds(events))
	assert.Equal(t, pairing.StageAwaitMood, eng.Stage(1))
	assert.Empty(t, eng.Waiting())
}

func TestSearchWhilePairedSkipsGate(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	store.put(1, pairing.GenderMale, pairing.PreferAny, pairing.MoodCalm)
	store.put(2, pairing.GenderFemale, pairing.PreferAny, pairing.MoodCalm)
	eng := newTestEngine(store)

	_, err := eng.Search(ctx, 1, "")
	require.NoError(t, err)
	_, err = eng.Search(ctx, 2, "")
	require.NoError(t, err)
	require.Equal(t, pairing.StatusChatting, eng.Status(1))

	store.update(1, func(p *pairing.UserProfile) { p.LastMoodAt = testNow.Unix() - 7300 })

	events, err := eng.Search(ctx, 1, "")
	require.NoError(t, err)
	assert.Equal(t, []pairing.EventKind{pairing.EventAlreadyInChat}, kinds(events))
	assert.Equal(t, pairing.StageNone, eng.Stage(1))
}

func TestOnboardingMoodTTLBoundary(t *testing.T) {
	ctx := context.Background()
	cases := []struct {
		age  int64
		want pairing.EventKind
	}{
		{age: 7199, want: pairing.EventSearching},
		{age: 7200, want: pairing.EventPromptMood},
	}
	for _, tc := range cases {
		store := newMemStore()
		store.profiles[1] = pairing.UserProfile{ID: 1, Gender: pairing.GenderOther, LastMoodAt: testNow.Unix() - tc.age}
		eng := newTestEngine(store)

		events, err := eng.Search(ctx, 1, "")
		require.NoError(t, err)
		assert.Equal(t, []pairing.EventKind{tc.want}, kinds(events), "age %d", tc.age)
	}
}

func TestOnboardingGenderWithFreshMoodQueuesDirectly(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	eng := newTestEngine(store)

	_, err := eng.Search(ctx, 1, "")
	require.NoError(t, err)
	require.NoError(t, store.SetMood(ctx, 1, pairing.MoodChill, testNow.Add(-time.Minute)))

	events, err := eng.SelectGender(ctx, 1, pairing.GenderMale)
	require.NoError(t, err)
	assert.Equal(t, []pairing.EventKind{pairing.EventGenderSaved, pairing.EventSearching}, kinds(events))
	assert.Equal(t, []int64{1}, eng.Waiting())
}

func TestOutOfBandSelectionsDoNotStartFlow(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	eng := newTestEngine(store)

	events, err := eng.SelectGender(ctx, 1, "Female")
	require.NoError(t, err)
	assert.Equal(t, []pairing.Event{{Kind: pairing.EventGenderSaved, User: 1, Gender: pairing.GenderFemale}}, events)

	events, err = eng.SelectMood(ctx, 1, pairing.MoodAngry)
	require.NoError(t, err)
	assert.Equal(t, []pairing.EventKind{pairing.EventMoodSaved}, kinds(events))

	events, err = eng.SelectPreference(ctx, 1, pairing.PreferMale)
	require.NoError(t, err)
	assert.Equal(t, []pairing.Event{{Kind: pairing.EventPreferenceSaved, User: 1, Preference: pairing.PreferMale}}, events)

	assert.Empty(t, eng.Waiting())
	assert.Equal(t, pairing.StatusIdle, eng.Status(1))

	p, _ := store.GetProfile(ctx, 1)
	assert.Equal(t, pairing.GenderFemale, p.Gender)
	assert.Equal(t, pairing.PreferMale, p.Preference)
}

func TestSelectionsRejectUnknownValues(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	eng := newTestEngine(store)

	_, err := eng.SelectGender(ctx, 1, "robot")
	assert.ErrorIs(t, err, pairing.ErrInvalidGender)
	_, err = eng.SelectMood(ctx, 1, "bored")
	assert.ErrorIs(t, err, pairing.ErrInvalidMood)
	_, err = eng.SelectPreference(ctx, 1, "")
	assert.ErrorIs(t, err, pairing.ErrInvalidPreference)

	p, _ := store.GetProfile(ctx, 1)
	assert.Nil(t, p, "nothing is written for invalid input")
}

func TestStopCancelsOnboarding(t *testing.T) {
	ctx := context.Background()
	eng := newTestEngine(newMemStore())

	_, err := eng.Search(ctx, 1, "")
	require.NoError(t, err)
	require.Equal(t, pairing.StageAwaitGender, eng.Stage(1))

	assert.Equal(t, []pairing.EventKind{pairing.EventNotInChat}, kinds(eng.Stop(ctx, 1)))
	assert.Equal(t, pairing.StageNone, eng.Stage(1))

	events, err := eng.SelectGender(ctx, 1, pairing.GenderMale)
	require.NoError(t, err)
	assert.Equal(t, []pairing.EventKind{pairing.EventGenderSaved}, kinds(events), "cancelled flow is not resumed")
}

func TestRegisterIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	eng := newTestEngine(store)

	require.NoError(t, eng.Register(ctx, 1, "first"))
	_, err := eng.SelectGender(ctx, 1, pairing.GenderOther)
	require.NoError(t, err)
	require.NoError(t, eng.Register(ctx, 1, "second"))

	p, _ := store.GetProfile(ctx, 1)
	assert.Equal(t, "first", p.DisplayName)
	assert.Equal(t, pairing.GenderOther, p.Gender)
}
