package pairing_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/aura650/anon-go-bot/core/pairing"
	"github.com/aura650/anon-go-bot/core/pairing/mocks"
)

var errStoreDown = errors.New("connection refused")

func TestEngineStoreFailures(t *testing.T) {
	ctx := context.Background()

	t.Run("search fails when upsert fails", func(t *testing.T) {
		req := require.New(t)
		ctrl := gomock.NewController(t)
		store := mocks.NewMockProfileStore(ctrl)
		store.EXPECT().UpsertUser(gomock.Any(), int64(1), "bob").Return(errStoreDown)

		eng := newTestEngine(store)
		events, err := eng.Search(ctx, 1, "bob")

		req.ErrorIs(err, errStoreDown)
		req.Empty(events)
		req.Equal(pairing.StatusIdle, eng.Status(1))
	})

	t.Run("search fails when profile read fails", func(t *testing.T) {
		req := require.New(t)
		ctrl := gomock.NewController(t)
		store := mocks.NewMockProfileStore(ctrl)
		store.EXPECT().UpsertUser(gomock.Any(), int64(1), "").Return(nil)
		store.EXPECT().GetProfile(gomock.Any(), int64(1)).Return(nil, errStoreDown)

		eng := newTestEngine(store)
		_, err := eng.Search(ctx, 1, "")

		req.ErrorIs(err, errStoreDown)
		req.Empty(eng.Waiting())
	})

	t.Run("matchmaking error leaves user queued", func(t *testing.T) {
		req := require.New(t)
		ctrl := gomock.NewController(t)
		store := mocks.NewMockProfileStore(ctrl)

		eng := newTestEngine(store)
		store.EXPECT().GetProfile(gomock.Any(), int64(1)).Return(nil, nil)
		_, err := eng.StartSearch(ctx, 1)
		req.NoError(err)

		store.EXPECT().GetProfile(gomock.Any(), int64(1)).Return(nil, errStoreDown)
		events, err := eng.StartSearch(ctx, 2)

		req.ErrorIs(err, errStoreDown)
		req.Equal([]pairing.EventKind{pairing.EventSearching}, kinds(events))
		req.Equal([]int64{1, 2}, eng.Waiting())
	})

	t.Run("gender write failure does not advance onboarding", func(t *testing.T) {
		req := require.New(t)
		ctrl := gomock.NewController(t)
		store := mocks.NewMockProfileStore(ctrl)
		store.EXPECT().UpsertUser(gomock.Any(), int64(1), gomock.Any()).Return(nil).Times(2)
		store.EXPECT().GetProfile(gomock.Any(), int64(1)).Return(&pairing.UserProfile{ID: 1}, nil)
		store.EXPECT().SetGender(gomock.Any(), int64(1), pairing.GenderMale).Return(errStoreDown)

		eng := newTestEngine(store)
		_, err := eng.Search(ctx, 1, "")
		req.NoError(err)

		events, err := eng.SelectGender(ctx, 1, pairing.GenderMale)
		req.ErrorIs(err, errStoreDown)
		req.Empty(events)
		req.Equal(pairing.StageAwaitGender, eng.Stage(1))
	})

	t.Run("mood write carries the engine clock", func(t *testing.T) {
		req := require.New(t)
		ctrl := gomock.NewController(t)
		store := mocks.NewMockProfileStore(ctrl)
		store.EXPECT().UpsertUser(gomock.Any(), int64(1), "").Return(nil)
		store.EXPECT().SetMood(gomock.Any(), int64(1), pairing.MoodCalm, testNow).Return(nil)

		eng := newTestEngine(store)
		events, err := eng.SelectMood(ctx, 1, pairing.MoodCalm)
		req.NoError(err)
		req.Equal([]pairing.EventKind{pairing.EventMoodSaved}, kinds(events))
	})

	t.Run("preference write failure is wrapped", func(t *testing.T) {
		req := require.New(t)
		ctrl := gomock.NewController(t)
		store := mocks.NewMockProfileStore(ctrl)
		store.EXPECT().UpsertUser(gomock.Any(), int64(1), "").Return(nil)
		store.EXPECT().SetGenderPreference(gomock.Any(), int64(1), pairing.PreferOther).Return(errStoreDown)

		eng := newTestEngine(store)
		_, err := eng.SelectPreference(ctx, 1, pairing.PreferOther)
		req.ErrorIs(err, errStoreDown)
		req.Contains(err.Error(), "set preference")
	})

	t.Run("store calls carry a deadline", func(t *testing.T) {
		req := require.New(t)
		ctrl := gomock.NewController(t)
		store := mocks.NewMockProfileStore(ctrl)
		store.EXPECT().UpsertUser(gomock.Any(), int64(1), "").DoAndReturn(
			func(ctx context.Context, _ int64, _ string) error {
				_, ok := ctx.Deadline()
				req.True(ok)
				return nil
			})

		eng := newTestEngine(store)
		req.NoError(eng.Register(ctx, 1, ""))
	})
}
