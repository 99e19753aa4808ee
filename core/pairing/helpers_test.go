package pairing_test

import (
	"context"
	"sync"
	"time"

	"github.com/aura650/anon-go-bot/core/pairing"
)

var testNow = time.Unix(1_700_000_000, 0)

type memStore struct {
	mu       sync.Mutex
	profiles map[int64]pairing.UserProfile
}

func newMemStore() *memStore {
	return &memStore{profiles: make(map[int64]pairing.UserProfile)}
}

func (s *memStore) GetProfile(_ context.Context, userID int64) (*pairing.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[userID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (s *memStore) UpsertUser(_ context.Context, userID int64, displayName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.profiles[userID]; ok {
		return nil
	}
	s.profiles[userID] = pairing.UserProfile{ID: userID, DisplayName: displayName, Preference: pairing.PreferAny}
	return nil
}

func (s *memStore) update(userID int64, fn func(*pairing.UserProfile)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[userID]
	if !ok {
		return
	}
	fn(&p)
	s.profiles[userID] = p
}

func (s *memStore) SetGender(_ context.Context, userID int64, g pairing.Gender) error {
	s.update(userID, func(p *pairing.UserProfile) { p.Gender = g })
	return nil
}

func (s *memStore) SetMood(_ context.Context, userID int64, m pairing.Mood, at time.Time) error {
	s.update(userID, func(p *pairing.UserProfile) {
		p.Mood = m
		p.LastMoodAt = at.Unix()
	})
	return nil
}

func (s *memStore) SetGenderPreference(_ context.Context, userID int64, pref pairing.Preference) error {
	s.update(userID, func(p *pairing.UserProfile) { p.Preference = pref })
	return nil
}

// put stores a fully onboarded profile with a fresh mood.
func (s *memStore) put(id int64, g pairing.Gender, pref pairing.Preference, m pairing.Mood) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[id] = pairing.UserProfile{
		ID:         id,
		Gender:     g,
		Preference: pref,
		Mood:       m,
		LastMoodAt: testNow.Add(-time.Minute).Unix(),
	}
}

func newTestEngine(store pairing.ProfileStore) *pairing.Engine {
	return pairing.NewEngine(store, pairing.Options{
		Now: func() time.Time { return testNow },
	})
}

func kinds(events []pairing.Event) []pairing.EventKind {
	out := make([]pairing.EventKind, 0, len(events))
	for _, ev := range events {
		out = append(out, ev.Kind)
	}
	return out
}
