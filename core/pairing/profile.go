//go:generate go run go.uber.org/mock/mockgen -source=profile.go -destination=mocks/mock_store.go -package=mocks
package pairing

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	// ErrInvalidGender is returned when a gender value is outside the supported set.
	ErrInvalidGender = errors.New("pairing: invalid gender")
	// ErrInvalidMood is returned when a mood value is outside the supported set.
	ErrInvalidMood = errors.New("pairing: invalid mood")
	// ErrInvalidPreference is returned when a partner preference is outside the supported set.
	ErrInvalidPreference = errors.New("pairing: invalid gender preference")
)

// Gender of a user. The zero value means the user has not chosen one yet.
type Gender string

const (
	GenderUnset  Gender = ""
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// Genders lists the selectable genders in menu order.
var Genders = []Gender{GenderMale, GenderFemale, GenderOther}

// ParseGender normalizes raw input into a selectable Gender.
func ParseGender(raw string) (Gender, error) {
	g := Gender(strings.ToLower(strings.TrimSpace(raw)))
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return g, nil
	}
	return GenderUnset, ErrInvalidGender
}

// Preference restricts which partner genders a user accepts.
type Preference string

const (
	PreferAny    Preference = "any"
	PreferMale   Preference = "male"
	PreferFemale Preference = "female"
	PreferOther  Preference = "other"
)

// Preferences lists the selectable preferences in menu order.
var Preferences = []Preference{PreferAny, PreferMale, PreferFemale, PreferOther}

// ParsePreference normalizes raw input into a Preference.
func ParsePreference(raw string) (Preference, error) {
	p := Preference(strings.ToLower(strings.TrimSpace(raw)))
	switch p {
	case PreferAny, PreferMale, PreferFemale, PreferOther:
		return p, nil
	}
	return PreferAny, ErrInvalidPreference
}

// Mood a user declares before searching. Empty means unknown.
type Mood string

const (
	MoodUnset     Mood = ""
	MoodHappy     Mood = "happy"
	MoodSad       Mood = "sad"
	MoodChill     Mood = "chill"
	MoodFlirty    Mood = "flirty"
	MoodAngry     Mood = "angry"
	MoodEmotional Mood = "emotional"
	MoodCalm      Mood = "calm"
	MoodTired     Mood = "tired"
)

// Moods lists the selectable moods in menu order.
var Moods = []Mood{MoodHappy, MoodSad, MoodChill, MoodFlirty, MoodAngry, MoodEmotional, MoodCalm, MoodTired}

// ParseMood normalizes raw input into a selectable Mood.
func ParseMood(raw string) (Mood, error) {
	m := Mood(strings.ToLower(strings.TrimSpace(raw)))
	for _, known := range Moods {
		if m == known {
			return m, nil
		}
	}
	return MoodUnset, ErrInvalidMood
}

// UserProfile holds the persisted attributes the engine reads.
type UserProfile struct {
	ID          int64
	DisplayName string
	Gender      Gender
	Mood        Mood
	Preference  Preference
	// LastMoodAt is the epoch second the mood was last set; 0 when never.
	LastMoodAt int64
}

// MoodFresh reports whether the stored mood is still valid at now for the given TTL.
func (p *UserProfile) MoodFresh(now time.Time, ttl time.Duration) bool {
	if p == nil {
		return false
	}
	return now.Unix()-p.LastMoodAt < int64(ttl/time.Second)
}

// ProfileStore is the narrow persistence surface the engine depends on.
// GetProfile returns (nil, nil) when the user is unknown.
type ProfileStore interface {
	GetProfile(ctx context.Context, userID int64) (*UserProfile, error)
	UpsertUser(ctx context.Context, userID int64, displayName string) error
	SetGender(ctx context.Context, userID int64, gender Gender) error
	SetMood(ctx context.Context, userID int64, mood Mood, at time.Time) error
	SetGenderPreference(ctx context.Context, userID int64, pref Preference) error
}
