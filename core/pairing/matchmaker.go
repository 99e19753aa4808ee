package pairing

// ProfileLookup resolves a profile for matching. A nil profile with nil error
// means the user is unknown, which Compatible treats as matchable.
type ProfileLookup func(userID int64) (*UserProfile, error)

// matchQueue pairs compatible users in q and records them in sessions.
//
// The earliest-enqueued user is always tried first as A, and among the
// candidates behind A the earliest compatible one wins. A user without a
// partner keeps its position and the scan moves on. Pairing order is part
// of observable behaviour; do not reorder the scan.
//
// A lookup error stops the scan. Pairs made before the error stay committed
// and their events are returned together with the error.
func matchQueue(q *waitingQueue, sessions *sessionTable, lookup ProfileLookup) ([]Event, error) {
	var events []Event
	i := 0
	for i < q.Len() {
		a := q.At(i)
		pa, err := lookup(a)
		if err != nil {
			return events, err
		}

		matched := false
		for j := i + 1; j < q.Len(); j++ {
			b := q.At(j)
			pb, err := lookup(b)
			if err != nil {
				return events, err
			}
			if !Compatible(pa, pb) {
				continue
			}
			q.Leave(b)
			q.Leave(a)
			sessions.Pair(a, b)
			events = append(events, Event{
				Kind:        EventPairingFound,
				User:        a,
				Partner:     b,
				UserMood:    moodOf(pa),
				PartnerMood: moodOf(pb),
			})
			matched = true
			break
		}
		if !matched {
			i++
		}
	}
	return events, nil
}

func moodOf(p *UserProfile) Mood {
	if p == nil {
		return MoodUnset
	}
	return p.Mood
}

// memoLookup caches successful lookups for the duration of one scan.
func memoLookup(next ProfileLookup) ProfileLookup {
	cache := make(map[int64]*UserProfile)
	return func(userID int64) (*UserProfile, error) {
		if p, ok := cache[userID]; ok {
			return p, nil
		}
		p, err := next(userID)
		if err != nil {
			return nil, err
		}
		cache[userID] = p
		return p, nil
	}
}
