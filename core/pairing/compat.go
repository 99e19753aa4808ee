package pairing

import "strings"

// Compatible reports whether a and b may be paired. Unknown users are matchable.
// Preferences are one-directional, so Compatible(a, b) and Compatible(b, a)
// are both checked by evaluating each side's preference against the other's gender.
func Compatible(a, b *UserProfile) bool {
	if a == nil || b == nil {
		return true
	}
	return prefAllows(a.Preference, b.Gender) && prefAllows(b.Preference, a.Gender)
}

func prefAllows(pref Preference, partner Gender) bool {
	p := strings.ToLower(strings.TrimSpace(string(pref)))
	if p == "" || p == string(PreferAny) {
		return true
	}
	// an unset gender never satisfies a concrete preference
	return p == strings.ToLower(strings.TrimSpace(string(partner)))
}
