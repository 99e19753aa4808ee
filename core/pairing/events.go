package pairing

// EventKind identifies what the transport must tell a user.
type EventKind string

const (
	EventPromptGender       EventKind = "prompt_gender"
	EventPromptMood         EventKind = "prompt_mood"
	EventSearching          EventKind = "searching"
	EventAlreadyInChat      EventKind = "already_in_chat"
	EventAlreadySearching   EventKind = "already_searching"
	EventPairingFound       EventKind = "pairing_found"
	EventPartnerLeft        EventKind = "partner_left"
	EventYouStopped         EventKind = "you_stopped"
	EventNotInChat          EventKind = "not_in_chat"
	EventRelayDelivered     EventKind = "relay_delivered"
	EventRelayFailed        EventKind = "relay_failed"
	EventUnsupportedContent EventKind = "unsupported_content"
	EventSearchCancelled    EventKind = "search_cancelled"
	EventNotSearching       EventKind = "not_searching"
	EventGenderSaved        EventKind = "gender_saved"
	EventMoodSaved          EventKind = "mood_saved"
	EventPreferenceSaved    EventKind = "preference_saved"
)

// FailReason explains a RelayFailed event.
type FailReason string

const (
	ReasonNotInSession   FailReason = "not_in_session"
	ReasonPartnerMissing FailReason = "partner_missing"
	ReasonDeliveryFailed FailReason = "delivery_failed"
)

// ContentKind is the type of a relayed message.
type ContentKind string

const (
	KindText        ContentKind = "text"
	KindPhoto       ContentKind = "photo"
	KindVideo       ContentKind = "video"
	KindSticker     ContentKind = "sticker"
	KindAnimation   ContentKind = "animation"
	KindDocument    ContentKind = "document"
	KindVoice       ContentKind = "voice"
	KindAudio       ContentKind = "audio"
	KindUnsupported ContentKind = "unsupported"
)

// Content is one relayed unit: text, or media referenced by a transport file id.
type Content struct {
	Kind    ContentKind
	Text    string
	FileID  string
	Caption string
}

// Event is a side effect for the transport layer to deliver to User.
//
// PairingFound is addressed to both User and Partner; each side receives
// the other's mood. The remaining fields are set only where meaningful.
type Event struct {
	Kind    EventKind
	User    int64
	Partner int64

	UserMood    Mood
	PartnerMood Mood

	Content Content
	Reason  FailReason

	Gender     Gender
	Mood       Mood
	Preference Preference
}

// Recipients lists every user the event must reach.
func (e Event) Recipients() []int64 {
	if e.Kind == EventPairingFound {
		return []int64{e.User, e.Partner}
	}
	return []int64{e.User}
}

func promptGender(user int64) Event { return Event{Kind: EventPromptGender, User: user} }
func promptMood(user int64) Event   { return Event{Kind: EventPromptMood, User: user} }
func searching(user int64) Event    { return Event{Kind: EventSearching, User: user} }

func partnerLeft(partner, leaver int64) Event {
	return Event{Kind: EventPartnerLeft, User: partner, Partner: leaver}
}

func relayFailed(sender int64, reason FailReason) Event {
	return Event{Kind: EventRelayFailed, User: sender, Reason: reason}
}
