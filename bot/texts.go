package bot

import (
	"fmt"

	"github.com/aura650/anon-go-bot/core/pairing"
)

// User facing texts. System messages are italic Markdown; relayed content
// is sent verbatim without a parse mode.
const (
	textWelcome = "_👋 Welcome to_ *Anon-Go*!\n" +
		"_You can chat anonymously with random people._\n\n" +
		"_Type /search to find a new partner_"
	textHowItWorks = "_How it works:_ Type /search to find a partner. " +
		"Choose gender once and mood each search. Use /next to change, /stop to end."
	textSupport = "_For support contact:_ https://t.me/AnonGoSupport"

	textPromptGender = "_Set your gender:_"
	textChangeGender = "_Select your gender:_"
	textPromptMood   = "_Tell me your present mood:_"
	textPromptPref   = "_Choose who you want to match with:_"

	textSearching        = "_Searching for a partner..._"
	textAlreadyInChat    = "_You are already in a chat._"
	textAlreadySearching = "_You are already in the queue. Searching..._"
	textPartnerLeft      = "_Your partner has stopped the chat._\n_Type /search to find a new partner_"
	textYouStopped       = "_You stopped the chat._\n_Type /search to find a new partner_"
	textNotInChat        = "_You are not in a chat. Type /search to start._"
	textSearchCancelled  = "_Search cancelled._\n_Type /search when you are ready_"
	textNotSearching     = "_You are not searching right now._"

	textSearchHint     = "_Type /search to find a partner_"
	textPartnerMissing = "_Error: partner missing._"
	textForwardFailed  = "_Failed to forward your message. Try /next or /stop._"
	textUnsupported    = "⚠️ Unsupported message type"

	textUnknownCommand = "_Unknown command. Type /help to see what I can do._"
	textTooFast        = "_Slow down a little, then try again._"
	textInternalError  = "_Something went wrong. Please try again._"

	textStatusIdle       = "_You are not in a chat. Type /search to find a partner._"
	textStatusOnboarding = "_Pick the options above to start searching, or /cancel._"
	textStatusSearching  = "_Searching for a partner... Type /cancel to stop._"
	textStatusChatting   = "_You are in a chat._\n/next — find a new partner\n/stop — stop this chat"

	moodUnknown = "Unknown"
)

func partnerFoundText(partnerMood pairing.Mood) string {
	mood := string(partnerMood)
	if mood == "" {
		mood = moodUnknown
	}
	return "_Partner found ✌️_\n\n" +
		"/next — find a new partner\n" +
		"/stop — stop this chat\n\n" +
		"_Partner mood:_ " + mood
}

func genderSavedText(g pairing.Gender) string {
	return fmt.Sprintf("👍 *Gender set:* _%s_", g)
}

func moodSavedText(m pairing.Mood) string {
	return fmt.Sprintf("👍 *Your present mood:* _%s_", m)
}

func preferenceSavedText(p pairing.Preference) string {
	return fmt.Sprintf("👍 *Preference set:* _%s_", p)
}

func statusText(s pairing.Status) string {
	switch s {
	case pairing.StatusOnboarding:
		return textStatusOnboarding
	case pairing.StatusSearching:
		return textStatusSearching
	case pairing.StatusChatting:
		return textStatusChatting
	default:
		return textStatusIdle
	}
}

type statsView struct {
	pairing.Stats
	Sent, Failed uint64
}

func statsText(v statsView) string {
	return fmt.Sprintf("*Anon-Go stats*\n"+
		"Waiting: %d\nPairs: %d\nOnboarding: %d\n"+
		"Sent: %d\nSend failures: %d",
		v.Waiting, v.Pairs, v.Onboarding, v.Sent, v.Failed)
}
