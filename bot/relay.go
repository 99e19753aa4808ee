package bot

import (
	"context"

	tele "gopkg.in/telebot.v4"

	"github.com/aura650/anon-go-bot/core/pairing"
)

// contentOf extracts the relayable part of a message. Photos use the
// largest size telebot exposes.
func contentOf(m *tele.Message) pairing.Content {
	switch {
	case m == nil:
		return pairing.Content{Kind: pairing.KindUnsupported}
	case m.Text != "":
		return pairing.Content{Kind: pairing.KindText, Text: m.Text}
	case m.Photo != nil:
		return media(pairing.KindPhoto, m.Photo.FileID, m.Caption)
	case m.Video != nil:
		return media(pairing.KindVideo, m.Video.FileID, m.Caption)
	case m.Sticker != nil:
		return media(pairing.KindSticker, m.Sticker.FileID, "")
	case m.Animation != nil:
		return media(pairing.KindAnimation, m.Animation.FileID, m.Caption)
	case m.Document != nil:
		return media(pairing.KindDocument, m.Document.FileID, m.Caption)
	case m.Voice != nil:
		return media(pairing.KindVoice, m.Voice.FileID, m.Caption)
	case m.Audio != nil:
		return media(pairing.KindAudio, m.Audio.FileID, m.Caption)
	}
	return pairing.Content{Kind: pairing.KindUnsupported}
}

func media(kind pairing.ContentKind, fileID, caption string) pairing.Content {
	return pairing.Content{Kind: kind, FileID: fileID, Caption: caption}
}

// outbound builds the telebot payload re-sending content by file id, so the
// partner never sees the original sender.
func outbound(ev pairing.Event) (what interface{}, endpoint string) {
	if ev.Kind == pairing.EventUnsupportedContent {
		return textUnsupported, "sendMessage"
	}
	c := ev.Content
	file := tele.File{FileID: c.FileID}
	switch c.Kind {
	case pairing.KindText:
		return c.Text, "sendMessage"
	case pairing.KindPhoto:
		return &tele.Photo{File: file, Caption: c.Caption}, "sendPhoto"
	case pairing.KindVideo:
		return &tele.Video{File: file, Caption: c.Caption}, "sendVideo"
	case pairing.KindSticker:
		return &tele.Sticker{File: file}, "sendSticker"
	case pairing.KindAnimation:
		return &tele.Animation{File: file, Caption: c.Caption}, "sendAnimation"
	case pairing.KindDocument:
		return &tele.Document{File: file, Caption: c.Caption}, "sendDocument"
	case pairing.KindVoice:
		return &tele.Voice{File: file, Caption: c.Caption}, "sendVoice"
	case pairing.KindAudio:
		return &tele.Audio{File: file, Caption: c.Caption}, "sendAudio"
	}
	return textUnsupported, "sendMessage"
}

// deliver is the engine's Deliverer: it sends to ev.User synchronously so
// messages reach the partner in the order they were written.
func (a *App) deliver(ctx context.Context, ev pairing.Event) error {
	what, endpoint := outbound(ev)
	return a.send(ctx, ev.User, "relay."+endpoint, endpoint, what)
}
