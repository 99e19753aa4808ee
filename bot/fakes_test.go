package bot

import (
	"strconv"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"

	"github.com/aura650/anon-go-bot/core/profilestore"
)

type outgoing struct {
	to     int64
	what   any
	markup *tele.ReplyMarkup
}

func (o outgoing) text() string {
	s, _ := o.what.(string)
	return s
}

// fakeMessenger records every send; fail makes sends to a user error.
type fakeMessenger struct {
	mu   sync.Mutex
	out  []outgoing
	fail map[int64]error
}

func (f *fakeMessenger) Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error) {
	id, _ := strconv.ParseInt(to.Recipient(), 10, 64)
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail[id]; err != nil {
		return nil, err
	}
	o := outgoing{to: id, what: what}
	for _, opt := range opts {
		if so, ok := opt.(*tele.SendOptions); ok {
			o.markup = so.ReplyMarkup
		}
	}
	f.out = append(f.out, o)
	return &tele.Message{}, nil
}

func (f *fakeMessenger) to(id int64) []outgoing {
	f.mu.Lock()
	defer f.mu.Unlock()
	var res []outgoing
	for _, o := range f.out {
		if o.to == id {
			res = append(res, o)
		}
	}
	return res
}

func (f *fakeMessenger) texts(id int64) []string {
	var res []string
	for _, o := range f.to(id) {
		res = append(res, o.text())
	}
	return res
}

func (f *fakeMessenger) last(t *testing.T, id int64) outgoing {
	t.Helper()
	msgs := f.to(id)
	require.NotEmpty(t, msgs, "nothing sent to %d", id)
	return msgs[len(msgs)-1]
}

func (f *fakeMessenger) reset() {
	f.mu.Lock()
	f.out = nil
	f.mu.Unlock()
}

// fakeContext is a private-chat update; replies go through the messenger.
type fakeContext struct {
	tele.Context
	msgr  *fakeMessenger
	upd   tele.Update
	user  *tele.User
	chat  *tele.Chat
	store map[string]any

	edits     []string
	responses []string
}

func newFakeContext(m *fakeMessenger, userID int64) *fakeContext {
	return &fakeContext{
		msgr:  m,
		user:  &tele.User{ID: userID, Username: "user" + strconv.FormatInt(userID, 10)},
		chat:  &tele.Chat{ID: userID, Type: tele.ChatPrivate},
		store: map[string]any{},
	}
}

func (f *fakeContext) withMessage(msg *tele.Message) *fakeContext {
	msg.Sender, msg.Chat = f.user, f.chat
	f.upd = tele.Update{ID: 1, Message: msg}
	return f
}

func (f *fakeContext) withCallback(data string) *fakeContext {
	f.upd = tele.Update{ID: 2, Callback: &tele.Callback{
		Sender:  f.user,
		Data:    data,
		Message: &tele.Message{Chat: f.chat},
	}}
	return f
}

func (f *fakeContext) Update() tele.Update            { return f.upd }
func (f *fakeContext) Sender() *tele.User             { return f.user }
func (f *fakeContext) Chat() *tele.Chat               { return f.chat }
func (f *fakeContext) Message() *tele.Message         { return f.upd.Message }
func (f *fakeContext) Callback() *tele.Callback       { return f.upd.Callback }
func (f *fakeContext) Get(key string) interface{}     { return f.store[key] }
func (f *fakeContext) Set(key string, v interface{}) { f.store[key] = v }

func (f *fakeContext) Text() string {
	if f.upd.Message == nil {
		return ""
	}
	return f.upd.Message.Text
}

func (f *fakeContext) Send(what interface{}, opts ...interface{}) error {
	_, err := f.msgr.Send(tele.ChatID(f.user.ID), what, opts...)
	return err
}

func (f *fakeContext) Edit(what interface{}, opts ...interface{}) error {
	s, _ := what.(string)
	f.edits = append(f.edits, s)
	return nil
}

func (f *fakeContext) Respond(resp ...*tele.CallbackResponse) error {
	for _, r := range resp {
		f.responses = append(f.responses, r.Text)
	}
	return nil
}

func newTestApp(t *testing.T) (*App, *fakeMessenger) {
	t.Helper()
	mr := miniredis.RunT(t)
	store := profilestore.NewRedis(profilestore.RedisConfig{Addr: mr.Addr()})
	t.Cleanup(func() { _ = store.Close() })

	cfg := &Config{}
	cfg.Matching.MoodTTLSeconds = 7200
	cfg.Matching.StoreTimeoutMS = 2000
	app := New(cfg, store)
	m := &fakeMessenger{fail: map[int64]error{}}
	app.SetMessenger(m)
	return app, m
}
