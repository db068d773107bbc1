package bridge

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/atomicstack/caption-pair-manager/internal/logging"
	"github.com/atomicstack/caption-pair-manager/internal/testutil"
)

type recorder struct {
	sent    []Outbound
	reveals int
	closed  bool
	fail    error
}

func (r *recorder) Send(msg Outbound) error {
	if r.fail != nil {
		return r.fail
	}
	r.sent = append(r.sent, msg)
	return nil
}

func (r *recorder) Reveal()      { r.reveals++ }
func (r *recorder) Close() error { r.closed = true; return nil }

func TestPushWithoutSurfaceIsDropped(t *testing.T) {
	b := New(Options{})
	b.Push(TokenCount{Count: 3})
	if b.Visible() {
		t.Fatalf("expected no surface")
	}
}

func TestPushRewritesImageOnEverySend(t *testing.T) {
	calls := 0
	b := New(Options{Rewriter: func(path string) string {
		calls++
		return "uri:" + path
	}})
	surface := &recorder{}
	b.Attach(surface)

	view := &PairView{ImagePath: "/data/a.png", BaseName: "a", Caption: "cat"}
	b.Push(UpdatePair{Pair: view, Index: 0, Total: 1})
	b.Push(UpdatePair{Pair: view, Index: 0, Total: 1})

	if calls != 2 {
		t.Fatalf("expected rewriter called twice, got %d", calls)
	}
	if view.ImagePath != "/data/a.png" {
		t.Fatalf("expected caller view untouched, got %q", view.ImagePath)
	}
	if len(surface.sent) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(surface.sent))
	}
	got := surface.sent[1].(UpdatePair)
	if got.Pair.ImagePath != "uri:/data/a.png" {
		t.Fatalf("expected rewritten path, got %q", got.Pair.ImagePath)
	}
}

func TestShowCreatesOnceThenReveals(t *testing.T) {
	created := 0
	shown := 0
	surface := &recorder{}
	b := New(Options{
		Factory: func() (Surface, error) {
			created++
			return surface, nil
		},
		OnShow: func() { shown++ },
	})
	first, err := b.Show()
	if err != nil || !first {
		t.Fatalf("expected creation, got created=%v err=%v", first, err)
	}
	second, err := b.Show()
	if err != nil || second {
		t.Fatalf("expected reveal, got created=%v err=%v", second, err)
	}
	if created != 1 || shown != 1 || surface.reveals != 1 {
		t.Fatalf("expected one creation and one reveal, got created=%d shown=%d reveals=%d", created, shown, surface.reveals)
	}
}

func TestShowWithoutFactory(t *testing.T) {
	if _, err := New(Options{}).Show(); !errors.Is(err, ErrNoFactory) {
		t.Fatalf("expected ErrNoFactory, got %v", err)
	}
}

func TestAttachReplacesAndClosesPrevious(t *testing.T) {
	b := New(Options{})
	first := &recorder{}
	second := &recorder{}
	b.Attach(first)
	b.Attach(second)
	if !first.closed {
		t.Fatalf("expected previous surface closed")
	}
	b.Detach(first)
	if !b.Visible() {
		t.Fatalf("detaching a stale surface must not clear the current one")
	}
	b.Push(Notice{Level: LevelInfo, Text: "hi"})
	if len(second.sent) != 1 || len(first.sent) != 0 {
		t.Fatalf("expected message on current surface only")
	}
}

func TestSendFailureDetaches(t *testing.T) {
	testutil.UseTempLog(t, logging.Configure)
	b := New(Options{})
	b.Attach(&recorder{fail: errors.New("gone")})
	b.Push(TokenCount{Count: 1})
	if b.Visible() {
		t.Fatalf("expected surface detached after failed send")
	}
}

func TestSingleSubscriber(t *testing.T) {
	b := New(Options{})
	var got []Inbound
	if err := b.Subscribe(func(in Inbound) { got = append(got, in) }); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := b.Subscribe(func(Inbound) {}); !errors.Is(err, ErrAlreadySubscribed) {
		t.Fatalf("expected ErrAlreadySubscribed, got %v", err)
	}
	b.Deliver(Inbound{Type: TypeRefresh})
	if len(got) != 1 || got[0].Type != TypeRefresh {
		t.Fatalf("expected refresh delivered, got %#v", got)
	}
}

func TestOutboundJSON(t *testing.T) {
	data, err := json.Marshal(UpdatePair{Pair: &PairView{BaseName: "a"}, Index: 0, Total: 1})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(data)
	for _, want := range []string{`"type":"updatePair"`, `"index":0`, `"total":1`, `"baseName":"a"`, `"isDirty":false`} {
		if !strings.Contains(s, want) {
			t.Fatalf("expected %s in %s", want, s)
		}
	}
	data, _ = json.Marshal(UpdatePair{})
	if !strings.Contains(string(data), `"pair":null`) {
		t.Fatalf("expected null pair, got %s", data)
	}
	data, _ = json.Marshal(PairList{})
	if string(data) != `{"type":"pairList","names":[]}` {
		t.Fatalf("unexpected pair list encoding %s", data)
	}
}

func TestDecodeInbound(t *testing.T) {
	in, err := DecodeInbound([]byte(`{"type":"navigate","direction":"forward","step":10}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if in.Type != TypeNavigate || in.Direction != Forward || in.Step != 10 {
		t.Fatalf("unexpected message %#v", in)
	}
	in, _ = DecodeInbound([]byte(`{"type":"navigate","direction":"backward","step":0}`))
	if in.Step != 0 {
		t.Fatalf("expected explicit zero step kept, got %d", in.Step)
	}
	in, _ = DecodeInbound([]byte(`{"type":"navigate","direction":"backward"}`))
	if in.Step != DefaultStep {
		t.Fatalf("expected default step, got %d", in.Step)
	}
	in, _ = DecodeInbound([]byte(`{"type":"countTokens","text":"a cat"}`))
	if in.Step != 0 || in.Text != "a cat" {
		t.Fatalf("unexpected countTokens message %#v", in)
	}
	if _, err := DecodeInbound([]byte(`{"text":"x"}`)); err == nil {
		t.Fatalf("expected error for missing type")
	}
	if _, err := DecodeInbound([]byte(`{`)); err == nil {
		t.Fatalf("expected error for malformed json")
	}
}
