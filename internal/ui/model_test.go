package ui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/caption-pair-manager/internal/bridge"
)

type recordingSender struct {
	sent []bridge.Inbound
}

func (r *recordingSender) Deliver(in bridge.Inbound) {
	r.sent = append(r.sent, in)
}

func (r *recordingSender) ofType(kind string) []bridge.Inbound {
	var out []bridge.Inbound
	for _, in := range r.sent {
		if in.Type == kind {
			out = append(out, in)
		}
	}
	return out
}

func (r *recordingSender) last() bridge.Inbound {
	if len(r.sent) == 0 {
		return bridge.Inbound{}
	}
	return r.sent[len(r.sent)-1]
}

func (r *recordingSender) reset() { r.sent = nil }

func view(base, caption string) *bridge.PairView {
	return &bridge.PairView{
		ImagePath:   "file:///data/" + base + ".png",
		CaptionPath: "/data/" + base + ".txt",
		BaseName:    base,
		Caption:     caption,
		ImageSize:   2048,
	}
}

func newTestHarness(t *testing.T) (*Harness, *recordingSender) {
	t.Helper()
	sender := &recordingSender{}
	m := NewModel(sender, Options{Root: "/data", Width: 100, Height: 30})
	h := NewHarness(m)
	h.Send(bridge.PairList{Names: []string{"bird", "cat", "dog"}})
	h.Send(bridge.UpdatePair{Pair: view("bird", "a small bird"), Index: 0, Total: 3})
	return h, sender
}

func TestViewBeforeFirstUpdate(t *testing.T) {
	h := NewHarness(NewModel(&recordingSender{}, Options{Root: "/data"}))
	if !strings.Contains(h.View(), "Scanning folder") {
		t.Fatalf("expected scanning placeholder, got %q", h.View())
	}
	h.Send(bridge.UpdatePair{Index: 0, Total: 0})
	if !strings.Contains(h.View(), "No image/caption pairs found in /data") {
		t.Fatalf("expected empty message, got %q", h.View())
	}
}

func TestUpdatePairRendersAndRequestsTokens(t *testing.T) {
	h, sender := newTestHarness(t)
	out := h.View()
	for _, want := range []string{"bird", "1/3", "a small bird", "2.0 kB", "tokens: …"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in view:\n%s", want, out)
		}
	}
	counts := sender.ofType(bridge.TypeCountTokens)
	if len(counts) != 1 || counts[0].Text != "a small bird" {
		t.Fatalf("expected token request for caption, got %#v", sender.sent)
	}
	h.Send(bridge.TokenCount{Count: 4})
	if !strings.Contains(h.View(), "tokens: 4") {
		t.Fatalf("expected token count in view")
	}
}

func TestBrowseKeysSendNavigate(t *testing.T) {
	cases := []struct {
		key  string
		dir  string
		step int
	}{
		{"l", bridge.Forward, 1},
		{"right", bridge.Forward, 1},
		{"h", bridge.Backward, 1},
		{"]", bridge.Forward, 10},
		{"[", bridge.Backward, 10},
		{"}", bridge.Forward, 100},
		{"{", bridge.Backward, 100},
		{"G", bridge.Forward, 2},
	}
	for _, tc := range cases {
		h, sender := newTestHarness(t)
		sender.reset()
		h.Keys(tc.key)
		got := sender.last()
		if got.Type != bridge.TypeNavigate || got.Direction != tc.dir || got.Step != tc.step {
			t.Fatalf("key %q: expected navigate %s %d, got %#v", tc.key, tc.dir, tc.step, got)
		}
	}
}

func TestFirstAndLastAreNoOpsAtBounds(t *testing.T) {
	h, sender := newTestHarness(t)
	sender.reset()
	h.Keys("g")
	if len(sender.sent) != 0 {
		t.Fatalf("expected no message at first pair, got %#v", sender.sent)
	}
	h.Send(bridge.UpdatePair{Pair: view("dog", "a dog"), Index: 2, Total: 3})
	sender.reset()
	h.Keys("G")
	if len(sender.sent) != 0 {
		t.Fatalf("expected no message at last pair, got %#v", sender.sent)
	}
	h.Keys("g")
	if got := sender.last(); got.Direction != bridge.Backward || got.Step != 2 {
		t.Fatalf("expected backward 2, got %#v", got)
	}
}

func TestNavigationIgnoredWithoutPairs(t *testing.T) {
	sender := &recordingSender{}
	h := NewHarness(NewModel(sender, Options{}))
	h.Send(bridge.UpdatePair{Total: 0})
	h.Keys("l", "]", "e", "/")
	if len(sender.sent) != 0 {
		t.Fatalf("expected nothing sent, got %#v", sender.sent)
	}
	if h.Model().Mode() != ModeBrowse {
		t.Fatalf("expected browse mode")
	}
}

func TestEditStreamsAndSavesOnLeave(t *testing.T) {
	h, sender := newTestHarness(t)
	h.Keys("e")
	if h.Model().Mode() != ModeEdit {
		t.Fatalf("expected edit mode")
	}
	sender.reset()
	h.Type("!")
	updates := sender.ofType(bridge.TypeUpdateCaptionLocally)
	if len(updates) != 1 || updates[0].Text != "a small bird!" {
		t.Fatalf("expected local update, got %#v", sender.sent)
	}
	if counts := sender.ofType(bridge.TypeCountTokens); len(counts) != 1 || counts[0].Text != "a small bird!" {
		t.Fatalf("expected token request, got %#v", sender.sent)
	}
	if !strings.Contains(h.View(), "unsaved") {
		t.Fatalf("expected unsaved marker in view")
	}

	sender.reset()
	h.Keys("esc")
	if h.Model().Mode() != ModeBrowse {
		t.Fatalf("expected browse mode after esc")
	}
	if got := sender.last(); got.Type != bridge.TypeSaveCaption || got.Text != "a small bird!" {
		t.Fatalf("expected save on leave, got %#v", sender.sent)
	}
}

func TestEditLeaveWithoutChangesDoesNotSave(t *testing.T) {
	h, sender := newTestHarness(t)
	sender.reset()
	h.Keys("e", "esc")
	if len(sender.ofType(bridge.TypeSaveCaption)) != 0 {
		t.Fatalf("expected no save, got %#v", sender.sent)
	}
}

func TestEditExplicitSave(t *testing.T) {
	h, sender := newTestHarness(t)
	h.Keys("e")
	h.Type("s")
	sender.reset()
	h.Keys("ctrl+s")
	if got := sender.last(); got.Type != bridge.TypeSaveCaption || got.Text != "a small birds" {
		t.Fatalf("expected explicit save, got %#v", sender.sent)
	}
	if h.Model().Mode() != ModeEdit {
		t.Fatalf("expected to stay in edit mode")
	}
}

func TestEditIgnoresEchoOfSamePair(t *testing.T) {
	h, _ := newTestHarness(t)
	h.Keys("e")
	h.Type(" x")
	h.Send(bridge.UpdatePair{Pair: view("bird", "a small bird"), Index: 0, Total: 3})
	if got := h.Model().EditorValue(); got != "a small bird x" {
		t.Fatalf("expected editor text kept, got %q", got)
	}
	h.Send(bridge.UpdatePair{Pair: view("cat", "a cat"), Index: 1, Total: 3})
	if got := h.Model().EditorValue(); got != "a cat" {
		t.Fatalf("expected editor to follow new pair, got %q", got)
	}
}

func TestEditModeTypesQ(t *testing.T) {
	h, _ := newTestHarness(t)
	h.Keys("e", "q")
	if h.Quitting() {
		t.Fatalf("expected q to be typed in the editor")
	}
	h.Keys("esc", "q")
	if !h.Quitting() {
		t.Fatalf("expected q to quit from browse mode")
	}
}

func TestCtrlCQuitsFromAnyMode(t *testing.T) {
	h, _ := newTestHarness(t)
	h.Keys("/", "ctrl+c")
	if !h.Quitting() {
		t.Fatalf("expected ctrl+c to quit")
	}
	if h.View() != "" {
		t.Fatalf("expected empty view after quit")
	}
}

func TestJumpSelectsFilteredPair(t *testing.T) {
	h, sender := newTestHarness(t)
	h.Keys("/")
	if h.Model().Mode() != ModeJump {
		t.Fatalf("expected jump mode")
	}
	h.Type("do")
	if !strings.Contains(h.View(), "dog") || strings.Contains(h.View(), " cat") {
		t.Fatalf("expected filtered list, got:\n%s", h.View())
	}
	sender.reset()
	h.Keys("enter")
	if h.Model().Mode() != ModeBrowse {
		t.Fatalf("expected browse mode after choosing")
	}
	if got := sender.last(); got.Type != bridge.TypeNavigate || got.Direction != bridge.Forward || got.Step != 2 {
		t.Fatalf("expected navigate forward 2, got %#v", sender.sent)
	}
}

func TestJumpCancel(t *testing.T) {
	h, sender := newTestHarness(t)
	sender.reset()
	h.Keys("/", "down", "esc")
	if h.Model().Mode() != ModeBrowse || len(sender.sent) != 0 {
		t.Fatalf("expected cancelled jump without messages, got %#v", sender.sent)
	}
}

func TestRefreshKey(t *testing.T) {
	h, sender := newTestHarness(t)
	sender.reset()
	h.Keys("r")
	if got := sender.last(); got.Type != bridge.TypeRefresh {
		t.Fatalf("expected refresh, got %#v", got)
	}
}

func TestNoticesExpire(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	sender := &recordingSender{}
	m := NewModel(sender, Options{Now: func() time.Time { return now }})
	h := NewHarness(m)
	h.Send(bridge.UpdatePair{Pair: view("bird", "x"), Index: 0, Total: 1})
	h.Send(bridge.Notice{Level: bridge.LevelInfo, Text: "Caption saved for bird"})
	if !strings.Contains(h.View(), "Caption saved for bird") {
		t.Fatalf("expected info notice")
	}
	now = now.Add(5 * time.Second)
	if strings.Contains(h.View(), "Caption saved for bird") {
		t.Fatalf("expected info notice to expire")
	}
	h.Send(bridge.Notice{Level: bridge.LevelError, Text: "Failed to save caption for bird"})
	now = now.Add(time.Hour)
	if !strings.Contains(h.View(), "Failed to save caption for bird") {
		t.Fatalf("expected error notice to persist")
	}
}

func TestHelpTogglesFooter(t *testing.T) {
	h, _ := newTestHarness(t)
	if strings.Contains(h.View(), "ctrl+s save") {
		t.Fatalf("expected footer hidden by default")
	}
	h.Keys("?")
	if !strings.Contains(h.View(), "ctrl+s save") {
		t.Fatalf("expected footer after ?")
	}
}

func TestWindowSizeRespectsFixedWidth(t *testing.T) {
	m := NewModel(nil, Options{Width: 60})
	h := NewHarness(m)
	h.Send(tea.WindowSizeMsg{Width: 120, Height: 40})
	if m.width != 60 || m.height != 40 {
		t.Fatalf("expected fixed width and dynamic height, got %dx%d", m.width, m.height)
	}
}

type fakeProgram struct {
	msgs []tea.Msg
}

func (f *fakeProgram) Send(msg tea.Msg) { f.msgs = append(f.msgs, msg) }

func TestProgramSurface(t *testing.T) {
	p := &fakeProgram{}
	s := NewSurface(p)
	if err := s.Send(bridge.TokenCount{Count: 2}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(p.msgs) != 2 {
		t.Fatalf("expected two messages, got %d", len(p.msgs))
	}
	if _, ok := p.msgs[1].(closeMsg); !ok {
		t.Fatalf("expected close message, got %T", p.msgs[1])
	}
}

func TestFileURL(t *testing.T) {
	if got := FileURL("/data/my cat.png"); got != "file:///data/my%20cat.png" {
		t.Fatalf("unexpected url %q", got)
	}
	if FileURL("") != "" {
		t.Fatalf("expected empty url for empty path")
	}
}
