package dispatcher

import (
	"context"
	"testing"

	"github.com/atomicstack/caption-pair-manager/internal/bridge"
	"github.com/atomicstack/caption-pair-manager/internal/logging"
	"github.com/atomicstack/caption-pair-manager/internal/pairs"
	"github.com/atomicstack/caption-pair-manager/internal/session"
	"github.com/atomicstack/caption-pair-manager/internal/testutil"
)

type fakeSession struct {
	calls []string
	dir   session.Direction
	step  int
	text  string
}

func (f *fakeSession) Navigate(_ context.Context, dir session.Direction, step int) bool {
	f.calls = append(f.calls, "navigate")
	f.dir, f.step = dir, step
	return true
}

func (f *fakeSession) UpdateCaptionLocally(text string) bool {
	f.calls = append(f.calls, "update")
	f.text = text
	return true
}

func (f *fakeSession) SaveCaption(_ context.Context, text string) bool {
	f.calls = append(f.calls, "save")
	f.text = text
	return true
}

func (f *fakeSession) Rescan(context.Context) { f.calls = append(f.calls, "rescan") }

func (f *fakeSession) CountTokens(text string) int {
	f.calls = append(f.calls, "tokens")
	return len(text)
}

func TestHandleRoutesMessages(t *testing.T) {
	ctx := context.Background()
	fake := &fakeSession{}
	d := New(fake)

	if res := d.Handle(ctx, bridge.Inbound{Type: bridge.TypeNavigate, Direction: bridge.Backward, Step: 10}); !res.Moved {
		t.Fatalf("expected move, got %#v", res)
	}
	if fake.dir != session.Backward || fake.step != 10 {
		t.Fatalf("unexpected navigate args %s %d", fake.dir, fake.step)
	}
	if res := d.Handle(ctx, bridge.Inbound{Type: bridge.TypeUpdateCaptionLocally, Text: "draft"}); !res.Edited || fake.text != "draft" {
		t.Fatalf("expected edit, got %#v", res)
	}
	if res := d.Handle(ctx, bridge.Inbound{Type: bridge.TypeSaveCaption, Text: "final"}); !res.Saved || fake.text != "final" {
		t.Fatalf("expected save, got %#v", res)
	}
	if res := d.Handle(ctx, bridge.Inbound{Type: bridge.TypeRefresh}); !res.Scanned {
		t.Fatalf("expected rescan, got %#v", res)
	}
	if res := d.Handle(ctx, bridge.Inbound{Type: bridge.TypeCountTokens, Text: "abc"}); res.Tokens != 3 {
		t.Fatalf("expected token count 3, got %#v", res)
	}
	want := []string{"navigate", "update", "save", "rescan", "tokens"}
	if len(fake.calls) != len(want) {
		t.Fatalf("expected calls %v, got %v", want, fake.calls)
	}
	for i := range want {
		if fake.calls[i] != want[i] {
			t.Fatalf("expected calls %v, got %v", want, fake.calls)
		}
	}
}

func TestHandlePassesStepThrough(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want int
	}{
		{"missing", `{"type":"navigate","direction":"forward"}`, 1},
		{"zero", `{"type":"navigate","direction":"forward","step":0}`, 0},
		{"hundred", `{"type":"navigate","direction":"backward","step":100}`, 100},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in, err := bridge.DecodeInbound([]byte(tc.raw))
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			fake := &fakeSession{}
			New(fake).Handle(context.Background(), in)
			if fake.step != tc.want {
				t.Fatalf("expected step %d, got %d", tc.want, fake.step)
			}
		})
	}
}

func TestHandleZeroStepDoesNotMove(t *testing.T) {
	testutil.UseTempLog(t, logging.Configure)
	s := session.New(session.Options{Scanner: twoPairs{}})
	if err := s.Initialize(context.Background(), "/data"); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	in, err := bridge.DecodeInbound([]byte(`{"type":"navigate","direction":"forward","step":0}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res := New(s).Handle(context.Background(), in); res.Moved {
		t.Fatalf("expected no move for step 0, got %#v", res)
	}
	if s.Index() != 0 {
		t.Fatalf("expected index 0, got %d", s.Index())
	}
}

type twoPairs struct{}

func (twoPairs) Scan(string) ([]pairs.Pair, error) {
	return []pairs.Pair{
		{ImagePath: "/data/a.png", CaptionPath: "/data/a.txt", BaseName: "a"},
		{ImagePath: "/data/b.png", CaptionPath: "/data/b.txt", BaseName: "b"},
	}, nil
}

func TestHandleIgnoresUnknown(t *testing.T) {
	testutil.UseTempLog(t, logging.Configure)
	fake := &fakeSession{}
	d := New(fake)
	if res := d.Handle(context.Background(), bridge.Inbound{Type: "explode"}); !res.Ignored {
		t.Fatalf("expected ignored, got %#v", res)
	}
	if res := d.Handle(context.Background(), bridge.Inbound{Type: bridge.TypeNavigate, Direction: "up"}); !res.Ignored {
		t.Fatalf("expected ignored direction, got %#v", res)
	}
	if len(fake.calls) != 0 {
		t.Fatalf("expected no session calls, got %v", fake.calls)
	}
}
