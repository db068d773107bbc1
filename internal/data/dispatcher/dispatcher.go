package dispatcher

import (
	"context"

	"github.com/atomicstack/caption-pair-manager/internal/bridge"
	"github.com/atomicstack/caption-pair-manager/internal/logging"
	"github.com/atomicstack/caption-pair-manager/internal/session"
)

// Result reports what an inbound message did to the session.
type Result struct {
	Moved   bool
	Edited  bool
	Saved   bool
	Scanned bool
	Tokens  int
	Ignored bool
}

// Session is the subset of *session.Session the dispatcher drives.
type Session interface {
	Navigate(ctx context.Context, dir session.Direction, step int) bool
	UpdateCaptionLocally(text string) bool
	SaveCaption(ctx context.Context, text string) bool
	Rescan(ctx context.Context)
	CountTokens(text string) int
}

// Dispatcher turns inbound surface messages into Session calls.
type Dispatcher struct {
	session Session
}

// New returns a Dispatcher driving s.
func New(s Session) *Dispatcher {
	return &Dispatcher{session: s}
}

// Handle routes one inbound message. It must run on the session's goroutine.
func (d *Dispatcher) Handle(ctx context.Context, in bridge.Inbound) Result {
	var res Result
	switch in.Type {
	case bridge.TypeNavigate:
		dir, ok := session.ParseDirection(in.Direction)
		if !ok {
			logging.Warnf("ignoring navigate with direction %q", in.Direction)
			res.Ignored = true
			break
		}
		res.Moved = d.session.Navigate(ctx, dir, in.Step)
	case bridge.TypeUpdateCaptionLocally:
		res.Edited = d.session.UpdateCaptionLocally(in.Text)
	case bridge.TypeSaveCaption:
		res.Saved = d.session.SaveCaption(ctx, in.Text)
	case bridge.TypeRefresh:
		d.session.Rescan(ctx)
		res.Scanned = true
	case bridge.TypeCountTokens:
		res.Tokens = d.session.CountTokens(in.Text)
	default:
		logging.Warnf("ignoring inbound message of type %q", in.Type)
		res.Ignored = true
	}
	return res
}
