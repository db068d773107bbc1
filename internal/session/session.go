// Package session owns the pair list of one folder, the cursor into it, and
// the unsaved edits made to the current caption.
//
// A Session is not safe for concurrent use. Callers serialise access through a
// single goroutine (see backend.Queue).
package session

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/atomicstack/caption-pair-manager/internal/bridge"
	"github.com/atomicstack/caption-pair-manager/internal/captions"
	"github.com/atomicstack/caption-pair-manager/internal/logging"
	"github.com/atomicstack/caption-pair-manager/internal/logging/events"
	"github.com/atomicstack/caption-pair-manager/internal/pairs"
	"github.com/atomicstack/caption-pair-manager/internal/tokens"
)

// Errors returned by Session operations.
var (
	// ErrNoFolder is returned by Initialize when no root folder was given.
	ErrNoFolder = errors.New("session: no folder is open")
	// ErrFolderChange is returned when Initialize names a different root.
	ErrFolderChange = errors.New("session: root folder is already set")
	// ErrWriteFailed wraps caption writes that failed during Close.
	ErrWriteFailed = errors.New("session: caption write failed")
)

// Scanner produces the pair list of a folder.
type Scanner interface {
	Scan(dir string) ([]pairs.Pair, error)
}

// Publisher receives outbound messages, usually a *bridge.Bridge.
type Publisher interface {
	Push(bridge.Outbound)
}

type discard struct{}

func (discard) Push(bridge.Outbound) {}

// Options configures a Session. Scanner and Store are required.
type Options struct {
	Scanner   Scanner
	Store     captions.Store
	Publisher Publisher
	// Tokens is the primary token counter. Nil selects the estimate.
	Tokens tokens.Counter
	// Verbose enables informational notices such as save confirmations.
	Verbose bool
}

// Session is the in-memory state of one folder.
type Session struct {
	scanner Scanner
	store   captions.Store
	out     Publisher
	counter tokens.Counter
	verbose bool

	root           string
	ready          bool
	list           []pairs.Pair
	cursor         cursor
	warnedNoFolder bool
}

// New constructs an uninitialised Session.
func New(opts Options) *Session {
	out := opts.Publisher
	if out == nil {
		out = discard{}
	}
	store := opts.Store
	if store == nil {
		store = captions.New()
	}
	scanner := opts.Scanner
	if scanner == nil {
		scanner = pairs.NewScanner(store, defaultLang)
	}
	return &Session{
		scanner: scanner,
		store:   store,
		out:     out,
		counter: opts.Tokens,
		verbose: opts.Verbose,
	}
}

// Initialize opens root. Repeating it with the same root rescans; a different
// root fails with ErrFolderChange.
func (s *Session) Initialize(ctx context.Context, root string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	root = strings.TrimSpace(root)
	if root == "" {
		if !s.warnedNoFolder {
			s.warnedNoFolder = true
			s.notify(bridge.LevelError, "No folder is open. Start the application with a folder to caption.")
		}
		return ErrNoFolder
	}
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}
	if s.ready && root != s.root {
		return fmt.Errorf("%w: open %s, requested %s", ErrFolderChange, s.root, root)
	}
	s.root = root
	s.ready = true
	events.Session.Initialize(root)
	s.Rescan(ctx)
	return nil
}

// Rescan replaces the pair list with a fresh scan of the root folder.
func (s *Session) Rescan(ctx context.Context) {
	if !s.ready || ctx.Err() != nil {
		return
	}
	found, err := s.scanner.Scan(s.root)
	if err != nil {
		found = nil
		s.notify(bridge.LevelWarning, fmt.Sprintf("Unable to read folder %s", s.root))
	}
	unsaved := make(map[string]string)
	for _, p := range s.list {
		if p.Dirty {
			unsaved[p.CaptionPath] = p.Caption
		}
	}
	for i := range found {
		if text, ok := unsaved[found[i].CaptionPath]; ok {
			found[i].Caption = text
			found[i].Dirty = true
		}
	}
	s.list = found
	s.cursor.clamp(len(s.list))
	events.Session.Rescan(len(s.list), s.cursor.index)
	s.EmitList()
	s.EmitView()
}

// Navigate moves the cursor by step in direction, auto-saving a dirty caption
// first. It reports whether the cursor moved; nothing is saved or emitted
// otherwise.
func (s *Session) Navigate(ctx context.Context, dir Direction, step int) bool {
	from := s.cursor.index
	to, moved := s.cursor.target(len(s.list), dir, step)
	if !s.ready || !moved || ctx.Err() != nil {
		events.Session.NavigateNoOp(string(dir), step, from)
		return false
	}
	cur := &s.list[from]
	if cur.Dirty {
		ok := s.store.Write(cur.CaptionPath, cur.Caption)
		if ok {
			cur.Dirty = false
		} else {
			logging.Warnf("auto-save failed for %s; caption stays unsaved", cur.BaseName)
		}
		events.Session.AutoSave(cur.BaseName, ok)
	}
	s.cursor.index = to
	events.Session.Navigate(string(dir), step, from, to)
	s.EmitView()
	return true
}

// UpdateCaptionLocally records an unsaved edit of the current caption.
func (s *Session) UpdateCaptionLocally(text string) bool {
	cur := s.current()
	if cur == nil {
		return false
	}
	cur.Caption = text
	cur.Dirty = true
	events.Session.Edit(cur.BaseName, len(text))
	return true
}

// SaveCaption writes text to the current caption file. On failure the pair is
// left as it was and an error notice is sent.
func (s *Session) SaveCaption(ctx context.Context, text string) bool {
	cur := s.current()
	if cur == nil || ctx.Err() != nil {
		return false
	}
	ok := s.store.Write(cur.CaptionPath, text)
	events.Session.Save(cur.BaseName, ok)
	if !ok {
		s.notify(bridge.LevelError, "Failed to save caption for "+cur.BaseName)
		return false
	}
	cur.Caption = text
	cur.Dirty = false
	if s.verbose {
		s.notify(bridge.LevelInfo, "Caption saved for "+cur.BaseName)
	}
	s.EmitView()
	return true
}

// CountTokens counts the tokens of text, sends the result to the surface and
// returns it.
func (s *Session) CountTokens(text string) int {
	n, fallback := tokens.Count(s.counter, text)
	events.Session.Tokens(n, fallback)
	s.out.Push(bridge.TokenCount{Count: n})
	return n
}

// EmitView sends the current pair, index and total.
func (s *Session) EmitView() {
	msg := bridge.UpdatePair{Index: s.cursor.index, Total: len(s.list)}
	if cur, ok := s.Current(); ok {
		msg.Pair = &bridge.PairView{
			ImagePath:   cur.ImagePath,
			CaptionPath: cur.CaptionPath,
			BaseName:    cur.BaseName,
			Caption:     cur.Caption,
			Dirty:       cur.Dirty,
			ImageSize:   cur.ImageSize,
		}
	}
	s.out.Push(msg)
}

// EmitList sends the base names of every pair.
func (s *Session) EmitList() {
	names := make([]string, len(s.list))
	for i, p := range s.list {
		names[i] = p.BaseName
	}
	s.out.Push(bridge.PairList{Names: names})
}

// Close writes every dirty caption and returns the joined write failures.
func (s *Session) Close(ctx context.Context) error {
	var errs []error
	flushed := 0
	for i := range s.list {
		p := &s.list[i]
		if !p.Dirty {
			continue
		}
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if !s.store.Write(p.CaptionPath, p.Caption) {
			errs = append(errs, fmt.Errorf("flush %s: %w", p.BaseName, ErrWriteFailed))
			continue
		}
		p.Dirty = false
		flushed++
	}
	events.Session.Flush(flushed, len(errs))
	return errors.Join(errs...)
}

// Root returns the folder passed to Initialize.
func (s *Session) Root() string { return s.root }

// Ready reports whether a folder has been opened.
func (s *Session) Ready() bool { return s.ready }

// Index returns the cursor position.
func (s *Session) Index() int { return s.cursor.index }

// Len returns the number of pairs.
func (s *Session) Len() int { return len(s.list) }

// Pairs returns a copy of the pair list.
func (s *Session) Pairs() []pairs.Pair { return pairs.Clone(s.list) }

// Current returns a copy of the pair under the cursor.
func (s *Session) Current() (pairs.Pair, bool) {
	cur := s.current()
	if cur == nil {
		return pairs.Pair{}, false
	}
	return *cur, true
}

// Dirty reports how many pairs hold unsaved edits.
func (s *Session) Dirty() int {
	n := 0
	for _, p := range s.list {
		if p.Dirty {
			n++
		}
	}
	return n
}

func (s *Session) current() *pairs.Pair {
	if !s.ready || s.cursor.index < 0 || s.cursor.index >= len(s.list) {
		return nil
	}
	return &s.list[s.cursor.index]
}

func (s *Session) notify(level, text string) {
	switch level {
	case bridge.LevelError:
		logging.Error(errors.New(text))
	case bridge.LevelWarning:
		logging.Warnf("%s", text)
	default:
		logging.Infof("%s", text)
	}
	s.out.Push(bridge.Notice{Level: level, Text: text})
}
