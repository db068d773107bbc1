package ui

import (
	"reflect"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/caption-pair-manager/internal/bridge"
	"github.com/atomicstack/caption-pair-manager/internal/logging/events"
	"github.com/atomicstack/caption-pair-manager/internal/theme"
	uistate "github.com/atomicstack/caption-pair-manager/internal/ui/state"
)

type Mode int

const (
	ModeBrowse Mode = iota
	ModeEdit
	ModeJump
)

func (m Mode) String() string {
	switch m {
	case ModeEdit:
		return "edit"
	case ModeJump:
		return "jump"
	default:
		return "browse"
	}
}

const (
	infoNoticeTTL     = 4 * time.Second
	defaultJumpHeight = 10
)

var styles = theme.Default()

type msgHandler func(tea.Msg) tea.Cmd

// Sender accepts inbound protocol messages, usually a *bridge.Bridge.
type Sender interface {
	Deliver(bridge.Inbound)
}

// Options configures a Model.
type Options struct {
	Root       string
	Width      int
	Height     int
	ShowFooter bool
	Verbose    bool
	// Now is used for notice expiry; tests pin it.
	Now func() time.Time
}

// Model implements the Bubble Tea model for the caption editor.
type Model struct {
	sender Sender
	keys   keyMap
	mode   Mode

	root     string
	pair     *bridge.PairView
	index    int
	total    int
	received bool
	names    []string

	tokens      int
	tokensKnown bool

	notice       bridge.Notice
	noticeExpire time.Time
	now          func() time.Time

	editor textarea.Model
	// editorPath is the caption file the editor text belongs to.
	editorPath string
	edited     bool

	jumpInput textinput.Model
	jumpList  *uistate.Level

	width       int
	height      int
	fixedWidth  bool
	fixedHeight bool
	showFooter  bool
	verbose     bool
	quitting    bool

	handlers map[reflect.Type]msgHandler
}

// NewModel initialises the UI. Inbound messages produced by key presses are
// handed to sender.
func NewModel(sender Sender, opts Options) *Model {
	editor := textarea.New()
	editor.Placeholder = "Describe the image…"
	editor.ShowLineNumbers = false
	editor.CharLimit = 0
	editor.Prompt = ""
	editor.SetHeight(6)

	jump := textinput.New()
	jump.Prompt = "jump> "
	jump.Placeholder = "type part of a base name"
	if styles.FilterPrompt != nil {
		jump.PromptStyle = styles.FilterPrompt.Copy()
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}
	m := &Model{
		sender:     sender,
		keys:       defaultKeyMap(),
		mode:       ModeBrowse,
		root:       opts.Root,
		editor:     editor,
		jumpInput:  jump,
		jumpList:   uistate.NewLevel(nil),
		showFooter: opts.ShowFooter,
		verbose:    opts.Verbose,
		now:        now,
	}
	if opts.Width > 0 {
		m.width = opts.Width
		m.fixedWidth = true
	}
	if opts.Height > 0 {
		m.height = opts.Height
		m.fixedHeight = true
	}
	m.resizeEditor()
	m.registerHandlers()
	return m
}

// Init is part of the tea.Model interface.
func (m *Model) Init() tea.Cmd {
	return textarea.Blink
}

// Update responds to Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if handler := m.handlerFor(msg); handler != nil {
		return m, handler(msg)
	}
	return m, m.updateWidgets(msg)
}

func (m *Model) registerHandlers() {
	m.handlers = map[reflect.Type]msgHandler{
		reflect.TypeOf(tea.KeyMsg{}):        m.handleKeyMsg,
		reflect.TypeOf(tea.WindowSizeMsg{}): m.handleWindowSizeMsg,
		reflect.TypeOf(bridge.UpdatePair{}): m.handleUpdatePairMsg,
		reflect.TypeOf(bridge.PairList{}):   m.handlePairListMsg,
		reflect.TypeOf(bridge.TokenCount{}): m.handleTokenCountMsg,
		reflect.TypeOf(bridge.Notice{}):     m.handleNoticeMsg,
		reflect.TypeOf(closeMsg{}):          m.handleCloseMsg,
	}
}

func (m *Model) handlerFor(msg tea.Msg) msgHandler {
	if msg == nil || m.handlers == nil {
		return nil
	}
	t := reflect.TypeOf(msg)
	if handler, ok := m.handlers[t]; ok {
		return handler
	}
	if t.Kind() == reflect.Ptr {
		if handler, ok := m.handlers[t.Elem()]; ok {
			return handler
		}
	}
	return nil
}

// updateWidgets forwards non-key messages (cursor blinks and the like) to the
// focused widget.
func (m *Model) updateWidgets(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.mode {
	case ModeEdit:
		m.editor, cmd = m.editor.Update(msg)
	case ModeJump:
		m.jumpInput, cmd = m.jumpInput.Update(msg)
	}
	return cmd
}

func (m *Model) send(in bridge.Inbound) {
	if m.sender == nil {
		return
	}
	events.UI.Send(in.Type)
	m.sender.Deliver(in)
}

func (m *Model) setMode(mode Mode) {
	if m.mode == mode {
		return
	}
	events.UI.Mode(m.mode.String(), mode.String())
	m.mode = mode
}

func (m *Model) handleWindowSizeMsg(msg tea.Msg) tea.Cmd {
	size, ok := msg.(tea.WindowSizeMsg)
	if !ok {
		return nil
	}
	if !m.fixedWidth {
		m.width = size.Width
	}
	if !m.fixedHeight {
		m.height = size.Height
	}
	m.resizeEditor()
	return nil
}

func (m *Model) resizeEditor() {
	width := m.width - 4
	if width < 20 {
		width = 20
	}
	m.editor.SetWidth(width)
	m.jumpInput.Width = width - len(m.jumpInput.Prompt)
}

func (m *Model) handleUpdatePairMsg(msg tea.Msg) tea.Cmd {
	update, ok := msg.(bridge.UpdatePair)
	if !ok {
		return nil
	}
	events.UI.Receive(bridge.TypeUpdatePair)
	m.received = true
	m.index = update.Index
	m.total = update.Total
	if update.Pair == nil {
		m.pair = nil
		m.tokensKnown = false
		if m.mode == ModeEdit {
			m.editor.Blur()
			m.setMode(ModeBrowse)
		}
		return nil
	}
	view := *update.Pair
	samePair := m.pair != nil && m.pair.CaptionPath == view.CaptionPath
	m.pair = &view
	m.jumpList.Focus(m.index)
	if m.mode == ModeEdit && samePair {
		return nil
	}
	if !samePair {
		m.edited = false
		m.tokensKnown = false
	}
	if !samePair || m.editor.Value() != view.Caption {
		m.editorPath = view.CaptionPath
		m.editor.SetValue(view.Caption)
		m.send(bridge.Inbound{Type: bridge.TypeCountTokens, Text: view.Caption})
	}
	return nil
}

func (m *Model) handlePairListMsg(msg tea.Msg) tea.Cmd {
	list, ok := msg.(bridge.PairList)
	if !ok {
		return nil
	}
	events.UI.Receive(bridge.TypePairList)
	m.names = append([]string(nil), list.Names...)
	m.jumpList.UpdateItems(uistate.ItemsFromNames(m.names))
	m.jumpList.Focus(m.index)
	return nil
}

func (m *Model) handleTokenCountMsg(msg tea.Msg) tea.Cmd {
	count, ok := msg.(bridge.TokenCount)
	if !ok {
		return nil
	}
	m.tokens = count.Count
	m.tokensKnown = true
	return nil
}

func (m *Model) handleNoticeMsg(msg tea.Msg) tea.Cmd {
	notice, ok := msg.(bridge.Notice)
	if !ok {
		return nil
	}
	events.UI.Receive(bridge.TypeNotice)
	m.notice = notice
	m.noticeExpire = time.Time{}
	if notice.Level == bridge.LevelInfo {
		m.noticeExpire = m.now().Add(infoNoticeTTL)
	}
	return nil
}

func (m *Model) activeNotice() (bridge.Notice, bool) {
	if m.notice.Text == "" {
		return bridge.Notice{}, false
	}
	if !m.noticeExpire.IsZero() && m.now().After(m.noticeExpire) {
		return bridge.Notice{}, false
	}
	return m.notice, true
}

func (m *Model) clearNotice() {
	m.notice = bridge.Notice{}
	m.noticeExpire = time.Time{}
}

type closeMsg struct{}

func (m *Model) handleCloseMsg(tea.Msg) tea.Cmd {
	m.quitting = true
	return tea.Quit
}

// Mode reports the active mode.
func (m *Model) Mode() Mode { return m.mode }

// EditorValue returns the text in the caption editor.
func (m *Model) EditorValue() string { return m.editor.Value() }
