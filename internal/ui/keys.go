package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Next      key.Binding
	Prev      key.Binding
	Next10    key.Binding
	Prev10    key.Binding
	Next100   key.Binding
	Prev100   key.Binding
	First     key.Binding
	Last      key.Binding
	Edit      key.Binding
	Save      key.Binding
	Refresh   key.Binding
	Jump      key.Binding
	Help      key.Binding
	Quit      key.Binding
	ForceQuit key.Binding

	// editor and jump list
	Leave    key.Binding
	EditNext key.Binding
	EditPrev key.Binding
	Up       key.Binding
	Down     key.Binding
	Choose   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Next:      key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next")),
		Prev:      key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev")),
		Next10:    key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "+10")),
		Prev10:    key.NewBinding(key.WithKeys("["), key.WithHelp("[", "-10")),
		Next100:   key.NewBinding(key.WithKeys("}"), key.WithHelp("}", "+100")),
		Prev100:   key.NewBinding(key.WithKeys("{"), key.WithHelp("{", "-100")),
		First:     key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "first")),
		Last:      key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "last")),
		Edit:      key.NewBinding(key.WithKeys("e", "enter"), key.WithHelp("e", "edit")),
		Save:      key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
		Refresh:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "rescan")),
		Jump:      key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "jump")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "keys")),
		Quit:      key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		ForceQuit: key.NewBinding(key.WithKeys("ctrl+c")),
		Leave:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "done")),
		EditNext:  key.NewBinding(key.WithKeys("ctrl+n", "pgdown"), key.WithHelp("ctrl+n", "next")),
		EditPrev:  key.NewBinding(key.WithKeys("ctrl+p", "pgup"), key.WithHelp("ctrl+p", "prev")),
		Up:        key.NewBinding(key.WithKeys("up", "ctrl+k")),
		Down:      key.NewBinding(key.WithKeys("down", "ctrl+j")),
		Choose:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "go")),
	}
}

func (k keyMap) browseHelp() []key.Binding {
	return []key.Binding{k.Next, k.Prev, k.Edit, k.Save, k.Jump, k.Refresh, k.Next10, k.Prev10, k.Next100, k.Prev100, k.First, k.Last, k.Help, k.Quit}
}

func (k keyMap) editHelp() []key.Binding {
	return []key.Binding{k.Leave, k.Save, k.EditNext, k.EditPrev}
}
