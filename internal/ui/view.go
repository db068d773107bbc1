package ui

import (
	"fmt"
	"path"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"

	"github.com/atomicstack/caption-pair-manager/internal/format/table"
)

const (
	defaultViewWidth = 80
	ellipsis         = "…"
)

// View implements tea.Model.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	width := m.viewWidth()
	lines := []string{m.header(width)}
	switch {
	case !m.received:
		lines = append(lines, render(styles.Empty, "Scanning folder…"))
	case m.pair == nil:
		lines = append(lines, render(styles.Empty, fmt.Sprintf("No image/caption pairs found in %s", m.root)))
	default:
		lines = append(lines, m.pairLines(width)...)
	}
	if notice, ok := m.activeNotice(); ok {
		lines = append(lines, render(styles.ForNotice(notice.Level), truncate(notice.Text, width)))
	}
	if m.showFooter {
		lines = append(lines, m.footer(width))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) viewWidth() int {
	if m.width > 0 {
		return m.width
	}
	return defaultViewWidth
}

func (m *Model) header(width int) string {
	counter := "–/–"
	if m.total > 0 {
		counter = fmt.Sprintf("%d/%d", m.index+1, m.total)
	}
	title := render(styles.Header, "captions")
	folder := ""
	if m.root != "" {
		folder = " " + render(styles.Meta, m.root)
	}
	return truncate(fmt.Sprintf("%s %s%s", title, render(styles.Counter, counter), folder), width)
}

func (m *Model) pairLines(width int) []string {
	p := m.pair
	name := render(styles.Title, p.BaseName)
	if p.Dirty {
		name += " " + render(styles.Dirty, "● unsaved")
	}
	lines := []string{truncate(name, width), m.imageLine(width)}

	switch m.mode {
	case ModeEdit:
		lines = append(lines, render(styles.EditorBox, m.editor.View()))
	case ModeJump:
		lines = append(lines, m.jumpLines(width)...)
	default:
		lines = append(lines, m.captionBox(width))
	}

	tokens := "tokens: …"
	if m.tokensKnown {
		tokens = fmt.Sprintf("tokens: %d", m.tokens)
	}
	lines = append(lines, render(styles.Tokens, tokens))
	return lines
}

// imageLine shows the image file name as an OSC 8 hyperlink to the image.
func (m *Model) imageLine(width int) string {
	p := m.pair
	label := p.BaseName + path.Ext(p.ImagePath)
	size := ""
	if p.ImageSize > 0 {
		size = " · " + humanize.Bytes(uint64(p.ImageSize))
	}
	label = ansi.Truncate(label, max(width-len(size)-8, 8), ellipsis)
	link := render(styles.Link, label)
	if strings.HasPrefix(p.ImagePath, "file://") {
		link = ansi.SetHyperlink(p.ImagePath) + link + ansi.ResetHyperlink()
	}
	return "image: " + link + render(styles.Meta, size)
}

func (m *Model) captionBox(width int) string {
	inner := max(width-4, 10)
	text := m.pair.Caption
	var body string
	if strings.TrimSpace(text) == "" {
		body = render(styles.Placeholder, "(empty caption, press e to write one)")
	} else {
		body = render(styles.Caption, lipgloss.NewStyle().Width(inner).Render(text))
	}
	return render(styles.CaptionBox, body)
}

func (m *Model) jumpLines(width int) []string {
	lines := []string{m.jumpInput.View()}
	visible := m.jumpList.Window(m.jumpHeight())
	if len(visible) == 0 {
		return append(lines, render(styles.Empty, fmt.Sprintf("No matches for %q", m.jumpList.Filter)))
	}
	rows := make([][]string, len(visible))
	for i, item := range visible {
		rows[i] = []string{fmt.Sprintf("%d", item.Index+1), item.Name}
	}
	selected, _ := m.jumpList.Selected()
	for i, row := range table.Format(rows, []table.Alignment{table.AlignRight, table.AlignLeft}) {
		row = truncate("  "+row, width)
		style := styles.Item
		if visible[i].Index == selected.Index {
			style = styles.SelectedItem
			row = "›" + strings.TrimPrefix(row, " ")
		}
		lines = append(lines, render(style, row))
	}
	return lines
}

func (m *Model) jumpHeight() int {
	if m.height <= 0 {
		return defaultJumpHeight
	}
	// header, name, image, prompt, tokens, notice, footer
	return max(m.height-7, 3)
}

func (m *Model) footer(width int) string {
	bindings := m.keys.browseHelp()
	if m.mode == ModeEdit {
		bindings = m.keys.editHelp()
	}
	if m.mode == ModeJump {
		bindings = []key.Binding{m.keys.Leave, m.keys.Choose}
	}
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return render(styles.Footer, truncate(strings.Join(parts, " · "), width))
}

func render(style *lipgloss.Style, text string) string {
	if style == nil {
		return text
	}
	return style.Render(text)
}

func truncate(text string, width int) string {
	if width <= 0 {
		return text
	}
	return ansi.Truncate(text, width, ellipsis)
}
