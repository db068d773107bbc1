package main

import (
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"

	"github.com/atomicstack/caption-pair-manager/internal/pairs"
)

const captionColumnWidth = 60

// renderPairs formats list as a rounded table for terminals and as CSV
// otherwise.
func renderPairs(list []pairs.Pair, tty bool) string {
	tw := table.NewWriter()
	tw.AppendHeader(table.Row{"#", "Name", "Image", "Size", "Caption"})
	for i, p := range list {
		tw.AppendRow(table.Row{
			strconv.Itoa(i + 1),
			p.BaseName,
			filepath.Base(p.ImagePath),
			humanize.Bytes(uint64(p.ImageSize)),
			strings.Join(strings.Fields(p.Caption), " "),
		})
	}
	if !tty {
		return tw.RenderCSV() + "\n"
	}
	tw.SetStyle(table.StyleRounded)
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, WidthMax: captionColumnWidth, WidthMaxEnforcer: text.Trim},
	})
	return tw.Render() + "\n"
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
