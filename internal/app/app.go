package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/caption-pair-manager/internal/bridge"
	"github.com/atomicstack/caption-pair-manager/internal/command"
	"github.com/atomicstack/caption-pair-manager/internal/logging"
	"github.com/atomicstack/caption-pair-manager/internal/ui"
)

// Config describes user-provided application options.
type Config struct {
	Root         string
	Addr         string
	Debounce     time.Duration
	PollInterval time.Duration
	Tokenizer    string
	Collation    string
	Width        int
	Height       int
	ShowFooter   bool
	Verbose      bool
}

// Run bootstraps and executes the Bubble Tea program.
func Run(cfg Config) error {
	var program *tea.Program
	core, err := NewCore(cfg, CoreOptions{
		Factory: func() (bridge.Surface, error) {
			if program == nil {
				return nil, errors.New("terminal program not started")
			}
			return ui.NewSurface(program), nil
		},
		Rewriter: ui.FileURL,
	})
	if err != nil {
		return err
	}
	model := ui.NewModel(core.Bridge(), ui.Options{
		Root:       core.Root(),
		Width:      cfg.Width,
		Height:     cfg.Height,
		ShowFooter: cfg.ShowFooter,
		Verbose:    cfg.Verbose,
	})
	program = tea.NewProgram(model, tea.WithAltScreen())

	if err := core.Start(); err != nil {
		return err
	}
	if err := core.Commands().Execute(context.Background(), command.Request{ID: command.Open}); err != nil {
		logging.Error(fmt.Errorf("open terminal surface: %w", err))
	}

	_, runErr := program.Run()
	if errors.Is(runErr, tea.ErrProgramKilled) {
		runErr = nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return errors.Join(runErr, core.Stop(ctx))
}
