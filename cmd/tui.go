package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/spin/internal/notify"
	"github.com/desertthunder/spin/internal/shared"
	"github.com/desertthunder/spin/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive player.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(r.config.Log.File)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	shared.SetLogLevel(fileLogger, shared.ParseLogLevel(r.config.Log.Level))
	r.SetLogger(fileLogger)

	notices := notify.NewChanNotifier(16)
	notifiers := notify.Multi{notices, notify.NewLogNotifier(fileLogger)}
	if r.config.Notify.Desktop {
		notifiers = append(notifiers, notify.NewDesktopNotifier("spin", fileLogger))
	}
	r.notifier = notifiers

	lib, err := r.library(ctx)
	if err != nil {
		return err
	}
	cache, err := r.recentCache(ctx)
	if err != nil {
		return err
	}

	session := r.newSession(lib, notifiers)
	defer session.Close()

	model := ui.NewModel(ctx, ui.Deps{
		Catalog: r.catalog,
		Recent:  cache,
		Session: session,
		Library: lib,
		Notices: notices,
		Logger:  fileLogger,
	})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
