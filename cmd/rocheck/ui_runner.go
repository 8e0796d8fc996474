package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"rocheck/internal/driver"
	"rocheck/internal/ui"
)

type checkOutcome struct {
	run *driver.Run
	err error
}

// runCheckWithUI runs CheckPaths in the background while a progress model
// renders its events. files are the expanded paths shown by the model.
// Ctrl+C in the model cancels the run.
func runCheckWithUI(ctx context.Context, title string, files, paths []string, opts driver.Options) (*driver.Run, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan driver.Event, 256)
	outcomeCh := make(chan checkOutcome, 1)

	go func() {
		opts.Progress = driver.ChannelSink{Ch: events}
		run, err := driver.CheckPaths(ctx, paths, opts)
		outcomeCh <- checkOutcome{run: run, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	final, uiErr := program.Run()
	if uiErr != nil || ui.Aborted(final) {
		cancel()
	}
	// модель больше не читает канал: дочитываем, чтобы воркеры не встали
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.run, uiErr
	}
	return outcome.run, outcome.err
}
