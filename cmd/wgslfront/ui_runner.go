package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"wgslfront/internal/driver"
	"wgslfront/internal/source"
	"wgslfront/internal/ui"
)

type checkOutcome struct {
	fileSet *source.FileSet
	results []*driver.Result
	err     error
}

// runCheckWithUI runs CheckFiles in the background and renders its progress
// events until the run finishes.
func runCheckWithUI(ctx context.Context, title, baseDir string, files []string, opts driver.DirOptions) (*source.FileSet, []*driver.Result, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan checkOutcome, 1)

	go func() {
		opts.Progress = driver.ChannelSink(events)
		fs, results, err := driver.CheckFiles(ctx, baseDir, files, opts)
		outcomeCh <- checkOutcome{fileSet: fs, results: results, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr))
	_, uiErr := program.Run()
	if uiErr != nil {
		// UI сломался: дочитываем события, чтобы воркеры не блокировались
		for range events {
		}
	}
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.fileSet, outcome.results, uiErr
	}
	return outcome.fileSet, outcome.results, outcome.err
}
