package main

import (
	"fmt"
	"strings"
)

// uiMode управляет прогрессом bubbletea при проверке каталога.
type uiMode uint8

const (
	uiAuto uiMode = iota
	uiOn
	uiOff
)

var uiModeNames = map[string]uiMode{
	"":     uiAuto,
	"auto": uiAuto,
	"on":   uiOn,
	"off":  uiOff,
}

func (m uiMode) String() string {
	switch m {
	case uiOn:
		return "on"
	case uiOff:
		return "off"
	}
	return "auto"
}

func parseUIMode(value string) (uiMode, error) {
	m, ok := uiModeNames[strings.ToLower(strings.TrimSpace(value))]
	if !ok {
		return uiAuto, fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
	}
	return m, nil
}

// progress reports whether a directory check draws the progress view.
// auto needs a terminal and the pretty format.
func (m uiMode) progress(format string, tty bool) bool {
	switch m {
	case uiOn:
		return true
	case uiOff:
		return false
	}
	return tty && format == "pretty"
}
