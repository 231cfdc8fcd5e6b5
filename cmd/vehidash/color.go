package main

import (
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/monicalopezucha/practica-final/internal/favorites"
)

const (
	ansiReset  = "\033[0m"
	ansiRed    = "\033[31m"
	ansiGreen  = "\033[32m"
	ansiYellow = "\033[33m"
)

// shouldUseColor reports whether notices on stdout get ANSI colors. NO_COLOR
// wins over CLICOLOR_FORCE, which wins over TTY detection.
func shouldUseColor() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if strings.TrimSpace(os.Getenv("CLICOLOR_FORCE")) == "1" {
		return true
	}
	if strings.TrimSpace(os.Getenv("CLICOLOR")) == "0" {
		return false
	}
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// paint wraps text in the color for level when color is on.
func paint(level favorites.Level, text string, color bool) string {
	if !color {
		return text
	}
	var code string
	switch level {
	case favorites.LevelSuccess:
		code = ansiGreen
	case favorites.LevelWarning:
		code = ansiYellow
	case favorites.LevelError:
		code = ansiRed
	default:
		return text
	}
	return code + text + ansiReset
}
