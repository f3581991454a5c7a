package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jwebster45206/fifteen-days/internal/config"
	"github.com/jwebster45206/fifteen-days/internal/logger"
	"github.com/jwebster45206/fifteen-days/internal/sources"
	"github.com/jwebster45206/fifteen-days/pkg/game"
	"github.com/jwebster45206/fifteen-days/pkg/locale"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	// The terminal belongs to the UI, so logs go to a file in debug mode
	// and nowhere otherwise.
	log, closeLog, err := logger.SetupConsole(cfg, "console.log")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	srcs, err := sources.Build(cfg, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load content: %v\n", err)
		os.Exit(1)
	}

	loc := cfg.Locale
	src, ok := srcs[loc]
	if !ok {
		// A level script may carry a locale other than the configured one.
		for _, l := range locale.Supported {
			if s, found := srcs[l]; found {
				loc, src = l, s
				break
			}
		}
	}
	if src == nil {
		fmt.Fprintf(os.Stderr, "No content available for locale %s\n", cfg.Locale)
		os.Exit(1)
	}

	p := tea.NewProgram(NewConsoleUI(game.NewManager(src, loc, log)),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
}
