package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sadopc/planr/internal/config"
	"github.com/sadopc/planr/internal/export"
	"github.com/sadopc/planr/internal/store"
	"github.com/sadopc/planr/internal/tui"
)

func main() {
	importPath := flag.String("import", "", "import events from an .ics file and exit")
	flag.Parse()

	cfgPath, err := config.DefaultPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading config: %v\n", err)
		os.Exit(1)
	}

	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath, err = store.DefaultDBPath()
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	}

	s, err := store.New(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error opening database: %v\n", err)
		os.Exit(1)
	}
	defer s.Close()

	if *importPath != "" {
		if err := runImport(s, *importPath); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	app := tui.NewApp(s, cfg, cfgPath)
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func runImport(s *store.Store, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	events, skipped, err := export.FromICS(f)
	if err != nil {
		return err
	}
	imported := 0
	for _, e := range events {
		if _, err := s.CreateEvent(e); err != nil {
			return fmt.Errorf("import %q: %w", e.Title, err)
		}
		imported++
	}
	fmt.Printf("imported %d event(s)", imported)
	if skipped > 0 {
		fmt.Printf(", skipped %d without usable times", skipped)
	}
	fmt.Println()
	return nil
}
