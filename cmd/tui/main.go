package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"qbank/app"
	"qbank/config"
	"qbank/tui"
)

func main() {
	cfg := config.Load()

	apiURL := flag.String("url", cfg.APIURL, "Question bank API base URL")
	exportDir := flag.String("export-dir", ".", "Directory for exported bucket workbooks")
	logFile := flag.String("log", "", "Write process logs to this file (default: discard)")
	flag.Parse()
	cfg.APIURL = *apiURL

	// Process logs would corrupt the terminal UI
	log.SetOutput(io.Discard)
	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Printf("Error opening log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		log.SetOutput(f)
	}

	a := app.New(context.Background(), cfg)
	defer a.Close()

	m := tui.NewModel(a).WithExportDir(*exportDir)
	program := tea.NewProgram(m, tea.WithAltScreen())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		program.Quit()
	}()

	if _, err := program.Run(); err != nil {
		fmt.Printf("Error running program: %v\n", err)
		os.Exit(1)
	}
}
