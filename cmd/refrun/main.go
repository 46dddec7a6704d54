package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/Quizert/refs/scenario"
	"github.com/Quizert/refs/shared"
)

func formatEvent(e shared.Event) string {
	label := e.Label
	if label == "" {
		label = "-"
	}
	return fmt.Sprintf("block %d %s: %s (strong=%d weak=%d)", e.ID, label, e.Type, e.Strong, e.Weak)
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	stepStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	noteStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	leakStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFB86C"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

func main() {
	var (
		scenarioFile = flag.String("scenario", "", "Path to scenario yaml file")
		journalTail  = flag.Int("journal", 0, "Print the last N lifecycle events after the run")
		verbose      = flag.Bool("v", false, "Log every block lifecycle event")
		noColor      = flag.Bool("no-color", false, "Disable styled output")
		interactive  = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.Parse()

	if *interactive {
		if err := runInteractive(*scenarioFile); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if *scenarioFile == "" {
		fmt.Fprintln(os.Stderr, "Usage: refrun -scenario <file.yaml> [-journal N] [-v] [-no-color]")
		fmt.Fprintln(os.Stderr, "       refrun -i [-scenario <file.yaml>]  (interactive mode)")
		os.Exit(1)
	}

	if err := run(*scenarioFile, *journalTail, *verbose, *noColor); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(path string, journalTail int, verbose, noColor bool) error {
	styled := !noColor && term.IsTerminal(int(os.Stdout.Fd()))
	style := func(s lipgloss.Style, text string) string {
		if !styled {
			return text
		}
		return s.Render(text)
	}

	var log *zap.Logger
	if verbose {
		var err error
		log, err = zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("logger: %w", err)
		}
		defer log.Sync()
	}

	sc, err := scenario.Load(path)
	if err != nil {
		return err
	}

	fmt.Println(style(titleStyle, fmt.Sprintf("Scenario: %s", sc.Name)))
	fmt.Printf("Steps: %d\n\n", len(sc.Steps))

	runner := scenario.NewRunner(log)
	res, runErr := runner.Run(sc)

	for _, sr := range res.Steps {
		fmt.Printf("  %s  %s\n", style(stepStyle, sr.Step.String()), style(noteStyle, sr.Note))
	}
	if runErr != nil {
		fmt.Printf("  %s\n", style(errorStyle, runErr.Error()))
	}

	fmt.Printf("\nDrops: %d\n", res.Drops)
	if len(res.Leaks) == 0 {
		fmt.Println("Leaks: none")
	} else {
		fmt.Printf("Leaks: %d\n", len(res.Leaks))
		fmt.Println(style(leakStyle, runner.Registry().Report()))
	}

	if journalTail > 0 {
		events := runner.Journal().Events()
		if len(events) > journalTail {
			events = events[len(events)-journalTail:]
		}
		fmt.Printf("\nLast %d lifecycle events:\n", len(events))
		for _, e := range events {
			fmt.Printf("  %s\n", style(helpStyle, formatEvent(e)))
		}
	}

	return runErr
}
