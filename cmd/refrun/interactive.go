package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Quizert/refs/scenario"
)

const historyWindow = 16

type historyEntry struct {
	line string
	note string
	err  error
}

type replModel struct {
	runner  *scenario.Runner
	input   textinput.Model
	history []historyEntry
	loadErr error
	seq     int
}

func newReplModel(scenarioFile string) *replModel {
	ti := textinput.New()
	ti.Placeholder = "new a 5"
	ti.Prompt = "> "
	ti.Focus()

	m := &replModel{
		runner: scenario.NewRunner(nil),
		input:  ti,
	}

	if scenarioFile != "" {
		m.preload(scenarioFile)
	}
	return m
}

// preload runs a scenario file so the REPL starts from its end state.
func (m *replModel) preload(path string) {
	sc, err := scenario.Load(path)
	if err != nil {
		m.loadErr = err
		return
	}
	res, err := m.runner.Run(sc)
	for _, sr := range res.Steps {
		m.push(historyEntry{line: sr.Step.String(), note: sr.Note})
		m.seq++
	}
	if err != nil {
		m.loadErr = err
	}
}

func (m *replModel) push(e historyEntry) {
	m.history = append(m.history, e)
	if len(m.history) > historyWindow {
		m.history = m.history[len(m.history)-historyWindow:]
	}
}

func (m *replModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *replModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			line := strings.TrimSpace(m.input.Value())
			m.input.SetValue("")
			if line == "" {
				return m, nil
			}
			return m.exec(line)
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *replModel) exec(line string) (tea.Model, tea.Cmd) {
	switch line {
	case "quit", "exit", "q":
		return m, tea.Quit
	case "report":
		m.push(historyEntry{line: line, note: m.runner.Registry().Report()})
		return m, nil
	case "journal":
		var notes []string
		for _, e := range m.runner.Journal().Events() {
			notes = append(notes, formatEvent(e))
		}
		if len(notes) == 0 {
			notes = []string{"no events"}
		}
		m.push(historyEntry{line: line, note: strings.Join(notes, "\n")})
		return m, nil
	case "help":
		m.push(historyEntry{line: line, note: replHelp})
		return m, nil
	}

	m.seq++
	note, err := m.runner.ApplyCommand(line, fmt.Sprintf("repl[%d]", m.seq))
	m.push(historyEntry{line: line, note: note, err: err})
	return m, nil
}

const replHelp = `ops: new <h> [v] [inner <n>] | from <h> [v] | clone/assign/move/alias/weak/lock/upgrade/swap <h> <from>
     release <h> | expect <h> strong|value|expired|empty <arg> | expect drops <n>
also: report, journal, help, quit`

func (m *replModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("refs scenario REPL"))
	b.WriteByte('\n')

	if m.loadErr != nil {
		b.WriteString(errorStyle.Render(fmt.Sprintf("load error: %v", m.loadErr)))
		b.WriteByte('\n')
	}

	for _, e := range m.history {
		b.WriteString(stepStyle.Render("> " + e.line))
		b.WriteByte('\n')
		switch {
		case e.err != nil:
			b.WriteString(errorStyle.Render("  " + e.err.Error()))
			b.WriteByte('\n')
		case e.note != "":
			for _, ln := range strings.Split(e.note, "\n") {
				b.WriteString(noteStyle.Render("  " + ln))
				b.WriteByte('\n')
			}
		}
	}

	live := m.runner.Registry().Len()
	b.WriteByte('\n')
	b.WriteString(leakStyle.Render(fmt.Sprintf("live blocks: %d, drops: %d", live, m.runner.Drops())))
	b.WriteByte('\n')
	b.WriteString(m.input.View())
	b.WriteByte('\n')
	b.WriteString(helpStyle.Render("enter: run op • help: grammar • report/journal: state • esc: quit"))
	b.WriteByte('\n')

	return b.String()
}

func runInteractive(scenarioFile string) error {
	p := tea.NewProgram(newReplModel(scenarioFile))
	_, err := p.Run()
	return err
}
