package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"webpseq/internal/command"
	"webpseq/internal/config"
	"webpseq/internal/options"
	"webpseq/internal/runner"
)

const maxLogLines = 500

type FormConfig struct {
	Options  options.OptionSet
	Runner   *runner.Runner
	SavePath string
	Context  context.Context
}

type formField struct {
	field options.Field
	input textinput.Model
}

// Form edits an OptionSet, shows the generated command on request and
// runs it through a runner.Runner, streaming the encoder output.
type Form struct {
	cfg     FormConfig
	fields  []formField
	bools   options.OptionSet
	focus   int
	preview string
	status  string
	success bool
	run     *runner.Run
	log     []string
	logView viewport.Model
	width   int
}

type lineMsg struct {
	runID string
	line  string
}

type runDoneMsg struct {
	runID   string
	outcome runner.Outcome
}

type savedMsg struct {
	path string
	err  error
}

type loadedMsg struct {
	path string
	opts options.OptionSet
	err  error
}

func NewForm(cfg FormConfig) Form {
	if cfg.Context == nil {
		cfg.Context = context.Background()
	}
	m := Form{cfg: cfg, logView: viewport.New(80, 10)}
	for _, f := range options.Fields() {
		ff := formField{field: f}
		if f.Kind != options.KindBool {
			in := textinput.New()
			in.Prompt = ""
			in.CharLimit = 512
			ff.input = in
		}
		m.fields = append(m.fields, ff)
	}
	m.load(cfg.Options)
	m.setFocus(0)
	return m
}

// load replaces every field with the values in o.
func (m *Form) load(o options.OptionSet) {
	m.bools = o
	for i := range m.fields {
		if m.fields[i].field.Kind != options.KindBool {
			m.fields[i].input.SetValue(m.fields[i].field.Format(o))
		}
	}
}

// Options assembles the option set from the current field contents.
func (m Form) Options() (options.OptionSet, error) {
	o := m.bools
	var errs []error
	for _, ff := range m.fields {
		if ff.field.Kind == options.KindBool {
			continue
		}
		if err := ff.field.Set(&o, ff.input.Value()); err != nil {
			errs = append(errs, err)
		}
	}
	return o, errors.Join(errs...)
}

// Command builds the invocation for the current field contents.
func (m Form) Command() (command.Command, error) {
	o, err := m.Options()
	if err != nil {
		return command.Command{}, err
	}
	return command.Build(o)
}

func (m Form) Running() bool {
	return m.run != nil
}

func (m Form) Init() tea.Cmd {
	return textinput.Blink
}

func (m Form) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case lineMsg:
		if m.run == nil || msg.runID != m.run.ID {
			return m, nil
		}
		m.appendLog(msg.line)
		return m, waitForLine(m.run)
	case runDoneMsg:
		if m.run == nil || msg.runID != m.run.ID {
			return m, nil
		}
		m.run = nil
		m.success = msg.outcome.Success()
		m.status = "Encoder " + msg.outcome.String()
		return m, nil
	case savedMsg:
		if msg.err != nil {
			m.success = false
			m.status = fmt.Sprintf("Save failed: %v", msg.err)
		} else {
			m.success = true
			m.status = "Saved " + msg.path
		}
		return m, nil
	case loadedMsg:
		if msg.err != nil {
			m.success = false
			m.status = fmt.Sprintf("Load failed: %v", msg.err)
			return m, nil
		}
		m.load(msg.opts)
		m.preview = ""
		m.success = true
		m.status = "Loaded " + msg.path
		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.logView.Width = max(20, msg.Width-2)
		m.logView.Height = max(5, msg.Height-len(m.fields)-10)
		return m, nil
	}
	return m.forward(msg)
}

func (m Form) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "ctrl+q":
		if m.run != nil {
			m.run.Cancel()
		}
		return m, tea.Quit
	case "tab", "down":
		m.setFocus((m.focus + 1) % len(m.fields))
		return m, nil
	case "shift+tab", "up":
		m.setFocus((m.focus - 1 + len(m.fields)) % len(m.fields))
		return m, nil
	case " ", "enter":
		if m.fields[m.focus].field.Kind == options.KindBool {
			p := m.fields[m.focus].field.Ptr(&m.bools).(*bool)
			*p = !*p
			return m, nil
		}
	case "ctrl+g":
		m.showCommand()
		return m, nil
	case "ctrl+r":
		return m.startRun()
	case "ctrl+x", "esc":
		if m.run != nil {
			m.run.Cancel()
			m.success = false
			m.status = "Cancelling encoder..."
		}
		return m, nil
	case "ctrl+s":
		return m, m.save()
	case "ctrl+o":
		return m, m.reload()
	case "ctrl+l":
		m.log = nil
		m.logView.SetContent("")
		return m, nil
	}
	return m.forward(msg)
}

func (m Form) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	ff := &m.fields[m.focus]
	if ff.field.Kind == options.KindBool {
		return m, nil
	}
	var cmd tea.Cmd
	ff.input, cmd = ff.input.Update(msg)
	return m, cmd
}

func (m *Form) setFocus(i int) {
	for idx := range m.fields {
		if m.fields[idx].field.Kind == options.KindBool {
			continue
		}
		if idx == i {
			m.fields[idx].input.Focus()
		} else {
			m.fields[idx].input.Blur()
		}
	}
	m.focus = i
}

func (m *Form) showCommand() {
	cmd, err := m.Command()
	if err != nil {
		m.preview = ""
		m.success = false
		m.status = err.Error()
		return
	}
	binary := runner.BinaryName()
	if m.cfg.Runner != nil {
		binary = m.cfg.Runner.Binary()
	}
	m.preview = cmd.Line(binary) + "\n-> " + cmd.OutputPath
	m.status = ""
}

func (m Form) startRun() (tea.Model, tea.Cmd) {
	if m.run != nil {
		m.success = false
		m.status = runner.ErrAlreadyRunning.Error()
		return m, nil
	}
	if m.cfg.Runner == nil {
		m.success = false
		m.status = "no encoder configured"
		return m, nil
	}
	m.showCommand()
	cmd, err := m.Command()
	if err != nil {
		return m, nil
	}

	run, err := m.cfg.Runner.Run(m.cfg.Context, cmd.Args)
	if err != nil {
		m.success = false
		m.status = err.Error()
		var launchErr *runner.LaunchError
		if errors.As(err, &launchErr) {
			m.status = "Encoder " + launchErr.Outcome().String()
		}
		return m, nil
	}
	m.run = run
	m.log = nil
	m.logView.SetContent("")
	m.success = true
	m.status = "Running " + cmd.OutputPath
	return m, waitForLine(run)
}

func (m Form) save() tea.Cmd {
	o, err := m.Options()
	path := m.cfg.SavePath
	return func() tea.Msg {
		if err != nil {
			return savedMsg{path: path, err: err}
		}
		if path == "" {
			return savedMsg{err: errors.New("no config path")}
		}
		return savedMsg{path: path, err: config.Save(path, o)}
	}
}

// reload reads the config file on top of the built-in defaults, so keys
// missing from the file reset to their defaults.
func (m Form) reload() tea.Cmd {
	path := m.cfg.SavePath
	return func() tea.Msg {
		if path == "" {
			return loadedMsg{err: errors.New("no config path")}
		}
		o, err := config.Load(path, options.Defaults())
		return loadedMsg{path: path, opts: o, err: err}
	}
}

func (m *Form) appendLog(line string) {
	m.log = append(m.log, line)
	if len(m.log) > maxLogLines {
		m.log = m.log[len(m.log)-maxLogLines:]
	}
	m.logView.SetContent(strings.Join(m.log, "\n"))
	m.logView.GotoBottom()
}

func waitForLine(run *runner.Run) tea.Cmd {
	return func() tea.Msg {
		line, ok := <-run.Lines()
		if !ok {
			return runDoneMsg{runID: run.ID, outcome: run.Wait()}
		}
		return lineMsg{runID: run.ID, line: line}
	}
}

func (m Form) View() string {
	labelWidth := 0
	for _, ff := range m.fields {
		labelWidth = max(labelWidth, lipgloss.Width(ff.field.Label))
	}

	lines := []string{titleStyle.Render("webpseq"), ""}
	for i, ff := range m.fields {
		cursor := "  "
		if i == m.focus {
			cursor = focusStyle.Render("> ")
		}
		var value string
		if ff.field.Kind == options.KindBool {
			box := "[ ]"
			if *ff.field.Ptr(&m.bools).(*bool) {
				box = "[x]"
			}
			value = labelStyle.Render(box)
		} else {
			value = ff.input.View()
			if b, ok := ff.field.Bound(); ok {
				value += "  " + dimStyle.Render(b.String())
			}
		}
		lines = append(lines, cursor+dimStyle.Render(padRight(ff.field.Label, labelWidth))+"  "+value)
	}

	if m.preview != "" {
		lines = append(lines, "", previewStyle.Render(m.preview))
	}
	if m.status != "" {
		lines = append(lines, "", StatusStyle(m.success).Render(m.status))
	}
	if len(m.log) > 0 {
		lines = append(lines, "", m.logView.View())
	}
	lines = append(lines, "", dimStyle.Render("tab/shift+tab move · space toggle · ctrl+g command · ctrl+r run · ctrl+x cancel · ctrl+s save · ctrl+o load · ctrl+c quit"))
	return strings.Join(lines, "\n")
}

var (
	focusStyle   = lipgloss.NewStyle().Foreground(ColorAccent).Bold(true)
	previewStyle = lipgloss.NewStyle().Foreground(ColorAccentAlt).Border(lipgloss.NormalBorder()).BorderForeground(ColorDim).Padding(0, 1)
)
