package ui

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type progressImpl struct {
	theme    *Theme
	headless *HeadlessManager
	writer   io.Writer
}

// NewProgress returns a Progress that animates on a terminal and falls
// back to plain lines when headless or colorless. Output goes to w, or
// os.Stdout when w is nil.
func NewProgress(theme *Theme, hm *HeadlessManager, w io.Writer) Progress {
	if w == nil {
		w = os.Stdout
	}
	return &progressImpl{theme: theme, headless: hm, writer: w}
}

func (p *progressImpl) plain() bool {
	return p.headless.IsHeadless() || p.theme.NoColor
}

// Start creates a determinate progress bar with the given total.
func (p *progressImpl) Start(title string, total int) ProgressBar {
	if p.plain() {
		return &lineProgressBar{title: title, total: total, writer: p.writer}
	}
	return newAnimatedProgressBar(p.theme, title, total, p.writer)
}

// Spinner creates an indeterminate spinner.
func (p *progressImpl) Spinner(title string) Spinner {
	if p.plain() {
		return newLineSpinner(title, p.writer)
	}
	return newAnimatedSpinner(p.theme, title, p.writer)
}

// Spinner model.

type spinnerTitleMsg string

type spinnerStopMsg struct{}

type spinnerModel struct {
	spinner spinner.Model
	title   string
	done    bool
}

func newSpinnerModel(theme *Theme, title string) spinnerModel {
	s := spinner.New(spinner.WithSpinner(spinner.MiniDot))
	s.Style = lipgloss.NewStyle().Foreground(theme.color(theme.Colors.Primary))
	return spinnerModel{spinner: s, title: title}
}

func (m spinnerModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinnerTitleMsg:
		m.title = string(msg)
		return m, nil
	case spinnerStopMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.done = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m spinnerModel) View() string {
	if m.done {
		return ""
	}
	return m.spinner.View() + " " + m.title + "\n"
}

type animatedSpinner struct {
	program *tea.Program
	once    sync.Once
}

// The program runs on its own goroutine until Stop; Stop waits for it.
func newAnimatedSpinner(theme *Theme, title string, w io.Writer) *animatedSpinner {
	p := tea.NewProgram(newSpinnerModel(theme, title), tea.WithOutput(w), tea.WithInput(nil))
	go func() {
		_, _ = p.Run()
	}()
	return &animatedSpinner{program: p}
}

func (s *animatedSpinner) SetTitle(title string) {
	s.program.Send(spinnerTitleMsg(title))
}

func (s *animatedSpinner) Stop() {
	s.once.Do(func() {
		s.program.Send(spinnerStopMsg{})
		s.program.Wait()
	})
}

// Progress bar model.

type progressIncrMsg int

type progressTitleMsg string

type progressDoneMsg struct{}

type progressModel struct {
	bar     progress.Model
	title   string
	current int
	total   int
	done    bool
}

func newProgressModel(theme *Theme, title string, total int) progressModel {
	bar := progress.New(
		progress.WithGradient(theme.Colors.Primary, theme.Colors.Secondary),
		progress.WithWidth(40),
	)
	return progressModel{bar: bar, title: title, total: total}
}

func (m progressModel) Init() tea.Cmd {
	return nil
}

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case progressIncrMsg:
		m.current = clamp(m.current+int(msg), m.total)
		return m, nil
	case progressTitleMsg:
		m.title = string(msg)
		return m, nil
	case progressDoneMsg:
		m.current = m.total
		m.done = true
		return m, tea.Quit
	case progress.FrameMsg:
		pm, cmd := m.bar.Update(msg)
		m.bar = pm.(progress.Model)
		return m, cmd
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.done = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m progressModel) View() string {
	if m.done {
		return ""
	}
	pct := 0.0
	if m.total > 0 {
		pct = float64(m.current) / float64(m.total)
	}
	return m.bar.ViewAs(pct) + " " + stepLine(m.current, m.total, m.title)
}

type animatedProgressBar struct {
	program *tea.Program
	once    sync.Once
}

func newAnimatedProgressBar(theme *Theme, title string, total int, w io.Writer) *animatedProgressBar {
	p := tea.NewProgram(newProgressModel(theme, title, total), tea.WithOutput(w), tea.WithInput(nil))
	go func() {
		_, _ = p.Run()
	}()
	return &animatedProgressBar{program: p}
}

func (b *animatedProgressBar) Increment(n int) {
	b.program.Send(progressIncrMsg(n))
}

func (b *animatedProgressBar) SetTitle(title string) {
	b.program.Send(progressTitleMsg(title))
}

func (b *animatedProgressBar) Done() {
	b.once.Do(func() {
		b.program.Send(progressDoneMsg{})
		b.program.Wait()
	})
}

// lineProgressBar writes one line per step.
type lineProgressBar struct {
	mu      sync.Mutex
	title   string
	total   int
	current int
	writer  io.Writer
	done    bool
}

func (b *lineProgressBar) Increment(n int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.current = clamp(b.current+n, b.total)
	_, _ = io.WriteString(b.writer, stepLine(b.current, b.total, b.title))
}

func (b *lineProgressBar) SetTitle(title string) {
	b.mu.Lock()
	b.title = title
	b.mu.Unlock()
}

// Done prints the final line once, unless the last increment already
// reached the total.
func (b *lineProgressBar) Done() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.done {
		return
	}
	b.done = true
	if b.current < b.total {
		b.current = b.total
		_, _ = io.WriteString(b.writer, stepLine(b.current, b.total, b.title))
	}
}

// lineSpinner prints each title on its own line.
type lineSpinner struct {
	mu     sync.Mutex
	writer io.Writer
}

func newLineSpinner(title string, w io.Writer) *lineSpinner {
	_, _ = fmt.Fprintln(w, title)
	return &lineSpinner{writer: w}
}

func (s *lineSpinner) SetTitle(title string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, _ = fmt.Fprintln(s.writer, title)
}

func (s *lineSpinner) Stop() {}

func stepLine(current, total int, title string) string {
	return fmt.Sprintf("[%d/%d] %s\n", current, total, title)
}

func clamp(v, limit int) int {
	if v > limit {
		return limit
	}
	if v < 0 {
		return 0
	}
	return v
}
