// Package display provides the terminal UI using Bubble Tea.
//
// The [UI] type manages a persistent kitchen HUD and an input prompt at
// the bottom of the terminal. All feed output is printed above the
// rendered area via Program.Println / Printf, ensuring concurrent writes
// never garble the display.
//
// The HUD never reads the engine itself: the frame loop pushes a fresh
// [domain.Snapshot] with [UI.Refresh]. Engine hooks run under the game
// lock and print through the same program, so the Bubble Tea loop must
// never wait on that lock.
package display

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hammamikhairi/outbackcafe/internal/domain"
)

// ── Styles ───────────────────────────────────────────────────────

// fg is a foreground-only style.
func fg(hex string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(hex))
}

var (
	// BannerStyle is the warm amber used for the startup banner.
	BannerStyle = fg("#fcd34d")

	promptStyle  = fg("#d6a35c") // ochre
	sayStyle     = fg("#a5f3fc")
	headingStyle = fg("#9ccc65") // eucalyptus
	lineStyle    = fg("#e7e5e4")
	hintStyle    = fg("#78716c")
	alertStyle   = fg("#f87171").Bold(true)
	echoStyle    = fg("#a8a29e")
)

const promptText = "cafe> "

// ── UI ───────────────────────────────────────────────────────────

// UI manages the terminal through Bubble Tea.
//
// Call [NewUI] then [UI.Run] (blocking). Other goroutines may safely
// call [UI.Println], [UI.Printf], [UI.Refresh] and read from
// [UI.InputChan] at any time after [UI.WaitReady] returns.
type UI struct {
	program *tea.Program
	inputCh chan string
	readyCh chan struct{}
	quitCh  chan struct{}
	started atomic.Bool
	done    atomic.Bool
}

// NewUI creates the display. Call Run() to start.
func NewUI() *UI {
	u := &UI{
		inputCh: make(chan string, 16),
		readyCh: make(chan struct{}),
		quitCh:  make(chan struct{}),
	}

	ti := textinput.New()
	// Plain-text prompt: styled prompts add ANSI bytes that break the
	// textinput width math.
	ti.Prompt = promptText
	ti.PromptStyle = promptStyle
	ti.TextStyle = echoStyle
	ti.Cursor.Style = promptStyle
	ti.Focus()
	ti.CharLimit = 120
	ti.Width = 60 // updated on first WindowSizeMsg

	m := model{
		input:   ti,
		inputCh: u.inputCh,
		readyCh: u.readyCh,
		echoFn:  u.Echo,
	}
	u.program = tea.NewProgram(m)
	return u
}

func (u *UI) live() bool { return u.started.Load() && !u.done.Load() }

// Println prints a line above the prompt. Thread-safe.
// If the program hasn't started yet, falls back to fmt.Println.
func (u *UI) Println(a ...interface{}) {
	if u.live() {
		u.program.Println(a...)
	} else {
		fmt.Println(a...)
	}
}

// Printf prints formatted text above the prompt on its own line. Thread-safe.
func (u *UI) Printf(format string, a ...interface{}) {
	if u.live() {
		u.program.Printf(format, a...)
	} else {
		fmt.Printf(format+"\n", a...)
	}
}

// Refresh hands the HUD a new snapshot. Must not be called with the
// engine lock held.
func (u *UI) Refresh(s domain.Snapshot) {
	if u.live() {
		u.program.Send(snapshotMsg(s))
	}
}

// InputChan returns completed user-input lines.
func (u *UI) InputChan() <-chan string { return u.inputCh }

// ── Feed helpers ─────────────────────────────────────────────────

// Say prints a line in the cafe's own voice.
func (u *UI) Say(text string) {
	u.Println(sayStyle.Render("  " + text))
}

// Heading prints a section title like "Levels:".
func (u *UI) Heading(text string) {
	u.Println(headingStyle.Render("  " + text))
}

// Line prints an indented body line.
func (u *UI) Line(text string) {
	u.Println(lineStyle.Render("  " + text))
}

// Hint prints a dimmed tip.
func (u *UI) Hint(text string) {
	u.Println(hintStyle.Render("  " + text))
}

// Alert prints an error in bold red.
func (u *UI) Alert(text string) {
	u.Println(alertStyle.Render("  " + text))
}

// Heard shows what the microphone picked up.
func (u *UI) Heard(text string) {
	u.Println(hintStyle.Render("[voice] ") + lineStyle.Render(text))
}

// Echo copies a typed command into the scrollback.
func (u *UI) Echo(text string) {
	u.Println(promptStyle.Render("cafe") + hintStyle.Render("> ") + echoStyle.Render(text))
}

// WaitReady blocks until the Bubble Tea event loop is running.
func (u *UI) WaitReady() { <-u.readyCh }

// Quit tells Bubble Tea to exit.
func (u *UI) Quit() { u.program.Quit() }

// QuitChan is closed when Run returns.
func (u *UI) QuitChan() <-chan struct{} { return u.quitCh }

// Run starts the Bubble Tea event loop. Blocks until quit.
func (u *UI) Run() error {
	u.started.Store(true)
	_, err := u.program.Run()
	u.done.Store(true)
	close(u.quitCh)
	return err
}

// ── Bubble Tea model ─────────────────────────────────────────────

type model struct {
	input   textinput.Model
	inputCh chan<- string
	readyCh chan struct{}
	echoFn  func(string)
	snap    domain.Snapshot
	width   int
}

type snapshotMsg domain.Snapshot

func (m model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		signalReady(m.readyCh),
		tea.SetWindowTitle("Outback Cafe"),
	)
}

func signalReady(ch chan struct{}) tea.Cmd {
	return func() tea.Msg {
		close(ch)
		return nil
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			return m, tea.Quit
		case tea.KeyEnter:
			v := m.input.Value()
			m.input.Reset()
			if strings.TrimSpace(v) == "" {
				return m, nil
			}
			m.inputCh <- v
			// Echo from a Cmd so Println doesn't deadlock on msgs.
			echoFn := m.echoFn
			return m, func() tea.Msg {
				echoFn(v)
				return nil
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		if msg.Width > len(promptText) {
			m.input.Width = msg.Width - len(promptText)
		}
		return m, nil

	case snapshotMsg:
		prev := m.snap
		m.snap = domain.Snapshot(msg)
		if t := Title(m.snap); t != Title(prev) {
			return m, tea.SetWindowTitle(t)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m model) View() string {
	var b strings.Builder
	if hud := RenderHUD(m.snap, m.width); hud != "" {
		b.WriteString(hud)
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	b.WriteString(m.input.View())
	return b.String()
}
