package display

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/hammamikhairi/outbackcafe/internal/conversation"
	"github.com/hammamikhairi/outbackcafe/internal/domain"
)

var (
	barBg = lipgloss.NewStyle().
		Background(lipgloss.Color("#292524")).
		Foreground(lipgloss.Color("#a8a29e"))

	labelStyle   = fg("#a8a29e")
	valueStyle   = fg("#fcd34d")
	lowTimeStyle = fg("#f87171").Bold(true)
	sepStyle     = fg("#57534e")
	readyStyle   = fg("#9ccc65").Bold(true)
	busyStyle    = fg("#fcd34d")
	emptyStyle   = fg("#57534e").Italic(true)

	barFullStyle = fg("#9ccc65")
	barMidStyle  = fg("#fcd34d")
	barLowStyle  = fg("#f87171")
	barRestStyle = fg("#44403c")
)

const barWidth = 10

// RenderHUD draws the status bar, the player line, the processors and
// one row per plate. It returns "" when nothing is staged.
func RenderHUD(s domain.Snapshot, width int) string {
	if s.Phase == domain.PhaseIdle {
		return ""
	}
	if width <= 0 {
		width = 80
	}

	sep := sepStyle.Render("  │  ")
	var b strings.Builder

	status := []string{
		valueStyle.Render(s.LevelName),
		labelStyle.Render(s.Phase.String()),
		labelStyle.Render("time ") + timeStyle(s.TimeLeft).Render(fmt.Sprintf("%ds", s.TimeLeft)),
		labelStyle.Render("score ") + valueStyle.Render(fmt.Sprintf("%d/%d", s.Score, s.Required)),
	}
	if s.Mode == domain.ModeEndless {
		status = append(status, labelStyle.Render("best ")+valueStyle.Render(fmt.Sprint(s.HighScore)))
	}
	b.WriteString(barBg.Width(width).Render(" " + strings.Join(status, sep) + " "))
	b.WriteByte('\n')

	if s.Phase == domain.PhaseMenu {
		b.WriteString(renderMenu(s.Menu))
		return strings.TrimRight(b.String(), "\n")
	}

	held := emptyStyle.Render("nothing")
	if !s.Held.IsZero() {
		held = valueStyle.Render(conversation.ItemLabel(s.Held.Kind()))
	}
	b.WriteString(fmt.Sprintf("  %s %s%s%s %s\n",
		labelStyle.Render("at"), lineStyle.Render(s.Station), sep,
		labelStyle.Render("holding"), held))

	var procs []string
	for _, p := range s.Processors {
		procs = append(procs, labelStyle.Render(p.Kind.String()+" ")+processorState(p))
	}
	if len(procs) > 0 {
		b.WriteString("  " + strings.Join(procs, sep) + "\n")
	}

	for _, p := range s.Plates {
		b.WriteString(renderPlate(p))
		b.WriteByte('\n')
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderMenu(menu []domain.Archetype) string {
	var b strings.Builder
	b.WriteString("  " + headingStyle.Render("On the menu today:") + "\n")
	for _, a := range menu {
		b.WriteString(fmt.Sprintf("    %-9s %s\n", a.Name, hintStyle.Render(conversation.MealLabel(a.Meal))))
	}
	b.WriteString("  " + hintStyle.Render("type 'start' when ready"))
	return b.String()
}

func processorState(p domain.ProcessorView) string {
	switch p.State {
	case domain.ProcessorBusy:
		return busyStyle.Render(fmt.Sprintf("%s %.1fs", conversation.ItemLabel(p.Item.Kind()), p.ReadyIn.Seconds()))
	case domain.ProcessorReady:
		return readyStyle.Render(conversation.ItemLabel(p.Item.Kind()) + " ready")
	default:
		return emptyStyle.Render("empty")
	}
}

func renderPlate(p domain.PlateView) string {
	label := labelStyle.Render(fmt.Sprintf("  [%d] ", p.Index+1))
	contents := emptyStyle.Render("empty")
	if len(p.Contents) > 0 {
		contents = lineStyle.Render(conversation.MealLabel(p.Contents))
	}
	if p.Customer == nil {
		return label + emptyStyle.Render(fmt.Sprintf("%-9s", "-")) + " " + contents
	}
	c := p.Customer
	return label +
		valueStyle.Render(fmt.Sprintf("%-9s", c.Name)) + " " +
		PatienceBar(c.Patience) + " " +
		hintStyle.Render("wants "+conversation.MealLabel(c.Meal)) +
		sepStyle.Render("  on plate: ") + contents
}

// PatienceBar renders patience in [0, 1] as a coloured bar.
func PatienceBar(patience float64) string {
	filled := int(patience*barWidth + 0.5)
	filled = max(0, min(barWidth, filled))

	style := barFullStyle
	switch {
	case patience < 0.25:
		style = barLowStyle
	case patience < 0.5:
		style = barMidStyle
	}
	return style.Render(strings.Repeat("█", filled)) + barRestStyle.Render(strings.Repeat("░", barWidth-filled))
}

func timeStyle(left int) lipgloss.Style {
	if left <= 10 {
		return lowTimeStyle
	}
	return valueStyle
}

// Title returns the terminal window title for a snapshot.
func Title(s domain.Snapshot) string {
	switch s.Phase {
	case domain.PhaseRunning:
		return fmt.Sprintf("Outback Cafe | %s | %ds | %d/%d", s.LevelName, s.TimeLeft, s.Score, s.Required)
	case domain.PhasePaused:
		return fmt.Sprintf("Outback Cafe | %s | paused", s.LevelName)
	default:
		return "Outback Cafe"
	}
}
