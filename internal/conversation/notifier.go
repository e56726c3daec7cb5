package conversation

import (
	"context"
	"fmt"
	"strings"

	"github.com/hammamikhairi/outbackcafe/internal/domain"
	"github.com/hammamikhairi/outbackcafe/internal/logger"
)

// Compile-time interface checks.
var (
	_ domain.Notifier = (*CLINotifier)(nil)
	_ domain.Hooks    = (*CLINotifier)(nil)
)

// ANSI escape codes for terminal formatting.
const (
	reset  = "\033[0m"
	bold   = "\033[1m"
	red    = "\033[31m"
	green  = "\033[32m"
	yellow = "\033[33m"
	cyan   = "\033[36m"
	dim    = "\033[2m"
)

// PrintFunc is a function used to print formatted output.
// Matches the signature of both fmt.Printf and display.UI.Printf.
type PrintFunc func(format string, a ...interface{})

// CLINotifier writes notifications and game events to the feed with ANSI
// formatting. Pickups and drops are too frequent for the feed and only go
// to the debug log.
type CLINotifier struct {
	domain.NopHooks
	log     *logger.Logger
	printFn PrintFunc
}

// NewCLINotifier creates a feed notifier.
// If printFn is nil, fmt.Printf is used.
func NewCLINotifier(log *logger.Logger, printFn PrintFunc) *CLINotifier {
	if printFn == nil {
		printFn = func(format string, a ...interface{}) {
			fmt.Printf(format+"\n", a...)
		}
	}
	return &CLINotifier{log: log, printFn: printFn}
}

// Notify prints a normal notification.
func (n *CLINotifier) Notify(ctx context.Context, message string) error {
	n.log.Debug("notify: %s", message)
	n.printFn("%s%s%s%s", cyan, bold, message, reset)
	return nil
}

// NotifyUrgent prints an urgent notification in bold red.
func (n *CLINotifier) NotifyUrgent(ctx context.Context, message string) error {
	n.log.Debug("notify-urgent: %s", message)
	n.printFn("%s%s%s%s", red, bold, message, reset)
	return nil
}

func (n *CLINotifier) ItemPickedUp(item domain.Item, st domain.Station) {
	n.log.Debug("feed: picked up %s at %s", item.Kind(), st.Object)
}

func (n *CLINotifier) ItemDropped(item domain.Item, st domain.Station) {
	n.log.Debug("feed: dropped %s at %s", item.Kind(), st.Object)
}

func (n *CLINotifier) ProcessorReady(kind domain.StationKind, item domain.Item) {
	n.printFn("%s%s is ready: %s%s", yellow, title(kind.String()), ItemLabel(item.Kind()), reset)
}

func (n *CLINotifier) CustomerSpawned(c domain.CustomerView, plate int) {
	n.printFn("%s%s sits at plate %d and wants %s%s", cyan, c.Name, plate+1, MealLabel(c.Meal), reset)
}

func (n *CLINotifier) CustomerResolved(c domain.CustomerView, plate, delta int) {
	switch c.State {
	case domain.CustomerServed:
		n.printFn("%s%s%s is happy! %+d%s", green, bold, c.Name, delta, reset)
	case domain.CustomerAngry:
		n.printFn("%s%s%s storms off from plate %d. %d%s", red, bold, c.Name, plate+1, delta, reset)
	}
}

func (n *CLINotifier) LevelStarted(name string, mode domain.Mode) {
	n.printFn("%s%s── %s ──%s", bold, cyan, name, reset)
}

func (n *CLINotifier) LevelEnded(r domain.LevelResult) {
	heading := "Time's up!"
	if r.Completed {
		heading = "Completed!"
	}
	n.printFn("%s%s%s %s: %d / %d%s", bold, yellow, heading, r.LevelName, r.Score, r.Required, reset)
	n.printFn("%s", ReportLine(r.Report))

	switch {
	case r.Mode == domain.ModeEndless && r.Continued:
		n.printFn("Next wave staged. Threshold rises. Type %sstart%s when ready.", bold, reset)
	case r.Mode == domain.ModeEndless:
		n.printFn("%sRun over. High score: %d%s  (restart for a new run)", bold, r.HighScore, reset)
	case r.HasNext:
		n.printFn("Type %snext%s for the next level or %srestart%s to replay.", bold, reset, bold, reset)
	default:
		n.printFn("Type %srestart%s to try again or %slevels%s to pick another.", bold, reset, bold, reset)
	}
}

// ReportLine formats a metrics report on one line.
func ReportLine(r domain.Report) string {
	return fmt.Sprintf("%s%s: planning %.1f%%, serve speed %.1f%%, anticipation %.1f%%, served %d/%d in %.1fs%s",
		dim, r.LevelName, r.PlanningPercent, r.ServeSpeedPercent, r.AnticipationPercent,
		r.CustomersServed, r.CustomersSpawned, r.DurationSeconds, reset)
}

// ItemLabel turns a recipe kind into something readable:
// "ingredientCupFilled" becomes "cup (filled)".
func ItemLabel(kind string) string {
	base, state := kind, ""
	switch {
	case domain.NeedsChopper(kind):
		base, state = strings.TrimSuffix(kind, domain.ChoppedSuffix), " (chopped)"
	case domain.NeedsCooler(kind):
		base, state = strings.TrimSuffix(kind, domain.FilledSuffix), " (filled)"
	}
	base = strings.TrimPrefix(base, "ingredient")
	if base == "Cup" {
		base = "cup"
	} else if base != "" {
		base = "i" + base
	}
	return base + state
}

// MealLabel joins the readable labels of a meal.
func MealLabel(meal []string) string {
	labels := make([]string, len(meal))
	for i, k := range meal {
		labels[i] = ItemLabel(k)
	}
	return strings.Join(labels, " + ")
}

func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
