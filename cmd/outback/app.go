package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/hammamikhairi/outbackcafe/internal/conversation"
	"github.com/hammamikhairi/outbackcafe/internal/display"
	"github.com/hammamikhairi/outbackcafe/internal/domain"
	"github.com/hammamikhairi/outbackcafe/internal/engine"
	"github.com/hammamikhairi/outbackcafe/internal/logger"
	"github.com/hammamikhairi/outbackcafe/internal/sfx"
	"github.com/hammamikhairi/outbackcafe/internal/voice"
)

type cliApp struct {
	engine *engine.Engine
	parser domain.IntentParser
	player *sfx.Player // nil when sound is disabled
	ear    *voice.Ear  // nil when voice input is disabled
	log    *logger.Logger
	ui     *display.UI
}

func (a *cliApp) run(ctx context.Context) {
	a.ui.Say("G'day! Welcome to the Outback Cafe.")
	a.showLevels(ctx)

	// Receiving on a nil channel blocks forever, so without voice only
	// the keyboard case fires.
	var voiceCh <-chan string
	if a.ear != nil {
		voiceCh = a.ear.C()
	}
	uiCh := a.ui.InputChan()

	for {
		var input string
		var ok bool

		select {
		case <-ctx.Done():
			return
		case input, ok = <-uiCh:
			if !ok {
				return
			}
		case input = <-voiceCh:
			a.ui.Heard(input)
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		intent, err := a.parser.Parse(ctx, input)
		if err != nil {
			a.log.Error("parsing input: %v", err)
			continue
		}

		a.log.Debug("intent: %s (payload=%q)", intent.Type, intent.Payload)
		if quit := a.handleIntent(ctx, intent); quit {
			return
		}
	}
}

// handleIntent dispatches one intent. It returns true when the player quits.
func (a *cliApp) handleIntent(ctx context.Context, intent *domain.Intent) bool {
	switch intent.Type {
	case domain.IntentMove:
		a.move(intent.Payload)
	case domain.IntentHelp:
		a.showHelp()
	case domain.IntentListLevels:
		a.showLevels(ctx)
	case domain.IntentSelectLevel:
		a.selectLevel(ctx, intent.Payload)
	case domain.IntentStart:
		a.report(a.engine.Start(ctx), "")
	case domain.IntentEndless:
		a.report(a.engine.StartEndless(ctx), "Endless mode! Each wave raises the bar. Type 'start'.")
	case domain.IntentNext:
		a.report(a.engine.Next(ctx), "Next level staged. Type 'start' when ready.")
	case domain.IntentRestart:
		a.report(a.engine.Restart(ctx), "Staged again. Type 'start' when ready.")
	case domain.IntentPause:
		err := a.engine.Pause()
		if err == nil && a.player != nil {
			a.player.Stop()
		}
		a.report(err, "Paused. Type 'resume' to carry on.")
	case domain.IntentResume:
		a.report(a.engine.Resume(), "Back to it!")
	case domain.IntentStatus:
		a.status()
	case domain.IntentStats:
		a.showStats()
	case domain.IntentQuit:
		a.ui.Say("Hooroo! See you next shift.")
		return true
	default:
		a.ui.Hint(fmt.Sprintf("Didn't catch %q. Type 'help' for commands.", intent.Payload))
	}
	return false
}

// report prints an engine error in plain words, or ok when there is none.
func (a *cliApp) report(err error, ok string) {
	switch {
	case err == nil:
		if ok != "" {
			a.ui.Say(ok)
		}
	case errors.Is(err, domain.ErrLevelActive):
		a.ui.Hint("A level is in play. Finish it or pause first.")
	case errors.Is(err, domain.ErrNoLevel):
		a.ui.Hint("Nothing staged. Pick a level ('level 1') or type 'endless'.")
	case errors.Is(err, domain.ErrNoNextLevel):
		a.ui.Hint("No next level yet. Clear this one first, or 'restart'.")
	case errors.Is(err, domain.ErrNotRunning):
		a.ui.Hint("Nothing to pause or resume right now.")
	case errors.Is(err, domain.ErrNotFound):
		a.ui.Hint("No such level. Type 'levels' to see them.")
	default:
		a.log.Error("engine: %v", err)
		a.ui.Alert(fmt.Sprintf("Error: %v", err))
	}
}

func (a *cliApp) move(object string) {
	if a.engine.Move(object) {
		return
	}
	if a.engine.Phase() != domain.PhaseRunning {
		a.ui.Hint("The kitchen is closed. Type 'start' to open it.")
		return
	}
	a.ui.Hint(fmt.Sprintf("There's no %q in this kitchen.", object))
}

func (a *cliApp) selectLevel(ctx context.Context, payload string) {
	n, err := strconv.Atoi(payload)
	if err != nil || n < 1 {
		a.ui.Hint("Pick a level by number, e.g. 'level 2'.")
		return
	}
	if err := a.engine.SelectLevel(ctx, n-1); err != nil {
		a.report(err, "")
		return
	}
	a.ui.Say(fmt.Sprintf("Level %d staged. Check the menu, then type 'start'.", n))
}

func (a *cliApp) showLevels(ctx context.Context) {
	levels, err := a.engine.ListLevels(ctx)
	if err != nil {
		a.ui.Alert(fmt.Sprintf("Error loading levels: %v", err))
		return
	}
	a.ui.Heading("Levels:")
	for _, l := range levels {
		a.ui.Line(fmt.Sprintf("[%d] %s", l.Index+1, l.Name))
	}
	a.ui.Hint("'level N' stages a level, 'endless' starts an endless run.")
}

func (a *cliApp) status() {
	s := a.engine.Snapshot()
	if s.Phase == domain.PhaseIdle {
		a.ui.Hint("Nothing staged yet.")
		return
	}
	a.ui.Heading(fmt.Sprintf("%s (%s)", s.LevelName, s.Phase))
	a.ui.Line(fmt.Sprintf("Score %d / %d, %ds left", s.Score, s.Required, s.TimeLeft))
	if !s.Held.IsZero() {
		a.ui.Line("Holding " + conversation.ItemLabel(s.Held.Kind()))
	}
	for _, p := range s.Plates {
		if p.Customer == nil {
			continue
		}
		a.ui.Line(fmt.Sprintf("Plate %d: %s wants %s (%.0f%% patience)",
			p.Index+1, p.Customer.Name, conversation.MealLabel(p.Customer.Meal), p.Customer.Patience*100))
	}
	if s.Mode == domain.ModeEndless {
		a.ui.Hint(fmt.Sprintf("Wave %d, best score %d", s.Wave, s.HighScore))
	}
}

func (a *cliApp) showStats() {
	h := a.engine.History()
	if h.TotalLevelsPlayed == 0 {
		a.ui.Hint("No levels played today.")
		return
	}
	a.ui.Heading("Today:")
	for _, r := range h.Sessions {
		a.ui.Println(conversation.ReportLine(r))
	}
	planning, speed, anticipation := h.Averages()
	a.ui.Line(fmt.Sprintf("Averages: planning %.1f%%, serve speed %.1f%%, anticipation %.1f%%",
		planning, speed, anticipation))
	a.ui.Line(fmt.Sprintf("%d levels, %d/%d customers served, %.0fs in the kitchen",
		h.TotalLevelsPlayed, h.TotalCustomersServed, h.TotalCustomersSpawned, h.TotalDuration))
}

func (a *cliApp) showHelp() {
	a.ui.Heading("Moving around (during a level):")
	a.ui.Line("1 / 2 / 3, plate N      go to a plate and drop what you hold")
	a.ui.Line("i1 .. i7, ingredient N  grab an ingredient")
	a.ui.Line("cup                     grab an empty cup")
	a.ui.Line("cooler / water          fill a cup, or collect a filled one")
	a.ui.Line("chop / chopper          chop i3 or i4, or collect it")
	a.ui.Line("bin / trash             throw away what you hold and clear plates")
	a.ui.Heading("Game:")
	a.ui.Line("levels, level N, start, endless, next, restart")
	a.ui.Line("pause, resume, status, stats, help, quit")
}
