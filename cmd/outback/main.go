// Outback Cafe, a terminal kitchen game.
//
// Usage:
//
//	outback [-config path] [-verbose] [-quiet] [-log-file f] [-db path]
//	        [-levels file] [-no-sound] [-voice] [-seed n]
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	stdlog "log"
	"os"
	"path/filepath"
	"strings"

	"github.com/hammamikhairi/outbackcafe/internal/config"
	"github.com/hammamikhairi/outbackcafe/internal/conversation"
	"github.com/hammamikhairi/outbackcafe/internal/display"
	"github.com/hammamikhairi/outbackcafe/internal/domain"
	"github.com/hammamikhairi/outbackcafe/internal/engine"
	"github.com/hammamikhairi/outbackcafe/internal/kitchen"
	"github.com/hammamikhairi/outbackcafe/internal/level"
	"github.com/hammamikhairi/outbackcafe/internal/logger"
	"github.com/hammamikhairi/outbackcafe/internal/sfx"
	"github.com/hammamikhairi/outbackcafe/internal/storage"
	"github.com/hammamikhairi/outbackcafe/internal/timer"
	"github.com/hammamikhairi/outbackcafe/internal/voice"
)

func main() {
	configPath := flag.String("config", "outback.yaml", "path to the YAML config file (optional)")
	verbose := flag.Bool("verbose", false, "enable verbose/debug logging")
	quiet := flag.Bool("quiet", false, "disable all logging")
	logFile := flag.String("log-file", "", "file to write logs to (use \"stderr\" to log to console)")
	dbPath := flag.String("db", "", "SQLite database for stats and high score (\"memory\" keeps nothing)")
	levelsFile := flag.String("levels", "", "YAML file with custom levels")
	noSound := flag.Bool("no-sound", false, "disable sound effects")
	voiceOn := flag.Bool("voice", false, "enable voice commands via local Whisper STT")
	seed := flag.Uint64("seed", 0, "random seed for spawns (0 picks one)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	applyFlags(cfg, *verbose, *quiet, *logFile, *dbPath, *levelsFile, *noSound, *voiceOn)

	logLevel := logger.ParseLevel(cfg.Log.Level)

	// Direct logs to a file by default so the HUD stays clean.
	var logOut io.Writer = os.Stderr
	if cfg.Log.File != "" && cfg.Log.File != "stderr" {
		if dir := filepath.Dir(cfg.Log.File); dir != "" && dir != "." {
			os.MkdirAll(dir, 0o755)
		}
		f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not open log file %s: %v (falling back to stderr)\n", cfg.Log.File, err)
		} else {
			logOut = f
			defer f.Close()
		}
	}

	// Third-party libs (the whisper transcriber) log through the standard
	// package; send that to the same place.
	stdlog.SetOutput(logOut)
	stdlog.SetFlags(stdlog.Ltime)

	log := logger.New(logLevel, logOut)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Storage.
	var store domain.KVStore
	switch cfg.Storage.Driver {
	case config.DriverMemory:
		store = storage.NewMemoryStore(log.Named("store"))
	default:
		db, err := storage.OpenSQLite(cfg.Storage.Path, log.Named("store"))
		if err != nil {
			log.Error("sqlite unavailable, stats will not persist: %v", err)
			store = storage.NewMemoryStore(log.Named("store"))
		} else {
			store = db
			defer db.Close()
		}
	}

	// Levels.
	var levels domain.LevelSource
	if cfg.Game.LevelsFile != "" {
		src, err := level.LoadFile(cfg.Game.LevelsFile, log.Named("levels"))
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		levels = src
	} else {
		levels = level.NewMemorySource(log.Named("levels"))
	}

	ui := display.NewUI()
	feed := conversation.NewCLINotifier(log.Named("feed"), ui.Printf)
	hooks := domain.MultiHooks{feed}

	// Sound effects.
	var player *sfx.Player
	if cfg.Audio.Enabled {
		player, err = sfx.NewPlayer(cfg.Audio.SampleRate, log.Named("sfx"))
		if err != nil {
			log.Error("audio player init failed, sound disabled: %v", err)
		} else {
			bank := sfx.NewBank(cfg.Audio.SampleRate, cfg.Audio.Volume)
			sounds := sfx.NewHooks(bank, player, log.Named("sfx"))
			go sounds.Run(ctx)
			hooks = append(hooks, sounds)
			log.Info("sound enabled (rate=%d, volume=%.2f)", cfg.Audio.SampleRate, cfg.Audio.Volume)
		}
	}

	registry := kitchen.DefaultRegistry()
	opts := []engine.Option{
		engine.WithConfig(cfg.Engine()),
		engine.WithHooks(hooks),
		engine.WithRegistry(registry),
	}
	if *seed != 0 {
		opts = append(opts, engine.WithSeed(*seed))
	}
	eng := engine.New(levels, store, log.Named("engine"), opts...)
	if err := eng.Load(ctx); err != nil {
		log.Warn("restoring stats: %v", err)
	}

	var objects []string
	for _, st := range registry.Stations() {
		objects = append(objects, st.Object)
	}
	parser := conversation.NewKeywordParser(log.Named("parser"), objects...)

	// Voice input.
	var ear *voice.Ear
	if cfg.Voice.Enabled {
		if _, err := os.Stat(cfg.Voice.Model); err != nil {
			fmt.Fprintf(os.Stderr, "error: whisper model not found at %s\n", cfg.Voice.Model)
			os.Exit(1)
		}
		os.MkdirAll(cfg.Voice.TempDir, 0o755)
		ear = voice.NewEar(cfg.Voice.WhisperBin, cfg.Voice.Model, log.Named("ear"),
			voice.WithChunk(cfg.Voice.Chunk),
			voice.WithTempDir(cfg.Voice.TempDir),
		)
		go ear.Run(ctx)
		log.Info("voice input enabled (bin=%s, model=%s, chunk=%s)", cfg.Voice.WhisperBin, cfg.Voice.Model, cfg.Voice.Chunk)
	}

	supervisor := timer.New(eng, feed, log.Named("timer"),
		timer.WithTickInterval(cfg.Game.FrameRate),
		timer.WithFrameHook(func() { ui.Refresh(eng.Snapshot()) }),
		timer.WithWatcher(eng),
	)

	app := &cliApp{
		engine: eng,
		parser: parser,
		player: player,
		ear:    ear,
		log:    log,
		ui:     ui,
	}

	fmt.Println(display.RenderBanner())
	if ear != nil {
		fmt.Println(display.BannerStyle.Render("  Voice mode ON: call out stations (\"plate two\", \"cooler\") or type them."))
	}
	fmt.Println(display.BannerStyle.Render("  Type 'help' for commands, 'quit' to exit."))
	fmt.Println()

	go func() {
		ui.WaitReady()
		supervisor.Start(ctx)
		app.run(ctx)
		supervisor.Stop()
		ui.Quit()
	}()

	// Bubble Tea owns the terminal; blocks until quit.
	if err := ui.Run(); err != nil {
		log.Error("display: %v", err)
	}
	cancel()
	if player != nil {
		player.Stop()
	}
}

// applyFlags lets command-line flags override the loaded config.
func applyFlags(cfg *config.Config, verbose, quiet bool, logFile, dbPath, levelsFile string, noSound, voiceOn bool) {
	if verbose {
		cfg.Log.Level = logger.LevelVerbose.String()
	}
	if quiet {
		cfg.Log.Level = logger.LevelOff.String()
	}
	if logFile != "" {
		cfg.Log.File = logFile
	}
	switch {
	case strings.EqualFold(dbPath, config.DriverMemory):
		cfg.Storage.Driver = config.DriverMemory
	case dbPath != "":
		cfg.Storage.Driver = config.DriverSQLite
		cfg.Storage.Path = dbPath
	}
	if levelsFile != "" {
		cfg.Game.LevelsFile = levelsFile
	}
	if noSound {
		cfg.Audio.Enabled = false
	}
	if voiceOn {
		cfg.Voice.Enabled = true
	}
}
