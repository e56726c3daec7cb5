// Package voice turns microphone input into kitchen commands using a local
// Whisper model.
package voice

import (
	"context"
	"os/exec"
	"regexp"
	"strings"
	"sync"
	"time"

	audiotranscriber "github.com/sklyt/whisper/pkg"

	"github.com/hammamikhairi/outbackcafe/internal/logger"
)

// envAnnotation matches whisper environmental annotations like
// "(keyboard clicking)", "[laughter]", "(speaking French)".
var envAnnotation = regexp.MustCompile(`[\(\[][a-zA-Z_][a-zA-Z_\s]*[\)\]]`)

// timestamp matches a leading "[00:00:00.000 --> 00:00:02.000]".
var timestamp = regexp.MustCompile(`^\[[0-9:.,\s\->]+\]`)

// commandSplit separates the short utterances a player strings together:
// "plate two. cooler, then bin".
var commandSplit = regexp.MustCompile(`[.!?;,]+|\s+then\s+|\s+and\s+`)

// hallucinations are whole transcriptions whisper produces from silence.
var hallucinations = map[string]bool{
	"...":                     true,
	"you":                     true,
	"thank you.":              true,
	"thanks for watching!":    true,
	"thank you for watching.": true,
	"bye.":                    true,
	"the end.":                true,
}

// Transcriber records one chunk of the given length and returns its text.
type Transcriber func(ctx context.Context, d time.Duration) string

// EarOption configures the Ear.
type EarOption func(*Ear)

// WithChunk sets how long each recording lasts.
func WithChunk(d time.Duration) EarOption {
	return func(e *Ear) { e.chunk = d }
}

// WithTempDir sets the directory for temporary WAV files.
func WithTempDir(dir string) EarOption {
	return func(e *Ear) { e.tempDir = dir }
}

// WithTranscriber replaces the whisper recorder, mainly for tests.
func WithTranscriber(t Transcriber) EarOption {
	return func(e *Ear) { e.transcribe = t }
}

// Ear listens continuously: every chunk is transcribed, cleaned, split
// into commands and sent through C. There is no wake word; during play
// everything said is meant for the kitchen.
type Ear struct {
	whisperBin string
	modelPath  string
	tempDir    string
	chunk      time.Duration
	transcribe Transcriber
	log        *logger.Logger

	mu     sync.Mutex
	muted  bool
	textCh chan string
}

// NewEar creates a voice input listener.
func NewEar(whisperBin, modelPath string, log *logger.Logger, opts ...EarOption) *Ear {
	e := &Ear{
		whisperBin: whisperBin,
		modelPath:  modelPath,
		tempDir:    ".outback-stt",
		chunk:      2 * time.Second,
		log:        log,
		textCh:     make(chan string, 8),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.transcribe == nil {
		if _, err := exec.LookPath(e.whisperBin); err != nil {
			log.Error("ear: whisper binary %q not found in PATH: %v", e.whisperBin, err)
		}
		e.transcribe = e.record
	}
	return e
}

// C returns the channel that receives recognised commands.
func (e *Ear) C() <-chan string { return e.textCh }

// Mute temporarily disables listening.
func (e *Ear) Mute() {
	e.mu.Lock()
	e.muted = true
	e.mu.Unlock()
	e.log.Debug("ear: muted")
}

// Unmute re-enables listening.
func (e *Ear) Unmute() {
	e.mu.Lock()
	e.muted = false
	e.mu.Unlock()
	e.log.Debug("ear: unmuted")
}

func (e *Ear) isMuted() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.muted
}

// Run records and forwards commands until ctx is cancelled. Call this in
// a goroutine.
func (e *Ear) Run(ctx context.Context) {
	e.log.Info("ear: started (chunk=%s)", e.chunk)
	for {
		select {
		case <-ctx.Done():
			e.log.Info("ear: stopped")
			return
		default:
		}

		if e.isMuted() {
			select {
			case <-time.After(200 * time.Millisecond):
			case <-ctx.Done():
			}
			continue
		}

		text := cleanTranscription(e.transcribe(ctx, e.chunk))
		if text == "" {
			continue
		}
		e.log.Debug("ear: heard %q", text)

		for _, cmd := range SplitCommands(text) {
			select {
			case e.textCh <- cmd:
			case <-ctx.Done():
				return
			}
		}
	}
}

// record does one whisper recording cycle.
func (e *Ear) record(ctx context.Context, d time.Duration) string {
	var result string
	var wg sync.WaitGroup
	wg.Add(1)

	callback := func(text string) {
		result = text
		wg.Done()
	}

	verbose := e.log.GetLevel() >= logger.LevelVerbose
	t, err := audiotranscriber.NewTranscriber(e.whisperBin, e.modelPath, e.tempDir, "wav", callback, verbose)
	if err != nil {
		e.log.Error("ear: transcriber init failed: %v", err)
		sleepCtx(ctx, 2*time.Second)
		return ""
	}
	if err := t.Start(); err != nil {
		e.log.Error("ear: recording start failed: %v", err)
		sleepCtx(ctx, 2*time.Second)
		return ""
	}

	select {
	case <-time.After(d):
	case <-ctx.Done():
	}
	t.Stop()
	wg.Wait()

	if ctx.Err() != nil {
		return ""
	}
	return result
}

func sleepCtx(ctx context.Context, d time.Duration) {
	select {
	case <-time.After(d):
	case <-ctx.Done():
	}
}

// SplitCommands breaks one utterance into separate commands.
func SplitCommands(text string) []string {
	var out []string
	for _, part := range commandSplit.Split(strings.ToLower(text), -1) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// cleanTranscription collapses whitespace and strips whisper artifacts:
// timestamps, annotations like "[BLANK_AUDIO]" and "(music)", and
// whole-line hallucinations.
func cleanTranscription(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	s = timestamp.ReplaceAllString(s, "")
	s = envAnnotation.ReplaceAllString(s, "")
	s = strings.Join(strings.Fields(s), " ")

	if hallucinations[strings.ToLower(s)] {
		return ""
	}
	return s
}
