// Package conversation turns typed or spoken player input into intents and
// turns game notifications into lines for the feed.
package conversation

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/hammamikhairi/outbackcafe/internal/domain"
	"github.com/hammamikhairi/outbackcafe/internal/logger"
)

// Compile-time interface check.
var _ domain.IntentParser = (*KeywordParser)(nil)

// KeywordParser matches player input to intents using keywords and simple
// patterns. It understands both terse keyboard commands ("2", "i3") and
// spoken phrases ("plate two", "go to the chopper").
type KeywordParser struct {
	log      *logger.Logger
	patterns []patternRule
	aliases  map[string]string // spoken or short name -> station object
}

type patternRule struct {
	regex  *regexp.Regexp
	intent domain.IntentType
}

var (
	plateRe      = regexp.MustCompile(`(?i)^(?:plate\s*|p)?([1-9]|one|two|three|four|five|six|seven|eight|nine)$`)
	ingredientRe = regexp.MustCompile(`(?i)^(?:ingredient\s*|i)([1-9]|one|two|three|four|five|six|seven|eight|nine)$`)
	levelRe      = regexp.MustCompile(`(?i)^(?:level|lvl|l)\s*([1-9]\d?|one|two|three|four|five|six|seven|eight|nine)$`)
	fillerRe     = regexp.MustCompile(`(?i)^(?:(?:go|walk|move|run)\s+)?(?:to\s+)?(?:the\s+)?`)
)

var numberWords = map[string]int{
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
	"six": 6, "seven": 7, "eight": 8, "nine": 9,
}

// NewKeywordParser creates a keyword-based intent parser. objects are the
// station object IDs the player may name directly, e.g. "waterCooler".
func NewKeywordParser(log *logger.Logger, objects ...string) *KeywordParser {
	p := &KeywordParser{
		log: log,
		aliases: map[string]string{
			"cup":     "ingredientCup",
			"cups":    "ingredientCup",
			"cooler":  "waterCooler",
			"water":   "waterCooler",
			"fill":    "waterCooler",
			"chop":    "chopper",
			"chopper": "chopper",
			"board":   "chopper",
			"bin":     "bin",
			"trash":   "bin",
			"rubbish": "bin",
			"counter": "counter",
		},
	}
	for _, o := range objects {
		p.aliases[strings.ToLower(o)] = o
	}
	p.patterns = []patternRule{
		{regexp.MustCompile(`(?i)^(levels|list|menu|ls)$`), domain.IntentListLevels},
		{regexp.MustCompile(`(?i)^(start|go|begin|open|let'?s go)$`), domain.IntentStart},
		{regexp.MustCompile(`(?i)^(endless|endless mode|survival)$`), domain.IntentEndless},
		{regexp.MustCompile(`(?i)^(next|next level|continue|n)$`), domain.IntentNext},
		{regexp.MustCompile(`(?i)^(restart|retry|again|try again|r)$`), domain.IntentRestart},
		{regexp.MustCompile(`(?i)^(pause|wait|hold on)$`), domain.IntentPause},
		{regexp.MustCompile(`(?i)^(resume|unpause|back)$`), domain.IntentResume},
		{regexp.MustCompile(`(?i)^(status|where|score)$`), domain.IntentStatus},
		{regexp.MustCompile(`(?i)^(stats|history|report)$`), domain.IntentStats},
		{regexp.MustCompile(`(?i)^(quit|exit|q|bye)$`), domain.IntentQuit},
		{regexp.MustCompile(`(?i)^(help|h|\?)$`), domain.IntentHelp},
	}
	return p
}

// Parse converts player input into an intent.
func (p *KeywordParser) Parse(ctx context.Context, input string) (*domain.Intent, error) {
	trimmed := normalize(input)
	if trimmed == "" {
		return &domain.Intent{Type: domain.IntentUnknown}, nil
	}

	p.log.Debug("parsing input: %q", trimmed)

	for _, rule := range p.patterns {
		if rule.regex.MatchString(trimmed) {
			p.log.Debug("matched intent: %s", rule.intent)
			return &domain.Intent{Type: rule.intent}, nil
		}
	}

	if m := levelRe.FindStringSubmatch(trimmed); m != nil {
		return &domain.Intent{Type: domain.IntentSelectLevel, Payload: strconv.Itoa(toNumber(m[1]))}, nil
	}

	target := fillerRe.ReplaceAllString(trimmed, "")
	if object, ok := p.station(target); ok {
		p.log.Debug("move to %s", object)
		return &domain.Intent{Type: domain.IntentMove, Payload: object}, nil
	}

	p.log.Debug("no match, returning unknown intent")
	return &domain.Intent{Type: domain.IntentUnknown, Payload: trimmed}, nil
}

// station resolves a spoken or typed target to a station object.
func (p *KeywordParser) station(s string) (string, bool) {
	if m := plateRe.FindStringSubmatch(s); m != nil {
		return fmt.Sprintf("plate%d", toNumber(m[1])), true
	}
	if m := ingredientRe.FindStringSubmatch(s); m != nil {
		return fmt.Sprintf("ingredient%d", toNumber(m[1])), true
	}
	key := strings.ToLower(strings.ReplaceAll(s, " ", ""))
	if o, ok := p.aliases[key]; ok {
		return o, true
	}
	if o, ok := p.aliases[strings.ToLower(s)]; ok {
		return o, true
	}
	return "", false
}

// normalize trims whitespace and the punctuation speech transcripts end with.
func normalize(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimRight(s, ".!,")
	return strings.Join(strings.Fields(s), " ")
}

func toNumber(s string) int {
	if n, ok := numberWords[strings.ToLower(s)]; ok {
		return n
	}
	n, _ := strconv.Atoi(s)
	return n
}
