package settlement

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/width"

	"github.com/jwebster45206/fifteen-days/pkg/state"
)

type compiledStat struct {
	stat    Stat
	regexes []*regexp.Regexp
}

type compiledTag struct {
	tag     Tag
	regexes []*regexp.Regexp
}

// Parser turns free-text settlement blocks into state.Effect values.
// A Parser is immutable after construction and safe for concurrent use.
type Parser struct {
	stats  []compiledStat
	tags   []compiledTag
	tracks []TrackRule
}

// NewParser compiles a rule table. It panics on an invalid pattern, since
// rule tables are fixed at build time.
func NewParser(rules Rules) *Parser {
	p := &Parser{}
	for _, r := range rules.Stats {
		p.stats = append(p.stats, compiledStat{stat: r.Stat, regexes: compileAll(r.Patterns)})
	}
	for _, r := range rules.Tags {
		p.tags = append(p.tags, compiledTag{tag: r.Tag, regexes: compileAll(r.Patterns)})
	}
	for _, r := range rules.Tracks {
		tr := TrackRule{Track: r.Track}
		for _, k := range r.Keywords {
			tr.Keywords = append(tr.Keywords, strings.ToLower(k))
		}
		for _, k := range r.Triggers {
			tr.Triggers = append(tr.Triggers, strings.ToLower(k))
		}
		p.tracks = append(p.tracks, tr)
	}
	return p
}

// New returns a Parser for DefaultRules.
func New() *Parser {
	return NewParser(DefaultRules())
}

func compileAll(patterns []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		out = append(out, regexp.MustCompile(p))
	}
	return out
}

// Parse extracts an Effect from a settlement block. Lines are handled
// independently: a stat mentioned on several lines takes the value of the
// last one, items and clues keep order of appearance, and a track advances
// by at most one no matter how many lines mention it. Malformed numbers
// leave the affected delta at zero.
func (p *Parser) Parse(text string) state.Effect {
	var e state.Effect
	for _, line := range Lines(text) {
		p.parseLine(line, &e)
	}
	return e
}

// Lines splits a settlement block into normalised, non-blank lines.
func Lines(text string) []string {
	var out []string
	for _, raw := range strings.Split(text, "\n") {
		line := Normalize(raw)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

// Normalize folds full-width punctuation to ASCII and trims the line, so
// "体力＋５" and "体力+5" parse the same way.
func Normalize(line string) string {
	line = width.Fold.String(line)
	line = strings.NewReplacer("−", "-", "–", "-", "—", "-").Replace(line)
	return strings.TrimSpace(line)
}

func (p *Parser) parseLine(line string, e *state.Effect) {
	for _, r := range p.stats {
		for _, re := range r.regexes {
			loc := re.FindStringIndex(line)
			if loc == nil {
				continue
			}
			if v, ok := signedNumberAfter(line[loc[1]:]); ok {
				switch r.stat {
				case Stamina:
					e.StaminaDelta = v
				case Mana:
					e.ManaDelta = v
				}
			}
			break
		}
	}

	for _, r := range p.tags {
		for _, re := range r.regexes {
			loc := re.FindStringIndex(line)
			if loc == nil {
				continue
			}
			name := tagValue(line[loc[1]:])
			if name != "" {
				switch r.tag {
				case ItemTag:
					e.ItemsGained = append(e.ItemsGained, name)
				case ClueTag:
					e.CluesGained = append(e.CluesGained, name)
				}
			}
			break
		}
	}

	lower := strings.ToLower(line)
	for _, r := range p.tracks {
		if containsAny(lower, r.Keywords) && containsAny(lower, r.Triggers) {
			e.SetTrackDelta(r.Track, 1)
		}
	}
}

// signedNumberAfter reads the first '+' or '-' in s that is followed by
// digits. Whitespace between the sign and the digits is allowed.
func signedNumberAfter(s string) (int, bool) {
	for {
		i := strings.IndexAny(s, "+-")
		if i < 0 {
			return 0, false
		}
		sign := 1
		if s[i] == '-' {
			sign = -1
		}
		s = s[i+1:]
		rest := strings.TrimLeftFunc(s, unicode.IsSpace)
		end := strings.IndexFunc(rest, func(r rune) bool { return r < '0' || r > '9' })
		if end < 0 {
			end = len(rest)
		}
		if end == 0 {
			continue
		}
		n, err := strconv.Atoi(rest[:end])
		if err != nil {
			return 0, false
		}
		return sign * n, true
	}
}

func tagValue(s string) string {
	if i := strings.Index(s, "("); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
