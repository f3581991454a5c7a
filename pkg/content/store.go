package content

import (
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/jwebster45206/fifteen-days/pkg/conditionals"
	"github.com/jwebster45206/fifteen-days/pkg/locale"
)

// Thresholds are the authored minimum columns of a day row. They are
// informational; gating itself is driven by the requirement table.
type Thresholds struct {
	Stamina  int `json:"stamina,omitempty"`
	Mana     int `json:"mana,omitempty"`
	Bribe    int `json:"bribe,omitempty"`
	Sabotage int `json:"sabotage,omitempty"`
	Legal    int `json:"legal,omitempty"`
	Mystery  int `json:"mystery,omitempty"`
}

// IsZero reports whether no threshold is set.
func (t Thresholds) IsZero() bool {
	return t == Thresholds{}
}

// DayRecord is one authored day. Every code present in Options also has
// an entry in Results and Settlements, possibly empty.
type DayRecord struct {
	Day         int               `json:"day"`
	Narrative   string            `json:"narrative"`
	Options     map[string]string `json:"options"`
	Results     map[string]string `json:"results"`
	Settlements map[string]string `json:"settlements"`
	Thresholds  Thresholds        `json:"thresholds"`
}

// Store is the read-only, day-indexed content of one locale.
// It is safe for concurrent use once Load returns.
type Store struct {
	locale      locale.Locale
	msg         locale.Messages
	path        string
	days        map[int]DayRecord
	transitions map[int]string
	special     map[string]string
	reqs        conditionals.Source
	logger      *slog.Logger
}

type options struct {
	dirs   []string
	file   string
	reqs   conditionals.Source
	logger *slog.Logger
}

// Option configures Load.
type Option func(*options)

// WithDirs sets the directories searched for the locale's content file, in order.
func WithDirs(dirs ...string) Option {
	return func(o *options) { o.dirs = dirs }
}

// WithFile loads an explicit file instead of searching the directories.
func WithFile(path string) Option {
	return func(o *options) { o.file = path }
}

// WithRequirements sets the requirement table. The embedded default is used otherwise.
func WithRequirements(src conditionals.Source) Option {
	return func(o *options) { o.reqs = src }
}

func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// DefaultDirs are searched when WithDirs is not given: the data directory
// and the working directory, then the data directories found from the
// running executable.
var DefaultDirs = append([]string{"data", "."}, ExecutableDirs()...)

// ExecutableDirs returns the data directory beside the running binary and
// the one in its parent, so a binary under bin/ or at the project root finds
// the content regardless of the working directory.
func ExecutableDirs() []string {
	exe, err := os.Executable()
	if err != nil {
		return nil
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	dir := filepath.Dir(exe)
	return []string{
		filepath.Join(dir, "data"),
		filepath.Join(filepath.Dir(dir), "data"),
	}
}

// Load reads the content file for loc. It never fails: when no file is
// found, or the file cannot be read, the store is empty and every lookup
// returns the locale's placeholder text.
func Load(loc locale.Locale, opts ...Option) *Store {
	o := options{dirs: DefaultDirs}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	if o.reqs == nil {
		o.reqs = conditionals.DefaultTable()
	}
	if !loc.IsSupported() {
		o.logger.Warn("Unsupported locale, using default", "locale", loc, "default", locale.Default)
		loc = locale.Default
	}

	s := &Store{
		locale:      loc,
		msg:         locale.For(loc),
		days:        make(map[int]DayRecord),
		transitions: make(map[int]string),
		special:     make(map[string]string),
		reqs:        o.reqs,
		logger:      o.logger,
	}

	layout := LayoutFor(loc)
	if err := layout.Validate(); err != nil {
		s.logger.Error("Invalid content layout", "locale", loc, "error", err)
		return s
	}

	path := o.file
	if path == "" {
		path = findFile(layout.File, o.dirs)
	}
	if path == "" {
		s.logger.Error("Content file not found", "file", layout.File, "dirs", o.dirs)
		return s
	}

	f, err := os.Open(path)
	if err != nil {
		s.logger.Error("Failed to open content file", "path", path, "error", err)
		return s
	}
	defer f.Close()

	if err := s.parse(f, layout); err != nil {
		s.logger.Error("Failed to read content file", "path", path, "error", err)
	}
	s.path = path
	s.logger.Info("Loaded content", "path", path, "locale", loc, "days", len(s.days),
		"transitions", len(s.transitions), "special", len(s.special))
	return s
}

func findFile(name string, dirs []string) string {
	for _, dir := range dirs {
		p := filepath.Join(dir, name)
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p
		}
	}
	return ""
}

func (s *Store) Locale() locale.Locale { return s.locale }

// Path is the file the store was loaded from, empty when none was found.
func (s *Store) Path() string { return s.path }

// Day returns the raw record for a day.
func (s *Store) Day(day int) (DayRecord, bool) {
	r, ok := s.days[day]
	return r, ok
}

// Days returns the loaded day numbers in ascending order.
func (s *Store) Days() []int {
	out := make([]int, 0, len(s.days))
	for d := range s.days {
		out = append(out, d)
	}
	slices.Sort(out)
	return out
}

// Narrative returns the day's narrative or a placeholder naming the day.
func (s *Store) Narrative(day int) string {
	if r, ok := s.days[day]; ok && r.Narrative != "" {
		return r.Narrative
	}
	return s.msg.Narrative(day)
}

// Options returns a label for every code. Missing labels are placeholders.
func (s *Store) Options(day int) map[string]string {
	r := s.days[day]
	out := make(map[string]string, len(Codes))
	for _, code := range Codes {
		if label := r.Options[code]; label != "" {
			out[code] = label
		} else {
			out[code] = s.msg.Option(code)
		}
	}
	return out
}

// Result returns the result text shown after choosing code.
func (s *Store) Result(day int, code string) string {
	if text := s.days[day].Results[code]; text != "" {
		return text
	}
	return s.msg.Result(code)
}

// Settlement returns the raw settlement text for code.
func (s *Store) Settlement(day int, code string) string {
	if text := s.days[day].Settlements[code]; text != "" {
		return text
	}
	return s.msg.Settlement(code)
}

// Transition returns the narrative shown after a day, if one is authored.
func (s *Store) Transition(afterDay int) (string, bool) {
	t, ok := s.transitions[afterDay]
	return t, ok
}

// SpecialEnding returns a special block by key, e.g. StaminaDepleted.
func (s *Store) SpecialEnding(key string) (string, bool) {
	t, ok := s.special[key]
	return t, ok && t != ""
}

// RequirementSpec implements conditionals.Source.
func (s *Store) RequirementSpec(day int, code string) (conditionals.Requirement, bool) {
	return s.reqs.RequirementSpec(day, code)
}

// Messages returns the engine strings of the store's locale.
func (s *Store) Messages() locale.Messages { return s.msg }
