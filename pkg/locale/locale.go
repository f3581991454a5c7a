package locale

import (
	"strings"

	"golang.org/x/text/language"
)

// Locale selects the content file, column table and message table in use.
type Locale string

const (
	Chinese Locale = "zh"
	English Locale = "en"

	// Default is used for empty or unsupported selections.
	Default = Chinese
)

// Supported lists the locales in matcher preference order.
var Supported = []Locale{Chinese, English}

var matcher = language.NewMatcher([]language.Tag{
	language.Chinese,
	language.English,
})

// aliases covers selections the language matcher cannot parse as BCP 47 tags.
var aliases = map[string]Locale{
	"中文":      Chinese,
	"chinese": Chinese,
	"english": English,
}

// Parse maps an opaque selection string ("zh", "en-US", "zh-Hans-CN", "中文", "English")
// onto a supported locale. Anything unrecognised falls back to Default.
func Parse(s string) Locale {
	s = strings.TrimSpace(s)
	if s == "" {
		return Default
	}
	if loc, ok := aliases[strings.ToLower(s)]; ok {
		return loc
	}

	tag, err := language.Parse(s)
	if err != nil {
		return Default
	}
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return Default
	}
	return Supported[idx]
}

// IsSupported reports whether l is one of the supported locales.
func (l Locale) IsSupported() bool {
	for _, s := range Supported {
		if s == l {
			return true
		}
	}
	return false
}

func (l Locale) String() string {
	return string(l)
}
