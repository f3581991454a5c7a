package locale

import "fmt"

// Messages is the fixed set of engine-generated strings for one locale.
// Authored narrative never comes from here, only placeholders and gating feedback.
type Messages struct {
	NarrativeMissing  string // %d day
	OptionLabel       string // %s option code
	ResultMissing     string // %s option code
	SettlementMissing string // %s option code
	DayDescription    string // %d day, %d max days

	// Fallback ending texts used when no special block is authored.
	Escaped  string
	Executed string
	Depleted string

	Stamina string
	Mana    string
	Tracks  map[string]string // track name -> display name

	// AtLeast formats one unmet AND-mode condition: name, threshold, current.
	AtLeast string
	// AnyOf formats the single combined inverse-mode explanation:
	// stamina name, stamina max, mana name, mana max, track name, track max,
	// then the three current values in the same order.
	AnyOf string
}

var tables = map[Locale]Messages{
	Chinese: {
		NarrativeMissing:  "第%d天叙述文本未找到",
		OptionLabel:       "选项%s",
		ResultMissing:     "%s选项结果文本未找到",
		SettlementMissing: "%s选项结算文本未找到",
		DayDescription:    "第 %d 天 / 共 %d 天",
		Escaped:           "你成功越狱了。",
		Executed:          "第十五天结束，行刑的时刻到了。",
		Depleted:          "你倒下了，再也没能站起来。",
		Stamina:           "体力",
		Mana:              "魔力",
		Tracks: map[string]string{
			"bribe":    "贿赂进度",
			"sabotage": "破坏进度",
			"legal":    "文书进度",
			"mystery":  "？进度",
		},
		AtLeast: "%s需要≥%d（当前：%d）",
		AnyOf:   "此选项需要：%s≤%d 或 %s≤%d 或 %s≤%d；您当前：%s=%d，%s=%d，%s=%d，您的条件过强，请选择其他选项",
	},
	English: {
		NarrativeMissing:  "Day %d narrative text not found",
		OptionLabel:       "Option %s",
		ResultMissing:     "Option %s result text not found",
		SettlementMissing: "Option %s settlement text not found",
		DayDescription:    "Day %d of %d",
		Escaped:           "You escaped the prison.",
		Executed:          "The fifteenth day is over. The execution goes ahead.",
		Depleted:          "You collapse and never get up again.",
		Stamina:           "HP",
		Mana:              "MP",
		Tracks: map[string]string{
			"bribe":    "Bribe Progress",
			"sabotage": "Sabotage Progress",
			"legal":    "Legal Progress",
			"mystery":  "Mystery Progress",
		},
		AtLeast: "%s must be ≥%d (current: %d)",
		AnyOf:   "This option requires %s≤%d OR %s≤%d OR %s≤%d; your current %s=%d, %s=%d, %s=%d is too strong, choose another option",
	},
}

// For returns the message table for l, falling back to Default.
func For(l Locale) Messages {
	if m, ok := tables[l]; ok {
		return m
	}
	return tables[Default]
}

func (m Messages) Narrative(day int) string {
	return fmt.Sprintf(m.NarrativeMissing, day)
}

func (m Messages) Option(code string) string {
	return fmt.Sprintf(m.OptionLabel, code)
}

func (m Messages) Result(code string) string {
	return fmt.Sprintf(m.ResultMissing, code)
}

func (m Messages) Settlement(code string) string {
	return fmt.Sprintf(m.SettlementMissing, code)
}

func (m Messages) Day(day, maxDays int) string {
	return fmt.Sprintf(m.DayDescription, day, maxDays)
}

// Track returns the display name of a progress track, or the raw name when unknown.
func (m Messages) Track(name string) string {
	if s, ok := m.Tracks[name]; ok {
		return s
	}
	return name
}
