package content

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const bom = "\ufeff"

// columnIndex maps the layout's columns to positions in the header row.
// A column absent from the file has index -1.
type columnIndex struct {
	day, narrative                  int
	options, results, settlements   [3]int
	stamina, mana                   int
	bribe, sabotage, legal, mystery int
}

func indexColumns(header []string, c Columns) (columnIndex, []string) {
	pos := make(map[string]int, len(header))
	for i, h := range header {
		k := normalizeHeader(strings.TrimPrefix(h, bom))
		if _, dup := pos[k]; !dup && k != "" {
			pos[k] = i
		}
	}
	var missing []string
	find := func(name string, required bool) int {
		if name == "" {
			return -1
		}
		if i, ok := pos[normalizeHeader(name)]; ok {
			return i
		}
		if required {
			missing = append(missing, name)
		}
		return -1
	}

	idx := columnIndex{
		day:       find(c.Day, true),
		narrative: find(c.Narrative, true),
		stamina:   find(c.StaminaMin, false),
		mana:      find(c.ManaMin, false),
		bribe:     find(c.Bribe, false),
		sabotage:  find(c.Sabotage, false),
		legal:     find(c.Legal, false),
		mystery:   find(c.Mystery, false),
	}
	for i := range Codes {
		idx.options[i] = find(c.Options[i], true)
		idx.results[i] = find(c.Results[i], true)
		idx.settlements[i] = find(c.Settlements[i], true)
	}
	return idx, missing
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// parseThreshold treats blank and non-numeric cells (such as 结束) as zero.
func parseThreshold(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func firstNonEmpty(row []string, skip int) string {
	for i, c := range row {
		if i == skip {
			continue
		}
		if v := strings.TrimSpace(c); v != "" {
			return v
		}
	}
	return ""
}

// parse classifies every row of a content file. Rows are one of: the
// header, a day row, a transition row (empty day cell, narrative set,
// after some day row), a special block row, or blank. A special block
// whose own row carries no text takes its payload from the next
// non-blank row.
func (s *Store) parse(r io.Reader, layout Layout) error {
	br := bufio.NewReader(r)
	if b, err := br.Peek(len(bom)); err == nil && string(b) == bom {
		_, _ = br.Discard(len(bom))
	}

	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("failed to read header: %w", err)
	}
	idx, missing := indexColumns(header, layout.Columns)
	if idx.day < 0 {
		return fmt.Errorf("day column %q not found in header", layout.Columns.Day)
	}
	if len(missing) > 0 {
		s.logger.Warn("Content columns missing, using empty values", "columns", missing)
	}

	lastDay := 0
	pending := ""
	line := 1
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			s.logger.Warn("Skipping unreadable content row", "line", line, "error", err)
			continue
		}
		if isBlank(row) {
			continue
		}

		dayCell := cell(row, idx.day)
		key, isSpecial := layout.special(dayCell)
		m := layout.DayPattern.FindStringSubmatch(dayCell)

		if pending != "" {
			if !isSpecial && m == nil {
				s.special[pending] = firstNonEmpty(row, -1)
				s.logger.Debug("Loaded special block from following row", "key", pending, "line", line)
				pending = ""
				continue
			}
			pending = ""
		}

		switch {
		case isSpecial:
			text := cell(row, idx.narrative)
			if text == "" {
				text = firstNonEmpty(row, idx.day)
			}
			if text == "" {
				pending = key
				continue
			}
			s.special[key] = text
			s.logger.Debug("Loaded special block", "key", key, "line", line)

		case m != nil:
			day, err := strconv.Atoi(strings.TrimSpace(m[1]))
			if err != nil || day < 1 {
				s.logger.Warn("Skipping row with malformed day number", "line", line, "day", dayCell)
				continue
			}
			s.days[day] = s.dayRecord(day, row, idx)
			lastDay = day

		case dayCell == "":
			text := cell(row, idx.narrative)
			if text != "" && lastDay > 0 {
				s.transitions[lastDay] = text
				s.logger.Debug("Loaded transition", "after_day", lastDay, "line", line)
			}

		default:
			// repeated header rows, notes and other unclassified rows
			s.logger.Debug("Skipping unrecognised content row", "line", line, "day", dayCell)
		}
	}
	return nil
}

func (s *Store) dayRecord(day int, row []string, idx columnIndex) DayRecord {
	rec := DayRecord{
		Day:         day,
		Narrative:   cell(row, idx.narrative),
		Options:     make(map[string]string, len(Codes)),
		Results:     make(map[string]string, len(Codes)),
		Settlements: make(map[string]string, len(Codes)),
		Thresholds: Thresholds{
			Stamina:  parseThreshold(cell(row, idx.stamina)),
			Mana:     parseThreshold(cell(row, idx.mana)),
			Bribe:    parseThreshold(cell(row, idx.bribe)),
			Sabotage: parseThreshold(cell(row, idx.sabotage)),
			Legal:    parseThreshold(cell(row, idx.legal)),
			Mystery:  parseThreshold(cell(row, idx.mystery)),
		},
	}
	for i, code := range Codes {
		label := cell(row, idx.options[i])
		if label == "" {
			continue
		}
		rec.Options[code] = label
		rec.Results[code] = cell(row, idx.results[i])
		rec.Settlements[code] = cell(row, idx.settlements[i])
	}
	return rec
}
