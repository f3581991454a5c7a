package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/jwebster45206/fifteen-days/pkg/game"
	"github.com/jwebster45206/fifteen-days/pkg/level"
	"github.com/jwebster45206/fifteen-days/pkg/locale"
	"github.com/jwebster45206/fifteen-days/pkg/state"
)

type phase int

const (
	phaseIntro phase = iota
	phaseChoose
	phaseResult
	phaseOver
)

// Page entry kinds used only by the console.
const (
	entryHeading = "heading"
	entryOption  = "option"
	entryUnmet   = "unmet"
	entrySettle  = "settlement"
)

type pageEntry struct {
	kind string
	text string
}

// hints is the console's own chrome, per locale.
type hints struct {
	Title     string
	Continue  string
	Choose    string
	Finished  string
	Copied    string
	Inventory string
	Clues     string
	None      string
	QuitTitle string
	QuitBody  string
}

var hintTables = map[locale.Locale]hints{
	locale.Chinese: {
		Title:     "十五天",
		Continue:  "按 Enter 继续",
		Choose:    "输入 A、B 或 C 后按 Enter",
		Finished:  "游戏结束，按 Enter 退出",
		Copied:    "已复制到剪贴板",
		Inventory: "道具",
		Clues:     "线索",
		None:      "无",
		QuitTitle: "退出游戏？",
		QuitBody:  "按 Y 退出，按 N 继续",
	},
	locale.English: {
		Title:     "FIFTEEN DAYS",
		Continue:  "Press Enter to continue",
		Choose:    "Type A, B or C and press Enter",
		Finished:  "The game is over. Press Enter to quit",
		Copied:    "Copied to clipboard",
		Inventory: "Items",
		Clues:     "Clues",
		None:      "None",
		QuitTitle: "Quit Game?",
		QuitBody:  "Press Y to quit, N to continue",
	},
}

var (
	storyPanelStyle = lipgloss.NewStyle().
			PaddingTop(1).
			PaddingLeft(3)

	metaPanelStyle = lipgloss.NewStyle().
			PaddingTop(1).
			PaddingRight(2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	optionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")) // purple

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // green

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2).
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("255"))

	modalTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Align(lipgloss.Center)
)

// ConsoleUI is the BubbleTea model that plays one game in process.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	game  *game.Manager
	msg   locale.Messages
	hint  hints
	phase phase
	page  []pageEntry

	storyViewport viewport.Model
	metaViewport  viewport.Model
	input         textinput.Model
	ready         bool
	width         int
	height        int
	status        string

	showQuitModal bool
}

func NewConsoleUI(m *game.Manager) ConsoleUI {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(":: ")
	ti.CharLimit = 1
	ti.Width = 10

	ui := ConsoleUI{
		game:          m,
		msg:           locale.For(m.Locale()),
		hint:          hintTables[m.Locale()],
		input:         ti,
		storyViewport: viewport.New(50, 20),
		metaViewport:  viewport.New(20, 20),
	}
	ui.storyViewport.MouseWheelEnabled = true

	if intro, ok := m.Intro(); ok {
		ui.add(state.EntryIntro, intro)
		ui.phase = phaseIntro
	} else {
		ui.startDay()
	}
	return ui
}

func (m ConsoleUI) Init() tea.Cmd {
	return textinput.Blink
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.showQuitModal {
		return m.updateQuitModal(msg)
	}

	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.ready = true
		m.refresh()

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil
		case tea.KeyCtrlY:
			if err := clipboard.WriteAll(m.pageText()); err != nil {
				m.status = err.Error()
			} else {
				m.status = m.hint.Copied
			}
			return m, nil
		case tea.KeyEnter:
			return m.submit()
		}
		if m.phase != phaseChoose {
			// Only scroll keys reach the story pane outside of a choice.
			m.storyViewport, vpCmd = m.storyViewport.Update(msg)
			return m, vpCmd
		}
	}

	m.input, tiCmd = m.input.Update(msg)
	m.storyViewport, vpCmd = m.storyViewport.Update(msg)
	return m, tea.Batch(tiCmd, vpCmd)
}

// submit acts on Enter for the current phase.
func (m ConsoleUI) submit() (tea.Model, tea.Cmd) {
	m.status = ""
	switch m.phase {
	case phaseIntro:
		m.startDay()
	case phaseChoose:
		m.choose(m.input.Value())
		m.input.Reset()
	case phaseResult:
		m.advance()
	case phaseOver:
		return m, tea.Quit
	}
	m.refresh()
	return m, nil
}

func (m *ConsoleUI) startDay() {
	if m.game.IsGameOver() {
		m.finish()
		return
	}
	m.add(entryHeading, m.game.DayDescription())
	lvl, ok := m.game.CurrentLevel()
	if !ok {
		m.add(state.EntryNarrative, m.msg.Narrative(m.game.Day()))
		m.phase = phaseResult
		m.input.Blur()
		return
	}
	m.add(state.EntryNarrative, lvl.Narrative())
	for _, o := range lvl.Options() {
		m.add(entryOption, fmt.Sprintf("%s. %s", o.Code, o.Label))
	}
	m.phase = phaseChoose
	m.input.Focus()
}

func (m *ConsoleUI) choose(input string) {
	code, err := level.ParseCode(input)
	if err != nil {
		m.status = m.hint.Choose
		return
	}
	turn, err := m.game.Choose(code)
	switch {
	case errors.Is(err, level.ErrInvalidOption):
		m.status = m.hint.Choose
		return
	case err != nil:
		m.status = err.Error()
		return
	}
	if !turn.Allowed {
		m.add(entryUnmet, strings.Join(turn.Unmet, "\n"))
		return
	}

	m.add(state.EntryResult, turn.Result)
	if turn.Settlement != "" {
		m.add(entrySettle, turn.Settlement)
	}
	m.input.Blur()
	if turn.Ending != game.EndingNone {
		m.finish()
		return
	}
	m.phase = phaseResult
}

func (m *ConsoleUI) advance() {
	prev := m.game.Day()
	m.game.AdvanceDay()
	if text, ok := m.game.Transition(prev); ok {
		m.add(state.EntryTransition, text)
	}
	m.startDay()
}

func (m *ConsoleUI) finish() {
	_, text := m.game.Ending()
	m.add(state.EntryEnding, text)
	m.phase = phaseOver
	m.input.Blur()
}

func (m *ConsoleUI) add(kind, text string) {
	m.page = append(m.page, pageEntry{kind: kind, text: text})
}

// pageText is the unstyled page, as copied to the clipboard.
func (m ConsoleUI) pageText() string {
	var b strings.Builder
	for i, e := range m.page {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(e.text)
	}
	return b.String()
}

func (m *ConsoleUI) resize() {
	storyWidth := int(float64(m.width)*0.7) - 4
	metaWidth := m.width - storyWidth - 6
	m.storyViewport.Width = storyWidth - 2
	m.storyViewport.Height = m.height - 5
	m.metaViewport.Width = metaWidth - 2
	m.metaViewport.Height = m.height - 2
	m.input.Width = storyWidth - 6
}

func (m *ConsoleUI) refresh() {
	if !m.ready {
		return
	}
	m.storyViewport.SetContent(m.renderPage(m.storyViewport.Width - 4))
	m.storyViewport.GotoBottom()
	m.metaViewport.SetContent(m.renderMetadata())
}

func (m ConsoleUI) renderPage(width int) string {
	if width < 10 {
		width = 10
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.hint.Title) + "\n\n")
	for _, e := range m.page {
		text := wordwrap.String(e.text, width)
		switch e.kind {
		case entryHeading:
			b.WriteString(titleStyle.Render(text))
		case entryOption:
			b.WriteString(optionStyle.Render(text))
		case state.EntryResult, state.EntryEnding:
			b.WriteString(resultStyle.Render(text))
		case entryUnmet:
			b.WriteString(errorStyle.Render(text))
		case entrySettle:
			b.WriteString(promptStyle.Render(text))
		default:
			b.WriteString(text)
		}
		if e.kind == entryOption {
			b.WriteString("\n")
		} else {
			b.WriteString("\n\n")
		}
	}
	return b.String()
}

func (m ConsoleUI) renderMetadata() string {
	p := m.game.Player()
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.game.DayDescription()) + "\n\n")
	fmt.Fprintf(&b, "%s: %d/%d\n", m.msg.Stamina, p.Stamina, p.MaxStamina)
	fmt.Fprintf(&b, "%s: %d/%d\n\n", m.msg.Mana, p.Mana, p.MaxMana)
	for _, t := range state.Tracks {
		fmt.Fprintf(&b, "%s: %d\n", m.msg.Track(string(t)), p.Progress(t))
	}

	list := func(title string, items []string) {
		b.WriteString("\n" + title + ":\n")
		if len(items) == 0 {
			b.WriteString(m.hint.None + "\n")
			return
		}
		for _, it := range items {
			b.WriteString("• " + it + "\n")
		}
	}
	list(m.hint.Inventory, p.Inventory)
	list(m.hint.Clues, p.Clues)

	b.WriteString("\n")
	b.WriteString("• Enter\n")
	b.WriteString("• Ctrl+Y: copy\n")
	b.WriteString("• Esc: quit\n")
	return b.String()
}

func (m ConsoleUI) footer() string {
	if m.status != "" {
		return errorStyle.Render(m.status)
	}
	switch m.phase {
	case phaseChoose:
		return promptStyle.Render(m.hint.Choose)
	case phaseOver:
		return promptStyle.Render(m.hint.Finished)
	default:
		return promptStyle.Render(m.hint.Continue)
	}
}

func (m ConsoleUI) updateQuitModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc, tea.KeyEnter:
			return m, tea.Quit
		default:
			switch msg.String() {
			case "y", "Y":
				return m, tea.Quit
			case "n", "N":
				m.showQuitModal = false
				if m.phase == phaseChoose {
					m.input.Focus()
					return m, textinput.Blink
				}
				return m, nil
			}
		}
	}

	return m, nil
}

func (m ConsoleUI) renderQuitModal() string {
	var content strings.Builder
	content.WriteString(modalTitleStyle.Render(m.hint.QuitTitle))
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render(m.hint.QuitBody))

	modal := modalStyle.Width(50).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) View() string {
	if m.showQuitModal {
		return m.renderQuitModal()
	}
	if !m.ready {
		return "\n  Initializing..."
	}

	storyWidth := int(float64(m.width)*0.7) - 4
	metaWidth := m.width - storyWidth - 6

	bottom := m.footer()
	if m.phase == phaseChoose {
		bottom = lipgloss.JoinVertical(lipgloss.Left, m.input.View(), bottom)
	}
	storyPanel := storyPanelStyle.Width(storyWidth).Height(m.height - 1).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			m.storyViewport.View(),
			promptStyle.Render(strings.Repeat("─", max(storyWidth-4, 1))),
			bottom,
		),
	)
	metaPanel := metaPanelStyle.Width(metaWidth).Height(m.height - 1).Render(
		m.metaViewport.View(),
	)
	return lipgloss.JoinHorizontal(lipgloss.Top, storyPanel, metaPanel)
}
