package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mymuse/adstudio/internal/product"
)

type menuOption struct {
	value string
	label string
}

type menuItem struct {
	label    string
	value    string
	options  []menuOption // nil means free-text input
	required bool
}

type wizardState int

const (
	stateMenu wizardState = iota
	stateEditing
	statePicking
)

type wizardModel struct {
	items     []menuItem
	cursor    int
	state     wizardState
	editBuf   string
	pickIdx   int
	confirmed bool
	width     int
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#E84393")).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
			Width(14).
			Align(lipgloss.Right).
			Foreground(lipgloss.Color("#AAAAAA"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#04B575"))

	valueDimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#555555")).
			Italic(true)

	cursorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#E84393")).
			Bold(true)

	requiredStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5555")).
			Bold(true)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#04B575")).
			Bold(true)

	buttonStyle = lipgloss.NewStyle().
			Padding(0, 2).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#E84393")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262")).
			Padding(1, 1)
)

const (
	itemTranscript = iota
	itemProduct
	itemTone
	itemIntensity
	itemCount
	itemStrict
	itemGenerate
)

func buildWizardItems() []menuItem {
	productOpts := []menuOption{{"", "auto-detect"}}
	for _, id := range product.IDs() {
		productOpts = append(productOpts, menuOption{id, id})
	}
	return []menuItem{
		{label: "Transcript", value: flagInput, required: true},
		{label: "Product", value: flagProduct, options: productOpts},
		{label: "Tone", value: flagTone, options: []menuOption{
			{"plain", "plain (calm educator)"},
			{"genz", "genz (chaotic bestie)"},
		}},
		{label: "Intensity", value: flagIntensity, options: []menuOption{
			{"pg13", "pg13 (innuendo only)"},
			{"open", "open (direct, still safe)"},
		}},
		{label: "Variations", value: strconv.Itoa(defaultWizardCount()), options: []menuOption{
			{"5", "5"}, {"10", "10"}, {"15", "15"},
		}},
		{label: "Strict", value: boolValue(flagStrict), options: []menuOption{
			{"no", "no (may swap to a better-fitting product)"},
			{"yes", "yes (only the chosen product)"},
		}},
		{label: "Generate"},
	}
}

func defaultWizardCount() int {
	if flagCount > 0 {
		return flagCount
	}
	return 10
}

func boolValue(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func (m wizardModel) Init() tea.Cmd {
	return nil
}

func (m wizardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case tea.KeyMsg:
		switch m.state {
		case stateEditing:
			return m.updateEditing(msg)
		case statePicking:
			return m.updatePicking(msg)
		default:
			return m.updateMenu(msg)
		}
	}
	return m, nil
}

func (m wizardModel) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
	case "enter", " ":
		if m.cursor == itemGenerate {
			if m.items[itemTranscript].value == "" {
				return m, nil
			}
			m.confirmed = true
			return m, tea.Quit
		}
		item := m.items[m.cursor]
		if item.options == nil {
			m.state = stateEditing
			m.editBuf = item.value
			return m, nil
		}
		m.state = statePicking
		m.pickIdx = 0
		for i, o := range item.options {
			if o.value == item.value {
				m.pickIdx = i
			}
		}
	}
	return m, nil
}

func (m wizardModel) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.state = stateMenu
	case tea.KeyEnter:
		m.items[m.cursor].value = strings.TrimSpace(m.editBuf)
		m.state = stateMenu
	case tea.KeyBackspace:
		if len(m.editBuf) > 0 {
			m.editBuf = m.editBuf[:len(m.editBuf)-1]
		}
	case tea.KeyCtrlU:
		m.editBuf = ""
	case tea.KeyRunes, tea.KeySpace:
		m.editBuf += string(msg.Runes)
		if msg.Type == tea.KeySpace {
			m.editBuf += " "
		}
	}
	return m, nil
}

func (m wizardModel) updatePicking(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	opts := m.items[m.cursor].options
	switch msg.String() {
	case "esc":
		m.state = stateMenu
	case "up", "k":
		if m.pickIdx > 0 {
			m.pickIdx--
		}
	case "down", "j":
		if m.pickIdx < len(opts)-1 {
			m.pickIdx++
		}
	case "enter", " ":
		m.items[m.cursor].value = opts[m.pickIdx].value
		m.state = stateMenu
	}
	return m, nil
}

func (m wizardModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("adstudio · script setup"))
	b.WriteString("\n\n")

	for i, item := range m.items {
		cursor := "  "
		if i == m.cursor {
			cursor = cursorStyle.Render("> ")
		}

		if i == itemGenerate {
			b.WriteString("\n" + cursor)
			if i == m.cursor {
				b.WriteString(buttonStyle.Render("Generate"))
			} else {
				b.WriteString(valueDimStyle.Render("[ Generate ]"))
			}
			b.WriteString("\n")
			continue
		}

		b.WriteString(cursor + labelStyle.Render(item.label) + "  ")
		switch {
		case i == m.cursor && m.state == stateEditing:
			b.WriteString(valueStyle.Render(m.editBuf + "▌"))
		case item.value == "" && item.required:
			b.WriteString(requiredStyle.Render("(required)"))
		case item.value == "":
			b.WriteString(valueDimStyle.Render(displayValue(item, "auto-detect")))
		default:
			b.WriteString(valueStyle.Render(displayValue(item, item.value)))
		}
		b.WriteString("\n")

		if i == m.cursor && m.state == statePicking {
			for j, o := range item.options {
				marker, style := "  ", valueDimStyle
				if j == m.pickIdx {
					marker, style = "> ", selectedStyle
				}
				b.WriteString(strings.Repeat(" ", 18) + marker + style.Render(o.label) + "\n")
			}
		}
	}

	switch m.state {
	case stateEditing:
		b.WriteString(helpStyle.Render("type transcript, a file path, or a URL | enter to confirm | esc to cancel"))
	case statePicking:
		b.WriteString(helpStyle.Render("up/down to choose | enter to confirm | esc to cancel"))
	default:
		b.WriteString(helpStyle.Render("up/down to move | enter to edit | q to quit"))
	}
	return b.String()
}

func displayValue(item menuItem, fallback string) string {
	for _, o := range item.options {
		if o.value == item.value {
			return o.label
		}
	}
	if item.value == "" {
		return fallback
	}
	return item.value
}

// runInteractiveSetup collects generation options through the wizard and
// writes them back into the command flags.
func runInteractiveSetup() error {
	m := wizardModel{items: buildWizardItems()}
	p := tea.NewProgram(m, tea.WithAltScreen())
	out, err := p.Run()
	if err != nil {
		return fmt.Errorf("interactive setup: %w", err)
	}
	final, ok := out.(wizardModel)
	if !ok || !final.confirmed {
		return fmt.Errorf("setup canceled")
	}

	flagInput = final.items[itemTranscript].value
	flagProduct = final.items[itemProduct].value
	flagTone = final.items[itemTone].value
	flagIntensity = final.items[itemIntensity].value
	if n, err := strconv.Atoi(final.items[itemCount].value); err == nil {
		flagCount = n
	}
	flagStrict = final.items[itemStrict].value == "yes"
	flagTUI = false
	return nil
}
