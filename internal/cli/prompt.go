package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ErrCancelled is returned when the user leaves a prompt without choosing
var ErrCancelled = errors.New("selection cancelled")

var (
	titleStyle        = lipgloss.NewStyle().MarginLeft(2).Bold(true)
	itemStyle         = lipgloss.NewStyle().PaddingLeft(4)
	selectedItemStyle = lipgloss.NewStyle().PaddingLeft(2).Foreground(lipgloss.Color("170"))
	helpStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).MarginTop(1).MarginLeft(2)
)

// Option is one entry of the interactive picker
type Option struct {
	Value string
	Label string
	Note  string // status or other short hint shown after the label
}

type item struct {
	Option
}

func (i item) FilterValue() string {
	return i.Label + " " + i.Value
}

func (i item) Title() string {
	title := i.Label
	if title == "" {
		title = i.Value
	}
	if i.Note != "" {
		title += " " + mutedStyle.Render("["+i.Note+"]")
	}
	return title
}

func (i item) Description() string { return "" }

type selectorModel struct {
	list     list.Model
	choice   string
	quitting bool
}

func (m selectorModel) Init() tea.Cmd {
	return nil
}

func (m selectorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetWidth(msg.Width)
		return m, nil

	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.quitting = true
			m.choice = ""
			return m, tea.Quit

		case "enter":
			if i, ok := m.list.SelectedItem().(item); ok {
				m.choice = i.Value
			}
			m.quitting = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m selectorModel) View() string {
	if m.quitting {
		return ""
	}

	help := helpStyle.Render("↑/↓: navigate • /: filter • enter: select • q/esc: cancel")
	return fmt.Sprintf("%s\n\n%s", m.list.View(), help)
}

func newSelector(title string, options []Option) selectorModel {
	items := make([]list.Item, 0, len(options))
	for _, opt := range options {
		items = append(items, item{opt})
	}

	const defaultWidth = 80
	const listHeight = 14

	l := list.New(items, itemDelegate{}, defaultWidth, listHeight)
	l.Title = title
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.Styles.Title = titleStyle

	return selectorModel{list: l}
}

// Pick shows an interactive list and returns the chosen option value
func Pick(title string, options []Option) (string, error) {
	if len(options) == 0 {
		return "", fmt.Errorf("nothing to choose from")
	}

	p := tea.NewProgram(newSelector(title, options))
	finalModel, err := p.Run()
	if err != nil {
		return "", fmt.Errorf("error running selector: %w", err)
	}

	result := finalModel.(selectorModel)
	if result.choice == "" {
		return "", ErrCancelled
	}
	return result.choice, nil
}

// itemDelegate is a custom list item delegate
type itemDelegate struct{}

func (d itemDelegate) Height() int                             { return 1 }
func (d itemDelegate) Spacing() int                            { return 0 }
func (d itemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	i, ok := listItem.(item)
	if !ok {
		return
	}

	str := fmt.Sprintf("%d. %s", index+1, i.Title())

	fn := itemStyle.Render
	if index == m.Index() {
		fn = func(s ...string) string {
			return selectedItemStyle.Render("> " + strings.Join(s, " "))
		}
	}

	fmt.Fprint(w, fn(str))
}

type passwordModel struct {
	input     textinput.Model
	submitted bool
	cancelled bool
}

func newPasswordModel(prompt string) passwordModel {
	ti := textinput.New()
	ti.Prompt = prompt
	ti.EchoMode = textinput.EchoPassword
	ti.EchoCharacter = '•'
	ti.Focus()
	return passwordModel{input: ti}
}

func (m passwordModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m passwordModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyEnter:
			m.submitted = true
			return m, tea.Quit
		case tea.KeyCtrlC, tea.KeyEsc:
			m.cancelled = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m passwordModel) View() string {
	if m.submitted || m.cancelled {
		return ""
	}
	return m.input.View() + "\n"
}

// PromptPassword reads a password without echo on a terminal. Piped stdin is read
// as a single line.
func PromptPassword(prompt string) (string, error) {
	if !IsInteractive() {
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return strings.TrimRight(line, "\r\n"), nil
	}

	finalModel, err := tea.NewProgram(newPasswordModel(prompt), tea.WithOutput(os.Stderr)).Run()
	if err != nil {
		return "", fmt.Errorf("error running password prompt: %w", err)
	}

	result := finalModel.(passwordModel)
	if result.cancelled {
		return "", ErrCancelled
	}
	return result.input.Value(), nil
}

// PromptLine reads one line from stdin after printing prompt to stderr
func PromptLine(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	reader := bufio.NewReader(os.Stdin)
	value, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimSpace(value), nil
}

// IsInteractive checks if stdin is a terminal (not piped)
func IsInteractive() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) != 0
}
