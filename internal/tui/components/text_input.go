package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// InputStyles groups the styles a text input needs.
type InputStyles struct {
	Label  lipgloss.Style
	Border lipgloss.Style
	Error  lipgloss.Style
	Accent lipgloss.Color
	Kbd    KbdHint
}

// TextInput is a styled text entry component wrapping bubbles/textinput.
type TextInput struct {
	Label      string
	input      textinput.Model
	done       bool
	err        string
	validateFn func(string) error
	styles     InputStyles
}

// NewTextInput creates a new styled text input.
func NewTextInput(label, placeholder string, validateFn func(string) error, styles InputStyles) TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Focus()
	ti.CharLimit = 255
	ti.Cursor.Style = lipgloss.NewStyle().Foreground(styles.Accent)

	styles.Kbd.Bindings = InputHints()

	return TextInput{
		Label:      label,
		input:      ti,
		validateFn: validateFn,
		styles:     styles,
	}
}

// Init focuses the text input.
func (t TextInput) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages.
func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	if t.done {
		return t, nil
	}

	if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == "enter" {
		val := strings.TrimSpace(t.input.Value())
		if t.validateFn != nil {
			if err := t.validateFn(val); err != nil {
				t.err = err.Error()
				return t, nil
			}
		}
		t.done = true
		t.err = ""
		return t, nil
	}

	var cmd tea.Cmd
	t.input, cmd = t.input.Update(msg)
	t.err = ""
	return t, cmd
}

// View renders the text input.
func (t TextInput) View(width int) string {
	out := "\n  " + t.styles.Label.Render(t.Label) + "\n\n"

	inputWidth := width - 8
	if inputWidth < 20 {
		inputWidth = 20
	}
	t.input.Width = inputWidth

	out += "  " + t.styles.Border.Width(inputWidth).Render(t.input.View()) + "\n"

	if t.err != "" {
		out += "  " + t.styles.Error.Render("✗ "+t.err) + "\n"
	}

	out += "\n" + t.styles.Kbd.View()
	return out
}

// Done returns true when input is submitted.
func (t TextInput) Done() bool { return t.done }

// Value returns the current input value.
func (t TextInput) Value() string { return strings.TrimSpace(t.input.Value()) }

// SetValue sets the input value.
func (t *TextInput) SetValue(v string) { t.input.SetValue(v) }
