// Package steps contains the concrete wizard steps for collecting the
// generation parameters.
package steps

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sfc-gh-amelatti/cortex-agents-role-tool-CART/internal/tui"
	"github.com/sfc-gh-amelatti/cortex-agents-role-tool-CART/internal/tui/components"
)

// InputStep collects a single text value. One constructor covers every
// parameter the wizard asks for; the apply function decides where the
// value lands in the wizard context.
type InputStep struct {
	title    string
	input    components.TextInput
	complete bool
	value    string
	prefill  string
	optional bool
	apply    func(ctx *tui.WizardContext, value string)
}

// NewInputStep creates a text input step. A non-empty prefill (normally a
// flag value) skips the step entirely. Optional steps accept an empty value.
func NewInputStep(styles *tui.StyleSet, title, prompt, placeholder, prefill string, optional bool, apply func(*tui.WizardContext, string)) *InputStep {
	validate := func(val string) error {
		if val == "" && !optional {
			return fmt.Errorf("%s is required", title)
		}
		return nil
	}

	input := components.NewTextInput(prompt, placeholder, validate, components.InputStyles{
		Label:  styles.AccentTxt,
		Border: styles.InactiveBorder,
		Error:  styles.ErrorTxt,
		Accent: styles.Theme.Accent,
		Kbd:    components.NewKbdHint(styles.KbdKey, styles.KbdDesc),
	})
	if prefill != "" {
		input.SetValue(prefill)
	}

	return &InputStep{
		title:    title,
		input:    input,
		prefill:  prefill,
		optional: optional,
		apply:    apply,
	}
}

func (s *InputStep) Title() string { return s.title }

func (s *InputStep) Init() tea.Cmd {
	if s.prefill != "" {
		s.complete = true
		s.value = s.prefill
		return func() tea.Msg { return tui.StepCompleteMsg{} }
	}
	return s.input.Init()
}

func (s *InputStep) Update(msg tea.Msg) (tui.Step, tea.Cmd) {
	if s.complete {
		return s, nil
	}

	updated, cmd := s.input.Update(msg)
	s.input = updated

	if s.input.Done() {
		s.complete = true
		s.value = s.input.Value()
		return s, func() tea.Msg { return tui.StepCompleteMsg{} }
	}

	return s, cmd
}

func (s *InputStep) View(width int) string {
	return s.input.View(width)
}

func (s *InputStep) Summary() string {
	if s.value == "" {
		return "(none)"
	}
	return s.value
}

func (s *InputStep) Apply(ctx *tui.WizardContext) {
	s.apply(ctx, s.value)
}
