package steps

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sfc-gh-amelatti/cortex-agents-role-tool-CART/internal/tui"
	"github.com/sfc-gh-amelatti/cortex-agents-role-tool-CART/internal/tui/components"
)

// ReviewStep shows the collected parameters and waits for confirmation.
// Script generation happens after the wizard exits.
type ReviewStep struct {
	styles   *tui.StyleSet
	summary  components.SummaryBox
	complete bool
	kbd      components.KbdHint
}

// NewReviewStep creates a new review step.
func NewReviewStep(styles *tui.StyleSet) *ReviewStep {
	kbd := components.NewKbdHint(styles.KbdKey, styles.KbdDesc)
	kbd.Bindings = components.ReviewHints()
	return &ReviewStep{styles: styles, kbd: kbd}
}

// Prepare builds the summary from the wizard context.
func (s *ReviewStep) Prepare(ctx *tui.WizardContext) {
	s.complete = false

	rows := []components.SummaryRow{
		{Key: "Agent", Value: ctx.Database + "." + ctx.Schema + "." + ctx.Agent},
		{Key: "Role", Value: ctx.Role},
	}
	if ctx.Warehouse != "" {
		rows = append(rows, components.SummaryRow{Key: "Warehouse", Value: ctx.Warehouse})
	}

	s.summary = components.NewSummaryBox(
		rows,
		s.styles.SummaryKey,
		s.styles.SummaryValue,
		s.styles.BorderedBox,
	)
}

func (s *ReviewStep) Title() string { return "Review & Generate" }

func (s *ReviewStep) Init() tea.Cmd { return nil }

func (s *ReviewStep) Update(msg tea.Msg) (tui.Step, tea.Cmd) {
	if s.complete {
		return s, nil
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "enter":
			s.complete = true
			return s, func() tea.Msg { return tui.StepCompleteMsg{} }
		case "backspace":
			return s, func() tea.Msg { return tui.StepBackMsg{} }
		}
	}
	return s, nil
}

func (s *ReviewStep) View(width int) string {
	out := s.summary.View(width) + "\n\n"
	out += "  " + s.styles.AccentTxt.Render("Press Enter to generate the grant script, Backspace to go back") + "\n\n"
	out += s.kbd.View()
	return out
}

func (s *ReviewStep) Summary() string { return "confirmed" }

func (s *ReviewStep) Apply(ctx *tui.WizardContext) {}
