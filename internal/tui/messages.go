package tui

// StepBackMsg is emitted by a step when the user steps back.
type StepBackMsg struct{}

// StepCompleteMsg is emitted by a step when it finishes.
type StepCompleteMsg struct{}
