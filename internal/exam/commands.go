package exam

// Command is one student or clock action fed into Controller.Dispatch.
type Command interface {
	commandName() string
}

// SelectAnswer sets the answer of a SingleChoice question.
type SelectAnswer struct {
	Letter string
}

// ToggleOption flips one letter of a MultiSelect question.
type ToggleOption struct {
	Letter string
}

// MarkStatement records a true/false judgement for one statement of a
// CategoryTrueFalse question.
type MarkStatement struct {
	Statement string
	Value     bool
}

// Navigate jumps to a zero-based question index.
type Navigate struct {
	Index int
}

type Next struct{}

type Prev struct{}

// ToggleDoubt flips the review-later marker of the current question.
type ToggleDoubt struct{}

// Finish ends the exam. Confirmed must be set when questions are unanswered.
type Finish struct {
	Confirmed bool
}

// Tick advances the countdown by one second.
type Tick struct{}

func (SelectAnswer) commandName() string  { return "select_answer" }
func (ToggleOption) commandName() string  { return "toggle_option" }
func (MarkStatement) commandName() string { return "mark_statement" }
func (Navigate) commandName() string      { return "navigate" }
func (Next) commandName() string          { return "next" }
func (Prev) commandName() string          { return "prev" }
func (ToggleDoubt) commandName() string   { return "toggle_doubt" }
func (Finish) commandName() string        { return "finish" }
func (Tick) commandName() string          { return "tick" }

// CommandName returns the wire name of a command, used in logs.
func CommandName(cmd Command) string {
	if cmd == nil {
		return ""
	}
	return cmd.commandName()
}
