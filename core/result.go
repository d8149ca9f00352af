package core

// Result is the closed set of values a tool invocation can produce:
// TextResult for action tools and HandoffResult for transfers. The unexported
// marker keeps the union closed so type switches in the dispatch loop are
// exhaustive.
type Result interface{ isResult() }

// TextResult carries the text outcome of an action tool.
type TextResult struct {
	Text string
}

func (TextResult) isResult() {}

// HandoffResult routes the conversation to another agent.
type HandoffResult struct {
	Target Agent
}

func (HandoffResult) isResult() {}

// Text wraps s as a TextResult.
func Text(s string) Result { return TextResult{Text: s} }

// HandoffTo builds a HandoffResult targeting a.
func HandoffTo(a Agent) Result { return HandoffResult{Target: a} }
