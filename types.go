package main

// UnitKind identifies what a resolved input refers to.
type UnitKind int

const (
	UnitStdin     UnitKind = iota // Standard input; no label.
	UnitFile                      // A regular file (or preloaded remote content).
	UnitDirectory                 // A directory matched without recursion.
)

// Unit is a single resolved input, consumed exactly once by processUnit.
type Unit struct {
	Kind UnitKind
	// Path is what gets opened. It differs from Label for cloned repositories.
	Path  string
	Label string
	// Content is set for inputs that were already fetched during resolution (web pages).
	Content []byte
	// Err is set when resolution already knows the unit cannot be read (failed clone or fetch).
	Err error
}

// Outcome is the result of processing one Unit.
type Outcome struct {
	Label    string
	HasLabel bool
	Tokens   int
	Err      error
}

// Counted reports whether the outcome carries a token count.
func (o Outcome) Counted() bool { return o.Err == nil }

// RunResult holds every outcome of one invocation in display order.
type RunResult struct {
	Outcomes    []Outcome
	TotalTokens int
	// Args is the number of arguments supplied; a total line is printed when it exceeds one.
	Args int
}

// add appends an outcome, keeping the running total in step.
func (r *RunResult) add(o Outcome) {
	r.Outcomes = append(r.Outcomes, o)
	if o.Counted() {
		r.TotalTokens += o.Tokens
	}
}
