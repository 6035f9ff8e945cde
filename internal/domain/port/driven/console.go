package driven

// Validator inspects a candidate answer. A non-empty problem is shown to the
// operator, who is asked again; a non-nil error aborts the prompt.
type Validator func(input string) (problem string, err error)

// Console is the operator's terminal. Prompt blocks until an answer is
// accepted, a default is taken, or input ends.
type Console interface {
	Prompt(label, defaultValue string, validate Validator) (string, error)
	Printf(format string, a ...any)
	Println(a ...any)
	// Errorln writes to the error stream.
	Errorln(a ...any)
}
