package application

import "github.com/ericfisherdev/testinguser/internal/domain/port/driven"

// NotEmpty returns a validator that rejects empty input with the given problem.
func NotEmpty(problem string) driven.Validator {
	return func(input string) (string, error) {
		if input == "" {
			return problem, nil
		}
		return "", nil
	}
}
