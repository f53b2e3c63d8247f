package util

import (
	"fmt"
	"os"
	"strings"
)

// Errors accumulates multiple errors so that callers can report every
// problem found instead of just the first one.
type Errors []error

func (e Errors) Error() string {
	msgs := []string{}
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Add appends an error to the accumulator.
func (e *Errors) Add(err error) {
	*e = append(*e, err)
}

// RequireEnv returns the value of the named environment variable,
// recording an error in errs if it is unset or empty.
func RequireEnv(varName string, errs *Errors) string {
	envVar := os.Getenv(varName)
	if len(envVar) == 0 {
		errs.Add(fmt.Errorf("environment variable %s must be set", varName))
	}
	return envVar
}
