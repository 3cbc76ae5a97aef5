package parser

import (
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/risor-io/monkey/token"
)

// SyntaxError describes one problem found while parsing.
type SyntaxError struct {
	Message  string
	Position token.Position
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error: %s (%s)", e.Message, e.Position)
}

// newErrors combines every error collected during a parse, including those
// reported by the lexer, into one error value. The individual errors remain reachable through
// multierror.Error.Errors or errors.As.
func newErrors(errs []error) error {
	var result *multierror.Error
	for _, err := range errs {
		result = multierror.Append(result, err)
	}
	result.ErrorFormat = formatErrors
	return result.ErrorOrNil()
}

func formatErrors(errs []error) string {
	if len(errs) == 1 {
		return errs[0].Error()
	}
	msg := fmt.Sprintf("%d syntax errors:", len(errs))
	for _, err := range errs {
		msg += "\n\t" + err.Error()
	}
	return msg
}
