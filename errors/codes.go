package errors

// ErrorCode identifies a class of compile error.
type ErrorCode string

const (
	E2001 ErrorCode = "E2001" // Undefined variable
	E2002 ErrorCode = "E2002" // Invalid let target
	E2003 ErrorCode = "E2003" // Unknown operator
	E2004 ErrorCode = "E2004" // Unsupported node
	E2005 ErrorCode = "E2005" // Invalid return statement
	E2006 ErrorCode = "E2006" // Too many arguments
	E2007 ErrorCode = "E2007" // Too many definitions
	E2008 ErrorCode = "E2008" // Too many constants
	E2009 ErrorCode = "E2009" // Too many free variables
	E2010 ErrorCode = "E2010" // Too many elements
)

var codeDescriptions = map[ErrorCode]string{
	E2001: "undefined variable",
	E2002: "invalid let target",
	E2003: "unknown operator",
	E2004: "unsupported node",
	E2005: "invalid return statement",
	E2006: "too many arguments",
	E2007: "too many definitions",
	E2008: "too many constants",
	E2009: "too many free variables",
	E2010: "too many elements",
}

// Description returns a short description of the error code.
func (c ErrorCode) Description() string {
	return codeDescriptions[c]
}
