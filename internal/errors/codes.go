package errors

// Error codes for the ctxtok toolchain
// These codes are used in diagnostics printed by the CLI and published by
// the language server.
//
// Error code ranges:
// E0100-E0199: Tokenizer and grammar errors
// W0001-W0099: Warning codes

const (
	// Tokenizer and grammar errors (E0100-E0199)

	// E0100: A bounded context was still open at the end of the content
	ErrorUnexpectedEnd = "E0100"

	// E0101: Text no valid definition matched inside a dense context
	ErrorUnrecognizedContent = "E0101"

	// E0102: A token definition could not be built
	ErrorInvalidDefinition = "E0102"

	// E0103: A grammar file could not be parsed or compiled
	ErrorInvalidGrammar = "E0103"

	// E0104: The pattern engine failed while searching
	ErrorMatchFailure = "E0104"

	// Warning codes

	// W0001: Unmatched text skipped in a sparse, unbounded or root context
	WarningSkippedContent = "W0001"
)

// GetErrorDescription returns a human-readable description of the error code
func GetErrorDescription(code string) string {
	switch code {
	case ErrorUnexpectedEnd:
		return "Context opened by a start token is never closed"
	case ErrorUnrecognizedContent:
		return "Text is not recognised by any token valid in its context"
	case ErrorInvalidDefinition:
		return "Token definition has a missing key or an invalid pattern"
	case ErrorInvalidGrammar:
		return "Grammar file cannot be parsed or compiled"
	case ErrorMatchFailure:
		return "Pattern engine failed while searching for a token"
	case WarningSkippedContent:
		return "Text was skipped because no token matched it"
	default:
		return "Unknown error code"
	}
}

// IsWarning returns true if the error code represents a warning rather than an error
func IsWarning(code string) bool {
	return code != "" && code[0] == 'W'
}

// GetErrorCategory returns the category of the error based on its code
func GetErrorCategory(code string) string {
	switch {
	case code == ErrorInvalidGrammar:
		return "Grammar"
	case code >= "E0100" && code < "E0200":
		return "Tokenizer"
	case IsWarning(code):
		return "Warning"
	default:
		return "Unknown"
	}
}
