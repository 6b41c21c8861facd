package bundle

import "fmt"

// MissingCodeError is returned when an included module has no code, which
// means the compiler failed to emit it.
type MissingCodeError struct {
	Module string
}

func (e *MissingCodeError) Error() string {
	return fmt.Sprintf("no compiled code for module %q; the compiler did not emit it", e.Module)
}

// ParseError is returned by Parse for text that is not a bundle.
type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string {
	return "malformed bundle: " + e.Reason
}
