package domainerrors

import "fmt"

// MissingField reports a required field that was absent from the input.
func MissingField(field string) error {
	return &Error{Code: CodeValidation, Message: fmt.Sprintf("%s is required", field)}
}

// InvalidFormat reports a field that was present but not in the expected notation.
func InvalidFormat(field, expected string) error {
	return &Error{Code: CodeInvalidInput, Message: fmt.Sprintf("%s must be in %s", field, expected)}
}

// UnsupportedVersion reports a version that parsed correctly but is outside the accepted range.
func UnsupportedVersion(field, accepted string) error {
	return &Error{Code: CodeUnsupportedVersion, Message: fmt.Sprintf("%s must be %s", field, accepted)}
}
