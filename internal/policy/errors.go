package policy

import "fmt"

// Error reports a draft key or a passphrase failing policy. Reason is a
// short machine-checkable string (e.g. "passphrase weak: length<12",
// "passphrase weak: diversity<3").
type Error struct {
	Reason string
}

func (e *Error) Error() string { return fmt.Sprintf("policy: %s", e.Reason) }

// ErrPassphraseWeak builds a policy error for a passphrase failing the
// strength rule.
func ErrPassphraseWeak(reason string) error { return &Error{Reason: "passphrase weak: " + reason} }

// ErrInjectionBlocked rejects passphrases carrying shell metacharacter
// sequences.
var ErrInjectionBlocked = &Error{Reason: "passphrase contains a blocked shell metacharacter sequence"}

// ErrStructural is returned when a draft key fails a structural rule (bad
// scope shape, missing required metadata).
func ErrStructural(reason string) error { return &Error{Reason: reason} }
