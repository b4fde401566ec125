package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for domain operations
var (
	// ErrInvalidFullyQualifiedName is returned when a name is not "<source>:<contract>"
	ErrInvalidFullyQualifiedName = errors.New("invalid fully qualified name")

	// ErrContractNotFound is returned when a contract can't be found
	ErrContractNotFound = errors.New("contract not found")

	// ErrNoNetwork is returned when a command needs a chain but none is configured
	ErrNoNetwork = errors.New("no network configured")

	// ErrNoAccounts is returned when the node manages no accounts to sign with
	ErrNoAccounts = errors.New("node returned no accounts")

	// ErrUnsupportedInMode is returned by test-client operations the node mode lacks
	ErrUnsupportedInMode = errors.New("operation not supported in this test mode")

	// ErrTransactionFailed is returned when a mined transaction reverted
	ErrTransactionFailed = errors.New("transaction failed")

	// ErrNoImportPath is returned when the output directory has no Go import path
	ErrNoImportPath = errors.New("output directory has no Go import path; set import_path or run inside a Go module")

	// ErrOutputCollision is returned when two source files map to the same output directory
	ErrOutputCollision = errors.New("source files share an output directory")
)

// NoContractsMatchErr is returned when a contract reference resolves to nothing.
// Suggestions holds close matches, best first.
type NoContractsMatchErr struct {
	Query       string
	Suggestions []string
}

func (e NoContractsMatchErr) Error() string {
	if len(e.Suggestions) == 0 {
		return fmt.Sprintf("no contracts match %q", e.Query)
	}
	return fmt.Sprintf("no contracts match %q, did you mean:\n  - %s",
		e.Query, strings.Join(e.Suggestions, "\n  - "))
}

func (e NoContractsMatchErr) Unwrap() error { return ErrContractNotFound }
