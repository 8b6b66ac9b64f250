// Package fatal provides the two process-terminating failure modes the
// core relies on: allocation failure and overflow of a 32-bit ID space.
// Neither is recoverable, since IDs are baked into every arena the moment
// they're handed out.
package fatal

import (
	"fmt"
	"os"
)

// OOM terminates the process because an allocation could not be satisfied.
func OOM() {
	fmt.Fprintln(os.Stderr, "fatal error: out of memory")
	os.Exit(1)
}

// ImplLimitExceeded terminates the process because a 32-bit counter or
// address space would otherwise overflow. what names the structure that
// hit the limit, e.g. "ast arena" or "string interner".
func ImplLimitExceeded(what string) {
	fmt.Fprintf(os.Stderr, "fatal error: implementation limit exceeded (%s)\n", what)
	os.Exit(1)
}
