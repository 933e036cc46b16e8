package main

import (
	"errors"
	"fmt"
	"os"
)

// Exit codes for different failure modes
const (
	ExitSuccess     = 0 // Deck passed the threshold
	ExitCheckFailed = 1 // Deck below threshold or selftest failure
	ExitError       = 2 // Configuration or runtime error
)

// CheckFailureError indicates the command ran to completion but its pass
// condition was not met: a deck scoring below the threshold, or a failed
// selftest. The report already went to the normal output, so main exits
// without printing it again.
type CheckFailureError struct {
	Message string
}

func (e *CheckFailureError) Error() string {
	return e.Message
}

func main() {
	if err := execute(); err != nil {
		var checkErr *CheckFailureError
		if errors.As(err, &checkErr) {
			os.Exit(ExitCheckFailed)
		}

		fmt.Fprintln(os.Stderr, err)
		os.Exit(ExitError)
	}
}
