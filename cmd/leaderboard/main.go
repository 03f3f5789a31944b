package main

import (
	"errors"
	"fmt"
	"os"
)

// Exit codes for different failure modes
const (
	ExitSuccess   = 0 // Command completed
	ExitMalformed = 1 // validate found malformed artifacts
	ExitError     = 2 // Configuration or runtime error
)

// MalformedArtifactsError indicates that validate ran to completion but at
// least one artifact could not be parsed.
type MalformedArtifactsError struct {
	Count int
}

func (e *MalformedArtifactsError) Error() string {
	if e.Count == 1 {
		return "1 artifact is malformed"
	}
	return fmt.Sprintf("%d artifacts are malformed", e.Count)
}

func main() {
	os.Exit(run(os.Args[1:]))
}

// run executes the CLI and maps its error to an exit code.
func run(args []string) int {
	cmd := newRootCommand()
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitCode(err)
	}
	return ExitSuccess
}

func exitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var malformed *MalformedArtifactsError
	if errors.As(err, &malformed) {
		return ExitMalformed
	}
	return ExitError
}
