package main

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMalformedArtifactsError(t *testing.T) {
	assert.Equal(t, "1 artifact is malformed", (&MalformedArtifactsError{Count: 1}).Error())
	assert.Equal(t, "3 artifacts are malformed", (&MalformedArtifactsError{Count: 3}).Error())
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "success", err: nil, want: ExitSuccess},
		{name: "malformed artifacts", err: &MalformedArtifactsError{Count: 2}, want: ExitMalformed},
		{name: "wrapped malformed artifacts", err: fmt.Errorf("validate: %w", &MalformedArtifactsError{Count: 1}), want: ExitMalformed},
		{name: "joined malformed artifacts", err: errors.Join(&MalformedArtifactsError{Count: 1}, errors.New("more")), want: ExitMalformed},
		{name: "regular error", err: errors.New("config error"), want: ExitError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCode(tt.err))
		})
	}
}

func TestRunUnknownCommand(t *testing.T) {
	assert.Equal(t, ExitError, run([]string{"no-such-command"}))
}
