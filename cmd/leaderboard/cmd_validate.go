package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bengali-mteb/leaderboard/internal/results"
)

func newValidateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate FILE...",
		Short: "Check result artifacts the way the loader reads them",
		Long: `Run local result artifacts through the same sanitize, schema and parse
steps the loader uses, and report each as OK or MALFORMED.

Exits with status 1 when any artifact is malformed and 2 when a file cannot
be read.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			malformed := 0
			for _, path := range args {
				raw, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("reading %s: %w", path, err)
				}
				res, err := results.Parse(raw)
				if err != nil {
					malformed++
					fmt.Fprintf(out, "MALFORMED %s\n", path) //nolint:errcheck
					var pe *results.ParseError
					if errors.As(err, &pe) {
						for _, p := range pe.Problems {
							fmt.Fprintf(out, "  - %s\n", p) //nolint:errcheck
						}
					}
					continue
				}
				if rec := res.Record(); rec != nil {
					fmt.Fprintf(out, "OK        %s (%d metrics)\n", path, rec.Len()) //nolint:errcheck
				} else {
					fmt.Fprintf(out, "OK        %s (no test scores)\n", path) //nolint:errcheck
				}
			}
			if malformed > 0 {
				return &MalformedArtifactsError{Count: malformed}
			}
			return nil
		},
	}
	return cmd
}
