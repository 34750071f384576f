package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is set via -ldflags.
var Version = "dev"

// ExitError ends the process with Code without printing an error.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "regform",
		Short: "Interactive registration form validation",
		Long: `regform validates a twelve-field registration form.

Examples:
  regform serve                 Serve forms over HTTP for datastar clients
  regform check signup.yaml     Submit the values in signup.yaml and report verdicts`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newServeCommand(), newCheckCommand())
	return root
}
