package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

// errReported marks failures the user has already been told about through a
// notification or a printed message.
var errReported = errors.New("already reported")

func reported(err error) error {
	return fmt.Errorf("%w: %w", errReported, err)
}

// IsReported reports whether err needs no further printing.
func IsReported(err error) bool {
	return errors.Is(err, errReported)
}

func NewRootCommand(rt *Runtime) *cobra.Command {
	root := newRoot(rt)
	root.AddCommand(newShellCommand(rt))
	return root
}

func newRoot(rt *Runtime) *cobra.Command {
	root := &cobra.Command{
		Use:           "pilot",
		Short:         "Manage your portfolio: profile, projects, achievements and certificates",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			RenderScreen(cmd.OutOrStdout(), rt.App)
			return nil
		},
	}
	root.SetOut(rt.out)
	root.SetErr(rt.out)

	root.AddCommand(
		newSignUpCommand(rt),
		newLoginCommand(rt),
		newLogoutCommand(rt),
		newStatusCommand(rt),
		newOpenCommand(rt),
		newShowCommand(rt),
		newProfileCommand(rt),
		newItemCommand(rt),
		newLinkCommand(rt),
		newExportCommand(rt),
	)
	return root
}

// Execute runs one command line against rt.
func Execute(ctx context.Context, rt *Runtime, args []string) error {
	root := NewRootCommand(rt)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}
