package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/zeusync/worldcore/internal/core/messages"
	"github.com/zeusync/worldcore/internal/injector"
)

// NewTypesCommand lists the registered message types.
func NewTypesCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "types",
		Short:         "List the message types and their routing ids",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			types, err := injector.ProvideTypeRegistry()
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to register message types", err)
			}
			infos := types.Types()
			return write(cmd.OutOrStdout(), rootOpts.Format, infos, func(w io.Writer) error {
				for _, info := range infos {
					if _, err := fmt.Fprintln(w, describeType(info)); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}

func describeType(info messages.TypeInfo) string {
	s := fmt.Sprintf("%-20s %20d", info.Name, uint64(info.ID))
	if info.Event {
		s += " event"
	}
	if info.DebugRouting {
		s += " debug"
	}
	return s
}
