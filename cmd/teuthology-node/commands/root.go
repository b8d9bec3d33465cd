// Package commands defines the CLI command structure and flag bindings.
//
// Commands handle argument parsing and validation; execution is delegated
// to the handlers package.
package commands

import "github.com/spf13/cobra"

// Root returns the root command for the teuthology-node CLI.
func Root() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "teuthology-node",
		Short:         "Provision ephemeral test nodes on a cloud backend",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.AddCommand(Create())
	cmd.AddCommand(Destroy())

	return cmd
}
