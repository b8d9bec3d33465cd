package commands

import (
	"github.com/spf13/cobra"

	"github.com/minhlongdo/teuthology/cmd/teuthology-node/handlers"
)

// Destroy returns the command that tears down a node and its volumes.
func Destroy() *cobra.Command {
	var opts handlers.DestroyOptions

	cmd := &cobra.Command{
		Use:   "destroy",
		Short: "Destroy a test node and its volumes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Destroy(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Path to configuration file")
	cmd.Flags().StringVarP(&opts.Name, "name", "n", "", "Name of the node to destroy")
	_ = cmd.MarkFlagRequired("config")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}
