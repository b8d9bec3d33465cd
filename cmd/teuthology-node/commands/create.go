package commands

import (
	"github.com/spf13/cobra"

	"github.com/minhlongdo/teuthology/cmd/teuthology-node/handlers"
)

// Create returns the command that provisions one test node and blocks
// until it is reachable and finished with first-boot setup.
//
// Required flags:
//
//	--config, -c: Path to the provisioner configuration YAML file
//	--name, -n:   Node name, unique within the backend project
//
// Environment variables:
//
//	HCLOUD_TOKEN: Cloud API token (overrides the config file)
func Create() *cobra.Command {
	var opts handlers.CreateOptions

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a test node and wait until it is ready",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Create(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Path to configuration file")
	cmd.Flags().StringVarP(&opts.Name, "name", "n", "", "Name of the node to create")
	cmd.Flags().StringVar(&opts.OSType, "os-type", "ubuntu", "OS type used to select the image")
	cmd.Flags().StringVar(&opts.OSVersion, "os-version", "16.04", "OS version used to select the image")
	cmd.Flags().StringVar(&opts.MetricsAddr, "metrics-addr", "", "Address to serve Prometheus metrics on (disabled when empty)")
	_ = cmd.MarkFlagRequired("config")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}
