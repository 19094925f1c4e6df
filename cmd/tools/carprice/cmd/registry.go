package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"carprice-workers/pkg/registry"

	lcm "carprice-workers/internal/workers/catalog/list-car-models"
	ecp "carprice-workers/internal/workers/pricing/estimate-car-price"
)

// workerTaskTypes are the task types this repository implements; the registry
// must document each of them.
var workerTaskTypes = []string{ecp.TaskType, lcm.TaskType}

func newRegistryCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "registry",
		Short: "Inspect and maintain the activity registry",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.AddCommand(newRegistryValidateCmd(root))
	cmd.AddCommand(newRegistryListCmd(root))
	cmd.AddCommand(newRegistryUpdateCmd(root))
	return cmd
}

func (o *rootOptions) registryPath(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return o.cfg.Registry.Path
}

func newRegistryValidateCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [path]",
		Short: "Check the registry and that every worker task type is registered",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := root.registryPath(args)
			reg, err := registry.LoadRegistry(path)
			if err != nil {
				return fmt.Errorf("failed to load registry: %w", err)
			}

			w := cmd.OutOrStdout()
			if err := reg.Validate(workerTaskTypes...); err != nil {
				problems := multierr.Errors(err)
				for _, p := range problems {
					fmt.Fprintf(w, "FAIL %s\n", p)
				}
				return fmt.Errorf("registry %s has %d problem(s)", path, len(problems))
			}
			fmt.Fprintf(w, "OK %s: %d activities\n", path, len(reg.Activities))
			return nil
		},
	}
}

func newRegistryListCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list [path]",
		Short: "List registered activities",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := registry.LoadRegistry(root.registryPath(args))
			if err != nil {
				return fmt.Errorf("failed to load registry: %w", err)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tTASK TYPE\tSTATUS\tVERSION")
			for _, a := range reg.Activities {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", a.ID, a.TaskType, a.ImplementationStatus, a.Version)
			}
			return tw.Flush()
		},
	}
}

func newRegistryUpdateCmd(root *rootOptions) *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "update <id> <field> <value>",
		Short: "Set one field of a registered activity",
		Long: `Set one field of a registered activity and save the registry.

Fields: status, version, displayName, description, category, taskType,
timeout, retries.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			if path == "" {
				path = root.cfg.Registry.Path
			}
			reg, err := registry.LoadRegistry(path)
			if err != nil {
				return fmt.Errorf("failed to load registry: %w", err)
			}
			if err := reg.Update(args[0], args[1], args[2]); err != nil {
				return err
			}
			if err := registry.Save(reg, path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s.%s\n", args[0], args[1])
			return nil
		},
	}

	cmd.Flags().StringVar(&path, "registry", "", "registry file (default: registry.path from config)")
	return cmd
}
