package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	lcm "carprice-workers/internal/workers/catalog/list-car-models"
)

func newCatalogCmd(root *rootOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "catalog [brand]",
		Short: "List catalog brands, or the models of one brand",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "text" && format != "json" {
				return fmt.Errorf("unknown format %q", format)
			}

			a, err := root.loadArtifacts(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to load artifacts: %w", err)
			}

			input := &lcm.Input{}
			if len(args) == 1 {
				input.Brand = args[0]
			}
			svc := lcm.NewService(lcm.ServiceDependencies{Logger: root.log, Catalog: a.Catalog}, lcm.DefaultConfig())
			out, err := svc.Execute(cmd.Context(), input)
			if err != nil {
				return err
			}

			if format == "json" {
				return writeJSON(cmd.OutOrStdout(), out.Variables())
			}

			w := cmd.OutOrStdout()
			switch {
			case input.Brand == "":
				fmt.Fprintln(w, strings.Join(out.Brands, "\n"))
			case !out.KnownBrand:
				return fmt.Errorf("brand %q is not in the catalog", input.Brand)
			case len(out.Models) == 0:
				fmt.Fprintf(w, "%s has no models\n", out.Brand)
			default:
				fmt.Fprintln(w, strings.Join(out.Models, "\n"))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format (text, json)")
	return cmd
}
