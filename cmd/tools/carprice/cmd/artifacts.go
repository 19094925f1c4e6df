package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"carprice-workers/internal/estimator/artifacts"
)

func newArtifactsCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "artifacts",
		Short: "Inspect the artifact bundle",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.AddCommand(newArtifactsVerifyCmd(root))
	return cmd
}

func newArtifactsVerifyCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Load every artifact and report all problems",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()

			a, err := root.loadArtifacts(cmd.Context())
			if err != nil {
				loadErrs := artifacts.LoadErrors(err)
				if len(loadErrs) == 0 {
					return err
				}
				for _, le := range loadErrs {
					fmt.Fprintf(w, "FAIL %s\n", le.Error())
				}
				return fmt.Errorf("artifact bundle has %d problem(s)", len(loadErrs))
			}

			fmt.Fprintf(w, "OK fingerprint %s\n", a.Fingerprint)
			fmt.Fprintf(w, "   features    %d\n", len(a.Model.FeatureNames()))
			fmt.Fprintf(w, "   brands      %d\n", a.Catalog.Len())
			return nil
		},
	}
}
