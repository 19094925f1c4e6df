package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"carprice-workers/internal/estimator"
	ecp "carprice-workers/internal/workers/pricing/estimate-car-price"
)

type estimateOptions struct {
	year         int
	brand        string
	model        string
	mileage      int
	documents    string
	transmission string
	fuel         string
	format       string
}

func newEstimateCmd(root *rootOptions) *cobra.Command {
	opts := &estimateOptions{}

	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Estimate the price of one vehicle",
		Long: `Estimate the price of one vehicle with the configured artifact bundle.

Any field left out takes the form's default from the catalog. Enum fields
accept canonical codes or the form's labels.

Examples:
  carprice estimate
  carprice estimate --brand Renault --model Clio --year 2018 --mileage 45000
  carprice estimate --fuel Diesel --transmission Automatique --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEstimate(cmd, root, opts)
		},
	}

	cmd.Flags().IntVar(&opts.year, "year", 0, "year of first registration")
	cmd.Flags().StringVar(&opts.brand, "brand", "", "brand")
	cmd.Flags().StringVar(&opts.model, "model", "", "model")
	cmd.Flags().IntVar(&opts.mileage, "mileage", 0, "mileage in km")
	cmd.Flags().StringVar(&opts.documents, "documents", "", "document type (StandardCard, YellowCard, License/Delay)")
	cmd.Flags().StringVar(&opts.transmission, "transmission", "", "transmission (Manual, Automatic, SemiAutomatic)")
	cmd.Flags().StringVar(&opts.fuel, "fuel", "", "fuel (Gasoline, Diesel, LPG)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "text", "output format (text, json)")
	return cmd
}

func runEstimate(cmd *cobra.Command, root *rootOptions, opts *estimateOptions) error {
	if opts.format != "text" && opts.format != "json" {
		return fmt.Errorf("unknown format %q", opts.format)
	}

	a, err := root.loadArtifacts(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to load artifacts: %w", err)
	}

	d := a.Catalog.Defaults()
	input := &ecp.Input{
		Year:         d.Year,
		Brand:        d.Brand,
		Model:        d.Model,
		Mileage:      d.Mileage,
		DocumentType: string(d.Documents),
		Transmission: string(d.Transmission),
		Fuel:         string(d.Fuel),
	}
	flags := cmd.Flags()
	if flags.Changed("year") {
		input.Year = opts.year
	}
	if flags.Changed("brand") {
		input.Brand = opts.brand
	}
	if flags.Changed("model") {
		input.Model = opts.model
	}
	if flags.Changed("mileage") {
		input.Mileage = opts.mileage
	}
	if flags.Changed("documents") {
		input.DocumentType = opts.documents
	}
	if flags.Changed("transmission") {
		input.Transmission = opts.transmission
	}
	if flags.Changed("fuel") {
		input.Fuel = opts.fuel
	}

	cfg := ecp.DefaultConfig()
	cfg.MinYear = root.cfg.Estimation.MinYear
	cfg.MaxYear = root.cfg.Estimation.MaxYear
	cfg.MaxMileage = root.cfg.Estimation.MaxMileage
	cfg.PriceUnit = root.cfg.Estimation.PriceUnit
	cfg.CacheEnabled = false

	svc := ecp.NewService(ecp.ServiceDependencies{
		Logger:    root.log,
		Estimator: estimator.New(a),
	}, cfg)

	out, err := svc.Execute(cmd.Context(), input)
	if err != nil {
		return userError(err)
	}

	if opts.format == "json" {
		return writeJSON(cmd.OutOrStdout(), out)
	}
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Estimated price: %s\n", out.PriceFormatted)
	fmt.Fprintf(w, "  vehicle:   %s %s, %d, %s km\n", out.Brand, out.Model, out.Year, strconv.Itoa(input.Mileage))
	fmt.Fprintf(w, "  raw price: %s\n", strconv.FormatFloat(out.Price, 'f', -1, 64))
	fmt.Fprintf(w, "  artifacts: %s\n", out.ArtifactFingerprint)
	return nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
