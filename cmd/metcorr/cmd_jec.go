package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/chrisconley/metcorr/internal"
)

type jecOptions struct {
	payloads []string
	in       internal.CorrectionInputs
}

func newJECCmd() *cobra.Command {
	opts := &jecOptions{}
	cmd := &cobra.Command{
		Use:   "jec",
		Short: "Evaluate a factorized jet energy correction for one jet",
		Long: `Loads the given payloads in order and prints the factor of every level
together with the cumulative correction.`,
		Example: `  metcorr jec --payload L1FastJet.txt --payload L2Relative.txt --eta 0.5 --pt 30 --energy 34 --area 0.5 --rho 12`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runJEC(cmd, opts)
		},
	}
	cmd.Flags().StringArrayVarP(&opts.payloads, "payload", "p", nil, "Payload identifier, path[#Section] (repeatable, in level order)")
	cmd.Flags().Float64Var(&opts.in.Eta, "eta", 0, "Jet pseudorapidity")
	cmd.Flags().Float64Var(&opts.in.Pt, "pt", 0, "Jet transverse momentum")
	cmd.Flags().Float64Var(&opts.in.Energy, "energy", 0, "Jet energy")
	cmd.Flags().Float64Var(&opts.in.Phi, "phi", 0, "Jet azimuth")
	cmd.Flags().Float64Var(&opts.in.Area, "area", 0, "Jet area")
	cmd.Flags().Float64Var(&opts.in.Rho, "rho", 0, "Pileup energy density")
	cmd.Flags().IntVar(&opts.in.NPV, "npv", 0, "Number of primary vertices")
	_ = cmd.MarkFlagRequired("payload")
	return cmd
}

func runJEC(cmd *cobra.Command, opts *jecOptions) error {
	levels, err := internal.LoadJetCorrectionLevels(opts.payloads)
	if err != nil {
		return err
	}
	corrector, err := internal.NewFactorizedCorrector(levels)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "LEVEL\tFACTOR\tCUMULATIVE")
	previous := 1.0
	for i, cumulative := range corrector.SubCorrections(opts.in) {
		fmt.Fprintf(tw, "%s\t%.6f\t%.6f\n", corrector.Levels()[i], cumulative/previous, cumulative)
		previous = cumulative
	}
	return tw.Flush()
}
