package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/chrisconley/metcorr/internal"
	"github.com/chrisconley/metcorr/internal/infra"
	"github.com/chrisconley/metcorr/specs"
)

type correctOptions struct {
	configPath string
	eventsPath string
	output     string
	workers    int
	logLevel   string
}

func newCorrectCmd() *cobra.Command {
	opts := &correctOptions{}
	cmd := &cobra.Command{
		Use:   "correct",
		Short: "Correct the MET of every event in an events file",
		Long: `Reads events (JSON lines, or multi-document YAML for .yaml/.yml files),
recomputes the Type-I MET correction with the configured payloads and writes
one record per MET candidate.

Records go to a parquet ntuple when an output path is configured, and to
stdout as JSON lines otherwise.`,
		Example: `  metcorr correct --config metcorr.yaml --events events.jsonl --output met.parquet
  METCORR_WORKERS=8 metcorr correct --config metcorr.yaml --events events.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCorrect(cmd, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "Configuration file (YAML)")
	cmd.Flags().StringVarP(&opts.eventsPath, "events", "e", "", "Events file (required)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Parquet ntuple path (overrides config)")
	cmd.Flags().IntVarP(&opts.workers, "workers", "w", 0, "Number of workers (overrides config)")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "", "Log level (overrides config)")
	_ = cmd.MarkFlagRequired("events")
	return cmd
}

func runCorrect(cmd *cobra.Command, opts *correctOptions) error {
	cfg, err := infra.LoadConfig(opts.configPath, flagOverrides(cmd, opts))
	if err != nil {
		return err
	}
	if err := infra.InitLoggerWithWriter(cfg.LogLevel, cmd.ErrOrStderr()); err != nil {
		return err
	}

	runID := uuid.NewString()
	logger := log.With().Str("run_id", runID).Logger()
	logger.Info().
		Strs("jec_payloads", cfg.JECPayloads).
		Int("workers", cfg.Workers).
		Str("events", opts.eventsPath).
		Msg("starting correction run")

	events, err := infra.ReadEventsFile(opts.eventsPath)
	if err != nil {
		return err
	}

	bus := infra.NewBus()
	bus.Subscribe(infra.EventCorrected, func(e infra.Event) {
		ev := e.(infra.EventCorrectedEvent)
		logger.Debug().Int("index", ev.Index).Uint64("event", ev.Event).Int("records", len(ev.Records)).Msg("event written")
	})
	bus.Subscribe(infra.RunCompleted, func(e infra.Event) {
		ev := e.(infra.RunCompletedEvent)
		logger.Info().Int("events", ev.Events).Int("records", ev.Records).Msg("correction run completed")
	})

	var (
		out    *os.File
		ntuple *infra.NtupleWriter
	)
	if cfg.Output != "" {
		out, err = os.Create(cfg.Output)
		if err != nil {
			return fmt.Errorf("failed to create output: %w", err)
		}
		defer out.Close()
		ntuple = infra.NewNtupleWriter(out, runID)
		ntuple.Subscribe(bus)
	}

	branches, err := correctEvents(cmd, cfg, events, bus)
	if err != nil {
		if internal.IsCanceled(err) {
			logger.Warn().Msg("correction run interrupted")
		}
		if ntuple != nil {
			discardOutput(out)
		}
		return err
	}

	if ntuple != nil {
		if err := ntuple.Close(); err != nil {
			discardOutput(out)
			return err
		}
		logger.Info().Str("output", cfg.Output).Int("rows", ntuple.Rows()).Msg("ntuple written")
		return nil
	}
	return writeJSONRecords(cmd.OutOrStdout(), branches)
}

func flagOverrides(cmd *cobra.Command, opts *correctOptions) infra.ConfigOverride {
	return func(cfg *infra.Config) {
		if cmd.Flags().Changed("output") {
			cfg.Output = opts.output
		}
		if cmd.Flags().Changed("workers") {
			cfg.Workers = opts.workers
		}
		if cmd.Flags().Changed("log-level") {
			cfg.LogLevel = opts.logLevel
		}
	}
}

func correctEvents(cmd *cobra.Command, cfg infra.Config, events []specs.EventSpec, bus *infra.Bus) (*specs.METBranchesSpec, error) {
	runner, err := internal.NewEventRunner(cfg.TypeICorrectionConfig(), cfg.Workers, bus)
	if err != nil {
		return nil, err
	}
	return runner.Run(cmd.Context(), events)
}

// discardOutput closes and removes an ntuple that was never finished.
func discardOutput(f *os.File) {
	_ = f.Close()
	if err := os.Remove(f.Name()); err != nil {
		log.Warn().Err(err).Str("output", f.Name()).Msg("failed to remove incomplete output")
	}
}

// writeJSONRecords writes one JSON object per record.
func writeJSONRecords(w io.Writer, branches *specs.METBranchesSpec) error {
	enc := json.NewEncoder(w)
	for i := 0; i < branches.Len(); i++ {
		if err := enc.Encode(branches.Record(i)); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}
	return nil
}
