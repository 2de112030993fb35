package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"bikeshare/internal/config"
	"bikeshare/internal/dataset"
	"bikeshare/internal/exporter"
	"bikeshare/internal/files"
	"bikeshare/internal/infrastructure"
	"bikeshare/internal/session"
	"bikeshare/internal/validation"
)

const shutdownTimeout = 5 * time.Second

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run executes the command line and returns the process exit code.
func run(args []string, in io.Reader, out, errOut io.Writer) int {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)

	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(errOut, "Error: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:   "bikeshare",
		Short: "Explore US bikeshare trip data",
		Long: `Interactively explore bikeshare trips for Chicago, New York City and Washington.
Choose a city, a month and a weekday, read the travel statistics, page
through the raw rows, and start over as often as you like.`,
		Version:       config.AppVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSession(cmd, configPath)
		},
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to the YAML config file")

	root.AddCommand(&cobra.Command{
		Use:   "datasets",
		Short: "Check that every city dataset can be loaded",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDatasets(cmd, configPath)
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "env",
		Short: "List the supported BIKESHARE_* environment variables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return config.Usage(cmd.OutOrStdout())
		},
	})

	return root
}

// app holds what every command needs once configuration is applied
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	tel    *infrastructure.Telemetry
}

func setup(configPath string) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, err
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	tel, err := infrastructure.InitTelemetry(cfg.Telemetry, logger)
	if err != nil {
		infrastructure.CloseLogFile()
		return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}

	logger.Info("Starting "+config.AppName,
		slog.String("version", config.AppVersion),
		slog.String("config", cfg.Source()),
		slog.String("data_dir", cfg.Data.Dir))

	return &app{cfg: cfg, logger: logger, tel: tel}, nil
}

func (a *app) close() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.tel.Shutdown(ctx); err != nil {
		a.logger.Error("Failed to shutdown telemetry", slog.String("error", err.Error()))
	}
	infrastructure.CloseLogFile()
}

func runSession(cmd *cobra.Command, configPath string) error {
	a, err := setup(configPath)
	if err != nil {
		return err
	}
	defer a.close()

	var exp session.Exporter
	if a.cfg.Export.Enabled() {
		exp = exporter.NewReportExporter(a.cfg.Export, a.logger, a.tel)
	}

	s := session.New(session.Options{
		In:        cmd.InOrStdin(),
		Out:       cmd.OutOrStdout(),
		Loader:    dataset.NewLoader(a.cfg.Data.Dir, a.cfg.Catalog(), a.logger, a.tel),
		Exporter:  exp,
		Logger:    a.logger,
		Telemetry: a.tel,
	})

	if err := s.Run(cmd.Context()); err != nil {
		a.logger.Error("Session ended with error",
			slog.Int("iterations", s.Iterations()),
			slog.String("error", err.Error()))
		return err
	}
	return nil
}

func runDatasets(cmd *cobra.Command, configPath string) error {
	a, err := setup(configPath)
	if err != nil {
		return err
	}
	defer a.close()

	v := validation.NewDatasetValidator(a.cfg.Catalog(), a.cfg.DatasetPath, a.logger)
	if err := v.CheckDataDir(a.cfg.Data.Dir); err != nil {
		return err
	}
	results, err := v.ValidateAll(cmd.Context())

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CITY\tFILE\tROWS\tDEMOGRAPHICS\tSTATUS")
	for _, res := range results {
		status := "ok"
		if !res.OK() {
			status = res.Err.Error()
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%t\t%s\n",
			res.City.Title(), res.Path, res.Rows, res.HasDemographics, status)
	}
	if ferr := tw.Flush(); ferr != nil && err == nil {
		err = ferr
	}

	found, derr := files.NewDiscovery(a.cfg.Data.Dir).FindDatasetFiles(a.cfg.Data.Dir)
	if derr != nil {
		a.logger.Warn("Failed to list data directory", slog.String("error", derr.Error()))
		return err
	}
	used := make([]string, 0, len(results))
	for _, res := range results {
		used = append(used, res.Path)
	}
	if extra := files.Unreferenced(found, used); len(extra) > 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "\nFiles not used by any city:")
		for _, f := range extra {
			fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", f.Name)
		}
	}
	return err
}
