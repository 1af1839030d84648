package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/meenmo/oiscurve/cmd/oiscurve/internal/build"
	"github.com/meenmo/oiscurve/marketdata"
	"github.com/meenmo/oiscurve/swap/config"
	"github.com/meenmo/oiscurve/utils"
)

var version = "dev"

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := newRootCmd(stdout, stderr)
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}
	return 0
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "oiscurve",
		Short:         "Bootstrap OIS discount curves from swap quotes",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.AddCommand(newBuildCmd(stdout, stderr), newVersionCmd(stdout))
	return root
}

func newVersionCmd(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(stdout, "oiscurve %s\n", version)
		},
	}
}

type buildFlags struct {
	input     string
	config    string
	evalDates []string
	dsn       string
	json      bool
	logLevel  string
}

func newBuildCmd(stdout, stderr io.Writer) *cobra.Command {
	var f buildFlags
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build one curve per evaluation date",
		Long: `Build reads instrument tickers and percent prices from a YAML quote file,
bootstraps a log-cubic discount curve for each evaluation date, and prints the
helper dates, curve nodes and re-pricing residuals.

Prices can be read from Postgres instead with --dsn.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd.Context(), f, stdout, stderr)
		},
	}
	cmd.Flags().StringVarP(&f.input, "input", "i", "", "YAML quote file (required)")
	cmd.Flags().StringVar(&f.config, "config", "", "curve config file")
	cmd.Flags().StringSliceVar(&f.evalDates, "eval-date", nil, "evaluation dates (YYYY-MM-DD), overrides the file")
	cmd.Flags().StringVar(&f.dsn, "dsn", "", "Postgres DSN for quotes and fixings")
	cmd.Flags().BoolVar(&f.json, "json", false, "write JSON")
	cmd.Flags().StringVar(&f.logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func runBuild(ctx context.Context, f buildFlags, stdout, stderr io.Writer) error {
	cfg, err := config.Load(f.config)
	if err != nil {
		return err
	}
	level := cfg.LogLevel
	if strings.TrimSpace(f.logLevel) != "" {
		level = f.logLevel
	}
	logger, err := newLogger(stderr, level)
	if err != nil {
		return err
	}

	qf, err := marketdata.LoadFile(f.input)
	if err != nil {
		return err
	}
	req, err := build.FromQuoteFile(qf)
	if err != nil {
		return err
	}
	req.Config = cfg
	req.Logger = logger

	if len(f.evalDates) > 0 {
		req.Dates = req.Dates[:0]
		for _, s := range f.evalDates {
			d, err := utils.ParseDate(strings.TrimSpace(s))
			if err != nil {
				return err
			}
			req.Dates = append(req.Dates, d)
		}
	}

	if f.dsn != "" {
		pg, err := marketdata.OpenPG(ctx, f.dsn)
		if err != nil {
			return err
		}
		defer pg.Close()
		req.Prices = pg
		req.Fixings = pg.Fixings
	}

	logger.Info().Int("dates", len(req.Dates)).Int("instruments", len(req.Instruments)).Msg("building curves")
	results, err := build.Batch(ctx, req)
	if err != nil {
		return err
	}
	if f.json {
		return build.WriteJSON(stdout, results)
	}
	return build.WriteText(stdout, results)
}

func newLogger(w io.Writer, level string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level %q: %w", level, err)
	}
	out := zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	return zerolog.New(out).Level(lvl).With().Timestamp().Logger(), nil
}
