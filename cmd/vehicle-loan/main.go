package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/iwvelando/vehicle-loan/internal/config"
	"github.com/iwvelando/vehicle-loan/internal/report"
	"github.com/iwvelando/vehicle-loan/pkg/constants"
	"github.com/iwvelando/vehicle-loan/pkg/datetime"
	"github.com/iwvelando/vehicle-loan/pkg/loans"
	"github.com/iwvelando/vehicle-loan/pkg/output"
	"github.com/iwvelando/vehicle-loan/pkg/store"
	"github.com/iwvelando/vehicle-loan/pkg/validation"
	"go.uber.org/zap"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, datetime.SystemClock{}); err != nil {
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer, clock datetime.Clock) error {
	flags := flag.NewFlagSet("vehicle-loan", flag.ContinueOnError)
	configLocation := flags.String("config", constants.DefaultConfigFile, "path to configuration file")
	outputFormatFlag := flags.String("output-format", "", "type of output override: pretty, csv")
	logLevel := flags.String("log-level", "", "log level override (debug, info, warn, error)")
	nowFlag := flags.String("now", "", "evaluate loans as of this date (YYYY-MM-DD) instead of today")
	if err := flags.Parse(args); err != nil {
		return err
	}

	conf, err := config.LoadConfiguration(*configLocation)
	if err != nil {
		fmt.Fprintf(os.Stderr, "{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		return err
	}

	logger, err := config.NewLogger(conf.Logging, *logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		return err
	}
	defer func() {
		_ = logger.Sync()
	}()

	// CLI override takes precedence over config
	outputFormat := conf.Output.Format
	if *outputFormatFlag != "" {
		outputFormat = *outputFormatFlag
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty
	}
	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		logger.Error(err.Error(), zap.String("op", "main"))
		return err
	}

	for _, warning := range conf.ValidateConfiguration() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	now, err := evaluationTime(conf, *nowFlag, clock)
	if err != nil {
		logger.Error("failed to determine evaluation date",
			zap.String("op", "main"),
			zap.Error(err),
		)
		return err
	}

	// An unknown policy was already reported as a warning; it parses to first-match.
	policy, _ := conf.CollisionPolicy()
	engine := loans.NewEngine(logger, policy)

	portfolio, err := conf.BuildLoans()
	if err != nil {
		logger.Error("failed to build loans",
			zap.String("op", "main"),
			zap.Error(err),
		)
		return err
	}

	if conf.Store.Path != "" {
		if err := syncStore(logger, conf.Store.Path, portfolio); err != nil {
			logger.Error("failed to sync loans into the store",
				zap.String("op", "main"),
				zap.String("path", conf.Store.Path),
				zap.Error(err),
			)
			return err
		}
	}

	results := report.Build(logger, engine, portfolio, now)

	switch outputFormat {
	case constants.OutputFormatPretty:
		output.PrettyFormat(stdout, results)
	case constants.OutputFormatCSV:
		if err := output.CsvFormat(stdout, results); err != nil {
			logger.Error("failed to write CSV output",
				zap.String("op", "main"),
				zap.Error(err),
			)
			return err
		}
	}
	return nil
}

func evaluationTime(conf *config.Configuration, override string, clock datetime.Clock) (time.Time, error) {
	if override != "" {
		now, err := datetime.ParseDate(override)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid -now value: %w", err)
		}
		return now, nil
	}
	return conf.EvaluationTime(clock)
}

// syncStore upserts every configured loan into the SQLite database at path.
func syncStore(logger *zap.Logger, path string, portfolio []loans.Loan) error {
	storage, err := store.NewSQLiteStore(logger, path)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := storage.Close(); closeErr != nil {
			logger.Warn("failed to close store",
				zap.String("op", "main.syncStore"),
				zap.Error(closeErr),
			)
		}
	}()

	for _, loan := range portfolio {
		_, err := storage.GetLoan(loan.ID)
		switch {
		case errors.Is(err, store.ErrNotFound):
			err = storage.CreateLoan(loan)
		case err == nil:
			err = storage.UpdateLoan(loan)
		}
		if err != nil {
			return fmt.Errorf("loan %s: %w", loan.Name, err)
		}
		logger.Debug(fmt.Sprintf("synced loan %s", loan.Name),
			zap.String("op", "main.syncStore"),
			zap.String("id", loan.ID.String()),
		)
	}
	return nil
}
