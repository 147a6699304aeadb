package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/briandowns/spinner"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/younsl/archcost/internal/config"
	"github.com/younsl/archcost/internal/version"
	"github.com/younsl/archcost/pkg/formatter"
	"github.com/younsl/archcost/pkg/pipeline"
	"github.com/younsl/archcost/pkg/quota"
	"github.com/younsl/archcost/pkg/utils"
)

var (
	showVersion bool
	debug       bool
)

// startSpinner creates and starts a spinner with the given message
func startSpinner(message string) *spinner.Spinner {
	s := spinner.New(spinner.CharSets[9], 200*time.Millisecond)
	s.Suffix = " " + message
	s.Start()
	return s
}

// newLogger returns a console logger for interactive use and a JSON logger
// on stderr inside Lambda
func newLogger(jsonOutput bool) zerolog.Logger {
	level := zerolog.WarnLevel
	if debug {
		level = zerolog.DebugLevel
	}
	if jsonOutput {
		return zerolog.New(os.Stderr).Level(zerolog.InfoLevel).With().Timestamp().Logger()
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(level).With().Timestamp().Logger()
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "archcost",
		Short: "Estimate AWS cost and quotas of an architecture document",
		Long: `archcost reads an architecture document stored in S3, detects the AWS
services it mentions and reports their pricing, default quotas, an estimated
monthly cost and optimization recommendations.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if showVersion {
				fmt.Println(version.Get().String())
				return nil
			}

			// The Lambda runtime starts the binary without arguments
			if os.Getenv("AWS_LAMBDA_RUNTIME_API") != "" {
				return runLambda(cmd.Context())
			}
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	rootCmd.Flags().BoolVarP(&showVersion, "version", "v", false, "Show version information")

	rootCmd.AddCommand(newAnalyzeCmd(), newLambdaCmd(), newServicesCmd())

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newAnalyzeCmd() *cobra.Command {
	var (
		bucket    string
		key       string
		eventFile string
		output    string
		prefix    string
		backend   string

		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze one document and print the cost report",
		Example: `  archcost analyze --bucket my-input --key diagrams/prod.pdf
  archcost analyze --event s3-event.json --cache-backend memory`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := newLogger(false)

			cfg, err := config.Load(logger)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("output-bucket") {
				cfg.OutputBucket = output
			}
			if cmd.Flags().Changed("output-prefix") {
				cfg.OutputPrefix = prefix
			}
			if cmd.Flags().Changed("cache-backend") {
				cfg.CacheBackend = strings.ToLower(backend)
				if err := cfg.Validate(); err != nil {
					return err
				}
			}

			if eventFile != "" {
				raw, err := os.ReadFile(eventFile)
				if err != nil {
					return fmt.Errorf("error reading event file: %w", err)
				}
				event, err := pipeline.DecodeEvent(raw)
				if err != nil {
					return err
				}
				if bucket, key, err = event.Location(); err != nil {
					return err
				}
			}
			if bucket == "" || key == "" {
				return fmt.Errorf("either --bucket and --key or --event is required")
			}

			a, err := newApp(ctx, cfg, logger)
			if err != nil {
				return err
			}

			fmt.Printf("Starting analysis of s3://%s/%s ...\n", bucket, key)
			startTime := time.Now()
			s := startSpinner("Analyzing document ...")

			result, err := a.pipeline.Run(ctx, bucket, key)
			duration := time.Since(startTime)
			if err != nil {
				s.FinalMSG = fmt.Sprintf("✗ Analysis failed after %s\n", utils.FormatDuration(duration))
				s.Stop()
				return err
			}

			s.FinalMSG = fmt.Sprintf("✓ [%d services detected] Document analyzed - Completed in %s\n",
				len(result.Report.Services), utils.FormatDuration(duration))
			s.Stop()

			if jsonOutput {
				body, err := utils.FormatJSON(result.Report)
				if err != nil {
					return err
				}
				fmt.Println(body)
				return nil
			}

			out := os.Stdout
			formatter.PrintCostTable(out, result.Report.CostEstimate)
			formatter.PrintQuotaTable(out, result.Report.Quotas)
			formatter.PrintDegradations(out, result.Report.Degradations)
			formatter.PrintPricingAPIStats(out, a.pricing.Stats().Snapshot())

			fmt.Printf("\nReport stored at %s\n", result.Location)
			formatter.PrintTimestamp(out, startTime, duration)
			return nil
		},
	}

	cmd.Flags().StringVarP(&bucket, "bucket", "b", "", "S3 bucket of the input document")
	cmd.Flags().StringVarP(&key, "key", "k", "", "S3 key of the input document")
	cmd.Flags().StringVarP(&eventFile, "event", "e", "", "Read bucket and key from an event JSON file")
	cmd.Flags().StringVar(&output, "output-bucket", config.DefaultOutputBucket, "S3 bucket for the report (env OUTPUT_BUCKET)")
	cmd.Flags().StringVar(&prefix, "output-prefix", "", "Key prefix for the report (env OUTPUT_PREFIX)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the full report as JSON instead of tables")
	cmd.Flags().StringVar(&backend, "cache-backend", config.CacheBackendDynamoDB, "Pricing cache: dynamodb, redis, memory or none (env CACHE_BACKEND)")

	return cmd
}

func newLambdaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lambda",
		Short: "Serve S3 events and direct invocations as an AWS Lambda function",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLambda(cmd.Context())
		},
	}
}

// runLambda builds the clients once per cold start and hands the handler to
// the Lambda runtime. It only returns on startup errors.
func runLambda(ctx context.Context) error {
	logger := newLogger(true)

	cfg, err := config.Load(logger)
	if err != nil {
		return err
	}
	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}

	logger.Info().Str("version", version.Get().Version).Msg("Starting Lambda handler")
	lambda.Start(a.pipeline.Handle)
	return nil
}

func newServicesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "services",
		Short: "List the services known to the catalog and the static quota table",
		RunE: func(cmd *cobra.Command, args []string) error {
			svcCatalog, err := loadCatalog(cmd.Context())
			if err != nil {
				return err
			}

			ids := svcCatalog.Identifiers()
			fmt.Printf("Catalog services (%d):\n", len(ids))
			for _, id := range ids {
				fmt.Printf("  %-32s %s\n", id, svcCatalog.ResolvePricingCode(id))
			}

			fmt.Println("\nServices with static default quotas:")
			for _, name := range quota.FallbackServices() {
				fmt.Printf("  %s\n", name)
			}
			return nil
		},
	}
}
