package main

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"cohortetl/internal/config"
	apperrors "cohortetl/internal/errors"
	"cohortetl/pkg/contracts"
)

// runOptions are the command-line overrides of the loaded configuration.
type runOptions struct {
	configFile string
	dataDir    string
	outputDir  string
	threshold  float64
	dedupe     bool
}

func newRootCmd() *cobra.Command {
	opts := &runOptions{}

	rootCmd := &cobra.Command{
		Use:   "cohortetl",
		Short: "Build the cohort analytics star schema",
		Long: `cohortetl reads the Zoom attendance exports, the labs and quizzes workbook,
the participation register and the learner status roster, and writes the
dim_learner, dim_date, dim_week, fact_attendance, fact_assessment and
fact_participation tables as CSV.

Configuration comes from cohortetl.yaml (or --config), then COHORT_*
environment variables, then flags.`,
		Version:       contracts.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPipeline(cmd, opts)
		},
	}
	rootCmd.SetVersionTemplate("{{.Name}} {{.Version}}\n")

	rootCmd.PersistentFlags().StringVar(&opts.configFile, "config", "",
		"config file (default: ./cohortetl.yaml or ./configs/cohortetl.yaml)")
	addRunFlags(rootCmd.Flags(), opts)

	rootCmd.AddCommand(newRunCmd(opts))
	rootCmd.AddCommand(newConfigCmd(opts))
	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}

func addRunFlags(fs *pflag.FlagSet, opts *runOptions) {
	fs.StringVar(&opts.dataDir, "data-dir", "", "directory holding the raw exports")
	fs.StringVar(&opts.outputDir, "output-dir", "", "directory the tables are written to")
	fs.Float64Var(&opts.threshold, "threshold", 0, "minutes a session must exceed to count as attended")
	fs.BoolVar(&opts.dedupe, "dedupe-participation", false, "keep one participation row per learner and date")
}

func newRunCmd(opts *runOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the pipeline",
		Long:  `Ingest the raw exports, derive the facts, reconcile learner identity and write the six tables.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPipeline(cmd, opts)
		},
	}
	addRunFlags(cmd.Flags(), opts)
	return cmd
}

func newConfigCmd(opts *runOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Long:  `Print the configuration a run would use as YAML, followed by the environment variables that override it.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			out, err := cfg.YAML()
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			_, _ = fmt.Fprint(w, out)
			_, _ = fmt.Fprintln(w)
			return envconfig.Usagef(config.EnvPrefix, cfg, w, envconfig.DefaultTableFormat)
		},
	}
	addRunFlags(cmd.Flags(), opts)
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), contracts.GetFullVersionString())
		},
	}
}

// loadConfig layers the command's flags over the file and environment
// configuration and validates the result.
func loadConfig(cmd *cobra.Command, opts *runOptions) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if opts.configFile != "" {
		cfg, err = config.LoadFile(opts.configFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, apperrors.NewConfigError("failed to load configuration", err)
	}

	flags := cmd.Flags()
	if flags.Changed("data-dir") {
		cfg.Paths.DataDir = opts.dataDir
	}
	if flags.Changed("output-dir") {
		cfg.Paths.OutputDir = opts.outputDir
	}
	if flags.Changed("threshold") {
		cfg.Rules.AttendanceThresholdMinutes = opts.threshold
	}
	if flags.Changed("dedupe-participation") {
		cfg.Rules.DedupeParticipation = opts.dedupe
	}

	if err := cfg.Validate(); err != nil {
		return nil, apperrors.NewConfigError("invalid command-line options", err)
	}
	return cfg, nil
}
