package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/arthur-debert/sharedpkg/internal/version"
	"github.com/arthur-debert/sharedpkg/pkg/classifier"
	"github.com/arthur-debert/sharedpkg/pkg/config"
	"github.com/arthur-debert/sharedpkg/pkg/errors"
	"github.com/arthur-debert/sharedpkg/pkg/filesystem"
	"github.com/arthur-debert/sharedpkg/pkg/ledger"
	"github.com/arthur-debert/sharedpkg/pkg/library"
	"github.com/arthur-debert/sharedpkg/pkg/lockfile"
	"github.com/arthur-debert/sharedpkg/pkg/logging"
	"github.com/arthur-debert/sharedpkg/pkg/metrics"
	"github.com/arthur-debert/sharedpkg/pkg/plan"
	"github.com/arthur-debert/sharedpkg/pkg/shared"
	"github.com/arthur-debert/sharedpkg/pkg/solver"
	"github.com/arthur-debert/sharedpkg/pkg/symlinkfs"
	"github.com/arthur-debert/sharedpkg/pkg/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

type globalOptions struct {
	verbosity  int
	configFile string
	storeDir   string
	vendorDir  string
	linkMode   string
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:     "sharedpkg",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Setup logging based on verbosity
			logging.SetupLogger(opts.verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		DisableAutoGenTag: true,
	}

	// Global flags
	flags := rootCmd.PersistentFlags()
	flags.CountVarP(&opts.verbosity, "verbose", "v", MsgFlagVerbose)
	flags.StringVar(&opts.configFile, "config", "", MsgFlagConfig)
	flags.StringVar(&opts.storeDir, "store-dir", "", MsgFlagStoreDir)
	flags.StringVar(&opts.vendorDir, "vendor-dir", "", MsgFlagVendorDir)
	flags.StringVar(&opts.linkMode, "link-mode", "", MsgFlagLinkMode)

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newSyncCmd(opts))
	rootCmd.AddCommand(newStatusCmd(opts))
	rootCmd.AddCommand(newPathCmd(opts))
	rootCmd.AddCommand(newConfigCmd(opts))

	return rootCmd
}

// loadConfig merges the global flags that were set on the command line
// over the file and environment configuration.
func loadConfig(cmd *cobra.Command, opts *globalOptions) (*config.Config, error) {
	overrides := map[string]interface{}{}
	flags := cmd.Flags()
	if flags.Changed("store-dir") {
		overrides["store_dir"] = opts.storeDir
	}
	if flags.Changed("vendor-dir") {
		overrides["vendor_dir"] = opts.vendorDir
	}
	if flags.Changed("link-mode") {
		overrides["link_mode"] = opts.linkMode
	}

	cfg, err := config.Load(config.LoadOptions{
		ConfigFile: opts.configFile,
		Overrides:  overrides,
	})
	if err != nil {
		return nil, err
	}
	log.Debug().Str("config", cfg.String()).Msg("Configuration loaded")
	return cfg, nil
}

// session wires the installers for one command run.
type session struct {
	cfg    *config.Config
	fs     types.FS
	ledger *ledger.File
	solver *solver.Solver
}

func newSession(cfg *config.Config, recorder metrics.Recorder) (*session, error) {
	fsys := filesystem.NewOS()
	l, err := ledger.Open(fsys, cfg.LedgerFile)
	if err != nil {
		return nil, err
	}

	lib := library.New(fsys, cfg.Layout())
	return &session{
		cfg:    cfg,
		fs:     fsys,
		ledger: l,
		solver: solver.New(cfg, shared.New(fsys, cfg, lib), lib, solver.WithRecorder(recorder)),
	}, nil
}

func (s *session) classify(d types.PackageDescriptor) types.Kind {
	return classifier.Classify(d, s.cfg)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: MsgVersionShort,
		Long:  MsgVersionLong,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "sharedpkg version %s\n", version.Version)
			if version.Commit != "" {
				_, _ = fmt.Fprintf(out, "Commit: %s\n", version.Commit)
			}
			if version.Date != "" {
				_, _ = fmt.Fprintf(out, "Built:  %s\n", version.Date)
			}
		},
	}
}

func newSyncCmd(opts *globalOptions) *cobra.Command {
	var (
		dryRun      bool
		metricsFile string
	)

	cmd := &cobra.Command{
		Use:   "sync <lockfile>",
		Short: MsgSyncShort,
		Long:  MsgSyncLong,
		Example: `  # Install everything listed in the lock file
  sharedpkg sync sharedpkg.lock

  # Preview changes
  sharedpkg sync --dry-run sharedpkg.lock`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.GetLogger("cli.sync")

			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}

			reg := prometheus.NewRegistry()
			var recorder metrics.Recorder = metrics.Nop{}
			if metricsFile != "" {
				p, err := metrics.NewPrometheus(reg)
				if err != nil {
					return errors.Wrap(err, errors.ErrInternal, "failed to register metrics")
				}
				recorder = p
			}

			s, err := newSession(cfg, recorder)
			if err != nil {
				return err
			}

			lf, err := lockfile.Load(s.fs, args[0])
			if err != nil {
				return err
			}
			lockDir, err := filepath.Abs(filepath.Dir(args[0]))
			if err != nil {
				return errors.Wrap(err, errors.ErrInvalidInput, "failed to resolve lock file directory")
			}
			desired, err := lf.Descriptors(lockDir)
			if err != nil {
				return err
			}

			steps := plan.Build(s.ledger, desired, s.classify, s.solver)
			out := cmd.OutOrStdout()
			logger.Info().Int("steps", len(steps)).Bool("dryRun", dryRun).Msg("Sync planned")

			if len(steps) == 0 {
				_, _ = fmt.Fprintln(out, MsgNoOperations)
				return nil
			}

			if dryRun {
				_, _ = fmt.Fprintf(out, MsgPlannedFormat, len(steps))
				for _, step := range steps {
					_, _ = fmt.Fprintf(out, MsgPlannedItem, step)
				}
				_, _ = fmt.Fprintln(out, MsgDryRunNotice)
				return nil
			}

			if cfg.SharingEnabled() {
				if err := symlinkfs.CheckSupport(s.fs, cfg.VendorDir, cfg.Fallback); err != nil {
					return err
				}
			}

			result, applyErr := plan.Apply(s.solver, s.ledger, steps)
			_, _ = fmt.Fprintf(out, MsgOperationsFormat, len(result.Applied))
			for _, step := range result.Applied {
				_, _ = fmt.Fprintf(out, MsgOperationItem, step)
			}

			if metricsFile != "" {
				if err := prometheus.WriteToTextfile(metricsFile, reg); err != nil {
					logger.Warn().Err(err).Str("path", metricsFile).Msg("Failed to write metrics")
				}
			}
			return applyErr
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, MsgFlagDryRun)
	cmd.Flags().StringVar(&metricsFile, "metrics", "", MsgFlagMetrics)
	return cmd
}

func newStatusCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: MsgStatusShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			s, err := newSession(cfg, metrics.Nop{})
			if err != nil {
				return err
			}

			rows := collectStatus(s)
			if len(rows) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), MsgNoPackages)
				return nil
			}

			table, err := renderStatus(rows)
			if err != nil {
				return errors.Wrap(err, errors.ErrInternal, "failed to render status")
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), table)
			return nil
		},
	}
}

func newPathCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "path <name>",
		Short: MsgPathShort,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			s, err := newSession(cfg, metrics.Nop{})
			if err != nil {
				return err
			}

			d, ok := s.ledger.Find(args[0])
			if !ok {
				return errors.Newf(errors.ErrNotFound, "package %s is not installed", args[0]).
					WithDetail(errors.DetailPackage, args[0])
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), s.solver.GetInstallPath(d))
			return nil
		},
	}
}

func newConfigCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: MsgConfigShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "project_root = %s\n", cfg.ProjectRoot)
			_, _ = fmt.Fprintf(out, "store_dir    = %s\n", cfg.StoreDir)
			_, _ = fmt.Fprintf(out, "vendor_dir   = %s\n", cfg.VendorDir)
			_, _ = fmt.Fprintf(out, "ledger_file  = %s\n", cfg.LedgerFile)
			_, _ = fmt.Fprintf(out, "shared_type  = %s\n", cfg.SharedType)
			_, _ = fmt.Fprintf(out, "link_mode    = %s\n", cfg.LinkMode)
			_, _ = fmt.Fprintf(out, "fallback     = %s\n", cfg.Fallback)
			_, _ = fmt.Fprintf(out, "verify       = %t\n", cfg.Verify)
			return nil
		},
	}
}

// Execute runs the root command and reports a failure on stderr.
func Execute() int {
	if err := NewRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, formatError(err))
		return 1
	}
	return 0
}
