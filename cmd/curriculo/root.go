package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-curriculo/internal/config"
	"github.com/goliatone/go-curriculo/internal/logging"
)

// app carries the state shared by every command once PersistentPreRunE ran.
type app struct {
	configPath string
	envFile    string
	verbose    bool

	cfg    config.Config
	logger *zap.Logger

	// stdin feeds record files named "-".
	stdin io.Reader
}

func newRootCmd() *cobra.Command {
	a := &app{logger: zap.NewNop()}

	root := &cobra.Command{
		Use:   "curriculo",
		Short: "Build, preview and export résumés",
		Long: `curriculo edits a résumé interactively or from a YAML/JSON record file,
renders it as HTML, terminal text or JSON, and exports the printable page as PDF
through a headless browser or a remote /generate_pdf service.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "YAML configuration file")
	flags.StringVar(&a.envFile, "env-file", ".env", "dotenv file with CURRICULO_* variables")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newFillCmd(a),
		newRenderCmd(a),
		newExportCmd(a),
		newServeCmd(a),
		newSendCmd(a),
	)
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	if a.stdin == nil {
		a.stdin = cmd.InOrStdin()
	}

	cfg, err := config.Load(config.WithFile(a.configPath), config.WithEnvFiles(a.envFile))
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = a.verbose
	}
	a.cfg = cfg

	logger, err := logging.New(cfg.Verbose)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	a.logger = logger
	a.logger.Debug("configuration loaded",
		zap.String("config", a.configPath),
		zap.String("output_dir", cfg.OutputDir),
		zap.String("theme", cfg.Theme),
	)
	return nil
}
