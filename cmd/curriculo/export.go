package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newExportCmd(a *app) *cobra.Command {
	var (
		remoteURL string
		outputDir string
		useRemote bool
	)

	cmd := &cobra.Command{
		Use:   "export <record>",
		Short: "Export a record file as curriculo_<name>.pdf",
		Long: `Validates the record and writes curriculo_<name>.pdf into the output
directory. The PDF is printed by a local headless Chrome, or by a remote
/generate_pdf service when --remote is set (or --use-remote with remote_url
configured). A failed export leaves no file behind.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := a.readRecord(args[0])
			if err != nil {
				return err
			}
			if remoteURL == "" && useRemote {
				remoteURL = a.cfg.RemoteURL
			}

			backend, release, err := a.backend(remoteURL)
			if err != nil {
				return err
			}
			defer release()

			result, err := a.exporter(backend, outputDir).Export(cmd.Context(), rec)
			if err != nil {
				a.logger.Debug("export failed", zap.Error(err))
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "PDF salvo em %s\n", result.Path)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&remoteURL, "remote", "", "base URL of a /generate_pdf service")
	flags.BoolVar(&useRemote, "use-remote", false, "use the configured remote_url")
	flags.StringVarP(&outputDir, "output-dir", "d", "", "directory of the PDF (defaults to the configured output_dir)")
	return cmd
}
