package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-curriculo/pkg/preview"
	"github.com/goliatone/go-curriculo/pkg/transport/remote"
)

func newSendCmd(a *app) *cobra.Command {
	var (
		url    string
		output string
	)

	cmd := &cobra.Command{
		Use:   "send <record>",
		Short: "POST a record to a /generate_pdf service as is",
		Long: `Sends the record to a remote /generate_pdf service without validating it
locally, so the server decides. The PDF is written to --output, or to
curriculo_<name>.pdf in the output directory.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if url == "" {
				url = a.cfg.RemoteURL
			}
			if strings.TrimSpace(url) == "" {
				return errors.New("send: --url or remote_url is required")
			}

			rec, err := a.readRecord(args[0])
			if err != nil {
				return err
			}
			client, err := a.remote(url)
			if err != nil {
				return err
			}

			pdf, err := client.Produce(cmd.Context(), rec)
			if err != nil {
				var status *remote.StatusError
				if errors.As(err, &status) {
					return fmt.Errorf("send: server answered %d: %s", status.StatusCode, strings.TrimSpace(status.Body))
				}
				return err
			}

			if output == "" {
				output = filepath.Join(a.cfg.OutputDir, preview.Filename(rec.Name))
			}
			if err := writeOutput(cmd.OutOrStdout(), output, pdf); err != nil {
				return err
			}
			if output != "-" {
				fmt.Fprintf(cmd.OutOrStdout(), "PDF salvo em %s (%d bytes)\n", output, len(pdf))
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&url, "url", "u", "", "base URL of the service (defaults to remote_url)")
	flags.StringVarP(&output, "output", "o", "", `output file, "-" for stdout`)
	return cmd
}
