package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-curriculo/pkg/export"
	"github.com/goliatone/go-curriculo/pkg/model"
	"github.com/goliatone/go-curriculo/pkg/renderers/text"
	"github.com/goliatone/go-curriculo/pkg/renderers/tui"
)

func newFillCmd(a *app) *cobra.Command {
	var (
		from      string
		save      string
		noExport  bool
		remoteURL string
		outputDir string
	)

	cmd := &cobra.Command{
		Use:   "fill",
		Short: "Fill in a résumé interactively and export it",
		Long: `Prompts every field of the résumé in the terminal, asks again for the fields
that fail validation, prints the preview and exports the PDF. A failed export
can be retried without losing the answers.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			driver := tui.NewSurveyDriver(out)

			var form *model.Form
			if from != "" {
				rec, err := a.readRecord(from)
				if err != nil {
					return err
				}
				if form, err = model.FromRecord(rec, a.formOptions()...); err != nil {
					return err
				}
			}

			session := tui.New(
				tui.WithPromptDriver(driver),
				tui.WithForm(form),
				tui.WithFormOptions(a.formOptions()...),
				tui.WithPreview(text.New()),
				tui.WithTheme(tui.Theme{ErrorPrefix: "✗ "}),
				tui.WithLogger(a.logger.Named("tui")),
			)
			rec, err := session.Run(ctx)
			if errors.Is(err, tui.ErrAborted) {
				fmt.Fprintln(out, "Cancelado.")
				return nil
			}
			if err != nil {
				return err
			}

			if save != "" {
				if err := saveRecord(save, rec); err != nil {
					return err
				}
				fmt.Fprintf(out, "Registro salvo em %s\n", save)
			}
			if noExport {
				return nil
			}

			if remoteURL == "" {
				remoteURL = a.cfg.RemoteURL
			}
			backend, release, err := a.backend(remoteURL)
			if err != nil {
				return err
			}
			defer release()
			exporter := a.exporter(backend, outputDir)

			for {
				fmt.Fprintln(out, "Gerando PDF...")
				outcome := <-exporter.Start(ctx, rec)
				if outcome.Err == nil {
					fmt.Fprintf(out, "PDF salvo em %s\n", outcome.Result.Path)
					return nil
				}
				if !errors.Is(outcome.Err, export.ErrExportFailed) {
					return outcome.Err
				}
				a.logger.Debug("export attempt failed", zap.Error(outcome.Err))
				if err := driver.Info(ctx, "✗ "+describe(outcome.Err)); err != nil {
					return err
				}
				retry, err := driver.Confirm(ctx, tui.ConfirmConfig{Message: "Tentar novamente?", Default: true})
				if err != nil || !retry {
					return outcome.Err
				}
			}
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&from, "from", "", "record file to start from")
	flags.StringVar(&save, "save", "", "save the completed record as YAML")
	flags.BoolVar(&noExport, "no-export", false, "stop after the preview")
	flags.StringVar(&remoteURL, "remote", "", "base URL of a /generate_pdf service")
	flags.StringVarP(&outputDir, "output-dir", "d", "", "directory of the PDF")
	return cmd
}
