package main

import (
	"github.com/spf13/cobra"

	"github.com/goliatone/go-curriculo/pkg/orchestrator"
	"github.com/goliatone/go-curriculo/pkg/renderers/html"
	"github.com/goliatone/go-curriculo/pkg/renderers/text"
)

func newRenderCmd(a *app) *cobra.Command {
	var (
		format         string
		output         string
		plain          bool
		width          int
		skipValidation bool
		themeName      string
		themeVariant   string
		extras         map[string]string
	)

	cmd := &cobra.Command{
		Use:   "render <record>",
		Short: "Render a record file as html, text or json",
		Long: `Renders the résumé preview of a YAML or JSON record file. Use "-" to read
JSON from stdin. Incomplete records are rejected unless --skip-validation is set,
in which case empty fields show their placeholders.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := a.readRecord(args[0])
			if err != nil {
				return err
			}

			textOptions := []text.Option{text.WithWidth(width)}
			if plain {
				textOptions = append(textOptions, text.WithPlain())
			}
			orch, err := a.orchestrator(textOptions...)
			if err != nil {
				return err
			}

			if themeName == "" {
				themeName = a.cfg.Theme
			}
			if themeVariant == "" {
				themeVariant = a.cfg.ThemeVariant
			}
			out, err := orch.Generate(cmd.Context(), orchestrator.Request{
				Record:         rec,
				Renderer:       format,
				ThemeName:      themeName,
				ThemeVariant:   themeVariant,
				SkipValidation: skipValidation,
				Extras:         toExtras(extras),
			})
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), output, out)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&format, "format", "f", html.Name, "output format: html, text or json")
	flags.StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	flags.BoolVar(&plain, "plain", false, "disable colors in text output")
	flags.IntVar(&width, "width", 80, "text output width")
	flags.BoolVar(&skipValidation, "skip-validation", false, "render incomplete records")
	flags.StringVar(&themeName, "theme", "", "theme name (defaults to the configured theme)")
	flags.StringVar(&themeVariant, "variant", "", "theme variant")
	flags.StringToStringVar(&extras, "extra", nil, "key=value inputs for hide_rules (extras.<key>)")
	return cmd
}

func toExtras(values map[string]string) map[string]any {
	if len(values) == 0 {
		return nil
	}
	out := make(map[string]any, len(values))
	for key, value := range values {
		out[key] = value
	}
	return out
}
