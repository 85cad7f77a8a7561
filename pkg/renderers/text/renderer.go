// Package text renders the preview document for terminals with lipgloss.
package text

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/goliatone/go-curriculo/pkg/preview"
	"github.com/goliatone/go-curriculo/pkg/render"
)

// Name is the registry name of the text renderer.
const Name = "text"

const defaultWidth = 80

// Option configures the renderer.
type Option func(*Renderer)

// WithStyles replaces the default styles.
func WithStyles(styles Styles) Option {
	return func(r *Renderer) {
		r.styles = styles
	}
}

// WithPlain disables all styling.
func WithPlain() Option {
	return WithStyles(PlainStyles())
}

// WithWidth sets the page width in cells (minimum 40).
func WithWidth(width int) Option {
	return func(r *Renderer) {
		if width >= 40 {
			r.width = width
		}
	}
}

// Renderer lays out a preview document as terminal text.
type Renderer struct {
	styles Styles
	width  int
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a text renderer.
func New(options ...Option) *Renderer {
	r := &Renderer{styles: DefaultStyles(), width: defaultWidth}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

func (r *Renderer) Name() string        { return Name }
func (r *Renderer) ContentType() string { return "text/plain; charset=utf-8" }

func (r *Renderer) Render(ctx context.Context, doc preview.Document, opts render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	labels := render.Labels(opts)
	s := r.styles

	var blocks []string
	for _, message := range opts.FormErrors {
		blocks = append(blocks, s.Error.Render("! "+message))
	}

	header := lipgloss.JoinVertical(lipgloss.Center,
		s.Name.Render(doc.Header.Name),
		s.Contacts.Render(strings.Join(doc.Header.Contacts(), " | ")),
	)
	blocks = append(blocks,
		lipgloss.PlaceHorizontal(r.width, lipgloss.Center, header),
		s.Rule.Render(strings.Repeat("─", r.width)),
		r.section(labels[render.LabelObjective], []string{s.Body.Render(doc.Objective)}),
		r.section(labels[render.LabelEducation], r.studies(doc.Education)),
		r.section(labels[render.LabelExperience], r.jobs(doc.Experience)),
		r.columns(
			r.section(labels[render.LabelCourses], r.studies(doc.Courses)),
			r.section(labels[render.LabelKnowledge], r.bullets(doc.Knowledge)),
		),
		r.columns(
			r.section(labels[render.LabelLanguages], r.bullets(doc.Languages)),
			r.license(labels[render.LabelLicense], doc.License),
		),
	)

	out := strings.Join(blocks, "\n\n")
	return []byte(fmt.Sprintln(strings.TrimRight(out, "\n"))), nil
}

func (r *Renderer) section(heading string, lines []string) string {
	if len(lines) == 0 {
		lines = []string{r.styles.Body.Render(preview.Empty)}
	}
	return lipgloss.JoinVertical(lipgloss.Left, append([]string{r.styles.Heading.Render(heading)}, lines...)...)
}

func (r *Renderer) studies(items []preview.Study) []string {
	var lines []string
	for _, item := range items {
		lines = append(lines, r.styles.Title.Render("• "+item.Course)+" - "+r.styles.Body.Render(item.Institution))
		if item.Period != "" {
			lines = append(lines, "    "+r.styles.Period.Render(item.Period))
		}
	}
	return lines
}

func (r *Renderer) jobs(items []preview.Experience) []string {
	var lines []string
	for _, job := range items {
		lines = append(lines, r.styles.Title.Render("➢ "+job.Role+" — "+job.Company))
		if job.Period != "" {
			lines = append(lines, "    "+r.styles.Period.Render(job.Period))
		}
		for _, item := range job.Responsibilities {
			lines = append(lines, "      - "+r.styles.Body.Render(item))
		}
	}
	return lines
}

func (r *Renderer) bullets(items []string) []string {
	lines := make([]string, 0, len(items))
	for _, item := range items {
		lines = append(lines, "  • "+r.styles.Body.Render(item))
	}
	return lines
}

func (r *Renderer) license(heading string, license preview.License) string {
	if !license.Visible {
		return ""
	}
	return r.section(heading, []string{r.styles.Body.Render(license.Code)})
}

func (r *Renderer) columns(left, right string) string {
	half := r.width / 2
	col := lipgloss.NewStyle().Width(half)
	if right == "" {
		return left
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, col.Render(left), right)
}
