package text

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/Krantz-XRF/acyclic/detector"
)

// Name prefixes every line the reporter writes
const Name = "acyclic"

// Option configures a Reporter
type Option func(*Reporter)

// WithLevel suppresses messages below level
func WithLevel(level slog.Level) Option {
	return func(r *Reporter) {
		r.level = level
	}
}

// WithColor enables ANSI colouring of severities and names
func WithColor(color bool) Option {
	return func(r *Reporter) {
		r.color = color
	}
}

// Reporter handles text output formatting
type Reporter struct {
	writer io.Writer
	level  slog.Level
	color  bool
	styles styles
}

type styles struct {
	warning lipgloss.Style
	info    lipgloss.Style
	name    lipgloss.Style
	field   lipgloss.Style
}

// NewReporter creates a new text reporter writing to w.
// By default informational messages are shown and colour is off.
func NewReporter(w io.Writer, opts ...Option) *Reporter {
	r := &Reporter{
		writer: w,
		level:  slog.LevelInfo,
	}
	for _, opt := range opts {
		opt(r)
	}

	renderer := lipgloss.NewRenderer(w)
	if r.color {
		renderer.SetColorProfile(termenv.ANSI)
	} else {
		renderer.SetColorProfile(termenv.Ascii)
	}
	r.styles = styles{
		warning: renderer.NewStyle().Bold(true).Foreground(lipgloss.Color("3")),
		info:    renderer.NewStyle().Bold(true).Foreground(lipgloss.Color("2")),
		name:    renderer.NewStyle().Bold(true),
		field:   renderer.NewStyle().Foreground(lipgloss.Color("6")),
	}
	return r
}

// Report writes every cycle as one warning followed by one informational
// block per link
func (r *Reporter) Report(cycles []detector.Cycle) error {
	for _, c := range cycles {
		var b strings.Builder
		r.writeCycle(&b, c)
		if b.Len() == 0 {
			continue
		}
		if _, err := io.WriteString(r.writer, b.String()); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	}
	return nil
}

func (r *Reporter) writeCycle(b *strings.Builder, c detector.Cycle) {
	if r.enabled(slog.LevelWarn) {
		names := make([]string, len(c.Chain))
		for i, t := range c.Chain {
			names[i] = r.paint(r.styles.name, t)
		}
		r.header(b, slog.LevelWarn)
		fmt.Fprintf(b, "circular reference detected: %s\n", strings.Join(names, " -> "))
	}

	if !r.enabled(slog.LevelInfo) {
		return
	}
	for _, l := range c.Links {
		r.header(b, slog.LevelInfo)
		fmt.Fprintf(b, "along the ref chain %s -> %s:\n",
			r.paint(r.styles.name, l.From), r.paint(r.styles.name, l.To))
		for _, e := range l.Entries {
			fmt.Fprintf(b, "  - %s::%s in %s\n",
				r.paint(r.styles.name, l.From), r.paint(r.styles.field, e.Field), e.Context)
		}
		fmt.Fprintf(b, "  total: %d field(s), %d function(s), %d location(s).\n",
			len(l.Fields), len(l.Functions), len(l.Locations))
	}
}

func (r *Reporter) header(b *strings.Builder, level slog.Level) {
	label, style := "info", r.styles.info
	if level >= slog.LevelWarn {
		label, style = "warning", r.styles.warning
	}
	fmt.Fprintf(b, "%s: %s ", Name, r.paint(style, label+":"))
}

func (r *Reporter) enabled(level slog.Level) bool {
	return level >= r.level
}

func (r *Reporter) paint(style lipgloss.Style, s string) string {
	if !r.color {
		return s
	}
	return style.Render(s)
}
