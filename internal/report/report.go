// Package report renders dashboard figures for the terminal.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/starford/digimark/internal/aggregate"
)

// Output formats.
const (
	FormatStyled   = "styled"
	FormatMarkdown = "markdown"
	FormatRaw      = "raw"
)

// Formats lists every supported output format.
func Formats() []string { return []string{FormatStyled, FormatMarkdown, FormatRaw} }

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	valueStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	panelStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	emptyStyle  = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("8"))
)

// Write renders d in the given format.
func Write(w io.Writer, d aggregate.Dashboard, format string) error {
	var out string
	switch format {
	case FormatStyled, "":
		out = Render(d)
	case FormatMarkdown:
		out = RenderMarkdown(Markdown(d))
	case FormatRaw:
		out = Markdown(d)
	default:
		return fmt.Errorf("report: unknown format %q", format)
	}
	_, err := io.WriteString(w, out+"\n")
	return err
}

// Render lays out totals, channel distribution and the daily series as
// bordered panels and tables.
func Render(d aggregate.Dashboard) string {
	lines := []string{titleStyle.Render("Marketing dashboard · " + filterLabel(d.Filter))}

	totals := []string{
		stat("Records", strconv.Itoa(d.Count)),
		stat("Spend", number(d.Totals.Spend)),
		stat("Revenue", number(d.Totals.Revenue)),
		stat("ROAS", ratio(d.ROAS)),
		stat("Leads", number(d.Totals.Leads)),
		stat("Reach", number(d.Totals.Reach)),
	}
	lines = append(lines, panelStyle.Render(strings.Join(totals, "\n")))

	if d.Count == 0 {
		lines = append(lines, emptyStyle.Render("No records match this filter."))
		return strings.Join(lines, "\n")
	}

	dist := newTable("Channel", "Records")
	for _, c := range d.Distribution {
		dist.Row(string(c.Channel), strconv.Itoa(c.Count))
	}

	series := newTable("Date", "Revenue", "Spend")
	for _, p := range d.Series {
		series.Row(p.Date, number(p.Revenue), number(p.Spend))
	}

	lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, dist.Render(), " ", series.Render()))
	return strings.Join(lines, "\n")
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

func stat(label, value string) string {
	return labelStyle.Render(fmt.Sprintf("%-8s", label)) + " " + valueStyle.Render(value)
}

func filterLabel(f aggregate.Filter) string {
	cat, ch := string(f.Category), string(f.Channel)
	if cat == "" {
		cat = aggregate.All
	}
	if ch == "" {
		ch = aggregate.All
	}
	return "category " + cat + ", channel " + ch
}

func number(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

func ratio(f float64) string { return strconv.FormatFloat(f, 'f', 2, 64) + "x" }
