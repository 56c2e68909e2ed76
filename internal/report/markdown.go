package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/starford/digimark/internal/aggregate"
)

// Markdown formats d as a Markdown document.
func Markdown(d aggregate.Dashboard) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Marketing dashboard\n\n_%s_\n\n", filterLabel(d.Filter))

	b.WriteString("| Metric | Value |\n|---|---:|\n")
	fmt.Fprintf(&b, "| Records | %d |\n", d.Count)
	fmt.Fprintf(&b, "| Spend | %s |\n", number(d.Totals.Spend))
	fmt.Fprintf(&b, "| Revenue | %s |\n", number(d.Totals.Revenue))
	fmt.Fprintf(&b, "| ROAS | %s |\n", ratio(d.ROAS))
	fmt.Fprintf(&b, "| Leads | %s |\n", number(d.Totals.Leads))
	fmt.Fprintf(&b, "| Reach | %s |\n", number(d.Totals.Reach))

	if len(d.Distribution) > 0 {
		b.WriteString("\n## Channels\n\n| Channel | Records |\n|---|---:|\n")
		for _, c := range d.Distribution {
			fmt.Fprintf(&b, "| %s | %s |\n", c.Channel, strconv.Itoa(c.Count))
		}
	}
	if len(d.Series) > 0 {
		b.WriteString("\n## Daily\n\n| Date | Revenue | Spend |\n|---|---:|---:|\n")
		for _, p := range d.Series {
			fmt.Fprintf(&b, "| %s | %s | %s |\n", p.Date, number(p.Revenue), number(p.Spend))
		}
	}
	return b.String()
}

// RenderMarkdown renders md for the terminal, falling back to the source on
// error.
func RenderMarkdown(md string) string {
	if strings.TrimSpace(md) == "" {
		return ""
	}
	out, err := glamour.Render(md, "dark")
	if err != nil {
		return md
	}
	return strings.TrimSpace(out)
}
