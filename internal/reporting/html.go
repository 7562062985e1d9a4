package reporting

import (
	"fmt"
	"html"
	"os"
	"path/filepath"

	"github.com/MaitreyaGenesis/Revenue-Integrity-Engine/internal/narrative"
	"github.com/MaitreyaGenesis/Revenue-Integrity-Engine/internal/report"
)

func WriteHTML(runID, outDir string, run *report.Run, sum narrative.Summarizer) (string, error) {
	path := filepath.Join(outDir, runID+".html")
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	cur := run.Currency
	if cur == "" {
		cur = "USD"
	}

	// Head + styles
	fmt.Fprintf(f, "<!doctype html><html><head><meta charset='utf-8'><title>%s</title>", html.EscapeString(runID))
	fmt.Fprint(f, "<style>body{font-family:system-ui,Arial,sans-serif;padding:20px;line-height:1.4} table{border-collapse:collapse;margin:8px 0} td,th{border:1px solid #ddd;padding:6px} h1,h2,h3{margin:6px 0 4px} .dim{color:#666} .mono{font-family:ui-monospace,Menlo,Consolas,monospace} .leak{color:#b00}</style>")
	fmt.Fprint(f, "</head><body>")

	// Title + run banner
	fmt.Fprintf(f, "<h1>revenue integrity report – <span class='mono'>%s</span></h1>", html.EscapeString(runID))
	fmt.Fprintf(f, "<p class='dim'>Snapshot as of %s &nbsp; Currency: %s &nbsp; Use cases: %d</p>",
		run.AsOf.Format("2006-01-02"), html.EscapeString(cur), len(run.Results))

	exec := run.Executive
	if exec == nil {
		fmt.Fprint(f, "<p class='dim'>No executive summary was computed for this run.</p></body></html>")
		return path, nil
	}

	// Narrative summary
	if sum != nil {
		if text, err := sum.Summarize(exec, cur); err == nil && text != "" {
			fmt.Fprintf(f, "<p><b>%s</b></p>", html.EscapeString(text))
		}
	}

	// Executive totals
	fmt.Fprintf(f, "<p><b>Totals</b>: leakage=%s %s &nbsp; addressable=%s %s &nbsp; %.1f%%</p>",
		exec.TotalImpact.StringFixed(2), html.EscapeString(cur),
		exec.TotalRevenue.StringFixed(2), html.EscapeString(cur),
		exec.Percent)

	// Tier table, category registration order
	fmt.Fprint(f, "<h2>Categories</h2><table><tr><th>Category</th><th>Leakage</th><th>Addressable</th><th>%</th><th>Tier</th><th>Healthy</th><th>Leaks</th><th>Excluded</th></tr>")
	for _, c := range exec.Categories {
		fmt.Fprintf(f, "<tr><td>%s</td><td class='leak'>%s</td><td>%s</td><td>%.1f</td><td>%s</td><td>%d</td><td>%d</td><td>%d</td></tr>",
			html.EscapeString(c.Category),
			c.Impact.StringFixed(2),
			c.Revenue.StringFixed(2),
			c.Percent,
			html.EscapeString(c.Tier),
			c.Healthy, c.LeakCount, c.ExclCount,
		)
	}
	fmt.Fprint(f, "</table>")

	// Bar order: descending impact, the chart contract
	fmt.Fprint(f, "<h2>Impact by Category</h2><table><tr><th>Category</th><th>Leakage</th></tr>")
	for _, b := range exec.Bars {
		fmt.Fprintf(f, "<tr><td>%s</td><td class='leak'>%s</td></tr>",
			html.EscapeString(b.Category), b.Impact.StringFixed(2))
	}
	fmt.Fprint(f, "</table>")

	// Per-category use-case detail with pie payloads
	for _, c := range exec.Categories {
		if len(c.UseCases) == 0 {
			continue
		}
		fmt.Fprintf(f, "<h2>%s</h2>", html.EscapeString(c.Category))
		for _, u := range c.UseCases {
			fmt.Fprintf(f, "<h3>%s</h3>", html.EscapeString(u.UseCase))
			if u.Summary != "" {
				fmt.Fprintf(f, "<p class='dim'>%s</p>", html.EscapeString(u.Summary))
			}
			fmt.Fprint(f, "<table><tr>")
			for _, p := range u.Pie() {
				fmt.Fprintf(f, "<th>%s</th>", html.EscapeString(p.Label))
			}
			fmt.Fprint(f, "<th>Leakage value</th></tr><tr>")
			for _, p := range u.Pie() {
				fmt.Fprintf(f, "<td>%d</td>", p.Count)
			}
			fmt.Fprintf(f, "<td class='leak'>%s</td></tr></table>", u.TotalImpact.StringFixed(2))
		}
	}

	fmt.Fprint(f, "</body></html>")
	return path, nil
}
