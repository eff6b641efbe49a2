// Package templates holds the dashboard page shell. The page is a static
// frame hydrated over the datastar SSE endpoint, so the components are
// assembled by hand rather than generated.
package templates

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"
)

const pageTop = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>E-commerce Analytics Dashboard</title>
<script type="module" src="https://cdn.jsdelivr.net/gh/starfederation/datastar@v1.0.0/bundles/datastar.js"></script>
<style>
body { font-family: sans-serif; background: #f5f6f8; margin: 0; padding: 2rem; }
header { display: flex; justify-content: space-between; align-items: center; }
.metric-card, .bottom-card { background: white; padding: 1.5rem; border-radius: 10px; border: 1px solid #e0e0e0; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
.metric-value { font-size: 2.2rem; font-weight: bold; margin: 0.3rem 0; color: #1f1f1f; }
.metric-label { font-size: 0.95rem; color: #666; margin: 0 0 0.3rem 0; font-weight: 500; }
.metric-trend { font-size: 0.85rem; margin: 0.3rem 0 0 0; }
.stars { color: #ffc107; font-size: 1.5rem; }
#kpi-cards { display: grid; grid-template-columns: repeat(4, 1fr); gap: 1rem; margin: 1.5rem 0; }
.chart-grid { display: grid; grid-template-columns: 1fr 1fr; gap: 1rem; }
.chart { background: white; border-radius: 10px; border: 1px solid #e0e0e0; min-height: 350px; padding: 1rem; }
</style>
</head>
<body>
<header>
<h1>E-commerce Analytics Dashboard</h1>
`

const chartGrid = `
<div class="chart-grid">
<div class="chart" id="monthly-revenue-chart" data-text="JSON.stringify($dashboard.monthly_revenue)"></div>
<div class="chart" id="category-revenue-chart" data-text="JSON.stringify($dashboard.category_revenue)"></div>
<div class="chart" id="state-revenue-chart" data-text="JSON.stringify($dashboard.state_revenue)"></div>
<div class="chart" id="delivery-satisfaction-chart" data-text="JSON.stringify($dashboard.delivery_satisfaction)"></div>
</div>
</main>
</body>
</html>`

// Dashboard renders the page frame with the year selector. Selecting a year
// re-fetches the SSE endpoint, which patches the KPI cards and chart signals
// in place.
func Dashboard(years []int, selected int) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(pageTop)

		b.WriteString(`<select id="year-filter" data-on-change="@get('/sse/dashboard?year=' + evt.target.value)">`)
		for _, year := range years {
			if year == selected {
				fmt.Fprintf(&b, `<option value="%d" selected>%d</option>`, year, year)
			} else {
				fmt.Fprintf(&b, `<option value="%d">%d</option>`, year, year)
			}
		}
		b.WriteString(`</select></header>`)

		fmt.Fprintf(&b, `<main data-signals="{dashboard: {}}" data-on-load="@get('/sse/dashboard?year=%d')">`, selected)
		b.WriteString(`<div id="kpi-cards"></div>`)
		b.WriteString(chartGrid)

		_, err := io.WriteString(w, b.String())
		return err
	})
}
