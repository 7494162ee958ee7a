// internal/report/templates.go
package report

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/crumbworks/bakeops/internal/domain"
)

var reportFuncs = template.FuncMap{
	"money": func(v float64) string { return fmt.Sprintf("£%.2f", v) },
	"qty":   func(v float64) string { return fmt.Sprintf("%.1f", v) },
	"pct":   func(v float64) string { return fmt.Sprintf("%.1f%%", v) },
	"date":  func(t time.Time) string { return t.Format("02 Jan 2006") },
}

const reportShell = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
body { font-family: Helvetica, Arial, sans-serif; font-size: 12px; margin: 24px; }
h1 { font-size: 18px; }
table { width: 100%; border-collapse: collapse; margin-top: 12px; }
th, td { border: 1px solid #ccc; padding: 4px 8px; text-align: left; }
th { background: #f0f0f0; }
.num { text-align: right; }
.meta { color: #666; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<p class="meta">Generated {{date .GeneratedAt}}</p>
{{.Body}}
</body>
</html>`

var (
	shellTmpl = template.Must(template.New("shell").Funcs(reportFuncs).Parse(reportShell))

	inventoryTmpl = template.Must(template.New("inventory").Funcs(reportFuncs).Parse(`
<table>
<tr><th>Ingredient</th><th>Unit</th><th class="num">Stock</th><th class="num">Daily usage</th><th class="num">Days left</th><th class="num">Reorder point</th><th>Status</th></tr>
{{range .}}
<tr>
<td>{{.IngredientName}}</td><td>{{.Unit}}</td>
<td class="num">{{qty .CurrentStock}}</td>
<td class="num">{{qty .DailyUsage}}</td>
<td class="num">{{qty .DaysRemaining}}</td>
<td class="num">{{qty .ReorderPoint}}</td>
<td>{{.Status}}</td>
</tr>
{{end}}
</table>`))

	profitTmpl = template.Must(template.New("profit").Funcs(reportFuncs).Parse(`
<table>
<tr><th>Recipe</th><th class="num">Price</th><th class="num">Cost</th><th class="num">Profit</th><th class="num">Margin</th><th class="num">Units sold</th><th class="num">Total profit</th></tr>
{{range .}}
<tr>
<td>{{.Name}}</td>
<td class="num">{{money .SalePrice}}</td>
<td class="num">{{money .Cost}}</td>
<td class="num">{{money .Profit}}</td>
<td class="num">{{pct .Margin}}</td>
<td class="num">{{.UnitsSold}}</td>
<td class="num">{{money .TotalProfit}}</td>
</tr>
{{end}}
</table>`))

	salesTmpl = template.Must(template.New("sales").Funcs(reportFuncs).Parse(`
<table>
<tr><td>Total revenue</td><td class="num">{{money .Summary.TotalRevenue}}</td></tr>
<tr><td>Total cost</td><td class="num">{{money .Summary.TotalCost}}</td></tr>
<tr><td>Total profit</td><td class="num">{{money .Summary.TotalProfit}}</td></tr>
<tr><td>Average margin</td><td class="num">{{pct .Summary.AvgProfitMargin}}</td></tr>
<tr><td>Items sold</td><td class="num">{{.Summary.TotalItemsSold}}</td></tr>
<tr><td>Transactions</td><td class="num">{{.Summary.NumTransactions}}</td></tr>
</table>
<h1>Top sellers</h1>
<table>
<tr><th>Item</th><th class="num">Quantity</th><th class="num">Revenue</th></tr>
{{range .TopSellers}}
<tr><td>{{.ItemName}}</td><td class="num">{{.Quantity}}</td><td class="num">{{money .Revenue}}</td></tr>
{{end}}
</table>`))
)

type shellData struct {
	Title       string
	GeneratedAt time.Time
	Body        template.HTML
}

func renderShell(title string, body *bytes.Buffer) (string, error) {
	var out bytes.Buffer
	err := shellTmpl.Execute(&out, shellData{
		Title:       title,
		GeneratedAt: time.Now(),
		Body:        template.HTML(body.String()),
	})
	if err != nil {
		return "", fmt.Errorf("failed to render report shell: %w", err)
	}
	return out.String(), nil
}

// InventoryHTML renders the stock overview report.
func InventoryHTML(rows []domain.StockOverviewRow) (string, error) {
	var body bytes.Buffer
	if err := inventoryTmpl.Execute(&body, rows); err != nil {
		return "", fmt.Errorf("failed to render inventory report: %w", err)
	}
	return renderShell("Inventory Overview", &body)
}

// ProfitHTML renders the per-recipe profitability report.
func ProfitHTML(profits []domain.RecipeProfit) (string, error) {
	var body bytes.Buffer
	if err := profitTmpl.Execute(&body, profits); err != nil {
		return "", fmt.Errorf("failed to render profit report: %w", err)
	}
	return renderShell("Recipe Profitability", &body)
}

// SalesReportData bundles the sales report inputs.
type SalesReportData struct {
	Summary    domain.SalesSummary
	TopSellers []*domain.TopSeller
}

// SalesHTML renders the sales summary report.
func SalesHTML(data SalesReportData) (string, error) {
	var body bytes.Buffer
	if err := salesTmpl.Execute(&body, data); err != nil {
		return "", fmt.Errorf("failed to render sales report: %w", err)
	}
	return renderShell("Sales Summary", &body)
}
