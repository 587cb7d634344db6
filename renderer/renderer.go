// Package renderer turns holdings reports into markdown.
package renderer

import (
	"embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/etnz/holdings"
)

//go:embed templates/*.md
var templates embed.FS

var funcs = template.FuncMap{
	"money":  func(m holdings.Money) string { return m.String() },
	"signed": func(m holdings.Money) string { return m.SignedString() },
	"pct":    func(p holdings.Percent) string { return p.SignedString() },
	"header": groupHeader,
	"price": func(v holdings.Valuation) string {
		if !v.PriceKnown {
			return "-"
		}
		return v.Price.Value.String()
	},
	// unknown prices have no P&L, never a -100% loss
	"pnl": func(v holdings.Valuation) string {
		if !v.PriceKnown {
			return "-"
		}
		return v.UnrealizedPnL.SignedString()
	},
	"pnlPct": func(v holdings.Valuation) string {
		if !v.PriceKnown {
			return "-"
		}
		return v.PnLPercent.SignedString()
	},
	"currencies": func(cs []holdings.Currency) string {
		s := make([]string, len(cs))
		for i, c := range cs {
			s[i] = string(c)
		}
		return strings.Join(s, ", ")
	},
}

// groupHeader is the column title of the group labels.
func groupHeader(k holdings.GroupKind) string {
	switch k {
	case holdings.BySymbol:
		return "Symbol"
	case holdings.ByPlatform:
		return "Platform"
	case holdings.ByPortfolio:
		return "Portfolio"
	default:
		return "Group"
	}
}

// Positions renders one row per position of the report.
func Positions(r holdings.Report) (string, error) {
	return renderTemplate("positions.md", r)
}

// Summary renders the buckets and the blended total of the report.
func Summary(r holdings.Report) (string, error) {
	return renderTemplate("summary.md", r)
}

// Daily renders the daily change of the report.
func Daily(r holdings.Report) (string, error) {
	return renderTemplate("daily.md", r)
}

// renderTemplate executes the template file on data. Every template is parsed
// so files can call each other's blocks.
func renderTemplate(file string, data any) (string, error) {
	tmpl, err := template.New(file).Funcs(funcs).ParseFS(templates, "templates/*.md")
	if err != nil {
		return "", fmt.Errorf("error parsing templates: %w", err)
	}
	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, file, data); err != nil {
		return "", fmt.Errorf("error executing template %q: %w", file, err)
	}
	return b.String(), nil
}
