package renderer

import (
	"strings"
	"testing"

	"github.com/etnz/holdings"
	"github.com/etnz/holdings/date"
	"github.com/etnz/holdings/feed"
	"github.com/shopspring/decimal"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

func report(t *testing.T, kind holdings.GroupKind) holdings.Report {
	t.Helper()
	s := feed.NewStatic()
	s.SetQuote("THYAO", holdings.Quote{Raw: "300", Currency: holdings.TRY, DailyPct: 2, HasDaily: true})
	s.SetQuote("AAPL", holdings.Quote{Raw: "200", Currency: holdings.USD})
	s.SetRate(holdings.USD, holdings.TRY, decimal.NewFromInt(40))

	e, err := holdings.NewEngine(s, nil, holdings.TRY)
	if err != nil {
		t.Fatal(err)
	}
	on := date.New(2024, 1, 2)
	thyao := holdings.NewTransaction(on, holdings.Buy, "THYAO", holdings.Q(10), decimal.NewFromInt(250), decimal.Zero, holdings.TRY)
	thyao.PlatformID = "midas"
	aapl := holdings.NewTransaction(on, holdings.Buy, "AAPL", holdings.Q(1), decimal.NewFromInt(150), decimal.Zero, holdings.USD)
	aapl.PlatformID = "ibkr"
	fund := holdings.NewTransaction(on, holdings.Buy, "FUND", holdings.Q(5), decimal.NewFromInt(10), decimal.Zero, holdings.EUR)
	fund.PlatformID = "midas"
	return e.Evaluate([]holdings.Transaction{thyao, aapl, fund}, kind)
}

// tables parses md as GitHub flavored markdown and returns its table nodes.
func tables(t *testing.T, md string) []*east.Table {
	t.Helper()
	parser := goldmark.New(goldmark.WithExtensions(extension.GFM)).Parser()
	doc := parser.Parse(text.NewReader([]byte(md)))
	var out []*east.Table
	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if tbl, ok := n.(*east.Table); ok && entering {
			out = append(out, tbl)
		}
		return ast.WalkContinue, nil
	})
	return out
}

// rows counts the body rows of a table.
func rows(tbl *east.Table) int {
	n := 0
	for c := tbl.FirstChild(); c != nil; c = c.NextSibling() {
		if _, ok := c.(*east.TableRow); ok {
			n++
		}
	}
	return n
}

func TestPositions(t *testing.T) {
	out, err := Positions(report(t, holdings.BySymbol))
	if err != nil {
		t.Fatal(err)
	}
	tbls := tables(t, out)
	if len(tbls) != 1 {
		t.Fatalf("Positions() has %d tables, want 1:\n%s", len(tbls), out)
	}
	if got := rows(tbls[0]); got != 3 {
		t.Errorf("Positions() has %d rows, want 3:\n%s", got, out)
	}
	if !strings.Contains(out, "# Positions by Symbol") {
		t.Errorf("Positions() misses its title:\n%s", out)
	}

	// FUND has no price: price, P&L and P&L% are all "-"
	var fundRow string
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "| FUND ") {
			fundRow = line
		}
	}
	if strings.Count(fundRow, "| - |") < 1 || strings.Contains(fundRow, "-100") {
		t.Errorf("unpriced row = %q, want no P&L", fundRow)
	}
}

func TestSummary(t *testing.T) {
	out, err := Summary(report(t, holdings.ByPlatform))
	if err != nil {
		t.Fatal(err)
	}
	tbls := tables(t, out)
	if len(tbls) != 3 {
		t.Fatalf("Summary() has %d tables, want 3:\n%s", len(tbls), out)
	}
	if got := rows(tbls[0]); got != 3 {
		t.Errorf("buckets table has %d rows, want midas/TRY, ibkr/USD and midas/EUR:\n%s", got, out)
	}
	if !strings.Contains(out, "Not included in the total: EUR") {
		t.Errorf("Summary() must list EUR as not included:\n%s", out)
	}
	if !strings.Contains(out, "(1 unpriced, cost ") {
		t.Errorf("Summary() must count the unpriced position:\n%s", out)
	}
	// FUND is the only position of midas/EUR: no P&L rather than a loss
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "| midas | EUR ") && !strings.Contains(line, "| - | - |") {
			t.Errorf("unpriced bucket row = %q, want no P&L", line)
		}
	}
	if strings.Contains(out, "Unpriced Cost") {
		t.Errorf("Summary() must not report an unpriced cost for a currency left out of the total:\n%s", out)
	}
	// 10*300 + 200*40
	if !strings.Contains(out, "| Value | 11.000,00 ₺ |") {
		t.Errorf("Summary() blended value is wrong:\n%s", out)
	}
}

func TestDaily(t *testing.T) {
	out, err := Daily(report(t, holdings.BySymbol))
	if err != nil {
		t.Fatal(err)
	}
	tbls := tables(t, out)
	if len(tbls) != 3 {
		t.Fatalf("Daily() has %d tables, want 3:\n%s", len(tbls), out)
	}
	if got := rows(tbls[2]); got != 1 {
		t.Errorf("movers table has %d rows, want only THYAO:\n%s", got, out)
	}
	if !strings.Contains(out, "+2.00%") {
		t.Errorf("Daily() misses the weighted change:\n%s", out)
	}
}
