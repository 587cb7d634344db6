package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/rs/zerolog/log"
)

// JSON fetches quotes from a JSON document. Items selects the list of quote
// objects, the other paths are evaluated on each item.
type JSON struct {
	URL    string
	Client *http.Client

	Items    string // e.g. "$.data[*]"
	Symbol   string // e.g. "$.symbol"
	Price    string
	Currency string // optional
	Daily    string // optional
}

// DefaultJSON returns paths for documents shaped like
// {"quotes":[{"symbol":..,"price":..,"currency":..,"daily":..}]}.
func DefaultJSON(url string, client *http.Client) *JSON {
	return &JSON{
		URL:      url,
		Client:   client,
		Items:    "$.quotes[*]",
		Symbol:   "$.symbol",
		Price:    "$.price",
		Currency: "$.currency",
		Daily:    "$.daily",
	}
}

// Fetch downloads and parses the document.
func (f *JSON) Fetch(ctx context.Context) (*Static, error) {
	data, err := get(ctx, f.Client, f.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch quotes: %w", err)
	}
	return f.Parse(data)
}

// Parse reads quotes from data.
func (f *JSON) Parse(data []byte) (*Static, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid quotes json: %w", err)
	}
	items, err := jsonpath.Get(f.Items, doc)
	if err != nil {
		return nil, fmt.Errorf("cannot select quotes with %q: %w", f.Items, err)
	}
	list, ok := items.([]any)
	if !ok {
		return nil, fmt.Errorf("cannot select quotes with %q: not a list", f.Items)
	}

	s := NewStatic()
	for i, item := range list {
		symbol := f.cell(f.Symbol, item)
		if symbol == "" {
			log.Warn().Int("item", i).Msg("skipping quote without symbol")
			continue
		}
		s.add(symbol, f.cell(f.Price, item), f.cell(f.Currency, item), f.cell(f.Daily, item))
	}
	return s, nil
}

// cell evaluates path on item and renders the value the way a spreadsheet
// cell would show it. Missing values are empty.
func (f *JSON) cell(path string, item any) string {
	if path == "" {
		return ""
	}
	v, err := jsonpath.Get(path, item)
	if err != nil {
		return ""
	}
	// jsonpath may answer a list of one
	if l, ok := v.([]any); ok {
		if len(l) == 0 {
			return ""
		}
		v = l[0]
	}
	switch v := v.(type) {
	case string:
		return v
	case float64:
		// decimal comma, the way the rest of the raw cells are written
		return strings.Replace(strconv.FormatFloat(v, 'f', -1, 64), ".", ",", 1)
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}
