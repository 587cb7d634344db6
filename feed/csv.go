package feed

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
)

// CSV fetches a published spreadsheet export with rows
//
//	symbol,price,currency[,daily]
//
// A first row starting with "symbol" is a header. Pair rows like USDTRY are
// exchange rates.
type CSV struct {
	URL    string
	Client *http.Client
}

// Fetch downloads and parses the export.
func (f *CSV) Fetch(ctx context.Context) (*Static, error) {
	data, err := get(ctx, f.Client, f.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch quotes: %w", err)
	}
	return ParseCSV(bytes.NewReader(data))
}

// ParseCSV reads quote rows. Short rows are skipped with a warning.
func ParseCSV(r io.Reader) (*Static, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	s := NewStatic()
	for line := 1; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("invalid quotes csv: %w", err)
		}
		if line == 1 && strings.EqualFold(strings.TrimSpace(rec[0]), "symbol") {
			continue
		}
		if len(rec) < 2 || strings.TrimSpace(rec[0]) == "" {
			log.Warn().Int("line", line).Msg("skipping quote row")
			continue
		}
		var currency, daily string
		if len(rec) > 2 {
			currency = rec[2]
		}
		if len(rec) > 3 {
			daily = rec[3]
		}
		s.add(rec[0], rec[1], currency, daily)
	}
	return s, nil
}
