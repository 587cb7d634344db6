package symbols

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/etnz/holdings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const doc = `
symbols:
  fund:
    sample: "1,312719"
    market: TEFAS
  THYAO:
    market: BIST
    name: Türk Hava Yolları
`

func TestDecode(t *testing.T) {
	f, err := Decode(strings.NewReader(doc))
	require.NoError(t, err)

	sample, ok := f.DesiredSample("FUND")
	require.True(t, ok)
	assert.Equal(t, "1,312719", sample)

	_, ok = f.DesiredSample("THYAO")
	assert.False(t, ok, "no sample means no reformatting")

	s, ok := f.Lookup("thyao")
	require.True(t, ok)
	assert.Equal(t, "BIST", s.Market)

	var _ holdings.SymbolMetadata = f
}

func TestDecode_Invalid(t *testing.T) {
	_, err := Decode(strings.NewReader("symbols: [1, 2"))
	assert.Error(t, err)

	f, err := Decode(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, f.Symbols)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	f, err := Load(filepath.Join(dir, "missing.yaml"))
	require.NoError(t, err)
	_, ok := f.DesiredSample("FUND")
	assert.False(t, ok)

	path := filepath.Join(dir, "symbols.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))
	f, err = Load(path)
	require.NoError(t, err)
	assert.Len(t, f.Symbols, 2)

	var buf bytes.Buffer
	require.NoError(t, f.Encode(&buf))
	again, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, f.Symbols, again.Symbols)
}

func TestEngine_UsesSample(t *testing.T) {
	f, err := Decode(strings.NewReader(doc))
	require.NoError(t, err)
	out, ok := holdings.Reformat("1312719", mustSample(t, f, "FUND"), holdings.TRY)
	require.True(t, ok)
	assert.Equal(t, "1,31271₺", out)
}

func mustSample(t *testing.T, f *File, symbol string) string {
	t.Helper()
	s, ok := f.DesiredSample(symbol)
	require.True(t, ok)
	return s
}
