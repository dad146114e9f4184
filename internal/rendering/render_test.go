package rendering

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/tlf/internal/types"
)

var (
	blaRockCafe = types.SearchResult{
		Name:         "Blå Rock Cafe AS",
		Street:       "Strandgata 14",
		Area:         "9008 Tromsø",
		PhoneNumbers: []string{"77 61 00 20"},
	}
	blaRockEiendom = types.SearchResult{
		Name:         "Blå Rock Eiendom AS",
		Street:       "Storgata 37",
		Area:         "9008 Tromsø",
		PhoneNumbers: []string{},
	}
	swan = types.SearchResult{
		Name:         "David Andreas Swan",
		PhoneNumbers: []string{"412 25 400"},
	}
)

func TestRenderResult_Full(t *testing.T) {
	assert.Equal(t, "Blå Rock Cafe AS\nStrandgata 14\n9008 Tromsø\nTlf: 77 61 00 20", RenderResult(blaRockCafe))
}

func TestRenderResult_NoPhone(t *testing.T) {
	out := RenderResult(blaRockEiendom)
	assert.Equal(t, "Blå Rock Eiendom AS\nStorgata 37\n9008 Tromsø", out)
	assert.Len(t, strings.Split(out, "\n"), 3)
	assert.NotContains(t, out, PhoneLabel)
}

func TestRenderResult_NoAddress(t *testing.T) {
	out := RenderResult(swan)
	assert.Equal(t, "David Andreas Swan\nTlf: 412 25 400", out)
	assert.NotContains(t, out, "\n\n")
}

func TestRenderResult_MultiplePhones(t *testing.T) {
	r := types.SearchResult{Name: "Nordmann AS", PhoneNumbers: []string{"98765432", "87654321"}}
	assert.Equal(t, "Nordmann AS\nTlf: 98765432\nTlf: 87654321", RenderResult(r))
}

func TestRender_SeparatesWithBlankLine(t *testing.T) {
	out := Render([]types.SearchResult{blaRockCafe, blaRockEiendom})
	assert.Equal(t,
		"Blå Rock Cafe AS\nStrandgata 14\n9008 Tromsø\nTlf: 77 61 00 20\n\nBlå Rock Eiendom AS\nStorgata 37\n9008 Tromsø",
		out)
}

func TestRender_Empty(t *testing.T) {
	assert.Equal(t, "", Render(nil))
	assert.Equal(t, "", Render([]types.SearchResult{}))
}

func TestRenderWith_Plain(t *testing.T) {
	out, err := RenderWith([]types.SearchResult{blaRockCafe}, Options{})
	require.NoError(t, err)
	assert.Equal(t, RenderResult(blaRockCafe), out)
}

func TestRenderWith_Color(t *testing.T) {
	out, err := RenderWith([]types.SearchResult{swan}, Options{Format: FormatPlain, Color: true})
	require.NoError(t, err)
	assert.Contains(t, out, "David Andreas Swan")
	assert.Contains(t, out, "Tlf: 412 25 400")
}

func TestIsTerminal_NonFileWriters(t *testing.T) {
	assert.False(t, IsTerminal(&bytes.Buffer{}))

	f, err := os.CreateTemp(t.TempDir(), "out")
	require.NoError(t, err)
	defer f.Close()
	assert.False(t, IsTerminal(f))
}

func TestRenderWith_JSON(t *testing.T) {
	out, err := RenderWith([]types.SearchResult{swan}, Options{Format: FormatJSON})
	require.NoError(t, err)

	var decoded []types.SearchResult
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, []types.SearchResult{swan}, decoded)
	assert.Contains(t, out, `"street": ""`)

	out, err = RenderWith(nil, Options{Format: FormatJSON})
	require.NoError(t, err)
	assert.Equal(t, "[]", out)
}

func TestRenderWith_Table(t *testing.T) {
	out, err := RenderWith([]types.SearchResult{blaRockCafe, swan}, Options{Format: FormatTable, Width: 120})
	require.NoError(t, err)

	lines := strings.Split(out, "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "NAME"))
	assert.Contains(t, lines[1], "Strandgata 14, 9008 Tromsø")
	assert.Contains(t, lines[2], "412 25 400")

	// Columns line up by display width, not byte length
	addrCol := runewidth.StringWidth(lines[0][:strings.Index(lines[0], "ADDRESS")])
	assert.Equal(t, addrCol, runewidth.StringWidth(lines[1][:strings.Index(lines[1], "Strandgata")]))
}

func TestRenderWith_TableNarrow(t *testing.T) {
	out, err := RenderWith([]types.SearchResult{blaRockCafe}, Options{Format: FormatTable, Width: 40})
	require.NoError(t, err)

	for _, line := range strings.Split(out, "\n") {
		assert.LessOrEqual(t, runewidth.StringWidth(line), 40, line)
	}
	assert.Contains(t, out, "…")
}

func TestRenderWith_UnknownFormat(t *testing.T) {
	_, err := RenderWith(nil, Options{Format: "xml"})

	var renderErr *RenderError
	require.ErrorAs(t, err, &renderErr)
}

func TestHeader(t *testing.T) {
	assert.Equal(t, "1 result for 'Blå Rock Cafe':", Header("Blå Rock Cafe", 1))
	assert.Equal(t, "2 results for 'Blå Rock':", Header("Blå Rock", 2))
}

func TestNoResultsMessage(t *testing.T) {
	assert.Equal(t, "No results for 'gurbagurba'", NoResultsMessage("gurbagurba"))
}
