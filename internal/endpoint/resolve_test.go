package endpoint

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/tlf/internal/fetch"
	"github.com/jonathan/tlf/internal/types"
	"github.com/jonathan/tlf/internal/upstreamtest"
)

func TestExtractBuildID_NextDataScript(t *testing.T) {
	html := upstreamtest.RootPage("abc123")
	assert.Equal(t, "abc123", ExtractBuildID(html))
}

func TestExtractBuildID_MarkerFallback(t *testing.T) {
	// No __NEXT_DATA__ script, token inlined elsewhere
	html := `<html><body><script>self.__BUILD={"page":"/","buildId":"xyz-789","gssp":true}</script></body></html>`
	assert.Equal(t, "xyz-789", ExtractBuildID(html))
}

func TestExtractBuildID_BrokenScriptFallsBackToMarker(t *testing.T) {
	html := `<html><body><script id="__NEXT_DATA__">{"buildId":"raw-1", broken</script></body></html>`
	assert.Equal(t, "raw-1", ExtractBuildID(html))
}

func TestExtractBuildID_Missing(t *testing.T) {
	assert.Empty(t, ExtractBuildID(`<html><body><h1>Gule Sider</h1></body></html>`))
	assert.Empty(t, ExtractBuildID(`"buildId":"unterminated`))
	assert.Empty(t, ExtractBuildID(""))
}

func TestResolve_Success(t *testing.T) {
	srv := upstreamtest.New(t, nil)

	r := NewResolver(srv.URL+"/", "nb", fetch.DefaultOptions(), nil)
	ep, err := r.Resolve(context.Background())
	require.NoError(t, err)

	assert.Equal(t, upstreamtest.BuildID, ep.BuildID)
	assert.Equal(t, srv.URL+"/_next/data/"+upstreamtest.BuildID+"/nb/search", ep.BaseURL)
	assert.Equal(t, 1, srv.Hits("root"))
}

func TestResolve_NoCaching(t *testing.T) {
	srv := upstreamtest.New(t, nil)
	r := NewResolver(srv.URL, "nb", nil, nil)

	first, err := r.Resolve(context.Background())
	require.NoError(t, err)

	srv.RootHTML = upstreamtest.RootPage("redeployed")
	second, err := r.Resolve(context.Background())
	require.NoError(t, err)

	assert.Equal(t, upstreamtest.BuildID, first.BuildID)
	assert.Equal(t, "redeployed", second.BuildID)
	assert.Equal(t, 2, srv.Hits("root"))
}

func TestResolve_TokenMissing(t *testing.T) {
	srv := upstreamtest.New(t, nil)
	srv.RootHTML = "<html><body>new layout</body></html>"

	_, err := NewResolver(srv.URL, "nb", nil, nil).Resolve(context.Background())
	require.Error(t, err)

	var discErr *EndpointDiscoveryError
	require.ErrorAs(t, err, &discErr)
	assert.Equal(t, srv.URL, discErr.Origin)
	assert.Contains(t, err.Error(), "deployment token not found")
}

func TestResolve_HTTPFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := NewResolver(server.URL, "nb", nil, nil).Resolve(context.Background())

	var discErr *EndpointDiscoveryError
	require.ErrorAs(t, err, &discErr)
	var fetchErr *fetch.Error
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, http.StatusServiceUnavailable, fetchErr.StatusCode)
}

func TestResolve_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte(upstreamtest.RootPage("late")))
	}))
	defer server.Close()

	_, err := NewResolver(server.URL, "nb", &fetch.Options{Timeout: 20 * time.Millisecond}, nil).Resolve(context.Background())

	var discErr *EndpointDiscoveryError
	require.ErrorAs(t, err, &discErr)
}

func TestEndpoint_SearchURL(t *testing.T) {
	ep := New("https://www.gulesider.no", "B1", "nb")

	assert.Equal(t,
		"https://www.gulesider.no/_next/data/B1/nb/search/Bl%C3%A5%20Rock%20Cafe/companies/1/0.json?query=Bl%C3%A5+Rock+Cafe",
		ep.SearchURL("Blå Rock Cafe", types.KindCompany))
	assert.Equal(t,
		"https://www.gulesider.no/_next/data/B1/nb/search/Swan/persons/1/0.json?query=Swan",
		ep.SearchURL("Swan", types.KindPerson))
}
