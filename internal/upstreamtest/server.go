// Package upstreamtest provides an in-process stand-in for the directory site,
// serving the root page, the classification route and the search data routes.
package upstreamtest

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// BuildID is the deployment token embedded in the fake root page.
const BuildID = "dJ8x-test-build"

// Shape selects the response envelope served by the data route.
type Shape int

const (
	// ShapeNextData serves {"pageProps":{"initialState":{...}}}
	ShapeNextData Shape = iota
	// ShapeHits serves {"hits":n,"items":[...]}
	ShapeHits
)

// Entry describes how the fake site answers one query.
type Entry struct {
	// TypeBody is the literal body returned by the classification route.
	TypeBody string
	// Persons and Companies are raw JSON records.
	Persons   []string
	Companies []string
	// Unlisted drops initialState (or items) entirely.
	Unlisted bool
}

// Server is a fake upstream with per-route hit counters.
type Server struct {
	*httptest.Server

	Shape   Shape
	Entries map[string]Entry
	// RootHTML overrides the root page body when non-empty.
	RootHTML string
	// DataStatus forces a status code on the data route when non-zero.
	DataStatus int
	// DataBody overrides the data route body when non-empty.
	DataBody string

	mu   sync.Mutex
	hits map[string]int
}

// New starts a fake upstream and registers its shutdown with t.
func New(t *testing.T, entries map[string]Entry) *Server {
	t.Helper()

	s := &Server{
		Entries: entries,
		hits:    make(map[string]int),
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleRoot)
	mux.HandleFunc("/api/search/type", s.handleType)
	mux.HandleFunc("/_next/data/", s.handleData)
	s.Server = httptest.NewServer(mux)
	t.Cleanup(s.Close)

	return s
}

// Hits returns how many requests a route ("root", "type", "data") received.
func (s *Server) Hits(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[route]
}

func (s *Server) count(route string) {
	s.mu.Lock()
	s.hits[route]++
	s.mu.Unlock()
}

// RootPage returns a minimal Next.js root page carrying buildID.
func RootPage(buildID string) string {
	return fmt.Sprintf(`<!DOCTYPE html><html><head><title>Gule Sider</title></head><body>`+
		`<div id="__next"></div>`+
		`<script id="__NEXT_DATA__" type="application/json">{"props":{"pageProps":{}},"page":"/","query":{},"buildId":%q,"isFallback":false}</script>`+
		`</body></html>`, buildID)
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	s.count("root")

	body := s.RootHTML
	if body == "" {
		body = RootPage(BuildID)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(body))
}

func (s *Server) handleType(w http.ResponseWriter, r *http.Request) {
	s.count("type")

	entry := s.Entries[r.URL.Query().Get("query")]
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(entry.TypeBody))
}

func (s *Server) handleData(w http.ResponseWriter, r *http.Request) {
	s.count("data")

	// /_next/data/<build>/<locale>/search/<query>/<segment>/1/0.json
	parts := strings.Split(strings.TrimPrefix(r.URL.EscapedPath(), "/_next/data/"), "/")
	if len(parts) != 7 || parts[0] != BuildID || parts[2] != "search" {
		http.NotFound(w, r)
		return
	}
	if s.DataStatus != 0 {
		w.WriteHeader(s.DataStatus)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if s.DataBody != "" {
		_, _ = w.Write([]byte(s.DataBody))
		return
	}

	entry := s.Entries[r.URL.Query().Get("query")]
	segment := parts[4]
	_, _ = w.Write([]byte(s.envelope(entry, segment)))
}

func (s *Server) envelope(entry Entry, segment string) string {
	persons := "[" + strings.Join(entry.Persons, ",") + "]"
	companies := "[" + strings.Join(entry.Companies, ",") + "]"

	if s.Shape == ShapeHits {
		if entry.Unlisted {
			return `{"hits":0}`
		}
		items := persons
		count := len(entry.Persons)
		if segment == "companies" {
			items = companies
			count = len(entry.Companies)
		}
		return fmt.Sprintf(`{"hits":%d,"items":%s}`, count, items)
	}

	if entry.Unlisted {
		return `{"pageProps":{"__N_SSP":true},"__N_SSP":true}`
	}
	return fmt.Sprintf(`{"pageProps":{"initialState":{"persons":%s,"companies":%s}},"__N_SSP":true}`, persons, companies)
}
