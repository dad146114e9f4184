package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/jonathan/tlf/internal/upstreamtest"
)

const (
	blaRockCafe    = `{"name":"Blå Rock Cafe AS","addresses":[{"streetName":"Strandgata","streetNumber":"14","postalCode":"9008","postalArea":"Tromsø"}],"phones":[{"number":"77 61 00 20"}]}`
	blaRockEiendom = `{"name":"Blå Rock Eiendom AS","addresses":[{"streetName":"Storgata","streetNumber":"37","postalCode":"9008","postalArea":"Tromsø"}]}`
	swan           = `{"name":{"firstName":"David","middleName":"Andreas","lastName":"Swan"},"addresses":[],"phones":[{"number":"412 25 400"}]}`
)

func fixtures() map[string]upstreamtest.Entry {
	return map[string]upstreamtest.Entry{
		"Blå Rock Cafe":      {TypeBody: `"companies"`, Companies: []string{blaRockCafe}},
		"Blå Rock Eiendom":   {TypeBody: `"companies"`, Companies: []string{blaRockEiendom}},
		"David Andreas Swan": {TypeBody: `"persons"`, Persons: []string{swan}},
		"gurbagurba":         {TypeBody: `"none"`},
		"Broken AS":          {TypeBody: `"companies"`, Companies: []string{`{"name":null}`}},
	}
}

// run executes the CLI in-process and returns its output and exit code.
func run(t *testing.T, stdin string, args ...string) (string, string, int) {
	t.Helper()

	resetFlags(rootCmd)
	rootCmd.SetIn(strings.NewReader(stdin))

	var stdout, stderr bytes.Buffer
	code := execute(context.Background(), args, &stdout, &stderr)
	return stdout.String(), stderr.String(), code
}

// resetFlags restores every flag to its default so runs do not leak into each other.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.PersistentFlags().VisitAll(reset)
	cmd.Flags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}
