// Command tsvprobe samples the first N bytes of a local delimited file and
// prints its header shape as JSON: year columns found, key/country columns,
// and per-column fill rates. Use it to pick delimiter and skip_rows values
// for a new source export before wiring it into a pipeline config.
//
// Example:
//
//	tsvprobe -path=data/raw/estat_env_air_gge.tsv -delimiter=$'\t'
//	tsvprobe -path=data/raw/populacao.csv -skip-rows=4
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"ggekpi/internal/probe"
)

func main() {
	var (
		path      string
		delimiter string
		skipRows  int
		bytesN    int
	)

	flag.StringVar(&path, "path", "", "local file to probe")
	flag.StringVar(&delimiter, "delimiter", ",", "field delimiter (first character used)")
	flag.IntVar(&skipRows, "skip-rows", 0, "raw lines to skip before the header")
	flag.IntVar(&bytesN, "bytes", 256*1024, "sample size in bytes")
	flag.Parse()

	if path == "" {
		fatalf("usage: tsvprobe -path=FILE [-delimiter=C] [-skip-rows=N] [-bytes=N]")
	}
	delim := ','
	if delimiter != "" {
		delim = []rune(delimiter)[0]
	}

	rep, err := probe.File(path, delim, skipRows, bytesN)
	if err != nil {
		fatalf("probe: %v", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rep); err != nil {
		fatalf("encode report: %v", err)
	}
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
