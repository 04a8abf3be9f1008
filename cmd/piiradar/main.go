// Command piiradar is the PII-Radar CLI: scan a filesystem tree, a
// relational/document database, or a set of HTTP endpoints for personally
// identifiable information. Each subcommand (scan, scan-db, api,
// detectors) owns its own flag.FlagSet.
package main

import (
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var (
		foundPII bool
		err      error
	)

	switch os.Args[1] {
	case "scan":
		foundPII, err = runScan(os.Args[2:])
	case "scan-db":
		foundPII, err = runScanDB(os.Args[2:])
	case "api":
		foundPII, err = runAPI(os.Args[2:])
	case "detectors":
		err = runDetectors(os.Args[2:])
	case "-h", "--help", "help":
		usage()
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "piiradar: unknown command %q\n", os.Args[1])
		usage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "piiradar: %v\n", err)
		os.Exit(2)
	}
	if foundPII {
		os.Exit(1)
	}
	os.Exit(0)
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: piiradar <scan|scan-db|api|detectors> [flags]")
	fmt.Fprintln(os.Stderr, "  scan <path>       scan a filesystem tree")
	fmt.Fprintln(os.Stderr, "  scan-db           scan a relational or document database")
	fmt.Fprintln(os.Stderr, "  api <urls...>     scan HTTP response bodies")
	fmt.Fprintln(os.Stderr, "  detectors         list registered detectors")
}
