package main

import (
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/hemlocksec/pii-radar/internal/config"
	"github.com/hemlocksec/pii-radar/internal/engine"
)

func runDetectors(args []string) error {
	fs := flag.NewFlagSet("detectors", flag.ContinueOnError)
	verbose := fs.Bool("verbose", false, "print country, category, and default severity per detector")
	pluginDir := fs.String("plugin-dir", os.Getenv(config.PluginDirEnvVar), "directory of .detector.toml plugin descriptors")
	if err := fs.Parse(args); err != nil {
		return err
	}

	registry, err := engine.BuildRegistry(*pluginDir)
	if err != nil {
		return err
	}

	records := registry.Records()
	if !*verbose {
		for _, rec := range records {
			fmt.Println(rec.ID)
		}
		return nil
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 2, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCOUNTRY\tCATEGORY\tSEVERITY\tENABLED")
	for _, rec := range records {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%t\n",
			rec.ID, rec.Name, rec.Country, rec.Category, rec.DefaultSeverity, rec.Enabled)
	}
	return tw.Flush()
}
