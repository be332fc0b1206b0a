package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/domlife/domlife/conformance"
)

func main() {
	jsonOut := flag.String("json", "", "write full results as JSON to this file")
	verbose := flag.Bool("v", false, "print every test result, not just failures")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: confrun [flags] <script-or-dir> ...\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	runner := conformance.NewRunner()
	for _, arg := range flag.Args() {
		info, err := os.Stat(arg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "confrun: %v\n", err)
			os.Exit(1)
		}
		if info.IsDir() {
			if _, err := runner.RunDir(arg); err != nil {
				fmt.Fprintf(os.Stderr, "confrun: %v\n", err)
				os.Exit(1)
			}
		} else {
			runner.RunScript(arg)
		}
	}

	for _, suite := range runner.Results {
		if suite.Error != "" {
			fmt.Fprintf(os.Stderr, "%s: %s\n", suite.File, suite.Error)
		}
		for _, test := range suite.Tests {
			if test.Status == conformance.StatusPass && !*verbose {
				continue
			}
			fmt.Printf("%s  %s: %s", test.Status, suite.File, test.Name)
			if test.Message != "" {
				fmt.Printf(" (%s)", test.Message)
			}
			fmt.Println()
		}
	}

	if *jsonOut != "" {
		data, err := runner.ExportJSON()
		if err != nil {
			fmt.Fprintf(os.Stderr, "confrun: %v\n", err)
			os.Exit(1)
		}
		if err := os.WriteFile(*jsonOut, data, 0644); err != nil {
			fmt.Fprintf(os.Stderr, "confrun: %v\n", err)
			os.Exit(1)
		}
	}

	passed, failed, errored := runner.Summary()
	fmt.Printf("%d passed, %d failed, %d scripts errored\n", passed, failed, errored)
	if failed > 0 || errored > 0 {
		os.Exit(1)
	}
}
