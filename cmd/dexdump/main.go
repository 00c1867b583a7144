// Copyright 2026 The apk-bitminer Authors.
// Use of this source code is governed by an Apache v2 license
// that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"

	"github.com/jrusnakli/apk-bitminer/apk"
	"github.com/jrusnakli/apk-bitminer/bitstream"
	"github.com/jrusnakli/apk-bitminer/dex"
	"github.com/jrusnakli/apk-bitminer/internal/elog"
	"github.com/jrusnakli/apk-bitminer/testdiscovery"
	"github.com/spf13/cobra"
	"golang.org/x/mod/semver"
)

const minSupportedBuildTools = "v30.0.0"

var (
	verbose       bool
	minBuildTools string
)

func run(cmd *cobra.Command, args []string) error {
	if minBuildTools != "" && semver.IsValid(minBuildTools) && semver.Compare(minBuildTools, minSupportedBuildTools) < 0 {
		return fmt.Errorf("dexdump: --min-build-tools %s is older than the minimum supported %s", minBuildTools, minSupportedBuildTools)
	}

	logger := elog.NewDefault()
	if verbose {
		logger = elog.NewHelper(elog.NewStdLogger(os.Stderr), elog.LevelDebug)
	}

	path := args[0]
	packageFilters := args[1:]

	var dexFiles []*dex.File
	if isAPK(path) {
		a, err := apk.Open(path, &apk.Options{Logger: logger})
		if err != nil {
			return err
		}
		defer a.Close()
		dexFiles = a.DexFiles
	} else {
		r, err := bitstream.OpenFile(path)
		if err != nil {
			return err
		}
		defer r.Close()
		f, err := dex.Parse(r, &dex.Options{Logger: logger})
		if err != nil {
			return err
		}
		dexFiles = []*dex.File{f}
	}

	var results []string
	for _, f := range dexFiles {
		names, err := testdiscovery.ResolveJUnit3(f, packageFilters, &testdiscovery.Options{Logger: logger})
		if err != nil {
			return err
		}
		results = append(results, names...)

		names, err = testdiscovery.ResolveJUnit4(f, packageFilters, &testdiscovery.Options{Logger: logger})
		if err != nil {
			return err
		}
		results = append(results, names...)
	}
	for _, r := range results {
		fmt.Println(r)
	}
	return nil
}

func isAPK(path string) bool {
	return len(path) >= 4 && path[len(path)-4:] == ".apk"
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "dexdump <apk-path> [filter ...]",
		Short: "Prints discovered JUnit3/JUnit4 test identifiers from a .dex or .apk file",
		Long:  "dexdump decodes a Dalvik Executable or APK and prints every discovered JUnit3 and JUnit4 test identifier, one per line, optionally restricted by a list of package filters.",
		Args:  cobra.MinimumNArgs(1),
		RunE:  run,
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.Flags().StringVar(&minBuildTools, "min-build-tools", "", "minimum build-tools version (semver, e.g. v30.0.3); a value below "+minSupportedBuildTools+" is rejected, and the input file's own version is not checked")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(-1)
	}
}
