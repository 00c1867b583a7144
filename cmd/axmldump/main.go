// Copyright 2026 The apk-bitminer Authors.
// Use of this source code is governed by an Apache v2 license
// that can be found in the LICENSE file.

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"io/ioutil"
	"os"

	assetfs "github.com/elazarl/go-bindata-assetfs"
	"github.com/spf13/cobra"

	"github.com/jrusnakli/apk-bitminer/apk"
	"github.com/jrusnakli/apk-bitminer/internal/elog"
	"github.com/jrusnakli/apk-bitminer/internal/htmlassets"
)

var (
	verbose    bool
	jsonOutput bool
	htmlOutput string
)

func run(cmd *cobra.Command, args []string) error {
	logger := elog.NewDefault()
	if verbose {
		logger = elog.NewHelper(elog.NewStdLogger(os.Stderr), elog.LevelDebug)
	}

	a, err := apk.Open(args[0], &apk.Options{Logger: logger})
	if err != nil {
		return err
	}
	defer a.Close()

	doc := a.Manifest

	if jsonOutput {
		out, err := json.MarshalIndent(doc.Manifest(), "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	tree := doc.Render(doc.Root())

	if htmlOutput != "" {
		return writeHTMLReport(args[0], tree, htmlOutput)
	}

	fmt.Print(tree)
	return nil
}

// writeHTMLReport renders tree into the bundled tree.html.tmpl (fetched
// through an elazarl/go-bindata-assetfs AssetFS) and writes the result to
// dest. The page links style.css by name; the stylesheet itself is not
// written next to dest.
func writeHTMLReport(source, tree, dest string) error {
	fs := &assetfs.AssetFS{
		Asset:     htmlassets.Asset,
		AssetDir:  htmlassets.AssetDir,
		AssetInfo: htmlassets.AssetInfo,
		Prefix:    "",
	}

	f, err := fs.Open("tree.html.tmpl")
	if err != nil {
		return fmt.Errorf("axmldump: opening bundled template: %w", err)
	}
	defer f.Close()

	raw, err := ioutil.ReadAll(f)
	if err != nil {
		return err
	}

	tmpl, err := template.New("tree").Parse(string(raw))
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	err = tmpl.Execute(&buf, struct {
		Title string
		Tree  string
	}{Title: source, Tree: tree})
	if err != nil {
		return err
	}

	return ioutil.WriteFile(dest, buf.Bytes(), 0o644)
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "axmldump <apk-path>",
		Short: "Dumps an APK's binary Android manifest as a text or HTML tree",
		Long:  "axmldump extracts AndroidManifest.xml from an APK and prints its element tree, a JSON manifest summary, or an HTML report.",
		Args:  cobra.ExactArgs(1),
		RunE:  run,
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.Flags().BoolVar(&jsonOutput, "json", false, "print the resolved manifest fields as JSON instead of the tree")
	rootCmd.Flags().StringVar(&htmlOutput, "html", "", "write an HTML tree report to this path instead of stdout")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(-1)
	}
}
