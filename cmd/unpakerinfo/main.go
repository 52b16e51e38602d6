// Command unpakerinfo opens one or more archives and prints their format,
// file tree, and validation summary. Mirrors BenLubar-vpk/cmd/vpkverify's
// shape: iterate os.Args, report per-archive failures without aborting the
// remaining arguments, and set a non-zero exit status if any failed.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/mxtherfxcker/unpaker"
	"github.com/mxtherfxcker/unpaker/internal/tree"
)

func init() {
	flag.Usage = usage
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: unpakerinfo [file1.vpk|file1.pak] [file2...]\n\n")
	flag.PrintDefaults()
	os.Exit(2)
}

func main() {
	verbose := flag.Bool("v", false, "list every file path")

	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
	}

	hadError := false

	for _, name := range flag.Args() {
		if err := inspect(name, *verbose); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", name, err)
			hadError = true
		}
	}

	if hadError {
		os.Exit(1)
	}
}

func inspect(name string, verbose bool) error {
	a, err := unpaker.Open(name, unpaker.DefaultConfig())
	if err != nil {
		return err
	}

	files := tree.AllFiles(a.Root)
	fmt.Printf("%s: format=%s files=%d size=%d discarded=%d\n",
		name, a.Format, len(files), a.Size, a.Stats.DiscardedEntries)

	if a.Stats.EntryCountCapped {
		fmt.Printf("%s: entry count footer exceeded cap, capped\n", name)
	}
	if a.Stats.ResyncUsed {
		fmt.Printf("%s: recovered via resync scan at offset %d\n", name, a.Stats.ResyncOffset)
	}

	if verbose {
		tree.WalkFiles(a.Root, func(dir *tree.DirectoryEntry, f *tree.FileEntry) {
			fmt.Println(tree.FileFullPath(dir, f))
		})
	}

	report := a.Validate()
	if report.DuplicatePaths > 0 || report.InvalidEntries > 0 {
		fmt.Printf("%s: validation: duplicates=%d invalid=%d zero-size=%d\n",
			name, report.DuplicatePaths, report.InvalidEntries, report.ZeroSizeFiles)
	}

	return nil
}
