// Package extract resolves which physical file holds a FileEntry's payload
// and reads it out: the index archive itself, a numbered sibling
// "<base>_NNN.vpk", or — if that sibling is missing or unreadable — a
// fallback scan of every "*.vpk" in the same directory sharing the base
// stem. Grounded on unPAKer's src/parsers/vpk_parser.cpp
// (extract_file/read_from_data_file/fallback_search_data_archives) and
// github.com/BenLubar/vpk's Opener interface shape.
package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/mxtherfxcker/unpaker/internal/decoder"
	"github.com/mxtherfxcker/unpaker/internal/tree"
)

// Extractor resolves and reads FileEntry payloads for a single opened
// archive.
type Extractor struct {
	// ArchivePath is the path the caller originally opened.
	ArchivePath string

	Log *logrus.Entry
}

// Extract returns f's payload bytes. A short read (the resolved file is
// shorter than offset+size) returns the available prefix and a nil error,
// matching spec.md §4.7's short-read tolerance.
func (x *Extractor) Extract(f *tree.FileEntry) ([]byte, error) {
	if f.ArchiveIndex == tree.ArchiveSelf {
		data, err := openAndRead(x.ArchivePath, f.Offset, f.Size)
		if err == nil {
			return data, nil
		}
		return nil, &ExtractFailed{Attempted: []string{x.ArchivePath}, cause: err}
	}

	sibling := siblingPath(x.ArchivePath, f.ArchiveIndex)
	attempted := []string{sibling}

	if data, err := openAndRead(sibling, f.Offset, f.Size); err == nil {
		return data, nil
	}

	if x.Log != nil {
		x.Log.WithField("sibling", sibling).Debug("sibling archive missing or unreadable, falling back to directory scan")
	}

	candidates, err := fallbackCandidates(x.ArchivePath)
	if err != nil {
		return nil, &ExtractFailed{Attempted: attempted, cause: err}
	}

	for _, c := range candidates {
		attempted = append(attempted, c)
		if data, err := openAndRead(c, f.Offset, f.Size); err == nil {
			return data, nil
		}
	}

	return nil, &ExtractFailed{Attempted: attempted}
}

// ExtractFailed is returned when every candidate physical file failed,
// per spec.md §7.
type ExtractFailed struct {
	Attempted []string
	cause     error
}

func (e *ExtractFailed) Error() string {
	return fmt.Sprintf("extract: all candidate files failed: %s", strings.Join(e.Attempted, ", "))
}

func (e *ExtractFailed) Unwrap() error { return e.cause }

// siblingPath implements spec.md §4.7's derivation rule: replace
// "_dir.vpk" with "_NNN.vpk" if present, else strip a trailing "_dir" stem
// and append "_NNN.vpk".
func siblingPath(archivePath string, archiveIndex int32) string {
	nnn := fmt.Sprintf("_%03d.vpk", archiveIndex)

	if strings.Contains(archivePath, "_dir.vpk") {
		return strings.Replace(archivePath, "_dir.vpk", nnn, 1)
	}

	dir := filepath.Dir(archivePath)
	stem := strings.TrimSuffix(filepath.Base(archivePath), filepath.Ext(archivePath))
	stem = strings.TrimSuffix(stem, "_dir")
	return filepath.Join(dir, stem+nnn)
}

// fallbackCandidates lists every "*.vpk" in archivePath's directory whose
// name begins with the base stem + "_" and is not the "_dir.vpk" index
// itself.
func fallbackCandidates(archivePath string) ([]string, error) {
	dir := filepath.Dir(archivePath)
	stem := baseStem(archivePath)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(err, "extract: list archive directory")
	}

	var out []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasSuffix(name, ".vpk") {
			continue
		}
		if strings.HasSuffix(name, "_dir.vpk") {
			continue
		}
		if !strings.HasPrefix(name, stem+"_") {
			continue
		}
		out = append(out, filepath.Join(dir, name))
	}
	return out, nil
}

func baseStem(archivePath string) string {
	stem := strings.TrimSuffix(filepath.Base(archivePath), filepath.Ext(archivePath))
	return strings.TrimSuffix(stem, "_dir")
}

func openAndRead(path string, offset, size uint64) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}

	return decoder.ReadRange(f, info.Size(), offset, size)
}
