// Package unpaker reads read-only game resource archives (VPK, Unreal
// Engine PAK) and exposes their file tree and per-file byte ranges,
// extracting individual payloads on demand. Grounded on
// original_source/include/pak_parser.hpp's PakParser class shape,
// translated to the teacher's idiom of a top-level Open function
// returning a constructed value and error
// (github.com/BenLubar/vpk's Open(o Opener) (*VPK, error)).
package unpaker

import (
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/mxtherfxcker/unpaker/internal/decoder"
	"github.com/mxtherfxcker/unpaker/internal/decoder/generic"
	"github.com/mxtherfxcker/unpaker/internal/decoder/ue"
	"github.com/mxtherfxcker/unpaker/internal/decoder/vpk"
	"github.com/mxtherfxcker/unpaker/internal/detect"
	"github.com/mxtherfxcker/unpaker/internal/extract"
	"github.com/mxtherfxcker/unpaker/internal/logging"
	"github.com/mxtherfxcker/unpaker/internal/tree"
	"github.com/mxtherfxcker/unpaker/internal/validate"
)

// FormatTag is the observable format classification from spec.md §6.
type FormatTag int

const (
	Unknown FormatTag = iota
	UnrealEngine3
	UnrealEngine4_5
	SourceEngine
	Generic
)

func (f FormatTag) String() string {
	switch f {
	case UnrealEngine3:
		return "UnrealEngine3"
	case UnrealEngine4_5:
		return "UnrealEngine4_5"
	case SourceEngine:
		return "SourceEngine"
	case Generic:
		return "Generic"
	default:
		return "Unknown"
	}
}

func tagFromDetect(f detect.Format) FormatTag {
	switch f {
	case detect.VPK, detect.VPKDirOnly:
		return SourceEngine
	case detect.UnrealEngine3:
		return UnrealEngine3
	case detect.UnrealEngine45:
		return UnrealEngine4_5
	case detect.Generic:
		return Generic
	default:
		return Unknown
	}
}

// Archive is a parsed archive: its directory tree, format tag, and the
// extractor that resolves payload bytes for any entry in the tree.
type Archive struct {
	Root    *tree.DirectoryEntry
	Format  FormatTag
	Path    string
	Size    int64
	Stats   Stats

	extractor *extract.Extractor
}

// Open parses path as an archive. The chosen decoder variant is selected
// by peeking the first 4 bytes (internal/detect); the resulting flat entry
// list is redistributed into a directory tree (internal/tree) before
// returning.
func Open(path string, cfg Config) (*Archive, error) {
	return OpenWithLogger(path, cfg, logging.Noop())
}

// OpenWithLogger is Open with an injected log sink; the engine never
// constructs a singleton logger internally (spec.md §9).
func OpenWithLogger(path string, cfg Config, log *logrus.Entry) (*Archive, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(ErrNotFound, "%s", path)
		}
		return nil, errors.Wrapf(err, "unpaker: open %s", path)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, errors.Wrapf(err, "unpaker: stat %s", path)
	}
	length := info.Size()

	header := make([]byte, 4)
	n, _ := f.ReadAt(header, 0)
	format := detect.Detect(header[:n])

	if format == detect.Unknown {
		return nil, errors.Wrapf(ErrBadMagic, "%s", path)
	}

	dec, err := selectDecoder(format, path, cfg.Limits)
	if err != nil {
		return nil, err
	}

	// Generic has no index to parse at all; an archive of this format is
	// still a valid Archive, just with an empty tree. Extraction still
	// works for FileEntry values the caller assembles from externally
	// known (offset, size) pairs (spec.md §4.5).
	var result *decoder.Result
	if format == detect.Generic {
		result = &decoder.Result{}
	} else {
		result, err = dec.Parse(f, length)
		if err != nil {
			return nil, &ParseFailed{Reason: "decoder rejected archive", cause: err}
		}
	}

	root := tree.NewRoot(baseName(path))
	root.Files = result.Entries
	tree.Build(root)

	if log != nil {
		log.WithField("format", format.String()).
			WithField("entries", len(result.Entries)).
			WithField("discarded", result.Discarded).
			Debug("archive parsed")
	}

	return &Archive{
		Root:   root,
		Format: tagFromDetect(format),
		Path:   path,
		Size:   length,
		Stats: Stats{
			DiscardedEntries: result.Discarded,
			EntryCountCapped: result.EntryCountCapped,
			ResyncUsed:       result.ResyncUsed,
			ResyncOffset:     result.ResyncOffset,
		},
		extractor: &extract.Extractor{ArchivePath: path, Log: log},
	}, nil
}

func selectDecoder(format detect.Format, path string, lim decoder.Limits) (decoder.Decoder, error) {
	switch format {
	case detect.VPK, detect.VPKDirOnly:
		return &vpk.Decoder{Limits: lim, Filename: path}, nil
	case detect.UnrealEngine3, detect.UnrealEngine45:
		return &ue.Decoder{Limits: lim}, nil
	default:
		return generic.Decoder{}, nil
	}
}

// Extract returns entry's payload bytes, resolving the physical file that
// holds them (same archive, numbered sibling, or fallback directory scan).
func (a *Archive) Extract(entry *tree.FileEntry) ([]byte, error) {
	data, err := a.extractor.Extract(entry)
	if err == nil {
		return data, nil
	}

	var internal *extract.ExtractFailed
	if errors.As(err, &internal) {
		return nil, &ExtractFailed{Attempted: internal.Attempted, cause: internal.Unwrap()}
	}
	return nil, err
}

// Validate runs a validator pass over the archive's tree.
func (a *Archive) Validate() *validate.Report {
	return validate.Validate(a.Root, a.Size)
}

func baseName(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' || path[i] == '\\' {
			return path[i+1:]
		}
	}
	return path
}
