// Package discovery locates class descriptors on disk and turns the LRA
// participants among them into class models for the rule engine.
package discovery

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/codewithboateng/lracheck/internal/model"
)

var (
	ErrNoPaths         = errors.New("no paths provided, nothing to be scanned")
	ErrPathNotFound    = errors.New("path does not exist")
	ErrUnsupportedPath = errors.New("path is neither a directory nor an archive")
	ErrCyclicHierarchy = errors.New("cyclic class hierarchy")
)

var zipMagic = []byte("PK\x03\x04")

type Options struct {
	// FailWhenPathNotExist turns a missing path into ErrPathNotFound instead
	// of a warning.
	FailWhenPathNotExist bool
	Logger               *slog.Logger
}

type Result struct {
	Classes []model.ClassModel
	// Skipped lists LRA-annotated types that are not concrete classes.
	Skipped []string
	// Sources are the paths that were actually scanned.
	Sources []string
	Files   int
}

// Discover scans paths (directories or zip/jar archives) for descriptor
// files and returns a model for every concrete LRA participant found.
func Discover(paths []string, opts Options) (Result, error) {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	var res Result
	if len(paths) == 0 {
		return res, ErrNoPaths
	}

	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return res, fmt.Errorf("stat %s: %w", p, err)
			}
			if opts.FailWhenPathNotExist {
				return res, fmt.Errorf("%w: %s", ErrPathNotFound, p)
			}
			log.Warn("skipping non-existent path", "path", p)
			continue
		}
		res.Sources = append(res.Sources, filepath.Clean(p))
	}
	if len(res.Sources) == 0 {
		log.Warn("none of the provided paths exist", "paths", paths)
		return res, nil
	}

	var types []TypeDescriptor
	for _, p := range res.Sources {
		ts, n, err := scanPath(p)
		if err != nil {
			return res, err
		}
		res.Files += n
		types = append(types, ts...)
	}

	index := make(map[string]TypeDescriptor, len(types))
	for _, t := range types {
		if prev, ok := index[t.Name]; ok {
			log.Warn("duplicate type descriptor ignored", "type", t.Name, "kept", prev.source, "ignored", t.source)
			continue
		}
		index[t.Name] = t
	}

	names := make([]string, 0, len(index))
	for name := range index {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		t := index[name]
		if !t.isParticipant() {
			continue
		}
		if !t.instantiable() {
			log.Debug("skipping type as it's not a standard instantiable class", "type", t.Name, "kind", t.Kind, "abstract", t.Abstract)
			res.Skipped = append(res.Skipped, t.Name)
			continue
		}
		c, err := buildClass(t, index)
		if err != nil {
			return res, err
		}
		log.Debug("discovered participant", "type", t.Name, "chain", c.AncestorChain, "methods", len(c.Methods))
		res.Classes = append(res.Classes, c)
	}
	return res, nil
}

func scanPath(p string) ([]TypeDescriptor, int, error) {
	info, err := os.Stat(p)
	if err != nil {
		return nil, 0, err
	}
	if info.IsDir() {
		return scanDir(p)
	}
	if isZipFile(p) {
		return scanArchive(p)
	}
	return nil, 0, fmt.Errorf("%w: %s", ErrUnsupportedPath, p)
}

func scanDir(dir string) ([]TypeDescriptor, int, error) {
	var out []TypeDescriptor
	files := 0
	err := filepath.WalkDir(dir, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isDescriptor(d.Name()) {
			return nil
		}
		b, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		ts, err := Decode(b, p)
		if err != nil {
			return err
		}
		files++
		out = append(out, ts...)
		return nil
	})
	if err != nil {
		return nil, 0, fmt.Errorf("scan %s: %w", dir, err)
	}
	return out, files, nil
}

func scanArchive(path string) ([]TypeDescriptor, int, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, 0, fmt.Errorf("open archive %s: %w", path, err)
	}
	defer r.Close()

	var out []TypeDescriptor
	files := 0
	for _, f := range r.File {
		if f.FileInfo().IsDir() || !isDescriptor(f.Name) {
			continue
		}
		b, err := readEntry(f)
		if err != nil {
			return nil, 0, fmt.Errorf("read %s!%s: %w", path, f.Name, err)
		}
		ts, err := Decode(b, path+"!"+f.Name)
		if err != nil {
			return nil, 0, err
		}
		files++
		out = append(out, ts...)
	}
	return out, files, nil
}

func readEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func isDescriptor(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml", ".json":
		return true
	}
	return false
}

func isZipFile(p string) bool {
	f, err := os.Open(p)
	if err != nil {
		return false
	}
	defer f.Close()
	head := make([]byte, len(zipMagic))
	if _, err := io.ReadFull(f, head); err != nil {
		return false
	}
	return bytes.Equal(head, zipMagic)
}
