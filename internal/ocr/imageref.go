package ocr

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"codeberg.org/snonux/mangatl/internal"
)

// ImageRef points at the images of one run: either a single file (Path) or,
// in multi-file mode, every entry of a directory (Dir).
type ImageRef struct {
	Path  string
	Dir   string
	Multi bool
}

// Single returns a reference to one image file
func Single(path string) ImageRef {
	return ImageRef{Path: path}
}

// Directory returns a multi-file reference to all entries of dir
func Directory(dir string) ImageRef {
	return ImageRef{Dir: dir, Multi: true}
}

// String describes the reference for log output
func (r ImageRef) String() string {
	if r.Multi {
		return fmt.Sprintf("dir:%s", r.Dir)
	}
	return r.Path
}

// Resolve expands the reference into image paths. Directory entries keep the
// order os.ReadDir returns (sorted by name). Sub-directories are never
// returned; other files are filtered by extension only when skipNonImages is
// set.
func (r ImageRef) Resolve(skipNonImages bool) ([]string, error) {
	if r.Multi {
		return r.resolveDir(skipNonImages)
	}

	if r.Path == "" {
		return nil, &internal.InputError{Err: errors.New("no image path given")}
	}
	info, err := os.Stat(r.Path)
	if err != nil {
		return nil, &internal.InputError{Path: r.Path, Err: err}
	}
	if info.IsDir() {
		return nil, &internal.InputError{Path: r.Path, Err: errors.New("is a directory, use multi-file mode")}
	}
	return []string{r.Path}, nil
}

func (r ImageRef) resolveDir(skipNonImages bool) ([]string, error) {
	if r.Dir == "" {
		return nil, &internal.InputError{Err: errors.New("no directory given for multi-file mode")}
	}

	entries, err := os.ReadDir(r.Dir)
	if err != nil {
		return nil, &internal.InputError{Path: r.Dir, Err: err}
	}

	paths := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if skipNonImages && !internal.IsImageFile(entry.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(r.Dir, entry.Name()))
	}
	return paths, nil
}
