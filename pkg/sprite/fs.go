package sprite

import (
	"fmt"
	"path"

	"github.com/rs/xid"
	"github.com/spf13/afero"
)

// NewOutputFs roots an afero filesystem at dir, creating it if needed. All
// pipeline writes go through the returned fs, so tests can swap in a
// MemMapFs.
func NewOutputFs(dir string) (afero.Fs, error) {
	fs := afero.NewOsFs()
	if err := fs.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create output root: %w", err)
	}
	return afero.NewBasePathFs(fs, dir), nil
}

// writeAtomic persists bs at name via a temp file in the same directory and
// a rename, so a cancelled or crashed run never leaves a partial output.
func writeAtomic(fs afero.Fs, name string, bs []byte) error {
	dir := path.Dir(name)
	if exists, err := afero.DirExists(fs, dir); err != nil {
		return err
	} else if !exists {
		if err2 := fs.MkdirAll(dir, 0755); err2 != nil {
			return err2
		}
	}

	tmp := fmt.Sprintf("%s.%s.tmp", name, xid.New().String())
	if err := afero.WriteFile(fs, tmp, bs, 0644); err != nil {
		return err
	}

	err := fs.Rename(tmp, name)
	if err != nil {
		// POSIX rename overwrites; MemMapFs refuses to clobber. Retry
		// once with the destination out of the way.
		if rmErr := fs.Remove(name); rmErr == nil {
			err = fs.Rename(tmp, name)
		}
	}
	if err != nil {
		_ = fs.Remove(tmp)
		return err
	}

	return nil
}
