package ninjawriter

import (
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
)

// WriteFileIfChanged writes content to path via a write-temp-then-rename
// atomic replace, but skips the rename entirely when the existing file's
// content already hashes identically - so an unchanged regeneration run
// never perturbs the output file's mtime (and in turn never triggers a
// downstream rebuild that depfile-driven re-execution didn't actually need).
func WriteFileIfChanged(path string, content []byte) error {
	if existing, err := os.ReadFile(path); err == nil {
		if xxhash.Sum64(existing) == xxhash.Sum64(content) {
			return nil
		}
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".tmp-"+filepath.Base(path)+"-")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpPath, path)
}
