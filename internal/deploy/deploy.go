// Package deploy builds the zip package served by the /deploy command.
//
// The archive carries everything needed to redeploy the bot: the Go sources
// under cmd/ and internal/, the module files, and the persisted runtime
// configuration when present.
package deploy

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Extra root files included when they exist.
var rootFiles = []string{"go.mod", "go.sum", "bot_config.json", ".gitignore"}

// Source trees included recursively.
var sourceDirs = []string{"cmd", "internal"}

// BuildPackage writes a timestamped zip of the deployment files found under
// baseDir into destDir, returning the archive path and its size in bytes.
func BuildPackage(baseDir, destDir string) (string, int64, error) {
	name := fmt.Sprintf("bien233_%s.zip", time.Now().Format("20060102_150405"))
	archivePath := filepath.Join(destDir, name)

	out, err := os.Create(archivePath)
	if err != nil {
		return "", 0, fmt.Errorf("creating archive: %w", err)
	}
	zw := zip.NewWriter(out)

	addOne := func(path, arcname string) error {
		src, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("opening %s: %w", path, err)
		}
		defer src.Close()

		w, err := zw.Create(arcname)
		if err != nil {
			return fmt.Errorf("adding %s: %w", arcname, err)
		}
		if _, err := io.Copy(w, src); err != nil {
			return fmt.Errorf("writing %s: %w", arcname, err)
		}
		return nil
	}

	build := func() error {
		for _, f := range rootFiles {
			path := filepath.Join(baseDir, f)
			if _, err := os.Stat(path); err != nil {
				continue
			}
			if err := addOne(path, f); err != nil {
				return err
			}
		}

		for _, dir := range sourceDirs {
			root := filepath.Join(baseDir, dir)
			if _, err := os.Stat(root); err != nil {
				continue
			}
			err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
				if err != nil {
					return err
				}
				if d.IsDir() || !strings.HasSuffix(path, ".go") {
					return nil
				}
				rel, err := filepath.Rel(baseDir, path)
				if err != nil {
					return err
				}
				return addOne(path, filepath.ToSlash(rel))
			})
			if err != nil {
				return fmt.Errorf("walking %s: %w", root, err)
			}
		}
		return nil
	}

	if err := build(); err != nil {
		zw.Close()
		out.Close()
		os.Remove(archivePath)
		return "", 0, err
	}

	if err := zw.Close(); err != nil {
		out.Close()
		os.Remove(archivePath)
		return "", 0, fmt.Errorf("finishing archive: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(archivePath)
		return "", 0, fmt.Errorf("closing archive: %w", err)
	}

	info, err := os.Stat(archivePath)
	if err != nil {
		return "", 0, fmt.Errorf("inspecting archive: %w", err)
	}
	return archivePath, info.Size(), nil
}
