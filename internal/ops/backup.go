// Package ops holds operational helpers for the data directory: tar.gz
// backups with a manifest, and restore.
package ops

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const manifestName = "task-manager.manifest.json"

// Manifest is written into every archive so a restore can sanity-check
// what it is unpacking.
type Manifest struct {
	Service   string    `json:"service"`
	CreatedAt time.Time `json:"created_at"`
	Files     int       `json:"files"`
}

// BackupDataDir archives srcDir (tasks.json, projects.json, sqlite db,
// whatever the configured backend keeps there) into a tar.gz at
// archivePath, prepending a manifest entry.
func BackupDataDir(srcDir, archivePath string) error {
	srcDir = filepath.Clean(strings.TrimSpace(srcDir))
	archivePath = filepath.Clean(strings.TrimSpace(archivePath))
	if srcDir == "" || archivePath == "" {
		return fmt.Errorf("srcDir and archivePath are required")
	}
	info, err := os.Stat(srcDir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("source is not a directory: %s", srcDir)
	}
	if err := os.MkdirAll(filepath.Dir(archivePath), 0o755); err != nil {
		return err
	}

	var entries []string
	err = filepath.WalkDir(srcDir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if path == srcDir || d.Type()&os.ModeSymlink != 0 {
			return nil
		}
		rel, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}
		entries = append(entries, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return err
	}

	f, err := os.Create(archivePath)
	if err != nil {
		return err
	}
	defer f.Close()

	gz := gzip.NewWriter(f)
	defer gz.Close()

	tw := tar.NewWriter(gz)
	defer tw.Close()

	if err := writeManifest(tw, len(entries)); err != nil {
		return err
	}

	for _, rel := range entries {
		if err := writeEntry(tw, srcDir, rel); err != nil {
			return err
		}
	}
	return nil
}

func writeManifest(tw *tar.Writer, files int) error {
	b, err := json.MarshalIndent(Manifest{
		Service:   "task-manager",
		CreatedAt: time.Now().UTC(),
		Files:     files,
	}, "", "  ")
	if err != nil {
		return err
	}
	hdr := &tar.Header{
		Name:    manifestName,
		Mode:    0o644,
		Size:    int64(len(b)),
		ModTime: time.Now(),
	}
	if err := tw.WriteHeader(hdr); err != nil {
		return err
	}
	_, err = io.Copy(tw, bytes.NewReader(b))
	return err
}

func writeEntry(tw *tar.Writer, srcDir, rel string) error {
	path := filepath.Join(srcDir, filepath.FromSlash(rel))
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	hdr, err := tar.FileInfoHeader(info, "")
	if err != nil {
		return err
	}
	hdr.Name = rel
	if info.IsDir() && !strings.HasSuffix(hdr.Name, "/") {
		hdr.Name += "/"
	}
	if err := tw.WriteHeader(hdr); err != nil {
		return err
	}
	if info.IsDir() {
		return nil
	}

	src, err := os.Open(path)
	if err != nil {
		return err
	}
	defer src.Close()

	_, err = io.Copy(tw, src)
	return err
}

// RestoreDataDir unpacks an archive produced by BackupDataDir into
// targetDir. The manifest is read for validation but not written out.
func RestoreDataDir(archivePath, targetDir string) (Manifest, error) {
	archivePath = filepath.Clean(strings.TrimSpace(archivePath))
	targetDir = filepath.Clean(strings.TrimSpace(targetDir))
	if archivePath == "" || targetDir == "" {
		return Manifest{}, fmt.Errorf("archivePath and targetDir are required")
	}
	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		return Manifest{}, err
	}

	f, err := os.Open(archivePath)
	if err != nil {
		return Manifest{}, err
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return Manifest{}, err
	}
	defer gz.Close()

	var manifest Manifest
	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Manifest{}, err
		}

		if hdr.Name == manifestName {
			if err := json.NewDecoder(tr).Decode(&manifest); err != nil {
				return Manifest{}, fmt.Errorf("read manifest: %w", err)
			}
			if manifest.Service != "task-manager" {
				return Manifest{}, fmt.Errorf("archive is not a task-manager backup (service %q)", manifest.Service)
			}
			continue
		}

		rel, err := sanitizeArchiveRelPath(hdr.Name)
		if err != nil {
			return Manifest{}, err
		}
		outPath := filepath.Join(targetDir, rel)

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(outPath, os.FileMode(hdr.Mode)); err != nil {
				return Manifest{}, err
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
				return Manifest{}, err
			}
			dst, err := os.OpenFile(outPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, os.FileMode(hdr.Mode))
			if err != nil {
				return Manifest{}, err
			}
			if _, err := io.Copy(dst, tr); err != nil {
				_ = dst.Close()
				return Manifest{}, err
			}
			if err := dst.Close(); err != nil {
				return Manifest{}, err
			}
		default:
			// Ignore unsupported entry types.
		}
	}

	return manifest, nil
}

func sanitizeArchiveRelPath(name string) (string, error) {
	name = filepath.Clean(strings.TrimSpace(name))
	if name == "." || name == "" {
		return "", fmt.Errorf("invalid archive entry path")
	}
	if filepath.IsAbs(name) {
		return "", fmt.Errorf("invalid absolute archive entry path: %s", name)
	}
	if strings.HasPrefix(name, ".."+string(filepath.Separator)) || name == ".." {
		return "", fmt.Errorf("invalid archive entry path traversal: %s", name)
	}
	return name, nil
}
