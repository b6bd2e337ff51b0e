package reports

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// CopyReportFolder copies the report folder src into the result folder of runID below root
// and returns the created folder. It fails when that folder already exists.
func CopyReportFolder(fs afero.Fs, src, root string, runID int) (string, error) {
	info, err := fs.Stat(src)
	if err != nil {
		return "", fmt.Errorf("failed to read report folder: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("report folder %s is not a directory", src)
	}

	target := RunResultDir(root, runID)
	if exists, err := afero.Exists(fs, target); err != nil {
		return "", err
	} else if exists {
		return "", fmt.Errorf("failed to create folder %s: %w", target, os.ErrExist)
	}
	if err := fs.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("failed to create run directory: %w", err)
	}
	if err := fs.Mkdir(target, 0o755); err != nil {
		return "", fmt.Errorf("failed to create folder %s: %w", target, err)
	}

	err = afero.Walk(fs, src, func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		dst := filepath.Join(target, rel)
		if info.IsDir() {
			return fs.MkdirAll(dst, 0o755)
		}
		return copyFile(fs, path, dst, info.Mode().Perm())
	})
	if err != nil {
		return "", fmt.Errorf("failed to copy report folder: %w", err)
	}
	return target, nil
}

func copyFile(fs afero.Fs, src, dst string, perm os.FileMode) error {
	in, err := fs.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := fs.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
