package download

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/avance-dl/avance/internal/fsops"
	"github.com/avance-dl/avance/internal/utils"
)

// checkCapacity fails fast when the destination disk cannot hold the file.
// An unreadable quota is ignored; capacity reporting is best effort.
func checkCapacity(destDir string, need int64) error {
	if need <= 0 {
		return nil
	}
	quota, err := fsops.Usage(destDir)
	if err != nil {
		return nil
	}
	if uint64(need) > quota.Free {
		return &CapacityError{Path: destDir, Need: need, Free: int64(quota.Free)}
	}
	return nil
}

// prepareTempFile creates the working file under the temp directory next to
// the destination and preallocates it when the total size is known, so range
// fetchers can write at their absolute offsets concurrently.
func prepareTempFile(destPath string, size int64) (*os.File, string, error) {
	tempDir := utils.TempDirFor(destPath)
	if err := os.MkdirAll(tempDir, 0755); err != nil {
		return nil, "", fmt.Errorf("error creating temp directory: %w", err)
	}
	tempPath := filepath.Join(tempDir, filepath.Base(destPath)+".part")
	outFile, err := os.OpenFile(tempPath, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return nil, "", fmt.Errorf("error creating temp file: %w", err)
	}
	if size > 0 {
		if err := outFile.Truncate(size); err != nil {
			outFile.Close()
			return nil, "", fmt.Errorf("error preallocating %d bytes: %w", size, err)
		}
	}
	return outFile, tempPath, nil
}

// finalizeFile verifies the on-disk size against the plan and renames the
// temp file to its requested name. The rename is atomic with respect to the
// destination directory, so a half-written file is never visible under the
// final name. On verification failure the temp file is retained.
func finalizeFile(tempPath, destPath string, wantSize int64) error {
	fileInfo, err := os.Stat(tempPath)
	if err != nil {
		return fmt.Errorf("error inspecting temp file: %w", err)
	}
	if wantSize >= 0 && fileInfo.Size() != wantSize {
		return &IntegrityError{Path: tempPath, Want: wantSize, Got: fileInfo.Size()}
	}
	if err := os.Rename(tempPath, destPath); err != nil {
		return fmt.Errorf("error renaming (finalizing) output file: %w", err)
	}
	return nil
}
