package scanner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pwalczyk/scanserv-cli/internal/api"
)

// ListFiles fetches and prints the files stored on the server, one
// "- name (size)" line per entry. Returns nil on any failure.
func (s *Scanner) ListFiles(ctx context.Context) []api.RemoteFile {
	files, err := s.client.Files(ctx)
	if err != nil {
		s.reportError(err)
		return nil
	}
	if len(files) > 0 {
		fmt.Fprintln(s.out, "\nFiles on server:")
		for _, f := range files {
			fmt.Fprintf(s.out, "- %s (%s)\n", f.Name, f.SizeString)
		}
		fmt.Fprintln(s.out)
	}
	return files
}

// DownloadFile fetches one file by name and writes it locally. When
// outputDir is non-empty it is created first (idempotent) and the file
// lands at outputDir/name; otherwise the file lands in the current
// directory. The write is whole-file, not streamed.
func (s *Scanner) DownloadFile(ctx context.Context, name, outputDir string) (string, error) {
	data, err := s.client.File(ctx, name)
	if err != nil {
		var statusErr *api.StatusError
		if errors.As(err, &statusErr) {
			fmt.Fprintf(s.errOut, "Error downloading %s: %d\n", name, statusErr.Code)
		} else {
			fmt.Fprintf(s.errOut, "Connection error downloading %s: %v\n", name, err)
		}
		return "", err
	}

	localPath := name
	if outputDir != "" {
		if err := os.MkdirAll(outputDir, 0o755); err != nil {
			fmt.Fprintf(s.errOut, "Error creating %s: %v\n", outputDir, err)
			return "", err
		}
		localPath = filepath.Join(outputDir, name)
	}

	if err := os.WriteFile(localPath, data, 0o644); err != nil {
		fmt.Fprintf(s.errOut, "Error writing %s: %v\n", localPath, err)
		return "", err
	}
	return localPath, nil
}

// DownloadAll downloads every file on the server sequentially, reporting
// the total count first. One file failing does not stop the rest; each
// failure has already been printed by DownloadFile.
func (s *Scanner) DownloadAll(ctx context.Context, outputDir string) {
	files := s.ListFiles(ctx)
	if len(files) == 0 {
		fmt.Fprintln(s.out, "No files found on server")
		return
	}

	fmt.Fprintf(s.out, "Found %d files\n", len(files))
	for _, f := range files {
		fmt.Fprintf(s.out, "Downloading %s...\n", f.Name)
		localPath, err := s.DownloadFile(ctx, f.Name, outputDir)
		if err != nil {
			continue
		}
		fmt.Fprintf(s.out, "Saved to: %s\n", localPath)
	}
}
