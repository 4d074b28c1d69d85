// Package drive downloads source report PDFs from a Google Drive folder so
// the pipeline can run against a shared folder instead of a local directory.
package drive

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2/google"
	gdrive "google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"vesselwatch/internal/logger"
)

// Service lists and downloads PDFs from a Drive folder.
type Service struct {
	driveService *gdrive.Service
	log          zerolog.Logger
}

// File identifies one PDF in the reports folder. The ID doubles as the link
// recorded in the roster for Drive-sourced reports.
type File struct {
	ID   string
	Name string
}

// NewService creates a read-only Drive client with service-account
// credentials from the environment.
func NewService(ctx context.Context) (*Service, error) {
	const op = "NewService"

	log := logger.WithComponent("drive")

	var creds []byte
	if credsFile := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); credsFile != "" {
		var err error
		creds, err = os.ReadFile(credsFile)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to read credentials file: %w", op, err)
		}
	} else if credsJSON := os.Getenv("GOOGLE_CREDENTIALS"); credsJSON != "" {
		creds = []byte(credsJSON)
	} else {
		return nil, fmt.Errorf("%s: neither GOOGLE_APPLICATION_CREDENTIALS nor GOOGLE_CREDENTIALS is set", op)
	}

	config, err := google.JWTConfigFromJSON(creds, gdrive.DriveReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse credentials: %w", op, err)
	}

	client := config.Client(ctx)
	driveService, err := gdrive.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create drive service: %w", op, err)
	}

	return &Service{driveService: driveService, log: log}, nil
}

// ListPDFs returns the PDF files in the given Drive folder.
func (s *Service) ListPDFs(ctx context.Context, folderID string) ([]File, error) {
	const op = "ListPDFs"

	query := fmt.Sprintf("'%s' in parents and mimeType = 'application/pdf' and trashed = false", folderID)

	var files []File
	pageToken := ""
	for {
		call := s.driveService.Files.List().
			Q(query).
			Fields("nextPageToken, files(id, name)").
			PageSize(100).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		resp, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("%s: failed to list folder %s: %w", op, folderID, err)
		}
		for _, f := range resp.Files {
			files = append(files, File{ID: f.Id, Name: f.Name})
		}
		if resp.NextPageToken == "" {
			break
		}
		pageToken = resp.NextPageToken
	}

	s.log.Info().
		Str("folder", folderID).
		Int("files", len(files)).
		Msg("Listed report PDFs in Drive folder")
	return files, nil
}

// DownloadTo downloads a Drive file into dir, keeping its Drive name, and
// returns the local path. Existing files are not re-downloaded.
func (s *Service) DownloadTo(ctx context.Context, file File, dir string) (string, error) {
	const op = "DownloadTo"

	localPath := filepath.Join(dir, file.Name)
	if _, err := os.Stat(localPath); err == nil {
		s.log.Debug().Str("file", file.Name).Msg("Report already downloaded, skipping")
		return localPath, nil
	}

	resp, err := s.driveService.Files.Get(file.ID).Context(ctx).Download()
	if err != nil {
		return "", fmt.Errorf("%s: failed to download %s: %w", op, file.Name, err)
	}
	defer resp.Body.Close()

	out, err := os.Create(localPath)
	if err != nil {
		return "", fmt.Errorf("%s: failed to create %s: %w", op, localPath, err)
	}
	defer out.Close()

	written, err := io.Copy(out, resp.Body)
	if err != nil {
		os.Remove(localPath)
		return "", fmt.Errorf("%s: failed to write %s: %w", op, localPath, err)
	}

	s.log.Info().
		Str("file", file.Name).
		Int64("bytes", written).
		Msg("Downloaded report from Drive")
	return localPath, nil
}
