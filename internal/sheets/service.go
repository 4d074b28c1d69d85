// Package sheets reads the tracked-vessel roster from a Google Sheet and
// records report links against matched vessels.
package sheets

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"

	"vesselwatch/internal/logger"
	"vesselwatch/internal/vessel"
)

// Service handles Google Sheets operations against the vessel roster.
type Service struct {
	sheetsService *gsheets.Service
	spreadsheetID string
	retries       int
	log           zerolog.Logger

	// column layout discovered by LoadVessels, 0-based
	nameCol int
	thaiCol int
	linkCol int
}

// NewService creates a Google Sheets service for the given spreadsheet,
// identified by URL or raw spreadsheet ID. Credentials come from
// GOOGLE_APPLICATION_CREDENTIALS (file path) or GOOGLE_CREDENTIALS (inline
// JSON).
func NewService(ctx context.Context, sheetRef string, retries int) (*Service, error) {
	const op = "NewService"

	log := logger.WithComponent("sheets")

	spreadsheetID, err := extractSpreadsheetID(sheetRef)
	if err != nil {
		return nil, WrapError(op, err, "failed to extract spreadsheet ID")
	}
	log.Debug().Str("spreadsheet_id", spreadsheetID).Msg("Resolved spreadsheet ID")

	var creds []byte
	if credsFile := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); credsFile != "" {
		creds, err = os.ReadFile(credsFile)
		if err != nil {
			return nil, WrapError(op, err, "failed to read credentials file")
		}
	} else if credsJSON := os.Getenv("GOOGLE_CREDENTIALS"); credsJSON != "" {
		creds = []byte(credsJSON)
	} else {
		return nil, WrapError(op, ErrMissingCredentials, "")
	}

	config, err := google.JWTConfigFromJSON(creds, gsheets.SpreadsheetsScope)
	if err != nil {
		return nil, WrapError(op, err, "failed to parse credentials")
	}

	client := config.Client(ctx)
	sheetsService, err := gsheets.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, WrapError(op, err, "failed to create sheets service")
	}

	return &Service{
		sheetsService: sheetsService,
		spreadsheetID: spreadsheetID,
		retries:       retries,
		log:           log,
		nameCol:       0,
		thaiCol:       1,
		linkCol:       -1,
	}, nil
}

// extractSpreadsheetID accepts a full Google Sheets URL or a bare ID.
func extractSpreadsheetID(ref string) (string, error) {
	if !strings.Contains(ref, "/") {
		return ref, nil
	}
	re := regexp.MustCompile(`/spreadsheets/d/([a-zA-Z0-9-_]+)`)
	matches := re.FindStringSubmatch(ref)
	if len(matches) < 2 {
		return "", fmt.Errorf("invalid Google Sheets URL format")
	}
	return matches[1], nil
}

// LoadVessels reads the roster rows and returns the tracked vessels. The
// header row determines which columns hold the vessel name, the Thai name
// and the report link; headers the sheet lacks fall back to columns A, B and
// the column after the last header.
func (s *Service) LoadVessels(ctx context.Context) ([]vessel.Vessel, error) {
	const op = "LoadVessels"

	var resp *gsheets.ValueRange
	err := s.withRetry(ctx, func() error {
		var err error
		resp, err = s.sheetsService.Spreadsheets.Values.Get(s.spreadsheetID, "A1:Z").Context(ctx).Do()
		return err
	})
	if err != nil {
		return nil, WrapError(op, ErrSpreadsheetFailed, err.Error())
	}
	if len(resp.Values) == 0 {
		return nil, WrapError(op, ErrVesselColumnMissing, "spreadsheet is empty")
	}

	headers := resp.Values[0]
	s.linkCol = len(headers)
	for i, h := range headers {
		switch strings.TrimSpace(fmt.Sprint(h)) {
		case vessel.ColVesselName:
			s.nameCol = i
		case vessel.ColThaiName:
			s.thaiCol = i
		case vessel.ColReportLink:
			s.linkCol = i
		}
	}

	var vessels []vessel.Vessel
	for i, row := range resp.Values[1:] {
		name := strings.TrimSpace(cellString(row, s.nameCol))
		thai := strings.TrimSpace(cellString(row, s.thaiCol))
		if name == "" && thai == "" {
			continue
		}
		if name == "" {
			name = thai
			thai = ""
		}
		v := vessel.Vessel{Name: name, Row: i + 2}
		if thai != "" {
			v.Aliases = []string{thai}
		}
		vessels = append(vessels, v)
	}

	s.log.Info().
		Int("vessels", len(vessels)).
		Msg("Loaded vessel roster from spreadsheet")
	return vessels, nil
}

// RecordMatch appends a report link to the vessel's link cell, joining
// multiple links with "; ". Recording the same link twice is a no-op. Each
// vessel/report pair is written at most once per run, so last-writer-wins
// semantics on the cell are acceptable.
func (s *Service) RecordMatch(ctx context.Context, v vessel.Vessel, link string) error {
	const op = "RecordMatch"

	if s.linkCol < 0 {
		return WrapError(op, ErrSpreadsheetFailed, "roster not loaded; call LoadVessels first")
	}

	cellRange := fmt.Sprintf("%s%d", columnName(s.linkCol), v.Row)

	err := s.withRetry(ctx, func() error {
		resp, err := s.sheetsService.Spreadsheets.Values.Get(s.spreadsheetID, cellRange).Context(ctx).Do()
		if err != nil {
			return err
		}

		existing := ""
		if len(resp.Values) > 0 && len(resp.Values[0]) > 0 {
			existing = fmt.Sprint(resp.Values[0][0])
		}
		for _, l := range strings.Split(existing, ";") {
			if strings.TrimSpace(l) == link {
				return nil
			}
		}
		value := link
		if existing != "" {
			value = existing + "; " + link
		}

		valueRange := &gsheets.ValueRange{Values: [][]interface{}{{value}}}
		_, err = s.sheetsService.Spreadsheets.Values.Update(s.spreadsheetID, cellRange, valueRange).
			ValueInputOption("USER_ENTERED").Context(ctx).Do()
		return err
	})
	if err != nil {
		return WrapError(op, ErrSpreadsheetFailed, fmt.Sprintf("cell %s: %v", cellRange, err))
	}

	s.log.Info().
		Str("vessel", v.Name).
		Str("cell", cellRange).
		Str("link", link).
		Msg("Recorded vessel match in spreadsheet")
	return nil
}

// Flush is a no-op: spreadsheet writes happen per match.
func (s *Service) Flush(ctx context.Context) error {
	return nil
}

// withRetry runs fn with bounded exponential backoff.
func (s *Service) withRetry(ctx context.Context, fn func() error) error {
	attempts := s.retries
	if attempts < 1 {
		attempts = 1
	}

	var err error
	delay := 500 * time.Millisecond
	for i := 0; i < attempts; i++ {
		if i > 0 {
			s.log.Warn().
				Err(err).
				Int("attempt", i+1).
				Int("attempts", attempts).
				Msg("Retrying spreadsheet operation")
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}
		if err = fn(); err == nil {
			return nil
		}
	}
	return err
}

// columnName converts a 0-based column index to its A1 letter form.
func columnName(col int) string {
	name := ""
	for col >= 0 {
		name = string(rune('A'+col%26)) + name
		col = col/26 - 1
	}
	return name
}

func cellString(row []interface{}, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return fmt.Sprint(row[col])
}
