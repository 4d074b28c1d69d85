package vessel

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Roster column headers as they appear in the fleet spreadsheet.
const (
	ColVesselName = "Vessel Name"
	ColThaiName   = "Thai name"
	ColReportLink = "Link to report which mentions"
)

// Roster is a locally loaded vessel list (.csv or .xlsx) that can record
// report links back into its link column and be saved.
type Roster struct {
	path    string
	headers []string
	rows    [][]string

	nameCol int
	thaiCol int
	linkCol int
}

// LoadRoster reads a vessel roster from a .csv or .xlsx file. The first row
// is treated as headers; the vessel name, Thai name and report link columns
// are located by header, falling back to columns A, B and the last column.
func LoadRoster(path string) (*Roster, error) {
	const op = "LoadRoster"

	var records [][]string
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		records, err = readCSV(path)
	case ".xlsx":
		records, err = readXLSX(path)
	default:
		return nil, fmt.Errorf("%s: unsupported roster format %q (want .csv or .xlsx)", op, filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read %s: %w", op, path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s: roster %s is empty", op, path)
	}

	r := &Roster{
		path:    path,
		headers: records[0],
		rows:    records[1:],
		nameCol: 0,
		thaiCol: 1,
		linkCol: len(records[0]) - 1,
	}
	for i, h := range r.headers {
		switch strings.TrimSpace(h) {
		case ColVesselName:
			r.nameCol = i
		case ColThaiName:
			r.thaiCol = i
		case ColReportLink:
			r.linkCol = i
		}
	}
	return r, nil
}

// Vessels returns the roster entries with non-empty names. Row numbers are
// 1-based spreadsheet rows, so the first data row is 2.
func (r *Roster) Vessels() []Vessel {
	var vessels []Vessel
	for i, row := range r.rows {
		name := strings.TrimSpace(cell(row, r.nameCol))
		thai := strings.TrimSpace(cell(row, r.thaiCol))
		if name == "" && thai == "" {
			continue
		}
		if name == "" {
			name = thai
			thai = ""
		}
		v := Vessel{Name: name, Row: i + 2}
		if thai != "" {
			v.Aliases = []string{thai}
		}
		vessels = append(vessels, v)
	}
	return vessels
}

// AddLink records a report link for the vessel at the given roster row,
// joining multiple links with "; ". Adding the same link twice is a no-op.
func (r *Roster) AddLink(row int, link string) {
	idx := row - 2
	if idx < 0 || idx >= len(r.rows) {
		return
	}
	for len(r.rows[idx]) <= r.linkCol {
		r.rows[idx] = append(r.rows[idx], "")
	}
	existing := r.rows[idx][r.linkCol]
	for _, l := range strings.Split(existing, ";") {
		if strings.TrimSpace(l) == link {
			return
		}
	}
	if existing == "" {
		r.rows[idx][r.linkCol] = link
	} else {
		r.rows[idx][r.linkCol] = existing + "; " + link
	}
}

// Save writes the roster, including recorded links, to path. An empty path
// overwrites the file the roster was loaded from.
func (r *Roster) Save(path string) error {
	const op = "Save"

	if path == "" {
		path = r.path
	}
	records := append([][]string{r.headers}, r.rows...)

	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		err = writeCSV(path, records)
	case ".xlsx":
		err = writeXLSX(path, records)
	default:
		return fmt.Errorf("%s: unsupported roster format %q", op, filepath.Ext(path))
	}
	if err != nil {
		return fmt.Errorf("%s: failed to write %s: %w", op, path, err)
	}
	return nil
}

func cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return row[col]
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // roster rows vary in trailing columns
	return reader.ReadAll()
}

func writeCSV(path string, records [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	if err := writer.WriteAll(records); err != nil {
		return err
	}
	writer.Flush()
	return writer.Error()
}

func readXLSX(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	return f.GetRows(sheet)
}

func writeXLSX(path string, records [][]string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range records {
		start, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		cells := make([]interface{}, len(row))
		for j, v := range row {
			cells[j] = v
		}
		if err := f.SetSheetRow(sheet, start, &cells); err != nil {
			return err
		}
	}
	return f.SaveAs(path)
}
