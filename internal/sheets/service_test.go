package sheets

import "testing"

func TestExtractSpreadsheetID(t *testing.T) {
	tests := []struct {
		name    string
		ref     string
		want    string
		wantErr bool
	}{
		{
			name: "bare ID",
			ref:  "1AbCdEfGhIjKlMnOpQrStUvWxYz",
			want: "1AbCdEfGhIjKlMnOpQrStUvWxYz",
		},
		{
			name: "full URL",
			ref:  "https://docs.google.com/spreadsheets/d/1AbCdEfGhIjKlMnOpQrStUvWxYz/edit#gid=0",
			want: "1AbCdEfGhIjKlMnOpQrStUvWxYz",
		},
		{
			name: "URL with hyphens and underscores",
			ref:  "https://docs.google.com/spreadsheets/d/1a-b_c2/edit",
			want: "1a-b_c2",
		},
		{
			name:    "unrelated URL",
			ref:     "https://example.com/not/a/sheet",
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := extractSpreadsheetID(tt.ref)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestColumnName(t *testing.T) {
	tests := []struct {
		col  int
		want string
	}{
		{0, "A"},
		{1, "B"},
		{25, "Z"},
		{26, "AA"},
		{27, "AB"},
		{51, "AZ"},
		{52, "BA"},
	}
	for _, tt := range tests {
		if got := columnName(tt.col); got != tt.want {
			t.Errorf("columnName(%d) = %q, want %q", tt.col, got, tt.want)
		}
	}
}

func TestCellString(t *testing.T) {
	row := []interface{}{"Sirimas 8", 42, nil}
	if got := cellString(row, 0); got != "Sirimas 8" {
		t.Errorf("cellString(0) = %q", got)
	}
	if got := cellString(row, 5); got != "" {
		t.Errorf("cellString out of range = %q, want empty", got)
	}
	if got := cellString(row, -1); got != "" {
		t.Errorf("cellString(-1) = %q, want empty", got)
	}
}
