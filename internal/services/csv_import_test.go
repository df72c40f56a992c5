package services

import (
	"errors"
	"testing"
)

func TestMatchHeader(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"Name", "name"},
		{"Customer Name", "name"},
		{"FULL_NAME", "name"},
		{"Email", "email"},
		{"E-Mail Address", "email"},
		{"email name", "email"}, // email alias wins
		{"Phone", "phone"},
		{"Mobile Number", "phone"},
		{"Telephone", "phone"},
		{"Order ID", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := matchHeader(tt.header); got != tt.want {
			t.Errorf("matchHeader(%q) = %q, expected %q", tt.header, got, tt.want)
		}
	}
}

func TestImportCustomerCSV_Basic(t *testing.T) {
	csv := "Customer Name,Email,Phone\nAlice,alice@example.com,123\nBob,bob@example.com,456\n"

	candidates, err := ImportCustomerCSV(csv)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(candidates) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(candidates))
	}
	if candidates[0].Name != "Alice" || candidates[0].Email != "alice@example.com" || candidates[0].Phone != "123" {
		t.Errorf("unexpected first candidate: %+v", candidates[0])
	}
}

func TestImportCustomerCSV_HeaderCaseInsensitive(t *testing.T) {
	csv := "NAME,E-MAIL\nAlice,alice@example.com\n"

	candidates, err := ImportCustomerCSV(csv)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(candidates) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(candidates))
	}
}

func TestImportCustomerCSV_FirstOccurrenceWins(t *testing.T) {
	csv := "Name,Email\nAlice,shared@example.com\nBob,shared@example.com\nCarol,carol@example.com\n"

	candidates, err := ImportCustomerCSV(csv)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(candidates) != 2 {
		t.Fatalf("expected 2 candidates after dedup, got %d", len(candidates))
	}
	if candidates[0].Name != "Alice" {
		t.Errorf("first occurrence should win, got %q", candidates[0].Name)
	}
}

func TestImportCustomerCSV_EmailNormalized(t *testing.T) {
	csv := "Name,Email\nAlice,ALICE@Example.COM\nBob, alice@example.com \n"

	candidates, err := ImportCustomerCSV(csv)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(candidates) != 1 {
		t.Fatalf("case variants of one email should dedup, got %d candidates", len(candidates))
	}
	if candidates[0].Email != "alice@example.com" {
		t.Errorf("email should be lowercased, got %q", candidates[0].Email)
	}
}

func TestImportCustomerCSV_SkipsSparseRows(t *testing.T) {
	csv := "Name,Email,Phone\nAlice,alice@example.com,123\n,bob@example.com,\nCarol,,999\n"

	candidates, err := ImportCustomerCSV(csv)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(candidates) != 1 {
		t.Fatalf("rows with fewer than two populated fields should be skipped, got %d", len(candidates))
	}
	if candidates[0].Name != "Alice" {
		t.Errorf("unexpected candidate %+v", candidates[0])
	}
}

func TestImportCustomerCSV_ParseErrors(t *testing.T) {
	tests := []struct {
		name string
		csv  string
	}{
		{"empty", ""},
		{"header only", "Name,Email\n"},
		{"missing email column", "Name,Phone\nAlice,123\n"},
		{"missing name column", "Email,Phone\nalice@example.com,123\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ImportCustomerCSV(tt.csv)
			var parseErr *ParseError
			if !errors.As(err, &parseErr) {
				t.Errorf("expected ParseError, got %v", err)
			}
		})
	}
}

func TestImportCustomerCSV_ExtraColumnsIgnored(t *testing.T) {
	csv := "Order ID,Name,Notes,Email\n42,Alice,vip,alice@example.com\n"

	candidates, err := ImportCustomerCSV(csv)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(candidates) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(candidates))
	}
	if candidates[0].Name != "Alice" || candidates[0].Email != "alice@example.com" {
		t.Errorf("unexpected candidate %+v", candidates[0])
	}
}
