package services

import (
	"encoding/csv"
	"io"
	"strings"
)

// CustomerCandidate is one parsed, not-yet-persisted CSV row.
type CustomerCandidate struct {
	Name  string `json:"customerName"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// csvHeaderAliases maps a candidate field to substrings that identify
// its column. Matching is case-insensitive substring matching: any
// header containing "email" maps to the email field, any containing
// "name" to the customer name.
var csvHeaderAliases = map[string][]string{
	"name":  {"name"},
	"email": {"email", "mail"},
	"phone": {"phone", "mobile", "tel"},
}

// matchHeader returns the candidate field a raw header maps to, or "".
// Email wins over name so that a header like "email name" is not
// claimed by the name alias.
func matchHeader(header string) string {
	h := strings.ToLower(strings.TrimSpace(header))
	for _, field := range []string{"email", "phone", "name"} {
		for _, alias := range csvHeaderAliases[field] {
			if strings.Contains(h, alias) {
				return field
			}
		}
	}
	return ""
}

// ImportCustomerCSV parses CSV text into a deduplicated candidate list.
// The header row is matched case-insensitively by the alias table and
// must yield both a name and an email column. Rows with fewer than two
// populated fields are skipped. Rows whose email was already seen in
// this file are silently dropped: the first occurrence wins. Nothing is
// persisted; callers hand the result to CustomerService.BatchCreate.
func ImportCustomerCSV(text string) ([]CustomerCandidate, error) {
	lines := strings.Count(strings.TrimRight(text, "\r\n"), "\n") + 1
	if strings.TrimSpace(text) == "" || lines < 2 {
		return nil, &ParseError{Message: "CSV file needs a header row and at least one data row"}
	}

	reader := csv.NewReader(strings.NewReader(text))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, &ParseError{Message: "failed to read CSV header: " + err.Error()}
	}

	// column index → candidate field
	columns := make(map[int]string, len(header))
	for i, h := range header {
		if field := matchHeader(h); field != "" {
			if _, taken := columnTaken(columns, field); !taken {
				columns[i] = field
			}
		}
	}

	if _, ok := columnTaken(columns, "name"); !ok {
		return nil, &ParseError{Message: "CSV is missing a customer name column"}
	}
	if _, ok := columnTaken(columns, "email"); !ok {
		return nil, &ParseError{Message: "CSV is missing an email column"}
	}

	var candidates []CustomerCandidate
	seen := make(map[string]struct{})

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Malformed row: skip it, like a row with too few fields.
			continue
		}

		var cand CustomerCandidate
		populated := 0
		for i, value := range record {
			value = strings.TrimSpace(value)
			if value == "" {
				continue
			}
			switch columns[i] {
			case "name":
				cand.Name = value
				populated++
			case "email":
				cand.Email = normalizeEmail(value)
				populated++
			case "phone":
				cand.Phone = value
				populated++
			}
		}

		if populated < 2 || cand.Email == "" {
			continue
		}
		if _, dup := seen[cand.Email]; dup {
			continue // first occurrence wins
		}
		seen[cand.Email] = struct{}{}
		candidates = append(candidates, cand)
	}

	return candidates, nil
}

func columnTaken(columns map[int]string, field string) (int, bool) {
	for i, f := range columns {
		if f == field {
			return i, true
		}
	}
	return 0, false
}
