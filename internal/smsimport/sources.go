package smsimport

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/tallyup-dev/tallyup/internal/model"
)

// JSONSource parses an Android content-provider dump:
// [{"_id": "12", "body": "...", "date": 1741940000000}, ...].
type JSONSource struct{}

type jsonMessage struct {
	ID   json.RawMessage `json:"_id"` // string or number
	Body string          `json:"body"`
	Date json.Number     `json:"date"` // epoch milliseconds
}

// Format returns the source name.
func (s *JSONSource) Format() string { return "json" }

// Parse reads the dump and returns RawMessages in file order.
func (s *JSONSource) Parse(r io.Reader) ([]model.RawMessage, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var rows []jsonMessage
	if err := dec.Decode(&rows); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("decoding sms json: %w", err)
	}

	var msgs []model.RawMessage
	for i, row := range rows {
		id, err := parseJSONID(row.ID)
		if err != nil {
			return nil, fmt.Errorf("message %d: %w", i, err)
		}
		ms, err := row.Date.Int64()
		if err != nil {
			return nil, fmt.Errorf("message %d: parsing date %q: %w", i, row.Date, err)
		}
		msgs = append(msgs, model.RawMessage{
			ID:   id,
			Body: row.Body,
			Date: time.UnixMilli(ms).UTC(),
		})
	}
	return msgs, nil
}

// parseJSONID accepts a string or integer _id. Every message needs one so
// re-imports can be recognized.
func parseJSONID(raw json.RawMessage) (string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", fmt.Errorf("missing _id")
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if strings.TrimSpace(s) == "" {
			return "", fmt.Errorf("empty _id")
		}
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		if _, err := n.Int64(); err == nil {
			return n.String(), nil
		}
	}
	return "", fmt.Errorf("invalid _id %s", raw)
}

// CSVSource parses a three-column export with a header row.
type CSVSource struct{}

const (
	csvNumFields = 3
	csvColID     = 0
	csvColDate   = 1
	csvColBody   = 2
)

// Format returns the source name.
func (s *CSVSource) Format() string { return "csv" }

// Parse reads an id,date,body CSV. Dates are RFC 3339 or epoch milliseconds.
func (s *CSVSource) Parse(r io.Reader) ([]model.RawMessage, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = csvNumFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading sms CSV: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	var msgs []model.RawMessage
	for i, rec := range records[1:] {
		if strings.TrimSpace(rec[csvColID]) == "" {
			return nil, fmt.Errorf("row %d: missing id", i+2)
		}
		date, err := parseCSVDate(rec[csvColDate])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		msgs = append(msgs, model.RawMessage{
			ID:   rec[csvColID],
			Body: rec[csvColBody],
			Date: date,
		})
	}
	return msgs, nil
}

func parseCSVDate(s string) (time.Time, error) {
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.UnixMilli(ms).UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing date %q: %w", s, err)
	}
	return t, nil
}
