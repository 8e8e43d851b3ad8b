package events

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Header is the column layout written by WriteCSV. ReadCSV locates columns by name.
var Header = []string{"user", "device", "ip", "event"}

// ReadCSV parses events from r. The first row must name the columns user, device, ip and event
// in any order; extra columns are ignored.
func ReadCSV(r io.Reader) ([]Event, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("events csv is empty")
		}
		return nil, fmt.Errorf("failed to read events header: %w", err)
	}

	colIndex := make(map[string]int, len(header))
	for i, col := range header {
		colIndex[strings.ToLower(strings.TrimSpace(col))] = i
	}
	for _, col := range Header {
		if _, ok := colIndex[col]; !ok {
			return nil, fmt.Errorf("events header is missing column %q", col)
		}
	}

	var events []Event
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read events csv: %w", err)
		}
		line, _ := reader.FieldPos(0)

		e := Event{
			User:   getField(record, colIndex, "user"),
			Device: getField(record, colIndex, "device"),
			IP:     getField(record, colIndex, "ip"),
			Event:  getField(record, colIndex, "event"),
		}
		if err := e.Validate(); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		events = append(events, e)
	}
	return events, nil
}

// WriteCSV writes the header followed by one row per event.
func WriteCSV(w io.Writer, events []Event) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(Header); err != nil {
		return fmt.Errorf("failed to write events header: %w", err)
	}
	for _, e := range events {
		if err := writer.Write([]string{e.User, e.Device, e.IP, e.Event}); err != nil {
			return fmt.Errorf("failed to write event: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

func getField(record []string, colIndex map[string]int, name string) string {
	i, ok := colIndex[name]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}
