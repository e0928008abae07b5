package logtail

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/go-logfmt/logfmt"
)

// Read returns at most maxLines from the end of the file at path. A missing
// file yields no lines.
func Read(path string, maxLines int) ([]string, error) {
	if maxLines <= 0 {
		return nil, nil
	}
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	ring := make([]string, maxLines)
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	total := 0
	for scanner.Scan() {
		ring[total%maxLines] = scanner.Text()
		total++
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	if total <= maxLines {
		return ring[:total], nil
	}
	start := total % maxLines
	return append(ring[start:], ring[:start]...), nil
}

// Entry is one parsed diagnostic log line.
type Entry struct {
	Raw     string
	Time    string
	Level   string
	Message string
	Fields  map[string]string
}

// FieldKeys returns the extra field names in sorted order.
func (e Entry) FieldKeys() []string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ReadEntries is Read followed by Parse on every line.
func ReadEntries(path string, maxLines int) ([]Entry, error) {
	lines, err := Read(path, maxLines)
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(lines))
	for _, line := range lines {
		entries = append(entries, Parse(line))
	}
	return entries, nil
}

// Parse decodes a logfmt line as written by the diagnostic logger. Lines
// that do not decode, or carry neither level nor msg, keep only Raw and
// Message.
func Parse(line string) Entry {
	plain := Entry{Raw: line, Message: line}
	entry := Entry{Raw: line}

	dec := logfmt.NewDecoder(strings.NewReader(line))
	for dec.ScanRecord() {
		for dec.ScanKeyval() {
			key, value := string(dec.Key()), string(dec.Value())
			switch key {
			case "time":
				entry.Time = value
			case "level":
				entry.Level = value
			case "msg":
				entry.Message = value
			default:
				if entry.Fields == nil {
					entry.Fields = make(map[string]string)
				}
				entry.Fields[key] = value
			}
		}
	}
	if dec.Err() != nil {
		return plain
	}
	if entry.Level == "" && entry.Message == "" {
		return plain
	}
	return entry
}
