package logtail

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestRead(t *testing.T) {
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "test.log")

	var content strings.Builder
	var expectedAll []string
	for i := 1; i <= 10; i++ {
		line := fmt.Sprintf("Line %d", i)
		content.WriteString(line + "\n")
		expectedAll = append(expectedAll, line)
	}

	if err := os.WriteFile(logPath, []byte(content.String()), 0644); err != nil {
		t.Fatalf("failed to create test log file: %v", err)
	}

	tests := []struct {
		name     string
		maxLines int
		expected []string
	}{
		{name: "zero", maxLines: 0, expected: nil},
		{name: "negative", maxLines: -1, expected: nil},
		{name: "partial (3)", maxLines: 3, expected: expectedAll[7:]},
		{name: "partial (5)", maxLines: 5, expected: expectedAll[5:]},
		{name: "exactly all (10)", maxLines: 10, expected: expectedAll},
		{name: "more than exists (20)", maxLines: 20, expected: expectedAll},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Read(logPath, tt.maxLines)
			if err != nil {
				t.Fatalf("Read() error = %v", err)
			}
			if len(got) == 0 && len(tt.expected) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Read() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestRead_MissingFile(t *testing.T) {
	got, err := Read(filepath.Join(t.TempDir(), "nope.log"), 10)
	if err != nil || len(got) != 0 {
		t.Fatalf("Read(missing) = %v, %v; want no lines, nil", got, err)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Entry
	}{
		{
			name:  "logrus line",
			input: `time="2026-10-19T10:00:00Z" level=error msg="request failed" op=delete_item status=500`,
			want: Entry{
				Time:    "2026-10-19T10:00:00Z",
				Level:   "error",
				Message: "request failed",
				Fields:  map[string]string{"op": "delete_item", "status": "500"},
			},
		},
		{
			name:  "escaped quotes in value",
			input: `level=info msg="delete cancelled" name="say \"hi\""`,
			want: Entry{
				Level:   "info",
				Message: "delete cancelled",
				Fields:  map[string]string{"name": `say "hi"`},
			},
		},
		{
			name:  "escaped newline and empty field",
			input: `time="2026-10-19T10:00:00Z" level=warning msg="line one\nline two" body=""`,
			want: Entry{
				Time:    "2026-10-19T10:00:00Z",
				Level:   "warning",
				Message: "line one\nline two",
				Fields:  map[string]string{"body": ""},
			},
		},
		{
			name:  "free text",
			input: "panic: something went wrong",
			want:  Entry{Message: "panic: something went wrong"},
		},
		{
			name:  "unterminated quote",
			input: `level=warn msg="oops`,
			want:  Entry{Message: `level=warn msg="oops`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.input)
			tt.want.Raw = tt.input
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Parse() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestReadEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "giftlist.log")
	body := "level=info msg=started\nlevel=error msg=\"request failed\" op=add_item path=/wishlists/1/items/\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	entries, err := ReadEntries(path, 1)
	if err != nil {
		t.Fatalf("ReadEntries error = %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("ReadEntries returned %d entries, want 1", len(entries))
	}
	if entries[0].Level != "error" || entries[0].Fields["path"] != "/wishlists/1/items/" {
		t.Fatalf("entry = %#v", entries[0])
	}
	if keys := entries[0].FieldKeys(); !reflect.DeepEqual(keys, []string{"op", "path"}) {
		t.Fatalf("FieldKeys() = %v, want [op path]", keys)
	}
}
