package logtail

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/five82/rentdesk/internal/diag"
)

func TestRead(t *testing.T) {
	// Create a temporary log file
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "test.log")

	// Write 10 lines of content
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
		{name: "read all (0)", maxLines: 0, expected: expectedAll},
		{name: "read all (negative)", maxLines: -1, expected: expectedAll},
		{name: "read partial (5)", maxLines: 5, expected: expectedAll[5:]},
		{name: "read exactly all (10)", maxLines: 10, expected: expectedAll},
		{name: "read more than exists (20)", maxLines: 20, expected: expectedAll},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Read(logPath, tt.maxLines)
			if err != nil {
				t.Fatalf("Read() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Read() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestRead_MissingFile(t *testing.T) {
	lines, err := Read(filepath.Join(t.TempDir(), "absent.log"), 10)
	if err != nil || lines != nil {
		t.Fatalf("Read(missing) = %v, %v; want nil, nil", lines, err)
	}
}

func TestParse_ZapEntry(t *testing.T) {
	line := `{"level":"warn","ts":"2025-10-08T21:01:05.123Z","caller":"catalog/client.go:370","msg":"api request failed","method":"GET","path":"/films/top","status":500,"error":"HTTP 500: Internal Server Error"}`
	e := Parse(line)

	if e.Level != "WARN" {
		t.Fatalf("Level = %q, want WARN", e.Level)
	}
	if e.Message != "api request failed" {
		t.Fatalf("Message = %q", e.Message)
	}
	if e.Caller != "catalog/client.go:370" {
		t.Fatalf("Caller = %q", e.Caller)
	}
	want := time.Date(2025, 10, 8, 21, 1, 5, 123_000_000, time.UTC)
	if !e.Time.Equal(want) {
		t.Fatalf("Time = %v, want %v", e.Time, want)
	}
	wantFields := []Field{
		{Key: "error", Value: `"HTTP 500: Internal Server Error"`},
		{Key: "method", Value: "GET"},
		{Key: "path", Value: "/films/top"},
		{Key: "status", Value: "500"},
	}
	if !reflect.DeepEqual(e.Fields, wantFields) {
		t.Fatalf("Fields = %#v, want %#v", e.Fields, wantFields)
	}
}

func TestParse_PlainLine(t *testing.T) {
	e := Parse("panic: something broke")
	if e.Level != "" || e.Message != "panic: something broke" {
		t.Fatalf("Parse(plain) = %#v", e)
	}
	if got := Format(e); got != "panic: something broke" {
		t.Fatalf("Format(plain) = %q", got)
	}
	if e := Parse("{not json"); e.Message != "{not json" {
		t.Fatalf("Parse(bad json) = %#v", e)
	}
}

func TestFormat(t *testing.T) {
	e := Entry{
		Level:   "INFO",
		Message: "film rented",
		Fields:  []Field{{Key: "film_id", Value: "1"}, {Key: "rental_id", Value: "16050"}},
	}
	if got := Format(e); got != "INFO  film rented film_id=1 rental_id=16050" {
		t.Fatalf("Format = %q", got)
	}
}

func TestAtLeast(t *testing.T) {
	entries := ParseLines([]string{
		`{"level":"debug","msg":"a"}`,
		"",
		`{"level":"info","msg":"b"}`,
		`{"level":"error","msg":"c"}`,
		"stray",
	})
	if len(entries) != 4 {
		t.Fatalf("ParseLines kept %d entries, want 4", len(entries))
	}

	got := AtLeast(entries, "warn")
	var msgs []string
	for _, e := range got {
		msgs = append(msgs, e.Message)
	}
	if !reflect.DeepEqual(msgs, []string{"c", "stray"}) {
		t.Fatalf("AtLeast(warn) = %v", msgs)
	}
	if len(AtLeast(entries, "")) != 4 {
		t.Fatalf("AtLeast(\"\") should keep everything")
	}
}

func TestRoundTripThroughDiagLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "rentdesk.log")
	logger, closeLog, err := diag.New(path, "debug")
	if err != nil {
		t.Fatalf("diag.New: %v", err)
	}
	logger.Info("customer created", zap.String("email", "mary.smith@sakilacustomer.org"))
	if err := closeLog(); err != nil {
		t.Fatalf("close: %v", err)
	}

	lines, err := Read(path, 0)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	entries := ParseLines(lines)
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	e := entries[0]
	if e.Level != "INFO" || e.Message != "customer created" || e.Time.IsZero() {
		t.Fatalf("entry = %#v", e)
	}
	if !strings.Contains(Format(e), "email=mary.smith@sakilacustomer.org") {
		t.Fatalf("Format = %q", Format(e))
	}
}
