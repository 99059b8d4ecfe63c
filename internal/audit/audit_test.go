package audit

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLog_CreatesFile(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "nested", "kringle-audit.jsonl")

	Log(logPath, Entry{User: "operator", Operation: OpAssign, Files: []string{"assignments/chris"}})

	if _, err := os.Stat(logPath); os.IsNotExist(err) {
		t.Fatalf("Audit log file was not created")
	}
}

func TestLog_AppendsEntries(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "kringle-audit.jsonl")

	Log(logPath, Entry{User: "operator", Operation: OpInit})
	Log(logPath, Entry{User: "operator", Operation: OpAssign, RunID: "run-1"})

	entries, err := ReadEntries(logPath)
	if err != nil {
		t.Fatalf("ReadEntries failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}
	if entries[0].Operation != OpInit || entries[1].Operation != OpAssign {
		t.Errorf("Entries out of order: %+v", entries)
	}
	if entries[1].RunID != "run-1" {
		t.Errorf("Expected run_id run-1, got %s", entries[1].RunID)
	}
}

func TestLog_ValidJSON(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "kringle-audit.jsonl")

	Log(logPath, Entry{
		User:              "operator",
		Operation:         OpAssign,
		RunID:             "2b0f",
		Exchange:          "Family 2026",
		ParticipantsCount: 8,
		Attempts:          17,
		Files:             []string{"assignments/chris", "assignments/kate"},
		DebugReveal:       true,
	})

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("Failed to read audit log: %v", err)
	}

	var parsed Entry
	if err := json.Unmarshal([]byte(strings.TrimSpace(string(data))), &parsed); err != nil {
		t.Fatalf("Entry is not valid JSON: %v", err)
	}

	if parsed.ParticipantsCount != 8 {
		t.Errorf("Expected participants_count 8, got %d", parsed.ParticipantsCount)
	}
	if parsed.Attempts != 17 {
		t.Errorf("Expected attempts 17, got %d", parsed.Attempts)
	}
	if !parsed.DebugReveal {
		t.Errorf("Expected debug_reveal to be recorded")
	}
	if len(parsed.Files) != 2 {
		t.Errorf("Expected 2 files, got %d", len(parsed.Files))
	}
}

func TestLog_TimestampFormat(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "kringle-audit.jsonl")

	// Log an entry without timestamp (should be auto-set).
	Log(logPath, Entry{User: "operator", Operation: OpAssign})

	entries, err := ReadEntries(logPath)
	if err != nil || len(entries) != 1 {
		t.Fatalf("Expected one entry, got %d (err %v)", len(entries), err)
	}

	// Check timestamp format: 2006-01-02T15:04:05.000000Z.
	ts := entries[0].Timestamp
	if !strings.HasSuffix(ts, "Z") {
		t.Errorf("Timestamp should end with Z, got %s", ts)
	}
	if !strings.Contains(ts, ".") {
		t.Errorf("Timestamp should contain microseconds, got %s", ts)
	}
}

func TestLog_OmitsEmptyFields(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "kringle-audit.jsonl")

	Log(logPath, Entry{User: "operator", Operation: OpInit})

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("Failed to read audit log: %v", err)
	}
	line := strings.TrimSpace(string(data))

	for _, field := range []string{`"files"`, `"run_id"`, `"attempts"`, `"debug_reveal"`} {
		if strings.Contains(line, field) {
			t.Errorf("Empty %s field should be omitted", field)
		}
	}
}

func TestLog_NoPath(t *testing.T) {
	// Log should not panic or error.
	Log("", Entry{User: "operator", Operation: OpAssign})
}

func TestLogWithUser(t *testing.T) {
	entry := LogWithUser(OpAssign)
	if entry.Operation != OpAssign {
		t.Errorf("Expected operation %s, got %s", OpAssign, entry.Operation)
	}
}

func TestParseEntries_ValidData(t *testing.T) {
	data := []byte(`{"ts":"2026-12-01T10:30:00.123456Z","user":"alice","op":"init"}
{"ts":"2026-12-01T10:35:00.456789Z","user":"bob","op":"assign","run_id":"x"}
`)

	entries, err := ParseEntries(data)
	if err != nil {
		t.Fatalf("ParseEntries failed: %v", err)
	}

	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}
	if entries[0].User != "alice" {
		t.Errorf("Expected first user alice, got %s", entries[0].User)
	}
	if entries[1].RunID != "x" {
		t.Errorf("Expected second run_id x, got %s", entries[1].RunID)
	}
}

func TestParseEntries_SkipsMalformedLines(t *testing.T) {
	data := []byte(`{"ts":"2026-12-01T10:30:00.123456Z","user":"alice","op":"init"}
this is not valid json
{"ts":"2026-12-01T10:35:00.456789Z","user":"bob","op":"assign"}
`)

	entries, err := ParseEntries(data)
	if err != nil {
		t.Fatalf("ParseEntries failed: %v", err)
	}

	if len(entries) != 2 {
		t.Errorf("Expected 2 valid entries (malformed should be skipped), got %d", len(entries))
	}
}

func TestParseEntries_EmptyData(t *testing.T) {
	entries, err := ParseEntries([]byte{})
	if err != nil {
		t.Fatalf("ParseEntries failed: %v", err)
	}

	if entries != nil {
		t.Errorf("Expected nil entries for empty data, got %v", entries)
	}
}

func TestReadEntries_MissingLog(t *testing.T) {
	entries, err := ReadEntries(filepath.Join(t.TempDir(), "absent.jsonl"))
	if err != nil {
		t.Fatalf("ReadEntries failed: %v", err)
	}
	if entries != nil {
		t.Errorf("Expected nil entries, got %v", entries)
	}
}

func TestTail(t *testing.T) {
	entries := []Entry{{RunID: "1"}, {RunID: "2"}, {RunID: "3"}}

	if got := Tail(entries, 2); len(got) != 2 || got[0].RunID != "2" {
		t.Errorf("Tail(2) = %+v", got)
	}
	if got := Tail(entries, 0); len(got) != 3 {
		t.Errorf("Tail(0) should return all entries, got %d", len(got))
	}
	if got := Tail(entries, 10); len(got) != 3 {
		t.Errorf("Tail(10) should return all entries, got %d", len(got))
	}
}
