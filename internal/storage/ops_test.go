package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Normal Name", "Normal Name"},
		{"Slash/Name", "SlashName"},
		{"Colon:Name", "ColonName"},
		{"Trailing Dot.", "Trailing Dot"},
		{"AC/DC", "ACDC"},
		{"<Invalid>", "Invalid"},
		{"  Padded  ", "Padded"},
		{"Tab\tName", "TabName"},
	}

	for _, tt := range tests {
		got := Sanitize(tt.input)
		if got != tt.expected {
			t.Errorf("Sanitize(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestMoveFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.part")
	dst := filepath.Join(dir, "out", "song.m4a")
	if err := os.WriteFile(src, []byte("audio"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := EnsureDir(filepath.Dir(dst)); err != nil {
		t.Fatal(err)
	}

	if err := MoveFile(src, dst); err != nil {
		t.Fatalf("MoveFile failed: %v", err)
	}
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Error("Expected source to be gone")
	}
	size, err := FileSize(dst)
	if err != nil || size != 5 {
		t.Errorf("Expected 5 bytes at destination, got %d (%v)", size, err)
	}
}

func TestCreateTempAndRemove(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	f, err := CreateTemp(dir)
	if err != nil {
		t.Fatalf("CreateTemp failed: %v", err)
	}
	name := f.Name()
	f.Close()

	if filepath.Dir(name) != dir {
		t.Errorf("Expected temp file in %s, got %s", dir, name)
	}
	if err := RemoveFile(name); err != nil {
		t.Fatalf("RemoveFile failed: %v", err)
	}
	if err := RemoveFile(name); err != nil {
		t.Errorf("Expected removing a missing file to succeed, got %v", err)
	}
}
