package logging

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewDefaultsToTextOnStdout(t *testing.T) {
	log, err := New(Config{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if log == nil {
		t.Fatal("New() returned nil logger")
	}
}

func TestNewJSONFormat(t *testing.T) {
	log, err := New(Config{Format: "json"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if log == nil {
		t.Fatal("New() returned nil logger")
	}
}

func TestNewFileOutputWithoutPathErrors(t *testing.T) {
	_, err := New(Config{Output: "file"})
	if err == nil {
		t.Fatal("New() expected error when Output is \"file\" with no File set")
	}
}

func TestNewFileOutputOpensFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deskd.log")
	_, err := New(Config{Output: "file", File: path})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("log file was not created: %v", err)
	}
}
