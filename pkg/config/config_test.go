package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type sample struct {
	Name  string `yaml:"name"`
	Port  int    `yaml:"port"`
	Extra string `yaml:"extra"`
}

func (s *sample) Validate() error {
	if s.Port <= 0 {
		return errors.New("port must be positive")
	}
	return nil
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_ExpandsEnvAndKeepsDefaults(t *testing.T) {
	t.Setenv("SAMPLE_NAME", "digimark")
	path := writeFile(t, "name: ${SAMPLE_NAME}\nport: 8081\n")

	s := sample{Extra: "default"}
	if err := Load(path, &s); err != nil {
		t.Fatal(err)
	}
	if s.Name != "digimark" || s.Port != 8081 || s.Extra != "default" {
		t.Errorf("got %+v", s)
	}
}

func TestLoad_ValidationError(t *testing.T) {
	path := writeFile(t, "port: 0\n")
	err := Load(path, &sample{})
	if err == nil || !strings.Contains(err.Error(), "validation failed") {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestLoad_ParseError(t *testing.T) {
	path := writeFile(t, "port: [unterminated\n")
	if err := Load(path, &sample{Port: 1}); err == nil {
		t.Error("expected parse error")
	}
}

func TestLoadOptional(t *testing.T) {
	s := sample{Port: 80}
	loaded, err := LoadOptional(filepath.Join(t.TempDir(), "missing.yaml"), &s)
	if err != nil || loaded {
		t.Fatalf("missing file: loaded=%v err=%v", loaded, err)
	}

	if _, err := LoadOptional(filepath.Join(t.TempDir(), "missing.yaml"), &sample{}); err == nil {
		t.Error("defaults must still be validated")
	}

	path := writeFile(t, "port: 9000\n")
	loaded, err = LoadOptional(path, &s)
	if err != nil || !loaded || s.Port != 9000 {
		t.Errorf("existing file: loaded=%v err=%v s=%+v", loaded, err, s)
	}
}
