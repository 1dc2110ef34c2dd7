package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func TestIsolatedEnvPointsDirsIntoDataDir(t *testing.T) {
	dataDir := t.TempDir()
	env := IsolatedEnv(dataDir)

	if env.Dir != dataDir {
		t.Errorf("Dir = %q, want %q", env.Dir, dataDir)
	}

	want := map[string]string{
		"ARDUINO_DATA_DIR":       filepath.Join(dataDir, "arduino15"),
		"ARDUINO_DOWNLOADS_DIR":  filepath.Join(dataDir, "arduino15", "staging"),
		"ARDUINO_SKETCHBOOK_DIR": filepath.Join(dataDir, "Arduino"),
	}
	for key, val := range want {
		got, ok := env.Lookup(key)
		if !ok {
			t.Errorf("%s not set", key)
			continue
		}
		if got != val {
			t.Errorf("%s = %q, want %q", key, got, val)
		}
	}
}

func TestIsolatedEnvOverridesInheritedValue(t *testing.T) {
	t.Setenv("ARDUINO_DATA_DIR", "/home/someone/.arduino15")
	dataDir := t.TempDir()

	env := IsolatedEnv(dataDir)

	count := 0
	for _, kv := range env.Vars {
		if len(kv) > len("ARDUINO_DATA_DIR=") && kv[:len("ARDUINO_DATA_DIR=")] == "ARDUINO_DATA_DIR=" {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected exactly one ARDUINO_DATA_DIR entry, got %d", count)
	}
	if got, _ := env.Lookup("ARDUINO_DATA_DIR"); got != filepath.Join(dataDir, "arduino15") {
		t.Errorf("ARDUINO_DATA_DIR = %q", got)
	}
}

func TestBuildEnvAppendsMissingSorted(t *testing.T) {
	got := buildEnv([]string{"PATH=/bin", "B=old"}, map[string]string{"B": "new", "Z": "1", "A": "2"})
	want := []string{"PATH=/bin", "B=new", "A=2", "Z=1"}

	if len(got) != len(want) {
		t.Fatalf("buildEnv = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("buildEnv[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestNilEnvLookupUsesProcessEnv(t *testing.T) {
	t.Setenv("BOARDCHECK_LOOKUP", "x")
	var env *Env
	if got, ok := env.Lookup("BOARDCHECK_LOOKUP"); !ok || got != "x" {
		t.Errorf("Lookup = %q, %v", got, ok)
	}
}

func TestResolveBinaryMissing(t *testing.T) {
	if _, err := ResolveBinary(filepath.Join(t.TempDir(), "no-such-cli")); err == nil {
		t.Fatal("expected error for missing binary")
	}
}

func TestResolveBinaryPath(t *testing.T) {
	exe, err := os.Executable()
	if err != nil {
		t.Skip(err)
	}
	got, err := ResolveBinary(exe)
	if err != nil {
		t.Fatalf("ResolveBinary(%q): %v", exe, err)
	}
	if got != exe {
		t.Errorf("ResolveBinary = %q, want %q", got, exe)
	}
}
