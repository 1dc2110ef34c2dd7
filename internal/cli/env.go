package cli

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
)

// Env holds the environment and working directory applied to CLI invocations.
// A nil *Env leaves the parent process environment untouched.
type Env struct {
	Dir  string
	Vars []string
}

// Directory layout created under the data dir by IsolatedEnv.
const (
	DataSubdir       = "arduino15"
	DownloadsSubdir  = "staging"
	SketchbookSubdir = "Arduino"
)

// IsolatedEnv returns an Env that points the CLI's data, downloads and
// sketchbook directories inside dataDir and runs commands from dataDir,
// so a run never touches the user's own installation.
func IsolatedEnv(dataDir string) *Env {
	return &Env{
		Dir: dataDir,
		Vars: buildEnv(os.Environ(), map[string]string{
			"ARDUINO_DATA_DIR":       filepath.Join(dataDir, DataSubdir),
			"ARDUINO_DOWNLOADS_DIR":  filepath.Join(dataDir, DataSubdir, DownloadsSubdir),
			"ARDUINO_SKETCHBOOK_DIR": filepath.Join(dataDir, SketchbookSubdir),
		}),
	}
}

// Lookup returns the value of key in the Env, falling back to the process
// environment for a nil Env.
func (e *Env) Lookup(key string) (string, bool) {
	if e == nil {
		return os.LookupEnv(key)
	}
	prefix := key + "="
	for _, kv := range e.Vars {
		if strings.HasPrefix(kv, prefix) {
			return kv[len(prefix):], true
		}
	}
	return "", false
}

// buildEnv returns a copy of env with overrides replacing or appending keys.
func buildEnv(env []string, overrides map[string]string) []string {
	result := make([]string, 0, len(env)+len(overrides))
	seen := make(map[string]bool, len(overrides))

	for _, e := range env {
		key, _, _ := strings.Cut(e, "=")
		if val, ok := overrides[key]; ok {
			result = append(result, key+"="+val)
			seen[key] = true
			continue
		}
		result = append(result, e)
	}

	var missing []string
	for key := range overrides {
		if !seen[key] {
			missing = append(missing, key)
		}
	}
	sort.Strings(missing)
	for _, key := range missing {
		result = append(result, key+"="+overrides[key])
	}
	return result
}

func (e *Env) apply(cmd *exec.Cmd) {
	if e == nil {
		return
	}
	if e.Vars != nil {
		cmd.Env = e.Vars
	}
	if e.Dir != "" {
		cmd.Dir = e.Dir
	}
}

// ResolveBinary finds the CLI executable. Bare names are searched on PATH;
// paths are checked for existence.
func ResolveBinary(name string) (string, error) {
	if name == "" {
		name = DefaultBinary
	}
	if runtime.GOOS == "windows" && filepath.Ext(name) == "" {
		name += ".exe"
	}
	path, err := exec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", name, err)
	}
	return path, nil
}
