// Package ci classifies the process environment as continuous integration
// or not. Hardware tests use it to skip on machines without serial ports.
package ci

import (
	"os"
	"strings"
)

// Vars are the environment variables set by the CI services we recognise.
var Vars = []string{
	"CI",
	"APPVEYOR",
	"DRONE",
	"GITHUB_WORKFLOW",
	"GITHUB_ACTIONS",
	"TRAVIS",
	"GITLAB_CI",
	"JENKINS_URL",
	"BUILDKITE",
}

// LookupFunc has the signature of os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// Detect reports whether the current process runs under CI.
func Detect() bool {
	return Match(os.LookupEnv) != ""
}

// Detector returns a detector bound to lookup, suitable for injecting into
// test fixtures.
func Detector(lookup LookupFunc) func() bool {
	return func() bool {
		return Match(lookup) != ""
	}
}

// Match returns the first recognised CI variable present in the environment,
// or "" when none is. Empty values and the values "false" and "0" do not count.
func Match(lookup LookupFunc) string {
	for _, name := range Vars {
		val, ok := lookup(name)
		if !ok {
			continue
		}
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "", "false", "0":
			continue
		}
		return name
	}
	return ""
}
