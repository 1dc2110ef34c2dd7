// Package boards describes the devices a run uploads to and how they are
// discovered: from the CLI's board list, or from a YAML fixture file.
package boards

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidFQBN is returned for a board identifier that is not of the form
// package:architecture:id[:options].
var ErrInvalidFQBN = errors.New("invalid FQBN")

// Board is one attached device under test.
type Board struct {
	Name     string `yaml:"name,omitempty" json:"name,omitempty"`
	Core     string `yaml:"core,omitempty" json:"core"`
	FQBN     string `yaml:"fqbn" json:"fqbn"`
	Address  string `yaml:"address" json:"address"`
	Protocol string `yaml:"protocol,omitempty" json:"protocol,omitempty"`
}

// FQBN is a parsed fully-qualified board name.
type FQBN struct {
	Package      string
	Architecture string
	BoardID      string
	Options      string
}

// ParseFQBN splits s into its components.
func ParseFQBN(s string) (FQBN, error) {
	parts := strings.SplitN(s, ":", 4)
	if len(parts) < 3 {
		return FQBN{}, fmt.Errorf("%w: %q", ErrInvalidFQBN, s)
	}
	for _, p := range parts[:3] {
		if p == "" {
			return FQBN{}, fmt.Errorf("%w: %q", ErrInvalidFQBN, s)
		}
	}
	f := FQBN{Package: parts[0], Architecture: parts[1], BoardID: parts[2]}
	if len(parts) == 4 {
		f.Options = parts[3]
	}
	return f, nil
}

// Core returns the platform identifier, package:architecture.
func (f FQBN) Core() string {
	return f.Package + ":" + f.Architecture
}

// CoreID returns the board's platform package, deriving it from the FQBN
// when Core is not set.
func (b Board) CoreID() (string, error) {
	if b.Core != "" {
		return b.Core, nil
	}
	f, err := ParseFQBN(b.FQBN)
	if err != nil {
		return "", err
	}
	return f.Core(), nil
}

// Validate checks the fields the upload sequence depends on.
func (b Board) Validate() error {
	if _, err := ParseFQBN(b.FQBN); err != nil {
		return err
	}
	if b.Address == "" {
		return fmt.Errorf("board %s: missing address", b.FQBN)
	}
	return nil
}

func (b Board) String() string {
	if b.Address == "" {
		return b.FQBN
	}
	return b.FQBN + "@" + b.Address
}
