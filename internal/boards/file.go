package boards

import (
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v3"
)

// File is the YAML fixture format for boards that cannot be auto-detected:
//
//	boards:
//	  - fqbn: arduino:avr:uno
//	    address: /dev/ttyACM0
type File struct {
	Boards []Board `yaml:"boards"`
}

// LoadFile reads a board fixture file. Every entry must have a valid FQBN
// and an address; a missing core is derived from the FQBN.
func LoadFile(path string) ([]Board, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	for i := range f.Boards {
		b := &f.Boards[i]
		if err := b.Validate(); err != nil {
			return nil, fmt.Errorf("%s: board %d: %w", path, i, err)
		}
		if b.Core, err = b.CoreID(); err != nil {
			return nil, fmt.Errorf("%s: board %d: %w", path, i, err)
		}
	}
	return f.Boards, nil
}

// SaveFile writes boards in the fixture format.
func SaveFile(path string, boards []Board) error {
	data, err := yaml.Marshal(File{Boards: boards})
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
