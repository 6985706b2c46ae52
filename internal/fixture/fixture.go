package fixture

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
)

//go:embed connect_data.json
var defaultData []byte

// Default parses the fixture bundled with the binary.
func Default() (*ConnectData, error) {
	return Parse(defaultData)
}

// Load reads a fixture from path, or the bundled one when path is empty.
func Load(path string) (*ConnectData, error) {
	if path == "" {
		return Default()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture %s: %w", path, err)
	}
	data, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("fixture %s: %w", path, err)
	}
	return data, nil
}

// Parse decodes and validates a fixture document.
func Parse(raw []byte) (*ConnectData, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()

	var data ConnectData
	if err := dec.Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode fixture: %w", err)
	}
	if err := data.validate(); err != nil {
		return nil, err
	}
	return &data, nil
}

func (d *ConnectData) validate() error {
	seen := make(map[string]bool)
	for _, t := range append(append([]TerminalDescriptor{}, d.Terminals.Available...), d.Terminals.ComingSoon...) {
		if t.ID == "" {
			return fmt.Errorf("terminal %q has no id", t.Name)
		}
		if seen[t.ID] {
			return fmt.Errorf("duplicate terminal id %q", t.ID)
		}
		seen[t.ID] = true
	}
	if _, ok := d.HourlyActivity["Monday"]; !ok {
		return fmt.Errorf("hourly activity is missing the Monday series")
	}
	return nil
}
