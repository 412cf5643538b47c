package infra

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chrisconley/metcorr/specs"
	"gopkg.in/yaml.v3"
)

// ReadEventsFile reads all events from a file. Files ending in .yaml or .yml
// are read as a multi-document YAML stream, anything else as a stream of
// JSON values (one event per line by convention).
func ReadEventsFile(path string) ([]specs.EventSpec, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open events file: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ReadYAMLEvents(f)
	default:
		return ReadJSONEvents(f)
	}
}

// ReadJSONEvents decodes consecutive JSON event objects until EOF.
func ReadJSONEvents(r io.Reader) ([]specs.EventSpec, error) {
	dec := json.NewDecoder(r)
	events := make([]specs.EventSpec, 0)
	for {
		var event specs.EventSpec
		err := dec.Decode(&event)
		if errors.Is(err, io.EOF) {
			return events, nil
		}
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", len(events), err)
		}
		events = append(events, event)
	}
}

// ReadYAMLEvents decodes one event per YAML document until EOF.
func ReadYAMLEvents(r io.Reader) ([]specs.EventSpec, error) {
	dec := yaml.NewDecoder(r)
	events := make([]specs.EventSpec, 0)
	for {
		var event specs.EventSpec
		err := dec.Decode(&event)
		if errors.Is(err, io.EOF) {
			return events, nil
		}
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", len(events), err)
		}
		events = append(events, event)
	}
}
