package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/okian/gradepilot/internal/domain/model"
)

// LoadSnapshot reads a snapshot from a .json, .yaml or .yml file. Both
// formats go through the same lenient JSON decoding of model.Snapshot.
func LoadSnapshot(path string) (model.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("read snapshot: %w", err)
	}
	return ParseSnapshot(filepath.Ext(path), data)
}

// ParseSnapshot decodes data according to ext.
func ParseSnapshot(ext string, data []byte) (model.Snapshot, error) {
	var snap model.Snapshot
	switch strings.ToLower(ext) {
	case ".json", "":
	case ".yaml", ".yml":
		m, err := yaml.Parser().Unmarshal(data)
		if err != nil {
			return snap, fmt.Errorf("parse yaml snapshot: %w", err)
		}
		if data, err = json.Marshal(m); err != nil {
			return snap, fmt.Errorf("convert yaml snapshot: %w", err)
		}
	default:
		return snap, fmt.Errorf("%w: %q", ErrUnsupportedFile, ext)
	}

	if err := json.Unmarshal(data, &snap); err != nil {
		return snap, fmt.Errorf("decode snapshot: %w", err)
	}
	return snap, nil
}
