package deploy

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// LoadOrDefault reads a DeploymentConfig from path. Both a missing file
// and a malformed one are sanitize-or-default cases, not failures: either
// yields Sanitize'd Default(). Callers who need to distinguish a parse
// failure from a genuinely absent file should use LoadStrict instead.
func LoadOrDefault(path string, now time.Time) (DeploymentConfig, error) {
	cfg, err := LoadStrict(path)
	if err != nil {
		return Default().Sanitize(now), nil
	}
	return cfg.Sanitize(now), nil
}

// LoadStrict reads and parses a DeploymentConfig from path, returning
// ErrMissingFile (wrapping the underlying os error) if it does not exist.
func LoadStrict(path string) (DeploymentConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DeploymentConfig{}, fmt.Errorf("%w: %s: %v", ErrMissingFile, path, err)
		}
		return DeploymentConfig{}, err
	}
	var cfg DeploymentConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return DeploymentConfig{}, fmt.Errorf("deploy: parsing %s: %w", path, err)
	}
	return cfg, nil
}

// Save pretty-prints c as JSON (sorted map keys, per encoding/json's
// default map marshaling, two-space indent, ISO-8601 timestamps via
// time.Time's default JSON encoding) and writes it to path.
func Save(path string, c DeploymentConfig) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("deploy: encoding config: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("deploy: writing %s: %w", path, err)
	}
	return nil
}
