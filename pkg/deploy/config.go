// Package deploy holds the per-environment deployment configuration for
// the similarity engine: which weight vector is live, whether an A/B
// experiment is running, and the bucketing rule that assigns a given
// user to control or treatment.
package deploy

import (
	"fmt"
	"time"

	"hangul-fuzzy-search/pkg/similarity"
)

const schemaVersion = 1

// ABPolicy controls whether a fraction of traffic in an environment is
// diverted to a treatment weight vector.
type ABPolicy struct {
	Enabled       bool    `json:"enabled"`
	TreatmentRatio float64 `json:"treatmentRatio"`
	Salt          string  `json:"salt"`
}

// EnvConfig is the deployment configuration for one environment: the
// control weights every request gets by default, an optional treatment
// weight vector, and the A/B policy choosing between them.
type EnvConfig struct {
	ControlWeights   similarity.Weights `json:"controlWeights"`
	TreatmentWeights *similarity.Weights `json:"treatmentWeights,omitempty"`
	ABPolicy         ABPolicy           `json:"abPolicy"`
}

// DeploymentConfig is the full, versioned deployment document, one
// EnvConfig per environment name ("production", "staging", ...).
type DeploymentConfig struct {
	SchemaVersion int                  `json:"schemaVersion"`
	ModelVersion  string               `json:"modelVersion"`
	UpdatedAt     time.Time            `json:"updatedAt"`
	Environments  map[string]EnvConfig `json:"environments"`
}

// Default returns a single-environment ("production") deployment config
// running similarity.DefaultWeights with A/B disabled.
func Default() DeploymentConfig {
	return DeploymentConfig{
		SchemaVersion: schemaVersion,
		ModelVersion:  "baseline",
		UpdatedAt:     time.Time{},
		Environments: map[string]EnvConfig{
			"production": {
				ControlWeights: similarity.DefaultWeights(),
				ABPolicy:       ABPolicy{Salt: "production"},
			},
		},
	}
}

// Sanitize returns a copy of c with every field coerced into its valid
// range: weights clamped, treatment ratio clamped to [0,1], a missing
// salt defaulted to the environment name, a zero schema version set to
// the current one, a blank model version set to "baseline", and an
// epoch-or-earlier UpdatedAt set to now. An empty Environments map gets
// the "production" default environment.
func (c DeploymentConfig) Sanitize(now time.Time) DeploymentConfig {
	out := DeploymentConfig{
		SchemaVersion: c.SchemaVersion,
		ModelVersion:  c.ModelVersion,
		UpdatedAt:     c.UpdatedAt,
		Environments:  make(map[string]EnvConfig, len(c.Environments)),
	}
	if out.SchemaVersion <= 0 {
		out.SchemaVersion = schemaVersion
	}
	if out.ModelVersion == "" {
		out.ModelVersion = "baseline"
	}
	if out.UpdatedAt.IsZero() || out.UpdatedAt.Unix() <= 0 {
		out.UpdatedAt = now
	}

	for name, env := range c.Environments {
		out.Environments[name] = env.sanitized(name)
	}
	if len(out.Environments) == 0 {
		def := Default()
		for name, env := range def.Environments {
			out.Environments[name] = env.sanitized(name)
		}
	}
	return out
}

func (e EnvConfig) sanitized(envName string) EnvConfig {
	out := EnvConfig{
		ControlWeights: e.ControlWeights.Clamp(),
		ABPolicy:       e.ABPolicy.sanitized(envName),
	}
	if e.TreatmentWeights != nil {
		tw := e.TreatmentWeights.Clamp()
		out.TreatmentWeights = &tw
	} else {
		// Invariant: absent treatment weights force AB off.
		out.ABPolicy.Enabled = false
		out.ABPolicy.TreatmentRatio = 0
	}
	if !out.ABPolicy.Enabled {
		out.ABPolicy.TreatmentRatio = 0
	}
	return out
}

func (p ABPolicy) sanitized(envName string) ABPolicy {
	out := p
	if out.TreatmentRatio < 0 {
		out.TreatmentRatio = 0
	}
	if out.TreatmentRatio > 1 {
		out.TreatmentRatio = 1
	}
	if out.Salt == "" {
		out.Salt = envName
	}
	return out
}

// Environment looks up one environment's config, returning
// ErrMissingEnvironment if it is not defined.
func (c DeploymentConfig) Environment(name string) (EnvConfig, error) {
	env, ok := c.Environments[name]
	if !ok {
		return EnvConfig{}, fmt.Errorf("%w: %q", ErrMissingEnvironment, name)
	}
	return env, nil
}

// WithBumpedModelVersion returns a copy of c with ModelVersion set to a
// timestamped string recording the environment, the new UpdatedAt, and
// the version it replaced. Used by RunNightlyTuning to record provenance
// after a retune.
func (c DeploymentConfig) WithBumpedModelVersion(prefix, env string, now time.Time) DeploymentConfig {
	out := c
	out.UpdatedAt = now
	out.ModelVersion = fmt.Sprintf("%s-%s-%s-from-%s", prefix, env, now.UTC().Format("20060102-150405"), c.ModelVersion)
	return out
}
