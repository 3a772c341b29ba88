package deploy

import (
	"time"

	"hangul-fuzzy-search/pkg/similarity"
)

const (
	fnvOffset64 uint64 = 14695981039346656037
	fnvPrime64  uint64 = 1099511628211
)

// Bucket names accepted as a forcedBucket override to Resolve.
const (
	BucketControl   = "control"
	BucketTreatment = "treatment"
)

// BucketFor deterministically maps a (salt, userID) pair to a point in
// [0,1) via 64-bit FNV-1a over the UTF-8 bytes of "salt|userID". The same
// pair always lands on the same bucket, independent of process or host.
func BucketFor(salt, userID string) float64 {
	h := fnvOffset64
	for i := 0; i < len(salt); i++ {
		h ^= uint64(salt[i])
		h *= fnvPrime64
	}
	h ^= uint64('|')
	h *= fnvPrime64
	for i := 0; i < len(userID); i++ {
		h ^= uint64(userID[i])
		h *= fnvPrime64
	}
	return float64(h%10000) / 10000
}

// Decision is the full result of resolving a weight vector for a request:
// which environment and bucket it landed in, the weights to use, and the
// model version/update time they came from.
type Decision struct {
	Environment  string
	Bucket       string
	Weights      similarity.Weights
	ModelVersion string
	UpdatedAt    time.Time
}

// Resolve picks the weight vector a given user should see in env: the
// treatment vector if the environment's A/B policy is enabled, a
// treatment vector is configured, and the user's bucket falls below
// TreatmentRatio; the control vector otherwise. Returns
// ErrMissingEnvironment if env is not defined.
func (c DeploymentConfig) Resolve(env, userID string) (similarity.Weights, error) {
	d, err := c.ResolveDecision(env, userID, "")
	if err != nil {
		return similarity.Weights{}, err
	}
	return d.Weights, nil
}

// ResolveOrDefault sanitizes c, tries env, then falls back to
// "production", then to similarity.DefaultWeights, never returning an
// error.
func (c DeploymentConfig) ResolveOrDefault(env, userID string) similarity.Weights {
	sanitized := c.Sanitize(c.UpdatedAt)
	if d, err := sanitized.ResolveDecision(env, userID, ""); err == nil {
		return d.Weights
	}
	if d, err := sanitized.ResolveDecision("production", userID, ""); err == nil {
		return d.Weights
	}
	return similarity.DefaultWeights()
}

// ResolveDecision is Resolve with the full resolver contract: an optional
// forcedBucket ("control"/"treatment") overrides the bucketing
// computation. A forcedBucket of "treatment" with no treatment weights
// configured downgrades to control rather than erroring.
func (c DeploymentConfig) ResolveDecision(env, userID, forcedBucket string) (Decision, error) {
	ec, err := c.Environment(env)
	if err != nil {
		return Decision{}, err
	}
	bucket, weights := ec.resolve(userID, forcedBucket)
	return Decision{
		Environment:  env,
		Bucket:       bucket,
		Weights:      weights,
		ModelVersion: c.ModelVersion,
		UpdatedAt:    c.UpdatedAt,
	}, nil
}

func (e EnvConfig) resolve(userID, forcedBucket string) (string, similarity.Weights) {
	if forcedBucket == BucketTreatment && e.TreatmentWeights != nil {
		return BucketTreatment, *e.TreatmentWeights
	}
	if forcedBucket == BucketControl {
		return BucketControl, e.ControlWeights
	}
	if !e.ABPolicy.Enabled || e.TreatmentWeights == nil {
		return BucketControl, e.ControlWeights
	}
	if e.ABPolicy.TreatmentRatio <= 0 {
		return BucketControl, e.ControlWeights
	}
	if e.ABPolicy.TreatmentRatio >= 1 {
		return BucketTreatment, *e.TreatmentWeights
	}
	if userID == "" {
		return BucketControl, e.ControlWeights
	}
	if BucketFor(e.ABPolicy.Salt, userID) < e.ABPolicy.TreatmentRatio {
		return BucketTreatment, *e.TreatmentWeights
	}
	return BucketControl, e.ControlWeights
}

// Variant reports which arm ("control" or "treatment") userID would be
// bucketed into for env, for logging/telemetry purposes.
func (c DeploymentConfig) Variant(env, userID string) (string, error) {
	d, err := c.ResolveDecision(env, userID, "")
	if err != nil {
		return "", err
	}
	return d.Bucket, nil
}
