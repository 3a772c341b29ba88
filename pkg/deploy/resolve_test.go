package deploy_test

import (
	"testing"
	"time"

	"hangul-fuzzy-search/pkg/deploy"
	"hangul-fuzzy-search/pkg/similarity"
)

func abConfig() deploy.DeploymentConfig {
	treatment := similarity.Weights{EditDistance: 1.5, Jaccard: 1.0, Keyboard: 1.0, Jamo: 1.0, Exact: 0.4, Prefix: 0.2}
	return deploy.DeploymentConfig{
		Environments: map[string]deploy.EnvConfig{
			"production": {
				ControlWeights:   similarity.DefaultWeights(),
				TreatmentWeights: &treatment,
				ABPolicy:         deploy.ABPolicy{Enabled: true, TreatmentRatio: 0.5, Salt: "prod-salt"},
			},
		},
	}
}

// Spec §8 scenario 6.
func TestBucketForIsStableAcrossRepeatedCalls(t *testing.T) {
	first := deploy.BucketFor("prod-salt", "user-1001")
	for i := 0; i < 10; i++ {
		if got := deploy.BucketFor("prod-salt", "user-1001"); got != first {
			t.Errorf("BucketFor not stable: run %d got %v, want %v", i, got, first)
		}
	}
}

// Spec §8 scenario 6.
func TestResolveDecisionForcedTreatmentWithWeightsPresent(t *testing.T) {
	cfg := abConfig()
	d, err := cfg.ResolveDecision("production", "user-1001", deploy.BucketTreatment)
	if err != nil {
		t.Fatalf("ResolveDecision returned error: %v", err)
	}
	if d.Bucket != deploy.BucketTreatment {
		t.Errorf("Bucket = %q, want treatment", d.Bucket)
	}
	env := cfg.Environments["production"]
	if d.Weights != *env.TreatmentWeights {
		t.Errorf("Weights = %+v, want the configured treatment weights", d.Weights)
	}
}

func TestResolveDecisionForcedTreatmentWithoutWeightsDowngrades(t *testing.T) {
	cfg := deploy.Default()
	d, err := cfg.ResolveDecision("production", "user-1", deploy.BucketTreatment)
	if err != nil {
		t.Fatalf("ResolveDecision returned error: %v", err)
	}
	if d.Bucket != deploy.BucketControl {
		t.Errorf("Bucket = %q, want control (no treatment weights configured)", d.Bucket)
	}
}

func TestResolveRatioZeroAlwaysControl(t *testing.T) {
	cfg := abConfig()
	env := cfg.Environments["production"]
	env.ABPolicy.TreatmentRatio = 0
	cfg.Environments["production"] = env

	for _, uid := range []string{"a", "b", "c", "user-1001"} {
		d, err := cfg.ResolveDecision("production", uid, "")
		if err != nil {
			t.Fatalf("ResolveDecision returned error: %v", err)
		}
		if d.Bucket != deploy.BucketControl {
			t.Errorf("uid=%q bucket = %q, want control with ratio=0", uid, d.Bucket)
		}
	}
}

func TestResolveRatioOneAlwaysTreatment(t *testing.T) {
	cfg := abConfig()
	env := cfg.Environments["production"]
	env.ABPolicy.TreatmentRatio = 1
	cfg.Environments["production"] = env

	for _, uid := range []string{"a", "b", "c", "user-1001"} {
		d, err := cfg.ResolveDecision("production", uid, "")
		if err != nil {
			t.Fatalf("ResolveDecision returned error: %v", err)
		}
		if d.Bucket != deploy.BucketTreatment {
			t.Errorf("uid=%q bucket = %q, want treatment with ratio=1", uid, d.Bucket)
		}
	}
}

func TestResolveEmptyUserIDIsControl(t *testing.T) {
	cfg := abConfig()
	d, err := cfg.ResolveDecision("production", "", "")
	if err != nil {
		t.Fatalf("ResolveDecision returned error: %v", err)
	}
	if d.Bucket != deploy.BucketControl {
		t.Errorf("Bucket = %q, want control for an empty userID", d.Bucket)
	}
}

func TestResolveDisabledABIsAlwaysControl(t *testing.T) {
	cfg := abConfig()
	env := cfg.Environments["production"]
	env.ABPolicy.Enabled = false
	cfg.Environments["production"] = env

	w, err := cfg.Resolve("production", "user-1001")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if w != env.ControlWeights {
		t.Errorf("Resolve with AB disabled = %+v, want control weights %+v", w, env.ControlWeights)
	}
}

func TestResolveMissingEnvironmentReturnsError(t *testing.T) {
	cfg := deploy.Default()
	if _, err := cfg.Resolve("nonexistent", "u"); err == nil {
		t.Error("Resolve(nonexistent) returned no error")
	}
}

func TestResolveOrDefaultFallsBackToProductionThenDefaultWeights(t *testing.T) {
	cfg := abConfig()
	w := cfg.ResolveOrDefault("staging-does-not-exist", "user-1001")
	env := cfg.Environments["production"]
	_ = env
	if w == (similarity.Weights{}) {
		t.Error("ResolveOrDefault returned a zero-value weights vector")
	}

	empty := deploy.DeploymentConfig{}
	w2 := empty.ResolveOrDefault("anything", "user-1001")
	if w2 != similarity.DefaultWeights() {
		t.Errorf("ResolveOrDefault on empty config = %+v, want DefaultWeights", w2)
	}
}

func TestVariantReflectsResolvedBucket(t *testing.T) {
	cfg := abConfig()
	variant, err := cfg.Variant("production", "user-1001")
	if err != nil {
		t.Fatalf("Variant returned error: %v", err)
	}
	if variant != "control" && variant != "treatment" {
		t.Errorf("Variant = %q, want control or treatment", variant)
	}
}

func TestResolveDecisionCarriesModelVersionAndUpdatedAt(t *testing.T) {
	cfg := abConfig()
	cfg.ModelVersion = "nightly-production-20260729-030000-from-baseline"
	cfg.UpdatedAt = time.Date(2026, 7, 29, 3, 0, 0, 0, time.UTC)

	d, err := cfg.ResolveDecision("production", "user-1001", "")
	if err != nil {
		t.Fatalf("ResolveDecision returned error: %v", err)
	}
	if d.ModelVersion != cfg.ModelVersion {
		t.Errorf("ModelVersion = %q, want %q", d.ModelVersion, cfg.ModelVersion)
	}
	if !d.UpdatedAt.Equal(cfg.UpdatedAt) {
		t.Errorf("UpdatedAt = %v, want %v", d.UpdatedAt, cfg.UpdatedAt)
	}
}
