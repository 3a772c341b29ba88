package deploy

import (
	"fmt"
	"time"

	"hangul-fuzzy-search/pkg/feedback"
	"hangul-fuzzy-search/pkg/ranking"
	"hangul-fuzzy-search/pkg/tuning"
)

// NightlyTuningOptions configures one RunNightlyTuning pass.
type NightlyTuningOptions struct {
	Environment     string
	ModelVersionPrefix string
	MinOccurrences  int
	MaxSamples      int
	TuningOptions   tuning.Options
	PromoteToTreatment bool // if true, best weights land as TreatmentWeights with A/B enabled instead of replacing ControlWeights
	TreatmentRatio  float64
}

// DefaultNightlyTuningOptions returns conventional nightly-retune settings
// targeting "production" with a modest minimum-occurrence floor.
func DefaultNightlyTuningOptions() NightlyTuningOptions {
	return NightlyTuningOptions{
		Environment:        "production",
		ModelVersionPrefix: "nightly",
		MinOccurrences:     3,
		MaxSamples:         2000,
		TuningOptions:      tuning.DefaultOptions(),
		PromoteToTreatment: true,
		TreatmentRatio:     0.1,
	}
}

// NightlyTuningResult reports what RunNightlyTuning did.
type NightlyTuningResult struct {
	Config        DeploymentConfig
	TuningResult  tuning.Result
	SampleCount   int
}

// RunNightlyTuning aggregates click-through training samples from store,
// evaluates the current deployed weights as a baseline, searches for an
// improved weight vector, and returns an updated DeploymentConfig with
// either the control weights replaced or a new treatment arm added
// (per opts.PromoteToTreatment). It does not persist the result; callers
// pair it with Save. Returns ErrInsufficientSamples if the feedback store
// does not yield enough labeled samples to retune against.
func RunNightlyTuning(current DeploymentConfig, store *feedback.Store, src ranking.Source, opts NightlyTuningOptions, now time.Time) (NightlyTuningResult, error) {
	samples := store.TrainingSamples(opts.MinOccurrences, opts.MaxSamples)
	if len(samples) == 0 {
		return NightlyTuningResult{}, fmt.Errorf("%w: 0 samples with >= %d occurrences", ErrInsufficientSamples, opts.MinOccurrences)
	}

	env, err := current.Environment(opts.Environment)
	if err != nil {
		return NightlyTuningResult{}, err
	}

	tuningOpts := opts.TuningOptions
	tuningOpts.BaseWeights = env.ControlWeights

	tuneSamples := make([]tuning.Sample, len(samples))
	copy(tuneSamples, samples)

	result := tuning.TuneWeights(src, tuneSamples, tuningOpts)

	updatedEnv := env
	if opts.PromoteToTreatment {
		tw := result.BestWeights
		updatedEnv.TreatmentWeights = &tw
		updatedEnv.ABPolicy.Enabled = true
		ratio := opts.TreatmentRatio
		if ratio <= 0 {
			ratio = 0.1
		}
		updatedEnv.ABPolicy.TreatmentRatio = ratio
	} else {
		updatedEnv.ControlWeights = result.BestWeights
	}

	next := current
	next.Environments = cloneEnvironments(current.Environments)
	next.Environments[opts.Environment] = updatedEnv
	next = next.WithBumpedModelVersion(opts.ModelVersionPrefix, opts.Environment, now)
	next = next.Sanitize(now)

	return NightlyTuningResult{Config: next, TuningResult: result, SampleCount: len(samples)}, nil
}

func cloneEnvironments(src map[string]EnvConfig) map[string]EnvConfig {
	out := make(map[string]EnvConfig, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
