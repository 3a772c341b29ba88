package deploy

import "errors"

// ErrMissingEnvironment is returned when Resolve is asked for an
// environment the deployment config does not define.
var ErrMissingEnvironment = errors.New("deploy: missing environment")

// ErrMissingFile is returned by LoadStrict when the backing config file
// does not exist.
var ErrMissingFile = errors.New("deploy: missing config file")

// ErrInsufficientSamples is returned by RunNightlyTuning when the
// feedback store did not yield enough training samples to retune.
var ErrInsufficientSamples = errors.New("deploy: insufficient training samples")

// The fourth boundary error kind, InvalidComponents (syllable builder,
// strict mode only), is not a deployment concern: it lives as
// hangul.ErrInvalidComponents, returned by hangul.AssembleStrict.
