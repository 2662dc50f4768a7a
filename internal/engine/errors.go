package engine

import "errors"

// ErrEngineTimeout surfaces when the orchestrator-level deadline expires
// before a result is assembled. The whole request fails; no partial list is
// returned.
var ErrEngineTimeout = errors.New("engine: timed out assembling recommendations")

// ErrEngineInternal is the sentinel for an unexpected failure escaping the
// orchestrator's own scope that is not a scorer-local recovery. Recommend
// does not return it: a failed cache write is logged and the computed
// result is still returned, and no setting makes a cache-write failure
// fail the request.
var ErrEngineInternal = errors.New("engine: internal error")

// errProfileDegraded and errScorerFailure are never returned to callers;
// they exist only so internal logging can tag which recovery path fired
// (PROFILE_DEGRADED / SCORER_FAILURE in the error taxonomy).
var errProfileDegraded = errors.New("engine: profile builder degraded to zero profile")
var errScorerFailure = errors.New("engine: scorer failed, yielding empty result")
