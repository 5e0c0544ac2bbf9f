package sim

import "fmt"

// InvalidConfigError reports a schema or business-rule violation in a
// SimulationConfig or ScenarioConfig, discovered before the scheduler
// starts. The run never begins; no partial state is produced.
type InvalidConfigError struct {
	Field  string
	Reason string
}

func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %s: %s", e.Field, e.Reason)
}

func invalidConfig(field, reason string) *InvalidConfigError {
	return &InvalidConfigError{Field: field, Reason: reason}
}

// SimulationRuntimeError reports a contingency encountered mid-run that is
// not a broken invariant (e.g. exhausted telemetry storage). The model as
// specified has no code path that raises one once config validation has
// passed; it exists so callers have somewhere to route operational failures
// without conflating them with programmer bugs.
type SimulationRuntimeError struct {
	Reason string
}

func (e *SimulationRuntimeError) Error() string {
	return fmt.Sprintf("simulation runtime error: %s", e.Reason)
}

// InternalInvariantError reports a violated data-model invariant (e.g. a
// battery found in two containers at once, clock moving backwards).
// Constructing one always indicates a bug in this package, not bad input;
// callers that run into one should treat the run as failed and discard
// partial stats, the same way a scheduler clock regression panics rather
// than returning an error.
type InternalInvariantError struct {
	Invariant string
}

func (e *InternalInvariantError) Error() string {
	return fmt.Sprintf("internal invariant violated: %s", e.Invariant)
}

func invariantViolation(format string, args ...any) *InternalInvariantError {
	return &InternalInvariantError{Invariant: fmt.Sprintf(format, args...)}
}
