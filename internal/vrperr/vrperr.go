// Package vrperr declares the error kinds the solver core distinguishes,
// per the error handling design: malformed instances, misdeclared
// resources, infeasible or failing LP backends, and budget exhaustion.
package vrperr

import "fmt"

// Kind identifies one of the error categories the core must distinguish.
type Kind int

const (
	// KindInstance marks a malformed or inconsistent instance (negative
	// demand, reversed time window, ...). Fatal, surfaced before solving.
	KindInstance Kind = iota
	// KindResourceMisdeclared marks a REF producing a value outside its
	// resource's domain, or a non-monotone transformation caught by a
	// debug check. Indicates a modeling bug.
	KindResourceMisdeclared
	// KindInfeasibleMaster marks an RMP that is infeasible even after
	// seeding with trivial routes or big-M slacks.
	KindInfeasibleMaster
	// KindSolverBackendFailure marks an LP backend error or non-optimal
	// status.
	KindSolverBackendFailure
	// KindIterationLimit marks exhaustion of the configured iteration
	// budget. Not a failure: the orchestrator returns its best-known
	// bound and column set.
	KindIterationLimit
	// KindTimeout marks exhaustion of the wall-clock budget. Same
	// non-failure treatment as KindIterationLimit.
	KindTimeout
)

func (k Kind) String() string {
	switch k {
	case KindInstance:
		return "InstanceError"
	case KindResourceMisdeclared:
		return "ResourceMisdeclared"
	case KindInfeasibleMaster:
		return "InfeasibleMaster"
	case KindSolverBackendFailure:
		return "SolverBackendFailure"
	case KindIterationLimit:
		return "IterationLimit"
	case KindTimeout:
		return "Timeout"
	default:
		return "Unknown"
	}
}

// Error is a typed solver-core error. It wraps an optional underlying
// cause so callers can use errors.Is/errors.As against Kind via Is, or
// unwrap to inspect the original failure.
type Error struct {
	Kind    Kind
	Context string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Context, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Context)
}

func (e *Error) Unwrap() error { return e.Cause }

// Is reports whether target is an *Error with the same Kind, so
// errors.Is(err, vrperr.New(vrperr.KindInstance, "", nil)) works. The
// package-level Is below checks a Kind directly:
// vrperr.Is(err, vrperr.KindInstance).
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == other.Kind
}

// New builds an *Error of the given kind with context and an optional
// wrapped cause.
func New(kind Kind, context string, cause error) *Error {
	return &Error{Kind: kind, Context: context, Cause: cause}
}

// Is reports whether err is a *vrperr.Error of the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	for err != nil {
		if ae, ok := err.(*Error); ok {
			e = ae
			break
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = u.Unwrap()
	}
	if e == nil {
		return false
	}
	return e.Kind == kind
}
