// Package lpbackend specifies the LP/MIP backend capability (B) the
// orchestrator consumes: create a problem handle, add variables and
// constraints incrementally, solve the LP relaxation for primals and
// duals, and solve the declared-integer variables as a MIP for the final
// restoration step. Concrete backends plug in behind this interface; one
// is provided over a commercial solver (gurobi), another is a small
// reference simplex implementation used where a commercial license isn't
// available (tests, CI).
package lpbackend

import "github.com/azaryc2s/vrptw-cg/internal/vrperr"

// Sense is a constraint's relational operator.
type Sense int

const (
	LE Sense = iota
	EQ
	GE
)

// Backend is the abstract LP/MIP capability set the orchestrator relies on.
type Backend interface {
	// AddConstraint declares a named constraint `sum coeffs * x <sense> rhs`.
	// Coefficients are supplied later, per-variable, via AddVariable's
	// colCoeffs (a column-oriented build, matching how the orchestrator
	// adds new routes/columns after each pricing round).
	AddConstraint(name string, sense Sense, rhs float64) error
	// AddVariable declares a variable with objective coefficient
	// objCoeff, bounds [lb, ub] (ub may be +Inf), optionally integer, and
	// its nonzero coefficients in already-declared constraints.
	AddVariable(name string, objCoeff, lb, ub float64, integer bool, colCoeffs map[string]float64) error
	// SolveRelaxation solves the LP relaxation (every variable treated
	// as continuous regardless of its declared integrality) and returns
	// the objective, primal values per variable name, and dual values
	// per constraint name.
	SolveRelaxation() (objective float64, primals map[string]float64, duals map[string]float64, err error)
	// SolveInteger solves the MIP honoring declared integrality and
	// returns the objective and primal values per variable name.
	SolveInteger() (objective float64, primals map[string]float64, err error)
}

// Variable and Constraint are the backend-agnostic bookkeeping records
// shared by every concrete backend.
type Variable struct {
	Name      string
	ObjCoeff  float64
	LB, UB    float64
	Integer   bool
	ColCoeffs map[string]float64
}

type Constraint struct {
	Name  string
	Sense Sense
	RHS   float64
}

// Model is the backend-agnostic incremental problem representation; both
// concrete backends embed it so AddConstraint/AddVariable bookkeeping is
// written once.
type Model struct {
	Name            string
	Variables       []Variable
	Constraints     []Constraint
	varIndex        map[string]int
	constraintIndex map[string]int
}

func NewModel(name string) *Model {
	return &Model{Name: name, varIndex: map[string]int{}, constraintIndex: map[string]int{}}
}

func (m *Model) AddConstraint(name string, sense Sense, rhs float64) error {
	if _, exists := m.constraintIndex[name]; exists {
		return vrperr.New(vrperr.KindSolverBackendFailure, "duplicate constraint "+name, nil)
	}
	m.constraintIndex[name] = len(m.Constraints)
	m.Constraints = append(m.Constraints, Constraint{Name: name, Sense: sense, RHS: rhs})
	return nil
}

func (m *Model) AddVariable(name string, objCoeff, lb, ub float64, integer bool, colCoeffs map[string]float64) error {
	if _, exists := m.varIndex[name]; exists {
		return vrperr.New(vrperr.KindSolverBackendFailure, "duplicate variable "+name, nil)
	}
	cc := make(map[string]float64, len(colCoeffs))
	for k, v := range colCoeffs {
		if _, ok := m.constraintIndex[k]; !ok {
			return vrperr.New(vrperr.KindSolverBackendFailure, "unknown constraint "+k+" referenced by variable "+name, nil)
		}
		cc[k] = v
	}
	m.varIndex[name] = len(m.Variables)
	m.Variables = append(m.Variables, Variable{Name: name, ObjCoeff: objCoeff, LB: lb, UB: ub, Integer: integer, ColCoeffs: cc})
	return nil
}
