package lpbackend

import (
	"math"

	"github.com/azaryc2s/vrptw-cg/internal/vrperr"
)

// bigM is the penalty cost attached to artificial variables. It must
// dominate any plausible objective coefficient in a VRPTW RMP (costs are
// Euclidean distances, duals bounded by those costs); 1e7 is comfortably
// above both.
const bigM = 1e7

// NativeBackend is a dense-tableau Big-M simplex Backend, used where a
// commercial solver license isn't available (unit tests, CI, and as a
// drop-in fallback). It is deliberately not optimized for large
// instances: the restricted master problem stays small (one row per
// customer plus one column per known route), so a textbook simplex is
// adequate and keeps the reference implementation auditable without a
// third-party LP dependency.
//
// Every declared constraint RHS must be nonnegative, which holds for
// every constraint the orchestrator builds (set-covering rows have
// RHS=1; explicit upper-bound rows have RHS=ub>=0).
type NativeBackend struct {
	*Model
}

func NewNativeBackend(name string) *NativeBackend {
	return &NativeBackend{Model: NewModel(name)}
}

// tableauRow index bookkeeping for one constraint: which extra column
// (slack, surplus, or artificial) is attached and whether that column is
// a pure slack (cost 0, usable for dual extraction directly) or an
// artificial (cost bigM).
type extraCol struct {
	col      int
	isArt    bool
	isSurp   bool
	rowIndex int
}

func (b *NativeBackend) buildTableau(relaxedIntegers bool) (tab [][]float64, objRow []float64, colNames []string, extras []extraCol, basis []int, err error) {
	nRows := len(b.Constraints)
	// Upper-bound rows: one extra <= row per variable with finite ub,
	// so the simplex (built only with nonnegative variables and
	// row-wise senses) can express x_j <= ub_j without a bounded-variable
	// variant.
	// Lower-bound rows: one extra >= row per variable with lb > 0.
	ubRows := make([]int, 0, len(b.Variables))
	var lbRows []int
	for vi, v := range b.Variables {
		if !math.IsInf(v.UB, 1) {
			ubRows = append(ubRows, vi)
		}
		if v.LB > 0 {
			lbRows = append(lbRows, vi)
		}
	}
	totalRows := nRows + len(ubRows) + len(lbRows)

	nStruct := len(b.Variables)
	// Count extra columns: one per row (slack for <=, surplus+artificial
	// for >=, artificial for =).
	nExtra := 0
	for _, c := range b.Constraints {
		if c.Sense == GE {
			nExtra += 2
		} else {
			nExtra++
		}
	}
	nExtra += len(ubRows)     // plain slack per ub row
	nExtra += 2 * len(lbRows) // surplus+artificial per lb row

	nCols := nStruct + nExtra
	tab = make([][]float64, totalRows)
	for i := range tab {
		tab[i] = make([]float64, nCols+1) // +1 for RHS
	}
	cost := make([]float64, nCols)
	colNames = make([]string, nCols)
	for vi, v := range b.Variables {
		colNames[vi] = v.Name
		cost[vi] = v.ObjCoeff
		for cname, coeff := range v.ColCoeffs {
			ri := b.constraintIndex[cname]
			tab[ri][vi] = coeff
		}
	}

	basis = make([]int, totalRows)
	extras = make([]extraCol, nRows)
	col := nStruct
	for ri, c := range b.Constraints {
		tab[ri][nCols] = c.RHS
		if c.RHS < 0 {
			err = vrperr.New(vrperr.KindSolverBackendFailure, "native backend requires nonnegative RHS on constraint "+c.Name, nil)
			return
		}
		switch c.Sense {
		case LE:
			tab[ri][col] = 1
			colNames[col] = "_slack_" + c.Name
			basis[ri] = col
			extras[ri] = extraCol{col: col, rowIndex: ri}
			col++
		case GE:
			tab[ri][col] = -1
			colNames[col] = "_surplus_" + c.Name
			surp := col
			col++
			tab[ri][col] = 1
			colNames[col] = "_art_" + c.Name
			cost[col] = bigM
			basis[ri] = col
			extras[ri] = extraCol{col: surp, isSurp: true, rowIndex: ri}
			col++
		case EQ:
			tab[ri][col] = 1
			colNames[col] = "_art_" + c.Name
			cost[col] = bigM
			basis[ri] = col
			extras[ri] = extraCol{col: col, isArt: true, rowIndex: ri}
			col++
		}
	}
	for k, vi := range ubRows {
		ri := nRows + k
		tab[ri][vi] = 1
		tab[ri][col] = 1
		tab[ri][nCols] = b.Variables[vi].UB
		colNames[col] = "_ubslack_" + b.Variables[vi].Name
		basis[ri] = col
		col++
	}
	for k, vi := range lbRows {
		ri := nRows + len(ubRows) + k
		tab[ri][vi], tab[ri][col], tab[ri][col+1] = 1, -1, 1
		tab[ri][nCols] = b.Variables[vi].LB
		colNames[col], colNames[col+1] = "_lbsurplus_"+b.Variables[vi].Name, "_art_lb_"+b.Variables[vi].Name
		cost[col+1] = bigM
		basis[ri] = col + 1
		col += 2
	}

	// Objective row stored separately as reduced costs z_j = c_j initially,
	// refined by pivoting; objRow[nCols] tracks -objective accumulated.
	objRow = make([]float64, nCols+1)
	copy(objRow, cost)
	_ = relaxedIntegers
	return
}

func (b *NativeBackend) simplex(tab [][]float64, objRow []float64, basis []int) error {
	nRows := len(tab)
	nCols := len(objRow) - 1

	// Price out the initial basis from the objective row (basic columns
	// must carry reduced cost 0).
	for ri, bc := range basis {
		if objRow[bc] == 0 {
			continue
		}
		factor := objRow[bc]
		for c := 0; c <= nCols; c++ {
			objRow[c] -= factor * tab[ri][c]
		}
	}

	const maxIter = 20000
	for iter := 0; iter < maxIter; iter++ {
		// Most-negative reduced cost enters (standard Dantzig rule).
		enter := -1
		best := -1e-9
		for c := 0; c < nCols; c++ {
			if objRow[c] < best {
				best = objRow[c]
				enter = c
			}
		}
		if enter == -1 {
			return nil // optimal
		}
		leave := -1
		bestRatio := math.Inf(1)
		for r := 0; r < nRows; r++ {
			if tab[r][enter] > 1e-9 {
				ratio := tab[r][nCols] / tab[r][enter]
				if ratio < bestRatio-1e-12 {
					bestRatio = ratio
					leave = r
				}
			}
		}
		if leave == -1 {
			return vrperr.New(vrperr.KindSolverBackendFailure, "native backend: unbounded LP", nil)
		}
		pivot := tab[leave][enter]
		for c := 0; c <= nCols; c++ {
			tab[leave][c] /= pivot
		}
		for r := 0; r < nRows; r++ {
			if r == leave {
				continue
			}
			factor := tab[r][enter]
			if factor == 0 {
				continue
			}
			for c := 0; c <= nCols; c++ {
				tab[r][c] -= factor * tab[leave][c]
			}
		}
		factor := objRow[enter]
		if factor != 0 {
			for c := 0; c <= nCols; c++ {
				objRow[c] -= factor * tab[leave][c]
			}
		}
		basis[leave] = enter
	}
	return vrperr.New(vrperr.KindSolverBackendFailure, "native backend: simplex iteration limit exceeded", nil)
}

func (b *NativeBackend) SolveRelaxation() (float64, map[string]float64, map[string]float64, error) {
	tab, objRow, colNames, extras, basis, err := b.buildTableau(false)
	if err != nil {
		return 0, nil, nil, err
	}
	if err := b.simplex(tab, objRow, basis); err != nil {
		return 0, nil, nil, err
	}

	nRows := len(tab)
	for r := 0; r < nRows; r++ {
		if basis[r] >= len(b.Variables) && len(colNames[basis[r]]) >= 5 && colNames[basis[r]][:5] == "_art_" {
			// artificial still basic at positive value => infeasible.
			if tab[r][len(objRow)-1] > 1e-6 {
				return 0, nil, nil, vrperr.New(vrperr.KindInfeasibleMaster, "native backend: relaxation infeasible", nil)
			}
		}
	}

	primals := make(map[string]float64, len(b.Variables))
	for vi, v := range b.Variables {
		primals[v.Name] = 0
		for r := 0; r < nRows; r++ {
			if basis[r] == vi {
				primals[v.Name] = tab[r][len(objRow)-1]
			}
		}
	}

	duals := make(map[string]float64, len(b.Constraints))
	for ci, c := range b.Constraints {
		e := extras[ci]
		switch c.Sense {
		case LE:
			duals[c.Name] = -objRow[e.col]
		case GE:
			duals[c.Name] = objRow[e.col]
		case EQ:
			duals[c.Name] = bigM - objRow[e.col]
		}
	}

	objective := -objRow[len(objRow)-1]
	return objective, primals, duals, nil
}

func (b *NativeBackend) SolveInteger() (float64, map[string]float64, error) {
	bounds := make(map[string][2]float64, len(b.Variables))
	for _, v := range b.Variables {
		bounds[v.Name] = [2]float64{v.LB, v.UB}
	}
	best, bestObj, err := branchAndBound(b.Model, math.Inf(1), bounds)
	if err != nil {
		return 0, nil, err
	}
	if best == nil {
		return 0, nil, vrperr.New(vrperr.KindInfeasibleMaster, "native backend: no integer-feasible solution", nil)
	}
	return bestObj, best, nil
}

// branchAndBound is a plain depth-first branch-and-bound over variables
// flagged integer, tightening per-variable bounds rather than mutating
// the shared model. Adequate for the small 0/1 set-covering masters the
// orchestrator restores at the end of a run; not intended for large MIPs.
func branchAndBound(base *Model, incumbentObj float64, bounds map[string][2]float64) (map[string]float64, float64, error) {
	relaxed := NewModel(base.Name)
	for _, c := range base.Constraints {
		relaxed.AddConstraint(c.Name, c.Sense, c.RHS)
	}
	for _, v := range base.Variables {
		bnd := bounds[v.Name]
		relaxed.AddVariable(v.Name, v.ObjCoeff, bnd[0], bnd[1], false, v.ColCoeffs)
	}
	nb := &NativeBackend{Model: relaxed}
	obj, primals, _, err := nb.SolveRelaxation()
	if err != nil {
		return nil, 0, nil // infeasible branch, prune
	}
	if obj >= incumbentObj-1e-9 {
		return nil, 0, nil // bound, prune
	}

	fracVar := ""
	fracVal := 0.0
	for _, v := range base.Variables {
		if !v.Integer {
			continue
		}
		val := primals[v.Name]
		frac := val - math.Floor(val)
		if frac > 1e-6 && frac < 1-1e-6 {
			fracVar = v.Name
			fracVal = val
			break
		}
	}
	if fracVar == "" {
		return primals, obj, nil // integer-feasible
	}

	var bestSol map[string]float64
	bestObj := incumbentObj

	down := cloneBounds(bounds)
	db := down[fracVar]
	down[fracVar] = [2]float64{db[0], math.Floor(fracVal)}
	if sol, o, _ := branchAndBound(base, bestObj, down); sol != nil && o < bestObj {
		bestSol, bestObj = sol, o
	}
	up := cloneBounds(bounds)
	ub := up[fracVar]
	up[fracVar] = [2]float64{math.Ceil(fracVal), ub[1]}
	if sol, o, _ := branchAndBound(base, bestObj, up); sol != nil && o < bestObj {
		bestSol, bestObj = sol, o
	}
	if bestSol == nil {
		return nil, 0, nil
	}
	return bestSol, bestObj, nil
}

func cloneBounds(m map[string][2]float64) map[string][2]float64 {
	out := make(map[string][2]float64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

var _ Backend = (*NativeBackend)(nil)
