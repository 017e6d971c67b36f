package lpbackend

import (
	"fmt"
	"math"

	"git.solver4all.com/azaryc2s/gorobi/gurobi"

	"github.com/azaryc2s/vrptw-cg/internal/logx"
	"github.com/azaryc2s/vrptw-cg/internal/vrperr"
)

// GurobiBackend is the production Backend, built on the same gurobi
// bindings and model-construction style as CreateMTSPModel: the whole
// problem is assembled into a fresh gurobi.Model from the incremental
// Variable/Constraint bookkeeping and solved in one shot. Rebuilding per
// solve call (rather than threading Gurobi's native incremental-add API
// through AddVariable) keeps this backend's shape identical across
// SolveRelaxation and SolveInteger and avoids depending on column-add
// semantics the reference binding never exercises; the restricted master
// stays small enough that this costs nothing material per CG iteration.
type GurobiBackend struct {
	*Model
	env    *gurobi.Env
	ownEnv bool
}

// NewGurobiBackend wraps an existing environment (e.g. one shared across
// every RMP solve in a run). If env is nil, one is loaded and freed with
// the backend.
func NewGurobiBackend(name string, env *gurobi.Env) *GurobiBackend {
	return &GurobiBackend{Model: NewModel(name), env: env}
}

func (b *GurobiBackend) env0() (*gurobi.Env, error) {
	if b.env != nil {
		return b.env, nil
	}
	env, err := gurobi.LoadEnv(b.Name + "_gurobi.log")
	if err != nil {
		return nil, vrperr.New(vrperr.KindSolverBackendFailure, "gurobi: LoadEnv", err)
	}
	env.SetIntParam("LogToConsole", int32(0))
	b.env = env
	b.ownEnv = true
	return env, nil
}

func (b *GurobiBackend) build(relaxation bool) (*gurobi.Model, error) {
	env, err := b.env0()
	if err != nil {
		return nil, err
	}

	n := int32(len(b.Variables))
	obj := make([]float64, n)
	lb := make([]float64, n)
	ub := make([]float64, n)
	vtype := make([]int8, n)
	names := make([]string, n)
	for i, v := range b.Variables {
		obj[i] = v.ObjCoeff
		lb[i] = v.LB
		ub[i] = v.UB
		if v.Integer && !relaxation {
			vtype[i] = gurobi.INTEGER
		} else {
			vtype[i] = gurobi.CONTINUOUS
		}
		names[i] = v.Name
	}

	model, err := env.NewModel(b.Name, n, obj, lb, ub, vtype, names)
	if err != nil {
		return nil, vrperr.New(vrperr.KindSolverBackendFailure, "gurobi: NewModel", err)
	}
	if err := model.SetIntAttr(gurobi.INT_ATTR_MODELSENSE, gurobi.MINIMIZE); err != nil {
		return nil, vrperr.New(vrperr.KindSolverBackendFailure, "gurobi: set model sense", err)
	}

	colOf := make(map[string]int32, len(b.Variables))
	for i, v := range b.Variables {
		colOf[v.Name] = int32(i)
	}

	for _, c := range b.Constraints {
		var ind []int32
		var val []float64
		for _, v := range b.Variables {
			coeff, ok := v.ColCoeffs[c.Name]
			if !ok || coeff == 0 {
				continue
			}
			ind = append(ind, colOf[v.Name])
			val = append(val, coeff)
		}
		sense := gurobi.LESS_EQUAL
		switch c.Sense {
		case EQ:
			sense = gurobi.EQUAL
		case GE:
			sense = gurobi.GREATER_EQUAL
		}
		if err := model.AddConstr(ind, val, sense, c.RHS, c.Name); err != nil {
			return nil, vrperr.New(vrperr.KindSolverBackendFailure, "gurobi: AddConstr "+c.Name, err)
		}
	}
	return model, nil
}

func (b *GurobiBackend) SolveRelaxation() (float64, map[string]float64, map[string]float64, error) {
	model, err := b.build(true)
	if err != nil {
		return 0, nil, nil, err
	}
	defer model.Free()

	if err := model.Optimize(); err != nil {
		return 0, nil, nil, vrperr.New(vrperr.KindSolverBackendFailure, "gurobi: Optimize", err)
	}
	status, err := model.GetIntAttr(gurobi.INT_ATTR_STATUS)
	if err != nil {
		return 0, nil, nil, vrperr.New(vrperr.KindSolverBackendFailure, "gurobi: GetIntAttr status", err)
	}
	if status != gurobi.OPTIMAL {
		return 0, nil, nil, vrperr.New(vrperr.KindInfeasibleMaster, fmt.Sprintf("gurobi: relaxation status %d", status), nil)
	}

	objval, err := model.GetDblAttr(gurobi.DBL_ATTR_OBJVAL)
	if err != nil {
		return 0, nil, nil, vrperr.New(vrperr.KindSolverBackendFailure, "gurobi: GetDblAttr objval", err)
	}
	xs, err := model.GetDblAttrArray(gurobi.DBL_ATTR_X, 0, int32(len(b.Variables)))
	if err != nil {
		return 0, nil, nil, vrperr.New(vrperr.KindSolverBackendFailure, "gurobi: GetDblAttrArray X", err)
	}
	pis, err := model.GetDblAttrArray(gurobi.DBL_ATTR_PI, 0, int32(len(b.Constraints)))
	if err != nil {
		return 0, nil, nil, vrperr.New(vrperr.KindSolverBackendFailure, "gurobi: GetDblAttrArray Pi", err)
	}

	primals := make(map[string]float64, len(b.Variables))
	for i, v := range b.Variables {
		primals[v.Name] = xs[i]
	}
	duals := make(map[string]float64, len(b.Constraints))
	for i, c := range b.Constraints {
		duals[c.Name] = pis[i]
	}
	logx.Logf(logx.LvlDebug, "gurobi: relaxation objective %.6f", objval)
	return objval, primals, duals, nil
}

func (b *GurobiBackend) SolveInteger() (float64, map[string]float64, error) {
	model, err := b.build(false)
	if err != nil {
		return 0, nil, err
	}
	defer model.Free()

	if err := model.Optimize(); err != nil {
		return 0, nil, vrperr.New(vrperr.KindSolverBackendFailure, "gurobi: Optimize", err)
	}
	status, err := model.GetIntAttr(gurobi.INT_ATTR_STATUS)
	if err != nil {
		return 0, nil, vrperr.New(vrperr.KindSolverBackendFailure, "gurobi: GetIntAttr status", err)
	}
	if status != gurobi.OPTIMAL && status != gurobi.TIME_LIMIT {
		return 0, nil, vrperr.New(vrperr.KindInfeasibleMaster, fmt.Sprintf("gurobi: integer solve status %d", status), nil)
	}

	objval, err := model.GetDblAttr(gurobi.DBL_ATTR_OBJVAL)
	if err != nil {
		return 0, nil, vrperr.New(vrperr.KindSolverBackendFailure, "gurobi: GetDblAttr objval", err)
	}
	xs, err := model.GetDblAttrArray(gurobi.DBL_ATTR_X, 0, int32(len(b.Variables)))
	if err != nil {
		return 0, nil, vrperr.New(vrperr.KindSolverBackendFailure, "gurobi: GetDblAttrArray X", err)
	}
	primals := make(map[string]float64, len(b.Variables))
	for i, v := range b.Variables {
		primals[v.Name] = math.Round(xs[i]*1e9) / 1e9
	}
	return objval, primals, nil
}

// Close frees the environment if this backend loaded its own.
func (b *GurobiBackend) Close() {
	if b.ownEnv && b.env != nil {
		b.env.Free()
	}
}

var _ Backend = (*GurobiBackend)(nil)
