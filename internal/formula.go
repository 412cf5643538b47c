package internal

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/dop251/goja"
)

var parameterRef = regexp.MustCompile(`\[(\d+)\]`)

// formulaFunctions are the plain function names correction formulas may call.
var formulaFunctions = map[string]any{
	"log":   math.Log,
	"log10": math.Log10,
	"exp":   math.Exp,
	"pow":   math.Pow,
	"sqrt":  math.Sqrt,
	"max":   math.Max,
	"min":   math.Min,
	"abs":   math.Abs,
	"fabs":  math.Abs,
	"erf":   math.Erf,
	"atan":  math.Atan,
	"atan2": math.Atan2,
	"cos":   math.Cos,
	"sin":   math.Sin,
	"tan":   math.Tan,
	"cosh":  math.Cosh,
	"sinh":  math.Sinh,
	"tanh":  math.Tanh,
}

// tmathFunctions are the TMath:: spellings.
var tmathFunctions = map[string]any{
	"Log":   math.Log,
	"Log10": math.Log10,
	"Exp":   math.Exp,
	"Power": math.Pow,
	"Sqrt":  math.Sqrt,
	"Max":   math.Max,
	"Min":   math.Min,
	"Abs":   math.Abs,
	"Erf":   math.Erf,
	"ATan":  math.Atan,
	"Cos":   math.Cos,
	"Sin":   math.Sin,
	"TanH":  math.Tanh,
	"Pi":    func() float64 { return math.Pi },
}

// translateFormula rewrites a TFormula-style expression into a JavaScript
// expression over x, y, z, t and the parameter array p.
func translateFormula(expr string) string {
	js := strings.ReplaceAll(expr, "TMath::", "TMath.")
	js = parameterRef.ReplaceAllString(js, "p[${1}]")
	return strings.ReplaceAll(js, "^", "**")
}

// formulaParameterCount returns one past the highest [i] referenced.
func formulaParameterCount(expr string) int {
	count := 0
	for _, m := range parameterRef.FindAllStringSubmatch(expr, -1) {
		i, err := strconv.Atoi(m[1])
		if err == nil && i+1 > count {
			count = i + 1
		}
	}
	return count
}

// newFormulaRuntime returns a JavaScript runtime with the formula math
// functions bound to Go's math package.
func newFormulaRuntime() (*goja.Runtime, error) {
	vm := goja.New()
	for name, fn := range formulaFunctions {
		if err := vm.Set(name, fn); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", name, err)
		}
	}
	tmath := vm.NewObject()
	for name, fn := range tmathFunctions {
		if err := tmath.Set(name, fn); err != nil {
			return nil, fmt.Errorf("failed to bind TMath::%s: %w", name, err)
		}
	}
	if err := vm.Set("TMath", tmath); err != nil {
		return nil, fmt.Errorf("failed to bind TMath: %w", err)
	}
	return vm, nil
}

// Formula is a correction formula compiled into one runtime. It must only be
// evaluated from the goroutine owning that runtime.
type Formula struct {
	source string
	vm     *goja.Runtime
	fn     goja.Callable
}

func compileFormula(vm *goja.Runtime, name, expr string) (Formula, error) {
	src := fmt.Sprintf("(function(x, y, z, t, p) { return (%s); })", translateFormula(expr))
	program, err := goja.Compile(name, src, true)
	if err != nil {
		return Formula{}, fmt.Errorf("invalid formula %q: %w", expr, err)
	}
	value, err := vm.RunProgram(program)
	if err != nil {
		return Formula{}, fmt.Errorf("invalid formula %q: %w", expr, err)
	}
	fn, ok := goja.AssertFunction(value)
	if !ok {
		return Formula{}, fmt.Errorf("invalid formula %q: not a function", expr)
	}
	return Formula{source: expr, vm: vm, fn: fn}, nil
}

// parameters converts record parameters into a runtime value once, so that
// evaluation does not rebuild the array on every call.
func (f Formula) parameters(params []float64) goja.Value {
	values := make([]any, len(params))
	for i, p := range params {
		values[i] = p
	}
	return f.vm.ToValue(values)
}

// Eval evaluates the formula at (x, y, z, t) with the given parameters.
func (f Formula) Eval(vars [maxParameterVariables]float64, params goja.Value) (float64, error) {
	result, err := f.fn(goja.Undefined(),
		f.vm.ToValue(vars[0]),
		f.vm.ToValue(vars[1]),
		f.vm.ToValue(vars[2]),
		f.vm.ToValue(vars[3]),
		params,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to evaluate formula %q: %w", f.source, err)
	}
	return result.ToFloat(), nil
}
