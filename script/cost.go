package script

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/isocore/nav"
	"go.uber.org/zap"
)

var ErrNoCostFunc = errors.New("script: no cost function")

// costDispatch is appended to every cost script. Scripts define
//
//	cost := func(from, to) { ... }
//
// where from and to are maps with integer x and y keys, and return a number.
const costDispatch = `
__result := cost(__from, __to)
`

// CostScript evaluates a tengo step cost function. It is safe for concurrent
// use; evaluations are serialised.
type CostScript struct {
	mu       sync.Mutex
	path     string
	compiled *tengo.Compiled
	logger   *zap.Logger
}

type Option func(*CostScript)

func WithLogger(logger *zap.Logger) Option {
	return func(cs *CostScript) {
		if logger != nil {
			cs.logger = logger
		}
	}
}

// LoadCostScript compiles the script at path.
func LoadCostScript(path string, opts ...Option) (*CostScript, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("script: read %s: %w", path, err)
	}
	cs, err := NewCostScript(src, opts...)
	if err != nil {
		return nil, fmt.Errorf("script: %s: %w", path, err)
	}
	cs.path = path
	return cs, nil
}

// NewCostScript compiles src.
func NewCostScript(src []byte, opts ...Option) (*CostScript, error) {
	cs := &CostScript{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(cs)
	}
	compiled, err := compileCost(src)
	if err != nil {
		return nil, err
	}
	cs.compiled = compiled
	return cs, nil
}

func newScript(src []byte) *tengo.Script {
	s := tengo.NewScript(src)
	s.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))
	_ = s.Add("__from", map[string]any{})
	_ = s.Add("__to", map[string]any{})
	return s
}

func compileCost(src []byte) (*tengo.Compiled, error) {
	// Run the script once on its own to check that it defines cost before
	// compiling it together with the dispatch code.
	check, err := newScript(src).Compile()
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}
	if err := check.Run(); err != nil {
		return nil, fmt.Errorf("run: %w", err)
	}
	if !check.IsDefined("cost") || !check.Get("cost").Object().CanCall() {
		return nil, ErrNoCostFunc
	}

	full := append(append([]byte{}, src...), costDispatch...)
	compiled, err := newScript(full).Compile()
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}
	return compiled, nil
}

// Path returns the file the script was loaded from, if any.
func (cs *CostScript) Path() string {
	return cs.path
}

// Reload recompiles the script from its file. On failure the previous
// version stays in use.
func (cs *CostScript) Reload() error {
	if cs.path == "" {
		return errors.New("script: reload: script was not loaded from a file")
	}
	src, err := os.ReadFile(cs.path)
	if err != nil {
		return fmt.Errorf("script: reload %s: %w", cs.path, err)
	}
	compiled, err := compileCost(src)
	if err != nil {
		return fmt.Errorf("script: reload %s: %w", cs.path, err)
	}

	cs.mu.Lock()
	cs.compiled = compiled
	cs.mu.Unlock()
	cs.logger.Info("cost script reloaded", zap.String("path", cs.path))
	return nil
}

// Eval returns cost(from, to).
func (cs *CostScript) Eval(from, to nav.Node) (float64, error) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	if err := cs.compiled.Set("__from", nodeMap(from)); err != nil {
		return 0, err
	}
	if err := cs.compiled.Set("__to", nodeMap(to)); err != nil {
		return 0, err
	}
	if err := cs.compiled.Run(); err != nil {
		return 0, fmt.Errorf("script: cost: %w", err)
	}

	result := cs.compiled.Get("__result")
	switch result.ValueType() {
	case "int", "float":
		return result.Float(), nil
	default:
		return 0, fmt.Errorf("script: cost returned %s, want a number", result.ValueType())
	}
}

// CostFunc adapts the script to a navigation cost. Evaluation errors are
// logged and cost one step.
func (cs *CostScript) CostFunc() nav.CostFunc {
	return func(from, to nav.Node) float64 {
		c, err := cs.Eval(from, to)
		if err != nil {
			cs.logger.Warn("cost script failed", zap.Error(err))
			return 1
		}
		return c
	}
}

func nodeMap(n nav.Node) map[string]any {
	return map[string]any{"x": n.X, "y": n.Y}
}
