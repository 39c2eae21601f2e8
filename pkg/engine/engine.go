// Package engine evaluates bestiary scripts. It wraps zygomys in a
// sandboxed environment with builtins for colours, shape factories and
// item registration, and produces a bestiary.Bestiary from user source.
package engine

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"regexp"
	"strconv"
	"strings"
	"sync"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/bestiary/pkg/bestiary"
	"github.com/chazu/bestiary/pkg/shape"
)

// EvalError represents a non-fatal error encountered during evaluation,
// such as a parse error, a runtime error in user code, or an item whose
// shape fails validation.
type EvalError struct {
	Line    int
	Col     int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// EvalWarning represents a non-fatal warning produced during evaluation.
type EvalWarning struct {
	Line    int
	Col     int
	Message string
	Key     bestiary.TriggerID
}

// EvalResult bundles the full output of an evaluation for use by UI bindings.
type EvalResult struct {
	Bestiary bestiary.Bestiary
	Errors   []EvalError
	Warnings []EvalWarning
}

// Option configures an Engine.
type Option func(*Engine)

// WithSeed makes every evaluation draw its random colours and cluster
// positions from a PCG source seeded with seed, so equal sources give equal
// bestiaries.
func WithSeed(seed uint64) Option {
	return func(e *Engine) {
		e.seed = seed
		e.seeded = true
	}
}

// WithCamera sets the camera that slow-motion items watch.
func WithCamera(cam bestiary.Camera) Option {
	return func(e *Engine) { e.camera = cam }
}

// WithMaxAttempts bounds the draws per cube of rgb-cluster.
func WithMaxAttempts(n int) Option {
	return func(e *Engine) { e.maxAttempts = n }
}

// WithLogger sets the logger; the default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// Engine wraps the zygomys interpreter for bestiary evaluation.
// It is safe for concurrent use; each call to Evaluate creates a fresh
// sandboxed environment for determinism.
type Engine struct {
	mu         sync.Mutex
	generation uint64

	seed        uint64
	seeded      bool
	camera      bestiary.Camera
	maxAttempts int
	log         *slog.Logger
}

// NewEngine creates a new Engine instance.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{log: slog.Default()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate takes Lisp source code and produces a new Bestiary.
// Each call creates a fresh zygomys sandbox for deterministic evaluation.
//
// Return semantics:
//   - On success: returns bestiary + nil errors + nil error
//   - On parse/eval/validation failure: returns nil bestiary + eval errors + nil error
//   - On fatal failure (timeout, panic): returns nil + nil + error
func (e *Engine) Evaluate(source string) (bestiary.Bestiary, []EvalError, error) {
	res, err := e.Run(source)
	if err != nil {
		return nil, nil, err
	}
	return res.Bestiary, res.Errors, nil
}

// Run is Evaluate returning the full result, warnings included.
func (e *Engine) Run(source string) (EvalResult, error) {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.mu.Unlock()

	ch := make(chan evalResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()

		ch <- evalResult{res: e.evaluate(source)}
	}()

	return waitWithTimeout(ch, gen, &e.mu, &e.generation)
}

// rand returns the random source for one evaluation.
func (e *Engine) rand() *rand.Rand {
	if !e.seeded {
		return nil
	}
	return rand.New(rand.NewPCG(e.seed, e.seed))
}

// evaluate performs the actual zygomys evaluation in a fresh sandbox.
func (e *Engine) evaluate(source string) EvalResult {
	// Empty source is a valid program that produces an empty bestiary.
	if strings.TrimSpace(source) == "" {
		return EvalResult{Bestiary: bestiary.Bestiary{}}
	}

	// Create a fresh sandboxed zygomys environment.
	// Sandbox mode prevents user code from accessing the filesystem or syscalls.
	env := zygo.NewZlispSandbox()
	defer env.Stop()

	sc := newScript(e.rand(), e.camera, e.maxAttempts)
	registerBuiltins(env, sc)

	// Load and compile the source string into bytecode.
	if err := env.LoadString(preprocessSource(source)); err != nil {
		return EvalResult{Errors: parseZygomysError(err)}
	}

	// Execute the compiled bytecode.
	if _, err := env.Run(); err != nil {
		return EvalResult{Errors: parseZygomysError(err)}
	}

	res := EvalResult{Bestiary: sc.items}
	for _, k := range sc.items.Keys() {
		item := sc.items[k]
		vr := shape.ValidateAll(item.Shape)
		for _, ve := range vr.Errors {
			res.Errors = append(res.Errors, EvalError{Message: fmt.Sprintf("item %s (%s): %s", k, item.Name, ve.Error())})
		}
		for _, vw := range vr.Warnings {
			res.Warnings = append(res.Warnings, EvalWarning{Key: k, Message: fmt.Sprintf("item %s (%s): %s", k, item.Name, vw.Error())})
		}
	}
	if len(res.Errors) > 0 {
		res.Bestiary = nil
		return res
	}

	e.log.Debug("evaluated bestiary", "items", len(res.Bestiary), "warnings", len(res.Warnings))
	return res
}

// linePattern matches zygomys error messages that include "Error on line N: ..."
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches simpler "line N: ..." patterns.
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into one or more EvalError values.
// It attempts to extract line number information from the error message.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()

	// zygomys formats parse errors as "Error on line N: <details>\n"
	for _, p := range []*regexp.Regexp{linePattern, linePatternShort} {
		if m := p.FindStringSubmatch(msg); m != nil {
			line, _ := strconv.Atoi(m[1])
			return []EvalError{{
				Line:    line,
				Message: strings.TrimSpace(m[2]),
			}}
		}
	}

	// Fallback: no line info available.
	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
