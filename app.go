package main

import (
	"context"
	"fmt"
	"log"
	"math/rand/v2"
	"sync"

	"github.com/chazu/bestiary/pkg/bestiary"
	"github.com/chazu/bestiary/pkg/config"
	"github.com/chazu/bestiary/pkg/engine"
	"github.com/chazu/bestiary/pkg/geom"
	"github.com/chazu/bestiary/pkg/kernel"
	"github.com/chazu/bestiary/pkg/kernel/sdfx"
	"github.com/chazu/bestiary/pkg/shape"
	"github.com/chazu/bestiary/pkg/tessellate"
)

// App is the Wails backend. It exposes methods to the frontend via bindings.
type App struct {
	ctx    context.Context
	cfg    *config.Config
	engine *engine.Engine
	kernel kernel.Kernel

	mu     sync.Mutex
	items  bestiary.Bestiary // current catalog; built-in until a script replaces it
	camera geom.Vec3         // last camera position reported by the frontend
}

// MeshData is the JSON-serializable mesh format sent to the frontend.
// One MeshData carries a whole item.
type MeshData struct {
	Key      string    `json:"key"`
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Colors   []uint8   `json:"colors"`
	Indices  []uint32  `json:"indices"`
	PartName string    `json:"partName"`
}

// EvalErrorData is a JSON-serializable eval error for the frontend.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// EvalResult is the full result returned to the frontend.
type EvalResult struct {
	Meshes   []MeshData      `json:"meshes"`
	Errors   []EvalErrorData `json:"errors"`
	Warnings []EvalErrorData `json:"warnings"`
}

// ItemData describes one catalog entry for the key legend.
type ItemData struct {
	Key         string     `json:"key"`
	Name        string     `json:"name"`
	Placements  int        `json:"placements"`
	Faces       int        `json:"faces"`
	Spins       bool       `json:"spins"`
	SlowMo      bool       `json:"slowMo"`
	Bounds      kernel.Box `json:"bounds"`
	Fingerprint string     `json:"fingerprint"`
}

// ItemState is an item's pose after a Tick.
type ItemState struct {
	Key         string     `json:"key"`
	Position    [3]float64 `json:"position"`
	Orientation [4]float64 `json:"orientation"` // w, x, y, z
	TimeScale   float64    `json:"timeScale"`
}

// NewApp creates a new App with an engine and the sdfx kernel. A nil cfg
// uses config.Default().
func NewApp(cfg *config.Config) *App {
	if cfg == nil {
		cfg = config.Default()
	}
	a := &App{cfg: cfg, kernel: sdfx.New()}

	opts := []engine.Option{
		engine.WithCamera(a.cameraSource()),
		engine.WithMaxAttempts(cfg.MaxAttempts),
		engine.WithLogger(cfg.Logger()),
	}
	if cfg.Seed != 0 {
		opts = append(opts, engine.WithSeed(cfg.Seed))
	}
	a.engine = engine.NewEngine(opts...)
	return a
}

// startup is called by Wails on app startup. The context is saved
// so we can call Wails runtime methods later if needed.
func (a *App) startup(ctx context.Context) {
	a.ctx = ctx
	if _, err := a.catalog(); err != nil {
		log.Printf("Build bestiary: %v", err)
	}
}

// cameraSource reads the camera position last passed to Tick. It is only
// consulted from inside Tick, which holds a.mu.
func (a *App) cameraSource() bestiary.Camera {
	return bestiary.CameraFunc(func() geom.Vec3 { return a.camera })
}

// catalog returns the current items, building the standard catalog on
// first use. Callers must not hold a.mu.
func (a *App) catalog() (bestiary.Bestiary, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.items != nil {
		return a.items, nil
	}

	var r *rand.Rand
	if a.cfg.Seed != 0 {
		r = rand.New(rand.NewPCG(a.cfg.Seed, a.cfg.Seed))
	}
	b, err := bestiary.Build(bestiary.StaticWorld{Cam: a.cameraSource()}, bestiary.Options{
		Rand:        r,
		MaxAttempts: a.cfg.MaxAttempts,
		Logger:      a.cfg.Logger(),
	})
	if err != nil {
		return nil, err
	}
	a.items = b
	return b, nil
}

// Items lists the current catalog in key order.
func (a *App) Items() []ItemData {
	b, err := a.catalog()
	if err != nil {
		log.Printf("Items: %v", err)
		return []ItemData{}
	}

	poses := a.poses(b)
	out := make([]ItemData, 0, len(b))
	for _, k := range b.Keys() {
		item := b[k]
		st := shape.Summarize(item.Shape)
		d := ItemData{
			Key:         k.String(),
			Name:        item.Name,
			Placements:  st.Placements,
			Faces:       st.Faces,
			Spins:       item.Spin != nil,
			SlowMo:      item.SlowMo != nil,
			Fingerprint: shape.Fingerprint(item.Shape),
		}
		if m, err := tessellate.Flatten(item.Name, item.Shape, poses[k]); err == nil {
			d.Bounds, _ = a.kernel.Bounds([]*kernel.Mesh{m})
		}
		out = append(out, d)
	}
	return out
}

// Mesh tessellates the item bound to key ("0".."9") in its own frame. The
// frontend places it with the pose returned by Tick.
func (a *App) Mesh(key string) EvalResult {
	result := newResult()

	item, err := a.lookup(key)
	if err != nil {
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return result
	}
	md, err := meshData(key, item, geom.IdentityTransform())
	if err != nil {
		log.Printf("Tessellate error: %v", err)
		result.Errors = append(result.Errors, EvalErrorData{Message: "tessellation failed: " + err.Error()})
		return result
	}
	result.Meshes = append(result.Meshes, md)
	return result
}

// Evaluate takes Lisp source and returns mesh data + errors. On success the
// evaluated items replace the current catalog.
// This is the primary binding called by the frontend editor.
func (a *App) Evaluate(source string) EvalResult {
	result := newResult()

	// Step 1: Evaluate the Lisp source into a bestiary.
	res, err := a.engine.Run(source)
	if err != nil {
		// Fatal error (panic, timeout, etc.)
		log.Printf("Evaluate fatal error: %v", err)
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return result
	}

	// Step 2: Convert eval errors and warnings to the frontend format.
	for _, w := range res.Warnings {
		result.Warnings = append(result.Warnings, EvalErrorData{Line: w.Line, Col: w.Col, Message: w.Message})
	}
	if len(res.Errors) > 0 {
		for _, e := range res.Errors {
			result.Errors = append(result.Errors, EvalErrorData{Line: e.Line, Col: e.Col, Message: e.Message})
		}
		return result
	}

	// Step 3: Tessellate every item into one mesh each, in world space.
	for _, k := range res.Bestiary.Keys() {
		md, err := meshData(k.String(), res.Bestiary[k], res.Bestiary[k].Transform())
		if err != nil {
			log.Printf("Tessellate error: %v", err)
			result.Errors = append(result.Errors, EvalErrorData{Message: "tessellation failed: " + err.Error()})
			result.Meshes = []MeshData{}
			return result
		}
		result.Meshes = append(result.Meshes, md)
	}

	a.mu.Lock()
	a.items = res.Bestiary
	a.mu.Unlock()
	return result
}

// Tick advances every item by dt seconds with the camera at (x, y, z) and
// returns the new poses. Items whose slow-motion condition holds advance
// more slowly.
func (a *App) Tick(dt, x, y, z float64) []ItemState {
	b, err := a.catalog()
	if err != nil {
		log.Printf("Tick: %v", err)
		return []ItemState{}
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.camera = geom.V(x, y, z)

	out := make([]ItemState, 0, len(b))
	for _, k := range b.Keys() {
		item := b[k]
		item.Update(dt)
		q := item.Orientation.Quat()
		out = append(out, ItemState{
			Key:         k.String(),
			Position:    [3]float64(item.Position),
			Orientation: [4]float64{q.W, q.V[0], q.V[1], q.V[2]},
			TimeScale:   item.TimeScale(),
		})
	}
	return out
}

// ExportSTL writes the item bound to key to an STL file. It returns an
// error message, or "" on success.
func (a *App) ExportSTL(key, path string) string {
	item, err := a.lookup(key)
	if err != nil {
		return err.Error()
	}
	meshes, err := tessellate.Tessellate(item.Shape, a.pose(item))
	if err != nil {
		return "tessellation failed: " + err.Error()
	}
	if err := a.kernel.SaveSTL(path, meshes); err != nil {
		log.Printf("Export error: %v", err)
		return err.Error()
	}
	return ""
}

// pose returns the item's current transform. Tick mutates orientations
// under a.mu, so readers take their snapshot under it too.
func (a *App) pose(item *bestiary.GameItem) geom.Transform {
	a.mu.Lock()
	defer a.mu.Unlock()
	return item.Transform()
}

// poses snapshots the transform of every item in b.
func (a *App) poses(b bestiary.Bestiary) map[bestiary.TriggerID]geom.Transform {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make(map[bestiary.TriggerID]geom.Transform, len(b))
	for k, item := range b {
		out[k] = item.Transform()
	}
	return out
}

func (a *App) lookup(key string) (*bestiary.GameItem, error) {
	t, err := bestiary.ParseTrigger(key)
	if err != nil {
		return nil, err
	}
	b, err := a.catalog()
	if err != nil {
		return nil, err
	}
	item, ok := b.Lookup(t)
	if !ok {
		return nil, fmt.Errorf("no item bound to key %s", t)
	}
	return item, nil
}

func meshData(key string, item *bestiary.GameItem, base geom.Transform) (MeshData, error) {
	m, err := tessellate.Flatten(item.Name, item.Shape, base)
	if err != nil {
		return MeshData{}, fmt.Errorf("key %s (%s): %w", key, item.Name, err)
	}
	return MeshData{
		Key:      key,
		Vertices: m.Vertices,
		Normals:  m.Normals,
		Colors:   m.Colors,
		Indices:  m.Indices,
		PartName: m.PartName,
	}, nil
}

// newResult returns an EvalResult with non-nil slices so that JSON carries
// [] rather than null.
func newResult() EvalResult {
	return EvalResult{
		Meshes:   []MeshData{},
		Errors:   []EvalErrorData{},
		Warnings: []EvalErrorData{},
	}
}
