package main

import (
	"fmt"
	"math"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/chazu/bestiary/pkg/bestiary"
	"github.com/chazu/bestiary/pkg/geom"
	"github.com/chazu/bestiary/pkg/kernel"
	"github.com/chazu/bestiary/pkg/tessellate"
)

func newPreviewCmd(o *options) *cobra.Command {
	var key string

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Show a spinning wireframe of the items in the terminal",
		Long: `Show a wireframe of one item at a time. Digits switch items, the arrow
keys orbit the camera, w and s move it closer or further, space pauses and
q quits. Flying into the lattice on key 0 slows its time down.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cam := &orbitCamera{distance: o.cfg.Preview.Distance, height: o.cfg.Preview.Distance / 4}
			b, err := o.catalog(cam)
			if err != nil {
				return err
			}
			start, err := bestiary.ParseTrigger(key)
			if err != nil {
				return err
			}

			screen, err := tcell.NewScreen()
			if err != nil {
				return err
			}
			if err := screen.Init(); err != nil {
				return err
			}
			defer screen.Fini()

			p := newPreview(screen, b, cam, o.cfg.Preview.CameraSpeed)
			p.show(start)
			p.run(time.Second / time.Duration(o.cfg.Preview.FPS))
			return nil
		},
	}
	cmd.Flags().StringVar(&key, "key", "1", "item shown first")
	return cmd
}

// orbitCamera circles the origin and always looks at it.
type orbitCamera struct {
	angle    float64 // around Y, radians
	height   float64
	distance float64 // horizontal distance from the Y axis
}

func (c *orbitCamera) Position() geom.Vec3 {
	return geom.V(c.distance*math.Sin(c.angle), c.height, c.distance*math.Cos(c.angle))
}

// basis returns the camera's forward, right and up vectors.
func (c *orbitCamera) basis() (forward, right, up geom.Vec3) {
	pos := c.Position()
	if pos.Len() == 0 {
		return geom.DefaultForward, geom.XAxis, geom.YAxis
	}
	forward = pos.Mul(-1).Normalize()
	right = forward.Cross(geom.YAxis)
	if right.Len() < 1e-9 {
		right = geom.XAxis
	}
	right = right.Normalize()
	up = right.Cross(forward)
	return forward, right, up
}

const (
	nearPlane   = 0.1
	cellAspect  = 2.0 // terminal cells are about twice as tall as wide
	hudRows     = 1
	orbitStep   = 0.1 // radians per arrow key press
	heightStep  = 1.0
	minDistance = 0.5
)

// preview draws one item at a time as a wireframe.
type preview struct {
	screen tcell.Screen
	items  bestiary.Bestiary
	cam    *orbitCamera
	speed  float64

	key    bestiary.TriggerID
	meshes map[bestiary.TriggerID]*kernel.Mesh // local frame, built on first show
	paused bool
	err    error
}

func newPreview(screen tcell.Screen, items bestiary.Bestiary, cam *orbitCamera, speed float64) *preview {
	return &preview{
		screen: screen,
		items:  items,
		cam:    cam,
		speed:  speed,
		meshes: make(map[bestiary.TriggerID]*kernel.Mesh),
	}
}

// show switches to the item on key, tessellating it on first use.
func (p *preview) show(key bestiary.TriggerID) {
	item, ok := p.items.Lookup(key)
	if !ok {
		return
	}
	p.key = key
	if _, done := p.meshes[key]; done {
		return
	}
	m, err := tessellate.Flatten(item.Name, item.Shape, geom.IdentityTransform())
	if err != nil {
		p.err = err
		return
	}
	p.err = nil
	p.meshes[key] = m
}

// step advances every item by dt seconds.
func (p *preview) step(dt float64) {
	if p.paused {
		return
	}
	for _, item := range p.items {
		item.Update(dt)
	}
}

// handle applies one event and reports whether the preview should go on.
func (p *preview) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyLeft:
			p.cam.angle -= orbitStep
		case tcell.KeyRight:
			p.cam.angle += orbitStep
		case tcell.KeyUp:
			p.cam.height += heightStep
		case tcell.KeyDown:
			p.cam.height -= heightStep
		case tcell.KeyRune:
			r := ev.Rune()
			switch {
			case r == 'q':
				return false
			case r == ' ':
				p.paused = !p.paused
			case r == 'w':
				p.cam.distance = math.Max(p.cam.distance-p.speed/10, minDistance)
			case r == 's':
				p.cam.distance += p.speed / 10
			case r >= '0' && r <= '9':
				p.show(bestiary.TriggerID(r - '0'))
			}
		}
	case *tcell.EventResize:
		p.screen.Sync()
	}
	return true
}

// draw renders the current item and the status line.
func (p *preview) draw() {
	p.screen.Clear()
	w, h := p.screen.Size()

	item, ok := p.items.Lookup(p.key)
	if !ok {
		p.text(0, 0, "no items", tcell.StyleDefault)
		p.screen.Show()
		return
	}

	status := fmt.Sprintf("[%s] %s  time x%.2f  camera %.1f,%.1f,%.1f",
		p.key, item.Name, item.TimeScale(), p.cam.Position().X(), p.cam.Position().Y(), p.cam.Position().Z())
	if p.paused {
		status += "  paused"
	}
	if p.err != nil {
		status = fmt.Sprintf("[%s] %s: %v", p.key, item.Name, p.err)
	}
	p.text(0, 0, status, tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true))

	m := p.meshes[p.key]
	if m == nil {
		p.screen.Show()
		return
	}

	world := item.Transform()
	pos := p.cam.Position()
	forward, right, up := p.cam.basis()
	focal := float64(h-hudRows) / 2

	project := func(i uint32) (int, int, bool) {
		v := m.Vertex(int(i))
		d := world.Apply(geom.V(v[0], v[1], v[2])).Sub(pos)
		z := d.Dot(forward)
		if z < nearPlane {
			return 0, 0, false
		}
		x := float64(w)/2 + d.Dot(right)/z*focal*cellAspect
		y := float64(hudRows) + float64(h-hudRows)/2 - d.Dot(up)/z*focal
		return int(math.Round(x)), int(math.Round(y)), true
	}

	for t := 0; t < m.TriangleCount(); t++ {
		var xs, ys [3]int
		visible := true
		for k := 0; k < 3; k++ {
			var ok bool
			xs[k], ys[k], ok = project(m.Indices[3*t+k])
			visible = visible && ok
		}
		if !visible {
			continue
		}
		c := m.Colors[4*m.Indices[3*t] : 4*m.Indices[3*t]+3]
		style := tcell.StyleDefault.Foreground(tcell.NewRGBColor(int32(c[0]), int32(c[1]), int32(c[2])))
		for k := 0; k < 3; k++ {
			p.line(xs[k], ys[k], xs[(k+1)%3], ys[(k+1)%3], style)
		}
	}
	p.screen.Show()
}

// line draws a Bresenham line clipped to the area below the status line.
func (p *preview) line(x0, y0, x1, y1 int, style tcell.Style) {
	w, h := p.screen.Size()
	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := sign(x1-x0), sign(y1-y0)
	e := dx + dy
	for {
		if x0 >= 0 && x0 < w && y0 >= hudRows && y0 < h {
			p.screen.SetContent(x0, y0, '·', nil, style)
		}
		if x0 == x1 && y0 == y1 {
			return
		}
		if 2*e >= dy {
			e += dy
			x0 += sx
		}
		if 2*e <= dx {
			e += dx
			y0 += sy
		}
	}
}

func (p *preview) text(x, y int, s string, style tcell.Style) {
	for _, r := range s {
		p.screen.SetContent(x, y, r, nil, style)
		x++
	}
}

// run is the frame loop: input is read on its own goroutine and applied
// between frames.
func (p *preview) run(frame time.Duration) {
	ticker := time.NewTicker(frame)
	defer ticker.Stop()

	events := make(chan tcell.Event, 100)
	quit := make(chan struct{})
	defer close(quit)
	go func() {
		for {
			ev := p.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-quit:
				return
			}
		}
	}()

	last := time.Now()
	for {
		select {
		case ev := <-events:
			if !p.handle(ev) {
				return
			}
		case now := <-ticker.C:
			p.step(now.Sub(last).Seconds())
			last = now
			p.draw()
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
