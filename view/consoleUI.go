package view

import (
	"bytes"
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/jroimartin/gocui"
	"github.com/logrusorgru/aurora"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/sheikhrachel/go-torus/model"
	"github.com/sheikhrachel/go-torus/rules"
	"github.com/sheikhrachel/go-torus/utils"
)

const (
	fieldView  = "universe"
	statusView = "status"
	configView = "configuration"
	helpView   = "help"
	headerView = "header"

	minTickInterval = 10 * time.Millisecond
)

type keyBinding struct {
	key      interface{}
	name     string
	descr    string
	handler  func(v *gocui.View) error
	viewName string
}

// ConsoleUI is an interactive terminal view over a single universe.
// gocui handlers and the run loop share the universe under mu.
type ConsoleUI struct {
	mu       sync.Mutex
	u        *model.Universe
	config   utils.Config
	rng      *rand.Rand
	stats    *utils.Stats
	history  *model.History
	running  bool
	stagnant bool

	g *gocui.Gui
	k []keyBinding

	liveFiller string
	deadFiller string
}

func NewConsoleUI(u *model.Universe, config utils.Config) (*ConsoleUI, error) {
	t := &ConsoleUI{
		u:          u,
		config:     config,
		rng:        rand.New(rand.NewSource(config.Seed)),
		stats:      utils.NewStats(),
		history:    model.NewHistory(model.DefaultHistorySize),
		liveFiller: aurora.Green("█").BgBrightGreen().String(),
		deadFiller: "░",
	}
	if !config.Color {
		t.liveFiller = "█"
	}
	t.history.Record(u)
	t.k = []keyBinding{
		{gocui.KeyCtrlC, "^C", "Exit", t.cmdQuit, ""},
		{'n', "N", "Next generation", t.cmdStep, ""},
		{'r', "R", "Run", t.cmdRun, ""},
		{'s', "S", "Stop", t.cmdStop, ""},
		{'c', "C", "Clear", t.cmdClear, ""},
		{'w', "W", "Seed with random", t.cmdRandom, ""},
		{gocui.MouseLeft, "MOUSE", "Flip the cell", t.cmdMouseClick, fieldView},
	}

	var err error
	if t.g, err = gocui.NewGui(gocui.OutputNormal); err != nil {
		return nil, errors.Wrap(err, "[NewConsoleUI] failed to open terminal")
	}
	t.g.Mouse = true
	t.g.SetManagerFunc(t.layout)
	for _, kb := range t.k {
		h := kb.handler
		if err = t.g.SetKeybinding(kb.viewName, kb.key, gocui.ModNone, func(_ *gocui.Gui, v *gocui.View) error { return h(v) }); err != nil {
			t.g.Close()
			return nil, errors.Wrapf(err, "[NewConsoleUI] failed to bind %s", kb.name)
		}
	}
	return t, nil
}

// Run blocks until the user quits or ctx is cancelled
func (t *ConsoleUI) Run(ctx context.Context) error {
	defer t.g.Close()

	ctx, cancel := context.WithCancel(ctx)
	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		defer cancel()
		if err := t.g.MainLoop(); err != nil && err != gocui.ErrQuit {
			return errors.Wrap(err, "[Run] main loop failed")
		}
		return nil
	})
	eg.Go(func() error {
		<-ctx.Done()
		t.g.Update(func(*gocui.Gui) error { return gocui.ErrQuit })
		return nil
	})
	eg.Go(func() error {
		ticker := time.NewTicker(max(time.Duration(t.config.FrameRate), minTickInterval))
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				if t.advance(true) {
					t.refresh()
				}
			}
		}
	})
	return eg.Wait()
}

// advance ticks the universe once; with onlyRunning it is a no-op unless running
func (t *ConsoleUI) advance(onlyRunning bool) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if onlyRunning && !t.running {
		return false
	}
	start := time.Now()
	t.u.Tick()
	t.stats.Update(t.u.Generation(), t.u.CountLivingCells(), time.Since(start))

	t.stagnant = t.history.IsStagnant(t.u)
	t.history.Record(t.u)
	limit := t.config.MaxGenerations > 0 && t.u.Generation() >= t.config.MaxGenerations
	if t.stats.LivingCells == 0 || limit {
		t.running = false
	}
	return true
}

func (t *ConsoleUI) refresh() {
	t.g.Update(func(g *gocui.Gui) error {
		t.renderField(g)
		t.renderStatus(g)
		return nil
	})
}

// renderField draws the universe, cropping it to the view
func (t *ConsoleUI) renderField(g *gocui.Gui) {
	v, err := g.View(fieldView)
	if err != nil {
		return
	}
	v.Clear()

	t.mu.Lock()
	defer t.mu.Unlock()
	maxW, maxH := v.Size()
	crop := t.u.Width() > maxW || t.u.Height() > maxH

	var b bytes.Buffer
	for y := range t.u.Height() {
		if y >= maxH {
			break
		}
		if y != 0 {
			b.WriteByte('\n')
		}
		if crop && y == maxH-1 {
			b.WriteString(aurora.Red("The universe is larger than the viewing area").BgBlack().String())
			break
		}
		for x := range min(t.u.Width(), maxW) {
			if t.u.Get(x, y) == rules.Alive {
				b.WriteString(t.liveFiller)
			} else {
				b.WriteString(t.deadFiller)
			}
		}
	}
	_, _ = fmt.Fprint(v, b.String())
}

func (t *ConsoleUI) renderStatus(g *gocui.Gui) {
	v, err := g.View(statusView)
	if err != nil {
		return
	}
	v.Clear()

	t.mu.Lock()
	mode := aurora.Colorize("waiting", aurora.BlueFg).String()
	switch {
	case t.running:
		mode = aurora.Colorize("running", aurora.CyanFg).String()
	case t.u.CountLivingCells() == 0:
		mode = aurora.Colorize("extinct", aurora.RedFg).String()
	case t.stagnant:
		mode = aurora.Colorize("stagnant", aurora.RedFg).String()
	}
	generation, living, tick := t.u.Generation(), t.u.CountLivingCells(), t.stats.TickDuration
	t.mu.Unlock()

	_, _ = fmt.Fprintln(v, t.renderProp("Generation", "%v", generation))
	_, _ = fmt.Fprintln(v, t.renderProp("Live cells", "%v", living))
	_, _ = fmt.Fprintln(v, t.renderProp("Tick time", "%v", tick.Round(time.Microsecond)))
	_, _ = fmt.Fprintln(v, t.renderProp("Mode", "%v", mode))
}

func (t *ConsoleUI) renderConfiguration(g *gocui.Gui) {
	v, err := g.View(configView)
	if err != nil {
		return
	}
	v.Clear()
	_, _ = fmt.Fprintln(v, t.renderProp("Dimension", "%v x %v", t.u.Width(), t.u.Height()))
	_, _ = fmt.Fprintln(v, t.renderProp("Interval", "%v", time.Duration(t.config.FrameRate)))
	_, _ = fmt.Fprintln(v, t.renderProp("Generations", "%v", t.config.MaxGenerations))
	_, _ = fmt.Fprintln(v, t.renderProp("Density", "%v", t.config.RandomDensity))
}

func (t *ConsoleUI) renderProp(name string, valueFormat string, values ...interface{}) string {
	return fmt.Sprintf(" "+aurora.Colorize(name, aurora.GreenFg).String()+": "+valueFormat, values...)
}

func (t *ConsoleUI) layout(g *gocui.Gui) error {
	maxX, maxY := g.Size()
	leftColumnWidth := 28
	minWindowHeight := 20

	if maxY < minWindowHeight {
		if err := t.headerLayout(g, maxY, "Terminal height too small"); err != nil {
			return err
		}
		_ = g.DeleteView(configView)
		_ = g.DeleteView(statusView)
		_ = g.DeleteView(fieldView)
		return nil
	}
	if err := t.headerLayout(g, 3, "Game of Life on a torus"); err != nil {
		return err
	}

	if v, err := g.SetView(configView, 0, 3, leftColumnWidth, 3+(maxY-5-3)/2); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Title = "Configuration"
		t.renderConfiguration(g)
	}

	if v, err := g.SetView(statusView, 0, 3+(maxY-5-3)/2+1, leftColumnWidth, maxY-5); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Title = "Status"
	}
	t.renderStatus(g)

	if v, err := g.SetView(fieldView, leftColumnWidth+1, 3, maxX-1, maxY-5); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Title = "Universe"
	}
	t.renderField(g)

	if v, err := g.SetView(helpView, -1, maxY-5, maxX, maxY-3); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Frame = false
		_, _ = fmt.Fprintln(v, t.helpLine())
	}

	return nil
}

func (t *ConsoleUI) helpLine() string {
	parts := make([]string, 0, len(t.k))
	for _, k := range t.k {
		parts = append(parts, aurora.Green(k.name).String()+": "+k.descr)
	}
	return "KEYBINDINGS: " + strings.Join(parts, ", ")
}

func (t *ConsoleUI) headerLayout(g *gocui.Gui, height int, text string) error {
	maxX, _ := g.Size()
	v, err := g.SetView(headerView, -1, -1, maxX+1, height)
	if err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Frame = false
		v.BgColor = gocui.ColorCyan
		v.FgColor = gocui.ColorBlack
	}
	v.Clear()
	pad := max(0, (maxX-len(text))/2)
	_, _ = fmt.Fprintln(v, strings.Repeat("\n", height/2)+strings.Repeat(" ", pad)+text)
	return nil
}

func (t *ConsoleUI) cmdQuit(_ *gocui.View) error {
	return gocui.ErrQuit
}

func (t *ConsoleUI) cmdStep(_ *gocui.View) error {
	t.mu.Lock()
	t.running = false
	t.mu.Unlock()
	t.advance(false)
	t.refresh()
	return nil
}

func (t *ConsoleUI) cmdRun(_ *gocui.View) error {
	t.mu.Lock()
	t.running = true
	t.mu.Unlock()
	t.refresh()
	return nil
}

func (t *ConsoleUI) cmdStop(_ *gocui.View) error {
	t.mu.Lock()
	t.running = false
	t.mu.Unlock()
	t.refresh()
	return nil
}

func (t *ConsoleUI) cmdClear(_ *gocui.View) error {
	t.mu.Lock()
	t.running = false
	t.u.Clear()
	t.history.Reset()
	t.mu.Unlock()
	t.refresh()
	return nil
}

func (t *ConsoleUI) cmdRandom(_ *gocui.View) error {
	t.mu.Lock()
	t.running = false
	t.u.Clear()
	t.history.Reset()
	t.u.Randomize(t.rng, t.config.RandomDensity)
	t.mu.Unlock()
	t.refresh()
	return nil
}

func (t *ConsoleUI) cmdMouseClick(v *gocui.View) error {
	cx, cy := v.Cursor()
	t.mu.Lock()
	if cx < t.u.Width() && cy < t.u.Height() {
		t.u.Flip(cx, cy)
	}
	t.mu.Unlock()
	t.refresh()
	return nil
}
