package main

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"strings"
	"time"

	"github.com/logrusorgru/aurora"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/sheikhrachel/go-torus/model"
	"github.com/sheikhrachel/go-torus/utils"
)

const (
	statusActive   = "Active"
	statusStagnant = "Stagnant"
	statusExtinct  = "Extinct"
)

// frame is one rendered generation handed from the simulation to the display,
// generation counts ticks across restarts
type frame struct {
	generation int
	grid       string
	status     string
}

// game drives a universe from its initial seed until the context ends
type game struct {
	config   utils.Config
	rng      *rand.Rand
	out      io.Writer
	renderer *model.TerminalRenderer
	au       aurora.Aurora
	clear    bool
}

func newGame(config utils.Config, out io.Writer) *game {
	return &game{
		config:   config,
		rng:      rand.New(rand.NewSource(config.Seed)),
		out:      out,
		renderer: &model.TerminalRenderer{Out: out, Color: config.Color},
		au:       aurora.NewAurora(config.Color),
	}
}

// initializeGame sets up the initial game state
func initializeGame(config utils.Config, rng *rand.Rand) (*model.Universe, error) {
	universe, err := model.Build(config.EdgeSize)
	if err != nil {
		return nil, errors.Wrap(err, "[initializeGame] failed to build universe")
	}
	if err = seedUniverse(universe, config, rng); err != nil {
		return nil, err
	}
	return universe, nil
}

// seedUniverse places the configured pattern and, if enabled, random life
func seedUniverse(universe *model.Universe, config utils.Config, rng *rand.Rand) error {
	if config.Pattern != "" {
		pattern, err := model.PatternByName(config.Pattern)
		if err != nil {
			return errors.Wrap(err, "[seedUniverse] failed to load pattern")
		}
		universe.Place(pattern, config.PatternX, config.PatternY)
	}
	if config.Random {
		universe.Randomize(rng, config.RandomDensity)
	}
	return nil
}

// displayGameInfo shows the initial game information
func displayGameInfo(w io.Writer, config utils.Config, universe *model.Universe) {
	seed := config.Pattern
	if config.Random {
		seed = fmt.Sprintf("%s random(%.2f)", seed, config.RandomDensity)
	}
	fmt.Fprintf(w, "Universe: %dx%d torus | Seed: %s | Initial living cells: %d\n",
		universe.Width(), universe.Height(), strings.TrimSpace(seed), universe.CountLivingCells())
	fmt.Fprintf(w, "Frame rate: %v | Max generations: %d | Auto restart: %v\n",
		time.Duration(config.FrameRate), config.MaxGenerations, config.AutoRestart)
	fmt.Fprintln(w, "Press Ctrl+C to exit gracefully")
	fmt.Fprintln(w)
}

// updateGameState updates stats and history and returns status information
func updateGameState(
	universe *model.Universe,
	history *model.History,
	stats *utils.Stats,
	tickDuration time.Duration,
) (int, float64, string, bool) {
	livingCells := universe.CountLivingCells()
	density := float64(livingCells) / float64(universe.Width()*universe.Height()) * 100

	stats.Update(universe.Generation(), livingCells, tickDuration)

	isStagnant := history.IsStagnant(universe)
	history.Record(universe)

	status := statusActive
	if isStagnant {
		status = statusStagnant
	}
	if livingCells == 0 {
		status = statusExtinct
	}

	return livingCells, density, status, isStagnant
}

// formatGameStatus formats the status lines shown under each frame
func formatGameStatus(
	au aurora.Aurora,
	generation, livingCells int,
	density float64,
	status string,
	stats *utils.Stats,
) string {
	colored := au.Cyan(status)
	switch status {
	case statusStagnant:
		colored = au.Blue(status)
	case statusExtinct:
		colored = au.Red(status)
	}
	return fmt.Sprintf("Gen: %d | Living: %d | Density: %.1f%% | Status: %s\nTick: %v | Avg Pop: %.1f | Runtime: %.1fs\n",
		generation, livingCells, density, colored,
		stats.TickDuration.Round(time.Microsecond), stats.AveragePopulation, stats.Runtime().Seconds())
}

// checkRestartConditions determines if the game should restart
func checkRestartConditions(livingCells, stagnantCount int, config utils.Config) (bool, string) {
	if livingCells == 0 {
		return true, "extinction"
	}
	if stagnantCount >= config.StagnationThreshold {
		return true, "stagnation detected"
	}
	return false, ""
}

// simulate ticks the universe and publishes one frame per generation
func (g *game) simulate(ctx context.Context, universe *model.Universe, frames chan<- frame) error {
	defer close(frames)

	var (
		history       = model.NewHistory(model.DefaultHistorySize)
		stats         = utils.NewStats()
		stagnantCount int
		tickDuration  time.Duration
		generations   int
		note          string
	)

	for {
		livingCells, density, status, isStagnant := updateGameState(universe, history, stats, tickDuration)
		if isStagnant {
			stagnantCount++
		} else {
			stagnantCount = 0
		}

		var grid strings.Builder
		r := model.TerminalRenderer{Out: &grid, Color: g.renderer.Color}
		if err := r.Display(universe); err != nil {
			return err
		}

		select {
		case frames <- frame{
			generation: generations,
			grid:       grid.String(),
			status:     note + formatGameStatus(g.au, universe.Generation(), livingCells, density, status, stats),
		}:
		case <-ctx.Done():
			return nil
		}
		note = ""

		if g.config.MaxGenerations > 0 && generations >= g.config.MaxGenerations {
			return nil
		}

		// a restart takes the place of a tick and counts as one generation
		restart, reason := checkRestartConditions(livingCells, stagnantCount, g.config)
		reseeded := false
		switch {
		case restart && g.config.AutoRestart:
			universe.Clear()
			if err := seedUniverse(universe, g.config, g.rng); err != nil {
				return err
			}
			history.Reset()
			stagnantCount = 0
			reseeded = true
			note = fmt.Sprintf("Restarted due to %s\n", reason)
		case livingCells == 0:
			return nil
		}

		if g.config.FrameRate > 0 {
			select {
			case <-time.After(time.Duration(g.config.FrameRate)):
			case <-ctx.Done():
				return nil
			}
		}

		if !reseeded {
			start := time.Now()
			universe.Tick()
			tickDuration = time.Since(start)
		}
		generations++
	}
}

// display writes frames to the terminal as they arrive
func (g *game) display(ctx context.Context, frames <-chan frame) (last frame, err error) {
	for {
		select {
		case f, ok := <-frames:
			if !ok {
				return last, nil
			}
			if g.clear {
				if err = g.renderer.Clear(); err != nil {
					return last, err
				}
			}
			if _, err = io.WriteString(g.out, f.grid+f.status); err != nil {
				return last, errors.Wrap(err, "[display] failed to write frame")
			}
			last = f
		case <-ctx.Done():
			return last, nil
		}
	}
}

// run plays the game until the context is cancelled or the generation limit is reached
func (g *game) run(ctx context.Context) (int, error) {
	universe, err := initializeGame(g.config, g.rng)
	if err != nil {
		return 0, err
	}
	displayGameInfo(g.out, g.config, universe)

	var (
		eg, egCtx = errgroup.WithContext(ctx)
		frames    = make(chan frame, 1)
		last      frame
	)
	eg.Go(func() error {
		return g.simulate(egCtx, universe, frames)
	})
	eg.Go(func() (err error) {
		last, err = g.display(egCtx, frames)
		return err
	})
	if err = eg.Wait(); err != nil {
		return last.generation, errors.Wrap(err, "[run] game stopped")
	}
	return last.generation, nil
}
