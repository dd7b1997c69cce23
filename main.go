package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/integrii/flaggy"
	"github.com/pkg/errors"

	"github.com/sheikhrachel/go-torus/model"
	"github.com/sheikhrachel/go-torus/utils"
	"github.com/sheikhrachel/go-torus/view"
)

const (
	appName        = "go-torus"
	appDescription = "Conway's Game of Life on a toroidal square universe"
)

// flagOptions holds command line values that do not map onto a config field
type flagOptions struct {
	configPath string
	interval   time.Duration
	noColor    bool
}

// newFlagParser binds every flag to c, so a flag given on the command line
// replaces the value c already holds, zero values included
func newFlagParser(c *utils.Config, fo *flagOptions) *flaggy.Parser {
	fo.interval = time.Duration(c.FrameRate)

	p := flaggy.NewParser(appName)
	p.Description = appDescription
	p.String(&fo.configPath, "c", "config", "Path to a JSON configuration file")
	p.Int(&c.EdgeSize, "s", "size", "Edge size of the square universe")
	p.Duration(&fo.interval, "i", "interval", "Interval between generations, for example 150ms")
	p.Int(&c.MaxGenerations, "g", "generations", "Stop after this many generations (0 runs until interrupted)")
	p.String(&c.Pattern, "p", "pattern", "Seed pattern ["+strings.Join(model.PatternNames(), "|")+"]")
	p.Int(&c.PatternX, "x", "x", "Column of the pattern's top-left cell")
	p.Int(&c.PatternY, "y", "y", "Row of the pattern's top-left cell")
	p.Bool(&c.Random, "r", "random", "Seed with random life")
	p.Float64(&c.RandomDensity, "d", "density", "Probability of each cell being flipped by random seeding")
	p.Int64(&c.Seed, "", "seed", "Random seed (defaults to the current time)")
	p.Bool(&c.Interactive, "n", "interactive", "Start the interactive terminal view")
	p.Bool(&fo.noColor, "", "no-color", "Disable coloured output")
	p.Bool(&c.AutoRestart, "", "restart", "Restart with a fresh seed on extinction or stagnation")
	return p
}

// parseFlags reads the command line and merges it over the configuration file.
// The first pass only finds the config file, the second applies the flags on top of it.
func parseFlags(args []string) (utils.Config, error) {
	var (
		scratch = utils.DefaultConfig()
		fo      flagOptions
	)
	if err := newFlagParser(&scratch, &fo).ParseArgs(args); err != nil {
		return utils.Config{}, errors.Wrap(err, "[parseFlags] failed to parse arguments")
	}

	config := utils.DefaultConfig()
	if fo.configPath != "" {
		var err error
		if config, err = utils.LoadConfig(fo.configPath); err != nil {
			return config, err
		}
	}

	fo = flagOptions{}
	if err := newFlagParser(&config, &fo).ParseArgs(args); err != nil {
		return config, errors.Wrap(err, "[parseFlags] failed to parse arguments")
	}
	config.FrameRate = utils.Duration(fo.interval)
	if fo.noColor {
		config.Color = false
	}
	if config.Seed == 0 {
		config.Seed = time.Now().UnixNano()
	}

	return config, config.Validate()
}

func main() {
	config, err := parseFlags(os.Args[1:])
	if err != nil {
		log.Fatalf("%+v", err)
	}

	// Handle Ctrl+C gracefully
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if config.Interactive {
		universe, err := initializeGame(config, rand.New(rand.NewSource(config.Seed)))
		if err != nil {
			log.Fatalf("%+v", err)
		}
		ui, err := view.NewConsoleUI(universe, config)
		if err != nil {
			log.Fatalf("%+v", err)
		}
		if err = ui.Run(ctx); err != nil {
			log.Fatalf("%+v", err)
		}
		return
	}

	g := newGame(config, os.Stdout)
	g.clear = true
	start := time.Now()
	generations, err := g.run(ctx)
	if err != nil {
		log.Fatalf("%+v", err)
	}
	fmt.Printf("\nFinished: %d generations in %.1f seconds\n", generations, time.Since(start).Seconds())
}
