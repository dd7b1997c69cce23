package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"

	"github.com/sheikhrachel/go-torus/model"
	"github.com/sheikhrachel/go-torus/utils"
)

func testConfig() utils.Config {
	c := utils.DefaultConfig()
	c.EdgeSize = 5
	c.FrameRate = 0
	c.Color = false
	c.Seed = 1
	return c
}

func TestRunStopsAtMaxGenerations(t *testing.T) {
	c := testConfig()
	c.Pattern = "blinker"
	c.MaxGenerations = 4

	var out bytes.Buffer
	generations, err := newGame(c, &out).run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if generations != 4 {
		t.Fatalf("ran %d generations, want 4", generations)
	}

	blinker := model.MustBuild(5)
	blinker.Place(model.Blinker, 0, 0)
	got := out.String()
	for _, want := range []string{"Universe: 5x5 torus", "Gen: 0 |", "Gen: 4 |", blinker.String(), "Status: Stagnant"} {
		if !strings.Contains(got, want) {
			t.Fatalf("output misses %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "Gen: 5 |") {
		t.Fatalf("ran past the generation limit:\n%s", got)
	}
}

func TestRunStopsOnExtinction(t *testing.T) {
	c := testConfig()
	c.Pattern = ""

	var out bytes.Buffer
	generations, err := newGame(c, &out).run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if generations != 0 || !strings.Contains(out.String(), "Status: Extinct") {
		t.Fatalf("generations = %d, output:\n%s", generations, out.String())
	}
}

func TestRunRestartsOnStagnation(t *testing.T) {
	c := testConfig()
	c.Pattern = "block"
	c.AutoRestart = true
	c.StagnationThreshold = 2
	c.MaxGenerations = 6

	var out bytes.Buffer
	if _, err := newGame(c, &out).run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Restarted due to stagnation detected") {
		t.Fatalf("no restart in output:\n%s", out.String())
	}
}

func TestRunRestartIntoExtinctionHonoursLimit(t *testing.T) {
	c := testConfig()
	c.Pattern = ""
	c.Random = true
	c.RandomDensity = 0
	c.AutoRestart = true
	c.MaxGenerations = 3
	c.FrameRate = utils.Duration(time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var out bytes.Buffer
	start := time.Now()
	generations, err := newGame(c, &out).run(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if ctx.Err() != nil {
		t.Fatalf("run only stopped on the deadline after %v", time.Since(start))
	}
	if generations != 3 {
		t.Fatalf("ran %d generations, want 3", generations)
	}
	if got := strings.Count(out.String(), "Restarted due to extinction"); got != 3 {
		t.Fatalf("restarted %d times, want 3:\n%s", got, out.String())
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	c := testConfig()
	c.EdgeSize = 12
	c.FrameRate = utils.Duration(time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	var out bytes.Buffer
	done := make(chan error, 1)
	go func() {
		_, err := newGame(c, &out).run(ctx)
		done <- err
	}()
	select {
	case err := <-done:
		if err != nil {
			t.Fatal(err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("game did not stop after cancellation")
	}
}

func TestRunRejectsUnknownPattern(t *testing.T) {
	c := testConfig()
	c.Pattern = "spaceship"
	if _, err := newGame(c, &bytes.Buffer{}).run(context.Background()); !errors.Is(err, model.ErrUnknownPattern) {
		t.Fatalf("run() error = %v, want ErrUnknownPattern", err)
	}
}

func TestCheckRestartConditions(t *testing.T) {
	c := testConfig()
	if restart, reason := checkRestartConditions(0, 0, c); !restart || reason != "extinction" {
		t.Fatalf("extinction: %v %q", restart, reason)
	}
	if restart, _ := checkRestartConditions(3, c.StagnationThreshold-1, c); restart {
		t.Fatal("restart below threshold")
	}
	if restart, reason := checkRestartConditions(3, c.StagnationThreshold, c); !restart || reason != "stagnation detected" {
		t.Fatalf("stagnation: %v %q", restart, reason)
	}
}

func TestParseFlags(t *testing.T) {
	c, err := parseFlags([]string{"-s", "8", "-p", "toad", "-g", "10", "-i", "20ms", "--no-color", "--seed", "7"})
	if err != nil {
		t.Fatal(err)
	}
	if c.EdgeSize != 8 || c.Pattern != "toad" || c.MaxGenerations != 10 || c.Color || c.Seed != 7 {
		t.Fatalf("unexpected config %+v", c)
	}
	if time.Duration(c.FrameRate) != 20*time.Millisecond {
		t.Fatalf("frame rate = %v", time.Duration(c.FrameRate))
	}
}

func TestParseFlagsOverridesConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"edge_size": 40, "pattern": "beacon", "auto_restart": true}`), 0o600); err != nil {
		t.Fatal(err)
	}
	c, err := parseFlags([]string{"-c", path, "-p", "glider"})
	if err != nil {
		t.Fatal(err)
	}
	if c.EdgeSize != 40 || c.Pattern != "glider" || !c.AutoRestart {
		t.Fatalf("unexpected config %+v", c)
	}
	if c.Seed == 0 {
		t.Fatal("seed was not defaulted")
	}
}

func TestParseFlagsZeroOverridesConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	body := `{"pattern": "beacon", "pattern_x": 3, "pattern_y": 4, "max_generations": 50, "random_density": 0.4, "frame_rate": "250ms"}`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	c, err := parseFlags([]string{"-c", path})
	if err != nil {
		t.Fatal(err)
	}
	if c.PatternX != 3 || c.PatternY != 4 || c.MaxGenerations != 50 || c.RandomDensity != 0.4 {
		t.Fatalf("config file values lost: %+v", c)
	}
	if time.Duration(c.FrameRate) != 250*time.Millisecond {
		t.Fatalf("frame rate = %v", time.Duration(c.FrameRate))
	}

	c, err = parseFlags([]string{"-c", path, "-x", "0", "-y", "0", "-g", "0", "-d", "0", "-i", "0s"})
	if err != nil {
		t.Fatal(err)
	}
	if c.PatternX != 0 || c.PatternY != 0 || c.MaxGenerations != 0 || c.RandomDensity != 0 || c.FrameRate != 0 {
		t.Fatalf("zero flags did not override the config file: %+v", c)
	}
	if c.Pattern != "beacon" {
		t.Fatalf("pattern = %q, want beacon", c.Pattern)
	}
}

func TestParseFlagsValidates(t *testing.T) {
	if _, err := parseFlags([]string{"-d", "2"}); !errors.Is(err, utils.ErrInvalidConfig) {
		t.Fatalf("parseFlags error = %v, want ErrInvalidConfig", err)
	}
}
