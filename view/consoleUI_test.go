package view

import (
	"strings"
	"testing"

	"github.com/sheikhrachel/go-torus/model"
	"github.com/sheikhrachel/go-torus/utils"
)

// newTestUI builds a ConsoleUI without a terminal attached
func newTestUI(u *model.Universe, config utils.Config) *ConsoleUI {
	return &ConsoleUI{
		u:       u,
		config:  config,
		stats:   utils.NewStats(),
		history: model.NewHistory(model.DefaultHistorySize),
	}
}

func TestAdvanceOnlyWhileRunning(t *testing.T) {
	u := model.MustBuild(5)
	u.Place(model.Blinker, 1, 2)
	ui := newTestUI(u, utils.DefaultConfig())

	if ui.advance(true) {
		t.Fatal("advanced while stopped")
	}
	if !ui.advance(false) || u.Generation() != 1 {
		t.Fatalf("manual step left generation at %d", u.Generation())
	}

	ui.running = true
	if !ui.advance(true) || u.Generation() != 2 {
		t.Fatalf("running step left generation at %d", u.Generation())
	}
	if ui.stagnant {
		t.Fatal("reported stagnant before a recorded state repeated")
	}
	ui.advance(true)
	if !ui.stagnant {
		t.Fatal("blinker repeating a recorded phase was not reported stagnant")
	}
}

func TestAdvanceStopsOnExtinctionAndLimit(t *testing.T) {
	u := model.MustBuild(5)
	u.Flip(2, 2)
	ui := newTestUI(u, utils.DefaultConfig())
	ui.running = true
	ui.advance(true)
	if ui.running {
		t.Fatal("still running after extinction")
	}

	config := utils.DefaultConfig()
	config.MaxGenerations = 2
	u = model.MustBuild(6)
	u.Place(model.Glider, 0, 0)
	ui = newTestUI(u, config)
	ui.running = true
	ui.advance(true)
	ui.advance(true)
	if ui.running || ui.advance(true) {
		t.Fatal("still running past the generation limit")
	}
}

func TestHelpLine(t *testing.T) {
	ui := newTestUI(model.MustBuild(3), utils.DefaultConfig())
	ui.k = []keyBinding{{name: "N", descr: "Next generation"}, {name: "R", descr: "Run"}}
	line := ui.helpLine()
	if !strings.HasPrefix(line, "KEYBINDINGS: ") || !strings.Contains(line, "Next generation") || !strings.Contains(line, "Run") {
		t.Fatalf("help line = %q", line)
	}
}
