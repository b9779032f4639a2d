package game

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"

	"github.com/sheikhrachel/gol-term/model"
	"github.com/sheikhrachel/gol-term/patterns"
)

func newSession(t *testing.T, rows, cols int, policy model.Policy, opts EditOptions) *EditSession {
	t.Helper()
	return NewEditSession(model.NewGrid(rows, cols, policy), patterns.Default(), opts)
}

func TestEditSessionStartsBrowsing(t *testing.T) {
	s := newSession(t, 10, 12, model.Wrap, EditOptions{})
	if s.State() != Browsing {
		t.Fatalf("state = %s, want browsing", s.State())
	}
	if s.Cursor() != (model.Position{}) {
		t.Fatalf("cursor = %+v, want origin", s.Cursor())
	}
}

func TestMoveCursorClamps(t *testing.T) {
	s := newSession(t, 10, 12, model.Wrap, EditOptions{})
	if err := s.MoveCursor(-3, -3); err != nil {
		t.Fatal(err)
	}
	if s.Cursor() != (model.Position{}) {
		t.Fatalf("cursor wrapped to %+v", s.Cursor())
	}
	if err := s.MoveCursor(50, 50); err != nil {
		t.Fatal(err)
	}
	if s.Cursor() != (model.Position{Row: 9, Col: 11}) {
		t.Fatalf("cursor = %+v, want bottom-right corner", s.Cursor())
	}
}

func TestPatternPreviewLeavesBaseUntouched(t *testing.T) {
	s := newSession(t, 10, 10, model.Wrap, EditOptions{})
	if err := s.SelectPattern(patterns.Glider); err != nil {
		t.Fatal(err)
	}
	if s.State() != PatternSelected {
		t.Fatalf("state = %s", s.State())
	}
	if s.Base().CountLivePopulation() != 0 {
		t.Fatal("selecting a pattern changed the base")
	}
	if s.View().CountLivePopulation() != 5 {
		t.Fatalf("preview population %d, want 5", s.View().CountLivePopulation())
	}

	_ = s.MoveCursor(2, 3)
	if !s.View().Alive(4, 3) || s.View().Alive(2, 0) {
		t.Fatal("preview did not follow the cursor")
	}
	if s.Base().CountLivePopulation() != 0 {
		t.Fatal("moving the preview changed the base")
	}

	if err := s.Confirm(); err != nil {
		t.Fatal(err)
	}
	if s.State() != Browsing {
		t.Fatalf("state after confirm = %s", s.State())
	}
	if n := s.Base().CountLivePopulation(); n != 5 || !s.Base().Alive(4, 3) {
		t.Fatalf("base after confirm pop %d", n)
	}
}

func TestConfirmMergeModes(t *testing.T) {
	place := func(s *EditSession) {
		_ = s.SelectPattern(patterns.Boat)
		_ = s.Confirm()
		_ = s.MoveCursor(5, 5)
		_ = s.SelectPattern(patterns.Beacon)
		_ = s.Confirm()
	}

	or := newSession(t, 12, 12, model.Wrap, EditOptions{Merge: MergeOr})
	place(or)
	if n := or.Base().CountLivePopulation(); n != 13 {
		t.Fatalf("OR merge population %d, want boat + beacon = 13", n)
	}

	replace := newSession(t, 12, 12, model.Wrap, EditOptions{Merge: MergeReplace})
	place(replace)
	if n := replace.Base().CountLivePopulation(); n != 8 {
		t.Fatalf("replace population %d, want beacon only = 8", n)
	}
}

func TestCancelDropsPreview(t *testing.T) {
	s := newSession(t, 10, 10, model.Wrap, EditOptions{})
	_ = s.SelectPattern(patterns.Toad)
	if err := s.Cancel(); err != nil {
		t.Fatal(err)
	}
	if s.State() != Browsing || s.View().CountLivePopulation() != 0 {
		t.Fatal("cancel kept the pattern")
	}
}

func TestToggleOnlyInSingleCellMode(t *testing.T) {
	s := newSession(t, 6, 6, model.Wrap, EditOptions{})
	if err := s.Toggle(); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("toggle while browsing err = %v", err)
	}
	if s.Message() == "" {
		t.Fatal("no hint after invalid toggle")
	}

	_ = s.SelectCell()
	_ = s.MoveCursor(2, 1)
	if err := s.Toggle(); err != nil {
		t.Fatal(err)
	}
	if !s.Base().Alive(2, 1) {
		t.Fatal("toggle did not set the cell")
	}
	_ = s.Toggle()
	if s.Base().Alive(2, 1) {
		t.Fatal("second toggle did not clear the cell")
	}
}

func TestFinishWithoutEdits(t *testing.T) {
	s := newSession(t, 8, 8, model.Wrap, EditOptions{})
	g, err := s.Finish()
	if err != nil {
		t.Fatal(err)
	}
	if g.CountLivePopulation() != 0 || s.State() != Committed {
		t.Fatal("empty finish should give an all-dead committed grid")
	}

	for name, err := range map[string]error{
		"move":   s.MoveCursor(1, 0),
		"select": s.SelectPattern(patterns.Boat),
		"cell":   s.SelectCell(),
		"clear":  s.Clear(),
		"key":    s.HandleKey(context.Background(), Key{Code: KeyEnter}),
	} {
		if !errors.Is(err, ErrCommitted) {
			t.Fatalf("%s after commit: err = %v", name, err)
		}
	}
	if _, err := s.Finish(); !errors.Is(err, ErrCommitted) {
		t.Fatalf("second finish err = %v", err)
	}
}

func TestFinishDropsUnconfirmedPattern(t *testing.T) {
	s := newSession(t, 8, 8, model.Wrap, EditOptions{})
	_ = s.SelectPattern(patterns.Blinker)
	g, _ := s.Finish()
	if g.CountLivePopulation() != 0 {
		t.Fatal("unconfirmed preview leaked into the committed grid")
	}
}

func TestFinishBorderedKillsRing(t *testing.T) {
	s := newSession(t, 6, 6, model.Bordered, EditOptions{})
	_ = s.SelectCell()
	_ = s.Toggle()
	_ = s.MoveCursor(2, 2)
	_ = s.Toggle()
	g, _ := s.Finish()
	if g.Alive(0, 0) {
		t.Fatal("border cell survived the commit")
	}
	if !g.Alive(2, 2) {
		t.Fatal("interior cell lost")
	}
}

func TestClearAndSeed(t *testing.T) {
	s := newSession(t, 20, 20, model.Wrap, EditOptions{Noise: patterns.NoiseOptions{Density: 0.1, Seed: 3}})
	if err := s.Seed(); err != nil {
		t.Fatal(err)
	}
	first := s.Base().CountLivePopulation()
	if first != 40 {
		t.Fatalf("seeded population %d, want 40", first)
	}
	if s.Message() != "seeded 40 cells" {
		t.Fatalf("message %q", s.Message())
	}
	if err := s.Seed(); err != nil {
		t.Fatal(err)
	}
	added := s.Base().CountLivePopulation() - first
	if want := fmt.Sprintf("seeded %d cells", added); s.Message() != want {
		t.Fatalf("message %q, want %q counting only new cells", s.Message(), want)
	}
	if err := s.Clear(); err != nil {
		t.Fatal(err)
	}
	if s.Base().CountLivePopulation() != 0 {
		t.Fatal("clear left cells")
	}
}

func TestSeedCountsOnlyNewCells(t *testing.T) {
	s := newSession(t, 10, 10, model.Wrap, EditOptions{Noise: patterns.NoiseOptions{Density: 0.5, Seed: 1}})
	for r := range 10 {
		for c := range 10 {
			s.Base().SetClipped(r, c, model.Live)
		}
	}
	if err := s.Seed(); err != nil {
		t.Fatal(err)
	}
	if s.Message() != "seeded 0 cells" {
		t.Fatalf("message %q on a full grid", s.Message())
	}
}

type fakeExchanger struct {
	err   error
	calls int
}

func (f *fakeExchanger) Exchange(_ context.Context, g *model.Grid) error {
	f.calls++
	if f.err != nil {
		g.SetClipped(0, 0, model.Live) // a partial write must not leak
		return f.err
	}
	g.Clear()
	g.SetClipped(3, 3, model.Live)
	return nil
}

func TestExchange(t *testing.T) {
	ctx := context.Background()

	ok := &fakeExchanger{}
	s := newSession(t, 6, 6, model.Wrap, EditOptions{Exchanger: ok})
	if err := s.Exchange(ctx); err != nil {
		t.Fatal(err)
	}
	if !s.Base().Alive(3, 3) || s.Base().CountLivePopulation() != 1 {
		t.Fatal("imported grid not applied")
	}

	broken := &fakeExchanger{err: errors.New("exec: not found")}
	s = newSession(t, 6, 6, model.Wrap, EditOptions{Exchanger: broken})
	_ = s.SelectCell()
	_ = s.MoveCursor(1, 1)
	_ = s.Toggle()
	err := s.Exchange(ctx)
	if !errors.Is(err, ErrExternalToolUnavailable) {
		t.Fatalf("err = %v, want ErrExternalToolUnavailable", err)
	}
	if s.Base().Alive(0, 0) || !s.Base().Alive(1, 1) {
		t.Fatal("failed exchange modified the base")
	}
	if s.State() != Editing {
		t.Fatalf("failed exchange changed state to %s", s.State())
	}

	s = newSession(t, 6, 6, model.Wrap, EditOptions{})
	if err := s.Exchange(ctx); !errors.Is(err, ErrExternalToolUnavailable) {
		t.Fatalf("no exchanger err = %v", err)
	}
}

func TestHandleKeyInvalidDigit(t *testing.T) {
	boat, _ := patterns.Builtin(patterns.Boat)
	s := NewEditSession(model.NewGrid(5, 5, model.Wrap), patterns.NewCatalog(boat), EditOptions{})
	err := s.HandleKey(context.Background(), RuneKey('4'))
	if !errors.Is(err, ErrInvalidSelection) {
		t.Fatalf("err = %v, want ErrInvalidSelection", err)
	}
	if s.State() != Browsing || !strings.Contains(s.Message(), "0-1") {
		t.Fatalf("state %s message %q", s.State(), s.Message())
	}
}

func TestRunEditorPlacesPatternAndStarts(t *testing.T) {
	console := newScript(
		RuneKey('5'), // boat
		RuneKey('d'), RuneKey('d'), Key{Code: KeyDown},
		Key{Code: KeyEnter}, // place
		RuneKey('0'), Key{Code: KeyRight}, Key{Code: KeyRight}, Key{Code: KeySpace}, Key{Code: KeyEnter},
		Key{Code: KeySpace}, // ignored with a hint while browsing
		Key{Code: KeyEnter}, // start
	)
	s := newSession(t, 10, 10, model.Wrap, EditOptions{})
	g, err := RunEditor(context.Background(), s, console, model.NewFrameRenderer(), time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}
	for _, rc := range [][2]int{{1, 2}, {1, 3}, {2, 2}, {2, 4}, {3, 3}, {1, 4}} {
		if !g.Alive(rc[0], rc[1]) {
			t.Fatalf("cell %v not live in %v", rc, g.LiveCells())
		}
	}
	if n := g.CountLivePopulation(); n != 6 {
		t.Fatalf("population %d, want boat + one cell", n)
	}
	if s.State() != Committed {
		t.Fatalf("state = %s", s.State())
	}
	if len(console.frames) != 13 {
		t.Fatalf("rendered %d frames, want initial + one per key", len(console.frames))
	}
	if !strings.Contains(console.frames[1], "place Boat") {
		t.Fatalf("frame after selecting boat: %q", console.frames[1])
	}
}

func TestRunEditorCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := newSession(t, 4, 4, model.Wrap, EditOptions{})
	if _, err := RunEditor(ctx, s, newScript(), model.NewFrameRenderer(), time.Millisecond); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}
