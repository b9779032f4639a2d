package game

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/pkg/errors"

	"github.com/sheikhrachel/gol-term/model"
	"github.com/sheikhrachel/gol-term/patterns"
)

// EditState is the state of an EditSession
type EditState int

const (
	Browsing EditState = iota
	PatternSelected
	Editing
	Committed
)

func (s EditState) String() string {
	switch s {
	case Browsing:
		return "browsing"
	case PatternSelected:
		return "pattern"
	case Editing:
		return "editing"
	case Committed:
		return "committed"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// MergeMode decides what confirming a pattern does to earlier edits
type MergeMode int

const (
	// MergeOr adds the pattern to the cells already placed.
	MergeOr MergeMode = iota
	// MergeReplace discards earlier cells and keeps only the new pattern.
	MergeReplace
)

func (m MergeMode) String() string {
	if m == MergeReplace {
		return "replace"
	}
	return "or"
}

// ParseMergeMode maps a config name onto a MergeMode
func ParseMergeMode(name string) (MergeMode, error) {
	switch name {
	case "or", "":
		return MergeOr, nil
	case "replace":
		return MergeReplace, nil
	}
	return MergeOr, errors.Errorf("[ParseMergeMode] unknown edit merge mode: %q", name)
}

// EditOptions configures an EditSession
type EditOptions struct {
	Merge     MergeMode
	Noise     patterns.NoiseOptions
	Exchanger Exchanger // nil disables the external editor
	Logger    *log.Logger
}

// EditSession lets a user place cells and patterns on a grid before a run.
// The base grid only changes on toggle, confirm, clear, seed and exchange;
// pattern placement is previewed on a separate grid until confirmed.
type EditSession struct {
	base    *model.Grid
	preview *model.Grid
	catalog *patterns.Catalog

	state   EditState
	cursor  model.Position
	pattern patterns.Pattern
	message string
	seeds   int64

	opts   EditOptions
	logger *log.Logger
}

// NewEditSession edits base in place
func NewEditSession(base *model.Grid, catalog *patterns.Catalog, opts EditOptions) *EditSession {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &EditSession{
		base:    base,
		preview: model.NewGrid(base.Rows(), base.Cols(), base.Policy()),
		catalog: catalog,
		opts:    opts,
		logger:  logger,
	}
}

// State returns the current state
func (s *EditSession) State() EditState { return s.state }

// Cursor returns the cursor position
func (s *EditSession) Cursor() model.Position { return s.cursor }

// Base returns the grid holding confirmed edits
func (s *EditSession) Base() *model.Grid { return s.base }

// Message returns the last user-facing notice
func (s *EditSession) Message() string { return s.message }

// SelectedPattern returns the pattern being placed, if any
func (s *EditSession) SelectedPattern() (patterns.Pattern, bool) {
	return s.pattern, s.state == PatternSelected
}

// View returns the grid to display: the preview while placing a pattern,
// the base otherwise
func (s *EditSession) View() *model.Grid {
	if s.state == PatternSelected {
		return s.preview
	}
	return s.base
}

func (s *EditSession) live() error {
	if s.state == Committed {
		return ErrCommitted
	}
	return nil
}

// MoveCursor shifts the cursor, clamping at the grid edges
func (s *EditSession) MoveCursor(dRow, dCol int) error {
	if err := s.live(); err != nil {
		return err
	}
	s.cursor.Row = min(max(s.cursor.Row+dRow, 0), s.base.Rows()-1)
	s.cursor.Col = min(max(s.cursor.Col+dCol, 0), s.base.Cols()-1)
	if s.state == PatternSelected {
		s.rebuildPreview()
	}
	return nil
}

// SelectPattern starts placing id at the cursor
func (s *EditSession) SelectPattern(id patterns.ID) error {
	if err := s.live(); err != nil {
		return err
	}
	p, err := s.catalog.Lookup(id)
	if err != nil {
		s.message = fmt.Sprintf("unknown pattern %q", id)
		return err
	}
	s.pattern = p
	s.state = PatternSelected
	s.rebuildPreview()
	s.message = fmt.Sprintf("placing %s: move, ENTER to place, ESC to cancel", p.Name())
	s.logger.Debug("pattern selected", "pattern", p.ID(), "row", s.cursor.Row, "col", s.cursor.Col)
	return nil
}

// SelectCell switches to single-cell editing
func (s *EditSession) SelectCell() error {
	if err := s.live(); err != nil {
		return err
	}
	s.state = Editing
	s.message = "set cell: SPACE toggles, ENTER done"
	return nil
}

// Toggle flips the base cell under the cursor. Single-cell mode only.
func (s *EditSession) Toggle() error {
	if err := s.live(); err != nil {
		return err
	}
	if s.state != Editing {
		s.message = "press 0 to edit single cells"
		return errors.Wrapf(ErrInvalidTransition, "[Toggle] in state %s", s.state)
	}
	if _, err := s.base.Toggle(s.cursor.Row, s.cursor.Col); err != nil {
		return err
	}
	return nil
}

// Confirm places the previewed pattern into the base, or ends single-cell
// editing. Either way the session returns to Browsing.
func (s *EditSession) Confirm() error {
	if err := s.live(); err != nil {
		return err
	}
	switch s.state {
	case PatternSelected:
		var err error
		if s.opts.Merge == MergeReplace {
			err = s.base.CopyFrom(s.preview)
		} else {
			err = s.base.MergeOr(s.preview)
		}
		if err != nil {
			return err
		}
		s.logger.Info("pattern placed", "pattern", s.pattern.ID(), "row", s.cursor.Row, "col", s.cursor.Col,
			"merge", s.opts.Merge, "population", s.base.CountLivePopulation())
		s.message = s.pattern.Name() + " placed"
	case Editing:
		s.message = ""
	}
	s.state = Browsing
	return nil
}

// Cancel drops the pending pattern or leaves single-cell mode
func (s *EditSession) Cancel() error {
	if err := s.live(); err != nil {
		return err
	}
	s.state = Browsing
	s.message = ""
	return nil
}

// Clear kills every cell of the base
func (s *EditSession) Clear() error {
	if err := s.live(); err != nil {
		return err
	}
	s.base.Clear()
	if s.state == PatternSelected {
		s.rebuildPreview()
	}
	s.message = "grid cleared"
	return nil
}

// Seed adds a perlin noise soup to the base. Each call uses a fresh seed.
func (s *EditSession) Seed() error {
	if err := s.live(); err != nil {
		return err
	}
	opts := s.opts.Noise
	opts.Seed += s.seeds
	s.seeds++
	before := s.base.CountLivePopulation()
	patterns.FillNoise(s.base, opts)
	if s.state == PatternSelected {
		s.rebuildPreview()
	}
	s.message = fmt.Sprintf("seeded %d cells", s.base.CountLivePopulation()-before)
	return nil
}

// Exchange round-trips the base through the external editor
func (s *EditSession) Exchange(ctx context.Context) error {
	if err := s.live(); err != nil {
		return err
	}
	if s.opts.Exchanger == nil {
		s.message = "external editor not configured"
		return errors.Wrap(ErrExternalToolUnavailable, "[Exchange] no exchanger")
	}
	scratch := s.base.Clone()
	if err := s.opts.Exchanger.Exchange(ctx, scratch); err != nil {
		s.logger.Warn("external editor failed", "err", err)
		s.message = "external editor unavailable, grid unchanged"
		if errors.Is(err, ErrExternalToolUnavailable) {
			return err
		}
		return errors.Wrapf(ErrExternalToolUnavailable, "[Exchange] %v", err)
	}
	if err := s.base.CopyFrom(scratch); err != nil {
		return err
	}
	s.state = Browsing
	s.message = "grid imported from external editor"
	return nil
}

// Finish commits the base grid and ends the session. A pending pattern that
// was never confirmed is dropped.
func (s *EditSession) Finish() (*model.Grid, error) {
	if err := s.live(); err != nil {
		return nil, err
	}
	s.state = Committed
	s.base.ForceDeadBorder()
	s.base.ResetHistory()
	s.logger.Info("edit committed", "population", s.base.CountLivePopulation())
	return s.base, nil
}

func (s *EditSession) rebuildPreview() {
	if s.opts.Merge == MergeReplace {
		s.preview.Clear()
	} else {
		_ = s.preview.CopyFrom(s.base)
	}
	patterns.Stamp(s.pattern, s.preview, s.cursor.Row, s.cursor.Col)
}

// HandleKey applies one key press. Recoverable mistakes (bad digit, toggle
// outside single-cell mode, missing editor) are returned after a message has
// been stored for the next frame.
func (s *EditSession) HandleKey(ctx context.Context, k Key) error {
	if err := s.live(); err != nil {
		return err
	}
	if dr, dc, ok := k.Direction(); ok {
		return s.MoveCursor(dr, dc)
	}
	if d, ok := k.Digit(); ok {
		if d == 0 {
			return s.SelectCell()
		}
		p, err := s.catalog.At(d)
		if err != nil {
			s.message = fmt.Sprintf("no pattern %d, choose 0-%d", d, s.catalog.Len())
			return err
		}
		return s.SelectPattern(p.ID())
	}
	switch {
	case k.Code == KeySpace:
		return s.Toggle()
	case k.Code == KeyEnter:
		if s.state == Browsing {
			_, err := s.Finish()
			return err
		}
		return s.Confirm()
	case k.Code == KeyEscape:
		return s.Cancel()
	case k.Is('c'):
		return s.Clear()
	case k.Is('n'):
		return s.Seed()
	case k.Is('e'):
		return s.Exchange(ctx)
	}
	return nil
}

// Frame renders the session: grid with cursor, status line, legend, message
func (s *EditSession) Frame(r *model.FrameRenderer) string {
	var b strings.Builder
	view := s.View()
	b.WriteString(r.RenderWithCursor(view, s.cursor))
	mode := "browse"
	switch s.state {
	case PatternSelected:
		mode = "place " + s.pattern.Name()
	case Editing:
		mode = "set cell"
	case Committed:
		mode = "committed"
	}
	fmt.Fprintf(&b, "Population = %4d | Cursor = %2d,%2d | Mode: %s\n",
		view.CountLivePopulation(), s.cursor.Row, s.cursor.Col, mode)
	b.WriteString(s.legend())
	if s.message != "" {
		b.WriteString(s.message)
	}
	b.WriteByte('\n')
	return b.String()
}

func (s *EditSession) legend() string {
	var b strings.Builder
	b.WriteString("0) Set cell")
	for i, p := range s.catalog.Patterns() {
		fmt.Fprintf(&b, "  %d) %s", i+1, p.Name())
	}
	b.WriteString("\nWASD/arrows move | ENTER place/start | ESC cancel | c clear | n noise | e editor\n")
	return b.String()
}

// RunEditor drives s from keyboard input until it is committed, rendering a
// frame after every handled key
func RunEditor(ctx context.Context, s *EditSession, console Console, r *model.FrameRenderer, poll time.Duration) (*model.Grid, error) {
	if err := console.RenderFrame(s.Frame(r)); err != nil {
		return nil, errors.Wrap(err, "[RunEditor] failed to render")
	}
	for s.State() != Committed {
		k, err := WaitForKey(ctx, console, console, poll)
		if err != nil {
			return nil, err
		}
		if err := s.HandleKey(ctx, k); err != nil && !recoverable(err) {
			return nil, err
		}
		if err := console.RenderFrame(s.Frame(r)); err != nil {
			return nil, errors.Wrap(err, "[RunEditor] failed to render")
		}
	}
	return s.Base(), nil
}

func recoverable(err error) bool {
	return errors.Is(err, ErrInvalidSelection) ||
		errors.Is(err, ErrInvalidTransition) ||
		errors.Is(err, ErrExternalToolUnavailable)
}
