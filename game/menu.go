package game

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Menu is a single-line horizontal menu. Items are numbered from 1.
type Menu struct {
	Title    string
	Items    []string
	selected int
	tick     int
	message  string
}

// NewMenu returns a menu with the first item selected
func NewMenu(title string, items ...string) *Menu {
	return &Menu{Title: title, Items: items, selected: 1}
}

// Selected returns the 1-based index of the highlighted item
func (m *Menu) Selected() int { return m.selected }

// HandleKey moves the highlight or jumps to a numbered item. It reports
// true when ENTER chooses the highlighted item.
func (m *Menu) HandleKey(k Key) (bool, error) {
	m.message = ""
	if d, ok := k.Digit(); ok {
		if d < 1 || d > len(m.Items) {
			m.message = fmt.Sprintf("choose 1-%d", len(m.Items))
			return false, errors.Wrapf(ErrInvalidSelection, "[Menu.HandleKey] item %d", d)
		}
		m.selected = d
		return false, nil
	}
	switch {
	case k.Code == KeyEnter:
		return true, nil
	case k.Code == KeyRight || k.Is('d'):
		m.selected = min(m.selected+1, len(m.Items))
	case k.Code == KeyLeft || k.Is('a'):
		m.selected = max(m.selected-1, 1)
	}
	return false, nil
}

// Render draws the menu line. The marker in front of the selected item
// alternates between '-' and '=' on each call.
func (m *Menu) Render() string {
	marker := '-'
	if m.tick%2 == 1 {
		marker = '='
	}
	m.tick++

	var b strings.Builder
	if m.Title != "" {
		fmt.Fprintf(&b, "\n  === %s ===\n\n", m.Title)
	}
	b.WriteByte(' ')
	for i, item := range m.Items {
		if i+1 == m.selected {
			fmt.Fprintf(&b, "%c> %s ", marker, item)
		} else {
			fmt.Fprintf(&b, "%d) %s ", i+1, item)
		}
	}
	b.WriteByte('\n')
	if m.message != "" {
		b.WriteString(m.message + "\n")
	}
	return b.String()
}

// RunMenu shows m until an item is chosen and returns its 1-based index
func RunMenu(ctx context.Context, m *Menu, console Console, poll time.Duration) (int, error) {
	for {
		if err := console.RenderFrame(m.Render()); err != nil {
			return 0, errors.Wrap(err, "[RunMenu] failed to render")
		}
		k, ok := console.PollKey()
		if !ok {
			if err := console.Sleep(ctx, poll); err != nil {
				return 0, err
			}
			continue
		}
		chosen, err := m.HandleKey(k)
		if err != nil && !errors.Is(err, ErrInvalidSelection) {
			return 0, err
		}
		if chosen {
			return m.selected, nil
		}
	}
}
