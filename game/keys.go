package game

import "unicode"

// KeyCode enumerates the keys the core reacts to
type KeyCode int

const (
	KeyNone KeyCode = iota
	KeyEnter
	KeySpace
	KeyEscape
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyRune // printable character in Key.Rune
)

// Key is one keyboard event
type Key struct {
	Code KeyCode
	Rune rune
}

// RuneKey builds a printable key event, mapping ' ' to KeySpace
func RuneKey(r rune) Key {
	if r == ' ' {
		return Key{Code: KeySpace, Rune: r}
	}
	return Key{Code: KeyRune, Rune: r}
}

// Is reports whether k is the printable rune r, ignoring case
func (k Key) Is(r rune) bool {
	return k.Code == KeyRune && unicode.ToLower(k.Rune) == unicode.ToLower(r)
}

// Direction maps arrow keys and the w/a/s/d aliases to a (row, col) delta
func (k Key) Direction() (dRow, dCol int, ok bool) {
	switch {
	case k.Code == KeyUp || k.Is('w'):
		return -1, 0, true
	case k.Code == KeyDown || k.Is('s'):
		return 1, 0, true
	case k.Code == KeyLeft || k.Is('a'):
		return 0, -1, true
	case k.Code == KeyRight || k.Is('d'):
		return 0, 1, true
	}
	return 0, 0, false
}

// Digit returns the value of a digit key
func (k Key) Digit() (int, bool) {
	if k.Code != KeyRune || k.Rune < '0' || k.Rune > '9' {
		return 0, false
	}
	return int(k.Rune - '0'), true
}
