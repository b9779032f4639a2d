package model

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pkg/errors"
)

func TestExchangeWritesInteriorAndDimensions(t *testing.T) {
	g := NewGrid(4, 5, Bordered)
	g.SetClipped(1, 1, Live)
	g.SetClipped(2, 3, Live)

	var buf bytes.Buffer
	if err := WriteExchange(&buf, g); err != nil {
		t.Fatal(err)
	}
	want := "100\n001\n4\n5"
	if buf.String() != want {
		t.Fatalf("exchange text %q, want %q", buf.String(), want)
	}

	back := NewGrid(4, 5, Bordered)
	if err := ReadExchange(&buf, back); err != nil {
		t.Fatal(err)
	}
	if back.Hash() != g.Hash() {
		t.Fatalf("round trip got %v, want %v", back.LiveCells(), g.LiveCells())
	}
}

func TestExchangeKeepsWrapRing(t *testing.T) {
	g := NewGrid(4, 5, Wrap)
	g.SetClipped(0, 0, Live)
	g.SetClipped(3, 4, Live)
	g.SetClipped(1, 2, Live)

	var buf bytes.Buffer
	if err := WriteExchange(&buf, g); err != nil {
		t.Fatal(err)
	}
	if err := ReadExchange(strings.NewReader("000\n011\n"), g); err != nil {
		t.Fatal(err)
	}
	if !g.Alive(0, 0) || !g.Alive(3, 4) {
		t.Fatal("ring cells lost by an interior import")
	}
	if g.Alive(1, 2) || !g.Alive(2, 2) || !g.Alive(2, 3) {
		t.Fatalf("interior not replaced: %v", g.LiveCells())
	}
}

func TestReadExchangeEditorOutput(t *testing.T) {
	// a 28x55 grid comes back from the editor as 26 rows of 53 digits
	// with no dimension lines
	rows := make([]string, 26)
	for i := range rows {
		rows[i] = strings.Repeat("0", 53)
	}
	rows[0] = "1" + strings.Repeat("0", 52)
	rows[25] = strings.Repeat("0", 52) + "1"
	input := strings.Join(rows, "\n") + "\n"

	g := NewGrid(28, 55, Bordered)
	g.SetClipped(10, 10, Live)
	if err := ReadExchange(strings.NewReader(input), g); err != nil {
		t.Fatal(err)
	}
	if n := g.CountLivePopulation(); n != 2 {
		t.Fatalf("population %d, want 2", n)
	}
	if !g.Alive(1, 1) || !g.Alive(26, 53) {
		t.Fatalf("interior offset wrong: %v", g.LiveCells())
	}
}

func TestReadExchangeFullGrid(t *testing.T) {
	g := NewGrid(2, 3, Wrap)
	if err := ReadExchange(strings.NewReader("010\r\n111\n"), g); err != nil {
		t.Fatal(err)
	}
	if n := g.CountLivePopulation(); n != 4 {
		t.Fatalf("population %d, want 4", n)
	}

	b := NewGrid(3, 3, Bordered)
	if err := ReadExchange(strings.NewReader("111\n111\n111\n3\n3"), b); err != nil {
		t.Fatal(err)
	}
	if b.CountLivePopulation() != 1 || !b.Alive(1, 1) {
		t.Fatalf("bordered import kept ring cells: %v", b.LiveCells())
	}
}

func TestReadExchangeRejectsMalformed(t *testing.T) {
	cases := map[string]string{
		"empty":          "",
		"short row":      "01\n111\n",
		"bad digit":      "012\n111\n",
		"too few rows":   "010\n",
		"wrong rows":     "010\n111\n3\n3",
		"wrong cols":     "010\n111\n2\n4",
		"non numeric":    "010\n111\nx\n3",
		"extra trailing": "010\n111\n2\n3\n9",
	}
	for name, input := range cases {
		g := NewGrid(2, 3, Wrap)
		g.SetClipped(0, 0, Live)
		err := ReadExchange(strings.NewReader(input), g)
		if !errors.Is(err, ErrMalformedExchange) {
			t.Fatalf("%s: err = %v, want ErrMalformedExchange", name, err)
		}
		if !g.Alive(0, 0) || g.CountLivePopulation() != 1 {
			t.Fatalf("%s: failed read modified the grid", name)
		}
	}

	g := NewGrid(4, 5, Wrap)
	if err := ReadExchange(strings.NewReader("000\n00\n"), g); !errors.Is(err, ErrMalformedExchange) {
		t.Fatalf("ragged interior: err = %v", err)
	}
}
