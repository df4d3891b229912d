package puzzle

import (
	"strings"
	"testing"
)

func TestVstr(t *testing.T) {
	tests := []struct {
		in   int
		want string
	}{
		{0, " "}, {-1, " "}, {1, "1"}, {9, "9"}, {10, "?"},
	}
	for _, tc := range tests {
		if got := vstr(tc.in); got != tc.want {
			t.Errorf("vstr(%d) = %q; want %q", tc.in, got, tc.want)
		}
	}
}

func TestStringHidesSolution(t *testing.T) {
	s := mustSession(t, Hard, 12)
	grid := s.gridString(false)
	if strings.ContainsAny(grid, "123456789") {
		t.Error("empty hard board renders digits")
	}
	full := s.gridString(true)
	for d := '1'; d <= '9'; d++ {
		if n := strings.Count(full, string(d)); n != SideLength {
			t.Errorf("solution grid shows %q %d times; want %d", d, n, SideLength)
		}
	}
}

func TestGridStringShape(t *testing.T) {
	s := mustSession(t, Medium, 4)
	lines := strings.Split(strings.TrimRight(s.gridString(false), "\n"), "\n")
	// 9 cell rows, a rule above each row, and the closing rule
	if len(lines) != 2*SideLength+1 {
		t.Fatalf("grid has %d lines; want %d", len(lines), 2*SideLength+1)
	}
	for i, line := range lines {
		if len(line) != SideLength*4+1 {
			t.Errorf("line %d is %d wide; want %d", i, len(line), SideLength*4+1)
		}
	}
	heavy := strings.Repeat("=", SideLength*4+1)
	for _, i := range []int{0, 6, 12, 18} {
		if lines[i] != heavy {
			t.Errorf("line %d = %q; want a heavy rule", i, lines[i])
		}
	}
	for _, i := range []int{1, 7, 13} {
		for _, col := range []int{0, 12, 24, 36} {
			if lines[i][col] != '#' {
				t.Errorf("line %d column %d = %q; want box wall", i, col, lines[i][col])
			}
		}
	}
}

func TestCagesStringListsEveryCage(t *testing.T) {
	s := mustSession(t, Medium, 4)
	lines := strings.Split(strings.TrimRight(s.CagesString(), "\n"), "\n")
	if len(lines) != len(s.Cages()) {
		t.Errorf("legend has %d lines for %d cages", len(lines), len(s.Cages()))
	}
}
