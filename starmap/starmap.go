// Package starmap generates, reads and writes star catalogs.
//
// A catalog is a text file with a "num_stars N" header followed by one star per line:
// the unit direction of the star (x y z) and its brightness. Text after '#' is ignored.
package starmap

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	rnd "golang.org/x/exp/rand"
	"gonum.org/v1/gonum/spatial/r3"
)

// header is the catalog metadata keyword
const header = "num_stars"

// Star is a catalog star
type Star struct {
	// Dir is the unit direction to the star
	Dir r3.Vec
	// Brightness is the star brightness in [0, 1)
	Brightness float64
}

// Generate returns n stars with uniformly drawn directions and brightness.
// The catalog is deterministic in n: the random source is seeded by the number of stars.
func Generate(n int) []Star {
	if n <= 0 {
		return nil
	}

	rng := rnd.New(rnd.NewSource(uint64(n)))
	pos := func() float64 { return 2*rng.Float64() - 1 }

	stars := make([]Star, n)
	for i := range stars {
		var dir r3.Vec
		for r3.Norm(dir) == 0 {
			dir = r3.Vec{X: pos(), Y: pos(), Z: pos()}
		}
		stars[i] = Star{
			Dir:        r3.Scale(1/r3.Norm(dir), dir),
			Brightness: rng.Float64(),
		}
	}

	return stars
}

// Read reads star catalog from r and returns its stars.
// Blank lines and comments are skipped. If the catalog contains num_stars header
// the number of stars read must match it.
// It returns error if any line can not be parsed.
func Read(r io.Reader) ([]Star, error) {
	var stars []Star
	count := -1

	s := bufio.NewScanner(r)
	for line := 1; s.Scan(); line++ {
		text, _, _ := strings.Cut(s.Text(), "#")
		fields := strings.Fields(text)
		if len(fields) == 0 {
			continue
		}

		if fields[0] == header {
			if len(fields) != 2 {
				return nil, fmt.Errorf("line %d: invalid header", line)
			}
			n, err := strconv.Atoi(fields[1])
			if err != nil || n < 0 {
				return nil, fmt.Errorf("line %d: invalid star count: %q", line, fields[1])
			}
			count = n
			continue
		}

		if len(fields) < 4 {
			return nil, fmt.Errorf("line %d: expected 4 fields, got %d", line, len(fields))
		}

		var v [4]float64
		for i := range v {
			f, err := strconv.ParseFloat(fields[i], 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			v[i] = f
		}

		stars = append(stars, Star{
			Dir:        r3.Vec{X: v[0], Y: v[1], Z: v[2]},
			Brightness: v[3],
		})
	}

	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("failed to read star catalog: %w", err)
	}

	if count >= 0 && count != len(stars) {
		return nil, fmt.Errorf("star count mismatch: header %d, read %d", count, len(stars))
	}

	return stars, nil
}

// Load reads star catalog from the file at path.
func Load(path string) ([]Star, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Read(f)
}

// Write writes stars to w in the catalog format.
func Write(w io.Writer, stars []Star) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "%s %d\n", header, len(stars))
	for _, s := range stars {
		fmt.Fprintf(bw, "%s %s %s %s\n",
			format(s.Dir.X), format(s.Dir.Y), format(s.Dir.Z), format(s.Brightness))
	}

	return bw.Flush()
}

func format(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// AngleBetween returns the angle in degrees between a - o and c - o.
// It returns NaN if either a or c coincides with o.
func AngleBetween(o, a, c r3.Vec) float64 {
	m, n := r3.Sub(a, o), r3.Sub(c, o)

	nm, nn := r3.Norm(m), r3.Norm(n)
	if nm == 0 || nn == 0 {
		return math.NaN()
	}

	cos := r3.Dot(m, n) / (nm * nn)
	// rounding can push the cosine of (anti)parallel vectors outside [-1, 1]
	cos = math.Max(-1, math.Min(1, cos))

	return math.Acos(cos) * 180 / math.Pi
}
