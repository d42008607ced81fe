package starmap

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestGenerate(t *testing.T) {
	assert := assert.New(t)

	assert.Nil(Generate(0))
	assert.Nil(Generate(-1))

	stars := Generate(100)
	assert.Len(stars, 100)
	for _, s := range stars {
		assert.InDelta(1.0, r3.Norm(s.Dir), 1e-12)
		assert.True(s.Brightness >= 0 && s.Brightness < 1)
	}

	// deterministic in the number of stars
	if diff := cmp.Diff(stars, Generate(100)); diff != "" {
		t.Errorf("Generate(100) mismatch (-want +got):\n%s", diff)
	}
	assert.NotEqual(stars[0], Generate(101)[0])
}

func TestRead(t *testing.T) {
	assert := assert.New(t)

	in := `# test catalog
num_stars 2

1 0 0 0.5 # first
0 0.6 -0.8 0.25
`
	stars, err := Read(strings.NewReader(in))
	assert.NoError(err)

	want := []Star{
		{Dir: r3.Vec{X: 1}, Brightness: 0.5},
		{Dir: r3.Vec{Y: 0.6, Z: -0.8}, Brightness: 0.25},
	}
	if diff := cmp.Diff(want, stars); diff != "" {
		t.Errorf("Read() mismatch (-want +got):\n%s", diff)
	}

	// header is optional
	stars, err = Read(strings.NewReader("0 0 1 0.1\n"))
	assert.NoError(err)
	assert.Len(stars, 1)

	for _, in := range []string{
		"num_stars\n",
		"num_stars x\n",
		"num_stars 2\n1 0 0 0.5\n",
		"1 0 0\n",
		"1 0 zero 0.5\n",
	} {
		stars, err := Read(strings.NewReader(in))
		assert.Nil(stars, in)
		assert.Error(err, in)
	}
}

func TestWriteLoad(t *testing.T) {
	assert := assert.New(t)

	stars := Generate(25)

	var buf bytes.Buffer
	assert.NoError(Write(&buf, stars))
	assert.True(strings.HasPrefix(buf.String(), "num_stars 25\n"))

	path := filepath.Join(t.TempDir(), "map_25_stars.txt")
	assert.NoError(os.WriteFile(path, buf.Bytes(), 0o644))

	got, err := Load(path)
	assert.NoError(err)
	if diff := cmp.Diff(stars, got, cmpopts.EquateApprox(0, 1e-15)); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}

	_, err = Load(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(err)
}

func TestAngleBetween(t *testing.T) {
	assert := assert.New(t)

	o := r3.Vec{}
	for _, test := range []struct {
		a, c r3.Vec
		exp  float64
	}{
		{a: r3.Vec{X: 1}, c: r3.Vec{Y: 1}, exp: 90},
		{a: r3.Vec{X: 1}, c: r3.Vec{X: 2}, exp: 0},
		{a: r3.Vec{X: 1}, c: r3.Vec{X: -3}, exp: 180},
		{a: r3.Vec{X: 1}, c: r3.Vec{X: 1, Y: 1}, exp: 45},
	} {
		assert.InDelta(test.exp, AngleBetween(o, test.a, test.c), 1e-9)
	}

	// translated origin
	assert.InDelta(90.0, AngleBetween(r3.Vec{X: 1, Y: 1, Z: 1}, r3.Vec{X: 2, Y: 1, Z: 1}, r3.Vec{X: 1, Y: 1, Z: 5}), 1e-9)

	assert.True(math.IsNaN(AngleBetween(o, o, r3.Vec{X: 1})))
}
