/*package io handles reading hailstone lists from disk and reading the
configuration files which describe what to do with them.
*/
package io

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/phil-mansfield/hailstone/geom"
)

// ErrMalformedLine is returned when an input record cannot be turned into a
// particle.
var ErrMalformedLine = errors.New("io: malformed particle record")

const (
	// TextFormat files contain one "x, y, z @ vx, vy, vz" record per line.
	TextFormat = "Text"
	// TableFormat files contain six whitespace separated columns,
	// "x y z vx vy vz".
	TableFormat = "Table"
)

// ParseParticle parses a single "x, y, z @ vx, vy, vz" record.
func ParseParticle(line string) (geom.Particle, error) {
	p := geom.Particle{}

	tokens := strings.Split(line, "@")
	if len(tokens) != 2 {
		return p, fmt.Errorf(
			"%w: expected exactly one '@' in %q", ErrMalformedLine, line,
		)
	}

	var err error
	if p.X, err = parseTriple(tokens[0]); err != nil {
		return p, fmt.Errorf("%w: position of %q: %s",
			ErrMalformedLine, line, err.Error())
	}
	if p.V, err = parseTriple(tokens[1]); err != nil {
		return p, fmt.Errorf("%w: velocity of %q: %s",
			ErrMalformedLine, line, err.Error())
	}

	return p, nil
}

func parseTriple(s string) (geom.Vec, error) {
	v := geom.Vec{}
	tokens := strings.Split(s, ",")
	if len(tokens) != 3 {
		return v, fmt.Errorf("expected 3 components, got %d", len(tokens))
	}

	for i, tok := range tokens {
		x, err := strconv.ParseInt(strings.TrimSpace(tok), 10, 64)
		if err != nil {
			return v, err
		}
		v[i] = x
	}
	return v, nil
}

// ReadParticles reads text records from r. Blank lines and lines starting
// with '#' are skipped.
func ReadParticles(r io.Reader) ([]geom.Particle, error) {
	ps := []geom.Particle{}
	scanner := bufio.NewScanner(r)

	for n := 1; scanner.Scan(); n++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == '#' {
			continue
		}

		p, err := ParseParticle(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", n, err)
		}
		ps = append(ps, p)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return ps, nil
}

// ReadParticlesFile reads text records from the file fname.
func ReadParticlesFile(fname string) ([]geom.Particle, error) {
	f, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	ps, err := ReadParticles(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fname, err)
	}
	return ps, nil
}

// ReadInput reads the particles in fname, which is stored in the given
// format. An empty format is treated as TextFormat.
func ReadInput(fname, format string) ([]geom.Particle, error) {
	switch format {
	case TextFormat, "":
		return ReadParticlesFile(fname)
	case TableFormat:
		return ReadParticleTable(fname)
	}
	return nil, fmt.Errorf(
		"InputFormat must be one of [%s | %s], not '%s'.",
		TextFormat, TableFormat, format,
	)
}
