package reactor

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/chazu/cubetree/pkg/geom"
)

// ParseError reports a malformed line of reboot input.
type ParseError struct {
	Line   int
	Text   string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s: %q", e.Line, e.Reason, e.Text)
}

// stepPattern matches "on x=10..12,y=-3..4,z=0..0".
var stepPattern = regexp.MustCompile(
	`^(on|off)\s+x=(-?\d+)\.\.(-?\d+),y=(-?\d+)\.\.(-?\d+),z=(-?\d+)\.\.(-?\d+)$`,
)

// Parse reads one step per line. Blank lines are skipped; the first
// malformed line stops parsing with a *ParseError.
func Parse(r io.Reader) ([]Step, error) {
	var steps []Step

	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}

		step, err := parseLine(text)
		if err != nil {
			return nil, &ParseError{Line: lineNo, Text: text, Reason: err.Error()}
		}
		steps = append(steps, step)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading reboot steps: %w", err)
	}

	return steps, nil
}

// ParseFile opens path and parses it.
func ParseFile(path string) ([]Step, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	steps, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return steps, nil
}

func parseLine(text string) (Step, error) {
	m := stepPattern.FindStringSubmatch(text)
	if m == nil {
		return Step{}, fmt.Errorf("expected \"on|off x=L..H,y=L..H,z=L..H\"")
	}

	var bounds [6]int
	for i := range bounds {
		n, err := strconv.Atoi(m[i+2])
		if err != nil {
			return Step{}, fmt.Errorf("coordinate %q: %w", m[i+2], err)
		}
		bounds[i] = n
	}

	region := geom.Cuboid(bounds[0], bounds[1], bounds[2], bounds[3], bounds[4], bounds[5])
	return Step{Region: region, On: m[1] == "on"}, nil
}

// Format writes steps in the format Parse reads.
func Format(w io.Writer, steps []Step) error {
	bw := bufio.NewWriter(w)
	for _, step := range steps {
		if _, err := fmt.Fprintln(bw, step); err != nil {
			return err
		}
	}
	return bw.Flush()
}
