package replaygain

import (
	"bufio"
	"fmt"
	"math"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// decibelPattern matches a signed decimal number with any precision
const decibelPattern = `[-+]?(?:\d+(?:\.\d*)?|\.\d+)`

// rgainBanner precedes the per-file results in python-rgain output
const rgainBanner = "Calculating Replay Gain information"

// OutputParser extracts the track gain from a tool's textual report
type OutputParser interface {
	Parse(output, filePath string) (float64, error)
}

// ParserFunc adapts a function to OutputParser
type ParserFunc func(output, filePath string) (float64, error)

// Parse calls f
func (f ParserFunc) Parse(output, filePath string) (float64, error) {
	return f(output, filePath)
}

// rgainParser reads `replaygain -d` output:
//
//	Calculating Replay Gain information ...
//	  /music/track.mp3: 5.02 dB
//	  Album: 5.02 dB
type rgainParser struct{}

var rgainLine = regexp.MustCompile(`^\s*(.+?):\s*(` + decibelPattern + `)\s*dB\s*$`)

func (rgainParser) Parse(output, filePath string) (float64, error) {
	if strings.TrimSpace(output) == "" {
		return 0, ErrEmptyOutput
	}

	start := strings.Index(output, rgainBanner)
	if start < 0 {
		return 0, fmt.Errorf("%w: missing %q banner", ErrNoReportMatched, rgainBanner)
	}

	var byBase, others []string
	base := filepath.Base(filePath)

	sc := bufio.NewScanner(strings.NewReader(output[start+len(rgainBanner):]))
	for sc.Scan() {
		m := rgainLine.FindStringSubmatch(sc.Text())
		if len(m) != 3 {
			continue
		}
		label := strings.TrimSpace(m[1])
		switch {
		case label == filePath:
			return parseDecibels(m[2])
		case strings.EqualFold(label, "Album"):
			// album summary line
			continue
		case filepath.Base(label) == base:
			byBase = append(byBase, m[2])
		default:
			others = append(others, m[2])
		}
	}

	switch {
	case len(byBase) > 0:
		return parseDecibels(byBase[0])
	case len(others) == 1:
		return parseDecibels(others[0])
	case len(others) > 1:
		return 0, fmt.Errorf("%w: %d track lines and none named %s", ErrNoReportMatched, len(others), filePath)
	}
	return 0, ErrNoReportMatched
}

// labelParser takes the last line matching pattern. Earlier matches are
// intermediate passes; the final report wins.
type labelParser struct {
	pattern *regexp.Regexp
}

// NewLabelParser builds a parser from a regexp whose first group is the gain
func NewLabelParser(pattern string) OutputParser {
	return &labelParser{pattern: regexp.MustCompile(pattern)}
}

func (p *labelParser) Parse(output, _ string) (float64, error) {
	if strings.TrimSpace(output) == "" {
		return 0, ErrEmptyOutput
	}

	matches := p.pattern.FindAllStringSubmatch(output, -1)
	if len(matches) == 0 {
		return 0, ErrNoReportMatched
	}
	return parseDecibels(matches[len(matches)-1][1])
}

// loudgainParser reads the Gain line of the Track block, ignoring the Album block:
//
//	Track: /music/track.mp3
//	 Loudness:   -13.00 LUFS
//	 Gain:        -5.00 dB
type loudgainParser struct{}

var loudgainGain = regexp.MustCompile(`^\s*Gain:\s*(` + decibelPattern + `)\s*dB`)

func (loudgainParser) Parse(output, _ string) (float64, error) {
	if strings.TrimSpace(output) == "" {
		return 0, ErrEmptyOutput
	}

	inTrack := false
	sc := bufio.NewScanner(strings.NewReader(output))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		switch {
		case strings.HasPrefix(line, "Track:"):
			inTrack = true
			continue
		case strings.HasPrefix(line, "Album:"):
			inTrack = false
			continue
		}
		if !inTrack {
			continue
		}
		if m := loudgainGain.FindStringSubmatch(line); len(m) == 2 {
			return parseDecibels(m[1])
		}
	}
	return 0, ErrNoReportMatched
}

// parseDecibels converts a matched token, rejecting anything non-finite
func parseDecibels(token string) (float64, error) {
	gain, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid gain value %q: %w", token, err)
	}
	if math.IsNaN(gain) || math.IsInf(gain, 0) {
		return 0, fmt.Errorf("gain value %q is not finite", token)
	}
	return gain, nil
}
