package lyrics

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/tessro/serenade/internal/core"
)

var (
	lrcStamp  = regexp.MustCompile(`^\[(\d+):(\d{1,2}(?:[.:]\d{1,3})?)\]`)
	lrcOffset = regexp.MustCompile(`^\[offset:\s*([+-]?\d+)\s*\]$`)
)

// ParseLRC reads lyrics in LRC format. A line may carry several time
// stamps; metadata tags other than offset are ignored. The result is
// sorted by time, keeping file order for equal stamps.
func ParseLRC(r io.Reader) ([]core.LyricLine, error) {
	var (
		lines    []core.LyricLine
		offsetMs int
		lineNo   int
	)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lineNo++
		raw := strings.TrimSpace(scanner.Text())
		if raw == "" {
			continue
		}

		if m := lrcOffset.FindStringSubmatch(raw); m != nil {
			v, err := strconv.Atoi(m[1])
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid offset: %w", lineNo, err)
			}
			offsetMs = v
			continue
		}

		var stamps []float64
		rest := raw
		for {
			m := lrcStamp.FindStringSubmatch(rest)
			if m == nil {
				break
			}
			t, err := parseStamp(m[1], m[2])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			stamps = append(stamps, t)
			rest = rest[len(m[0]):]
		}
		if len(stamps) == 0 {
			// [ar:...], [ti:...] and stray text
			continue
		}

		text := strings.TrimSpace(rest)
		for _, t := range stamps {
			lines = append(lines, core.LyricLine{Time: t, Text: text})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	// A positive offset shows lyrics earlier.
	if offsetMs != 0 {
		shift := float64(offsetMs) / 1000
		for i := range lines {
			lines[i].Time -= shift
			if lines[i].Time < 0 {
				lines[i].Time = 0
			}
		}
	}

	sort.SliceStable(lines, func(i, j int) bool {
		return lines[i].Time < lines[j].Time
	})
	return lines, nil
}

func parseStamp(min, sec string) (float64, error) {
	m, err := strconv.Atoi(min)
	if err != nil {
		return 0, fmt.Errorf("invalid minutes %q", min)
	}
	// Some files use mm:ss:xx for hundredths.
	if i := strings.LastIndex(sec, ":"); i >= 0 {
		sec = sec[:i] + "." + sec[i+1:]
	}
	s, err := strconv.ParseFloat(sec, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid seconds %q", sec)
	}
	return float64(m)*60 + s, nil
}
