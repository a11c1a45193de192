package subtitle

import (
	"regexp"
	"strconv"
)

// Pricing defaults: one credit unit covers two 15-minute blocks.
const (
	DefaultBlockSeconds = 900
	DefaultCostPerBlock = 0.5
)

var anyTimestampRe = regexp.MustCompile(`(\d{2}):(\d{2}):(\d{2})[,.](\d{3})`)

// Duration returns the total runtime of a subtitle document in whole
// seconds, taken from the last timestamp in document order. Milliseconds are
// discarded. A document with no recognizable timestamp has duration 0.
func Duration(content string) int {
	matches := anyTimestampRe.FindAllStringSubmatch(content, -1)
	if len(matches) == 0 {
		return 0
	}
	last := matches[len(matches)-1]
	h, _ := strconv.Atoi(last[1])
	m, _ := strconv.Atoi(last[2])
	s, _ := strconv.Atoi(last[3])
	return h*3600 + m*60 + s
}

// Cost prices a subtitle of the given duration: every started block of
// blockSeconds costs costPerBlock credits. Non-positive durations or block
// sizes cost nothing.
func Cost(durationSeconds, blockSeconds int, costPerBlock float64) float64 {
	if durationSeconds <= 0 || blockSeconds <= 0 {
		return 0
	}
	blocks := (durationSeconds + blockSeconds - 1) / blockSeconds
	return float64(blocks) * costPerBlock
}
