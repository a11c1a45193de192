// Package subtitle implements the bidirectional SRT/VTT transform and the
// duration-based cost rules used to price translation work.
package subtitle

import (
	"regexp"
	"strconv"
	"strings"
)

// Header is the mandatory first line of a VTT document.
const Header = "WEBVTT"

var (
	srtTimestampRe = regexp.MustCompile(`(\d{2}:\d{2}:\d{2}),(\d{3})`)
	vttTimestampRe = regexp.MustCompile(`(\d{2}:\d{2}:\d{2})\.(\d{3})`)
)

// ToVTT converts SRT content to VTT: sequence counters are dropped, the
// fractional-second comma becomes a period, and the WEBVTT header is
// prepended. Malformed blocks are passed through untouched rather than
// rejected.
func ToVTT(srt string) string {
	normalized := strings.ReplaceAll(srt, "\r", "")
	normalized = srtTimestampRe.ReplaceAllString(normalized, "$1.$2")

	var blocks []string
	for _, block := range strings.Split(normalized, "\n\n") {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		lines := strings.Split(block, "\n")
		if len(lines) > 1 && strings.Contains(lines[1], "-->") {
			// First line is the SRT sequence counter.
			block = strings.Join(lines[1:], "\n")
		}
		blocks = append(blocks, block)
	}

	return Header + "\n\n" + strings.Join(blocks, "\n\n")
}

// ToSRT converts VTT content back to SRT: the header is stripped, blocks are
// renumbered from 1, and the fractional-second period becomes a comma.
// Blocks without a timing line are skipped.
func ToSRT(vtt string) string {
	normalized := strings.ReplaceAll(vtt, "\r", "")
	normalized = strings.Replace(normalized, Header, "", 1)
	normalized = strings.TrimSpace(normalized)

	var b strings.Builder
	counter := 1
	for _, block := range strings.Split(normalized, "\n\n") {
		if strings.TrimSpace(block) == "" {
			continue
		}
		lines := strings.Split(block, "\n")
		timeLine := -1
		for i, line := range lines {
			if strings.Contains(line, "-->") {
				timeLine = i
				break
			}
		}
		if timeLine == -1 {
			continue
		}

		b.WriteString(strconv.Itoa(counter))
		counter++
		b.WriteString("\n")
		b.WriteString(vttTimestampRe.ReplaceAllString(lines[timeLine], "$1,$2"))
		b.WriteString("\n")
		b.WriteString(strings.Join(lines[timeLine+1:], "\n"))
		b.WriteString("\n\n")
	}

	return strings.TrimSpace(b.String())
}
