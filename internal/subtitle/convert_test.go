package subtitle

import (
	"strings"
	"testing"
)

const sampleSRT = `1
00:00:01,000 --> 00:00:03,500
Hello there.

2
00:00:04,000 --> 00:00:06,250
Second line
over two rows.

3
00:14:58,900 --> 00:15:01,000
Last cue.`

func TestToVTTStripsCountersAndRewritesTimestamps(t *testing.T) {
	vtt := ToVTT(sampleSRT)

	if !strings.HasPrefix(vtt, Header+"\n\n") {
		t.Fatalf("missing header, got prefix %q", vtt[:20])
	}
	if strings.Contains(vtt, "00:00:01,000") {
		t.Fatalf("timestamp comma not rewritten:\n%s", vtt)
	}
	if !strings.Contains(vtt, "00:00:01.000 --> 00:00:03.500") {
		t.Fatalf("expected rewritten timestamp line:\n%s", vtt)
	}
	for _, counter := range []string{"\n1\n00:", "\n2\n00:", "\n3\n00:"} {
		if strings.Contains(vtt, counter) {
			t.Fatalf("sequence counter survived conversion:\n%s", vtt)
		}
	}
	if !strings.Contains(vtt, "Second line\nover two rows.") {
		t.Fatalf("multi-line cue text lost:\n%s", vtt)
	}
}

func TestToSRTRenumbersFromOne(t *testing.T) {
	srt := ToSRT(ToVTT(sampleSRT))

	lines := strings.Split(srt, "\n")
	if lines[0] != "1" {
		t.Fatalf("expected first counter 1, got %q", lines[0])
	}
	if !strings.Contains(srt, "\n\n2\n00:00:04,000") {
		t.Fatalf("expected renumbered second block:\n%s", srt)
	}
	if strings.Contains(srt, Header) {
		t.Fatalf("header survived conversion:\n%s", srt)
	}
}

func TestRoundTripPreservesTimestampsAndText(t *testing.T) {
	srt := ToSRT(ToVTT(sampleSRT))

	wantTimestamps := []string{
		"00:00:01,000 --> 00:00:03,500",
		"00:00:04,000 --> 00:00:06,250",
		"00:14:58,900 --> 00:15:01,000",
	}
	for _, ts := range wantTimestamps {
		if !strings.Contains(srt, ts) {
			t.Fatalf("round trip dropped timestamp %q:\n%s", ts, srt)
		}
	}
	wantText := []string{"Hello there.", "Second line", "over two rows.", "Last cue."}
	for _, line := range wantText {
		if !strings.Contains(srt, line) {
			t.Fatalf("round trip dropped text %q:\n%s", line, srt)
		}
	}
}

func TestToSRTSkipsBlocksWithoutTiming(t *testing.T) {
	vtt := Header + "\n\nNOTE a comment block\n\n00:00:01.000 --> 00:00:02.000\nReal cue."
	srt := ToSRT(vtt)

	if strings.Contains(srt, "NOTE") {
		t.Fatalf("comment block should be skipped:\n%s", srt)
	}
	if !strings.HasPrefix(srt, "1\n00:00:01,000 --> 00:00:02,000") {
		t.Fatalf("unexpected output:\n%s", srt)
	}
}

func TestToVTTHandlesCRLFInput(t *testing.T) {
	crlf := strings.ReplaceAll(sampleSRT, "\n", "\r\n")
	if got, want := ToVTT(crlf), ToVTT(sampleSRT); got != want {
		t.Fatalf("CRLF input diverged:\n%s\nvs\n%s", got, want)
	}
}
