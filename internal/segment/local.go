package segment

import "strings"

// sentence-ending and separating punctuation, full-width and half-width
var splitPunct = map[rune]bool{
	'。': true, '！': true, '？': true, '；': true, '：': true, '，': true,
	'.': true, '!': true, '?': true, ';': true, ':': true, ',': true,
}

// Clean collapses whitespace runs and trims the ends.
func Clean(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// Split is the local chunking algorithm: a punctuation pass that attaches
// each separator to the segment before it, then a fixed-length cut for any
// segment still over maxChars. Order and character content are preserved;
// only whitespace is normalized away.
func Split(text string, maxChars int) []string {
	cleaned := Clean(text)
	if cleaned == "" {
		return nil
	}

	var segments []string
	var current []rune
	flush := func() {
		if s := strings.TrimSpace(string(current)); s != "" {
			segments = append(segments, s)
		}
		current = current[:0]
	}
	for _, r := range cleaned {
		current = append(current, r)
		if splitPunct[r] {
			flush()
		}
	}
	flush()

	var chunks []string
	for _, seg := range segments {
		chunks = append(chunks, cutRunes(seg, maxChars)...)
	}

	// degenerate fallback, kept for safety even though the punctuation pass
	// always yields at least one segment for non-empty input
	if len(chunks) == 0 {
		chunks = cutRunes(cleaned, maxChars)[:1]
	}

	return chunks
}

// cutRunes partitions s into consecutive maxChars-rune substrings plus a
// remainder. Lengths are counted in runes so CJK text cuts correctly.
func cutRunes(s string, maxChars int) []string {
	runes := []rune(s)
	if len(runes) <= maxChars {
		return []string{s}
	}
	var out []string
	for len(runes) > maxChars {
		out = append(out, string(runes[:maxChars]))
		runes = runes[maxChars:]
	}
	if len(runes) > 0 {
		out = append(out, string(runes))
	}
	return out
}
