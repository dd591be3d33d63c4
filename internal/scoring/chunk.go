package scoring

import "strings"

// sectionKeywords are the headings the section splitter recognizes. A line
// counts as a heading when it is short and starts with one of these after
// lowercasing and trimming decoration.
var sectionKeywords = []string{
	"experience",
	"work experience",
	"work history",
	"employment",
	"professional experience",
	"skills",
	"technical skills",
	"education",
	"projects",
	"certifications",
	"certificates",
	"summary",
	"profile",
	"about",
	"achievements",
	"awards",
	"publications",
	"languages",
	"volunteer",
	"interests",
}

const maxHeaderLen = 60

// ChunkDocument splits a document for per-chunk embedding. Section-header
// detection is tried first; when fewer than two sections are found the
// fixed-size overlapping window fallback is used instead.
func ChunkDocument(text string, cfg *Config) []string {
	sections := SplitSections(text)
	if len(sections) >= 2 {
		return sections
	}
	return WindowChunks(text, cfg.ChunkSize, cfg.ChunkOverlap)
}

// SplitSections splits a document at recognized section headings. Text before
// the first heading becomes its own section. Empty sections are dropped.
func SplitSections(text string) []string {
	lines := strings.Split(text, "\n")

	var sections []string
	var current []string

	flush := func() {
		section := strings.TrimSpace(strings.Join(current, "\n"))
		if section != "" {
			sections = append(sections, section)
		}
		current = current[:0]
	}

	for _, line := range lines {
		if isSectionHeader(line) {
			flush()
		}
		current = append(current, line)
	}
	flush()

	return sections
}

// isSectionHeader reports whether a line looks like a resume section heading.
func isSectionHeader(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || len(trimmed) > maxHeaderLen {
		return false
	}

	normalized := strings.ToLower(strings.Trim(trimmed, " \t:#*-=_"))
	if normalized == "" {
		return false
	}

	for _, keyword := range sectionKeywords {
		if normalized == keyword || strings.HasPrefix(normalized, keyword+" ") {
			return true
		}
	}
	return false
}

// WindowChunks splits text into fixed-size windows of size runes, each
// overlapping the previous by overlap runes. A non-positive size yields the
// whole text as a single chunk.
func WindowChunks(text string, size, overlap int) []string {
	runes := []rune(strings.TrimSpace(text))
	if len(runes) == 0 {
		return nil
	}
	if size <= 0 || len(runes) <= size {
		return []string{string(runes)}
	}
	if overlap < 0 || overlap >= size {
		overlap = 0
	}

	step := size - overlap
	var chunks []string
	for start := 0; start < len(runes); start += step {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
		if end == len(runes) {
			break
		}
	}
	return chunks
}
