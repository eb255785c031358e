package splitter

import (
	"strings"

	"pdfchat/internal/domain"
)

// defaultSeparators are tried in order: paragraph breaks first, then
// lines, then words, then a hard character cut.
var defaultSeparators = []string{"\n\n", "\n", " "}

// Recursive splits page-sized text units into overlapping chunks,
// preferring to break on paragraph and sentence boundaries before
// falling back to a hard cut.
type Recursive struct {
	size    int
	overlap int
}

func NewRecursive(size, overlap int) *Recursive {
	if size <= 0 {
		size = 1000
	}
	if overlap < 0 || overlap >= size {
		overlap = 0
	}
	return &Recursive{size: size, overlap: overlap}
}

// Split divides each unit's text into chunks of at most size runes,
// with neighboring chunks sharing roughly overlap runes. Source and
// page metadata are inherited from the unit.
func (s *Recursive) Split(units []domain.Chunk) []domain.Chunk {
	var chunks []domain.Chunk
	for _, unit := range units {
		for _, text := range s.splitText(unit.Text, defaultSeparators) {
			if strings.TrimSpace(text) == "" {
				continue
			}
			chunks = append(chunks, domain.Chunk{
				Text:   text,
				Source: unit.Source,
				Page:   unit.Page,
			})
		}
	}
	return chunks
}

func (s *Recursive) splitText(text string, separators []string) []string {
	if runeLen(text) <= s.size {
		return []string{text}
	}

	if len(separators) == 0 {
		return s.hardCut(text)
	}

	sep := separators[0]
	if !strings.Contains(text, sep) {
		return s.splitText(text, separators[1:])
	}

	parts := strings.Split(text, sep)

	var out []string
	var cur strings.Builder
	for _, part := range parts {
		if runeLen(part) > s.size {
			if cur.Len() > 0 {
				out = append(out, cur.String())
				cur.Reset()
			}
			out = append(out, s.splitText(part, separators[1:])...)
			continue
		}

		added := runeLen(part)
		if cur.Len() > 0 {
			added += runeLen(sep)
		}
		if cur.Len() > 0 && runeLen(cur.String())+added > s.size {
			prev := cur.String()
			out = append(out, prev)
			cur.Reset()
			if s.overlap > 0 {
				seed := tail(prev, s.overlap)
				if runeLen(seed)+runeLen(sep)+runeLen(part) <= s.size {
					cur.WriteString(seed)
				}
			}
		}

		if cur.Len() > 0 {
			cur.WriteString(sep)
		}
		cur.WriteString(part)
	}
	if cur.Len() > 0 {
		out = append(out, cur.String())
	}
	return out
}

// hardCut slices text into size-rune windows advancing by size-overlap.
func (s *Recursive) hardCut(text string) []string {
	runes := []rune(text)
	step := s.size - s.overlap
	if step <= 0 {
		step = s.size
	}

	var out []string
	for start := 0; start < len(runes); start += step {
		end := start + s.size
		if end > len(runes) {
			end = len(runes)
		}
		out = append(out, string(runes[start:end]))
		if end == len(runes) {
			break
		}
	}
	return out
}

func runeLen(s string) int {
	return len([]rune(s))
}

// tail returns the last n runes of s.
func tail(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[len(runes)-n:])
}
