package util

import "strings"

const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 100
)

// TextChunks splits text into rune windows of size with overlap, breaking on
// whitespace where possible.
func TextChunks(text string, size, overlap int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if size <= 0 {
		size = DefaultChunkSize
	}
	if overlap < 0 || overlap >= size {
		overlap = 0
	}

	runes := []rune(text)
	var chunks []string
	for start := 0; start < len(runes); {
		end := min(start+size, len(runes))
		if end < len(runes) {
			if cut := lastSpace(runes[start:end]); cut > size/2 {
				end = start + cut
			}
		}

		chunk := strings.TrimSpace(string(runes[start:end]))
		if chunk != "" {
			chunks = append(chunks, chunk)
		}
		if end >= len(runes) {
			break
		}
		next := end - overlap
		if next <= start {
			next = end
		}
		start = next
	}
	return chunks
}

// EmbeddingInput is the text embedded for a resume: its first chunk, or its
// first DefaultChunkSize runes when chunking yields nothing.
func EmbeddingInput(text string) string {
	if chunks := TextChunks(text, DefaultChunkSize, DefaultChunkOverlap); len(chunks) > 0 {
		return chunks[0]
	}
	runes := []rune(text)
	if len(runes) > DefaultChunkSize {
		runes = runes[:DefaultChunkSize]
	}
	return string(runes)
}

func lastSpace(rs []rune) int {
	for i := len(rs) - 1; i >= 0; i-- {
		if rs[i] == ' ' || rs[i] == '\n' || rs[i] == '\t' {
			return i
		}
	}
	return -1
}
