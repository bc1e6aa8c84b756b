package utils

// ChunkContent splits content into rune slices of at most chunkSize, with
// consecutive chunks sharing an overlap so no boundary loses context. Content
// that already fits in one chunk comes back as a single-element slice.
func ChunkContent(content string, chunkSize, overlap int) []string {
	runes := []rune(content)
	if chunkSize <= 0 || len(runes) <= chunkSize {
		return []string{content}
	}

	step := chunkSize - overlap
	if step <= 0 {
		step = chunkSize
	}

	var chunks []string
	for start := 0; start < len(runes); start += step {
		end := start + chunkSize
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
