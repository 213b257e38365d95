package bicep

// ExtractBlock returns the first balanced {...} block at or after start,
// braces included. Braces inside quoted strings are ignored. It returns ""
// when the block never closes.
func ExtractBlock(content string, start int) string {
	return extractBalanced(content, start, '{', '}')
}

// ExtractArray is ExtractBlock for [...] arrays.
func ExtractArray(content string, start int) string {
	return extractBalanced(content, start, '[', ']')
}

func extractBalanced(content string, start int, open, close byte) string {
	if start < 0 {
		start = 0
	}

	depth := 0
	blockStart := -1
	var quote byte

	for i := start; i < len(content); i++ {
		c := content[i]

		if (c == '"' || c == '\'') && (i == 0 || content[i-1] != '\\') {
			switch {
			case quote == 0:
				quote = c
			case quote == c:
				quote = 0
			}
			continue
		}
		if quote != 0 {
			continue
		}

		switch c {
		case open:
			if depth == 0 {
				blockStart = i
			}
			depth++
		case close:
			depth--
			if depth == 0 && blockStart >= 0 {
				return content[blockStart : i+1]
			}
		}
	}
	return ""
}
