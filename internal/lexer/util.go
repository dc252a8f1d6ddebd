package lexer

const utf8RuneSelf = 0x80

func isDec(b byte) bool {
	return b >= '0' && b <= '9'
}

func isIdentStartByte(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isIdentContinueByte(b byte) bool {
	return isIdentStartByte(b) || isDec(b)
}

// isOpaqueByte reports bytes that merge into a single Other token.
func isOpaqueByte(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '#', ',', '{', '}', '(', ')', '[', ']', ':', '"', '\'':
		return false
	}
	if isIdentStartByte(b) || isDec(b) || b >= utf8RuneSelf {
		return false
	}
	// `=` может начинать `=>`, не съедаем его внутрь Other
	return b != '='
}
