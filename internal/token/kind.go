package token

// Kind classifies a token of the key/value literal language.
type Kind uint8

const (
	EOF Kind = iota
	// Ident is a bare identifier key or value (foo, bar_baz).
	Ident
	// Symbol is a leading-colon name (:foo).
	Symbol
	// String is a single- or double-quoted string literal.
	String
	// Number is an integer or decimal literal.
	Number
	// Colon separates a key from its value (key: value).
	Colon
	// HashRocket is the `=>` separator.
	HashRocket
	Comma
	LBrace
	RBrace
	LParen
	RParen
	LBracket
	RBracket
	// Other covers any byte sequence the scanner does not model; the
	// parser treats it as an opaque value token.
	Other
)

func (k Kind) String() string {
	switch k {
	case EOF:
		return "EOF"
	case Ident:
		return "Ident"
	case Symbol:
		return "Symbol"
	case String:
		return "String"
	case Number:
		return "Number"
	case Colon:
		return "Colon"
	case HashRocket:
		return "HashRocket"
	case Comma:
		return "Comma"
	case LBrace:
		return "LBrace"
	case RBrace:
		return "RBrace"
	case LParen:
		return "LParen"
	case RParen:
		return "RParen"
	case LBracket:
		return "LBracket"
	case RBracket:
		return "RBracket"
	case Other:
		return "Other"
	}
	return "Unknown"
}
