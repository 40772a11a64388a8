package generator

// CharSetKind names one of the fixed character pools.
type CharSetKind int

const (
	Uppercase CharSetKind = iota
	Lowercase
	Digits
	Symbols
)

const (
	uppercaseChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	lowercaseChars = "abcdefghijklmnopqrstuvwxyz"
	digitChars     = "0123456789"
	symbolChars    = `!@#$%^&*()_+=?><,.:;"[]{}|`
)

// NameKinds are the pools used for file names. Symbols are left out so names
// stay filesystem-safe.
var NameKinds = []CharSetKind{Uppercase, Lowercase, Digits}

// ContentKinds are the pools used for file content.
var ContentKinds = []CharSetKind{Uppercase, Lowercase, Digits, Symbols}

// Chars returns the pool for k, or "" for an unknown kind.
func (k CharSetKind) Chars() string {
	switch k {
	case Uppercase:
		return uppercaseChars
	case Lowercase:
		return lowercaseChars
	case Digits:
		return digitChars
	case Symbols:
		return symbolChars
	default:
		return ""
	}
}

func (k CharSetKind) String() string {
	switch k {
	case Uppercase:
		return "uppercase"
	case Lowercase:
		return "lowercase"
	case Digits:
		return "digits"
	case Symbols:
		return "symbols"
	default:
		return "unknown"
	}
}
