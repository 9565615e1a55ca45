package ocrsolve

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Substitution replaces every occurrence of From with To.
type Substitution struct {
	From string
	To   string
}

// DefaultSubstitutions repairs common OCR and typing artifacts. Rules apply
// in order, each over the whole text. "v" becomes sqrt because OCR reads
// the radical sign as a v; the symbol set has no variable v.
var DefaultSubstitutions = []Substitution{
	{"—", "-"},
	{"–", "-"},
	{"−", "-"},
	{"×", "*"},
	{"·", "*"},
	{"÷", "/"},
	{":", "/"},
	{"£", ""},
	{"@", ""},
	{"v", "sqrt"},
	{"√", "sqrt"},
	{"⁄", "/"},
	{",", "."},
	{"O", "0"},
	{"\t", " "},
	{"\r\n", "\n"},
	{"\r", "\n"},
}

// superscripts maps raised characters to their ASCII forms.
var superscripts = map[rune]byte{
	'⁰': '0', '¹': '1', '²': '2', '³': '3', '⁴': '4',
	'⁵': '5', '⁶': '6', '⁷': '7', '⁸': '8', '⁹': '9',
	'⁺': '+', '⁻': '-',
}

// mathChars are the operator characters that mark a line as mathematical.
const mathChars = "+-*/=()^"

// Sanitizer turns noisy text into the parser's alphabet. It is immutable
// and safe for concurrent use.
type Sanitizer struct {
	table []Substitution
}

// NewSanitizer returns a Sanitizer applying DefaultSubstitutions followed
// by extra.
func NewSanitizer(extra ...Substitution) *Sanitizer {
	table := make([]Substitution, 0, len(DefaultSubstitutions)+len(extra))
	table = append(table, DefaultSubstitutions...)
	table = append(table, extra...)
	return &Sanitizer{table: table}
}

var defaultSanitizer = NewSanitizer()

// Sanitize cleans raw with the default table.
func Sanitize(raw string) string { return defaultSanitizer.Sanitize(raw) }

// Sanitize never fails. Its output contains only digits, ASCII letters,
// "+-*/=().^" and single spaces, and sanitizing it again changes nothing.
func (s *Sanitizer) Sanitize(raw string) string {
	text := s.substitute(foldScripts(raw))
	// NFKC would turn superscripts and vulgar fractions into plain digits,
	// so foldScripts rewrites them first. Folding can expose new ASCII
	// (fullwidth "ｖ"), so the table runs again when it changed anything.
	if folded := norm.NFKC.String(text); folded != text {
		text = s.substitute(folded)
	}

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if allowed(r) || r == '\n' {
			b.WriteRune(r)
		}
	}

	var kept []string
	for _, line := range strings.Split(b.String(), "\n") {
		if !IsMathLike(line) {
			continue
		}
		kept = append(kept, strings.Join(strings.Fields(line), " "))
	}
	return strings.Join(kept, " ")
}

// foldScripts turns each run of superscript characters into an exponent
// ("x⁻¹²" is "x^-12") and each vulgar fraction into a parenthesized
// quotient ("½" is "(1/2)").
func foldScripts(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	inRun := false
	for _, r := range text {
		if c, ok := superscripts[r]; ok {
			if !inRun {
				b.WriteByte('^')
				inRun = true
			}
			b.WriteByte(c)
			continue
		}
		inRun = false
		if r >= 0x80 {
			if folded := norm.NFKC.String(string(r)); folded != string(r) && strings.ContainsRune(folded, '⁄') {
				b.WriteString("(" + strings.ReplaceAll(folded, "⁄", "/") + ")")
				continue
			}
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *Sanitizer) substitute(text string) string {
	for _, sub := range s.table {
		if sub.From == "" {
			continue
		}
		text = strings.ReplaceAll(text, sub.From, sub.To)
	}
	return text
}

func allowed(r rune) bool {
	switch {
	case r >= '0' && r <= '9', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		return true
	case r == ' ' || r == '.':
		return true
	}
	return strings.ContainsRune(mathChars, r)
}

// IsMathLike reports whether text contains a digit or an operator.
func IsMathLike(text string) bool {
	for _, r := range text {
		if (r >= '0' && r <= '9') || strings.ContainsRune(mathChars, r) {
			return true
		}
	}
	return false
}
