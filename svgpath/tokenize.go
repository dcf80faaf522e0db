package svgpath

import (
	"strconv"
	"strings"

	"github.com/sicmundu/cli-trace/internal/logging"
)

// Token is one command letter with the numbers following it.
type Token struct {
	Command byte
	Args    []float64
}

// argCount is the size of one coordinate group, per command.
var argCount = map[byte]int{
	'M': 2, 'L': 2, 'T': 2,
	'H': 1, 'V': 1,
	'C': 6,
	'S': 4, 'Q': 4,
	'A': 7,
	'Z': 0,
}

func isCommand(r byte) bool {
	_, ok := argCount[upper(r)]
	return ok
}

func upper(r byte) byte {
	if 'a' <= r && r <= 'z' {
		return r - 'a' + 'A'
	}
	return r
}

func isDigit(r byte) bool { return '0' <= r && r <= '9' }

func isLetter(r byte) bool { return ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') }

// scanNumber returns the length of the number starting at s[0], following
// the SVG grammar, so that "10-5" and "1.5.5" split into two numbers.
func scanNumber(s string) int {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && isDigit(s[i]) {
			i++
		}
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		if j < len(s) && isDigit(s[j]) {
			for j < len(s) && isDigit(s[j]) {
				j++
			}
			i = j
		}
	}
	return i
}

// Tokenize splits a path data string into command tokens.
// Unknown command letters are skipped together with their arguments,
// and numbers which can't be read are replaced by 0. Tokenize never fails.
func Tokenize(d string) []Token {
	var (
		out      []Token
		skipping bool
	)
	for i := 0; i < len(d); {
		r := d[i]
		switch {
		case isLetter(r):
			i++
			if !isCommand(r) {
				logging.Logger().Warn("skipping unknown path command", "command", string(r), "offset", i-1)
				skipping = true
				continue
			}
			skipping = false
			out = append(out, Token{Command: r})
		case isDigit(r) || r == '.' || r == '-' || r == '+':
			n := scanNumber(d[i:])
			if n == 0 {
				// a lone sign or dot
				n = 1
			}
			text := d[i : i+n]
			i += n
			if skipping {
				continue
			}
			if len(out) == 0 {
				logging.Logger().Warn("ignoring number before the first command", "value", text)
				continue
			}
			f, err := strconv.ParseFloat(text, 64)
			if err != nil {
				logging.Logger().Debug("malformed number read as 0", "value", text)
				f = 0
			}
			last := &out[len(out)-1]
			last.Args = append(last.Args, f)
		default:
			// separators
			i++
		}
	}
	return out
}

// String formats the token back to path data.
func (t Token) String() string {
	chunks := make([]string, 0, len(t.Args)+1)
	chunks = append(chunks, string(t.Command))
	for _, a := range t.Args {
		chunks = append(chunks, strconv.FormatFloat(a, 'g', -1, 64))
	}
	return strings.Join(chunks, " ")
}
