package transfer

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

// codeAlphabet excludes visually ambiguous characters (0/O, 1/I/L) so codes
// survive being read aloud or typed from a screenshot.
const codeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

// CodeLength is the fixed length of every transfer code. 31^8 ≈ 8.5e11
// possible codes.
const CodeLength = 8

// maxGenerateAttempts bounds collision retries before giving up with
// ErrCodeSpaceExhausted.
const maxGenerateAttempts = 5

// CodeIndex is the uniqueness oracle the generator checks candidate codes
// against. *Repository satisfies it.
type CodeIndex interface {
	Exists(ctx context.Context, code string) (bool, error)
}

// Generator produces collision-checked transfer codes.
type Generator struct {
	index CodeIndex
}

// NewGenerator creates a Generator that checks candidates against index.
func NewGenerator(index CodeIndex) *Generator {
	return &Generator{index: index}
}

// Generate draws random codes until one is not present in the index,
// retrying up to maxGenerateAttempts times.
func (g *Generator) Generate(ctx context.Context) (string, error) {
	for attempt := 0; attempt < maxGenerateAttempts; attempt++ {
		code, err := randomCode(CodeLength)
		if err != nil {
			return "", fmt.Errorf("draw code: %w", err)
		}

		exists, err := g.index.Exists(ctx, code)
		if err != nil {
			return "", fmt.Errorf("check code uniqueness: %w", err)
		}
		if !exists {
			return code, nil
		}
	}
	return "", ErrCodeSpaceExhausted
}

// randomCode returns a cryptographically random string of the given length
// over codeAlphabet.
func randomCode(length int) (string, error) {
	max := big.NewInt(int64(len(codeAlphabet)))
	b := make([]byte, length)
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b[i] = codeAlphabet[n.Int64()]
	}
	return string(b), nil
}

// FormatCode renders a code for humans by inserting a hyphen at the midpoint
// (ABCD-EFGH). NormalizeCode reverses it.
func FormatCode(code string) string {
	if len(code) <= 4 {
		return code
	}
	mid := len(code) / 2
	return code[:mid] + "-" + code[mid:]
}

// NormalizeCode folds user input back to canonical form: upper-cased with
// every non-alphanumeric character (hyphens, spaces) stripped.
func NormalizeCode(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range strings.ToUpper(raw) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
