package permit

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/orris-inc/permitgate/internal/shared/id"
)

// NumberPrefix marks permit numbers, which gates accept in place of a token.
const NumberPrefix = "WP-"

type NumberGenerator interface {
	Generate(ctx context.Context, at time.Time) (string, error)
}

// RandomNumberGenerator produces WP-YYYYMMDD-XXXXXX numbers with a random suffix,
// so numbers created in the same second do not collide.
type RandomNumberGenerator struct {
	suffixLength int
}

func NewRandomNumberGenerator() *RandomNumberGenerator {
	return &RandomNumberGenerator{suffixLength: 6}
}

func (g *RandomNumberGenerator) Generate(_ context.Context, at time.Time) (string, error) {
	suffix, err := id.GenerateUpper(g.suffixLength)
	if err != nil {
		return "", fmt.Errorf("failed to generate permit number: %w", err)
	}
	return fmt.Sprintf("%s%s-%s", NumberPrefix, at.UTC().Format("20060102"), suffix), nil
}

// IsPermitNumber reports whether a scanned value is a permit number rather than a token.
func IsPermitNumber(s string) bool {
	return strings.HasPrefix(s, NumberPrefix)
}
