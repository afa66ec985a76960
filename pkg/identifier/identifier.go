// Package identifier produces the human-readable record IDs used across
// the API: a type prefix ("O", "I", "E", "EV", "PKG", "Res", "PB")
// followed by a zero-padded numeric suffix.
package identifier

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

const (
	StrategyRandom     = "random"
	StrategySequential = "sequential"
)

const (
	PrefixOrder       = "O"
	PrefixInventory   = "I"
	PrefixEmployee    = "E"
	PrefixEvent       = "EV"
	PrefixPackage     = "PKG"
	PrefixReservation = "Res"
	PrefixParking     = "PB"
)

// ErrMalformedID reports an existing ID whose suffix is not numeric.
// The sequential strategy fails fast on it instead of minting a
// colliding or garbage successor.
var ErrMalformedID = errors.New("identifier: existing ID has a malformed numeric suffix")

// Store is the minimal view of a collection the generator probes.
type Store interface {
	// Exists reports whether a record with the given ID is present.
	Exists(ctx context.Context, id string) (bool, error)
	// LastID returns the highest existing ID for the prefix, or "" when
	// the collection holds no such records.
	LastID(ctx context.Context, prefix string) (string, error)
}

type Generator struct {
	strategy string
	width    int
}

func New(strategy string, width int) (*Generator, error) {
	if strategy != StrategyRandom && strategy != StrategySequential {
		return nil, fmt.Errorf("identifier: unknown strategy %q", strategy)
	}
	if width < 1 {
		return nil, fmt.Errorf("identifier: suffix width must be positive, got %d", width)
	}
	return &Generator{strategy: strategy, width: width}, nil
}

// Next produces an ID unused at the moment of generation. Callers still
// need a storage-level uniqueness backstop: two concurrent calls can
// both pass the probe, and only the insert's duplicate-key response is
// authoritative.
func (g *Generator) Next(ctx context.Context, prefix string, store Store) (string, error) {
	switch g.strategy {
	case StrategySequential:
		return g.nextSequential(ctx, prefix, store)
	default:
		return g.nextRandom(ctx, prefix, store)
	}
}

// nextRandom draws fixed-width suffixes until the store reports a miss.
// Collisions redraw without bound; the suffix space dwarfs any realistic
// record count, so termination is near-certain.
func (g *Generator) nextRandom(ctx context.Context, prefix string, store Store) (string, error) {
	bound := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(g.width)), nil)

	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		n, err := rand.Int(rand.Reader, bound)
		if err != nil {
			return "", fmt.Errorf("identifier: drawing random suffix: %w", err)
		}
		candidate := prefix + g.pad(n.Int64())

		taken, err := store.Exists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("identifier: probing %s: %w", candidate, err)
		}
		if !taken {
			return candidate, nil
		}
	}
}

// nextSequential reads the highest existing ID and mints its successor.
// Not safe under concurrent invocation on its own; the storage unique
// index plus retry-on-conflict makes it safe in practice.
func (g *Generator) nextSequential(ctx context.Context, prefix string, store Store) (string, error) {
	last, err := store.LastID(ctx, prefix)
	if err != nil {
		return "", fmt.Errorf("identifier: reading last ID for %s: %w", prefix, err)
	}
	if last == "" {
		return prefix + g.pad(1), nil
	}

	suffix := strings.TrimPrefix(last, prefix)
	n, err := strconv.ParseInt(suffix, 10, 64)
	if err != nil || n < 0 {
		return "", fmt.Errorf("%w: %s", ErrMalformedID, last)
	}

	return prefix + g.pad(n+1), nil
}

func (g *Generator) pad(n int64) string {
	return fmt.Sprintf("%0*d", g.width, n)
}
