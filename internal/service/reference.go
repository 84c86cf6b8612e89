package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
)

// referenceCharset deliberately omits 0 so codes stay unambiguous when
// read aloud or typed from a confirmation email.
const (
	referenceCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ123456789"
	referenceLength  = 10
)

// ReferenceStore persists minted booking reference codes.
type ReferenceStore interface {
	Exists(ctx context.Context, code string) (bool, error)
	Save(ctx context.Context, code string) error
}

// ReferenceGenerator mints unique booking reference codes. A code is
// persisted before it is handed out, so two concurrent bookings can never
// share one; the UNIQUE constraint on the store backs this up.
type ReferenceGenerator struct {
	store ReferenceStore
}

func NewReferenceGenerator(store ReferenceStore) *ReferenceGenerator {
	return &ReferenceGenerator{store: store}
}

// Next returns a fresh 10-character code. It loops until an unused code is
// found; with 35^10 possible codes collisions are vanishingly rare, so the
// loop is unbounded.
func (g *ReferenceGenerator) Next(ctx context.Context) (string, error) {
	for {
		code, err := randomCode()
		if err != nil {
			return "", fmt.Errorf("failed to generate reference code: %w", err)
		}

		exists, err := g.store.Exists(ctx, code)
		if err != nil {
			return "", fmt.Errorf("failed to check reference code: %w", err)
		}
		if exists {
			continue
		}

		if err := g.store.Save(ctx, code); err != nil {
			return "", fmt.Errorf("failed to save reference code: %w", err)
		}
		return code, nil
	}
}

func randomCode() (string, error) {
	buf := make([]byte, referenceLength)
	max := big.NewInt(int64(len(referenceCharset)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = referenceCharset[n.Int64()]
	}
	return string(buf), nil
}
