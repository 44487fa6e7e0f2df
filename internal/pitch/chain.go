package pitch

import (
	"context"
	"errors"
	"fmt"

	"seedround/internal/game"
)

// Chain tries each supplier in order and returns the first valid pitch.
type Chain []game.PitchSupplier

func (c Chain) GeneratePitch(ctx context.Context, phase int) (game.Pitch, error) {
	if len(c) == 0 {
		return game.Pitch{}, game.ErrNoPitchSource
	}
	var errs []error
	for i, s := range c {
		p, err := s.GeneratePitch(ctx, phase)
		if err == nil {
			err = p.Validate()
		}
		if err == nil {
			return p, nil
		}
		errs = append(errs, fmt.Errorf("supplier %d: %w", i, err))
		if ctx.Err() != nil {
			break
		}
	}
	return game.Pitch{}, errors.Join(errs...)
}
