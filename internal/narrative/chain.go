package narrative

import (
	"context"
	"errors"

	"seedround/internal/game"
)

// Chain returns the first story any narrator produces.
type Chain []game.Narrator

func (c Chain) Narrate(ctx context.Context, req game.OutcomeRequest) (game.Story, error) {
	var errs []error
	for _, n := range c {
		story, err := n.Narrate(ctx, req)
		if err == nil {
			return story, nil
		}
		errs = append(errs, err)
		if ctx.Err() != nil {
			break
		}
	}
	if len(errs) == 0 {
		return game.Story{}, errors.New("no narrator configured")
	}
	return game.Story{}, errors.Join(errs...)
}
