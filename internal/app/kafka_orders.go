package app

import (
	"context"
	"errors"

	"service-bidding/internal/apperr"
	"service-bidding/internal/service/orders"
	"service-bidding/internal/transport/kafka"
)

// makeOrdersHandler adapts the processor to the consumer. Errors that a
// redelivery cannot fix are marked permanent so the offset moves on.
func makeOrdersHandler(p *orders.Processor) kafka.HandleFunc {
	return func(ctx context.Context, event orders.Event) error {
		err := p.Handle(ctx, event)
		if errors.Is(err, apperr.ErrInvalid) || errors.Is(err, apperr.ErrForbidden) {
			return kafka.Permanent(err)
		}
		return err
	}
}
