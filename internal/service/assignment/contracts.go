//go:generate mockgen -source=contracts.go -destination=assignment_mocks_test.go -package=assignment_test

package assignment

import (
	"context"

	"service-bidding/internal/domain"
)

// Notifier hands courier notifications to the external delivery channel.
type Notifier interface {
	Notify(ctx context.Context, n domain.Notification) error
}
