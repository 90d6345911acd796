package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"backoffice/internal/domain"
	"backoffice/internal/events"
	"backoffice/internal/repository"
)

// publish sends e after a committed write. Failures are logged, not returned.
func publish(ctx context.Context, pub events.Publisher, e events.Event) {
	if err := pub.Publish(ctx, e); err != nil {
		log.Warn().Err(err).Str("event", string(e.Type)).Str("key", e.Key).Msg("event publish failed")
	}
}

func orNop(pub events.Publisher) events.Publisher {
	if pub == nil {
		return events.NopPublisher{}
	}
	return pub
}

// notFound replaces a repository miss with a user-facing message.
func notFound(err error, msg string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return domain.NotFound("%s", msg)
	}
	return err
}
