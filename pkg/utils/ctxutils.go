package utils

import (
	"context"

	"nauticare/internal/workflow"
	"nauticare/pkg/contextkeys"
	apperrors "nauticare/pkg/errors"
)

// ActorFromCtx extracts the authenticated actor placed in the context by the
// auth middleware. Transition calls always receive the actor explicitly; this
// is the single point where it leaves the transport layer.
func ActorFromCtx(ctx context.Context) (workflow.ActorContext, error) {
	actor, ok := ctx.Value(contextkeys.ActorKey).(workflow.ActorContext)
	if !ok {
		return workflow.ActorContext{}, apperrors.ErrActorNotFoundInContext
	}
	return actor, nil
}

func WithActor(ctx context.Context, actor workflow.ActorContext) context.Context {
	return context.WithValue(ctx, contextkeys.ActorKey, actor)
}
