// Package ctxutil carries the invoking actor through a context, so that
// ledger records can name who ran a scaffold.
package ctxutil

import "context"

type actorKey struct{}

// WithActorID returns a copy of ctx that carries the actor.
func WithActorID(ctx context.Context, actorID string) context.Context {
	return context.WithValue(ctx, actorKey{}, actorID)
}

// ActorFromContext returns the actor carried by ctx, or "" when the run has
// no known actor.
func ActorFromContext(ctx context.Context) string {
	actor, _ := ctx.Value(actorKey{}).(string)
	return actor
}
