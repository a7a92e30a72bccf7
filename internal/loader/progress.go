package loader

import (
	"context"

	"github.com/stwalsh4118/evpulse/internal/models"
)

// ProgressFunc receives stage transitions while a source loads.
type ProgressFunc func(stage models.LoadStage)

type progressKey struct{}

// WithProgress returns a context that carries fn. Sources call it when they
// move from fetching to parsing.
func WithProgress(ctx context.Context, fn ProgressFunc) context.Context {
	return context.WithValue(ctx, progressKey{}, fn)
}

// ReportStage notifies the ProgressFunc carried by ctx, if any.
func ReportStage(ctx context.Context, stage models.LoadStage) {
	if fn, ok := ctx.Value(progressKey{}).(ProgressFunc); ok && fn != nil {
		fn(stage)
	}
}
