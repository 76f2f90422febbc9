package resolve

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hideseek/quarry/internal/errors"
	"github.com/hideseek/quarry/internal/question"
)

// Resolve turns a question descriptor into its decision boundary, memoized
// by the descriptor's canonical signature within the current map context.
// Concurrent resolutions of the same signature share one computation.
func Resolve(ctx context.Context, deps *Deps, mctx *Context, d *question.Descriptor) (Boundary, error) {
	key := d.Signature(mctx.Fingerprint())
	return deps.Cache.Do(key, func() (Boundary, error) {
		b, err := resolveUncached(ctx, deps, mctx, d)
		if err != nil {
			slog.Debug("boundary resolution failed", "subtype", d.Subtype, "error", err)
			return Boundary{}, err
		}
		slog.Debug("boundary resolved", "subtype", d.Subtype, "kind", d.EffectiveKind(),
			"empty", b.IsEmpty(), "regions", len(b.Geoms()))
		return b, nil
	})
}

func resolveUncached(ctx context.Context, deps *Deps, mctx *Context, d *question.Descriptor) (Boundary, error) {
	var table map[question.Subtype]resolverFunc
	switch d.EffectiveKind() {
	case question.KindMatching:
		table = matchingResolvers
	case question.KindMeasuring:
		table = measuringResolvers
	default:
		return Boundary{}, errors.NewInvalidRequest(fmt.Sprintf("unknown question kind for subtype %q", d.Subtype))
	}
	fn, ok := table[d.Subtype]
	if !ok {
		return Boundary{}, errors.NewInvalidRequest(fmt.Sprintf("subtype %q is not a %s question", d.Subtype, d.EffectiveKind()))
	}
	return fn(ctx, deps, mctx, d)
}
