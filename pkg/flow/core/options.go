package core

import "context"

type OptionKey string

const (
	HooksOptionKey        OptionKey = "hooks_options"
	ContinuationOptionKey OptionKey = "continuation_options"
)

type ContinuationOptions struct {
	Strict bool
}

// WithHooks attaches lifecycle hooks to every orchestration run under ctx.
// Hooks already present on ctx run first.
func WithHooks(ctx context.Context, hooks Hooks) context.Context {
	return context.WithValue(ctx, HooksOptionKey, GetHooks(ctx).Merge(hooks))
}

// WithStrictContinuations makes a continuation settled twice panic with
// flow.ErrContinuationReused instead of returning it.
func WithStrictContinuations(ctx context.Context, strict bool) context.Context {
	return context.WithValue(ctx, ContinuationOptionKey, ContinuationOptions{Strict: strict})
}

func GetHooks(ctx context.Context) Hooks {
	hooks, ok := ctx.Value(HooksOptionKey).(Hooks)
	if ok {
		return hooks
	}
	return Hooks{}
}

func IsStrictContinuations(ctx context.Context, defaultStrict bool) bool {
	options, ok := ctx.Value(ContinuationOptionKey).(ContinuationOptions)
	if ok {
		return options.Strict
	}
	return defaultStrict
}
