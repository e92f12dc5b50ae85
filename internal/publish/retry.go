package publish

import "context"

// WithConflictRetry runs attempt without a sha. When that fails with a
// conflict, precondition fetches the current sha and attempt runs once more
// with it. A failing precondition surfaces the original error.
func WithConflictRetry[T any](
	ctx context.Context,
	attempt func(ctx context.Context, sha string) (T, error),
	isConflict func(error) bool,
	precondition func(ctx context.Context) (string, error),
) (T, error) {
	res, err := attempt(ctx, "")
	if err == nil || !isConflict(err) {
		return res, err
	}

	sha, shaErr := precondition(ctx)
	if shaErr != nil {
		return res, err
	}

	return attempt(ctx, sha)
}
