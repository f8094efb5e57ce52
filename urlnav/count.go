package urlnav

import (
	"context"
	"errors"
	"net/url"
)

// Count counts the files under u that f accepts. When limit is positive the
// visit stops as soon as the count exceeds it and overage is true.
func Count(ctx context.Context, n *Navigator, u *url.URL, f Filter, limit int) (count int, overage bool, err error) {
	v := VisitorFuncs{
		OnFile: func(Node) error {
			count++
			if limit > 0 && count > limit {
				return errLimitReached
			}
			return nil
		},
	}
	err = n.Visit(ctx, u, v, f)
	if errors.Is(err, errLimitReached) {
		return count, true, nil
	}
	return count, false, err
}
