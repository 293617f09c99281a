package paginate

import (
	"context"
	"fmt"

	"github.com/Khaliq12345/news-archive-bot/internal/types"
)

// Strategy is one page-advance state machine. Run drives the crawl to
// completion and returns the number of persisted records. Walking past the
// date window is a normal return, not an error.
type Strategy interface {
	Run(ctx context.Context, c *Crawl) (saved int, err error)
	Name() string
}

// Select maps a strategy tag to its implementation. The set is closed;
// unknown tags are rejected at job start.
func Select(tag string) (Strategy, error) {
	switch tag {
	case types.StrategyNumbered:
		return &numberedStrategy{}, nil
	case types.StrategyLoadMore:
		return &loadMoreStrategy{}, nil
	case types.StrategyInfiniteScroll:
		return &infiniteScrollStrategy{}, nil
	case types.StrategyClick:
		return &clickStrategy{}, nil
	default:
		return nil, fmt.Errorf("unknown pagination strategy %q", tag)
	}
}
