package cache

import (
	"context"
	"fmt"
	"time"
)

// Key prefixes per resource family. Writes to an entity invalidate its
// whole family plus the stats key, since every mutation changes the
// aggregate counters.
const (
	NewsKeyPrefix         = "news:%d"
	NewsListKey           = "news:list"
	CommentQueueKeyPrefix = "comments:queue:%s"
	StatsKey              = "stats"
)

const (
	NewsTTL  = 30 * time.Minute
	QueueTTL = 2 * time.Minute
	StatsTTL = 5 * time.Minute
)

func NewsKey(newsID uint) string {
	return fmt.Sprintf(NewsKeyPrefix, newsID)
}

func CommentQueueKey(status string) string {
	return fmt.Sprintf(CommentQueueKeyPrefix, status)
}

func Invalidate(ctx context.Context, keys ...string) {
	if client != nil && len(keys) > 0 {
		client.Del(ctx, keys...)
	}
}

// InvalidateNews drops the article, the list view, and the stats snapshot.
func InvalidateNews(ctx context.Context, newsID uint) {
	Invalidate(ctx, NewsKey(newsID), NewsListKey, StatsKey)
}

// InvalidateNewsFamily drops the list view and stats without a specific row,
// used by batch operations like the sweep.
func InvalidateNewsFamily(ctx context.Context) {
	Invalidate(ctx, NewsListKey, StatsKey)
}

// InvalidateComments drops the moderation queues, the stats snapshot, and the
// parent article (its visible comment set changed).
func InvalidateComments(ctx context.Context, newsID uint) {
	Invalidate(ctx,
		CommentQueueKey("pending"),
		CommentQueueKey("approved"),
		CommentQueueKey("rejected"),
		CommentQueueKey("all"),
		StatsKey,
		NewsKey(newsID),
	)
}
