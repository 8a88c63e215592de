package retrieval

import (
	"context"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/aulavia/aulavia-backend/internal/platform/logger"
)

// GradingGuidelinesDoc is the fixed reference-document label the
// translation exam mode is scoped to, at generation and grading time.
const GradingGuidelinesDoc = "linee_guida_valutazione_versioni"

const guidelinesTopK = 5

// Guidelines fetches the grading-guideline context for translation exams.
// The document never changes between requests, so results are cached in
// redis (when configured) and concurrent misses are collapsed. Every
// failure path degrades to empty context; guidelines are never fatal.
type Guidelines struct {
	log      *logger.Logger
	searcher Searcher
	rdb      *goredis.Client
	ttl      time.Duration
	sf       singleflight.Group
}

func NewGuidelines(log *logger.Logger, searcher Searcher, rdb *goredis.Client, ttl time.Duration) *Guidelines {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Guidelines{
		log:      log.With("service", "GradingGuidelines"),
		searcher: searcher,
		rdb:      rdb,
		ttl:      ttl,
	}
}

func (g *Guidelines) Context(ctx context.Context) string {
	if g.searcher == nil {
		return ""
	}
	cacheKey := "guidelines:" + GradingGuidelinesDoc

	if g.rdb != nil {
		if cached, err := g.rdb.Get(ctx, cacheKey).Result(); err == nil {
			return cached
		}
	}

	v, _, _ := g.sf.Do(cacheKey, func() (any, error) {
		passages, err := g.searcher.Search(ctx, GradingGuidelinesDoc+" criteri di valutazione della versione", guidelinesTopK)
		if err != nil {
			g.log.Warn("guideline retrieval failed, generating without context", "error", err)
			return "", nil
		}
		formatted := FormatContext(passages)
		if formatted != "" && g.rdb != nil {
			if err := g.rdb.Set(ctx, cacheKey, formatted, g.ttl).Err(); err != nil {
				g.log.Warn("guideline cache write failed", "error", err)
			}
		}
		return formatted, nil
	})
	s, _ := v.(string)
	return s
}

// NewRedisClient connects to the cache; nil when REDIS_ADDR is unset.
func NewRedisClient(ctx context.Context, log *logger.Logger, addr string) *goredis.Client {
	if addr == "" {
		return nil
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		log.Warn("redis unreachable, guideline caching disabled", "error", err)
		_ = rdb.Close()
		return nil
	}
	log.Info("redis cache connected", "addr", addr)
	return rdb
}
