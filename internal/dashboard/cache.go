package dashboard

import (
	"fmt"

	"github.com/KaramelBytes/campaignlens/internal/analysis"
	"github.com/KaramelBytes/campaignlens/internal/dataset"
	cache "github.com/hashicorp/golang-lru"
	log "github.com/sirupsen/logrus"
)

// Cache memoizes dashboards per selection over one table. Bundles are
// immutable, so a cached pointer is shared between callers.
type Cache struct {
	table *dataset.Table
	opt   Options
	lru   *cache.Cache
}

// NewCache keeps up to size bundles. size <= 0 disables caching.
func NewCache(t *dataset.Table, opt Options, size int) (*Cache, error) {
	c := &Cache{table: t, opt: opt.withDefaults()}
	if size > 0 {
		l, err := cache.New(size)
		if err != nil {
			return nil, fmt.Errorf("dashboard cache: %w", err)
		}
		c.lru = l
	}
	return c, nil
}

// Table returns the table dashboards are built from.
func (c *Cache) Table() *dataset.Table { return c.table }

// Options returns the options dashboards are built with.
func (c *Cache) Options() Options { return c.opt }

// Dashboard returns the bundle for sel, building it on a miss.
func (c *Cache) Dashboard(sel analysis.Selection) *Dashboard {
	key := sel.Key()
	if c.lru != nil {
		if v, ok := c.lru.Get(key); ok {
			if d, ok := v.(*Dashboard); ok {
				log.WithField("selection", key).Debug("dashboard cache hit")
				return d
			}
		}
	}
	d := Build(c.table, sel, c.opt)
	if c.lru != nil {
		if evicted := c.lru.Add(key, d); evicted {
			log.WithField("selection", key).Debug("dashboard cache evicted oldest entry")
		}
	}
	return d
}

// Len is the number of cached bundles.
func (c *Cache) Len() int {
	if c.lru == nil {
		return 0
	}
	return c.lru.Len()
}
