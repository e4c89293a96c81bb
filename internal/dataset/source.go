package dataset

import (
	"sync"

	log "github.com/sirupsen/logrus"
)

// Source loads the campaign table at most once per process and hands the
// same read-only table to every caller afterwards. A failed load is also
// remembered; callers treat it as fatal.
type Source struct {
	Path string

	load  func() (*Table, error)
	once  sync.Once
	table *Table
	err   error
}

// NewSource returns a Source that loads path with opt on first use.
func NewSource(path string, opt LoadOptions) *Source {
	return &Source{
		Path: path,
		load: func() (*Table, error) { return Load(path, opt) },
	}
}

// StaticSource wraps an already built table, e.g. a synthetic one in tests.
func StaticSource(t *Table) *Source {
	s := &Source{Path: t.Name}
	s.once.Do(func() { s.table = t })
	return s
}

// Table returns the loaded table, loading it on the first call.
func (s *Source) Table() (*Table, error) {
	s.once.Do(func() {
		s.table, s.err = s.load()
		if s.err != nil {
			log.WithError(s.err).WithField("path", s.Path).Error("load campaign table")
			return
		}
		log.WithFields(log.Fields{
			"path":    s.Path,
			"rows":    s.table.Len(),
			"columns": len(s.table.Columns()),
		}).Info("campaign table loaded")
	})
	return s.table, s.err
}
