package dbpkg

import (
	"database/sql"
	"sync"
)

// Provider owns the process-wide database handle. The connection is
// established lazily exactly once and reused by all requests.
type Provider struct {
	driver string
	source string

	once sync.Once
	db   *sql.DB
	err  error
}

// NewProvider returns an unconnected Provider.
func NewProvider(driver, source string) *Provider {
	return &Provider{
		driver: driver,
		source: source,
	}
}

// DB returns the shared connection pool, dialing on first use.
func (p *Provider) DB() (*sql.DB, error) {
	p.once.Do(func() {
		p.db, p.err = Setup(p.driver, p.source)
	})

	return p.db, p.err
}

// Close tears down the pool if it was ever established.
func (p *Provider) Close() error {
	if p.db == nil {
		return nil
	}

	return p.db.Close()
}
