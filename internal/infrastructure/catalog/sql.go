package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"           // postgres driver
	_ "github.com/mattn/go-sqlite3" // sqlite3 driver
	"go.uber.org/zap"

	"github.com/ruokahinta/backend/internal/domain"
)

// Supported database/sql drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

// maxNameLength drops malformed listings with runaway names
const maxNameLength = 200

// SQLCatalog searches a products(id, name, price, category) table. Exact name
// matches come first, then prefix matches, then other substring matches.
type SQLCatalog struct {
	db     *sql.DB
	query  string
	logger *zap.Logger
}

// OpenSQL opens and pings a database for the given driver
func OpenSQL(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	if driver != DriverPostgres && driver != DriverSQLite {
		return nil, fmt.Errorf("unsupported sql driver: %q", driver)
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if driver == DriverSQLite {
		// one connection so in-memory databases are shared
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(10)
		db.SetConnMaxIdleTime(5 * time.Minute)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}
	return db, nil
}

// NewSQLCatalog creates a catalog over db using the placeholder style of driver
func NewSQLCatalog(db *sql.DB, driver string, logger *zap.Logger) *SQLCatalog {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SQLCatalog{
		db:     db,
		query:  buildSearchQuery(driver),
		logger: logger,
	}
}

func buildSearchQuery(driver string) string {
	ph := func(n int) string {
		if driver == DriverPostgres {
			return fmt.Sprintf("$%d", n)
		}
		return "?"
	}
	return fmt.Sprintf(`SELECT id, name, price, category
FROM products
WHERE LOWER(name) LIKE %s AND LENGTH(name) < %d
ORDER BY CASE
    WHEN LOWER(name) = %s THEN 0
    WHEN LOWER(name) LIKE %s THEN 1
    ELSE 2
END, name, id
LIMIT %s`, ph(1), maxNameLength, ph(2), ph(3), ph(4))
}

// SearchProducts implements domain.CatalogClient
func (c *SQLCatalog) SearchProducts(ctx context.Context, query string, limit int) ([]domain.CatalogRecord, error) {
	term := strings.ToLower(strings.TrimSpace(query))

	rows, err := c.db.QueryContext(ctx, c.query, "%"+term+"%", term, term+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("%w: query products: %v", domain.ErrCatalogUnavailable, err)
	}
	defer rows.Close()

	var records []domain.CatalogRecord
	for rows.Next() {
		var (
			record   domain.CatalogRecord
			price    sql.NullString
			category sql.NullString
		)
		if err := rows.Scan(&record.ID, &record.Name, &price, &category); err != nil {
			return nil, fmt.Errorf("%w: scan product: %v", domain.ErrCatalogUnavailable, err)
		}
		record.PriceText = price.String
		record.Category = category.String
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate products: %v", domain.ErrCatalogUnavailable, err)
	}

	c.logger.Debug("sql catalog search", zap.String("query", term), zap.Int("records", len(records)))
	return records, nil
}
