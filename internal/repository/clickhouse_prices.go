package repository

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"time"

	"SteelDash/internal/domain/models"
	pkgch "SteelDash/pkg/clickhouse"
	applogger "SteelDash/pkg/logger"
)

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// CHPriceStore reads the prices table from ClickHouse.
type CHPriceStore struct {
	db    *sql.DB
	table string
	l     *applogger.Logger
}

func NewCHPriceStore(ch *pkgch.Client, table string) (*CHPriceStore, error) {
	return newCHPriceStore(ch.DB(), table)
}

func newCHPriceStore(db *sql.DB, table string) (*CHPriceStore, error) {
	if !tableName.MatchString(table) {
		return nil, fmt.Errorf("invalid prices table name %q", table)
	}
	return &CHPriceStore{db: db, table: table}, nil
}

// SetLogger injects a structured logger.
func (s *CHPriceStore) SetLogger(l *applogger.Logger) { s.l = l }

func (s *CHPriceStore) LoadPrices(ctx context.Context) (*models.PriceTable, error) {
	start := time.Now()
	q := fmt.Sprintf(`
        SELECT symbol, date, price_mid_usd_mt
        FROM %s
        ORDER BY symbol ASC, date ASC
    `, s.table)
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		s.logError("clickhouse load_prices query error", err)
		return nil, fmt.Errorf("query prices: %w", err)
	}
	defer rows.Close()

	out := &models.PriceTable{Rows: make([]models.PriceRecord, 0, 4096)}
	for rows.Next() {
		var r models.PriceRecord
		if err := rows.Scan(&r.Symbol, &r.Date, &r.PriceMid); err != nil {
			s.logError("clickhouse load_prices scan error", err)
			return nil, fmt.Errorf("scan price: %w", err)
		}
		r.Date = r.Date.UTC()
		out.Rows = append(out.Rows, r)
	}
	if err := rows.Err(); err != nil {
		s.logError("clickhouse load_prices rows error", err)
		return nil, fmt.Errorf("rows: %w", err)
	}
	if s.l != nil {
		s.l.Info("clickhouse load_prices ok",
			applogger.String("table", s.table),
			applogger.Int("rows", len(out.Rows)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return out, nil
}

func (s *CHPriceStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *CHPriceStore) Close() error {
	return nil // pool owned by pkg/clickhouse.Client
}

func (s *CHPriceStore) logError(msg string, err error) {
	if s.l == nil {
		return
	}
	s.l.Error(msg, applogger.String("table", s.table), applogger.Error(err))
}
