package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/iwvelando/investment-tracker/internal/portfolio"
)

// ErrAlreadyWatched is returned when adding a symbol that is already on the watchlist.
var ErrAlreadyWatched = errors.New("symbol already on watchlist")

// WatchlistItem is a symbol tracked without a position.
type WatchlistItem struct {
	ID          int64     `json:"id"`
	Symbol      string    `json:"symbol"`
	CompanyName string    `json:"company_name"`
	Sector      string    `json:"sector"`
	CreatedAt   time.Time `json:"created_at"`
}

// ListWatchlist returns every watched symbol in insertion order.
func (s *Store) ListWatchlist(ctx context.Context) ([]WatchlistItem, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, symbol, company_name, sector, created_at FROM watchlist ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("listing watchlist: %w", err)
	}
	defer func() { _ = rows.Close() }()

	items := []WatchlistItem{}
	for rows.Next() {
		var item WatchlistItem
		var createdAt string
		if err := rows.Scan(&item.ID, &item.Symbol, &item.CompanyName, &item.Sector, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning watchlist item: %w", err)
		}
		item.CreatedAt = parseTimestamp(createdAt)
		items = append(items, item)
	}
	return items, rows.Err()
}

// AddWatchlist stores a symbol on the watchlist.
func (s *Store) AddWatchlist(ctx context.Context, item WatchlistItem) (WatchlistItem, error) {
	item.Symbol = strings.ToUpper(strings.TrimSpace(item.Symbol))
	if item.Symbol == "" {
		return WatchlistItem{}, portfolio.ErrSymbolRequired
	}

	var exists int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM watchlist WHERE symbol = ?", item.Symbol).Scan(&exists)
	if err != nil {
		return WatchlistItem{}, fmt.Errorf("checking watchlist: %w", err)
	}
	if exists > 0 {
		return WatchlistItem{}, fmt.Errorf("%s: %w", item.Symbol, ErrAlreadyWatched)
	}

	createdAt := s.timestamp()
	res, err := s.db.ExecContext(ctx, `INSERT INTO watchlist (symbol, company_name, sector, created_at)
		VALUES (?, ?, ?, ?)`, item.Symbol, item.CompanyName, item.Sector, createdAt)
	if err != nil {
		return WatchlistItem{}, fmt.Errorf("inserting watchlist item %s: %w", item.Symbol, err)
	}
	if item.ID, err = res.LastInsertId(); err != nil {
		return WatchlistItem{}, err
	}
	item.CreatedAt = parseTimestamp(createdAt)
	return item, nil
}

// RemoveWatchlist removes a watched symbol by id.
func (s *Store) RemoveWatchlist(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM watchlist WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting watchlist item %d: %w", id, err)
	}
	return checkAffected(res, "watchlist item", id)
}
