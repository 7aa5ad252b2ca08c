package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/iwvelando/investment-tracker/internal/portfolio"
	"github.com/iwvelando/investment-tracker/pkg/constants"
)

const holdingColumns = `id, symbol, company_name, quantity, buy_price, buy_date, sector, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanHolding(row rowScanner) (portfolio.Holding, error) {
	var h portfolio.Holding
	var buyDate, createdAt string
	if err := row.Scan(&h.ID, &h.Symbol, &h.CompanyName, &h.Quantity, &h.BuyPrice, &buyDate, &h.Sector, &createdAt); err != nil {
		return portfolio.Holding{}, err
	}
	h.BuyDate = parseDate(buyDate)
	h.CreatedAt = parseTimestamp(createdAt)
	return h, nil
}

// ListHoldings returns every holding in insertion order.
func (s *Store) ListHoldings(ctx context.Context) ([]portfolio.Holding, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+holdingColumns+" FROM holdings ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("listing holdings: %w", err)
	}
	defer func() { _ = rows.Close() }()

	holdings := []portfolio.Holding{}
	for rows.Next() {
		h, err := scanHolding(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning holding: %w", err)
		}
		holdings = append(holdings, h)
	}
	return holdings, rows.Err()
}

// GetHolding returns the holding with the given id.
func (s *Store) GetHolding(ctx context.Context, id int64) (portfolio.Holding, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+holdingColumns+" FROM holdings WHERE id = ?", id)
	h, err := scanHolding(row)
	if errors.Is(err, sql.ErrNoRows) {
		return portfolio.Holding{}, fmt.Errorf("holding %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return portfolio.Holding{}, fmt.Errorf("reading holding %d: %w", id, err)
	}
	return h, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *Store) insertHolding(ctx context.Context, ex execer, h portfolio.Holding) (portfolio.Holding, error) {
	h.Symbol = strings.ToUpper(strings.TrimSpace(h.Symbol))
	if err := portfolio.ValidateHolding(h); err != nil {
		return portfolio.Holding{}, err
	}
	createdAt := s.timestamp()
	res, err := ex.ExecContext(ctx, `INSERT INTO holdings
		(symbol, company_name, quantity, buy_price, buy_date, sector, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		h.Symbol, h.CompanyName, h.Quantity, h.BuyPrice, h.BuyDate.Format(constants.DateLayout), h.Sector, createdAt,
	)
	if err != nil {
		return portfolio.Holding{}, fmt.Errorf("inserting holding %s: %w", h.Symbol, err)
	}
	if h.ID, err = res.LastInsertId(); err != nil {
		return portfolio.Holding{}, err
	}
	h.BuyDate = parseDate(h.BuyDate.Format(constants.DateLayout))
	h.CreatedAt = parseTimestamp(createdAt)
	return h, nil
}

// CreateHolding validates and stores a new holding, returning it with its id.
func (s *Store) CreateHolding(ctx context.Context, h portfolio.Holding) (portfolio.Holding, error) {
	return s.insertHolding(ctx, s.db, h)
}

// CreateHoldings stores a batch of holdings in a single transaction. Either
// every holding is stored or none is.
func (s *Store) CreateHoldings(ctx context.Context, holdings []portfolio.Holding) ([]portfolio.Holding, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	created := make([]portfolio.Holding, 0, len(holdings))
	for _, h := range holdings {
		stored, err := s.insertHolding(ctx, tx, h)
		if err != nil {
			return nil, err
		}
		created = append(created, stored)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing holdings: %w", err)
	}
	return created, nil
}

// UpdateHolding overwrites the stored fields of an existing holding.
func (s *Store) UpdateHolding(ctx context.Context, h portfolio.Holding) error {
	h.Symbol = strings.ToUpper(strings.TrimSpace(h.Symbol))
	if err := portfolio.ValidateHolding(h); err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `UPDATE holdings
		SET symbol = ?, company_name = ?, quantity = ?, buy_price = ?, buy_date = ?, sector = ?
		WHERE id = ?`,
		h.Symbol, h.CompanyName, h.Quantity, h.BuyPrice, h.BuyDate.Format(constants.DateLayout), h.Sector, h.ID,
	)
	if err != nil {
		return fmt.Errorf("updating holding %d: %w", h.ID, err)
	}
	return checkAffected(res, "holding", h.ID)
}

// DeleteHolding removes a holding.
func (s *Store) DeleteHolding(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM holdings WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting holding %d: %w", id, err)
	}
	return checkAffected(res, "holding", id)
}
