package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/iwvelando/investment-tracker/internal/goals"
	"github.com/iwvelando/investment-tracker/internal/portfolio"
	"github.com/iwvelando/investment-tracker/pkg/constants"
	"github.com/iwvelando/investment-tracker/pkg/datetime"
	"github.com/iwvelando/investment-tracker/pkg/testutil"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "tracker.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	s.now = func() time.Time { return time.Date(2025, time.March, 1, 10, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func date(s string) time.Time {
	return datetime.MustParseTime(constants.DateLayout, s)
}

func TestHoldingsRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	created, err := s.CreateHolding(ctx, portfolio.Holding{
		Symbol:      " tcs.ns ",
		CompanyName: "Tata Consultancy Services",
		Quantity:    10,
		BuyPrice:    3500,
		BuyDate:     date("2024-06-01"),
		Sector:      "Technology",
	})
	if err != nil {
		t.Fatalf("CreateHolding failed: %v", err)
	}
	if created.ID == 0 || created.Symbol != "TCS.NS" {
		t.Fatalf("unexpected created holding %+v", created)
	}

	got, err := s.GetHolding(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetHolding failed: %v", err)
	}
	if got.Symbol != "TCS.NS" || got.Quantity != 10 || got.BuyPrice != 3500 || !got.BuyDate.Equal(date("2024-06-01")) {
		t.Errorf("unexpected holding %+v", got)
	}
	if !got.CreatedAt.Equal(time.Date(2025, time.March, 1, 10, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected created_at %v", got.CreatedAt)
	}

	got.Quantity = 15
	got.Sector = ""
	if err := s.UpdateHolding(ctx, got); err != nil {
		t.Fatalf("UpdateHolding failed: %v", err)
	}
	list, err := s.ListHoldings(ctx)
	if err != nil {
		t.Fatalf("ListHoldings failed: %v", err)
	}
	if len(list) != 1 || list[0].Quantity != 15 || list[0].Sector != "" {
		t.Errorf("unexpected holdings after update %+v", list)
	}

	if err := s.DeleteHolding(ctx, created.ID); err != nil {
		t.Fatalf("DeleteHolding failed: %v", err)
	}
	if _, err := s.GetHolding(ctx, created.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := s.DeleteHolding(ctx, created.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound deleting twice, got %v", err)
	}
}

func TestHoldingValidation(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	tests := []struct {
		name    string
		holding portfolio.Holding
		wantErr error
	}{
		{name: "missing symbol", holding: portfolio.Holding{Quantity: 1, BuyPrice: 1}, wantErr: portfolio.ErrSymbolRequired},
		{name: "zero quantity", holding: portfolio.Holding{Symbol: "INFY.NS", BuyPrice: 1}, wantErr: portfolio.ErrInvalidQuantity},
		{name: "negative price", holding: portfolio.Holding{Symbol: "INFY.NS", Quantity: 1, BuyPrice: -5}, wantErr: portfolio.ErrInvalidPrice},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.CreateHolding(ctx, tt.holding); !errors.Is(err, tt.wantErr) {
				t.Errorf("CreateHolding error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	if err := s.UpdateHolding(ctx, portfolio.Holding{ID: 99, Symbol: "INFY.NS", Quantity: 1, BuyPrice: 1}); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound updating missing holding, got %v", err)
	}
}

func TestCreateHoldingsIsAtomic(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	batch := []portfolio.Holding{
		{Symbol: "RELIANCE.NS", Quantity: 5, BuyPrice: 2400, BuyDate: date("2024-01-10")},
		{Symbol: "INFY.NS", Quantity: 0, BuyPrice: 1500, BuyDate: date("2024-01-11")},
	}
	if _, err := s.CreateHoldings(ctx, batch); err == nil {
		t.Fatal("expected error for invalid batch")
	}
	list, err := s.ListHoldings(ctx)
	if err != nil {
		t.Fatalf("ListHoldings failed: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("failed batch should store nothing, got %d holdings", len(list))
	}

	batch[1].Quantity = 3
	created, err := s.CreateHoldings(ctx, batch)
	if err != nil {
		t.Fatalf("CreateHoldings failed: %v", err)
	}
	if len(created) != 2 || created[0].ID >= created[1].ID {
		t.Fatalf("unexpected created holdings %+v", created)
	}
	list, _ = s.ListHoldings(ctx)
	if len(list) != 2 || list[0].Symbol != "RELIANCE.NS" || list[1].Symbol != "INFY.NS" {
		t.Errorf("holdings not listed in id order: %+v", list)
	}
	if infy := testutil.FindHolding(list, "INFY.NS"); infy == nil || infy.Quantity != 3 || !infy.BuyDate.Equal(date("2024-01-11")) {
		t.Errorf("unexpected INFY holding %+v", infy)
	}
}

func TestGoalsRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	target := date("2030-12-31")
	created, err := s.CreateGoal(ctx, goals.Goal{
		Name:                "Retirement",
		GoalType:            "LONG",
		TargetAmount:        10000000,
		CurrentSavings:      500000,
		MonthlyContribution: 20000,
		ExpectedReturn:      10,
		TargetDate:          &target,
	})
	if err != nil {
		t.Fatalf("CreateGoal failed: %v", err)
	}
	if created.GoalType != goals.TypeLong {
		t.Errorf("goal type not normalised: %q", created.GoalType)
	}

	if _, err := s.CreateGoal(ctx, goals.Goal{Name: "Trip", GoalType: goals.TypeShort, TargetAmount: 60000}); err != nil {
		t.Fatalf("CreateGoal without target date failed: %v", err)
	}

	list, err := s.ListGoals(ctx)
	if err != nil {
		t.Fatalf("ListGoals failed: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 goals, got %d", len(list))
	}
	if list[0].TargetDate == nil || !list[0].TargetDate.Equal(target) {
		t.Errorf("unexpected target date %v", list[0].TargetDate)
	}
	if list[1].TargetDate != nil {
		t.Errorf("expected no target date, got %v", list[1].TargetDate)
	}

	got, err := s.GetGoal(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetGoal failed: %v", err)
	}
	if got.Name != "Retirement" || got.MonthlyContribution != 20000 {
		t.Errorf("unexpected goal %+v", got)
	}

	if _, err := s.CreateGoal(ctx, goals.Goal{Name: "", TargetAmount: 1}); !errors.Is(err, goals.ErrNameRequired) {
		t.Errorf("expected ErrNameRequired, got %v", err)
	}

	if err := s.DeleteGoal(ctx, created.ID); err != nil {
		t.Fatalf("DeleteGoal failed: %v", err)
	}
	if _, err := s.GetGoal(ctx, created.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestWatchlist(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	item, err := s.AddWatchlist(ctx, WatchlistItem{Symbol: "hdfcbank.ns", CompanyName: "HDFC Bank", Sector: "Banking"})
	if err != nil {
		t.Fatalf("AddWatchlist failed: %v", err)
	}
	if item.Symbol != "HDFCBANK.NS" {
		t.Errorf("symbol not upper-cased: %s", item.Symbol)
	}
	if _, err := s.AddWatchlist(ctx, WatchlistItem{Symbol: "HDFCBANK.NS"}); !errors.Is(err, ErrAlreadyWatched) {
		t.Errorf("expected ErrAlreadyWatched, got %v", err)
	}
	if _, err := s.AddWatchlist(ctx, WatchlistItem{Symbol: " "}); !errors.Is(err, portfolio.ErrSymbolRequired) {
		t.Errorf("expected ErrSymbolRequired, got %v", err)
	}

	items, err := s.ListWatchlist(ctx)
	if err != nil {
		t.Fatalf("ListWatchlist failed: %v", err)
	}
	if len(items) != 1 || items[0].CompanyName != "HDFC Bank" {
		t.Fatalf("unexpected watchlist %+v", items)
	}

	if err := s.RemoveWatchlist(ctx, item.ID); err != nil {
		t.Fatalf("RemoveWatchlist failed: %v", err)
	}
	if err := s.RemoveWatchlist(ctx, item.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestOpenInMemory(t *testing.T) {
	s, err := Open(MemoryPath)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer func() { _ = s.Close() }()

	if _, err := s.CreateGoal(context.Background(), goals.Goal{Name: "Fund", TargetAmount: 1000}); err != nil {
		t.Fatalf("CreateGoal failed: %v", err)
	}
	list, err := s.ListGoals(context.Background())
	if err != nil || len(list) != 1 {
		t.Fatalf("expected one goal, got %d (%v)", len(list), err)
	}
}
