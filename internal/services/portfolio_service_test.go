package services

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"moexbot/internal/provider"
	"moexbot/internal/testutil"
)

// fakeGateway serves canned quotes; tickers absent from the map are
// unpriceable. The rate is fixed.
type fakeGateway struct {
	quotes map[string]string
	rate   string
}

func (f *fakeGateway) Exists(_ context.Context, ticker string) bool {
	_, ok := f.quotes[ticker]
	return ok
}

func (f *fakeGateway) Quote(_ context.Context, ticker string) provider.Quote {
	raw, ok := f.quotes[ticker]
	if !ok {
		return provider.Quote{}
	}
	price := decimal.RequireFromString(raw)
	return provider.Quote{Price: &price, Currency: "RUB"}
}

func (f *fakeGateway) UsdRubRate(_ context.Context) (decimal.Decimal, bool) {
	if f.rate == "" {
		return decimal.Zero, false
	}
	return decimal.RequireFromString(f.rate), true
}

func TestValuate(t *testing.T) {
	ctx := context.Background()

	t.Run("single_priced_holding", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		ledger := NewLedgerService(db)
		user := testutil.CreateTestUser(t, db)
		testutil.CreateTestHolding(t, db, user.TelegramID, "SBER", 100, "200")

		valuator := NewPortfolioService(ledger, &fakeGateway{quotes: map[string]string{"SBER": "250"}})
		report, err := valuator.Valuate(ctx, user.TelegramID)
		testutil.AssertNoError(t, err)

		if report.Empty {
			t.Fatal("expected a non-empty report")
		}
		if report.PricedCount != 1 {
			t.Errorf("priced count = %d, want 1", report.PricedCount)
		}
		if !report.Total.Equal(decimal.RequireFromString("25000")) {
			t.Errorf("total = %s, want 25000", report.Total)
		}

		line := report.Lines[0]
		if !line.Priced {
			t.Fatal("expected the line to be priced")
		}
		if !line.Value.Equal(decimal.RequireFromString("25000")) {
			t.Errorf("line value = %s, want 25000", line.Value)
		}
		if !line.Change.Equal(decimal.RequireFromString("50")) {
			t.Errorf("change = %s, want 50", line.Change)
		}
		if !line.ChangePercent.Equal(decimal.RequireFromString("25")) {
			t.Errorf("change percent = %s, want 25.00", line.ChangePercent)
		}
	})

	t.Run("empty_portfolio", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		ledger := NewLedgerService(db)
		user := testutil.CreateTestUser(t, db)

		valuator := NewPortfolioService(ledger, &fakeGateway{})
		report, err := valuator.Valuate(ctx, user.TelegramID)
		testutil.AssertNoError(t, err)

		if !report.Empty {
			t.Error("expected an explicitly empty report")
		}
		if len(report.Lines) != 0 || report.PricedCount != 0 {
			t.Error("empty report must carry no lines or counts")
		}
	})

	t.Run("unavailable_quote_listed_but_excluded", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		ledger := NewLedgerService(db)
		user := testutil.CreateTestUser(t, db)
		testutil.CreateTestHolding(t, db, user.TelegramID, "SBER", 100, "200")
		testutil.CreateTestHolding(t, db, user.TelegramID, "DLST", 30, "90")

		valuator := NewPortfolioService(ledger, &fakeGateway{quotes: map[string]string{"SBER": "250"}})
		report, err := valuator.Valuate(ctx, user.TelegramID)
		testutil.AssertNoError(t, err)

		if report.Empty {
			t.Fatal("a portfolio with holdings is never empty, even unpriced")
		}
		if len(report.Lines) != 2 {
			t.Fatalf("expected both lots listed, got %d lines", len(report.Lines))
		}
		if report.PricedCount != 1 {
			t.Errorf("priced count = %d, want 1", report.PricedCount)
		}
		if !report.Total.Equal(decimal.RequireFromString("25000")) {
			t.Errorf("total = %s, want 25000 (unpriced lot excluded)", report.Total)
		}

		unpriced := report.Lines[1]
		if unpriced.Priced {
			t.Error("expected DLST line to be unpriced")
		}
		if unpriced.Quantity != 30 {
			t.Errorf("unpriced line quantity = %d, want 30", unpriced.Quantity)
		}
	})

	t.Run("repeated_ticker_valued_per_lot", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		ledger := NewLedgerService(db)
		user := testutil.CreateTestUser(t, db)
		testutil.CreateTestHolding(t, db, user.TelegramID, "SBER", 100, "200")
		testutil.CreateTestHolding(t, db, user.TelegramID, "SBER", 10, "240")

		valuator := NewPortfolioService(ledger, &fakeGateway{quotes: map[string]string{"SBER": "250"}})
		report, err := valuator.Valuate(ctx, user.TelegramID)
		testutil.AssertNoError(t, err)

		if report.PricedCount != 2 {
			t.Errorf("priced count = %d, want 2", report.PricedCount)
		}
		// 100*250 + 10*250
		if !report.Total.Equal(decimal.RequireFromString("27500")) {
			t.Errorf("total = %s, want 27500", report.Total)
		}
	})

	t.Run("zero_unit_price_flagged_not_divided", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		ledger := NewLedgerService(db)
		user := testutil.CreateTestUser(t, db)
		testutil.CreateTestHolding(t, db, user.TelegramID, "SBER", 10, "0")

		valuator := NewPortfolioService(ledger, &fakeGateway{quotes: map[string]string{"SBER": "250"}})
		report, err := valuator.Valuate(ctx, user.TelegramID)
		testutil.AssertNoError(t, err)

		line := report.Lines[0]
		if !line.IntegrityFlag {
			t.Error("expected the zero-price lot to carry an integrity flag")
		}
		if !line.ChangePercent.IsZero() {
			t.Errorf("change percent = %s, want zero (never divided)", line.ChangePercent)
		}
		if !report.Total.Equal(decimal.RequireFromString("2500")) {
			t.Errorf("total = %s, want 2500 (current price is still sound)", report.Total)
		}
	})
}
