package integration

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"moexbot/internal/dialog"
	"moexbot/internal/models"
)

func TestAddStockFlow_EndToEnd(t *testing.T) {
	bot := setupBot(t, &marketMock{
		Listings: map[string]string{"SBER": "250.5"},
		UsdRub:   "90",
	})

	// Step 1: register and open the entry flow
	bot.say(t, 42, "start")
	res := bot.say(t, 42, "AddStock")
	if res.Outcome != dialog.OutcomeOK {
		t.Fatalf("AddStock outcome = %v: %s", res.Outcome, replyTexts(res))
	}

	// Step 2: lower-case ticker is upper-cased and checked against MOEX
	res = bot.say(t, 42, "sber")
	if res.Outcome != dialog.OutcomeOK {
		t.Fatalf("ticker step failed: %s", replyTexts(res))
	}

	// Step 3: price with a comma separator
	res = bot.say(t, 42, "200,5")
	if res.Outcome != dialog.OutcomeOK {
		t.Fatalf("price step failed: %s", replyTexts(res))
	}

	// Step 4: quantity commits the lot
	res = bot.say(t, 42, "100")
	if res.Outcome != dialog.OutcomeOK {
		t.Fatalf("quantity step failed: %s", replyTexts(res))
	}

	var holdings []models.StockHolding
	if err := bot.DB.Find(&holdings).Error; err != nil {
		t.Fatalf("reading holdings: %v", err)
	}
	if len(holdings) != 1 {
		t.Fatalf("expected one stored holding, got %d", len(holdings))
	}
	h := holdings[0]
	if h.OwnerID != 42 || h.Ticker != "SBER" || h.Quantity != 100 {
		t.Errorf("holding = owner %d %s x%d, want owner 42 SBER x100", h.OwnerID, h.Ticker, h.Quantity)
	}
	if !h.UnitPrice.Equal(decimal.RequireFromString("200.5")) {
		t.Errorf("unit price = %s, want 200.5", h.UnitPrice)
	}

	var users int64
	bot.DB.Model(&models.User{}).Count(&users)
	if users != 1 {
		t.Errorf("expected exactly one user record, got %d", users)
	}
}

func TestAddStockFlow_UnknownTickerNeverStored(t *testing.T) {
	bot := setupBot(t, &marketMock{Listings: map[string]string{"SBER": "250"}})

	bot.say(t, 42, "AddStock")
	res := bot.say(t, 42, "GTTUGI")
	if res.Outcome != dialog.OutcomeRetry {
		t.Fatalf("outcome = %v, want Retry", res.Outcome)
	}

	res = bot.say(t, 42, "/stop")
	if res.Outcome != dialog.OutcomeOK {
		t.Fatalf("stop failed: %s", replyTexts(res))
	}

	var count int64
	bot.DB.Model(&models.StockHolding{}).Count(&count)
	if count != 0 {
		t.Errorf("expected an empty ledger, got %d holdings", count)
	}
}

func TestCheckStockFlow_EndToEnd(t *testing.T) {
	bot := setupBot(t, &marketMock{Listings: map[string]string{"GAZP": "150.25"}})

	bot.say(t, 42, "stock price")
	res := bot.say(t, 42, "gazp")
	if res.Outcome != dialog.OutcomeOK {
		t.Fatalf("lookup failed: %s", replyTexts(res))
	}

	text := replyTexts(res)
	if !strings.Contains(text, "GAZP") {
		t.Errorf("reply %q must echo the ticker", text)
	}
	// SUR from the ISS feed must surface as RUB.
	if !strings.Contains(text, "150.25") || !strings.Contains(text, "RUB") {
		t.Errorf("reply %q must carry the price in RUB", text)
	}

	// A follow-up message starts from idle again.
	res = bot.say(t, 42, "gazp")
	if res.Outcome != dialog.OutcomeOK || len(res.Replies) == 0 {
		t.Error("the lookup session must not outlive its answer")
	}
}

func TestConvertFlow_EndToEnd(t *testing.T) {
	bot := setupBot(t, &marketMock{UsdRub: "90"})

	bot.say(t, 42, "USD_RUB")
	res := bot.say(t, 42, "15000")
	if res.Outcome != dialog.OutcomeOK {
		t.Fatalf("amount step failed: %s", replyTexts(res))
	}
	if !strings.Contains(replyTexts(res), "166.67") {
		t.Errorf("reply %q must quote 166.67 USD for 15000 RUB at 90", replyTexts(res))
	}

	res = bot.press(t, 42, dialog.CallbackConfirmYes)
	if res.Outcome != dialog.OutcomeOK {
		t.Fatalf("confirmation failed: %s", replyTexts(res))
	}

	var purchases []models.CurrencyPurchase
	if err := bot.DB.Find(&purchases).Error; err != nil {
		t.Fatalf("reading purchases: %v", err)
	}
	if len(purchases) != 1 {
		t.Fatalf("expected one stored purchase, got %d", len(purchases))
	}
	if !purchases[0].UsdAmount.Equal(decimal.RequireFromString("166.67")) {
		t.Errorf("amount = %s, want 166.67", purchases[0].UsdAmount)
	}
}

func TestConvertFlow_RateOutage(t *testing.T) {
	bot := setupBot(t, &marketMock{})

	bot.say(t, 42, "USD_RUB")
	res := bot.say(t, 42, "15000")
	if res.Outcome != dialog.OutcomeFatal {
		t.Fatalf("outcome = %v, want Fatal", res.Outcome)
	}

	var count int64
	bot.DB.Model(&models.CurrencyPurchase{}).Count(&count)
	if count != 0 {
		t.Errorf("nothing may be stored when the rate feed is down, got %d", count)
	}
}

func TestPortfolioFlow_EndToEnd(t *testing.T) {
	bot := setupBot(t, &marketMock{
		Listings: map[string]string{"SBER": "250", "GAZP": ""},
		UsdRub:   "90",
	})

	// Enter two lots; GAZP is listed but carries no TQBR quote.
	for _, inputs := range [][]string{
		{"AddStock", "SBER", "200", "100"},
		{"AddStock", "GAZP", "150", "30"},
	} {
		for _, in := range inputs {
			if res := bot.say(t, 42, in); res.Outcome != dialog.OutcomeOK {
				t.Fatalf("input %q failed: %s", in, replyTexts(res))
			}
		}
	}

	res := bot.say(t, 42, "CheckPortfolio")
	if res.Outcome != dialog.OutcomeOK {
		t.Fatalf("valuation failed: %s", replyTexts(res))
	}
	text := replyTexts(res)

	// 100 x 250, the unquoted lot excluded from the total but listed.
	if !strings.Contains(text, "25000.00") {
		t.Errorf("report %q must total 25000.00", text)
	}
	if !strings.Contains(text, "SBER") || !strings.Contains(text, "GAZP") {
		t.Errorf("report %q must list both lots", text)
	}
	if !strings.Contains(text, "25.00") {
		t.Errorf("report %q must show the 25%% change on SBER", text)
	}
}

func TestPortfolioFlow_EmptyPortfolio(t *testing.T) {
	bot := setupBot(t, &marketMock{})

	bot.say(t, 42, "start")
	res := bot.say(t, 42, "CheckPortfolio")
	if res.Outcome != dialog.OutcomeOK {
		t.Fatalf("valuation failed: %s", replyTexts(res))
	}
	if !strings.Contains(replyTexts(res), "пуст") {
		t.Errorf("reply %q must report an empty portfolio", replyTexts(res))
	}
}
