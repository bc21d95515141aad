package integration

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"gorm.io/gorm"

	"moexbot/internal/dialog"
	"moexbot/internal/logger"
	"moexbot/internal/provider"
	"moexbot/internal/services"
	"moexbot/internal/session"
	"moexbot/internal/testutil"
)

// testBot holds the full bot stack wired against mock market-data
// servers and an isolated in-memory SQLite database.
type testBot struct {
	DB     *gorm.DB
	Store  *session.MemoryStore
	Engine *dialog.Engine
	Market *marketMock
}

// marketMock stands in for both the MOEX ISS API and the CBR daily
// feed. Tickers map to their TQBR price; a nil entry is listed but
// unquoted. An empty UsdRub takes the rate feed down.
type marketMock struct {
	Listings map[string]string
	UsdRub   string
}

func (m *marketMock) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path

		switch {
		case path == "/daily_json.js":
			if m.UsdRub == "" {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			w.Write([]byte(`{"Valute":{"USD":{"Value":` + m.UsdRub + `}}}`))

		case strings.HasPrefix(path, "/iss/securities/"):
			ticker := strings.TrimSuffix(strings.TrimPrefix(path, "/iss/securities/"), ".json")
			if _, listed := m.Listings[ticker]; !listed {
				w.Write([]byte(`{"boards":{"data":[]}}`))
				return
			}
			w.Write([]byte(`{"boards":{"data":[["TQBR"]]}}`))

		case strings.Contains(path, "/boards/TQBR/securities/"):
			parts := strings.Split(path, "/")
			ticker := strings.TrimSuffix(parts[len(parts)-1], ".json")
			price, listed := m.Listings[ticker]
			if !listed || price == "" {
				w.Write([]byte(`{"securities":{"data":[]}}`))
				return
			}
			w.Write([]byte(`{"securities":{"data":[[` + price + `,"SUR"]]}}`))

		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}
}

func init() {
	logger.Init("test")
}

// setupBot creates the full stack: sqlite ledger, in-memory sessions and
// providers pointed at the mock market server.
func setupBot(t *testing.T, market *marketMock) *testBot {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })

	server := httptest.NewServer(market.handler())
	t.Cleanup(server.Close)

	gateway := provider.NewGateway(
		provider.NewMoexClient(server.Client(), server.URL),
		provider.NewCbrClient(server.Client(), server.URL),
	)

	ledger := services.NewLedgerService(db)
	valuator := services.NewPortfolioService(ledger, gateway)
	store := session.NewMemoryStore()

	return &testBot{
		DB:     db,
		Store:  store,
		Engine: dialog.NewEngine(store, ledger, valuator, gateway),
		Market: market,
	}
}

// say sends one text message from the chat and returns the result.
func (b *testBot) say(t *testing.T, chatID int64, text string) dialog.Result {
	t.Helper()
	return b.Engine.Handle(context.Background(), dialog.Event{ChatID: chatID, Text: text})
}

// press sends one inline button press from the chat.
func (b *testBot) press(t *testing.T, chatID int64, data string) dialog.Result {
	t.Helper()
	return b.Engine.Handle(context.Background(), dialog.Event{ChatID: chatID, Callback: data})
}

// replyTexts flattens the result replies for containment checks.
func replyTexts(res dialog.Result) string {
	var parts []string
	for _, r := range res.Replies {
		parts = append(parts, r.Text)
	}
	return strings.Join(parts, "\n")
}
