package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"wellness-tracker/internal/app"
	"wellness-tracker/internal/config"
	"wellness-tracker/internal/metrics"
	"wellness-tracker/internal/shopping"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

const (
	allowedUser  = int64(42)
	strangerUser = int64(7)
)

type fakeAPI struct {
	sent []tgbotapi.MessageConfig
}

func (f *fakeAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		f.sent = append(f.sent, msg)
	}
	return tgbotapi.Message{}, nil
}

func (f *fakeAPI) HandleUpdate(r *http.Request) (*tgbotapi.Update, error) {
	var update tgbotapi.Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		return nil, err
	}
	return &update, nil
}

func (f *fakeAPI) last(t *testing.T) string {
	t.Helper()
	if len(f.sent) == 0 {
		t.Fatal("Expected a reply, got none")
	}
	return f.sent[len(f.sent)-1].Text
}

func newTestBot(t *testing.T) (*Bot, *fakeAPI, *app.App) {
	t.Helper()
	a, err := app.New(&config.Config{
		DatabasePath: filepath.Join(t.TempDir(), "wellness.db"),
		StoreBackend: config.BackendSQLite,
	}, zap.NewNop())
	if err != nil {
		t.Fatalf("Failed to build app: %v", err)
	}
	t.Cleanup(func() { a.Close() })

	api := &fakeAPI{}
	sessions := NewSessionRepository(a.DB())
	return newBot(api, a, sessions, []int64{allowedUser}, zap.NewNop()), api, a
}

// send posts a text message from userID through the webhook handler.
func send(t *testing.T, b *Bot, userID int64, text string) int {
	t.Helper()
	msg := &tgbotapi.Message{
		MessageID: 1,
		From:      &tgbotapi.User{ID: userID, UserName: "tester"},
		Chat:      &tgbotapi.Chat{ID: userID},
		Text:      text,
	}
	if strings.HasPrefix(text, "/") {
		cmdLen := len(strings.Fields(text)[0])
		msg.Entities = []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: cmdLen}}
	}
	body, err := json.Marshal(tgbotapi.Update{UpdateID: 1, Message: msg})
	if err != nil {
		t.Fatal(err)
	}

	w := httptest.NewRecorder()
	b.WebhookHandler().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewReader(body)))
	return w.Code
}

func TestAllowList(t *testing.T) {
	b, api, _ := newTestBot(t)

	send(t, b, strangerUser, "/plan")
	if len(api.sent) != 0 {
		t.Errorf("Expected no reply to a stranger, got %d", len(api.sent))
	}

	send(t, b, allowedUser, "/plan")
	if len(api.sent) != 1 {
		t.Errorf("Expected one reply, got %d", len(api.sent))
	}
}

func TestBadUpdate(t *testing.T) {
	b, _, _ := newTestBot(t)
	w := httptest.NewRecorder()
	b.WebhookHandler().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader("{")))
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for a malformed update, got %d", w.Code)
	}
}

func TestCommands(t *testing.T) {
	b, api, a := newTestBot(t)
	ctx := context.Background()

	t.Run("Plan", func(t *testing.T) {
		send(t, b, allowedUser, "/plan")
		got := api.last(t)
		for _, want := range []string{"*FAST*", "*CLEANSE*", "*REBUILD*", "Day 10:"} {
			if !strings.Contains(got, want) {
				t.Errorf("Expected %q in plan reply, got %q", want, got)
			}
		}
	})

	t.Run("DayUnknown", func(t *testing.T) {
		send(t, b, allowedUser, "/day 99")
		if !strings.Contains(api.last(t), "not part of the plan") {
			t.Errorf("Unexpected reply: %q", api.last(t))
		}
	})

	t.Run("DayNotANumber", func(t *testing.T) {
		send(t, b, allowedUser, "/day three")
		if !strings.Contains(api.last(t), "not a day number") {
			t.Errorf("Unexpected reply: %q", api.last(t))
		}
	})

	t.Run("NoteInline", func(t *testing.T) {
		send(t, b, allowedUser, "/note 3 juice was  too sweet")
		if !strings.Contains(api.last(t), "Note saved for day 3") {
			t.Errorf("Unexpected reply: %q", api.last(t))
		}
		rec, _ := a.Journal.Day(ctx, 3)
		if rec.Note != "juice was  too sweet" {
			t.Errorf("Expected the note verbatim, got %q", rec.Note)
		}
	})

	t.Run("NoteSession", func(t *testing.T) {
		send(t, b, allowedUser, "/note 4")
		if !strings.Contains(api.last(t), "Send me the note for day 4") {
			t.Errorf("Unexpected reply: %q", api.last(t))
		}

		send(t, b, allowedUser, "slept badly")
		if !strings.Contains(api.last(t), "Note saved for day 4") {
			t.Errorf("Unexpected reply: %q", api.last(t))
		}
		rec, _ := a.Journal.Day(ctx, 4)
		if rec.Note != "slept badly" {
			t.Errorf("Expected the session note to be saved, got %q", rec.Note)
		}

		send(t, b, allowedUser, "more text")
		if !strings.Contains(api.last(t), "/plan") {
			t.Errorf("Expected help once the session is done, got %q", api.last(t))
		}
	})

	t.Run("CoachWithoutNote", func(t *testing.T) {
		send(t, b, allowedUser, "/coach 5")
		if !strings.Contains(api.last(t), "Write a note for day 5 first") {
			t.Errorf("Unexpected reply: %q", api.last(t))
		}
		rec, _ := a.Journal.Day(ctx, 5)
		if rec.CoachText != "" {
			t.Error("Expected no advice to be stored")
		}
	})

	t.Run("Coach", func(t *testing.T) {
		send(t, b, allowedUser, "/coach 3")
		if !strings.Contains(api.last(t), "Smart Coach") {
			t.Errorf("Unexpected reply: %q", api.last(t))
		}
		rec, _ := a.Journal.Day(ctx, 3)
		if rec.CoachText == "" {
			t.Error("Expected advice to be stored")
		}
	})

	t.Run("Day", func(t *testing.T) {
		send(t, b, allowedUser, "/day 3")
		got := api.last(t)
		if !strings.Contains(got, "juice was  too sweet") || !strings.Contains(got, "🧘") {
			t.Errorf("Expected note and advice in day reply, got %q", got)
		}
	})

	t.Run("Groceries", func(t *testing.T) {
		send(t, b, allowedUser, "/groceries")
		got := api.last(t)
		if !strings.Contains(got, "*Total:* $") {
			t.Errorf("Expected a total, got %q", got)
		}
		if strings.Contains(got, "Saved as list") {
			t.Error("Expected no snapshot without save")
		}

		send(t, b, allowedUser, "/groceries save")
		if !strings.Contains(api.last(t), "Saved as list #1") {
			t.Errorf("Unexpected reply: %q", api.last(t))
		}
	})

	t.Run("Metrics", func(t *testing.T) {
		send(t, b, allowedUser, "/metrics")
		got := api.last(t)
		if !strings.Contains(got, "1 check-in") || !strings.Contains(got, "Goroutines") {
			t.Errorf("Unexpected metrics reply: %q", got)
		}
	})

	t.Run("Unknown", func(t *testing.T) {
		send(t, b, allowedUser, "/dance")
		if !strings.Contains(api.last(t), "Unknown command") {
			t.Errorf("Unexpected reply: %q", api.last(t))
		}
	})
}

func TestFormatGroceries(t *testing.T) {
	price := shopping.Cost(3.5)
	res := shopping.Result{
		Items: []shopping.LineItem{
			{Name: "mint_leaf", Qty: 1.5, Unit: "bunch"},
			{Name: "melon", Qty: 1, Unit: "each", EstCost: &price},
		},
		Advisories: []shopping.Advisory{{Kind: shopping.AdvisoryMissingPrice, Ingredient: "mint_leaf"}},
	}

	out := formatGroceries(res)

	if !strings.Contains(out, "• melon: 1 each ($3.50)") {
		t.Errorf("Missing priced item, got %q", out)
	}
	if !strings.Contains(out, `• mint\_leaf: 1.5 bunch (n/a)`) {
		t.Errorf("Missing escaped unpriced item, got %q", out)
	}
	if strings.Index(out, "melon") > strings.Index(out, "mint") {
		t.Error("Expected items sorted by name")
	}
	if !strings.Contains(out, "1 data note") {
		t.Errorf("Missing advisory count, got %q", out)
	}

	if empty := formatGroceries(shopping.Result{}); !strings.Contains(empty, "Nothing to buy") {
		t.Errorf("Unexpected empty list output: %q", empty)
	}
}

func TestFormatDayKeepsUserTextOutsideEntities(t *testing.T) {
	out := formatDay(app.DayView{
		Phase:     "REBUILD",
		Day:       7,
		Meals:     []string{"quinoa_bowl"},
		Note:      "felt *great*, snake_case dreams",
		CoachText: "keep_going",
	})

	if !strings.Contains(out, `📝 felt \*great\*, snake\_case dreams`+"\n") {
		t.Errorf("Expected the escaped note as plain text, got %q", out)
	}
	if strings.Contains(out, "📝 _") {
		t.Errorf("Expected no italics around the note, got %q", out)
	}
	if !strings.Contains(out, `🧘 keep\_going`) {
		t.Errorf("Expected escaped advice, got %q", out)
	}
}

func TestFormatPlanPhaseHeadings(t *testing.T) {
	out := formatPlan([]app.DayView{{Phase: "low_carb *week*", Day: 1}})
	if !strings.Contains(out, "*low carb week*\n") {
		t.Errorf("Expected a bold heading without markup inside, got %q", out)
	}
}

func TestFormatMetrics(t *testing.T) {
	out := formatMetrics(nil, metrics.SysHealth{AllocBytes: 2_000_000, SysBytes: 5_000_000, Goroutines: 3, DataDiskSize: "1.0 kB"})
	for _, want := range []string{"_No data yet_", "2.0 MB", "5.0 MB", "Goroutines: 3", "1.0 kB"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in %q", want, out)
		}
	}
}

func TestSessionRepository(t *testing.T) {
	_, _, a := newTestBot(t)
	ctx := context.Background()
	repo := NewSessionRepository(a.DB())

	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return now }

	if s, err := repo.GetActive(ctx, allowedUser); err != nil || s != nil {
		t.Fatalf("Expected no session, got %v, %v", s, err)
	}

	if _, err := repo.Create(ctx, allowedUser, StateAwaitingNote, 2, time.Minute); err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}
	id, err := repo.Create(ctx, allowedUser, StateAwaitingNote, 6, time.Minute)
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}

	s, err := repo.GetActive(ctx, allowedUser)
	if err != nil || s == nil {
		t.Fatalf("Expected an active session, got %v, %v", s, err)
	}
	if s.ID != id || s.DayID != 6 {
		t.Errorf("Expected the newest session to replace the old one, got %+v", s)
	}

	now = now.Add(2 * time.Minute)
	if s, _ := repo.GetActive(ctx, allowedUser); s != nil {
		t.Error("Expected the session to have expired")
	}
	removed, err := repo.CleanupExpired(ctx)
	if err != nil || removed != 1 {
		t.Errorf("Expected 1 expired session removed, got %d, %v", removed, err)
	}
}
