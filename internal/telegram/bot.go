package telegram

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"wellness-tracker/internal/app"
	"wellness-tracker/internal/coach"
	"wellness-tracker/internal/config"
	"wellness-tracker/internal/metrics"
	"wellness-tracker/internal/planner"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

const noteSessionTTL = 10 * time.Minute

// botAPI is the part of *tgbotapi.BotAPI the bot uses.
type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	HandleUpdate(r *http.Request) (*tgbotapi.Update, error)
}

// Bot serves the tracker over Telegram.
type Bot struct {
	api      botAPI
	app      *app.App
	sessions *SessionRepository
	allowed  map[int64]bool
	logger   *zap.Logger
}

// NewBot initializes the Telegram Bot and sets the Webhook.
func NewBot(cfg *config.Config, a *app.App, sessions *SessionRepository, logger *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram api: %w", err)
	}
	logger.Info("Authorized on Telegram", zap.String("account", api.Self.UserName))

	wh, err := tgbotapi.NewWebhook(cfg.TelegramWebhookURL)
	if err != nil {
		return nil, fmt.Errorf("failed to build webhook config: %w", err)
	}
	resp, err := api.Request(wh)
	if err != nil {
		return nil, fmt.Errorf("failed to set webhook to %s: %w", cfg.TelegramWebhookURL, err)
	}
	logger.Info("Webhook set", zap.String("response", resp.Description))

	return newBot(api, a, sessions, cfg.TelegramAllowedUserIDs, logger), nil
}

func newBot(api botAPI, a *app.App, sessions *SessionRepository, allowedIDs []int64, logger *zap.Logger) *Bot {
	allowed := make(map[int64]bool, len(allowedIDs))
	for _, id := range allowedIDs {
		allowed[id] = true
	}
	return &Bot{api: api, app: a, sessions: sessions, allowed: allowed, logger: logger}
}

// RegisterHandlers registers the webhook and health handlers on mux.
func (b *Bot) RegisterHandlers(mux *http.ServeMux) {
	mux.Handle("/webhook", b.WebhookHandler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
}

// WebhookHandler returns the handler Telegram posts updates to.
func (b *Bot) WebhookHandler() http.Handler {
	return http.HandlerFunc(b.handleWebhook)
}

func (b *Bot) handleWebhook(w http.ResponseWriter, r *http.Request) {
	update, err := b.api.HandleUpdate(r)
	if err != nil {
		b.logger.Warn("Error parsing update", zap.Error(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	if update.Message == nil || update.Message.From == nil {
		return
	}

	if !b.allowed[update.Message.From.ID] {
		b.logger.Warn("Unauthorized access attempt",
			zap.Int64("user_id", update.Message.From.ID),
			zap.String("username", update.Message.From.UserName))
		return
	}

	b.processMessage(r.Context(), update.Message)
}

func (b *Bot) processMessage(ctx context.Context, msg *tgbotapi.Message) {
	if !msg.IsCommand() {
		b.handleText(ctx, msg)
		return
	}

	args := strings.Fields(msg.CommandArguments())
	switch msg.Command() {
	case "start", "help":
		b.reply(msg.Chat.ID, helpText)
	case "plan":
		b.handlePlan(ctx, msg.Chat.ID)
	case "day":
		b.handleDay(ctx, msg.Chat.ID, args)
	case "note":
		b.handleNote(ctx, msg, args)
	case "coach":
		b.handleCoach(ctx, msg.Chat.ID, args)
	case "groceries":
		b.handleGroceries(ctx, msg.Chat.ID, args)
	case "metrics":
		b.handleMetrics(ctx, msg.Chat.ID)
	default:
		b.reply(msg.Chat.ID, "Unknown command.\n\n"+helpText)
	}
}

const helpText = `*Wellness Tracker*
/plan - the whole plan
/day N - one day with its note and advice
/note N text - save a note for day N (or /note N, then send the text)
/coach N - ask the Smart Coach about day N
/groceries - estimated grocery list (/groceries save to keep a copy)
/metrics - coach usage and health`

func (b *Bot) reply(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("Failed to send reply", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

func (b *Bot) replyError(chatID int64, what string, err error) {
	b.logger.Error(what, zap.Error(err))
	b.reply(chatID, "❌ "+escape(what))
}

// parseDay reads the day argument and checks it against the plan.
func (b *Bot) parseDay(chatID int64, args []string) (int, bool) {
	if len(args) == 0 {
		b.reply(chatID, "Which day? e.g. `/day 3`")
		return 0, false
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		b.reply(chatID, fmt.Sprintf("%s is not a day number.", escape(args[0])))
		return 0, false
	}
	if _, err := b.app.Plan.Day(n); errors.Is(err, planner.ErrUnknownDay) {
		b.reply(chatID, fmt.Sprintf("Day %d is not part of the plan.", n))
		return 0, false
	}
	return n, true
}

func (b *Bot) handlePlan(ctx context.Context, chatID int64) {
	days, err := b.app.Agenda(ctx)
	if err != nil {
		b.replyError(chatID, "Error loading the plan.", err)
		return
	}
	b.reply(chatID, formatPlan(days))
}

func (b *Bot) handleDay(ctx context.Context, chatID int64, args []string) {
	n, ok := b.parseDay(chatID, args)
	if !ok {
		return
	}
	day, err := b.app.Day(ctx, n)
	if err != nil {
		b.replyError(chatID, "Error loading the day.", err)
		return
	}
	b.reply(chatID, formatDay(day))
}

func (b *Bot) handleNote(ctx context.Context, msg *tgbotapi.Message, args []string) {
	chatID := msg.Chat.ID
	n, ok := b.parseDay(chatID, args)
	if !ok {
		return
	}

	// Text follows the day number on the same line; keep it verbatim.
	text := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(msg.CommandArguments()), args[0]))
	if text == "" {
		if _, err := b.sessions.Create(ctx, msg.From.ID, StateAwaitingNote, n, noteSessionTTL); err != nil {
			b.replyError(chatID, "Error starting the note.", err)
			return
		}
		b.reply(chatID, fmt.Sprintf("✍️ Send me the note for day %d.", n))
		return
	}

	b.saveNote(ctx, chatID, n, text)
}

func (b *Bot) saveNote(ctx context.Context, chatID int64, day int, text string) {
	if _, err := b.app.Journal.SetNote(ctx, day, text); err != nil {
		b.replyError(chatID, "Error saving the note.", err)
		return
	}
	b.reply(chatID, fmt.Sprintf("📝 Note saved for day %d. Send /coach %d for advice.", day, day))
}

// handleText completes a pending /note session; other text gets the help.
func (b *Bot) handleText(ctx context.Context, msg *tgbotapi.Message) {
	session, err := b.sessions.GetActive(ctx, msg.From.ID)
	if err != nil {
		b.replyError(msg.Chat.ID, "Error loading your session.", err)
		return
	}
	if session == nil || session.State != StateAwaitingNote {
		b.reply(msg.Chat.ID, helpText)
		return
	}

	if err := b.sessions.Delete(ctx, session.ID); err != nil {
		b.logger.Warn("Failed to delete session", zap.Int64("session_id", session.ID), zap.Error(err))
	}
	b.saveNote(ctx, msg.Chat.ID, session.DayID, msg.Text)
}

func (b *Bot) handleCoach(ctx context.Context, chatID int64, args []string) {
	n, ok := b.parseDay(chatID, args)
	if !ok {
		return
	}

	rec, err := b.app.Coach.AdviseStored(ctx, n)
	if errors.Is(err, coach.ErrEmptyNote) {
		b.reply(chatID, fmt.Sprintf("Write a note for day %d first: `/note %d how you feel`", n, n))
		return
	}
	if err != nil {
		b.replyError(chatID, "Error running the coach.", err)
		return
	}
	b.reply(chatID, "🧘 "+escape(rec.CoachText))
}

func (b *Bot) handleGroceries(ctx context.Context, chatID int64, args []string) {
	save := len(args) > 0 && args[0] == "save"
	res, id, err := b.app.GroceryList(ctx, save)
	if err != nil {
		b.replyError(chatID, "Error saving the grocery list.", err)
		return
	}

	text := formatGroceries(res)
	if save {
		text += fmt.Sprintf("\n\n_Saved as list #%d._", id)
	}
	b.reply(chatID, text)
}

func (b *Bot) handleMetrics(ctx context.Context, chatID int64) {
	usage, err := b.app.Metrics.GetDailyUsage(ctx, 7)
	if err != nil {
		b.replyError(chatID, "Error fetching metrics.", err)
		return
	}
	b.reply(chatID, formatMetrics(usage, metrics.GetSysHealth(b.app.DataPaths()...)))
}
