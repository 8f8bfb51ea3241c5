package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"listkeeper-bot/internal/config"
	"listkeeper-bot/internal/storage"
)

// Storage is the store surface the handlers depend on.
type Storage interface {
	ListAllLists(ctx context.Context) ([]storage.List, error)
	ListItems(ctx context.Context, listName string) ([]storage.Item, error)
	CreateList(ctx context.Context, listName string, requesterID int64, description string) error
	AddItem(ctx context.Context, itemName string, listID int64) error
	DeleteItem(ctx context.Context, itemName string) error
	DeleteList(ctx context.Context, listName string, requesterID int64) error
	AddUser(ctx context.Context, userID int64, userName string, requesterID int64) error
	UserExists(ctx context.Context, userID int64) (bool, error)
	CheckRateLimit(ctx context.Context, userID int64, action string, limit int64, window time.Duration) (bool, error)
	ExportListsToExcel(ctx context.Context) (string, error)
}

// Sender is the outbound Telegram surface. *tgbotapi.BotAPI satisfies it.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type commandFunc func(ctx context.Context, tokens []string, callerID int64) (string, *tgbotapi.InlineKeyboardMarkup, error)

type callbackFunc func(ctx context.Context, arg string) (string, *tgbotapi.InlineKeyboardMarkup, error)

type Bot struct {
	sender    Sender
	storage   Storage
	cfg       *config.Config
	logger    *zap.Logger
	commands  map[string]commandFunc
	callbacks map[string]callbackFunc
}

func New(cfg *config.Config, store Storage, logger *zap.Logger) (*Bot, error) {
	botAPI, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot API: %w", err)
	}

	logger.Info("Bot authorized",
		zap.String("username", botAPI.Self.UserName),
		zap.Int64("id", botAPI.Self.ID))

	b := &Bot{
		sender:  botAPI,
		storage: store,
		cfg:     cfg,
		logger:  logger,
	}

	b.registerHandlers()
	return b, nil
}

// registerHandlers builds both dispatch tables once. The key sets are
// closed: nothing registers after construction.
func (b *Bot) registerHandlers() {
	b.commands = map[string]commandFunc{
		CmdLists:      b.handleLists,
		CmdAddItem:    b.handleAddItem,
		CmdAddItemAlt: b.handleAddItem,
		CmdDeleteList: b.handleDeleteList,
		CmdAddUser:    b.handleAddUser,
		CmdAddList:    b.handleAddList,
		CmdExport:     b.handleExport,
	}
	b.callbacks = map[string]callbackFunc{
		CallbackGet:    b.handleGetList,
		CallbackDelete: b.handleDeleteItem,
	}
}

// HandleUpdate is the single dispatch point for an inbound webhook update.
func (b *Bot) HandleUpdate(ctx context.Context, update *tgbotapi.Update) {
	switch {
	case update.Message != nil:
		b.processMessage(ctx, update.Message)
	case update.CallbackQuery != nil:
		b.processCallback(ctx, update.CallbackQuery)
	}
}

func (b *Bot) processMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.Chat == nil || msg.From == nil {
		return
	}

	chatID := msg.Chat.ID
	callerID := msg.From.ID

	b.logger.Debug("Processing message",
		zap.Int64("chat_id", chatID),
		zap.String("text", msg.Text))

	limited, err := b.storage.CheckRateLimit(ctx, callerID, "command", b.cfg.RateLimit, b.cfg.RateLimitWindow)
	if err != nil {
		b.logger.Warn("Rate limit check failed", zap.Error(err))
	}
	if limited {
		b.reply(chatID, msgTooManyRequests, nil)
		return
	}

	tokens := strings.Split(strings.TrimSpace(msg.Text), " ")

	handler, ok := b.commands[tokens[0]]
	if !ok {
		b.reply(chatID, msgUnknownCommand, nil)
		return
	}

	text, keyboard, err := handler(ctx, tokens, callerID)
	switch {
	case err == nil:
		b.reply(chatID, text, keyboard)
	case errors.Is(err, storage.ErrNotAuthorized):
		b.reply(chatID, storage.ErrNotAuthorized.Error(), nil)
	case errors.Is(err, storage.ErrDuplicate):
		b.reply(chatID, msgDuplicate, nil)
	default:
		// Matches the reference behavior: unexpected failures produce
		// no reply at all.
		b.logger.Error("Command handler failed",
			zap.String("command", tokens[0]),
			zap.Int64("chat_id", chatID),
			zap.Error(err))
	}
}

func (b *Bot) processCallback(ctx context.Context, callback *tgbotapi.CallbackQuery) {
	if callback.Message == nil || callback.Message.Chat == nil {
		return
	}

	chatID := callback.Message.Chat.ID

	b.logger.Debug("Processing callback",
		zap.Int64("chat_id", chatID),
		zap.String("data", callback.Data))

	tokens := strings.Split(callback.Data, " ")

	handler, ok := b.callbacks[tokens[0]]
	if !ok {
		b.reply(chatID, msgSomethingWrong, nil)
		return
	}

	text, keyboard, err := handler(ctx, strings.Join(tokens[1:], " "))
	switch {
	case err == nil:
		b.reply(chatID, text, keyboard)
	case errors.Is(err, storage.ErrListNotFound):
		b.reply(chatID, msgSomethingWrong, nil)
	default:
		b.logger.Error("Callback handler failed",
			zap.String("callback", tokens[0]),
			zap.Int64("chat_id", chatID),
			zap.Error(err))
	}
}

// reply sends the response fire-and-forget; send failures are only logged.
func (b *Bot) reply(chatID int64, text string, keyboard *tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if keyboard != nil {
		msg.ReplyMarkup = *keyboard
	}

	if _, err := b.sender.Send(msg); err != nil {
		b.logger.Error("Failed to send message",
			zap.Int64("chat_id", chatID),
			zap.String("text", text),
			zap.Error(err))
	}
}
