package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"listkeeper-bot/internal/storage"
)

// handleLists shows the list-selection keyboard to known users.
func (b *Bot) handleLists(ctx context.Context, tokens []string, callerID int64) (string, *tgbotapi.InlineKeyboardMarkup, error) {
	known, err := b.storage.UserExists(ctx, callerID)
	if err != nil {
		return "", nil, fmt.Errorf("check user: %w", err)
	}
	if !known {
		return msgNotWelcome, nil, nil
	}

	lists, err := b.storage.ListAllLists(ctx)
	if err != nil {
		return "", nil, fmt.Errorf("fetch lists: %w", err)
	}

	keyboard := listSelectionKeyboard(lists)
	return msgYourLists, &keyboard, nil
}

// handleAddItem serves "/+" and its bare "+" alias. The last token is the
// target list id, everything between it and the command is the item name.
func (b *Bot) handleAddItem(ctx context.Context, tokens []string, callerID int64) (string, *tgbotapi.InlineKeyboardMarkup, error) {
	if len(tokens) <= 2 || !isNumeric(tokens[len(tokens)-1]) {
		return msgBadCommand, nil, nil
	}

	known, err := b.storage.UserExists(ctx, callerID)
	if err != nil {
		return "", nil, fmt.Errorf("check user: %w", err)
	}
	if !known {
		return msgNotWelcome, nil, nil
	}

	listID, err := strconv.ParseInt(tokens[len(tokens)-1], 10, 64)
	if err != nil {
		return msgBadCommand, nil, nil
	}

	itemName := strings.Join(tokens[1:len(tokens)-1], " ")
	if err := b.storage.AddItem(ctx, itemName, listID); err != nil {
		return "", nil, fmt.Errorf("add item: %w", err)
	}

	return fmt.Sprintf("%s додано до вказаного списку", itemName), nil, nil
}

func (b *Bot) handleDeleteList(ctx context.Context, tokens []string, callerID int64) (string, *tgbotapi.InlineKeyboardMarkup, error) {
	if len(tokens) <= 1 {
		return msgIncorrect, nil, nil
	}

	known, err := b.storage.UserExists(ctx, callerID)
	if err != nil {
		return "", nil, fmt.Errorf("check user: %w", err)
	}
	if !known {
		return msgNotWelcome, nil, nil
	}

	listName := strings.Join(tokens[1:], " ")
	if err := b.storage.DeleteList(ctx, listName, callerID); err != nil {
		return "", nil, err
	}

	return fmt.Sprintf("%s has been deleted", listName), nil, nil
}

func (b *Bot) handleAddUser(ctx context.Context, tokens []string, callerID int64) (string, *tgbotapi.InlineKeyboardMarkup, error) {
	if len(tokens) != 3 || !isNumeric(tokens[1]) {
		return msgIncorrect, nil, nil
	}

	userID, err := strconv.ParseInt(tokens[1], 10, 64)
	if err != nil {
		return msgIncorrect, nil, nil
	}

	if err := b.storage.AddUser(ctx, userID, tokens[2], callerID); err != nil {
		return "", nil, err
	}

	return fmt.Sprintf("User %s has been successfully added", tokens[2]), nil, nil
}

func (b *Bot) handleAddList(ctx context.Context, tokens []string, callerID int64) (string, *tgbotapi.InlineKeyboardMarkup, error) {
	if len(tokens) <= 1 {
		return msgIncorrect, nil, nil
	}

	listName := strings.Join(tokens[1:], " ")
	if err := b.storage.CreateList(ctx, listName, callerID, ""); err != nil {
		return "", nil, err
	}

	return fmt.Sprintf("List %s has been successfully created", listName), nil, nil
}

// handleExport builds an xlsx report of all lists and sends it as a
// document. Admin only.
func (b *Bot) handleExport(ctx context.Context, tokens []string, callerID int64) (string, *tgbotapi.InlineKeyboardMarkup, error) {
	if callerID != b.cfg.AdminID {
		return "", nil, storage.ErrNotAuthorized
	}

	filepath, err := b.storage.ExportListsToExcel(ctx)
	if err != nil {
		return "", nil, fmt.Errorf("export lists: %w", err)
	}

	doc := tgbotapi.NewDocument(callerID, tgbotapi.FilePath(filepath))
	if _, err := b.sender.Send(doc); err != nil {
		return "", nil, fmt.Errorf("send document: %w", err)
	}

	return "Export is ready.", nil, nil
}

// isNumeric mirrors the reference's digit check: base-10 digits only, no
// sign, at least one character.
func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
