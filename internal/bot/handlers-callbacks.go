package bot

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// handleGetList answers a list-selection button with the item-removal
// keyboard for that list.
func (b *Bot) handleGetList(ctx context.Context, listName string) (string, *tgbotapi.InlineKeyboardMarkup, error) {
	items, err := b.storage.ListItems(ctx, listName)
	if err != nil {
		return "", nil, err
	}

	keyboard := itemRemovalKeyboard(items)
	return listName + ":", &keyboard, nil
}

// handleDeleteItem deletes the item unconditionally. Anyone who can press
// the button can delete.
func (b *Bot) handleDeleteItem(ctx context.Context, itemName string) (string, *tgbotapi.InlineKeyboardMarkup, error) {
	if err := b.storage.DeleteItem(ctx, itemName); err != nil {
		return "", nil, fmt.Errorf("delete item: %w", err)
	}

	return fmt.Sprintf("%s видалено.", itemName), nil, nil
}
