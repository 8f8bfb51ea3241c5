package bot

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"listkeeper-bot/internal/storage"
)

// BOT KEYBOARDS

// One button per row, as the reference renders them.

func listSelectionKeyboard(lists []storage.List) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(lists))
	for _, list := range lists {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				fmt.Sprintf("%s (%d)", list.ListName, list.ID),
				fmt.Sprintf("%s %s", CallbackGet, list.ListName),
			),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func itemRemovalKeyboard(items []storage.Item) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(items))
	for _, item := range items {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				item.ItemName,
				fmt.Sprintf("%s %s", CallbackDelete, item.ItemName),
			),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
