package telegram

import "moexbot/internal/dialog"

// Keyboard markup payloads, serialized straight into reply_markup.

type replyKeyboard struct {
	Keyboard       [][]keyButton `json:"keyboard"`
	ResizeKeyboard bool          `json:"resize_keyboard"`
}

type keyButton struct {
	Text string `json:"text"`
}

type inlineKeyboard struct {
	InlineKeyboard [][]inlineButton `json:"inline_keyboard"`
}

type inlineButton struct {
	Text         string `json:"text"`
	CallbackData string `json:"callback_data"`
}

// mainMenu is the persistent reply keyboard with one button per action.
func mainMenu() replyKeyboard {
	return replyKeyboard{
		Keyboard: [][]keyButton{
			{{Text: dialog.TriggerCheckStock}, {Text: dialog.TriggerAddStock}},
			{{Text: dialog.TriggerConvert}, {Text: dialog.TriggerPortfolio}},
		},
		ResizeKeyboard: true,
	}
}

// confirmKeyboard is the yes/no inline keyboard for the purchase
// confirmation step.
func confirmKeyboard() inlineKeyboard {
	return inlineKeyboard{
		InlineKeyboard: [][]inlineButton{
			{
				{Text: "Да", CallbackData: dialog.CallbackConfirmYes},
				{Text: "Нет", CallbackData: dialog.CallbackConfirmNo},
			},
		},
	}
}

// markupFor picks the reply markup a dialog reply asked for.
func markupFor(r dialog.Reply) any {
	switch {
	case r.AskConfirm:
		return confirmKeyboard()
	case r.ShowMenu:
		return mainMenu()
	default:
		return nil
	}
}
