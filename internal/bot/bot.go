// Package bot adapts Telegram updates to dispatch intents and renders the
// replies as messages with inline keyboards.
package bot

import (
	"context"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"ShopBot/internal/dispatch"
)

type Bot struct {
	api *tgbotapi.BotAPI
	d   *dispatch.Dispatcher
	log *zap.Logger
}

func New(token string, d *dispatch.Dispatcher, log *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	log.Info("bot authorized", zap.String("username", api.Self.UserName))
	return &Bot{api: api, d: d, log: log}, nil
}

// Run long-polls updates until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = 30

	updates := b.api.GetUpdatesChan(cfg)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return ctx.Err()
		case upd, ok := <-updates:
			if !ok {
				return nil
			}
			b.handleUpdate(ctx, upd)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, upd tgbotapi.Update) {
	switch {
	case upd.Message != nil && upd.Message.IsCommand():
		b.handleCommand(ctx, upd.Message)
	case upd.CallbackQuery != nil:
		b.handleCallback(ctx, upd.CallbackQuery)
	}
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	userID := strconv.FormatInt(msg.From.ID, 10)

	var in dispatch.Intent
	switch msg.Command() {
	case cmdStart:
		in = dispatch.Intent{Kind: dispatch.KindStart, UserID: userID, DisplayName: msg.From.FirstName}
	case cmdProducts:
		in = dispatch.Intent{Kind: dispatch.KindProducts, UserID: userID}
	case cmdBuy:
		in = dispatch.Intent{Kind: dispatch.KindAdd, UserID: userID, Arg: strings.TrimSpace(msg.CommandArguments())}
	case cmdCart:
		in = dispatch.Intent{Kind: dispatch.KindCart, UserID: userID}
	case cmdClear:
		in = dispatch.Intent{Kind: dispatch.KindClear, UserID: userID}
	case cmdCheckout:
		in = dispatch.Intent{Kind: dispatch.KindCheckout, UserID: userID}
	default:
		in = dispatch.Intent{Kind: dispatch.KindHelp, UserID: userID}
	}

	b.send(msg.Chat.ID, b.d.Handle(ctx, in))
}

func (b *Bot) handleCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) {
	// Telegram requires every callback query to be answered or the client
	// keeps its spinner up.
	if _, err := b.api.Request(tgbotapi.NewCallback(cq.ID, "")); err != nil {
		b.log.Warn("answer callback failed", zap.Error(err))
	}
	if cq.Message == nil {
		return
	}

	userID := strconv.FormatInt(cq.From.ID, 10)
	in := intentForCallback(userID, cq.Data)

	b.send(cq.Message.Chat.ID, b.d.Handle(ctx, in))
}

func intentForCallback(userID, data string) dispatch.Intent {
	if opt, ok := strings.CutPrefix(data, dispatch.DataAddPrefix); ok {
		return dispatch.Intent{Kind: dispatch.KindAdd, UserID: userID, Arg: opt}
	}

	switch data {
	case dispatch.DataProducts:
		return dispatch.Intent{Kind: dispatch.KindProducts, UserID: userID}
	case dispatch.DataCart:
		return dispatch.Intent{Kind: dispatch.KindCart, UserID: userID}
	case dispatch.DataClear:
		return dispatch.Intent{Kind: dispatch.KindClear, UserID: userID}
	case dispatch.DataCheckout:
		return dispatch.Intent{Kind: dispatch.KindCheckout, UserID: userID}
	default:
		return dispatch.Intent{Kind: dispatch.KindHelp, UserID: userID}
	}
}

func (b *Bot) send(chatID int64, r dispatch.Reply) {
	msg := tgbotapi.NewMessage(chatID, r.Text)
	if kb, ok := keyboard(r.Buttons); ok {
		msg.ReplyMarkup = kb
	}

	if _, err := b.api.Send(msg); err != nil {
		b.log.Error("send failed", zap.Error(err), zap.Int64("chat_id", chatID))
	}
}

// keyboard lays buttons out one per row; labels are long enough that
// side-by-side placement truncates them on small screens.
func keyboard(buttons []dispatch.Button) (tgbotapi.InlineKeyboardMarkup, bool) {
	if len(buttons) == 0 {
		return tgbotapi.InlineKeyboardMarkup{}, false
	}

	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(buttons))
	for _, btn := range buttons {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(btn.Label, btn.Data),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...), true
}
