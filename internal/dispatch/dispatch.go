// Package dispatch turns transport-agnostic intents into replies. The chat
// transport (Telegram, HTTP, a test) only delivers intents and renders the
// text plus choice buttons it gets back; user-facing failures like an
// unknown option are reply text here, never errors.
package dispatch

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"ShopBot/internal/cart"
	"ShopBot/internal/catalog"
)

type Kind string

const (
	KindStart    Kind = "start"
	KindProducts Kind = "products"
	KindAdd      Kind = "add"
	KindCart     Kind = "cart"
	KindClear    Kind = "clear"
	KindCheckout Kind = "checkout"
	KindHelp     Kind = "help"
)

// Intent is one discrete user action. Arg carries the option id for add
// intents; DisplayName is only used by the start greeting.
type Intent struct {
	Kind        Kind
	UserID      string
	Arg         string
	DisplayName string
}

type Button struct {
	Label string
	Data  string
}

type Reply struct {
	Text    string
	Buttons []Button
}

type Dispatcher struct {
	Catalog *catalog.Store
	Carts   *cart.Store
	Log     *zap.Logger
}

func (d *Dispatcher) Handle(ctx context.Context, in Intent) Reply {
	switch in.Kind {
	case KindStart:
		return startReply(in.DisplayName, d.Catalog.Entry())
	case KindProducts:
		return productsReply(d.Catalog.Entry())
	case KindAdd:
		return d.add(ctx, in)
	case KindCart:
		return cartReply(d.Carts.Summary(in.UserID))
	case KindClear:
		return d.clear(ctx, in)
	case KindCheckout:
		return d.checkout(ctx, in)
	case KindHelp:
		return helpReply()
	default:
		return helpReply()
	}
}

func (d *Dispatcher) add(ctx context.Context, in Intent) Reply {
	_, err := d.Carts.AddItem(ctx, in.UserID, in.Arg)
	if errors.Is(err, cart.ErrOptionNotFound) {
		return optionNotFoundReply()
	}
	if err != nil {
		return d.failure("add item failed", err, in)
	}

	opt, _ := d.Catalog.FindOption(in.Arg)
	return addedReply(opt)
}

func (d *Dispatcher) clear(ctx context.Context, in Intent) Reply {
	if err := d.Carts.Clear(ctx, in.UserID); err != nil {
		return d.failure("clear cart failed", err, in)
	}
	return clearedReply()
}

func (d *Dispatcher) checkout(ctx context.Context, in Intent) Reply {
	rcpt, err := d.Carts.Checkout(ctx, in.UserID)
	if errors.Is(err, cart.ErrEmptyCart) {
		return emptyCartReply()
	}
	if err != nil {
		return d.failure("checkout failed", err, in)
	}
	return receiptReply(rcpt)
}

func (d *Dispatcher) failure(msg string, err error, in Intent) Reply {
	if d.Log != nil {
		d.Log.Error(msg, zap.Error(err),
			zap.String("user_id", in.UserID), zap.String("kind", string(in.Kind)))
	}
	return failureReply()
}
