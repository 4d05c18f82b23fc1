package dispatch

import (
	"fmt"
	"strings"

	"ShopBot/internal/cart"
	"ShopBot/internal/catalog"
)

// Callback data understood back from the transport's buttons.
const (
	DataProducts  = "products"
	DataCart      = "cart"
	DataClear     = "clear"
	DataCheckout  = "checkout"
	DataHelp      = "help"
	DataAddPrefix = "add:"
)

func startReply(name string, e catalog.Entry) Reply {
	greeting := "Hi there!"
	if name != "" {
		greeting = "Hi " + name + "!"
	}

	return Reply{
		Text: greeting + " Welcome to the " + e.Name + " shop.\n" +
			"Tap Shop to see what's available, or Help if you get stuck.",
		Buttons: []Button{
			{Label: "Shop", Data: DataProducts},
			{Label: "Help", Data: DataHelp},
		},
	}
}

func productsReply(e catalog.Entry) Reply {
	var b strings.Builder
	b.WriteString(e.Name)
	b.WriteString("\n\n")
	for _, o := range e.Options {
		fmt.Fprintf(&b, "- %s — %s\n", o.Title, formatPrice(o.Price))
	}
	b.WriteString("\nTap an option to add it to your cart.")

	buttons := make([]Button, 0, len(e.Options)+1)
	for _, o := range e.Options {
		buttons = append(buttons, Button{Label: "Add " + o.Title, Data: DataAddPrefix + o.ID})
	}
	buttons = append(buttons, Button{Label: "View cart", Data: DataCart})

	return Reply{Text: b.String(), Buttons: buttons}
}

func addedReply(o catalog.Option) Reply {
	return Reply{
		Text: fmt.Sprintf("Added %s to your cart.", o.Title),
		Buttons: []Button{
			{Label: "View cart", Data: DataCart},
			{Label: "Checkout", Data: DataCheckout},
		},
	}
}

func optionNotFoundReply() Reply {
	return Reply{
		Text:    "That option is not available. Tap Shop to see what is.",
		Buttons: []Button{{Label: "Shop", Data: DataProducts}},
	}
}

func cartReply(s cart.Summary) Reply {
	if len(s.Lines) == 0 {
		return emptyCartReply()
	}

	var b strings.Builder
	b.WriteString("Your cart:\n\n")
	for _, l := range s.Lines {
		if l.Missing {
			fmt.Fprintf(&b, "%s x%d — unavailable\n", l.Title, l.Qty)
			continue
		}
		fmt.Fprintf(&b, "%s x%d — %s\n", l.Title, l.Qty, formatPrice(l.LineTotal))
	}
	fmt.Fprintf(&b, "\nTotal: %s", formatPrice(s.Total))

	return Reply{
		Text: b.String(),
		Buttons: []Button{
			{Label: "Checkout", Data: DataCheckout},
			{Label: "Clear cart", Data: DataClear},
		},
	}
}

func emptyCartReply() Reply {
	return Reply{
		Text:    "Your cart is empty.",
		Buttons: []Button{{Label: "Shop", Data: DataProducts}},
	}
}

func clearedReply() Reply {
	return Reply{
		Text:    "Your cart has been cleared.",
		Buttons: []Button{{Label: "Shop", Data: DataProducts}},
	}
}

func receiptReply(r cart.Receipt) Reply {
	return Reply{
		Text: fmt.Sprintf("Order %s confirmed!\nTotal: %s\n\n"+
			"Our team will contact you about payment and delivery.",
			r.OrderID, formatPrice(r.Total)),
	}
}

func helpReply() Reply {
	return Reply{
		Text: "How to shop:\n\n" +
			"/products — browse the catalog\n" +
			"/cart — view your cart\n" +
			"/checkout — place your order\n" +
			"/clear — empty your cart\n\n" +
			"Tap the buttons under any message to do the same thing.",
	}
}

func failureReply() Reply {
	return Reply{Text: "Something went wrong on our side. Please try again."}
}

// formatPrice renders minor currency units as a decimal string, integer math
// only.
func formatPrice(p int64) string {
	return fmt.Sprintf("%d.%02d", p/100, p%100)
}
