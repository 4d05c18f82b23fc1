package bot

// Bot commands. Telegram strips the leading slash before Command() returns.
const (
	cmdStart    = "start"
	cmdProducts = "products"
	cmdBuy      = "buy"
	cmdCart     = "cart"
	cmdClear    = "clear"
	cmdCheckout = "checkout"
	cmdHelp     = "help"
)
