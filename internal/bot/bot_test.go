package bot

import (
	"testing"

	"ShopBot/internal/dispatch"
)

func TestIntentForCallback(t *testing.T) {
	cases := []struct {
		data     string
		wantKind dispatch.Kind
		wantArg  string
	}{
		{"add:d1", dispatch.KindAdd, "d1"},
		{"add:d12", dispatch.KindAdd, "d12"},
		{"products", dispatch.KindProducts, ""},
		{"cart", dispatch.KindCart, ""},
		{"clear", dispatch.KindClear, ""},
		{"checkout", dispatch.KindCheckout, ""},
		{"garbage", dispatch.KindHelp, ""},
	}

	for _, tc := range cases {
		in := intentForCallback("42", tc.data)
		if in.Kind != tc.wantKind || in.Arg != tc.wantArg {
			t.Errorf("intentForCallback(%q) = %v/%q, want %v/%q",
				tc.data, in.Kind, in.Arg, tc.wantKind, tc.wantArg)
		}
		if in.UserID != "42" {
			t.Errorf("intentForCallback(%q) dropped user id", tc.data)
		}
	}
}

func TestKeyboard(t *testing.T) {
	if _, ok := keyboard(nil); ok {
		t.Fatalf("expected no keyboard for zero buttons")
	}

	kb, ok := keyboard([]dispatch.Button{
		{Label: "Shop", Data: "products"},
		{Label: "Help", Data: "help"},
	})
	if !ok {
		t.Fatalf("expected a keyboard")
	}
	if len(kb.InlineKeyboard) != 2 {
		t.Fatalf("rows = %d, want 2", len(kb.InlineKeyboard))
	}
	if got := kb.InlineKeyboard[0][0].Text; got != "Shop" {
		t.Fatalf("first button label = %q", got)
	}
}
