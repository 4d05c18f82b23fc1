package catalog

import "testing"

func TestNewStore_EntryShape(t *testing.T) {
	s := NewStore()

	e := s.Entry()
	if e.ID == "" || e.Name == "" {
		t.Fatalf("entry missing id or name: %+v", e)
	}
	if len(e.Options) == 0 {
		t.Fatalf("entry has no options")
	}

	seen := map[string]bool{}
	for _, o := range e.Options {
		if o.ID == "" || o.Title == "" {
			t.Errorf("option missing id or title: %+v", o)
		}
		if o.Price <= 0 {
			t.Errorf("option %s has non-positive price %d", o.ID, o.Price)
		}
		if seen[o.ID] {
			t.Errorf("duplicate option id %s", o.ID)
		}
		seen[o.ID] = true
	}
}

func TestFindOption(t *testing.T) {
	s := NewStore()

	o, ok := s.FindOption("d1")
	if !ok {
		t.Fatalf("expected d1 to exist")
	}
	if o.Price != 40000 {
		t.Fatalf("d1 price = %d, want 40000", o.Price)
	}

	if _, ok := s.FindOption("nope"); ok {
		t.Fatalf("expected miss for unknown id")
	}
}

func TestEntryOrderPreserved(t *testing.T) {
	s := NewStoreWith(Entry{
		ID:   "e",
		Name: "E",
		Options: []Option{
			{ID: "b", Title: "B", Price: 2},
			{ID: "a", Title: "A", Price: 1},
		},
	})

	got := s.Entry().Options
	if got[0].ID != "b" || got[1].ID != "a" {
		t.Fatalf("option order not preserved: %+v", got)
	}
}
