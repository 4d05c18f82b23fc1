package catalog

// Option is one priced purchase choice within an entry. Prices are minor
// currency units (minor units everywhere, never floats).
type Option struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Price int64  `json:"price"`
}

// Entry is a purchasable product with its ordered price tiers. Entries are
// compiled into the binary and never mutated at runtime.
type Entry struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Options []Option `json:"options"`
}

type Store struct {
	entry Entry
	byID  map[string]Option
}

// NewStore returns the built-in catalog: one subscription product with three
// duration tiers.
func NewStore() *Store {
	return NewStoreWith(Entry{
		ID:   "premium",
		Name: "Premium Subscription",
		Options: []Option{
			{ID: "d1", Title: "1 month", Price: 40000},
			{ID: "d3", Title: "3 months", Price: 80000},
			{ID: "d12", Title: "12 months", Price: 150000},
		},
	})
}

func NewStoreWith(e Entry) *Store {
	s := &Store{entry: e, byID: make(map[string]Option, len(e.Options))}
	for _, o := range e.Options {
		s.byID[o.ID] = o
	}
	return s
}

func (s *Store) Entry() Entry {
	return s.entry
}

// FindOption reports the option for id. A miss is a normal lookup result,
// not an error.
func (s *Store) FindOption(id string) (Option, bool) {
	o, ok := s.byID[id]
	return o, ok
}
