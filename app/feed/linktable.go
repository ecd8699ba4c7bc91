package feed

// LinkTable is the ordered registry of all media references discovered in a
// single item. It is append-only: an index equals insertion order and is
// never reused or reordered, because placeholder tokens in the rewritten
// description embed the index at append time.
type LinkTable struct {
	links []Link
}

func NewLinkTable() *LinkTable {
	return &LinkTable{}
}

// Append stores the descriptor and returns the index assigned to it.
func (t *LinkTable) Append(link Link) int {
	t.links = append(t.links, link)
	return len(t.links) - 1
}

// Get returns the descriptor at the given index.
func (t *LinkTable) Get(index int) Link {
	return t.links[index]
}

// All returns the descriptors in insertion order.
func (t *LinkTable) All() []Link {
	return t.links
}

func (t *LinkTable) Len() int {
	return len(t.links)
}
