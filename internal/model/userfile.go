package model

// Tag identifies the record kind of a user-file line.
type Tag string

const (
	TagAccount   Tag = "C"
	TagOperation Tag = "O"
	TagBudget    Tag = "B"
)

// Valid reports whether t is one of the known tags.
func (t Tag) Valid() bool {
	switch t {
	case TagAccount, TagOperation, TagBudget:
		return true
	}
	return false
}

// Line records the tag of each record in file order. Index points into the
// slice for that tag.
type Line struct {
	Tag   Tag
	Index int
}

// UserFile holds every record of one user file.
type UserFile struct {
	Accounts   []Account
	Operations []Operation
	Budgets    []Budget

	// AccountRun is the number of accounts in the contiguous run of `C`
	// lines at the start of the file.
	AccountRun int

	// Lines preserves the interleaving of the file that was read. When it
	// does not match the slices one to one, writers emit accounts, then
	// operations, then budgets.
	Lines []Line
}

// Order returns the line order to write, falling back to grouped order.
func (f *UserFile) Order() []Line {
	if f.linesMatch() {
		return f.Lines
	}
	lines := make([]Line, 0, len(f.Accounts)+len(f.Operations)+len(f.Budgets))
	for i := range f.Accounts {
		lines = append(lines, Line{Tag: TagAccount, Index: i})
	}
	for i := range f.Operations {
		lines = append(lines, Line{Tag: TagOperation, Index: i})
	}
	for i := range f.Budgets {
		lines = append(lines, Line{Tag: TagBudget, Index: i})
	}
	return lines
}

// linesMatch reports whether Lines names every record exactly once.
func (f *UserFile) linesMatch() bool {
	sizes := map[Tag]int{
		TagAccount:   len(f.Accounts),
		TagOperation: len(f.Operations),
		TagBudget:    len(f.Budgets),
	}
	if len(f.Lines) != sizes[TagAccount]+sizes[TagOperation]+sizes[TagBudget] {
		return false
	}
	seen := make(map[Line]bool, len(f.Lines))
	for _, l := range f.Lines {
		n, ok := sizes[l.Tag]
		if !ok || l.Index < 0 || l.Index >= n || seen[l] {
			return false
		}
		seen[l] = true
	}
	return true
}
