package models

// Record is everything one source row produces, in emission order:
// addresses, then the sanction, then the entity itself.
type Record struct {
	Entity    *Entity
	Addresses []*Address
	Sanction  *Sanction
	Options   EmitOptions
}

// EmitOptions qualifies an emitted entity.
type EmitOptions struct {
	// Target marks a primary record of the dataset, as opposed to the
	// addresses and sanctions that support it.
	Target bool
	// Unique asks the store to treat the ID as one logical record: a later
	// emission replaces the earlier one instead of merging into it.
	Unique bool
}
