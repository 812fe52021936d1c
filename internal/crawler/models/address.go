package models

// Address is a free-text location with an optionally resolved country code.
// It is not a target of the dataset; entities link to it through
// addressEntity.
type Address struct {
	ID          string
	Full        string
	CountryCode string
}

// Entity renders the address as a supporting record for the store.
func (a *Address) Entity() *Entity {
	e := NewEntity(SchemaAddress)
	e.ID = a.ID
	e.Add(PropFull, a.Full)
	e.Add(PropCountry, a.CountryCode)
	return e
}
