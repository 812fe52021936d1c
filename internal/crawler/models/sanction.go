package models

// Sanction records the restriction a row imposes on its entity. Fields the
// source left empty stay empty; dates are kept as published.
type Sanction struct {
	ID        string
	EntityID  string
	Status    string
	Summary   string
	Program   string
	StartDate string
	EndDate   string
	Authority string
	Country   string
	SourceURL string
}

// Entity renders the sanction as a supporting record for the store.
func (s *Sanction) Entity() *Entity {
	e := NewEntity(SchemaSanction)
	e.ID = s.ID
	e.Add(PropEntity, s.EntityID)
	e.Add(PropStatus, s.Status)
	e.Add(PropSummary, s.Summary)
	e.Add(PropProgram, s.Program)
	e.Add(PropStartDate, s.StartDate)
	e.Add(PropEndDate, s.EndDate)
	e.Add(PropAuthority, s.Authority)
	e.Add(PropCountry, s.Country)
	e.Add(PropSourceURL, s.SourceURL)
	return e
}
