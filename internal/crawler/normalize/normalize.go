// Package normalize reshapes raw sanctions list rows into entities,
// addresses and sanctions. It does no I/O: the crawl service hands the
// resulting records to the store.
package normalize

import (
	"nsdc/internal/crawler/models"
	"nsdc/internal/crawler/ports"
	pstrings "nsdc/pkg/platform/strings"
)

// Normalizer builds one record per source row.
type Normalizer struct {
	ids       ports.Slugger
	countries ports.CountryLookup
	addresses *AddressResolver
	sanctions *SanctionBuilder
}

func New(dataset models.Dataset, ids ports.Slugger, countries ports.CountryLookup) *Normalizer {
	return &Normalizer{
		ids:       ids,
		countries: countries,
		addresses: NewAddressResolver(countries, ids),
		sanctions: NewSanctionBuilder(dataset, ids),
	}
}

// Person normalizes a row of the physical persons feed.
func (n *Normalizer) Person(row models.Row) (*models.Record, error) {
	entity, err := n.newEntity(models.SchemaPerson, models.FeedPhysical, row)
	if err != nil {
		return nil, err
	}
	addNames(entity, row)

	for citizenship := range pstrings.MultiSplit(row.String(fieldCitizenship), citizenshipDelimiters...) {
		if code, ok := n.countries.Lookup(citizenship); ok {
			entity.Add(models.PropNationality, code)
		}
	}
	entity.Add(models.PropBirthDate, row.String(fieldBirthDate))
	entity.Add(models.PropBirthPlace, row.String(fieldBirthPlace))
	entity.Add(models.PropPosition, row.String(fieldOccupation))

	rec := &models.Record{
		Entity:  entity,
		Options: models.EmitOptions{Target: true},
	}
	if addr := n.addresses.Attach(entity, row.String(fieldLivingPlace)); addr != nil {
		rec.Addresses = append(rec.Addresses, addr)
	}
	rec.Sanction = n.sanctions.Build(entity, row)
	return rec, nil
}

// Organization normalizes a row of the legal entities feed.
func (n *Normalizer) Organization(row models.Row) (*models.Record, error) {
	entity, err := n.newEntity(models.SchemaOrganization, models.FeedLegal, row)
	if err != nil {
		return nil, err
	}
	addNames(entity, row)

	entity.Add(models.PropTaxNumber, CleanTaxNumber(row.String(fieldTaxNumber)))
	entity.Add(models.PropRegistrationNumber, CleanRegistrationNumber(row.String(fieldRegistrationNumber)))

	rec := &models.Record{
		Entity:  entity,
		Options: models.EmitOptions{Target: true, Unique: true},
	}
	for _, field := range []string{fieldPlace, fieldPlaceAlternative} {
		if addr := n.addresses.Attach(entity, row.String(field)); addr != nil {
			rec.Addresses = append(rec.Addresses, addr)
		}
	}
	rec.Sanction = n.sanctions.Build(entity, row)
	return rec, nil
}

// newEntity derives the entity ID from the decree ID and the row index. Both
// are required: without them the row cannot be told apart from the others.
func (n *Normalizer) newEntity(schema models.Schema, feed string, row models.Row) (*models.Entity, error) {
	decreeID, err := row.Required(fieldDecreeID)
	if err != nil {
		return nil, &models.InputError{Feed: feed, Field: fieldDecreeID, Err: models.ErrMissingField}
	}
	index, err := row.Required(fieldIndex)
	if err != nil {
		return nil, &models.InputError{Feed: feed, Field: fieldIndex, Err: models.ErrMissingField}
	}
	id, err := n.ids.MakeSlug(decreeID, index)
	if err != nil {
		return nil, &models.InputError{Feed: feed, Err: err}
	}
	entity := models.NewEntity(schema)
	entity.ID = id
	return entity, nil
}

// addNames copies the name fields both feeds share. The native and original
// spellings are both names; consumers treat name as a set.
func addNames(entity *models.Entity, row models.Row) {
	entity.Add(models.PropName, row.String(fieldNameNative))
	entity.Add(models.PropName, row.String(fieldNameOriginal))
	for alias := range pstrings.MultiSplit(row.String(fieldNameAlternative), aliasDelimiters...) {
		entity.Add(models.PropAlias, alias)
	}
	entity.Add(models.PropNotes, row.String(fieldNotes))
}
