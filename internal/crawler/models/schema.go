package models

import "slices"

// Schema is the entity type of an emitted record.
type Schema string

const (
	SchemaPerson       Schema = "Person"
	SchemaOrganization Schema = "Organization"
	SchemaAddress      Schema = "Address"
	SchemaSanction     Schema = "Sanction"
)

// Property names a multi-valued field of an entity.
type Property string

const (
	PropName               Property = "name"
	PropAlias              Property = "alias"
	PropNotes              Property = "notes"
	PropNationality        Property = "nationality"
	PropCountry            Property = "country"
	PropBirthDate          Property = "birthDate"
	PropBirthPlace         Property = "birthPlace"
	PropPosition           Property = "position"
	PropTaxNumber          Property = "taxNumber"
	PropRegistrationNumber Property = "registrationNumber"
	PropAddressEntity      Property = "addressEntity"
	PropFull               Property = "full"
	PropEntity             Property = "entity"
	PropStatus             Property = "status"
	PropSummary            Property = "summary"
	PropProgram            Property = "program"
	PropStartDate          Property = "startDate"
	PropEndDate            Property = "endDate"
	PropAuthority          Property = "authority"
	PropSourceURL          Property = "sourceUrl"
)

// schemaProperties lists the properties each schema accepts, in the order
// they are serialized.
var schemaProperties = map[Schema][]Property{
	SchemaPerson: {
		PropName, PropAlias, PropNotes, PropNationality, PropCountry,
		PropBirthDate, PropBirthPlace, PropPosition, PropAddressEntity,
	},
	SchemaOrganization: {
		PropName, PropAlias, PropNotes, PropCountry,
		PropTaxNumber, PropRegistrationNumber, PropAddressEntity,
	},
	SchemaAddress: {
		PropFull, PropCountry,
	},
	SchemaSanction: {
		PropEntity, PropStatus, PropSummary, PropProgram, PropStartDate,
		PropEndDate, PropAuthority, PropCountry, PropSourceURL,
	},
}

// Properties returns the accepted properties of the schema.
func (s Schema) Properties() []Property {
	return slices.Clone(schemaProperties[s])
}

// HasProperty reports whether prop is valid for the schema.
func (s Schema) HasProperty(prop Property) bool {
	return slices.Contains(schemaProperties[s], prop)
}

// IsValid reports whether s is a known schema.
func (s Schema) IsValid() bool {
	_, ok := schemaProperties[s]
	return ok
}

// CountryProperty is the property that receives a country code resolved from
// an address: people carry it as a nationality, everything else as a country.
func (s Schema) CountryProperty() Property {
	if s == SchemaPerson {
		return PropNationality
	}
	return PropCountry
}

func (s Schema) String() string {
	return string(s)
}
