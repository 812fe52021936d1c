package normalize

import (
	"slices"
	"strings"
)

// Source field names. Both feeds share the identifier, name and restriction
// fields; the rest are feed specific.
const (
	fieldDecreeID        = "ukaz_id"
	fieldIndex           = "index"
	fieldNameNative      = "name_ukr"
	fieldNameOriginal    = "name_original"
	fieldNameAlternative = "name_alternative"
	fieldNotes           = "additional"

	fieldCitizenship = "citizenship"
	fieldBirthDate   = "birthdate"
	fieldBirthPlace  = "birthplace"
	fieldOccupation  = "occupation"
	fieldLivingPlace = "livingplace"

	fieldTaxNumber          = "ipn"
	fieldRegistrationNumber = "odrn_edrpou"
	fieldPlace              = "place"
	fieldPlaceAlternative   = "place_alternative"

	fieldAction             = "action"
	fieldRestrictionPeriod  = "restriction_period"
	fieldRestrictionType    = "restriction_type"
	fieldDecreeDate         = "ukaz_date"
	fieldRestrictionEndDate = "restriction_end_date"
)

// Labels the source prefixes registry numbers with.
const (
	taxNumberLabel          = "ІПН"
	registrationNumberLabel = "ОДРН"
)

var (
	aliasDelimiters       = []string{";", "/"}
	citizenshipDelimiters = []string{", "}
)

var commonFields = []string{
	fieldDecreeID, fieldIndex, fieldNameNative, fieldNameOriginal,
	fieldNameAlternative, fieldNotes,
	fieldAction, fieldRestrictionPeriod, fieldRestrictionType,
	fieldDecreeDate, fieldRestrictionEndDate,
}

// PersonFields lists every key the person pipeline reads.
var PersonFields = append(slices.Clone(commonFields),
	fieldCitizenship, fieldBirthDate, fieldBirthPlace, fieldOccupation, fieldLivingPlace,
)

// OrganizationFields lists every key the legal entity pipeline reads.
var OrganizationFields = append(slices.Clone(commonFields),
	fieldTaxNumber, fieldRegistrationNumber, fieldPlace, fieldPlaceAlternative,
)

// Unconsumed returns the keys of a row outside fields; they are dropped.
func Unconsumed(keys, fields []string) []string {
	var out []string
	for _, k := range keys {
		if !slices.Contains(fields, k) {
			out = append(out, k)
		}
	}
	return out
}

// StripLabel removes every occurrence of label from value and trims the
// result. An absent value comes out as "".
func StripLabel(value, label string) string {
	return strings.TrimSpace(strings.ReplaceAll(value, label, ""))
}

// CleanTaxNumber strips the "ІПН" label from a taxpayer number.
func CleanTaxNumber(value string) string {
	return StripLabel(value, taxNumberLabel)
}

// CleanRegistrationNumber strips the "ОДРН" label from a registration number.
func CleanRegistrationNumber(value string) string {
	return StripLabel(value, registrationNumberLabel)
}
