package normalize

import (
	"strings"

	"nsdc/internal/crawler/models"
	"nsdc/internal/crawler/ports"
	pstrings "nsdc/pkg/platform/strings"
)

// Resolution is the outcome of resolving one address text.
type Resolution struct {
	// Code is the resolved country, empty on a miss.
	Code    string
	Address *models.Address
}

// AddressResolver turns free-text locations into addresses with a country.
type AddressResolver struct {
	countries ports.CountryLookup
	ids       ports.Slugger
}

func NewAddressResolver(countries ports.CountryLookup, ids ports.Slugger) *AddressResolver {
	return &AddressResolver{countries: countries, ids: ids}
}

// Resolve reads the country from the part of text before the first comma;
// the source writes "country, region, city". The address keeps the full text
// whether or not a country was found. Blank text resolves to nothing.
func (r *AddressResolver) Resolve(text string) (Resolution, bool) {
	if strings.TrimSpace(text) == "" {
		return Resolution{}, false
	}
	candidate := pstrings.CutFirst(text, ",")
	code, ok := r.countries.Lookup(candidate)
	if !ok {
		code = ""
	}
	addr := &models.Address{Full: text, CountryCode: code}
	// The schema name is always a non-empty part, so MakeID cannot fail.
	addr.ID, _ = r.ids.MakeID(string(models.SchemaAddress), text, code)
	return Resolution{Code: code, Address: addr}, true
}

// Attach resolves text and links the address to entity. A resolved code is
// added to the entity's country property next to any existing values.
func (r *AddressResolver) Attach(entity *models.Entity, text string) *models.Address {
	res, ok := r.Resolve(text)
	if !ok {
		return nil
	}
	if res.Code != "" {
		entity.Add(entity.Schema.CountryProperty(), res.Code)
	}
	entity.Add(models.PropAddressEntity, res.Address.ID)
	return res.Address
}
