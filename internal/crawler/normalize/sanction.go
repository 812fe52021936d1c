package normalize

import (
	"nsdc/internal/crawler/models"
	"nsdc/internal/crawler/ports"
)

// SanctionBuilder maps a row's restriction fields onto a sanction of the
// row's entity.
type SanctionBuilder struct {
	dataset models.Dataset
	ids     ports.Slugger
}

func NewSanctionBuilder(dataset models.Dataset, ids ports.Slugger) *SanctionBuilder {
	return &SanctionBuilder{dataset: dataset, ids: ids}
}

// Build never fails: absent fields stay empty and dates are copied as
// published.
func (b *SanctionBuilder) Build(entity *models.Entity, row models.Row) *models.Sanction {
	s := &models.Sanction{
		EntityID:  entity.ID,
		Status:    row.String(fieldAction),
		Summary:   row.String(fieldRestrictionPeriod),
		Program:   row.String(fieldRestrictionType),
		StartDate: row.String(fieldDecreeDate),
		EndDate:   row.String(fieldRestrictionEndDate),
		Authority: b.dataset.Publisher,
		Country:   b.dataset.PublisherCountry,
		SourceURL: b.dataset.URL,
	}
	s.ID, _ = b.ids.MakeID(string(models.SchemaSanction), entity.ID)
	return s
}
