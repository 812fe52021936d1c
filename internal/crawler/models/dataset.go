package models

// Dataset describes the published source the crawler reads.
type Dataset struct {
	Name             string
	Prefix           string
	Title            string
	Publisher        string
	PublisherCountry string
	URL              string
}

// Feed is one JSON endpoint of the dataset.
type Feed struct {
	Name string
	URL  string
}

const (
	FeedPhysical = "physical"
	FeedLegal    = "legal"

	// SourceTitle labels exported source resources.
	SourceTitle = "Source data"

	MimeJSON = "application/json"
)

// NSDCDataset is the Ukrainian National Security and Defense Council
// sanctions list.
func NSDCDataset() Dataset {
	return Dataset{
		Name:             "ua_nsdc_sanctions",
		Prefix:           "ua-nsdc",
		Title:            "Ukraine NSDC State Register of Sanctions",
		Publisher:        "National Security and Defense Council",
		PublisherCountry: "UA",
		URL:              "https://drs.nsdc.gov.ua/",
	}
}
