package extractors

import (
	"fmt"

	"github.com/custodia-labs/relevance/internal/core/domain"
	"github.com/custodia-labs/relevance/internal/core/ports/driven"
)

var _ driven.ContentExtractor = (*CarSale)(nil)

// CarSale extracts published car sales listings.
//
// Attributes: year, make, model, registration, price, mileage, fuel_type,
// transmission, color, condition, location, features (comma separated).
type CarSale struct {
	base
}

// NewCarSale creates a car sales listing extractor.
func NewCarSale(priority int) *CarSale {
	return &CarSale{base: base{contentType: domain.ContentTypeCarSale, priority: priority}}
}

// IsActive reports whether the listing is published.
func (c *CarSale) IsActive(rec domain.SourceRecord) bool {
	return rec.HasStatus(domain.StatusPublished)
}

// Title returns "year make model".
func (c *CarSale) Title(rec domain.SourceRecord) string {
	return fmt.Sprintf("%s %s %s", rec.Attr("year"), rec.Attr("make"), rec.Attr("model"))
}

// Body returns the listing details, description and features.
func (c *CarSale) Body(rec domain.SourceRecord) string {
	details := fmt.Sprintf(
		"Registration: %s\nPrice: £%s\nMileage: %s miles\nFuel Type: %s\nTransmission: %s\nColor: %s\nCondition: %s\nLocation: %s",
		rec.Attr("registration"), rec.Attr("price"), groupThousands(rec.AttrInt("mileage")),
		rec.Attr("fuel_type"), rec.Attr("transmission"), rec.Attr("color"),
		rec.Attr("condition"), rec.AttrOr("location", "UK-wide"))

	features := "Standard features"
	if list := domain.SplitList(rec.Attr("features")); len(list) > 0 {
		features = domain.JoinList(list...)
	}

	return lines(
		c.Title(rec)+" - For Sale",
		details,
		rec.Body,
		"Features: "+features,
	)
}

// Summary returns title, price and mileage.
func (c *CarSale) Summary(rec domain.SourceRecord) string {
	return fmt.Sprintf("%s - £%s - %s miles", c.Title(rec), rec.Attr("price"), groupThousands(rec.AttrInt("mileage")))
}

// Keywords returns make, model and buying vocabulary.
func (c *CarSale) Keywords(rec domain.SourceRecord) []string {
	return keywordList(rec.Attr("make"), rec.Attr("model"), "car sale", "buy car", "purchase vehicle",
		rec.Attr("fuel_type"), rec.Attr("transmission"))
}

// Locate points every listing at the car sales page.
func (c *CarSale) Locate(rec domain.SourceRecord) domain.ContentLocation {
	return domain.ContentLocation{
		Slug:     "car-sale-" + rec.ID,
		URL:      "/car-sales",
		Category: "car_sales",
		Tags:     keywordList("car sale", "buy car", rec.Attr("make"), rec.Attr("model"), rec.Attr("fuel_type")),
	}
}
