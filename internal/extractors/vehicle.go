package extractors

import (
	"fmt"

	"github.com/custodia-labs/relevance/internal/core/domain"
	"github.com/custodia-labs/relevance/internal/core/ports/driven"
)

var _ driven.ContentExtractor = (*Vehicle)(nil)

// Vehicle extracts hire fleet vehicles that are available.
//
// Attributes: manufacturer, model, type, transmission, fuel_type, seats,
// daily_rate.
type Vehicle struct {
	base
}

// NewVehicle creates a vehicle extractor.
func NewVehicle(priority int) *Vehicle {
	return &Vehicle{base: base{contentType: domain.ContentTypeVehicle, priority: priority}}
}

// IsActive reports whether the vehicle is available for hire.
func (v *Vehicle) IsActive(rec domain.SourceRecord) bool {
	return rec.HasStatus(domain.StatusAvailable)
}

// Title returns the vehicle name.
func (v *Vehicle) Title(rec domain.SourceRecord) string {
	return rec.Title
}

// Body returns the vehicle's specification sheet and description.
func (v *Vehicle) Body(rec domain.SourceRecord) string {
	spec := fmt.Sprintf("Type: %s\nTransmission: %s\nFuel: %s\nSeats: %s\nDaily Rate: £%s",
		rec.Attr("type"), rec.Attr("transmission"), rec.Attr("fuel_type"),
		rec.Attr("seats"), rec.Attr("daily_rate"))

	return lines(
		fmt.Sprintf("%s - %s %s", rec.Title, rec.Attr("manufacturer"), rec.Attr("model")),
		spec,
		rec.Body,
	)
}

// Summary names the vehicle and its type.
func (v *Vehicle) Summary(rec domain.SourceRecord) string {
	return fmt.Sprintf("%s - %s available for hire", rec.Title, rec.Attr("type"))
}

// Keywords returns make, model, type, transmission and fuel.
func (v *Vehicle) Keywords(rec domain.SourceRecord) []string {
	return keywordList(rec.Attr("manufacturer"), rec.Attr("model"), rec.Attr("type"),
		rec.Attr("transmission"), rec.Attr("fuel_type"))
}

// Locate places the vehicle under /vehicles.
func (v *Vehicle) Locate(rec domain.SourceRecord) domain.ContentLocation {
	return domain.ContentLocation{
		Slug:     "vehicle-" + rec.ID,
		URL:      "/vehicles/" + rec.ID,
		Category: "vehicles",
		Tags:     keywordList("vehicle", rec.Attr("type"), rec.Attr("fuel_type")),
	}
}
