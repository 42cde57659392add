package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSourceRecord_Attr(t *testing.T) {
	rec := SourceRecord{Attributes: map[string]string{
		"manufacturer": "  Toyota ",
		"mileage":      "45,000",
		"year":         "twenty",
	}}

	assert.Equal(t, "Toyota", rec.Attr("manufacturer"))
	assert.Equal(t, "", rec.Attr("model"))
	assert.Equal(t, "Prius", rec.AttrOr("model", "Prius"))
	assert.Equal(t, "Toyota", rec.AttrOr("manufacturer", "Unknown"))

	assert.Equal(t, 45000, rec.AttrInt("mileage"))
	assert.Equal(t, 0, rec.AttrInt("year"))
	assert.Equal(t, 0, rec.AttrInt("missing"))
}

func TestSourceRecord_AttrNilMap(t *testing.T) {
	var rec SourceRecord
	assert.Equal(t, "", rec.Attr("anything"))
	assert.Equal(t, 0, rec.AttrInt("anything"))
}

func TestSourceRecord_HasStatus(t *testing.T) {
	rec := SourceRecord{Status: " Published "}

	assert.True(t, rec.HasStatus(StatusPublished))
	assert.False(t, rec.HasStatus(StatusDraft))
	assert.False(t, SourceRecord{}.HasStatus(StatusPublished))
}
