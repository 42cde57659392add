package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/relevance/internal/core/domain"
)

func TestExtractContactInfo(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    domain.ContactInfo
	}{
		{
			name:    "full introduction",
			message: "Hi, my name is Sarah Jones, email sarah.jones@example.co.uk or call 07700 900123",
			want:    domain.ContactInfo{Name: "Sarah Jones", Email: "sarah.jones@example.co.uk", Phone: "07700900123"},
		},
		{
			name:    "international phone with punctuation",
			message: "Reach me on +44 (0)20-7946-0958 please",
			want:    domain.ContactInfo{Phone: "+440207946095"},
		},
		{
			name:    "introduction trimmed at a common word",
			message: "my name is ahmed and I had an accident",
			want:    domain.ContactInfo{Name: "ahmed"},
		},
		{
			name:    "casual introduction",
			message: "I'm Priya",
			want:    domain.ContactInfo{Name: "Priya"},
		},
		{
			name:    "common words are not names",
			message: "I am looking for a car",
			want:    domain.ContactInfo{},
		},
		{
			name:    "capitalised full name fallback",
			message: "Booking for Tom Baker tomorrow",
			want:    domain.ContactInfo{Name: "Tom Baker"},
		},
		{
			name:    "nothing to extract",
			message: "do you have any vans?",
			want:    domain.ContactInfo{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractContactInfo(tt.message))
		})
	}
}

func TestContactInfo_IsLead(t *testing.T) {
	assert.True(t, ExtractContactInfo("my name is Sarah, sarah@example.com").IsLead())
	assert.False(t, ExtractContactInfo("sarah@example.com 07700900123").IsLead())
	assert.False(t, ExtractContactInfo("my name is Sarah").IsLead())
}
