package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/relevance/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/relevance/internal/core/domain"
	"github.com/custodia-labs/relevance/internal/core/ports/driving"
)

// --- Mock implementations for orchestrator testing ---

// stubSearch returns canned results for both ranking paths.
type stubSearch struct {
	mu         sync.Mutex
	results    []domain.SearchResult
	err        error
	keyword    []domain.SearchResult
	keywordErr error
	searches   int
	fallbacks  int
}

var _ driving.SearchService = (*stubSearch)(nil)

func (s *stubSearch) Search(context.Context, string, domain.SearchOptions) ([]domain.SearchResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.searches++
	return s.results, s.err
}

func (s *stubSearch) SearchWithFallback(context.Context, string, domain.SearchOptions) []domain.FormattedResult {
	return nil
}

func (s *stubSearch) KeywordSearch(context.Context, string, domain.SearchOptions) ([]domain.SearchResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fallbacks++
	return s.keyword, s.keywordErr
}

// --- Helpers ---

func newSectionManager(t *testing.T, sections ...domain.ContextSection) *ContextManager {
	t.Helper()
	m := NewContextManager(memory.NewContextStore(), nil, domain.DefaultSettings().Context)
	for _, s := range sections {
		s.IsActive = true
		require.NoError(t, m.Save(context.Background(), s))
	}
	return m
}

func standardSections(t *testing.T) *ContextManager {
	return newSectionManager(t,
		domain.ContextSection{Section: domain.SectionIntro, Content: "INTRO"},
		domain.ContextSection{Section: domain.SectionServices, Content: "SERVICES"},
		domain.ContextSection{Section: domain.SectionPricing, Content: "PRICING"},
		domain.ContextSection{Section: domain.SectionContact, Content: "CONTACT"},
	)
}

func searchHit(title, summary, url string) domain.SearchResult {
	return domain.SearchResult{
		Content: domain.IndexedContent{Title: title, Summary: summary, URL: url},
		Score:   1,
	}
}

func newTestOrchestrator(search driving.SearchService, contexts driving.ContextService) (*Orchestrator, *recordingTelemetry) {
	telemetry := newRecordingTelemetry()
	return NewOrchestrator(search, contexts, domain.DefaultSettings().Orchestrator, telemetry), telemetry
}

// ==================== Orchestrator Tests ====================

func TestOrchestrator_NoDataFallsBack(t *testing.T) {
	o, _ := newTestOrchestrator(&stubSearch{}, newSectionManager(t))

	result := o.Explain(context.Background(), "hello")
	assert.Equal(t, domain.TierFallback, result.Tier)
	assert.Equal(t, domain.DefaultFallbackContext, result.Context)
	assert.NotEmpty(t, o.BuildContext(context.Background(), ""))
}

func TestOrchestrator_CustomFallback(t *testing.T) {
	settings := domain.DefaultSettings().Orchestrator
	settings.FallbackContext = "We hire cars."
	o := NewOrchestrator(&stubSearch{}, newSectionManager(t), settings, nil)

	assert.Equal(t, "We hire cars.", o.BuildContext(context.Background(), "hello"))
}

func TestOrchestrator_SearchTier(t *testing.T) {
	long := strings.Repeat("x", 600)
	search := &stubSearch{results: []domain.SearchResult{
		searchHit("PCO Replacement", long, "/services/pco"),
		searchHit("PCO Replacement", "duplicate", "/services/pco-2"),
		searchHit("Accident Claims", long, "/services/claims"),
	}}
	o, _ := newTestOrchestrator(search, standardSections(t))

	got := o.Explain(context.Background(), "what is the price of pco replacement")
	assert.Equal(t, domain.TierSearch, got.Tier)
	assert.Empty(t, got.Section)

	assert.True(t, strings.HasPrefix(got.Context,
		"\nBased on your question about: \"what is the price of pco replacement\"\n\nHere is the most relevant information from our website:\n"))
	assert.True(t, strings.HasSuffix(got.Context, "\n\nThis information is current as of our last content update.\n"))
	assert.Contains(t, got.Context, "\n**PCO Replacement**\n\n"+long+"\n\nSource: /services/pco\n---\n")
	assert.Contains(t, got.Context, "**Accident Claims**")
	assert.Equal(t, 1, strings.Count(got.Context, "**PCO Replacement**"))
	assert.NotContains(t, got.Context, "duplicate")
}

func TestOrchestrator_CombineExcerptAndEcho(t *testing.T) {
	o, _ := newTestOrchestrator(&stubSearch{}, newSectionManager(t))
	message := strings.Repeat("a", 150)
	body := strings.Repeat("b", 700)

	combined := o.combine([]domain.SearchResult{{
		Content: domain.IndexedContent{Title: "T", ContentText: body, URL: "/t"},
	}}, message)

	assert.Contains(t, combined, "\""+strings.Repeat("a", 100)+"...\"")
	assert.NotContains(t, combined, strings.Repeat("a", 101))
	assert.Contains(t, combined, strings.Repeat("b", 500)+"\n\nSource: /t")
	assert.NotContains(t, combined, strings.Repeat("b", 501))

	assert.Empty(t, o.combine(nil, message))
}

func TestOrchestrator_ShortSearchFallsThroughToTopic(t *testing.T) {
	search := &stubSearch{results: []domain.SearchResult{searchHit("Prices", "short", "/pricing")}}
	o, _ := newTestOrchestrator(search, standardSections(t))

	got := o.Explain(context.Background(), "What is the PRICE?")
	assert.Equal(t, domain.TierTopic, got.Tier)
	assert.Equal(t, domain.SectionPricing, got.Section)
	assert.Equal(t, "PRICING", got.Context)
}

func TestOrchestrator_TopicWithoutSectionContinues(t *testing.T) {
	o, _ := newTestOrchestrator(&stubSearch{}, newSectionManager(t,
		domain.ContextSection{Section: domain.SectionIntro, Content: "INTRO"},
	))

	got := o.Explain(context.Background(), "what is the price")
	assert.Equal(t, domain.TierDefault, got.Tier)
	assert.Equal(t, "INTRO", got.Context)
}

func TestOrchestrator_BookingTier(t *testing.T) {
	o, _ := newTestOrchestrator(&stubSearch{}, standardSections(t))

	got := o.Explain(context.Background(), "I want to book a car")
	assert.Equal(t, domain.TierBooking, got.Tier)
	assert.Equal(t, domain.SectionServices, got.Section)
	assert.Equal(t, "SERVICES", got.Context)
}

func TestOrchestrator_SalesTier(t *testing.T) {
	t.Run("targeted search", func(t *testing.T) {
		search := &stubSearch{results: []domain.SearchResult{
			searchHit("Used Mercedes", strings.Repeat("m", 600), "/car-sales/1"),
		}}
		o, _ := newTestOrchestrator(search, standardSections(t))

		got := o.Explain(context.Background(), "I want to buy a car")
		assert.Equal(t, domain.TierSales, got.Tier)
		assert.Empty(t, got.Section)
		assert.Contains(t, got.Context, "**Used Mercedes**")
		assert.Equal(t, 2, search.searches)
	})

	t.Run("sales section", func(t *testing.T) {
		o, _ := newTestOrchestrator(&stubSearch{}, standardSections(t))

		got := o.Explain(context.Background(), "I want to buy a car")
		assert.Equal(t, domain.TierSales, got.Tier)
		assert.Equal(t, domain.SectionServices, got.Section)
		assert.Equal(t, "SERVICES", got.Context)
	})
}

func TestOrchestrator_DefaultTier(t *testing.T) {
	o, _ := newTestOrchestrator(&stubSearch{}, standardSections(t))

	got := o.Explain(context.Background(), "hello there")
	assert.Equal(t, domain.TierDefault, got.Tier)
	assert.Equal(t, domain.SectionIntro, got.Section)
	assert.Equal(t, "INTRO", got.Context)
}

func TestOrchestrator_SearchErrorUsesKeywordSearch(t *testing.T) {
	search := &stubSearch{
		err:     errors.New("backend down"),
		keyword: []domain.SearchResult{searchHit("Fleet", strings.Repeat("f", 1200), "/vehicles")},
	}
	o, _ := newTestOrchestrator(search, standardSections(t))

	got := o.Explain(context.Background(), "fleet")
	assert.Equal(t, domain.TierSearch, got.Tier)
	assert.Equal(t, 1, search.fallbacks)
}

func TestOrchestrator_AllSearchFailuresAreSwallowed(t *testing.T) {
	search := &stubSearch{err: errors.New("down"), keywordErr: errors.New("also down")}
	o, _ := newTestOrchestrator(search, standardSections(t))

	got := o.Explain(context.Background(), "hello there")
	assert.Equal(t, domain.TierDefault, got.Tier)
}

func TestOrchestrator_ExplainReportsContactAndTier(t *testing.T) {
	o, telemetry := newTestOrchestrator(&stubSearch{}, standardSections(t))

	got := o.Explain(context.Background(), "my name is Sarah, sarah@example.com")
	assert.Equal(t, "Sarah", got.Contact.Name)
	assert.Equal(t, "sarah@example.com", got.Contact.Email)
	assert.Equal(t, []string{domain.TierDefault}, telemetry.tiers)
}

func TestOrchestrator_BuildContextAsync(t *testing.T) {
	o, _ := newTestOrchestrator(&stubSearch{}, standardSections(t))

	ch := o.BuildContextAsync(context.Background(), "hello there")
	select {
	case got, ok := <-ch:
		require.True(t, ok)
		assert.Equal(t, "INTRO", got)
	case <-time.After(time.Second):
		t.Fatal("no context produced")
	}

	_, ok := <-ch
	assert.False(t, ok, "channel closes after one value")
}

func TestOrchestrator_EndToEnd(t *testing.T) {
	f := newSearchFixture(t, nil)
	f.catalog.Put(domain.ContentTypeVehicle, mercedes())
	_, err := f.indexer.IndexAll(context.Background())
	require.NoError(t, err)

	contexts := newTestContextManager(t)
	o, _ := newTestOrchestrator(f.search, contexts)

	// A single short hit is not substantial, so the booking section answers.
	got := o.Explain(context.Background(), "can I hire the E 300?")
	assert.Equal(t, domain.TierBooking, got.Tier)
	services, _ := contexts.GetContextContent(context.Background(), domain.SectionServices)
	assert.Equal(t, services, got.Context)
}

func TestSectionRelevance_NormalisedByKeywordCount(t *testing.T) {
	message := "do you do car hire and accident claims"
	focused := []string{"car hire", "accident"}
	broad := []string{"car hire", "accident", "pco", "taxi", "uber", "insurance", "repairs", "storage", "recovery", "courtesy"}

	assert.Greater(t, sectionRelevance(message, focused), sectionRelevance(message, broad))
}
