package catalog

import (
	"context"
	"log/slog"

	"github.com/JG-OLIVEIRA/ccompuerj-progress-backend/lib/scrapers/hackmd"
	"github.com/JG-OLIVEIRA/ccompuerj-progress-backend/lib/textutil"

	"go.opentelemetry.io/otel/codes"
)

// EnrichmentSummary accounts for every extracted triple:
// TotalFound = TotalUpdated + NoChanges + Skipped.
type EnrichmentSummary struct {
	TotalFound   int `json:"totalFound"`
	TotalUpdated int `json:"totalUpdated"`
	NoChanges    int `json:"noChanges"`
	// triples with no matching discipline, class, or stored record
	Skipped int `json:"skipped"`
}

// StartLinkEnrichment launches an enrichment pass in the background and
// returns its status record immediately.
func (s *Service) StartLinkEnrichment() (Run, error) {
	run, err := s.runs.Begin(RunEnrichment)
	if err != nil {
		return Run{}, err
	}
	go s.runEnrichment(context.Background(), run.Id)
	return run, nil
}

func (s *Service) runEnrichment(ctx context.Context, runId string) {
	summary, err := s.EnrichWhatsappLinks(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "link enrichment failed", "run_id", runId, "err", err)
		s.runs.fail(runId, err)
		return
	}
	s.runs.setEnrichment(runId, summary)
	s.runs.complete(runId)
}

// EnrichWhatsappLinks matches chat group links from the markdown document
// to stored classes by normalized course name and patches only classes
// whose stored link differs. A failed fetch aborts the pass before any
// write is attempted.
func (s *Service) EnrichWhatsappLinks(ctx context.Context) (EnrichmentSummary, error) {
	ctx, span := tracer.Start(ctx, "EnrichWhatsappLinks")
	defer span.End()

	all, err := s.disciplines.ListAll(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to list disciplines")
		return EnrichmentSummary{}, err
	}
	byName := make(map[string]*Discipline, len(all))
	for i := range all {
		byName[textutil.StripCourseCode(all[i].Name)] = &all[i]
	}

	markdown, err := s.links.Fetch(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch markdown")
		return EnrichmentSummary{}, err
	}

	links := hackmd.ExtractLinks(markdown)
	slog.InfoContext(ctx, "found potential links", "count", len(links))

	summary := EnrichmentSummary{TotalFound: len(links)}
	for _, link := range links {
		discipline, ok := byName[link.Section]
		if !ok {
			slog.WarnContext(ctx, "no discipline for section", "section", link.Section)
			summary.Skipped++
			continue
		}

		var class *Class
		for i := range discipline.Classes {
			if discipline.Classes[i].Number == link.ClassNumber {
				class = &discipline.Classes[i]
				break
			}
		}
		if class == nil {
			slog.WarnContext(ctx, "no class for number", "discipline", discipline.Name, "number", link.ClassNumber)
			summary.Skipped++
			continue
		}

		if class.WhatsappGroup == link.Url {
			summary.NoChanges++
			continue
		}

		matched, err := s.PatchWhatsappGroup(ctx, discipline.DisciplineID, link.ClassNumber, link.Url)
		if err != nil {
			slog.ErrorContext(ctx, "failed to update whatsapp group",
				"discipline", discipline.Name, "number", link.ClassNumber, "err", err)
			summary.Skipped++
			continue
		}
		if !matched {
			slog.WarnContext(ctx, "whatsapp group patch matched no class",
				"discipline", discipline.Name, "number", link.ClassNumber)
			summary.Skipped++
			continue
		}
		summary.TotalUpdated++
		slog.InfoContext(ctx, "updated whatsapp group", "discipline", discipline.Name, "number", link.ClassNumber)
	}

	slog.InfoContext(ctx, "finished link enrichment",
		"total", summary.TotalFound, "updated", summary.TotalUpdated,
		"no_changes", summary.NoChanges, "skipped", summary.Skipped)
	return summary, nil
}
