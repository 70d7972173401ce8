package catalog

import (
	"context"
	"log/slog"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"go.opentelemetry.io/otel/codes"
)

type UpsertResult string

const (
	ResultInserted UpsertResult = "inserted"
	ResultUpdated  UpsertResult = "updated"
	ResultNoChange UpsertResult = "no-change"
)

type UpsertOutcome struct {
	Result        UpsertResult
	ChangedFields []string
}

// UpsertDiscipline reconciles a freshly extracted snapshot against the
// stored record. Absent records are inserted verbatim; for existing ones,
// curated whatsappGroup values are carried forward per class number, then
// only top-level fields that actually differ are written.
func (s *Service) UpsertDiscipline(ctx context.Context, snapshot *Discipline) (UpsertOutcome, error) {
	ctx, span := tracer.Start(ctx, "UpsertDiscipline")
	defer span.End()

	existing, err := s.disciplines.FindByKey(ctx, snapshot.DisciplineID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "discipline lookup failed")
		return UpsertOutcome{}, err
	}

	if existing == nil {
		if err := s.disciplines.Insert(ctx, snapshot); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "discipline insert failed")
			return UpsertOutcome{}, err
		}
		slog.InfoContext(ctx, "discipline inserted", "name", snapshot.Name)
		return UpsertOutcome{Result: ResultInserted}, nil
	}

	merged := *snapshot
	merged.Classes = carryWhatsappGroups(snapshot.Classes, existing.Classes)

	patch, changed := diffDisciplines(existing, &merged)
	if len(changed) == 0 {
		slog.InfoContext(ctx, "discipline had no changes", "name", snapshot.Name)
		return UpsertOutcome{Result: ResultNoChange}, nil
	}

	matched, err := s.disciplines.PatchFields(ctx, snapshot.DisciplineID, patch)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "discipline patch failed")
		return UpsertOutcome{}, err
	}
	if matched == 0 {
		slog.WarnContext(ctx, "discipline patch matched no record", "discipline_id", snapshot.DisciplineID)
	}
	slog.InfoContext(ctx, "discipline updated", "name", snapshot.Name, "fields", changed)
	return UpsertOutcome{Result: ResultUpdated, ChangedFields: changed}, nil
}

// PatchWhatsappGroup is the targeted single-class update used by direct
// edits and the enrichment pass. It reports whether any class matched.
func (s *Service) PatchWhatsappGroup(ctx context.Context, disciplineID string, classNumber int, link string) (bool, error) {
	ctx, span := tracer.Start(ctx, "PatchWhatsappGroup")
	defer span.End()

	matched, err := s.disciplines.PatchClassWhatsappGroup(ctx, disciplineID, classNumber, link)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "whatsapp group patch failed")
		return false, err
	}
	return matched > 0, nil
}

// carryWhatsappGroups copies an existing class's group link onto the new
// snapshot when the re-scrape produced none for that class number. This is
// the only field with forward-preservation semantics.
func carryWhatsappGroups(newClasses, existingClasses []Class) []Class {
	if len(existingClasses) == 0 {
		return newClasses
	}

	byNumber := make(map[int]Class, len(existingClasses))
	for _, c := range existingClasses {
		byNumber[c.Number] = c
	}

	out := make([]Class, len(newClasses))
	copy(out, newClasses)
	for i := range out {
		prev, ok := byNumber[out[i].Number]
		if ok && prev.WhatsappGroup != "" && out[i].WhatsappGroup == "" {
			out[i].WhatsappGroup = prev.WhatsappGroup
		}
	}
	return out
}

// diffDisciplines compares every top-level field structurally and collects
// only those that differ into a patch set keyed by storage field name.
func diffDisciplines(existing, next *Discipline) (map[string]any, []string) {
	patch := map[string]any{}
	var changed []string

	add := func(field string, oldValue, newValue any) {
		if cmp.Equal(oldValue, newValue, cmpopts.EquateEmpty()) {
			return
		}
		patch[field] = newValue
		changed = append(changed, field)
	}

	add("disciplineId", existing.DisciplineID, next.DisciplineID)
	add("name", existing.Name, next.Name)
	add("period", existing.Period, next.Period)
	add("type", existing.Type, next.Type)
	add("ramification", existing.Ramification, next.Ramification)
	add("credits", existing.Credits, next.Credits)
	add("totalHours", existing.TotalHours, next.TotalHours)
	add("creditLock", existing.CreditLock, next.CreditLock)
	add("classInPeriod", existing.ClassInPeriod, next.ClassInPeriod)
	add("requirements", existing.Requirements, next.Requirements)
	add("classes", existing.Classes, next.Classes)

	return patch, changed
}
