package catalog

import (
	"context"
	"log/slog"

	"github.com/JG-OLIVEIRA/ccompuerj-progress-backend/lib/scrapers/alunoonline"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type Credentials struct {
	Matricula string `json:"matricula"`
	Senha     string `json:"senha"`
}

// StartDisciplineScrape launches a portal scrape run in the background and
// returns its status record immediately. ErrRunActive is returned while a
// previous scrape run is still going, the portal session is single-threaded
// per login.
func (s *Service) StartDisciplineScrape(creds Credentials) (Run, error) {
	run, err := s.runs.Begin(RunScrape)
	if err != nil {
		return Run{}, err
	}
	go s.runScrape(context.Background(), run.Id, creds)
	return run, nil
}

func (s *Service) runScrape(ctx context.Context, runId string, creds Credentials) {
	ctx, span := tracer.Start(ctx, "runScrape")
	defer span.End()

	client, err := alunoonline.NewClient(alunoonline.ClientOptions{
		BaseUrl:           s.portal.BaseUrl,
		NavigationTimeout: s.portal.NavigationTimeout,
		DetailTimeout:     s.portal.DetailTimeout,
	})
	if err != nil {
		s.failRun(ctx, span, runId, "failed to create portal session", err)
		return
	}
	defer client.Close()

	// login or list failure aborts the whole run, nothing was written yet
	if err := client.Login(ctx, creds.Matricula, creds.Senha); err != nil {
		s.failRun(ctx, span, runId, "scrape run aborted at login", err)
		return
	}
	rows, err := client.CourseList(ctx)
	if err != nil {
		s.failRun(ctx, span, runId, "scrape run aborted at course list", err)
		return
	}
	slog.InfoContext(ctx, "found disciplines", "count", len(rows))

	for _, row := range rows {
		if row.DisciplineID == "" {
			continue
		}

		detail, err := client.OpenCourse(ctx, row.DisciplineID)
		if err != nil {
			// a single unreachable detail page only skips this course
			slog.WarnContext(ctx, "skipping discipline", "name", row.Name, "err", err)
			s.runs.noteSkipped(runId)
			if err := client.BackToList(ctx); err != nil {
				s.failRun(ctx, span, runId, "course list never rematerialized", err)
				return
			}
			continue
		}

		for _, class := range detail.Classes {
			if class.Teacher == "" {
				continue
			}
			if err := s.registry.Resolve(ctx, class.Teacher); err != nil {
				slog.WarnContext(ctx, "failed to register teacher", "name", class.Teacher, "err", err)
			}
		}

		snapshot := snapshotFromScrape(row, detail)
		slog.InfoContext(ctx, "extracted discipline", "name", row.Name, "classes", len(snapshot.Classes))

		// persistence is an independent unit of work per course
		if _, err := s.UpsertDiscipline(ctx, snapshot); err != nil {
			slog.ErrorContext(ctx, "failed to persist discipline", "name", row.Name, "err", err)
		}
		s.runs.noteProcessed(runId)

		if err := client.BackToList(ctx); err != nil {
			s.failRun(ctx, span, runId, "course list never rematerialized", err)
			return
		}
	}

	s.runs.complete(runId)
	slog.InfoContext(ctx, "scrape run completed", "run_id", runId)
}

func (s *Service) failRun(ctx context.Context, span trace.Span, runId, message string, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, message)
	slog.ErrorContext(ctx, message, "run_id", runId, "err", err)
	s.runs.fail(runId, err)
}

func snapshotFromScrape(row alunoonline.CourseRow, detail alunoonline.CourseDetail) *Discipline {
	d := &Discipline{
		DisciplineID:  row.DisciplineID,
		Name:          row.Name,
		Period:        row.Period,
		Type:          row.Type,
		Ramification:  row.Ramification,
		Credits:       row.Credits,
		TotalHours:    row.TotalHours,
		CreditLock:    row.CreditLock,
		ClassInPeriod: row.ClassInPeriod,
	}
	for _, r := range detail.Requirements {
		d.Requirements = append(d.Requirements, Requirement(r))
	}
	for _, c := range detail.Classes {
		d.Classes = append(d.Classes, Class{
			Number:                        c.Number,
			Preferential:                  c.Preferential,
			Times:                         c.Times,
			Teacher:                       c.Teacher,
			OfferedUerj:                   c.OfferedUerj,
			OccupiedUerj:                  c.OccupiedUerj,
			OfferedVestibular:             c.OfferedVestibular,
			OccupiedVestibular:            c.OccupiedVestibular,
			RequestUerjOffered:            c.RequestUerjOffered,
			RequestUerjTotal:              c.RequestUerjTotal,
			RequestUerjPreferential:       c.RequestUerjPreferential,
			RequestVestibularOffered:      c.RequestVestibularOffered,
			RequestVestibularTotal:        c.RequestVestibularTotal,
			RequestVestibularPreferential: c.RequestVestibularPreferential,
		})
	}
	return d
}
