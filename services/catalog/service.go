package catalog

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("services/catalog")

// LinkSource fetches the markdown document carrying chat group links.
type LinkSource interface {
	Fetch(ctx context.Context) (string, error)
}

type PortalOptions struct {
	BaseUrl           string
	NavigationTimeout time.Duration
	DetailTimeout     time.Duration
}

// Service is the scraping & reconciliation engine: it drives portal scrape
// runs, assigns teacher identifiers, reconciles snapshots against stored
// records, applies link enrichment passes and tracks student progress over
// the catalog.
type Service struct {
	disciplines DisciplineStore
	teachers    TeacherStore
	students    StudentStore
	registry    Registry
	links       LinkSource
	portal      PortalOptions
	runs        *RunRegistry
}

func NewService(disciplines DisciplineStore, teachers TeacherStore, students StudentStore, links LinkSource, portal PortalOptions) *Service {
	return &Service{
		disciplines: disciplines,
		teachers:    teachers,
		students:    students,
		registry:    NewRegistry(teachers),
		links:       links,
		portal:      portal,
		runs:        NewRunRegistry(),
	}
}

func (s *Service) Runs() *RunRegistry {
	return s.runs
}
