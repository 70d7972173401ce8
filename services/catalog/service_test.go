package catalog

import (
	"context"
	"testing"

	"github.com/JG-OLIVEIRA/ccompuerj-progress-backend/lib/telemetry"
)

// staticLinkSource serves a fixed markdown document, or a fixed error.
type staticLinkSource struct {
	markdown string
	err      error
}

func (s staticLinkSource) Fetch(ctx context.Context) (string, error) {
	return s.markdown, s.err
}

func setup(t testing.TB, links LinkSource, portal PortalOptions) (*Service, *FakedDisciplineStore, *FakedTeacherStore) {
	cleanup := telemetry.SetupForTesting(t, "test:services/catalog")
	t.Cleanup(cleanup)

	disciplines := NewFakedDisciplineStore()
	teachers := NewFakedTeacherStore()
	service := NewService(disciplines, teachers, NewFakedStudentStore(), links, portal)
	return service, disciplines, teachers
}
