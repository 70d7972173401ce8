package catalog

import (
	"context"
	"fmt"
	"log/slog"
)

// Registry assigns stable identifiers to distinct teacher names.
type Registry struct {
	store TeacherStore
}

func NewRegistry(store TeacherStore) Registry {
	return Registry{store: store}
}

// Resolve inserts a teacher record the first time a name is seen, assigning
// the next sequential identifier. Allocation reads the live count
// immediately before insert: correct only while course processing stays
// sequential within a single active run, which the run registry enforces.
// An atomically reserved counter at the storage layer would lift that
// restriction.
func (r Registry) Resolve(ctx context.Context, name string) error {
	existing, err := r.store.FindByName(ctx, name)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	count, err := r.store.Count(ctx)
	if err != nil {
		return err
	}
	teacher := &Teacher{
		TeacherID: fmt.Sprintf("T%04d", count+1),
		Name:      name,
	}
	if err := r.store.Insert(ctx, teacher); err != nil {
		return err
	}
	slog.InfoContext(ctx, "teacher registered", "name", name, "teacher_id", teacher.TeacherID)
	return nil
}
