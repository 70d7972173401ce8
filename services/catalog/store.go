package catalog

import "context"

// DisciplineStore is the storage collaborator for disciplines. Lookups
// return (nil, nil) when no record matches.
type DisciplineStore interface {
	FindByKey(ctx context.Context, disciplineID string) (*Discipline, error)
	Insert(ctx context.Context, discipline *Discipline) error
	// PatchFields applies a partial update of top-level fields and reports
	// how many records matched the key.
	PatchFields(ctx context.Context, disciplineID string, fields map[string]any) (int64, error)
	// PatchClassWhatsappGroup updates a single class's group link inside
	// the classes array, matched by discipline key and class number.
	PatchClassWhatsappGroup(ctx context.Context, disciplineID string, classNumber int, link string) (int64, error)
	ListAll(ctx context.Context) ([]Discipline, error)
}

type TeacherStore interface {
	FindByName(ctx context.Context, name string) (*Teacher, error)
	Count(ctx context.Context) (int64, error)
	Insert(ctx context.Context, teacher *Teacher) error
	ListAll(ctx context.Context) ([]Teacher, error)
}

// StudentStore persists student progress records. The completed and
// current lists have set semantics: adds deduplicate, removes match the
// whole element. Mutations report how many records matched the key.
type StudentStore interface {
	FindByID(ctx context.Context, studentID string) (*Student, error)
	List(ctx context.Context) ([]Student, error)
	Insert(ctx context.Context, student *Student) error
	// PatchNames sets the non-empty ones of name/lastName.
	PatchNames(ctx context.Context, studentID, name, lastName string) (int64, error)
	AddCompletedDiscipline(ctx context.Context, studentID, disciplineID string) (int64, error)
	RemoveCompletedDiscipline(ctx context.Context, studentID, disciplineID string) (int64, error)
	AddEnrollment(ctx context.Context, studentID string, enrollment Enrollment) (int64, error)
	RemoveEnrollment(ctx context.Context, studentID string, enrollment Enrollment) (int64, error)
	Delete(ctx context.Context, studentID string) (int64, error)
}
