package catalog

import (
	"context"
	"errors"
	"log/slog"
	"regexp"

	"go.opentelemetry.io/otel/codes"
)

var (
	ErrStudentExists      = errors.New("student already exists")
	ErrStudentNotFound    = errors.New("student not found")
	ErrDisciplineNotFound = errors.New("discipline not found")
	ErrBadDisciplineID    = errors.New("invalid discipline id")
)

var disciplineIdPattern = regexp.MustCompile(`^[\w-]+$`)

// Enrollment is a student's active seat in one class of a discipline.
type Enrollment struct {
	DisciplineID string `bson:"disciplineId" json:"disciplineId"`
	ClassNumber  int    `bson:"classNumber" json:"classNumber"`
}

// Student tracks curriculum progress: disciplines already completed and
// the classes currently being taken. Both lists are sets, adding an entry
// twice is a no-op.
type Student struct {
	StudentID            string       `bson:"studentId" json:"studentId"`
	Name                 string       `bson:"name" json:"name"`
	LastName             string       `bson:"lastName" json:"lastName"`
	CompletedDisciplines []string     `bson:"completedDisciplines" json:"completedDisciplines"`
	CurrentDisciplines   []Enrollment `bson:"currentDisciplines" json:"currentDisciplines"`
}

// StudentProgress is a student decorated with credit totals over their
// completed disciplines.
type StudentProgress struct {
	Student
	MandatoryCredits int `json:"mandatoryCredits"`
	ElectiveCredits  int `json:"electiveCredits"`
}

type DisciplineStatus string

const (
	StatusNotTaken   DisciplineStatus = "not_taken"
	StatusInProgress DisciplineStatus = "in_progress"
	StatusCompleted  DisciplineStatus = "completed"
)

// DisciplineStatusView is a discipline annotated with one student's
// standing in it. EnrolledClass is set only while the status is
// in_progress.
type DisciplineStatusView struct {
	Discipline
	Status        DisciplineStatus `json:"status"`
	EnrolledClass int              `json:"enrolledClass,omitempty"`
}

// calculateCredits sums the credits of the student's completed disciplines,
// split by curriculum type. Completed IDs with no stored discipline are
// ignored rather than failing the whole computation.
func calculateCredits(student *Student, byId map[string]*Discipline) (mandatory, elective int) {
	for _, id := range student.CompletedDisciplines {
		discipline, ok := byId[id]
		if !ok {
			continue
		}
		if discipline.Type == "Obrigatória" {
			mandatory += discipline.Credits
		} else {
			elective += discipline.Credits
		}
	}
	return mandatory, elective
}

func disciplinesById(disciplines []Discipline) map[string]*Discipline {
	byId := make(map[string]*Discipline, len(disciplines))
	for i := range disciplines {
		byId[disciplines[i].DisciplineID] = &disciplines[i]
	}
	return byId
}

func statusFor(student *Student, disciplineID string) (DisciplineStatus, int) {
	for _, completed := range student.CompletedDisciplines {
		if completed == disciplineID {
			return StatusCompleted, 0
		}
	}
	for _, enrollment := range student.CurrentDisciplines {
		if enrollment.DisciplineID == disciplineID {
			return StatusInProgress, enrollment.ClassNumber
		}
	}
	return StatusNotTaken, 0
}

// CreateStudent registers a new student. The student key must be unused.
func (s *Service) CreateStudent(ctx context.Context, student *Student) error {
	ctx, span := tracer.Start(ctx, "CreateStudent")
	defer span.End()

	existing, err := s.students.FindByID(ctx, student.StudentID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "student lookup failed")
		return err
	}
	if existing != nil {
		return ErrStudentExists
	}

	insert := *student
	if insert.CompletedDisciplines == nil {
		insert.CompletedDisciplines = []string{}
	}
	if insert.CurrentDisciplines == nil {
		insert.CurrentDisciplines = []Enrollment{}
	}
	if err := s.students.Insert(ctx, &insert); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "student insert failed")
		return err
	}
	slog.InfoContext(ctx, "student created", "student_id", student.StudentID)
	return nil
}

// StudentProgress returns one student with their credit totals, or
// ErrStudentNotFound.
func (s *Service) StudentProgress(ctx context.Context, studentID string) (*StudentProgress, error) {
	ctx, span := tracer.Start(ctx, "StudentProgress")
	defer span.End()

	student, err := s.students.FindByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if student == nil {
		return nil, ErrStudentNotFound
	}

	disciplines, err := s.disciplines.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	mandatory, elective := calculateCredits(student, disciplinesById(disciplines))
	return &StudentProgress{
		Student:          *student,
		MandatoryCredits: mandatory,
		ElectiveCredits:  elective,
	}, nil
}

// ListStudentProgress returns every student with their credit totals.
func (s *Service) ListStudentProgress(ctx context.Context) ([]StudentProgress, error) {
	ctx, span := tracer.Start(ctx, "ListStudentProgress")
	defer span.End()

	students, err := s.students.List(ctx)
	if err != nil {
		return nil, err
	}
	disciplines, err := s.disciplines.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	byId := disciplinesById(disciplines)

	out := make([]StudentProgress, 0, len(students))
	for i := range students {
		mandatory, elective := calculateCredits(&students[i], byId)
		out = append(out, StudentProgress{
			Student:          students[i],
			MandatoryCredits: mandatory,
			ElectiveCredits:  elective,
		})
	}
	return out, nil
}

// StudentDisciplineStatuses returns the whole catalog annotated with the
// student's standing in each discipline.
func (s *Service) StudentDisciplineStatuses(ctx context.Context, studentID string) ([]DisciplineStatusView, error) {
	ctx, span := tracer.Start(ctx, "StudentDisciplineStatuses")
	defer span.End()

	student, err := s.students.FindByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if student == nil {
		return nil, ErrStudentNotFound
	}

	disciplines, err := s.disciplines.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]DisciplineStatusView, 0, len(disciplines))
	for i := range disciplines {
		status, enrolledClass := statusFor(student, disciplines[i].DisciplineID)
		out = append(out, DisciplineStatusView{
			Discipline:    disciplines[i],
			Status:        status,
			EnrolledClass: enrolledClass,
		})
	}
	return out, nil
}

// StudentDisciplineStatus annotates a single discipline with the student's
// standing in it.
func (s *Service) StudentDisciplineStatus(ctx context.Context, studentID, disciplineID string) (*DisciplineStatusView, error) {
	ctx, span := tracer.Start(ctx, "StudentDisciplineStatus")
	defer span.End()

	student, err := s.students.FindByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if student == nil {
		return nil, ErrStudentNotFound
	}

	discipline, err := s.disciplines.FindByKey(ctx, disciplineID)
	if err != nil {
		return nil, err
	}
	if discipline == nil {
		return nil, ErrDisciplineNotFound
	}

	status, enrolledClass := statusFor(student, disciplineID)
	return &DisciplineStatusView{
		Discipline:    *discipline,
		Status:        status,
		EnrolledClass: enrolledClass,
	}, nil
}

// UpdateStudentNames patches the name fields, ignoring empty inputs.
func (s *Service) UpdateStudentNames(ctx context.Context, studentID, name, lastName string) error {
	ctx, span := tracer.Start(ctx, "UpdateStudentNames")
	defer span.End()

	matched, err := s.students.PatchNames(ctx, studentID, name, lastName)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "student patch failed")
		return err
	}
	if matched == 0 {
		return ErrStudentNotFound
	}
	return nil
}

// AddCompletedDiscipline marks a discipline as completed for the student.
func (s *Service) AddCompletedDiscipline(ctx context.Context, studentID, disciplineID string) error {
	ctx, span := tracer.Start(ctx, "AddCompletedDiscipline")
	defer span.End()

	if !disciplineIdPattern.MatchString(disciplineID) {
		return ErrBadDisciplineID
	}
	matched, err := s.students.AddCompletedDiscipline(ctx, studentID, disciplineID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "completed disciplines update failed")
		return err
	}
	if matched == 0 {
		return ErrStudentNotFound
	}
	return nil
}

// RemoveCompletedDiscipline unmarks a completed discipline.
func (s *Service) RemoveCompletedDiscipline(ctx context.Context, studentID, disciplineID string) error {
	ctx, span := tracer.Start(ctx, "RemoveCompletedDiscipline")
	defer span.End()

	if !disciplineIdPattern.MatchString(disciplineID) {
		return ErrBadDisciplineID
	}
	matched, err := s.students.RemoveCompletedDiscipline(ctx, studentID, disciplineID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "completed disciplines update failed")
		return err
	}
	if matched == 0 {
		return ErrStudentNotFound
	}
	return nil
}

// EnrollStudent records an active enrollment in one class.
func (s *Service) EnrollStudent(ctx context.Context, studentID, disciplineID string, classNumber int) error {
	ctx, span := tracer.Start(ctx, "EnrollStudent")
	defer span.End()

	matched, err := s.students.AddEnrollment(ctx, studentID, Enrollment{
		DisciplineID: disciplineID,
		ClassNumber:  classNumber,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "enrollment update failed")
		return err
	}
	if matched == 0 {
		return ErrStudentNotFound
	}
	return nil
}

// WithdrawStudent removes an active enrollment.
func (s *Service) WithdrawStudent(ctx context.Context, studentID, disciplineID string, classNumber int) error {
	ctx, span := tracer.Start(ctx, "WithdrawStudent")
	defer span.End()

	matched, err := s.students.RemoveEnrollment(ctx, studentID, Enrollment{
		DisciplineID: disciplineID,
		ClassNumber:  classNumber,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "enrollment update failed")
		return err
	}
	if matched == 0 {
		return ErrStudentNotFound
	}
	return nil
}

// DeleteStudent removes the student record.
func (s *Service) DeleteStudent(ctx context.Context, studentID string) error {
	ctx, span := tracer.Start(ctx, "DeleteStudent")
	defer span.End()

	deleted, err := s.students.Delete(ctx, studentID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "student delete failed")
		return err
	}
	if deleted == 0 {
		return ErrStudentNotFound
	}
	slog.InfoContext(ctx, "student deleted", "student_id", studentID)
	return nil
}
