package catalog

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// FakedDisciplineStore is an in-memory DisciplineStore for tests and local
// development without a database.
type FakedDisciplineStore struct {
	mu              sync.Mutex
	disciplines     map[string]*Discipline
	patchCalls      int
	groupPatchCalls int
}

func NewFakedDisciplineStore() *FakedDisciplineStore {
	return &FakedDisciplineStore{disciplines: map[string]*Discipline{}}
}

func cloneDiscipline(d *Discipline) *Discipline {
	out := *d
	out.Requirements = append([]Requirement(nil), d.Requirements...)
	out.Classes = append([]Class(nil), d.Classes...)
	return &out
}

func (s *FakedDisciplineStore) FindByKey(_ context.Context, disciplineID string) (*Discipline, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.disciplines[disciplineID]
	if !ok {
		return nil, nil
	}
	return cloneDiscipline(d), nil
}

func (s *FakedDisciplineStore) Insert(_ context.Context, discipline *Discipline) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.disciplines[discipline.DisciplineID] = cloneDiscipline(discipline)
	return nil
}

func (s *FakedDisciplineStore) PatchFields(_ context.Context, disciplineID string, fields map[string]any) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.disciplines[disciplineID]
	if !ok {
		return 0, nil
	}
	s.patchCalls++

	for field, value := range fields {
		switch field {
		case "disciplineId":
			d.DisciplineID = value.(string)
		case "name":
			d.Name = value.(string)
		case "period":
			d.Period = value.(string)
		case "type":
			d.Type = value.(string)
		case "ramification":
			d.Ramification = value.(string)
		case "credits":
			d.Credits = value.(int)
		case "totalHours":
			d.TotalHours = value.(int)
		case "creditLock":
			d.CreditLock = value.(string)
		case "classInPeriod":
			d.ClassInPeriod = value.(string)
		case "requirements":
			d.Requirements = append([]Requirement(nil), value.([]Requirement)...)
		case "classes":
			d.Classes = append([]Class(nil), value.([]Class)...)
		default:
			return 0, fmt.Errorf("unknown discipline field %q", field)
		}
	}
	return 1, nil
}

func (s *FakedDisciplineStore) PatchClassWhatsappGroup(_ context.Context, disciplineID string, classNumber int, link string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.disciplines[disciplineID]
	if !ok {
		return 0, nil
	}
	for i := range d.Classes {
		if d.Classes[i].Number == classNumber {
			d.Classes[i].WhatsappGroup = link
			s.groupPatchCalls++
			return 1, nil
		}
	}
	return 0, nil
}

func (s *FakedDisciplineStore) ListAll(_ context.Context) ([]Discipline, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Discipline
	for _, d := range s.disciplines {
		out = append(out, *cloneDiscipline(d))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DisciplineID < out[j].DisciplineID })
	return out, nil
}

// PatchCalls reports how many PatchFields writes were applied.
func (s *FakedDisciplineStore) PatchCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.patchCalls
}

// GroupPatchCalls reports how many whatsapp group patches were applied.
func (s *FakedDisciplineStore) GroupPatchCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.groupPatchCalls
}

// FakedStudentStore is an in-memory StudentStore.
type FakedStudentStore struct {
	mu       sync.Mutex
	students map[string]*Student
}

func NewFakedStudentStore() *FakedStudentStore {
	return &FakedStudentStore{students: map[string]*Student{}}
}

// clones preserve empty (non-nil) lists, like a decoded mongo array
func cloneStudent(s *Student) *Student {
	out := *s
	out.CompletedDisciplines = append(make([]string, 0, len(s.CompletedDisciplines)), s.CompletedDisciplines...)
	out.CurrentDisciplines = append(make([]Enrollment, 0, len(s.CurrentDisciplines)), s.CurrentDisciplines...)
	return &out
}

func (s *FakedStudentStore) FindByID(_ context.Context, studentID string) (*Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	student, ok := s.students[studentID]
	if !ok {
		return nil, nil
	}
	return cloneStudent(student), nil
}

func (s *FakedStudentStore) List(_ context.Context) ([]Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Student
	for _, student := range s.students {
		out = append(out, *cloneStudent(student))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StudentID < out[j].StudentID })
	return out, nil
}

func (s *FakedStudentStore) Insert(_ context.Context, student *Student) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.students[student.StudentID] = cloneStudent(student)
	return nil
}

func (s *FakedStudentStore) PatchNames(_ context.Context, studentID, name, lastName string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	student, ok := s.students[studentID]
	if !ok {
		return 0, nil
	}
	if name != "" {
		student.Name = name
	}
	if lastName != "" {
		student.LastName = lastName
	}
	return 1, nil
}

func (s *FakedStudentStore) AddCompletedDiscipline(_ context.Context, studentID, disciplineID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	student, ok := s.students[studentID]
	if !ok {
		return 0, nil
	}
	for _, id := range student.CompletedDisciplines {
		if id == disciplineID {
			return 1, nil
		}
	}
	student.CompletedDisciplines = append(student.CompletedDisciplines, disciplineID)
	return 1, nil
}

func (s *FakedStudentStore) RemoveCompletedDiscipline(_ context.Context, studentID, disciplineID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	student, ok := s.students[studentID]
	if !ok {
		return 0, nil
	}
	kept := student.CompletedDisciplines[:0]
	for _, id := range student.CompletedDisciplines {
		if id != disciplineID {
			kept = append(kept, id)
		}
	}
	student.CompletedDisciplines = kept
	return 1, nil
}

func (s *FakedStudentStore) AddEnrollment(_ context.Context, studentID string, enrollment Enrollment) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	student, ok := s.students[studentID]
	if !ok {
		return 0, nil
	}
	for _, e := range student.CurrentDisciplines {
		if e == enrollment {
			return 1, nil
		}
	}
	student.CurrentDisciplines = append(student.CurrentDisciplines, enrollment)
	return 1, nil
}

func (s *FakedStudentStore) RemoveEnrollment(_ context.Context, studentID string, enrollment Enrollment) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	student, ok := s.students[studentID]
	if !ok {
		return 0, nil
	}
	kept := student.CurrentDisciplines[:0]
	for _, e := range student.CurrentDisciplines {
		if e != enrollment {
			kept = append(kept, e)
		}
	}
	student.CurrentDisciplines = kept
	return 1, nil
}

func (s *FakedStudentStore) Delete(_ context.Context, studentID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.students[studentID]; !ok {
		return 0, nil
	}
	delete(s.students, studentID)
	return 1, nil
}

// FakedTeacherStore is an in-memory TeacherStore.
type FakedTeacherStore struct {
	mu       sync.Mutex
	teachers []Teacher
}

func NewFakedTeacherStore() *FakedTeacherStore {
	return &FakedTeacherStore{}
}

func (s *FakedTeacherStore) FindByName(_ context.Context, name string) (*Teacher, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range s.teachers {
		if t.Name == name {
			out := t
			return &out, nil
		}
	}
	return nil, nil
}

func (s *FakedTeacherStore) Count(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.teachers)), nil
}

func (s *FakedTeacherStore) Insert(_ context.Context, teacher *Teacher) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.teachers = append(s.teachers, *teacher)
	return nil
}

func (s *FakedTeacherStore) ListAll(_ context.Context) ([]Teacher, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Teacher(nil), s.teachers...), nil
}
