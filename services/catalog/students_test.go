package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func seedCatalog(t testing.TB, disciplines *FakedDisciplineStore, ctx context.Context) {
	t.Helper()

	require.NoError(t, disciplines.Insert(ctx, &Discipline{
		DisciplineID: "4627",
		Name:         "IME01-00508 Estruturas de Dados",
		Type:         "Obrigatória",
		Credits:      4,
		Classes:      []Class{{Number: 1}, {Number: 2}},
	}))
	require.NoError(t, disciplines.Insert(ctx, &Discipline{
		DisciplineID: "5120",
		Name:         "IME05-01234 Computação Gráfica",
		Type:         "Eletiva Definida",
		Credits:      3,
	}))
	require.NoError(t, disciplines.Insert(ctx, &Discipline{
		DisciplineID: "5310",
		Name:         "IME02-01389 Cálculo I",
		Type:         "Obrigatória",
		Credits:      6,
	}))
}

func TestCreateStudent(t *testing.T) {
	service, _, _ := setup(t, staticLinkSource{}, PortalOptions{})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	student := &Student{StudentID: "201900000", Name: "Ana", LastName: "Pereira"}
	require.NoError(t, service.CreateStudent(ctx, student))
	require.ErrorIs(t, service.CreateStudent(ctx, student), ErrStudentExists)

	progress, err := service.StudentProgress(ctx, "201900000")
	require.NoError(t, err)
	require.Equal(t, "Ana", progress.Name)
	// lists come back as empty sets, not null
	require.NotNil(t, progress.CompletedDisciplines)
	require.NotNil(t, progress.CurrentDisciplines)
	require.Equal(t, 0, progress.MandatoryCredits)
	require.Equal(t, 0, progress.ElectiveCredits)
}

func TestStudentProgressCredits(t *testing.T) {
	service, disciplines, _ := setup(t, staticLinkSource{}, PortalOptions{})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	seedCatalog(t, disciplines, ctx)
	require.NoError(t, service.CreateStudent(ctx, &Student{
		StudentID: "201900000",
		Name:      "Ana",
		LastName:  "Pereira",
		// 9999 was completed before the catalog dropped it, it must not count
		CompletedDisciplines: []string{"4627", "5120", "5310", "9999"},
	}))

	progress, err := service.StudentProgress(ctx, "201900000")
	require.NoError(t, err)
	require.Equal(t, 10, progress.MandatoryCredits)
	require.Equal(t, 3, progress.ElectiveCredits)

	all, err := service.ListStudentProgress(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.Equal(t, 10, all[0].MandatoryCredits)

	_, err = service.StudentProgress(ctx, "000000000")
	require.ErrorIs(t, err, ErrStudentNotFound)
}

func TestCompletedDisciplinesAreASet(t *testing.T) {
	service, disciplines, _ := setup(t, staticLinkSource{}, PortalOptions{})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	seedCatalog(t, disciplines, ctx)
	require.NoError(t, service.CreateStudent(ctx, &Student{
		StudentID: "201900000", Name: "Ana", LastName: "Pereira",
	}))

	require.NoError(t, service.AddCompletedDiscipline(ctx, "201900000", "4627"))
	require.NoError(t, service.AddCompletedDiscipline(ctx, "201900000", "4627"))

	progress, err := service.StudentProgress(ctx, "201900000")
	require.NoError(t, err)
	require.Equal(t, []string{"4627"}, progress.CompletedDisciplines)
	require.Equal(t, 4, progress.MandatoryCredits)

	require.NoError(t, service.RemoveCompletedDiscipline(ctx, "201900000", "4627"))
	progress, err = service.StudentProgress(ctx, "201900000")
	require.NoError(t, err)
	require.Empty(t, progress.CompletedDisciplines)

	require.ErrorIs(t, service.AddCompletedDiscipline(ctx, "201900000", "42 27"), ErrBadDisciplineID)
	require.ErrorIs(t, service.AddCompletedDiscipline(ctx, "000000000", "4627"), ErrStudentNotFound)
}

func TestStudentDisciplineStatuses(t *testing.T) {
	service, disciplines, _ := setup(t, staticLinkSource{}, PortalOptions{})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	seedCatalog(t, disciplines, ctx)
	require.NoError(t, service.CreateStudent(ctx, &Student{
		StudentID:            "201900000",
		Name:                 "Ana",
		LastName:             "Pereira",
		CompletedDisciplines: []string{"5310"},
	}))
	require.NoError(t, service.EnrollStudent(ctx, "201900000", "4627", 2))

	statuses, err := service.StudentDisciplineStatuses(ctx, "201900000")
	require.NoError(t, err)
	require.Len(t, statuses, 3)

	byId := map[string]DisciplineStatusView{}
	for _, status := range statuses {
		byId[status.DisciplineID] = status
	}
	require.Equal(t, StatusInProgress, byId["4627"].Status)
	require.Equal(t, 2, byId["4627"].EnrolledClass)
	require.Equal(t, StatusNotTaken, byId["5120"].Status)
	require.Equal(t, 0, byId["5120"].EnrolledClass)
	require.Equal(t, StatusCompleted, byId["5310"].Status)

	single, err := service.StudentDisciplineStatus(ctx, "201900000", "4627")
	require.NoError(t, err)
	require.Equal(t, StatusInProgress, single.Status)
	require.Equal(t, 2, single.EnrolledClass)

	_, err = service.StudentDisciplineStatus(ctx, "201900000", "9999")
	require.ErrorIs(t, err, ErrDisciplineNotFound)
	_, err = service.StudentDisciplineStatuses(ctx, "000000000")
	require.ErrorIs(t, err, ErrStudentNotFound)
}

func TestEnrollmentLifecycle(t *testing.T) {
	service, disciplines, _ := setup(t, staticLinkSource{}, PortalOptions{})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	seedCatalog(t, disciplines, ctx)
	require.NoError(t, service.CreateStudent(ctx, &Student{
		StudentID: "201900000", Name: "Ana", LastName: "Pereira",
	}))

	require.NoError(t, service.EnrollStudent(ctx, "201900000", "4627", 1))
	// enrolling twice in the same class is a no-op
	require.NoError(t, service.EnrollStudent(ctx, "201900000", "4627", 1))

	progress, err := service.StudentProgress(ctx, "201900000")
	require.NoError(t, err)
	require.Equal(t, []Enrollment{{DisciplineID: "4627", ClassNumber: 1}}, progress.CurrentDisciplines)

	require.NoError(t, service.WithdrawStudent(ctx, "201900000", "4627", 1))
	progress, err = service.StudentProgress(ctx, "201900000")
	require.NoError(t, err)
	require.Empty(t, progress.CurrentDisciplines)

	require.ErrorIs(t, service.EnrollStudent(ctx, "000000000", "4627", 1), ErrStudentNotFound)
}

func TestUpdateAndDeleteStudent(t *testing.T) {
	service, _, _ := setup(t, staticLinkSource{}, PortalOptions{})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	require.NoError(t, service.CreateStudent(ctx, &Student{
		StudentID: "201900000", Name: "Ana", LastName: "Pereira",
	}))

	require.NoError(t, service.UpdateStudentNames(ctx, "201900000", "Anna", ""))
	progress, err := service.StudentProgress(ctx, "201900000")
	require.NoError(t, err)
	require.Equal(t, "Anna", progress.Name)
	require.Equal(t, "Pereira", progress.LastName)

	require.ErrorIs(t, service.UpdateStudentNames(ctx, "000000000", "X", "Y"), ErrStudentNotFound)

	require.NoError(t, service.DeleteStudent(ctx, "201900000"))
	_, err = service.StudentProgress(ctx, "201900000")
	require.ErrorIs(t, err, ErrStudentNotFound)
	require.ErrorIs(t, service.DeleteStudent(ctx, "201900000"), ErrStudentNotFound)
}
