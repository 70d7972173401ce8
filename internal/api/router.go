// Package api exposes the engine over HTTP: fire-and-forget triggers that
// return a run ID, the run status endpoint, catalog read endpoints and the
// student progress CRUD.
package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/JG-OLIVEIRA/ccompuerj-progress-backend/services/catalog"

	"github.com/gin-gonic/gin"
)

type Server struct {
	Catalog     *catalog.Service
	Disciplines catalog.DisciplineStore
	Teachers    catalog.TeacherStore
}

func NewRouter(s Server) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.POST("/disciplines/scrape", s.startScrape)
	r.POST("/disciplines/whatsapp-links", s.startEnrichment)
	r.GET("/runs/:id", s.getRun)

	r.GET("/disciplines", s.listDisciplines)
	r.GET("/disciplines/:id", s.getDiscipline)
	r.GET("/teachers", s.listTeachers)

	r.GET("/students", s.listStudents)
	r.POST("/students", s.createStudent)
	r.GET("/students/:studentId", s.getStudent)
	r.PATCH("/students/:studentId", s.updateStudent)
	r.DELETE("/students/:studentId", s.deleteStudent)
	r.GET("/students/:studentId/disciplines", s.listStudentDisciplines)
	r.GET("/students/:studentId/disciplines/:disciplineId", s.getStudentDiscipline)
	r.PUT("/students/:studentId/completed-disciplines/:disciplineId", s.addCompletedDiscipline)
	r.DELETE("/students/:studentId/completed-disciplines/:disciplineId", s.removeCompletedDiscipline)
	r.PUT("/students/:studentId/current-disciplines/:disciplineId/:classNumber", s.enrollStudent)
	r.DELETE("/students/:studentId/current-disciplines/:disciplineId/:classNumber", s.withdrawStudent)

	return r
}

func (s Server) startScrape(c *gin.Context) {
	var creds catalog.Credentials
	if err := c.ShouldBindJSON(&creds); err != nil || creds.Matricula == "" || creds.Senha == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "matricula and senha are required"})
		return
	}

	run, err := s.Catalog.StartDisciplineScrape(creds)
	if errors.Is(err, catalog.ErrRunActive) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusAccepted, run)
}

func (s Server) startEnrichment(c *gin.Context) {
	run, err := s.Catalog.StartLinkEnrichment()
	if errors.Is(err, catalog.ErrRunActive) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusAccepted, run)
}

func (s Server) getRun(c *gin.Context) {
	run, ok := s.Catalog.Runs().Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
		return
	}
	c.JSON(http.StatusOK, run)
}

func (s Server) listDisciplines(c *gin.Context) {
	disciplines, err := s.Disciplines.ListAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if disciplines == nil {
		disciplines = []catalog.Discipline{}
	}
	c.JSON(http.StatusOK, disciplines)
}

func (s Server) getDiscipline(c *gin.Context) {
	discipline, err := s.Disciplines.FindByKey(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if discipline == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "discipline not found"})
		return
	}
	c.JSON(http.StatusOK, discipline)
}

// studentError translates the student service sentinels into status codes.
func studentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, catalog.ErrStudentNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "student not found"})
	case errors.Is(err, catalog.ErrDisciplineNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "discipline not found"})
	case errors.Is(err, catalog.ErrBadDisciplineID):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func (s Server) listStudents(c *gin.Context) {
	students, err := s.Catalog.ListStudentProgress(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, students)
}

func (s Server) createStudent(c *gin.Context) {
	var student catalog.Student
	if err := c.ShouldBindJSON(&student); err != nil ||
		student.StudentID == "" || student.Name == "" || student.LastName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "studentId, name and lastName are required"})
		return
	}

	err := s.Catalog.CreateStudent(c.Request.Context(), &student)
	if errors.Is(err, catalog.ErrStudentExists) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "student " + student.StudentID + " created"})
}

func (s Server) getStudent(c *gin.Context) {
	progress, err := s.Catalog.StudentProgress(c.Request.Context(), c.Param("studentId"))
	if err != nil {
		studentError(c, err)
		return
	}
	c.JSON(http.StatusOK, progress)
}

func (s Server) updateStudent(c *gin.Context) {
	var body struct {
		Name     string `json:"name"`
		LastName string `json:"lastName"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	err := s.Catalog.UpdateStudentNames(c.Request.Context(), c.Param("studentId"), body.Name, body.LastName)
	if err != nil {
		studentError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "student " + c.Param("studentId") + " updated"})
}

func (s Server) deleteStudent(c *gin.Context) {
	err := s.Catalog.DeleteStudent(c.Request.Context(), c.Param("studentId"))
	if err != nil {
		studentError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "student " + c.Param("studentId") + " deleted"})
}

func (s Server) listStudentDisciplines(c *gin.Context) {
	statuses, err := s.Catalog.StudentDisciplineStatuses(c.Request.Context(), c.Param("studentId"))
	if err != nil {
		studentError(c, err)
		return
	}
	c.JSON(http.StatusOK, statuses)
}

func (s Server) getStudentDiscipline(c *gin.Context) {
	status, err := s.Catalog.StudentDisciplineStatus(
		c.Request.Context(), c.Param("studentId"), c.Param("disciplineId"))
	if err != nil {
		studentError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

func (s Server) addCompletedDiscipline(c *gin.Context) {
	err := s.Catalog.AddCompletedDiscipline(
		c.Request.Context(), c.Param("studentId"), c.Param("disciplineId"))
	if err != nil {
		studentError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "discipline marked as completed"})
}

func (s Server) removeCompletedDiscipline(c *gin.Context) {
	err := s.Catalog.RemoveCompletedDiscipline(
		c.Request.Context(), c.Param("studentId"), c.Param("disciplineId"))
	if err != nil {
		studentError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "completed discipline removed"})
}

func classNumberParam(c *gin.Context) (int, bool) {
	number, err := strconv.Atoi(c.Param("classNumber"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "classNumber must be an integer"})
		return 0, false
	}
	return number, true
}

func (s Server) enrollStudent(c *gin.Context) {
	number, ok := classNumberParam(c)
	if !ok {
		return
	}
	err := s.Catalog.EnrollStudent(
		c.Request.Context(), c.Param("studentId"), c.Param("disciplineId"), number)
	if err != nil {
		studentError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "enrollment recorded"})
}

func (s Server) withdrawStudent(c *gin.Context) {
	number, ok := classNumberParam(c)
	if !ok {
		return
	}
	err := s.Catalog.WithdrawStudent(
		c.Request.Context(), c.Param("studentId"), c.Param("disciplineId"), number)
	if err != nil {
		studentError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "enrollment removed"})
}

type teacherView struct {
	TeacherID   string   `json:"teacherId"`
	Name        string   `json:"name"`
	Disciplines []string `json:"disciplines"`
}

func (s Server) listTeachers(c *gin.Context) {
	ctx := c.Request.Context()

	teachers, err := s.Teachers.ListAll(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	disciplines, err := s.Disciplines.ListAll(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	taught := map[string][]string{}
	for _, d := range disciplines {
		seen := map[string]bool{}
		for _, class := range d.Classes {
			if class.Teacher == "" || seen[class.Teacher] {
				continue
			}
			seen[class.Teacher] = true
			taught[class.Teacher] = append(taught[class.Teacher], d.DisciplineID)
		}
	}

	out := make([]teacherView, 0, len(teachers))
	for _, t := range teachers {
		out = append(out, teacherView{
			TeacherID:   t.TeacherID,
			Name:        t.Name,
			Disciplines: taught[t.Name],
		})
	}
	c.JSON(http.StatusOK, out)
}
