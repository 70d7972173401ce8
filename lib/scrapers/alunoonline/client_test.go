package alunoonline

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/JG-OLIVEIRA/ccompuerj-progress-backend/lib/telemetry"

	"github.com/stretchr/testify/require"
)

const loginPageHtml = `
<html><body>
<a class="LINKNAOSUB" href="/informes">Informes</a>
<a class="LINKNAOSUB" href="/lista">Disciplinas do Currículo</a>
</body></html>`

func newFakePortal(t testing.TB) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		if r.FormValue("matricula") == "201900000" && r.FormValue("senha") == "hunter2" {
			w.Write([]byte(loginPageHtml))
			return
		}
		w.Write([]byte(`<html><body>Matrícula ou senha inválida.</body></html>`))
	})
	mux.HandleFunc("/lista", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			w.Write([]byte(courseListHtml))
			return
		}
		if r.FormValue("requisicao") == "consultarDisciplina" && r.FormValue("disciplina") == "4627" {
			w.Write([]byte(courseDetailHtml))
			return
		}
		// a detail page whose content block never materializes
		w.Write([]byte(`<html><body>Carregando...</body></html>`))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func newTestClient(t testing.TB, baseUrl string) *Client {
	cleanup := telemetry.SetupForTesting(t, "test:scrapers/alunoonline")
	t.Cleanup(cleanup)

	client, err := NewClient(ClientOptions{
		BaseUrl:           baseUrl,
		NavigationTimeout: 10 * time.Second,
		DetailTimeout:     600 * time.Millisecond,
	})
	require.NoError(t, err)
	t.Cleanup(client.Close)
	return client
}

func TestClientSession(t *testing.T) {
	server := newFakePortal(t)
	client := newTestClient(t, server.URL)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	require.Equal(t, StateUnauthenticated, client.State())
	require.NoError(t, client.Login(ctx, "201900000", "hunter2"))
	require.Equal(t, StateListPage, client.State())

	rows, err := client.CourseList(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, "4627", rows[0].DisciplineID)
	require.Equal(t, "IME01-00508 Estruturas de Dados", rows[0].Name)
	require.Equal(t, "", rows[1].DisciplineID)

	detail, err := client.OpenCourse(ctx, "4627")
	require.NoError(t, err)
	require.Equal(t, StateDetailPage, client.State())
	require.Len(t, detail.Classes, 2)
	require.Len(t, detail.Requirements, 2)

	require.NoError(t, client.BackToList(ctx))
	require.Equal(t, StateListPage, client.State())

	client.Close()
	require.Equal(t, StateClosed, client.State())
}

func TestLoginFailed(t *testing.T) {
	server := newFakePortal(t)
	client := newTestClient(t, server.URL)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	err := client.Login(ctx, "201900000", "wrong")
	require.ErrorIs(t, err, ErrLoginFailed)
	require.Equal(t, StateUnauthenticated, client.State())
}

func TestOpenCourseUnavailable(t *testing.T) {
	server := newFakePortal(t)
	client := newTestClient(t, server.URL)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	require.NoError(t, client.Login(ctx, "201900000", "hunter2"))

	_, err := client.OpenCourse(ctx, "9999")
	require.ErrorIs(t, err, ErrDetailUnavailable)

	// the session can recover and keep processing other courses
	require.NoError(t, client.BackToList(ctx))
	_, err = client.OpenCourse(ctx, "4627")
	require.NoError(t, err)
}
