package alunoonline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/JG-OLIVEIRA/ccompuerj-progress-backend/lib/telemetry"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("scrapers/alunoonline")

var (
	ErrLoginFailed = errors.New("login failed: post-login anchor never appeared")
	// ErrDetailUnavailable marks a single course whose detail page marker
	// never showed up within the wait window. Callers skip the course.
	ErrDetailUnavailable = errors.New("detail page marker never appeared")
)

const curriculumLinkText = "Disciplinas do Currículo"

// State of the navigation session. The portal holds one logical page per
// login, so every transition below mutates shared session state and the
// client must never be used from more than one goroutine.
type State int

const (
	StateUnauthenticated State = iota
	StateListPage
	StateDetailPage
	StateClosed
)

type ClientOptions struct {
	BaseUrl string
	// wait window for login and the course list, defaults to 60s
	NavigationTimeout time.Duration
	// wait window for a single course's detail page, defaults to 8s
	DetailTimeout time.Duration
}

// Client drives one authenticated browsing session:
// Unauthenticated -> ListPage -> DetailPage -> ListPage -> ... -> Closed.
type Client struct {
	http          *resty.Client
	navTimeout    time.Duration
	detailTimeout time.Duration

	state    State
	listHref string
	listDoc  *goquery.Document
}

func NewClient(opts ClientOptions) (*Client, error) {
	if opts.NavigationTimeout == 0 {
		opts.NavigationTimeout = time.Minute
	}
	if opts.DetailTimeout == 0 {
		opts.DetailTimeout = 8 * time.Second
	}

	client := resty.New()
	client.SetBaseURL(opts.BaseUrl)
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	client.SetCookieJar(jar)
	client.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36")
	client.SetTimeout(opts.NavigationTimeout)

	telemetry.InstrumentResty(client, "scrapers/alunoonline/http")

	return &Client{
		http:          client,
		navTimeout:    opts.NavigationTimeout,
		detailTimeout: opts.DetailTimeout,
		state:         StateUnauthenticated,
	}, nil
}

func (c *Client) State() State {
	return c.state
}

func document(res *resty.Response) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
}

// Login submits the credential form and transitions to the course list.
// A missing post-login anchor is fatal for the whole run.
func (c *Client) Login(ctx context.Context, matricula, senha string) error {
	ctx, span := tracer.Start(ctx, "client:Login")
	defer span.End()

	if c.state != StateUnauthenticated {
		return fmt.Errorf("login from invalid session state %d", c.state)
	}

	ctx, cancel := context.WithTimeout(ctx, c.navTimeout)
	defer cancel()

	res, err := c.http.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"matricula": matricula,
			"senha":     senha,
			"confirmar": "confirmar",
		}).
		Post("/")
	if err != nil {
		span.SetStatus(codes.Error, "failed to submit credentials")
		return err
	}
	doc, err := document(res)
	if err != nil {
		span.SetStatus(codes.Error, "failed to parse post-login html")
		return err
	}

	anchors := doc.Find("a.LINKNAOSUB")
	if anchors.Length() == 0 {
		span.SetStatus(codes.Error, ErrLoginFailed.Error())
		return ErrLoginFailed
	}

	listHref := ""
	anchors.EachWithBreak(func(_ int, a *goquery.Selection) bool {
		if strings.Contains(a.Text(), curriculumLinkText) {
			listHref = a.AttrOr("href", "")
			return false
		}
		return true
	})
	if listHref == "" {
		err := fmt.Errorf("could not find %q link after login", curriculumLinkText)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	c.listHref = listHref

	if err := c.fetchList(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

func (c *Client) fetchList(ctx context.Context) error {
	res, err := c.http.R().
		SetContext(ctx).
		Get(c.listHref)
	if err != nil {
		return err
	}
	doc, err := document(res)
	if err != nil {
		return err
	}
	if doc.Find("tbody").Length() == 0 {
		return fmt.Errorf("course list never materialized")
	}

	c.listDoc = doc
	c.state = StateListPage
	return nil
}

// CourseList enumerates the data rows of the curriculum table. Rows with
// header cells or too few columns are skipped, not errors.
func (c *Client) CourseList(ctx context.Context) ([]CourseRow, error) {
	_, span := tracer.Start(ctx, "client:CourseList")
	defer span.End()

	if c.state != StateListPage {
		return nil, fmt.Errorf("course list from invalid session state %d", c.state)
	}
	return parseCourseRows(c.listDoc), nil
}

// OpenCourse navigates to one course's detail view and extracts it. The
// detail marker is re-polled until DetailTimeout elapses; running out of
// the window returns ErrDetailUnavailable so the caller can skip the course.
func (c *Client) OpenCourse(ctx context.Context, disciplineID string) (CourseDetail, error) {
	ctx, span := tracer.Start(ctx, "client:OpenCourse")
	defer span.End()

	if c.state != StateListPage {
		return CourseDetail{}, fmt.Errorf("open course from invalid session state %d", c.state)
	}

	deadline := time.Now().Add(c.detailTimeout)
	for {
		res, err := c.http.R().
			SetContext(ctx).
			SetFormData(map[string]string{
				"requisicao": "consultarDisciplina",
				"disciplina": disciplineID,
			}).
			Post(c.listHref)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to request detail page")
			return CourseDetail{}, err
		}
		doc, err := document(res)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to parse detail page html")
			return CourseDetail{}, err
		}

		if doc.Find(".divContentBlockHeader").Length() > 0 {
			c.state = StateDetailPage
			return ParseCourseDetail(doc), nil
		}

		if time.Now().After(deadline) {
			span.SetStatus(codes.Error, ErrDetailUnavailable.Error())
			return CourseDetail{}, fmt.Errorf("discipline %s: %w", disciplineID, ErrDetailUnavailable)
		}
		select {
		case <-ctx.Done():
			return CourseDetail{}, ctx.Err()
		case <-time.After(500 * time.Millisecond):
		}
	}
}

// BackToList returns from a detail page to the course list and re-checks
// its marker before the next course is processed.
func (c *Client) BackToList(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "client:BackToList")
	defer span.End()

	if c.state != StateDetailPage && c.state != StateListPage {
		return fmt.Errorf("back navigation from invalid session state %d", c.state)
	}
	err := c.fetchList(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

// Close releases the session resources. Safe to call on every exit path.
func (c *Client) Close() {
	c.state = StateClosed
	c.listDoc = nil
	c.http.GetClient().CloseIdleConnections()
}
