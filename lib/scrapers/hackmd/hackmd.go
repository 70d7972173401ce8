package hackmd

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/JG-OLIVEIRA/ccompuerj-progress-backend/lib/telemetry"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("scrapers/hackmd")

// Link is one community-maintained chat group entry: a course section
// heading, the class number inside it and the group URL.
type Link struct {
	Section     string
	ClassNumber int
	Url         string
}

var (
	headingRegex   = regexp.MustCompile(`(?m)^###\s+(.+)$`)
	classLinkRegex = regexp.MustCompile(`-\s*\*\*Turma\s+(\d+):\*\*\s*\[[^\]]*\]\((https?://chat\.whatsapp\.com/[^)\s]+)\)`)
)

// ExtractLinks finds every level-3 heading section and, within each, the
// "Turma N" bullet lines carrying a chat group URL. Sections and lines not
// matching the expected shape are silently skipped, the document is
// community-edited markdown with no schema.
func ExtractLinks(markdown string) []Link {
	headings := headingRegex.FindAllStringSubmatchIndex(markdown, -1)

	var links []Link
	for i, h := range headings {
		section := strings.TrimSpace(markdown[h[2]:h[3]])

		start := h[1]
		end := len(markdown)
		if i+1 < len(headings) {
			end = headings[i+1][0]
		}
		content := markdown[start:end]
		// a horizontal rule terminates the section early
		if cut := strings.Index(content, "\n---"); cut >= 0 {
			content = content[:cut]
		}

		for _, m := range classLinkRegex.FindAllStringSubmatch(content, -1) {
			number, err := strconv.Atoi(m[1])
			if err != nil {
				continue
			}
			links = append(links, Link{
				Section:     section,
				ClassNumber: number,
				Url:         m[2],
			})
		}
	}
	return links
}

type Client struct {
	http *resty.Client
	url  string
}

// NewClient fetches the public markdown document at the given download URL.
func NewClient(url string) *Client {
	client := resty.New()
	client.SetTimeout(30 * time.Second)
	telemetry.InstrumentResty(client, "scrapers/hackmd/http")

	return &Client{http: client, url: url}
}

// Fetch downloads the raw markdown. Any non-success status aborts the
// caller's enrichment pass.
func (c *Client) Fetch(ctx context.Context) (string, error) {
	ctx, span := tracer.Start(ctx, "client:Fetch")
	defer span.End()

	res, err := c.http.R().
		SetContext(ctx).
		Get(c.url)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch markdown")
		return "", err
	}
	if res.IsError() {
		err := fmt.Errorf("failed to fetch markdown: %s", res.Status())
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}
	return string(res.Body()), nil
}
