package alunoonline

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/JG-OLIVEIRA/ccompuerj-progress-backend/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

const noRequirementsNotice = "Esta Disciplina não possui requisito para inscrição."

var (
	classNumberRegex  = regexp.MustCompile(`TURMA:\s*(\d+)`)
	preferentialRegex = regexp.MustCompile(`Preferencial:\s*(SIM|NÃO)`)
	// the times field runs until the next recognized label, RE2 has no
	// lookahead so the label is consumed outside the capture group
	timesRegex         = regexp.MustCompile(`Tempos:\s*([A-ZÁÉÍÓÚÃÕÇ0-9\s\w\.\-]+?)\s*(?:Local das Aulas:|Docente:)`)
	teacherRegex       = regexp.MustCompile(`(?i)Docente:\s*([A-ZÁÉÍÓÚÃÕÇ\s\w\.\-]+)`)
	trailingSeatsRegex = regexp.MustCompile(`\s*Vagas.*$`)
	updatedSeatsRegex  = regexp.MustCompile(`(?s)Vagas Atualizadas da Turma.*?UERJ\s*(\d+)\s*(\d+).*?Vestibular\s*(\d+)\s*(\d+)`)
	requestSeatsRegex  = regexp.MustCompile(`(?s)Vagas para Solicitação de Inscrição.*?UERJ\s*(\d+)\s*(\d+)\s*(\d+).*?Vestibular\s*(\d+)\s*(\d+)\s*(\d+)`)
	disciplineIdRegex  = regexp.MustCompile(`consultarDisciplina\(output,\s*(\d+)\)`)
)

func atoi(s string) int {
	n, _ := strconv.Atoi(strings.TrimSpace(s))
	return n
}

// ParseClass extracts a Class from the raw text block of a single offering.
// Unmatched patterns populate defaults, the markup is not contractually
// structured so a partial match is not an error.
func ParseClass(block string) Class {
	var c Class

	if m := classNumberRegex.FindStringSubmatch(block); m != nil {
		c.Number = atoi(m[1])
	}
	if m := preferentialRegex.FindStringSubmatch(block); m != nil {
		c.Preferential = m[1]
	}
	if m := timesRegex.FindStringSubmatch(block); m != nil {
		c.Times = strings.TrimSpace(m[1])
	}
	if m := teacherRegex.FindStringSubmatch(block); m != nil {
		c.Teacher = trailingSeatsRegex.ReplaceAllString(strings.TrimSpace(m[1]), "")
	}
	if m := updatedSeatsRegex.FindStringSubmatch(block); m != nil {
		c.OfferedUerj = atoi(m[1])
		c.OccupiedUerj = atoi(m[2])
		c.OfferedVestibular = atoi(m[3])
		c.OccupiedVestibular = atoi(m[4])
	}
	if m := requestSeatsRegex.FindStringSubmatch(block); m != nil {
		c.RequestUerjOffered = atoi(m[1])
		c.RequestUerjTotal = atoi(m[2])
		c.RequestUerjPreferential = atoi(m[3])
		c.RequestVestibularOffered = atoi(m[4])
		c.RequestVestibularTotal = atoi(m[5])
		c.RequestVestibularPreferential = atoi(m[6])
	}

	return c
}

func parseCourseRows(doc *goquery.Document) []CourseRow {
	var rows []CourseRow
	doc.Find("tbody tr").Each(func(_ int, row *goquery.Selection) {
		// rows with header cells or too few columns are not data rows
		if row.Find("th").Length() > 0 {
			return
		}
		tds := row.Find("td")
		if tds.Length() < 9 {
			return
		}

		id := ""
		onclick := tds.Eq(0).Find("a.LINKNAOSUB").AttrOr("onclick", "")
		if m := disciplineIdRegex.FindStringSubmatch(onclick); m != nil {
			id = m[1]
		}

		rows = append(rows, CourseRow{
			DisciplineID:  id,
			Name:          strings.TrimSpace(tds.Eq(0).Text()),
			Period:        strings.TrimSpace(tds.Eq(1).Text()),
			Type:          strings.TrimSpace(tds.Eq(3).Text()),
			Ramification:  strings.TrimSpace(tds.Eq(4).Text()),
			Credits:       atoi(tds.Eq(5).Text()),
			TotalHours:    atoi(tds.Eq(6).Text()),
			CreditLock:    strings.TrimSpace(tds.Eq(7).Text()),
			ClassInPeriod: strings.TrimSpace(tds.Eq(8).Text()),
		})
	})
	return rows
}

func parseRequirements(doc *goquery.Document) []Requirement {
	var body *goquery.Selection
	doc.Find("div.divContentBlock").EachWithBreak(func(_ int, block *goquery.Selection) bool {
		header := block.Find(".divContentBlockHeader").First()
		if strings.Contains(header.Text(), "Requisitos da Disciplina") {
			body = block.Find(".divContentBlockBody").First()
			return false
		}
		return true
	})
	if body == nil || body.Length() == 0 {
		return nil
	}
	if strings.Contains(body.Text(), noRequirementsNotice) {
		return nil
	}

	requirementType := func(sel *goquery.Selection) string {
		t := strings.TrimSpace(strings.ReplaceAll(sel.Text(), ":", ""))
		if t == "" {
			return "Requirement"
		}
		return t
	}

	var requirements []Requirement
	lines := body.Find(`div[style*="margin-bottom"]`)
	if lines.Length() > 0 {
		lines.Each(func(_ int, line *goquery.Selection) {
			label := line.Find("b").First()
			requirements = append(requirements, Requirement{
				Type:        requirementType(label),
				Description: strings.TrimSpace(label.Parent().Next().Text()),
			})
		})
		return requirements
	}

	// no line-level structure, fall back to one pair for the whole block
	label := body.Find("b").First()
	description := strings.TrimSpace(label.Parent().Next().Text())
	if description == "" {
		description = strings.TrimSpace(body.Text())
	}
	return []Requirement{{
		Type:        requirementType(label),
		Description: description,
	}}
}

func parseClassBlocks(doc *goquery.Document) []string {
	var header *goquery.Selection
	doc.Find(".divContentBlockHeader").EachWithBreak(func(_ int, h *goquery.Selection) bool {
		text := h.Text()
		if strings.Contains(text, "Turmas da Disciplina") || strings.Contains(text, "Turma da Disciplina") {
			header = h
			return false
		}
		return true
	})
	if header == nil {
		return nil
	}

	table := header.Parent().Find("table").First()
	if table.Length() == 0 {
		return nil
	}

	var blocks []string
	table.Find("tr").Each(func(_ int, row *goquery.Selection) {
		div := row.Find("td").First().Find("div").First()
		if div.Length() == 0 {
			return
		}
		blocks = append(blocks, htmlutil.CollapseSpace(div.Text()))
	})
	return blocks
}

// ParseCourseDetail extracts the requirements list and every class offering
// from a course detail page.
func ParseCourseDetail(doc *goquery.Document) CourseDetail {
	detail := CourseDetail{
		Requirements: parseRequirements(doc),
	}
	for _, block := range parseClassBlocks(doc) {
		detail.Classes = append(detail.Classes, ParseClass(block))
	}
	return detail
}
