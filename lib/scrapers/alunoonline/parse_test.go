package alunoonline

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestParseClass(t *testing.T) {
	block := "TURMA: 1 Preferencial: SIM Tempos: SEG M1 M2 QUA M1 M2 " +
		"Local das Aulas: RAV 62 Docente: MARIA SILVA " +
		"Vagas Atualizadas da Turma Oferecidas Ocupadas UERJ 45 40 Vestibular 5 3 " +
		"Vagas para Solicitação de Inscrição Oferecidas Total Preferencial UERJ 10 8 6 Vestibular 2 1 0"

	expected := Class{
		Number:                        1,
		Preferential:                  "SIM",
		Times:                         "SEG M1 M2 QUA M1 M2",
		Teacher:                       "MARIA SILVA",
		OfferedUerj:                   45,
		OccupiedUerj:                  40,
		OfferedVestibular:             5,
		OccupiedVestibular:            3,
		RequestUerjOffered:            10,
		RequestUerjTotal:              8,
		RequestUerjPreferential:       6,
		RequestVestibularOffered:      2,
		RequestVestibularTotal:        1,
		RequestVestibularPreferential: 0,
	}

	diff := cmp.Diff(expected, ParseClass(block))
	if diff != "" {
		t.Fatal(diff)
	}
}

func TestParseClassPartialBlock(t *testing.T) {
	// no seat tables at all, every counter stays zero
	block := "TURMA: 10 Preferencial: NÃO Tempos: TER M3 M4 Docente: MARIA SILVA"

	expected := Class{
		Number:       10,
		Preferential: "NÃO",
		Times:        "TER M3 M4",
		Teacher:      "MARIA SILVA",
	}

	diff := cmp.Diff(expected, ParseClass(block))
	if diff != "" {
		t.Fatal(diff)
	}
}

func TestParseClassEmptyBlock(t *testing.T) {
	diff := cmp.Diff(Class{}, ParseClass("Conteúdo sem nenhum campo reconhecido"))
	if diff != "" {
		t.Fatal(diff)
	}
}

const courseListHtml = `
<html><body>
<table><tbody>
	<tr>
		<th>Disciplina</th><th>Período</th><th>Créd. Obtidos</th><th>Tipo</th>
		<th>Ramificação</th><th>Créditos</th><th>Carga Horária</th>
		<th>Tranca Créditos</th><th>Turma no Período</th>
	</tr>
	<tr>
		<td><a class="LINKNAOSUB" onclick="javascript:consultarDisciplina(output, 4627)">IME01-00508 Estruturas de Dados</a></td>
		<td>3º</td>
		<td>0</td>
		<td>Obrigatória</td>
		<td>Comum</td>
		<td>4</td>
		<td>60</td>
		<td>Não</td>
		<td>SIM</td>
	</tr>
	<tr>
		<td>IME04-99999 Atividade sem página de detalhe</td>
		<td>4º</td>
		<td>0</td>
		<td>Eletiva</td>
		<td>Comum</td>
		<td>2</td>
		<td>30</td>
		<td>Não</td>
		<td>NÃO</td>
	</tr>
	<tr><td>linha incompleta</td><td>x</td></tr>
</tbody></table>
</body></html>`

func TestParseCourseRows(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(courseListHtml))
	require.NoError(t, err)

	expected := []CourseRow{
		{
			DisciplineID:  "4627",
			Name:          "IME01-00508 Estruturas de Dados",
			Period:        "3º",
			Type:          "Obrigatória",
			Ramification:  "Comum",
			Credits:       4,
			TotalHours:    60,
			CreditLock:    "Não",
			ClassInPeriod: "SIM",
		},
		{
			DisciplineID:  "",
			Name:          "IME04-99999 Atividade sem página de detalhe",
			Period:        "4º",
			Type:          "Eletiva",
			Ramification:  "Comum",
			Credits:       2,
			TotalHours:    30,
			CreditLock:    "Não",
			ClassInPeriod: "NÃO",
		},
	}

	diff := cmp.Diff(expected, parseCourseRows(doc))
	if diff != "" {
		t.Fatal(diff)
	}
}

const courseDetailHtml = `
<html><body>
<div class="divContentBlock">
	<div class="divContentBlockHeader">Requisitos da Disciplina</div>
	<div class="divContentBlockBody">
		<div style="margin-bottom: 5px">
			<div><b>Pré-Requisito:</b></div>
			<div>IME02-01389 Cálculo I</div>
		</div>
		<div style="margin-bottom: 5px">
			<div><b>Co-Requisito:</b></div>
			<div>IME01-00001 Algoritmos</div>
		</div>
	</div>
</div>
<div class="divContentBlock">
	<div class="divContentBlockHeader">Turmas da Disciplina</div>
	<div class="divContentBlockBody">
		<table>
			<tr><td><div>TURMA: 1   Preferencial: SIM
				Tempos: SEG M1 M2 Docente: MARIA SILVA</div></td></tr>
			<tr><td><div>TURMA: 2 Preferencial: NÃO Tempos: TER M3 M4 Docente: JOÃO SOUZA</div></td></tr>
		</table>
	</div>
</div>
</body></html>`

func TestParseCourseDetail(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(courseDetailHtml))
	require.NoError(t, err)

	expected := CourseDetail{
		Requirements: []Requirement{
			{Type: "Pré-Requisito", Description: "IME02-01389 Cálculo I"},
			{Type: "Co-Requisito", Description: "IME01-00001 Algoritmos"},
		},
		Classes: []Class{
			{Number: 1, Preferential: "SIM", Times: "SEG M1 M2", Teacher: "MARIA SILVA"},
			{Number: 2, Preferential: "NÃO", Times: "TER M3 M4", Teacher: "JOÃO SOUZA"},
		},
	}

	diff := cmp.Diff(expected, ParseCourseDetail(doc))
	if diff != "" {
		t.Fatal(diff)
	}
}

func TestParseCourseDetailNoRequirements(t *testing.T) {
	html := `
<html><body>
<div class="divContentBlock">
	<div class="divContentBlockHeader">Requisitos da Disciplina</div>
	<div class="divContentBlockBody">Esta Disciplina não possui requisito para inscrição.</div>
</div>
<div class="divContentBlock">
	<div class="divContentBlockHeader">Turma da Disciplina</div>
	<div class="divContentBlockBody">
		<table>
			<tr><td><div>TURMA: 1 Preferencial: SIM Docente: MARIA SILVA</div></td></tr>
		</table>
	</div>
</div>
</body></html>`

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)

	detail := ParseCourseDetail(doc)
	require.Nil(t, detail.Requirements)
	require.Len(t, detail.Classes, 1)
	require.Equal(t, "MARIA SILVA", detail.Classes[0].Teacher)
}
