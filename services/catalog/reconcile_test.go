package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func sampleDiscipline() *Discipline {
	return &Discipline{
		DisciplineID:  "4627",
		Name:          "IME01-00508 Estruturas de Dados",
		Period:        "3º",
		Type:          "Obrigatória",
		Ramification:  "Comum",
		Credits:       4,
		TotalHours:    60,
		CreditLock:    "Não",
		ClassInPeriod: "SIM",
		Requirements: []Requirement{
			{Type: "Pré-Requisito", Description: "IME02-01389 Cálculo I"},
		},
		Classes: []Class{
			{Number: 1, Preferential: "SIM", Times: "SEG M1 M2", Teacher: "MARIA SILVA", OfferedUerj: 45, OccupiedUerj: 40},
			{Number: 2, Preferential: "NÃO", Times: "TER M3 M4", Teacher: "JOÃO SOUZA"},
		},
	}
}

func TestUpsertDisciplineInsertThenNoChange(t *testing.T) {
	service, disciplines, _ := setup(t, staticLinkSource{}, PortalOptions{})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	outcome, err := service.UpsertDiscipline(ctx, sampleDiscipline())
	require.NoError(t, err)
	require.Equal(t, ResultInserted, outcome.Result)

	// an identical re-scrape must not write anything
	outcome, err = service.UpsertDiscipline(ctx, sampleDiscipline())
	require.NoError(t, err)
	require.Equal(t, ResultNoChange, outcome.Result)
	require.Equal(t, 0, disciplines.PatchCalls())
}

func TestUpsertDisciplinePatchesOnlyChangedFields(t *testing.T) {
	service, disciplines, _ := setup(t, staticLinkSource{}, PortalOptions{})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	_, err := service.UpsertDiscipline(ctx, sampleDiscipline())
	require.NoError(t, err)

	next := sampleDiscipline()
	next.Credits = 6
	next.ClassInPeriod = "NÃO"

	outcome, err := service.UpsertDiscipline(ctx, next)
	require.NoError(t, err)
	require.Equal(t, ResultUpdated, outcome.Result)
	require.ElementsMatch(t, []string{"credits", "classInPeriod"}, outcome.ChangedFields)

	stored, err := disciplines.FindByKey(ctx, "4627")
	require.NoError(t, err)
	require.Equal(t, 6, stored.Credits)
	require.Equal(t, "NÃO", stored.ClassInPeriod)
	require.Equal(t, 1, disciplines.PatchCalls())
}

func TestUpsertDisciplinePreservesWhatsappGroups(t *testing.T) {
	service, disciplines, _ := setup(t, staticLinkSource{}, PortalOptions{})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	_, err := service.UpsertDiscipline(ctx, sampleDiscipline())
	require.NoError(t, err)

	matched, err := service.PatchWhatsappGroup(ctx, "4627", 1, "https://chat.whatsapp.com/AAA111")
	require.NoError(t, err)
	require.True(t, matched)

	// a re-scrape never carries group links, yet the curated link survives
	outcome, err := service.UpsertDiscipline(ctx, sampleDiscipline())
	require.NoError(t, err)
	require.Equal(t, ResultNoChange, outcome.Result)

	stored, err := disciplines.FindByKey(ctx, "4627")
	require.NoError(t, err)
	require.Equal(t, "https://chat.whatsapp.com/AAA111", stored.Classes[0].WhatsappGroup)
	require.Equal(t, "", stored.Classes[1].WhatsappGroup)
}

func TestUpsertDisciplinePreservesGroupsAcrossClassChanges(t *testing.T) {
	service, disciplines, _ := setup(t, staticLinkSource{}, PortalOptions{})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	_, err := service.UpsertDiscipline(ctx, sampleDiscipline())
	require.NoError(t, err)

	_, err = service.PatchWhatsappGroup(ctx, "4627", 2, "https://chat.whatsapp.com/BBB222")
	require.NoError(t, err)

	next := sampleDiscipline()
	next.Classes[1].Teacher = "CARLA LIMA"

	outcome, err := service.UpsertDiscipline(ctx, next)
	require.NoError(t, err)
	require.Equal(t, ResultUpdated, outcome.Result)
	require.Equal(t, []string{"classes"}, outcome.ChangedFields)

	stored, err := disciplines.FindByKey(ctx, "4627")
	require.NoError(t, err)
	require.Equal(t, "CARLA LIMA", stored.Classes[1].Teacher)
	require.Equal(t, "https://chat.whatsapp.com/BBB222", stored.Classes[1].WhatsappGroup)
}

func TestCarryWhatsappGroups(t *testing.T) {
	existing := []Class{
		{Number: 1, WhatsappGroup: "https://chat.whatsapp.com/AAA111"},
		{Number: 2},
	}
	next := []Class{
		{Number: 1},
		{Number: 2},
		{Number: 3},
	}

	expected := []Class{
		{Number: 1, WhatsappGroup: "https://chat.whatsapp.com/AAA111"},
		{Number: 2},
		{Number: 3},
	}

	diff := cmp.Diff(expected, carryWhatsappGroups(next, existing))
	if diff != "" {
		t.Fatal(diff)
	}

	// a freshly scraped link wins over the stored one
	next[0].WhatsappGroup = "https://chat.whatsapp.com/NEW"
	merged := carryWhatsappGroups(next, existing)
	require.Equal(t, "https://chat.whatsapp.com/NEW", merged[0].WhatsappGroup)
}
