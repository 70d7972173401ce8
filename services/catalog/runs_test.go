package catalog

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunRegistrySingleActiveRunPerKind(t *testing.T) {
	registry := NewRunRegistry()

	scrape, err := registry.Begin(RunScrape)
	require.NoError(t, err)

	_, err = registry.Begin(RunScrape)
	require.ErrorIs(t, err, ErrRunActive)

	// a different kind is admitted concurrently
	enrichment, err := registry.Begin(RunEnrichment)
	require.NoError(t, err)

	registry.complete(scrape.Id)
	_, err = registry.Begin(RunScrape)
	require.NoError(t, err)

	registry.fail(enrichment.Id, errors.New("document unreachable"))
	status, ok := registry.Get(enrichment.Id)
	require.True(t, ok)
	require.Equal(t, RunFailed, status.State)
	require.Equal(t, "document unreachable", status.Error)
	require.NotNil(t, status.FinishedAt)
}

func TestRunRegistryGetUnknown(t *testing.T) {
	registry := NewRunRegistry()
	_, ok := registry.Get("nope")
	require.False(t, ok)
}

func TestRunRegistryCounters(t *testing.T) {
	registry := NewRunRegistry()

	run, err := registry.Begin(RunScrape)
	require.NoError(t, err)

	registry.noteProcessed(run.Id)
	registry.noteProcessed(run.Id)
	registry.noteSkipped(run.Id)
	registry.complete(run.Id)

	status, ok := registry.Get(run.Id)
	require.True(t, ok)
	require.Equal(t, RunCompleted, status.State)
	require.Equal(t, 2, status.CoursesProcessed)
	require.Equal(t, 1, status.CoursesSkipped)
}
