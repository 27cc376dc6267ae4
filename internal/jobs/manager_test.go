package jobs_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/phrazzld/spelldeck-api/internal/domain"
	"github.com/phrazzld/spelldeck-api/internal/jobs"
	"github.com/phrazzld/spelldeck-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newManager(t *testing.T) *jobs.Manager {
	t.Helper()
	l, _ := logger.GetTestLogger(t)
	return jobs.NewManager(l)
}

func mustGet(t *testing.T, m *jobs.Manager, id string) domain.Job {
	t.Helper()
	job, ok := m.Get(id)
	require.True(t, ok, "job %s should exist", id)
	return job
}

func TestCreate(t *testing.T) {
	m := newManager(t)

	id := m.Create()
	require.NotEmpty(t, id)

	job := mustGet(t, m, id)
	assert.Equal(t, id, job.ID)
	assert.Equal(t, domain.JobStatusProcessing, job.Status)
	assert.Zero(t, job.TotalItems)
	assert.Zero(t, job.ProcessedItems)
	assert.Empty(t, job.Items)
	assert.Empty(t, job.Errors)
	assert.False(t, job.CreatedAt.IsZero())

	other := m.Create()
	assert.NotEqual(t, id, other)
	assert.Equal(t, 2, m.Len())
}

func TestCompletesAfterLastOutcome(t *testing.T) {
	tests := []struct {
		name   string
		first  string
		second string
	}{
		{"success then error", "", "model unavailable"},
		{"error then success", "model unavailable", ""},
		{"both succeed", "", ""},
		{"both fail", "bad response", "timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newManager(t)
			id := m.Create()
			m.SetTotalItems(id, 2)

			m.RecordOutcome(id, "Apple", "Apple.pptx", tt.first)
			assert.Equal(t, domain.JobStatusProcessing, mustGet(t, m, id).Status)

			m.RecordOutcome(id, "Banana", "Banana.pptx", tt.second)
			job := mustGet(t, m, id)
			assert.Equal(t, domain.JobStatusCompleted, job.Status)
			assert.Equal(t, 2, job.ProcessedItems)
			assert.Len(t, job.Items, 2)
		})
	}
}

func TestRecordOutcomeErrorTakesPrecedence(t *testing.T) {
	m := newManager(t)
	id := m.Create()
	m.SetTotalItems(id, 3)

	m.RecordOutcome(id, "Apple", "Apple.pptx", "render failed")

	job := mustGet(t, m, id)
	require.Len(t, job.Items, 1)
	item := job.Items[0]
	assert.Equal(t, domain.ItemStatusError, item.Status)
	assert.Equal(t, "render failed", item.ErrorMessage)
	assert.Empty(t, item.Filename)
	assert.Empty(t, item.DownloadURL)
	assert.Equal(t, []string{"render failed"}, job.Errors)
}

func TestRecordOutcomeSuccessBuildsDownloadURL(t *testing.T) {
	m := newManager(t)
	id := m.Create()
	m.SetTotalItems(id, 2)

	m.RecordOutcome(id, "Apple", "Apple.pptx", "")
	m.RecordOutcome(id, "Ice Cream", "Ice Cream.pptx", "")

	job := mustGet(t, m, id)
	require.Len(t, job.Items, 2)
	assert.Equal(t, domain.ItemResult{
		Word:        "Apple",
		Status:      domain.ItemStatusSuccess,
		Filename:    "Apple.pptx",
		DownloadURL: "/api/download/" + id + "/Apple.pptx",
	}, job.Items[0])
	assert.Equal(t, "/api/download/"+id+"/Ice%20Cream.pptx", job.Items[1].DownloadURL)
	assert.Empty(t, job.Errors)
}

func TestZeroTotalNeverCompletesFromProgress(t *testing.T) {
	m := newManager(t)
	id := m.Create()

	m.RecordOutcome(id, "Apple", "Apple.pptx", "")
	m.RecordOutcome(id, "Banana", "Banana.pptx", "")

	job := mustGet(t, m, id)
	assert.Equal(t, domain.JobStatusProcessing, job.Status)
	assert.Equal(t, 2, job.ProcessedItems)
	assert.Zero(t, job.TotalItems)
}

func TestSetTotalItems(t *testing.T) {
	t.Run("late total completes immediately", func(t *testing.T) {
		m := newManager(t)
		id := m.Create()
		m.RecordOutcome(id, "Apple", "Apple.pptx", "")
		m.RecordOutcome(id, "Banana", "Banana.pptx", "")

		m.SetTotalItems(id, 2)

		job := mustGet(t, m, id)
		assert.Equal(t, domain.JobStatusCompleted, job.Status)
		assert.Equal(t, 2, job.TotalItems)
	})

	t.Run("total below recorded count is raised", func(t *testing.T) {
		m := newManager(t)
		id := m.Create()
		for i := 0; i < 3; i++ {
			m.RecordOutcome(id, fmt.Sprintf("w%d", i), "", "")
		}

		m.SetTotalItems(id, 1)

		job := mustGet(t, m, id)
		assert.Equal(t, 3, job.TotalItems)
		assert.Equal(t, 3, job.ProcessedItems)
		assert.Equal(t, domain.JobStatusCompleted, job.Status)
	})

	t.Run("negative total is treated as zero", func(t *testing.T) {
		m := newManager(t)
		id := m.Create()

		m.SetTotalItems(id, -5)

		job := mustGet(t, m, id)
		assert.Zero(t, job.TotalItems)
		assert.Equal(t, domain.JobStatusProcessing, job.Status)
	})

	t.Run("terminal job ignores new total", func(t *testing.T) {
		m := newManager(t)
		id := m.Create()
		m.Fail(id, "no input")

		m.SetTotalItems(id, 4)

		assert.Zero(t, mustGet(t, m, id).TotalItems)
	})
}

func TestTerminalStatesAreFinal(t *testing.T) {
	t.Run("completed stays completed", func(t *testing.T) {
		m := newManager(t)
		id := m.Create()
		m.SetTotalItems(id, 1)
		m.RecordOutcome(id, "Apple", "Apple.pptx", "")

		m.Fail(id, "late failure")
		m.RecordOutcome(id, "Extra", "Extra.pptx", "")

		job := mustGet(t, m, id)
		assert.Equal(t, domain.JobStatusCompleted, job.Status)
		assert.Empty(t, job.Error)
		assert.Equal(t, 1, job.ProcessedItems)
		assert.Len(t, job.Items, 1)
	})

	t.Run("failed stays failed with first reason", func(t *testing.T) {
		m := newManager(t)
		id := m.Create()
		m.SetTotalItems(id, 1)

		m.Fail(id, "input must contain a 'Word' column")
		m.Fail(id, "second reason")
		m.RecordOutcome(id, "Apple", "Apple.pptx", "")

		job := mustGet(t, m, id)
		assert.Equal(t, domain.JobStatusFailed, job.Status)
		assert.Equal(t, "input must contain a 'Word' column", job.Error)
		assert.Zero(t, job.ProcessedItems)
		assert.Empty(t, job.Items)
	})

	t.Run("fail overrides processing at any point", func(t *testing.T) {
		m := newManager(t)
		id := m.Create()
		m.SetTotalItems(id, 3)
		m.RecordOutcome(id, "Apple", "Apple.pptx", "")

		m.Fail(id, "driver crashed")

		job := mustGet(t, m, id)
		assert.Equal(t, domain.JobStatusFailed, job.Status)
		assert.Equal(t, 1, job.ProcessedItems)
	})
}

func TestUnknownJobMutationsAreIgnored(t *testing.T) {
	m := newManager(t)
	known := m.Create()

	assert.NotPanics(t, func() {
		m.SetTotalItems("missing", 3)
		m.RecordOutcome("missing", "Apple", "Apple.pptx", "")
		m.Fail("missing", "boom")
	})

	_, ok := m.Get("missing")
	assert.False(t, ok)
	assert.Equal(t, 1, m.Len())
	assert.Equal(t, domain.JobStatusProcessing, mustGet(t, m, known).Status)
}

func TestGetReturnsIsolatedSnapshot(t *testing.T) {
	m := newManager(t)
	id := m.Create()
	m.SetTotalItems(id, 2)
	m.RecordOutcome(id, "Apple", "", "timeout")

	snap := mustGet(t, m, id)
	snap.Items[0].Word = "mutated"
	snap.Errors[0] = "mutated"
	snap.Items = append(snap.Items, domain.ItemResult{Word: "ghost"})

	again := mustGet(t, m, id)
	assert.Equal(t, "Apple", again.Items[0].Word)
	assert.Equal(t, "timeout", again.Errors[0])
	assert.Len(t, again.Items, 1)
}

func TestConcurrentOutcomes(t *testing.T) {
	const total = 200

	m := newManager(t)
	id := m.Create()
	m.SetTotalItems(id, total)

	var writers sync.WaitGroup
	for i := 0; i < total; i++ {
		writers.Add(1)
		go func(i int) {
			defer writers.Done()
			errMsg := ""
			if i%5 == 0 {
				errMsg = "failed"
			}
			m.RecordOutcome(id, fmt.Sprintf("word-%d", i), fmt.Sprintf("word-%d.pptx", i), errMsg)
		}(i)
	}

	done := make(chan struct{})
	var reader sync.WaitGroup
	reader.Add(1)
	go func() {
		defer reader.Done()
		last := 0
		for {
			select {
			case <-done:
				return
			default:
			}
			job, ok := m.Get(id)
			if !assert.True(t, ok) {
				return
			}
			assert.GreaterOrEqual(t, job.ProcessedItems, last, "processed must not decrease")
			assert.LessOrEqual(t, job.ProcessedItems, job.TotalItems)
			assert.Len(t, job.Items, job.ProcessedItems)
			if job.Status == domain.JobStatusCompleted {
				assert.Equal(t, total, job.ProcessedItems)
			}
			last = job.ProcessedItems
		}
	}()

	writers.Wait()
	close(done)
	reader.Wait()

	job := mustGet(t, m, id)
	assert.Equal(t, domain.JobStatusCompleted, job.Status)
	assert.Equal(t, total, job.ProcessedItems)
	assert.Len(t, job.Items, total)
	assert.Len(t, job.Errors, total/5)
	assert.Equal(t, total-total/5, job.SuccessCount())
}

func TestDownloadURL(t *testing.T) {
	assert.Equal(t, "/api/download/abc/Apple.pptx", jobs.DownloadURL("abc", "Apple.pptx"))
	assert.Equal(t, "/api/download/abc/Hot%20Dog.pptx", jobs.DownloadURL("abc", "Hot Dog.pptx"))
}
