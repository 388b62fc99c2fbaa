package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DLXHub/API/internal/models"
)

func TestRunnerProcessesDueJobs(t *testing.T) {
	handler := &fakeHandler{}
	svc, _ := newTestService(t, HandlerMap{models.JobTypeGenerateSitemap: handler})

	_, err := svc.Create(context.Background(), CreateJobInput{
		Name:             "sitemap",
		Type:             models.JobTypeGenerateSitemap,
		ScheduleType:     models.JobScheduleRunOnce,
		StartImmediately: true,
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	runner := NewRunner(svc, 10*time.Millisecond, zerolog.Nop())

	done := make(chan struct{})
	go func() {
		runner.Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return handler.callCount() > 0 },
		2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("runner did not stop on context cancellation")
	}
}

func TestRunnerDefaultsInterval(t *testing.T) {
	runner := NewRunner(nil, 0, zerolog.Nop())
	assert.Equal(t, 30*time.Second, runner.interval)
}
