package cron

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noopJob struct{}

func (noopJob) Run() {}

func TestRegisterJobs(t *testing.T) {
	mgr := NewCronManager("0 30 3 * * *", noopJob{})
	require.NoError(t, mgr.RegisterJobs())
	assert.Equal(t, 1, mgr.Entries())

	disabled := NewCronManager("", noopJob{})
	require.NoError(t, disabled.RegisterJobs())
	assert.Zero(t, disabled.Entries())

	invalid := NewCronManager("every day", noopJob{})
	assert.Error(t, invalid.RegisterJobs())
}

func TestInitCronStartsAndStops(t *testing.T) {
	mgr := NewCronManager("*/5 * * * * *", noopJob{})
	require.NoError(t, InitCron(mgr))
	mgr.Stop()
}
