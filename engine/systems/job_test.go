package systems

import (
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestNewJobSystemErrors(t *testing.T) {
	_, err := NewJobSystem(0, 1)
	assert.ErrorIs(t, err, ErrNoWorkers)
	_, err = NewJobSystem(1, -1)
	assert.ErrorIs(t, err, ErrNegativeChannelSize)
}

func drain(t *testing.T, js *JobSystem) {
	t.Helper()
	require.Eventually(t, func() bool {
		js.Update()
		return js.Pending() == 0
	}, 5*time.Second, time.Millisecond)
}

func TestJobsCompleteOnUpdate(t *testing.T) {
	js, err := NewJobSystem(4, 8)
	require.NoError(t, err)
	defer js.Shutdown()

	var got []int
	var failures []error
	for i := 0; i < 20; i++ {
		i := i
		require.NoError(t, js.Submit(JobTask{
			Name:        "square",
			InputParams: i,
			OnStart: func(p interface{}) (interface{}, error) {
				n := p.(int)
				if n == 13 {
					return nil, errors.New("unlucky")
				}
				return n * n, nil
			},
			OnComplete: func(r interface{}) { got = append(got, r.(int)) },
			OnFailure:  func(err error) { failures = append(failures, err) },
		}))
	}

	drain(t, js)
	sort.Ints(got)
	assert.Len(t, got, 19)
	assert.Equal(t, 0, got[0])
	assert.Equal(t, 19*19, got[18])
	require.Len(t, failures, 1)
	assert.EqualError(t, failures[0], "unlucky")
}

func TestResultsSpillOver(t *testing.T) {
	js, err := NewJobSystem(2, 0)
	require.NoError(t, err)

	count := 0
	for i := 0; i < MaxJobResults+10; i++ {
		require.NoError(t, js.Submit(JobTask{
			OnStart:    func(interface{}) (interface{}, error) { return nil, nil },
			OnComplete: func(interface{}) { count++ },
		}))
	}
	require.NoError(t, js.Shutdown())

	assert.Equal(t, MaxJobResults+10, js.Update())
	assert.Equal(t, MaxJobResults+10, count)
	assert.Equal(t, 0, js.Pending())
}

func TestSubmitAfterShutdown(t *testing.T) {
	js, err := NewJobSystem(1, 1)
	require.NoError(t, err)
	require.NoError(t, js.Shutdown())
	require.NoError(t, js.Shutdown())

	err = js.Submit(JobTask{OnStart: func(interface{}) (interface{}, error) { return nil, nil }})
	assert.ErrorIs(t, err, ErrJobSystemClosed)
	assert.Error(t, js.Submit(JobTask{}))
}
