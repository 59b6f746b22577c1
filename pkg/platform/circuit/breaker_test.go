package circuit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sundsvallskommun/api-service-postportalservice/pkg/testutil"
)

func TestNewBreakerStartsClosed(t *testing.T) {
	b := New("party-registry")
	assert.Equal(t, "party-registry", b.Name())
	assert.Equal(t, StateClosed, b.State())
	assert.False(t, b.IsOpen())
}

func TestFailureStreakOpensTheCircuit(t *testing.T) {
	testutil.Given(t, "a breaker that tolerates two failures")
	b := New("registry", WithFailureThreshold(3))

	testutil.When(t, "failures accumulate")
	for range 2 {
		useFallback, change := b.RecordFailure()
		assert.False(t, useFallback)
		assert.False(t, change.Opened)
	}
	useFallback, change := b.RecordFailure()

	testutil.Then(t, "the third failure opens it and reports the transition")
	assert.True(t, useFallback)
	assert.True(t, change.Opened)
	assert.True(t, b.IsOpen())
}

func TestSuccessStreakClosesTheCircuit(t *testing.T) {
	b := New("registry", WithFailureThreshold(1), WithSuccessThreshold(2))
	b.RecordFailure()
	require.True(t, b.IsOpen())

	usePrimary, change := b.RecordSuccess()
	assert.False(t, usePrimary)
	assert.False(t, change.Closed)
	assert.True(t, b.IsOpen())

	usePrimary, change = b.RecordSuccess()
	assert.True(t, usePrimary)
	assert.True(t, change.Closed)
	assert.False(t, b.IsOpen())
}

func TestStreaksResetEachOther(t *testing.T) {
	testutil.Given(t, "a closed breaker two failures short of opening")
	b := New("registry", WithFailureThreshold(3))
	b.RecordFailure()
	b.RecordFailure()

	testutil.When(t, "a success lands between the failures")
	b.RecordSuccess()
	b.RecordFailure()
	b.RecordFailure()

	testutil.Then(t, "the failure streak restarted, so the circuit is still closed")
	assert.False(t, b.IsOpen())
	_, change := b.RecordFailure()
	assert.True(t, change.Opened)
}

func TestFailureWhileOpenRestartsTheSuccessStreak(t *testing.T) {
	b := New("registry", WithFailureThreshold(1), WithSuccessThreshold(3))
	b.RecordFailure()
	require.True(t, b.IsOpen())

	b.RecordSuccess()
	b.RecordSuccess()

	// The streak is gone; three fresh successes are needed again.
	useFallback, change := b.RecordFailure()
	assert.True(t, useFallback)
	assert.False(t, change.Opened)
	assert.True(t, b.IsOpen())

	b.RecordSuccess()
	b.RecordSuccess()
	assert.True(t, b.IsOpen())
	_, change = b.RecordSuccess()
	assert.True(t, change.Closed)
	assert.False(t, b.IsOpen())
}

func TestRepeatedFailuresWhileOpenReportNoTransition(t *testing.T) {
	b := New("registry", WithFailureThreshold(1))
	b.RecordFailure()
	require.True(t, b.IsOpen())

	useFallback, change := b.RecordFailure()
	assert.True(t, useFallback)
	assert.False(t, change.Opened)
}

func TestResetForcesTheCircuitClosed(t *testing.T) {
	b := New("registry", WithFailureThreshold(1))
	b.RecordFailure()
	require.True(t, b.IsOpen())

	b.Reset()
	assert.Equal(t, StateClosed, b.State())
	assert.False(t, b.IsOpen())
}
