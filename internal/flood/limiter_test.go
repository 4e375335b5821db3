package flood

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllowConsumesBurstThenThrottles(t *testing.T) {
	g := NewGuardWithLimits(map[Class]Limits{
		ClassDefault: {Rate: 1, Burst: 2},
	})

	ok, _ := g.Allow(1, ClassDefault)
	assert.True(t, ok)
	ok, _ = g.Allow(1, ClassDefault)
	assert.True(t, ok)

	ok, banned := g.Allow(1, ClassDefault)
	assert.False(t, ok)
	assert.False(t, banned)
	assert.EqualValues(t, 1, g.Stats().Throttled)
}

func TestAllowTripsFloodDetectionAfterThreshold(t *testing.T) {
	g := NewGuardWithLimits(map[Class]Limits{
		ClassDefault: {Rate: 0, Burst: 0},
	})

	var lastBanned bool
	for i := 0; i < violationThreshold; i++ {
		_, lastBanned = g.Allow(7, ClassDefault)
	}
	assert.True(t, lastBanned)
}

func TestBanLifecycle(t *testing.T) {
	g := NewGuard()
	assert.False(t, g.IsBanned("1.2.3.4"))
	g.Ban("1.2.3.4")
	assert.True(t, g.IsBanned("1.2.3.4"))
}

func TestForgetDropsPerSessionState(t *testing.T) {
	g := NewGuardWithLimits(map[Class]Limits{ClassDefault: {Rate: 1, Burst: 1}})
	g.Allow(3, ClassDefault)
	g.Forget(3)
	// A fresh bucket after Forget should allow again immediately.
	ok, _ := g.Allow(3, ClassDefault)
	assert.True(t, ok)
}
