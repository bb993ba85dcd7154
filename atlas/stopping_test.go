package atlas

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExcludeThresholdRule_Both(t *testing.T) {
	rule := ExcludeThresholdRule(0.0, DirectionBoth)
	assert.True(t, rule.Fn(StoppingIntervalView{Lo: 0.1, Hi: 0.2}, 10))
	assert.True(t, rule.Fn(StoppingIntervalView{Lo: -0.2, Hi: -0.1}, 10))
	assert.False(t, rule.Fn(StoppingIntervalView{Lo: -0.1, Hi: 0.1}, 10))
}

func TestExcludeThresholdRule_Lower(t *testing.T) {
	rule := ExcludeThresholdRule(0.0, DirectionLower)
	assert.True(t, rule.Fn(StoppingIntervalView{Lo: 0.1, Hi: 0.2}, 10))
	assert.False(t, rule.Fn(StoppingIntervalView{Lo: -0.2, Hi: -0.1}, 10))
}

func TestExcludeThresholdRule_Upper(t *testing.T) {
	rule := ExcludeThresholdRule(0.0, DirectionUpper)
	assert.True(t, rule.Fn(StoppingIntervalView{Lo: -0.2, Hi: -0.1}, 10))
	assert.False(t, rule.Fn(StoppingIntervalView{Lo: 0.1, Hi: 0.2}, 10))
}

func TestPeriodicRule_OnlyFiresOnCadence(t *testing.T) {
	inner := ExcludeThresholdRule(0.0, DirectionBoth)
	rule := PeriodicRule(50, inner)
	iv := StoppingIntervalView{Lo: 0.1, Hi: 0.2}
	assert.False(t, rule.Fn(iv, 49))
	assert.True(t, rule.Fn(iv, 50))
	assert.False(t, rule.Fn(iv, 51))
	assert.True(t, rule.Fn(iv, 100))
}
