package config

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/riposte/internal/combat"
)

func TestDefaultProfileEnablesEverything(t *testing.T) {
	p := Default()

	assert.True(t, p.Enabled(1, "anything"))
	assert.True(t, p.AuxiliaryEnabled(1))
	assert.Equal(t, uint64(1), p.Version())
	assert.Empty(t, p.Jobs())
}

func TestProfileSetRule(t *testing.T) {
	p := Default()
	p.SetRule(1, "strike-combo", false)

	assert.False(t, p.Enabled(1, "strike-combo"))
	assert.True(t, p.Enabled(1, "other"), "unmentioned labels stay enabled")
	assert.True(t, p.Enabled(2, "strike-combo"), "other jobs unaffected")
	assert.Equal(t, uint64(2), p.Version())

	p.SetRule(1, "strike-combo", true)
	assert.True(t, p.Enabled(1, "strike-combo"))
	assert.Equal(t, uint64(3), p.Version())
}

func TestProfileSetAuxiliary(t *testing.T) {
	p := Default()
	p.SetAuxiliary(1, false)

	assert.False(t, p.AuxiliaryEnabled(1))
	assert.True(t, p.AuxiliaryEnabled(2))
	assert.Equal(t, uint64(2), p.Version())
}

func TestProfileLabelNormalization(t *testing.T) {
	p := Default()

	// Decomposed form (e + combining acute) set, precomposed form read.
	nfd := "pare\u0301e"
	nfc := "par\u00e9e"
	p.SetRule(1, nfd, false)
	assert.False(t, p.Enabled(1, nfc))
	assert.False(t, p.Enabled(1, nfd))
}

func TestProfileJobsAndLabelsSorted(t *testing.T) {
	p := Default()
	p.SetRule(3, "zulu", false)
	p.SetRule(3, "alpha", true)
	p.SetRule(1, "mike", false)

	assert.Equal(t, []combat.JobID{1, 3}, p.Jobs())
	assert.Equal(t, []string{"alpha", "zulu"}, p.Labels(3))
	assert.Nil(t, p.Labels(9))
}

func TestEnabledFunc(t *testing.T) {
	p := Default()
	p.SetRule(1, "off", false)

	f := p.EnabledFunc(1)
	assert.False(t, f("off"))
	assert.True(t, f("on"))
}
