package format

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ha1tch/calcline/catalog"
	"github.com/ha1tch/calcline/value"
)

// TestDefaultGroupingIsNarrowNoBreakSpace pins the canonical examples,
// both of which group the default-rendered integer part with a space
// rather than a comma (e.g. "500 000 cm", "10 000 KRW").
func TestDefaultGroupingIsNarrowNoBreakSpace(t *testing.T) {
	s := DefaultSettings()
	assert.Equal(t, "500"+NarrowNoBreakSpace+"000", Number(500000, value.Precision{}, s))
	assert.Equal(t, "10"+NarrowNoBreakSpace+"000", Number(10000, value.Precision{}, s))
}

func TestDefaultGroupingLeavesSmallIntegersUngrouped(t *testing.T) {
	s := DefaultSettings()
	assert.Equal(t, "158.82", Number(158.82, value.Precision{}, s))
}

func TestMeasuredUsesDefaultGroupingForCm(t *testing.T) {
	cat := catalog.Builtin()
	s := DefaultSettings()
	m := value.Measured{Val: 500000, Terms: []value.Term{{UnitID: "centimeter", Num: 1, Den: 1}}}
	assert.Equal(t, "500"+NarrowNoBreakSpace+"000 cm", Measured(m, cat, s))
}
