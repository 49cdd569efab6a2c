package diag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSinkDeduplicatesSamePosition(t *testing.T) {
	s := NewSink(false)
	pos := Pos{File: "a.as", Line: 3, Column: 1}

	added1 := s.Add(New(UndefinedProperty, pos, "foo"))
	added2 := s.Add(New(UndefinedProperty, pos, "foo"))

	assert.True(t, added1)
	assert.False(t, added2, "duplicate diagnostic at the same position must be suppressed")
	require.Len(t, s.Reports(), 1)
}

func TestSinkSuppressesWarningsWhenConfigured(t *testing.T) {
	s := NewSink(true)
	pos := Pos{File: "a.as", Line: 1, Column: 1}

	kept := s.Add(New(NanComparison, pos))
	assert.False(t, kept)
	assert.Empty(t, s.Warnings())
}

func TestSinkErrorsAndWarningsSplit(t *testing.T) {
	s := NewSink(false)
	s.Add(New(UndefinedProperty, Pos{File: "a.as", Line: 1, Column: 1}, "x"))
	s.Add(New(NanComparison, Pos{File: "a.as", Line: 2, Column: 1}))

	assert.Len(t, s.Errors(), 1)
	assert.Len(t, s.Warnings(), 1)
	assert.True(t, s.HasErrors())
}

func TestReportFormatSubstitutesArgs(t *testing.T) {
	r := New(IncompatibleOverride, Pos{}, "Number", "String")
	assert.Equal(t, "incompatible override: expected Number, got String", r.Format())
}

func TestAsReportRoundTrips(t *testing.T) {
	r := New(ReachedMaximumCycles, Pos{File: "a.as", Line: 5, Column: 2})
	err := Wrap(r)

	got, ok := AsReport(err)
	require.True(t, ok)
	assert.Equal(t, r, got)
}
