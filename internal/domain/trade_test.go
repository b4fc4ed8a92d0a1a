package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrade_Volume(t *testing.T) {
	tr := Trade{Size: 2.5, EntryPrice: 40}
	assert.InDelta(t, 100.0, tr.Volume(), 1e-9)
}

func TestTrade_WinLoss_ZeroIsNeither(t *testing.T) {
	assert.True(t, Trade{PnL: 1}.IsWin())
	assert.True(t, Trade{PnL: -1}.IsLoss())
	assert.False(t, Trade{PnL: 0}.IsWin())
	assert.False(t, Trade{PnL: 0}.IsLoss())
}

func TestSideAndOrderType_Valid(t *testing.T) {
	assert.True(t, SideLong.Valid())
	assert.True(t, SideShort.Valid())
	assert.False(t, Side("flat").Valid())

	for _, ot := range OrderTypes {
		assert.True(t, ot.Valid(), ot)
	}
	assert.False(t, OrderType("iceberg").Valid())
}

// --- journal ---

func TestApplyJournalEdit_ReplacesNotesAndTags(t *testing.T) {
	ts := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	trades := []Trade{
		{ID: "a", Timestamp: ts, PnL: 10, Notes: "old", Tags: []string{"x"}},
		{ID: "b", Timestamp: ts, PnL: -5},
	}

	out, found := ApplyJournalEdit(trades, JournalEdit{TradeID: "b", Notes: "breakout", Tags: []string{"swing"}})
	require.True(t, found)
	require.Len(t, out, 2)

	assert.Equal(t, "breakout", out[1].Notes)
	assert.Equal(t, []string{"swing"}, out[1].Tags)
	assert.InDelta(t, -5.0, out[1].PnL, 1e-9, "campos numéricos inmutables")

	// la entrada no se modifica
	assert.Empty(t, trades[1].Notes)
	assert.Nil(t, trades[1].Tags)
	assert.Equal(t, "old", out[0].Notes)
}

func TestApplyJournalEdit_EmptyClears(t *testing.T) {
	trades := []Trade{{ID: "a", Notes: "n", Tags: []string{"t"}}}
	out, found := ApplyJournalEdit(trades, JournalEdit{TradeID: "a"})
	require.True(t, found)
	assert.Empty(t, out[0].Notes)
	assert.Nil(t, out[0].Tags)
}

func TestApplyJournalEdit_UnknownID(t *testing.T) {
	trades := []Trade{{ID: "a", Notes: "n"}}
	out, found := ApplyJournalEdit(trades, JournalEdit{TradeID: "zzz", Notes: "x"})
	assert.False(t, found)
	assert.Equal(t, trades, out)
}

func TestParseTags(t *testing.T) {
	assert.Equal(t, []string{"scalp", "news", "momentum"}, ParseTags(" scalp, news,, momentum ,"))
	assert.Nil(t, ParseTags(""))
	assert.Nil(t, ParseTags(" , ,"))
}

func TestParseInterval(t *testing.T) {
	cases := map[string]Interval{
		"":        IntervalDaily,
		"daily":   IntervalDaily,
		"Weekly":  IntervalWeekly,
		"monthly": IntervalMonthly,
	}
	for in, want := range cases {
		got, err := ParseInterval(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	_, err := ParseInterval("hourly")
	assert.Error(t, err)
}
