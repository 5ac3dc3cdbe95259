package tableset

import (
	"fmt"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildNoSeparators(t *testing.T) {
	assert.Equal(t, "t202301", Build("t", "2023", "01"))
	assert.Equal(t, "t01", Build("t", "", "01"))
	assert.Equal(t, "t", Build("t", "", ""))
}

func TestSingleTable(t *testing.T) {
	rule := NewRule([]string{"t"}, []string{"2023"}, []string{"01"})
	tables := rule.Tables()
	require.Len(t, tables, 1)
	assert.Equal(t, "t202301", tables[0].ID)
	assert.Equal(t, "2023", tables[0].Year)
	assert.Equal(t, 0, tables[0].Index)
}

func TestEnumerationOrderAndIndex(t *testing.T) {
	rule := NewRule([]string{"a", "b"}, []string{"2022", "2023"}, []string{"01", "02", "03"})
	tables := rule.Tables()
	require.Len(t, tables, 2*2*3)
	assert.Equal(t, rule.Len(), len(tables))

	var want []string
	for _, n := range []string{"a", "b"} {
		for _, y := range []string{"2022", "2023"} {
			for _, m := range []string{"01", "02", "03"} {
				want = append(want, n+y+m)
			}
		}
	}
	for i, tbl := range tables {
		assert.Equal(t, i, tbl.Index)
		assert.Equal(t, want[i], tbl.ID)
	}
}

func TestEnumerationIsRestartable(t *testing.T) {
	rule := NewRule([]string{"x", "y"}, []string{"2021"}, []string{"11", "12"})
	assert.Equal(t, rule.Tables(), rule.Tables())
}

func TestEmptyAxisYieldsNothing(t *testing.T) {
	for _, rule := range []Rule{
		NewRule(nil, []string{"2023"}, []string{"01"}),
		NewRule([]string{"t"}, nil, []string{"01"}),
		NewRule([]string{"t"}, []string{"2023"}, nil),
	} {
		assert.Empty(t, rule.Tables())
		assert.Equal(t, 0, rule.Len())
	}
}

func TestEmptyTokensAreLegal(t *testing.T) {
	rule := NewRule([]string{"log"}, []string{""}, []string{""})
	tables := rule.Tables()
	require.Len(t, tables, 1)
	assert.Equal(t, "log", tables[0].ID)
}

func TestNewRuleCopiesAxes(t *testing.T) {
	names := []string{"a"}
	rule := NewRule(names, []string{"1"}, []string{"2"})
	names[0] = "z"
	assert.Equal(t, "a12", rule.Tables()[0].ID)
}

func TestPartitionsYearOuter(t *testing.T) {
	rule := NewRule([]string{"a", "b"}, []string{"2022", "2023"}, []string{"01"})
	var got []string
	for year, name := range rule.Partitions() {
		got = append(got, year+"/"+name)
	}
	assert.Equal(t, []string{"2022/a", "2022/b", "2023/a", "2023/b"}, got)
}

func TestPostfixRoundTrip(t *testing.T) {
	for _, join := range []JoinPolicy{JoinNone, JoinUnderscore} {
		id := ApplyPostfix("t202301", "old", join)
		base, err := StripPostfix(id, "old", join)
		require.NoError(t, err)
		assert.Equal(t, "t202301", base)
	}
	assert.Equal(t, "t202301old", ApplyPostfix("t202301", "old", JoinNone))
	assert.Equal(t, "t202301_old", ApplyPostfix("t202301", "old", JoinUnderscore))
	assert.Equal(t, "t202301", ApplyPostfix("t202301", "", JoinNone))
}

func TestStripPostfixPrecondition(t *testing.T) {
	_, err := StripPostfix("t202301", "old", JoinNone)
	require.Error(t, err)
	assert.True(t, IsFatal(err))

	_, err = StripPostfix("t202301old", "old", JoinUnderscore)
	require.Error(t, err)
	assert.True(t, IsFatal(err))
}

func TestParseJoinPolicy(t *testing.T) {
	j, err := ParseJoinPolicy("")
	require.NoError(t, err)
	assert.Equal(t, JoinNone, j)

	j, err = ParseJoinPolicy("Underscore")
	require.NoError(t, err)
	assert.Equal(t, JoinUnderscore, j)

	_, err = ParseJoinPolicy("dash")
	assert.Error(t, err)
}

func TestRunHandlerOrderPerTable(t *testing.T) {
	rule := NewRule([]string{"a", "b"}, []string{"1"}, []string{"x", "y"})
	var calls []string
	record := func(tag string) Handler {
		return HandlerFunc(func(tbl Table) error {
			calls = append(calls, fmt.Sprintf("%s:%s:%d", tag, tbl.ID, tbl.Index))
			return nil
		})
	}

	sum, err := Run(rule, record("rename"), record("create"))
	require.NoError(t, err)
	assert.Equal(t, []string{
		"rename:a1x:0", "create:a1x:0",
		"rename:a1y:1", "create:a1y:1",
		"rename:b1x:2", "create:b1x:2",
		"rename:b1y:3", "create:b1y:3",
	}, calls)
	assert.Equal(t, 4, sum.Tables)
	assert.Equal(t, 8, sum.Calls)
	assert.False(t, sum.Failed())
}

func TestRunContinuesOnStatusError(t *testing.T) {
	rule := NewRule([]string{"a", "b", "c"}, []string{""}, []string{""})
	var seen []string
	sum, err := Run(rule, HandlerFunc(func(tbl Table) error {
		seen = append(seen, tbl.ID)
		if tbl.ID == "b" {
			return errors.New("exit status 1")
		}
		return nil
	}))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, seen)
	require.Len(t, sum.Failures, 1)
	assert.Equal(t, "b", sum.Failures[0].Table.ID)
}

func TestRunStopsOnFatalError(t *testing.T) {
	rule := NewRule([]string{"a", "b", "c"}, []string{""}, []string{""})
	var seen []string
	sum, err := Run(rule,
		HandlerFunc(func(tbl Table) error {
			seen = append(seen, "first:"+tbl.ID)
			if tbl.ID == "b" {
				return errors.AssertionFailedf("unexpected output")
			}
			return nil
		}),
		HandlerFunc(func(tbl Table) error {
			seen = append(seen, "second:"+tbl.ID)
			return nil
		}),
	)
	require.Error(t, err)
	assert.True(t, IsFatal(err))
	assert.Equal(t, []string{"first:a", "second:a", "first:b"}, seen)
	assert.Equal(t, 2, sum.Tables)
}

func TestRunIntoThreadsAccumulator(t *testing.T) {
	rule := NewRule([]string{"a", "b"}, []string{"2023"}, []string{"01"})
	var lines []string
	sum, err := RunInto(rule, &lines, ReporterFunc[*[]string](func(tbl Table, acc *[]string) error {
		*acc = append(*acc, tbl.ID)
		return nil
	}))
	require.NoError(t, err)
	assert.Equal(t, []string{"a202301", "b202301"}, lines)
	assert.Equal(t, 2, sum.Calls)
}
