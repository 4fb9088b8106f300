package datacol_test

import (
	"fmt"
	"testing"

	"datacol"

	"github.com/stretchr/testify/require"
)

func TestSafe_LiftsElements(t *testing.T) {
	vals, err := datacol.Safe(datacol.Of(1, 2)).Collect()

	require.NoError(t, err)
	require.Len(t, vals, 2)
	require.Equal(t, datacol.Some(1), vals[0])
	require.True(t, vals[1].Present())
}

func TestSafeMap_ContainsFailures(t *testing.T) {
	safe := datacol.Safe(datacol.Of(1, 2, 3, 4))
	mapped := datacol.SafeMap(safe, func(x int) (float64, error) {
		if x%2 == 0 {
			return 0, fmt.Errorf("even element %d", x)
		}
		return float64(x) * 10, nil
	})

	vals, err := mapped.Collect()
	require.NoError(t, err)

	// one Option per input element, Empty exactly where fn failed
	require.Len(t, vals, 4)
	require.True(t, vals[0].Present())
	require.False(t, vals[1].Present())
	require.True(t, vals[2].Present())
	require.False(t, vals[3].Present())

	require.ErrorContains(t, vals[1].Cause(), "even element 2")
	var elemErr *datacol.ElementError
	require.ErrorAs(t, vals[1].Cause(), &elemErr)
	require.Equal(t, 1, elemErr.Index)
}

func TestSafeMap_ContainsPanics(t *testing.T) {
	safe := datacol.Safe(datacol.Of(5, 3, 2, 1, 0))
	shifted := datacol.SafeMap(safe, func(x int) (int, error) {
		return x - 1, nil
	})
	inverted := datacol.SafeMap(shifted, func(x int) (float64, error) {
		if x == 0 {
			panic("division by zero")
		}
		return 10 / float64(x), nil
	})

	vals, err := datacol.DropEmpty(inverted).Collect()
	require.NoError(t, err)
	require.Equal(t, []float64{2.5, 5.0, 10.0, -10.0}, vals)
}

func TestSafeMap_ShortCircuitsEmpty(t *testing.T) {
	safe := datacol.Safe(datacol.Of(1, 2, 3))
	first := datacol.SafeMap(safe, func(x int) (int, error) {
		if x == 2 {
			return 0, fmt.Errorf("dropped")
		}
		return x, nil
	})

	calls := 0
	second := datacol.SafeMap(first, func(x int) (int, error) {
		calls++
		return x * 10, nil
	})

	vals, err := second.Collect()
	require.NoError(t, err)
	require.Len(t, vals, 3)

	// fn never ran for the Empty position, and its cause survived
	require.Equal(t, 2, calls)
	require.ErrorContains(t, vals[1].Cause(), "dropped")
}

func TestSafePipeline_DropAndFill(t *testing.T) {
	safe := datacol.Safe(datacol.Of(1, 2, 3, 4))
	inv := datacol.SafeMap(safe, func(x int) (float64, error) {
		if x-1 == 0 {
			return 0, fmt.Errorf("division by zero")
		}
		return 10 / float64(x-1), nil
	})

	dropped, err := datacol.DropEmpty(inv).Collect()
	require.NoError(t, err)
	require.Equal(t, []float64{10, 5, 10.0 / 3}, dropped)

	filled, err := datacol.FillEmpty(inv, -1).Collect()
	require.NoError(t, err)
	require.Equal(t, []float64{-1, 10, 5, 10.0 / 3}, filled)
}

func TestSafeMap_StreamedMode(t *testing.T) {
	safe := datacol.Safe(datacol.FromSeq(seqOf(1, 2, 3)))
	require.True(t, safe.IsStream())

	mapped := datacol.SafeMap(safe, func(x int) (int, error) {
		if x == 2 {
			return 0, fmt.Errorf("nope")
		}
		return x, nil
	})

	vals, err := datacol.DropEmpty(mapped).Collect()
	require.NoError(t, err)
	require.Equal(t, []int{1, 3}, vals)
}

func TestSafeFilter_KeepsEmpties(t *testing.T) {
	safe := datacol.Safe(datacol.Of(1, 2, 3, 4))
	mapped := datacol.SafeMap(safe, func(x int) (int, error) {
		if x == 2 {
			return 0, fmt.Errorf("bad")
		}
		return x, nil
	})
	filtered := datacol.SafeFilter(mapped, func(x int) bool { return x > 1 })

	vals, err := filtered.Collect()
	require.NoError(t, err)

	// 1 filtered out, the Empty from 2 kept in place, 3 and 4 kept
	require.Len(t, vals, 3)
	require.False(t, vals[0].Present())
	require.Equal(t, datacol.Some(3), vals[1])
	require.Equal(t, datacol.Some(4), vals[2])
}

func TestOption_Accessors(t *testing.T) {
	s := datacol.Some(42)
	v, ok := s.Get()
	require.True(t, ok)
	require.Equal(t, 42, v)
	require.Equal(t, "Some(42)", s.String())
	require.NoError(t, s.Cause())

	e := datacol.Empty[int]()
	_, ok = e.Get()
	require.False(t, ok)
	require.Equal(t, 7, e.GetOrElse(7))
	require.Equal(t, "Empty", e.String())
}
