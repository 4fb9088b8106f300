package datacol_test

import (
	"fmt"
	"testing"

	"datacol"

	"github.com/stretchr/testify/require"
)

func TestCall_AppliesRegisteredFunction(t *testing.T) {
	datacol.RegisterFunc("test_add1", func(x int) int { return x + 1 })
	datacol.RegisterFunc("test_mul2", func(x int) int { return x * 2 })
	t.Cleanup(func() {
		datacol.Unregister("test_add1")
		datacol.Unregister("test_mul2")
	})

	added := datacol.Call[int, int](datacol.Of(1, 2, 3, 4), "test_add1")
	doubled := datacol.Call[int, int](added, "test_mul2")

	vals, err := doubled.Collect()
	require.NoError(t, err)
	require.Equal(t, []int{4, 6, 8, 10}, vals)
}

func TestCall_UnknownNameIsLookupError(t *testing.T) {
	c := datacol.Call[int, int](datacol.Of(1, 2), "no_such_function")

	_, err := c.Collect()
	require.ErrorIs(t, err, datacol.ErrLookup)
	require.ErrorContains(t, err, "no_such_function")
}

func TestCall_ArgumentTypeMismatchFailsElement(t *testing.T) {
	datacol.RegisterFunc("test_upper_len", func(s string) int { return len(s) })
	t.Cleanup(func() { datacol.Unregister("test_upper_len") })

	c := datacol.Call[int, int](datacol.Of(1, 2), "test_upper_len")

	_, err := c.Collect()
	var elemErr *datacol.ElementError
	require.ErrorAs(t, err, &elemErr)
	require.ErrorContains(t, err, "expected string")
}

func TestCall_StreamedMode(t *testing.T) {
	calls := 0
	datacol.RegisterFunc("test_count", func(x int) int {
		calls++
		return x
	})
	t.Cleanup(func() { datacol.Unregister("test_count") })

	c := datacol.Call[int, int](datacol.FromSeq(seqOf(1, 2, 3)), "test_count")
	require.True(t, c.IsStream())
	require.Zero(t, calls)

	require.NoError(t, c.Run())
	require.Equal(t, 3, calls)
}

func TestRegisterTryFunc_ErrorsPropagateUncontained(t *testing.T) {
	datacol.RegisterTryFunc("test_nonzero", func(x int) (int, error) {
		if x == 0 {
			return 0, fmt.Errorf("zero element")
		}
		return x, nil
	})
	t.Cleanup(func() { datacol.Unregister("test_nonzero") })

	_, err := datacol.Call[int, int](datacol.Of(1, 0, 2), "test_nonzero").Collect()
	require.ErrorContains(t, err, "zero element")
}

func TestSafeCall_ContainsElementFailures(t *testing.T) {
	datacol.RegisterTryFunc("test_inv", func(x int) (float64, error) {
		if x == 0 {
			return 0, fmt.Errorf("division by zero")
		}
		return 10 / float64(x), nil
	})
	t.Cleanup(func() { datacol.Unregister("test_inv") })

	safe := datacol.Safe(datacol.Of(0, 1, 2))
	vals, err := datacol.DropEmpty(datacol.SafeCall[int, float64](safe, "test_inv")).Collect()

	require.NoError(t, err)
	require.Equal(t, []float64{10, 5}, vals)
}

func TestSafeCall_UnknownNameStillStructural(t *testing.T) {
	safe := datacol.Safe(datacol.Of(1))
	_, err := datacol.SafeCall[int, int](safe, "no_such_function").Collect()
	require.ErrorIs(t, err, datacol.ErrLookup)
}

func TestRegister_Replaces(t *testing.T) {
	datacol.RegisterFunc("test_replace", func(x int) int { return x })
	datacol.RegisterFunc("test_replace", func(x int) int { return -x })
	t.Cleanup(func() { datacol.Unregister("test_replace") })

	vals, err := datacol.Call[int, int](datacol.Of(1, 2), "test_replace").Collect()
	require.NoError(t, err)
	require.Equal(t, []int{-1, -2}, vals)
}

func TestResolve_Unregistered(t *testing.T) {
	_, err := datacol.Resolve("never_registered")
	require.ErrorIs(t, err, datacol.ErrLookup)
}

func TestRegisterSource_CompilesAndApplies(t *testing.T) {
	err := datacol.RegisterSource("test_src_add1", `func test_src_add1(x int64) int64 { return x + 1 }`)
	require.NoError(t, err)
	t.Cleanup(func() { datacol.Unregister("test_src_add1") })

	vals, err := datacol.Call[int64, int64](datacol.Of[int64](0, 1, 2), "test_src_add1").Collect()
	require.NoError(t, err)
	require.Equal(t, []int64{1, 2, 3}, vals)
}

func TestRegisterSource_StringSignature(t *testing.T) {
	err := datacol.RegisterSource("test_src_upper", `
import "strings"

func test_src_upper(s string) string { return strings.ToUpper(s) }
`)
	require.NoError(t, err)
	t.Cleanup(func() { datacol.Unregister("test_src_upper") })

	vals, err := datacol.Call[string, string](datacol.Of("ab", "cd"), "test_src_upper").Collect()
	require.NoError(t, err)
	require.Equal(t, []string{"AB", "CD"}, vals)
}

func TestRegisterSource_BadSource(t *testing.T) {
	err := datacol.RegisterSource("test_src_broken", `func test_src_broken(x int64) int64 {`)
	require.Error(t, err)
}

func TestRegisterSource_UnsupportedSignature(t *testing.T) {
	err := datacol.RegisterSource("test_src_binary", `func test_src_binary(a, b int64) int64 { return a + b }`)
	require.ErrorIs(t, err, datacol.ErrInvalidArgument)
}

func TestRegisterSource_MissingFunction(t *testing.T) {
	err := datacol.RegisterSource("test_src_missing", `func somethingElse(x int64) int64 { return x }`)
	require.ErrorIs(t, err, datacol.ErrInvalidArgument)
}
