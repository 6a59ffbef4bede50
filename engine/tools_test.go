package nrscope_test

import (
	"errors"
	"strings"
	"testing"

	Ns "github.com/crenna/nrscope/engine"
)

func TestFillEnvVar(t *testing.T) {
	t.Run("Returns the value of a set variable", func(t *testing.T) {
		t.Setenv("NRSCOPE_TEST_VAR", "craque")
		got := Ns.FillEnvVar("NRSCOPE_TEST_VAR")
		assertString(t, got, "craque")
	})

	t.Run("Returns ENOENT for an unset variable", func(t *testing.T) {
		got := Ns.FillEnvVar("NRSCOPE_TEST_VAR_UNSET")
		assertString(t, got, "ENOENT")
	})
}

func TestFloatPrecise(t *testing.T) {
	t.Run("Rounds to two places", func(t *testing.T) {
		got := Ns.FloatPrecise(77.142857, 2)
		assertFloat(t, got, 77.14)
	})

	t.Run("Rounds up at the midpoint", func(t *testing.T) {
		got := Ns.FloatPrecise(0.125, 2)
		assertFloat(t, got, 0.13)
	})
}

func assertError(t testing.TB, got, want error) {
	t.Helper()
	if !errors.Is(got, want) {
		t.Errorf("got error %q want %q", got, want)
	}
}

func assertGotError(t testing.TB, got error) {
	t.Helper()
	if got == nil {
		t.Errorf("Expected an error but got %q", got)
	}
}

func assertInt(t *testing.T, got, want int) {
	t.Helper()
	if got != want {
		t.Errorf("did not get correct value, got %d, want %d", got, want)
	}
}

func assertFloat(t *testing.T, got, want float64) {
	t.Helper()
	if got != want {
		t.Errorf("did not get correct value, got %v, want %v", got, want)
	}
}

func assertBool(t *testing.T, got, want bool) {
	t.Helper()
	if got != want {
		t.Errorf("did not get correct value, got %t, want %t", got, want)
	}
}

func assertString(t *testing.T, got, want string) {
	t.Helper()
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func assertStringContains(t *testing.T, full, want string) {
	t.Helper()
	if !strings.Contains(full, want) {
		t.Errorf("Did not find %q, expected string contains %q", want, full)
	}
}
