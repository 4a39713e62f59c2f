package main

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Simplici0/salario/internal/payroll"
)

func TestStateStoreRoundTrip(t *testing.T) {
	store := newStateStore("secret")
	in := payroll.Input{GrossSalary: decimal.RequireFromString("4321.09"), Dependents: 3, OtherDiscounts: decimal.NewFromInt(75)}

	value, err := store.encode(in)
	require.NoError(t, err)

	got, ok := store.decode(value)
	require.True(t, ok)
	assert.True(t, in.GrossSalary.Equal(got.GrossSalary))
	assert.Equal(t, 3, got.Dependents)
	assert.True(t, in.OtherDiscounts.Equal(got.OtherDiscounts))
}

func TestStateStoreRejectsTampering(t *testing.T) {
	store := newStateStore("secret")
	value, err := store.encode(payroll.Input{GrossSalary: decimal.NewFromInt(1000)})
	require.NoError(t, err)

	_, ok := newStateStore("other").decode(value)
	assert.False(t, ok)

	payload, signature, _ := strings.Cut(value, ".")
	_, ok = store.decode(payload + "x." + signature)
	assert.False(t, ok)

	for _, bad := range []string{"", "nodot", ".abc", "abc.zz"} {
		_, ok := store.decode(bad)
		assert.False(t, ok, bad)
	}
}
