package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestOperatorRefDisplayName(t *testing.T) {
	assert.Equal(t, "Marina", OperatorRef{ID: "op-1", Login: "mcaro", Alias: "Marina"}.DisplayName())
	assert.Equal(t, "mcaro", OperatorRef{ID: "op-1", Login: "mcaro"}.DisplayName())
	assert.Equal(t, "op-1", OperatorRef{ID: "op-1"}.DisplayName())
}

func TestCashDeltaTolerance(t *testing.T) {
	assert.True(t, CashDeltaTolerance.Equal(decimal.RequireFromString("0.01")))
}
