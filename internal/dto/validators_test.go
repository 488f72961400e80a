package dto

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateBalanceInput(t *testing.T) {
	v := validator.New()
	v.SetTagName("binding")
	require.NoError(t, v.RegisterValidation("balanceinput", validateBalanceInput))

	assert.NoError(t, v.Struct(SubmitBalanceRequest{Input: "$12,345.67"}))
	assert.NoError(t, v.Struct(SubmitBalanceRequest{Input: "abc"}), "semantic checks belong to the normalizer")
	assert.Error(t, v.Struct(SubmitBalanceRequest{Input: ""}))
	assert.Error(t, v.Struct(SubmitBalanceRequest{Input: "12\x00.00"}))
	assert.Error(t, v.Struct(SubmitBalanceRequest{Input: "1234567890123456789012345678901234567890123456789012345678901234567890"}))
}
