package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sampleDTO struct {
	Name  string  `validate:"required"`
	Limit int     `validate:"min=1,max=100"`
	Mode  *string `validate:"omitempty,oneof=strict moderate flexible"`
}

func TestValidateStruct_Valid(t *testing.T) {
	mode := "strict"
	assert.NoError(t, ValidateStruct(&sampleDTO{Name: "ok", Limit: 10, Mode: &mode}))
	assert.NoError(t, ValidateStruct(&sampleDTO{Name: "ok", Limit: 1}))
}

func TestValidateStruct_ReadableMessages(t *testing.T) {
	err := ValidateStruct(&sampleDTO{Limit: 0})
	assert.ErrorContains(t, err, "Name is required")
	assert.ErrorContains(t, err, "Limit must be at least 1")

	mode := "whatever"
	err = ValidateStruct(&sampleDTO{Name: "ok", Limit: 10, Mode: &mode})
	assert.ErrorContains(t, err, "Mode must be one of: strict moderate flexible")
}
