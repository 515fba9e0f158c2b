package validator

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reaction struct {
	Emoji    string `json:"emoji" validate:"required"`
	ClientID string `json:"clientId,omitempty" validate:"required"`
	Action   string `json:"action" validate:"omitempty,oneof=add remove"`
}

func TestValidate_ReportsJSONNames(t *testing.T) {
	err := New().Validate(&reaction{Emoji: "👍", Action: "flip"})
	require.Error(t, err)

	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))

	fields := map[string]string{}
	for _, fe := range verrs {
		fields[fe.Field()] = fe.Tag()
	}
	assert.Equal(t, map[string]string{"clientId": "required", "action": "oneof"}, fields)
}

func TestValidate_OK(t *testing.T) {
	assert.NoError(t, New().Validate(&reaction{Emoji: "👍", ClientID: "c1"}))
}
