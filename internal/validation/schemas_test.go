package validation

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRaw_S6(t *testing.T) {
	validator, err := NewActionValidator()
	require.NoError(t, err)

	cases := []struct {
		name  string
		body  map[string]interface{}
		valid bool
	}{
		{"missing item and value", map[string]interface{}{"userId": "u", "actionType": "rate"}, false},
		{"invalid action type", map[string]interface{}{"userId": "u", "itemId": 5, "actionType": "invalid", "value": 1}, false},
		{"rate value out of range", map[string]interface{}{"userId": "u", "itemId": 5, "actionType": "rate", "value": 15}, false},
		{"rate value at lower boundary accepted", map[string]interface{}{"userId": "u", "itemId": 5, "actionType": "rate", "value": 0}, true},
		{"non-rate action missing value rejected", map[string]interface{}{"userId": "u", "itemId": 5, "actionType": "view"}, false},
		{"well-formed view action accepted", map[string]interface{}{"userId": "u", "itemId": 5, "actionType": "view", "value": 0}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			data, err := json.Marshal(tc.body)
			require.NoError(t, err)

			action, result := validator.ValidateRaw(data)
			if tc.valid {
				assert.NotNil(t, action)
				assert.True(t, result.Valid)
			} else {
				assert.Nil(t, action)
				assert.False(t, result.Valid)
			}
		})
	}
}
