package dayutil

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateUnmarshalJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{"day only", `"2025-06-02"`, time.Date(2025, 6, 2, 0, 0, 0, 0, Location)},
		{"rfc3339", `"2025-06-02T15:04:05Z"`, time.Date(2025, 6, 2, 15, 4, 5, 0, time.UTC)},
		{"empty", `""`, time.Time{}},
		{"null", `null`, time.Time{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Date
			require.NoError(t, json.Unmarshal([]byte(tt.input), &d))
			assert.True(t, tt.want.Equal(d.Time), "got %v", d.Time)
		})
	}
}

func TestDateUnmarshalJSONRejectsGarbage(t *testing.T) {
	var d Date
	assert.Error(t, json.Unmarshal([]byte(`"02/06/2025"`), &d))
	assert.Error(t, json.Unmarshal([]byte(`20250602`), &d))
}

func TestDateMarshalJSON(t *testing.T) {
	out, err := json.Marshal(Date{Time: time.Date(2025, 6, 2, 10, 0, 0, 0, Location)})
	require.NoError(t, err)
	assert.Equal(t, `"2025-06-02"`, string(out))

	out, err = json.Marshal(Date{})
	require.NoError(t, err)
	assert.Equal(t, "null", string(out))
}
