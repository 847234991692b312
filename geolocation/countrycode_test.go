package geolocation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewCountryCodeMapperFromCSV(t *testing.T) {
	testCases := []struct {
		name        string
		csv         string
		expectError bool
	}{
		{
			name: "Valid rows",
			csv:  "US,USA\nGB,GBR\n",
		},
		{
			name: "Blank lines and whitespace tolerated",
			csv:  "\n us , usa \n\nDE,DEU",
		},
		{
			name: "Empty input",
			csv:  "",
		},
		{
			name:        "Missing column",
			csv:         "US\n",
			expectError: true,
		},
		{
			name:        "Wrong code length",
			csv:         "USA,US\n",
			expectError: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mapper, err := NewCountryCodeMapperFromCSV(tc.csv)
			if tc.expectError {
				assert.Error(t, err)
				assert.Nil(t, mapper)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, mapper)
			}
		})
	}
}

func TestMapToAlpha3(t *testing.T) {
	mapper, err := NewCountryCodeMapperFromCSV("US,USA\nGB,GBR")
	assert.NoError(t, err)

	assert.Equal(t, "USA", mapper.MapToAlpha3("US"))
	assert.Equal(t, "USA", mapper.MapToAlpha3("us"), "lookup should be case-insensitive")
	assert.Equal(t, "GBR", mapper.MapToAlpha3("GB"))
	assert.Equal(t, "", mapper.MapToAlpha3("FR"), "unknown codes map to the empty string")
}
