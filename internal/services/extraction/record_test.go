package extraction

import (
	"testing"

	"github.com/deepgram/intake/internal/domain/intake/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRecord(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want models.ExtractedRecord
	}{
		{
			name: "canonical keys",
			raw: `{"name":"Jane Doe","email":"jane@x.com","education":"BSc","phone":"555-0100",
				"location":"Leeds","date_of_birth":"1990-01-01"}`,
			want: models.ExtractedRecord{
				Name: "Jane Doe", Email: "jane@x.com", Education: "BSc",
				Phone: "555-0100", Location: "Leeds", DateOfBirth: "1990-01-01",
			},
		},
		{
			name: "aliased keys in a code fence",
			raw: "```json\n{\"Full Name\": \"Jane Doe\", \"Email Address\": \"jane@x.com\", " +
				"\"Highest Level of Education\": \"PhD\", \"Phone Number\": 5550100, " +
				"\"Residential Location\": \"Leeds\", \"Date-of-Birth\": \"1 Jan 1990\"}\n```",
			want: models.ExtractedRecord{
				Name: "Jane Doe", Email: "jane@x.com", Education: "PhD",
				Phone: "5550100", Location: "Leeds", DateOfBirth: "1 Jan 1990",
			},
		},
		{
			name: "nested object with gaps",
			raw:  `{"personal_information": {"name": "Jane Doe", "email": "Not Provided", "phone": ""}}`,
			want: models.ExtractedRecord{
				Name: "Jane Doe", Email: models.NotProvided, Education: models.NotProvided,
				Phone: models.NotProvided, Location: models.NotProvided, DateOfBirth: models.NotProvided,
			},
		},
		{
			name: "single field split into parts",
			raw:  `{"name": {"first": "Jane", "last": "Doe"}}`,
			want: models.ExtractedRecord{
				Name: "Jane Doe", Email: models.NotProvided, Education: models.NotProvided,
				Phone: models.NotProvided, Location: models.NotProvided, DateOfBirth: models.NotProvided,
			},
		},
		{
			name: "upper-case fence tag",
			raw:  "```JSON\n{\"name\": \"Jane Doe\", \"email\": \"jane@x.com\"}\n```",
			want: models.ExtractedRecord{
				Name: "Jane Doe", Email: "jane@x.com", Education: models.NotProvided,
				Phone: models.NotProvided, Location: models.NotProvided, DateOfBirth: models.NotProvided,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRecord(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseRecordMalformed(t *testing.T) {
	for _, raw := range []string{"", "Sorry, I cannot help with that.", `["Jane"]`, "null", "```json\nnull\n```"} {
		_, err := ParseRecord(raw)
		assert.ErrorIs(t, err, ErrMalformedRecord, "input %q", raw)
	}
}
