package extraction

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/deepgram/intake/internal/domain/intake/models"
)

// ErrMalformedRecord is returned when the model's answer is not a JSON object
var ErrMalformedRecord = errors.New("malformed extraction record")

// keyAliases maps normalised keys the model tends to invent onto record fields
var keyAliases = map[string]string{
	"name":                       models.FieldName,
	"full_name":                  models.FieldName,
	"fullname":                   models.FieldName,
	"user_name":                  models.FieldName,
	"email":                      models.FieldEmail,
	"email_address":              models.FieldEmail,
	"e_mail":                     models.FieldEmail,
	"education":                  models.FieldEducation,
	"highest_level_of_education": models.FieldEducation,
	"highest_education":          models.FieldEducation,
	"education_level":            models.FieldEducation,
	"phone":                      models.FieldPhone,
	"phone_number":               models.FieldPhone,
	"mobile":                     models.FieldPhone,
	"contact_number":             models.FieldPhone,
	"location":                   models.FieldLocation,
	"residential_location":       models.FieldLocation,
	"residence":                  models.FieldLocation,
	"address":                    models.FieldLocation,
	"city":                       models.FieldLocation,
	"date_of_birth":              models.FieldDateOfBirth,
	"dob":                        models.FieldDateOfBirth,
	"birth_date":                 models.FieldDateOfBirth,
	"birthdate":                  models.FieldDateOfBirth,
}

// ParseRecord turns the raw extraction answer into a record. Unknown keys
// are ignored and missing fields become models.NotProvided.
func ParseRecord(raw string) (models.ExtractedRecord, error) {
	body := stripFences(raw)
	if body == "" {
		return models.ExtractedRecord{}, fmt.Errorf("%w: empty response", ErrMalformedRecord)
	}

	var obj map[string]interface{}
	if err := json.Unmarshal([]byte(body), &obj); err != nil {
		return models.ExtractedRecord{}, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}
	if obj == nil {
		return models.ExtractedRecord{}, fmt.Errorf("%w: null response", ErrMalformedRecord)
	}

	// {"personal_information": {...}}, but not {"name": {"first": ...}}
	if len(obj) == 1 {
		for k, v := range obj {
			if _, known := keyAliases[normaliseKey(k)]; known {
				break
			}
			if nested, ok := v.(map[string]interface{}); ok {
				obj = nested
			}
		}
	}

	fields := make(map[string]string, len(models.RecordFields))
	for key, value := range obj {
		field, ok := keyAliases[normaliseKey(key)]
		if !ok {
			continue
		}
		if _, seen := fields[field]; seen {
			continue
		}
		if s := stringify(value); s != "" {
			fields[field] = s
		}
	}

	return models.NewExtractedRecord(fields), nil
}

func stripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		// language tag, any case
		s = strings.TrimLeftFunc(s, unicode.IsLetter)
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}

func normaliseKey(key string) string {
	key = strings.ToLower(strings.TrimSpace(key))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(key)
}

func stringify(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		v = strings.TrimSpace(v)
		if strings.EqualFold(v, models.NotProvided) {
			return ""
		}
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case map[string]interface{}:
		return joinParts(v)
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

// nameOrder puts the parts of a split-up value in reading order
var nameOrder = map[string]int{
	"title": 0, "first": 1, "first_name": 1, "given": 1, "given_name": 1,
	"middle": 2, "middle_name": 2, "last": 3, "last_name": 3, "family": 3,
	"family_name": 3, "surname": 3, "suffix": 4,
}

func joinParts(parts map[string]interface{}) string {
	keys := make([]string, 0, len(parts))
	for k := range parts {
		keys = append(keys, k)
	}
	sort.SliceStable(keys, func(i, j int) bool {
		oi, iok := nameOrder[normaliseKey(keys[i])]
		oj, jok := nameOrder[normaliseKey(keys[j])]
		switch {
		case iok && jok && oi != oj:
			return oi < oj
		case iok != jok:
			return iok
		}
		return keys[i] < keys[j]
	})

	words := make([]string, 0, len(keys))
	for _, k := range keys {
		if s := stringify(parts[k]); s != "" {
			words = append(words, s)
		}
	}
	return strings.Join(words, " ")
}
