package models

// NotProvided stands in for any field the user never supplied
const NotProvided = "Not Provided"

// Field names of an extracted record, in column order
const (
	FieldName        = "name"
	FieldEmail       = "email"
	FieldEducation   = "education"
	FieldPhone       = "phone"
	FieldLocation    = "location"
	FieldDateOfBirth = "date_of_birth"
)

// RecordFields is the fixed key set and column order of ExtractedRecord
var RecordFields = []string{
	FieldName,
	FieldEmail,
	FieldEducation,
	FieldPhone,
	FieldLocation,
	FieldDateOfBirth,
}

// ExtractedRecord holds the personal details pulled out of a transcript.
// Every field is always set; missing data is NotProvided.
type ExtractedRecord struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Education   string `json:"education"`
	Phone       string `json:"phone"`
	Location    string `json:"location"`
	DateOfBirth string `json:"date_of_birth"`
}

// NewExtractedRecord builds a record from a field map, filling gaps with NotProvided
func NewExtractedRecord(fields map[string]string) ExtractedRecord {
	get := func(key string) string {
		if v, ok := fields[key]; ok && v != "" {
			return v
		}
		return NotProvided
	}

	return ExtractedRecord{
		Name:        get(FieldName),
		Email:       get(FieldEmail),
		Education:   get(FieldEducation),
		Phone:       get(FieldPhone),
		Location:    get(FieldLocation),
		DateOfBirth: get(FieldDateOfBirth),
	}
}

// Columns returns the header row
func (r ExtractedRecord) Columns() []string {
	out := make([]string, len(RecordFields))
	copy(out, RecordFields)
	return out
}

// Values returns the data row in Columns order
func (r ExtractedRecord) Values() []string {
	return []string{r.Name, r.Email, r.Education, r.Phone, r.Location, r.DateOfBirth}
}

// Map returns the record keyed by field name
func (r ExtractedRecord) Map() map[string]string {
	values := r.Values()
	out := make(map[string]string, len(RecordFields))
	for i, field := range RecordFields {
		out[field] = values[i]
	}
	return out
}
