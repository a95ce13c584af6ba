package config

// GetRecordsTable returns the DynamoDB table that mirrors extracted records.
// Empty disables the mirror.
func GetRecordsTable() string {
	return GetEnvOrDefault("DYNAMODB_RECORDS_TABLE", "")
}
