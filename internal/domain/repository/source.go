package repository

// SourceKind selects where the prices table comes from.
type SourceKind string

const (
	SourceCSV        SourceKind = "csv"
	SourceClickHouse SourceKind = "clickhouse"
)

// IsValidSource returns true if k is a supported prices source.
func IsValidSource(k SourceKind) bool {
	switch k {
	case SourceCSV, SourceClickHouse:
		return true
	default:
		return false
	}
}

// NormalizeSource converts a raw config value to a source kind, defaulting to csv.
func NormalizeSource(s string) SourceKind {
	k := SourceKind(s)
	if IsValidSource(k) {
		return k
	}
	return SourceCSV
}
