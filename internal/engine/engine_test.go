package engine

import "testing"

func TestRecordValueOrDefault(t *testing.T) {
	records := []Record{
		{Key: "SSL Mode", Value: "required"},
		{Key: "SSL Mode", Value: "disabled"},
		{Key: "Empty", Value: ""},
	}

	tests := []struct {
		name string
		key  string
		def  string
		want string
	}{
		{"present key", "SSL Mode", "fallback", "required"},
		{"absent key", "Missing", "fallback", "fallback"},
		{"empty value wins over default", "Empty", "fallback", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RecordValueOrDefault(records, tt.key, tt.def); got != tt.want {
				t.Errorf("RecordValueOrDefault(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}

	if got := RecordValueOrDefault(nil, "any", "def"); got != "def" {
		t.Errorf("nil records: got %q, want def", got)
	}
}

func TestAllDatabaseTypes(t *testing.T) {
	seen := make(map[DatabaseType]bool, len(AllDatabaseTypes))
	for _, dbType := range AllDatabaseTypes {
		if dbType == "" {
			t.Error("empty database type in list")
		}
		if seen[dbType] {
			t.Errorf("duplicate database type %q", dbType)
		}
		seen[dbType] = true
	}
	if !seen[DatabaseTypePostgres] || !seen[DatabaseTypeSqlite3] {
		t.Error("expected built-in engines missing from AllDatabaseTypes")
	}
}
