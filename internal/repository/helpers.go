package repository

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/forgo/packlist/internal/database"
	"github.com/google/uuid"
	"github.com/surrealdb/surrealdb.go/pkg/models"
)

const (
	packListTable = "packlist"
	userTable     = "user"
)

// newRecordID returns a fresh "table:key" id. Keys are generated here rather
// than by SurrealDB so that a record can be created and linked in one batch.
func newRecordID(table string) string {
	return table + ":" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// inTable reports whether id is a well-formed record id of table.
func inTable(id, table string) bool {
	key, ok := strings.CutPrefix(id, table+":")
	return ok && key != ""
}

// recordKey strips the table prefix from a record id.
func recordKey(id string) string {
	if _, key, ok := strings.Cut(id, ":"); ok {
		return key
	}
	return id
}

// convertSurrealID converts a SurrealDB ID (which may be a complex object) to a string
func convertSurrealID(id interface{}) string {
	switch v := id.(type) {
	case string:
		return v
	case models.RecordID:
		return fmt.Sprintf("%s:%v", v.Table, v.ID)
	case *models.RecordID:
		if v != nil {
			return fmt.Sprintf("%s:%v", v.Table, v.ID)
		}
	case map[string]interface{}:
		// {"tb": "user", "id": "xxx"} from older servers
		if tb, ok := v["tb"].(string); ok {
			return fmt.Sprintf("%s:%v", tb, v["id"])
		}
	}
	return ""
}

// recordsFromResults flattens the records of every statement result.
func recordsFromResults(results []interface{}) []map[string]interface{} {
	records := make([]map[string]interface{}, 0)
	for _, result := range results {
		resp, ok := result.(map[string]interface{})
		if !ok {
			continue
		}
		items, ok := resp["result"].([]interface{})
		if !ok {
			continue
		}
		for _, item := range items {
			if m, ok := item.(map[string]interface{}); ok {
				records = append(records, m)
			}
		}
	}
	return records
}

// asRecord unwraps a QueryOne result into a record map.
func asRecord(result interface{}) (map[string]interface{}, error) {
	if result == nil {
		return nil, database.ErrNotFound
	}
	if arr, ok := result.([]interface{}); ok {
		if len(arr) == 0 {
			return nil, database.ErrNotFound
		}
		result = arr[0]
	}
	data, ok := result.(map[string]interface{})
	if !ok {
		return nil, errors.New("unexpected result format")
	}
	return data, nil
}

// getString extracts a string value from a map
func getString(m map[string]interface{}, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

// getBool extracts a bool value from a map
func getBool(m map[string]interface{}, key string) bool {
	if v, ok := m[key].(bool); ok {
		return v
	}
	return false
}

// getTime extracts a time value from a map
func getTime(m map[string]interface{}, key string) *time.Time {
	switch v := m[key].(type) {
	case string:
		if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
			return &t
		}
	case time.Time:
		return &v
	case models.CustomDateTime:
		t := v.Time
		return &t
	case *models.CustomDateTime:
		if v != nil {
			t := v.Time
			return &t
		}
	}
	return nil
}

// getStringSlice extracts a string slice from a map, converting record ids
func getStringSlice(m map[string]interface{}, key string) []string {
	v, ok := m[key].([]interface{})
	if !ok {
		return []string{}
	}
	result := make([]string, 0, len(v))
	for _, item := range v {
		if s := convertSurrealID(item); s != "" {
			result = append(result, s)
		}
	}
	return result
}
