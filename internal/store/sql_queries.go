package store

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/ai-pills/models"
)

var (
	userColumns = []string{
		"id", "email", "username", "phone", "role", "is_active", "password_hash",
		"created_at", "updated_at", "last_login_at", "schema_version",
	}

	agentColumns = []string{
		"id", "name", "description", "visibility", "tags", "agent_type", "category",
		"github_link", "file_refs", "is_active", "copyright_confirmed", "status",
		"created_by", "created_at", "updated_at", "schema_version",
	}

	fileColumns = []string{
		"id", "filename", "content_type", "size_bytes", "storage_type", "storage_path",
		"url", "file_type", "uploaded_by", "agent_id", "created_at", "schema_version",
	}

	statsColumns = []string{
		"id", "agent_id", "stat_date", "views", "downloads", "api_calls",
		"created_at", "updated_at", "schema_version",
	}

	adminLogColumns = []string{
		"id", "admin_id", "action", "target_type", "target_id", "description", "created_at",
	}
)

// Published agents are public, active and approved. Version 1 rows predate
// moderation and read as approved.
var publishedAgent = sq.And{
	sq.Eq{"visibility": string(models.VisibilityPublic), "is_active": true},
	sq.Or{
		sq.Eq{"status": string(models.AgentStatusApproved)},
		sq.Eq{"schema_version": agentSchemaV1},
	},
}

func joinColumns(columns []string) string {
	return strings.Join(columns, ", ")
}

// paginate applies an offset window. A zero limit means no limit.
func paginate(b sq.SelectBuilder, page models.Page) sq.SelectBuilder {
	if page.Limit > 0 {
		b = b.Limit(page.Limit)
	}
	if page.Skip > 0 {
		b = b.Offset(page.Skip)
	}
	return b
}

// dateRange restricts the stat_date column to r. Empty bounds are open.
func dateRange(b sq.SelectBuilder, r models.DateRange) sq.SelectBuilder {
	if r.Start != "" {
		b = b.Where(sq.GtOrEq{"stat_date": r.Start})
	}
	if r.End != "" {
		b = b.Where(sq.LtOrEq{"stat_date": r.End})
	}
	return b
}

// stringList stores a list of strings as JSON text.
type stringList []string

func (l stringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *stringList) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	case nil:
		return fmt.Errorf("%w: NULL list column", ErrCorruptRecord)
	default:
		return fmt.Errorf("%w: unexpected list column type %T", ErrCorruptRecord, src)
	}

	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("%w: %w", ErrCorruptRecord, err)
	}
	if out == nil {
		out = []string{}
	}
	*l = out
	return nil
}
