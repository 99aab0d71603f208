package db

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/resume-importer/internal/dates"
)

// Parse status values of a résumé source
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusParsed     = "parsed"
	StatusFailed     = "failed"
)

// ErrNotFound is returned when a requested row does not exist
var ErrNotFound = errors.New("not found")

// ValidStatus reports whether status is a known parse status
func ValidStatus(status string) bool {
	switch status {
	case StatusPending, StatusProcessing, StatusParsed, StatusFailed:
		return true
	}
	return false
}

// Source is an uploaded résumé text awaiting or having gone through parsing
type Source struct {
	ID          uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"user_id"`
	Filename    *string    `json:"filename,omitempty"`
	MimeType    string     `json:"mime_type"`
	RawText     string     `json:"-"`
	ContentHash string     `json:"content_hash"`
	ParseStatus string     `json:"parse_status"`
	ParseError  *string    `json:"parse_error,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	ParsedAt    *time.Time `json:"parsed_at,omitempty"`
}

// SourceCreateInput holds the fields of a new source
type SourceCreateInput struct {
	UserID      uuid.UUID
	Filename    string
	MimeType    string
	RawText     string
	ContentHash string
}

// Experience is a stored experience record. The section label, when there was
// one, is folded into Summary as "<label>: <summary>".
type Experience struct {
	ID           uuid.UUID   `json:"id"`
	UserID       uuid.UUID   `json:"user_id"`
	SourceID     uuid.UUID   `json:"source_id"`
	Organization string      `json:"organization"`
	RoleTitle    string      `json:"role_title"`
	Location     *string     `json:"location,omitempty"`
	StartDate    *Date       `json:"start_date,omitempty"`
	EndDate      *Date       `json:"end_date,omitempty"`
	IsCurrent    bool        `json:"is_current"`
	Summary      *string     `json:"summary,omitempty"`
	Achievements StringArray `json:"achievements"`
	Skills       StringArray `json:"skills"`
	CreatedAt    time.Time   `json:"created_at"`
}

// Education is a stored education record
type Education struct {
	ID           uuid.UUID   `json:"id"`
	UserID       uuid.UUID   `json:"user_id"`
	SourceID     uuid.UUID   `json:"source_id"`
	Institution  string      `json:"institution"`
	Degree       StringArray `json:"degree"`
	FieldOfStudy StringArray `json:"field_of_study"`
	StartDate    *Date       `json:"start_date,omitempty"`
	EndDate      *Date       `json:"end_date,omitempty"`
	Achievements StringArray `json:"achievements"`
	CreatedAt    time.Time   `json:"created_at"`
}

// SkillGroup is a stored skill group
type SkillGroup struct {
	ID        uuid.UUID   `json:"id"`
	UserID    uuid.UUID   `json:"user_id"`
	SourceID  uuid.UUID   `json:"source_id"`
	Category  *string     `json:"category,omitempty"`
	Skills    StringArray `json:"skills"`
	CreatedAt time.Time   `json:"created_at"`
}

// Counts holds per-kind record counts
type Counts struct {
	Experiences int `json:"experiences"`
	Education   int `json:"education"`
	Skills      int `json:"skills"`
}

// ImportResult reports what an import stored
type ImportResult struct {
	Inserted Counts `json:"inserted"`
	Skipped  Counts `json:"skipped"`
}

// Date is a custom type for handling SQL DATE (YYYY-MM-DD)
type Date struct {
	time.Time
}

// ParseDate converts a canonical YYYY-MM-DD string to a Date; anything else is nil
func ParseDate(s string) *Date {
	if s == "" {
		return nil
	}
	t, err := time.Parse(dates.Layout, s)
	if err != nil {
		return nil
	}
	return &Date{Time: t}
}

// String formats the date as YYYY-MM-DD; nil or zero is ""
func (d *Date) String() string {
	if d == nil || d.IsZero() {
		return ""
	}
	return d.Format(dates.Layout)
}

// Scan implements the Scanner interface
func (d *Date) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	t, ok := value.(time.Time)
	if !ok {
		return errors.New("failed to scan Date")
	}
	d.Time = t
	return nil
}

// Value implements the Valuer interface
func (d *Date) Value() (driver.Value, error) {
	if d == nil {
		return nil, nil
	}
	return d.Time, nil
}

// MarshalJSON implements json.Marshaler
func (d *Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Format(dates.Layout))
}

// UnmarshalJSON implements json.Unmarshaler
func (d *Date) UnmarshalJSON(data []byte) error {
	str := string(data)
	if str == "null" || str == `""` {
		return nil
	}
	// Trim quotes
	if len(str) > 2 && str[0] == '"' && str[len(str)-1] == '"' {
		str = str[1 : len(str)-1]
	}
	var err error
	d.Time, err = time.Parse(dates.Layout, str)
	return err
}

// StringArray handles JSONB string arrays
type StringArray []string

// Scan implements the Scanner interface for StringArray
func (a *StringArray) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*a = []string{}
		return nil
	case []byte:
		return json.Unmarshal(v, a)
	case string:
		return json.Unmarshal([]byte(v), a)
	default:
		return fmt.Errorf("cannot scan %T into StringArray", src)
	}
}

// Value implements the Valuer interface for StringArray
func (a StringArray) Value() (driver.Value, error) {
	if a == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(a))
}
