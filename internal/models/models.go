package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Severity grades an alert, ordered from least to most severe.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// AlertType is the classification label attached to an alert.
type AlertType string

const (
	AlertBenign     AlertType = "Benign"
	AlertSuspicious AlertType = "Suspicious"
	AlertRaaS       AlertType = "RaaS"
	AlertRansomware AlertType = "Ransomware"
)

// FileAction describes the observed filesystem change.
type FileAction string

const (
	ActionCreated  FileAction = "created"
	ActionModified FileAction = "modified"
	ActionDeleted  FileAction = "deleted"
	ActionRenamed  FileAction = "renamed"
)

// StringArray is a custom type to handle string arrays as a JSON text column
type StringArray []string

// Scan implements the Scanner interface for StringArray
func (s *StringArray) Scan(value interface{}) error {
	if value == nil {
		*s = nil
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return fmt.Errorf("cannot scan %T into StringArray", value)
	}
}

// Value implements the driver.Valuer interface for StringArray
func (s StringArray) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}
	return json.Marshal(s)
}

// FileEvent records a single observed filesystem change. FME is the Shannon
// entropy of the file content at the time of the event, in bits per byte.
// Immutable once created.
type FileEvent struct {
	ID        string     `json:"id" gorm:"primaryKey"`
	Path      string     `json:"path" gorm:"not null"`
	Action    FileAction `json:"action" gorm:"not null"`
	FME       float64    `json:"fme" gorm:"not null"`
	CreatedAt time.Time  `json:"created_at"`
}

// Alert is a scored, classified detection. FME and ABT carry the entropy
// score and adaptive burst threshold that fed the classifier; field names
// match what downstream consumers already read.
type Alert struct {
	ID        string      `json:"id" gorm:"primaryKey"`
	Host      string      `json:"host" gorm:"not null"`
	Path      string      `json:"path" gorm:"not null"`
	Severity  Severity    `json:"severity" gorm:"not null"`
	FME       float64     `json:"fme" gorm:"not null"`
	ABT       float64     `json:"abt" gorm:"not null"`
	RiskScore int         `json:"risk_score"`
	Type      AlertType   `json:"type" gorm:"not null"`
	Reasons   StringArray `json:"reasons" gorm:"type:text"`
	CreatedAt time.Time   `json:"created_at"`
}

// User represents a dashboard user.
type User struct {
	ID             string    `json:"id" gorm:"primaryKey"`
	Email          string    `json:"email" gorm:"uniqueIndex;not null"`
	HashedPassword string    `json:"-" gorm:"not null"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	IsActive       bool      `json:"is_active" gorm:"default:true"`
	CreatedAt      time.Time `json:"created_at"`
}
