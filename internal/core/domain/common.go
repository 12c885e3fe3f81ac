package domain

import "time"

// AuditFields records who created and who last changed a persisted workflow record.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"`
}

// NewAuditFields stamps a record created by userID at at.
func NewAuditFields(userID string, at time.Time) AuditFields {
	at = at.UTC()
	return AuditFields{CreatedAt: at, CreatedBy: userID, LastUpdatedAt: at, LastUpdatedBy: userID}
}

// Touch records a change by userID at at. Creation fields are left alone.
func (a *AuditFields) Touch(userID string, at time.Time) {
	a.LastUpdatedAt = at.UTC()
	a.LastUpdatedBy = userID
}
