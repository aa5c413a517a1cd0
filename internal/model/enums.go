package model

import "fmt"

// UserRole partitions users into fleet and shore sides. VESSEL users see
// only their assigned ships; SHORE and ADMIN see the whole fleet.
type UserRole string

const (
	RoleVessel UserRole = "VESSEL"
	RoleShore  UserRole = "SHORE"
	RoleAdmin  UserRole = "ADMIN"
)

// ParseUserRole validates a role value. Unknown values are rejected.
func ParseUserRole(s string) (UserRole, error) {
	switch UserRole(s) {
	case RoleVessel, RoleShore, RoleAdmin:
		return UserRole(s), nil
	}
	return "", fmt.Errorf("unknown user role %q", s)
}

// DefectPriority is the defect severity scale.
type DefectPriority string

const (
	PriorityNormal   DefectPriority = "NORMAL"
	PriorityMedium   DefectPriority = "MEDIUM"
	PriorityHigh     DefectPriority = "HIGH"
	PriorityCritical DefectPriority = "CRITICAL"
)

// ParseDefectPriority validates a priority value. Empty input falls back
// to NORMAL; anything else unknown is rejected rather than coerced.
func ParseDefectPriority(s string) (DefectPriority, error) {
	if s == "" {
		return PriorityNormal, nil
	}
	switch DefectPriority(s) {
	case PriorityNormal, PriorityMedium, PriorityHigh, PriorityCritical:
		return DefectPriority(s), nil
	}
	return "", fmt.Errorf("unknown defect priority %q", s)
}

// DefectStatus is the defect lifecycle state.
type DefectStatus string

const (
	StatusOpen       DefectStatus = "OPEN"
	StatusInProgress DefectStatus = "IN_PROGRESS"
	StatusClosed     DefectStatus = "CLOSED"
)

// ParseDefectStatus validates a status value. Empty input falls back to
// OPEN. CLOSED is deliberately not accepted here: closure only happens
// through the close operation, which stamps closer identity and time.
func ParseDefectStatus(s string) (DefectStatus, error) {
	if s == "" {
		return StatusOpen, nil
	}
	switch DefectStatus(s) {
	case StatusOpen, StatusInProgress:
		return DefectStatus(s), nil
	}
	return "", fmt.Errorf("invalid defect status %q", s)
}

// DefectSource categorizes who identified the defect.
type DefectSource string

const (
	SourceOfficeTechnical   DefectSource = "Office - Technical"
	SourceOfficeOperation   DefectSource = "Office - Operation"
	SourceInternalAudit     DefectSource = "Internal Audit"
	SourceExternalAudit     DefectSource = "External Audit"
	SourceThirdPartyRS      DefectSource = "Third Party - RS"
	SourceThirdPartyPnI     DefectSource = "Third Party - PnI"
	SourceThirdPartyCharter DefectSource = "Third Party - Charterer"
	SourceThirdPartyOther   DefectSource = "Third Party - Other"
	SourceOwnersInspection  DefectSource = "Owner's Inspection"
)

// ParseDefectSource validates a source value. Empty input falls back to
// Internal Audit (the schema default).
func ParseDefectSource(s string) (DefectSource, error) {
	if s == "" {
		return SourceInternalAudit, nil
	}
	switch DefectSource(s) {
	case SourceOfficeTechnical, SourceOfficeOperation, SourceInternalAudit,
		SourceExternalAudit, SourceThirdPartyRS, SourceThirdPartyPnI,
		SourceThirdPartyCharter, SourceThirdPartyOther, SourceOwnersInspection:
		return DefectSource(s), nil
	}
	return "", fmt.Errorf("unknown defect source %q", s)
}

// TaskStatus is the mention-task lifecycle state.
type TaskStatus string

const (
	TaskPending   TaskStatus = "PENDING"
	TaskCompleted TaskStatus = "COMPLETED"
)

// NotificationType classifies in-app notifications.
type NotificationType string

const (
	NotificationMention NotificationType = "MENTION" // tagged in a thread
	NotificationAlert   NotificationType = "ALERT"   // lifecycle state change
	NotificationSystem  NotificationType = "SYSTEM"
)
