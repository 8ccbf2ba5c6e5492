package models

import "strings"

// RequestStatus is the lifecycle state of an ambulance request.
type RequestStatus string

const (
	StatusPending             RequestStatus = "pending"
	StatusAssigned            RequestStatus = "assigned"
	StatusOnTheWay            RequestStatus = "on_the_way"
	StatusCompleted           RequestStatus = "completed"
	StatusCancelled           RequestStatus = "cancelled"
	StatusForwardedToHospital RequestStatus = "forwarded_to_hospital"
	StatusHospitalAccepted    RequestStatus = "hospital_accepted"
	StatusHospitalRejected    RequestStatus = "hospital_rejected"
)

// staffUpdatableStatuses is the closed set accepted by the status-update
// operation. The admin override path deliberately ignores this set.
var staffUpdatableStatuses = map[RequestStatus]struct{}{
	StatusAssigned:  {},
	StatusOnTheWay:  {},
	StatusCompleted: {},
	StatusCancelled: {},
}

// ParseStatus normalises a raw status string, returning false for unknown values.
func ParseStatus(raw string) (RequestStatus, bool) {
	switch RequestStatus(strings.ToLower(strings.TrimSpace(raw))) {
	case StatusPending:
		return StatusPending, true
	case StatusAssigned:
		return StatusAssigned, true
	case StatusOnTheWay:
		return StatusOnTheWay, true
	case StatusCompleted:
		return StatusCompleted, true
	case StatusCancelled:
		return StatusCancelled, true
	case StatusForwardedToHospital:
		return StatusForwardedToHospital, true
	case StatusHospitalAccepted:
		return StatusHospitalAccepted, true
	case StatusHospitalRejected:
		return StatusHospitalRejected, true
	default:
		return "", false
	}
}

// IsStaffUpdatable reports whether the status belongs to the fixed set the
// status-update transition accepts.
func (s RequestStatus) IsStaffUpdatable() bool {
	_, ok := staffUpdatableStatuses[s]
	return ok
}

// IsTerminal reports whether the request reached a retained final state.
func (s RequestStatus) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusCancelled, StatusHospitalRejected:
		return true
	}
	return false
}

func (s RequestStatus) String() string { return string(s) }

// Priority orders requests in the dispatch queue.
type Priority string

const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityNormal   Priority = "normal"
	PriorityLow      Priority = "low"
)

// ParsePriority normalises a raw priority, returning false for unknown values.
func ParsePriority(raw string) (Priority, bool) {
	switch Priority(strings.ToLower(strings.TrimSpace(raw))) {
	case PriorityCritical:
		return PriorityCritical, true
	case PriorityHigh:
		return PriorityHigh, true
	case PriorityNormal:
		return PriorityNormal, true
	case PriorityLow:
		return PriorityLow, true
	default:
		return "", false
	}
}

// Rank maps a priority to its sort position. Unknown values rank as normal.
func (p Priority) Rank() int {
	switch p {
	case PriorityCritical:
		return 1
	case PriorityHigh:
		return 2
	case PriorityLow:
		return 4
	default:
		return 3
	}
}

func (p Priority) String() string { return string(p) }

// HospitalResponse is a hospital's answer to a forwarded request.
type HospitalResponse string

const (
	HospitalResponsePending  HospitalResponse = "pending"
	HospitalResponseAccepted HospitalResponse = "accepted"
	HospitalResponseRejected HospitalResponse = "rejected"
)

// ParseHospitalResponse accepts only the terminal answers a hospital may give.
func ParseHospitalResponse(raw string) (HospitalResponse, bool) {
	switch HospitalResponse(strings.ToLower(strings.TrimSpace(raw))) {
	case HospitalResponseAccepted:
		return HospitalResponseAccepted, true
	case HospitalResponseRejected:
		return HospitalResponseRejected, true
	default:
		return "", false
	}
}

// Status returns the request status implied by the response.
func (r HospitalResponse) Status() RequestStatus {
	if r == HospitalResponseAccepted {
		return StatusHospitalAccepted
	}
	return StatusHospitalRejected
}

func (r HospitalResponse) String() string { return string(r) }
