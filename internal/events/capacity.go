package events

import "github.com/aeroclub/backend/internal/models"

// EffectiveStatus decides the status an RSVP actually lands in.
//
// A request for inscrito by someone not already inscrito counts against
// capacity: when the event is full the registration downgrades to
// lista_espera instead of failing. Someone already inscrito keeps their
// seat. Requests for lista_espera or cancelado pass through unchanged, and
// events without a capacity never downgrade.
func EffectiveStatus(requested string, current *string, maxCapacity *int, registeredCount int) string {
	if requested != models.AttendanceRegistered {
		return requested
	}
	if current != nil && *current == models.AttendanceRegistered {
		return requested
	}
	if maxCapacity == nil {
		return requested
	}
	if registeredCount >= *maxCapacity {
		return models.AttendanceWaitlisted
	}
	return requested
}
