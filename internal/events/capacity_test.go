package events

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aeroclub/backend/internal/models"
)

func ptrS(s string) *string { return &s }
func ptrI(n int) *int       { return &n }

func TestEffectiveStatus(t *testing.T) {
	tests := []struct {
		name            string
		requested       string
		current         *string
		maxCapacity     *int
		registeredCount int
		want            string
	}{
		{
			name:      "register with free seats",
			requested: models.AttendanceRegistered, maxCapacity: ptrI(10), registeredCount: 3,
			want: models.AttendanceRegistered,
		},
		{
			name:      "register when full downgrades to waitlist",
			requested: models.AttendanceRegistered, maxCapacity: ptrI(10), registeredCount: 10,
			want: models.AttendanceWaitlisted,
		},
		{
			name:      "register over capacity downgrades to waitlist",
			requested: models.AttendanceRegistered, maxCapacity: ptrI(10), registeredCount: 11,
			want: models.AttendanceWaitlisted,
		},
		{
			name:      "already registered keeps seat when full",
			requested: models.AttendanceRegistered, current: ptrS(models.AttendanceRegistered),
			maxCapacity: ptrI(10), registeredCount: 10,
			want: models.AttendanceRegistered,
		},
		{
			name:      "waitlisted re-register when full stays waitlisted",
			requested: models.AttendanceRegistered, current: ptrS(models.AttendanceWaitlisted),
			maxCapacity: ptrI(10), registeredCount: 10,
			want: models.AttendanceWaitlisted,
		},
		{
			name:      "no capacity never downgrades",
			requested: models.AttendanceRegistered, registeredCount: 5000,
			want: models.AttendanceRegistered,
		},
		{
			name:      "waitlist request passes through",
			requested: models.AttendanceWaitlisted, maxCapacity: ptrI(10), registeredCount: 2,
			want: models.AttendanceWaitlisted,
		},
		{
			name:      "cancel passes through even when full",
			requested: models.AttendanceCancelled, current: ptrS(models.AttendanceRegistered),
			maxCapacity: ptrI(10), registeredCount: 10,
			want: models.AttendanceCancelled,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EffectiveStatus(tt.requested, tt.current, tt.maxCapacity, tt.registeredCount)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidAttendanceRequest(t *testing.T) {
	assert.True(t, models.ValidAttendanceRequest(models.AttendanceRegistered))
	assert.True(t, models.ValidAttendanceRequest(models.AttendanceWaitlisted))
	assert.True(t, models.ValidAttendanceRequest(models.AttendanceCancelled))
	// rechazado is admin-only, never a self-service request
	assert.False(t, models.ValidAttendanceRequest(models.AttendanceRejected))
	assert.False(t, models.ValidAttendanceRequest("presente"))
	assert.False(t, models.ValidAttendanceRequest(""))
}
