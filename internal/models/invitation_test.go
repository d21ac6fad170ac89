package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestInvitationRedeemable(t *testing.T) {
	now := time.Now()
	future := now.Add(24 * time.Hour)
	past := now.Add(-time.Minute)

	tests := []struct {
		name      string
		status    string
		expiresAt time.Time
		want      bool
	}{
		{"pending and unexpired", InvitationPending, future, true},
		{"pending but expired", InvitationPending, past, false},
		{"accepted never redeemable", InvitationAccepted, future, false},
		{"rejected never redeemable", InvitationRejected, future, false},
		{"marked expired", InvitationExpired, future, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := &Invitation{Status: tt.status, ExpiresAt: tt.expiresAt}
			assert.Equal(t, tt.want, inv.Redeemable(now))
		})
	}
}
