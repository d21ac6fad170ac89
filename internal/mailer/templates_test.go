package mailer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInvitationBody(t *testing.T) {
	link := "https://app.example/invitacion/tok123"

	newUser := InvitationBody("Aeroclub Valencia", "Ana", link, false)
	assert.Contains(t, newUser, "Aeroclub Valencia")
	assert.Contains(t, newUser, "Ana")
	assert.Contains(t, newUser, link)
	assert.Contains(t, newUser, "Registrarme y unirme")

	existing := InvitationBody("Aeroclub Valencia", "Ana", link, true)
	assert.Contains(t, existing, "Aceptar invitación")
	assert.NotContains(t, existing, "Registrarme y unirme")
}

func TestWelcomeBody(t *testing.T) {
	body := WelcomeBody("Carlos", "Aeroclub Valencia", "https://app.example")
	assert.Contains(t, body, "Carlos")
	assert.Contains(t, body, "Aeroclub Valencia")
	assert.Contains(t, body, "https://app.example")
}
