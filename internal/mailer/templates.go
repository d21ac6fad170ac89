package mailer

import "fmt"

// Invitation email subjects depend on whether the invitee already has an
// account: existing users get a direct accept link, new users a combined
// register-and-join link.

// InvitationSubject returns the subject for an invitation email.
func InvitationSubject(clubName string) string {
	return fmt.Sprintf("Invitación a unirte a %s", clubName)
}

// InvitationBody renders the invitation email. link points at the frontend
// landing page carrying the token.
func InvitationBody(clubName, inviterName, link string, existingUser bool) string {
	action := "crea tu cuenta y únete al club"
	button := "Registrarme y unirme"
	if existingUser {
		action = "acepta la invitación desde tu cuenta"
		button = "Aceptar invitación"
	}
	return fmt.Sprintf(`<html><body style="font-family: Arial, sans-serif; color: #1f2937;">
<h2>Te han invitado a %s</h2>
<p>%s te ha invitado a formar parte del club <strong>%s</strong>.</p>
<p>Para continuar, %s:</p>
<p><a href="%s" style="display:inline-block;padding:12px 24px;background:#1E40AF;color:#ffffff;text-decoration:none;border-radius:6px;">%s</a></p>
<p style="color:#6b7280;font-size:12px;">Si no esperabas esta invitación puedes ignorar este correo. El enlace caduca automáticamente.</p>
</body></html>`, clubName, inviterName, clubName, action, link, button)
}

// WelcomeSubject returns the subject for the post-registration welcome email.
func WelcomeSubject(clubName string) string {
	return fmt.Sprintf("Bienvenido a %s", clubName)
}

// WelcomeBody renders the welcome email sent after registering through an
// invitation.
func WelcomeBody(fullName, clubName, frontendURL string) string {
	return fmt.Sprintf(`<html><body style="font-family: Arial, sans-serif; color: #1f2937;">
<h2>¡Bienvenido, %s!</h2>
<p>Tu cuenta se ha creado y ya eres miembro de <strong>%s</strong>.</p>
<p><a href="%s" style="display:inline-block;padding:12px 24px;background:#1E40AF;color:#ffffff;text-decoration:none;border-radius:6px;">Ir a la plataforma</a></p>
</body></html>`, fullName, clubName, frontendURL)
}

// TestSubject is the subject for SMTP configuration test emails.
const TestSubject = "Correo de prueba"

// TestBody renders the SMTP test email.
func TestBody() string {
	return `<html><body style="font-family: Arial, sans-serif; color: #1f2937;">
<p>La configuración SMTP funciona correctamente.</p>
</body></html>`
}
