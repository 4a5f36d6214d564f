package mailer

import "embed"

const (
	FromName                        = "Rezerva"
	maxRetries                      = 3
	UserWelcomeTemplate             = "user_invitation.tmpl"
	ReservationConfirmationTemplate = "reservation_confirmation.tmpl"
)

//go:embed "templates"
var FS embed.FS

type Client interface {
	Send(templateFile, username, email string, data any) (int, error)
}
