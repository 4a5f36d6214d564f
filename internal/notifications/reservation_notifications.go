package notifications

import (
	"context"
	"errors"
	"fmt"

	"rezerva/internal/domain/storage"

	"github.com/9ssi7/exponent"
)

type ReservationEvent string

const (
	ReservationCreated  ReservationEvent = "CREATED"
	ReservationUpdated  ReservationEvent = "UPDATED"
	ReservationCanceled ReservationEvent = "CANCELED"
)

// SendReservationNotification pushes a reservation event to every device
// registered for the target user. For CREATED the target is the venue owner,
// for the rest it is the guest.
func SendReservationNotification(ctx context.Context, push PushSender, store *storage.Container, userID int64, event ReservationEvent, venueName string) error {
	tokensMap, err := store.PushTokens.GetTokensByUserIDs(ctx, []int64{userID})
	if err != nil {
		return err
	}
	tokens := tokensMap[userID]
	if len(tokens) == 0 {
		return errors.New("no push tokens")
	}

	var title, body string
	switch event {
	case ReservationCreated:
		title = "New Reservation"
		body = fmt.Sprintf("You have a new reservation at %s", venueName)
	case ReservationUpdated:
		title = "Reservation Updated"
		body = fmt.Sprintf("Your reservation at %s has been updated", venueName)
	case ReservationCanceled:
		title = "Reservation Canceled"
		body = fmt.Sprintf("Your reservation at %s has been canceled", venueName)
	default:
		title = "Reservation Update"
		body = fmt.Sprintf("Your reservation at %s has an update", venueName)
	}

	msgs := make([]*exponent.Message, 0, len(tokens))
	for _, t := range tokens {
		token := exponent.Token(t)
		msgs = append(msgs, &exponent.Message{
			To:    []*exponent.Token{&token},
			Title: title,
			Body:  body,
			// data drives deep linking on the client
			Data: map[string]string{
				"type":   "reservation",
				"event":  string(event),
				"screen": "reservations-screen",
			},
		})
	}

	if _, err := push.Publish(ctx, msgs); err != nil {
		return err
	}
	return nil
}
