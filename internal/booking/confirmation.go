package booking

import (
	"time"

	"github.com/speps/go-hashids/v2"
)

// codeGenerator derives the short code customers quote at the door. It hashes
// the venue, user and slot rather than the row id so the code exists before
// the insert and never leaks sequential ids.
type codeGenerator struct {
	h *hashids.HashID
}

func newCodeGenerator(salt string) (*codeGenerator, error) {
	data := hashids.NewData()
	data.Salt = salt
	data.MinLength = 8
	h, err := hashids.NewWithData(data)
	if err != nil {
		return nil, err
	}
	return &codeGenerator{h: h}, nil
}

func (g *codeGenerator) Code(venueID, userID int64, date time.Time) (string, error) {
	return g.h.EncodeInt64([]int64{venueID, userID, date.Unix()})
}
