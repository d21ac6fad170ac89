package clubs

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
)

type errRow struct{ err error }

func (r errRow) Scan(...any) error { return r.err }

func TestScanClubErrorClassification(t *testing.T) {
	_, err := scanClub(errRow{pgx.ErrNoRows})
	assert.ErrorIs(t, err, ErrNotFound)

	dbErr := errors.New("connection reset")
	_, err = scanClub(errRow{dbErr})
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, err, dbErr)
}
