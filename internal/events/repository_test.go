package events

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
)

type errRow struct{ err error }

func (r errRow) Scan(...any) error { return r.err }

// Handlers branch on ErrNotFound to tell 404 apart from a 500; only a
// missing row may map to it.
func TestScanEventErrorClassification(t *testing.T) {
	_, err := scanEvent(errRow{pgx.ErrNoRows})
	assert.ErrorIs(t, err, ErrNotFound)

	dbErr := errors.New("connection reset")
	_, err = scanEvent(errRow{dbErr})
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, err, dbErr)
}
