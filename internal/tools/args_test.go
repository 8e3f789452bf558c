package tools

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Backland-Labs/rosterdesk/internal/scheduling"
)

func TestParseArgs(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in      string
		wantErr bool
	}{
		{in: ""},
		{in: "   "},
		{in: "{}"},
		{in: `{"name":"Asha"}`},
		{in: "null", wantErr: true},
		{in: `"Asha"`, wantErr: true},
		{in: "[1,2]", wantErr: true},
		{in: "{name:Asha}", wantErr: true},
	}
	for _, tt := range tests {
		_, err := ParseArgs(tt.in)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrInvalidArguments, tt.in)
		} else {
			assert.NoError(t, err, tt.in)
		}
	}
}

func TestArgs_Accessors(t *testing.T) {
	t.Parallel()
	a := MustArgs(`{
		"name": "  Ben ",
		"blank": "   ",
		"nothing": null,
		"id": 7,
		"idText": "12",
		"frac": 1.5,
		"flag": true,
		"start": "2025-03-10",
		"bad": "10/03/2025",
		"dotted.key": "x"
	}`)

	assert.Equal(t, "Ben", a.String("name"))
	assert.Equal(t, "", a.String("nothing"))
	assert.Equal(t, "", a.String("absent"))
	assert.Equal(t, "x", a.String("dotted.key"))
	assert.True(t, a.Has("name"))
	assert.False(t, a.Has("nothing"))
	assert.True(t, a.Bool("flag"))
	assert.False(t, a.Bool("absent"))

	_, err := a.RequiredString("blank")
	assert.True(t, errors.Is(err, scheduling.ErrValidation))
	assert.EqualError(t, err, "blank is required.")

	n, err := a.Int64("id")
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)
	n, err = a.Int64("idText")
	require.NoError(t, err)
	assert.Equal(t, int64(12), n)
	_, err = a.Int64("frac")
	assert.EqualError(t, err, "frac must be an integer.")
	_, err = a.Int64("absent")
	assert.EqualError(t, err, "absent is required.")
	_, err = a.Int64("flag")
	assert.EqualError(t, err, "flag must be an integer.")

	d, err := a.Date("start")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), d)
	_, err = a.Date("bad")
	assert.EqualError(t, err, "bad must be a date in yyyy-MM-dd format.")

	opt, err := a.OptionalDate("absent")
	require.NoError(t, err)
	assert.Nil(t, opt)
	opt, err = a.OptionalDate("start")
	require.NoError(t, err)
	require.NotNil(t, opt)
	assert.Equal(t, 10, opt.Day())
}
