package datefmt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate_Layouts(t *testing.T) {
	want := time.Date(2023, time.May, 12, 0, 0, 0, 0, time.UTC)

	for _, in := range []string{
		"2023/05/12",
		"05/12/2023",
		"12-05-2023",
		"2023-05-12",
		"2023.05.12",
		"12.05.2023",
		"2023-5-12",
	} {
		t.Run(in, func(t *testing.T) {
			got, err := ParseDate(in)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestParseDate_DayFirstWhenMonthInvalid(t *testing.T) {
	got, err := ParseDate("13/05/2023")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2023, time.May, 13, 0, 0, 0, 0, time.UTC), got)
}

func TestParseDate_Rejects(t *testing.T) {
	for _, in := range []string{"", "yesterday", "2023-13-45", "2023-05-12 10:00:00"} {
		_, err := ParseDate(in)
		assert.ErrorIs(t, err, ErrUnparseable, in)
	}
}

func TestParseDateTime(t *testing.T) {
	got, err := ParseDateTime("2023/05/12 14:30:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2023, time.May, 12, 14, 30, 0, 0, time.UTC), got)
}

func TestParse_FallsBack(t *testing.T) {
	got, err := Parse("2023-05-12T14:30:00+02:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2023, time.May, 12, 12, 30, 0, 0, time.UTC), got)

	got, err = Parse("12.05.2023")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2023, time.May, 12, 0, 0, 0, 0, time.UTC), got)
}

func TestEndOfDay(t *testing.T) {
	got, err := EndOfDay("2023-05-12")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2023, time.May, 12, 23, 59, 59, 0, time.UTC), got)

	_, err = EndOfDay("2023-05-12 10:00:00")
	assert.Error(t, err)
}
