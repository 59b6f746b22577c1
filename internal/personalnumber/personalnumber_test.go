package personalnumber

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "199001012391", Normalize("19900101-2391"))
	assert.Equal(t, "199001012391", Normalize(" 199001012391 "))
}

func TestValid(t *testing.T) {
	assert.True(t, Valid("19900101-2391"))
	assert.True(t, Valid("199001012391"))
	assert.False(t, Valid("20190--1012391"))
	assert.False(t, Valid("1990010123"))
	assert.False(t, Valid("19900101239a"))
	assert.False(t, Valid(""))
}

func TestBirthDate(t *testing.T) {
	t.Run("parses embedded date", func(t *testing.T) {
		birth, ok := BirthDate("19900101-2391")
		assert.True(t, ok)
		assert.Equal(t, date(1990, 1, 1), birth)
	})

	t.Run("rejects impossible calendar dates", func(t *testing.T) {
		_, ok := BirthDate("200702300000")
		assert.False(t, ok)
	})

	t.Run("rejects non-numeric and short input", func(t *testing.T) {
		for _, id := range []string{"", "abcdefgh1234", "19900101239"} {
			_, ok := BirthDate(id)
			assert.False(t, ok, id)
		}
	})
}

func TestIsAdult(t *testing.T) {
	today := date(2024, 6, 15)

	legalID := func(birth time.Time) string {
		return fmt.Sprintf("%s2391", birth.Format("20060102"))
	}

	t.Run("exactly 18 years old today is an adult", func(t *testing.T) {
		assert.True(t, IsAdult(legalID(today.AddDate(-18, 0, 0)), today))
	})

	t.Run("one day short of 18 is not an adult", func(t *testing.T) {
		assert.False(t, IsAdult(legalID(today.AddDate(-18, 0, 1)), today))
	})

	t.Run("well past 18 is an adult", func(t *testing.T) {
		assert.True(t, IsAdult("19900101-2391", today))
	})

	t.Run("invalid calendar date fails closed", func(t *testing.T) {
		assert.False(t, IsAdult("200702300000", today))
	})

	t.Run("future birth date fails closed", func(t *testing.T) {
		assert.False(t, IsAdult(legalID(today.AddDate(1, 0, 0)), today))
	})

	t.Run("absent identifier fails closed", func(t *testing.T) {
		assert.False(t, IsAdult("", today))
	})
}
