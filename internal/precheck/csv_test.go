package precheck

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "github.com/Sundsvallskommun/api-service-postportalservice/pkg/domain-errors"
)

func TestValidateCsv(t *testing.T) {
	t.Run("counts duplicates on the hyphen-stripped form", func(t *testing.T) {
		report, err := ValidateCsv(strings.NewReader("Personnummer\n19900101-2391\n19900101-2391"))
		require.NoError(t, err)
		assert.Empty(t, report.BadEntries)
		assert.Equal(t, map[string]int{"199001012391": 2}, report.DuplicateEntries)
	})

	t.Run("hyphenated and bare forms count as the same identifier", func(t *testing.T) {
		report, err := ValidateCsv(strings.NewReader("Personnummer\n19900101-2391\n199001012391"))
		require.NoError(t, err)
		assert.Equal(t, map[string]int{"199001012391": 2}, report.DuplicateEntries)
	})

	t.Run("wrong header fails naming the text", func(t *testing.T) {
		_, err := ValidateCsv(strings.NewReader("Personnmr\n19900101-2391"))
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
		assert.Contains(t, err.Error(), "Personnmr")
	})

	t.Run("malformed row fails naming the entry", func(t *testing.T) {
		report, err := ValidateCsv(strings.NewReader("Personnummer\n20190--1012391"))
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
		assert.Contains(t, err.Error(), "20190--1012391")
		assert.Equal(t, []string{"20190--1012391"}, report.BadEntries)
	})

	t.Run("all malformed rows are collected, not just the first", func(t *testing.T) {
		report, err := ValidateCsv(strings.NewReader("Personnummer\nbad-one\n19900101-2391\nbad-two"))
		require.Error(t, err)
		assert.Equal(t, []string{"bad-one", "bad-two"}, report.BadEntries)
	})

	t.Run("blank lines are skipped", func(t *testing.T) {
		report, err := ValidateCsv(strings.NewReader("\n\nPersonnummer\n\n19900101-2391\n"))
		require.NoError(t, err)
		assert.Empty(t, report.DuplicateEntries)
	})

	t.Run("empty input fails on missing header", func(t *testing.T) {
		_, err := ValidateCsv(strings.NewReader(""))
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	t.Run("only first semicolon column is consulted", func(t *testing.T) {
		report, err := ValidateCsv(strings.NewReader("Personnummer;Namn\n19900101-2391;Kim Svensson"))
		require.NoError(t, err)
		assert.Empty(t, report.BadEntries)
	})
}

func TestParseCsv(t *testing.T) {
	t.Run("dedupes on the hyphen-stripped form", func(t *testing.T) {
		ids, err := ParseCsv(strings.NewReader("Personnummer\n19900101-2391\n199001012391\n19800101-1234"))
		require.NoError(t, err)
		assert.Equal(t, []string{"199001012391", "198001011234"}, ids)
	})

	t.Run("tolerates a missing header", func(t *testing.T) {
		ids, err := ParseCsv(strings.NewReader("19900101-2391"))
		require.NoError(t, err)
		assert.Equal(t, []string{"199001012391"}, ids)
	})

	t.Run("discards blanks and header-prefixed lines", func(t *testing.T) {
		ids, err := ParseCsv(strings.NewReader("Personnummer;Namn\n\n19900101-2391\nPersonnummer"))
		require.NoError(t, err)
		assert.Equal(t, []string{"199001012391"}, ids)
	})
}
