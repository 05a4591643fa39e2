package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"radarbr/internal/domain"
)

func TestPublishExit(t *testing.T) {
	t.Run("no publish requested", func(t *testing.T) {
		assert.Equal(t, 0, publishExit(nil))
	})

	t.Run("zero production exits 1", func(t *testing.T) {
		assert.Equal(t, 1, publishExit(&domain.RunReport{Requested: 3, Produced: 0}))
	})

	t.Run("production exits 0", func(t *testing.T) {
		assert.Equal(t, 0, publishExit(&domain.RunReport{Requested: 3, Produced: 1}))
	})
}

func TestParsePeriod(t *testing.T) {
	got, err := parsePeriod("7d")
	assert.NoError(t, err)
	assert.Equal(t, 7*24*time.Hour, got)

	_, err = parsePeriod("2w")
	assert.Error(t, err)
}
