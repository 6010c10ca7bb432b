package postgres

import (
	"testing"

	"hr-portal-backend/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestNextResumeSlot(t *testing.T) {
	current := &domain.ResumeSlot{StorageRef: "documents/r2", URL: "https://cdn/r2"}
	older := &domain.ResumeSlot{StorageRef: "documents/r1", URL: "https://cdn/r1"}

	t.Run("deleting the current resume repoints to the most recent remaining", func(t *testing.T) {
		next, changed := nextResumeSlot(current, "documents/r2", older)
		assert.True(t, changed)
		assert.Equal(t, older, next)
	})

	t.Run("deleting the only resume clears the slot", func(t *testing.T) {
		next, changed := nextResumeSlot(current, "documents/r2", nil)
		assert.True(t, changed)
		assert.Nil(t, next)
	})

	t.Run("deleting an older resume leaves the slot untouched", func(t *testing.T) {
		next, changed := nextResumeSlot(current, "documents/r1", older)
		assert.False(t, changed)
		assert.Equal(t, current, next)
	})

	t.Run("no slot set stays unset", func(t *testing.T) {
		next, changed := nextResumeSlot(nil, "documents/r1", older)
		assert.False(t, changed)
		assert.Nil(t, next)
	})
}

func TestSlotFromColumns(t *testing.T) {
	ref := "documents/r1"
	url := "https://cdn/r1"
	empty := ""

	t.Run("both columns set", func(t *testing.T) {
		slot := slotFromColumns(&ref, &url)
		assert.Equal(t, &domain.ResumeSlot{StorageRef: ref, URL: url}, slot)
	})

	t.Run("null ref means no slot", func(t *testing.T) {
		assert.Nil(t, slotFromColumns(nil, &url))
	})

	t.Run("empty ref means no slot", func(t *testing.T) {
		assert.Nil(t, slotFromColumns(&empty, &url))
	})

	t.Run("null url keeps the ref", func(t *testing.T) {
		slot := slotFromColumns(&ref, nil)
		assert.Equal(t, &domain.ResumeSlot{StorageRef: ref}, slot)
	})
}
