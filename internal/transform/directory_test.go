package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"cohortetl/pkg/contracts/domain"
)

func TestDirectory(t *testing.T) {
	dir := NewDirectory([]domain.FactAttendance{
		{Email: "ama@example.com", LearnerName: "Ama Owusu"},
		{Email: "ama.personal@example.com", LearnerName: "Ama Owusu"},
		{Email: "ama@example.com", LearnerName: "Ama O."},
		{Email: "", LearnerName: "Ghost"},
		{Email: "silent@example.com", LearnerName: ""},
	})

	t.Run("first email wins for a name", func(t *testing.T) {
		email, ok := dir.Resolve("Ama Owusu")
		assert.True(t, ok)
		assert.Equal(t, "ama@example.com", email)
		assert.Equal(t, 1, dir.Conflicts())
	})

	t.Run("names are trimmed before lookup", func(t *testing.T) {
		email, ok := dir.Resolve("  Ama Owusu ")
		assert.True(t, ok)
		assert.Equal(t, "ama@example.com", email)
	})

	t.Run("lookup is case sensitive", func(t *testing.T) {
		_, ok := dir.Resolve("ama owusu")
		assert.False(t, ok)
	})

	t.Run("rows without email are ignored", func(t *testing.T) {
		_, ok := dir.Resolve("Ghost")
		assert.False(t, ok)
	})

	t.Run("first name wins for an email", func(t *testing.T) {
		name, ok := dir.NameFor(" AMA@example.com ")
		assert.True(t, ok)
		assert.Equal(t, "Ama Owusu", name)
	})

	t.Run("email known without a name", func(t *testing.T) {
		name, ok := dir.NameFor("silent@example.com")
		assert.True(t, ok)
		assert.Empty(t, name)
	})

	assert.Equal(t, 2, dir.Len())
	assert.Equal(t, 3, dir.Emails())
}
