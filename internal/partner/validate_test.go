package partner

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidators(t *testing.T) {
	assert.True(t, ValidEmail("test@example.com"))
	assert.False(t, ValidEmail("test"))
	assert.False(t, ValidEmail("a@b.c"))

	assert.True(t, ValidPhone("+74951234567"))
	assert.True(t, ValidPhone("+7 (495) 123-45-67"))
	assert.False(t, ValidPhone("123-45-67"))

	assert.True(t, ValidINN("1234567890"))
	assert.False(t, ValidINN("123456789"))
	assert.False(t, ValidINN("12345678ab"))

	rating, ok := ParseRating("5")
	assert.True(t, ok)
	assert.Equal(t, 5, rating)
	_, ok = ParseRating("-1")
	assert.False(t, ok)
	_, ok = ParseRating("five")
	assert.False(t, ok)
}

func TestValidate_CollectsAllProblems(t *testing.T) {
	problems := Validate(Partner{Rating: -1, Email: "nope", Phone: "1", INN: "x"})
	assert.Len(t, problems, 8)

	assert.Empty(t, Validate(validPartner(1)))
}
