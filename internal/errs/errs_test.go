package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestKindsMatchSentinels(t *testing.T) {
	assert.True(t, IsValidation(Validation("tags", "not unique")))
	assert.True(t, IsConflict(Conflict("following", "self-reference")))
	assert.True(t, IsNotFound(NotFound("recipe not found")))
	assert.True(t, IsForbidden(Forbidden("not the author")))
	assert.True(t, IsUnauthorized(Unauthorized("")))

	wrapped := fmt.Errorf("create recipe: %w", Validation("amount", "out of range"))
	assert.True(t, IsValidation(wrapped))
	assert.False(t, IsConflict(wrapped))
}

func TestBodyCarriesFieldKeyedMessages(t *testing.T) {
	err := Validation("tags", "not unique")

	body := err.Body()
	assert.Equal(t, "validation failed", body["error"])
	assert.Equal(t, map[string]string{"tags": "not unique"}, body["fields"])
	assert.Equal(t, http.StatusBadRequest, err.StatusCode)
	assert.Equal(t, "validation failed (tags: not unique)", err.Error())
}

func TestBodyWithoutFields(t *testing.T) {
	body := NotFound("recipe not found").Body()
	assert.Equal(t, "recipe not found", body["error"])
	assert.NotContains(t, body, "fields")
}

func TestFromDB(t *testing.T) {
	assert.NoError(t, FromDB(nil, "recipe"))

	err := FromDB(gorm.ErrRecordNotFound, "recipe")
	assert.True(t, IsNotFound(err))
	assert.Equal(t, "recipe not found", err.Error())

	err = FromDB(fmt.Errorf("insert: %w", gorm.ErrDuplicatedKey), "favorite")
	assert.True(t, IsConflict(err))
	assert.Equal(t, http.StatusConflict, StatusOf(err))

	boom := errors.New("connection reset")
	err = FromDB(boom, "recipe")
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, http.StatusInternalServerError, StatusOf(err))
}
