package api

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pageza/foodgram/backend/internal/errs"
	"github.com/pageza/foodgram/backend/internal/types"
)

// recipeID parses :id. Anything that is not a positive integer cannot name
// a recipe, so it is reported as not found.
func recipeID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, errs.NotFound("recipe not found")
	}
	return uint(id), nil
}

func catalogID(c *gin.Context, entity string) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, errs.NotFound(entity + " not found")
	}
	return uint(id), nil
}

func userID(c *gin.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, errs.NotFound("user not found")
	}
	return id, nil
}

// recipesLimit reads ?recipes_limit. Missing, invalid or negative values
// mean no bound.
func recipesLimit(c *gin.Context) int {
	n, err := strconv.Atoi(c.Query("recipes_limit"))
	if err != nil || n < 0 {
		return -1
	}
	return n
}

func pageRequest(c *gin.Context) types.PageRequest {
	return types.ParsePageRequest(c.Query("page"), c.Query("limit"))
}

// flag reads boolean query flags the way the frontend sends them: "1" or
// "true".
func flag(c *gin.Context, name string) bool {
	switch strings.ToLower(c.Query(name)) {
	case "1", "true":
		return true
	}
	return false
}

func bindJSON(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return errs.Validation("body", fmt.Sprintf("invalid request body: %v", err))
	}
	return nil
}
