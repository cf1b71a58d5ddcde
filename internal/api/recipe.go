package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pageza/foodgram/backend/internal/errs"
	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/types"
)

type RecipeHandler struct {
	recipes   service.IRecipeService
	relations service.IRelationService
	lists     service.IShoppingListService
}

func NewRecipeHandler(recipes service.IRecipeService, relations service.IRelationService, lists service.IShoppingListService) *RecipeHandler {
	return &RecipeHandler{recipes: recipes, relations: relations, lists: lists}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	recipes := router.Group("/recipes")
	{
		recipes.GET("", h.ListRecipes)
		recipes.GET("/:id", h.GetRecipe)

		auth := recipes.Group("", middleware.RequireActor())
		auth.POST("", h.CreateRecipe)
		auth.PATCH("/:id", h.UpdateRecipe)
		auth.PUT("/:id", h.UpdateRecipe)
		auth.DELETE("/:id", h.DeleteRecipe)
		auth.POST("/:id/favorite", h.AddFavorite)
		auth.DELETE("/:id/favorite", h.RemoveFavorite)
		auth.POST("/:id/shopping_cart", h.AddToCart)
		auth.DELETE("/:id/shopping_cart", h.RemoveFromCart)
		auth.GET("/download_shopping_cart", h.DownloadShoppingCart)
	}
}

// ListRecipes supports ?author, repeated ?tags (slugs), ?is_favorited and
// ?is_in_shopping_cart, plus page/limit pagination.
func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	var filter types.RecipeFilter
	if author := c.Query("author"); author != "" {
		id, err := uuid.Parse(author)
		if err != nil {
			_ = c.Error(errs.Validation("author", "must be a user id"))
			return
		}
		filter.AuthorID = &id
	}
	for _, tag := range c.QueryArray("tags") {
		for _, slug := range strings.Split(tag, ",") {
			if slug = strings.TrimSpace(slug); slug != "" {
				filter.TagSlugs = append(filter.TagSlugs, slug)
			}
		}
	}
	filter.IsFavorited = flag(c, "is_favorited")
	filter.IsInShoppingCart = flag(c, "is_in_shopping_cart")

	page, err := h.recipes.List(c.Request.Context(), middleware.ActorFrom(c), filter, pageRequest(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, err := recipeID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	recipe, err := h.recipes.Get(c.Request.Context(), middleware.ActorFrom(c), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	var req types.RecipeRequest
	if err := bindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}
	recipe, err := h.recipes.Create(c.Request.Context(), middleware.ActorFrom(c), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, recipe)
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	id, err := recipeID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	var req types.RecipeRequest
	if err := bindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}
	recipe, err := h.recipes.Update(c.Request.Context(), middleware.ActorFrom(c), id, &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	id, err := recipeID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if err := h.recipes.Delete(c.Request.Context(), middleware.ActorFrom(c), id); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) AddFavorite(c *gin.Context) {
	h.addRelation(c, h.relations.AddFavorite)
}

func (h *RecipeHandler) RemoveFavorite(c *gin.Context) {
	h.removeRelation(c, h.relations.RemoveFavorite)
}

func (h *RecipeHandler) AddToCart(c *gin.Context) {
	h.addRelation(c, h.relations.AddToCart)
}

func (h *RecipeHandler) RemoveFromCart(c *gin.Context) {
	h.removeRelation(c, h.relations.RemoveFromCart)
}

// DownloadShoppingCart sends the aggregated cart as an attachment. ?format
// is txt or pdf, pdf by default.
func (h *RecipeHandler) DownloadShoppingCart(c *gin.Context) {
	artifact, err := h.lists.Download(c.Request.Context(), middleware.ActorFrom(c), c.Query("format"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", artifact.Filename))
	c.Data(http.StatusOK, artifact.ContentType, artifact.Body)
}

type addFunc func(ctx context.Context, actor types.Actor, recipeID uint) (*types.RecipeMinified, error)
type removeFunc func(ctx context.Context, actor types.Actor, recipeID uint) error

func (h *RecipeHandler) addRelation(c *gin.Context, add addFunc) {
	id, err := recipeID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	recipe, err := add(c.Request.Context(), middleware.ActorFrom(c), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, recipe)
}

func (h *RecipeHandler) removeRelation(c *gin.Context, remove removeFunc) {
	id, err := recipeID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if err := remove(c.Request.Context(), middleware.ActorFrom(c), id); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}
