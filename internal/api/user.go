package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/service"
)

type UserHandler struct {
	users     service.IUserService
	relations service.IRelationService
}

func NewUserHandler(users service.IUserService, relations service.IRelationService) *UserHandler {
	return &UserHandler{users: users, relations: relations}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	users := router.Group("/users")
	{
		users.GET("", h.ListUsers)
		users.GET("/:id", h.GetUser)

		auth := users.Group("", middleware.RequireActor())
		auth.GET("/me", h.Me)
		auth.GET("/subscriptions", h.ListSubscriptions)
		auth.GET("/favorites", h.ListFavorites)
		auth.GET("/shopping_cart", h.ListCart)
		auth.POST("/:id/subscribe", h.Subscribe)
		auth.DELETE("/:id/subscribe", h.Unsubscribe)
	}
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	page, err := h.users.List(c.Request.Context(), middleware.ActorFrom(c), pageRequest(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *UserHandler) GetUser(c *gin.Context) {
	id, err := userID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	user, err := h.users.Get(c.Request.Context(), middleware.ActorFrom(c), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) Me(c *gin.Context) {
	actor := middleware.ActorFrom(c)
	user, err := h.users.Get(c.Request.Context(), actor, actor.ID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// ListSubscriptions pages through followed authors; ?recipes_limit bounds
// each author's recipe list.
func (h *UserHandler) ListSubscriptions(c *gin.Context) {
	page, err := h.relations.ListSubscriptions(c.Request.Context(), middleware.ActorFrom(c), pageRequest(c), recipesLimit(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *UserHandler) Subscribe(c *gin.Context) {
	id, err := userID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	view, err := h.relations.Subscribe(c.Request.Context(), middleware.ActorFrom(c), id, recipesLimit(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

func (h *UserHandler) Unsubscribe(c *gin.Context) {
	id, err := userID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if err := h.relations.Unsubscribe(c.Request.Context(), middleware.ActorFrom(c), id); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *UserHandler) ListFavorites(c *gin.Context) {
	recipes, err := h.relations.ListFavorites(c.Request.Context(), middleware.ActorFrom(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, recipes)
}

func (h *UserHandler) ListCart(c *gin.Context) {
	recipes, err := h.relations.ListCart(c.Request.Context(), middleware.ActorFrom(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, recipes)
}
