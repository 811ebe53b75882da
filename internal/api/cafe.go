package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// cafeProfile handles GET /cafe/profile
func (r *Router) cafeProfile(c *gin.Context) {
	profile, err := r.deps.Cafe.Profile(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// cafeArticles handles GET /cafe/articles/:menuID/:pageID
func (r *Router) cafeArticles(c *gin.Context) {
	menuID := c.Param("menuID")
	pageID := c.Param("pageID")

	articles, err := r.deps.Cafe.Articles(c.Request.Context(), menuID, pageID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"articles": articles, "count": len(articles)})
}
