package handlers

import (
	"github.com/codetube-labs/codetube/config"
	"github.com/codetube-labs/codetube/middleware/jwtauth"
	"github.com/codetube-labs/codetube/middleware/ratelimit"
	"github.com/codetube-labs/codetube/server"
	"github.com/codetube-labs/codetube/services/jwt"
)

// RegisterRoutes wires every handler onto the server. The authenticated
// group sits behind the JWT middleware; send-code additionally sits behind
// the rate limiter.
func RegisterRoutes(
	srv *server.Server,
	cfg *config.Config,
	limiterStore ratelimit.Store,
	jwtService *jwt.Service,
	auth *AuthHandler,
	oauthHandler *OAuthHandler,
	videos *VideoHandler,
	progressHandler *ProgressHandler,
) {
	authGroup := srv.Group("/api/auth")
	authGroup.POST("/send-code", auth.SendCode, ratelimit.SendCodeLimiter(cfg, limiterStore))
	authGroup.POST("/verify", auth.Verify)
	authGroup.POST("/register", auth.Register)
	authGroup.POST("/login", auth.Login)
	authGroup.POST("/refresh", auth.Refresh)
	authGroup.GET("/:provider", oauthHandler.Begin)
	authGroup.GET("/:provider/callback", oauthHandler.Callback)

	videoGroup := srv.Group("/api/videos")
	videoGroup.GET("/search", videos.Search)
	videoGroup.GET("/:id", videos.Get)

	api := srv.Group("/api")
	api.Use(jwtauth.RequireJWT(jwtService))
	api.GET("/progress", progressHandler.ListProgress)
	api.GET("/progress/:videoID", progressHandler.GetProgress)
	api.PUT("/progress/:videoID", progressHandler.UpdateProgress)
	api.GET("/bookmarks", progressHandler.ListBookmarks)
	api.POST("/bookmarks", progressHandler.AddBookmark)
	api.DELETE("/bookmarks/:videoID", progressHandler.RemoveBookmark)
	api.GET("/wishlist", progressHandler.ListWishlist)
	api.POST("/wishlist", progressHandler.AddWishlistItem)
	api.DELETE("/wishlist/:videoID", progressHandler.RemoveWishlistItem)
}
