package handlers

import (
	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(NewAuthHandler),
	fx.Provide(NewOAuthHandler),
	fx.Provide(NewVideoHandler),
	fx.Provide(NewProgressHandler),
	fx.Invoke(RegisterRoutes),
)
