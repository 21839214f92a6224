package route

import (
	"context"
	"net/http"
	"time"

	"cafehere/auth"
	"cafehere/config"
	"cafehere/controller"
	"cafehere/metrics"
	"cafehere/permission"
	"cafehere/service"
	"cafehere/storage"
	"cafehere/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// HealthCheck is probed by GET /healthz.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

type Deps struct {
	Config      *config.Config
	Credentials *auth.CredentialService
	Tokens      *auth.TokenService
	Authorizer  permission.Authorizer
	Services    *service.Services
	Files       storage.Storage
	Health      []HealthCheck
}

// New builds the gin engine with the middleware chain and the route table.
func New(d Deps) (*gin.Engine, error) {
	if err := utils.RegisterValidators(); err != nil {
		return nil, err
	}

	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(
		utils.RequestID(),
		utils.RequestLogger(),
		metrics.Middleware(),
		utils.Recovery(),
		cors.New(corsConfig(d.Config)),
	)
	r.NoRoute(utils.NotFoundHandler)
	r.NoMethod(utils.MethodNotAllowedHandler)

	authc := controller.NewAuthController(d.Credentials, d.Tokens)
	r.POST("/register/", authc.Register)
	r.POST("/login/", authc.Login)
	r.POST("/refresh/", authc.Refresh)
	r.POST("/logout/", authc.Logout)

	cafes := controller.NewCafeController(d.Services.Cafes)
	categories := controller.NewCategoryController(d.Services.Categories)
	groups := controller.NewOptionGroupController(d.Services.OptionGroups)
	products := controller.NewProductController(d.Services.Products)

	api := r.Group("/cafes", utils.AuthRequired(d.Tokens))
	{
		api.GET("/", cafes.List)
		api.POST("/", cafes.Create)

		collection := api.Group("/:cafe_uuid", utils.CafeOwnerRequired(d.Authorizer, permission.ScopeCollection))
		collection.GET("/categories/", categories.List)
		collection.POST("/categories/", categories.Create)
		collection.GET("/option-groups/", groups.List)
		collection.POST("/option-groups/", groups.Create)
		collection.GET("/products/", products.List)
		collection.POST("/products/", products.Create)
		collection.POST("/products/import/", products.Import)

		item := api.Group("/:cafe_uuid", utils.CafeOwnerRequired(d.Authorizer, permission.ScopeItem))
		item.GET("/", cafes.Get)
		item.PUT("/", cafes.Update)
		item.DELETE("/", cafes.Delete)
		item.GET("/categories/:category_id/", categories.Get)
		item.PUT("/categories/:category_id/", categories.Update)
		item.DELETE("/categories/:category_id/", categories.Delete)
		item.GET("/option-groups/:option_group_id/", groups.Get)
		item.PUT("/option-groups/:option_group_id/", groups.Update)
		item.DELETE("/option-groups/:option_group_id/", groups.Delete)
		item.GET("/products/:product_id/", products.Get)
		item.PUT("/products/:product_id/", products.Update)
		item.DELETE("/products/:product_id/", products.Delete)
		item.PUT("/products/:product_id/image/", products.UploadImage)
	}

	r.GET("/healthz", healthz(d.Health))
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	if local, ok := d.Files.(*storage.Local); ok {
		r.Static(d.Config.UploadURLPrefix, local.Dir())
	}
	return r, nil
}

func corsConfig(cfg *config.Config) cors.Config {
	return cors.Config{
		AllowOrigins:     cfg.Origins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
}

func healthz(checks []HealthCheck) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := gin.H{}
		healthy := true
		for _, hc := range checks {
			if err := hc.Check(ctx); err != nil {
				log.Error().Err(err).Str("check", hc.Name).Msg("health check failed")
				status[hc.Name] = "down"
				healthy = false
				continue
			}
			status[hc.Name] = "up"
		}
		if !healthy {
			utils.Fail(c, http.StatusServiceUnavailable, "Service Unavailable", nil)
			return
		}
		utils.OK(c, status)
	}
}
