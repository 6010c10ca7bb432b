package v1

import (
	"net/http"

	"hr-portal-backend/config"
	"hr-portal-backend/internal/delivery/http/middleware"
	"hr-portal-backend/internal/delivery/http/response"
	"hr-portal-backend/internal/domain"
	"hr-portal-backend/pkg/security"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	DocumentUC domain.DocumentUsecase
	UserUC     domain.UserUsecase
	UserRepo   domain.UserRepository
	Config     *config.Config
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	// The validator is authoritative for the size cap; this only stops gin
	// buffering grossly oversized multipart bodies in memory.
	r.MaxMultipartMemory = security.MaxDocumentSize

	// Global Middlewares
	r.Use(middleware.CORSMiddleware(deps.Config.FrontendURL)) // CORS must be first!
	r.Use(gin.Recovery())
	r.Use(gin.Logger())
	r.Use(middleware.RequestID())
	r.Use(middleware.ErrorHandler())

	v1 := r.Group("/v1")

	// Health Check
	v1.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, "System operational", nil)
	})

	// Swagger
	v1.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Protected routes
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(deps.Config, deps.UserRepo))
	{
		NewDocumentHandler(protected, deps.DocumentUC)
		NewUserHandler(protected, deps.UserUC)
	}

	return r
}
