package router

import (
	"time"

	"expensetracker/api"
	"expensetracker/config"
	_ "expensetracker/docs"
	"expensetracker/middleware"
	"expensetracker/session"
	"expensetracker/store"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// SetupRouter 设置路由
func SetupRouter(cfg *config.Config, manager *session.Manager, expenseStore *store.ExpenseStore) *gin.Engine {
	// 设置运行模式
	gin.SetMode(cfg.Server.Mode)

	r := gin.Default()

	// CORS 中间件
	r.Use(CORSMiddleware())

	// Swagger 文档
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API v1 路由组
	v1 := r.Group("/api/v1")
	{
		authHandler := api.NewAuthHandler(cfg, manager)
		expenseHandler := api.NewExpenseHandler(expenseStore)
		summaryHandler := api.NewSummaryHandler(expenseStore)
		exportHandler := api.NewExportHandler(expenseStore)

		// 认证相关路由（无需登录）
		auth := v1.Group("/auth")
		{
			loginLimit := middleware.LoginRateLimit(10, time.Minute)
			auth.POST("/signin", loginLimit, authHandler.SignIn)
			auth.POST("/signup", loginLimit, authHandler.SignUp)
			auth.POST("/dev-signin", authHandler.DevSignIn)
		}

		// 消费类别（无需登录，类别集合是固定的）
		v1.GET("/categories", expenseHandler.GetCategories)

		// 需要 JWT 认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth())
		{
			// 用户相关
			authorized.GET("/auth/profile", authHandler.GetProfile)
			authorized.POST("/auth/signout", authHandler.SignOut)

			// 消费记录相关
			expenses := authorized.Group("/expenses")
			{
				expenses.GET("", expenseHandler.List)
				expenses.POST("", expenseHandler.Create)
				expenses.DELETE("/:id", expenseHandler.Delete)
			}

			// 统计相关
			statistics := authorized.Group("/statistics")
			{
				statistics.GET("/by-category", summaryHandler.ByCategory)
				statistics.GET("/by-month", summaryHandler.ByMonth)
				statistics.GET("/summary", summaryHandler.GetSummary)
			}

			// 导出相关
			export := authorized.Group("/export")
			{
				export.GET("/csv", exportHandler.ExportCSV)
				export.GET("/json", exportHandler.ExportJSON)
				export.GET("/excel", exportHandler.ExportExcel)
			}
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"session": manager.State().String(),
		})
	})

	return r
}

// CORSMiddleware CORS 跨域中间件
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
