package main

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path"
	"regexp"
	"strings"
	"syscall"
	"time"

	"sltourism/src/boot"
	"sltourism/src/booking"
	"sltourism/src/config"
	"sltourism/src/middlewares"

	"github.com/covalenthq/lumberjack"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const (
	apiPrefix string = "/api/v1"
)

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed static
var staticFS embed.FS

var imageURLPattern = regexp.MustCompile(`^(https?://\S+|/\S*|data:image/[a-z+.-]+;base64,\S+)$`)

// safeImageURL lets stored data URIs through html/template, which would
// otherwise rewrite them to #ZgotmplZ.
func safeImageURL(s string) template.URL {
	s = strings.TrimSpace(s)
	if !imageURLPattern.MatchString(s) {
		return template.URL("/static/placeholder.svg")
	}
	return template.URL(s)
}

var categoryValidatorFunc validator.Func = func(fl validator.FieldLevel) bool {
	s, ok := fl.Field().Interface().(string)
	// any label is accepted and normalised later, only junk is refused
	return ok && len(strings.TrimSpace(s)) <= 64
}

var imageURLValidatorFunc validator.Func = func(fl validator.FieldLevel) bool {
	s, ok := fl.Field().Interface().(string)
	return ok && imageURLPattern.MatchString(strings.TrimSpace(s))
}

var bookingStatusValidatorFunc validator.Func = func(fl validator.FieldLevel) bool {
	s, ok := fl.Field().Interface().(string)
	return ok && booking.IsStatus(s)
}

func registerValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("category", categoryValidatorFunc)
		v.RegisterValidation("imageurl", imageURLValidatorFunc)
		v.RegisterValidation("bookingstatus", bookingStatusValidatorFunc)
	}
}

func maintenanceModeMiddleware(g *gin.Engine) *gin.Engine {
	g.Use(func(ctx *gin.Context) {
		if config.MaintenanceMode() {
			err := errors.New("server is under maintenance")
			log.Println(err.Error())
			ctx.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
			return
		}
	})
	return g
}

func corsMiddleware(g *gin.Engine) *gin.Engine {
	if config.IsLocal() || config.APP_HOST == "" {
		g.Use(cors.Default())
		return g
	}
	cc := cors.DefaultConfig()
	cc.AllowMethods = append(cc.AllowMethods, "GET", "POST", "PATCH", "PUT", "DELETE", "HEAD")
	cc.AllowHeaders = append(cc.AllowHeaders, "Origin", "Authorization")
	cc.AllowOriginFunc = func(origin string) bool {
		match, _ := regexp.MatchString(config.APP_HOST, origin)
		return match
	}
	cc.AllowCredentials = true
	g.Use(cors.New(cc))
	return g
}

func apiv1Group(g *gin.Engine) *gin.RouterGroup {
	apiv1 := g.Group(apiPrefix)
	return apiv1
}

func setupRouter(s *boot.Services) *gin.Engine {
	router := gin.Default()
	corsMiddleware(router)
	maintenanceModeMiddleware(router)

	tmpl := template.Must(template.New("").Funcs(template.FuncMap{
		"title": func(v any) string {
			str := fmt.Sprint(v)
			if str == "" {
				return ""
			}
			return strings.ToUpper(str[:1]) + str[1:]
		},
		"safeURL": safeImageURL,
	}).ParseFS(templatesFS, "templates/*.html"))
	router.SetHTMLTemplate(tmpl)
	static, _ := fs.Sub(staticFS, "static")
	router.StaticFS("/static", http.FS(static))

	router.GET("/", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, "ok")
	})
	router.GET("/gallery", galleryPage(s))

	apiv1 := apiv1Group(router)
	authHandlers(apiv1.Group("/auth"))
	galleryHandlers(apiv1, s)
	bookingHandlers(apiv1, s)
	catalogHandlers(apiv1, s)
	stripeWebhookRoute(router, s)

	admin := router.Group("/admin")
	admin.Use(middlewares.AuthMiddleware)
	admin.GET("/pictures", adminPicturesPage(s))

	authorized := router.Group(apiPrefix)
	authorized.Use(middlewares.AuthMiddleware)
	{
		pictureHandlers(authorized, s)
		carouselAdminHandlers(authorized, s)
		bookingAdminHandlers(authorized, s)
		catalogAdminHandlers(authorized, s)
	}
	return router
}

func initLogger() {
	cwd, _ := os.Getwd()
	logsDir := path.Join(cwd, "logs")
	if err := os.MkdirAll(logsDir, 0o755); err != nil {
		log.Printf("Could not create logs dir: %s\n", err.Error())
		return
	}
	serverLogs := path.Join(logsDir, "server.log")
	apiLogs := path.Join(logsDir, "api.log")
	gin.ForceConsoleColor()

	f, _ := os.Create(apiLogs)
	gin.DefaultWriter = io.MultiWriter(f, os.Stdout)
	log.SetOutput(&lumberjack.Logger{
		Filename:   serverLogs,
		MaxSize:    500,
		MaxBackups: 3,
		MaxAge:     30,
		Compress:   true,
	})
}

func main() {
	if os.Getenv("API_ENV") == "local" {
		cwd, _ := os.Getwd()
		if err := godotenv.Load(path.Join(cwd, ".env")); err != nil {
			panic(err)
		}
		config.Reload()
	}
	if config.IsProd() {
		gin.SetMode(gin.ReleaseMode)
	}
	initLogger()
	registerValidators()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	services, err := boot.Init(ctx)
	cancel()
	if err != nil {
		log.Fatalf("Failed to start services: %s", err)
	}

	router := setupRouter(services)
	srv := &http.Server{
		Addr:              ":" + config.API_PORT,
		Handler:           router,
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("Server listening on %s\n", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %s", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Println("Shutdown signal received, shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %s\n", err.Error())
	}
	if err := services.Stop(); err != nil {
		log.Printf("Error stopping services: %s\n", err.Error())
	}
	log.Println("Server stopped")
}
