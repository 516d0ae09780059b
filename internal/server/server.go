package server

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"catalog/internal/api"
	"catalog/internal/logging"
	"catalog/internal/storage"
	"catalog/internal/store"
	"catalog/internal/views"
	"catalog/internal/web"
)

// Deps are the collaborators the router is built from.
type Deps struct {
	DB             *gorm.DB
	Products       store.Products
	Uploader       storage.Uploader // nil disables uploads
	SessionSecret  string
	UploadMaxBytes int64
	Logger         *zap.Logger
}

// NewRouter assembles the gin engine serving the API, pages and assets.
func NewRouter(d Deps) (*gin.Engine, error) {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := gin.New()
	r.Use(logging.Middleware(logger), logging.Recovery(logger))
	// Multipart bodies beyond this spill to temp files.
	r.MaxMultipartMemory = 8 << 20

	tmpl, err := views.Parse()
	if err != nil {
		return nil, err
	}
	r.SetHTMLTemplate(tmpl)
	r.StaticFS("/static", http.FS(views.Static()))

	sessStore := cookie.NewStore([]byte(d.SessionSecret))
	sessStore.Options(sessions.Options{Path: "/", HttpOnly: true, SameSite: http.SameSiteLaxMode})
	r.Use(sessions.Sessions("catalog_session", sessStore))

	r.GET("/health", func(c *gin.Context) {
		sqlDB, err := d.DB.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"ok": false, "db": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	api.New(d.Products, d.Uploader, d.UploadMaxBytes).Register(r)
	web.New(d.Products, d.Uploader, d.UploadMaxBytes).Register(r)

	r.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}
		web.NotFound(c)
	})

	return r, nil
}
