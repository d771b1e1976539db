// Package mockserver is an in-memory stand-in for the Scanova API used for
// local development and integration tests.
package mockserver

import (
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/scanova-console/internal/middleware"
	"github.com/noah-isme/scanova-console/internal/models"
	appErrors "github.com/noah-isme/scanova-console/pkg/errors"
	"github.com/noah-isme/scanova-console/pkg/logger"
	"github.com/noah-isme/scanova-console/pkg/middleware/cors"
	"github.com/noah-isme/scanova-console/pkg/middleware/requestid"
	"github.com/noah-isme/scanova-console/pkg/response"
)

// DefaultJWTSecret signs tokens when no secret is configured.
const DefaultJWTSecret = "scanova-mock-secret"

// Options configures a Server.
type Options struct {
	Logger     *zap.Logger
	JWTSecret  string
	TokenTTL   time.Duration
	BcryptCost int
	Metrics    middleware.RequestObserver
	// AllowedOrigins feeds the CORS middleware; empty allows any origin.
	AllowedOrigins []string
	// MetricsHandler is mounted on /metrics when set.
	MetricsHandler http.Handler
}

// Server serves the Scanova API from a Store.
type Server struct {
	store          *Store
	tokens         *Tokens
	validate       *validator.Validate
	logger         *zap.Logger
	metrics        middleware.RequestObserver
	metricsHandler http.Handler
	origins        []string
}

// New builds a server over an empty store.
func New(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.JWTSecret == "" {
		opts.JWTSecret = DefaultJWTSecret
	}
	return &Server{
		store:          NewStore(opts.BcryptCost),
		tokens:         NewTokens(opts.JWTSecret, opts.TokenTTL),
		validate:       newValidator(),
		logger:         opts.Logger,
		metrics:        opts.Metrics,
		metricsHandler: opts.MetricsHandler,
		origins:        opts.AllowedOrigins,
	}
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Store exposes the backing store for seeding.
func (s *Server) Store() *Store {
	return s.store
}

// Authenticate implements middleware.Authenticator. The role and organization
// are read from the store so membership changes apply immediately.
func (s *Server) Authenticate(token string) (*middleware.Principal, error) {
	userID, err := s.tokens.Validate(token)
	if err != nil {
		return nil, err
	}
	user, err := s.store.User(userID)
	if err != nil {
		return nil, err
	}
	return &middleware.Principal{UserID: user.ID, Role: user.RoleName, OrgID: user.OrgID}, nil
}

// Router builds the gin engine with every route.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestid.Middleware())
	r.Use(cors.New(s.origins))
	r.Use(logger.GinMiddleware(s.logger))
	r.Use(middleware.Metrics(s.metrics))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if s.metricsHandler != nil {
		r.GET("/metrics", gin.WrapH(s.metricsHandler))
	}
	r.NoRoute(func(c *gin.Context) {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "Not Found"))
	})

	authn := middleware.JWT(s)

	auth := r.Group("/auth")
	auth.POST("/login", s.login)
	auth.POST("/signup", s.signup)
	auth.GET("/me", authn, s.me)

	r.GET("/organizations/me", authn, s.myOrganization)

	inOrg := r.Group("", authn, middleware.RequireOrganization())
	inOrg.GET("/courses", s.listCourses)
	inOrg.POST("/courses", s.createCourse)
	inOrg.GET("/courses/:id", s.getCourse)
	inOrg.PUT("/courses/:id", s.updateCourse)
	inOrg.DELETE("/courses/:id", s.deleteCourse)

	inOrg.GET("/students/course/:courseId", s.listStudents)
	inOrg.POST("/students/", s.createStudent)
	inOrg.PATCH("/students/:id", s.patchStudent)
	inOrg.DELETE("/students/:id", s.deleteStudent)

	membership := r.Group("/membership", authn)
	membership.GET("/invitations/my", s.myInvitations)
	membership.POST("/invitations/:id/respond", s.respondInvitation)
	membership.POST("/leave", s.leave)

	owner := membership.Group("", middleware.RequireRoles(models.RoleOwner))
	owner.GET("/roles", s.roles)
	owner.GET("/members", s.members)
	owner.DELETE("/members/:id", s.removeMember)
	owner.GET("/invitations/org", s.orgInvitations)
	owner.POST("/invite", s.invite)

	return r
}

// bind decodes the JSON body into req and validates it, writing a 422 on failure.
func (s *Server) bind(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.ValidationError(c, err)
		return false
	}
	if err := s.validate.Struct(req); err != nil {
		response.ValidationError(c, err)
		return false
	}
	return true
}

func queryInt(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return fallback
	}
	return v
}
