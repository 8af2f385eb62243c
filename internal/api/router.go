package api

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edunaija/teachershub/internal/payments"
	"github.com/edunaija/teachershub/internal/scheduler"
	"github.com/edunaija/teachershub/internal/storage"
)

// SessionStore issues and resolves opaque bearer tokens.
type SessionStore interface {
	CreateSession(ctx context.Context, kind string, id uint) (string, error)
	GetSession(ctx context.Context, token string) (kind string, id uint, err error)
	DeleteSession(ctx context.Context, token string) error
}

// CycleTrigger runs one news collection cycle on demand.
type CycleTrigger interface {
	TriggerNow() (*scheduler.Report, error)
}

// PaymentClient is the Paystack surface the handlers use.
type PaymentClient interface {
	Initialize(ctx context.Context, req payments.InitializeRequest) (*payments.Authorization, error)
	Verify(ctx context.Context, reference string) (*payments.Transaction, error)
}

// Uploader pushes a binary to the CDN and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, fileName string, r io.Reader, folder string) (string, error)
}

type Server struct {
	store    *storage.Store
	sessions SessionStore
	trigger  CycleTrigger
	pay      PaymentClient
	uploads  Uploader
	appURL   string
}

func NewServer(store *storage.Store, sessions SessionStore, trigger CycleTrigger, pay PaymentClient, uploads Uploader, appURL string) *Server {
	return &Server{
		store:    store,
		sessions: sessions,
		trigger:  trigger,
		pay:      pay,
		uploads:  uploads,
		appURL:   appURL,
	}
}

func (s *Server) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", s.health)

	v1 := r.Group("/api/v1")
	{
		v1.GET("/news", s.listNews)
		v1.GET("/adverts", s.listRunningAdverts)
		v1.GET("/blog", s.listPosts)
		v1.GET("/blog/:id", s.getPost)
		v1.GET("/teacher-of-the-month", s.activeTeacherOfMonth)
		v1.GET("/materials", s.listMaterials)
		v1.POST("/materials/:id/download", s.downloadMaterial)

		v1.POST("/auth/register", s.register)
		v1.POST("/auth/login", s.login)
		v1.POST("/auth/logout", s.requireUser, s.logout)

		v1.POST("/donations", s.createDonation)
		v1.GET("/donations/callback", s.donationCallback)

		// Paystack redirects the payer's browser here without auth headers;
		// the reference is re-verified with the provider before trusting it.
		v1.GET("/adverts/:id/payment-callback", s.advertPaymentCallback)
	}

	user := v1.Group("", s.requireUser)
	{
		user.GET("/profile", s.getProfile)
		user.PUT("/profile", s.updateProfile)
		user.POST("/profile/picture", s.uploadProfilePicture)

		user.POST("/blog", s.createPost)
		user.PUT("/blog/:id", s.updatePost)
		user.DELETE("/blog/:id", s.deletePost)
		user.POST("/blog/:id/comments", s.addComment)
		user.POST("/blog/:id/like", s.toggleLike)

		user.POST("/adverts", s.submitAdvert)
		user.GET("/my/adverts", s.myAdverts)
		user.POST("/adverts/:id/pay", s.payAdvert)
	}

	v1.POST("/admin/login", s.adminLogin)
	admin := v1.Group("/admin", s.requireAdmin)
	{
		admin.GET("/dashboard", s.dashboard)

		admin.GET("/users", s.adminListUsers)
		admin.POST("/users/:id/toggle", s.adminToggleUser)
		admin.DELETE("/users/:id", s.adminDeleteUser)

		admin.GET("/adverts", s.adminListAdverts)
		admin.POST("/adverts/:id/approve", s.adminApproveAdvert)
		admin.POST("/adverts/:id/reject", s.adminRejectAdvert)
		admin.POST("/adverts/:id/deactivate", s.adminDeactivateAdvert)
		admin.DELETE("/adverts/:id", s.adminDeleteAdvert)
		admin.GET("/advert-pricing", s.getAdvertPricing)
		admin.PUT("/advert-pricing", s.setAdvertPricing)

		admin.GET("/teacher-of-the-month", s.adminListTeachersOfMonth)
		admin.POST("/teacher-of-the-month", s.adminCreateTeacherOfMonth)
		admin.PUT("/teacher-of-the-month/:id", s.adminUpdateTeacherOfMonth)
		admin.DELETE("/teacher-of-the-month/:id", s.adminDeleteTeacherOfMonth)
		admin.POST("/teacher-of-the-month/:id/activate", s.adminActivateTeacherOfMonth)

		admin.POST("/materials", s.adminCreateMaterial)
		admin.POST("/materials/:id/toggle", s.adminToggleMaterial)
		admin.DELETE("/materials/:id", s.adminDeleteMaterial)

		admin.DELETE("/news/:id", s.adminDeleteNews)
		admin.POST("/news/fetch", s.adminFetchNews)
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func ok(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"code": "ok", "message": "success", "data": data})
}

func created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, gin.H{"code": "ok", "message": "created", "data": data})
}

func fail(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{"code": code, "message": message})
}
