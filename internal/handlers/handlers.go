package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"bookwise/api/internal/config"
	"bookwise/api/internal/middleware"
	"bookwise/api/internal/models"
	"bookwise/api/internal/repository"
	"bookwise/api/internal/service"
	"bookwise/api/internal/storage"
)

// ratingStore is the slice of the rating repository the handlers need.
type ratingStore interface {
	Create(ctx context.Context, rating models.Rating) error
	UpdateByUserAndBook(ctx context.Context, rating models.Rating) (models.Rating, error)
	ListByBook(ctx context.Context, bookID string) ([]models.Rating, error)
}

type HandlerSet struct {
	log         zerolog.Logger
	cfg         *config.AppConfig
	auth        *service.AuthService
	circulation *service.CirculationService
	uploads     *service.UploadService
	db          *pgxpool.Pool
	cache       *redis.Client
	users       *repository.UserRepository
	sessions    *repository.SessionRepository
	authors     *repository.AuthorRepository
	categories  *repository.CategoryRepository
	publishers  *repository.PublisherRepository
	books       *repository.BookRepository
	copies      *repository.CopyRepository
	loans       *repository.LoanRepository
	ratings     ratingStore
}

func NewHandlerSet(log zerolog.Logger, db *pgxpool.Pool, cache *redis.Client, store *storage.ObjectStore, cfg *config.AppConfig) HandlerSet {
	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	authorRepo := repository.NewAuthorRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	publisherRepo := repository.NewPublisherRepository(db)
	bookRepo := repository.NewBookRepository(db)
	copyRepo := repository.NewCopyRepository(db)
	loanRepo := repository.NewLoanRepository(db)
	reservationRepo := repository.NewReservationRepository(db)
	ratingRepo := repository.NewRatingRepository(db)

	gate := service.NewTokenGate(cache, cfg.Security.JWTAccessTTL)
	notifier := service.NewStreamNotifier(cache, cfg.Circulation.NoticeStream)
	auth := service.NewAuthService(userRepo, sessionRepo, gate, cfg, log)
	circulation := service.NewCirculationService(copyRepo, loanRepo, reservationRepo, notifier, cfg, log)
	uploads := service.NewUploadService(store, cfg, log)

	return HandlerSet{
		log:         log,
		cfg:         cfg,
		auth:        auth,
		circulation: circulation,
		uploads:     uploads,
		db:          db,
		cache:       cache,
		users:       userRepo,
		sessions:    sessionRepo,
		authors:     authorRepo,
		categories:  categoryRepo,
		publishers:  publisherRepo,
		books:       bookRepo,
		copies:      copyRepo,
		loans:       loanRepo,
		ratings:     ratingRepo,
	}
}

// Circulation exposes the service for the maintenance jobs.
func (h HandlerSet) Circulation() *service.CirculationService {
	return h.circulation
}

// Sessions exposes the repository for the maintenance jobs.
func (h HandlerSet) Sessions() *repository.SessionRepository {
	return h.sessions
}

func (h HandlerSet) Register(router *gin.RouterGroup) {
	router.GET("/healthz", h.Health)

	v1 := router.Group("/v1")

	bearer := middleware.Auth(h.auth)
	staff := middleware.RequireRoles(models.UserRoleAdmin, models.UserRoleLibrarian)
	admin := middleware.RequireRoles(models.UserRoleAdmin)

	auth := v1.Group("/auth")
	auth.Use(middleware.RateLimit(h.cfg.RateLimit, h.cache, h.log))
	auth.POST("/signup", h.SignUp)
	auth.POST("/signin", h.SignIn)
	auth.POST("/refresh", h.Refresh)
	auth.POST("/signout", h.SignOut)

	authed := v1.Group("/auth")
	authed.Use(bearer)
	authed.GET("/me", h.Me)
	authed.PUT("/password", h.ChangePassword)

	sessions := v1.Group("/sessions")
	sessions.Use(bearer)
	sessions.GET("", h.ListSessions)
	sessions.DELETE("/:id", h.RevokeSession)

	v1.GET("/books", h.SearchBooks)
	v1.GET("/books/:id", h.GetBook)
	v1.GET("/books/:id/copies", h.ListCopies)
	v1.GET("/books/:id/ratings", h.ListRatings)
	v1.GET("/authors", h.ListAuthors)
	v1.GET("/authors/:id", h.GetAuthor)
	v1.GET("/categories", h.ListCategories)
	v1.GET("/categories/:id", h.GetCategory)
	v1.GET("/publishers", h.ListPublishers)
	v1.GET("/publishers/:id", h.GetPublisher)
	v1.GET("/copies/:id", h.GetCopy)

	catalog := v1.Group("")
	catalog.Use(bearer, staff)
	catalog.POST("/books", h.CreateBook)
	catalog.PUT("/books/:id", h.UpdateBook)
	catalog.DELETE("/books/:id", h.DeleteBook)
	catalog.POST("/books/:id/copies", h.CreateCopy)
	catalog.PUT("/copies/:id", h.UpdateCopy)
	catalog.DELETE("/copies/:id", h.DeleteCopy)
	catalog.POST("/authors", h.CreateAuthor)
	catalog.PUT("/authors/:id", h.UpdateAuthor)
	catalog.DELETE("/authors/:id", h.DeleteAuthor)
	catalog.POST("/categories", h.CreateCategory)
	catalog.PUT("/categories/:id", h.UpdateCategory)
	catalog.DELETE("/categories/:id", h.DeleteCategory)
	catalog.POST("/publishers", h.CreatePublisher)
	catalog.PUT("/publishers/:id", h.UpdatePublisher)
	catalog.DELETE("/publishers/:id", h.DeletePublisher)
	catalog.POST("/media/covers", h.UploadCover)

	member := v1.Group("")
	member.Use(bearer)
	member.POST("/books/:id/ratings", h.CreateRating)
	member.PUT("/books/:id/ratings", h.UpdateRating)
	member.POST("/reservations", h.CreateReservation)
	member.DELETE("/reservations/:id", h.CancelReservation)
	member.GET("/reservations/mine", h.MyReservations)
	member.GET("/loans/mine", h.MyLoans)

	lending := v1.Group("/loans")
	lending.Use(bearer, staff)
	lending.GET("", h.ListLoans)
	lending.POST("", h.CreateLoan)
	lending.POST("/:id/return", h.ReturnLoan)
	lending.POST("/:id/lost", h.MarkLoanLost)

	desk := v1.Group("/reservations")
	desk.Use(bearer, staff)
	desk.GET("", h.ListReservations)

	adminGroup := v1.Group("/admin")
	adminGroup.Use(bearer, admin)
	adminGroup.GET("/users", h.AdminListUsers)
	adminGroup.PUT("/users/:id", h.AdminUpdateUser)
	adminGroup.DELETE("/users/:id", h.AdminDeleteUser)
}
