// Command devauth is a local stand-in for the identity provider. It mints
// HS256 session tokens that the api accepts, so admin endpoints can be
// exercised without the hosted provider.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/nimasrn/storefront-backoffice/internal/auth"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// TokenRequest asks for a token for an existing users row.
type TokenRequest struct {
	UserID string `json:"user_id" binding:"required"`
	Email  string `json:"email"`
	TTL    string `json:"ttl"`
}

type TokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type Issuer struct {
	secret     string
	issuer     string
	defaultTTL time.Duration
}

func NewIssuer(secret, issuer string, defaultTTL time.Duration) *Issuer {
	return &Issuer{secret: secret, issuer: issuer, defaultTTL: defaultTTL}
}

func (i *Issuer) IssueToken(c *gin.Context) {
	var req TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if _, err := uuid.Parse(req.UserID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id must be a uuid"})
		return
	}

	ttl := i.defaultTTL
	if req.TTL != "" {
		d, err := time.ParseDuration(req.TTL)
		if err != nil || d <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ttl"})
			return
		}
		ttl = d
	}

	token, err := auth.GenerateToken(i.secret, i.issuer, req.UserID, req.Email, ttl)
	if err != nil {
		log.Error().Err(err).Msg("Failed to sign token")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to sign token"})
		return
	}

	log.Info().Str("user_id", req.UserID).Dur("ttl", ttl).Msg("Token issued")
	c.JSON(http.StatusOK, TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   time.Now().Add(ttl).UTC(),
	})
}

func (i *Issuer) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "issuer": i.issuer, "timestamp": time.Now().UTC()})
}

// SetupRouter configures all routes
func SetupRouter(issuer *Issuer) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Msg("Request processed")
	})

	router.POST("/token", issuer.IssueToken)
	router.GET("/health", issuer.HealthCheck)

	return router
}

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	port := getEnv("PORT", "8090")
	secret := os.Getenv("IDENTITY_JWT_SECRET")
	if secret == "" {
		log.Fatal().Msg("IDENTITY_JWT_SECRET must be set")
	}
	issuerName := getEnv("IDENTITY_ISSUER", "")
	ttl := getEnvDuration("TOKEN_TTL", time.Hour)

	log.Info().
		Str("port", port).
		Str("issuer", issuerName).
		Dur("token_ttl", ttl).
		Msg("Starting local identity provider")

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      SetupRouter(NewIssuer(secret, issuerName, ttl)),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("Server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
