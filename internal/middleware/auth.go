package middleware

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/Alexandre11021998/Zelo/internal/config"
	"github.com/Alexandre11021998/Zelo/internal/models"
	"github.com/Alexandre11021998/Zelo/internal/repository"
	"github.com/Alexandre11021998/Zelo/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const sessionKey = "session"

type sessionResolver interface {
	Resolve(ctx context.Context, userID uuid.UUID) (*models.Session, error)
}

// SessionResolver monta o objeto de sessão de uma requisição autenticada.
// Papéis e perfil são consultados uma única vez aqui; nenhum handler
// volta ao banco para decidir autorização.
type SessionResolver struct {
	users    *repository.UserRepository
	profiles *repository.ProfileRepository
}

func NewSessionResolver(users *repository.UserRepository, profiles *repository.ProfileRepository) *SessionResolver {
	return &SessionResolver{users: users, profiles: profiles}
}

// Resolve carrega conta, papéis e perfil do usuário autenticado.
// Conta sem papéis resulta em sessão com lista vazia (nega por padrão).
func (r *SessionResolver) Resolve(ctx context.Context, userID uuid.UUID) (*models.Session, error) {
	user, err := r.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	roles, err := r.users.GetRoles(ctx, userID)
	if err != nil {
		return nil, err
	}

	session := &models.Session{
		UserID: user.ID,
		Email:  user.Email,
		Roles:  roles,
	}

	profile, err := r.profiles.GetProfile(ctx, userID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		// Conta sem perfil ainda é uma sessão válida
		return session, nil
	}

	session.FullName = profile.FullName
	session.HospitalID = profile.HospitalID
	return session, nil
}

// AuthMiddleware valida o bearer token e resolve a sessão da requisição
func AuthMiddleware(cfg *config.Config, resolver sessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization header required"})
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
			c.Abort()
			return
		}

		claims, err := utils.ValidateJWT(parts[1], cfg)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			c.Abort()
			return
		}

		session, err := resolver.Resolve(c.Request.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			} else {
				log.Printf("Erro ao resolver sessão: %v", err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			}
			c.Abort()
			return
		}

		c.Set(sessionKey, session)
		c.Next()
	}
}

// RequireRoles exige que a sessão possua pelo menos um dos papéis
func RequireRoles(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := GetSession(c)
		if session == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			c.Abort()
			return
		}

		if !session.HasRole(roles...) {
			c.JSON(http.StatusForbidden, gin.H{"error": "permissão insuficiente"})
			c.Abort()
			return
		}

		c.Next()
	}
}

// GetSession retorna a sessão resolvida pelo AuthMiddleware, ou nil
func GetSession(c *gin.Context) *models.Session {
	value, exists := c.Get(sessionKey)
	if !exists {
		return nil
	}
	session, ok := value.(*models.Session)
	if !ok {
		return nil
	}
	return session
}
