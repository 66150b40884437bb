package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/maisaeducacao/students-api/internal/domain/entities"
	domainerrors "github.com/maisaeducacao/students-api/internal/domain/errors"
	"github.com/maisaeducacao/students-api/internal/domain/ports"
)

// ClaimsContextKey guarda as claims do token autenticado
const ClaimsContextKey = "auth_claims"

// AccessTokenQueryParam é aceito apenas em rotas WebSocket, onde o browser não envia headers
const AccessTokenQueryParam = "access_token"

// Authenticator valida tokens de acesso. Erros são registrados com c.Error e
// renderizados pelo handler de erros do router.
type Authenticator struct {
	tokens   ports.TokenService
	denylist ports.TokenDenylist
	log      ports.Logger
}

// NewAuthenticator cria o autenticador; denylist nil desativa a checagem de revogação
func NewAuthenticator(tokens ports.TokenService, denylist ports.TokenDenylist, log ports.Logger) *Authenticator {
	return &Authenticator{tokens: tokens, denylist: denylist, log: log}
}

// Required exige "Authorization: Bearer <token>"
func (a *Authenticator) Required() gin.HandlerFunc {
	return a.authenticate(false)
}

// RequiredAllowQuery aceita também ?access_token=
func (a *Authenticator) RequiredAllowQuery() gin.HandlerFunc {
	return a.authenticate(true)
}

func (a *Authenticator) authenticate(allowQuery bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok && allowQuery {
			token = c.Query(AccessTokenQueryParam)
			ok = token != ""
		}
		if !ok {
			abort(c, domainerrors.ErrUnauthorized)
			return
		}

		claims, err := a.tokens.Verify(token)
		if err != nil {
			abort(c, err)
			return
		}

		if a.denylist != nil {
			revoked, err := a.denylist.IsRevoked(c.Request.Context(), claims.TokenID)
			if err != nil {
				a.log.Error("failed to check token denylist", "error", err)
				abort(c, err)
				return
			}
			if revoked {
				abort(c, domainerrors.ErrTokenRevoked)
				return
			}
		}

		c.Set(ClaimsContextKey, claims)
		c.Next()
	}
}

// RequirePermission exige que o papel do usuário autenticado tenha a permissão
func RequirePermission(permission entities.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := CurrentClaims(c)
		if !ok {
			abort(c, domainerrors.ErrUnauthorized)
			return
		}

		if !claims.Role.HasPermission(permission) {
			abort(c, domainerrors.ErrForbidden)
			return
		}

		c.Next()
	}
}

// CurrentClaims retorna as claims do usuário autenticado
func CurrentClaims(c *gin.Context) (*ports.TokenClaims, bool) {
	value, exists := c.Get(ClaimsContextKey)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*ports.TokenClaims)
	return claims, ok && claims != nil
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

func abort(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
