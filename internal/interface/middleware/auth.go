package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/servicemart/internal/domain/entity"
	"github.com/oksasatya/servicemart/pkg/helpers"
	"github.com/oksasatya/servicemart/pkg/response"
)

// Gin context keys set by Auth.
const (
	CtxAccountID = "accountID"
	CtxRole      = "role"
	CtxAccount   = "account"
	CtxSessionID = "sessionID"
)

type AccountLoader interface {
	GetByID(ctx context.Context, role entity.Role, id string) (*entity.Account, error)
}

type SessionChecker interface {
	Valid(ctx context.Context, sid, accountID string) (bool, error)
}

// Auth validates the jwt cookie, ensures its Redis session is still alive
// and loads the account. Blocked accounts are refused even with a valid
// session.
func Auth(jwt *helpers.JWTManager, sessions SessionChecker, accounts AccountLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(helpers.SessionCookie)
		if err != nil || token == "" {
			response.Abort(c, http.StatusUnauthorized, "not authenticated", nil)
			return
		}
		claims, err := jwt.Parse(token)
		if err != nil {
			response.Abort(c, http.StatusUnauthorized, "invalid token", nil)
			return
		}
		ctx := c.Request.Context()
		ok, err := sessions.Valid(ctx, claims.SessionID, claims.AccountID)
		if err != nil {
			response.Abort(c, http.StatusInternalServerError, "internal error", nil)
			return
		}
		if !ok {
			response.Abort(c, http.StatusUnauthorized, "session expired", nil)
			return
		}
		role := entity.Role(claims.Role)
		acct, err := accounts.GetByID(ctx, role, claims.AccountID)
		if err != nil {
			response.Abort(c, http.StatusUnauthorized, "account not found", nil)
			return
		}
		if acct.Blocked {
			response.Abort(c, http.StatusForbidden, "account is blocked", nil)
			return
		}

		c.Set(CtxAccountID, acct.ID)
		c.Set(CtxRole, string(role))
		c.Set(CtxAccount, acct)
		c.Set(CtxSessionID, claims.SessionID)
		c.Next()
	}
}

// RequireRole must run after Auth.
func RequireRole(roles ...entity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := Role(c)
		for _, r := range roles {
			if r == role {
				c.Next()
				return
			}
		}
		response.Abort(c, http.StatusForbidden, "forbidden", nil)
	}
}

func AccountID(c *gin.Context) string { return c.GetString(CtxAccountID) }

func Role(c *gin.Context) entity.Role { return entity.Role(c.GetString(CtxRole)) }

func SessionID(c *gin.Context) string { return c.GetString(CtxSessionID) }

// CurrentAccount returns the account loaded by Auth, or nil.
func CurrentAccount(c *gin.Context) *entity.Account {
	if v, ok := c.Get(CtxAccount); ok {
		a, _ := v.(*entity.Account)
		return a
	}
	return nil
}
