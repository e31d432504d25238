package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/foliolog/internal/db"
	"github.com/foliolog/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// AuthCookieName 是承载登录令牌的 httpOnly cookie 名称。
const AuthCookieName = "folio_token"

const (
	authTokenTTL = 24 * time.Hour

	ctxUserIDKey   = "user_id"
	ctxUsernameKey = "username"
	ctxRoleKey     = "role"
)

type authClaims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login 验证用户名密码，签发 24 小时有效的 JWT 并写入
// httpOnly、SameSite=Strict 的会话 cookie。
func (a *API) Login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req, "username and password are required") {
		return
	}

	user, err := a.users.Authenticate(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidLogin) {
			respondError(c, http.StatusUnauthorized, "invalid username or password")
			return
		}
		log.Printf("login: %v", err)
		respondError(c, http.StatusInternalServerError, "login failed")
		return
	}

	token, err := a.signToken(user)
	if err != nil {
		log.Printf("login: sign token: %v", err)
		respondError(c, http.StatusInternalServerError, "login failed")
		return
	}

	a.setAuthCookie(c, token, int(authTokenTTL.Seconds()))
	c.JSON(http.StatusOK, gin.H{
		"message":  "login successful",
		"username": user.Username,
		"role":     user.Role,
	})
}

// Logout 清除登录 cookie。
func (a *API) Logout(c *gin.Context) {
	a.setAuthCookie(c, "", -1)
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// Me 返回当前登录用户的信息，供管理界面恢复会话。
func (a *API) Me(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"id":       c.GetUint(ctxUserIDKey),
		"username": c.GetString(ctxUsernameKey),
		"role":     c.GetString(ctxRoleKey),
	})
}

// AuthRequired 校验登录 cookie 中的 JWT，并把用户身份放入请求上下文。
func (a *API) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := c.Cookie(AuthCookieName)
		if err != nil || raw == "" {
			respondError(c, http.StatusUnauthorized, "authentication required")
			c.Abort()
			return
		}

		claims := &authClaims{}
		token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(a.cfg.JWTSecret), nil
		}, jwt.WithValidMethods([]string{"HS256"}))
		if err != nil || !token.Valid {
			respondError(c, http.StatusUnauthorized, "invalid or expired token")
			c.Abort()
			return
		}

		userID, err := parseSubject(claims.Subject)
		if err != nil {
			respondError(c, http.StatusUnauthorized, "invalid token subject")
			c.Abort()
			return
		}

		c.Set(ctxUserIDKey, userID)
		c.Set(ctxUsernameKey, claims.Username)
		c.Set(ctxRoleKey, claims.Role)
		c.Next()
	}
}

// AdminOnly 要求当前用户具备 admin 角色，用于用户管理等高危路由。
func (a *API) AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(ctxRoleKey) != db.RoleAdmin {
			respondError(c, http.StatusForbidden, "admin role required")
			c.Abort()
			return
		}
		c.Next()
	}
}

func (a *API) signToken(user *db.User) (string, error) {
	now := time.Now()
	claims := authClaims{
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   formatSubject(user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(authTokenTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(a.cfg.JWTSecret))
}

func (a *API) setAuthCookie(c *gin.Context, value string, maxAge int) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     AuthCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

func formatSubject(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func parseSubject(sub string) (uint, error) {
	id, err := strconv.ParseUint(sub, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
