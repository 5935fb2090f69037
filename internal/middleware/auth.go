package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"humansonly/internal/pkg"
	"humansonly/internal/repository/mysql"
	"humansonly/internal/repository/redis"
)

const (
	ContextUserIDKey    = "user_id"
	ContextPrincipalKey = "principal"
)

// Principal 解析后的请求身份，所有核心操作显式传入，不做全局查找
type Principal struct {
	UserID          uint64
	IsVerifiedHuman bool
}

// PrincipalFrom 从gin上下文取出已解析的身份
func PrincipalFrom(c *gin.Context) (Principal, bool) {
	v, ok := c.Get(ContextPrincipalKey)
	if !ok {
		return Principal{}, false
	}
	p, ok := v.(Principal)
	return p, ok
}

// AuthMiddleware Bearer token -> claims -> redis单端校验 -> 装配Principal
func AuthMiddleware(db *gorm.DB) gin.HandlerFunc {
	userRepo := &mysql.UserRepository{DB: db}
	sessionRepo := &redis.UserRepository{}

	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"msg": "missing authorization header"})
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"msg": "invalid authorization format"})
			c.Abort()
			return
		}

		tokenStr := parts[1]
		claims, err := pkg.ParseAccess(tokenStr)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"msg": "invalid or expired token"})
			c.Abort()
			return
		}

		// redis校验是否是最后一次登录下发的token
		originToken, err := sessionRepo.GetUserToken(c.Request.Context(), claims.UserID)
		if err != nil || originToken != tokenStr {
			c.JSON(http.StatusUnauthorized, gin.H{"msg": "account has been logged in elsewhere"})
			c.Abort()
			return
		}

		// 校验通过后顺延过期时间
		if err = sessionRepo.ExtendUserToken(c.Request.Context(), claims.UserID); err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"msg": err.Error()})
			return
		}

		// 装配Principal：verified标志以库里当前值为准，不信token里的旧状态
		user, err := userRepo.FindByID(c.Request.Context(), claims.UserID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"msg": "account not found"})
			c.Abort()
			return
		}

		c.Set(ContextUserIDKey, claims.UserID)
		c.Set(ContextPrincipalKey, Principal{
			UserID:          user.ID,
			IsVerifiedHuman: user.IsVerifiedHuman,
		})
		c.Next()
	}
}

// OptionalAuthMiddleware 公开读接口用：带了有效token就装配身份，没带照常放行
func OptionalAuthMiddleware(db *gorm.DB) gin.HandlerFunc {
	userRepo := &mysql.UserRepository{DB: db}
	sessionRepo := &redis.UserRepository{}

	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.Next()
			return
		}

		tokenStr := parts[1]
		claims, err := pkg.ParseAccess(tokenStr)
		if err != nil {
			c.Next()
			return
		}
		originToken, err := sessionRepo.GetUserToken(c.Request.Context(), claims.UserID)
		if err != nil || originToken != tokenStr {
			c.Next()
			return
		}
		user, err := userRepo.FindByID(c.Request.Context(), claims.UserID)
		if err != nil {
			c.Next()
			return
		}

		c.Set(ContextUserIDKey, user.ID)
		c.Set(ContextPrincipalKey, Principal{
			UserID:          user.ID,
			IsVerifiedHuman: user.IsVerifiedHuman,
		})
		c.Next()
	}
}
