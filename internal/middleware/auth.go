package middleware

import (
  "fmt"
  "net/http"
  "strings"
  "github.com/gin-gonic/gin"
  "github.com/golang-jwt/jwt/v5"
  "github.com/google/uuid"
  "github.com/strideworks/stride-backend/internal/logger"
  "github.com/strideworks/stride-backend/internal/requestdata"
)

// AuthMiddleware verifies externally issued bearer tokens. Issuance is not
// this service's job; a verified token yields only the opaque principal id
// and the admin flag.
type AuthMiddleware struct {
  log          *logger.Logger
  jwtSecretKey string
}

func NewAuthMiddleware(log *logger.Logger, jwtSecretKey string) *AuthMiddleware {
  middlewareLogger := log.With("middleware", "AuthMiddleware")
  return &AuthMiddleware{log: middlewareLogger, jwtSecretKey: jwtSecretKey}
}

// Attach resolves the caller's principal when a token is present. Anonymous
// requests pass through with a nil principal; ownership checks downstream
// restrict them to unowned projects. A present-but-invalid token is rejected.
func (am *AuthMiddleware) Attach() gin.HandlerFunc {
  return func(c *gin.Context) {
    tokenString := extractToken(c)
    if tokenString == "" {
      c.Next()
      return
    }
    rd, err := am.parseToken(tokenString)
    if err != nil {
      c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid token"})
      return
    }
    ctx := requestdata.WithRequestData(c.Request.Context(), rd)
    c.Request = c.Request.WithContext(ctx)
    c.Next()
  }
}

// RequireAuth additionally rejects anonymous callers.
func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
  return func(c *gin.Context) {
    rd := requestdata.GetRequestData(c.Request.Context())
    if rd == nil || rd.UserID == uuid.Nil {
      c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid token"})
      return
    }
    c.Next()
  }
}

func (am *AuthMiddleware) parseToken(tokenString string) (*requestdata.RequestData, error) {
  token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
    if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
      return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
    }
    return []byte(am.jwtSecretKey), nil
  })
  if err != nil || !token.Valid {
    return nil, fmt.Errorf("invalid token")
  }
  claims, ok := token.Claims.(jwt.MapClaims)
  if !ok {
    return nil, fmt.Errorf("invalid token claims")
  }
  sub, _ := claims["sub"].(string)
  userID, err := uuid.Parse(sub)
  if err != nil {
    return nil, fmt.Errorf("invalid subject claim")
  }
  isAdmin, _ := claims["admin"].(bool)
  return &requestdata.RequestData{
    TokenString: tokenString,
    UserID:      userID,
    IsAdmin:     isAdmin,
  }, nil
}

func extractToken(c *gin.Context) string {
  if qToken := c.Query("token"); qToken != "" {
    return qToken
  }
  authHeader := c.GetHeader("Authorization")
  if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
    return authHeader[7:]
  }
  return ""
}
