// Package token 提供了用于签发和验证会话令牌 (JWT) 的功能。
package token

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// JWTManager 负责会话令牌的生成和验证。
type JWTManager struct {
	secretKey  []byte        // secretKey 用于签名和验证 token 的密钥
	sessionDur time.Duration // sessionDur 定义了会话令牌的有效期
}

// SessionClaims 是会话令牌中保存的数据，Subject 即会话 ID。
type SessionClaims struct {
	jwt.RegisteredClaims
}

// SessionID 返回令牌对应的会话 ID。
func (c *SessionClaims) SessionID() string {
	return c.Subject
}

// NewJWTManager 创建一个新的 JWTManager 实例。
func NewJWTManager(secret string, sessionDur time.Duration) *JWTManager {
	return &JWTManager{
		secretKey:  []byte(secret),
		sessionDur: sessionDur,
	}
}

// GenerateToken 为会话签发令牌，返回令牌字符串和过期时间。
// createdAt 保存在 IssuedAt 中，续期时保持不变。
func (m *JWTManager) GenerateToken(sessionID string, createdAt time.Time) (string, time.Time, error) {
	expiresAt := time.Now().Add(m.sessionDur)
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sessionID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(createdAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secretKey)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session token: %w", err)
	}
	return signed, expiresAt, nil
}

// VerifyToken 验证给定的 token 字符串。签名不匹配、已过期或缺少会话 ID 时返回错误。
func (m *JWTManager) VerifyToken(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		// 检查签名方法是否为 HMAC
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secretKey, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.Subject == "" {
		return nil, errors.New("token has no session id")
	}
	return claims, nil
}

// GenerateRandomString generates a random hex string of a given length.
func GenerateRandomString(length int) string {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		// Fallback to a less random string on error
		return fmt.Sprintf("fallback%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(bytes)
}
