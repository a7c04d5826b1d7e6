package model

import (
	"fmt"
	"time"
)

// LocalTime 在 JSON 中格式化为 "YYYY-MM-DD HH:MM:SS"。
type LocalTime time.Time

const timeFormat = "2006-01-02 15:04:05"

// MarshalJSON implements the json.Marshaler interface.
func (t LocalTime) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", time.Time(t).Format(timeFormat))), nil
}

// SessionInfo 是会话对外展示的信息，不包含令牌。
type SessionInfo struct {
	ID        string    `json:"id"`
	CreatedAt LocalTime `json:"createdAt"`
	ExpiresAt LocalTime `json:"expiresAt"`
}

// Info 返回会话的展示信息。
func (s *SessionContext) Info() SessionInfo {
	return SessionInfo{ID: s.ID, CreatedAt: LocalTime(s.CreatedAt), ExpiresAt: LocalTime(s.ExpiresAt)}
}
