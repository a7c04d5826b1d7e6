package model

import "time"

// SessionContext 代表一个交互会话，由中间件在每个请求中注入。
type SessionContext struct {
	ID        string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// ArtifactKind 区分会话中保存的二进制产物。
type ArtifactKind string

const (
	ArtifactGenerated ArtifactKind = "generated"
	ArtifactUpload    ArtifactKind = "upload"
)

// Artifact 是会话范围内暂存的一个二进制文件。
type Artifact struct {
	FileName    string
	ContentType string
	Data        []byte
}
