package entity

import (
	"time"

	"github.com/google/uuid"
)

// ContextType is the closed set of knowledge-unit kinds.
type ContextType string

const (
	TypeConversation  ContextType = "conversation"
	TypeCode          ContextType = "code"
	TypeDocumentation ContextType = "documentation"
	TypeResearch      ContextType = "research"
	TypeIdea          ContextType = "idea"
	TypeTask          ContextType = "task"
	TypeNote          ContextType = "note"
	TypeMeeting       ContextType = "meeting"
	TypeEmail         ContextType = "email"
	TypeWebpage       ContextType = "webpage"
	TypeFile          ContextType = "file"
	TypeImage         ContextType = "image"
	TypeAudio         ContextType = "audio"
	TypeVideo         ContextType = "video"
)

var contextTypes = map[ContextType]bool{
	TypeConversation: true, TypeCode: true, TypeDocumentation: true,
	TypeResearch: true, TypeIdea: true, TypeTask: true, TypeNote: true,
	TypeMeeting: true, TypeEmail: true, TypeWebpage: true, TypeFile: true,
	TypeImage: true, TypeAudio: true, TypeVideo: true,
}

func ValidContextType(t ContextType) bool {
	return contextTypes[t]
}

// SourceType is the closed set of capture origins.
type SourceType string

const (
	SourceManual   SourceType = "manual"
	SourceAPI      SourceType = "api"
	SourceWebhook  SourceType = "webhook"
	SourceClaude   SourceType = "claude"
	SourceCursor   SourceType = "cursor"
	SourceCopilot  SourceType = "copilot"
	SourceWindsurf SourceType = "windsurf"
)

var sourceTypes = map[SourceType]bool{
	SourceManual: true, SourceAPI: true, SourceWebhook: true,
	SourceClaude: true, SourceCursor: true, SourceCopilot: true,
	SourceWindsurf: true,
}

func ValidSourceType(s SourceType) bool {
	return sourceTypes[s]
}

// Source records where a context was captured from.
type Source struct {
	Type      SourceType
	AgentId   string
	SessionId string
	Timestamp time.Time
}

// Analysis is the provider-produced annotation of a context. It is stored as
// an opaque structure and recomputed whenever the content changes.
type Analysis struct {
	Summary    string   `json:"summary"`
	Topics     []string `json:"topics"`
	Sentiment  string   `json:"sentiment"`
	Complexity int      `json:"complexity"`
}

// Context is a single captured unit of knowledge.
type Context struct {
	Id              uuid.UUID
	UserId          uuid.UUID
	ProjectId       *uuid.UUID
	Title           string
	Content         string
	Type            ContextType
	Tags            []string
	Metadata        map[string]interface{}
	Source          Source
	Embedding       []float32 // never exposed raw; callers see a presence flag
	Analysis        *Analysis
	ChunkIndex      int
	ChildContextIds []uuid.UUID
	IsArchived      bool
	CreatedAt       time.Time
	UpdatedAt       *time.Time
}

// HasEmbedding reports whether the derived vector has been computed.
func (c *Context) HasEmbedding() bool {
	return len(c.Embedding) > 0
}
