package types

// User account statuses
const (
	UserActive    = "ACTIVE"
	UserInactive  = "INACTIVE"
	UserSuspended = "SUSPENDED"
)

// Questionnaire lifecycle statuses
const (
	QuestionnaireDraft     = "DRAFT"
	QuestionnairePublished = "PUBLISHED"
	QuestionnaireClosed    = "CLOSED"
)

// User is a platform account
type User struct {
	ID            ID     `json:"id" yaml:"id"`
	Username      string `json:"username" yaml:"username"`
	Email         string `json:"email" yaml:"email"`
	Phone         string `json:"phone,omitempty" yaml:"phone,omitempty"`
	RealName      string `json:"realName,omitempty" yaml:"realName,omitempty"`
	AvatarURL     string `json:"avatarUrl,omitempty" yaml:"avatarUrl,omitempty"`
	Status        string `json:"status" yaml:"status"`
	EmailVerified bool   `json:"emailVerified" yaml:"emailVerified"`
	PhoneVerified bool   `json:"phoneVerified" yaml:"phoneVerified"`
	CreatedAt     string `json:"createdAt,omitempty" yaml:"createdAt,omitempty"`
	UpdatedAt     string `json:"updatedAt,omitempty" yaml:"updatedAt,omitempty"`
	Roles         []Role `json:"roles,omitempty" yaml:"roles,omitempty"`
}

// DisplayName prefers the real name over the login name
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	if u.RealName != "" {
		return u.RealName
	}
	return u.Username
}

// Role groups permissions
type Role struct {
	ID          ID           `json:"id" yaml:"id"`
	Name        string       `json:"name" yaml:"name"`
	Description string       `json:"description,omitempty" yaml:"description,omitempty"`
	Permissions []Permission `json:"permissions,omitempty" yaml:"permissions,omitempty"`
}

// Permission is a named capability
type Permission struct {
	ID          ID     `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// CreateUserRequest is the payload for creating an account
type CreateUserRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	Password  string `json:"password"`
	RealName  string `json:"realName,omitempty"`
	AvatarURL string `json:"avatarUrl,omitempty"`
	RoleIDs   []ID   `json:"roleIds"`
}

// UpdateUserRequest carries the mutable account fields; nil fields are left unchanged
type UpdateUserRequest struct {
	Email         *string `json:"email,omitempty"`
	Phone         *string `json:"phone,omitempty"`
	RealName      *string `json:"realName,omitempty"`
	AvatarURL     *string `json:"avatarUrl,omitempty"`
	Status        *string `json:"status,omitempty"`
	EmailVerified *bool   `json:"emailVerified,omitempty"`
	PhoneVerified *bool   `json:"phoneVerified,omitempty"`
	RoleIDs       []ID    `json:"roleIds,omitempty"`
}

// LoginRequest is the credential payload for /api/auth/login
type LoginRequest struct {
	UsernameOrEmail string `json:"usernameOrEmail"`
	Password        string `json:"password"`
}

// AuthResponse is returned by login and refresh
type AuthResponse struct {
	Token        string `json:"token" yaml:"token"`
	RefreshToken string `json:"refreshToken" yaml:"refreshToken"`
	User         *User  `json:"user,omitempty" yaml:"user,omitempty"`
	ExpiresIn    int64  `json:"expiresIn" yaml:"expiresIn"` // seconds
}

// RefreshTokenRequest exchanges a refresh token for a new access token
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// UserSession is an active login session tracked by the backend
type UserSession struct {
	SessionID    string `json:"sessionId" yaml:"sessionId"`
	UserID       ID     `json:"userId" yaml:"userId"`
	IPAddress    string `json:"ipAddress,omitempty" yaml:"ipAddress,omitempty"`
	UserAgent    string `json:"userAgent,omitempty" yaml:"userAgent,omitempty"`
	CreatedAt    string `json:"createdAt,omitempty" yaml:"createdAt,omitempty"`
	LastActivity string `json:"lastActivity,omitempty" yaml:"lastActivity,omitempty"`
	Current      bool   `json:"current,omitempty" yaml:"current,omitempty"`
}

// SessionStats summarizes login sessions
type SessionStats struct {
	ActiveSessions int64 `json:"activeSessions" yaml:"activeSessions"`
	TotalSessions  int64 `json:"totalSessions" yaml:"totalSessions"`
	UniqueUsers    int64 `json:"uniqueUsers" yaml:"uniqueUsers"`
}

// MfaConfig is the multi-factor state of the current account
type MfaConfig struct {
	TotpEnabled        bool `json:"totpEnabled" yaml:"totpEnabled"`
	SmsEnabled         bool `json:"smsEnabled" yaml:"smsEnabled"`
	EmailEnabled       bool `json:"emailEnabled" yaml:"emailEnabled"`
	RecoveryCodesCount int  `json:"recoveryCodesCount" yaml:"recoveryCodesCount"`
}

// Questionnaire is a survey definition
type Questionnaire struct {
	ID            ID                    `json:"id" yaml:"id"`
	Title         string                `json:"title" yaml:"title"`
	Description   string                `json:"description,omitempty" yaml:"description,omitempty"`
	Type          string                `json:"type" yaml:"type"`
	Version       string                `json:"version,omitempty" yaml:"version,omitempty"`
	Status        string                `json:"status" yaml:"status"`
	StartTime     string                `json:"startTime,omitempty" yaml:"startTime,omitempty"`
	EndTime       string                `json:"endTime,omitempty" yaml:"endTime,omitempty"`
	CreatedBy     ID                    `json:"createdBy" yaml:"createdBy"`
	CreatedAt     string                `json:"createdAt,omitempty" yaml:"createdAt,omitempty"`
	UpdatedAt     string                `json:"updatedAt,omitempty" yaml:"updatedAt,omitempty"`
	Settings      QuestionnaireSettings `json:"settings" yaml:"settings"`
	Questions     []Question            `json:"questions,omitempty" yaml:"questions,omitempty"`
	ResponseCount int64                 `json:"responseCount,omitempty" yaml:"responseCount,omitempty"`
}

// QuestionnaireSettings controls how a questionnaire is answered
type QuestionnaireSettings struct {
	IsAnonymous              bool   `json:"isAnonymous" yaml:"isAnonymous"`
	AllowMultipleSubmissions bool   `json:"allowMultipleSubmissions" yaml:"allowMultipleSubmissions"`
	ThemeColor               string `json:"themeColor,omitempty" yaml:"themeColor,omitempty"`
	Layout                   string `json:"layout,omitempty" yaml:"layout,omitempty"`
	RequirePassword          bool   `json:"requirePassword" yaml:"requirePassword"`
	AccessPassword           string `json:"accessPassword,omitempty" yaml:"accessPassword,omitempty"`
}

// Question is one item of a questionnaire
type Question struct {
	ID              ID               `json:"id,omitempty" yaml:"id,omitempty"`
	Title           string           `json:"title" yaml:"title"`
	Description     string           `json:"description,omitempty" yaml:"description,omitempty"`
	Type            string           `json:"type" yaml:"type"`
	Required        bool             `json:"required" yaml:"required"`
	SortOrder       int              `json:"sortOrder" yaml:"sortOrder"`
	Placeholder     string           `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	RatingStyle     string           `json:"ratingStyle,omitempty" yaml:"ratingStyle,omitempty"`
	FileTypes       []string         `json:"fileTypes,omitempty" yaml:"fileTypes,omitempty"`
	ValidationRules map[string]any   `json:"validationRules,omitempty" yaml:"validationRules,omitempty"`
	Options         []QuestionOption `json:"options,omitempty" yaml:"options,omitempty"`
}

// QuestionOption is a selectable answer
type QuestionOption struct {
	ID        ID     `json:"id,omitempty" yaml:"id,omitempty"`
	Text      string `json:"text" yaml:"text"`
	Image     string `json:"image,omitempty" yaml:"image,omitempty"`
	Value     string `json:"value,omitempty" yaml:"value,omitempty"`
	SortOrder int    `json:"sortOrder" yaml:"sortOrder"`
}

// CreateQuestionnaireRequest is the payload for a new questionnaire
type CreateQuestionnaireRequest struct {
	Title       string                `json:"title" yaml:"title"`
	Description string                `json:"description,omitempty" yaml:"description,omitempty"`
	Type        string                `json:"type" yaml:"type"`
	Version     string                `json:"version,omitempty" yaml:"version,omitempty"`
	StartTime   string                `json:"startTime,omitempty" yaml:"startTime,omitempty"`
	EndTime     string                `json:"endTime,omitempty" yaml:"endTime,omitempty"`
	Settings    QuestionnaireSettings `json:"settings" yaml:"settings"`
	Questions   []Question            `json:"questions" yaml:"questions"`
}

// QuestionnaireStats aggregates responses
type QuestionnaireStats struct {
	TotalResponses        int64           `json:"totalResponses" yaml:"totalResponses"`
	CompletionRate        float64         `json:"completionRate" yaml:"completionRate"`
	AverageCompletionTime float64         `json:"averageCompletionTime" yaml:"averageCompletionTime"`
	QuestionStats         []QuestionStats `json:"questionStats,omitempty" yaml:"questionStats,omitempty"`
}

// QuestionStats aggregates answers to one question
type QuestionStats struct {
	QuestionID    ID            `json:"questionId" yaml:"questionId"`
	QuestionTitle string        `json:"questionTitle" yaml:"questionTitle"`
	ResponseCount int64         `json:"responseCount" yaml:"responseCount"`
	ResponseRate  float64       `json:"responseRate" yaml:"responseRate"`
	OptionStats   []OptionStats `json:"optionStats,omitempty" yaml:"optionStats,omitempty"`
	TextResponses []string      `json:"textResponses,omitempty" yaml:"textResponses,omitempty"`
}

// OptionStats counts one option
type OptionStats struct {
	OptionID   ID      `json:"optionId" yaml:"optionId"`
	OptionText string  `json:"optionText" yaml:"optionText"`
	Count      int64   `json:"count" yaml:"count"`
	Percentage float64 `json:"percentage" yaml:"percentage"`
}

// Answer is one submitted answer of a public questionnaire
type Answer struct {
	QuestionID ID     `json:"questionId"`
	Value      string `json:"value,omitempty"`
	OptionIDs  []ID   `json:"optionIds,omitempty"`
}

// ChatRequest is sent to the AI assistant
type ChatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"sessionId,omitempty"`
	UserID    ID     `json:"userId,omitempty"`
}

// ChatResponse is the assistant reply
type ChatResponse struct {
	Response  string `json:"response" yaml:"response"`
	SessionID string `json:"sessionId" yaml:"sessionId"`
	MessageID string `json:"messageId" yaml:"messageId"`
}

// ChatSession is a conversation with the assistant
type ChatSession struct {
	ID           string  `json:"id" yaml:"id"`
	UserID       ID      `json:"userId" yaml:"userId"`
	UserName     string  `json:"userName" yaml:"userName"`
	UserRole     string  `json:"userRole" yaml:"userRole"`
	StartTime    string  `json:"startTime" yaml:"startTime"`
	LastActivity string  `json:"lastActivity" yaml:"lastActivity"`
	MessageCount int     `json:"messageCount" yaml:"messageCount"`
	Status       string  `json:"status" yaml:"status"`
	Topic        string  `json:"topic" yaml:"topic"`
	Satisfaction float64 `json:"satisfaction,omitempty" yaml:"satisfaction,omitempty"`
}

// ChatMessage is one turn of a chat session
type ChatMessage struct {
	ID        string         `json:"id" yaml:"id"`
	SessionID string         `json:"sessionId" yaml:"sessionId"`
	Role      string         `json:"role" yaml:"role"`
	Content   string         `json:"content" yaml:"content"`
	Timestamp string         `json:"timestamp" yaml:"timestamp"`
	Metadata  map[string]any `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// KnowledgeDocument backs the knowledge-base chat mode
type KnowledgeDocument struct {
	ID        ID       `json:"id" yaml:"id"`
	Title     string   `json:"title" yaml:"title"`
	Content   string   `json:"content" yaml:"content"`
	Category  string   `json:"category" yaml:"category"`
	Keywords  []string `json:"keywords,omitempty" yaml:"keywords,omitempty"`
	IsPublic  bool     `json:"isPublic" yaml:"isPublic"`
	CreatedAt string   `json:"createdAt,omitempty" yaml:"createdAt,omitempty"`
	UpdatedAt string   `json:"updatedAt,omitempty" yaml:"updatedAt,omitempty"`
	CreatedBy ID       `json:"createdBy" yaml:"createdBy"`
}

// UploadDocumentRequest holds the form fields sent with a knowledge document
type UploadDocumentRequest struct {
	Title    string
	Category string
	Keywords string
	IsPublic bool
}

// DocumentSearchResult is a scored knowledge-base hit
type DocumentSearchResult struct {
	ID                 ID      `json:"id" yaml:"id"`
	Title              string  `json:"title" yaml:"title"`
	Content            string  `json:"content" yaml:"content"`
	Score              float64 `json:"score" yaml:"score"`
	HighlightedContent string  `json:"highlightedContent,omitempty" yaml:"highlightedContent,omitempty"`
}

// FileInfo describes a stored content file
type FileInfo struct {
	ID            ID       `json:"id" yaml:"id"`
	FileName      string   `json:"fileName" yaml:"fileName"`
	OriginalName  string   `json:"originalName" yaml:"originalName"`
	FileSize      int64    `json:"fileSize" yaml:"fileSize"`
	MimeType      string   `json:"mimeType" yaml:"mimeType"`
	Category      string   `json:"category,omitempty" yaml:"category,omitempty"`
	Description   string   `json:"description,omitempty" yaml:"description,omitempty"`
	Folder        string   `json:"folder,omitempty" yaml:"folder,omitempty"`
	IsPublic      bool     `json:"isPublic" yaml:"isPublic"`
	Tags          []string `json:"tags,omitempty" yaml:"tags,omitempty"`
	UploadTime    string   `json:"uploadTime,omitempty" yaml:"uploadTime,omitempty"`
	UploadedBy    ID       `json:"uploadedBy" yaml:"uploadedBy"`
	DownloadCount int64    `json:"downloadCount" yaml:"downloadCount"`
	Status        string   `json:"status" yaml:"status"`
	URL           string   `json:"url,omitempty" yaml:"url,omitempty"`
}

// UploadFileRequest holds the form fields sent with a content upload
type UploadFileRequest struct {
	Category    string
	Description string
	Folder      string
	IsPublic    bool
	Tags        string // comma separated
}

// UpdateFileRequest changes file metadata
type UpdateFileRequest struct {
	Category    *string  `json:"category,omitempty"`
	Description *string  `json:"description,omitempty"`
	Folder      *string  `json:"folder,omitempty"`
	IsPublic    *bool    `json:"isPublic,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// SignedURL is a time-limited download link
type SignedURL struct {
	URL       string `json:"url" yaml:"url"`
	ExpiresAt string `json:"expiresAt" yaml:"expiresAt"`
}

// ContentStats summarizes the content library
type ContentStats struct {
	TotalFiles     int64            `json:"totalFiles" yaml:"totalFiles"`
	TotalSize      int64            `json:"totalSize" yaml:"totalSize"`
	TotalDownloads int64            `json:"totalDownloads" yaml:"totalDownloads"`
	ByCategory     map[string]int64 `json:"byCategory,omitempty" yaml:"byCategory,omitempty"`
}

// Exists is the payload of the availability checks
type Exists struct {
	Exists bool `json:"exists" yaml:"exists"`
}

// HasPermission is the payload of the permission check
type HasPermission struct {
	HasPermission bool `json:"hasPermission" yaml:"hasPermission"`
}

// Health statuses
const (
	HealthUp       = "UP"
	HealthDown     = "DOWN"
	HealthDegraded = "DEGRADED"
)

// SystemHealth is the backend health report
type SystemHealth struct {
	Status     string                     `json:"status" yaml:"status"`
	Components map[string]ComponentHealth `json:"components,omitempty" yaml:"components,omitempty"`
}

// ComponentHealth is the health of one backend dependency
type ComponentHealth struct {
	Status  string         `json:"status" yaml:"status"`
	Details map[string]any `json:"details,omitempty" yaml:"details,omitempty"`
}

// SystemMetrics is a resource usage snapshot
type SystemMetrics struct {
	Timestamp string `json:"timestamp" yaml:"timestamp"`
	CPU       struct {
		Usage float64 `json:"usage" yaml:"usage"`
		Cores int     `json:"cores" yaml:"cores"`
	} `json:"cpu" yaml:"cpu"`
	Memory UsageStat `json:"memory" yaml:"memory"`
	Disk   UsageStat `json:"disk" yaml:"disk"`
	JVM    struct {
		HeapUsed  int64   `json:"heapUsed" yaml:"heapUsed"`
		HeapMax   int64   `json:"heapMax" yaml:"heapMax"`
		HeapUsage float64 `json:"heapUsage" yaml:"heapUsage"`
	} `json:"jvm" yaml:"jvm"`
}

// UsageStat is a used/total pair with a ratio
type UsageStat struct {
	Used  int64   `json:"used" yaml:"used"`
	Total int64   `json:"total" yaml:"total"`
	Usage float64 `json:"usage" yaml:"usage"`
}

// PerformanceStats is the backend request performance summary
type PerformanceStats struct {
	TotalRequests       int64       `json:"totalRequests" yaml:"totalRequests"`
	AverageResponseTime float64     `json:"averageResponseTime" yaml:"averageResponseTime"`
	ErrorRate           float64     `json:"errorRate" yaml:"errorRate"`
	Throughput          float64     `json:"throughput" yaml:"throughput"`
	SlowQueries         []SlowQuery `json:"slowQueries,omitempty" yaml:"slowQueries,omitempty"`
}

// SlowQuery is a database statement above the slow threshold
type SlowQuery struct {
	Query         string  `json:"query" yaml:"query"`
	ExecutionTime float64 `json:"executionTime" yaml:"executionTime"`
	Timestamp     string  `json:"timestamp" yaml:"timestamp"`
}

// AccessCheck is the result of a questionnaire access validation
type AccessCheck struct {
	HasAccess bool   `json:"hasAccess" yaml:"hasAccess"`
	Message   string `json:"message,omitempty" yaml:"message,omitempty"`
}

// SubmitResult acknowledges a public questionnaire submission
type SubmitResult struct {
	Success    bool   `json:"success" yaml:"success"`
	ResponseID string `json:"responseId" yaml:"responseId"`
	Message    string `json:"message,omitempty" yaml:"message,omitempty"`
}

// AIStats summarizes assistant usage
type AIStats struct {
	TodayChats          int64   `json:"todayChats" yaml:"todayChats"`
	ActiveSessions      int64   `json:"activeSessions" yaml:"activeSessions"`
	AverageResponseTime float64 `json:"averageResponseTime" yaml:"averageResponseTime"`
	UserSatisfaction    float64 `json:"userSatisfaction" yaml:"userSatisfaction"`
	TopQuestions        []struct {
		Question string `json:"question" yaml:"question"`
		Count    int64  `json:"count" yaml:"count"`
	} `json:"topQuestions,omitempty" yaml:"topQuestions,omitempty"`
}

// Performance overview statuses
const (
	SystemHealthy  = "HEALTHY"
	SystemWarning  = "WARNING"
	SystemCritical = "CRITICAL"
)

// PerformanceOverview is the dashboard summary of the backend
type PerformanceOverview struct {
	SystemStatus        string  `json:"systemStatus" yaml:"systemStatus"`
	Uptime              int64   `json:"uptime" yaml:"uptime"`
	CPUUsage            float64 `json:"cpuUsage" yaml:"cpuUsage"`
	MemoryUsage         float64 `json:"memoryUsage" yaml:"memoryUsage"`
	DiskUsage           float64 `json:"diskUsage" yaml:"diskUsage"`
	ActiveConnections   int64   `json:"activeConnections" yaml:"activeConnections"`
	RequestsPerMinute   float64 `json:"requestsPerMinute" yaml:"requestsPerMinute"`
	AverageResponseTime float64 `json:"averageResponseTime" yaml:"averageResponseTime"`
	ErrorRate           float64 `json:"errorRate" yaml:"errorRate"`
}

// CacheResult is returned by the cache maintenance endpoints
type CacheResult struct {
	Status        string `json:"status" yaml:"status"`
	PreloadedKeys int64  `json:"preloadedKeys,omitempty" yaml:"preloadedKeys,omitempty"`
	ClearedKeys   int64  `json:"clearedKeys,omitempty" yaml:"clearedKeys,omitempty"`
	Duration      int64  `json:"duration,omitempty" yaml:"duration,omitempty"`
}
