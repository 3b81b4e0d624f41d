package i18n

// Messages is a nested message tree. Leaves are strings; interior
// nodes are Messages keyed by the next path segment.
type Messages map[string]any

// KoMessages holds the Korean message tree.
var KoMessages = Messages{
	"auth": Messages{
		"signIn":           "로그인",
		"signOut":          "로그아웃",
		"signInWithGitHub": "GitHub로 로그인",
		"welcome":          "환영합니다",
		"loading":          "인증 중...",
		"error":            "인증 오류가 발생했습니다",
		"unauthorized":     "로그인이 필요합니다",
		"sessionExpired":   "세션이 만료되었습니다. 다시 로그인해주세요",
	},
	"dashboard": Messages{
		"title":             "대시보드",
		"repositories":      "저장소",
		"search":            "검색",
		"searchPlaceholder": "저장소를 검색하세요...",
		"noRepositories":    "저장소가 없습니다",
		"loading":           "로딩 중...",
		"error":             "오류가 발생했습니다",
		"refresh":           "새로고침",
	},
	"repository": Messages{
		"connect":           "연결",
		"disconnect":        "연결 해제",
		"connected":         "연결됨",
		"notConnected":      "연결되지 않음",
		"lastUpdated":       "마지막 업데이트",
		"language":          "언어",
		"private":           "비공개",
		"public":            "공개",
		"connectionSuccess": "저장소가 성공적으로 연결되었습니다",
		"connectionError":   "저장소 연결에 실패했습니다",
	},
	"activity": Messages{
		"title":      "활동 내역",
		"recent":     "최근 활동",
		"noActivity": "활동 내역이 없습니다",
		"loading":    "활동 내역을 불러오는 중...",
	},
	"github": Messages{
		"connecting":          "GitHub에 연결하는 중...",
		"syncingRepositories": "저장소 동기화 중...",
		"rateLimit":           "GitHub API 속도 제한",
		"rateLimitWarning":    "API 속도 제한이 곧 초과됩니다",
		"apiError":            "GitHub API 오류가 발생했습니다",
		"unauthorized":        "GitHub 인증이 필요합니다",
		"repositoryNotFound":  "저장소를 찾을 수 없습니다",
	},
	"common": Messages{
		"save":    "저장",
		"cancel":  "취소",
		"delete":  "삭제",
		"loading": "로딩 중...",
		"error":   "오류",
		"success": "성공",
		"retry":   "다시 시도",
		"confirm": "확인",
	},
	"errors": Messages{
		"generic":         "알 수 없는 오류가 발생했습니다",
		"network":         "네트워크 연결을 확인해주세요",
		"unauthorized":    "권한이 없습니다",
		"forbidden":       "접근이 거부되었습니다",
		"notFound":        "요청한 리소스를 찾을 수 없습니다",
		"serverError":     "서버 오류가 발생했습니다",
		"validationError": "입력값을 확인해주세요",
	},
	"logs": Messages{
		"showingLogs":             "{{count}}개의 로그를 표시하고 있습니다",
		"repository_connected":    "{{repositoryName}} 저장소에 성공적으로 연결되었습니다",
		"repository_disconnected": "{{repositoryName}} 저장소 연결이 해제되었습니다",
		"task_created":            "{{repositoryName}}에 새 작업 \"{{taskTitle}}\"이 생성되었습니다",
		"task_started":            "\"{{taskTitle}}\" 작업 실행이 시작되었습니다",
		"task_completed":          "\"{{taskTitle}}\" 작업이 성공적으로 완료되었습니다",
		"task_failed":             "\"{{taskTitle}}\" 작업이 실패했습니다: {{error}}",
		"github_rate_limit":       "GitHub API 속도 제한: {{remaining}}개 요청 남음. {{resetTime}}에 재설정",
	},
}

// EnMessages holds the English message tree. Keys mirror KoMessages.
var EnMessages = Messages{
	"auth": Messages{
		"signIn":           "Sign In",
		"signOut":          "Sign Out",
		"signInWithGitHub": "Sign in with GitHub",
		"welcome":          "Welcome",
		"loading":          "Authenticating...",
		"error":            "Authentication error occurred",
		"unauthorized":     "Authentication required",
		"sessionExpired":   "Session expired. Please sign in again",
	},
	"dashboard": Messages{
		"title":             "Dashboard",
		"repositories":      "Repositories",
		"search":            "Search",
		"searchPlaceholder": "Search repositories...",
		"noRepositories":    "No repositories found",
		"loading":           "Loading...",
		"error":             "An error occurred",
		"refresh":           "Refresh",
	},
	"repository": Messages{
		"connect":           "Connect",
		"disconnect":        "Disconnect",
		"connected":         "Connected",
		"notConnected":      "Not Connected",
		"lastUpdated":       "Last Updated",
		"language":          "Language",
		"private":           "Private",
		"public":            "Public",
		"connectionSuccess": "Repository connected successfully",
		"connectionError":   "Failed to connect repository",
	},
	"activity": Messages{
		"title":      "Activity",
		"recent":     "Recent Activity",
		"noActivity": "No activity found",
		"loading":    "Loading activity...",
	},
	"github": Messages{
		"connecting":          "Connecting to GitHub...",
		"syncingRepositories": "Syncing repositories...",
		"rateLimit":           "GitHub API Rate Limit",
		"rateLimitWarning":    "API rate limit will be exceeded soon",
		"apiError":            "GitHub API error occurred",
		"unauthorized":        "GitHub authentication required",
		"repositoryNotFound":  "Repository not found",
	},
	"common": Messages{
		"save":    "Save",
		"cancel":  "Cancel",
		"delete":  "Delete",
		"loading": "Loading...",
		"error":   "Error",
		"success": "Success",
		"retry":   "Retry",
		"confirm": "Confirm",
	},
	"errors": Messages{
		"generic":         "An unknown error occurred",
		"network":         "Please check your network connection",
		"unauthorized":    "Unauthorized access",
		"forbidden":       "Access denied",
		"notFound":        "Requested resource not found",
		"serverError":     "Server error occurred",
		"validationError": "Please check your input",
	},
	"logs": Messages{
		"showingLogs":             "Showing {{count}} logs",
		"repository_connected":    "Successfully connected to {{repositoryName}}",
		"repository_disconnected": "Disconnected from {{repositoryName}}",
		"task_created":            "New task \"{{taskTitle}}\" created in {{repositoryName}}",
		"task_started":            "Task \"{{taskTitle}}\" execution started",
		"task_completed":          "Task \"{{taskTitle}}\" completed successfully",
		"task_failed":             "Task \"{{taskTitle}}\" failed: {{error}}",
		"github_rate_limit":       "GitHub API rate limit: {{remaining}} requests remaining. Resets at {{resetTime}}",
	},
}

// tables maps locale codes to their message trees.
var tables = map[string]Messages{
	"ko": KoMessages,
	"en": EnMessages,
}

// ForLocale returns the message tree for the locale, falling back to
// Korean when the locale is not supported.
func ForLocale(locale string) Messages {
	if m, ok := tables[locale]; ok {
		return m
	}
	return KoMessages
}

// IsSupported reports whether the locale has a message tree.
func IsSupported(locale string) bool {
	_, ok := tables[locale]
	return ok
}
