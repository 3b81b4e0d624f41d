// Package comment generates Korean-language GitHub issue comments from
// templates. It is pure string templating; posting the result to an
// issue is the caller's concern.
package comment

import (
	"fmt"
	"regexp"
	"strings"
)

// Template is a single comment template: a leading emoji, a bold title
// line, and a markdown body that may contain {{key}} placeholders.
type Template struct {
	Emoji   string
	Title   string
	Content string
}

// Templates maps a comment type to its template.
type Templates map[string]Template

// Comment types recognized by the default template table.
const (
	TypeStart    = "start"
	TypeProgress = "progress"
	TypeComplete = "complete"
	TypeBlocked  = "blocked"
	TypeReview   = "review"
)

// DefaultTemplates holds the built-in Korean comment templates, keyed
// by comment type.
var DefaultTemplates = Templates{
	TypeStart: {
		Emoji: "🚀",
		Title: "작업을 시작합니다",
		Content: `이 이슈 해결을 위한 작업을 시작하겠습니다.

**작업 계획:**
- 요구사항 분석 및 설계
- 구현 및 테스트
- 코드 리뷰 및 문서화

진행 상황을 지속적으로 업데이트하겠습니다.`,
	},
	TypeProgress: {
		Emoji: "⏳",
		Title: "작업이 진행 중입니다",
		Content: `현재 작업을 진행하고 있습니다.

**현재 상황:** {{status}}

**완료된 작업:**
{{completed_tasks}}

**다음 단계:**
{{next_steps}}`,
	},
	TypeComplete: {
		Emoji: "✅",
		Title: "작업이 완료되었습니다",
		Content: `모든 작업이 성공적으로 완료되었습니다.

**구현 내용:**
{{implementation_details}}

**테스트 결과:**
{{test_results}}

코드 리뷰를 부탁드립니다. 🙏`,
	},
	TypeBlocked: {
		Emoji: "🚧",
		Title: "작업이 차단되었습니다",
		Content: `작업 진행 중 다음과 같은 문제가 발생했습니다:

**차단 사유:**
{{blocking_reason}}

**해결 방안:**
{{solution_approach}}

지원이나 추가 정보가 필요합니다.`,
	},
	TypeReview: {
		Emoji: "👀",
		Title: "리뷰 요청",
		Content: `작업이 완료되어 리뷰를 요청드립니다.

**변경 사항:**
{{changes_summary}}

**테스트 완료:**
{{test_coverage}}

**확인 사항:**
{{review_points}}`,
	},
}

// placeholderPattern matches any {{key}} placeholder left in a template
// after substitution.
var placeholderPattern = regexp.MustCompile(`\{\{[^}]+\}\}`)

// Generate renders a comment of the given type. Variables fill {{key}}
// placeholders in the template body; pass nil to emit the body as-is.
// A nil custom table falls back to DefaultTemplates. Returns an error
// if the type is not present in the table.
func Generate(commentType string, variables map[string]string, custom Templates) (string, error) {
	templates := custom
	if templates == nil {
		templates = DefaultTemplates
	}

	tmpl, ok := templates[commentType]
	if !ok {
		return "", fmt.Errorf("unknown comment type: %s", commentType)
	}

	content := tmpl.Content
	if variables != nil {
		content = ReplaceVariables(content, variables)
	}

	return fmt.Sprintf("%s **%s**\n\n%s", tmpl.Emoji, tmpl.Title, content), nil
}

// ReplaceVariables substitutes {{key}} placeholders in template with
// the matching values. Placeholders with no matching variable are
// deleted, and the result is reflowed: lines are trimmed and blank
// lines dropped. The reflow collapses intentional blank-line paragraph
// breaks; callers wanting verbatim output pass nil variables to
// Generate instead.
func ReplaceVariables(template string, variables map[string]string) string {
	result := template
	for key, value := range variables {
		result = strings.ReplaceAll(result, "{{"+key+"}}", value)
	}

	result = placeholderPattern.ReplaceAllString(result, "")

	lines := strings.Split(result, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}
