package taskfile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/workbenchhq/workbench-api/internal/domain"
)

const (
	frontMatterDelim = "---"
	blockIndent      = "  "
)

// Encode renders a task file in its on-disk form: a front-matter block
// of "key: value" lines between --- delimiters, a blank line, then the
// markdown content.
//
// Values are JSON-encoded, except multi-line strings which use a YAML
// literal block ("key: |") with two-space indentation. Key order is
// fixed so files diff cleanly under version control. Optional fields
// with zero values are omitted.
func Encode(f *domain.TaskFile) ([]byte, error) {
	m := f.Metadata

	var buf bytes.Buffer
	buf.WriteString(frontMatterDelim)
	buf.WriteByte('\n')

	fields := []struct {
		key  string
		val  any
		omit bool
	}{
		{"id", m.ID, false},
		{"title", m.Title, false},
		{"status", string(m.Status), false},
		{"repository", m.Repository, false},
		{"epic", m.Epic, m.Epic == ""},
		{"branch", m.Branch, m.Branch == ""},
		{"createdAt", m.CreatedAt, false},
		{"updatedAt", m.UpdatedAt, false},
		{"startedAt", m.StartedAt, m.StartedAt == nil},
		{"completedAt", m.CompletedAt, m.CompletedAt == nil},
		{"tokensUsed", m.TokensUsed, false},
		{"githubIssue", m.GitHubIssue, m.GitHubIssue == 0},
		{"prUrl", m.PRURL, m.PRURL == ""},
		{"buildStatus", string(m.BuildStatus), m.BuildStatus == ""},
		{"lintStatus", string(m.LintStatus), m.LintStatus == ""},
		{"errorMessage", m.ErrorMessage, m.ErrorMessage == ""},
	}

	for _, field := range fields {
		if field.omit {
			continue
		}
		line, err := encodeField(field.key, field.val)
		if err != nil {
			return nil, fmt.Errorf("encode front matter field %q: %w", field.key, err)
		}
		buf.WriteString(line)
		buf.WriteByte('\n')
	}

	buf.WriteString(frontMatterDelim)
	buf.WriteString("\n\n")
	buf.WriteString(f.Content)
	return buf.Bytes(), nil
}

func encodeField(key string, val any) (string, error) {
	if s, ok := val.(string); ok && strings.Contains(s, "\n") {
		indented := strings.ReplaceAll(s, "\n", "\n"+blockIndent)
		return fmt.Sprintf("%s: |\n%s%s", key, blockIndent, indented), nil
	}
	b, err := json.Marshal(val)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s: %s", key, b), nil
}

// Decode parses the on-disk form back into a task file. The
// front-matter block is parsed as YAML (JSON scalars and literal
// blocks are both valid YAML), so unknown keys and hand-edited files
// are tolerated. The content is returned trimmed.
func Decode(data []byte) (*domain.TaskFile, error) {
	text := string(data)
	if !strings.HasPrefix(text, frontMatterDelim+"\n") {
		return nil, fmt.Errorf("task file has no front matter block")
	}

	rest := text[len(frontMatterDelim)+1:]
	end := strings.Index(rest, "\n"+frontMatterDelim)
	if end < 0 {
		return nil, fmt.Errorf("task file front matter is not terminated")
	}

	block := rest[:end]
	content := rest[end+len("\n"+frontMatterDelim):]
	content = strings.TrimPrefix(content, "\n")

	var raw map[string]any
	if err := yaml.Unmarshal([]byte(block), &raw); err != nil {
		return nil, fmt.Errorf("parse front matter: %w", err)
	}

	meta, err := metadataFromMap(raw)
	if err != nil {
		return nil, err
	}

	return &domain.TaskFile{
		Metadata: meta,
		Content:  strings.TrimSpace(content),
	}, nil
}

// metadataFromMap converts the loosely-typed YAML mapping into task
// metadata via a JSON round trip, which handles RFC 3339 timestamps
// and numeric coercion in one place.
func metadataFromMap(raw map[string]any) (domain.TaskMetadata, error) {
	var meta domain.TaskMetadata

	// YAML may have parsed unquoted timestamps into time.Time values;
	// normalize to strings so the JSON round trip is uniform.
	for k, v := range raw {
		if t, ok := v.(time.Time); ok {
			raw[k] = t.Format(time.RFC3339Nano)
		}
	}

	b, err := json.Marshal(raw)
	if err != nil {
		return meta, fmt.Errorf("normalize front matter: %w", err)
	}
	if err := json.Unmarshal(b, &meta); err != nil {
		return meta, fmt.Errorf("decode front matter: %w", err)
	}
	return meta, nil
}
