package kodelet

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeToolResult_Bash(t *testing.T) {
	t.Parallel()

	result := DecodeToolResult(map[string]interface{}{
		"toolName":     "bash",
		"success":      true,
		"metadataType": "bash",
		"metadata": map[string]interface{}{
			"command":       "go version",
			"exitCode":      float64(0),
			"output":        "go version go1.24.6 linux/amd64",
			"executionTime": float64(1500000000),
			"workingDir":    "/work",
		},
	})

	bash, ok := result.(BashResult)
	require.True(t, ok)
	assert.Equal(t, "go version", bash.Command)
	assert.Equal(t, 0, bash.ExitCode)
	assert.Equal(t, "go version go1.24.6 linux/amd64", bash.Output)
	assert.Equal(t, 1500*time.Millisecond, bash.ExecutionTime)
	assert.Equal(t, "/work", bash.WorkingDir)
}

func TestDecodeToolResult_BackgroundBash(t *testing.T) {
	t.Parallel()

	result := DecodeToolResult(map[string]interface{}{
		"toolName":     "bash",
		"metadataType": "bash_background",
		"metadata": map[string]interface{}{
			"command":   "npm run dev",
			"pid":       float64(4242),
			"logPath":   "/tmp/dev.log",
			"startTime": "2026-08-29T10:00:00Z",
		},
	})

	bg, ok := result.(BackgroundBashResult)
	require.True(t, ok)
	assert.Equal(t, "npm run dev", bg.Command)
	assert.Equal(t, 4242, bg.PID)
	assert.Equal(t, "/tmp/dev.log", bg.LogPath)
	require.NotNil(t, bg.StartTime)
	assert.Equal(t, 2026, bg.StartTime.Year())
}

func TestDecodeToolResult_FileRead(t *testing.T) {
	t.Parallel()

	result := DecodeToolResult(map[string]interface{}{
		"toolName":     "file_read",
		"metadataType": "file_read",
		"metadata": map[string]interface{}{
			"filePath":       "/src/main.go",
			"offset":         float64(10),
			"lines":          []interface{}{"package main", ""},
			"language":       "go",
			"truncated":      true,
			"remainingLines": float64(120),
		},
	})

	read, ok := result.(FileReadResult)
	require.True(t, ok)
	assert.Equal(t, "/src/main.go", read.FilePath)
	assert.Equal(t, 10, read.Offset)
	assert.Equal(t, []string{"package main", ""}, read.Lines)
	assert.True(t, read.Truncated)
	assert.Equal(t, 120, read.RemainingLines)
}

func TestDecodeToolResult_FileEdit(t *testing.T) {
	t.Parallel()

	result := DecodeToolResult(map[string]interface{}{
		"toolName":     "file_edit",
		"metadataType": "file_edit",
		"metadata": map[string]interface{}{
			"filePath": "/src/main.go",
			"edits": []interface{}{
				map[string]interface{}{
					"startLine":  float64(3),
					"endLine":    float64(5),
					"oldContent": "foo",
					"newContent": "bar",
				},
			},
			"replaceAll":    true,
			"replacedCount": float64(2),
		},
	})

	edit, ok := result.(FileEditResult)
	require.True(t, ok)
	require.Len(t, edit.Edits, 1)
	assert.Equal(t, 3, edit.Edits[0].StartLine)
	assert.Equal(t, "bar", edit.Edits[0].NewContent)
	assert.True(t, edit.ReplaceAll)
	assert.Equal(t, 2, edit.ReplacedCount)
}

func TestDecodeToolResult_Grep(t *testing.T) {
	t.Parallel()

	result := DecodeToolResult(map[string]interface{}{
		"toolName":     "grep_tool",
		"metadataType": "grep_tool",
		"metadata": map[string]interface{}{
			"pattern": "func main",
			"results": []interface{}{
				map[string]interface{}{
					"filePath": "main.go",
					"language": "go",
					"matches": []interface{}{
						map[string]interface{}{
							"lineNumber": float64(12),
							"content":    "func main() {",
							"matchStart": float64(0),
							"matchEnd":   float64(9),
						},
					},
				},
			},
		},
	})

	grep, ok := result.(GrepResult)
	require.True(t, ok)
	require.Len(t, grep.Results, 1)
	require.Len(t, grep.Results[0].Matches, 1)
	assert.Equal(t, 12, grep.Results[0].Matches[0].LineNumber)
	assert.False(t, grep.Results[0].Matches[0].IsContext)
}

func TestDecodeToolResult_Todo(t *testing.T) {
	t.Parallel()

	result := DecodeToolResult(map[string]interface{}{
		"toolName":     "todo",
		"metadataType": "todo",
		"metadata": map[string]interface{}{
			"action": "write",
			"todoList": []interface{}{
				map[string]interface{}{
					"id":        "1",
					"content":   "ship it",
					"status":    "in_progress",
					"priority":  "high",
					"createdAt": "2026-08-29T09:00:00Z",
				},
			},
			"statistics": map[string]interface{}{
				"total":      float64(1),
				"inProgress": float64(1),
			},
		},
	})

	todo, ok := result.(TodoResult)
	require.True(t, ok)
	assert.Equal(t, "write", todo.Action)
	require.Len(t, todo.TodoList, 1)
	assert.Equal(t, "ship it", todo.TodoList[0].Content)
	require.NotNil(t, todo.Statistics)
	assert.Equal(t, 1, todo.Statistics.InProgress)
	assert.Zero(t, todo.Statistics.Completed)
}

func TestDecodeToolResult_MCPTool(t *testing.T) {
	t.Parallel()

	result := DecodeToolResult(map[string]interface{}{
		"toolName":     "mcp_search",
		"metadataType": "mcp_tool",
		"metadata": map[string]interface{}{
			"mcpToolName": "search",
			"serverName":  "docs",
			"content": []interface{}{
				map[string]interface{}{"type": "text", "text": "found it"},
			},
			"executionTime": float64(250000000),
		},
	})

	mcp, ok := result.(MCPToolResult)
	require.True(t, ok)
	assert.Equal(t, "search", mcp.MCPToolName)
	assert.Equal(t, "docs", mcp.ServerName)
	require.Len(t, mcp.Content, 1)
	assert.Equal(t, "found it", mcp.Content[0].Text)
	assert.Equal(t, 250*time.Millisecond, mcp.ExecutionTime)
}

func TestDecodeToolResult_Blocked(t *testing.T) {
	t.Parallel()

	// Blocked metadata uses snake_case keys, unlike every other variant.
	result := DecodeToolResult(map[string]interface{}{
		"toolName":     "bash",
		"success":      false,
		"metadataType": "blocked",
		"metadata": map[string]interface{}{
			"tool_name": "bash",
			"reason":    "command not allowed",
		},
	})

	blocked, ok := result.(BlockedResult)
	require.True(t, ok)
	assert.Equal(t, "bash", blocked.ToolName)
	assert.Equal(t, "command not allowed", blocked.Reason)
}

func TestDecodeToolResult_UnknownType(t *testing.T) {
	t.Parallel()

	result := DecodeToolResult(map[string]interface{}{
		"toolName":     "quantum_tool",
		"success":      true,
		"error":        "",
		"metadataType": "quantum",
		"metadata":     map[string]interface{}{"q": float64(1)},
	})

	unknown, ok := result.(UnknownToolResult)
	require.True(t, ok)
	assert.Equal(t, "quantum_tool", unknown.ToolName)
	assert.True(t, unknown.Success)
	assert.Equal(t, map[string]interface{}{"q": float64(1)}, unknown.RawMetadata)
}

// Every known metadataType must decode to its variant even when the
// metadata object is empty; absent fields read as zero values.
func TestDecodeToolResult_EmptyMetadata(t *testing.T) {
	t.Parallel()

	tests := []struct {
		metadataType string
		want         ToolResult
	}{
		{"bash", BashResult{}},
		{"bash_background", BackgroundBashResult{}},
		{"file_read", FileReadResult{}},
		{"file_write", FileWriteResult{}},
		{"file_edit", FileEditResult{}},
		{"grep_tool", GrepResult{}},
		{"glob_tool", GlobResult{}},
		{"todo", TodoResult{}},
		{"image_recognition", ImageRecognitionResult{}},
		{"subagent", SubAgentResult{}},
		{"web_fetch", WebFetchResult{}},
		{"view_background_processes", ViewBackgroundProcessesResult{}},
		{"code_execution", CodeExecutionResult{}},
		{"skill", SkillResult{}},
		{"mcp_tool", MCPToolResult{}},
		{"custom_tool", CustomToolResult{}},
		{"blocked", BlockedResult{}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.metadataType, func(t *testing.T) {
			t.Parallel()
			result := DecodeToolResult(map[string]interface{}{
				"toolName":     "x",
				"metadataType": tt.metadataType,
				"metadata":     map[string]interface{}{},
			})
			assert.Equal(t, tt.want, result)
		})
	}
}

func TestDecodeToolResult_MissingMetadata(t *testing.T) {
	t.Parallel()

	result := DecodeToolResult(map[string]interface{}{
		"toolName":     "bash",
		"metadataType": "bash",
	})

	bash, ok := result.(BashResult)
	require.True(t, ok)
	assert.Zero(t, bash.ExitCode)
	assert.Empty(t, bash.Command)
}

func TestTimeField_Malformed(t *testing.T) {
	t.Parallel()

	m := map[string]interface{}{
		"good":       "2026-08-29T10:00:00Z",
		"offsetless": "2026-08-29T10:00:00",
		"bad":        "yesterday",
	}

	require.NotNil(t, timeField(m, "good"))
	offsetless := timeField(m, "offsetless")
	require.NotNil(t, offsetless)
	assert.Equal(t, time.UTC, offsetless.Location())
	assert.Nil(t, timeField(m, "bad"))
	assert.Nil(t, timeField(m, "absent"))
}
