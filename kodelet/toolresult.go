package kodelet

import (
	"time"
)

// ToolResult is the closed set of structured metadata variants nested
// inside a tool-result event, discriminated by the wire metadataType.
// Unknown types decode to UnknownToolResult.
type ToolResult interface {
	toolResult()
}

// Edit is a single text replacement within a file edit.
type Edit struct {
	StartLine  int
	EndLine    int
	OldContent string
	NewContent string
}

// SearchMatch is one matched line in a grep result.
type SearchMatch struct {
	LineNumber int
	Content    string
	MatchStart int
	MatchEnd   int
	IsContext  bool
}

// SearchResult groups grep matches for a single file.
type SearchResult struct {
	FilePath string
	Language string
	Matches  []SearchMatch
}

// FileInfo describes one file matched by a glob.
type FileInfo struct {
	Path     string
	Size     int64
	ModTime  *time.Time
	Type     string // "file" or "directory"
	Language string
}

// TodoItem is a single todo list entry.
type TodoItem struct {
	ID        string
	Content   string
	Status    string
	Priority  string
	CreatedAt *time.Time
	UpdatedAt *time.Time
}

// TodoStats summarizes a todo list.
type TodoStats struct {
	Total      int
	Completed  int
	InProgress int
	Pending    int
}

// ImageDimensions holds image width and height in pixels.
type ImageDimensions struct {
	Width  int
	Height int
}

// BackgroundProcessInfo describes one tracked background process.
type BackgroundProcessInfo struct {
	PID       int
	Command   string
	LogPath   string
	StartTime *time.Time
	Status    string // "running" or "stopped"
}

// MCPContent is one content block returned by an MCP tool.
type MCPContent struct {
	Type     string
	Text     string
	Data     string
	MimeType string
	URI      string
	Metadata map[string]interface{}
}

// BashResult is the outcome of a shell command execution.
type BashResult struct {
	Command       string
	ExitCode      int
	Output        string
	ExecutionTime time.Duration
	WorkingDir    string
}

func (BashResult) toolResult() {}

// BackgroundBashResult is the outcome of launching a background shell
// command.
type BackgroundBashResult struct {
	Command   string
	PID       int
	LogPath   string
	StartTime *time.Time
}

func (BackgroundBashResult) toolResult() {}

// FileReadResult is the outcome of a file read.
type FileReadResult struct {
	FilePath       string
	Offset         int
	LineLimit      int
	Lines          []string
	Language       string
	Truncated      bool
	RemainingLines int
}

func (FileReadResult) toolResult() {}

// FileWriteResult is the outcome of a file write.
type FileWriteResult struct {
	FilePath string
	Content  string
	Size     int64
	Language string
}

func (FileWriteResult) toolResult() {}

// FileEditResult is the outcome of a file edit.
type FileEditResult struct {
	FilePath      string
	Edits         []Edit
	Language      string
	ReplaceAll    bool
	ReplacedCount int
}

func (FileEditResult) toolResult() {}

// GrepResult is the outcome of a content search.
type GrepResult struct {
	Pattern   string
	Path      string
	Include   string
	Results   []SearchResult
	Truncated bool
}

func (GrepResult) toolResult() {}

// GlobResult is the outcome of a glob pattern match.
type GlobResult struct {
	Pattern   string
	Path      string
	Files     []FileInfo
	Truncated bool
}

func (GlobResult) toolResult() {}

// TodoResult is the outcome of a todo list operation.
type TodoResult struct {
	Action     string // "read" or "write"
	TodoList   []TodoItem
	Statistics *TodoStats
}

func (TodoResult) toolResult() {}

// ImageRecognitionResult is the outcome of an image analysis.
type ImageRecognitionResult struct {
	ImagePath string
	ImageType string // "local" or "remote"
	Prompt    string
	Analysis  string
	ImageSize *ImageDimensions
}

func (ImageRecognitionResult) toolResult() {}

// SubAgentResult is the outcome of a sub-agent invocation.
type SubAgentResult struct {
	Question string
	Response string
}

func (SubAgentResult) toolResult() {}

// WebFetchResult is the outcome of a web fetch.
type WebFetchResult struct {
	URL           string
	ContentType   string
	Size          int64
	Content       string
	ProcessedType string // "saved", "markdown", "ai_extracted"
	SavedPath     string
	Prompt        string
}

func (WebFetchResult) toolResult() {}

// ViewBackgroundProcessesResult lists tracked background processes.
type ViewBackgroundProcessesResult struct {
	Processes []BackgroundProcessInfo
	Count     int
}

func (ViewBackgroundProcessesResult) toolResult() {}

// CodeExecutionResult is the outcome of a code execution.
type CodeExecutionResult struct {
	Code    string
	Output  string
	Runtime string
}

func (CodeExecutionResult) toolResult() {}

// SkillResult is the outcome of a skill invocation.
type SkillResult struct {
	SkillName string
	Directory string
}

func (SkillResult) toolResult() {}

// MCPToolResult is the outcome of an MCP tool execution.
type MCPToolResult struct {
	MCPToolName   string
	ServerName    string
	Parameters    map[string]interface{}
	Content       []MCPContent
	ContentText   string
	ExecutionTime time.Duration
}

func (MCPToolResult) toolResult() {}

// CustomToolResult is the outcome of a custom tool execution.
type CustomToolResult struct {
	Output        string
	ExecutionTime time.Duration
}

func (CustomToolResult) toolResult() {}

// BlockedResult indicates a tool call was blocked by a security hook.
type BlockedResult struct {
	ToolName string
	Reason   string
}

func (BlockedResult) toolResult() {}

// UnknownToolResult is the catch-all for unrecognized metadata types.
// The metadata map is preserved untouched.
type UnknownToolResult struct {
	ToolName    string
	Success     bool
	Error       string
	RawMetadata map[string]interface{}
}

func (UnknownToolResult) toolResult() {}

// DecodeToolResult converts the decoded tool-result JSON into a typed
// variant. Callers must have verified the map came from valid JSON
// containing a toolName key (ToolResultEvent.DecodeResult does this).
// Decoding is deliberately permissive: missing metadata fields take
// their zero values and unknown metadataType values fall through to
// UnknownToolResult, because each tool's payload shape evolves
// independently of this SDK.
func DecodeToolResult(fields map[string]interface{}) ToolResult {
	metadata, _ := fields["metadata"].(map[string]interface{})
	if metadata == nil {
		metadata = map[string]interface{}{}
	}

	switch stringField(fields, "metadataType") {
	case "bash":
		return BashResult{
			Command:       stringField(metadata, "command"),
			ExitCode:      intField(metadata, "exitCode"),
			Output:        stringField(metadata, "output"),
			ExecutionTime: durationField(metadata, "executionTime"),
			WorkingDir:    stringField(metadata, "workingDir"),
		}

	case "bash_background":
		return BackgroundBashResult{
			Command:   stringField(metadata, "command"),
			PID:       intField(metadata, "pid"),
			LogPath:   stringField(metadata, "logPath"),
			StartTime: timeField(metadata, "startTime"),
		}

	case "file_read":
		return FileReadResult{
			FilePath:       stringField(metadata, "filePath"),
			Offset:         intField(metadata, "offset"),
			LineLimit:      intField(metadata, "lineLimit"),
			Lines:          stringSliceField(metadata, "lines"),
			Language:       stringField(metadata, "language"),
			Truncated:      boolField(metadata, "truncated"),
			RemainingLines: intField(metadata, "remainingLines"),
		}

	case "file_write":
		return FileWriteResult{
			FilePath: stringField(metadata, "filePath"),
			Content:  stringField(metadata, "content"),
			Size:     int64Field(metadata, "size"),
			Language: stringField(metadata, "language"),
		}

	case "file_edit":
		return FileEditResult{
			FilePath:      stringField(metadata, "filePath"),
			Edits:         decodeEdits(metadata),
			Language:      stringField(metadata, "language"),
			ReplaceAll:    boolField(metadata, "replaceAll"),
			ReplacedCount: intField(metadata, "replacedCount"),
		}

	case "grep_tool":
		return GrepResult{
			Pattern:   stringField(metadata, "pattern"),
			Path:      stringField(metadata, "path"),
			Include:   stringField(metadata, "include"),
			Results:   decodeSearchResults(metadata),
			Truncated: boolField(metadata, "truncated"),
		}

	case "glob_tool":
		return GlobResult{
			Pattern:   stringField(metadata, "pattern"),
			Path:      stringField(metadata, "path"),
			Files:     decodeFileInfos(metadata),
			Truncated: boolField(metadata, "truncated"),
		}

	case "todo":
		return TodoResult{
			Action:     stringField(metadata, "action"),
			TodoList:   decodeTodoItems(metadata),
			Statistics: decodeTodoStats(metadata),
		}

	case "image_recognition":
		return ImageRecognitionResult{
			ImagePath: stringField(metadata, "imagePath"),
			ImageType: stringField(metadata, "imageType"),
			Prompt:    stringField(metadata, "prompt"),
			Analysis:  stringField(metadata, "analysis"),
			ImageSize: decodeImageDimensions(metadata),
		}

	case "subagent":
		return SubAgentResult{
			Question: stringField(metadata, "question"),
			Response: stringField(metadata, "response"),
		}

	case "web_fetch":
		return WebFetchResult{
			URL:           stringField(metadata, "url"),
			ContentType:   stringField(metadata, "contentType"),
			Size:          int64Field(metadata, "size"),
			Content:       stringField(metadata, "content"),
			ProcessedType: stringField(metadata, "processedType"),
			SavedPath:     stringField(metadata, "savedPath"),
			Prompt:        stringField(metadata, "prompt"),
		}

	case "view_background_processes":
		return ViewBackgroundProcessesResult{
			Processes: decodeBackgroundProcesses(metadata),
			Count:     intField(metadata, "count"),
		}

	case "code_execution":
		return CodeExecutionResult{
			Code:    stringField(metadata, "code"),
			Output:  stringField(metadata, "output"),
			Runtime: stringField(metadata, "runtime"),
		}

	case "skill":
		return SkillResult{
			SkillName: stringField(metadata, "skillName"),
			Directory: stringField(metadata, "directory"),
		}

	case "mcp_tool":
		return MCPToolResult{
			MCPToolName:   stringField(metadata, "mcpToolName"),
			ServerName:    stringField(metadata, "serverName"),
			Parameters:    mapField(metadata, "parameters"),
			Content:       decodeMCPContents(metadata),
			ContentText:   stringField(metadata, "contentText"),
			ExecutionTime: durationField(metadata, "executionTime"),
		}

	case "custom_tool":
		return CustomToolResult{
			Output:        stringField(metadata, "output"),
			ExecutionTime: durationField(metadata, "executionTime"),
		}

	case "blocked":
		return BlockedResult{
			ToolName: stringField(metadata, "tool_name"),
			Reason:   stringField(metadata, "reason"),
		}

	default:
		return UnknownToolResult{
			ToolName:    stringField(fields, "toolName"),
			Success:     boolField(fields, "success"),
			Error:       stringField(fields, "error"),
			RawMetadata: metadata,
		}
	}
}

func decodeEdits(metadata map[string]interface{}) []Edit {
	items := sliceField(metadata, "edits")
	if len(items) == 0 {
		return nil
	}
	edits := make([]Edit, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		edits = append(edits, Edit{
			StartLine:  intField(m, "startLine"),
			EndLine:    intField(m, "endLine"),
			OldContent: stringField(m, "oldContent"),
			NewContent: stringField(m, "newContent"),
		})
	}
	return edits
}

func decodeSearchResults(metadata map[string]interface{}) []SearchResult {
	items := sliceField(metadata, "results")
	if len(items) == 0 {
		return nil
	}
	results := make([]SearchResult, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		sr := SearchResult{
			FilePath: stringField(m, "filePath"),
			Language: stringField(m, "language"),
		}
		for _, match := range sliceField(m, "matches") {
			mm, ok := match.(map[string]interface{})
			if !ok {
				continue
			}
			sr.Matches = append(sr.Matches, SearchMatch{
				LineNumber: intField(mm, "lineNumber"),
				Content:    stringField(mm, "content"),
				MatchStart: intField(mm, "matchStart"),
				MatchEnd:   intField(mm, "matchEnd"),
				IsContext:  boolField(mm, "isContext"),
			})
		}
		results = append(results, sr)
	}
	return results
}

func decodeFileInfos(metadata map[string]interface{}) []FileInfo {
	items := sliceField(metadata, "files")
	if len(items) == 0 {
		return nil
	}
	files := make([]FileInfo, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		files = append(files, FileInfo{
			Path:     stringField(m, "path"),
			Size:     int64Field(m, "size"),
			ModTime:  timeField(m, "modTime"),
			Type:     stringField(m, "type"),
			Language: stringField(m, "language"),
		})
	}
	return files
}

func decodeTodoItems(metadata map[string]interface{}) []TodoItem {
	items := sliceField(metadata, "todoList")
	if len(items) == 0 {
		return nil
	}
	todos := make([]TodoItem, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		todos = append(todos, TodoItem{
			ID:        stringField(m, "id"),
			Content:   stringField(m, "content"),
			Status:    stringField(m, "status"),
			Priority:  stringField(m, "priority"),
			CreatedAt: timeField(m, "createdAt"),
			UpdatedAt: timeField(m, "updatedAt"),
		})
	}
	return todos
}

func decodeTodoStats(metadata map[string]interface{}) *TodoStats {
	m := mapField(metadata, "statistics")
	if m == nil {
		return nil
	}
	return &TodoStats{
		Total:      intField(m, "total"),
		Completed:  intField(m, "completed"),
		InProgress: intField(m, "inProgress"),
		Pending:    intField(m, "pending"),
	}
}

func decodeImageDimensions(metadata map[string]interface{}) *ImageDimensions {
	m := mapField(metadata, "imageSize")
	if m == nil {
		return nil
	}
	return &ImageDimensions{
		Width:  intField(m, "width"),
		Height: intField(m, "height"),
	}
}

func decodeBackgroundProcesses(metadata map[string]interface{}) []BackgroundProcessInfo {
	items := sliceField(metadata, "processes")
	if len(items) == 0 {
		return nil
	}
	procs := make([]BackgroundProcessInfo, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		procs = append(procs, BackgroundProcessInfo{
			PID:       intField(m, "pid"),
			Command:   stringField(m, "command"),
			LogPath:   stringField(m, "logPath"),
			StartTime: timeField(m, "startTime"),
			Status:    stringField(m, "status"),
		})
	}
	return procs
}

func decodeMCPContents(metadata map[string]interface{}) []MCPContent {
	items := sliceField(metadata, "content")
	if len(items) == 0 {
		return nil
	}
	contents := make([]MCPContent, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		contents = append(contents, MCPContent{
			Type:     stringField(m, "type"),
			Text:     stringField(m, "text"),
			Data:     stringField(m, "data"),
			MimeType: stringField(m, "mimeType"),
			URI:      stringField(m, "uri"),
			Metadata: mapField(m, "metadata"),
		})
	}
	return contents
}

// durationField reads a nanosecond count from a decoded JSON map.
func durationField(m map[string]interface{}, key string) time.Duration {
	return time.Duration(int64Field(m, key))
}

func int64Field(m map[string]interface{}, key string) int64 {
	switch v := m[key].(type) {
	case float64:
		return int64(v)
	case int64:
		return v
	case int:
		return int64(v)
	}
	return 0
}

func boolField(m map[string]interface{}, key string) bool {
	v, _ := m[key].(bool)
	return v
}

func sliceField(m map[string]interface{}, key string) []interface{} {
	v, _ := m[key].([]interface{})
	return v
}

func mapField(m map[string]interface{}, key string) map[string]interface{} {
	v, _ := m[key].(map[string]interface{})
	return v
}

func stringSliceField(m map[string]interface{}, key string) []string {
	items := sliceField(m, key)
	if len(items) == 0 {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// timeField parses an RFC3339 timestamp (a trailing "Z" reads as UTC).
// Malformed or absent timestamps yield nil, never an error.
func timeField(m map[string]interface{}, key string) *time.Time {
	s := stringField(m, key)
	if s == "" {
		return nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t
	}
	// Offset-less timestamps read as UTC.
	if t, err := time.Parse("2006-01-02T15:04:05", s); err == nil {
		return &t
	}
	return nil
}
