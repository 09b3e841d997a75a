package types

type ChatRequest struct {
	SessionID      string `json:"sessionId"`
	Message        string `json:"message"`
	IncludeProfile bool   `json:"includeProfile"`
}

type ChatResponse struct {
	SessionID string `json:"sessionId"`
	Reply     string `json:"reply"`
}

// ProfileRequest carries the raw sidebar fields exactly as the user typed
// them; parsing and omission of blank fields happen server-side.
type ProfileRequest struct {
	Age      string `json:"age"`
	Sex      string `json:"sex"`
	Height   string `json:"height"`
	Weight   string `json:"weight"`
	Activity string `json:"activity"`
	Goal     string `json:"goal"`
}

type ProfileResponse struct {
	SessionID string         `json:"sessionId"`
	Profile   map[string]any `json:"profile"`
}

type QuickStartResponse struct {
	SessionID string   `json:"sessionId"`
	Prompts   []string `json:"prompts"`
	Used      bool     `json:"used"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
