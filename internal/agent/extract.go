package agent

import (
	"encoding/json"
	"strings"

	"github.com/tidwall/gjson"
)

// ExtractText normalizes an agent reply into plain text. Deployments answer
// in one of three envelope families (agent-style, chat-completion-style, or
// plain generation-style); the first family that matches wins and the rest
// are ignored. Unrecognized input comes back as an indented JSON dump, so
// there is always something renderable for the chat window.
func ExtractText(body []byte) string {
	j := gjson.ParseBytes(body)
	if j.IsObject() {
		// Agent-style envelope
		if out := j.Get("output"); out.IsObject() {
			if t := out.Get("text"); isNonBlankString(t) {
				return t.String()
			}
			if texts := collectTexts(out.Get("generic")); len(texts) > 0 {
				return strings.Join(texts, "\n\n")
			}
			if msgs := out.Get("messages"); msgs.IsArray() {
				var buf []string
				for _, m := range msgs.Array() {
					buf = append(buf, collectTexts(m.Get("content"))...)
				}
				if len(buf) > 0 {
					return strings.Join(buf, "\n\n")
				}
			}
		}

		// Chat-completion-style envelope
		if choices := j.Get("choices"); choices.IsArray() {
			if arr := choices.Array(); len(arr) > 0 {
				content := arr[0].Get("message.content")
				if isNonBlankString(content) {
					return content.String()
				}
				if texts := collectTexts(content); len(texts) > 0 {
					return strings.Join(texts, "\n\n")
				}
			}
		}

		// Plain generation-style envelope
		if results := j.Get("results"); results.IsArray() {
			for _, r := range results.Array() {
				for _, key := range []string{"generated_text", "output", "text"} {
					if t := r.Get(key); isNonBlankString(t) {
						return t.String()
					}
				}
			}
		}
	}
	return dumpJSON(body)
}

func isNonBlankString(r gjson.Result) bool {
	return r.Type == gjson.String && strings.TrimSpace(r.String()) != ""
}

func collectTexts(list gjson.Result) []string {
	if !list.IsArray() {
		return nil
	}
	var texts []string
	for _, it := range list.Array() {
		if t := it.Get("text"); t.Type == gjson.String {
			texts = append(texts, t.String())
		}
	}
	return texts
}

func dumpJSON(body []byte) string {
	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		return string(body)
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return string(body)
	}
	return string(b)
}
