package agent

// payloadBuilder encodes one (user text, variables) pair as a request body.
// Builders are pure; the trial loop owns all side effects.
type payloadBuilder func(text string, vars map[string]any) map[string]any

func userMessage(content any) map[string]any {
	return map[string]any{"role": "user", "content": content}
}

func textBlock(blockType, text string) []any {
	return []any{map[string]any{"type": blockType, "text": text}}
}

// payloadBuilders is the probing priority. Agent deployments disagree on the
// accepted request schema across environments and versions, so every shape
// here gets exactly one attempt per turn, in this order.
var payloadBuilders = []payloadBuilder{
	// input.messages with a flat content string
	func(text string, vars map[string]any) map[string]any {
		return map[string]any{"input": map[string]any{
			"messages":  []any{userMessage(text)},
			"variables": vars,
		}}
	},
	// input.messages with an input_text content block
	func(text string, vars map[string]any) map[string]any {
		return map[string]any{"input": map[string]any{
			"messages":  []any{userMessage(textBlock("input_text", text))},
			"variables": vars,
		}}
	},
	// input.messages with a text content block
	func(text string, vars map[string]any) map[string]any {
		return map[string]any{"input": map[string]any{
			"messages":  []any{userMessage(textBlock("text", text))},
			"variables": vars,
		}}
	},
	// top-level input array, flat content
	func(text string, vars map[string]any) map[string]any {
		return map[string]any{
			"input":     []any{userMessage(text)},
			"variables": vars,
		}
	},
	// top-level input array, text content block
	func(text string, vars map[string]any) map[string]any {
		return map[string]any{
			"input":     []any{userMessage(textBlock("text", text))},
			"variables": vars,
		}
	},
	// flat messages key
	func(text string, vars map[string]any) map[string]any {
		return map[string]any{
			"messages":  []any{userMessage(text)},
			"variables": vars,
		}
	},
	// minimal input.text form
	func(text string, vars map[string]any) map[string]any {
		return map[string]any{"input": map[string]any{
			"text":      text,
			"variables": vars,
		}}
	},
}

func candidatePayloads(text string, vars map[string]any) []map[string]any {
	out := make([]map[string]any, 0, len(payloadBuilders))
	for _, build := range payloadBuilders {
		out = append(out, build(text, vars))
	}
	return out
}
