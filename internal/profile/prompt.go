package profile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// Demo defaults used by the quick-start plan prompt when the corresponding
// profile field is missing.
const (
	DefaultAge      = 22
	DefaultHeightCm = 175
	DefaultWeightKg = 78
	DefaultSex      = "male"
	DefaultActivity = "moderate"
	DefaultGoal     = "lose"
)

var goalPhrases = map[string]string{
	"lose":     "goal lose weight",
	"maintain": "goal maintain weight",
	"gain":     "goal gain weight",
}

// QuickStartPlanPrompt renders the personalized "make my plan" prompt,
// substituting the demo defaults for any missing profile field.
func QuickStartPlanPrompt(profile map[string]any) string {
	age := intValue(profile, "age", DefaultAge)
	h := intValue(profile, "height_cm", DefaultHeightCm)
	w := intValue(profile, "weight_kg", DefaultWeightKg)
	sex := stringValue(profile, "sex", DefaultSex)
	activity := stringValue(profile, "activity", DefaultActivity)
	goal := stringValue(profile, "goal", DefaultGoal)

	phrase, ok := goalPhrases[goal]
	if !ok {
		phrase = goalPhrases[DefaultGoal]
	}
	return fmt.Sprintf(
		"Make my plan for today. I am %d, %d cm, %d kg, %s, %s, %s, vegetarian, budget on.",
		age, h, w, sex, activity, phrase,
	)
}

// Spec mirrors prompts/quickstart.yaml: the canned follow-up prompts offered
// before the first message of a session.
type Spec struct {
	Samples []string `yaml:"samples"`
}

var defaultSamples = []string{
	"Make lunch vegetarian under 8 dollars and keep totals within ten percent.",
	"End of day recap. I ate breakfast as planned, swapped lunch to tofu stir fry, skipped the snack.",
	"Show my mini grocery list from the plan.",
}

// LoadSpec reads the optional quick-start spec file; when the file does not
// exist the built-in samples are used.
func LoadSpec(path string) (Spec, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Spec{Samples: defaultSamples}, nil
		}
		return Spec{}, err
	}
	var spec Spec
	if err := yaml.Unmarshal(b, &spec); err != nil {
		return Spec{}, err
	}
	if len(spec.Samples) == 0 {
		spec.Samples = defaultSamples
	}
	return spec, nil
}

// QuickStartPrompts returns the plan prompt personalized from the saved
// profile, followed by the spec's samples.
func (s Spec) QuickStartPrompts(profile map[string]any) []string {
	out := make([]string, 0, len(s.Samples)+1)
	out = append(out, QuickStartPlanPrompt(profile))
	out = append(out, s.Samples...)
	return out
}
