// Package prompt builds the text prompts sent to the scene analyzer and the
// image model from embedded templates.
package prompt

import "strings"

// BuildAnalysisPrompt constructs the scene analysis prompt. The model is
// asked to pick one of angles and describe the mood of the scene.
func BuildAnalysisPrompt(scene string, angles []string) string {
	quoted := make([]string, len(angles))
	for i, a := range angles {
		quoted[i] = `"` + a + `"`
	}

	prompt := SceneAnalysisTemplate
	prompt = strings.ReplaceAll(prompt, "{{CAMERA_ANGLES}}", strings.Join(quoted, ", "))

	// Scene last so placeholder-like text in the description is left alone.
	prompt = strings.ReplaceAll(prompt, "{{SCENE}}", strings.TrimSpace(scene))

	return strings.TrimSpace(prompt)
}

// BuildFramePrompt constructs the image prompt for a single storyboard frame
// in the hand-drawn grayscale style.
func BuildFramePrompt(scene string) string {
	prompt := strings.ReplaceAll(StoryboardFrameTemplate, "{{SCENE}}", strings.TrimSpace(scene))
	return strings.TrimSpace(prompt)
}
