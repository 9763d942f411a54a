package prompt

import _ "embed"

// Template files embedded at compile time
var (
	//go:embed templates/scene-analysis.txt
	SceneAnalysisTemplate string

	//go:embed templates/storyboard-frame.txt
	StoryboardFrameTemplate string
)
