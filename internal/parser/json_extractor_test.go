package parser

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sceneMeta struct {
	CameraAngle string `json:"cameraAngle"`
	Mood        string `json:"mood"`
}

// ---------------------------------------------------------------------------
// ExtractObject tests
// ---------------------------------------------------------------------------

func TestExtractObject_WrappedInText(t *testing.T) {
	text := `API call failed after 5 attempts: got status 429. {"error":{"code":429,"message":"Quota exceeded"}} (see docs)`

	raw, ok := ExtractObject(text)
	require.True(t, ok)
	assert.Equal(t, `{"error":{"code":429,"message":"Quota exceeded"}}`, raw)
}

func TestExtractObject_MultiLine(t *testing.T) {
	text := "status 400:\n{\n  \"error\": {\n    \"message\": \"bad\"\n  }\n}\n"

	raw, ok := ExtractObject(text)
	require.True(t, ok)
	assert.Contains(t, raw, `"message": "bad"`)
}

func TestExtractObject_FallsBackToBraceMatching(t *testing.T) {
	// The widest span is invalid because of the trailing stray brace.
	text := `prefix {"error":{"message":"inner"}} suffix }`

	raw, ok := ExtractObject(text)
	require.True(t, ok)
	assert.Equal(t, `{"error":{"message":"inner"}}`, raw)
}

func TestExtractObject_SkipsInvalidLeadingBraces(t *testing.T) {
	text := `{not json} then {"ok":true}`

	raw, ok := ExtractObject(text)
	require.True(t, ok)
	assert.Equal(t, `{"ok":true}`, raw)
}

func TestExtractObject_StopsAfterMaxCandidates(t *testing.T) {
	noise := strings.Repeat("{", MaxCandidates)
	_, ok := ExtractObject(noise + ` {"ok":true} }`)
	assert.False(t, ok)

	raw, ok := ExtractObject(strings.Repeat("{", MaxCandidates-1) + `{"ok":true}`)
	require.True(t, ok)
	assert.Equal(t, `{"ok":true}`, raw)
}

func TestExtractObject_LargeUnbalancedBodyIsBounded(t *testing.T) {
	text := "error: " + strings.Repeat("{x", 32<<10) + ` {"error":{"message":"late"}}`

	done := make(chan bool, 1)
	go func() {
		_, ok := ExtractObject(text)
		done <- ok
	}()

	select {
	case ok := <-done:
		assert.False(t, ok)
	case <-time.After(5 * time.Second):
		t.Fatal("ExtractObject did not return on a large unbalanced body")
	}
}

func TestExtractObject_NoObject(t *testing.T) {
	tests := []string{
		"",
		"plain message",
		"only open {",
		"} reversed {",
		"{broken json",
	}
	for _, text := range tests {
		t.Run(text, func(t *testing.T) {
			_, ok := ExtractObject(text)
			assert.False(t, ok)
		})
	}
}

func TestExtractObject_BracesInsideStrings(t *testing.T) {
	text := `x {"note": "use {curly} and [square]"} y }`

	raw, ok := ExtractObject(text)
	require.True(t, ok)
	assert.Equal(t, `{"note": "use {curly} and [square]"}`, raw)
}

// ---------------------------------------------------------------------------
// Decode tests
// ---------------------------------------------------------------------------

func TestDecode_PlainJSON(t *testing.T) {
	got, err := Decode[sceneMeta](`  {"cameraAngle":"Wide Shot","mood":"Tense and suspenseful"}  `, `"cameraAngle"`)
	require.NoError(t, err)
	assert.Equal(t, "Wide Shot", got.CameraAngle)
	assert.Equal(t, "Tense and suspenseful", got.Mood)
}

func TestDecode_CodeFence(t *testing.T) {
	text := "Here you go:\n```json\n{\"cameraAngle\": \"Low Angle\", \"mood\": \"Heroic\"}\n```"

	got, err := Decode[sceneMeta](text, `"cameraAngle"`)
	require.NoError(t, err)
	assert.Equal(t, "Low Angle", got.CameraAngle)
	assert.Equal(t, "Heroic", got.Mood)
}

func TestDecode_CodeBlockWithoutAnchorFallsBack(t *testing.T) {
	text := "```json\n{\"other\": 1}\n```\nAlso: {\"cameraAngle\": \"Top Shot\", \"mood\": \"Calm\"}"

	got, err := Decode[sceneMeta](text, `"cameraAngle"`)
	require.NoError(t, err)
	assert.Equal(t, "Top Shot", got.CameraAngle)
}

func TestDecode_EmbeddedInProse(t *testing.T) {
	text := `I think {"cameraAngle": "Eye Level", "mood": "Warm", "extra": {"a": [1, 2]}} fits.`

	got, err := Decode[sceneMeta](text, `"cameraAngle"`)
	require.NoError(t, err)
	assert.Equal(t, "Eye Level", got.CameraAngle)
	assert.Equal(t, "Warm", got.Mood)
}

func TestDecode_EscapedQuotes(t *testing.T) {
	text := `Result: {"cameraAngle": "Close-Up", "mood": "said \"hush\" softly"}`

	got, err := Decode[sceneMeta](text, `"cameraAngle"`)
	require.NoError(t, err)
	assert.Equal(t, `said "hush" softly`, got.Mood)
}

func TestDecode_Errors(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		_, err := Decode[sceneMeta]("   ", `"cameraAngle"`)
		assert.ErrorIs(t, err, ErrNoObject)
	})

	t.Run("anchor missing", func(t *testing.T) {
		_, err := Decode[sceneMeta]("Sorry, I cannot help with that.", `"cameraAngle"`)
		assert.ErrorIs(t, err, ErrNoObject)
	})

	t.Run("unbalanced", func(t *testing.T) {
		_, err := Decode[sceneMeta](`The answer: "cameraAngle" {"cameraAngle": "Wide Shot", broken`, `"cameraAngle"`)
		assert.Error(t, err)
	})

	t.Run("malformed fenced block", func(t *testing.T) {
		_, err := Decode[sceneMeta]("```json\n{\"cameraAngle\": oops}\n```", `"cameraAngle"`)
		assert.Error(t, err)
	})
}

func TestDecode_NoAnchorUsesExtractObject(t *testing.T) {
	got, err := Decode[map[string]any](`noise {"error":{"message":"m"}} noise`, "")
	require.NoError(t, err)
	inner, ok := got["error"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "m", inner["message"])
}

// ---------------------------------------------------------------------------
// matchBraces tests
// ---------------------------------------------------------------------------

func TestMatchBraces(t *testing.T) {
	tests := []struct {
		name  string
		input string
		end   int
		ok    bool
	}{
		{"simple", `{"a":1}`, 6, true},
		{"nested", `{"a":{"b":2}} tail`, 12, true},
		{"array with object", `{"a":[{"b":1}]}`, 14, true},
		{"escaped quote", `{"a":"x\"}"}`, 11, true},
		{"not starting with brace", `x{}`, 0, false},
		{"unterminated", `{"a":1`, 0, false},
		{"empty", ``, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			end, ok := matchBraces(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.end, end)
		})
	}
}
