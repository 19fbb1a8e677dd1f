package vision

import (
	"fmt"
	"strings"
)

const (
	ModeTranslate = "translate"
	ModeDescribe  = "describe"
)

const answerFormat = ` Answer only with a JSON object of the form {"translation": "...", "context": "..."} where translation holds any text found in the image translated into %s (empty if there is none) and context holds your description in %s.`

// BuildPrompt returns the instruction for mode in language. Unknown modes get
// the sign language prompt.
func BuildPrompt(mode, language string) string {
	if language == "" {
		language = "English"
	}

	var prompt string
	switch strings.ToLower(mode) {
	case ModeTranslate:
		prompt = fmt.Sprintf("You are a language translator. What is the object in this image? Provide a direct translation of the text in the image into %s.", language)
	case ModeDescribe:
		prompt = fmt.Sprintf("You are a tour guide. You are looking at an image and describing it in %s.", language)
	default:
		prompt = fmt.Sprintf("Describe this image for a sign language app in %s.", language)
	}
	return prompt + fmt.Sprintf(answerFormat, language, language)
}
