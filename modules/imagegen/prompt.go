package imagegen

import (
	"fmt"

	"inspiration-poster-server/modules/theme"
)

// BuildImagePrompt - derive the background prompt from the generated quote
// and the theme's style fragment. The quote coupling keeps visual and textual
// content thematically coherent, so the text result must exist before this
// is called.
func BuildImagePrompt(quote string, th theme.Theme) string {
	return fmt.Sprintf(`A beautiful, artistic background image representing this concept: "%s".
Style: %s.
No text, no words, no letters in the image. High quality, aesthetic, wallpaper, 1:1 aspect ratio.`,
		quote, th.StylePrompt())
}
