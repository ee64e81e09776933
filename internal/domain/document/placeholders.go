package document

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/forPelevin/vid2article/internal/types"
)

var placeholderRE = regexp.MustCompile(`\{\{IMAGE_(\d+)\}\}`)

// Placeholder returns the token the model is told to use for image i.
func Placeholder(i int) string {
	return fmt.Sprintf("{{IMAGE_%d}}", i)
}

// ResolvePlaceholders replaces every {{IMAGE_n}} with the data URI of images[n].
// Tokens whose index has no image are left as they are.
func ResolvePlaceholders(html string, images []types.Media) string {
	if len(images) == 0 {
		return html
	}
	uris := make([]string, len(images))
	for i, img := range images {
		uris[i] = img.DataURI()
	}
	return placeholderRE.ReplaceAllStringFunc(html, func(tok string) string {
		m := placeholderRE.FindStringSubmatch(tok)
		n, err := strconv.Atoi(m[1])
		if err != nil || n < 0 || n >= len(uris) {
			return tok
		}
		return uris[n]
	})
}

// CountPlaceholders reports how many image tokens html contains, per index.
func CountPlaceholders(html string) map[int]int {
	out := map[int]int{}
	for _, m := range placeholderRE.FindAllStringSubmatch(html, -1) {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		out[n]++
	}
	return out
}
