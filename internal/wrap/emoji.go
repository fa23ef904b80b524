package wrap

import "sort"

type runeRange struct {
	lo, hi rune
}

// emojiRanges lists inclusive code-point ranges treated as emoji, sorted by lo.
var emojiRanges = []runeRange{
	{0x00A9, 0x00A9}, // ©
	{0x00AE, 0x00AE}, // ®
	{0x203C, 0x203C},
	{0x2049, 0x2049},
	{0x2122, 0x2122},
	{0x2139, 0x2139},
	{0x2190, 0x21FF}, // arrows
	{0x231A, 0x231B},
	{0x2328, 0x2328},
	{0x23CF, 0x23CF},
	{0x23E9, 0x23F3},
	{0x23F8, 0x23FA},
	{0x24C2, 0x24C2},
	{0x25AA, 0x25AB},
	{0x25B6, 0x25B6},
	{0x25C0, 0x25C0},
	{0x25FB, 0x25FE},
	{0x2600, 0x26FF}, // misc symbols
	{0x2700, 0x27BF}, // dingbats
	{0x2934, 0x2935},
	{0x2B05, 0x2B07},
	{0x2B1B, 0x2B1C},
	{0x2B50, 0x2B50},
	{0x2B55, 0x2B55},
	{0x3030, 0x3030},
	{0x303D, 0x303D},
	{0x3297, 0x3297},
	{0x3299, 0x3299},
	{0x1F000, 0x1FAFF}, // mahjong through symbols & pictographs ext-A
}

const (
	variationSelector16 = 0xFE0F
	combiningKeycap     = 0x20E3
)

func isEmojiRune(r rune) bool {
	if r <= 0x7F {
		return false
	}
	i := sort.Search(len(emojiRanges), func(i int) bool {
		return emojiRanges[i].hi >= r
	})
	return i < len(emojiRanges) && emojiRanges[i].lo <= r
}

func isRegionalIndicator(r rune) bool {
	return r >= 0x1F1E6 && r <= 0x1F1FF
}

func isKeycapBase(r rune) bool {
	return (r >= '0' && r <= '9') || r == '#' || r == '*'
}

// extractEmojis returns the emoji in text in order of appearance. Regional
// indicator pairs become one flag and keycap sequences one keycap; a bare
// ASCII character is never reported.
func extractEmojis(text string) []string {
	runes := []rune(text)
	var out []string
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case isRegionalIndicator(r) && i+1 < len(runes) && isRegionalIndicator(runes[i+1]):
			out = append(out, string(runes[i:i+2]))
			i++
		case isKeycapBase(r):
			j := i + 1
			if j < len(runes) && runes[j] == variationSelector16 {
				j++
			}
			if j < len(runes) && runes[j] == combiningKeycap {
				out = append(out, string(runes[i:j+1]))
				i = j
			}
		case isEmojiRune(r):
			out = append(out, string(r))
		}
	}
	return out
}
