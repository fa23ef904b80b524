package wrap

import (
	"math"
	"sort"
)

// Response-time pattern labels.
const (
	PatternNineToFive = "9-to-5 Grinder"
	PatternMidnight   = "Midnight Warrior"
	PatternFlexible   = "Flexible Thinker"
)

// conversationDepth is the mean number of user and assistant messages per conversation.
func conversationDepth(userMsgs, assistantMsgs, conversations int) int {
	if conversations == 0 {
		return 0
	}
	return int(math.Round(float64(userMsgs+assistantMsgs) / float64(conversations)))
}

// productivityScore blends volume, streak and code activity into 0..100.
func productivityScore(userMsgs, streakDays, codeBlocks, conversations int) int {
	raw := float64(userMsgs)/10 +
		float64(streakDays)*2 +
		float64(codeBlocks)/5 +
		float64(conversations)/5
	return clamp(int(math.Round(raw)), 0, 100)
}

// messagingPace is user messages per streak day, to one decimal.
func messagingPace(userMsgs, streakDays int) float64 {
	return roundTenth(float64(userMsgs) / float64(max(1, streakDays)))
}

// questionRatio is the share of questions among user messages, as a whole
// percentage. It is 0 until at least one statement has been seen.
func questionRatio(questions, statements int) int {
	if statements == 0 {
		return 0
	}
	return int(math.Round(100 * float64(questions) / float64(questions+statements)))
}

// productiveHours returns the three busiest hours, lowest hour first on ties.
func productiveHours(hours [24]int) []int {
	idx := make([]int, 24)
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return hours[idx[a]] > hours[idx[b]]
	})
	return idx[:3]
}

// busiestHour is the index of the first maximum in hours.
func busiestHour(hours [24]int) int {
	best := 0
	for h, n := range hours {
		if n > hours[best] {
			best = h
		}
	}
	return best
}

func responseTimePattern(hour int) string {
	switch {
	case hour >= 9 && hour <= 17:
		return PatternNineToFive
	case hour >= 22 || hour <= 2:
		return PatternMidnight
	default:
		return PatternFlexible
	}
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func roundTenth(x float64) float64 {
	return math.Round(x*10) / 10
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
