package authoring

import (
	"fmt"
	"strings"

	"github.com/abhisek/storymath/internal/problem"
)

const systemPrompt = `You write math word problems for children aged 5 to 8.

Rules:
- One problem per response, about a single kind of object.
- The story is two or three short sentences and ends with a question.
- Write every quantity as digits, never as words.
- Addition stories add more objects; subtraction stories take objects away.
- Never take away more objects than the story starts with.
- The answer must be exactly the number of objects at the end.
- Steps are short sentences a child can follow, in order.
- Do not reuse a title from the "already used" list.`

// maxCount is the largest quantity per difficulty.
var maxCount = map[problem.Difficulty]int{
	problem.DifficultyEasy:   10,
	problem.DifficultyMedium: 15,
	problem.DifficultyHard:   20,
}

// objectNames is how each visual type is named in a story.
var objectNames = map[problem.VisualType]string{
	problem.VisualApples:  "apples",
	problem.VisualCookies: "cookies",
	problem.VisualCars:    "toy cars",
	problem.VisualGifts:   "gifts",
}

func buildUserMessage(req Request, avoid []string, maxAvoid int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Operation: %s\n", req.Operation)
	fmt.Fprintf(&b, "Objects: %s\n", objectNames[req.VisualType])
	fmt.Fprintf(&b, "Difficulty: %s (every quantity at most %d)\n", req.Difficulty, maxCount[req.Difficulty])
	b.WriteString("\nAlready used titles:\n")
	b.WriteString(numberedList(avoid, maxAvoid))
	return b.String()
}

// numberedList formats the last max items, or "None".
func numberedList(items []string, max int) string {
	if len(items) == 0 {
		return "None"
	}
	if max > 0 && len(items) > max {
		items = items[len(items)-max:]
	}
	var b strings.Builder
	for i, s := range items {
		fmt.Fprintf(&b, "%d. %s\n", i+1, s)
	}
	return strings.TrimRight(b.String(), "\n")
}
