package generator

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// FallbackGenerator synthesizes a story from the collected attributes with no
// external calls. It never fails, so the creation flow always has a story to
// persist when the model endpoint is down.
type FallbackGenerator struct{}

func NewFallbackGenerator() *FallbackGenerator {
	return &FallbackGenerator{}
}

func (g *FallbackGenerator) Generate(ctx context.Context, params Params) (*Result, error) {
	hero := heroFor(params.Gender)
	interest := "adventures"
	if len(params.Interests) > 0 {
		interest = strings.ToLower(params.Interests[0])
	}

	lesson := params.Lesson
	if lesson == "" {
		lesson = "kindness"
	}

	title := fmt.Sprintf("The %s Who Loved %s", titleCaser.String(hero), titleCaser.String(interest))

	var b strings.Builder
	fmt.Fprintf(&b, "Once upon a time, there was a %d year old %s who loved %s more than anything in the world.\n\n",
		params.Age, hero, interest)
	fmt.Fprintf(&b, "Every night before bed, the %s would dream of wonderful %s, imagining all the amazing things waiting to be discovered.\n\n",
		hero, interest)
	fmt.Fprintf(&b, "One evening, something magical happened. A friendly star appeared at the window and whispered, \"Come along, little one, there is something important for you to learn about %s.\"\n\n",
		lesson)
	fmt.Fprintf(&b, "Together they went on a gentle journey through the world of %s. Along the way, the %s met friends who needed help, and discovered that %s made every adventure brighter.\n\n",
		interest, hero, lesson)
	fmt.Fprintf(&b, "When the journey was over, the %s snuggled back into bed, happy and warm, knowing that %s is one of the most wonderful things of all.\n\n",
		hero, lesson)
	b.WriteString("And with a heart full of joy, the little one drifted off to sleep. The end.")

	return &Result{Title: title, Story: b.String()}, nil
}

func heroFor(gender string) string {
	switch strings.ToLower(strings.TrimSpace(gender)) {
	case "girl":
		return "girl"
	case "boy":
		return "boy"
	default:
		return "child"
	}
}
