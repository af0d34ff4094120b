package news

import (
	"fmt"
	"strings"
)

const maxDisplayDescription = 150

// Format renders articles as a numbered display list.
func Format(articles []Article) string {
	if len(articles) == 0 {
		return "I couldn't fetch any news at the moment. Please try again later."
	}

	var b strings.Builder
	b.WriteString("Here are the latest news headlines:\n\n")

	for i, article := range articles {
		fmt.Fprintf(&b, "%d. %s\n", i+1, article.Title)
		if article.Description != "" {
			desc := article.Description
			if len([]rune(desc)) > maxDisplayDescription {
				desc = string([]rune(desc)[:maxDisplayDescription]) + "..."
			}
			fmt.Fprintf(&b, "   %s\n", desc)
		}
		fmt.Fprintf(&b, "   Source: %s\n", article.Source)
		if article.URL != "" {
			fmt.Fprintf(&b, "   %s\n", article.URL)
		}
		b.WriteString("\n")
	}

	return strings.TrimSpace(b.String())
}
