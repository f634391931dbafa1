package answer

import "strings"

// BuildPrompt renders the fixed instruction template around the aggregated
// context and the user's question. Neither value is escaped.
func BuildPrompt(context, question string) string {
	var b strings.Builder

	b.WriteString("You are an expert on Lionel Messi. Answer the following question using:\n")
	b.WriteString("1. Your comprehensive knowledge about Messi's career, life, and personal details\n")
	b.WriteString("2. The current context below (if relevant for recent updates)\n\n")

	b.WriteString("Current Context (Recent Information):\n")
	b.WriteString(context)
	b.WriteString("\n\n")

	b.WriteString("Question: ")
	b.WriteString(question)
	b.WriteString("\n\n")

	b.WriteString("Instructions:\n")
	b.WriteString("- Provide a concise answer (under 100 words)\n")
	b.WriteString("- Use your built-in knowledge for general facts about Messi\n")
	b.WriteString("- Only refer to the context for very recent events or updates\n")
	b.WriteString("- If you're certain about information from your knowledge, use it even if it's not in the context\n")
	b.WriteString("- Be clear about what information is recent vs. general knowledge\n")
	b.WriteString("- Do not mention anything about context, sources, or knowledge base\n")

	return b.String()
}
