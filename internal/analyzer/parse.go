package analyzer

import (
	"regexp"
	"strings"
)

const reasoningSeparator = "--- Model Reasoning ---"

var responseDivider = strings.Repeat("=", 60)

var reasoningPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?is)<think>(.*?)</think>`),
	regexp.MustCompile("(?is)`<think>`(.*?)`</think>`"),
	regexp.MustCompile(`(?is)<thinking>(.*?)</thinking>`),
	regexp.MustCompile(`(?is)<reasoning>(.*?)</reasoning>`),
}

var (
	mdHeaderRe     = regexp.MustCompile(`(?m)^#{1,6}\s+`)
	mdBoldRe       = regexp.MustCompile(`\*\*(.*?)\*\*`)
	mdBoldAltRe    = regexp.MustCompile(`__(.*?)__`)
	mdCodeBlockRe  = regexp.MustCompile(`(?s)` + "```" + `[a-z]*\n(.*?)` + "```")
	mdInlineCodeRe = regexp.MustCompile("`([^`]+)`")
	mdHRRe         = regexp.MustCompile(`(?m)^[-*]{3,}$`)
	multiNewlineRe = regexp.MustCompile(`\n{3,}`)
)

// ExtractReasoning вырезает из сырого ответа модели теги рассуждений
// и чистит основной текст от markdown. Возвращает (основной ответ, reasoning).
func ExtractReasoning(text string) (string, string) {
	var reasoningParts []string
	main := text

	for _, pattern := range reasoningPatterns {
		matches := pattern.FindAllStringSubmatch(main, -1)
		if len(matches) == 0 {
			continue
		}
		for _, m := range matches {
			if trimmed := strings.TrimSpace(m[1]); trimmed != "" {
				reasoningParts = append(reasoningParts, trimmed)
			}
		}
		main = pattern.ReplaceAllString(main, "")
	}

	main = stripMarkdown(main)

	return main, strings.TrimSpace(strings.Join(reasoningParts, "\n\n"))
}

// stripMarkdown убирает markdown-разметку: модель просят отвечать plain text,
// но она не всегда слушается.
func stripMarkdown(text string) string {
	text = mdHeaderRe.ReplaceAllString(text, "")
	text = mdBoldRe.ReplaceAllString(text, "$1")
	text = mdBoldAltRe.ReplaceAllString(text, "$1")
	text = mdCodeBlockRe.ReplaceAllString(text, "$1")
	text = mdInlineCodeRe.ReplaceAllString(text, "$1")
	text = mdHRRe.ReplaceAllString(text, "")
	text = multiNewlineRe.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

// FormatWithReasoning собирает итоговый текст ответа: reasoning идет первым
// под заметным разделителем, затем основной ответ.
func FormatWithReasoning(mainResponse, reasoning string) string {
	if reasoning == "" {
		return mainResponse
	}
	return reasoningSeparator + "\n\n" + reasoning + "\n\n" + responseDivider + "\n\n" + mainResponse
}

// SplitFormatted - обратная операция к FormatWithReasoning: из сохраненного
// текста восстанавливает пару (основной ответ, reasoning).
func SplitFormatted(formatted string) (string, string) {
	if !strings.HasPrefix(formatted, reasoningSeparator) {
		return formatted, ""
	}
	rest := strings.TrimPrefix(formatted, reasoningSeparator)
	parts := strings.SplitN(rest, responseDivider, 2)
	if len(parts) != 2 {
		return formatted, ""
	}
	reasoning := strings.TrimSpace(parts[0])
	main := strings.TrimSpace(parts[1])
	return main, reasoning
}
