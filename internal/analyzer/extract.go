package analyzer

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// keyTerms - разделы контракта, которые важны почти всегда.
var keyTerms = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(payment|compensation|fee|royalty|advance|salary|wage)\b`),
	regexp.MustCompile(`(?i)\b(intellectual property|copyright|ownership|license|rights|IP)\b`),
	regexp.MustCompile(`(?i)\b(termination|cancellation|breach|default)\b`),
	regexp.MustCompile(`(?i)\b(liability|indemnification|warranty|guarantee)\b`),
	regexp.MustCompile(`(?i)\b(confidentiality|non-disclosure|NDA|privacy)\b`),
	regexp.MustCompile(`(?i)\b(deliverable|scope|work|services|obligation)\b`),
	regexp.MustCompile(`(?i)\b(duration|term|period|expiration|renewal)\b`),
	regexp.MustCompile(`(?i)\b(dispute|arbitration|jurisdiction|governing law)\b`),
}

var keywordSynonyms = map[string][]string{
	"payment":         {"compensation", "fee", "payout", "remuneration"},
	"compensation":    {"payment", "fee", "payout"},
	"fee":             {"fees", "payment"},
	"royalty":         {"royalties"},
	"salary":          {"wage", "pay"},
	"intellectual":    {"ip", "copyright"},
	"property":        {"ownership"},
	"license":         {"licence", "licensing"},
	"rights":          {"usage", "use", "right"},
	"termination":     {"terminate", "terminating", "cancellation", "cancel", "ending"},
	"notice":          {"notification", "advance notice"},
	"liability":       {"responsibility", "indemnity", "indemnification"},
	"indemnification": {"indemnity", "hold harmless"},
	"warranty":        {"guarantee"},
	"confidentiality": {"nda", "non-disclosure", "secrecy"},
	"deliverable":     {"deliverables", "deliveries", "work product"},
	"scope":           {"services", "obligations", "responsibilities"},
	"duration":        {"term", "length", "period"},
	"dispute":         {"arbitration", "jurisdiction", "litigation"},
	"governing":       {"jurisdiction", "law"},
}

var stopWords = map[string]struct{}{
	"please": {}, "that": {}, "about": {}, "would": {}, "could": {}, "there": {}, "which": {},
}

var (
	sentenceSplitRe  = regexp.MustCompile(`(?:[.!?])\s+`)
	paragraphSplitRe = regexp.MustCompile(`\n{2,}`)
	wordRe           = regexp.MustCompile(`[A-Za-z0-9]{3,}`)
	numberRe         = regexp.MustCompile(`\b\d+\b`)
)

// SmartExtract сжимает длинный контракт до maxChars, сохраняя начало
// (определения и основные условия), предложения с ключевыми терминами
// и концовку. Возвращает извлеченный текст и флаг усечения.
func SmartExtract(fullText string, maxChars int) (string, bool) {
	if len(fullText) <= maxChars {
		return fullText, false
	}

	var parts []string
	charsUsed := 0

	// 1. Начало контракта: первые 30% лимита
	beginningChars := int(float64(maxChars) * 0.3)
	beginning := fullText[:beginningChars]
	// По возможности обрезаем по границе предложения
	if lastPeriod := strings.LastIndex(beginning, "."); lastPeriod > int(float64(beginningChars)*0.7) {
		beginning = beginning[:lastPeriod+1]
	}
	parts = append(parts, "[BEGINNING OF CONTRACT]\n"+beginning)
	charsUsed += len(beginning)

	// 2. Середина: предложения с ключевыми терминами. 2000 символов
	// резервируем под концовку.
	remainingChars := maxChars - charsUsed - 2000
	if keySections := extractKeyTermSections(fullText, remainingChars); keySections != "" {
		parts = append(parts, "\n\n[KEY SECTIONS - Payment, IP, Termination, etc.]\n"+keySections)
		charsUsed += len(keySections)
	}

	// 3. Концовка: последние 30% лимита
	endingChars := int(float64(maxChars) * 0.3)
	ending := fullText[len(fullText)-endingChars:]
	if firstPeriod := strings.Index(ending, "."); firstPeriod > 0 && firstPeriod < int(float64(endingChars)*0.3) {
		ending = ending[firstPeriod+1:]
	}
	parts = append(parts, "\n\n[END OF CONTRACT]\n"+ending)

	combined := strings.Join(parts, "\n")

	if len(combined) > maxChars {
		combined = combined[:maxChars]
		if lastPeriod := strings.LastIndex(combined, "."); lastPeriod > int(float64(maxChars)*0.9) {
			combined = combined[:lastPeriod+1]
		}
	}

	return combined, true
}

type scoredSentence struct {
	score int
	idx   int
}

func extractKeyTermSections(text string, maxChars int) string {
	if maxChars <= 0 {
		return ""
	}

	sentences := sentenceSplitRe.Split(text, -1)

	var scored []scoredSentence
	for i, sentence := range sentences {
		if len(sentence) < 20 {
			continue
		}
		score := 0
		for _, pattern := range keyTerms {
			if pattern.MatchString(sentence) {
				score++
			}
		}
		if score > 0 {
			scored = append(scored, scoredSentence{score: score, idx: i})
		}
	}

	sort.Slice(scored, func(i, j int) bool { return scored[i].score > scored[j].score })
	if len(scored) > 50 {
		scored = scored[:50]
	}

	// Берем предложение вместе с соседями для контекста
	extracted := make(map[int]struct{})
	charsUsed := 0
	var indices []int
	for _, s := range scored {
		if charsUsed+len(sentences[s.idx]) > maxChars {
			break
		}
		contextStart := s.idx - 1
		if contextStart < 0 {
			contextStart = 0
		}
		contextEnd := s.idx + 2
		if contextEnd > len(sentences) {
			contextEnd = len(sentences)
		}
		for j := contextStart; j < contextEnd; j++ {
			// Первое предложение уже вошло в начало контракта
			if j == 0 {
				continue
			}
			if _, ok := extracted[j]; ok {
				continue
			}
			extracted[j] = struct{}{}
			indices = append(indices, j)
			charsUsed += len(sentences[j])
			if charsUsed > maxChars {
				break
			}
		}
		if charsUsed > maxChars {
			break
		}
	}

	// Восстанавливаем исходный порядок
	sort.Ints(indices)
	selected := make([]string, 0, len(indices))
	for _, idx := range indices {
		selected = append(selected, sentences[idx])
	}
	return strings.Join(selected, " ")
}

// ExtractRelevantSections подбирает абзацы контракта под конкретный вопрос
// пользователя: ключевые слова из вопроса, их формы и синонимы.
func ExtractRelevantSections(text, userText string, maxChars int) (string, bool) {
	if userText == "" {
		return "", false
	}

	rawWords := wordRe.FindAllString(userText, -1)
	keywords := make(map[string]struct{})
	for _, w := range rawWords {
		lw := strings.ToLower(w)
		if _, stop := stopWords[lw]; stop {
			continue
		}
		keywords[lw] = struct{}{}
	}

	// Биграммы и триграммы для фраз
	lowered := make([]string, len(rawWords))
	for i, w := range rawWords {
		lowered[i] = strings.ToLower(w)
	}
	for _, n := range []int{2, 3} {
		for i := 0; i+n <= len(lowered); i++ {
			phrase := strings.Join(lowered[i:i+n], " ")
			if len(strings.ReplaceAll(phrase, " ", "")) >= 6 {
				keywords[phrase] = struct{}{}
			}
		}
	}

	// Числовые термины вроде срока уведомления "30"
	for _, num := range numberRe.FindAllString(userText, -1) {
		keywords[num] = struct{}{}
	}

	// Морфологические варианты и синонимы
	expanded := make(map[string]struct{}, len(keywords))
	for kw := range keywords {
		expanded[kw] = struct{}{}
		if strings.HasSuffix(kw, "ing") && len(kw) > 4 {
			expanded[kw[:len(kw)-3]] = struct{}{}
		}
		if strings.HasSuffix(kw, "ed") && len(kw) > 3 {
			expanded[kw[:len(kw)-2]] = struct{}{}
		}
		if strings.HasSuffix(kw, "s") && len(kw) > 3 {
			expanded[kw[:len(kw)-1]] = struct{}{}
		}
		for _, syn := range keywordSynonyms[kw] {
			expanded[syn] = struct{}{}
		}
	}

	if len(expanded) == 0 {
		return "", false
	}

	paragraphs := paragraphSplitRe.Split(text, -1)

	type scoredParagraph struct {
		score int
		idx   int
		text  string
	}
	var scoredParagraphs []scoredParagraph

	for idx, paragraph := range paragraphs {
		clean := strings.TrimSpace(paragraph)
		if len(clean) < 40 {
			continue
		}
		lower := strings.ToLower(clean)
		score := 0
		for kw := range expanded {
			if strings.Contains(kw, " ") {
				if strings.Contains(lower, kw) {
					score += 2
				}
			} else if wordBoundaryMatch(lower, kw) {
				score++
			}
		}
		if score > 0 {
			scoredParagraphs = append(scoredParagraphs, scoredParagraph{score: score, idx: idx, text: clean})
		}
	}

	if len(scoredParagraphs) == 0 {
		return "", false
	}

	sort.Slice(scoredParagraphs, func(i, j int) bool {
		if scoredParagraphs[i].score != scoredParagraphs[j].score {
			return scoredParagraphs[i].score > scoredParagraphs[j].score
		}
		return scoredParagraphs[i].idx < scoredParagraphs[j].idx
	})

	type selectedParagraph struct {
		idx  int
		text string
	}
	var selected []selectedParagraph
	totalChars := 0

	for _, sp := range scoredParagraphs {
		withHeading := fmt.Sprintf("[RELEVANT SECTION %d]\n%s", sp.idx+1, sp.text)
		if totalChars+len(withHeading) > maxChars {
			continue
		}
		selected = append(selected, selectedParagraph{idx: sp.idx, text: withHeading})
		totalChars += len(withHeading) + 2
		if totalChars >= maxChars {
			break
		}
	}

	if len(selected) == 0 {
		return "", false
	}

	sort.Slice(selected, func(i, j int) bool { return selected[i].idx < selected[j].idx })
	parts := make([]string, 0, len(selected))
	for _, sp := range selected {
		parts = append(parts, sp.text)
	}
	return strings.Join(parts, "\n\n"), true
}

func wordBoundaryMatch(haystack, word string) bool {
	re, err := regexp.Compile(`\b` + regexp.QuoteMeta(word) + `\b`)
	if err != nil {
		return false
	}
	return re.MatchString(haystack)
}
