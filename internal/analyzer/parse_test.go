package analyzer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractReasoning_ThinkTags(t *testing.T) {
	raw := "<think>Нужно проверить пункт об оплате</think>Контракт выглядит стандартным."

	main, reasoning := ExtractReasoning(raw)

	assert.Equal(t, "Контракт выглядит стандартным.", main)
	assert.Equal(t, "Нужно проверить пункт об оплате", reasoning)
}

func TestExtractReasoning_MultipleTagStyles(t *testing.T) {
	raw := "<thinking>первая мысль</thinking>Ответ.<reasoning>вторая мысль</reasoning>"

	main, reasoning := ExtractReasoning(raw)

	assert.Equal(t, "Ответ.", main)
	assert.Contains(t, reasoning, "первая мысль")
	assert.Contains(t, reasoning, "вторая мысль")
}

func TestExtractReasoning_NoTags(t *testing.T) {
	main, reasoning := ExtractReasoning("Просто ответ без рассуждений.")

	assert.Equal(t, "Просто ответ без рассуждений.", main)
	assert.Empty(t, reasoning)
}

func TestExtractReasoning_StripsMarkdown(t *testing.T) {
	raw := "## Итог\n\n**Важно**: пункт 3 содержит риск. `exclusivity` clause."

	main, _ := ExtractReasoning(raw)

	assert.NotContains(t, main, "##")
	assert.NotContains(t, main, "**")
	assert.NotContains(t, main, "`")
	assert.Contains(t, main, "Важно")
	assert.Contains(t, main, "exclusivity")
}

func TestFormatWithReasoning_RoundTrip(t *testing.T) {
	mainText := "Основной ответ про royalties."
	reasoning := "Сначала проверяем раздел о выплатах."

	formatted := FormatWithReasoning(mainText, reasoning)

	assert.True(t, strings.HasPrefix(formatted, "--- Model Reasoning ---"))
	assert.Contains(t, formatted, strings.Repeat("=", 60))

	gotMain, gotReasoning := SplitFormatted(formatted)
	assert.Equal(t, mainText, gotMain)
	assert.Equal(t, reasoning, gotReasoning)
}

func TestFormatWithReasoning_EmptyReasoning(t *testing.T) {
	formatted := FormatWithReasoning("Только ответ", "")

	assert.Equal(t, "Только ответ", formatted)

	gotMain, gotReasoning := SplitFormatted(formatted)
	assert.Equal(t, "Только ответ", gotMain)
	assert.Empty(t, gotReasoning)
}

func TestSplitFormatted_NoMarkers(t *testing.T) {
	main, reasoning := SplitFormatted("Обычный текст сообщения")

	assert.Equal(t, "Обычный текст сообщения", main)
	assert.Empty(t, reasoning)
}

func TestSplitFormatted_SeparatorWithoutDivider(t *testing.T) {
	// Заголовок есть, а разделителя из '=' нет: текст не трогаем
	broken := "--- Model Reasoning ---\n\nобрывок"

	main, reasoning := SplitFormatted(broken)

	assert.Equal(t, broken, main)
	assert.Empty(t, reasoning)
}
