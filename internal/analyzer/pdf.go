package analyzer

import (
	"bytes"
	"strings"

	"github.com/ledongthuc/pdf"

	"artnuggets/pkg/apperrors"
)

// ExtractPDFText извлекает текст из всех страниц PDF документа.
func ExtractPDFText(content []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", apperrors.NewBadRequestError("Failed to extract text from PDF: " + err.Error())
	}

	var b strings.Builder
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		b.WriteString(text)
		b.WriteString("\n")
	}

	return strings.TrimSpace(b.String()), nil
}
