package pipeline

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// answerFieldSelector matches the elements generators emit for answers.
const answerFieldSelector = "math-field, input"

// questionSuffix extracts the question index from ids like
// "champTexteEx0Q3".
var questionSuffix = regexp.MustCompile(`Q(\d+)$`)

// AnswerField is an answer element found in a fragment.
type AnswerField struct {
	ID       string
	Tag      string
	Question int // -1 when the id carries no question index
}

// FocusFirstField marks the first math-field or input element autofocus.
// The fragment is otherwise returned byte for byte.
func FocusFirstField(fragment string) (string, error) {
	done := false
	return rewriteStartTags(fragment, func(raw []byte, tok html.Token) (string, bool) {
		if done || (tok.Data != "math-field" && tok.Data != "input") {
			return "", false
		}
		done = true
		if hasAttr(tok, "autofocus") {
			return "", false
		}
		return insertAttr(raw, "autofocus"), true
	})
}

// ListAnswerFields returns the answer elements of a fragment in document
// order.
func ListAnswerFields(fragment string) ([]AnswerField, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return nil, err
	}

	var fields []AnswerField
	doc.Find(answerFieldSelector).Each(func(_ int, s *goquery.Selection) {
		id, _ := s.Attr("id")
		fields = append(fields, AnswerField{
			ID:       id,
			Tag:      goquery.NodeName(s),
			Question: QuestionIndex(id),
		})
	})
	return fields, nil
}

// QuestionIndex parses the trailing "Q<n>" of an answer element id.
// Returns -1 when there is none.
func QuestionIndex(id string) int {
	m := questionSuffix.FindStringSubmatch(id)
	if m == nil {
		return -1
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return -1
	}
	return n
}
