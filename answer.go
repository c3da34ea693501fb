package exrender

import (
	"fmt"
	"html"
	"regexp"
	"strings"
)

// Expected is the answer a question expects.
type Expected struct {
	Value   string // compared against the submitted answer
	Display string // shown in feedback
}

// answerCollector gathers the values and display strings of a reponse node.
type answerCollector struct {
	values   []string
	displays []string
}

func (c *answerCollector) push(value, display any) {
	if s := scalarText(value); s != "" {
		c.values = append(c.values, s)
	}
	if s := scalarText(display); s != "" {
		c.displays = append(c.displays, s)
	}
}

// collect walks a reponse node. Arrays are flattened. Objects are read
// through the first key present among value, valeur, texte, tex, texteCorr,
// display and min/max; any other object is kept as its JSON text.
func (c *answerCollector) collect(node any) {
	switch n := node.(type) {
	case nil:
		return
	case []any:
		for _, item := range n {
			c.collect(item)
		}
	case map[string]any:
		c.collectObject(n)
	default:
		c.push(n, nil)
	}
}

func (c *answerCollector) collectObject(n map[string]any) {
	if v, ok := n["value"]; ok {
		c.collect(v)
		return
	}
	if v, ok := n["valeur"]; ok {
		c.collect(v)
		return
	}
	for _, key := range []string{"texte", "tex", "texteCorr"} {
		if v, ok := n[key]; ok {
			c.push(v, v)
			return
		}
	}
	if v, ok := n["display"]; ok {
		c.collect(v)
		return
	}

	_, hasMin := n["min"]
	_, hasMax := n["max"]
	if hasMin || hasMax {
		var parts []string
		for _, pair := range [][2]string{{"min", "minValue"}, {"max", "maxValue"}} {
			v := n[pair[0]]
			if v == nil {
				v = n[pair[1]]
			}
			if s := scalarText(v); s != "" {
				parts = append(parts, s)
			}
		}
		if len(parts) > 0 {
			label := strings.Join(parts, " – ")
			c.push(label, label)
		}
		return
	}

	text := scalarText(n)
	c.push(text, text)
}

// ExtractExpected reads the expected answer of one autoCorrection entry.
// An entry holding a "reponse" key is read through it; otherwise the entry
// itself is walked. Multiple values are joined with " ; ". Display falls
// back to the value.
func ExtractExpected(correction any) Expected {
	if correction == nil {
		return Expected{}
	}

	node := correction
	if m, ok := correction.(map[string]any); ok {
		if r, ok := m[keyAnswer]; ok && r != nil {
			node = r
		}
	}

	var c answerCollector
	c.collect(node)

	value := strings.TrimSpace(strings.Join(c.values, " ; "))
	display := strings.Join(c.displays, " ; ")
	if display == "" {
		display = value
	}
	return Expected{Value: value, Display: strings.TrimSpace(display)}
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// NormalizeAnswer prepares an answer for comparison: whitespace runs become
// one space, decimal commas become dots, and the result is trimmed.
func NormalizeAnswer(s string) string {
	s = whitespaceRun.ReplaceAllString(s, " ")
	s = strings.ReplaceAll(s, ",", ".")
	return strings.TrimSpace(s)
}

// QuestionResult is the outcome of one checked question.
type QuestionResult struct {
	Index    int    // zero-based question index
	Answer   string // submitted answer, trimmed
	Expected Expected
	Correct  bool
}

// Number returns the one-based question number shown to the user.
func (q QuestionResult) Number() int {
	return q.Index + 1
}

// Score is the result of checking submitted answers.
type Score struct {
	Correct   int
	Total     int
	Questions []QuestionResult
}

// CheckAnswers compares submitted answers, keyed by zero-based question
// index, with the exercise's autoCorrection entries. Entries without an
// expected answer and questions without a submitted field are not counted.
// An answer is correct when it equals the normalized expected value (or
// display when the value is empty) and that expectation is not empty.
func CheckAnswers(ex *Exercise, answers map[int]string) *Score {
	score := &Score{}
	if ex == nil {
		return score
	}

	for i, entry := range ex.AutoCorrection {
		m, ok := entry.(map[string]any)
		if !ok || !truthy(m[keyAnswer]) {
			continue
		}
		submitted, ok := answers[i]
		if !ok {
			continue
		}

		expected := ExtractExpected(m)
		answer := strings.TrimSpace(submitted)
		candidate := NormalizeAnswer(expected.Value)
		if candidate == "" {
			candidate = NormalizeAnswer(expected.Display)
		}
		correct := candidate != "" && NormalizeAnswer(answer) == candidate

		score.Total++
		if correct {
			score.Correct++
		}
		score.Questions = append(score.Questions, QuestionResult{
			Index:    i,
			Answer:   answer,
			Expected: expected,
			Correct:  correct,
		})
	}
	return score
}

// NoQuestionHTML is the feedback shown when nothing could be checked.
const NoQuestionHTML = "⚠️ Aucune question évaluée."

// FeedbackHTML renders the score and one line per checked question.
// Submitted and expected text is escaped; formulas in it are left for the
// formula renderer.
func (s *Score) FeedbackHTML() string {
	if s == nil || s.Total == 0 {
		return NoQuestionHTML
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🎯 Score : <strong>%d/%d</strong>", s.Correct, s.Total)
	if len(s.Questions) == 0 {
		return b.String()
	}

	b.WriteString(`<ul class="mt-2 space-y-1 text-base">`)
	for _, q := range s.Questions {
		class, mark := "text-red-700", "❌"
		if q.Correct {
			class, mark = "text-green-700", "✅"
		}
		answer := q.Answer
		if answer == "" {
			answer = "(vide)"
		}
		expected := q.Expected.Display
		if expected == "" {
			expected = "?"
		}
		fmt.Fprintf(&b, `<li class="%s">%s Question %d – Votre réponse : <strong>%s</strong>, attendu : <strong>%s</strong></li>`,
			class, mark, q.Number(), html.EscapeString(answer), html.EscapeString(expected))
	}
	b.WriteString("</ul>")
	return b.String()
}
