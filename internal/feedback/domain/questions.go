package domain

import "strings"

// NotAnswered is rendered for questions without a usable answer.
const NotAnswered = "Not Answered"

// Questions is the fixed questionnaire. Position i pairs with answers[i].
var Questions = [...]string{
	"Overall interaction & experience with workshop",
	"Quality of maintenance & repair work",
	"Condition/cleanliness of car on return",
	"Explanation by service advisor",
	"Service delivery process after servicing",
	"Overall cleanliness of dealer facility",
	"Car received as per promised date & time",
	"All reported work completed",
	"Repair charges reasonable",
	"Pre-road-test conducted before opening repair order",
	"Device format in which repair order was opened",
	"Courtesy/behaviour of pickup & drop person",
	"Vehicle picked & dropped on committed time",
	"Informed about estimate of repair & cost",
	"Support with insurance claim",
	"Quality of bodyshop repair work",
	"Regular status updates provided",
	"Final road test provided at delivery",
}

// QuestionAnswer is one row of a rendered questionnaire.
type QuestionAnswer struct {
	Number   int
	Question string
	Answer   string
}

// PairAnswers walks the question list and picks the answer at the same
// position. Extra answers are ignored.
func PairAnswers(answers []string) []QuestionAnswer {
	rows := make([]QuestionAnswer, 0, len(Questions))
	for i, question := range Questions {
		answer := NotAnswered
		if i < len(answers) {
			if trimmed := strings.TrimSpace(answers[i]); trimmed != "" {
				answer = trimmed
			}
		}
		rows = append(rows, QuestionAnswer{
			Number:   i + 1,
			Question: question,
			Answer:   answer,
		})
	}
	return rows
}
