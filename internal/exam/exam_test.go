package exam

import (
	"fmt"
)

// fixture builds n questions with options A1..D<i> and answer key B.
func fixture(n int) []Question {
	qs := make([]Question, n)
	for i := range qs {
		num := i + 1
		qs[i] = Question{RawQuestion: RawQuestion{
			ID:        fmt.Sprintf("q%d", num),
			PaperID:   "p1",
			Number:    num,
			Statement: fmt.Sprintf("Statement %d", num),
			Options: []string{
				fmt.Sprintf("A%d", num),
				fmt.Sprintf("B%d", num),
				fmt.Sprintf("C%d", num),
				fmt.Sprintf("D%d", num),
			},
			Answer: "B",
		}}
	}
	return qs
}
