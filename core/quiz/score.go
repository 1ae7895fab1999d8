package quiz

// Score returns the percentage of correct answers, rounded half to even:
// Score(5, 8) == 62, Score(3, 8) == 38, Score(1, 3) == 33.
func Score(correct, total int) int {
	if total <= 0 {
		return 0
	}
	q, r := 100*correct/total, 100*correct%total
	if 2*r > total || (2*r == total && q%2 == 1) {
		q++
	}
	return q
}

// CountCorrect counts the questions of t answered correctly in sub.
// A question is wrong when it is unanswered, when the answer belongs to another question
// or when the answer is not correct. When a question is answered more than once, the last
// answer counts.
func CountCorrect(t Test, sub Submission) int {
	chosen := make(map[int]int, len(sub.Answers))
	for _, a := range sub.Answers {
		chosen[a.QuestionID] = a.AnswerID
	}

	var correct int
	for _, q := range t.Questions {
		aid, ok := chosen[q.ID]
		if !ok {
			continue
		}
		for _, a := range q.Answers {
			if a.ID == aid {
				if a.IsCorrect {
					correct++
				}
				break
			}
		}
	}
	return correct
}
