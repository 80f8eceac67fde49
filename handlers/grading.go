// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"fmt"

	"github.com/danielhkuo/quiz-maker/models"
)

// Unanswered is reported as the chosen index of a skipped question
const Unanswered = -1

// GradeAttempt scores one attempt at q. answers holds a choice index per
// question in order; negative or missing trailing entries are unanswered.
// A question counts as correct when the chosen answer is marked correct.
func GradeAttempt(q models.Quiz, answers []int) (models.AttemptResponse, error) {
	verr := &models.ValidationError{}
	if len(answers) > len(q.Questions) {
		verr.Add("answers", fmt.Sprintf("quiz has %d questions, got %d answers", len(q.Questions), len(answers)))
		return models.AttemptResponse{}, verr
	}

	resp := models.AttemptResponse{
		QuizID:  q.ID,
		Total:   len(q.Questions),
		Results: make([]models.QuestionResult, len(q.Questions)),
	}

	for i, question := range q.Questions {
		chosen := Unanswered
		if i < len(answers) && answers[i] >= 0 {
			chosen = answers[i]
		}

		if chosen >= len(question.PossibleChoices) {
			verr.Add(fmt.Sprintf("answers[%d]", i), fmt.Sprintf("question has %d choices", len(question.PossibleChoices)))
			continue
		}

		correct := chosen != Unanswered && question.PossibleChoices[chosen].IsCorrect
		if correct {
			resp.Score++
		}
		resp.Results[i] = models.QuestionResult{
			QuestionIndex: i,
			Chosen:        chosen,
			Correct:       correct,
		}
	}

	if err := verr.OrNil(); err != nil {
		return models.AttemptResponse{}, err
	}
	return resp, nil
}
