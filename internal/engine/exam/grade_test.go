package exam

import (
	"context"
	"errors"
	"testing"

	"github.com/aulavia/aulavia-backend/internal/types"
)

func mcqQuestion(id, correctID string) types.Question {
	return types.Question{
		ID:    id,
		QType: types.QuestionTypeMCQ,
		Text:  "Domanda",
		Options: []types.Option{
			{ID: correctID, Text: "giusta", IsCorrect: true},
			{ID: correctID + "-no", Text: "sbagliata", IsCorrect: false},
		},
	}
}

func TestGradeMCQ(t *testing.T) {
	svc := NewService(testLogger(t), &fakeAI{}, nil)
	exam := types.Exam{
		Title: "Quiz",
		Questions: []types.Question{
			mcqQuestion("q1", "aaaa"),
			mcqQuestion("q2", "bbbb"),
			mcqQuestion("q3", "cccc"),
		},
	}

	res, err := svc.Grade(context.Background(), exam, map[string]string{
		"q1": "aaaa",     // correct
		"q2": "bbbb-no",  // wrong option
		// q3 unanswered
	})
	if err != nil {
		t.Fatalf("Grade: %v", err)
	}
	if res.Score != 1 || res.Max != 3 {
		t.Fatalf("score: want=1/3 got=%d/%d", res.Score, res.Max)
	}
	if !res.Details[0].Correct || res.Details[1].Correct || res.Details[2].Correct {
		t.Fatalf("details: %+v", res.Details)
	}
	if res.Details[0].CorrectText != "giusta" {
		t.Fatalf("correct_text: want=giusta got=%q", res.Details[0].CorrectText)
	}
}

func TestGradeMCQNoCorrectOptionFlagged(t *testing.T) {
	svc := NewService(testLogger(t), &fakeAI{}, nil)
	exam := types.Exam{
		Title: "Quiz",
		Questions: []types.Question{{
			ID:    "q1",
			QType: types.QuestionTypeMCQ,
			Text:  "Domanda",
			Options: []types.Option{
				{ID: "a", Text: "una", IsCorrect: false},
				{ID: "b", Text: "due", IsCorrect: false},
			},
		}},
	}

	res, err := svc.Grade(context.Background(), exam, map[string]string{"q1": "a"})
	if err != nil {
		t.Fatalf("Grade: %v", err)
	}
	if res.Details[0].Correct {
		t.Fatal("malformed question must not score")
	}
	if res.Details[0].CorrectText != "(domanda non valida)" {
		t.Fatalf("correct_text: got %q", res.Details[0].CorrectText)
	}
}

func TestGradeOpenJudgment(t *testing.T) {
	ai := &fakeAI{replies: []string{"YES", "NO"}}
	svc := NewService(testLogger(t), ai, nil)
	exam := types.Exam{
		Title: "Quiz",
		Questions: []types.Question{
			{ID: "q1", QType: types.QuestionTypeOpen, Text: "Spiega", IdealAnswer: "ideale"},
			{ID: "q2", QType: types.QuestionTypeOpen, Text: "Descrivi", IdealAnswer: "ideale"},
		},
	}

	res, err := svc.Grade(context.Background(), exam, map[string]string{
		"q1": "una buona risposta",
		"q2": "una risposta scarsa",
	})
	if err != nil {
		t.Fatalf("Grade: %v", err)
	}
	if res.Score != 1 {
		t.Fatalf("score: want=1 got=%d", res.Score)
	}
}

func TestGradeOpenFailsClosed(t *testing.T) {
	ai := &fakeAI{err: errors.New("provider down")}
	svc := NewService(testLogger(t), ai, nil)
	exam := types.Exam{
		Title: "Quiz",
		Questions: []types.Question{
			{ID: "q1", QType: types.QuestionTypeOpen, Text: "Spiega", IdealAnswer: "ideale"},
		},
	}

	res, err := svc.Grade(context.Background(), exam, map[string]string{"q1": "risposta"})
	if err != nil {
		t.Fatalf("Grade must not fail on judgment outage: %v", err)
	}
	if res.Score != 0 {
		t.Fatalf("score: want=0 got=%d", res.Score)
	}
}

func TestGradeOpenSkipsJudgmentForEmptyAnswer(t *testing.T) {
	ai := &fakeAI{}
	svc := NewService(testLogger(t), ai, nil)
	exam := types.Exam{
		Title: "Quiz",
		Questions: []types.Question{
			{ID: "q1", QType: types.QuestionTypeOpen, Text: "Spiega", IdealAnswer: "ideale"},
		},
	}

	res, err := svc.Grade(context.Background(), exam, nil)
	if err != nil {
		t.Fatalf("Grade: %v", err)
	}
	if res.Score != 0 {
		t.Fatalf("score: want=0 got=%d", res.Score)
	}
	if len(ai.calls) != 0 {
		t.Fatalf("no judgment call expected for empty answer, got %d", len(ai.calls))
	}
}

func translationExam() types.Exam {
	exam := types.Exam{
		Title:                "Versione di latino",
		VersionText:          "Gallia est omnis divisa in partes tres.",
		ReferenceTranslation: "La Gallia è tutta divisa in tre parti.",
	}
	for i := 0; i < types.TranslationQuestionCount; i++ {
		exam.Questions = append(exam.Questions, types.Question{
			ID:          string(rune('a' + i)),
			QType:       types.QuestionTypeOpen,
			Text:        "Domanda",
			IdealAnswer: "risposta",
		})
	}
	return exam
}

func TestGradeTranslationFeedback(t *testing.T) {
	// Five open judgments, then the translation feedback.
	ai := &fakeAI{replies: []string{"NO", "NO", "NO", "NO", "NO",
		`{"verdict": "correct", "feedback": "Ottima resa dei costrutti."}`}}
	svc := NewService(testLogger(t), ai, fakeGuidelines{})

	answers := map[string]string{TranslationAnswerKey: "La Gallia è divisa in tre parti."}
	for _, q := range translationExam().Questions {
		answers[q.ID] = "tentativo"
	}
	res, err := svc.Grade(context.Background(), translationExam(), answers)
	if err != nil {
		t.Fatalf("Grade: %v", err)
	}
	if res.Translation == nil {
		t.Fatal("translation result missing")
	}
	if res.Translation.ReferenceTranslation == "" {
		t.Fatal("reference translation missing")
	}
	fb := res.Translation.StudentFeedback
	if fb == nil || fb.Verdict != types.VerdictCorrect {
		t.Fatalf("feedback: %+v", fb)
	}
}

func TestGradeTranslationFeedbackDegrades(t *testing.T) {
	ai := &fakeAI{replies: []string{"niente JSON qui"}}
	svc := NewService(testLogger(t), ai, nil)

	res, err := svc.Grade(context.Background(), translationExam(), map[string]string{
		TranslationAnswerKey: "La mia traduzione.",
	})
	if err != nil {
		t.Fatalf("Grade: %v", err)
	}
	fb := res.Translation.StudentFeedback
	if fb == nil {
		t.Fatal("feedback missing")
	}
	if fb.Verdict != types.VerdictPartial || fb.Feedback == "" {
		t.Fatalf("fallback feedback: %+v", fb)
	}
}

func TestGradeTranslationWithoutAnswer(t *testing.T) {
	svc := NewService(testLogger(t), &fakeAI{}, nil)

	res, err := svc.Grade(context.Background(), translationExam(), nil)
	if err != nil {
		t.Fatalf("Grade: %v", err)
	}
	if res.Translation == nil {
		t.Fatal("translation result missing")
	}
	if res.Translation.StudentFeedback != nil {
		t.Fatal("no feedback expected without a submitted translation")
	}
}
