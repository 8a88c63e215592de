package structured

import (
	"encoding/json"
	"fmt"

	"github.com/aulavia/aulavia-backend/internal/types"
	pkgerrors "github.com/aulavia/aulavia-backend/internal/pkg/errors"
)

// Coercion is a two-phase parse. decodeStrict round-trips the payload
// through encoding/json into the typed entity; when that fails (or the
// entity fails validation) the per-entity repair functions rebuild the
// entity field by field from the raw mappings, tolerating the shape
// drift models produce: numbers as strings, booleans as "true", missing
// optional fields. Only when both phases fail does ErrSchemaViolation
// propagate.

func decodeStrict(payload map[string]any, out any) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, out)
}

// CoerceExam validates a parsed payload as an Exam, backfilling missing
// question and option ids first.
func CoerceExam(payload map[string]any) (types.Exam, error) {
	BackfillExamIDs(payload)

	var exam types.Exam
	if err := decodeStrict(payload, &exam); err == nil {
		if vErr := exam.Validate(); vErr == nil {
			return exam, nil
		}
	}

	repaired, err := repairExam(payload)
	if err != nil {
		return types.Exam{}, fmt.Errorf("%w: exam: %v", pkgerrors.ErrSchemaViolation, err)
	}
	if err := repaired.Validate(); err != nil {
		return types.Exam{}, fmt.Errorf("%w: exam: %v", pkgerrors.ErrSchemaViolation, err)
	}
	return repaired, nil
}

func repairExam(payload map[string]any) (types.Exam, error) {
	exam := types.Exam{
		Title:                stringField(payload, "title"),
		VersionText:          stringField(payload, "version_text"),
		ReferenceTranslation: stringField(payload, "reference_translation"),
	}
	rawQuestions, ok := payload["questions"].([]any)
	if !ok {
		return types.Exam{}, fmt.Errorf("questions is %T, want array", payload["questions"])
	}
	for i, rq := range rawQuestions {
		qm, ok := rq.(map[string]any)
		if !ok {
			return types.Exam{}, fmt.Errorf("question %d is %T, want object", i, rq)
		}
		q := types.Question{
			ID:          stringField(qm, "id"),
			QType:       stringField(qm, "qtype"),
			Text:        stringField(qm, "text"),
			IdealAnswer: stringField(qm, "ideal_answer"),
			Explanation: stringField(qm, "explanation"),
		}
		if rawOpts, ok := qm["options"].([]any); ok {
			for _, ro := range rawOpts {
				om, ok := ro.(map[string]any)
				if !ok {
					continue
				}
				q.Options = append(q.Options, types.Option{
					ID:        stringField(om, "id"),
					Text:      stringField(om, "text"),
					IsCorrect: boolField(om, "is_correct"),
				})
			}
		}
		exam.Questions = append(exam.Questions, q)
	}
	return exam, nil
}

// CoerceConceptMap validates a parsed payload as a ConceptMap.
func CoerceConceptMap(payload map[string]any) (types.ConceptMap, error) {
	var cm types.ConceptMap
	if err := decodeStrict(payload, &cm); err == nil {
		if vErr := cm.Validate(); vErr == nil {
			return cm, nil
		}
	}

	repaired := types.ConceptMap{}
	if rawNodes, ok := payload["nodeDataArray"].([]any); ok {
		for _, rn := range rawNodes {
			nm, ok := rn.(map[string]any)
			if !ok {
				continue
			}
			repaired.NodeDataArray = append(repaired.NodeDataArray, types.Node{
				Key:  stringField(nm, "key"),
				Text: stringField(nm, "text"),
			})
		}
	}
	if rawLinks, ok := payload["linkDataArray"].([]any); ok {
		for _, rl := range rawLinks {
			lm, ok := rl.(map[string]any)
			if !ok {
				continue
			}
			repaired.LinkDataArray = append(repaired.LinkDataArray, types.Link{
				From: stringField(lm, "from"),
				To:   stringField(lm, "to"),
			})
		}
	}
	if err := repaired.Validate(); err != nil {
		return types.ConceptMap{}, fmt.Errorf("%w: concept map: %v", pkgerrors.ErrSchemaViolation, err)
	}
	return repaired, nil
}

// CoerceLessonPlan validates a parsed payload as a LessonPlan. Defaults
// fill fields the model omitted; model-provided values always win.
func CoerceLessonPlan(payload map[string]any, defaults types.LessonPlan) (types.LessonPlan, error) {
	setDefault(payload, "subject", defaults.Subject)
	setDefault(payload, "topic", defaults.Topic)
	setDefault(payload, "grade", defaults.Grade)
	setDefault(payload, "lesson_minutes", defaults.LessonMinutes)
	setDefault(payload, "global_goals", defaults.GlobalGoals)
	backfillLessonNumbers(payload)

	var plan types.LessonPlan
	if err := decodeStrict(payload, &plan); err == nil {
		if vErr := plan.Validate(); vErr == nil {
			return plan, nil
		}
	}

	repaired, err := repairLessonPlan(payload)
	if err != nil {
		return types.LessonPlan{}, fmt.Errorf("%w: lesson plan: %v", pkgerrors.ErrSchemaViolation, err)
	}
	if err := repaired.Validate(); err != nil {
		return types.LessonPlan{}, fmt.Errorf("%w: lesson plan: %v", pkgerrors.ErrSchemaViolation, err)
	}
	return repaired, nil
}

// backfillLessonNumbers numbers lessons 1..n when the model omitted
// lesson_number. Present numbers are left alone.
func backfillLessonNumbers(payload map[string]any) {
	lessons, ok := payload["lessons"].([]any)
	if !ok {
		return
	}
	for i, rl := range lessons {
		lm, ok := rl.(map[string]any)
		if !ok {
			continue
		}
		if n := intField(lm, "lesson_number"); n == 0 {
			lm["lesson_number"] = i + 1
		}
	}
}

func repairLessonPlan(payload map[string]any) (types.LessonPlan, error) {
	plan := types.LessonPlan{
		Subject:       stringField(payload, "subject"),
		Topic:         stringField(payload, "topic"),
		Grade:         stringField(payload, "grade"),
		LessonMinutes: intField(payload, "lesson_minutes"),
		GlobalGoals:   stringField(payload, "global_goals"),
	}
	rawLessons, ok := payload["lessons"].([]any)
	if !ok {
		return types.LessonPlan{}, fmt.Errorf("lessons is %T, want array", payload["lessons"])
	}
	for i, rl := range rawLessons {
		lm, ok := rl.(map[string]any)
		if !ok {
			return types.LessonPlan{}, fmt.Errorf("lesson %d is %T, want object", i, rl)
		}
		lesson := types.Lesson{
			LessonNumber: intField(lm, "lesson_number"),
			Title:        stringField(lm, "title"),
			Objectives:   stringSliceField(lm, "objectives"),
			Activities:   stringSliceField(lm, "activities"),
			Materials:    stringSliceField(lm, "materials"),
			Assessment:   stringField(lm, "assessment"),
		}
		if lesson.LessonNumber == 0 {
			lesson.LessonNumber = i + 1
		}
		plan.Lessons = append(plan.Lessons, lesson)
	}
	return plan, nil
}

func setDefault(payload map[string]any, key string, val any) {
	if existing, ok := payload[key]; ok {
		if s, isStr := existing.(string); !isStr || s != "" {
			return
		}
	}
	payload[key] = val
}
