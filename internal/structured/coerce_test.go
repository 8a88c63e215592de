package structured

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	pkgerrors "github.com/aulavia/aulavia-backend/internal/pkg/errors"
	"github.com/aulavia/aulavia-backend/internal/types"
)

func examPayload(t *testing.T, raw string) map[string]any {
	t.Helper()
	var payload map[string]any
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		t.Fatalf("fixture: %v", err)
	}
	return payload
}

func TestCoerceExamBackfillsMissingIDs(t *testing.T) {
	payload := examPayload(t, `{
		"title": "Storia Romana",
		"questions": [
			{"qtype": "mcq", "text": "Chi fu il primo imperatore?", "explanation": "Augusto nel 27 a.C.",
			 "options": [
				{"text": "Augusto", "is_correct": true},
				{"text": "Cesare", "is_correct": false}
			]},
			{"qtype": "open", "text": "Descrivi la riforma augustea.", "ideal_answer": "Principato", "explanation": "Riforma istituzionale"}
		]
	}`)

	exam, err := CoerceExam(payload)
	if err != nil {
		t.Fatalf("CoerceExam: %v", err)
	}
	for i, q := range exam.Questions {
		if q.ID == "" {
			t.Fatalf("question %d: id not backfilled", i)
		}
		for j, o := range q.Options {
			if o.ID == "" {
				t.Fatalf("question %d option %d: id not backfilled", i, j)
			}
			if len(o.ID) != 4 {
				t.Fatalf("option id length: want=4 got=%d", len(o.ID))
			}
		}
	}
}

func TestBackfillExamIDsIdempotent(t *testing.T) {
	payload := examPayload(t, `{
		"title": "t",
		"questions": [
			{"id": "q-1", "qtype": "mcq", "text": "x", "explanation": "e",
			 "options": [{"id": "A", "text": "a", "is_correct": true}, {"text": "b", "is_correct": false}]}
		]
	}`)

	BackfillExamIDs(payload)
	first, err := CoerceExam(payload)
	if err != nil {
		t.Fatalf("CoerceExam: %v", err)
	}

	BackfillExamIDs(payload)
	second, err := CoerceExam(payload)
	if err != nil {
		t.Fatalf("CoerceExam second pass: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("backfill not idempotent: first=%+v second=%+v", first, second)
	}
	if first.Questions[0].ID != "q-1" {
		t.Fatalf("existing question id overwritten: got=%q", first.Questions[0].ID)
	}
	if first.Questions[0].Options[0].ID != "A" {
		t.Fatalf("existing option id overwritten: got=%q", first.Questions[0].Options[0].ID)
	}
}

func TestCoerceExamSoftRepairLooseTypes(t *testing.T) {
	// is_correct as strings and a numeric option id: strict decode fails,
	// repair should still produce a valid exam.
	payload := examPayload(t, `{
		"title": "t",
		"questions": [
			{"qtype": "mcq", "text": "x", "explanation": "e",
			 "options": [
				{"id": 1, "text": "a", "is_correct": "true"},
				{"id": 2, "text": "b", "is_correct": "false"}
			]}
		]
	}`)

	exam, err := CoerceExam(payload)
	if err != nil {
		t.Fatalf("CoerceExam: %v", err)
	}
	opt, ok := exam.Questions[0].CorrectOption()
	if !ok {
		t.Fatalf("no correct option after repair")
	}
	if opt.ID != "1" {
		t.Fatalf("correct option id: want=%q got=%q", "1", opt.ID)
	}
}

func TestCoerceExamRejectsZeroCorrectOptions(t *testing.T) {
	payload := examPayload(t, `{
		"title": "t",
		"questions": [
			{"qtype": "mcq", "text": "x", "explanation": "e",
			 "options": [{"id": "A", "text": "a", "is_correct": false}]}
		]
	}`)
	_, err := CoerceExam(payload)
	if !errors.Is(err, pkgerrors.ErrSchemaViolation) {
		t.Fatalf("error: want ErrSchemaViolation got=%v", err)
	}
}

func TestCoerceConceptMapStrict(t *testing.T) {
	payload := examPayload(t, `{
		"nodeDataArray": [{"key": "root", "text": "Rivoluzione"}, {"key": "c1", "text": "Cause"}],
		"linkDataArray": [{"from": "root", "to": "c1"}]
	}`)
	cm, err := CoerceConceptMap(payload)
	if err != nil {
		t.Fatalf("CoerceConceptMap: %v", err)
	}
	if cm.LinkDataArray[0].From != "root" {
		t.Fatalf("link from: want=%q got=%q", "root", cm.LinkDataArray[0].From)
	}
}

func TestCoerceConceptMapRepairSkipsGarbageEntries(t *testing.T) {
	payload := examPayload(t, `{
		"nodeDataArray": [{"key": "root", "text": "T"}, "not-a-node", {"key": "c1", "text": "C"}],
		"linkDataArray": [{"from": "root", "to": "c1"}, 42]
	}`)
	cm, err := CoerceConceptMap(payload)
	if err != nil {
		t.Fatalf("CoerceConceptMap: %v", err)
	}
	if len(cm.NodeDataArray) != 2 {
		t.Fatalf("nodes: want=2 got=%d", len(cm.NodeDataArray))
	}
	if len(cm.LinkDataArray) != 1 {
		t.Fatalf("links: want=1 got=%d", len(cm.LinkDataArray))
	}
}

func TestCoerceConceptMapRejectsMissingRoot(t *testing.T) {
	payload := examPayload(t, `{
		"nodeDataArray": [{"key": "c1", "text": "C"}],
		"linkDataArray": []
	}`)
	_, err := CoerceConceptMap(payload)
	if !errors.Is(err, pkgerrors.ErrSchemaViolation) {
		t.Fatalf("error: want ErrSchemaViolation got=%v", err)
	}
}

func TestCoerceConceptMapSerializesFromKey(t *testing.T) {
	cm := types.ConceptMap{
		NodeDataArray: []types.Node{{Key: "root", Text: "T"}, {Key: "c1", Text: "C"}},
		LinkDataArray: []types.Link{{From: "root", To: "c1"}},
	}
	b, err := json.Marshal(cm)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var round map[string]any
	if err := json.Unmarshal(b, &round); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	links := round["linkDataArray"].([]any)
	link := links[0].(map[string]any)
	if _, ok := link["from"]; !ok {
		t.Fatalf("serialized link missing literal key \"from\": got=%v", link)
	}
}

func TestCoerceLessonPlanDefaultsOnlyFillMissing(t *testing.T) {
	payload := examPayload(t, `{
		"topic": "Il Rinascimento",
		"lessons": [
			{"lesson_number": 1, "title": "Firenze e i Medici", "objectives": ["o1","o2","o3"], "activities": ["a1","a2","a3"]}
		]
	}`)
	defaults := types.LessonPlan{Subject: "Storia", Topic: "Argomento", Grade: "Liceo", LessonMinutes: 45}

	plan, err := CoerceLessonPlan(payload, defaults)
	if err != nil {
		t.Fatalf("CoerceLessonPlan: %v", err)
	}
	if plan.Subject != "Storia" {
		t.Fatalf("subject default: want=%q got=%q", "Storia", plan.Subject)
	}
	if plan.Topic != "Il Rinascimento" {
		t.Fatalf("topic overridden by default: got=%q", plan.Topic)
	}
	if plan.LessonMinutes != 45 {
		t.Fatalf("lesson_minutes default: want=45 got=%d", plan.LessonMinutes)
	}
}

func TestCoerceLessonPlanRepairNumericStrings(t *testing.T) {
	payload := examPayload(t, `{
		"subject": "Storia", "topic": "t", "grade": "g", "lesson_minutes": "45",
		"lessons": [
			{"lesson_number": "2", "title": "L", "objectives": ["o"], "activities": ["a"]}
		]
	}`)
	plan, err := CoerceLessonPlan(payload, types.LessonPlan{})
	if err != nil {
		t.Fatalf("CoerceLessonPlan: %v", err)
	}
	if plan.LessonMinutes != 45 {
		t.Fatalf("lesson_minutes: want=45 got=%d", plan.LessonMinutes)
	}
	if plan.Lessons[0].LessonNumber != 2 {
		t.Fatalf("lesson_number: want=2 got=%d", plan.Lessons[0].LessonNumber)
	}
}
