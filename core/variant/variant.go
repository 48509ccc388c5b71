// Package variant defines the three instructional content shapes and the
// coercion from a canonical value into the shape selected by a content key.
//
// Every field is optional. Coercion fails closed: a value that is not an
// object, or whose fields have the wrong JSON shape, yields an error and
// the section renders nothing.
package variant

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/gaurav-prasanna/lessonpipe/core"
	"github.com/gaurav-prasanna/lessonpipe/core/normalize"
)

var (
	ErrNotObject      = errors.New("content is not a JSON object")
	ErrUnknownVariant = errors.New("unknown content variant")
)

// Variant is implemented by PreClass, InClass and PostClass.
type Variant interface {
	Key() core.ContentKey
}

// Text is a string field that also accepts JSON numbers and booleans.
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*t = Text(s)
		return nil
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch v.(type) {
	case nil:
		*t = ""
	case float64, bool:
		*t = Text(strings.TrimSpace(string(data)))
	default:
		return fmt.Errorf("expected text, got %s", data)
	}
	return nil
}

func (t Text) String() string { return string(t) }

// Activity is a pre-class activity.
type Activity struct {
	Title         Text `json:"title"`
	ActivityTitle Text `json:"activity_title"`
	Description   Text `json:"description"`
	Instructions  Text `json:"instructions"`
}

// Heading returns the activity title under either accepted field name.
func (a Activity) Heading() Text {
	if a.ActivityTitle != "" {
		return a.ActivityTitle
	}
	return a.Title
}

// PreClass prepares students before the session.
type PreClass struct {
	Overview                 Text       `json:"overview"`
	KeyConcepts              []Text     `json:"key_concepts"`
	ShortExample             Text       `json:"short_example"`
	ReadingMaterials         []Text     `json:"reading_materials"`
	PreClassReadingMaterials []Text     `json:"pre_class_reading_materials"`
	Activities               []Activity `json:"activities"`
	PreClassActivities       []Activity `json:"pre_class_activities"`
}

func (PreClass) Key() core.ContentKey { return core.PreClass }

// Materials returns the reading list under either accepted field name.
func (p PreClass) Materials() []Text {
	if len(p.PreClassReadingMaterials) > 0 {
		return p.PreClassReadingMaterials
	}
	return p.ReadingMaterials
}

// AllActivities returns the activity list under either accepted field name.
func (p PreClass) AllActivities() []Activity {
	if len(p.PreClassActivities) > 0 {
		return p.PreClassActivities
	}
	return p.Activities
}

// ClassActivity is one timed block of the in-class plan.
type ClassActivity struct {
	Title          Text `json:"title"`
	ActivityTitle  Text `json:"activity_title"`
	Duration       Text `json:"duration"`
	Description    Text `json:"description"`
	TeachingScript Text `json:"teaching_script"`
}

// Heading returns the activity title under either accepted field name.
func (a ClassActivity) Heading() Text {
	if a.ActivityTitle != "" {
		return a.ActivityTitle
	}
	return a.Title
}

// InClass is the lesson plan with teaching script.
type InClass struct {
	LearningObjectives []Text          `json:"learning_objectives"`
	MaterialsNeeded    []Text          `json:"materials_needed"`
	ClassActivities    []ClassActivity `json:"class_activities"`
	AssessmentMethods  []Text          `json:"assessment_methods"`
	Summary            Text            `json:"summary"`
}

func (InClass) Key() core.ContentKey { return core.InClass }

// Choice is a quiz option or answer. It keeps whether the JSON value was
// a string, so "2" and 2 are different choices.
type Choice struct {
	Text   Text
	Quoted bool
}

// Quoted returns a string choice.
func Quoted(s string) Choice {
	return Choice{Text: Text(s), Quoted: true}
}

func (c *Choice) UnmarshalJSON(data []byte) error {
	if err := c.Text.UnmarshalJSON(data); err != nil {
		return err
	}
	var s string
	c.Quoted = json.Unmarshal(data, &s) == nil
	return nil
}

func (c Choice) String() string { return string(c.Text) }

// Question is a multiple-choice quiz question.
type Question struct {
	Question Text     `json:"question"`
	Options  []Choice `json:"options"`
	Answer   Choice   `json:"answer"`
}

// IsCorrect reports whether option is exactly the designated answer,
// by value and JSON kind.
func (q Question) IsCorrect(option Choice) bool {
	// A missing or null answer matches nothing.
	if q.Answer == (Choice{}) {
		return false
	}
	return option == q.Answer
}

// PostClass reinforces the session with a quiz and summary.
type PostClass struct {
	Quiz    []Question `json:"quiz"`
	Summary Text       `json:"summary"`
}

func (PostClass) Key() core.ContentKey { return core.PostClass }

// Coerce converts a canonical value into the variant selected by key.
// Opaque text gets one more fence-stripped parse attempt.
func Coerce(c core.Canonical, key core.ContentKey) (Variant, error) {
	value := c.Value
	if c.Opaque {
		parsed, err := normalize.ParseText(c.Text)
		if err != nil {
			return nil, err
		}
		value = parsed
	}
	if s, ok := value.(string); ok {
		parsed, err := normalize.ParseText(s)
		if err != nil {
			return nil, err
		}
		value = parsed
	}

	obj, ok := value.(core.Object)
	if !ok {
		return nil, fmt.Errorf("%w: got %T", ErrNotObject, value)
	}
	data, err := json.Marshal(obj)
	if err != nil {
		return nil, fmt.Errorf("re-encoding content: %w", err)
	}

	switch key {
	case core.PreClass:
		var v PreClass
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("decoding %s: %w", key, err)
		}
		return v, nil
	case core.InClass:
		var v InClass
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("decoding %s: %w", key, err)
		}
		return v, nil
	case core.PostClass:
		var v PostClass
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("decoding %s: %w", key, err)
		}
		return v, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownVariant, key)
}
