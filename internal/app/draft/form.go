// Package draft manages the transient task-editing draft and the
// autocomplete vocabularies for categories and tags. Vocabularies live for
// the whole session; the draft resets between create/edit rounds.
//
// It backs interactive form frontends rather than the HTTP API, which
// validates request payloads on its own.
package draft

import (
	"fmt"
	"strings"
	"time"

	"github.com/subash43e/taskapp/internal/core/domain"
)

const DefaultColor = "#2196f3"

var (
	defaultCategories = []string{"Personal", "Work", "Shopping", "Personal Development"}
	defaultTags       = []string{"Important", "Urgent", "Review", "Meeting", "Call", "Email", "Follow-up"}
)

// FieldError reports the first draft field that failed validation.
type FieldError struct {
	Label string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s is required", e.Label)
}

type Form struct {
	TaskName    string
	Description string
	DueDate     string
	DueTime     string
	Priority    string
	Category    string
	Color       string
	Tags        []string

	TagInput                string
	CategoryInput           string
	ShowCategorySuggestions bool
	ShowTagSuggestions      bool

	availableCategories []string
	availableTags       []string
}

func NewForm() *Form {
	f := &Form{Color: DefaultColor}
	f.availableCategories = append(f.availableCategories, defaultCategories...)
	f.availableTags = append(f.availableTags, defaultTags...)
	return f
}

func (f *Form) AvailableCategories() []string {
	return append([]string(nil), f.availableCategories...)
}

func (f *Form) AvailableTags() []string {
	return append([]string(nil), f.availableTags...)
}

// CategorySuggestions filters the category vocabulary by case-insensitive
// substring match against input. Empty input returns the whole vocabulary.
func (f *Form) CategorySuggestions(input string) []string {
	return filterVocabulary(f.availableCategories, input)
}

func (f *Form) TagSuggestions(input string) []string {
	return filterVocabulary(f.availableTags, input)
}

// HasExactCategory reports whether input already exists in the vocabulary,
// ignoring case. The UI offers "add as new" when it does not.
func (f *Form) HasExactCategory(input string) bool {
	return containsFold(f.availableCategories, input)
}

func (f *Form) HasExactTag(input string) bool {
	return containsFold(f.availableTags, input)
}

// SelectCategory records the value on the draft and grows the vocabulary if
// the value is new.
func (f *Form) SelectCategory(value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	f.Category = value
	f.CategoryInput = value
	f.ShowCategorySuggestions = false
	if !containsFold(f.availableCategories, value) {
		f.availableCategories = append(f.availableCategories, value)
	}
}

// SelectTag adds the tag to the draft unless an equal tag (any case) is
// already present, grows the vocabulary if the value is new, and clears the
// tag input either way.
func (f *Form) SelectTag(value string) {
	value = strings.TrimSpace(value)
	if value != "" && !containsFold(f.Tags, value) {
		f.Tags = append(f.Tags, value)
		if !containsFold(f.availableTags, value) {
			f.availableTags = append(f.availableTags, value)
		}
	}
	f.TagInput = ""
	f.ShowTagSuggestions = false
}

func (f *Form) AddTag(value string) {
	value = strings.TrimSpace(value)
	if value == "" || containsFold(f.Tags, value) {
		return
	}
	f.Tags = append(f.Tags, value)
}

func (f *Form) RemoveTag(value string) {
	out := f.Tags[:0]
	for _, tag := range f.Tags {
		if tag != value {
			out = append(out, tag)
		}
	}
	f.Tags = out
}

func (f *Form) ClearTags() {
	f.Tags = nil
}

// Load populates the draft from an existing task for editing.
func (f *Form) Load(task domain.Task) {
	f.TaskName = task.TaskName
	f.Description = task.Description
	f.DueDate = task.DueDate
	f.DueTime = task.DueTime
	f.Priority = string(task.Priority)
	f.Category = task.Category
	f.CategoryInput = task.Category
	f.Color = task.Color
	f.Tags = append([]string(nil), task.Tags...)
	f.TagInput = ""
	f.ShowCategorySuggestions = false
	f.ShowTagSuggestions = false
}

// ResetForm clears every draft field back to its default while preserving the
// accumulated vocabularies.
func (f *Form) ResetForm() {
	categories := f.availableCategories
	tags := f.availableTags
	*f = Form{Color: DefaultColor}
	f.availableCategories = categories
	f.availableTags = tags
}

// Validate checks required fields in a fixed order and stops at the first
// failure. Formats are checked after presence.
func (f *Form) Validate() error {
	required := []struct {
		label string
		value string
	}{
		{"Task name", f.TaskName},
		{"Description", f.Description},
		{"Due date", f.DueDate},
		{"Due time", f.DueTime},
		{"Priority", f.Priority},
		{"Category", f.CategoryInput},
	}
	for _, field := range required {
		if strings.TrimSpace(field.value) == "" {
			return FieldError{Label: field.label}
		}
	}

	if _, err := time.Parse(domain.DueDateLayout, f.DueDate); err != nil {
		return FieldError{Label: "Due date"}
	}
	if _, err := time.Parse(domain.DueTimeLayout, f.DueTime); err != nil {
		return FieldError{Label: "Due time"}
	}
	if !domain.Priority(f.Priority).IsValid() {
		return FieldError{Label: "Priority"}
	}
	return nil
}

// Input converts the validated draft into a create input.
func (f *Form) Input() domain.CreateTaskInput {
	color := f.Color
	if color == "" {
		color = DefaultColor
	}
	return domain.CreateTaskInput{
		TaskName:    strings.TrimSpace(f.TaskName),
		Description: strings.TrimSpace(f.Description),
		DueDate:     f.DueDate,
		DueTime:     f.DueTime,
		Priority:    domain.Priority(f.Priority),
		Category:    strings.TrimSpace(f.CategoryInput),
		Tags:        domain.NormalizeTags(f.Tags),
		Color:       color,
	}
}

func filterVocabulary(vocabulary []string, input string) []string {
	q := strings.ToLower(strings.TrimSpace(input))
	out := make([]string, 0, len(vocabulary))
	for _, value := range vocabulary {
		if q == "" || strings.Contains(strings.ToLower(value), q) {
			out = append(out, value)
		}
	}
	return out
}

func containsFold(values []string, target string) bool {
	for _, value := range values {
		if strings.EqualFold(value, target) {
			return true
		}
	}
	return false
}
