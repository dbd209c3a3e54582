package normalize

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/jonathan/resume-markup/internal/types"
)

// collectionRule describes how to coerce the entries of one top-level collection
type collectionRule struct {
	// scalarKey wraps a bare string entry as {scalarKey: s}
	scalarKey string
	dates     []string
	lists     []string
}

var collections = map[string]collectionRule{
	"workExperience": {
		dates: []string{"startDate", "endDate"},
		lists: []string{"responsibilities", "achievements", "technologies"},
	},
	"education": {
		scalarKey: "institution",
		dates:     []string{"startDate", "endDate", "graduationDate"},
		lists:     []string{"honors", "coursework"},
	},
	"skills":    {scalarKey: "name"},
	"languages": {scalarKey: "name"},
	"hobbies":   {scalarKey: "name"},
	"projects": {
		scalarKey: "name",
		dates:     []string{"startDate", "endDate"},
		lists:     []string{"technologies", "highlights"},
	},
	"certifications": {
		scalarKey: "name",
		dates:     []string{"issueDate", "expirationDate"},
	},
	"volunteerExperience": {
		dates: []string{"startDate", "endDate"},
		lists: []string{"achievements"},
	},
	"awards":       {scalarKey: "title", dates: []string{"date"}},
	"publications": {scalarKey: "title", dates: []string{"date"}, lists: []string{"authors"}},
	"references":   {scalarKey: "name"},
	"additionalSections": {
		lists: []string{"items"},
	},
}

// aliases maps alternate top-level keys onto canonical ones
var aliases = map[string]string{
	"summary":    "professionalSummary",
	"experience": "workExperience",
	"volunteer":  "volunteerExperience",
	"contact":    "personalInfo",
}

// entryAliases maps alternate entry keys onto canonical ones
var entryAliases = map[string]string{
	"isCurrentJob": "isCurrent",
	"current":      "isCurrent",
	"title":        "jobTitle",
	"position":     "jobTitle",
	"field":        "fieldOfStudy",
	"school":       "institution",
}

// entryAliasScope limits entry aliases to the collections they make sense in
var entryAliasScope = map[string]map[string]bool{
	"title":    {"workExperience": true},
	"position": {"workExperience": true},
	"field":    {"education": true},
	"school":   {"education": true},
}

// LoadFile reads and normalizes a resume JSON file
func LoadFile(path string) (*types.ResumeRecord, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{
			Message: fmt.Sprintf("failed to read file %s", path),
			Cause:   err,
		}
	}
	return JSON(content)
}

// JSON decodes raw resume JSON and normalizes it
func JSON(data []byte) (*types.ResumeRecord, error) {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &LoadError{Message: "failed to unmarshal JSON", Cause: err}
	}
	obj, ok := raw.(map[string]interface{})
	if !ok {
		return nil, &Error{Message: fmt.Sprintf("resume must be a JSON object, got %T", raw)}
	}
	return Record(obj)
}

// Record coerces an arbitrary resume-shaped map into a canonical ResumeRecord.
// Missing optional fields are never an error.
func Record(raw map[string]interface{}) (*types.ResumeRecord, error) {
	prepared := make(map[string]interface{}, len(raw))
	for k, v := range raw {
		if canonical, ok := aliases[k]; ok {
			if _, exists := raw[canonical]; exists {
				continue
			}
			k = canonical
		}
		prepared[k] = v
	}

	for key, rule := range collections {
		prepared[key] = coerceCollection(key, prepared[key], rule)
	}
	if summary, ok := prepared["professionalSummary"]; ok {
		if _, isString := summary.(string); !isString {
			prepared["professionalSummary"] = strings.Join(stringList(summary), " ")
		}
	}

	if info, ok := prepared["personalInfo"]; ok && info != nil {
		if _, isMap := info.(map[string]interface{}); !isMap {
			return nil, &Error{Field: "personalInfo", Message: fmt.Sprintf("expected an object, got %T", info)}
		}
	}

	var record types.ResumeRecord
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.DecodeHookFuncType(looseShapeHook),
		Result:           &record,
	})
	if err != nil {
		return nil, &Error{Message: "failed to build decoder", Cause: err}
	}
	if err := decoder.Decode(prepared); err != nil {
		return nil, &Error{Message: "failed to decode resume", Cause: err}
	}

	EnsureCollections(&record)
	return &record, nil
}

func coerceCollection(key string, v interface{}, rule collectionRule) []interface{} {
	entries := toSlice(v)
	out := make([]interface{}, 0, len(entries))
	for _, entry := range entries {
		switch e := entry.(type) {
		case nil:
			continue
		case string:
			if strings.TrimSpace(e) == "" {
				continue
			}
			if rule.scalarKey == "" {
				// no sensible field to wrap a bare string into
				continue
			}
			out = append(out, map[string]interface{}{rule.scalarKey: e})
		case map[string]interface{}:
			out = append(out, coerceEntry(key, e, rule))
		case []interface{}:
			out = append(out, coerceCollection(key, e, rule)...)
		default:
			if rule.scalarKey != "" {
				out = append(out, map[string]interface{}{rule.scalarKey: fmt.Sprint(e)})
			}
		}
	}
	return out
}

func coerceEntry(collection string, entry map[string]interface{}, rule collectionRule) map[string]interface{} {
	out := make(map[string]interface{}, len(entry))
	for k, v := range entry {
		if canonical, ok := entryAliases[k]; ok {
			if scope, scoped := entryAliasScope[k]; !scoped || scope[collection] {
				if _, exists := entry[canonical]; !exists {
					k = canonical
				}
			}
		}
		out[k] = v
	}
	for _, field := range rule.dates {
		if v, ok := out[field]; ok {
			out[field] = Date(v)
		}
	}
	for _, field := range rule.lists {
		out[field] = stringList(out[field])
	}
	return out
}

// toSlice lifts a scalar into a one-element slice and nil into an empty one
func toSlice(v interface{}) []interface{} {
	switch s := v.(type) {
	case nil:
		return []interface{}{}
	case []interface{}:
		return s
	case []string:
		out := make([]interface{}, len(s))
		for i, item := range s {
			out[i] = item
		}
		return out
	case []map[string]interface{}:
		out := make([]interface{}, len(s))
		for i, item := range s {
			out[i] = item
		}
		return out
	default:
		return []interface{}{s}
	}
}

// stringList coerces v to a list of strings. Nested lists are flattened and
// an object item becomes one entry holding its text values.
func stringList(v interface{}) []string {
	items := toSlice(v)
	out := make([]string, 0, len(items))
	for _, item := range items {
		switch t := item.(type) {
		case nil:
		case string:
			if strings.TrimSpace(t) != "" {
				out = append(out, t)
			}
		case []interface{}, []string:
			out = append(out, stringList(t)...)
		default:
			if s := strings.Join(textParts(t), ", "); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

// EnsureCollections replaces every nil collection with an empty one, at the
// top level and inside entries.
func EnsureCollections(r *types.ResumeRecord) {
	if r == nil {
		return
	}
	r.WorkExperience = nonNil(r.WorkExperience)
	r.Education = nonNil(r.Education)
	r.Skills = nonNil(r.Skills)
	r.Projects = nonNil(r.Projects)
	r.Certifications = nonNil(r.Certifications)
	r.Languages = nonNil(r.Languages)
	r.VolunteerExperience = nonNil(r.VolunteerExperience)
	r.Awards = nonNil(r.Awards)
	r.Publications = nonNil(r.Publications)
	r.References = nonNil(r.References)
	r.Hobbies = nonNil(r.Hobbies)
	r.AdditionalSections = nonNil(r.AdditionalSections)

	for i := range r.WorkExperience {
		w := &r.WorkExperience[i]
		w.Responsibilities = nonNil(w.Responsibilities)
		w.Achievements = nonNil(w.Achievements)
		w.Technologies = nonNil(w.Technologies)
	}
	for i := range r.Education {
		e := &r.Education[i]
		e.Honors = nonNil(e.Honors)
		e.Coursework = nonNil(e.Coursework)
	}
	for i := range r.Projects {
		p := &r.Projects[i]
		p.Technologies = nonNil(p.Technologies)
		p.Highlights = nonNil(p.Highlights)
	}
	for i := range r.VolunteerExperience {
		r.VolunteerExperience[i].Achievements = nonNil(r.VolunteerExperience[i].Achievements)
	}
	for i := range r.Publications {
		r.Publications[i].Authors = nonNil(r.Publications[i].Authors)
	}
	for i := range r.AdditionalSections {
		r.AdditionalSections[i].Items = nonNil(r.AdditionalSections[i].Items)
	}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
