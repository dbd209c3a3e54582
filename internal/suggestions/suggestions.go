// Package suggestions explains the differences between an original resume
// and an optimized version of it, section by section.
package suggestions

import (
	"fmt"
	"strings"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/jonathan/resume-markup/internal/types"
)

// Section names as they appear in Suggestion.Section
const (
	SectionPersonalInfo   = "personalInfo"
	SectionSummary        = "professionalSummary"
	SectionExperience     = "workExperience"
	SectionSkills         = "skills"
	SectionProjects       = "projects"
	SectionEducation      = "education"
	SectionCertifications = "certifications"
	SectionVolunteer      = "volunteerExperience"
	SectionAwards         = "awards"
	SectionLanguages      = "languages"
	SectionPublications   = "publications"
	SectionReferences     = "references"
	SectionHobbies        = "hobbies"
	SectionAdditional     = "additionalSections"
)

// nil and empty slices compare equal; optimizers routinely drop empty lists
var equalOpts = cmp.Options{cmpopts.EquateEmpty()}

// positionDetailOpts skips the position fields that get their own suggestion
var positionDetailOpts = cmpopts.IgnoreFields(types.WorkExperience{},
	"JobTitle", "Description", "Responsibilities", "Achievements", "Technologies")

func equal(a, b interface{}, extra ...cmp.Option) bool {
	return cmp.Equal(a, b, equalOpts, cmp.Options(extra))
}

// positionDetails is the part of a position compared as one unit
func positionDetails(w types.WorkExperience) map[string]interface{} {
	return map[string]interface{}{
		"company":   w.Company,
		"location":  w.Location,
		"startDate": w.StartDate,
		"endDate":   w.EndDate,
		"isCurrent": w.IsCurrent,
	}
}

// Generate compares original and optimized and returns one suggestion per
// changed field or entry. It performs no I/O and never mutates its inputs.
func Generate(original, optimized *types.ResumeRecord) []types.Suggestion {
	if original == nil {
		original = &types.ResumeRecord{}
	}
	if optimized == nil {
		optimized = &types.ResumeRecord{}
	}

	out := personalInfo(original.PersonalInfo, optimized.PersonalInfo)
	out = appendText(out, SectionSummary, "professionalSummary",
		original.ProfessionalSummary, optimized.ProfessionalSummary,
		"Rewrote summary to lead with the most relevant experience")
	out = append(out, experience(original.WorkExperience, optimized.WorkExperience)...)
	out = append(out, skills(original.Skills, optimized.Skills)...)
	out = append(out, entries(SectionProjects, original.Projects, optimized.Projects,
		"Refined project to highlight relevant outcomes")...)
	out = append(out, entries(SectionEducation, original.Education, optimized.Education,
		"Adjusted education details to emphasize relevant coursework")...)
	out = append(out, entries(SectionCertifications, original.Certifications, optimized.Certifications,
		"Updated certification details")...)
	out = append(out, entries(SectionVolunteer, original.VolunteerExperience, optimized.VolunteerExperience,
		"Reframed volunteer work around transferable skills")...)
	out = append(out, entries(SectionAwards, original.Awards, optimized.Awards,
		"Clarified award significance")...)
	out = append(out, entries(SectionLanguages, original.Languages, optimized.Languages,
		"Updated language proficiency")...)
	out = append(out, entries(SectionPublications, original.Publications, optimized.Publications,
		"Refined publication details")...)
	out = append(out, entries(SectionReferences, original.References, optimized.References,
		"Updated reference details")...)
	out = append(out, entries(SectionHobbies, original.Hobbies, optimized.Hobbies,
		"Adjusted interests shown to the reader")...)
	out = append(out, entries(SectionAdditional, original.AdditionalSections, optimized.AdditionalSections,
		"Revised additional section content")...)
	return out
}

// personalInfo compares identity and contact fields one by one
func personalInfo(o, n types.PersonalInfo) []types.Suggestion {
	out := appendText([]types.Suggestion{}, SectionPersonalInfo, "personalInfo.professionalTitle",
		o.ProfessionalTitle, n.ProfessionalTitle, "Aligned professional title with the target role")

	contact := []struct {
		field         string
		before, after string
	}{
		{"firstName", o.FirstName, n.FirstName},
		{"lastName", o.LastName, n.LastName},
		{"email", o.Email, n.Email},
		{"phone", o.Phone, n.Phone},
		{"location", o.Location, n.Location},
		{"linkedin", o.LinkedIn, n.LinkedIn},
		{"github", o.GitHub, n.GitHub},
		{"website", o.Website, n.Website},
		{"portfolio", o.Portfolio, n.Portfolio},
	}
	for _, c := range contact {
		out = appendText(out, SectionPersonalInfo, "personalInfo."+c.field, c.before, c.after,
			"Updated contact details")
	}
	return out
}

// experience compares positions field by field so each kind of rewrite gets
// its own explanation
func experience(original, optimized []types.WorkExperience) []types.Suggestion {
	var out []types.Suggestion
	for i := 0; i < max(len(original), len(optimized)); i++ {
		path := fmt.Sprintf("%s[%d]", SectionExperience, i)
		switch {
		case i >= len(original):
			out = append(out, newSuggestion(SectionExperience, path, types.ChangeAdded, nil, optimized[i],
				"Added experience relevant to the role"))
			continue
		case i >= len(optimized):
			out = append(out, newSuggestion(SectionExperience, path, types.ChangeRemoved, original[i], nil,
				"Removed experience unrelated to the role"))
			continue
		}

		o, n := original[i], optimized[i]
		out = appendText(out, SectionExperience, path+".jobTitle", o.JobTitle, n.JobTitle,
			"Clarified job title")
		out = appendText(out, SectionExperience, path+".description", o.Description, n.Description,
			"Tightened role description around relevant scope")
		out = appendList(out, SectionExperience, path+".responsibilities", o.Responsibilities, n.Responsibilities,
			"Rewrote responsibilities with stronger action verbs")
		out = appendList(out, SectionExperience, path+".achievements", o.Achievements, n.Achievements,
			"Enhanced achievements with measurable impact")
		out = appendList(out, SectionExperience, path+".technologies", o.Technologies, n.Technologies,
			"Surfaced technologies that match the job requirements")

		if !equal(o, n, positionDetailOpts) {
			out = append(out, newSuggestion(SectionExperience, path, types.ChangeModified,
				positionDetails(o), positionDetails(n), "Corrected position details"))
		}
	}
	return out
}

// skills reports added and removed names as two suggestions, and a pure
// reordering as one modification
func skills(original, optimized []types.Skill) []types.Suggestion {
	before, after := skillNames(original), skillNames(optimized)
	added := missingFrom(after, before)
	removed := missingFrom(before, after)

	var out []types.Suggestion
	if len(added) > 0 {
		out = append(out, newSuggestion(SectionSkills, SectionSkills, types.ChangeAdded, nil, added,
			"Added skills that match the job requirements"))
	}
	if len(removed) > 0 {
		out = append(out, newSuggestion(SectionSkills, SectionSkills, types.ChangeRemoved, removed, nil,
			"Removed skills that do not support this application"))
	}
	if len(added) == 0 && len(removed) == 0 && !equal(original, optimized) {
		out = append(out, newSuggestion(SectionSkills, SectionSkills, types.ChangeModified, before, after,
			"Reordered and regrouped skills to lead with the most relevant"))
	}
	return out
}

// entries compares whole entries of a section by index
func entries[T any](section string, original, optimized []T, reason string) []types.Suggestion {
	var out []types.Suggestion
	for i := 0; i < max(len(original), len(optimized)); i++ {
		path := fmt.Sprintf("%s[%d]", section, i)
		switch {
		case i >= len(original):
			out = append(out, newSuggestion(section, path, types.ChangeAdded, nil, optimized[i], reason))
		case i >= len(optimized):
			out = append(out, newSuggestion(section, path, types.ChangeRemoved, original[i], nil, reason))
		case !equal(original[i], optimized[i]):
			out = append(out, newSuggestion(section, path, types.ChangeModified, original[i], optimized[i], reason))
		}
	}
	return out
}

func appendText(out []types.Suggestion, section, field, before, after, reason string) []types.Suggestion {
	b, a := strings.TrimSpace(before), strings.TrimSpace(after)
	if b == a {
		return out
	}
	kind := types.ChangeModified
	switch {
	case b == "":
		kind = types.ChangeAdded
	case a == "":
		kind = types.ChangeRemoved
	}
	return append(out, newSuggestion(section, field, kind, orNil(b), orNil(a), reason))
}

func appendList(out []types.Suggestion, section, field string, before, after []string, reason string) []types.Suggestion {
	if equal(before, after) {
		return out
	}
	kind := types.ChangeModified
	switch {
	case len(before) == 0:
		kind = types.ChangeAdded
	case len(after) == 0:
		kind = types.ChangeRemoved
	}
	var o, s interface{}
	if len(before) > 0 {
		o = before
	}
	if len(after) > 0 {
		s = after
	}
	return append(out, newSuggestion(section, field, kind, o, s, reason))
}

func newSuggestion(section, field, kind string, original, suggested interface{}, reason string) types.Suggestion {
	return types.Suggestion{
		Section:   section,
		Field:     field,
		Type:      kind,
		Original:  original,
		Suggested: suggested,
		Reason:    reason,
	}
}

func skillNames(skills []types.Skill) []string {
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		if name := strings.TrimSpace(s.Name); name != "" {
			out = append(out, name)
		}
	}
	return out
}

// missingFrom returns names in a that b lacks, compared case-insensitively
func missingFrom(a, b []string) []string {
	have := make(map[string]bool, len(b))
	for _, n := range b {
		have[strings.ToLower(n)] = true
	}
	var out []string
	for _, n := range a {
		if !have[strings.ToLower(n)] {
			out = append(out, n)
		}
	}
	return out
}

func orNil(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
