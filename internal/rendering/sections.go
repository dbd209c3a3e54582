package rendering

import (
	"strings"
	"time"

	"github.com/jonathan/resume-markup/internal/types"
)

// EmptyDocumentComment is emitted when no section produces content
const EmptyDocumentComment = "% empty document: no renderable resume content"

// section pairs a content predicate with its renderer. Order in the sections
// slice is the emission order.
type section struct {
	name   string
	has    func(r *types.ResumeRecord) bool
	render func(r *types.ResumeRecord, now time.Time) string
}

var sections = []section{
	{"contact", hasContact, renderContact},
	{"summary", hasSummary, renderSummary},
	{"education", hasEducation, renderEducation},
	{"skills", hasSkills, renderSkills},
	{"experience", hasExperience, renderExperience},
	{"projects", hasProjects, renderProjects},
	{"certifications", hasCertifications, renderCertifications},
	{"publications", hasPublications, renderPublications},
	{"languages", hasLanguages, renderLanguages},
	{"volunteer", hasVolunteer, renderVolunteer},
	{"awards", hasAwards, renderAwards},
	{"hobbies", hasHobbies, renderHobbies},
	{"references", hasReferences, renderReferences},
	{"additional", hasAdditional, renderAdditional},
	{"footer", hasFooter, renderFooter},
}

// SectionNames lists sections in emission order
func SectionNames() []string {
	names := make([]string, len(sections))
	for i, s := range sections {
		names[i] = s.name
	}
	return names
}

// Body renders every section with content, in fixed order. A resume with no
// renderable content yields EmptyDocumentComment, never an empty string.
func Body(r *types.ResumeRecord, now time.Time) string {
	if r == nil {
		return EmptyDocumentComment
	}
	blocks := make([]string, 0, len(sections))
	for _, s := range sections {
		if !s.has(r) {
			continue
		}
		if block := s.render(r, now); block != "" {
			blocks = append(blocks, block)
		}
	}
	if len(blocks) == 0 {
		return EmptyDocumentComment
	}
	return strings.Join(blocks, "\n\n")
}

func heading(title string) string {
	return Wrap("resumesection", title)
}

// block emits a titled section, or nothing when every entry rendered empty
func block(title string, entries []string) string {
	kept := make([]string, 0, len(entries))
	for _, e := range entries {
		if e != "" {
			kept = append(kept, e)
		}
	}
	if len(kept) == 0 {
		return ""
	}
	return heading(title) + "\n" + strings.Join(kept, "\n")
}

func blank(s string) bool {
	return CollapseWhitespace(s) == ""
}

func anyText(items []string) bool {
	for _, item := range items {
		if !blank(item) {
			return true
		}
	}
	return false
}

// --- contact ---

func hasContact(r *types.ResumeRecord) bool {
	p := r.PersonalInfo
	return !blank(p.FullName()) || !blank(p.Email) || !blank(p.Phone) || !blank(p.Location) ||
		!blank(p.ProfessionalTitle) || !blank(p.LinkedIn) || !blank(p.GitHub) || !blank(p.Website) || !blank(p.Portfolio)
}

func renderContact(r *types.ResumeRecord, _ time.Time) string {
	p := r.PersonalInfo
	return Command("resumeheader",
		Arg{"name", p.FullName()},
		Arg{"title", p.ProfessionalTitle},
		Arg{"email", p.Email},
		Arg{"phone", p.Phone},
		Arg{"location", p.Location},
		Arg{"linkedin", p.LinkedIn},
		Arg{"github", p.GitHub},
		Arg{"website", p.Website},
		Arg{"portfolio", p.Portfolio},
	)
}

// --- summary ---

func hasSummary(r *types.ResumeRecord) bool {
	return !blank(r.ProfessionalSummary)
}

func renderSummary(r *types.ResumeRecord, _ time.Time) string {
	return block("Professional Summary", []string{Wrap("resumeparagraph", r.ProfessionalSummary)})
}

// --- education ---

func hasEducation(r *types.ResumeRecord) bool {
	for _, e := range r.Education {
		if !blank(e.Institution) || !blank(e.Degree) || !blank(e.FieldOfStudy) {
			return true
		}
	}
	return false
}

func renderEducation(r *types.ResumeRecord, now time.Time) string {
	entries := make([]string, 0, len(r.Education))
	for _, e := range r.Education {
		header := Command("educationentry",
			Arg{"institution", e.Institution},
			Arg{"degree", DegreeLine(e.Degree, e.FieldOfStudy)},
			Arg{"location", e.Location},
			Arg{"dates", educationDates(e.StartDate, e.EndDate, e.GraduationDate, e.IsCurrent, now)},
			Arg{"gpa", e.GPA},
		)
		if header == "" {
			continue
		}
		details := make([]string, 0, 2)
		if honors := joinNonEmpty(", ", e.Honors...); honors != "" {
			details = append(details, "Honors: "+honors)
		}
		if coursework := joinNonEmpty(", ", e.Coursework...); coursework != "" {
			details = append(details, "Relevant coursework: "+coursework)
		}
		entries = append(entries, lines(header, Bullets(details)))
	}
	return block("Education", entries)
}

// DegreeLine combines degree and field of study. When one contains the other
// (case-insensitively) only the longer one is kept.
func DegreeLine(degree, field string) string {
	degree = CollapseWhitespace(degree)
	field = CollapseWhitespace(field)
	switch {
	case degree == "":
		return field
	case field == "":
		return degree
	}

	ld, lf := strings.ToLower(degree), strings.ToLower(field)
	if strings.Contains(lf, ld) || strings.Contains(ld, lf) {
		if len(field) > len(degree) {
			return field
		}
		return degree
	}
	return degree + ", " + field
}

// --- skills ---

func hasSkills(r *types.ResumeRecord) bool {
	for _, s := range r.Skills {
		if !blank(s.Name) {
			return true
		}
	}
	return false
}

func renderSkills(r *types.ResumeRecord, _ time.Time) string {
	groups := GroupSkills(r.Skills)
	entries := make([]string, 0, len(groups))
	for _, g := range groups {
		entries = append(entries, g.Markup())
	}
	return block("Skills", entries)
}

// --- experience ---

func hasExperience(r *types.ResumeRecord) bool {
	for _, w := range r.WorkExperience {
		if !blank(w.JobTitle) || !blank(w.Company) || !blank(w.Description) ||
			anyText(w.Responsibilities) || anyText(w.Achievements) {
			return true
		}
	}
	return false
}

func renderExperience(r *types.ResumeRecord, _ time.Time) string {
	entries := make([]string, 0, len(r.WorkExperience))
	for _, w := range r.WorkExperience {
		items := make([]string, 0, len(w.Responsibilities)+len(w.Achievements))
		items = append(items, w.Responsibilities...)
		items = append(items, w.Achievements...)
		entries = append(entries, lines(
			Command("experienceentry",
				Arg{"title", w.JobTitle},
				Arg{"company", w.Company},
				Arg{"location", w.Location},
				Arg{"dates", DateRange(w.StartDate, w.EndDate, w.IsCurrent)},
			),
			Wrap("resumeparagraph", w.Description),
			Bullets(items),
			Command("resumetech", Arg{"items", joinNonEmpty(", ", w.Technologies...)}),
		))
	}
	return block("Experience", entries)
}

// --- projects ---

func hasProjects(r *types.ResumeRecord) bool {
	for _, p := range r.Projects {
		if !blank(p.Name) || !blank(p.Description) || anyText(p.Highlights) {
			return true
		}
	}
	return false
}

func renderProjects(r *types.ResumeRecord, _ time.Time) string {
	entries := make([]string, 0, len(r.Projects))
	for _, p := range r.Projects {
		entries = append(entries, lines(
			Command("projectentry",
				Arg{"name", p.Name},
				Arg{"role", p.Role},
				Arg{"dates", DateRange(p.StartDate, p.EndDate, p.IsCurrent)},
				Arg{"url", p.URL},
				Arg{"github", p.GitHubURL},
			),
			Wrap("resumeparagraph", p.Description),
			Bullets(p.Highlights),
			Command("resumetech", Arg{"items", joinNonEmpty(", ", p.Technologies...)}),
		))
	}
	return block("Projects", entries)
}

// --- certifications ---

func hasCertifications(r *types.ResumeRecord) bool {
	for _, c := range r.Certifications {
		if !blank(c.Name) {
			return true
		}
	}
	return false
}

func renderCertifications(r *types.ResumeRecord, _ time.Time) string {
	entries := make([]string, 0, len(r.Certifications))
	for _, c := range r.Certifications {
		if blank(c.Name) {
			continue
		}
		entries = append(entries, Command("certificationentry",
			Arg{"name", c.Name},
			Arg{"issuer", c.Issuer},
			Arg{"date", c.IssueDate},
			Arg{"expires", c.ExpirationDate},
			Arg{"credential", c.CredentialID},
			Arg{"url", c.URL},
		))
	}
	return block("Certifications", entries)
}

// --- publications ---

func hasPublications(r *types.ResumeRecord) bool {
	for _, p := range r.Publications {
		if !blank(p.Title) {
			return true
		}
	}
	return false
}

func renderPublications(r *types.ResumeRecord, _ time.Time) string {
	entries := make([]string, 0, len(r.Publications))
	for _, p := range r.Publications {
		if blank(p.Title) {
			continue
		}
		entries = append(entries, lines(
			Command("publicationentry",
				Arg{"title", p.Title},
				Arg{"publisher", p.Publisher},
				Arg{"date", p.Date},
				Arg{"authors", joinNonEmpty(", ", p.Authors...)},
				Arg{"url", p.URL},
			),
			Wrap("resumeparagraph", p.Description),
		))
	}
	return block("Publications", entries)
}

// --- languages ---

func hasLanguages(r *types.ResumeRecord) bool {
	for _, l := range r.Languages {
		if !blank(l.Name) {
			return true
		}
	}
	return false
}

func renderLanguages(r *types.ResumeRecord, _ time.Time) string {
	groups := GroupLanguages(r.Languages)
	entries := make([]string, 0, len(groups))
	for _, g := range groups {
		entries = append(entries, g.Markup())
	}
	return block("Languages", entries)
}

// --- volunteer ---

func hasVolunteer(r *types.ResumeRecord) bool {
	for _, v := range r.VolunteerExperience {
		if !blank(v.Role) || !blank(v.Organization) || !blank(v.Description) || anyText(v.Achievements) {
			return true
		}
	}
	return false
}

func renderVolunteer(r *types.ResumeRecord, _ time.Time) string {
	entries := make([]string, 0, len(r.VolunteerExperience))
	for _, v := range r.VolunteerExperience {
		entries = append(entries, lines(
			Command("volunteerentry",
				Arg{"role", v.Role},
				Arg{"organization", v.Organization},
				Arg{"location", v.Location},
				Arg{"dates", DateRange(v.StartDate, v.EndDate, v.IsCurrent)},
			),
			Wrap("resumeparagraph", v.Description),
			Bullets(v.Achievements),
		))
	}
	return block("Volunteer Experience", entries)
}

// --- awards ---

func hasAwards(r *types.ResumeRecord) bool {
	for _, a := range r.Awards {
		if !blank(a.Title) {
			return true
		}
	}
	return false
}

func renderAwards(r *types.ResumeRecord, _ time.Time) string {
	entries := make([]string, 0, len(r.Awards))
	for _, a := range r.Awards {
		if blank(a.Title) {
			continue
		}
		entries = append(entries, lines(
			Command("awardentry",
				Arg{"title", a.Title},
				Arg{"issuer", a.Issuer},
				Arg{"date", a.Date},
			),
			Wrap("resumeparagraph", a.Description),
		))
	}
	return block("Awards", entries)
}

// --- hobbies ---

func hasHobbies(r *types.ResumeRecord) bool {
	for _, h := range r.Hobbies {
		if !blank(h.Name) {
			return true
		}
	}
	return false
}

func renderHobbies(r *types.ResumeRecord, _ time.Time) string {
	names := make([]string, 0, len(r.Hobbies))
	for _, h := range r.Hobbies {
		name := CollapseWhitespace(h.Name)
		if name == "" {
			continue
		}
		if desc := CollapseWhitespace(h.Description); desc != "" {
			name += " (" + desc + ")"
		}
		names = append(names, name)
	}
	return block("Interests", []string{Wrap("resumeparagraph", strings.Join(names, ", "))})
}

// --- references ---

func hasReferences(r *types.ResumeRecord) bool {
	for _, ref := range r.References {
		if !blank(ref.Name) {
			return true
		}
	}
	return false
}

func renderReferences(r *types.ResumeRecord, _ time.Time) string {
	entries := make([]string, 0, len(r.References))
	for _, ref := range r.References {
		if blank(ref.Name) {
			continue
		}
		entries = append(entries, Command("referenceentry",
			Arg{"name", ref.Name},
			Arg{"title", ref.Title},
			Arg{"company", ref.Company},
			Arg{"relationship", ref.Relationship},
			Arg{"email", ref.Email},
			Arg{"phone", ref.Phone},
		))
	}
	return block("References", entries)
}

// --- additional sections ---

// DefaultAdditionalTitle heads a custom section that has no title
const DefaultAdditionalTitle = "Additional Information"

func hasAdditional(r *types.ResumeRecord) bool {
	for _, s := range r.AdditionalSections {
		if !blank(s.Content) || anyText(s.Items) {
			return true
		}
	}
	return false
}

func renderAdditional(r *types.ResumeRecord, _ time.Time) string {
	blocks := make([]string, 0, len(r.AdditionalSections))
	for _, s := range r.AdditionalSections {
		title := s.Title
		if blank(title) {
			title = DefaultAdditionalTitle
		}
		if b := block(title, []string{lines(Wrap("resumeparagraph", s.Content), Bullets(s.Items))}); b != "" {
			blocks = append(blocks, b)
		}
	}
	return strings.Join(blocks, "\n\n")
}

// --- tracking footer ---

func hasFooter(r *types.ResumeRecord) bool {
	return !blank(r.TrackingURL)
}

func renderFooter(r *types.ResumeRecord, _ time.Time) string {
	return Command("resumefooter", Arg{"url", r.TrackingURL})
}
