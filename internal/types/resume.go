// Package types provides type definitions for structured data used throughout the resume markup engine.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "strings"

// ResumeRecord is the canonical in-memory resume. Every collection is non-nil
// after normalization; an empty collection means the section is skipped.
type ResumeRecord struct {
	PersonalInfo        PersonalInfo        `json:"personalInfo"`
	ProfessionalSummary string              `json:"professionalSummary,omitempty"`
	WorkExperience      []WorkExperience    `json:"workExperience"`
	Education           []Education         `json:"education"`
	Skills              []Skill             `json:"skills"`
	Projects            []Project           `json:"projects"`
	Certifications      []Certification     `json:"certifications"`
	Languages           []Language          `json:"languages"`
	VolunteerExperience []Volunteer         `json:"volunteerExperience"`
	Awards              []Award             `json:"awards"`
	Publications        []Publication       `json:"publications"`
	References          []Reference         `json:"references"`
	Hobbies             []Hobby             `json:"hobbies"`
	AdditionalSections  []AdditionalSection `json:"additionalSections"`
	TrackingURL         string              `json:"trackingUrl,omitempty"`
}

// PersonalInfo holds identity and contact details
type PersonalInfo struct {
	FirstName         string `json:"firstName,omitempty"`
	LastName          string `json:"lastName,omitempty"`
	Email             string `json:"email,omitempty"`
	Phone             string `json:"phone,omitempty"`
	Location          string `json:"location,omitempty"`
	ProfessionalTitle string `json:"professionalTitle,omitempty"`
	LinkedIn          string `json:"linkedin,omitempty"`
	GitHub            string `json:"github,omitempty"`
	Website           string `json:"website,omitempty"`
	Portfolio         string `json:"portfolio,omitempty"`
}

// FullName joins first and last name, skipping empty parts
func (p PersonalInfo) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(p.FirstName) + " " + strings.TrimSpace(p.LastName))
}

// WorkExperience is a single position
type WorkExperience struct {
	JobTitle         string   `json:"jobTitle,omitempty"`
	Company          string   `json:"company,omitempty"`
	Location         string   `json:"location,omitempty"`
	StartDate        string   `json:"startDate,omitempty"`
	EndDate          string   `json:"endDate,omitempty"`
	IsCurrent        bool     `json:"isCurrent,omitempty"`
	Description      string   `json:"description,omitempty"`
	Responsibilities []string `json:"responsibilities"`
	Achievements     []string `json:"achievements"`
	Technologies     []string `json:"technologies"`
}

// Education is a degree or program
type Education struct {
	Institution    string   `json:"institution,omitempty"`
	Degree         string   `json:"degree,omitempty"`
	FieldOfStudy   string   `json:"fieldOfStudy,omitempty"`
	Location       string   `json:"location,omitempty"`
	StartDate      string   `json:"startDate,omitempty"`
	EndDate        string   `json:"endDate,omitempty"`
	GraduationDate string   `json:"graduationDate,omitempty"`
	IsCurrent      bool     `json:"isCurrent,omitempty"`
	GPA            string   `json:"gpa,omitempty"`
	Honors         []string `json:"honors"`
	Coursework     []string `json:"coursework"`
}

// Skill is a named skill with an optional category and level
type Skill struct {
	Name     string `json:"name"`
	Category string `json:"category,omitempty"`
	Level    string `json:"level,omitempty"`
}

// Project is a personal or professional project
type Project struct {
	Name         string   `json:"name,omitempty"`
	Role         string   `json:"role,omitempty"`
	Description  string   `json:"description,omitempty"`
	URL          string   `json:"url,omitempty"`
	GitHubURL    string   `json:"githubUrl,omitempty"`
	StartDate    string   `json:"startDate,omitempty"`
	EndDate      string   `json:"endDate,omitempty"`
	IsCurrent    bool     `json:"isCurrent,omitempty"`
	Technologies []string `json:"technologies"`
	Highlights   []string `json:"highlights"`
}

// Certification is a professional certification
type Certification struct {
	Name           string `json:"name,omitempty"`
	Issuer         string `json:"issuer,omitempty"`
	IssueDate      string `json:"issueDate,omitempty"`
	ExpirationDate string `json:"expirationDate,omitempty"`
	CredentialID   string `json:"credentialId,omitempty"`
	URL            string `json:"url,omitempty"`
}

// Language is a spoken language with a proficiency
type Language struct {
	Name        string `json:"name"`
	Proficiency string `json:"proficiency,omitempty"`
}

// Volunteer is a volunteer position
type Volunteer struct {
	Role         string   `json:"role,omitempty"`
	Organization string   `json:"organization,omitempty"`
	Location     string   `json:"location,omitempty"`
	StartDate    string   `json:"startDate,omitempty"`
	EndDate      string   `json:"endDate,omitempty"`
	IsCurrent    bool     `json:"isCurrent,omitempty"`
	Description  string   `json:"description,omitempty"`
	Achievements []string `json:"achievements"`
}

// Award is an honor or award
type Award struct {
	Title       string `json:"title,omitempty"`
	Issuer      string `json:"issuer,omitempty"`
	Date        string `json:"date,omitempty"`
	Description string `json:"description,omitempty"`
}

// Publication is a paper, article or book
type Publication struct {
	Title       string   `json:"title,omitempty"`
	Publisher   string   `json:"publisher,omitempty"`
	Date        string   `json:"date,omitempty"`
	URL         string   `json:"url,omitempty"`
	Description string   `json:"description,omitempty"`
	Authors     []string `json:"authors"`
}

// Reference is a professional reference
type Reference struct {
	Name         string `json:"name,omitempty"`
	Title        string `json:"title,omitempty"`
	Company      string `json:"company,omitempty"`
	Email        string `json:"email,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Relationship string `json:"relationship,omitempty"`
}

// Hobby is an interest outside work
type Hobby struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// AdditionalSection is a free-form titled section
type AdditionalSection struct {
	Title   string   `json:"title,omitempty"`
	Content string   `json:"content,omitempty"`
	Items   []string `json:"items"`
}
