package rendering

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jonathan/resume-markup/internal/types"
)

// Labels used when an entry carries no category or proficiency
const (
	DefaultSkillLabel    = "Skills"
	DefaultLanguageLabel = "Languages"
)

// Group is one labelled, comma-joined list of names
type Group struct {
	Label string
	Names []string
}

// Markup renders the group as a single \skillgroup command
func (g Group) Markup() string {
	return Command("skillgroup",
		Arg{"label", g.Label},
		Arg{"items", strings.Join(g.Names, ", ")},
	)
}

var titleCaser = cases.Title(language.English, cases.NoLower)

// Label capitalizes a category or proficiency for display. Acronyms such as
// "AWS" keep their case.
func Label(s string) string {
	return titleCaser.String(CollapseWhitespace(s))
}

// GroupSkills buckets skills by category in first-seen order. Categories are
// compared case-insensitively and duplicate names within a bucket are dropped.
func GroupSkills(skills []types.Skill) []Group {
	g := newGrouper(DefaultSkillLabel)
	for _, s := range skills {
		g.add(s.Category, s.Name)
	}
	return g.groups()
}

// GroupLanguages buckets languages by proficiency
func GroupLanguages(langs []types.Language) []Group {
	g := newGrouper(DefaultLanguageLabel)
	for _, l := range langs {
		g.add(l.Proficiency, l.Name)
	}
	return g.groups()
}

type grouper struct {
	fallback string
	order    []string
	buckets  map[string]*Group
	seen     map[string]map[string]bool
}

func newGrouper(fallback string) *grouper {
	return &grouper{
		fallback: fallback,
		buckets:  make(map[string]*Group),
		seen:     make(map[string]map[string]bool),
	}
}

func (g *grouper) add(category, name string) {
	name = CollapseWhitespace(name)
	if name == "" {
		return
	}
	label := Label(category)
	if label == "" {
		label = g.fallback
	}
	key := strings.ToLower(label)

	bucket, ok := g.buckets[key]
	if !ok {
		bucket = &Group{Label: label}
		g.buckets[key] = bucket
		g.seen[key] = make(map[string]bool)
		g.order = append(g.order, key)
	}
	if g.seen[key][strings.ToLower(name)] {
		return
	}
	g.seen[key][strings.ToLower(name)] = true
	bucket.Names = append(bucket.Names, name)
}

func (g *grouper) groups() []Group {
	out := make([]Group, 0, len(g.order))
	for _, key := range g.order {
		out = append(out, *g.buckets[key])
	}
	return out
}
