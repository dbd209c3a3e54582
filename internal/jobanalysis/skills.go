package jobanalysis

import (
	"sort"
	"strings"
)

// skill is one canonical vocabulary entry. caseSensitive entries are common
// English words ("Go") that only count when written as the skill.
type skill struct {
	canonical     string
	aliases       []string
	caseSensitive bool
}

// vocabulary is the canonical skill set used for normalization and for
// detecting skills in free text. Detection matches aliases only, so a
// canonical name that is also an everyday word ("Excel", "REST") is left out
// of its alias list.
var vocabulary = []skill{
	{canonical: "Go", aliases: []string{"golang", "go lang"}},
	{canonical: "Go", aliases: []string{"Go"}, caseSensitive: true},
	{canonical: "Python", aliases: []string{"python"}},
	{canonical: "Java", aliases: []string{"java"}},
	{canonical: "JavaScript", aliases: []string{"javascript", "js", "ecmascript"}},
	{canonical: "TypeScript", aliases: []string{"typescript", "ts"}},
	{canonical: "C++", aliases: []string{"c++", "cpp"}},
	{canonical: "C#", aliases: []string{"c#", "csharp"}},
	{canonical: "Rust", aliases: []string{"rust"}},
	{canonical: "Ruby", aliases: []string{"ruby"}},
	{canonical: "Ruby on Rails", aliases: []string{"rails", "ruby on rails"}},
	{canonical: "PHP", aliases: []string{"php"}},
	{canonical: "Kotlin", aliases: []string{"kotlin"}},
	{canonical: "Swift", aliases: []string{"swift"}},
	{canonical: "Scala", aliases: []string{"scala"}},
	{canonical: "SQL", aliases: []string{"sql"}},
	{canonical: "PostgreSQL", aliases: []string{"postgresql", "postgres"}},
	{canonical: "MySQL", aliases: []string{"mysql"}},
	{canonical: "MongoDB", aliases: []string{"mongodb", "mongo"}},
	{canonical: "Redis", aliases: []string{"redis"}},
	{canonical: "Elasticsearch", aliases: []string{"elasticsearch", "elastic search"}},
	{canonical: "Kafka", aliases: []string{"kafka", "apache kafka"}},
	{canonical: "RabbitMQ", aliases: []string{"rabbitmq"}},
	{canonical: "Spark", aliases: []string{"spark", "apache spark", "pyspark"}},
	{canonical: "AWS", aliases: []string{"aws", "amazon web services"}},
	{canonical: "GCP", aliases: []string{"gcp", "google cloud", "google cloud platform"}},
	{canonical: "Azure", aliases: []string{"azure", "microsoft azure"}},
	{canonical: "Docker", aliases: []string{"docker"}},
	{canonical: "Kubernetes", aliases: []string{"kubernetes", "k8s"}},
	{canonical: "Terraform", aliases: []string{"terraform"}},
	{canonical: "Ansible", aliases: []string{"ansible"}},
	{canonical: "Linux", aliases: []string{"linux"}},
	{canonical: "Git", aliases: []string{"git"}},
	{canonical: "CI/CD", aliases: []string{"ci/cd", "continuous integration", "continuous delivery"}},
	{canonical: "GraphQL", aliases: []string{"graphql"}},
	{canonical: "REST", aliases: []string{"restful", "rest api", "rest apis"}},
	{canonical: "gRPC", aliases: []string{"grpc"}},
	{canonical: "React", aliases: []string{"react", "react.js", "reactjs"}},
	{canonical: "Vue", aliases: []string{"vue", "vue.js", "vuejs"}},
	{canonical: "Angular", aliases: []string{"angular"}},
	{canonical: "Node.js", aliases: []string{"node.js", "nodejs"}},
	{canonical: "Django", aliases: []string{"django"}},
	{canonical: "Flask", aliases: []string{"flask"}},
	{canonical: "Spring", aliases: []string{"spring boot", "spring framework"}},
	{canonical: "Machine Learning", aliases: []string{"machine learning", "ml"}},
	{canonical: "TensorFlow", aliases: []string{"tensorflow"}},
	{canonical: "PyTorch", aliases: []string{"pytorch"}},
	{canonical: "Pandas", aliases: []string{"pandas"}},
	{canonical: "Tableau", aliases: []string{"tableau"}},
	{canonical: "Excel", aliases: []string{"microsoft excel", "ms excel"}},
	{canonical: "Figma", aliases: []string{"figma"}},
	{canonical: "Agile", aliases: []string{"agile", "scrum"}},
	{canonical: "Microservices", aliases: []string{"microservices", "microservice"}},
	{canonical: "Prometheus", aliases: []string{"prometheus"}},
	{canonical: "Grafana", aliases: []string{"grafana"}},
}

// canonicalByAlias maps a lower-cased alias to its canonical name
var canonicalByAlias = func() map[string]string {
	m := make(map[string]string)
	for _, s := range vocabulary {
		if s.caseSensitive {
			continue
		}
		for _, a := range s.aliases {
			m[strings.ToLower(a)] = s.canonical
		}
		m[strings.ToLower(s.canonical)] = s.canonical
	}
	return m
}()

// NormalizeSkillName returns the canonical form of a skill name. Unknown
// names keep their casing unless they are a single all-lowercase word, which
// gets a leading capital.
func NormalizeSkillName(name string) string {
	normalized := strings.Join(strings.Fields(name), " ")
	if normalized == "" {
		return ""
	}
	lower := strings.ToLower(normalized)
	if canonical, ok := canonicalByAlias[lower]; ok {
		return canonical
	}
	if normalized == lower && !strings.Contains(normalized, " ") {
		return strings.ToUpper(normalized[:1]) + normalized[1:]
	}
	return normalized
}

// NormalizeSkills canonicalizes names and drops case-insensitive duplicates,
// keeping first-seen order
func NormalizeSkills(names []string) []string {
	out := make([]string, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		c := NormalizeSkillName(n)
		key := strings.ToLower(c)
		if c == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, c)
	}
	return out
}

// DetectSkills scans free text for vocabulary skills and returns their
// canonical names, sorted
func DetectSkills(text string) []string {
	if strings.TrimSpace(text) == "" {
		return []string{}
	}
	lower := strings.ToLower(text)
	found := make(map[string]bool)
	for _, s := range vocabulary {
		if found[s.canonical] {
			continue
		}
		for _, a := range s.aliases {
			var hit bool
			if s.caseSensitive {
				hit = containsTerm(text, a)
			} else {
				hit = containsTerm(lower, strings.ToLower(a))
			}
			if hit {
				found[s.canonical] = true
				break
			}
		}
	}

	out := make([]string, 0, len(found))
	for name := range found {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// containsTerm reports whether term occurs in text bounded by non-word
// characters, so "java" does not match "javascript"
func containsTerm(text, term string) bool {
	for from := 0; from < len(text); {
		idx := strings.Index(text[from:], term)
		if idx < 0 {
			return false
		}
		start := from + idx
		end := start + len(term)
		if (start == 0 || !isWordByte(text[start-1])) && (end == len(text) || !isWordByte(text[end])) {
			return true
		}
		from = start + 1
	}
	return false
}

func isWordByte(c byte) bool {
	return c == '_' || c == '+' || c == '#' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
