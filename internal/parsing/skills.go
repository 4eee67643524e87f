package parsing

import (
	"sort"
	"strings"
	"unicode"
)

// skillNormalizations maps lowercase skill spellings to canonical names.
// It is built once and never written to, so concurrent parses share it freely.
// Keys that are also everyday words ("go", "rest", "express") are left out so
// full-text scans do not report them from prose.
var skillNormalizations = map[string]string{
	// languages
	"golang":          "Go",
	"go lang":         "Go",
	"javascript":      "JavaScript",
	"js":              "JavaScript",
	"es6":             "JavaScript",
	"ecmascript":      "JavaScript",
	"typescript":      "TypeScript",
	"ts":              "TypeScript",
	"python":          "Python",
	"python3":         "Python",
	"py":              "Python",
	"java":            "Java",
	"core java":       "Java",
	"c++":             "C++",
	"cpp":             "C++",
	"c#":              "C#",
	"csharp":          "C#",
	"c sharp":         "C#",
	"ruby":            "Ruby",
	"php":             "PHP",
	"kotlin":          "Kotlin",
	"swift":           "Swift",
	"scala":           "Scala",
	"rust":            "Rust",
	"perl":            "Perl",
	"matlab":          "MATLAB",
	"dart":            "Dart",
	"haskell":         "Haskell",
	"elixir":          "Elixir",
	"objective-c":     "Objective-C",
	"bash":            "Bash",
	"shell scripting": "Shell",
	"powershell":      "PowerShell",
	"html":            "HTML",
	"html5":           "HTML",
	"css":             "CSS",
	"css3":            "CSS",
	"sass":            "Sass",
	"scss":            "Sass",
	"sql":             "SQL",
	"pl/sql":          "PL/SQL",
	"graphql":         "GraphQL",
	"solidity":        "Solidity",

	// frontend
	"react":        "React",
	"react.js":     "React",
	"reactjs":      "React",
	"react native": "React Native",
	"angular":      "Angular",
	"angularjs":    "Angular",
	"angular.js":   "Angular",
	"vue":          "Vue",
	"vue.js":       "Vue",
	"vuejs":        "Vue",
	"svelte":       "Svelte",
	"next.js":      "Next.js",
	"nextjs":       "Next.js",
	"nuxt.js":      "Nuxt.js",
	"redux":        "Redux",
	"jquery":       "jQuery",
	"bootstrap":    "Bootstrap",
	"tailwind":     "Tailwind CSS",
	"tailwindcss":  "Tailwind CSS",
	"tailwind css": "Tailwind CSS",
	"material ui":  "Material UI",
	"webpack":      "Webpack",
	"flutter":      "Flutter",

	// backend
	"node.js":       "Node.js",
	"nodejs":        "Node.js",
	"express.js":    "Express",
	"expressjs":     "Express",
	"nestjs":        "NestJS",
	"django":        "Django",
	"flask":         "Flask",
	"fastapi":       "FastAPI",
	"spring boot":   "Spring Boot",
	"springboot":    "Spring Boot",
	"hibernate":     "Hibernate",
	"ruby on rails": "Ruby on Rails",
	"rails":         "Ruby on Rails",
	"laravel":       "Laravel",
	".net":          ".NET",
	"dotnet":        ".NET",
	"asp.net":       "ASP.NET",
	"rest api":      "REST APIs",
	"rest apis":     "REST APIs",
	"restful":       "REST APIs",
	"restful apis":  "REST APIs",
	"grpc":          "gRPC",
	"microservices": "Microservices",
	"kafka":         "Kafka",
	"apache kafka":  "Kafka",
	"rabbitmq":      "RabbitMQ",

	// data stores
	"mysql":         "MySQL",
	"postgresql":    "PostgreSQL",
	"postgres":      "PostgreSQL",
	"psql":          "PostgreSQL",
	"mongodb":       "MongoDB",
	"mongo":         "MongoDB",
	"redis":         "Redis",
	"sqlite":        "SQLite",
	"oracle":        "Oracle",
	"cassandra":     "Cassandra",
	"dynamodb":      "DynamoDB",
	"elasticsearch": "Elasticsearch",
	"firebase":      "Firebase",
	"supabase":      "Supabase",

	// cloud and infrastructure
	"aws":                 "AWS",
	"amazon web services": "AWS",
	"gcp":                 "GCP",
	"google cloud":        "GCP",
	"azure":               "Azure",
	"microsoft azure":     "Azure",
	"docker":              "Docker",
	"kubernetes":          "Kubernetes",
	"k8s":                 "Kubernetes",
	"terraform":           "Terraform",
	"ansible":             "Ansible",
	"jenkins":             "Jenkins",
	"github actions":      "GitHub Actions",
	"ci/cd":               "CI/CD",
	"cicd":                "CI/CD",
	"linux":               "Linux",
	"unix":                "Unix",
	"nginx":               "Nginx",
	"heroku":              "Heroku",
	"vercel":              "Vercel",
	"netlify":             "Netlify",
	"prometheus":          "Prometheus",
	"grafana":             "Grafana",

	// tools
	"git":              "Git",
	"github":           "GitHub",
	"gitlab":           "GitLab",
	"bitbucket":        "Bitbucket",
	"jira":             "Jira",
	"confluence":       "Confluence",
	"postman":          "Postman",
	"vs code":          "VS Code",
	"vscode":           "VS Code",
	"visual studio":    "Visual Studio",
	"intellij":         "IntelliJ IDEA",
	"intellij idea":    "IntelliJ IDEA",
	"eclipse":          "Eclipse",
	"figma":            "Figma",
	"photoshop":        "Photoshop",
	"adobe photoshop":  "Photoshop",
	"ms excel":         "Excel",
	"microsoft excel":  "Excel",
	"ms office":        "Microsoft Office",
	"microsoft office": "Microsoft Office",
	"tableau":          "Tableau",
	"power bi":         "Power BI",
	"powerbi":          "Power BI",
	"jupyter":          "Jupyter",
	"selenium":         "Selenium",
	"jest":             "Jest",
	"junit":            "JUnit",
	"pytest":           "pytest",
	"maven":            "Maven",
	"gradle":           "Gradle",

	// data and ml
	"machine learning":            "Machine Learning",
	"ml":                          "Machine Learning",
	"deep learning":               "Deep Learning",
	"artificial intelligence":     "Artificial Intelligence",
	"natural language processing": "NLP",
	"nlp":                         "NLP",
	"computer vision":             "Computer Vision",
	"data analysis":               "Data Analysis",
	"data structures":             "Data Structures",
	"algorithms":                  "Algorithms",
	"dsa":                         "Data Structures and Algorithms",
	"tensorflow":                  "TensorFlow",
	"pytorch":                     "PyTorch",
	"keras":                       "Keras",
	"scikit-learn":                "scikit-learn",
	"sklearn":                     "scikit-learn",
	"pandas":                      "Pandas",
	"numpy":                       "NumPy",
	"matplotlib":                  "Matplotlib",
	"opencv":                      "OpenCV",
	"hadoop":                      "Hadoop",
	"spark":                       "Apache Spark",
	"apache spark":                "Apache Spark",
	"pyspark":                     "PySpark",
	"llm":                         "LLMs",
	"llms":                        "LLMs",
	"langchain":                   "LangChain",

	// practices
	"oop":                         "OOP",
	"object oriented programming": "OOP",
	"agile":                       "Agile",
	"scrum":                       "Scrum",
	"tdd":                         "TDD",
	"devops":                      "DevOps",
	"system design":               "System Design",
	"distributed systems":         "Distributed Systems",
	"unit testing":                "Unit Testing",
	"ui/ux":                       "UI/UX",
}

// skillKeys is the default candidate list for ExtractSkillsFromText
var skillKeys = func() []string {
	keys := make([]string, 0, len(skillNormalizations))
	for key := range skillNormalizations {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}()

// NormalizeSkill maps a raw skill token to its canonical name, or returns it trimmed when unknown
func NormalizeSkill(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	if canonical, ok := skillNormalizations[strings.ToLower(trimmed)]; ok {
		return canonical
	}
	return trimmed
}

// IsKnownSkill reports whether the token has an entry in the normalization table
func IsKnownSkill(token string) bool {
	_, ok := skillNormalizations[strings.ToLower(strings.TrimSpace(token))]
	return ok
}

// NormalizeSkills canonicalizes every entry and drops case-insensitive duplicates,
// keeping the first-seen order. The result is never nil.
func NormalizeSkills(raw []string) []string {
	out := make([]string, 0, len(raw))
	seen := make(map[string]bool, len(raw))
	for _, skill := range raw {
		normalized := NormalizeSkill(skill)
		if normalized == "" {
			continue
		}
		key := strings.ToLower(normalized)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, normalized)
	}
	return out
}

// ExtractSkillsFromText scans text for every candidate term and returns the
// canonical names found, ordered by first occurrence. With no candidates the
// whole normalization table is used.
func ExtractSkillsFromText(text string, candidates ...string) []string {
	if len(candidates) == 0 {
		candidates = skillKeys
	}

	lower := strings.ToLower(text)
	type hit struct {
		name string
		pos  int
	}
	first := make(map[string]hit)

	for _, candidate := range candidates {
		term := strings.ToLower(strings.TrimSpace(candidate))
		if term == "" {
			continue
		}
		pos := findTerm(lower, term)
		if pos < 0 {
			continue
		}
		name := NormalizeSkill(candidate)
		key := strings.ToLower(name)
		if prev, ok := first[key]; !ok || pos < prev.pos {
			first[key] = hit{name: name, pos: pos}
		}
	}

	hits := make([]hit, 0, len(first))
	for _, h := range first {
		hits = append(hits, h)
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].pos != hits[j].pos {
			return hits[i].pos < hits[j].pos
		}
		return hits[i].name < hits[j].name
	})

	out := make([]string, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.name)
	}
	return out
}

// findTerm returns the byte offset of the first bounded occurrence of term in text, or -1
func findTerm(text, term string) int {
	offset := 0
	for {
		idx := strings.Index(text[offset:], term)
		if idx < 0 {
			return -1
		}
		start := offset + idx
		end := start + len(term)
		if boundaryBefore(text, start) && boundaryAfter(text, end) {
			return start
		}
		offset = start + 1
	}
}

// isTermRune treats '+' and '#' as part of a token so "c" never matches inside "c++"
func isTermRune(r byte) bool {
	return isAlnum(r) || r == '+' || r == '#'
}

func isAlnum(r byte) bool {
	return r < 0x80 && (unicode.IsLetter(rune(r)) || unicode.IsDigit(rune(r)))
}

func boundaryBefore(text string, start int) bool {
	if start == 0 {
		return true
	}
	prev := text[start-1]
	if prev == '.' {
		// ".net" style terms and "node.js" must not match in the middle of a dotted word
		return start < 2 || !isAlnum(text[start-2])
	}
	return !isTermRune(prev)
}

func boundaryAfter(text string, end int) bool {
	if end >= len(text) {
		return true
	}
	next := text[end]
	if next == '.' {
		// sentence-ending period is a boundary, "react.js" is not
		return end+1 >= len(text) || !isAlnum(text[end+1])
	}
	return !isTermRune(next)
}
