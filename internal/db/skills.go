package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jonathan/resume-parser/internal/parsing"
)

// NormalizeSkillName normalizes a skill name for matching. Known aliases
// collapse to one key, so "golang" and "Go" share a row.
func NormalizeSkillName(name string) string {
	return strings.ToLower(parsing.NormalizeSkill(name))
}

// skillCategoryRule matches either the whole normalized name or a substring of it
type skillCategoryRule struct {
	category string
	exact    []string
	contains []string
}

// Rules are checked in order; the first hit wins.
var skillCategoryRules = []skillCategoryRule{
	{
		category: SkillCategoryProgramming,
		exact: []string{"go", "python", "java", "rust", "c++", "c#", "ruby", "scala", "kotlin", "swift",
			"javascript", "typescript", "js", "ts", "php", "r", "julia", "c", "perl", "haskell", "erlang",
			"elixir", "dart", "matlab", "bash", "shell", "objective-c", "lua", "solidity", "html", "css"},
	},
	{
		category: SkillCategoryFramework,
		exact:    []string{"gin", "echo", "fiber", "next"},
		contains: []string{"react", "vue", "angular", "django", "flask", "spring", "rails", "express",
			"fastapi", "next.js", "nuxt", "svelte", "laravel", "asp.net", ".net", "node.js",
			"flutter", "tailwind", "bootstrap", "jquery", "graphql"},
	},
	{
		category: SkillCategoryDatabase,
		contains: []string{"postgres", "mysql", "mongodb", "redis", "elasticsearch", "cassandra", "dynamodb",
			"sqlite", "oracle", "sql server", "mariadb", "cockroachdb", "neo4j", "firebase", "sql"},
	},
	{
		category: SkillCategoryCloud,
		contains: []string{"aws", "gcp", "google cloud", "azure", "kubernetes", "k8s", "docker", "terraform",
			"cloudformation", "pulumi", "heroku", "vercel", "netlify"},
	},
	{
		category: SkillCategoryData,
		contains: []string{"machine learning", "deep learning", "tensorflow", "pytorch", "keras", "pandas",
			"numpy", "scikit", "spark", "hadoop", "kafka", "airflow", "tableau", "power bi", "nlp",
			"computer vision", "data analysis"},
	},
	{
		category: SkillCategoryTool,
		exact:    []string{"git"},
		contains: []string{"github", "gitlab", "jenkins", "jira", "confluence", "datadog", "grafana", "prometheus", "splunk",
			"kibana", "ansible", "chef", "puppet", "postman", "figma", "linux", "excel", "vs code", "ci/cd"},
	},
	{
		category: SkillCategorySoftSkill,
		contains: []string{"leadership", "communication", "mentoring", "collaboration", "problem-solving",
			"problem solving", "teamwork", "management", "agile", "scrum"},
	},
}

// DetectSkillCategory attempts to categorize a skill
func DetectSkillCategory(skillName string) string {
	normalized := NormalizeSkillName(skillName)
	if normalized == "" {
		return SkillCategoryOther
	}

	for _, rule := range skillCategoryRules {
		for _, name := range rule.exact {
			if normalized == name {
				return rule.category
			}
		}
		for _, fragment := range rule.contains {
			if strings.Contains(normalized, fragment) {
				return rule.category
			}
		}
	}
	return SkillCategoryOther
}

// FindOrCreateSkill finds an existing skill or creates a new one
func (db *DB) FindOrCreateSkill(ctx context.Context, skillName string) (*Skill, error) {
	return findOrCreateSkill(ctx, db.pool, skillName)
}

// queryRower is satisfied by both the pool and a transaction
type queryRower interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func findOrCreateSkill(ctx context.Context, q queryRower, skillName string) (*Skill, error) {
	normalized := NormalizeSkillName(skillName)
	if normalized == "" {
		return nil, fmt.Errorf("skill name cannot be empty")
	}
	category := DetectSkillCategory(skillName)

	var skill Skill
	err := q.QueryRow(ctx,
		`INSERT INTO skills (name, name_normalized, category)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (name_normalized) DO UPDATE SET name = skills.name
		 RETURNING id, name, name_normalized, category, created_at`,
		parsing.NormalizeSkill(skillName), normalized, category,
	).Scan(&skill.ID, &skill.Name, &skill.NameNormalized, &skill.Category, &skill.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to find or create skill %s: %w", skillName, err)
	}
	return &skill, nil
}

// GetSkillByName retrieves a skill by its normalized name
func (db *DB) GetSkillByName(ctx context.Context, name string) (*Skill, error) {
	var skill Skill
	err := db.pool.QueryRow(ctx,
		`SELECT id, name, name_normalized, category, created_at
		 FROM skills WHERE name_normalized = $1`,
		NormalizeSkillName(name),
	).Scan(&skill.ID, &skill.Name, &skill.NameNormalized, &skill.Category, &skill.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get skill: %w", err)
	}
	return &skill, nil
}

// ListSkills retrieves all skills, optionally filtered by category
func (db *DB) ListSkills(ctx context.Context, category string) ([]Skill, error) {
	query := `SELECT id, name, name_normalized, category, created_at FROM skills`
	args := []any{}
	if category != "" {
		query += ` WHERE category = $1`
		args = append(args, category)
	}
	query += ` ORDER BY name_normalized`

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list skills: %w", err)
	}
	defer rows.Close()

	var skills []Skill
	for rows.Next() {
		var s Skill
		if err := rows.Scan(&s.ID, &s.Name, &s.NameNormalized, &s.Category, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan skill: %w", err)
		}
		skills = append(skills, s)
	}
	return skills, rows.Err()
}

// ListResumeSkills retrieves the skills and tools linked to a parsed résumé
func (db *DB) ListResumeSkills(ctx context.Context, resumeID uuid.UUID) ([]ResumeSkill, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT s.id, s.name, s.name_normalized, s.category, s.created_at, rs.kind
		 FROM resume_skills rs
		 JOIN skills s ON s.id = rs.skill_id
		 WHERE rs.resume_id = $1
		 ORDER BY rs.kind, s.name_normalized`,
		resumeID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list resume skills: %w", err)
	}
	defer rows.Close()

	var skills []ResumeSkill
	for rows.Next() {
		var rs ResumeSkill
		if err := rows.Scan(&rs.ID, &rs.Name, &rs.NameNormalized, &rs.Category, &rs.CreatedAt, &rs.Kind); err != nil {
			return nil, fmt.Errorf("failed to scan resume skill: %w", err)
		}
		skills = append(skills, rs)
	}
	return skills, rows.Err()
}
