package types

// ExperienceBank is the story-per-job export of a parsed résumé's experience
type ExperienceBank struct {
	Stories []Story `json:"stories"`
}

// Story is one experience entry. IDs are story_NNN in résumé order.
type Story struct {
	ID        string   `json:"id"`
	Company   string   `json:"company"`
	Role      string   `json:"role"`
	StartDate string   `json:"start_date"`
	EndDate   string   `json:"end_date"`
	Bullets   []Bullet `json:"bullets"`
}

// Bullet is one sentence of an entry's description with the skills and
// figures found in it
type Bullet struct {
	ID               string   `json:"id"`
	Text             string   `json:"text"`
	Skills           []string `json:"skills"`
	Metrics          string   `json:"metrics,omitempty"`
	LengthChars      int      `json:"length_chars"`
	EvidenceStrength string   `json:"evidence_strength"`
	RiskFlags        []string `json:"risk_flags"`
}

// BulletCount returns the number of bullets across all stories
func (b *ExperienceBank) BulletCount() int {
	n := 0
	for _, story := range b.Stories {
		n += len(story.Bullets)
	}
	return n
}

// StrengthCounts tallies the story's bullets by evidence strength
func (s Story) StrengthCounts() map[string]int {
	counts := make(map[string]int, 3)
	for _, bullet := range s.Bullets {
		counts[bullet.EvidenceStrength]++
	}
	return counts
}
