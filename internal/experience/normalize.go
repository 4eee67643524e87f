package experience

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/resume-parser/internal/parsing"
	"github.com/jonathan/resume-parser/internal/types"
)

// NormalizeExperienceBank canonicalizes skills, fills missing lengths and
// lowercases evidence strengths. It stops at the first invalid strength.
func NormalizeExperienceBank(bank *types.ExperienceBank) error {
	NormalizeSkills(bank)
	ComputeLengthChars(bank)
	return ValidateEvidenceStrength(bank)
}

// NormalizeSkills canonicalizes skill names in all bullets and deduplicates them.
// Nil skill and risk-flag lists become empty lists.
func NormalizeSkills(bank *types.ExperienceBank) {
	for i := range bank.Stories {
		for j := range bank.Stories[i].Bullets {
			bullet := &bank.Stories[i].Bullets[j]
			bullet.Skills = parsing.NormalizeSkills(bullet.Skills)
			if bullet.RiskFlags == nil {
				bullet.RiskFlags = []string{}
			}
		}
	}
}

// ComputeLengthChars sets LengthChars to the rune count of the bullet text
// where it is unset
func ComputeLengthChars(bank *types.ExperienceBank) {
	for i := range bank.Stories {
		for j := range bank.Stories[i].Bullets {
			bullet := &bank.Stories[i].Bullets[j]
			if bullet.LengthChars == 0 {
				bullet.LengthChars = utf8.RuneCountInString(bullet.Text)
			}
		}
	}
}

var validStrengths = map[string]bool{
	EvidenceStrengthHigh:   true,
	EvidenceStrengthMedium: true,
	EvidenceStrengthLow:    true,
}

// ValidateEvidenceStrength lowercases every evidence strength and rejects
// values other than high, medium and low
func ValidateEvidenceStrength(bank *types.ExperienceBank) error {
	for i, story := range bank.Stories {
		for j, bullet := range story.Bullets {
			strength := strings.ToLower(strings.TrimSpace(bullet.EvidenceStrength))
			if !validStrengths[strength] {
				return &NormalizationError{
					StoryID:  story.ID,
					BulletID: bullet.ID,
					Message:  fmt.Sprintf("invalid evidence_strength '%s'", bullet.EvidenceStrength),
				}
			}
			bank.Stories[i].Bullets[j].EvidenceStrength = strength
		}
	}
	return nil
}
