package agents

// Skill is a hunter's specialization. It biases target selection and
// resource drain; the coefficients come from scenario configuration.
type Skill uint8

const (
	SkillNavigation Skill = iota // Wider sight, favors proximity and memory
	SkillEndurance               // Cheaper movement, favors value over distance
	SkillStealth                 // Avoids treasures with knights nearby
)

// AllSkills lists every skill in declaration order.
var AllSkills = []Skill{SkillNavigation, SkillEndurance, SkillStealth}

func (s Skill) String() string {
	switch s {
	case SkillEndurance:
		return "endurance"
	case SkillStealth:
		return "stealth"
	default:
		return "navigation"
	}
}
