// Hideout recruitment: a hideout hosting hunters of more than one skill
// occasionally trains a new recruit, who starts with the hideout's pooled
// knowledge. Dynamic entity creation goes through the spawner so ids stay
// unique for the run's lifetime.
package engine

import (
	"sort"

	"github.com/talgya/eldoria/internal/agents"
	"github.com/talgya/eldoria/internal/scenario"
)

func (s *Simulation) recruit(sum *TickSummary) {
	rc := s.cfg.Recruitment
	if !rc.Enabled {
		return
	}

	for _, oid := range s.hideoutIDs {
		o := s.hideouts[oid]

		skills := make(map[agents.Skill]bool)
		present := 0
		for _, id := range s.hunterIDs {
			h := s.hunters[id]
			if h.Alive && h.HideoutID == oid && h.Pos == o.Pos {
				skills[h.Skill] = true
				present++
			}
		}
		if len(skills) < 2 || present >= rc.MaxPerHideout {
			continue
		}
		if s.rng.Float64() >= rc.Chance {
			continue
		}

		// The recruit learns one of the skills on hand.
		distinct := make([]agents.Skill, 0, len(skills))
		for sk := range skills {
			distinct = append(distinct, sk)
		}
		sort.Slice(distinct, func(i, j int) bool { return distinct[i] < distinct[j] })
		chosen := distinct[s.rng.Intn(len(distinct))]

		team := s.teams[o.TeamID]
		weights := scenario.SkillWeights{}
		switch chosen {
		case agents.SkillNavigation:
			weights.Navigation = 1
		case agents.SkillEndurance:
			weights.Endurance = 1
		default:
			weights.Stealth = 1
		}

		h := s.spawner.SpawnHunter(s.cfg, team, o, weights)
		h.Memory.Merge(o.Known, s.cfg.Policy.MemoryCap)
		s.hunters[h.ID] = h
		s.hunterIDs = append(s.hunterIDs, h.ID)

		sum.Recruited = append(sum.Recruited, h.ID)
		sum.Events = append(sum.Events, Event{
			Tick:        s.tick,
			Category:    "recruit",
			Description: "team " + team.Name + " recruited a " + chosen.String() + " hunter",
		})
	}
}
