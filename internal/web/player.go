package web

import (
	"net/http"
	"time"

	"skillboard/internal/back"
)

// playerResource hides the Discord member ID of registered players, the
// public API only ever exposes in-game data.
type playerResource struct {
	DisplayName       string
	BarUsername       string
	Skill             interface{}
	SkillUncertainty  interface{}
	LastSkillUpdateAt interface{}
}

func newPlayerResource(p back.Player) playerResource {
	ret := playerResource{
		DisplayName: p.DisplayName,
		BarUsername: p.BarUsername,
	}

	if p.Skill.Valid {
		ret.Skill = p.Skill.Float64
	}
	if p.SkillUncertainty.Valid {
		ret.SkillUncertainty = p.SkillUncertainty.Float64
	}
	if p.LastSkillUpdateAt.Valid {
		ret.LastSkillUpdateAt = p.LastSkillUpdateAt.Time.Time()
	}

	return ret
}

func (s *Server) getPlayers(w http.ResponseWriter, _ *http.Request) {
	players, err := s.back.GetPlayers()
	if err != nil {
		s.error(w, err, http.StatusInternalServerError)
		return
	}

	resources := make([]playerResource, 0, len(players))
	for _, v := range players {
		resources = append(resources, newPlayerResource(v))
	}

	s.cache(w, "public", 1*time.Minute)
	s.response(w, http.StatusOK, map[string]interface{}{
		"players": resources,
	})
}
