package web

import (
	"net/http"
	"time"
)

func (s *Server) getLeaderboard(w http.ResponseWriter, _ *http.Request) {
	leaderboard, err := s.back.GetLeaderboard()
	if err != nil {
		s.error(w, err, http.StatusInternalServerError)
		return
	}

	s.cache(w, "public", 1*time.Minute)
	s.response(w, http.StatusOK, map[string]interface{}{
		"leaderboard": leaderboard,
	})
}
