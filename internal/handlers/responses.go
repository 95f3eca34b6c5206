package handlers

import "time"

// SessionResponse describes the signed-in supervisor
type SessionResponse struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// RoutineResetResponse is the response for a manual routine reset
type RoutineResetResponse struct {
	Leaders int       `json:"leaders"`
	ResetAt time.Time `json:"resetAt"`
}

// StatusResponse reports runtime details shown on the settings panel
type StatusResponse struct {
	CoachingStrategy string     `json:"coachingStrategy"`
	ConnectedClients int        `json:"connectedClients"`
	LastRoutineReset *time.Time `json:"lastRoutineReset,omitempty"`
}
