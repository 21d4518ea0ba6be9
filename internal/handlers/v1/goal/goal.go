package goal

import (
	"time"

	"github.com/FBLACOMPBG2024/ledger-server/internal/service"
)

// Goal is the API response model for a savings goal.
type Goal struct {
	ID          string `json:"id" doc:"Goal UUID"`
	Name        string `json:"name" doc:"Name of the goal"`
	TargetValue string `json:"targetValue" doc:"Decimal target amount"`
	TargetDate  string `json:"targetDate,omitempty" doc:"RFC3339 target date"`
	Progress    string `json:"progress" doc:"Balance-to-target ratio, clamped to [0, 1]"`
	CreatedAt   string `json:"createdAt" doc:"RFC3339 record creation time"`
}

func fromService(g service.Goal) Goal {
	converted := Goal{
		ID:          g.ID.String(),
		Name:        g.Name,
		TargetValue: g.TargetValue.String(),
		Progress:    g.Progress.String(),
		CreatedAt:   g.CreatedAt.Format(time.RFC3339),
	}
	if !g.TargetDate.IsZero() {
		converted.TargetDate = g.TargetDate.Format(time.RFC3339)
	}
	return converted
}
