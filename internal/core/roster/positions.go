package roster

type PositionType string

const (
	PositionRequired PositionType = "required"
	PositionOptional PositionType = "optional"
)

// Position is a named seat that holds at most one employee per day.
type Position struct {
	ID   string       `json:"id"`
	Name string       `json:"name"`
	Time string       `json:"time"`
	Type PositionType `json:"type"`
}

var Positions = []Position{
	{ID: "morning-bartender", Name: "Šanker 1", Time: "8-16", Type: PositionRequired},
	{ID: "morning-waiter", Name: "Konobar 1", Time: "8-16", Type: PositionRequired},
	{ID: "split-waiter", Name: "Konobar 2", Time: "10-14 i 18-22", Type: PositionRequired},
	{ID: "evening-bartender", Name: "Šanker 2", Time: "16-24", Type: PositionRequired},
	{ID: "evening-waiter", Name: "Konobar 3", Time: "16-24", Type: PositionRequired},
	{ID: "extra-waiter-1", Name: "Konobar 4", Time: "18-22", Type: PositionOptional},
	{ID: "extra-waiter-2", Name: "Konobar 5", Time: "18-22", Type: PositionOptional},
	{ID: "extra-waiter-3", Name: "Konobar 6", Time: "18-22", Type: PositionOptional},
	{ID: "afternoon-shift", Name: "Dodatno", Time: "14-22", Type: PositionOptional},
}

func PositionByID(id string) (Position, bool) {
	for _, p := range Positions {
		if p.ID == id {
			return p, true
		}
	}
	return Position{}, false
}
