package pose

// Role identifies one of the two player slots.
type Role int

const (
	RoleNone Role = iota
	Player1
	Player2
)

// Roles lists the player slots in assignment order.
var Roles = [...]Role{Player1, Player2}

func (r Role) String() string {
	switch r {
	case Player1:
		return "PLAYER_1"
	case Player2:
		return "PLAYER_2"
	default:
		return "NONE"
	}
}

// Index maps Player1/Player2 to 0/1 and anything else to -1.
func (r Role) Index() int {
	switch r {
	case Player1:
		return 0
	case Player2:
		return 1
	default:
		return -1
	}
}

// Opponent returns the other player slot.
func (r Role) Opponent() Role {
	switch r {
	case Player1:
		return Player2
	case Player2:
		return Player1
	default:
		return RoleNone
	}
}

// MarshalText lets roles appear by name in JSON payloads.
func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}
