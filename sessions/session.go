package sessions

// CurrentVersion is the layout version written alongside every saved session.
const CurrentVersion = 1

// RoleByParking grants a role scoped to one parking facility.
type RoleByParking struct {
	ParkingID int64  `json:"parkingId"`
	Role      string `json:"role"`
}

// AuthSession is the authenticated client state created by a successful OTP verification.
// Values are handed out by copy; use Clone before changing RolesByParking.
type AuthSession struct {
	Version        int             // Layout version, CurrentVersion on save
	Token          string          // Bearer token sent on every API call
	Username       string          // Name the user logged in with (not taken from the server)
	UserID         int64           // Authenticated user id, also the client id for vehicle queries
	PersonID       int64           // Person record behind the user
	RolesByParking []RoleByParking // Ordered role associations
}

func (s AuthSession) Clone() AuthSession {
	if s.RolesByParking != nil {
		roles := make([]RoleByParking, len(s.RolesByParking))
		copy(roles, s.RolesByParking)
		s.RolesByParking = roles
	}
	return s
}

// DefaultParkingID returns the parking id of the first role association.
func (s AuthSession) DefaultParkingID() (int64, bool) {
	if len(s.RolesByParking) == 0 {
		return 0, false
	}
	return s.RolesByParking[0].ParkingID, true
}

