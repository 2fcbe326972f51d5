package booking

// Role is the authorization role carried by an authenticated user.
type Role string

const (
	RoleOwner     Role = "owner"
	RoleRenter    Role = "renter"
	RolePassenger Role = "passenger"
	RoleAdmin     Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleOwner, RoleRenter, RolePassenger, RoleAdmin:
		return true
	}
	return false
}

// Actor identifies the caller of a core operation. The identity layer supplies
// it; the core never sees credentials or tokens.
type Actor struct {
	ID   int
	Role Role
}

type Operation string

const (
	OpVehicleCreate Operation = "vehicle.create"
	OpVehicleUpdate Operation = "vehicle.update"
	OpVehicleDelete Operation = "vehicle.delete"
	OpVehicleList   Operation = "vehicle.list"

	OpRentalCreate Operation = "rental.create"
	OpRentalUpdate Operation = "rental.update"
	OpRentalDelete Operation = "rental.delete"
	OpRentalList   Operation = "rental.list"

	OpRideCreate Operation = "ride.create"
	OpRideUpdate Operation = "ride.update"
	OpRideDelete Operation = "ride.delete"
	OpRideJoin   Operation = "ride.join"
	OpRideList   Operation = "ride.list"

	OpReviewCreate Operation = "review.create"
	OpReviewUpdate Operation = "review.update"
	OpReviewDelete Operation = "review.delete"
)

type decision int

const (
	deny decision = iota
	allowOwn
	allow
)

// policy is the single role/operation matrix every service consults before
// mutating. Roles missing from an operation's row are denied.
var policy = map[Operation]map[Role]decision{
	OpVehicleCreate: {RoleOwner: allow, RoleAdmin: allow},
	OpVehicleUpdate: {RoleOwner: allowOwn, RoleAdmin: allow},
	OpVehicleDelete: {RoleOwner: allowOwn, RoleAdmin: allow},
	OpVehicleList:   {RoleOwner: allow, RoleRenter: allow, RoleAdmin: allow},

	OpRentalCreate: {RoleRenter: allow, RoleAdmin: allow},
	OpRentalUpdate: {RoleRenter: allowOwn, RoleAdmin: allow},
	OpRentalDelete: {RoleRenter: allowOwn, RoleAdmin: allow},
	OpRentalList:   {RoleOwner: allow, RoleRenter: allow, RoleAdmin: allow},

	OpRideCreate: {RoleRenter: allow, RoleAdmin: allow},
	OpRideUpdate: {RoleRenter: allowOwn, RoleAdmin: allow},
	OpRideDelete: {RoleRenter: allowOwn, RoleAdmin: allow},
	// Joining is strictly a passenger action; admins administrate, they do
	// not occupy seats.
	OpRideJoin: {RolePassenger: allow},
	OpRideList: {RoleRenter: allow, RolePassenger: allow, RoleAdmin: allow},

	OpReviewCreate: {RoleOwner: allow, RoleRenter: allow, RolePassenger: allow, RoleAdmin: allow},
	OpReviewUpdate: {RoleOwner: allowOwn, RoleRenter: allowOwn, RolePassenger: allowOwn, RoleAdmin: allow},
	OpReviewDelete: {RoleOwner: allowOwn, RoleRenter: allowOwn, RolePassenger: allowOwn, RoleAdmin: allow},
}

// Allowed reports whether role may perform op. owns tells the policy whether
// the actor created the resource being touched; it is ignored for operations
// that are not ownership-scoped.
func Allowed(role Role, op Operation, owns bool) bool {
	d, ok := policy[op][role]
	if !ok {
		return false
	}
	switch d {
	case allow:
		return true
	case allowOwn:
		return owns
	default:
		return false
	}
}
