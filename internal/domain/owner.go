package domain

// OwnerKind discriminates who a cart or order belongs to.
type OwnerKind string

const (
	OwnerUser  OwnerKind = "user"
	OwnerGuest OwnerKind = "guest"
	OwnerNone  OwnerKind = "none"
)

// Owner is the resolved identity behind a request: a durable user, a
// cookie-carried guest, or nobody. Exactly one kind holds at a time;
// construct values through UserOwner/GuestOwner so the invariant cannot
// be broken by setting both ids.
type Owner struct {
	kind OwnerKind
	id   string
}

// NoOwner is the zero identity for anonymous requests with no guest
// token established yet.
var NoOwner = Owner{kind: OwnerNone}

func UserOwner(userID string) Owner {
	return Owner{kind: OwnerUser, id: userID}
}

func GuestOwner(guestID string) Owner {
	return Owner{kind: OwnerGuest, id: guestID}
}

func (o Owner) Kind() OwnerKind {
	if o.kind == "" {
		return OwnerNone
	}
	return o.kind
}

func (o Owner) IsNone() bool { return o.Kind() == OwnerNone }

// UserID returns the user id and true when the owner is a user.
func (o Owner) UserID() (string, bool) {
	if o.kind != OwnerUser {
		return "", false
	}
	return o.id, true
}

// GuestID returns the guest id and true when the owner is a guest.
func (o Owner) GuestID() (string, bool) {
	if o.kind != OwnerGuest {
		return "", false
	}
	return o.id, true
}
