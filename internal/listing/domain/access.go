package domain

// Principal is the authenticated actor behind a request, as established by
// the auth middleware. A zero Principal is unauthenticated.
type Principal struct {
	ID       string
	Username string
}

func (p Principal) Authenticated() bool {
	return p.ID != ""
}

// CanModify decides whether the principal may edit or delete the listing.
// Only the author may; everyone authenticated may toggle a like.
func CanModify(p Principal, l *Listing) error {
	if !p.Authenticated() {
		return ErrForbidden
	}
	if l.Author.ID != p.ID {
		return ErrForbidden
	}
	return nil
}
