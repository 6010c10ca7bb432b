package domain

// CtxKey names a request-scoped value set by the auth middleware. The same
// key is set twice, as string on the gin context and as CtxKey on the request
// context, so both handler code and usecases can read the actor.
type CtxKey string

const (
	KeyUserID    CtxKey = "UserID"
	KeyUserEmail CtxKey = "Email"
	// KeyUserRole holds the role as loaded from the user store for this
	// request, not the role claim carried by the token.
	KeyUserRole CtxKey = "Role"
)
