package contextkeys

type contextKey string

// DBContextKey holds the request's *gorm.DB
const DBContextKey = contextKey("db")

// Keys set by the auth middleware on the gin context
const (
	UserIDKey             = "userID"
	UserEmailKey          = "userEmail"
	UserRoleKey           = "userRole"
	MustChangePasswordKey = "mustChangePassword"
)
