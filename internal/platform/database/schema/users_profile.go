package schema

// UserProfileTable represents the 'users.profile' table
type UserProfileTable struct {
	Table     string
	ID        string
	Username  string
	Role      string
	CreatedAt string
	UpdatedAt string
}

// UserProfile is the schema definition for users.profile
//
// Rows are created by a database trigger on users.account inserts, not by
// application code. The username starts empty until the owner claims one.
var UserProfile = UserProfileTable{
	Table:     "users.profile",
	ID:        "id",
	Username:  "username",
	Role:      "role",
	CreatedAt: "createdat",
	UpdatedAt: "updatedat",
}

// Columns returns all standard column names
func (t UserProfileTable) Columns() []string {
	return []string{t.ID, t.Username, t.Role, t.CreatedAt, t.UpdatedAt}
}
