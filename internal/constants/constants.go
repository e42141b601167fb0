package constants

// ContextKeyUserID is both the session key and the gin context key for the
// authenticated user's profile ID.
const ContextKeyUserID = "user_id"

// ContextKeyTask is the gin context key under which RequireTaskAccess
// stores the loaded task.
const ContextKeyTask = "task"

// ContextKeyMembership is the gin context key under which RequireTeamAccess
// stores the caller's membership row.
const ContextKeyMembership = "team_membership"

// MinPasswordLength is the minimum accepted password length on signup.
const MinPasswordLength = 8
