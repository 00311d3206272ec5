// Package auth provides request authentication and the account lifecycle.
//
// Two independent session models live here:
//   - Service keeps one active session per user on the user row and drives
//     registration, password login, and password reset.
//   - Strategy implementations authenticate API requests. SessionAuth may
//     hold many sessions per user, optionally bounded by a lifetime and
//     mirrored to a SessionBackend.
//
// # Configuration
//
// AUTH_TYPE selects the strategy used by the /api/v1 routes:
//
//	AUTH_TYPE=none              # Default, nothing is enforced
//	AUTH_TYPE=auth              # Enforced, no request ever resolves a user
//	AUTH_TYPE=basic_auth        # Authorization: Basic base64(email:password)
//	AUTH_TYPE=session_auth      # Session cookie, in-memory
//	AUTH_TYPE=session_exp_auth  # Session cookie with SESSION_DURATION seconds
//	AUTH_TYPE=session_db_auth   # As above, persisted to the database
//
// # Usage
//
//	strategy, err := auth.NewStrategy(cfg.Auth, userRepo, hasher, sessionRepo)
//	router.Use(auth.NewMiddleware(strategy, cfg.Auth.ExcludedPaths).Handler())
//
// Extract the user in handlers:
//
//	user := auth.GetCurrentUser(c) // nil when nothing is enforced
package auth
