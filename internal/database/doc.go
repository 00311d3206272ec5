// Package database provides the data access layer for the application.
//
// # Architecture
//
// The database layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go      # Connection setup and migrations
//	├── users/           # User directory (attribute lookups and updates)
//	├── sessions/        # Persisted session records (scs store)
//	└── audit/           # Authentication audit trail
//
// # Using Sub-packages
//
//	// Initialize database connection
//	db, err := database.NewDatabase("./authcore.db")
//
//	// Create domain-specific repositories
//	usersRepo := users.NewRepository(db.DB)
//	sessionsRepo, err := sessions.NewSQLiteRepository(sqlDB)
//	auditRepo := audit.NewRepository(db.DB)
//
// # Interface Implementations
//
//   - users.Repository: implements auth.UserDirectory
//   - sessions.Repository: implements auth.SessionBackend
//
// The compile-time checks live next to the interfaces in package auth.
package database
