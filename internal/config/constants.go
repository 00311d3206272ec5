package config

// DefaultDatabasePath is the default path for the users and sessions database
const DefaultDatabasePath = "./authcore.db"
