package config

type StorageConfig interface {
	GetDBPath() string
}

type Storage struct {
	DBPath string `yaml:"db_path" env:"ANPR_DB_PATH" env-default:"./data/session.db"`
}

var _ StorageConfig = Storage{}

// GetDBPath returns the sqlite file holding the persisted session.
// ":memory:" keeps the session for the life of the process only.
func (s Storage) GetDBPath() string {
	if s.DBPath == "" {
		return "./data/session.db"
	}
	return s.DBPath
}
