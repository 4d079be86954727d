package migrations

import "gorm.io/gorm"

// migration002Up creates all core tables using GORM AutoMigrate
func migration002Up(db *gorm.DB) error {
	if err := db.AutoMigrate(AllModels()...); err != nil {
		return err
	}

	// AutoMigrate leaves the primary keys without a server-side default;
	// clients that insert outside GORM still get generated IDs this way.
	defaults := []string{
		"ALTER TABLE accounts ALTER COLUMN id SET DEFAULT uuid_generate_v4()",
		"ALTER TABLE elections ALTER COLUMN id SET DEFAULT uuid_generate_v4()",
		"ALTER TABLE positions ALTER COLUMN id SET DEFAULT uuid_generate_v4()",
		"ALTER TABLE partylists ALTER COLUMN id SET DEFAULT uuid_generate_v4()",
		"ALTER TABLE candidates ALTER COLUMN id SET DEFAULT uuid_generate_v4()",
		"ALTER TABLE voters ALTER COLUMN id SET DEFAULT uuid_generate_v4()",
		"ALTER TABLE invited_voters ALTER COLUMN id SET DEFAULT uuid_generate_v4()",
		"ALTER TABLE commissioners ALTER COLUMN id SET DEFAULT uuid_generate_v4()",
		"ALTER TABLE votes ALTER COLUMN id SET DEFAULT uuid_generate_v4()",
	}

	for _, defaultSQL := range defaults {
		if err := db.Exec(defaultSQL).Error; err != nil {
			return err
		}
	}

	return nil
}

// migration002Down drops all core tables
func migration002Down(db *gorm.DB) error {
	tables := []string{
		"votes",
		"commissioners",
		"invited_voters",
		"voters",
		"candidates",
		"partylists",
		"positions",
		"elections",
		"accounts",
	}

	for _, table := range tables {
		if err := db.Exec("DROP TABLE IF EXISTS " + table + " CASCADE").Error; err != nil {
			return err
		}
	}

	return nil
}
