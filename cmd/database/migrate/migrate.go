package migration

import (
	"fmt"
	"log"

	"gorm.io/gorm"

	"CookShare-Backend/entities"
)

func Migrate(db *gorm.DB) error {
	db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\";")

	models := []any{
		&entities.User{},
		&entities.Recipe{},
		&entities.Comment{},
		&entities.UserFavourite{},
		&entities.UserFollow{},
		&entities.StatsEvent{},
	}
	for _, model := range models {
		if err := db.AutoMigrate(model); err != nil {
			log.Fatalf("Error migrating %T: %v", model, err)
			return err
		}
	}

	fmt.Println("Database migration complete")
	return nil
}
