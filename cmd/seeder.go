package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/frahmantamala/customer-onboarding/internal/auth"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with roles, permissions and sample users for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		sqlxDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		db, err := initGorm(sqlxDB)
		if err != nil {
			log.Fatalf("failed to init orm: %v", err)
		}

		if clearData {
			for _, table := range []string{"role_permissions", "user_roles", "permissions", "roles"} {
				if err := db.Exec("DELETE FROM " + table).Error; err != nil {
					log.Fatalf("failed to clear %s: %v", table, err)
				}
			}
			fmt.Println("Cleared role and permission data")
		}

		// Permissions from the builtin catalog
		for key, desc := range auth.BuiltinPermissions {
			var pid int64
			row := db.Raw("SELECT id FROM permissions WHERE key = ?", key).Row()
			if err := row.Scan(&pid); err != nil {
				if err := db.Exec("INSERT INTO permissions (key, description, created_at) VALUES (?, ?, now())", key, desc).Error; err != nil {
					log.Fatalf("failed to insert permission %s: %v", key, err)
				}
				fmt.Println("Seeded permission:", key)
			}
		}

		roles := []struct {
			Name        string
			Desc        string
			Permissions []string
		}{
			{"admin", "full administrator", []string{
				auth.PermCustomerRead, auth.PermCustomerWrite, auth.PermCustomerReview,
				auth.PermAccountRead, auth.PermAccountWrite, auth.PermUserManage,
			}},
			{"reviewer", "reviews submitted customers", []string{
				auth.PermCustomerRead, auth.PermCustomerReview, auth.PermAccountRead,
			}},
			{"operator", "submits and maintains customer records", []string{
				auth.PermCustomerRead, auth.PermCustomerWrite,
				auth.PermAccountRead, auth.PermAccountWrite,
			}},
		}

		for _, role := range roles {
			var rid int64
			row := db.Raw("SELECT id FROM roles WHERE name = ?", role.Name).Row()
			if err := row.Scan(&rid); err != nil {
				if err := db.Exec("INSERT INTO roles (name, description, is_active, created_at, updated_at) VALUES (?, ?, true, now(), now())", role.Name, role.Desc).Error; err != nil {
					log.Fatalf("failed to insert role %s: %v", role.Name, err)
				}
				if err := db.Raw("SELECT id FROM roles WHERE name = ?", role.Name).Row().Scan(&rid); err != nil {
					log.Fatalf("role not found after insert %s: %v", role.Name, err)
				}
				fmt.Println("Seeded role:", role.Name)
			}

			for _, permKey := range role.Permissions {
				var pid int64
				if err := db.Raw("SELECT id FROM permissions WHERE key = ?", permKey).Row().Scan(&pid); err != nil {
					log.Fatalf("permission not found %s: %v", permKey, err)
				}

				var exists int
				if err := db.Raw("SELECT 1 FROM role_permissions WHERE role_id = ? AND permission_id = ?", rid, pid).Row().Scan(&exists); err == nil {
					continue
				}
				if err := db.Exec("INSERT INTO role_permissions (role_id, permission_id, created_at) VALUES (?, ?, now())", rid, pid).Error; err != nil {
					log.Fatalf("failed to link permission %s to role %s: %v", permKey, role.Name, err)
				}
			}
		}

		password := "password"
		hash, _ := bcrypt.GenerateFromPassword([]byte(password), cfg.Security.BCryptCost)

		users := []struct {
			Username string
			Email    string
			Role     string
		}{
			{"admin", "admin@mail.com", "admin"},
			{"rani", "rani@mail.com", "reviewer"},
			{"dimas", "dimas@mail.com", "operator"},
		}

		for _, u := range users {
			var uid int64
			row := db.Raw("SELECT id FROM users WHERE email = ?", u.Email).Row()
			if err := row.Scan(&uid); err != nil {
				if err := db.Exec("INSERT INTO users (username, email, password_hash, is_active, created_at, updated_at) VALUES (?, ?, ?, true, now(), now())", u.Username, u.Email, string(hash)).Error; err != nil {
					log.Fatalf("failed to insert user %s: %v", u.Email, err)
				}
				if err := db.Raw("SELECT id FROM users WHERE email = ?", u.Email).Row().Scan(&uid); err != nil {
					log.Fatalf("user not found after insert %s: %v", u.Email, err)
				}
				fmt.Println("Seeded user:", u.Email)
			} else {
				fmt.Printf("user %s already exists; will ensure role\n", u.Email)
			}

			var rid int64
			if err := db.Raw("SELECT id FROM roles WHERE name = ?", u.Role).Row().Scan(&rid); err != nil {
				log.Fatalf("role not found %s: %v", u.Role, err)
			}

			var exists int
			if err := db.Raw("SELECT 1 FROM user_roles WHERE user_id = ? AND role_id = ?", uid, rid).Row().Scan(&exists); err == nil {
				continue
			}
			if err := db.Exec("INSERT INTO user_roles (user_id, role_id, created_at) VALUES (?, ?, now())", uid, rid).Error; err != nil {
				log.Fatalf("failed to assign role %s to %s: %v", u.Role, u.Email, err)
			}
			fmt.Printf("Assigned role %s to %s\n", u.Role, u.Email)
		}

		countries := []struct {
			Code     string
			Name     string
			Currency string
		}{
			{"ID", "Indonesia", "IDR"},
			{"SG", "Singapore", "SGD"},
			{"MY", "Malaysia", "MYR"},
			{"US", "United States", "USD"},
		}

		for _, c := range countries {
			var exists int
			row := db.Raw("SELECT 1 FROM countries WHERE code = ?", c.Code).Row()
			if err := row.Scan(&exists); err != nil {
				if err := db.Exec("INSERT INTO countries (code, name, default_currency, is_active, created_at) VALUES (?, ?, ?, true, now())", c.Code, c.Name, c.Currency).Error; err != nil {
					log.Fatalf("failed to insert country %s: %v", c.Code, err)
				}
				fmt.Printf("Seeded country: %s\n", c.Code)
			}
		}

		fmt.Println("Seeding complete")
	},
}
