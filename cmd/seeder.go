package cmd

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/frahmantamala/project-management/internal/auth"
	userDatamodel "github.com/frahmantamala/project-management/internal/core/datamodel/user"
	"github.com/frahmantamala/project-management/internal/user"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with an org chart",
	Long:  `Seed the database with users and reporting lines from a YAML fixture for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		data, err := os.ReadFile(seedFile)
		if err != nil {
			log.Fatalf("failed to read fixture: %v", err)
		}
		fixture, err := parseOrgFixture(data)
		if err != nil {
			log.Fatalf("invalid fixture %s: %v", seedFile, err)
		}

		db, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer db.Close()

		gdb, err := initGorm(db)
		if err != nil {
			log.Fatalf("failed to init gorm: %v", err)
		}

		cost := cfg.Security.BCryptCost
		if cost == 0 {
			cost = bcrypt.DefaultCost
		}

		if err := seedOrg(gdb, fixture, cost, clearData); err != nil {
			log.Fatalf("failed to seed: %v", err)
		}
		fmt.Printf("Seeded %d users from %s\n", len(fixture.Users), seedFile)
	},
}

type orgFixture struct {
	Password string        `yaml:"password"`
	Users    []fixtureUser `yaml:"users"`
}

type fixtureUser struct {
	ID        string `yaml:"id"`
	Email     string `yaml:"email"`
	FirstName string `yaml:"first_name"`
	LastName  string `yaml:"last_name"`
	Role      string `yaml:"role"`
	Manager   string `yaml:"manager"`
	Status    string `yaml:"status"`
}

// parseOrgFixture decodes the fixture and orders users so every manager
// precedes its reports.
func parseOrgFixture(data []byte) (*orgFixture, error) {
	var f orgFixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	if f.Password == "" {
		return nil, errors.New("password is required")
	}

	byID := make(map[string]fixtureUser, len(f.Users))
	for i, u := range f.Users {
		if u.ID == "" || u.Email == "" {
			return nil, fmt.Errorf("user %d: id and email are required", i)
		}
		if _, dup := byID[u.ID]; dup {
			return nil, fmt.Errorf("duplicate user id %s", u.ID)
		}
		role, err := auth.ParseRole(u.Role)
		if err != nil {
			return nil, fmt.Errorf("user %s: %w", u.ID, err)
		}
		f.Users[i].Role = string(role)
		if u.Status == "" {
			f.Users[i].Status = string(user.StatusActive)
		}
		byID[u.ID] = f.Users[i]
	}

	ordered := make([]fixtureUser, 0, len(f.Users))
	state := make(map[string]int, len(f.Users)) // 1 visiting, 2 done
	var visit func(id string) error
	visit = func(id string) error {
		switch state[id] {
		case 1:
			return fmt.Errorf("reporting cycle at %s", id)
		case 2:
			return nil
		}
		u := byID[id]
		state[id] = 1
		if u.Manager != "" {
			if _, ok := byID[u.Manager]; !ok {
				return fmt.Errorf("user %s: unknown manager %s", id, u.Manager)
			}
			if err := visit(u.Manager); err != nil {
				return err
			}
		}
		state[id] = 2
		ordered = append(ordered, u)
		return nil
	}
	for _, u := range f.Users {
		if err := visit(u.ID); err != nil {
			return nil, err
		}
	}

	f.Users = ordered
	return &f, nil
}

func seedOrg(db *gorm.DB, f *orgFixture, cost int, wipe bool) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(f.Password), cost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if wipe {
			for _, table := range []string{"timesheets", "pto_requests", "users"} {
				if err := tx.Exec("DELETE FROM " + table).Error; err != nil {
					return fmt.Errorf("clear %s: %w", table, err)
				}
			}
		}

		for _, u := range f.Users {
			row := userDatamodel.User{
				ID:           u.ID,
				Email:        u.Email,
				FirstName:    u.FirstName,
				LastName:     u.LastName,
				PasswordHash: string(hash),
				Role:         u.Role,
				Status:       u.Status,
			}
			if u.Manager != "" {
				manager := u.Manager
				row.ManagerID = &manager
			}

			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "id"}},
				DoUpdates: clause.AssignmentColumns([]string{"email", "first_name", "last_name", "role", "manager_id", "status"}),
			}).Create(&row).Error
			if err != nil {
				return fmt.Errorf("upsert user %s: %w", u.ID, err)
			}
		}
		return nil
	})
}
