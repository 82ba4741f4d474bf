// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"linkup/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Seeder populates the database with realistic demo data: a directory of
// users, a connection mesh and chat histories between connected pairs.
type Seeder struct {
	db   *gorm.DB
	rand *rand.Rand
}

// NewSeeder creates a Seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB) *Seeder {
	gofakeit.Seed(time.Now().UnixNano())
	return &Seeder{
		db:   db,
		rand: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

var skillPool = []string{
	"Go", "Python", "TypeScript", "React", "PostgreSQL", "Redis",
	"Kubernetes", "Terraform", "Product Management", "UX Design",
	"Data Engineering", "Machine Learning", "SRE", "Technical Writing",
}

// ClearAll removes all seeded rows. Messages first so foreign keys hold.
func (s *Seeder) ClearAll() error {
	log.Println("Clearing existing data...")
	for _, table := range []string{"messages", "conversations", "connections", "users"} {
		if err := s.db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	return nil
}

// CreateUser constructs and persists a sample user with a filled-in profile.
// Optional override functions may modify the generated user before saving.
func (s *Seeder) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	skills := make([]string, 0, 3)
	for _, i := range s.rand.Perm(len(skillPool))[:3] {
		skills = append(skills, skillPool[i])
	}

	user := &models.User{
		Username:  gofakeit.Username() + fmt.Sprintf("%d", gofakeit.Number(100, 999)),
		Email:     gofakeit.Email(),
		FullName:  gofakeit.Name(),
		Bio:       fmt.Sprintf("%s at %s. %s", gofakeit.JobTitle(), gofakeit.Company(), gofakeit.Sentence(8)),
		Location:  fmt.Sprintf("%s, %s", gofakeit.City(), gofakeit.Country()),
		Phone:     gofakeit.Phone(),
		Skills:    skills,
		Education: fmt.Sprintf("%s University", gofakeit.LastName()),
		Avatar:    fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("Password123!"), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}
	user.Password = string(hashedPassword)

	for _, override := range overrides {
		override(user)
	}

	if err := s.db.Create(user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// SeedDirectory creates n users.
func (s *Seeder) SeedDirectory(n int) ([]*models.User, error) {
	log.Printf("Creating %d users...", n)
	users := make([]*models.User, 0, n)
	for i := 0; i < n; i++ {
		user, err := s.CreateUser()
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

// SeedConnectionMesh wires users together: roughly 40% of random pairs get
// an accepted connection, 10% stay pending, 5% are rejected. Returns the
// accepted pairs for chat seeding.
func (s *Seeder) SeedConnectionMesh(users []*models.User) ([][2]*models.User, error) {
	log.Println("Creating connection mesh...")
	var accepted [][2]*models.User

	for i := 0; i < len(users); i++ {
		for j := i + 1; j < len(users); j++ {
			roll := s.rand.Float64()
			if roll > 0.55 {
				continue
			}

			a, b := users[i], users[j]
			conn := &models.Connection{
				RequesterID: a.ID,
				RecipientID: b.ID,
				PairKey:     models.PairKey(a.ID, b.ID),
				Status:      models.ConnectionStatusPending,
				Message:     gofakeit.Sentence(6),
			}
			switch {
			case roll < 0.40:
				now := time.Now().UTC()
				conn.Status = models.ConnectionStatusAccepted
				conn.RespondedAt = &now
			case roll < 0.50:
				// stays pending
			default:
				now := time.Now().UTC()
				conn.Status = models.ConnectionStatusRejected
				conn.RespondedAt = &now
			}

			if err := s.db.Create(conn).Error; err != nil {
				return nil, fmt.Errorf("failed to create connection: %w", err)
			}
			if conn.Status == models.ConnectionStatusAccepted {
				accepted = append(accepted, [2]*models.User{a, b})
			}
		}
	}

	log.Printf("Created %d accepted connections", len(accepted))
	return accepted, nil
}

// SeedChats creates a conversation with a short message history for a
// subset of the accepted pairs.
func (s *Seeder) SeedChats(pairs [][2]*models.User) error {
	log.Println("Creating conversations and messages...")
	for _, pair := range pairs {
		if s.rand.Float64() > 0.6 {
			continue
		}

		a, b := pair[0], pair[1]
		conv := models.NewConversation(a.ID, b.ID)
		if err := s.db.Create(conv).Error; err != nil {
			return fmt.Errorf("failed to create conversation: %w", err)
		}

		count := 2 + s.rand.Intn(8)
		when := time.Now().Add(-time.Duration(s.rand.Intn(72)) * time.Hour)
		for k := 0; k < count; k++ {
			sender, receiver := a, b
			if k%2 == 1 {
				sender, receiver = b, a
			}
			msg := &models.Message{
				ConversationID: conv.ID,
				SenderID:       sender.ID,
				ReceiverID:     receiver.ID,
				Body:           gofakeit.Sentence(4 + s.rand.Intn(10)),
				CreatedAt:      when,
			}
			if err := s.db.Create(msg).Error; err != nil {
				return fmt.Errorf("failed to create message: %w", err)
			}
			when = when.Add(time.Duration(1+s.rand.Intn(30)) * time.Minute)
		}

		if err := s.db.Model(conv).Update("updated_at", when).Error; err != nil {
			return fmt.Errorf("failed to touch conversation: %w", err)
		}
	}
	return nil
}
