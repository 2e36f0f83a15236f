package main

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/yogapw/forumgo/config"
	"github.com/yogapw/forumgo/pkg/helpers"
)

// Seeds a small sample forum for local development: one admin, two regular
// users, a few discussions with comments, and a follow between the users.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	adminID := seedUser(db, "admin", "admin@example.com", "password123", true)
	aliceID := seedUser(db, "alice", "alice@example.com", "password123", false)
	bobID := seedUser(db, "bob", "bob@example.com", "password123", false)

	d1 := seedDiscussion(db, aliceID, "Hello forum", "First discussion to get things going.")
	d2 := seedDiscussion(db, bobID, "Favorite Go libraries?", "What are people reaching for these days?")
	seedDiscussion(db, adminID, "Forum rules", "Be kind. Stay on topic.")

	seedComment(db, bobID, d1, "Welcome aboard!")
	seedComment(db, aliceID, d2, "pgx and gin, easily.")

	if _, err := db.Exec(`
		INSERT INTO discussion_follows (user_id, discussion_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, discussion_id) DO NOTHING
	`, aliceID, d2); err != nil {
		log.Fatalf("failed to seed follow: %v", err)
	}

	fmt.Println("sample data seeded (password for all users: password123)")
}

func seedUser(db *sql.DB, username, email, password string, isAdmin bool) string {
	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	var id string
	err = db.QueryRow(`
		INSERT INTO users (username, email, password_hash, is_admin)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (email) DO UPDATE SET username = EXCLUDED.username
		RETURNING id
	`, username, email, hash, isAdmin).Scan(&id)
	if err != nil {
		log.Fatalf("failed to seed user %s: %v", username, err)
	}
	fmt.Printf("seeded user: id=%s username=%s admin=%v\n", id, username, isAdmin)
	return id
}

func seedDiscussion(db *sql.DB, authorID, title, body string) string {
	var id string
	err := db.QueryRow(`
		INSERT INTO discussions (author_id, title, body)
		VALUES ($1, $2, $3)
		RETURNING id
	`, authorID, title, body).Scan(&id)
	if err != nil {
		log.Fatalf("failed to seed discussion %q: %v", title, err)
	}
	return id
}

func seedComment(db *sql.DB, authorID, discussionID, body string) {
	if _, err := db.Exec(`
		INSERT INTO comments (author_id, discussion_id, body)
		VALUES ($1, $2, $3)
	`, authorID, discussionID, body); err != nil {
		log.Fatalf("failed to seed comment: %v", err)
	}
}
