// Package auth handles password checks and session tokens.
package auth

import (
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"facops/internal/models"
	"facops/internal/store"
)

const sessionTTL = 24 * time.Hour

var (
	ErrBadCredentials = errors.New("invalid username or password")
	ErrInactive       = errors.New("account deactivated")
)

type Service struct {
	store *store.Store
}

func New(st *store.Store) *Service {
	return &Service{store: st}
}

// Login checks the credentials and, on success, opens a session and stamps
// last_login. Returns the user and the session token.
func (s *Service) Login(username, password string) (*models.User, string, error) {
	var id int64
	var passwordHash, fullName, role string
	var active int
	err := s.store.DB.QueryRow(
		"SELECT id, password_hash, full_name, role, active FROM users WHERE username = ?",
		username).Scan(&id, &passwordHash, &fullName, &role, &active)
	if err != nil {
		return nil, "", ErrBadCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password)); err != nil {
		return nil, "", ErrBadCredentials
	}
	if active == 0 {
		return nil, "", ErrInactive
	}

	// Clean expired sessions while we're here
	s.store.DB.Exec("DELETE FROM sessions WHERE expires_at < CURRENT_TIMESTAMP")

	token := generateToken()
	expires := time.Now().Add(sessionTTL)
	if _, err := s.store.DB.Exec("INSERT INTO sessions (token, user_id, expires_at) VALUES (?, ?, ?)",
		token, id, expires.Format("2006-01-02 15:04:05")); err != nil {
		return nil, "", err
	}
	s.store.DB.Exec("UPDATE users SET last_login = CURRENT_TIMESTAMP WHERE id = ?", id)

	return &models.User{ID: id, Username: username, FullName: fullName, Role: role, Active: true}, token, nil
}

// Logout removes the session. Unknown tokens are ignored.
func (s *Service) Logout(token string) {
	s.store.DB.Exec("DELETE FROM sessions WHERE token = ?", token)
}

// UserForToken resolves a session token to its user, rejecting expired
// sessions.
func (s *Service) UserForToken(token string) (*models.User, error) {
	var u models.User
	err := s.store.DB.QueryRow(`SELECT u.id, u.username, u.full_name, u.role
		FROM sessions s JOIN users u ON s.user_id = u.id
		WHERE s.token = ? AND s.expires_at > CURRENT_TIMESTAMP AND u.active = 1`,
		token).Scan(&u.ID, &u.Username, &u.FullName, &u.Role)
	if err != nil {
		return nil, store.ErrNotFound
	}
	u.Active = true
	return &u, nil
}

// CreateUser inserts a user with a freshly hashed password.
func (s *Service) CreateUser(username, password, fullName, role string) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	res, err := s.store.DB.Exec(
		"INSERT INTO users (username, password_hash, full_name, role) VALUES (?, ?, ?, ?)",
		username, string(hash), fullName, role)
	if err != nil {
		return nil, store.Classify(err)
	}
	id, _ := res.LastInsertId()
	return &models.User{ID: id, Username: username, FullName: fullName, Role: role, Active: true}, nil
}

// Users lists all accounts without credential material.
func (s *Service) Users() ([]models.User, error) {
	rows, err := s.store.DB.Query(
		"SELECT id, username, full_name, role, active, last_login, created_at FROM users ORDER BY username")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.User
	for rows.Next() {
		var u models.User
		var lastLogin sql.NullString
		if err := rows.Scan(&u.ID, &u.Username, &u.FullName, &u.Role, &u.Active, &lastLogin, &u.CreatedAt); err != nil {
			return nil, err
		}
		if lastLogin.Valid {
			u.LastLogin = &lastLogin.String
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func generateToken() string {
	b := make([]byte, 32)
	rand.Read(b)
	return hex.EncodeToString(b)
}
