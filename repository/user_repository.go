package repository

import (
	"database/sql"
	"fmt"
	"time"

	"MuseFM/model"
)

// UserRepository defines the interface for user data operations.
type UserRepository interface {
	CreateUser(user *model.User) (int64, error)
	GetUserByID(id int64) (*model.User, error)
	GetUserByUsername(username string) (*model.User, error)
	GetUserByEmail(email string) (*model.User, error)
	UpdateUserRole(userID int64, role string) error
	ListUsers() ([]*model.User, error)
}

// mysqlUserRepository implements UserRepository for MySQL.
type mysqlUserRepository struct {
	db *sql.DB
}

// NewMySQLUserRepository creates a new mysqlUserRepository.
func NewMySQLUserRepository(db *sql.DB) UserRepository {
	return &mysqlUserRepository{db: db}
}

const userColumns = "id, username, email, password_hash, display_name, role, created_at, updated_at"

func scanUser(row *sql.Row) (*model.User, error) {
	user := &model.User{}
	var displayName sql.NullString
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &displayName, &user.Role, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // User not found
		}
		return nil, err
	}
	user.DisplayName = displayName.String
	return user, nil
}

// CreateUser adds a new user to the database. The role column keeps its
// schema default of 'user' unless the model sets one.
func (r *mysqlUserRepository) CreateUser(user *model.User) (int64, error) {
	role := user.Role
	if role == "" {
		role = model.RoleUser
	}

	query := "INSERT INTO users (username, email, password_hash, display_name, role) VALUES (?, ?, ?, ?, ?)"
	stmt, err := r.db.Prepare(query)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare create user statement: %w", err)
	}
	defer stmt.Close()

	var displayName sql.NullString
	if user.DisplayName != "" {
		displayName = sql.NullString{String: user.DisplayName, Valid: true}
	}

	res, err := stmt.Exec(user.Username, user.Email, user.PasswordHash, displayName, role)
	if err != nil {
		if isDuplicateEntry(err) {
			return 0, fmt.Errorf("create user: %w", ErrDuplicateUser)
		}
		return 0, fmt.Errorf("failed to execute create user statement: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID for user: %w", err)
	}
	return id, nil
}

// GetUserByID retrieves a user by their ID.
func (r *mysqlUserRepository) GetUserByID(id int64) (*model.User, error) {
	row := r.db.QueryRow("SELECT "+userColumns+" FROM users WHERE id = ?", id)
	user, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("failed to scan user row for ID %d: %w", id, err)
	}
	return user, nil
}

// GetUserByUsername retrieves a user by their username.
func (r *mysqlUserRepository) GetUserByUsername(username string) (*model.User, error) {
	row := r.db.QueryRow("SELECT "+userColumns+" FROM users WHERE username = ?", username)
	user, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("failed to scan user row for username %s: %w", username, err)
	}
	return user, nil
}

// GetUserByEmail retrieves a user by their email address.
func (r *mysqlUserRepository) GetUserByEmail(email string) (*model.User, error) {
	row := r.db.QueryRow("SELECT "+userColumns+" FROM users WHERE email = ?", email)
	user, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("failed to scan user row for email %s: %w", email, err)
	}
	return user, nil
}

// UpdateUserRole sets a user's role.
func (r *mysqlUserRepository) UpdateUserRole(userID int64, role string) error {
	query := "UPDATE users SET role = ?, updated_at = ? WHERE id = ?"
	stmt, err := r.db.Prepare(query)
	if err != nil {
		return fmt.Errorf("failed to prepare update role statement: %w", err)
	}
	defer stmt.Close()

	if _, err := stmt.Exec(role, time.Now(), userID); err != nil {
		return fmt.Errorf("failed to execute update role statement for user ID %d: %w", userID, err)
	}
	return nil
}

// ListUsers retrieves all users, newest first.
func (r *mysqlUserRepository) ListUsers() ([]*model.User, error) {
	rows, err := r.db.Query("SELECT " + userColumns + " FROM users ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	users := make([]*model.User, 0)
	for rows.Next() {
		user := &model.User{}
		var displayName sql.NullString
		err := rows.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &displayName, &user.Role, &user.CreatedAt, &user.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user in ListUsers: %w", err)
		}
		user.DisplayName = displayName.String
		users = append(users, user)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during rows iteration in ListUsers: %w", err)
	}

	return users, nil
}
