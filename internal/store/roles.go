package store

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/sadopc/planr/internal/cal"
)

var roleIDSpaces = regexp.MustCompile(`\s+`)

// CreateRole inserts a role named name with the given color. The ID is a
// slug of the name; a collision gets a numeric suffix so renaming a role
// back and forth never overwrites an older one.
func (s *Store) CreateRole(name, color string) (*cal.Role, error) {
	id, err := s.generateRoleID(name)
	if err != nil {
		return nil, err
	}
	_, err = s.db.Exec(
		`INSERT INTO roles (id, name, color) VALUES (?, ?, ?)`,
		id, name, color,
	)
	if err != nil {
		return nil, fmt.Errorf("insert role: %w", err)
	}
	return s.GetRole(id)
}

func (s *Store) GetRole(id string) (*cal.Role, error) {
	var r cal.Role
	err := s.db.QueryRow(
		`SELECT id, name, color FROM roles WHERE id = ?`, id,
	).Scan(&r.ID, &r.Name, &r.Color)
	if err != nil {
		return nil, fmt.Errorf("get role %s: %w", id, err)
	}
	return &r, nil
}

// ListRoles returns roles in insertion order.
func (s *Store) ListRoles() ([]cal.Role, error) {
	rows, err := s.db.Query(`SELECT id, name, color FROM roles ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	defer rows.Close()

	var roles []cal.Role
	for rows.Next() {
		var r cal.Role
		if err := rows.Scan(&r.ID, &r.Name, &r.Color); err != nil {
			return nil, err
		}
		roles = append(roles, r)
	}
	return roles, rows.Err()
}

// RoleMap returns the roles keyed by ID, the shape the placer consumes.
func (s *Store) RoleMap() (map[string]cal.Role, error) {
	roles, err := s.ListRoles()
	if err != nil {
		return nil, err
	}
	m := make(map[string]cal.Role, len(roles))
	for _, r := range roles {
		m[r.ID] = r
	}
	return m, nil
}

func (s *Store) UpdateRole(id, name, color string) error {
	_, err := s.db.Exec(
		`UPDATE roles SET name = ?, color = ? WHERE id = ?`,
		name, color, id,
	)
	if err != nil {
		return fmt.Errorf("update role %s: %w", id, err)
	}
	return nil
}

// DeleteRole removes the role only. Events keep their role_id; the
// dangling reference renders with the default colors from then on.
func (s *Store) DeleteRole(id string) error {
	_, err := s.db.Exec(`DELETE FROM roles WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete role %s: %w", id, err)
	}
	return nil
}

// generateRoleID slugs the name (lowercase, whitespace runs to "_") and
// appends _1, _2, ... until the ID is free.
func (s *Store) generateRoleID(name string) (string, error) {
	base := roleIDSpaces.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "_")
	if base == "" {
		base = "role"
	}
	id := base
	for n := 1; ; n++ {
		var exists int
		err := s.db.QueryRow(`SELECT COUNT(*) FROM roles WHERE id = ?`, id).Scan(&exists)
		if err != nil {
			return "", fmt.Errorf("check role id: %w", err)
		}
		if exists == 0 {
			return id, nil
		}
		id = fmt.Sprintf("%s_%d", base, n)
	}
}
