package db

import "context"

// EnsureUser returns the user with the given email, creating it first if it
// does not exist. An existing user's name is left unchanged.
func (q *Queries) EnsureUser(ctx context.Context, email, name string) (User, error) {
	var u User
	err := q.db.QueryRow(ctx, `
		INSERT INTO users (email, name) VALUES ($1, $2)
		ON CONFLICT (email) DO UPDATE SET updated_at = now()
		RETURNING id, email, name, created_at`,
		email, name,
	).Scan(&u.ID, &u.Email, &u.Name, &u.CreatedAt)
	return u, err
}

func (q *Queries) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRow(ctx, `SELECT count(*) FROM users`).Scan(&n)
	return n, err
}
