package db

import (
	"context"

	"github.com/google/uuid"
)

// UpsertReview records a user's review of a recipe. A second review by the
// same user replaces the first. ErrNotFound is returned when the recipe
// does not exist.
func (q *Queries) UpsertReview(ctx context.Context, p UpsertReviewParams) (Review, error) {
	var rv Review
	err := q.db.QueryRow(ctx, `
		WITH saved AS (
			INSERT INTO reviews (recipe_id, user_id, rating, comment)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (recipe_id, user_id) DO UPDATE
			SET rating = EXCLUDED.rating, comment = EXCLUDED.comment, updated_at = now()
			RETURNING id, recipe_id, user_id, rating, comment, created_at
		)
		SELECT s.id, s.recipe_id, s.user_id, u.name, s.rating, s.comment, s.created_at
		FROM saved s
		JOIN users u ON u.id = s.user_id`,
		p.RecipeID, p.UserID, p.Rating, p.Comment,
	).Scan(&rv.ID, &rv.RecipeID, &rv.User.ID, &rv.User.Name, &rv.Rating, &rv.Comment, &rv.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return Review{}, ErrNotFound
		}
		return Review{}, err
	}
	return rv, nil
}

func (q *Queries) ListReviews(ctx context.Context, recipeID uuid.UUID) ([]Review, error) {
	return listReviews(ctx, q.db, recipeID)
}

func listReviews(ctx context.Context, db DBTX, recipeID uuid.UUID) ([]Review, error) {
	rows, err := db.Query(ctx, `
		SELECT rv.id, rv.recipe_id, rv.user_id, u.name, rv.rating, rv.comment, rv.created_at
		FROM reviews rv
		JOIN users u ON u.id = rv.user_id
		WHERE rv.recipe_id = $1
		ORDER BY rv.created_at DESC, rv.id`, recipeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reviews := []Review{}
	for rows.Next() {
		var rv Review
		if err := rows.Scan(&rv.ID, &rv.RecipeID, &rv.User.ID, &rv.User.Name, &rv.Rating, &rv.Comment, &rv.CreatedAt); err != nil {
			return nil, err
		}
		reviews = append(reviews, rv)
	}
	return reviews, rows.Err()
}
