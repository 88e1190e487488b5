package db

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const recipeColumns = `
	r.id, r.title, r.description, r.image_url, r.prep_time, r.cook_time, r.servings,
	r.difficulty, r.category, r.cuisine, r.tags, r.calories, r.protein, r.carbs, r.fat,
	r.created_at, r.updated_at, u.id, u.name,
	(SELECT count(*) FROM reviews rv WHERE rv.recipe_id = r.id),
	COALESCE((SELECT avg(rv.rating)::float8 FROM reviews rv WHERE rv.recipe_id = r.id), 0)`

func scanRecipe(row pgx.Row) (Recipe, error) {
	var r Recipe
	err := row.Scan(
		&r.ID, &r.Title, &r.Description, &r.ImageURL, &r.PrepTime, &r.CookTime, &r.Servings,
		&r.Difficulty, &r.Category, &r.Cuisine, &r.Tags, &r.Calories, &r.Protein, &r.Carbs, &r.Fat,
		&r.CreatedAt, &r.UpdatedAt, &r.Author.ID, &r.Author.Name,
		&r.ReviewCount, &r.AverageRating,
	)
	if r.Tags == nil {
		r.Tags = []string{}
	}
	return r, err
}

// ListRecipes returns recipes newest first. An empty category matches every
// category; a non-empty search matches title, description or any tag.
func (q *Queries) ListRecipes(ctx context.Context, p ListRecipesParams) ([]Recipe, error) {
	pattern := ""
	if s := strings.TrimSpace(p.Search); s != "" {
		pattern = "%" + escapeLike(s) + "%"
	}

	rows, err := q.db.Query(ctx, `
		SELECT `+recipeColumns+`
		FROM recipes r
		JOIN users u ON u.id = r.author_id
		WHERE ($1::text = '' OR r.category = $1::text)
		  AND ($2::text = ''
		       OR r.title ILIKE $2::text
		       OR r.description ILIKE $2::text
		       OR EXISTS (SELECT 1 FROM unnest(r.tags) t WHERE t ILIKE $2::text))
		ORDER BY r.created_at DESC, r.id
		LIMIT $3 OFFSET $4`,
		p.Category, pattern, p.Limit, p.Offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	recipes := []Recipe{}
	for rows.Next() {
		r, err := scanRecipe(rows)
		if err != nil {
			return nil, err
		}
		recipes = append(recipes, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := loadChildren(ctx, q.db, recipes); err != nil {
		return nil, err
	}
	return recipes, nil
}

// GetRecipe returns one recipe with its children and reviews, newest review
// first.
func (q *Queries) GetRecipe(ctx context.Context, id uuid.UUID) (Recipe, error) {
	return getRecipe(ctx, q.db, id)
}

func getRecipe(ctx context.Context, db DBTX, id uuid.UUID) (Recipe, error) {
	r, err := scanRecipe(db.QueryRow(ctx, `
		SELECT `+recipeColumns+`
		FROM recipes r
		JOIN users u ON u.id = r.author_id
		WHERE r.id = $1`, id))
	if err != nil {
		return Recipe{}, notFound(err)
	}

	one := []Recipe{r}
	if err := loadChildren(ctx, db, one); err != nil {
		return Recipe{}, err
	}
	r = one[0]

	r.Reviews, err = listReviews(ctx, db, id)
	if err != nil {
		return Recipe{}, err
	}
	return r, nil
}

// RecipeAuthor returns the id of the user who owns the recipe.
func (q *Queries) RecipeAuthor(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	var author uuid.UUID
	err := q.db.QueryRow(ctx, `SELECT author_id FROM recipes WHERE id = $1`, id).Scan(&author)
	return author, notFound(err)
}

// CreateRecipe inserts a recipe and its children in one transaction.
func (q *Queries) CreateRecipe(ctx context.Context, p CreateRecipeParams) (Recipe, error) {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}

	var created Recipe
	err := q.inTx(ctx, func(tx pgx.Tx) error {
		var id uuid.UUID
		err := tx.QueryRow(ctx, `
			INSERT INTO recipes (
				title, description, image_url, prep_time, cook_time, servings,
				difficulty, category, cuisine, tags, calories, protein, carbs, fat, author_id
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
			RETURNING id`,
			p.Title, p.Description, p.ImageURL, p.PrepTime, p.CookTime, p.Servings,
			p.Difficulty, p.Category, p.Cuisine, tags, p.Calories, p.Protein, p.Carbs, p.Fat, p.AuthorID,
		).Scan(&id)
		if err != nil {
			return err
		}

		if err := insertIngredients(ctx, tx, id, p.Ingredients); err != nil {
			return err
		}
		if err := insertInstructions(ctx, tx, id, p.Instructions); err != nil {
			return err
		}

		created, err = getRecipe(ctx, tx, id)
		return err
	})
	return created, err
}

// UpdateRecipe applies a partial update. Children are replaced wholesale when
// the corresponding slice is non-nil.
func (q *Queries) UpdateRecipe(ctx context.Context, id uuid.UUID, p UpdateRecipeParams) (Recipe, error) {
	var updated Recipe
	err := q.inTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE recipes SET
				title       = COALESCE($2, title),
				description = COALESCE($3, description),
				image_url   = COALESCE($4, image_url),
				prep_time   = COALESCE($5, prep_time),
				cook_time   = COALESCE($6, cook_time),
				servings    = COALESCE($7, servings),
				difficulty  = COALESCE($8, difficulty),
				category    = COALESCE($9, category),
				cuisine     = COALESCE($10, cuisine),
				tags        = COALESCE($11, tags),
				calories    = COALESCE($12, calories),
				protein     = COALESCE($13, protein),
				carbs       = COALESCE($14, carbs),
				fat         = COALESCE($15, fat),
				updated_at  = now()
			WHERE id = $1`,
			id, p.Title, p.Description, p.ImageURL, p.PrepTime, p.CookTime, p.Servings,
			p.Difficulty, p.Category, p.Cuisine, p.Tags, p.Calories, p.Protein, p.Carbs, p.Fat,
		)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}

		if p.Ingredients != nil {
			if _, err := tx.Exec(ctx, `DELETE FROM ingredients WHERE recipe_id = $1`, id); err != nil {
				return err
			}
			if err := insertIngredients(ctx, tx, id, p.Ingredients); err != nil {
				return err
			}
		}
		if p.Instructions != nil {
			if _, err := tx.Exec(ctx, `DELETE FROM instructions WHERE recipe_id = $1`, id); err != nil {
				return err
			}
			if err := insertInstructions(ctx, tx, id, p.Instructions); err != nil {
				return err
			}
		}

		updated, err = getRecipe(ctx, tx, id)
		return err
	})
	return updated, err
}

func (q *Queries) DeleteRecipe(ctx context.Context, id uuid.UUID) error {
	tag, err := q.db.Exec(ctx, `DELETE FROM recipes WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteAllRecipes removes every recipe along with its children and reviews.
func (q *Queries) DeleteAllRecipes(ctx context.Context) (int64, error) {
	tag, err := q.db.Exec(ctx, `DELETE FROM recipes`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func insertIngredients(ctx context.Context, db DBTX, recipeID uuid.UUID, items []IngredientParams) error {
	if len(items) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for i, ing := range items {
		batch.Queue(`
			INSERT INTO ingredients (recipe_id, position, name, amount, unit, notes)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			recipeID, i, ing.Name, ing.Amount, ing.Unit, ing.Notes)
	}
	return db.SendBatch(ctx, batch).Close()
}

func insertInstructions(ctx context.Context, db DBTX, recipeID uuid.UUID, steps []InstructionParams) error {
	if len(steps) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, st := range steps {
		batch.Queue(`
			INSERT INTO instructions (recipe_id, step_number, description, image_url)
			VALUES ($1, $2, $3, $4)`,
			recipeID, st.StepNumber, st.Description, st.ImageURL)
	}
	return db.SendBatch(ctx, batch).Close()
}

// loadChildren fills ingredients and instructions for every recipe in place.
func loadChildren(ctx context.Context, db DBTX, recipes []Recipe) error {
	if len(recipes) == 0 {
		return nil
	}

	ids := make([]string, len(recipes))
	index := make(map[uuid.UUID]int, len(recipes))
	for i := range recipes {
		ids[i] = recipes[i].ID.String()
		index[recipes[i].ID] = i
		recipes[i].Ingredients = []Ingredient{}
		recipes[i].Instructions = []Instruction{}
	}

	rows, err := db.Query(ctx, `
		SELECT recipe_id, id, name, amount, unit, notes
		FROM ingredients
		WHERE recipe_id = ANY($1::uuid[])
		ORDER BY recipe_id, position`, ids)
	if err != nil {
		return err
	}
	for rows.Next() {
		var recipeID uuid.UUID
		var ing Ingredient
		if err := rows.Scan(&recipeID, &ing.ID, &ing.Name, &ing.Amount, &ing.Unit, &ing.Notes); err != nil {
			rows.Close()
			return err
		}
		i := index[recipeID]
		recipes[i].Ingredients = append(recipes[i].Ingredients, ing)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	rows, err = db.Query(ctx, `
		SELECT recipe_id, id, step_number, description, image_url
		FROM instructions
		WHERE recipe_id = ANY($1::uuid[])
		ORDER BY recipe_id, step_number`, ids)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var recipeID uuid.UUID
		var st Instruction
		if err := rows.Scan(&recipeID, &st.ID, &st.StepNumber, &st.Description, &st.ImageURL); err != nil {
			return err
		}
		i := index[recipeID]
		recipes[i].Instructions = append(recipes[i].Instructions, st)
	}
	return rows.Err()
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
