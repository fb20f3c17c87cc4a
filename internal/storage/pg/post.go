package pg

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/ideahub-dev/ideahub/internal/domain"
	internal_errors "github.com/ideahub-dev/ideahub/internal/errors"
	"github.com/ideahub-dev/ideahub/internal/service"
)

const postColumns = `id, title, description, author_id, category_id, author_hidden,
	liked_by, disliked_by, images, documents, views, deleted, created_at, updated_at`

func scanPost(row interface {
	Scan(dest ...any) error
}) (*domain.Post, error) {
	var p domain.Post
	err := row.Scan(&p.Id, &p.Title, &p.Description, &p.AuthorId, &p.CategoryId, &p.AuthorHidden,
		&p.LikedBy, &p.DislikedBy, &p.Images, &p.Documents, &p.Views, &p.Deleted, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (s *Storage) CreatePost(p *domain.Post) (*domain.Post, error) {
	created, err := scanPost(s.db.QueryRow(`
	INSERT INTO posts(title, description, author_id, category_id, author_hidden, images, documents)
	VALUES($1, $2, $3, $4, $5, $6, $7)
	RETURNING `+postColumns,
		p.Title, p.Description, p.AuthorId, p.CategoryId, p.AuthorHidden, p.Images, p.Documents))
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *Storage) GetPost(id domain.PostId) (*domain.Post, error) {
	post, err := scanPost(s.db.QueryRow(`
	SELECT `+postColumns+`
	FROM posts
	WHERE id = $1`, id))
	if err != nil || post == nil {
		return nil, err
	}
	if post.CommentIds, err = s.commentIdsFor(id); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *Storage) commentIdsFor(postId domain.PostId) ([]domain.CommentId, error) {
	var ids pq.Int64Array
	err := s.db.QueryRow(`
	SELECT COALESCE(array_agg(id ORDER BY created_at), '{}')
	FROM comments
	WHERE post_id = $1`, postId).Scan(&ids)
	if err != nil {
		return nil, err
	}
	return []domain.CommentId(ids), nil
}

var postSortColumns = map[string]string{
	"created": "p.created_at",
	"likes":   "cardinality(p.liked_by)",
	"views":   "p.views",
}

func (s *Storage) ListPosts(q service.ListPostsQuery) ([]service.PostListItem, int, error) {
	where := []string{"TRUE"}
	args := []any{}

	if q.Search != "" {
		args = append(args, "%"+q.Search+"%")
		where = append(where, fmt.Sprintf("p.title ILIKE $%d", len(args)))
	}
	if len(q.CategoryIds) > 0 {
		args = append(args, pq.Array(q.CategoryIds))
		where = append(where, fmt.Sprintf("p.category_id = ANY($%d)", len(args)))
	}

	orderBy, ok := postSortColumns[q.SortBy]
	if !ok {
		orderBy = "p.created_at"
	}
	direction := "DESC"
	if strings.EqualFold(q.SortOrder, "asc") {
		direction = "ASC"
	}

	args = append(args, q.Limit, (q.Page-1)*q.Limit)
	query := fmt.Sprintf(`
	SELECT p.id, p.title, p.description, p.author_id, p.category_id, p.author_hidden,
		p.liked_by, p.disliked_by, p.images, p.documents, p.views, p.deleted, p.created_at, p.updated_at,
		COALESCE(u.name, ''),
		COALESCE(u.department, ''),
		u.id IS NOT NULL,
		(SELECT count(*) FROM comments c WHERE c.post_id = p.id),
		count(*) OVER()
	FROM posts p
	LEFT JOIN users u ON u.id = p.author_id
	WHERE %s
	ORDER BY %s %s, p.id %s
	LIMIT $%d OFFSET $%d`,
		strings.Join(where, " AND "), orderBy, direction, direction, len(args)-1, len(args))

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []service.PostListItem
	total := 0
	for rows.Next() {
		var item service.PostListItem
		p := &item.Post
		err := rows.Scan(&p.Id, &p.Title, &p.Description, &p.AuthorId, &p.CategoryId, &p.AuthorHidden,
			&p.LikedBy, &p.DislikedBy, &p.Images, &p.Documents, &p.Views, &p.Deleted, &p.CreatedAt, &p.UpdatedAt,
			&item.AuthorName, &item.AuthorDepartment, &item.AuthorExists, &item.CommentCount, &total)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, item)
	}
	return items, total, rows.Err()
}

func (s *Storage) UpdatePost(id domain.PostId, upd service.PostUpdate) error {
	result, err := s.db.Exec(`
	UPDATE posts SET
		title = COALESCE($1, title),
		description = COALESCE($2, description),
		category_id = COALESCE($3, category_id),
		author_hidden = COALESCE($4, author_hidden),
		updated_at = now()
	WHERE id = $5`, upd.Title, upd.Description, upd.CategoryId, upd.AuthorHidden, id)
	if err != nil {
		return err
	}
	return requireUpdated(result, "Post")
}

func (s *Storage) SetPostDeleted(id domain.PostId) error {
	result, err := s.db.Exec(`UPDATE posts SET deleted = TRUE, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireUpdated(result, "Post")
}

func (s *Storage) DeletePost(id domain.PostId) error {
	result, err := s.db.Exec(`DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireUpdated(result, "Post")
}

// ToggleReaction is a single statement, so two concurrent toggles serialize
// on the row and each observes a consistent membership. RETURNING sees the
// new row: the user absent after the update means the reaction was removed.
func (s *Storage) ToggleReaction(id domain.PostId, userId domain.UserId, reaction service.Reaction) (bool, error) {
	target, opposite := "liked_by", "disliked_by"
	if reaction == service.ReactionDislike {
		target, opposite = opposite, target
	}

	var removed bool
	err := s.db.QueryRow(fmt.Sprintf(`
	UPDATE posts SET
		%[1]s = CASE WHEN $2 = ANY(%[1]s) THEN array_remove(%[1]s, $2::bigint)
		             ELSE array_append(%[1]s, $2::bigint) END,
		%[2]s = array_remove(%[2]s, $2::bigint),
		updated_at = now()
	WHERE id = $1
	RETURNING NOT ($2 = ANY(%[1]s))`, target, opposite), id, userId).Scan(&removed)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, internal_errors.NotFound("Post not found")
		}
		return false, err
	}
	return removed, nil
}

func (s *Storage) IncrementViews(id domain.PostId) (*domain.Post, error) {
	post, err := scanPost(s.db.QueryRow(`
	UPDATE posts SET views = views + 1
	WHERE id = $1
	RETURNING `+postColumns, id))
	if err != nil || post == nil {
		return nil, err
	}
	if post.CommentIds, err = s.commentIdsFor(id); err != nil {
		return nil, err
	}
	return post, nil
}
