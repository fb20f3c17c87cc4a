package pg

import (
	"database/sql"
	"errors"

	"github.com/ideahub-dev/ideahub/internal/domain"
)

const commentColumns = `id, post_id, author_id, text, author_hidden, deleted, created_at, updated_at`

func scanComment(row interface {
	Scan(dest ...any) error
}) (*domain.Comment, error) {
	var c domain.Comment
	err := row.Scan(&c.Id, &c.PostId, &c.AuthorId, &c.Text, &c.AuthorHidden, &c.Deleted, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (s *Storage) CreateComment(c *domain.Comment) (*domain.Comment, error) {
	return scanComment(s.db.QueryRow(`
	INSERT INTO comments(post_id, author_id, text, author_hidden)
	VALUES($1, $2, $3, $4)
	RETURNING `+commentColumns,
		c.PostId, c.AuthorId, c.Text, c.AuthorHidden))
}

func (s *Storage) GetComment(id domain.CommentId) (*domain.Comment, error) {
	return scanComment(s.db.QueryRow(`
	SELECT `+commentColumns+`
	FROM comments
	WHERE id = $1`, id))
}

func (s *Storage) ListCommentsByPost(postId domain.PostId) ([]domain.Comment, error) {
	rows, err := s.db.Query(`
	SELECT `+commentColumns+`
	FROM comments
	WHERE post_id = $1
	ORDER BY created_at, id`, postId)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []domain.Comment
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, *comment)
	}
	return comments, rows.Err()
}

func (s *Storage) UpdateComment(id domain.CommentId, text string) error {
	result, err := s.db.Exec(`UPDATE comments SET text = $1, updated_at = now() WHERE id = $2`, text, id)
	if err != nil {
		return err
	}
	return requireUpdated(result, "Comment")
}

func (s *Storage) SetCommentDeleted(id domain.CommentId) error {
	result, err := s.db.Exec(`UPDATE comments SET deleted = TRUE, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireUpdated(result, "Comment")
}

func (s *Storage) DeleteComment(id domain.CommentId) error {
	result, err := s.db.Exec(`DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireUpdated(result, "Comment")
}

// DeleteCommentsByPost removes every comment of the post; none existing is
// not an error.
func (s *Storage) DeleteCommentsByPost(postId domain.PostId) error {
	_, err := s.db.Exec(`DELETE FROM comments WHERE post_id = $1`, postId)
	return err
}
