package pg

import (
	"github.com/ideahub-dev/ideahub/internal/service"
)

// Dashboard aggregates. Soft-deleted posts and comments are filtered out in
// every query here.

func (s *Storage) PostsByDepartment() ([]service.DepartmentCount, error) {
	rows, err := s.db.Query(`
	SELECT COALESCE(u.department, ''), count(*)
	FROM posts p
	LEFT JOIN users u ON u.id = p.author_id
	WHERE NOT p.deleted
	GROUP BY u.department
	ORDER BY count(*) DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []service.DepartmentCount
	for rows.Next() {
		var c service.DepartmentCount
		if err := rows.Scan(&c.Department, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

func (s *Storage) TopCommentedPosts(limit int) ([]service.TopPost, error) {
	rows, err := s.db.Query(`
	SELECT p.id, p.title, count(c.id)
	FROM posts p
	JOIN comments c ON c.post_id = p.id AND NOT c.deleted
	WHERE NOT p.deleted
	GROUP BY p.id, p.title
	ORDER BY count(c.id) DESC, p.id
	LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []service.TopPost
	for rows.Next() {
		var p service.TopPost
		if err := rows.Scan(&p.PostId, &p.Title, &p.CommentCount); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

func (s *Storage) TopCommenters(limit int) ([]service.TopCommenter, error) {
	rows, err := s.db.Query(`
	SELECT u.id, u.name, count(c.id)
	FROM comments c
	JOIN users u ON u.id = c.author_id
	WHERE NOT c.deleted AND NOT c.author_hidden
	GROUP BY u.id, u.name
	ORDER BY count(c.id) DESC, u.id
	LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var commenters []service.TopCommenter
	for rows.Next() {
		var c service.TopCommenter
		if err := rows.Scan(&c.UserId, &c.Name, &c.CommentCount); err != nil {
			return nil, err
		}
		commenters = append(commenters, c)
	}
	return commenters, rows.Err()
}

func (s *Storage) PostsPerWeek() ([]service.WeeklyCount, error) {
	rows, err := s.db.Query(`
	SELECT extract(week FROM created_at)::int, count(*)
	FROM posts
	WHERE NOT deleted AND date_trunc('month', created_at) = date_trunc('month', now())
	GROUP BY 1
	ORDER BY 1`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []service.WeeklyCount
	for rows.Next() {
		var c service.WeeklyCount
		if err := rows.Scan(&c.Week, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

func (s *Storage) AnonymousCounts() (posts, comments int, err error) {
	err = s.db.QueryRow(`
	SELECT
		(SELECT count(*) FROM posts WHERE author_hidden AND NOT deleted),
		(SELECT count(*) FROM comments WHERE author_hidden AND NOT deleted)`).Scan(&posts, &comments)
	return posts, comments, err
}

func (s *Storage) IdeasWithoutCommentsPct() (float64, error) {
	var pct float64
	err := s.db.QueryRow(`
	SELECT COALESCE(round(
		100.0 * count(*) FILTER (WHERE NOT EXISTS (
			SELECT 1 FROM comments c WHERE c.post_id = p.id AND NOT c.deleted
		)) / NULLIF(count(*), 0), 2), 0)
	FROM posts p
	WHERE NOT p.deleted`).Scan(&pct)
	return pct, err
}
