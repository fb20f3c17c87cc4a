package service

// Aggregates shown on the admin dashboard. All of them exclude soft-deleted
// records; the storage queries carry the filter.

type DepartmentCount struct {
	Department string `json:"department"`
	Count      int    `json:"count"`
}

type TopPost struct {
	PostId       int64  `json:"post_id"`
	Title        string `json:"title"`
	CommentCount int    `json:"comment_count"`
}

type TopCommenter struct {
	UserId       int64  `json:"user_id"`
	Name         string `json:"name"`
	CommentCount int    `json:"comment_count"`
}

type WeeklyCount struct {
	Week  int `json:"week"`
	Count int `json:"count"`
}

type Overview struct {
	PostsByDepartment []DepartmentCount `json:"posts_by_department"`
	TopCommentedPosts []TopPost         `json:"top_commented_posts"`
	TopCommenters     []TopCommenter    `json:"top_commenters"`
	PostsPerWeek      []WeeklyCount     `json:"posts_per_week"`
	AnonymousPosts    int               `json:"anonymous_posts"`
	AnonymousComments int               `json:"anonymous_comments"`
	// IdeasWithoutCommentsPct is rounded to two decimal places.
	IdeasWithoutCommentsPct float64 `json:"ideas_without_comments_pct"`
}

type OverviewService interface {
	Get() (*Overview, error)
}

type OverviewStorage interface {
	PostsByDepartment() ([]DepartmentCount, error)
	TopCommentedPosts(limit int) ([]TopPost, error)
	TopCommenters(limit int) ([]TopCommenter, error)
	// PostsPerWeek buckets this month's posts by ISO week.
	PostsPerWeek() ([]WeeklyCount, error)
	AnonymousCounts() (posts, comments int, err error)
	IdeasWithoutCommentsPct() (float64, error)
}

type OverviewSvc struct {
	storage OverviewStorage
}

func NewOverview(storage OverviewStorage) *OverviewSvc {
	return &OverviewSvc{storage: storage}
}

const overviewTopN = 5

func (s *OverviewSvc) Get() (*Overview, error) {
	byDept, err := s.storage.PostsByDepartment()
	if err != nil {
		return nil, err
	}
	topPosts, err := s.storage.TopCommentedPosts(overviewTopN)
	if err != nil {
		return nil, err
	}
	topCommenters, err := s.storage.TopCommenters(overviewTopN)
	if err != nil {
		return nil, err
	}
	perWeek, err := s.storage.PostsPerWeek()
	if err != nil {
		return nil, err
	}
	anonPosts, anonComments, err := s.storage.AnonymousCounts()
	if err != nil {
		return nil, err
	}
	pct, err := s.storage.IdeasWithoutCommentsPct()
	if err != nil {
		return nil, err
	}

	return &Overview{
		PostsByDepartment:       byDept,
		TopCommentedPosts:       topPosts,
		TopCommenters:           topCommenters,
		PostsPerWeek:            perWeek,
		AnonymousPosts:          anonPosts,
		AnonymousComments:       anonComments,
		IdeasWithoutCommentsPct: pct,
	}, nil
}
