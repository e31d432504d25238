package service

import (
	"errors"
	"strings"

	"github.com/foliolog/internal/db"
	"gorm.io/gorm"
)

var (
	ErrBlogNotFound   = errors.New("blog not found")
	ErrDuplicateTitle = errors.New("an entry with this title already exists")
)

// BlogService wraps blog related database operations. All multi-statement
// writes run inside one transaction; physical file removal happens strictly
// after commit so a rollback can never orphan referenced files.
type BlogService struct {
	db    *gorm.DB
	files *FileCleaner
}

// BlogInput represents fields accepted when creating or updating a blog.
type BlogInput struct {
	Title         string
	Content       string
	ContentFormat string
	Plaintext     string
	Excerpt       string
	Status        string
	CoverImage    string
	GalleryImages []string
}

// BlogFilter describes filters for listing blogs.
type BlogFilter struct {
	Search  string
	Status  string
	Page    int
	PerPage int
}

// BlogListResult aggregates paginated list data and counters.
type BlogListResult struct {
	Blogs          []db.Blog
	Total          int64
	PublishedCount int64
	DraftCount     int64
	TotalPages     int
	Page           int
	PerPage        int
}

// NewBlogService creates a BlogService instance. files may be nil when no
// upload directory is wired (e.g. unit tests that only exercise the store).
func NewBlogService(gdb *gorm.DB, files *FileCleaner) *BlogService {
	return &BlogService{db: gdb, files: files}
}

// Create persists a blog and its image set in a single transaction.
// The slug is derived from the title once and never rewritten afterwards.
func (s *BlogService) Create(input BlogInput) (*db.Blog, error) {
	content, err := NormalizeContent(input.Content, input.ContentFormat)
	if err != nil {
		return nil, err
	}

	blog := db.Blog{
		Slug:      Slugify(input.Title),
		Title:     strings.TrimSpace(input.Title),
		Content:   content,
		Plaintext: normalizePlaintext(input.Plaintext, content),
		Excerpt:   strings.TrimSpace(input.Excerpt),
		Status:    normalizeBlogStatus(input.Status),
	}

	if err := s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&db.Blog{}).Where("slug = ?", blog.Slug).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicateTitle
		}

		if err := tx.Create(&blog).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateTitle
			}
			return err
		}

		return insertBlogImages(tx, blog.ID, input.CoverImage, input.GalleryImages)
	}); err != nil {
		return nil, err
	}

	return s.Get(blog.Slug)
}

// Update rewrites a blog's scalar fields and replaces its entire image set
// inside one transaction, then removes files that are no longer referenced.
// The slug is deliberately left untouched: blog permalinks are stable.
func (s *BlogService) Update(currentSlug string, input BlogInput) (*db.Blog, error) {
	content, err := NormalizeContent(input.Content, input.ContentFormat)
	if err != nil {
		return nil, err
	}

	var oldURLs []string
	var blogID uint

	if err := s.db.Transaction(func(tx *gorm.DB) error {
		var blog db.Blog
		if err := tx.Where("slug = ?", currentSlug).First(&blog).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBlogNotFound
			}
			return err
		}
		blogID = blog.ID

		// 在事务内读取旧图片集合，保证与随后的删除看到同一份状态。
		urls, err := collectBlogImageURLs(tx, blog.ID)
		if err != nil {
			return err
		}
		oldURLs = urls

		blog.Title = strings.TrimSpace(input.Title)
		blog.Content = content
		blog.Plaintext = normalizePlaintext(input.Plaintext, content)
		blog.Excerpt = strings.TrimSpace(input.Excerpt)
		blog.Status = normalizeBlogStatus(input.Status)

		if err := tx.Save(&blog).Error; err != nil {
			return err
		}

		if err := tx.Unscoped().Where("blog_id = ?", blog.ID).Delete(&db.BlogImage{}).Error; err != nil {
			return err
		}

		return insertBlogImages(tx, blog.ID, input.CoverImage, input.GalleryImages)
	}); err != nil {
		return nil, err
	}

	// 提交之后才删除物理文件；重新提交的 URL 不在删除之列。
	s.files.Remove(staleImageURLs(oldURLs, keptImageURLs(input.CoverImage, input.GalleryImages)))

	var updated db.Blog
	if err := s.db.Preload("Images", blogImageOrder).First(&updated, blogID).Error; err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes a blog and its image rows, then cleans up the files.
func (s *BlogService) Delete(slug string) error {
	var oldURLs []string

	if err := s.db.Transaction(func(tx *gorm.DB) error {
		var blog db.Blog
		if err := tx.Where("slug = ?", slug).First(&blog).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBlogNotFound
			}
			return err
		}

		urls, err := collectBlogImageURLs(tx, blog.ID)
		if err != nil {
			return err
		}
		oldURLs = urls

		if err := tx.Unscoped().Where("blog_id = ?", blog.ID).Delete(&db.BlogImage{}).Error; err != nil {
			return err
		}

		result := tx.Unscoped().Delete(&db.Blog{}, blog.ID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrBlogNotFound
		}
		return nil
	}); err != nil {
		return err
	}

	s.files.Remove(staleImageURLs(oldURLs, nil))
	return nil
}

// Get fetches a blog by slug with its images in display order.
func (s *BlogService) Get(slug string) (*db.Blog, error) {
	var blog db.Blog
	if err := s.db.Preload("Images", blogImageOrder).Where("slug = ?", slug).First(&blog).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBlogNotFound
		}
		return nil, err
	}
	return &blog, nil
}

// List provides paginated blogs with aggregated counters based on filters.
func (s *BlogService) List(filter BlogFilter) (*BlogListResult, error) {
	result := &BlogListResult{
		Page:    normalizePage(filter.Page),
		PerPage: normalizePerPage(filter.PerPage, 10),
	}

	query := s.db.Model(&db.Blog{})
	query = applyBlogFilters(query, filter)

	if err := query.Count(&result.Total).Error; err != nil {
		return nil, err
	}

	offset := (result.Page - 1) * result.PerPage

	var blogs []db.Blog
	dataQuery := applyBlogFilters(s.db.Model(&db.Blog{}).Preload("Images", blogImageOrder), filter)
	if err := dataQuery.Order("created_at desc").Limit(result.PerPage).Offset(offset).Find(&blogs).Error; err != nil {
		return nil, err
	}

	counter := s.db.Model(&db.Blog{})
	if search := strings.TrimSpace(filter.Search); search != "" {
		counter = applyBlogSearch(counter, search)
	}
	if err := counter.Where("status = ?", db.BlogStatusPublished).Count(&result.PublishedCount).Error; err != nil {
		return nil, err
	}
	counter = s.db.Model(&db.Blog{})
	if search := strings.TrimSpace(filter.Search); search != "" {
		counter = applyBlogSearch(counter, search)
	}
	if err := counter.Where("status = ?", db.BlogStatusDraft).Count(&result.DraftCount).Error; err != nil {
		return nil, err
	}

	result.TotalPages = calculateTotalPages(result.Total, result.PerPage)
	result.Blogs = blogs
	return result, nil
}

// ListPublished returns all published blogs, newest first, for feeds.
func (s *BlogService) ListPublished() ([]db.Blog, error) {
	var blogs []db.Blog
	if err := s.db.Preload("Images", blogImageOrder).
		Where("status = ?", db.BlogStatusPublished).
		Order("created_at desc").
		Find(&blogs).Error; err != nil {
		return nil, err
	}
	return blogs, nil
}

// IncrementViews bumps the view counter with a single UPDATE. Zero affected
// rows means the slug resolves to nothing.
func (s *BlogService) IncrementViews(slug string) error {
	result := s.db.Model(&db.Blog{}).
		Where("slug = ?", slug).
		UpdateColumn("views", gorm.Expr("views + 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrBlogNotFound
	}
	return nil
}

func applyBlogFilters(query *gorm.DB, filter BlogFilter) *gorm.DB {
	if search := strings.TrimSpace(filter.Search); search != "" {
		query = applyBlogSearch(query, search)
	}
	if status := strings.TrimSpace(filter.Status); status != "" {
		query = query.Where("status = ?", status)
	}
	return query
}

func applyBlogSearch(query *gorm.DB, search string) *gorm.DB {
	like := "%" + search + "%"
	return query.Where("title LIKE ? OR plaintext LIKE ? OR excerpt LIKE ?", like, like, like)
}

func normalizeBlogStatus(status string) string {
	if strings.ToLower(strings.TrimSpace(status)) == db.BlogStatusPublished {
		return db.BlogStatusPublished
	}
	return db.BlogStatusDraft
}

func normalizePlaintext(plaintext, contentHTML string) string {
	if trimmed := strings.TrimSpace(plaintext); trimmed != "" {
		return trimmed
	}
	return DerivePlaintext(contentHTML)
}

func blogImageOrder(tx *gorm.DB) *gorm.DB {
	return tx.Order("sort_order asc, id asc")
}

func insertBlogImages(tx *gorm.DB, blogID uint, cover string, gallery []string) error {
	order := 0
	if trimmed := strings.TrimSpace(cover); trimmed != "" {
		if err := tx.Create(&db.BlogImage{
			BlogID:   blogID,
			ImageURL: trimmed,
			Type:     db.ImageTypeCover,
		}).Error; err != nil {
			return err
		}
	}
	for _, url := range gallery {
		trimmed := strings.TrimSpace(url)
		if trimmed == "" {
			continue
		}
		if err := tx.Create(&db.BlogImage{
			BlogID:    blogID,
			ImageURL:  trimmed,
			Type:      db.ImageTypeGallery,
			SortOrder: order,
		}).Error; err != nil {
			return err
		}
		order++
	}
	return nil
}

func collectBlogImageURLs(tx *gorm.DB, blogID uint) ([]string, error) {
	var urls []string
	if err := tx.Model(&db.BlogImage{}).
		Where("blog_id = ?", blogID).
		Order("id asc").
		Pluck("image_url", &urls).Error; err != nil {
		return nil, err
	}
	return urls, nil
}

// keptImageURLs lists the URLs re-supplied by the caller, i.e. files that
// must survive the post-commit cleanup.
func keptImageURLs(cover string, gallery []string) []string {
	kept := make([]string, 0, len(gallery)+1)
	if trimmed := strings.TrimSpace(cover); trimmed != "" {
		kept = append(kept, trimmed)
	}
	for _, url := range gallery {
		if trimmed := strings.TrimSpace(url); trimmed != "" {
			kept = append(kept, trimmed)
		}
	}
	return kept
}

func normalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

func normalizePerPage(perPage, fallback int) int {
	if perPage <= 0 {
		return fallback
	}
	return perPage
}

func calculateTotalPages(total int64, perPage int) int {
	if perPage <= 0 || total == 0 {
		return 1
	}
	return int((total + int64(perPage) - 1) / int64(perPage))
}
