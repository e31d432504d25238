package service

import (
	"errors"
	"strings"

	"github.com/foliolog/internal/db"
	"gorm.io/gorm"
)

var ErrProjectNotFound = errors.New("project not found")

// ProjectService wraps project related database operations. It follows the
// same transactional image-replacement discipline as BlogService, with one
// deliberate divergence: a project's slug tracks its title on update, while
// a blog's slug is a frozen permalink.
type ProjectService struct {
	db    *gorm.DB
	files *FileCleaner
}

// ProjectInput represents fields accepted when creating or updating a project.
type ProjectInput struct {
	Title         string
	Content       string
	ContentFormat string
	Plaintext     string
	Description   string
	Status        string
	RepoURL       string
	DemoURL       string
	CoverImage    string
	GalleryImages []string
}

// ProjectFilter describes filters for listing projects.
type ProjectFilter struct {
	Search  string
	Status  string
	Page    int
	PerPage int
}

// ProjectListResult aggregates paginated project results.
type ProjectListResult struct {
	Projects   []db.Project
	Total      int64
	TotalPages int
	Page       int
	PerPage    int
}

// NewProjectService creates a ProjectService instance.
func NewProjectService(gdb *gorm.DB, files *FileCleaner) *ProjectService {
	return &ProjectService{db: gdb, files: files}
}

// Create persists a project and its image set in a single transaction.
func (s *ProjectService) Create(input ProjectInput) (*db.Project, error) {
	content, err := NormalizeContent(input.Content, input.ContentFormat)
	if err != nil {
		return nil, err
	}

	project := db.Project{
		Slug:        Slugify(input.Title),
		Title:       strings.TrimSpace(input.Title),
		Content:     content,
		Plaintext:   normalizePlaintext(input.Plaintext, content),
		Description: strings.TrimSpace(input.Description),
		Status:      normalizeProjectStatus(input.Status),
		RepoURL:     strings.TrimSpace(input.RepoURL),
		DemoURL:     strings.TrimSpace(input.DemoURL),
	}

	if err := s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&db.Project{}).Where("slug = ?", project.Slug).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicateTitle
		}

		if err := tx.Create(&project).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateTitle
			}
			return err
		}

		return insertProjectImages(tx, project.ID, input.CoverImage, input.GalleryImages)
	}); err != nil {
		return nil, err
	}

	return s.Get(project.Slug)
}

// Update rewrites a project's fields and replaces its image set in one
// transaction. Unlike blogs, the slug is recomputed from the new title; the
// effective slug is whatever the returned record carries.
func (s *ProjectService) Update(currentSlug string, input ProjectInput) (*db.Project, error) {
	content, err := NormalizeContent(input.Content, input.ContentFormat)
	if err != nil {
		return nil, err
	}

	var oldURLs []string
	var projectID uint

	if err := s.db.Transaction(func(tx *gorm.DB) error {
		var project db.Project
		if err := tx.Where("slug = ?", currentSlug).First(&project).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProjectNotFound
			}
			return err
		}
		projectID = project.ID

		urls, err := collectProjectImageURLs(tx, project.ID)
		if err != nil {
			return err
		}
		oldURLs = urls

		newSlug := Slugify(input.Title)
		if newSlug != project.Slug {
			var count int64
			if err := tx.Model(&db.Project{}).
				Where("slug = ? AND id <> ?", newSlug, project.ID).
				Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return ErrDuplicateTitle
			}
		}

		project.Slug = newSlug
		project.Title = strings.TrimSpace(input.Title)
		project.Content = content
		project.Plaintext = normalizePlaintext(input.Plaintext, content)
		project.Description = strings.TrimSpace(input.Description)
		project.Status = normalizeProjectStatus(input.Status)
		project.RepoURL = strings.TrimSpace(input.RepoURL)
		project.DemoURL = strings.TrimSpace(input.DemoURL)

		if err := tx.Save(&project).Error; err != nil {
			return err
		}

		if err := tx.Unscoped().Where("project_id = ?", project.ID).Delete(&db.ProjectImage{}).Error; err != nil {
			return err
		}

		return insertProjectImages(tx, project.ID, input.CoverImage, input.GalleryImages)
	}); err != nil {
		return nil, err
	}

	s.files.Remove(staleImageURLs(oldURLs, keptImageURLs(input.CoverImage, input.GalleryImages)))

	var updated db.Project
	if err := s.db.Preload("Images", projectImageOrder).First(&updated, projectID).Error; err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes a project and its image rows, then cleans up the files.
func (s *ProjectService) Delete(slug string) error {
	var oldURLs []string

	if err := s.db.Transaction(func(tx *gorm.DB) error {
		var project db.Project
		if err := tx.Where("slug = ?", slug).First(&project).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProjectNotFound
			}
			return err
		}

		urls, err := collectProjectImageURLs(tx, project.ID)
		if err != nil {
			return err
		}
		oldURLs = urls

		if err := tx.Unscoped().Where("project_id = ?", project.ID).Delete(&db.ProjectImage{}).Error; err != nil {
			return err
		}

		result := tx.Unscoped().Delete(&db.Project{}, project.ID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrProjectNotFound
		}
		return nil
	}); err != nil {
		return err
	}

	s.files.Remove(staleImageURLs(oldURLs, nil))
	return nil
}

// Get fetches a project by slug with its images in display order.
func (s *ProjectService) Get(slug string) (*db.Project, error) {
	var project db.Project
	if err := s.db.Preload("Images", projectImageOrder).Where("slug = ?", slug).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	return &project, nil
}

// List provides paginated projects based on filters.
func (s *ProjectService) List(filter ProjectFilter) (*ProjectListResult, error) {
	result := &ProjectListResult{
		Page:    normalizePage(filter.Page),
		PerPage: normalizePerPage(filter.PerPage, 10),
	}

	query := applyProjectFilters(s.db.Model(&db.Project{}), filter)
	if err := query.Count(&result.Total).Error; err != nil {
		return nil, err
	}

	offset := (result.Page - 1) * result.PerPage

	var projects []db.Project
	dataQuery := applyProjectFilters(s.db.Model(&db.Project{}).Preload("Images", projectImageOrder), filter)
	if err := dataQuery.Order("created_at desc").Limit(result.PerPage).Offset(offset).Find(&projects).Error; err != nil {
		return nil, err
	}

	result.TotalPages = calculateTotalPages(result.Total, result.PerPage)
	result.Projects = projects
	return result, nil
}

// ListAll returns every project, newest first, for the sitemap.
func (s *ProjectService) ListAll() ([]db.Project, error) {
	var projects []db.Project
	if err := s.db.Preload("Images", projectImageOrder).
		Order("created_at desc").
		Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// IncrementViews bumps the view counter with a single UPDATE.
func (s *ProjectService) IncrementViews(slug string) error {
	result := s.db.Model(&db.Project{}).
		Where("slug = ?", slug).
		UpdateColumn("views", gorm.Expr("views + 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProjectNotFound
	}
	return nil
}

func applyProjectFilters(query *gorm.DB, filter ProjectFilter) *gorm.DB {
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + search + "%"
		query = query.Where("title LIKE ? OR plaintext LIKE ? OR description LIKE ?", like, like, like)
	}
	if status := strings.TrimSpace(filter.Status); status != "" {
		query = query.Where("status = ?", status)
	}
	return query
}

func normalizeProjectStatus(status string) string {
	if strings.ToLower(strings.TrimSpace(status)) == db.ProjectStatusCompleted {
		return db.ProjectStatusCompleted
	}
	return db.ProjectStatusInProgress
}

func projectImageOrder(tx *gorm.DB) *gorm.DB {
	return tx.Order("sort_order asc, id asc")
}

func insertProjectImages(tx *gorm.DB, projectID uint, cover string, gallery []string) error {
	order := 0
	if trimmed := strings.TrimSpace(cover); trimmed != "" {
		if err := tx.Create(&db.ProjectImage{
			ProjectID: projectID,
			ImageURL:  trimmed,
			Type:      db.ImageTypeCover,
		}).Error; err != nil {
			return err
		}
	}
	for _, url := range gallery {
		trimmed := strings.TrimSpace(url)
		if trimmed == "" {
			continue
		}
		if err := tx.Create(&db.ProjectImage{
			ProjectID: projectID,
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

func collectProjectImageURLs(tx *gorm.DB, projectID uint) ([]string, error) {
	var urls []string
	if err := tx.Model(&db.ProjectImage{}).
		Where("project_id = ?", projectID).
		Order("id asc").
		Pluck("image_url", &urls).Error; err != nil {
		return nil, err
	}
	return urls, nil
}
