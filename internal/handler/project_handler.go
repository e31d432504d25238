package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/foliolog/internal/db"
	"github.com/foliolog/internal/service"
	"github.com/gin-gonic/gin"
)

type projectRequest struct {
	Title         string   `json:"title"`
	Content       string   `json:"content"`
	ContentFormat string   `json:"contentFormat"`
	Plaintext     string   `json:"plaintext"`
	Description   string   `json:"description"`
	Status        string   `json:"status"`
	RepoURL       string   `json:"repoUrl"`
	DemoURL       string   `json:"demoUrl"`
	CoverImage    string   `json:"coverImage"`
	GalleryImages []string `json:"galleryImages"`
}

func (r projectRequest) validate() string {
	if strings.TrimSpace(r.Title) == "" {
		return "title is required"
	}
	if strings.TrimSpace(r.Content) == "" {
		return "content is required"
	}
	if strings.TrimSpace(r.Description) == "" {
		return "description is required"
	}
	if strings.TrimSpace(r.Status) == "" {
		return "status is required"
	}
	return ""
}

func (r projectRequest) toInput() service.ProjectInput {
	return service.ProjectInput{
		Title:         r.Title,
		Content:       r.Content,
		ContentFormat: r.ContentFormat,
		Plaintext:     r.Plaintext,
		Description:   r.Description,
		Status:        r.Status,
		RepoURL:       r.RepoURL,
		DemoURL:       r.DemoURL,
		CoverImage:    r.CoverImage,
		GalleryImages: r.GalleryImages,
	}
}

type projectView struct {
	ID          uint     `json:"id"`
	Slug        string   `json:"slug"`
	Title       string   `json:"title"`
	Content     string   `json:"content,omitempty"`
	Plaintext   string   `json:"plaintext,omitempty"`
	Description string   `json:"description"`
	Status      string   `json:"status"`
	RepoURL     string   `json:"repoUrl,omitempty"`
	DemoURL     string   `json:"demoUrl,omitempty"`
	Views       uint64   `json:"views"`
	Cover       string   `json:"coverImage,omitempty"`
	Gallery     []string `json:"galleryImages,omitempty"`
	CreatedAt   string   `json:"createdAt"`
	UpdatedAt   string   `json:"updatedAt"`
}

func newProjectView(project *db.Project, includeContent bool) projectView {
	view := projectView{
		ID:          project.ID,
		Slug:        project.Slug,
		Title:       project.Title,
		Description: project.Description,
		Status:      project.Status,
		RepoURL:     project.RepoURL,
		DemoURL:     project.DemoURL,
		Views:       project.Views,
		Cover:       project.CoverURL(),
		Gallery:     project.GalleryURLs(),
		CreatedAt:   project.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		UpdatedAt:   project.UpdatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
	if includeContent {
		view.Content = project.Content
		view.Plaintext = project.Plaintext
	}
	return view
}

// ListProjects 返回项目列表，支持搜索、状态过滤与分页。
func (a *API) ListProjects(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	perPage, _ := strconv.Atoi(c.Query("perPage"))

	result, err := a.projects.List(service.ProjectFilter{
		Search:  c.Query("search"),
		Status:  c.Query("status"),
		Page:    page,
		PerPage: perPage,
	})
	if err != nil {
		log.Printf("list projects: %v", err)
		respondError(c, http.StatusInternalServerError, "failed to list projects")
		return
	}

	views := make([]projectView, 0, len(result.Projects))
	for i := range result.Projects {
		views = append(views, newProjectView(&result.Projects[i], false))
	}

	c.JSON(http.StatusOK, gin.H{
		"projects":   views,
		"total":      result.Total,
		"totalPages": result.TotalPages,
		"page":       result.Page,
		"perPage":    result.PerPage,
	})
}

// GetProject 按 slug 返回单个项目。
func (a *API) GetProject(c *gin.Context) {
	project, err := a.projects.Get(c.Param("slug"))
	if err != nil {
		if errors.Is(err, service.ErrProjectNotFound) {
			respondError(c, http.StatusNotFound, "project not found")
			return
		}
		log.Printf("get project: %v", err)
		respondError(c, http.StatusInternalServerError, "failed to load project")
		return
	}
	c.JSON(http.StatusOK, gin.H{"project": newProjectView(project, true)})
}

// CreateProject 创建项目及其图片集合。
func (a *API) CreateProject(c *gin.Context) {
	var req projectRequest
	if !bindJSON(c, &req, "invalid request body") {
		return
	}
	if msg := req.validate(); msg != "" {
		respondError(c, http.StatusBadRequest, msg)
		return
	}

	project, err := a.projects.Create(req.toInput())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDuplicateTitle):
			respondError(c, http.StatusConflict, "a project with this title already exists")
		case errors.Is(err, service.ErrInvalidMarkdown):
			respondError(c, http.StatusBadRequest, "content markdown could not be rendered")
		default:
			log.Printf("create project: %v", err)
			respondError(c, http.StatusInternalServerError, "failed to create project")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":      project.ID,
		"slug":    project.Slug,
		"message": "project created",
	})
}

// UpdateProject 更新项目并整体替换图片集合。标题变化时 slug 会随之
// 重新生成，响应中的 slug 即更新后的有效值。
func (a *API) UpdateProject(c *gin.Context) {
	var req projectRequest
	if !bindJSON(c, &req, "invalid request body") {
		return
	}
	if msg := req.validate(); msg != "" {
		respondError(c, http.StatusBadRequest, msg)
		return
	}

	project, err := a.projects.Update(c.Param("slug"), req.toInput())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProjectNotFound):
			respondError(c, http.StatusNotFound, "project not found")
		case errors.Is(err, service.ErrDuplicateTitle):
			respondError(c, http.StatusConflict, "a project with this title already exists")
		case errors.Is(err, service.ErrInvalidMarkdown):
			respondError(c, http.StatusBadRequest, "content markdown could not be rendered")
		default:
			log.Printf("update project: %v", err)
			respondError(c, http.StatusInternalServerError, "failed to update project")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"slug":    project.Slug,
		"message": "project updated",
	})
}

// DeleteProject 删除项目、图片记录及其物理文件。
func (a *API) DeleteProject(c *gin.Context) {
	if err := a.projects.Delete(c.Param("slug")); err != nil {
		if errors.Is(err, service.ErrProjectNotFound) {
			respondError(c, http.StatusNotFound, "project not found")
			return
		}
		log.Printf("delete project: %v", err)
		respondError(c, http.StatusInternalServerError, "failed to delete project")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "project deleted"})
}

// ViewProject 为项目累加一次浏览量，同一会话内最多计一次。
func (a *API) ViewProject(c *gin.Context) {
	a.incrementView(c, "project", c.Param("slug"), a.projects.IncrementViews)
}
