package handler

import (
	"log"
	"net/http"

	"github.com/foliolog/internal/db"
	"github.com/gin-gonic/gin"
)

// 各版块均为单行记录：GET 公开读取，PUT 在后台整行替换。

// GetHome 返回首页版块。
func (a *API) GetHome(c *gin.Context) {
	row, err := a.sections.GetHome()
	if err != nil {
		log.Printf("get home section: %v", err)
		respondError(c, http.StatusInternalServerError, "failed to load home section")
		return
	}
	c.JSON(http.StatusOK, gin.H{"home": gin.H{
		"headline":    row.Headline,
		"subheadline": row.Subheadline,
		"intro":       row.Intro,
		"heroImage":   row.HeroImage,
		"resumeUrl":   row.ResumeURL,
	}})
}

type homeRequest struct {
	Headline    string `json:"headline"`
	Subheadline string `json:"subheadline"`
	Intro       string `json:"intro"`
	HeroImage   string `json:"heroImage"`
	ResumeURL   string `json:"resumeUrl"`
}

// UpdateHome 替换首页版块。
func (a *API) UpdateHome(c *gin.Context) {
	var req homeRequest
	if !bindJSON(c, &req, "invalid request body") {
		return
	}
	if _, err := a.sections.SaveHome(db.HomeSection{
		Headline:    req.Headline,
		Subheadline: req.Subheadline,
		Intro:       req.Intro,
		HeroImage:   req.HeroImage,
		ResumeURL:   req.ResumeURL,
	}); err != nil {
		log.Printf("save home section: %v", err)
		respondError(c, http.StatusInternalServerError, "failed to save home section")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "home section updated"})
}

// GetAbout 返回关于页版块。
func (a *API) GetAbout(c *gin.Context) {
	row, err := a.sections.GetAbout()
	if err != nil {
		log.Printf("get about section: %v", err)
		respondError(c, http.StatusInternalServerError, "failed to load about section")
		return
	}
	c.JSON(http.StatusOK, gin.H{"about": gin.H{
		"title":    row.Title,
		"content":  row.Content,
		"imageUrl": row.ImageURL,
	}})
}

type aboutRequest struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	ImageURL string `json:"imageUrl"`
}

// UpdateAbout 替换关于页版块。
func (a *API) UpdateAbout(c *gin.Context) {
	var req aboutRequest
	if !bindJSON(c, &req, "invalid request body") {
		return
	}
	if _, err := a.sections.SaveAbout(db.AboutSection{
		Title:    req.Title,
		Content:  req.Content,
		ImageURL: req.ImageURL,
	}); err != nil {
		log.Printf("save about section: %v", err)
		respondError(c, http.StatusInternalServerError, "failed to save about section")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "about section updated"})
}

// GetContactSection 返回联系方式版块。
func (a *API) GetContactSection(c *gin.Context) {
	row, err := a.sections.GetContact()
	if err != nil {
		log.Printf("get contact section: %v", err)
		respondError(c, http.StatusInternalServerError, "failed to load contact section")
		return
	}
	c.JSON(http.StatusOK, gin.H{"contact": gin.H{
		"email":    row.Email,
		"phone":    row.Phone,
		"address":  row.Address,
		"github":   row.GitHub,
		"linkedin": row.LinkedIn,
		"twitter":  row.Twitter,
	}})
}

type contactSectionRequest struct {
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	GitHub   string `json:"github"`
	LinkedIn string `json:"linkedin"`
	Twitter  string `json:"twitter"`
}

// UpdateContactSection 替换联系方式版块。
func (a *API) UpdateContactSection(c *gin.Context) {
	var req contactSectionRequest
	if !bindJSON(c, &req, "invalid request body") {
		return
	}
	if _, err := a.sections.SaveContact(db.ContactSection{
		Email:    req.Email,
		Phone:    req.Phone,
		Address:  req.Address,
		GitHub:   req.GitHub,
		LinkedIn: req.LinkedIn,
		Twitter:  req.Twitter,
	}); err != nil {
		log.Printf("save contact section: %v", err)
		respondError(c, http.StatusInternalServerError, "failed to save contact section")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "contact section updated"})
}

// GetNavbar 返回导航栏版块。
func (a *API) GetNavbar(c *gin.Context) {
	row, err := a.sections.GetNavbar()
	if err != nil {
		log.Printf("get navbar section: %v", err)
		respondError(c, http.StatusInternalServerError, "failed to load navbar section")
		return
	}
	c.JSON(http.StatusOK, gin.H{"navbar": gin.H{
		"brandName": row.BrandName,
		"logoUrl":   row.LogoURL,
		"links":     row.Links,
	}})
}

type navbarRequest struct {
	BrandName string `json:"brandName"`
	LogoURL   string `json:"logoUrl"`
	Links     string `json:"links"`
}

// UpdateNavbar 替换导航栏版块。
func (a *API) UpdateNavbar(c *gin.Context) {
	var req navbarRequest
	if !bindJSON(c, &req, "invalid request body") {
		return
	}
	if _, err := a.sections.SaveNavbar(db.NavbarSection{
		BrandName: req.BrandName,
		LogoURL:   req.LogoURL,
		Links:     req.Links,
	}); err != nil {
		log.Printf("save navbar section: %v", err)
		respondError(c, http.StatusInternalServerError, "failed to save navbar section")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "navbar section updated"})
}

// GetFooter 返回页脚版块。
func (a *API) GetFooter(c *gin.Context) {
	row, err := a.sections.GetFooter()
	if err != nil {
		log.Printf("get footer section: %v", err)
		respondError(c, http.StatusInternalServerError, "failed to load footer section")
		return
	}
	c.JSON(http.StatusOK, gin.H{"footer": gin.H{
		"text":      row.Text,
		"copyright": row.Copyright,
		"links":     row.Links,
	}})
}

type footerRequest struct {
	Text      string `json:"text"`
	Copyright string `json:"copyright"`
	Links     string `json:"links"`
}

// UpdateFooter 替换页脚版块。
func (a *API) UpdateFooter(c *gin.Context) {
	var req footerRequest
	if !bindJSON(c, &req, "invalid request body") {
		return
	}
	if _, err := a.sections.SaveFooter(db.FooterSection{
		Text:      req.Text,
		Copyright: req.Copyright,
		Links:     req.Links,
	}); err != nil {
		log.Printf("save footer section: %v", err)
		respondError(c, http.StatusInternalServerError, "failed to save footer section")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "footer section updated"})
}

// GetMeta 返回站点 SEO 设置。
func (a *API) GetMeta(c *gin.Context) {
	row, err := a.sections.GetMeta()
	if err != nil {
		log.Printf("get meta settings: %v", err)
		respondError(c, http.StatusInternalServerError, "failed to load meta settings")
		return
	}
	c.JSON(http.StatusOK, gin.H{"meta": gin.H{
		"siteTitle":       row.SiteTitle,
		"siteDescription": row.SiteDescription,
		"keywords":        row.Keywords,
		"author":          row.Author,
		"ogImage":         row.OGImage,
		"twitterHandle":   row.TwitterHandle,
	}})
}

type metaRequest struct {
	SiteTitle       string `json:"siteTitle"`
	SiteDescription string `json:"siteDescription"`
	Keywords        string `json:"keywords"`
	Author          string `json:"author"`
	OGImage         string `json:"ogImage"`
	TwitterHandle   string `json:"twitterHandle"`
}

// UpdateMeta 替换站点 SEO 设置。
func (a *API) UpdateMeta(c *gin.Context) {
	var req metaRequest
	if !bindJSON(c, &req, "invalid request body") {
		return
	}
	if _, err := a.sections.SaveMeta(db.MetaSetting{
		SiteTitle:       req.SiteTitle,
		SiteDescription: req.SiteDescription,
		Keywords:        req.Keywords,
		Author:          req.Author,
		OGImage:         req.OGImage,
		TwitterHandle:   req.TwitterHandle,
	}); err != nil {
		log.Printf("save meta settings: %v", err)
		respondError(c, http.StatusInternalServerError, "failed to save meta settings")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "meta settings updated"})
}
