package service

import (
	"errors"

	"github.com/foliolog/internal/db"
	"gorm.io/gorm"
)

// SectionService 管理各单行版块：home/about/contact/navbar/footer/meta。
// 每个版块最多一行，读取返回现有行或零值，保存时整行替换（不存在则创建）。
type SectionService struct {
	db *gorm.DB
}

// NewSectionService creates a SectionService instance.
func NewSectionService(gdb *gorm.DB) *SectionService {
	return &SectionService{db: gdb}
}

// GetHome returns the home section singleton, zero-valued when unset.
func (s *SectionService) GetHome() (db.HomeSection, error) {
	var row db.HomeSection
	err := s.db.First(&row).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return row, err
	}
	return row, nil
}

// SaveHome replaces the home section singleton.
func (s *SectionService) SaveHome(input db.HomeSection) (db.HomeSection, error) {
	var row db.HomeSection
	err := s.db.First(&row).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return row, err
		}
		row = db.HomeSection{}
	}
	row.Headline = input.Headline
	row.Subheadline = input.Subheadline
	row.Intro = input.Intro
	row.HeroImage = input.HeroImage
	row.ResumeURL = input.ResumeURL
	return row, s.db.Save(&row).Error
}

// GetAbout returns the about section singleton.
func (s *SectionService) GetAbout() (db.AboutSection, error) {
	var row db.AboutSection
	err := s.db.First(&row).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return row, err
	}
	return row, nil
}

// SaveAbout replaces the about section singleton. Content is sanitized the
// same way as blog bodies since it comes from the same rich editor.
func (s *SectionService) SaveAbout(input db.AboutSection) (db.AboutSection, error) {
	var row db.AboutSection
	err := s.db.First(&row).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return row, err
		}
		row = db.AboutSection{}
	}
	content, cerr := NormalizeContent(input.Content, ContentFormatHTML)
	if cerr != nil {
		return row, cerr
	}
	row.Title = input.Title
	row.Content = content
	row.ImageURL = input.ImageURL
	return row, s.db.Save(&row).Error
}

// GetContact returns the contact section singleton.
func (s *SectionService) GetContact() (db.ContactSection, error) {
	var row db.ContactSection
	err := s.db.First(&row).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return row, err
	}
	return row, nil
}

// SaveContact replaces the contact section singleton.
func (s *SectionService) SaveContact(input db.ContactSection) (db.ContactSection, error) {
	var row db.ContactSection
	err := s.db.First(&row).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return row, err
		}
		row = db.ContactSection{}
	}
	row.Email = input.Email
	row.Phone = input.Phone
	row.Address = input.Address
	row.GitHub = input.GitHub
	row.LinkedIn = input.LinkedIn
	row.Twitter = input.Twitter
	return row, s.db.Save(&row).Error
}

// GetNavbar returns the navbar section singleton.
func (s *SectionService) GetNavbar() (db.NavbarSection, error) {
	var row db.NavbarSection
	err := s.db.First(&row).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return row, err
	}
	return row, nil
}

// SaveNavbar replaces the navbar section singleton.
func (s *SectionService) SaveNavbar(input db.NavbarSection) (db.NavbarSection, error) {
	var row db.NavbarSection
	err := s.db.First(&row).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return row, err
		}
		row = db.NavbarSection{}
	}
	row.BrandName = input.BrandName
	row.LogoURL = input.LogoURL
	row.Links = input.Links
	return row, s.db.Save(&row).Error
}

// GetFooter returns the footer section singleton.
func (s *SectionService) GetFooter() (db.FooterSection, error) {
	var row db.FooterSection
	err := s.db.First(&row).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return row, err
	}
	return row, nil
}

// SaveFooter replaces the footer section singleton.
func (s *SectionService) SaveFooter(input db.FooterSection) (db.FooterSection, error) {
	var row db.FooterSection
	err := s.db.First(&row).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return row, err
		}
		row = db.FooterSection{}
	}
	row.Text = input.Text
	row.Copyright = input.Copyright
	row.Links = input.Links
	return row, s.db.Save(&row).Error
}

// GetMeta returns the site-wide SEO settings singleton.
func (s *SectionService) GetMeta() (db.MetaSetting, error) {
	var row db.MetaSetting
	err := s.db.First(&row).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return row, err
	}
	return row, nil
}

// SaveMeta replaces the site-wide SEO settings singleton.
func (s *SectionService) SaveMeta(input db.MetaSetting) (db.MetaSetting, error) {
	var row db.MetaSetting
	err := s.db.First(&row).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return row, err
		}
		row = db.MetaSetting{}
	}
	row.SiteTitle = input.SiteTitle
	row.SiteDescription = input.SiteDescription
	row.Keywords = input.Keywords
	row.Author = input.Author
	row.OGImage = input.OGImage
	row.TwitterHandle = input.TwitterHandle
	return row, s.db.Save(&row).Error
}
