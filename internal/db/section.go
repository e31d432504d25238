package db

import "gorm.io/gorm"

// 站点的各个版块均为单行表：每张表最多一行，读取即全量，更新即整行替换。

// HomeSection 首页文案与头图。
type HomeSection struct {
	gorm.Model
	Headline    string `gorm:"size:200"`
	Subheadline string `gorm:"size:300"`
	Intro       string `gorm:"type:text"`
	HeroImage   string `gorm:"size:500"`
	ResumeURL   string `gorm:"size:500"`
}

// AboutSection 关于页内容。
type AboutSection struct {
	gorm.Model
	Title    string `gorm:"size:200"`
	Content  string `gorm:"type:text"`
	ImageURL string `gorm:"size:500"`
}

// ContactSection 联系方式展示信息。
type ContactSection struct {
	gorm.Model
	Email    string `gorm:"size:200"`
	Phone    string `gorm:"size:50"`
	Address  string `gorm:"size:300"`
	GitHub   string `gorm:"size:500"`
	LinkedIn string `gorm:"size:500"`
	Twitter  string `gorm:"size:500"`
}

// NavbarSection 导航栏配置，Links 为 JSON 数组文本。
type NavbarSection struct {
	gorm.Model
	BrandName string `gorm:"size:100"`
	LogoURL   string `gorm:"size:500"`
	Links     string `gorm:"type:text"`
}

// FooterSection 页脚配置，Links 为 JSON 数组文本。
type FooterSection struct {
	gorm.Model
	Text      string `gorm:"size:500"`
	Copyright string `gorm:"size:200"`
	Links     string `gorm:"type:text"`
}

// MetaSetting 站点级 SEO 设置，供 meta 注入中间件与 RSS 使用。
type MetaSetting struct {
	gorm.Model
	SiteTitle       string `gorm:"size:200"`
	SiteDescription string `gorm:"size:500"`
	Keywords        string `gorm:"size:500"`
	Author          string `gorm:"size:100"`
	OGImage         string `gorm:"size:500"`
	TwitterHandle   string `gorm:"size:100"`
}
