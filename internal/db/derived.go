package db

// CoverURL 返回第一张封面图的 URL；表层容忍多条 cover 记录，仅展示首条。
func (b *Blog) CoverURL() string {
	for _, img := range b.Images {
		if img.Type == ImageTypeCover {
			return img.ImageURL
		}
	}
	return ""
}

// GalleryURLs 按插入顺序返回图集 URL。
func (b *Blog) GalleryURLs() []string {
	var urls []string
	for _, img := range b.Images {
		if img.Type == ImageTypeGallery {
			urls = append(urls, img.ImageURL)
		}
	}
	return urls
}

// CoverURL 返回项目封面图 URL。
func (p *Project) CoverURL() string {
	for _, img := range p.Images {
		if img.Type == ImageTypeCover {
			return img.ImageURL
		}
	}
	return ""
}

// GalleryURLs 按插入顺序返回项目图集 URL。
func (p *Project) GalleryURLs() []string {
	var urls []string
	for _, img := range p.Images {
		if img.Type == ImageTypeGallery {
			urls = append(urls, img.ImageURL)
		}
	}
	return urls
}
