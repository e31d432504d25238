package service

import (
	"log"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// FileCleaner 负责在数据库事务提交后移除不再被引用的上传文件。
// 删除是尽力而为的：文件已不存在视为成功，其余错误仅记录日志，
// 绝不影响已经提交的写入结果。
type FileCleaner struct {
	uploadDir     string
	uploadURLPath string
}

// NewFileCleaner 创建一个以 uploadDir 为根、uploadURLPath 为公开前缀的清理器。
func NewFileCleaner(uploadDir, uploadURLPath string) *FileCleaner {
	return &FileCleaner{
		uploadDir:     uploadDir,
		uploadURLPath: strings.TrimSuffix(uploadURLPath, "/"),
	}
}

// Remove 逐个删除给定公开 URL 对应的物理文件。
func (c *FileCleaner) Remove(urls []string) {
	if c == nil {
		return
	}
	for _, u := range urls {
		fsPath, ok := c.resolve(u)
		if !ok {
			continue
		}
		if err := os.Remove(fsPath); err != nil && !os.IsNotExist(err) {
			log.Printf("file cleaner: remove %s: %v", fsPath, err)
		}
	}
}

// resolve 将公开 URL 映射回上传目录内的文件路径。
// 仅接受上传前缀下的相对路径，并用 path.Base 防止目录穿越。
func (c *FileCleaner) resolve(url string) (string, bool) {
	trimmed := strings.TrimSpace(url)
	if trimmed == "" || !strings.HasPrefix(trimmed, c.uploadURLPath+"/") {
		return "", false
	}
	name := path.Base(trimmed)
	if name == "." || name == "/" || name == ".." {
		return "", false
	}
	return filepath.Join(c.uploadDir, name), true
}

// staleImageURLs 返回旧集合中未被新集合保留的 URL。
// 被重新提交的 URL 不能删除，否则会清掉仍被引用的文件。
func staleImageURLs(old, kept []string) []string {
	retained := make(map[string]struct{}, len(kept))
	for _, u := range kept {
		retained[strings.TrimSpace(u)] = struct{}{}
	}

	var stale []string
	seen := make(map[string]struct{}, len(old))
	for _, u := range old {
		trimmed := strings.TrimSpace(u)
		if trimmed == "" {
			continue
		}
		if _, ok := retained[trimmed]; ok {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		stale = append(stale, trimmed)
	}
	return stale
}
