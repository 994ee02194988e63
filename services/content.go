package services

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/yunlin/oldtown/models"
	"github.com/yunlin/oldtown/utils"
)

// DefaultStoryMarker starts the extended reading section of an item.
const DefaultStoryMarker = "## 延伸閱讀"

// ContentService reads markdown items from <root>/<category>/<id>.md on every call.
type ContentService struct {
	root   string
	marker string
	md     goldmark.Markdown
}

func NewContentService(root, marker string) *ContentService {
	if marker == "" {
		marker = DefaultStoryMarker
	}
	return &ContentService{
		root:   root,
		marker: marker,
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(html.WithHardWraps(), html.WithUnsafe()),
		),
	}
}

type frontMatter struct {
	ID           string   `yaml:"id"`
	Title        string   `yaml:"title"`
	Image        string   `yaml:"image"`
	Audio        string   `yaml:"audio"`
	Address      string   `yaml:"address"`
	Phone        string   `yaml:"phone"`
	OpeningHours string   `yaml:"opening_hours"`
	Website      string   `yaml:"website"`
	Categories   []string `yaml:"categories"`
	Latitude     *float64 `yaml:"latitude"`
	Longitude    *float64 `yaml:"longitude"`
}

// List returns every item of category. Read failures are logged and yield an empty list.
func (s *ContentService) List(category models.Category) []models.ContentItem {
	items := []models.ContentItem{}
	dir := filepath.Join(s.root, string(category))
	entries, err := os.ReadDir(dir)
	if err != nil {
		utils.Logger.Warn("list content failed", zap.String("category", string(category)), zap.Error(err))
		return items
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".md") {
			continue
		}
		item, err := s.load(category, e.Name())
		if err != nil {
			utils.Logger.Warn("load content item failed",
				zap.String("category", string(category)),
				zap.String("file", e.Name()),
				zap.Error(err))
			continue
		}
		items = append(items, *item)
	}
	return items
}

// Get returns a single item. Any failure to read or parse it is reported as ErrNotFound.
func (s *ContentService) Get(category models.Category, id string) (*models.ContentItem, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}
	item, err := s.load(category, id+".md")
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			utils.Logger.Warn("load content item failed",
				zap.String("category", string(category)),
				zap.String("id", id),
				zap.Error(err))
		}
		return nil, ErrNotFound
	}
	return item, nil
}

// Exists reports whether category has a file for id.
func (s *ContentService) Exists(category models.Category, id string) bool {
	if !validID(id) {
		return false
	}
	info, err := os.Stat(filepath.Join(s.root, string(category), id+".md"))
	return err == nil && !info.IsDir()
}

// Counts returns the number of markdown files per category.
func (s *ContentService) Counts() map[models.Category]int {
	counts := make(map[models.Category]int, len(models.Categories))
	for _, c := range models.Categories {
		entries, err := os.ReadDir(filepath.Join(s.root, string(c)))
		if err != nil {
			counts[c] = 0
			continue
		}
		n := 0
		for _, e := range entries {
			if !e.IsDir() && strings.HasSuffix(e.Name(), ".md") {
				n++
			}
		}
		counts[c] = n
	}
	return counts
}

func validID(id string) bool {
	if id == "" || strings.Trim(id, ".") == "" {
		return false
	}
	return !strings.ContainsAny(id, `/\`)
}

func (s *ContentService) load(category models.Category, filename string) (*models.ContentItem, error) {
	raw, err := os.ReadFile(filepath.Join(s.root, string(category), filename))
	if err != nil {
		return nil, err
	}

	header, body := splitFrontMatter(raw)
	var meta frontMatter
	if len(header) > 0 {
		if err := yaml.Unmarshal(header, &meta); err != nil {
			return nil, fmt.Errorf("front matter: %w", err)
		}
	}

	primary, story, _ := strings.Cut(string(body), s.marker)
	mainHTML, err := s.render(primary)
	if err != nil {
		return nil, err
	}

	item := &models.ContentItem{
		ID:           meta.ID,
		Title:        meta.Title,
		Image:        meta.Image,
		Audio:        meta.Audio,
		Address:      meta.Address,
		Phone:        meta.Phone,
		OpeningHours: meta.OpeningHours,
		Website:      meta.Website,
		Categories:   meta.Categories,
		Latitude:     meta.Latitude,
		Longitude:    meta.Longitude,
		Content:      mainHTML,
		Category:     category,
	}
	if item.ID == "" {
		item.ID = strings.TrimSuffix(filename, ".md")
	}
	if story = strings.TrimSpace(story); story != "" {
		if item.StoryContent, err = s.render(story); err != nil {
			return nil, err
		}
		item.Story = true
	}
	return item, nil
}

func (s *ContentService) render(src string) (string, error) {
	var buf bytes.Buffer
	if err := s.md.Convert([]byte(strings.TrimSpace(src)), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return utils.Sanitize(buf.String()), nil
}

// splitFrontMatter separates a leading "---" delimited YAML block from the body.
func splitFrontMatter(raw []byte) (header, body []byte) {
	raw = bytes.TrimPrefix(raw, []byte("\ufeff"))
	normalized := bytes.ReplaceAll(raw, []byte("\r\n"), []byte("\n"))
	if !bytes.HasPrefix(normalized, []byte("---\n")) {
		return nil, normalized
	}
	rest := normalized[len("---\n"):]
	if bytes.HasPrefix(rest, []byte("---\n")) || bytes.Equal(rest, []byte("---")) {
		return nil, bytes.TrimPrefix(bytes.TrimPrefix(rest, []byte("---")), []byte("\n"))
	}
	end := bytes.Index(rest, []byte("\n---"))
	if end < 0 {
		return nil, normalized
	}
	header = rest[:end]
	body = rest[end+len("\n---"):]
	if i := bytes.IndexByte(body, '\n'); i >= 0 {
		body = body[i+1:]
	} else {
		body = nil
	}
	return header, body
}
