package catalog

import "strings"

const (
	defaultTitle   = "No title"
	defaultAuthors = "Unknown"
)

type searchResponse struct {
	TotalItems int              `json:"totalItems"`
	Items      []volumeResource `json:"items"`
}

type volumeResource struct {
	ID         string `json:"id"`
	VolumeInfo struct {
		Title       string   `json:"title"`
		Authors     []string `json:"authors"`
		Description string   `json:"description"`
		ImageLinks  struct {
			Thumbnail string `json:"thumbnail"`
		} `json:"imageLinks"`
	} `json:"volumeInfo"`
}

func (v volumeResource) toVolume() Volume {
	info := v.VolumeInfo

	title := info.Title
	if title == "" {
		title = defaultTitle
	}

	authors := defaultAuthors
	if len(info.Authors) > 0 {
		authors = strings.Join(info.Authors, ", ")
	}

	return Volume{
		GoogleBookID: v.ID,
		Title:        title,
		Authors:      authors,
		Description:  info.Description,
		Thumbnail:    info.ImageLinks.Thumbnail,
	}
}
