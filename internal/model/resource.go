package model

type ResourceType string

const (
	ResourcePDF   ResourceType = "PDF"
	ResourceVideo ResourceType = "Video"
	ResourcePPT   ResourceType = "PPT"
	ResourceLink  ResourceType = "Link"
)

func (t ResourceType) Valid() bool {
	switch t {
	case ResourcePDF, ResourceVideo, ResourcePPT, ResourceLink:
		return true
	default:
		return false
	}
}

type Resource struct {
	BaseModel
	LessonID     uint         `gorm:"not null;index" json:"lessonId"`
	Title        string       `gorm:"size:255;not null" json:"title"`
	ResourceType ResourceType `gorm:"size:50;not null" json:"resourceType"`
	FileURL      string       `gorm:"size:512" json:"fileUrl"`
	URL          string       `gorm:"size:512" json:"url"`
	Description  string       `gorm:"type:text" json:"description"`
}
